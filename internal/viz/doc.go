// Package viz renders a running simulation in the terminal.
//
// [Model] is a Bubble Tea program that steps a [sim.World] at 60 frames
// per second, draws every body on a braille [Canvas] and charts kinetic
// and total energy with asciigraph. When given a [config.Watcher] it
// applies edited physics settings without restarting.
//
// # Key Bindings
//
//	Space  - Pause/Resume
//	N      - Single step while paused
//	R      - Reset to the initial world
//	Up/K   - Restitution +0.05
//	Down/J - Restitution -0.05
//	M      - Toggle sequential/deferred resolution
//	P      - Toggle nearest/most-recent contact policy
//	Q      - Quit
package viz
