// Package collide resolves contacts between moving discs.
//
// The engine is built from four pieces:
//
//   - [ContactTimes] solves |Δp + t·Δv| = r1+r2 for t and a [ContactPolicy]
//     picks the root to rewind to.
//   - [ApplyImpulse] exchanges momentum along the contact normal for a
//     coefficient of restitution e in [0,1].
//   - [Resolver.ResolvePair] rewinds a pair to tangency, applies the impulse
//     and fast-forwards again with the new velocities.
//   - [Resolver.Stabilize] repeats wall reflection and all-pairs resolution a
//     fixed number of times per frame so dense clusters settle.
//
// Degenerate geometry (no real contact time, coincident centres, a
// non-finite intermediate) is a silent no-op; nothing in this package
// returns an error to the frame driver once a [Resolver] has been built.
//
// # Example
//
//	r, _ := collide.NewResolver(collide.DefaultOptions())
//	for frame := 0; frame < n; frame++ {
//		for _, b := range bodies {
//			b.Accelerate(gravity, dt)
//			b.Integrate(dt)
//		}
//		r.Stabilize(bodies, bounds)
//	}
//
// # Thread Safety
//
// A Resolver owns a scratch arena for deferred resolution and must not be
// shared between goroutines.
package collide
