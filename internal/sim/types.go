package sim

import (
	"fmt"

	"github.com/san-kum/bounce/internal/collide"
)

// Metric accumulates a scalar over the frames of a run.
type Metric interface {
	Name() string
	Observe(w *World)
	Value() float64
	Reset()
}

// Observer is told about every finished frame, after stabilization.
type Observer interface {
	OnFrame(w *World, st collide.Stats)
}

type Config struct {
	Duration float64
	// SampleEvery records an energy sample every n frames; 0 means 1.
	SampleEvery int
	// ValidateState aborts the run when a body ends a frame non-finite.
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Duration:      10.0,
		SampleEvery:   1,
		ValidateState: true,
	}
}

// Sample is one point of the energy chart.
type Sample struct {
	Time       float64 `json:"time"`
	Kinetic    float64 `json:"kinetic"`
	Total      float64 `json:"total"`
	Collisions int     `json:"collisions"`
}

type Result struct {
	Samples     []Sample
	Metrics     map[string]float64
	Frames      int
	Collisions  int
	WallHits    int
	EnergyDrift float64
	Errors      []error
}

// StepError reports a frame that left the world in an invalid state.
type StepError struct {
	Frame   int
	Time    float64
	Body    int
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("frame %d (t=%.4f) body %d: %v", e.Frame, e.Time, e.Body, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
