package sim

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/san-kum/bounce/internal/collide"
	"github.com/san-kum/bounce/internal/vec"
)

// Simulator drives a World frame by frame: gravity, integration, then
// the resolver's stabilization passes.
type Simulator struct {
	resolver  *collide.Resolver
	metrics   []Metric
	observers []Observer
	logger    *log.Logger
}

func New(resolver *collide.Resolver, logger *log.Logger) *Simulator {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Simulator{
		resolver:  resolver,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    logger,
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Resolver() *collide.Resolver { return s.resolver }

// SetResolver swaps the collision parameters between frames.
func (s *Simulator) SetResolver(r *collide.Resolver) { s.resolver = r }

// Step advances w by one frame of w.Params.Dt.
func (s *Simulator) Step(w *World) collide.Stats {
	dt := w.Params.Dt
	g := vec.New(0, w.Params.Gravity)
	for _, b := range w.Bodies {
		b.Accelerate(g, dt)
	}
	for _, b := range w.Bodies {
		b.Integrate(dt)
	}
	st := s.resolver.Stabilize(w.Bodies, w.Params.Bounds)

	w.Time += dt
	w.Frame++
	for _, o := range s.observers {
		o.OnFrame(w, st)
	}
	return st
}

// Run steps w until cfg.Duration has elapsed or ctx is done, recording
// energy samples and metric values.
func (s *Simulator) Run(ctx context.Context, w *World, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	every := cfg.SampleEvery
	if every <= 0 {
		every = 1
	}

	frames := int(math.Round(cfg.Duration / w.Params.Dt))
	result := &Result{
		Samples: make([]Sample, 0, frames/every+1),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	initialEnergy := w.TotalEnergy()
	result.Samples = append(result.Samples, w.sample(0))
	s.logger.Debug("run started", "bodies", len(w.Bodies), "frames", frames, "energy", initialEnergy)

	for i := 0; i < frames; i++ {
		select {
		case <-ctx.Done():
			s.finish(w, result, initialEnergy)
			return result, ctx.Err()
		default:
		}

		st := s.Step(w)
		result.Frames++
		result.Collisions += st.Collisions
		result.WallHits += st.WallHits

		if cfg.ValidateState {
			if idx := w.Validate(); idx >= 0 {
				err := &StepError{Frame: w.Frame, Time: w.Time, Body: idx, Wrapped: ErrInvalidState}
				result.Errors = append(result.Errors, err)
				s.logger.Error("invalid state", "err", err)
				break
			}
		}

		for _, m := range s.metrics {
			m.Observe(w)
		}
		if w.Frame%every == 0 {
			result.Samples = append(result.Samples, w.sample(st.Collisions))
		}
	}

	s.finish(w, result, initialEnergy)
	s.logger.Debug("run finished", "frames", result.Frames, "collisions", result.Collisions, "drift", result.EnergyDrift)
	return result, nil
}

func (s *Simulator) finish(w *World, result *Result, initialEnergy float64) {
	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(w.TotalEnergy()-initialEnergy) / math.Abs(initialEnergy)
	}
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

// RunWithCallback steps w and hands every frame to callback until it
// returns false, the duration elapses or ctx is done.
func (s *Simulator) RunWithCallback(ctx context.Context, w *World, cfg Config, callback func(*World, collide.Stats) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	end := w.Time + cfg.Duration
	for w.Time < end {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		st := s.Step(w)
		if cfg.ValidateState {
			if idx := w.Validate(); idx >= 0 {
				return &StepError{Frame: w.Frame, Time: w.Time, Body: idx, Wrapped: ErrInvalidState}
			}
		}
		if !callback(w, st) {
			return nil
		}
	}
	return nil
}

func validateConfig(cfg Config) error {
	if !(cfg.Duration > 0) {
		return fmt.Errorf("%w: duration must be positive, got %f", ErrParameterBounds, cfg.Duration)
	}
	return nil
}
