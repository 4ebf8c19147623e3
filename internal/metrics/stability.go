package metrics

import (
	"math"

	"github.com/san-kum/bounce/internal/body"
	"github.com/san-kum/bounce/internal/collide"
	"github.com/san-kum/bounce/internal/sim"
	"github.com/san-kum/bounce/internal/vec"
)

// Penetration reports the deepest overlap between any two bodies seen at
// the end of a frame, relative to the smaller radius of the pair. It
// measures how well the stabilization passes settle a scene.
type Penetration struct {
	name string
	max  float64
}

func NewPenetration() *Penetration {
	return &Penetration{name: "max_penetration"}
}

func (p *Penetration) Name() string { return p.name }

func (p *Penetration) Observe(w *sim.World) {
	collide.ForEachPair(w.Bodies, func(a, b *body.Body) {
		depth := a.Radius + b.Radius - math.Sqrt(vec.Norm2(a.VectorTo(b)))
		if depth <= 0 {
			return
		}
		p.max = math.Max(p.max, depth/math.Min(a.Radius, b.Radius))
	})
}

func (p *Penetration) Value() float64 { return p.max }

func (p *Penetration) Reset() { p.max = 0 }

// Escapes counts frames in which at least one body sat outside the walls
// after stabilization.
type Escapes struct {
	name       string
	violations int
	samples    int
}

func NewEscapes() *Escapes {
	return &Escapes{name: "contained"}
}

func (s *Escapes) Name() string { return s.name }

func (s *Escapes) Observe(w *sim.World) {
	s.samples++
	bd := w.Params.Bounds
	for _, b := range w.Bodies {
		if b.Pos.X+b.Radius > bd.Right+1e-9 || b.Pos.X-b.Radius < bd.Left-1e-9 ||
			b.Pos.Y+b.Radius > bd.Bottom+1e-9 || b.Pos.Y-b.Radius < bd.Top-1e-9 {
			s.violations++
			return
		}
	}
}

// Value is the fraction of frames with every body inside the walls.
func (s *Escapes) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Escapes) Reset() {
	s.violations = 0
	s.samples = 0
}

// Default returns the metrics every run records.
func Default() []sim.Metric {
	return []sim.Metric{NewEnergy(), NewEnergyDrift(), NewPenetration(), NewEscapes()}
}
