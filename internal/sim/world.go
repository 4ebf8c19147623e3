package sim

import (
	"fmt"
	"math"

	"github.com/san-kum/bounce/internal/body"
	"github.com/san-kum/bounce/internal/vec"
)

// Params are the scalar simulation parameters of a world.
type Params struct {
	// Gravity is the downward (+y) acceleration.
	Gravity float64
	Dt      float64
	Bounds  body.Bounds
}

// World is the explicit frame state handed to the simulator: the bodies
// plus the parameters they move under. It is owned by the driver.
type World struct {
	Bodies []*body.Body
	Params Params
	Time   float64
	Frame  int
}

func NewWorld(bodies []*body.Body, p Params) (*World, error) {
	if !(p.Dt > 0) || math.IsInf(p.Dt, 0) {
		return nil, fmt.Errorf("%w: dt must be positive, got %v", ErrParameterBounds, p.Dt)
	}
	if math.IsNaN(p.Gravity) || math.IsInf(p.Gravity, 0) {
		return nil, fmt.Errorf("%w: gravity must be finite, got %v", ErrParameterBounds, p.Gravity)
	}
	if !(p.Bounds.Right > p.Bounds.Left) || !(p.Bounds.Bottom > p.Bounds.Top) {
		return nil, fmt.Errorf("%w: empty bounds %+v", ErrParameterBounds, p.Bounds)
	}
	for i, b := range bodies {
		if b == nil {
			return nil, fmt.Errorf("%w: body %d is nil", ErrParameterBounds, i)
		}
	}
	return &World{Bodies: bodies, Params: p}, nil
}

// Clone deep-copies the world so it can be restored later.
func (w *World) Clone() *World {
	c := &World{
		Bodies: make([]*body.Body, len(w.Bodies)),
		Params: w.Params,
		Time:   w.Time,
		Frame:  w.Frame,
	}
	for i, b := range w.Bodies {
		cp := *b
		c.Bodies[i] = &cp
	}
	return c
}

// RefHeight is the height potential energy is measured against: the
// bottom wall, or zero when the floor is open.
func (w *World) RefHeight() float64 {
	if math.IsInf(w.Params.Bounds.Bottom, 0) {
		return 0
	}
	return w.Params.Bounds.Bottom
}

func (w *World) KineticEnergy() float64 {
	e := 0.0
	for _, b := range w.Bodies {
		e += b.KineticEnergy()
	}
	return e
}

func (w *World) PotentialEnergy() float64 {
	ref := w.RefHeight()
	e := 0.0
	for _, b := range w.Bodies {
		e += b.PotentialEnergy(ref, w.Params.Gravity)
	}
	return e
}

func (w *World) TotalEnergy() float64 {
	return w.KineticEnergy() + w.PotentialEnergy()
}

func (w *World) Momentum() vec.Vec {
	var p vec.Vec
	for _, b := range w.Bodies {
		p = vec.Add(p, b.Momentum())
	}
	return p
}

// Validate returns the index of the first non-finite body, or -1.
func (w *World) Validate() int {
	for i, b := range w.Bodies {
		if !b.IsFinite() {
			return i
		}
	}
	return -1
}

func (w *World) sample(collisions int) Sample {
	ke := w.KineticEnergy()
	return Sample{
		Time:       w.Time,
		Kinetic:    ke,
		Total:      ke + w.PotentialEnergy(),
		Collisions: collisions,
	}
}
