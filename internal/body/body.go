// Package body models a single circular point mass: kinematic state,
// integration, energy accounting and reflection off axis-aligned walls.
package body

import (
	"fmt"
	"math"

	"github.com/san-kum/bounce/internal/vec"
)

const DefaultColor = "red"

// Params is the construction contract handed over by the driver.
type Params struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	VX     float64 `json:"vx"`
	VY     float64 `json:"vy"`
	Radius float64 `json:"radius"`
	Mass   float64 `json:"mass"`
	Color  string  `json:"color"`
}

// Body is one simulated disc. Radius and Mass stay positive for the
// lifetime of the body; Color is display data the core never reads.
type Body struct {
	Pos    vec.Vec
	Vel    vec.Vec
	Radius float64
	Mass   float64
	Color  string
}

// New validates p and builds a Body. A zero Color becomes DefaultColor.
func New(p Params) (*Body, error) {
	if !(p.Radius > 0) || math.IsInf(p.Radius, 0) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidRadius, p.Radius)
	}
	if !(p.Mass > 0) || math.IsInf(p.Mass, 0) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidMass, p.Mass)
	}
	pos, vel := vec.New(p.X, p.Y), vec.New(p.VX, p.VY)
	if !vec.IsFinite(pos) || !vec.IsFinite(vel) {
		return nil, fmt.Errorf("%w: pos=%v vel=%v", ErrNonFinite, pos, vel)
	}
	color := p.Color
	if color == "" {
		color = DefaultColor
	}
	return &Body{Pos: pos, Vel: vel, Radius: p.Radius, Mass: p.Mass, Color: color}, nil
}

// MustNew is New for literals known to be valid, such as test fixtures.
func MustNew(p Params) *Body {
	b, err := New(p)
	if err != nil {
		panic(err)
	}
	return b
}

// Params returns the construction parameters that reproduce b.
func (b *Body) Params() Params {
	return Params{
		X: b.Pos.X, Y: b.Pos.Y,
		VX: b.Vel.X, VY: b.Vel.Y,
		Radius: b.Radius, Mass: b.Mass, Color: b.Color,
	}
}

// Integrate advances the position by vel*dt. dt may be negative.
func (b *Body) Integrate(dt float64) {
	b.Pos = vec.Add(b.Pos, vec.Scale(dt, b.Vel))
}

func (b *Body) Translate(d vec.Vec) { b.Pos = vec.Add(b.Pos, d) }

func (b *Body) SetPosition(p vec.Vec) { b.Pos = p }

func (b *Body) SetVelocity(v vec.Vec) { b.Vel = v }

// Accelerate applies a constant acceleration a over dt to the velocity.
func (b *Body) Accelerate(a vec.Vec, dt float64) { b.Vel = vec.Add(b.Vel, vec.Scale(dt, a)) }

// VectorTo is the displacement from b to other.
func (b *Body) VectorTo(other *Body) vec.Vec { return vec.Sub(other.Pos, b.Pos) }

// RelativeVelocity is other's velocity as seen from b.
func (b *Body) RelativeVelocity(other *Body) vec.Vec { return vec.Sub(other.Vel, b.Vel) }

func (b *Body) KineticEnergy() float64 {
	return 0.5 * b.Mass * vec.Norm2(b.Vel)
}

// PotentialEnergy is measured against refHeight in screen coordinates,
// where y grows downward and gravity g points along +y.
func (b *Body) PotentialEnergy(refHeight, g float64) float64 {
	return b.Mass * g * (refHeight - b.Pos.Y)
}

func (b *Body) Momentum() vec.Vec { return vec.Scale(b.Mass, b.Vel) }

// IsOverlapping reports whether the discs touch or intersect. The test is
// closed: exactly tangent bodies overlap, and a body overlaps itself.
func (b *Body) IsOverlapping(other *Body) bool {
	r := b.Radius + other.Radius
	return vec.Norm2(b.VectorTo(other)) <= r*r
}

// IsFinite reports whether position and velocity are free of NaN/Inf.
func (b *Body) IsFinite() bool {
	return vec.IsFinite(b.Pos) && vec.IsFinite(b.Vel)
}

func (b *Body) String() string {
	return fmt.Sprintf("body{pos=(%.3f,%.3f) vel=(%.3f,%.3f) r=%.3f m=%.3f}",
		b.Pos.X, b.Pos.Y, b.Vel.X, b.Vel.Y, b.Radius, b.Mass)
}
