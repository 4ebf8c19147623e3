package body

import "math"

// Bounds are the four axis-aligned walls in screen coordinates (Top <
// Bottom, Left < Right). Any side may be infinite to disable it.
type Bounds struct {
	Top    float64 `yaml:"top" json:"top"`
	Right  float64 `yaml:"right" json:"right"`
	Bottom float64 `yaml:"bottom" json:"bottom"`
	Left   float64 `yaml:"left" json:"left"`
}

// NewBounds returns a closed box with its origin in the top-left corner.
func NewBounds(width, height float64) Bounds {
	return Bounds{Top: 0, Right: width, Bottom: height, Left: 0}
}

// Unbounded disables every wall.
func Unbounded() Bounds {
	return Bounds{
		Top:    math.Inf(-1),
		Right:  math.Inf(1),
		Bottom: math.Inf(1),
		Left:   math.Inf(-1),
	}
}

// OpenTop returns b with the top wall removed.
func (b Bounds) OpenTop() Bounds {
	b.Top = math.Inf(-1)
	return b
}

func (b Bounds) Width() float64  { return b.Right - b.Left }
func (b Bounds) Height() float64 { return b.Bottom - b.Top }

// ReflectOffWalls clamps the body back inside every wall it has crossed
// and reverses the perpendicular velocity, scaled by bounce. Each wall is
// checked independently so a corner hit clamps both axes in one call.
// It reports whether any wall was hit.
func (b *Body) ReflectOffWalls(w Bounds, bounce float64) bool {
	hit := false
	if b.Pos.X+b.Radius > w.Right {
		b.Pos.X = w.Right - b.Radius
		b.Vel.X *= -bounce
		hit = true
	}
	if b.Pos.X-b.Radius < w.Left {
		b.Pos.X = w.Left + b.Radius
		b.Vel.X *= -bounce
		hit = true
	}
	if b.Pos.Y+b.Radius > w.Bottom {
		b.Pos.Y = w.Bottom - b.Radius
		b.Vel.Y *= -bounce
		hit = true
	}
	if b.Pos.Y-b.Radius < w.Top {
		b.Pos.Y = w.Top + b.Radius
		b.Vel.Y *= -bounce
		hit = true
	}
	return hit
}
