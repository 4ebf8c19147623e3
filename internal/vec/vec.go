// Package vec holds the 2D kinematics primitives shared by bodies and the
// collision engine. Arithmetic is delegated to gonum's r2 package; this
// package adds rotation helpers and finiteness checks.
package vec

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vec is a position, velocity or displacement in the plane.
type Vec = r2.Vec

func New(x, y float64) Vec { return Vec{X: x, Y: y} }

func Add(a, b Vec) Vec { return r2.Add(a, b) }

func Sub(a, b Vec) Vec { return r2.Sub(a, b) }

func Scale(f float64, v Vec) Vec { return r2.Scale(f, v) }

func Dot(a, b Vec) float64 { return r2.Dot(a, b) }

func Norm(v Vec) float64 { return r2.Norm(v) }

func Norm2(v Vec) float64 { return r2.Norm2(v) }

// Mean divides an accumulated sum by n.
func Mean(sum Vec, n int) Vec { return r2.Scale(1/float64(n), sum) }

// Equal reports whether a and b agree component-wise within tol.
func Equal(a, b Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol
}

// IsFinite reports whether both components are neither NaN nor Inf.
func IsFinite(v Vec) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

// Rotate turns v counter-clockwise by angle radians.
func Rotate(v Vec, angle float64) Vec {
	sin, cos := math.Sincos(angle)
	return RotateCCW(v, sin, cos)
}

// RotateCCW rotates v counter-clockwise using a precomputed sine/cosine pair.
func RotateCCW(v Vec, sin, cos float64) Vec {
	return Vec{
		X: v.X*cos - v.Y*sin,
		Y: v.Y*cos + v.X*sin,
	}
}

// RotateCW is the inverse of RotateCCW for the same sine/cosine pair.
func RotateCW(v Vec, sin, cos float64) Vec {
	return Vec{
		X: v.X*cos + v.Y*sin,
		Y: v.Y*cos - v.X*sin,
	}
}
