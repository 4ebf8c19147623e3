package vec

import "math"

// TrigTable precomputes sine/cosine samples over one turn. Lookups
// interpolate linearly between neighbouring entries.
type TrigTable struct {
	sin []float64
	cos []float64
	n   int
}

// DefaultTrigTable has 4096 entries, about 0.0015 rad resolution.
var DefaultTrigTable = NewTrigTable(4096)

func NewTrigTable(n int) *TrigTable {
	if n < 2 {
		n = 2
	}
	t := &TrigTable{
		sin: make([]float64, n),
		cos: make([]float64, n),
		n:   n,
	}
	for i := 0; i < n; i++ {
		t.sin[i], t.cos[i] = math.Sincos(float64(i) * 2 * math.Pi / float64(n))
	}
	return t
}

// SinCos returns the interpolated sine and cosine of x.
func (t *TrigTable) SinCos(x float64) (sin, cos float64) {
	x = math.Mod(x, 2*math.Pi)
	if x < 0 {
		x += 2 * math.Pi
	}

	idx := x * float64(t.n) / (2 * math.Pi)
	i := int(idx)
	frac := idx - float64(i)

	i0 := i % t.n
	i1 := (i + 1) % t.n

	sin = t.sin[i0]*(1-frac) + t.sin[i1]*frac
	cos = t.cos[i0]*(1-frac) + t.cos[i1]*frac
	return
}

// Circle returns n points on a circle of radius r around c, using the
// table for the angle samples.
func (t *TrigTable) Circle(c Vec, r float64, n int) []Vec {
	if n < 1 {
		return nil
	}
	pts := make([]Vec, n)
	step := 2 * math.Pi / float64(n)
	for i := range pts {
		sin, cos := t.SinCos(float64(i) * step)
		pts[i] = Add(c, RotateCCW(Vec{X: r}, sin, cos))
	}
	return pts
}
