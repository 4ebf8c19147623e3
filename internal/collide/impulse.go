package collide

import (
	"github.com/san-kum/bounce/internal/body"
	"github.com/san-kum/bounce/internal/vec"
)

// ApplyImpulse exchanges momentum between p and q along the line joining
// their centres, assuming they are exactly tangent. Tangential velocity is
// untouched. e=1 conserves kinetic energy, e=0 equalises the normal
// components. Momentum is conserved for every e.
//
// On error neither body is modified.
func ApplyImpulse(p, q *body.Body, e float64) error {
	d := p.VectorTo(q)
	d2 := vec.Norm2(d)
	if d2 == 0 {
		return ErrCoincidentCenters
	}

	pn := vec.Scale(vec.Dot(p.Vel, d)/d2, d)
	qn := vec.Scale(vec.Dot(q.Vel, d)/d2, d)

	j := p.Mass * q.Mass / (p.Mass + q.Mass) * (1 + e)
	impulse := vec.Scale(j, vec.Sub(qn, pn))

	pv := vec.Add(p.Vel, vec.Scale(1/p.Mass, impulse))
	qv := vec.Sub(q.Vel, vec.Scale(1/q.Mass, impulse))
	if !vec.IsFinite(pv) || !vec.IsFinite(qv) {
		return ErrNonFinite
	}

	p.Vel, q.Vel = pv, qv
	return nil
}
