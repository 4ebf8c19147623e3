package collide

import (
	"github.com/san-kum/bounce/internal/body"
	"github.com/san-kum/bounce/internal/vec"
)

// scratch is the per-pass arena for deferred resolution, indexed by body
// slot. It is reused across passes and cleared at the start of each one.
type scratch struct {
	dv   []vec.Vec
	nv   []int
	pos  []vec.Vec
	npos []int
}

func (s *scratch) reset(n int) {
	if cap(s.dv) < n {
		s.dv = make([]vec.Vec, n)
		s.nv = make([]int, n)
		s.pos = make([]vec.Vec, n)
		s.npos = make([]int, n)
		return
	}
	s.dv, s.nv, s.pos, s.npos = s.dv[:n], s.nv[:n], s.pos[:n], s.npos[:n]
	clear(s.dv)
	clear(s.nv)
	clear(s.pos)
	clear(s.npos)
}

// propose records the outcome of one pair for body slot i.
func (s *scratch) propose(i int, before *body.Body, after body.Body, dt float64) {
	s.dv[i] = vec.Add(s.dv[i], vec.Sub(after.Vel, before.Vel))
	s.nv[i]++
	if dt != 0 {
		s.pos[i] = vec.Add(s.pos[i], after.Pos)
		s.npos[i]++
	}
}

// ResolveAllPairsDeferred resolves every pair against the state at the
// start of the call and then applies, per body, the mean velocity change
// and the mean corrected position over all of its partners. Bodies whose
// partners were all exactly tangent keep their position.
func (r *Resolver) ResolveAllPairsDeferred(bodies []*body.Body) int {
	r.scratch.reset(len(bodies))
	s := &r.scratch

	n := 0
	ForEachPairIndex(len(bodies), func(i, j int) {
		p, q := bodies[i], bodies[j]
		if p == q {
			return
		}
		dt, ok := r.contactTime(p, q)
		if !ok {
			return
		}
		pc, qc := *p, *q
		if !collideAt(&pc, &qc, dt, r.opts.Restitution) {
			return
		}
		s.propose(i, p, pc, dt)
		s.propose(j, q, qc, dt)
		n++
	})

	for i, b := range bodies {
		if s.nv[i] > 0 {
			b.Vel = vec.Add(b.Vel, vec.Mean(s.dv[i], s.nv[i]))
		}
		if s.npos[i] > 0 {
			b.Pos = vec.Mean(s.pos[i], s.npos[i])
		}
	}
	return n
}
