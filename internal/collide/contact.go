package collide

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/bounce/internal/body"
	"github.com/san-kum/bounce/internal/vec"
)

// ContactPolicy selects which tangency time a pair is rewound to.
type ContactPolicy int

const (
	// PolicyNearest picks the root closest to now in either direction.
	PolicyNearest ContactPolicy = iota
	// PolicyMostRecent picks the most negative root, the last time the
	// discs were tangent.
	PolicyMostRecent
)

func (p ContactPolicy) String() string {
	switch p {
	case PolicyNearest:
		return "nearest"
	case PolicyMostRecent:
		return "most_recent"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

func ParsePolicy(s string) (ContactPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nearest":
		return PolicyNearest, nil
	case "most_recent", "most-recent", "last":
		return PolicyMostRecent, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

// contactRoots solves a·t² + b·t + c = 0 with a = |Δv|², b = 2Δv·Δp and
// c = |Δp|² - R². Roots come back in ascending order; non-finite roots are
// dropped. With no relative motion there is no new tangency, so the pair
// only reports t=0 when it already overlaps.
func contactRoots(p, q *body.Body) (lo, hi float64, n int) {
	dp := p.VectorTo(q)
	dv := p.RelativeVelocity(q)
	r := p.Radius + q.Radius

	a := vec.Norm2(dv)
	b := 2 * vec.Dot(dv, dp)
	c := vec.Norm2(dp) - r*r

	if a == 0 {
		if c <= 0 {
			return 0, 0, 1
		}
		return 0, 0, 0
	}

	disc := b*b - 4*a*c
	if disc < 0 || math.IsNaN(disc) {
		return 0, 0, 0
	}
	sq := math.Sqrt(disc)
	t1 := (-b - sq) / (2 * a)
	t2 := (-b + sq) / (2 * a)

	if isFinite(t1) {
		lo, n = t1, 1
	}
	if isFinite(t2) {
		if n == 0 {
			lo = t2
		} else {
			hi = t2
		}
		n++
	}
	if n == 2 && hi < lo {
		lo, hi = hi, lo
	}
	return lo, hi, n
}

// ContactTimes returns every finite time offset at which p and q are
// exactly tangent, ascending. Negative offsets lie in the past.
func ContactTimes(p, q *body.Body) []float64 {
	lo, hi, n := contactRoots(p, q)
	switch n {
	case 0:
		return nil
	case 1:
		return []float64{lo}
	default:
		return []float64{lo, hi}
	}
}

// ContactTime applies the policy to the pair's roots. ok is false when
// the discs never touch along their current trajectories.
func (pol ContactPolicy) ContactTime(p, q *body.Body) (dt float64, ok bool) {
	lo, hi, n := contactRoots(p, q)
	if n == 0 {
		return 0, false
	}
	if n == 1 || pol == PolicyMostRecent {
		return lo, true
	}
	// First root wins a tie on |t|.
	if math.Abs(hi) < math.Abs(lo) {
		return hi, true
	}
	return lo, true
}

// NearestContactTime is PolicyNearest.ContactTime.
func NearestContactTime(p, q *body.Body) (float64, bool) {
	return PolicyNearest.ContactTime(p, q)
}

// LastContactTime is PolicyMostRecent.ContactTime.
func LastContactTime(p, q *body.Body) (float64, bool) {
	return PolicyMostRecent.ContactTime(p, q)
}

func isFinite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
