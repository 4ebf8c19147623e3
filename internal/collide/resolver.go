package collide

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/bounce/internal/body"
	"github.com/san-kum/bounce/internal/vec"
)

const (
	DefaultIterations  = 10
	DefaultRestitution = 1.0
	DefaultBounce      = 1.0
)

// Mode selects how the pairs of one stabilization pass are applied.
type Mode int

const (
	// ModeSequential resolves pairs in place, one after another.
	ModeSequential Mode = iota
	// ModeDeferred resolves every pair against the pre-pass state and
	// applies the averaged result, making the pass order independent.
	ModeDeferred
)

func (m Mode) String() string {
	switch m {
	case ModeSequential:
		return "sequential"
	case ModeDeferred:
		return "deferred"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sequential":
		return ModeSequential, nil
	case "deferred", "averaged":
		return ModeDeferred, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

type Options struct {
	// Restitution between bodies, in [0,1].
	Restitution float64
	// Bounce scales the reflected velocity at walls, in [0,1].
	Bounce float64
	// Iterations is the number of stabilization passes per frame.
	Iterations int
	Policy     ContactPolicy
	Mode       Mode
}

func DefaultOptions() Options {
	return Options{
		Restitution: DefaultRestitution,
		Bounce:      DefaultBounce,
		Iterations:  DefaultIterations,
		Policy:      PolicyNearest,
		Mode:        ModeSequential,
	}
}

func (o Options) Validate() error {
	if o.Restitution < 0 || o.Restitution > 1 {
		return fmt.Errorf("%w: restitution %v", ErrRestitution, o.Restitution)
	}
	if o.Bounce < 0 || o.Bounce > 1 {
		return fmt.Errorf("%w: bounce %v", ErrRestitution, o.Bounce)
	}
	if o.Iterations < 1 {
		return fmt.Errorf("%w: got %d", ErrIterations, o.Iterations)
	}
	if o.Policy != PolicyNearest && o.Policy != PolicyMostRecent {
		return fmt.Errorf("%w: %v", ErrUnknownPolicy, o.Policy)
	}
	if o.Mode != ModeSequential && o.Mode != ModeDeferred {
		return fmt.Errorf("%w: %v", ErrUnknownMode, o.Mode)
	}
	return nil
}

// Stats counts what a Stabilize call did.
type Stats struct {
	Passes     int
	Collisions int
	WallHits   int
}

func (s *Stats) add(o Stats) {
	s.Passes += o.Passes
	s.Collisions += o.Collisions
	s.WallHits += o.WallHits
}

// Resolver carries the collision parameters for a run. It holds exactly
// one contact policy for its lifetime.
type Resolver struct {
	opts    Options
	scratch scratch
	total   Stats
}

func NewResolver(opts Options) (*Resolver, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Resolver{opts: opts}, nil
}

func mustResolver(e float64) *Resolver {
	opts := DefaultOptions()
	opts.Restitution = e
	r, err := NewResolver(opts)
	if err != nil {
		panic(err)
	}
	return r
}

// Elastic returns a resolver with restitution 1.
func Elastic() *Resolver { return mustResolver(1) }

// Inelastic returns a resolver with restitution 0.
func Inelastic() *Resolver { return mustResolver(0) }

func (r *Resolver) Options() Options { return r.opts }

// Totals is the running sum of every Stabilize call on r.
func (r *Resolver) Totals() Stats { return r.total }

// contactTime decides whether the pair collides now and, if so, the
// offset to rewind to. Only touching or overlapping pairs collide; an
// overlapping pair always has a real root on either side of zero.
func (r *Resolver) contactTime(p, q *body.Body) (float64, bool) {
	if !p.IsOverlapping(q) {
		return 0, false
	}
	// The most negative root of a separating pair is the tangency on the
	// far side, after the discs passed through each other. Such a pair is
	// already resolving itself.
	if r.opts.Policy == PolicyMostRecent && vec.Dot(p.RelativeVelocity(q), p.VectorTo(q)) > 0 {
		return 0, false
	}
	dt, ok := r.opts.Policy.ContactTime(p, q)
	if !ok || !isFinite(dt) {
		return 0, false
	}
	return dt, true
}

// collideAt moves the pair to its contact time, applies the impulse and
// moves it back by the same offset with the new velocities. If the
// impulse fails the pair is restored untouched.
func collideAt(p, q *body.Body, dt, e float64) bool {
	pp, qp := p.Pos, q.Pos

	p.Integrate(dt)
	q.Integrate(dt)
	if err := ApplyImpulse(p, q, e); err != nil {
		p.Pos, q.Pos = pp, qp
		return false
	}
	p.Integrate(-dt)
	q.Integrate(-dt)

	if !p.IsFinite() || !q.IsFinite() {
		// Only reachable with absurd offsets; fall back to velocity only.
		p.Pos, q.Pos = pp, qp
	}
	return true
}

// ResolvePair resolves p against q for the current instant and reports
// whether a collision happened. Pairs that do not touch, or whose contact
// time cannot be computed, are left alone.
func (r *Resolver) ResolvePair(p, q *body.Body) bool {
	if p == q {
		return false
	}
	dt, ok := r.contactTime(p, q)
	if !ok {
		return false
	}
	return collideAt(p, q, dt, r.opts.Restitution)
}

// ResolveAllPairs resolves every unordered pair in place and returns the
// number of collisions.
func (r *Resolver) ResolveAllPairs(bodies []*body.Body) int {
	n := 0
	ForEachPair(bodies, func(p, q *body.Body) {
		if r.ResolvePair(p, q) {
			n++
		}
	})
	return n
}

// Stabilize runs the configured number of passes of wall reflection
// followed by all-pairs resolution.
func (r *Resolver) Stabilize(bodies []*body.Body, bounds body.Bounds) Stats {
	var st Stats
	for i := 0; i < r.opts.Iterations; i++ {
		for _, b := range bodies {
			if b.ReflectOffWalls(bounds, r.opts.Bounce) {
				st.WallHits++
			}
		}
		if r.opts.Mode == ModeDeferred {
			st.Collisions += r.ResolveAllPairsDeferred(bodies)
		} else {
			st.Collisions += r.ResolveAllPairs(bodies)
		}
		st.Passes++
	}
	r.total.add(st)
	return st
}

// ResolvePair resolves one pair with restitution e using the nearest
// contact policy. Restitution is clamped to [0,1].
func ResolvePair(p, q *body.Body, e float64) bool {
	return mustResolver(clamp01(e)).ResolvePair(p, q)
}

// ResolveAllPairs is ResolvePair over every unordered pair of bodies.
func ResolveAllPairs(bodies []*body.Body, e float64) int {
	return mustResolver(clamp01(e)).ResolveAllPairs(bodies)
}

func clamp01(f float64) float64 {
	switch {
	case f < 0 || math.IsNaN(f):
		return 0
	case f > 1:
		return 1
	}
	return f
}
