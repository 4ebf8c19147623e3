package collide_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/bounce/internal/body"
	"github.com/san-kum/bounce/internal/collide"
	"github.com/san-kum/bounce/internal/vec"
)

var _ = Describe("Resolver", func() {
	Describe("touching collision", func() {
		It("works for one-dimensional collision with equal velocities", func() {
			p, q := disc(0, 0, 1, 0), disc(2, 0, -1, 0)
			Expect(collide.Elastic().ResolvePair(p, q)).To(BeTrue())
			Expect(p.Vel.X).To(Equal(-1.0))
			Expect(q.Vel.X).To(Equal(1.0))
		})

		It("works for one-dimensional collision with different velocities", func() {
			p, q := disc(0, 0, 2, 0), disc(2, 0, -1, 0)
			collide.Elastic().ResolvePair(p, q)
			Expect(p.Vel.X).To(Equal(-1.0))
			Expect(q.Vel.X).To(Equal(2.0))
		})

		It("works for one-dimensional collision with different masses", func() {
			p, q := disc(0, 0, 1, 0), disc(2, 0, -1, 0)
			p.Mass = 2
			collide.Elastic().ResolvePair(p, q)
			Expect(p.Vel.X).To(BeNumerically("~", -1.0/3, roundingError))
			Expect(q.Vel.X).To(BeNumerically("~", 5.0/3, roundingError))
		})

		It("works in y-direction", func() {
			p, q := disc(0, 0, 0, 2), disc(0, 2, 0, -1)
			collide.Elastic().ResolvePair(p, q)
			Expect(p.Vel.Y).To(Equal(-1.0))
			Expect(q.Vel.Y).To(Equal(2.0))
		})

		It("works for non-center collisions", func() {
			p, q := disc(0, 0, 1, 0), disc(1.2, 1.6, 0, 0)
			Expect(collide.Elastic().ResolvePair(p, q)).To(BeTrue())
			Expect(q.Vel.Y/q.Vel.X).To(BeNumerically("~", q.Pos.Y/q.Pos.X, roundingError))
			Expect(p.Vel.Y/p.Vel.X).To(BeNumerically("~", -q.Pos.X/q.Pos.Y, roundingError))
		})

		It("preserves kinetic energy and momentum", func() {
			randomPairs(10, func(p, q *body.Body) {
				ke, mom := totalKinetic(p, q), totalMomentum(p, q)
				collide.ResolvePair(p, q, 1)
				Expect(totalKinetic(p, q)).To(BeNumerically("~", ke, roundingError))
				after := totalMomentum(p, q)
				Expect(after.X).To(BeNumerically("~", mom.X, roundingError))
				Expect(after.Y).To(BeNumerically("~", mom.Y, roundingError))
			})
		})
	})

	Describe("overlapping collision", func() {
		It("rewinds, collides and fast-forwards with the new velocities", func() {
			p, q := disc(0, 0, 1, 0), disc(1, 0, -1, 0)
			collide.Elastic().ResolvePair(p, q)
			Expect(p.Vel.X).To(Equal(-1.0))
			Expect(q.Vel.X).To(Equal(1.0))
			Expect(p.Pos.X).To(Equal(-1.0))
			Expect(q.Pos.X).To(Equal(2.0))
		})
	})

	Describe("inelastic collision", func() {
		It("collides totally inelastic in x-direction", func() {
			p, q := disc(0, 0, 1, 0), disc(2, 0, -1, 0)
			collide.Inelastic().ResolvePair(p, q)
			Expect(p.Vel.X).To(Equal(0.0))
			Expect(q.Vel.X).To(Equal(0.0))
		})

		It("collides totally inelastic in y-direction", func() {
			p, q := disc(0, 0, 0, 1), disc(0, 2, 0, -1)
			collide.Inelastic().ResolvePair(p, q)
			Expect(p.Vel.Y).To(Equal(0.0))
			Expect(q.Vel.Y).To(Equal(0.0))
		})

		It("collides totally inelastic in two dimensions", func() {
			p := disc(0, 0, 1, 1)
			q := disc(math.Sqrt2-0.01, math.Sqrt2-0.01, -1, -1)
			collide.Inelastic().ResolvePair(p, q)
			Expect(p.Vel.X).To(BeNumerically("~", q.Vel.X, roundingError))
			Expect(p.Vel.Y).To(BeNumerically("~", q.Vel.Y, roundingError))
			Expect(p.Vel.X).To(BeNumerically("~", 0, roundingError))
			Expect(p.Vel.Y).To(BeNumerically("~", 0, roundingError))
		})

		It("preserves momentum", func() {
			randomPairs(10, func(p, q *body.Body) {
				mom := totalMomentum(p, q)
				collide.ResolvePair(p, q, 0)
				after := totalMomentum(p, q)
				Expect(after.X).To(BeNumerically("~", mom.X, roundingError))
				Expect(after.Y).To(BeNumerically("~", mom.Y, roundingError))
			})
		})
	})

	Describe("partially inelastic collision", func() {
		kinetic := func(e float64) float64 {
			p, q := disc(0, 0, 1, 1), disc(2, 0, -1, 0)
			collide.ResolvePair(p, q, e)
			return totalKinetic(p, q)
		}

		It("loses kinetic energy according to restitution", func() {
			lo, hi := kinetic(0), kinetic(1)
			for _, e := range []float64{0.25, 0.5, math.Sqrt2 / 2, 0.9} {
				want := (1-e*e)*lo + e*e*hi
				Expect(kinetic(e)).To(BeNumerically("~", want, roundingError))
			}
		})

		It("is non-decreasing in restitution", func() {
			prev := kinetic(0)
			for e := 0.1; e <= 1.0; e += 0.1 {
				ke := kinetic(e)
				Expect(ke).To(BeNumerically(">=", prev-roundingError))
				prev = ke
			}
		})
	})

	Describe("no-op cases", func() {
		It("ignores separated bodies", func() {
			p, q := disc(0, 0, 1, 0), disc(3, 0, -1, 0)
			Expect(collide.Elastic().ResolvePair(p, q)).To(BeFalse())
			Expect(p.Vel).To(Equal(vec.New(1, 0)))
			Expect(q.Pos).To(Equal(vec.New(3, 0)))
		})

		It("ignores a body paired with itself", func() {
			p := disc(0, 0, 1, 0)
			Expect(collide.Elastic().ResolvePair(p, p)).To(BeFalse())
		})

		It("ignores coincident centres", func() {
			p, q := disc(0, 0, 1, 0), disc(0, 0, 1, 0)
			Expect(collide.Elastic().ResolvePair(p, q)).To(BeFalse())
			Expect(p.IsFinite()).To(BeTrue())
			Expect(q.IsFinite()).To(BeTrue())
		})
	})

	Describe("NewResolver", func() {
		DescribeTable("validates options",
			func(mutate func(*collide.Options), want error) {
				opts := collide.DefaultOptions()
				mutate(&opts)
				_, err := collide.NewResolver(opts)
				Expect(err).To(MatchError(want))
			},
			Entry("restitution above one", func(o *collide.Options) { o.Restitution = 1.5 }, collide.ErrRestitution),
			Entry("negative bounce", func(o *collide.Options) { o.Bounce = -0.1 }, collide.ErrRestitution),
			Entry("zero iterations", func(o *collide.Options) { o.Iterations = 0 }, collide.ErrIterations),
			Entry("bad mode", func(o *collide.Options) { o.Mode = collide.Mode(7) }, collide.ErrUnknownMode),
		)
	})

	Describe("ResolveAllPairs", func() {
		It("visits every pair once", func() {
			bodies := []*body.Body{disc(0, 0, 1, 0), disc(1.5, 0, -1, 0), disc(40, 0, 0, 0)}
			Expect(collide.ResolveAllPairs(bodies, 1)).To(Equal(1))
		})
	})

	Describe("Stabilize", func() {
		bounds := body.NewBounds(20, 20)

		It("separates a head-on pair and stops colliding", func() {
			p, q := disc(4, 10, 1, 0), disc(5.5, 10, -1, 0)
			r := collide.Elastic()
			st := r.Stabilize([]*body.Body{p, q}, bounds)
			Expect(st.Passes).To(Equal(collide.DefaultIterations))
			Expect(st.Collisions).To(Equal(1))
			Expect(p.Vel.X).To(Equal(-1.0))
			Expect(q.Vel.X).To(Equal(1.0))
			Expect(p.IsOverlapping(q)).To(BeFalse())
			Expect(r.Totals()).To(Equal(st))
		})

		It("reflects bodies off the walls every pass", func() {
			p := disc(19.5, 19.5, 3, 3)
			st := collide.Elastic().Stabilize([]*body.Body{p}, bounds)
			Expect(st.WallHits).To(Equal(1))
			Expect(p.Pos).To(Equal(vec.New(19, 19)))
			Expect(p.Vel).To(Equal(vec.New(-3, -3)))
		})
	})

	Describe("most recent policy", func() {
		mostRecent := func(mode collide.Mode) *collide.Resolver {
			opts := collide.DefaultOptions()
			opts.Policy = collide.PolicyMostRecent
			opts.Mode = mode
			r, err := collide.NewResolver(opts)
			Expect(err).NotTo(HaveOccurred())
			return r
		}

		It("resolves an approaching overlap like the nearest policy", func() {
			p, q := disc(0, 0, 1, 0), disc(1, 0, -1, 0)
			Expect(mostRecent(collide.ModeSequential).ResolvePair(p, q)).To(BeTrue())
			Expect(p.Pos.X).To(Equal(-1.0))
			Expect(q.Pos.X).To(Equal(2.0))
			Expect(p.Vel.X).To(Equal(-1.0))
			Expect(q.Vel.X).To(Equal(1.0))
		})

		DescribeTable("leaves separating pairs in order",
			func(p, q *body.Body) {
				pp, qp := p.Pos, q.Pos
				pv, qv := p.Vel, q.Vel
				Expect(mostRecent(collide.ModeSequential).ResolvePair(p, q)).To(BeFalse())
				Expect(p.Pos).To(Equal(pp))
				Expect(q.Pos).To(Equal(qp))
				Expect(p.Vel).To(Equal(pv))
				Expect(q.Vel).To(Equal(qv))
				Expect(p.Pos.X).To(BeNumerically("<", q.Pos.X))
			},
			Entry("overlapping and separating", disc(0, 0, -1, 0), disc(1, 0, 1, 0)),
			Entry("tangent and separating", disc(0, 0, -1, 0), disc(2, 0, 0, 0)),
		)

		DescribeTable("keeps a stabilized line in order",
			func(mode collide.Mode) {
				a, b, c := disc(4, 10, 1, 0), disc(5.5, 10, -1, 0), disc(7, 10, 1, 0)
				bodies := []*body.Body{a, b, c}
				st := mostRecent(mode).Stabilize(bodies, body.Unbounded())
				Expect(st.Collisions).To(BeNumerically(">=", 1))
				Expect(a.Pos.X).To(BeNumerically("<", b.Pos.X))
				Expect(b.Pos.X).To(BeNumerically("<", c.Pos.X))
				Expect(a.IsOverlapping(b)).To(BeFalse())
			},
			Entry("sequential", collide.ModeSequential),
			Entry("deferred", collide.ModeDeferred),
		)
	})
})

var _ = Describe("ForEachPair", func() {
	count := func(n int) int {
		calls := 0
		collide.ForEachPair(make([]int, n), func(a, b int) { calls++ })
		return calls
	}

	It("does not call for empty and single-element slices", func() {
		Expect(count(0)).To(BeZero())
		Expect(count(1)).To(BeZero())
	})

	It("calls once with both elements for two elements", func() {
		var got [][2]int
		collide.ForEachPair([]int{1, 2}, func(a, b int) { got = append(got, [2]int{a, b}) })
		Expect(got).To(Equal([][2]int{{1, 2}}))
	})

	It("does n(n-1)/2 calls", func() {
		for _, n := range []int{5, 10, 30} {
			Expect(count(n)).To(Equal(collide.PairCount(n)))
			Expect(count(n)).To(Equal(n * (n - 1) / 2))
		}
	})
})
