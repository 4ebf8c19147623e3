package collide_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/bounce/internal/body"
	"github.com/san-kum/bounce/internal/collide"
	"github.com/san-kum/bounce/internal/vec"
)

func totalKinetic(bs ...*body.Body) float64 {
	sum := 0.0
	for _, b := range bs {
		sum += b.KineticEnergy()
	}
	return sum
}

func totalMomentum(bs ...*body.Body) vec.Vec {
	var sum vec.Vec
	for _, b := range bs {
		sum = vec.Add(sum, b.Momentum())
	}
	return sum
}

// randomPairs yields overlapping pairs with random velocities and masses.
func randomPairs(n int, fn func(p, q *body.Body)) {
	rng := rand.New(rand.NewSource(GinkgoRandomSeed()))
	rv := func() float64 { return rng.Float64()*10 - 5 }
	for i := 0; i < n; i++ {
		angle := rng.Float64() * 2 * math.Pi
		d := 1.5 + rng.Float64()*0.49
		p := body.MustNew(body.Params{VX: rv(), VY: rv(), Radius: 1, Mass: 0.5 + rng.Float64()*5})
		q := body.MustNew(body.Params{
			X: d * math.Cos(angle), Y: d * math.Sin(angle),
			VX: rv(), VY: rv(), Radius: 1, Mass: 0.5 + rng.Float64()*5,
		})
		fn(p, q)
	}
}

var _ = Describe("ApplyImpulse", func() {
	It("exchanges velocities for equal masses head on", func() {
		p, q := disc(0, 0, 1, 0), disc(2, 0, -1, 0)
		Expect(collide.ApplyImpulse(p, q, 1)).To(Succeed())
		Expect(p.Vel).To(Equal(vec.New(-1, 0)))
		Expect(q.Vel).To(Equal(vec.New(1, 0)))
	})

	It("leaves tangential velocity alone", func() {
		p, q := disc(0, 0, 1, 1), disc(2, 0, -1, 0)
		Expect(collide.ApplyImpulse(p, q, 0)).To(Succeed())
		Expect(p.Vel.Y).To(Equal(1.0))
		Expect(p.Vel.X).To(Equal(q.Vel.X))
	})

	It("refuses coincident centres without touching the bodies", func() {
		p, q := disc(1, 1, 1, 0), disc(1, 1, -1, 0)
		Expect(collide.ApplyImpulse(p, q, 1)).To(MatchError(collide.ErrCoincidentCenters))
		Expect(p.Vel).To(Equal(vec.New(1, 0)))
		Expect(q.Vel).To(Equal(vec.New(-1, 0)))
	})

	It("conserves momentum for every restitution", func() {
		for _, e := range []float64{0, 0.3, 0.9, 1} {
			randomPairs(10, func(p, q *body.Body) {
				before := totalMomentum(p, q)
				Expect(collide.ApplyImpulse(p, q, e)).To(Succeed())
				after := totalMomentum(p, q)
				Expect(after.X).To(BeNumerically("~", before.X, roundingError))
				Expect(after.Y).To(BeNumerically("~", before.Y, roundingError))
			})
		}
	})

	It("conserves kinetic energy when elastic", func() {
		randomPairs(10, func(p, q *body.Body) {
			before := totalKinetic(p, q)
			Expect(collide.ApplyImpulse(p, q, 1)).To(Succeed())
			Expect(totalKinetic(p, q)).To(BeNumerically("~", before, roundingError))
		})
	})
})
