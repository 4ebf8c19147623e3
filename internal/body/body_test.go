package body_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/bounce/internal/body"
	"github.com/san-kum/bounce/internal/vec"
)

var _ = Describe("Body", func() {
	params := body.Params{X: 1, Y: -2, VX: 3, VY: -1, Radius: 3, Mass: 1}
	var b *body.Body

	BeforeEach(func() {
		b = body.MustNew(params)
	})

	Describe("New", func() {
		It("defaults the colour", func() {
			Expect(b.Color).To(Equal(body.DefaultColor))
		})

		DescribeTable("rejects non-physical input",
			func(p body.Params, want error) {
				_, err := body.New(p)
				Expect(err).To(MatchError(want))
			},
			Entry("zero radius", body.Params{Radius: 0, Mass: 1}, body.ErrInvalidRadius),
			Entry("negative radius", body.Params{Radius: -1, Mass: 1}, body.ErrInvalidRadius),
			Entry("NaN radius", body.Params{Radius: math.NaN(), Mass: 1}, body.ErrInvalidRadius),
			Entry("zero mass", body.Params{Radius: 1, Mass: 0}, body.ErrInvalidMass),
			Entry("infinite mass", body.Params{Radius: 1, Mass: math.Inf(1)}, body.ErrInvalidMass),
			Entry("NaN velocity", body.Params{Radius: 1, Mass: 1, VX: math.NaN()}, body.ErrNonFinite),
		)

		It("round-trips through Params", func() {
			Expect(body.MustNew(b.Params())).To(Equal(b))
		})
	})

	Describe("Integrate", func() {
		It("moves by velocity vector", func() {
			b.Integrate(2)
			Expect(b.Pos).To(Equal(vec.New(7, -4)))
		})

		It("moves backwards for negative dt", func() {
			b.Integrate(-1)
			Expect(b.Pos).To(Equal(vec.New(-2, -1)))
		})
	})

	Describe("Translate", func() {
		It("adds translation vector", func() {
			b.Translate(vec.New(10, 10))
			Expect(b.Pos).To(Equal(vec.New(11, 8)))
		})
	})

	Describe("SetPosition and SetVelocity", func() {
		It("sets position", func() {
			b.SetPosition(vec.New(10, 10))
			Expect(b.Pos).To(Equal(vec.New(10, 10)))
		})

		It("sets velocity", func() {
			b.SetVelocity(vec.New(10, 10))
			Expect(b.Vel).To(Equal(vec.New(10, 10)))
		})
	})

	Describe("KineticEnergy", func() {
		It("works for simple numbers", func() {
			b.Mass = 2
			b.Vel = vec.New(3, 4)
			Expect(b.KineticEnergy()).To(Equal(25.0))
		})

		It("is linear in mass", func() {
			initial := b.KineticEnergy()
			b.Mass *= 7
			Expect(b.KineticEnergy()).To(Equal(7 * initial))
		})

		It("is quadratic in velocity", func() {
			initial := b.KineticEnergy()
			b.Vel = vec.Scale(3, b.Vel)
			Expect(b.KineticEnergy()).To(Equal(9 * initial))
		})
	})

	Describe("PotentialEnergy", func() {
		It("grows with height above the reference", func() {
			b.Mass = 2
			b.Pos = vec.New(0, 10)
			Expect(b.PotentialEnergy(100, 9.81)).To(BeNumerically("~", 2*9.81*90, 1e-9))
			Expect(b.PotentialEnergy(10, 9.81)).To(BeZero())
		})
	})

	Describe("ReflectOffWalls", func() {
		walls := body.Bounds{Top: -10, Right: 10, Bottom: 10, Left: -10}

		BeforeEach(func() {
			b.Pos = vec.New(0, 0)
			b.Radius = 5
		})

		It("does not collide when inside", func() {
			before := *b
			Expect(b.ReflectOffWalls(walls, 1)).To(BeFalse())
			Expect(*b).To(Equal(before))
		})

		DescribeTable("clamps to the crossed wall",
			func(start, want vec.Vec) {
				b.Pos = start
				Expect(b.ReflectOffWalls(walls, 1)).To(BeTrue())
				Expect(b.Pos).To(Equal(want))
			},
			Entry("left", vec.New(-8, 0), vec.New(-5, 0)),
			Entry("right", vec.New(8, 0), vec.New(5, 0)),
			Entry("top", vec.New(0, -8), vec.New(0, -5)),
			Entry("bottom", vec.New(0, 8), vec.New(0, 5)),
		)

		It("changes velocity magnitude and direction", func() {
			b.Pos = vec.New(8, 0)
			b.Vel = vec.New(10, 0)
			b.ReflectOffWalls(walls, 0.5)
			Expect(b.Vel.X).To(Equal(-5.0))
		})

		It("collides with a corner on both axes", func() {
			b.Pos = vec.New(8, 8)
			b.Vel = vec.New(4, 2)
			b.ReflectOffWalls(walls, 0.5)
			Expect(b.Pos).To(Equal(vec.New(walls.Right-b.Radius, walls.Bottom-b.Radius)))
			Expect(b.Vel).To(Equal(vec.New(-2, -1)))
		})

		It("ignores infinite walls", func() {
			b.Pos = vec.New(0, -1e9)
			Expect(b.ReflectOffWalls(walls.OpenTop(), 1)).To(BeFalse())
			Expect(b.Pos.Y).To(Equal(-1e9))
		})
	})

	Describe("IsOverlapping", func() {
		at := func(x float64) *body.Body {
			return body.MustNew(body.Params{X: x, Radius: 1, Mass: 1})
		}

		It("overlaps itself", func() {
			Expect(b.IsOverlapping(b)).To(BeTrue())
		})

		It("does not overlap outside radius", func() {
			Expect(at(0).IsOverlapping(at(3))).To(BeFalse())
		})

		It("overlaps when exactly touching", func() {
			Expect(at(0).IsOverlapping(at(2))).To(BeTrue())
		})

		It("overlaps when touching slightly", func() {
			Expect(at(0).IsOverlapping(at(1.999))).To(BeTrue())
		})

		It("does not overlap when separated slightly", func() {
			Expect(at(0).IsOverlapping(at(2.001))).To(BeFalse())
		})

		It("is symmetric", func() {
			p, q := at(0), at(1.5)
			Expect(p.IsOverlapping(q)).To(Equal(q.IsOverlapping(p)))
		})
	})

	Describe("kinematic helpers", func() {
		It("measures displacement and relative velocity", func() {
			other := body.MustNew(body.Params{X: 4, Y: 2, VX: 1, VY: 1, Radius: 1, Mass: 1})
			Expect(b.VectorTo(other)).To(Equal(vec.New(3, 4)))
			Expect(b.RelativeVelocity(other)).To(Equal(vec.New(-2, 2)))
		})
	})
})
