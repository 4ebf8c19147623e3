package vec_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/bounce/internal/vec"
)

const tol = 1e-8

func expectVec(got, want vec.Vec) {
	GinkgoHelper()
	Expect(got.X).To(BeNumerically("~", want.X, tol))
	Expect(got.Y).To(BeNumerically("~", want.Y, tol))
}

var _ = Describe("RotateCCW", func() {
	DescribeTable("rotates by angle",
		func(v vec.Vec, angle float64, want vec.Vec) {
			sin, cos := math.Sincos(angle)
			expectVec(vec.RotateCCW(v, sin, cos), want)
			expectVec(vec.Rotate(v, angle), want)
		},
		Entry("0 degrees", vec.New(1, 2), 0.0, vec.New(1, 2)),
		Entry("90 degrees", vec.New(1, 0), math.Pi/2, vec.New(0, 1)),
		Entry("45 degrees", vec.New(1, 0), math.Pi/4, vec.New(math.Sqrt2/2, math.Sqrt2/2)),
		Entry("360 degrees", vec.New(1, 2), 2*math.Pi, vec.New(1, 2)),
	)
})

var _ = Describe("RotateCW", func() {
	DescribeTable("rotates by angle",
		func(v vec.Vec, angle float64, want vec.Vec) {
			sin, cos := math.Sincos(angle)
			expectVec(vec.RotateCW(v, sin, cos), want)
		},
		Entry("0 degrees", vec.New(1, 2), 0.0, vec.New(1, 2)),
		Entry("90 degrees", vec.New(1, 0), math.Pi/2, vec.New(0, -1)),
		Entry("45 degrees", vec.New(1, 0), math.Pi/4, vec.New(math.Sqrt2/2, -math.Sqrt2/2)),
		Entry("360 degrees", vec.New(1, 2), 2*math.Pi, vec.New(1, 2)),
	)

	It("undoes RotateCCW", func() {
		for _, angle := range []float64{0.1, 1, 2.5, -4, 17} {
			sin, cos := math.Sincos(angle)
			v := vec.New(3.5, -1.25)
			expectVec(vec.RotateCW(vec.RotateCCW(v, sin, cos), sin, cos), v)
		}
	})
})

var _ = Describe("helpers", func() {
	It("reports finiteness", func() {
		Expect(vec.IsFinite(vec.New(1, 2))).To(BeTrue())
		Expect(vec.IsFinite(vec.New(math.NaN(), 0))).To(BeFalse())
		Expect(vec.IsFinite(vec.New(0, math.Inf(-1)))).To(BeFalse())
	})

	It("averages a sum", func() {
		expectVec(vec.Mean(vec.New(6, -3), 3), vec.New(2, -1))
	})
})

var _ = Describe("TrigTable", func() {
	It("tracks math.Sincos closely", func() {
		table := vec.NewTrigTable(4096)
		for _, x := range []float64{0, 0.3, 1, math.Pi, -2, 7} {
			sin, cos := table.SinCos(x)
			Expect(sin).To(BeNumerically("~", math.Sin(x), 1e-5))
			Expect(cos).To(BeNumerically("~", math.Cos(x), 1e-5))
		}
	})

	It("samples points on a circle", func() {
		pts := vec.DefaultTrigTable.Circle(vec.New(5, 5), 2, 16)
		Expect(pts).To(HaveLen(16))
		for _, p := range pts {
			Expect(vec.Norm(vec.Sub(p, vec.New(5, 5)))).To(BeNumerically("~", 2, 1e-4))
		}
	})
})
