package collide_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/bounce/internal/body"
	"github.com/san-kum/bounce/internal/collide"
)

const roundingError = 1e-8

func disc(x, y, vx, vy float64) *body.Body {
	return body.MustNew(body.Params{X: x, Y: y, VX: vx, VY: vy, Radius: 1, Mass: 1})
}

var _ = Describe("NearestContactTime", func() {
	DescribeTable("picks the root closest to now",
		func(p, q *body.Body, want float64) {
			dt, ok := collide.NearestContactTime(p, q)
			Expect(ok).To(BeTrue())
			Expect(dt).To(Equal(want))
		},
		Entry("touching static target", disc(0, 0, 1, 0), disc(2, 0, 0, 0), 0.0),
		Entry("overlapping with equal speed", disc(0, 0, 1, 0), disc(1, 0, -1, 0), -0.5),
		Entry("overlapping along x", disc(0, 0, 3, 0), disc(1, 0, -1, 0), -0.25),
		Entry("overlapping along y", disc(0, 0, 0, 3), disc(0, 1, 0, -1), -0.25),
		Entry("separated and approaching", disc(0, 0, 1, 0), disc(3, 0, -1, 0), 0.5),
		Entry("separated and separating", disc(0, 0, -1, 0), disc(3, 0, 1, 0), -0.5),
		Entry("upcoming touch is nearer", disc(0, 0, 1, 0), disc(-0.5, 0, 0, 0), 1.5),
	)

	It("finds the last contact for diagonal movement", func() {
		dt, ok := collide.NearestContactTime(disc(0, 0, 1, 1), disc(1, 1, -1, -1))
		Expect(ok).To(BeTrue())
		Expect(dt).To(BeNumerically("~", -0.207106781, roundingError))
	})

	It("is symmetric in its arguments", func() {
		p, q := disc(0, 0, 3, 1), disc(1.2, 0.4, -1, 0.5)
		a, _ := collide.NearestContactTime(p, q)
		b, _ := collide.NearestContactTime(q, p)
		Expect(a).To(BeNumerically("~", b, roundingError))
	})
})

var _ = Describe("LastContactTime", func() {
	It("rewinds to the most recent past contact", func() {
		dt, ok := collide.LastContactTime(disc(0, 0, 1, 0), disc(-0.5, 0, 0, 0))
		Expect(ok).To(BeTrue())
		Expect(dt).To(Equal(-2.5))
	})

	It("agrees with the nearest policy for a plain overlap", func() {
		dt, _ := collide.LastContactTime(disc(0, 0, 1, 0), disc(1, 0, -1, 0))
		Expect(dt).To(Equal(-0.5))
	})
})

var _ = Describe("ContactTimes", func() {
	It("returns both roots in ascending order", func() {
		Expect(collide.ContactTimes(disc(0, 0, 1, 0), disc(1, 0, -1, 0))).To(Equal([]float64{-0.5, 1.5}))
	})

	It("reports no contact when the discs miss", func() {
		p, q := disc(0, 0, 1, 0), disc(0, 5, -1, 0)
		Expect(collide.ContactTimes(p, q)).To(BeEmpty())
		_, ok := collide.NearestContactTime(p, q)
		Expect(ok).To(BeFalse())
	})

	It("reports no contact without relative motion when apart", func() {
		_, ok := collide.NearestContactTime(disc(0, 0, 1, 1), disc(5, 0, 1, 1))
		Expect(ok).To(BeFalse())
	})

	It("reports now without relative motion when overlapping", func() {
		dt, ok := collide.NearestContactTime(disc(0, 0, 1, 1), disc(1, 0, 1, 1))
		Expect(ok).To(BeTrue())
		Expect(dt).To(BeZero())
	})
})

var _ = Describe("ContactPolicy", func() {
	DescribeTable("parses names",
		func(name string, want collide.ContactPolicy) {
			got, err := collide.ParsePolicy(name)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
			Expect(got.String()).NotTo(BeEmpty())
		},
		Entry("empty", "", collide.PolicyNearest),
		Entry("nearest", "nearest", collide.PolicyNearest),
		Entry("most_recent", "most_recent", collide.PolicyMostRecent),
	)

	It("rejects unknown names", func() {
		_, err := collide.ParsePolicy("future")
		Expect(err).To(MatchError(collide.ErrUnknownPolicy))
	})
})
