package errest_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/quadlab/internal/errest"
	"github.com/san-kum/quadlab/internal/quad"
	"github.com/san-kum/quadlab/internal/rules"
)

var _ = Describe("Truncation model", func() {
	var (
		iv  quad.Interval
		est *errest.Estimator
		f   *quad.Analytic
	)

	BeforeEach(func() {
		iv = quad.Interval{A: 0, B: 2}
		est = errest.New(0, errest.SourceAnalytic)
		f = quad.WithDerivatives(math.Exp, math.Exp, math.Exp, math.Exp)
	})

	DescribeTable("predicts the observed error of a smooth integrand",
		func(rule rules.Rule, n int, tol float64) {
			res, err := est.Integrate(rule, f, iv, n)
			Expect(err).NotTo(HaveOccurred())

			actual := (math.Exp(2) - 1) - res.Value
			Expect(res.Estimate.TruncationSigned).To(BeNumerically("~", actual, tol*math.Abs(actual)))
		},
		Entry("trapezoidal, N=64", rules.NewTrapezoidal(), 64, 1e-3),
		Entry("trapezoidal, N=256", rules.NewTrapezoidal(), 256, 1e-4),
		Entry("simpson, N=32", rules.NewSimpson(), 32, 1e-2),
		Entry("simpson, N=64", rules.NewSimpson(), 64, 5e-3),
	)

	It("reports the rule order without recomputation", func() {
		for _, rule := range []rules.Rule{rules.NewTrapezoidal(), rules.NewSimpson()} {
			e, err := est.Estimate(rule, f, iv, 0.5)
			Expect(err).NotTo(HaveOccurred())
			Expect(e.TruncationOrder).To(Equal(rule.Order()))
		}
	})

	It("scales truncation by 2^p when h halves", func() {
		for _, rule := range []rules.Rule{rules.NewTrapezoidal(), rules.NewSimpson()} {
			coarse, _ := est.Estimate(rule, f, iv, 0.1)
			fine, _ := est.Estimate(rule, f, iv, 0.05)
			Expect(coarse.Truncation / fine.Truncation).To(BeNumerically("~", math.Pow(2, float64(rule.Order())), 1e-9))
		}
	})

	It("refuses to guess when derivatives are missing", func() {
		plain := quad.Func(math.Exp)
		_, err := est.Estimate(rules.NewSimpson(), plain, iv, 0.1)
		Expect(err).To(MatchError(quad.ErrMissingDerivativeData))
	})
})

var _ = Describe("Round-off model", func() {
	It("grows as eps*sqrt(N)", func() {
		Expect(errest.Roundoff(errest.DefaultEpsilon, 1e6)).To(BeNumerically("~", 2.220446049250313e-13, 1e-25))
		Expect(errest.Roundoff(1e-10, 4)).To(BeNumerically("~", 2e-10, 1e-22))
	})

	It("never reports less than a single rounding", func() {
		Expect(errest.Roundoff(1e-16, 0)).To(Equal(1e-16))
	})

	It("uses the configured epsilon", func() {
		d := &errest.Derivatives{Order: 1, A: 1, B: 0}
		low, err := errest.Predict(rules.NewTrapezoidal(), quad.Interval{A: 0, B: 1}, 1e-4, d, 1e-16)
		Expect(err).NotTo(HaveOccurred())
		high, err := errest.Predict(rules.NewTrapezoidal(), quad.Interval{A: 0, B: 1}, 1e-4, d, 1e-8)
		Expect(err).NotTo(HaveOccurred())
		Expect(high.Roundoff / low.Roundoff).To(BeNumerically("~", 1e8, 1))
		Expect(high.Truncation).To(Equal(low.Truncation))
	})
})
