package rules

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate"

	"github.com/san-kum/quadlab/internal/quad"
)

// IntegrateSamples applies rule to values sampled at uniform spacing h.
// len(ys) is N+1; the summation order matches Integrate exactly.
func IntegrateSamples(rule Rule, ys []float64, h float64) (float64, error) {
	if !(h > 0) || math.IsInf(h, 0) {
		return 0, fmt.Errorf("%w: step %g", quad.ErrInvalidInterval, h)
	}
	n := len(ys) - 1
	if err := rule.ValidBins(n); err != nil {
		return 0, err
	}
	for k, y := range ys {
		if math.IsNaN(y) || math.IsInf(y, 0) {
			return 0, &quad.EvalError{X: float64(k) * h, Index: k, Wrapped: quad.ErrNonFinite}
		}
	}

	switch rule.(type) {
	case *Simpson:
		odd, even := 0.0, 0.0
		for k := 1; k < n; k++ {
			if k%2 == 1 {
				odd += ys[k]
			} else {
				even += ys[k]
			}
		}
		return h / 3.0 * (4*odd + 2*even + ys[0] + ys[n]), nil
	default:
		interior := 0.0
		for k := 1; k < n; k++ {
			interior += ys[k]
		}
		return h * (interior + 0.5*ys[0] + 0.5*ys[n]), nil
	}
}

// IntegrateScattered integrates samples at strictly increasing, possibly
// non-uniform abscissae. Simpson uses the irregular-spacing variant, which
// accepts any N >= 2.
func IntegrateScattered(rule Rule, xs, ys []float64) (float64, error) {
	if len(xs) != len(ys) {
		return 0, fmt.Errorf("%w: %d abscissae for %d values", quad.ErrInvalidPartition, len(xs), len(ys))
	}
	if len(xs) < rule.MinBins()+1 {
		return 0, &quad.PartitionError{Rule: rule.Name(), Bins: len(xs) - 1, Reason: fmt.Sprintf("need N >= %d", rule.MinBins())}
	}
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsInf(xs[i], 0) {
			return 0, fmt.Errorf("%w: abscissa %d is %g", quad.ErrInvalidInterval, i, xs[i])
		}
		if i > 0 && xs[i] <= xs[i-1] {
			return 0, fmt.Errorf("%w: abscissae not strictly increasing at %d", quad.ErrInvalidInterval, i)
		}
		if math.IsNaN(ys[i]) || math.IsInf(ys[i], 0) {
			return 0, &quad.EvalError{X: xs[i], Index: i, Wrapped: quad.ErrNonFinite}
		}
	}

	switch rule.(type) {
	case *Simpson:
		return integrate.Simpsons(xs, ys), nil
	default:
		return integrate.Trapezoidal(xs, ys), nil
	}
}
