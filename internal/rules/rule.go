// Package rules implements fixed-order composite quadrature rules.
//
// Each rule evaluates the integrand at exactly N+1 equally spaced nodes and
// accumulates its weighted sums in increasing node order, so a given
// (f, a, b, N) always produces the same bits.
package rules

import (
	"errors"
	"math"

	"github.com/san-kum/quadlab/internal/quad"
)

// Rule is a composite quadrature rule over an equal-width partition.
type Rule interface {
	Name() string
	// Order is the power of h the truncation error scales with.
	Order() int
	// DerivativeOrder is the endpoint derivative the truncation model needs.
	DerivativeOrder() int
	MinBins() int
	ValidBins(n int) error
	// RoundBins returns the smallest valid bin count >= n.
	RoundBins(n int) int
	// TruncationCoefficient returns C in  I - Q(h) ≈ C*h^Order, from the
	// endpoint derivatives of order DerivativeOrder.
	TruncationCoefficient(da, db float64) float64
	Integrate(f quad.Integrand, iv quad.Interval, n int) (quad.Result, error)
}

func evalNode(f quad.Integrand, p quad.Partition, k int) (float64, error) {
	x := p.Node(k)
	y, err := f.Eval(x)
	if err != nil {
		var ev *quad.EvalError
		if errors.As(err, &ev) {
			return 0, err
		}
		return 0, &quad.EvalError{X: x, Index: k, Wrapped: err}
	}
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, &quad.EvalError{X: x, Index: k, Wrapped: quad.ErrNonFinite}
	}
	return y, nil
}
