// Package quad provides the core types shared by the quadrature engine.
//
// The package defines the vocabulary the rules, the error estimator and the
// step-size optimizer speak:
//
//   - [Integrand]: a real function of one real variable
//   - [Differentiable]: an integrand that can also report its derivatives
//   - [Interval]: the integration domain [a, b]
//   - [Partition]: N equal bins over an interval
//   - [Result]: an approximate integral plus the step it was computed with
//   - [ErrorEstimate]: truncation and round-off error at a given step
//
// # Example
//
//	f := quad.Func(func(x float64) float64 { return x * x * x * x })
//	res, err := rules.NewSimpson().Integrate(f, quad.Interval{A: 0, B: 1}, 10)
//
// # Thread Safety
//
// Every value in this package is immutable once constructed, except
// [Counter], which counts evaluations and must not be shared between
// goroutines.
package quad
