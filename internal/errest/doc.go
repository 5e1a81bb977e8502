// Package errest estimates the error of a composite quadrature rule.
//
// Two uncorrelated sources are modeled and added:
//
//   - truncation: the leading Euler–Maclaurin term C*h^p, where p is the rule
//     order and C comes from derivatives of the integrand at the endpoints
//   - round-off: eps*sqrt(N), the standard deviation of N independently
//     rounded additions
//
// The round-off model is statistical. It describes the expected growth of
// accumulated rounding, not a bound that holds for every run.
//
// Endpoint derivatives come from a [Source]: the integrand's own analytic
// derivatives, one-sided finite differences that stay inside [a, b], or
// nothing. When the rule needs derivatives and none are available the
// estimator fails with quad.ErrMissingDerivativeData; it never substitutes 0.
package errest
