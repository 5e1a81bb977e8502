// Package integrands provides a catalog of test integrands with closed-form
// derivatives and exact integrals.
//
// Every entry yields a [quad.Analytic] carrying derivatives up to third
// order, enough for the truncation models of both composite rules:
//
//   - x4: the quartic benchmark on [0, 1]
//   - cubic: integrated exactly by Simpson's rule
//   - sin, exp, osc: smooth periodic and growing functions
//   - gaussian: exp(-x²), exact value through erf
//   - runge: 1/(1+25x²), sharply peaked at the origin
//   - sqrt, log: unbounded derivatives at x = 0
//
// Look entries up by name through a [Registry]:
//
//	reg := integrands.NewRegistry()
//	e, _ := reg.Get("x4")
//	res, _ := rule.Integrate(e.Integrand(), e.Interval, 10)
package integrands
