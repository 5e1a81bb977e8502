package quad

import (
	"errors"
	"fmt"
	"math"
)

// ErrNonFinite is reported by [Func] when the wrapped function returns NaN or ±Inf.
var ErrNonFinite = errors.New("quad: non-finite function value")

// Integrand is a real-valued function of one real variable.
type Integrand interface {
	Eval(x float64) (float64, error)
}

// Differentiable is an integrand that can evaluate its own derivatives.
// Unsupported orders must fail with ErrMissingDerivativeData.
type Differentiable interface {
	Integrand
	Derivative(x float64, order int) (float64, error)
}

// Func adapts a plain function. NaN and ±Inf results are evaluation failures.
type Func func(float64) float64

func (f Func) Eval(x float64) (float64, error) {
	v := f(x)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v, fmt.Errorf("%w: f(%g) = %g", ErrNonFinite, x, v)
	}
	return v, nil
}

// Analytic is a function bundled with closed-form derivatives.
// Derivs[k-1] is the k-th derivative.
type Analytic struct {
	F      func(float64) float64
	Derivs []func(float64) float64
}

// WithDerivatives builds an Analytic from f and its successive derivatives.
func WithDerivatives(f func(float64) float64, derivs ...func(float64) float64) *Analytic {
	return &Analytic{F: f, Derivs: derivs}
}

func (a *Analytic) Eval(x float64) (float64, error) {
	return Func(a.F).Eval(x)
}

func (a *Analytic) Derivative(x float64, order int) (float64, error) {
	if order == 0 {
		return a.Eval(x)
	}
	if order < 0 || order > len(a.Derivs) || a.Derivs[order-1] == nil {
		return 0, fmt.Errorf("%w: order %d not available", ErrMissingDerivativeData, order)
	}
	return Func(a.Derivs[order-1]).Eval(x)
}

// Interval is the closed integration domain [A, B].
type Interval struct {
	A float64 `json:"a" yaml:"a"`
	B float64 `json:"b" yaml:"b"`
}

func (iv Interval) Validate() error {
	if math.IsNaN(iv.A) || math.IsNaN(iv.B) || math.IsInf(iv.A, 0) || math.IsInf(iv.B, 0) {
		return fmt.Errorf("%w: [%g, %g]", ErrInvalidInterval, iv.A, iv.B)
	}
	if iv.A >= iv.B {
		return fmt.Errorf("%w: [%g, %g]", ErrInvalidInterval, iv.A, iv.B)
	}
	return nil
}

func (iv Interval) Length() float64 {
	return iv.B - iv.A
}

func (iv Interval) Mid() float64 {
	return iv.A + 0.5*(iv.B-iv.A)
}

func (iv Interval) String() string {
	return fmt.Sprintf("[%g, %g]", iv.A, iv.B)
}

// Partition splits an interval into N equal bins of width H.
type Partition struct {
	Interval
	N int
	H float64
}

func NewPartition(iv Interval, n int) (Partition, error) {
	if err := iv.Validate(); err != nil {
		return Partition{}, err
	}
	if n < 1 {
		return Partition{}, fmt.Errorf("%w: N=%d, need N >= 1", ErrInvalidPartition, n)
	}
	return Partition{Interval: iv, N: n, H: iv.Length() / float64(n)}, nil
}

// Node returns x_k = a + k*h; the last node is exactly b.
func (p Partition) Node(k int) float64 {
	if k == p.N {
		return p.B
	}
	return p.A + float64(k)*p.H
}

// Result is one quadrature evaluation.
type Result struct {
	Rule        string         `json:"rule"`
	Value       float64        `json:"value"`
	Step        float64        `json:"step"`
	Bins        int            `json:"bins"`
	Evaluations int            `json:"evaluations"`
	Estimate    *ErrorEstimate `json:"estimate,omitempty"`
}

// Corrected returns the value plus the signed leading truncation term,
// or the raw value when no estimate is attached.
func (r Result) Corrected() float64 {
	if r.Estimate == nil {
		return r.Value
	}
	return r.Value + r.Estimate.TruncationSigned
}

// ErrorEstimate is the pair of uncorrelated error sources at one step size.
// Truncation scales as h^TruncationOrder, round-off as h^RoundoffOrder.
type ErrorEstimate struct {
	Truncation       float64 `json:"truncation"`
	TruncationSigned float64 `json:"truncation_signed"`
	TruncationOrder  int     `json:"truncation_order"`
	Roundoff         float64 `json:"roundoff"`
	RoundoffOrder    float64 `json:"roundoff_order"`
	Total            float64 `json:"total"`
}

// Counter wraps an integrand and counts Eval calls.
type Counter struct {
	Inner Integrand
	Calls int
}

func NewCounter(f Integrand) *Counter {
	return &Counter{Inner: f}
}

func (c *Counter) Eval(x float64) (float64, error) {
	c.Calls++
	return c.Inner.Eval(x)
}

// Derivative forwards to the wrapped integrand when it is Differentiable.
// Derivative calls are not counted.
func (c *Counter) Derivative(x float64, order int) (float64, error) {
	d, ok := c.Inner.(Differentiable)
	if !ok {
		return 0, fmt.Errorf("%w: integrand has no derivatives", ErrMissingDerivativeData)
	}
	return d.Derivative(x, order)
}
