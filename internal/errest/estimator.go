package errest

import (
	"fmt"
	"math"

	"github.com/san-kum/quadlab/internal/quad"
	"github.com/san-kum/quadlab/internal/rules"
)

// DefaultEpsilon is the float64 machine epsilon, 2^-52.
const DefaultEpsilon = 0x1p-52

// RoundoffOrder is the power of h the round-off model scales with.
const RoundoffOrder = -0.5

type Estimator struct {
	Epsilon float64
	Source  Source
	// FDStep overrides the relative finite-difference step when > 0.
	FDStep float64
}

func New(eps float64, src Source) *Estimator {
	if eps <= 0 {
		eps = DefaultEpsilon
	}
	if src == "" {
		src = SourceAuto
	}
	return &Estimator{Epsilon: eps, Source: src}
}

// Derivatives returns the endpoint derivatives rule's truncation model needs.
func (e *Estimator) Derivatives(rule rules.Rule, f quad.Integrand, iv quad.Interval) (*Derivatives, error) {
	if err := iv.Validate(); err != nil {
		return nil, err
	}
	return endpointDerivatives(f, iv, rule.DerivativeOrder(), e.Source, e.FDStep)
}

// Coefficient returns C such that I - Q(h) ≈ C*h^p for rule on f over iv.
func (e *Estimator) Coefficient(rule rules.Rule, f quad.Integrand, iv quad.Interval) (float64, error) {
	d, err := e.Derivatives(rule, f, iv)
	if err != nil {
		return 0, err
	}
	return rule.TruncationCoefficient(d.A, d.B), nil
}

// Estimate returns the truncation and round-off estimate at step h.
func (e *Estimator) Estimate(rule rules.Rule, f quad.Integrand, iv quad.Interval, h float64) (quad.ErrorEstimate, error) {
	d, err := e.Derivatives(rule, f, iv)
	if err != nil {
		return quad.ErrorEstimate{}, err
	}
	return Predict(rule, iv, h, d, e.Epsilon)
}

// Attach fills res.Estimate for a result produced by rule.
func (e *Estimator) Attach(rule rules.Rule, f quad.Integrand, iv quad.Interval, res *quad.Result) error {
	est, err := e.Estimate(rule, f, iv, res.Step)
	if err != nil {
		return err
	}
	res.Estimate = &est
	return nil
}

// Integrate runs rule with n bins and attaches the error estimate.
func (e *Estimator) Integrate(rule rules.Rule, f quad.Integrand, iv quad.Interval, n int) (quad.Result, error) {
	res, err := rule.Integrate(f, iv, n)
	if err != nil {
		return res, err
	}
	if err := e.Attach(rule, f, iv, &res); err != nil {
		return res, err
	}
	return res, nil
}

// Predict evaluates the error model from explicit derivative data.
// A nil d, or derivatives of the wrong order, fails with
// quad.ErrMissingDerivativeData.
func Predict(rule rules.Rule, iv quad.Interval, h float64, d *Derivatives, eps float64) (quad.ErrorEstimate, error) {
	if err := iv.Validate(); err != nil {
		return quad.ErrorEstimate{}, err
	}
	if !(h > 0) || h > iv.Length() {
		return quad.ErrorEstimate{}, fmt.Errorf("%w: step %g on %v", quad.ErrInvalidPartition, h, iv)
	}
	if d == nil {
		return quad.ErrorEstimate{}, fmt.Errorf("%w: %s needs f^(%d) at both endpoints", quad.ErrMissingDerivativeData, rule.Name(), rule.DerivativeOrder())
	}
	if d.Order != rule.DerivativeOrder() {
		return quad.ErrorEstimate{}, fmt.Errorf("%w: %s needs f^(%d), got f^(%d)", quad.ErrMissingDerivativeData, rule.Name(), rule.DerivativeOrder(), d.Order)
	}
	if eps <= 0 {
		eps = DefaultEpsilon
	}

	signed := rule.TruncationCoefficient(d.A, d.B) * math.Pow(h, float64(rule.Order()))
	ro := Roundoff(eps, iv.Length()/h)

	return quad.ErrorEstimate{
		Truncation:       math.Abs(signed),
		TruncationSigned: signed,
		TruncationOrder:  rule.Order(),
		Roundoff:         ro,
		RoundoffOrder:    RoundoffOrder,
		Total:            math.Abs(signed) + ro,
	}, nil
}

// Roundoff is the statistical round-off model eps*sqrt(n) for n summed terms.
func Roundoff(eps, n float64) float64 {
	if n < 1 {
		n = 1
	}
	return eps * math.Sqrt(n)
}
