// Package stepopt chooses the step size that balances truncation against
// round-off.
//
// With truncation C*h^p and round-off eps*sqrt(N) = R*h^(-1/2), where
// R = eps*sqrt(b-a), the total error
//
//	E(h) = |C|*h^p + R*h^(-1/2)
//
// has its minimum where dE/dh = 0:
//
//	h* = (R / (2p|C|))^(1/(p+1/2))
//
// MethodBalance instead sets the two terms equal, h = (R/|C|)^(1/(p+1/2)),
// which is the rule of thumb and lands within a constant factor of h*.
// Both are estimates; the round-off term is statistical.
package stepopt

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/quadlab/internal/errest"
	"github.com/san-kum/quadlab/internal/quad"
	"github.com/san-kum/quadlab/internal/rules"
)

// MaxBins caps recommendations so N stays a sane int.
const MaxBins = math.MaxInt32

type Method int

const (
	MethodExact Method = iota
	MethodBalance
)

func (m Method) String() string {
	if m == MethodBalance {
		return "balance"
	}
	return "exact"
}

func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "exact", "minimize":
		return MethodExact, nil
	case "balance", "equate":
		return MethodBalance, nil
	}
	return MethodExact, fmt.Errorf("stepopt: unknown method %q", s)
}

// Model is the two-term error model of one rule on one integrand.
type Model struct {
	Order       int
	Coefficient float64
	Epsilon     float64
	Interval    quad.Interval
}

// ModelFor builds the model from the estimator's endpoint derivatives.
func ModelFor(rule rules.Rule, est *errest.Estimator, f quad.Integrand, iv quad.Interval) (Model, error) {
	c, err := est.Coefficient(rule, f, iv)
	if err != nil {
		return Model{}, err
	}
	return Model{Order: rule.Order(), Coefficient: c, Epsilon: est.Epsilon, Interval: iv}, nil
}

func (m Model) validate() error {
	if err := m.Interval.Validate(); err != nil {
		return err
	}
	if m.Order < 1 {
		return fmt.Errorf("stepopt: order must be positive, got %d", m.Order)
	}
	if !(m.Epsilon > 0) {
		return fmt.Errorf("stepopt: epsilon must be positive, got %g", m.Epsilon)
	}
	if math.IsNaN(m.Coefficient) || math.IsInf(m.Coefficient, 0) {
		return fmt.Errorf("stepopt: coefficient is %g", m.Coefficient)
	}
	return nil
}

// RoundoffCoefficient is R in R*h^(-1/2).
func (m Model) RoundoffCoefficient() float64 {
	return m.Epsilon * math.Sqrt(m.Interval.Length())
}

func (m Model) Truncation(h float64) float64 {
	return math.Abs(m.Coefficient) * math.Pow(h, float64(m.Order))
}

func (m Model) Roundoff(h float64) float64 {
	return errest.Roundoff(m.Epsilon, m.Interval.Length()/h)
}

func (m Model) Total(h float64) float64 {
	return m.Truncation(h) + m.Roundoff(h)
}

// OptimalStep returns the continuous minimizer for method, or +Inf when the
// truncation term vanishes.
func (m Model) OptimalStep(method Method) float64 {
	c := math.Abs(m.Coefficient)
	if c == 0 {
		return math.Inf(1)
	}
	p := float64(m.Order)
	r := m.RoundoffCoefficient()
	if method == MethodBalance {
		return math.Pow(r/c, 1/(p+0.5))
	}
	return math.Pow(r/(2*p*c), 1/(p+0.5))
}

type Recommendation struct {
	Method string  `json:"method"`
	Step   float64 `json:"step"`
	Bins   int     `json:"bins"`
	// IdealStep is the continuous optimum, 0 when the truncation term vanishes.
	IdealStep  float64 `json:"ideal_step"`
	Truncation float64 `json:"truncation"`
	Roundoff   float64 `json:"roundoff"`
	Total      float64 `json:"total"`
}

// Optimize turns the continuous optimum into a bin count valid for rule.
// A vanishing truncation coefficient yields the coarsest partition.
func Optimize(rule rules.Rule, m Model, method Method) (Recommendation, error) {
	if err := m.validate(); err != nil {
		return Recommendation{}, err
	}
	length := m.Interval.Length()
	ideal := m.OptimalStep(method)

	var n int
	if math.IsInf(ideal, 1) {
		ideal = 0
		n = rule.MinBins()
	} else if ideal >= length {
		n = rule.MinBins()
	} else {
		raw := length / ideal
		lo := rule.RoundBins(clampBins(math.Floor(raw)))
		hi := rule.RoundBins(clampBins(math.Ceil(raw)))
		switch {
		case method == MethodBalance:
			n = hi
		case hi != lo && m.Total(length/float64(hi)) < m.Total(length/float64(lo)):
			n = hi
		default:
			n = lo
		}
	}

	h := length / float64(n)
	return Recommendation{
		Method:     method.String(),
		Step:       h,
		Bins:       n,
		IdealStep:  ideal,
		Truncation: m.Truncation(h),
		Roundoff:   m.Roundoff(h),
		Total:      m.Total(h),
	}, nil
}

// BinsForTolerance returns the smallest valid N whose predicted total error
// is at most tol.
func BinsForTolerance(rule rules.Rule, m Model, tol float64) (int, error) {
	if err := m.validate(); err != nil {
		return 0, err
	}
	if !(tol > 0) {
		return 0, fmt.Errorf("stepopt: tolerance must be positive, got %g", tol)
	}
	best, err := Optimize(rule, m, MethodExact)
	if err != nil {
		return 0, err
	}
	if best.Total > tol {
		return 0, fmt.Errorf("%w: tol=%g, best=%g at N=%d", quad.ErrToleranceUnreachable, tol, best.Total, best.Bins)
	}

	length := m.Interval.Length()
	ok := func(n int) bool {
		return m.Total(length/float64(rule.RoundBins(n))) <= tol
	}

	lo, hi := rule.MinBins(), best.Bins
	if ok(lo) {
		return rule.RoundBins(lo), nil
	}
	// ok(lo) is false, ok(hi) is true, and Total decreases on [lo, hi]
	for hi-lo > 1 {
		mid := lo + (hi-lo)/2
		if ok(mid) {
			hi = mid
		} else {
			lo = mid
		}
	}
	return rule.RoundBins(hi), nil
}

func clampBins(x float64) int {
	if x < 1 {
		return 1
	}
	if x > MaxBins {
		return MaxBins
	}
	return int(x)
}
