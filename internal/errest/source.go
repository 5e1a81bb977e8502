package errest

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/diff/fd"

	"github.com/san-kum/quadlab/internal/quad"
)

// Source selects where endpoint derivatives come from.
type Source string

const (
	SourceAuto             Source = "auto"
	SourceAnalytic         Source = "analytic"
	SourceFiniteDifference Source = "finite-difference"
	SourceNone             Source = "none"
)

func ParseSource(s string) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return SourceAuto, nil
	case "analytic":
		return SourceAnalytic, nil
	case "finite-difference", "fd", "numeric":
		return SourceFiniteDifference, nil
	case "none":
		return SourceNone, nil
	}
	return "", fmt.Errorf("errest: unknown derivative source %q", s)
}

// one-sided stencils, second-order accurate, for use at the left (forward)
// and right (backward) endpoint
var (
	forward = map[int]fd.Formula{
		1: {Stencil: []fd.Point{{Loc: 0, Coeff: -1.5}, {Loc: 1, Coeff: 2}, {Loc: 2, Coeff: -0.5}}, Derivative: 1, Step: 1e-5},
		2: {Stencil: []fd.Point{{Loc: 0, Coeff: 2}, {Loc: 1, Coeff: -5}, {Loc: 2, Coeff: 4}, {Loc: 3, Coeff: -1}}, Derivative: 2, Step: 1e-4},
		3: {Stencil: []fd.Point{{Loc: 0, Coeff: -2.5}, {Loc: 1, Coeff: 9}, {Loc: 2, Coeff: -12}, {Loc: 3, Coeff: 7}, {Loc: 4, Coeff: -1.5}}, Derivative: 3, Step: 1e-3},
	}
	backward = map[int]fd.Formula{
		1: {Stencil: []fd.Point{{Loc: 0, Coeff: 1.5}, {Loc: -1, Coeff: -2}, {Loc: -2, Coeff: 0.5}}, Derivative: 1, Step: 1e-5},
		2: {Stencil: []fd.Point{{Loc: 0, Coeff: 2}, {Loc: -1, Coeff: -5}, {Loc: -2, Coeff: 4}, {Loc: -3, Coeff: -1}}, Derivative: 2, Step: 1e-4},
		3: {Stencil: []fd.Point{{Loc: 0, Coeff: 2.5}, {Loc: -1, Coeff: -9}, {Loc: -2, Coeff: 12}, {Loc: -3, Coeff: -7}, {Loc: -4, Coeff: 1.5}}, Derivative: 3, Step: 1e-3},
	}
)

// Derivatives holds f^(Order) at both endpoints.
type Derivatives struct {
	Order int     `json:"order"`
	A     float64 `json:"a"`
	B     float64 `json:"b"`
}

// endpointDerivatives resolves f^(order)(a) and f^(order)(b) from src.
func endpointDerivatives(f quad.Integrand, iv quad.Interval, order int, src Source, relStep float64) (*Derivatives, error) {
	switch src {
	case SourceNone:
		return nil, fmt.Errorf("%w: derivative source is none", quad.ErrMissingDerivativeData)
	case SourceAnalytic:
		return analytic(f, iv, order)
	case SourceFiniteDifference:
		return finiteDifference(f, iv, order, relStep)
	}

	d, err := analytic(f, iv, order)
	if errors.Is(err, quad.ErrMissingDerivativeData) {
		return finiteDifference(f, iv, order, relStep)
	}
	return d, err
}

func analytic(f quad.Integrand, iv quad.Interval, order int) (*Derivatives, error) {
	df, ok := f.(quad.Differentiable)
	if !ok {
		return nil, fmt.Errorf("%w: integrand has no analytic derivatives", quad.ErrMissingDerivativeData)
	}
	da, err := df.Derivative(iv.A, order)
	if err != nil {
		return nil, derivativeError(iv.A, order, err)
	}
	db, err := df.Derivative(iv.B, order)
	if err != nil {
		return nil, derivativeError(iv.B, order, err)
	}
	return &Derivatives{Order: order, A: da, B: db}, nil
}

// derivativeError classifies a failed analytic derivative. A singular
// derivative at an endpoint counts as missing data.
func derivativeError(x float64, order int, err error) error {
	switch {
	case errors.Is(err, quad.ErrMissingDerivativeData):
		return err
	case errors.Is(err, quad.ErrNonFinite):
		return fmt.Errorf("%w: f^(%d)(%g) is not finite", quad.ErrMissingDerivativeData, order, x)
	}
	return &quad.EvalError{X: x, Index: -1, Wrapped: err}
}

func finiteDifference(f quad.Integrand, iv quad.Interval, order int, relStep float64) (*Derivatives, error) {
	fw, ok := forward[order]
	if !ok {
		return nil, fmt.Errorf("%w: no finite-difference formula for order %d", quad.ErrMissingDerivativeData, order)
	}
	bw := backward[order]

	da, err := fdAt(f, iv, iv.A, fw, relStep)
	if err != nil {
		return nil, err
	}
	db, err := fdAt(f, iv, iv.B, bw, relStep)
	if err != nil {
		return nil, err
	}
	return &Derivatives{Order: order, A: da, B: db}, nil
}

func fdAt(f quad.Integrand, iv quad.Interval, x float64, formula fd.Formula, relStep float64) (float64, error) {
	step := formula.Step
	if relStep > 0 {
		step = relStep
	}
	step *= math.Max(1, math.Abs(x))

	// keep the whole stencil inside [a, b]
	width := float64(len(formula.Stencil) - 1)
	if maxStep := iv.Length() / width; step > maxStep {
		step = maxStep
	}

	var evalErr error
	g := func(t float64) float64 {
		if evalErr != nil {
			return math.NaN()
		}
		y, err := f.Eval(t)
		if err != nil {
			evalErr = &quad.EvalError{X: t, Index: -1, Wrapped: err}
			return math.NaN()
		}
		return y
	}

	d := fd.Derivative(g, x, &fd.Settings{Formula: formula, Step: step})
	if evalErr != nil {
		return 0, evalErr
	}
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return 0, &quad.EvalError{X: x, Index: -1, Wrapped: quad.ErrNonFinite}
	}
	return d, nil
}
