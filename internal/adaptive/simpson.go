// Package adaptive integrates by recursive bisection with a local error test.
//
// Each span is integrated once with Simpson's rule (S1) and once as two
// half-span Simpsons (S2). Since the error is O(h^4), S2 - S1 ≈ 15*(I - S2),
// so a span is accepted when |S2 - S1| <= 15*tol and contributes the
// Richardson value S2 + (S2 - S1)/15. Otherwise both halves are refined,
// each with half the tolerance. Function values are reused between levels,
// so every refinement costs two new evaluations.
package adaptive

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/quadlab/internal/errest"
	"github.com/san-kum/quadlab/internal/quad"
)

const (
	DefaultTolerance = 1e-10
	DefaultMaxDepth  = 50
)

type Options struct {
	// Tolerance is the absolute error target over the whole interval.
	Tolerance float64
	MaxDepth  int
	// Epsilon sets the noise floor: a span whose two estimates agree to
	// within round-off is accepted regardless of Tolerance.
	Epsilon float64
	// Trace records every accepted span.
	Trace bool
}

func DefaultOptions() Options {
	return Options{
		Tolerance: DefaultTolerance,
		MaxDepth:  DefaultMaxDepth,
		Epsilon:   errest.DefaultEpsilon,
	}
}

// Span is one accepted subinterval.
type Span struct {
	Interval quad.Interval `json:"interval"`
	Depth    int           `json:"depth"`
	Value    float64       `json:"value"`
	Error    float64       `json:"error"`
}

type Result struct {
	Value       float64 `json:"value"`
	Error       float64 `json:"error"`
	Evaluations int     `json:"evaluations"`
	Intervals   int     `json:"intervals"`
	Depth       int     `json:"depth"`
	MinWidth    float64 `json:"min_width"`
	Spans       []Span  `json:"spans,omitempty"`
}

type integrator struct {
	f    quad.Integrand
	opts Options
	res  Result
}

// Integrate runs adaptive Simpson on f over iv.
func Integrate(f quad.Integrand, iv quad.Interval, opts Options) (Result, error) {
	if err := iv.Validate(); err != nil {
		return Result{}, err
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = DefaultTolerance
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.Epsilon <= 0 {
		opts.Epsilon = errest.DefaultEpsilon
	}

	in := &integrator{f: f, opts: opts}
	in.res.MinWidth = iv.Length()

	m := iv.Mid()
	fa, err := in.eval(iv.A)
	if err != nil {
		return Result{}, err
	}
	fm, err := in.eval(m)
	if err != nil {
		return Result{}, err
	}
	fb, err := in.eval(iv.B)
	if err != nil {
		return Result{}, err
	}

	whole := simpson(iv.A, iv.B, fa, fm, fb)
	value, err := in.refine(iv.A, iv.B, fa, fm, fb, whole, opts.Tolerance, 0)
	if err != nil {
		return Result{}, err
	}
	in.res.Value = value
	return in.res, nil
}

func simpson(a, b, fa, fm, fb float64) float64 {
	return (b - a) / 6 * (fa + 4*fm + fb)
}

func (in *integrator) eval(x float64) (float64, error) {
	in.res.Evaluations++
	y, err := in.f.Eval(x)
	if err != nil {
		var ev *quad.EvalError
		if errors.As(err, &ev) {
			return 0, err
		}
		return 0, &quad.EvalError{X: x, Index: -1, Wrapped: err}
	}
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, &quad.EvalError{X: x, Index: -1, Wrapped: quad.ErrNonFinite}
	}
	return y, nil
}

func (in *integrator) refine(a, b, fa, fm, fb, whole, tol float64, depth int) (float64, error) {
	m := a + 0.5*(b-a)
	lm := a + 0.5*(m-a)
	rm := m + 0.5*(b-m)
	if !(a < lm && lm < m && m < rm && rm < b) {
		return 0, fmt.Errorf("%w: span [%g, %g] cannot be bisected further", quad.ErrMaxDepth, a, b)
	}

	flm, err := in.eval(lm)
	if err != nil {
		return 0, err
	}
	frm, err := in.eval(rm)
	if err != nil {
		return 0, err
	}

	left := simpson(a, m, fa, flm, fm)
	right := simpson(m, b, fm, frm, fb)
	split := left + right
	diff := split - whole

	noise := errest.Roundoff(in.opts.Epsilon, 5) * math.Abs(split)
	if math.Abs(diff) <= 15*tol || math.Abs(diff) <= noise {
		value := split + diff/15
		in.accept(a, b, depth, value, math.Abs(diff)/15)
		return value, nil
	}

	if depth+1 >= in.opts.MaxDepth {
		return 0, fmt.Errorf("%w: depth %d at [%g, %g], local error %g", quad.ErrMaxDepth, in.opts.MaxDepth, a, b, math.Abs(diff)/15)
	}

	lv, err := in.refine(a, m, fa, flm, fm, left, tol/2, depth+1)
	if err != nil {
		return 0, err
	}
	rv, err := in.refine(m, b, fm, frm, fb, right, tol/2, depth+1)
	if err != nil {
		return 0, err
	}
	return lv + rv, nil
}

func (in *integrator) accept(a, b float64, depth int, value, localErr float64) {
	in.res.Intervals++
	in.res.Error += localErr
	if depth > in.res.Depth {
		in.res.Depth = depth
	}
	if w := b - a; w < in.res.MinWidth {
		in.res.MinWidth = w
	}
	if in.opts.Trace {
		in.res.Spans = append(in.res.Spans, Span{
			Interval: quad.Interval{A: a, B: b},
			Depth:    depth,
			Value:    value,
			Error:    localErr,
		})
	}
}
