package adaptive

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/quadlab/internal/quad"
	"github.com/san-kum/quadlab/internal/rules"
)

func TestKnownIntegrals(t *testing.T) {
	tests := []struct {
		name  string
		f     func(float64) float64
		iv    quad.Interval
		exact float64
		tol   float64
		slack float64
	}{
		{"sin", math.Sin, quad.Interval{A: 0, B: math.Pi}, 2, 1e-10, 1e-9},
		{"exp", math.Exp, quad.Interval{A: 0, B: 1}, math.E - 1, 1e-10, 1e-9},
		{"runge", func(x float64) float64 { return 1 / (1 + 25*x*x) }, quad.Interval{A: -1, B: 1}, 0.4 * math.Atan(5), 1e-9, 1e-8},
		{"sqrt", math.Sqrt, quad.Interval{A: 0, B: 1}, 2.0 / 3.0, 1e-6, 1e-5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.Tolerance = tt.tol
			res, err := Integrate(quad.Func(tt.f), tt.iv, opts)
			if err != nil {
				t.Fatalf("integration failed: %v", err)
			}
			if got := math.Abs(res.Value - tt.exact); got > tt.slack {
				t.Errorf("expected error below %g, got %g (value %.15f)", tt.slack, got, res.Value)
			}
			if res.Intervals < 1 {
				t.Errorf("expected at least one accepted interval, got %d", res.Intervals)
			}
		})
	}
}

func TestCubicAcceptedImmediately(t *testing.T) {
	res, err := Integrate(quad.Func(func(x float64) float64 { return x * x * x }), quad.Interval{A: 0, B: 2}, DefaultOptions())
	if err != nil {
		t.Fatalf("integration failed: %v", err)
	}
	if math.Abs(res.Value-4) > 1e-14 {
		t.Errorf("expected 4, got %.17g", res.Value)
	}
	if res.Evaluations != 5 {
		t.Errorf("expected 5 evaluations, got %d", res.Evaluations)
	}
	if res.Intervals != 1 || res.Depth != 0 {
		t.Errorf("expected a single span at depth 0, got %d spans at depth %d", res.Intervals, res.Depth)
	}
}

func TestEvaluationsMatchCalls(t *testing.T) {
	c := quad.NewCounter(quad.Func(math.Sqrt))
	opts := DefaultOptions()
	opts.Tolerance = 1e-8
	res, err := Integrate(c, quad.Interval{A: 0, B: 4}, opts)
	if err != nil {
		t.Fatalf("integration failed: %v", err)
	}
	if res.Evaluations != c.Calls {
		t.Errorf("expected %d evaluations, got %d", c.Calls, res.Evaluations)
	}
	// 3 initial values plus 2 per refinement, each refinement adds one span.
	if res.Evaluations != 2*(2*res.Intervals-1)+3 {
		t.Errorf("expected reused function values, got %d evaluations for %d spans", res.Evaluations, res.Intervals)
	}
}

func TestRefinementConcentrates(t *testing.T) {
	opts := DefaultOptions()
	opts.Tolerance = 1e-8
	opts.Trace = true
	res, err := Integrate(quad.Func(math.Sqrt), quad.Interval{A: 0, B: 1}, opts)
	if err != nil {
		t.Fatalf("integration failed: %v", err)
	}
	if len(res.Spans) != res.Intervals {
		t.Fatalf("expected %d traced spans, got %d", res.Intervals, len(res.Spans))
	}

	first, last := res.Spans[0], res.Spans[len(res.Spans)-1]
	if first.Interval.A != 0 || last.Interval.B != 1 {
		t.Errorf("expected spans to cover [0, 1], got %v .. %v", first.Interval, last.Interval)
	}
	if first.Depth <= last.Depth {
		t.Errorf("expected deeper refinement near the singular endpoint, got %d vs %d", first.Depth, last.Depth)
	}
	for i := 1; i < len(res.Spans); i++ {
		if res.Spans[i].Interval.A != res.Spans[i-1].Interval.B {
			t.Fatalf("expected contiguous spans at %d", i)
		}
	}
}

func TestFewerEvaluationsThanFixedStep(t *testing.T) {
	runge := func(x float64) float64 { return 1 / (1 + 25*x*x) }
	iv := quad.Interval{A: -1, B: 1}
	exact := 0.4 * math.Atan(5)

	opts := DefaultOptions()
	opts.Tolerance = 1e-9
	res, err := Integrate(quad.Func(runge), iv, opts)
	if err != nil {
		t.Fatalf("integration failed: %v", err)
	}
	achieved := math.Abs(res.Value - exact)

	simpson := rules.NewSimpson()
	n := 2
	for ; n < 1<<20; n *= 2 {
		r, err := simpson.Integrate(quad.Func(runge), iv, n)
		if err != nil {
			t.Fatalf("simpson failed: %v", err)
		}
		if math.Abs(r.Value-exact) <= achieved {
			break
		}
	}
	if res.Evaluations >= n+1 {
		t.Errorf("expected fewer than %d evaluations, got %d", n+1, res.Evaluations)
	}
}

func TestMaxDepth(t *testing.T) {
	step := func(x float64) float64 {
		if x < 1.0/3.0 {
			return 0
		}
		return 1
	}
	opts := DefaultOptions()
	opts.Tolerance = 1e-14
	opts.MaxDepth = 10

	_, err := Integrate(quad.Func(step), quad.Interval{A: 0, B: 1}, opts)
	if !errors.Is(err, quad.ErrMaxDepth) {
		t.Errorf("expected ErrMaxDepth, got %v", err)
	}
}

func TestEvaluationFailure(t *testing.T) {
	_, err := Integrate(quad.Func(math.Log), quad.Interval{A: 0, B: 1}, DefaultOptions())
	if !errors.Is(err, quad.ErrIntegrandEvaluation) {
		t.Fatalf("expected ErrIntegrandEvaluation, got %v", err)
	}
	var ev *quad.EvalError
	if !errors.As(err, &ev) || ev.X != 0 {
		t.Errorf("expected failure at x=0, got %v", err)
	}
}

func TestInvalidInterval(t *testing.T) {
	_, err := Integrate(quad.Func(math.Sin), quad.Interval{A: 1, B: 1}, DefaultOptions())
	if !errors.Is(err, quad.ErrInvalidInterval) {
		t.Errorf("expected ErrInvalidInterval, got %v", err)
	}
}

func TestDeterministic(t *testing.T) {
	opts := DefaultOptions()
	a, _ := Integrate(quad.Func(math.Exp), quad.Interval{A: -2, B: 3}, opts)
	b, _ := Integrate(quad.Func(math.Exp), quad.Interval{A: -2, B: 3}, opts)
	if a.Value != b.Value || a.Evaluations != b.Evaluations {
		t.Errorf("expected identical results, got %v and %v", a, b)
	}
}
