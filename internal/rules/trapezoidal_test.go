package rules

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/quadlab/internal/quad"
)

func quartic(x float64) float64 { return x * x * x * x }

func TestTrapezoidalQuartic(t *testing.T) {
	res, err := NewTrapezoidal().Integrate(quad.Func(quartic), quad.Interval{A: 0, B: 1}, 10)
	if err != nil {
		t.Fatalf("integrate failed: %v", err)
	}

	if math.Abs(res.Value-0.20333) > 1e-5 {
		t.Errorf("expected ~0.20333, got %.6f", res.Value)
	}

	absErr := math.Abs(res.Value - 0.2)
	if math.Abs(absErr-3.33e-3) > 1e-5 {
		t.Errorf("expected error ~3.33e-3, got %e", absErr)
	}

	if res.Step != 0.1 || res.Bins != 10 || res.Evaluations != 11 {
		t.Errorf("unexpected bookkeeping: step=%f bins=%d evals=%d", res.Step, res.Bins, res.Evaluations)
	}
}

func TestTrapezoidalSingleBin(t *testing.T) {
	f := quad.Func(math.Exp)
	iv := quad.Interval{A: -0.5, B: 2}

	res, err := NewTrapezoidal().Integrate(f, iv, 1)
	if err != nil {
		t.Fatalf("integrate failed: %v", err)
	}

	h := iv.B - iv.A
	expected := h * (math.Exp(iv.A) + math.Exp(iv.B)) / 2
	if math.Abs(res.Value-expected) > 1e-15*math.Abs(expected) {
		t.Errorf("expected single trapezoid %.17g, got %.17g", expected, res.Value)
	}
}

func TestTrapezoidalConvergenceOrder(t *testing.T) {
	f := quad.Func(math.Sin)
	iv := quad.Interval{A: 0, B: 1}
	exact := 1 - math.Cos(1)
	trap := NewTrapezoidal()

	prev := 0.0
	for _, n := range []int{8, 16, 32, 64} {
		res, err := trap.Integrate(f, iv, n)
		if err != nil {
			t.Fatalf("integrate failed: %v", err)
		}
		e := math.Abs(res.Value - exact)
		if prev > 0 {
			ratio := prev / e
			if math.Abs(ratio-4) > 0.05 {
				t.Errorf("N=%d: expected error ratio ~4, got %.4f", n, ratio)
			}
		}
		prev = e
	}
}

func TestTrapezoidalEvaluationCount(t *testing.T) {
	for _, n := range []int{1, 2, 7, 100} {
		c := quad.NewCounter(quad.Func(quartic))
		if _, err := NewTrapezoidal().Integrate(c, quad.Interval{A: 0, B: 1}, n); err != nil {
			t.Fatalf("integrate failed: %v", err)
		}
		if c.Calls != n+1 {
			t.Errorf("N=%d: expected %d evaluations, got %d", n, n+1, c.Calls)
		}
	}
}

func TestTrapezoidalRejects(t *testing.T) {
	trap := NewTrapezoidal()
	f := quad.Func(quartic)

	if _, err := trap.Integrate(f, quad.Interval{A: 0, B: 1}, 0); !errors.Is(err, quad.ErrInvalidPartition) {
		t.Errorf("expected ErrInvalidPartition for N=0, got %v", err)
	}
	if _, err := trap.Integrate(f, quad.Interval{A: 1, B: 1}, 4); !errors.Is(err, quad.ErrInvalidInterval) {
		t.Errorf("expected ErrInvalidInterval for a=b, got %v", err)
	}
	if _, err := trap.Integrate(f, quad.Interval{A: 2, B: 1}, 4); !errors.Is(err, quad.ErrInvalidInterval) {
		t.Errorf("expected ErrInvalidInterval for a>b, got %v", err)
	}
}

func TestTrapezoidalPropagatesEvaluationFailure(t *testing.T) {
	_, err := NewTrapezoidal().Integrate(quad.Func(math.Log), quad.Interval{A: 0, B: 1}, 4)
	if !errors.Is(err, quad.ErrIntegrandEvaluation) {
		t.Fatalf("expected ErrIntegrandEvaluation, got %v", err)
	}

	var ev *quad.EvalError
	if !errors.As(err, &ev) {
		t.Fatal("expected *quad.EvalError")
	}
	if ev.Index != 0 || ev.X != 0 {
		t.Errorf("expected failure at node 0, got node %d x=%g", ev.Index, ev.X)
	}
}

func TestTrapezoidalStopsAtFirstFailure(t *testing.T) {
	calls := 0
	f := quad.Func(func(x float64) float64 {
		calls++
		if x > 0.45 && x < 0.55 {
			return math.NaN()
		}
		return x
	})

	if _, err := NewTrapezoidal().Integrate(f, quad.Interval{A: 0, B: 1}, 10); err == nil {
		t.Fatal("expected evaluation failure")
	}
	if calls != 6 {
		t.Errorf("expected evaluation to stop after 6 calls, got %d", calls)
	}
}

func TestTrapezoidalRoundoffFloor(t *testing.T) {
	if testing.Short() {
		t.Skip("long sweep")
	}
	trap := NewTrapezoidal()
	f := quad.Func(quartic)
	iv := quad.Interval{A: 0, B: 1}

	prev := math.Inf(1)
	for _, n := range []int{10, 100, 1000, 10000, 100000, 1000000} {
		res, err := trap.Integrate(f, iv, n)
		if err != nil {
			t.Fatalf("integrate failed: %v", err)
		}
		e := math.Abs(res.Value - 0.2)
		if e >= prev {
			t.Errorf("N=%d: error %e did not decrease from %e", n, e, prev)
		}
		prev = e
	}

	// Euler–Maclaurin predicts 1/(3N^2) = 3.33e-13 at N=1e6.
	if prev < 1.5e-13 || prev > 6e-13 {
		t.Errorf("expected error ~3.33e-13 at N=1e6, got %e", prev)
	}

	// Past the crossover the h^2 law no longer describes the error.
	worst := 0.0
	for _, n := range []int{10000000, 100000000} {
		res, err := trap.Integrate(f, iv, n)
		if err != nil {
			t.Fatalf("integrate failed: %v", err)
		}
		predicted := 1.0 / (3.0 * float64(n) * float64(n))
		worst = math.Max(worst, math.Abs(res.Value-0.2)/predicted)
	}
	if worst < 10 {
		t.Errorf("expected round-off to dominate beyond N=1e6, error/prediction ratio only %.2f", worst)
	}
}
