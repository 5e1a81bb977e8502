package rules

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/quadlab/internal/quad"
)

func TestIntegrateSamplesMatchesIntegrate(t *testing.T) {
	iv := quad.Interval{A: 0, B: 2}
	n := 40
	p, _ := quad.NewPartition(iv, n)

	ys := make([]float64, n+1)
	for k := range ys {
		ys[k] = math.Cos(p.Node(k))
	}

	for _, r := range []Rule{NewTrapezoidal(), NewSimpson()} {
		direct, err := r.Integrate(quad.Func(math.Cos), iv, n)
		if err != nil {
			t.Fatalf("%s: integrate failed: %v", r.Name(), err)
		}
		sampled, err := IntegrateSamples(r, ys, p.H)
		if err != nil {
			t.Fatalf("%s: samples failed: %v", r.Name(), err)
		}
		if sampled != direct.Value {
			t.Errorf("%s: expected sampled %.17g to equal direct %.17g", r.Name(), sampled, direct.Value)
		}
	}
}

func TestIntegrateSamplesRejects(t *testing.T) {
	if _, err := IntegrateSamples(NewSimpson(), []float64{1, 2, 3, 4}, 0.1); !errors.Is(err, quad.ErrInvalidPartition) {
		t.Errorf("expected ErrInvalidPartition for odd bin count, got %v", err)
	}
	if _, err := IntegrateSamples(NewTrapezoidal(), []float64{1}, 0.1); !errors.Is(err, quad.ErrInvalidPartition) {
		t.Errorf("expected ErrInvalidPartition for a single sample, got %v", err)
	}
	if _, err := IntegrateSamples(NewTrapezoidal(), []float64{1, 2}, 0); !errors.Is(err, quad.ErrInvalidInterval) {
		t.Errorf("expected ErrInvalidInterval for zero step, got %v", err)
	}
	if _, err := IntegrateSamples(NewTrapezoidal(), []float64{1, math.NaN()}, 1); !errors.Is(err, quad.ErrIntegrandEvaluation) {
		t.Errorf("expected ErrIntegrandEvaluation for NaN sample, got %v", err)
	}
}

func TestIntegrateScattered(t *testing.T) {
	xs := []float64{0, 0.1, 0.25, 0.5, 0.6, 0.8, 1.0}
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = x * x
	}

	trap, err := IntegrateScattered(NewTrapezoidal(), xs, ys)
	if err != nil {
		t.Fatalf("trapezoidal failed: %v", err)
	}
	if math.Abs(trap-1.0/3.0) > 1e-2 {
		t.Errorf("expected trapezoidal ~1/3, got %f", trap)
	}

	simp, err := IntegrateScattered(NewSimpson(), xs, ys)
	if err != nil {
		t.Fatalf("simpson failed: %v", err)
	}
	if math.Abs(simp-1.0/3.0) > 1e-12 {
		t.Errorf("expected simpson exact for quadratics, got %.15f", simp)
	}
}

func TestIntegrateScatteredRejects(t *testing.T) {
	if _, err := IntegrateScattered(NewTrapezoidal(), []float64{0, 1}, []float64{1}); !errors.Is(err, quad.ErrInvalidPartition) {
		t.Errorf("expected ErrInvalidPartition for length mismatch, got %v", err)
	}
	if _, err := IntegrateScattered(NewTrapezoidal(), []float64{0, 1, 1}, []float64{1, 2, 3}); !errors.Is(err, quad.ErrInvalidInterval) {
		t.Errorf("expected ErrInvalidInterval for repeated abscissa, got %v", err)
	}
	if _, err := IntegrateScattered(NewSimpson(), []float64{0, 1}, []float64{1, 2}); !errors.Is(err, quad.ErrInvalidPartition) {
		t.Errorf("expected ErrInvalidPartition for two points with simpson, got %v", err)
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()

	for _, name := range []string{"trapezoidal", "trap", "Simpson", "simpsons"} {
		if _, err := reg.Get(name); err != nil {
			t.Errorf("expected rule for %q, got %v", name, err)
		}
	}

	if _, err := reg.Get("romberg"); !errors.Is(err, quad.ErrUnknownRule) {
		t.Errorf("expected ErrUnknownRule, got %v", err)
	}

	names := reg.Names()
	if len(names) != 2 || names[0] != "simpson" || names[1] != "trapezoidal" {
		t.Errorf("unexpected names: %v", names)
	}
}
