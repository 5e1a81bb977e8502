package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/san-kum/quadlab/internal/adaptive"
	"github.com/san-kum/quadlab/internal/quad"
	"github.com/san-kum/quadlab/internal/stepopt"
	"github.com/san-kum/quadlab/internal/sweep"
)

func TestResult(t *testing.T) {
	var buf bytes.Buffer
	exact := 0.2
	res := quad.Result{
		Rule: "trapezoidal", Value: 0.20333333333333334, Step: 0.1, Bins: 10, Evaluations: 11,
		Estimate: &quad.ErrorEstimate{Truncation: 3.33e-3, TruncationSigned: -3.33e-3, TruncationOrder: 2, Roundoff: 7e-16, RoundoffOrder: -0.5, Total: 3.33e-3},
	}
	Result(&buf, "x4", quad.Interval{A: 0, B: 1}, res, &exact)

	out := buf.String()
	for _, want := range []string{"trapezoidal", "0.203333333333333", "evaluations", "truncation", "3.330e-03", "h^2", "corrected"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q:\n%s", want, out)
		}
	}
}

func TestRecommendationVanishing(t *testing.T) {
	var buf bytes.Buffer
	Recommendation(&buf, "simpson", stepopt.Recommendation{Method: "exact", Step: 1, Bins: 2})
	if !strings.Contains(buf.String(), "coarsest partition") {
		t.Errorf("expected vanishing-truncation note, got:\n%s", buf.String())
	}
}

func TestAdaptiveTrace(t *testing.T) {
	var buf bytes.Buffer
	res := adaptive.Result{
		Value: 2, Evaluations: 9, Intervals: 2,
		Spans: []adaptive.Span{
			{Interval: quad.Interval{A: 0, B: 0.5}, Depth: 1},
			{Interval: quad.Interval{A: 0.5, B: 1}, Depth: 1},
		},
	}
	Adaptive(&buf, "sin", quad.Interval{A: 0, B: 1}, res, nil)
	if !strings.Contains(buf.String(), "DEPTH") {
		t.Errorf("expected span table, got:\n%s", buf.String())
	}
}

func TestSweepAndPlot(t *testing.T) {
	points := []sweep.Point{
		{Bins: 10, Step: 0.1, Error: 3.3e-3, Predicted: &quad.ErrorEstimate{Total: 3.3e-3}},
		{Bins: 100, Step: 0.01, Error: 3.3e-5, Predicted: &quad.ErrorEstimate{Total: 3.3e-5}},
		{Bins: 1000, Step: 0.001, Error: 0, Predicted: &quad.ErrorEstimate{Total: 3.3e-7}},
	}
	res := &sweep.Result{Rule: "trapezoidal", Interval: quad.Interval{A: 0, B: 1}, Exact: 0.2, Points: points, Best: points[2], ObservedOrder: 2, FitPoints: 2}

	var buf bytes.Buffer
	Sweep(&buf, res)
	if !strings.Contains(buf.String(), "observed p") || !strings.Contains(buf.String(), "2.000") {
		t.Errorf("expected observed order line, got:\n%s", buf.String())
	}

	plot, err := ConvergencePlot(points, "x4")
	if err != nil {
		t.Fatalf("plot failed: %v", err)
	}
	if !strings.Contains(plot, "N=10..1000") {
		t.Errorf("expected caption with bin range, got:\n%s", plot)
	}

	if _, err := ConvergencePlot(nil, "empty"); err == nil {
		t.Error("expected error for empty plot")
	}
}

func TestSparkline(t *testing.T) {
	s := Sparkline([]float64{1e-2, 1e-4, 1e-6, 0})
	if n := len([]rune(stripANSI(s))); n != 4 {
		t.Errorf("expected 4 glyphs, got %d in %q", n, s)
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEsc = true
		case inEsc && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'):
			inEsc = false
		case !inEsc:
			b.WriteRune(r)
		}
	}
	return b.String()
}
