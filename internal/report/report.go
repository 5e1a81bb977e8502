// Package report renders quadrature results for the terminal.
//
// Engine packages never print; the CLI hands their results to the
// functions here. Styling uses lipgloss and degrades to plain text when the
// output is not a terminal.
package report

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/san-kum/quadlab/internal/adaptive"
	"github.com/san-kum/quadlab/internal/quad"
	"github.com/san-kum/quadlab/internal/stepopt"
	"github.com/san-kum/quadlab/internal/storage"
	"github.com/san-kum/quadlab/internal/sweep"
)

func short(v float64) string { return fmt.Sprintf("%.6g", v) }

func sci(v float64) string { return fmt.Sprintf("%.3e", v) }

// Result prints a fixed-step result and its error report. exact may be nil.
func Result(w io.Writer, name string, iv quad.Interval, res quad.Result, exact *float64) {
	lines := []string{
		Title.Render(fmt.Sprintf("%s  ∫ %s over %v", res.Rule, name, iv)),
		row("value", fmt.Sprintf("%.15g", res.Value)),
		row("bins", fmt.Sprintf("%d", res.Bins)),
		row("step", short(res.Step)),
		row("evaluations", fmt.Sprintf("%d", res.Evaluations)),
	}
	if exact != nil {
		lines = append(lines,
			row("exact", fmt.Sprintf("%.15g", *exact)),
			row("actual error", sci(math.Abs(res.Value-*exact))),
		)
	}
	if est := res.Estimate; est != nil {
		lines = append(lines,
			"",
			Header.Render("error model"),
			row("truncation", fmt.Sprintf("%s  (h^%d)", sci(est.Truncation), est.TruncationOrder)),
			row("round-off", fmt.Sprintf("%s  (h^%g)", sci(est.Roundoff), est.RoundoffOrder)),
			row("total", sci(est.Total)),
			row("corrected", fmt.Sprintf("%.15g", res.Corrected())),
		)
		if exact != nil {
			lines = append(lines, row("corr. error", sci(math.Abs(res.Corrected()-*exact))))
		}
	}
	fmt.Fprintln(w, Panel.Render(strings.Join(lines, "\n")))
}

// Recommendation prints an optimizer result.
func Recommendation(w io.Writer, rule string, rec stepopt.Recommendation) {
	lines := []string{
		Title.Render(fmt.Sprintf("%s  optimal step (%s)", rule, rec.Method)),
		row("h*", short(rec.Step)),
		row("N*", fmt.Sprintf("%d", rec.Bins)),
	}
	if rec.IdealStep > 0 {
		lines = append(lines, row("continuous h", short(rec.IdealStep)))
	} else {
		lines = append(lines, Subtle.Render("truncation term vanishes; coarsest partition"))
	}
	lines = append(lines,
		row("truncation", sci(rec.Truncation)),
		row("round-off", sci(rec.Roundoff)),
		row("total", sci(rec.Total)),
	)
	fmt.Fprintln(w, Panel.Render(strings.Join(lines, "\n")))
}

// Adaptive prints an adaptive Simpson result.
func Adaptive(w io.Writer, name string, iv quad.Interval, res adaptive.Result, exact *float64) {
	lines := []string{
		Title.Render(fmt.Sprintf("adaptive simpson  ∫ %s over %v", name, iv)),
		row("value", fmt.Sprintf("%.15g", res.Value)),
		row("est. error", sci(res.Error)),
		row("evaluations", fmt.Sprintf("%d", res.Evaluations)),
		row("intervals", fmt.Sprintf("%d", res.Intervals)),
		row("max depth", fmt.Sprintf("%d", res.Depth)),
		row("min width", short(res.MinWidth)),
	}
	if exact != nil {
		lines = append(lines, row("actual error", sci(math.Abs(res.Value-*exact))))
	}
	fmt.Fprintln(w, Panel.Render(strings.Join(lines, "\n")))

	if len(res.Spans) > 0 {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "A\tB\tDEPTH\tVALUE\tERROR")
		for _, s := range res.Spans {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", short(s.Interval.A), short(s.Interval.B), s.Depth, short(s.Value), sci(s.Error))
		}
		tw.Flush()
	}
}

// Sweep prints the summary of a convergence sweep and its point table.
func Sweep(w io.Writer, res *sweep.Result) {
	errs := make([]float64, len(res.Points))
	for i, p := range res.Points {
		errs[i] = p.Error
	}

	exactLabel := "exact"
	if res.Reference {
		exactLabel = "reference"
	}
	lines := []string{
		Title.Render(fmt.Sprintf("%s sweep over %v", res.Rule, res.Interval)),
		row(exactLabel, fmt.Sprintf("%.15g", res.Exact)),
		row("points", fmt.Sprintf("%d", len(res.Points))),
		row("error", Sparkline(errs)),
		row("best N", fmt.Sprintf("%d (error %s)", res.Best.Bins, sci(res.Best.Error))),
	}
	if res.FitPoints >= 2 {
		lines = append(lines, row("observed p", fmt.Sprintf("%.3f  (%d points)", res.ObservedOrder, res.FitPoints)))
	} else {
		lines = append(lines, row("observed p", Subtle.Render("too few truncation-dominated points")))
	}
	if res.Predicted != nil {
		lines = append(lines, row("predicted N*", fmt.Sprintf("%d (total %s)", res.Predicted.Bins, sci(res.Predicted.Total))))
	}
	fmt.Fprintln(w, Panel.Render(strings.Join(lines, "\n")))
	Points(w, res.Points)
}

// Points prints a convergence table.
func Points(w io.Writer, points []sweep.Point) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "N\tSTEP\tVALUE\tERROR\tPREDICTED")
	for _, p := range points {
		pred := "-"
		if p.Predicted != nil {
			pred = sci(p.Predicted.Total)
		}
		fmt.Fprintf(tw, "%d\t%s\t%.15g\t%s\t%s\n", p.Bins, short(p.Step), p.Value, sci(p.Error), pred)
	}
	tw.Flush()
}

// Runs prints stored sweep runs.
func Runs(w io.Writer, runs []storage.RunMetadata) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tINTEGRAND\tRULE\tTIME\tPOINTS\tBEST N\tBEST ERROR\tORDER")
	for _, run := range runs {
		name := run.Info.Integrand
		if name == "" {
			name = run.Info.Expr
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%s\t%.2f\n",
			run.ID,
			name,
			run.Rule,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Points,
			run.Best.Bins,
			sci(run.Best.Error),
			run.ObservedOrder,
		)
	}
	tw.Flush()
}
