package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/quadlab/internal/adaptive"
	"github.com/san-kum/quadlab/internal/config"
	"github.com/san-kum/quadlab/internal/integrands"
	"github.com/san-kum/quadlab/internal/quad"
	"github.com/san-kum/quadlab/internal/report"
	"github.com/san-kum/quadlab/internal/rules"
	"github.com/san-kum/quadlab/internal/stepopt"
	"github.com/san-kum/quadlab/internal/storage"
	"github.com/san-kum/quadlab/internal/sweep"
	"github.com/san-kum/quadlab/internal/tui"
)

func runIntegrate(cmd *cobra.Command, args []string) error {
	p, err := resolveProblem(cmd, args)
	if err != nil {
		return err
	}

	n, err := chooseBins(p)
	if err != nil {
		return err
	}

	res, err := p.rule.Integrate(p.f, p.iv, n)
	if err != nil {
		return err
	}
	if err := p.est.Attach(p.rule, p.f, p.iv, &res); err != nil {
		if !errors.Is(err, quad.ErrMissingDerivativeData) {
			return err
		}
		logger.Warn("no error estimate", "err", err)
	}

	report.Result(os.Stdout, p.name, p.iv, res, p.exact)
	return nil
}

// chooseBins honors an explicit N, then a tolerance, then the optimizer.
func chooseBins(p *problem) (int, error) {
	if p.cfg.Bins > 0 {
		return p.cfg.Bins, nil
	}

	m, err := stepopt.ModelFor(p.rule, p.est, p.f, p.iv)
	if err != nil {
		return 0, fmt.Errorf("choosing N needs the error model (or pass --n): %w", err)
	}

	if p.cfg.Tolerance > 0 {
		n, err := stepopt.BinsForTolerance(p.rule, m, p.cfg.Tolerance)
		if err != nil {
			return 0, err
		}
		logger.Info("bins for tolerance", "tol", p.cfg.Tolerance, "n", n)
		return n, nil
	}

	meth, err := stepopt.ParseMethod(p.cfg.Method)
	if err != nil {
		return 0, err
	}
	rec, err := stepopt.Optimize(p.rule, m, meth)
	if err != nil {
		return 0, err
	}
	logger.Info("optimal bins", "method", rec.Method, "n", rec.Bins, "h", rec.Step)
	return rec.Bins, nil
}

func runOptimize(cmd *cobra.Command, args []string) error {
	p, err := resolveProblem(cmd, args)
	if err != nil {
		return err
	}

	m, err := stepopt.ModelFor(p.rule, p.est, p.f, p.iv)
	if err != nil {
		return err
	}
	meth, err := stepopt.ParseMethod(p.cfg.Method)
	if err != nil {
		return err
	}
	rec, err := stepopt.Optimize(p.rule, m, meth)
	if err != nil {
		return err
	}
	report.Recommendation(os.Stdout, p.rule.Name(), rec)

	if p.cfg.Tolerance > 0 {
		n, err := stepopt.BinsForTolerance(p.rule, m, p.cfg.Tolerance)
		if err != nil {
			return err
		}
		fmt.Printf("smallest N for tol %g: %d\n", p.cfg.Tolerance, n)
	}
	return nil
}

func runAdaptive(cmd *cobra.Command, args []string) error {
	p, err := resolveProblem(cmd, args)
	if err != nil {
		return err
	}

	opts := adaptive.DefaultOptions()
	if p.cfg.Tolerance > 0 {
		opts.Tolerance = p.cfg.Tolerance
	}
	opts.MaxDepth = p.cfg.Adaptive.MaxDepth
	opts.Epsilon = p.cfg.MachineEpsilon
	opts.Trace = p.cfg.Adaptive.Trace

	res, err := adaptive.Integrate(p.f, p.iv, opts)
	if err != nil {
		return err
	}
	report.Adaptive(os.Stdout, p.name, p.iv, res, p.exact)
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	p, err := resolveProblem(cmd, args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := sweep.Options{
		MinBins: p.cfg.Sweep.MinBins,
		MaxBins: p.cfg.Sweep.MaxBins,
		Points:  p.cfg.Sweep.Points,
		Workers: p.cfg.Sweep.Workers,
		Exact:   p.exact,
		Logger:  logger,
	}
	if !quiet {
		opts.Progress = os.Stderr
	}

	res, err := sweep.Run(ctx, p.rule, p.est, p.f, p.iv, opts)
	if err != nil {
		return err
	}

	report.Sweep(os.Stdout, res)
	if showPlot {
		plot, err := report.ConvergencePlot(res.Points, p.name)
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Println(plot)
	}

	if noSave {
		return nil
	}
	st := storage.New(p.cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}
	info := storage.RunInfo{
		Integrand:        p.cfg.Integrand,
		Epsilon:          p.est.Epsilon,
		DerivativeSource: string(p.est.Source),
	}
	if p.cfg.Expr != "" {
		info.Integrand = ""
		info.Expr = p.cfg.Expr
	}
	runID, err := st.Save(info, res)
	if err != nil {
		return err
	}
	fmt.Printf("\nsaved run: %s\n", runID)
	return nil
}

func runExplore(cmd *cobra.Command, args []string) error {
	p, err := resolveProblem(cmd, args)
	if err != nil {
		return err
	}

	n := p.cfg.Bins
	if n <= 0 {
		n = config.DefaultBins
	}
	m := tui.NewExplorer(p.name, p.f, p.iv, p.exact, p.est, p.rule, n)

	prog := tea.NewProgram(m)
	if _, err := prog.Run(); err != nil {
		return err
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	report.Runs(os.Stdout, runs)
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	pts, err := st.LoadPoints(runID)
	if err != nil {
		return err
	}

	name := meta.Info.Integrand
	if name == "" {
		name = meta.Info.Expr
	}
	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("integrand: %s over %v\n", name, meta.Interval)
	fmt.Printf("rule: %s\n\n", meta.Rule)

	plot, err := report.ConvergencePlot(pts, name)
	if err != nil {
		return err
	}
	fmt.Println(plot)
	fmt.Println()
	report.Points(os.Stdout, pts)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportJSON(args[0], os.Stdout)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportCSV(args[0], os.Stdout)
}

func runSamples(cmd *cobra.Command, args []string) error {
	rule, err := rules.Lookup(ruleName)
	if err != nil {
		return err
	}

	file, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer file.Close()

	xs, ys, err := readSamples(file, sampleCol)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	var value float64
	if h, ok := uniformStep(xs); ok {
		value, err = rules.IntegrateSamples(rule, ys, h)
		logger.Debug("uniform samples", "n", len(ys), "h", h)
	} else {
		value, err = rules.IntegrateScattered(rule, xs, ys)
		logger.Debug("scattered samples", "n", len(ys))
	}
	if err != nil {
		return err
	}

	fmt.Printf("%s over [%g, %g] with %d samples: %.15g\n", rule.Name(), xs[0], xs[len(xs)-1], len(xs), value)
	return nil
}

// readSamples reads x from column 0 and y from column col, skipping a
// non-numeric header row.
func readSamples(r io.Reader, col int) ([]float64, []float64, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	var xs, ys []float64
	for i, rec := range records {
		if len(rec) <= col {
			return nil, nil, fmt.Errorf("line %d: expected at least %d columns", i+1, col+1)
		}
		x, errX := strconv.ParseFloat(strings.TrimSpace(rec[0]), 64)
		y, errY := strconv.ParseFloat(strings.TrimSpace(rec[col]), 64)
		if errX != nil || errY != nil {
			if i == 0 {
				continue
			}
			return nil, nil, fmt.Errorf("line %d: invalid number", i+1)
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	if len(xs) < 2 {
		return nil, nil, fmt.Errorf("need at least 2 samples, got %d", len(xs))
	}
	return xs, ys, nil
}

// uniformStep reports the common spacing when every gap agrees to 1e-9
// relative.
func uniformStep(xs []float64) (float64, bool) {
	h := (xs[len(xs)-1] - xs[0]) / float64(len(xs)-1)
	if !(h > 0) {
		return 0, false
	}
	for i := 1; i < len(xs); i++ {
		if math.Abs((xs[i]-xs[i-1])-h) > 1e-9*h {
			return 0, false
		}
	}
	return h, true
}

func listIntegrands(cmd *cobra.Command, args []string) error {
	reg := integrands.NewRegistry()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tFUNCTION\tINTERVAL\tEXACT\tPRESETS")
	for _, name := range reg.List() {
		e, err := reg.Get(name)
		if err != nil {
			return err
		}
		exact := "-"
		if v, err := e.Exact(e.Interval); err == nil {
			exact = strconv.FormatFloat(v, 'g', 15, 64)
		}
		fmt.Fprintf(w, "%s\t%s\t%v\t%s\t%d\n", e.Name, e.Description, e.Interval, exact, len(config.ListPresets(name)))
	}
	return w.Flush()
}
