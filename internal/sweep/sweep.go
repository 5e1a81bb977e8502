// Package sweep measures the actual error of a rule across a log-spaced
// range of bin counts.
//
// Candidates run concurrently; each is an independent deterministic
// integration, and results are ordered by bin count. From the curve the
// sweep reports the empirical optimum and the observed order of
// convergence, a least-squares slope of log error against log h over the
// truncation-dominated points.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"runtime"
	"sort"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/quadlab/internal/adaptive"
	"github.com/san-kum/quadlab/internal/errest"
	"github.com/san-kum/quadlab/internal/logging"
	"github.com/san-kum/quadlab/internal/quad"
	"github.com/san-kum/quadlab/internal/rules"
	"github.com/san-kum/quadlab/internal/stepopt"
)

var ErrInvalidRange = errors.New("sweep: invalid bin range")

// ReferenceTolerance is the adaptive tolerance used when no exact value is known.
const ReferenceTolerance = 1e-13

type Options struct {
	MinBins int
	MaxBins int
	Points  int
	// Workers bounds concurrent integrations; 0 means GOMAXPROCS.
	Workers int
	// Exact is the true integral; nil computes an adaptive reference.
	Exact    *float64
	Progress io.Writer
	Logger   *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		MinBins: 10,
		MaxBins: 10_000_000,
		Points:  25,
	}
}

type Point struct {
	Bins        int                 `json:"bins"`
	Step        float64             `json:"step"`
	Value       float64             `json:"value"`
	Error       float64             `json:"error"`
	Evaluations int                 `json:"evaluations"`
	Predicted   *quad.ErrorEstimate `json:"predicted,omitempty"`
}

type Result struct {
	Rule      string        `json:"rule"`
	Interval  quad.Interval `json:"interval"`
	Exact     float64       `json:"exact"`
	Reference bool          `json:"reference"`
	Points    []Point       `json:"points"`
	// Best is the point with the smallest measured error.
	Best          Point                   `json:"best"`
	ObservedOrder float64                 `json:"observed_order"`
	FitPoints     int                     `json:"fit_points"`
	Predicted     *stepopt.Recommendation `json:"predicted,omitempty"`
}

// Candidates returns up to n log-spaced bin counts in [lo, hi], rounded to
// the rule's partition constraints, sorted and without duplicates.
func Candidates(rule rules.Rule, lo, hi, n int) ([]int, error) {
	if lo < 1 || hi < lo || n < 1 {
		return nil, fmt.Errorf("%w: [%d, %d] with %d points", ErrInvalidRange, lo, hi, n)
	}
	if n == 1 || lo == hi {
		return []int{rule.RoundBins(lo)}, nil
	}

	span := floats.LogSpan(make([]float64, n), float64(lo), float64(hi))
	seen := make(map[int]bool, n)
	bins := make([]int, 0, n)
	for _, v := range span {
		b := rule.RoundBins(int(math.Round(v)))
		if seen[b] {
			continue
		}
		seen[b] = true
		bins = append(bins, b)
	}
	sort.Ints(bins)
	return bins, nil
}

// Run integrates f with every candidate bin count. f must be safe for
// concurrent Eval calls.
func Run(ctx context.Context, rule rules.Rule, est *errest.Estimator, f quad.Integrand, iv quad.Interval, opts Options) (*Result, error) {
	if err := iv.Validate(); err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}

	bins, err := Candidates(rule, opts.MinBins, opts.MaxBins, opts.Points)
	if err != nil {
		return nil, err
	}

	res := &Result{Rule: rule.Name(), Interval: iv}
	if opts.Exact != nil {
		res.Exact = *opts.Exact
	} else {
		ref, err := adaptive.Integrate(f, iv, adaptive.Options{Tolerance: ReferenceTolerance})
		if err != nil {
			return nil, fmt.Errorf("reference integral: %w", err)
		}
		res.Exact = ref.Value
		res.Reference = true
		log.Debug("adaptive reference", "value", ref.Value, "evaluations", ref.Evaluations)
	}

	var derivs *errest.Derivatives
	if est != nil {
		derivs, err = est.Derivatives(rule, f, iv)
		if err != nil {
			log.Info("error model unavailable", "rule", rule.Name(), "err", err)
			derivs = nil
		} else if m, err := stepopt.ModelFor(rule, est, f, iv); err == nil {
			rec, err := stepopt.Optimize(rule, m, stepopt.MethodExact)
			if err == nil {
				res.Predicted = &rec
			}
		}
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	bar := pb.New(len(bins))
	if opts.Progress != nil {
		bar.SetWriter(opts.Progress)
	} else {
		bar.SetWriter(io.Discard)
	}
	bar.Start()
	defer bar.Finish()

	points := make([]Point, len(bins))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, n := range bins {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := rule.Integrate(f, iv, n)
			if err != nil {
				return err
			}
			p := Point{
				Bins:        n,
				Step:        r.Step,
				Value:       r.Value,
				Error:       math.Abs(r.Value - res.Exact),
				Evaluations: r.Evaluations,
			}
			if derivs != nil {
				if e, err := errest.Predict(rule, iv, r.Step, derivs, est.Epsilon); err == nil {
					p.Predicted = &e
				}
			}
			points[i] = p
			bar.Increment()
			log.Debug("sweep point", "bins", n, "error", p.Error)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res.Points = points
	res.Best = best(points)
	res.ObservedOrder, res.FitPoints = observedOrder(points, res.Best, res.Predicted)
	log.Info("sweep complete", "rule", res.Rule, "points", len(points), "best_bins", res.Best.Bins,
		"best_error", res.Best.Error, "observed_order", res.ObservedOrder)
	return res, nil
}

func best(points []Point) Point {
	b := points[0]
	for _, p := range points[1:] {
		if p.Error < b.Error {
			b = p
		}
	}
	return b
}

// observedOrder fits log(error) = alpha + order*log(h) over the points
// coarser than both the empirical optimum and a tenth of the predicted one.
// With fewer than two such points the order is reported as 0.
func observedOrder(points []Point, b Point, rec *stepopt.Recommendation) (float64, int) {
	limit := b.Bins
	if rec != nil && rec.Bins/10 < limit {
		limit = rec.Bins / 10
	}

	var xs, ys []float64
	for _, p := range points {
		if p.Bins > limit || p.Error <= 0 {
			continue
		}
		xs = append(xs, math.Log(p.Step))
		ys = append(ys, math.Log(p.Error))
	}
	if len(xs) < 2 {
		return 0, len(xs)
	}
	_, slope := stat.LinearRegression(xs, ys, nil, false)
	return slope, len(xs)
}
