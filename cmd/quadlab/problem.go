package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/san-kum/quadlab/internal/config"
	"github.com/san-kum/quadlab/internal/errest"
	"github.com/san-kum/quadlab/internal/expr"
	"github.com/san-kum/quadlab/internal/integrands"
	"github.com/san-kum/quadlab/internal/quad"
	"github.com/san-kum/quadlab/internal/rules"
)

type problem struct {
	cfg   *config.Config
	name  string
	f     quad.Integrand
	iv    quad.Interval
	exact *float64
	rule  rules.Rule
	est   *errest.Estimator
}

// resolveConfig layers the config file, the preset and explicitly set flags,
// in that order, over the defaults.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if len(args) > 0 {
		cfg.Integrand = args[0]
		cfg.Expr = ""
	}

	if preset != "" {
		p := config.GetPreset(cfg.Integrand, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.Integrand))
		}
		cfg = cfg.Merge(p)
	}

	flags := cmd.Flags()
	if flags.Changed("expr") {
		cfg.Expr = exprSrc
	}
	if flags.Changed("rule") {
		cfg.Rule = ruleName
	}
	if flags.Changed("n") {
		cfg.Bins = bins
	}
	if flags.Changed("eps") {
		cfg.MachineEpsilon = eps
	}
	if flags.Changed("deriv") {
		cfg.DerivativeSource = derivSource
	}
	if flags.Changed("tol") {
		cfg.Tolerance = tol
	}
	if flags.Changed("method") {
		cfg.Method = method
	}
	if flags.Changed("max-depth") {
		cfg.Adaptive.MaxDepth = maxDepth
	}
	if flags.Changed("trace") {
		cfg.Adaptive.Trace = trace
	}
	if flags.Changed("min") {
		cfg.Sweep.MinBins = minBins
	}
	if flags.Changed("max") {
		cfg.Sweep.MaxBins = maxBins
	}
	if flags.Changed("points") {
		cfg.Sweep.Points = points
	}
	if flags.Changed("workers") {
		cfg.Sweep.Workers = workers
	}
	if cmd.Root().PersistentFlags().Changed("data") {
		cfg.DataDir = dataDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func resolveProblem(cmd *cobra.Command, args []string) (*problem, error) {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return nil, err
	}

	p := &problem{cfg: cfg}

	var defaultIv quad.Interval
	var entry *integrands.Entry
	if cfg.Expr != "" {
		e, err := expr.Parse(cfg.Expr)
		if err != nil {
			return nil, err
		}
		p.name = e.Source
		p.f = e
		defaultIv = quad.Interval{A: lower, B: upper}
	} else {
		entry, err = integrands.NewRegistry().Get(cfg.Integrand)
		if err != nil {
			return nil, fmt.Errorf("%w (available: %v)", err, integrands.NewRegistry().List())
		}
		p.name = entry.Name
		p.f = entry.Integrand()
		defaultIv = entry.Interval
	}

	p.iv = defaultIv
	if cfg.Interval != nil {
		p.iv = *cfg.Interval
	}
	if cmd.Flags().Changed("a") {
		p.iv.A = lower
	}
	if cmd.Flags().Changed("b") {
		p.iv.B = upper
	}
	if err := p.iv.Validate(); err != nil {
		return nil, err
	}

	if entry != nil {
		if v, err := entry.Exact(p.iv); err == nil {
			p.exact = &v
		}
	}

	p.rule, err = rules.Lookup(cfg.Rule)
	if err != nil {
		return nil, err
	}
	src, err := errest.ParseSource(cfg.DerivativeSource)
	if err != nil {
		return nil, err
	}
	p.est = errest.New(cfg.MachineEpsilon, src)

	logger.Debug("problem resolved", "integrand", p.name, "interval", p.iv.String(), "rule", p.rule.Name(),
		"derivative_source", string(src), "epsilon", cfg.MachineEpsilon)
	return p, nil
}
