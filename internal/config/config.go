package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/quadlab/internal/errest"
	"github.com/san-kum/quadlab/internal/quad"
	"github.com/san-kum/quadlab/internal/rules"
	"github.com/san-kum/quadlab/internal/stepopt"
)

const (
	DefaultIntegrand = "x4"
	DefaultRule      = "trapezoidal"
	// DefaultBins is where interactive exploration starts; Config.Bins 0
	// lets the tolerance or the optimizer choose N.
	DefaultBins      = 10
	DefaultMaxDepth  = 50
	DefaultMinBins   = 10
	DefaultMaxBins   = 10_000_000
	DefaultPoints    = 25
	DefaultDataDir   = "./data"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Integrand string `yaml:"integrand" toml:"integrand"`
	// Expr overrides Integrand with an expression in x.
	Expr string `yaml:"expr,omitempty" toml:"expr,omitempty"`
	// Interval overrides the integrand's default domain.
	Interval         *quad.Interval `yaml:"interval,omitempty" toml:"interval,omitempty"`
	Rule             string         `yaml:"rule" toml:"rule"`
	Bins             int            `yaml:"n" toml:"n"`
	Tolerance        float64        `yaml:"tol" toml:"tol"`
	MachineEpsilon   float64        `yaml:"machine_epsilon" toml:"machine_epsilon"`
	DerivativeSource string         `yaml:"derivative_source" toml:"derivative_source"`
	Method           string         `yaml:"method" toml:"method"`
	Adaptive         AdaptiveConfig `yaml:"adaptive" toml:"adaptive"`
	Sweep            SweepConfig    `yaml:"sweep" toml:"sweep"`
	DataDir          string         `yaml:"data_dir" toml:"data_dir"`
}

type AdaptiveConfig struct {
	MaxDepth int  `yaml:"max_depth" toml:"max_depth"`
	Trace    bool `yaml:"trace" toml:"trace"`
}

type SweepConfig struct {
	MinBins int `yaml:"min_bins" toml:"min_bins"`
	MaxBins int `yaml:"max_bins" toml:"max_bins"`
	Points  int `yaml:"points" toml:"points"`
	Workers int `yaml:"workers" toml:"workers"`
}

func DefaultConfig() *Config {
	return &Config{
		Integrand:        DefaultIntegrand,
		Rule:             DefaultRule,
		MachineEpsilon:   errest.DefaultEpsilon,
		DerivativeSource: string(errest.SourceAuto),
		Method:           stepopt.MethodExact.String(),
		Adaptive: AdaptiveConfig{
			MaxDepth: DefaultMaxDepth,
		},
		Sweep: SweepConfig{
			MinBins: DefaultMinBins,
			MaxBins: DefaultMaxBins,
			Points:  DefaultPoints,
		},
		DataDir: DefaultDataDir,
	}
}

// Load reads a yaml config, or toml when the file ends in .toml, on top of
// the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if isTOML(path) {
		meta, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, err
		}
		if keys := meta.Undecoded(); len(keys) > 0 {
			return nil, fmt.Errorf("%w: unknown keys %v in %s", ErrInvalidConfig, keys, path)
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	if isTOML(path) {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := toml.NewEncoder(f).Encode(cfg); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

func (c *Config) Validate() error {
	if _, err := rules.Lookup(c.Rule); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := errest.ParseSource(c.DerivativeSource); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := stepopt.ParseMethod(c.Method); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if !(c.MachineEpsilon > 0 && c.MachineEpsilon < 1) {
		return fmt.Errorf("%w: machine_epsilon %g outside (0, 1)", ErrInvalidConfig, c.MachineEpsilon)
	}
	if c.Bins < 0 {
		return fmt.Errorf("%w: n=%d", ErrInvalidConfig, c.Bins)
	}
	if c.Tolerance < 0 {
		return fmt.Errorf("%w: tol=%g", ErrInvalidConfig, c.Tolerance)
	}
	if c.Interval != nil {
		if err := c.Interval.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	if c.Adaptive.MaxDepth < 1 {
		return fmt.Errorf("%w: adaptive.max_depth=%d", ErrInvalidConfig, c.Adaptive.MaxDepth)
	}
	if c.Sweep.MinBins < 1 || c.Sweep.MaxBins < c.Sweep.MinBins || c.Sweep.Points < 1 {
		return fmt.Errorf("%w: sweep range [%d, %d] with %d points", ErrInvalidConfig, c.Sweep.MinBins, c.Sweep.MaxBins, c.Sweep.Points)
	}
	if c.Integrand == "" && c.Expr == "" {
		return fmt.Errorf("%w: no integrand or expr", ErrInvalidConfig)
	}
	return nil
}

// Merge returns a copy of c with every non-zero field of p applied.
func (c *Config) Merge(p *Config) *Config {
	out := *c
	if p.Integrand != "" {
		out.Integrand = p.Integrand
	}
	if p.Expr != "" {
		out.Expr = p.Expr
	}
	if p.Interval != nil {
		iv := *p.Interval
		out.Interval = &iv
	}
	if p.Rule != "" {
		out.Rule = p.Rule
	}
	if p.Bins != 0 {
		out.Bins = p.Bins
	}
	if p.Tolerance != 0 {
		out.Tolerance = p.Tolerance
	}
	if p.MachineEpsilon != 0 {
		out.MachineEpsilon = p.MachineEpsilon
	}
	if p.DerivativeSource != "" {
		out.DerivativeSource = p.DerivativeSource
	}
	if p.Method != "" {
		out.Method = p.Method
	}
	if p.Adaptive.MaxDepth != 0 {
		out.Adaptive.MaxDepth = p.Adaptive.MaxDepth
	}
	if p.Adaptive.Trace {
		out.Adaptive.Trace = true
	}
	if p.Sweep.MinBins != 0 {
		out.Sweep.MinBins = p.Sweep.MinBins
	}
	if p.Sweep.MaxBins != 0 {
		out.Sweep.MaxBins = p.Sweep.MaxBins
	}
	if p.Sweep.Points != 0 {
		out.Sweep.Points = p.Sweep.Points
	}
	if p.Sweep.Workers != 0 {
		out.Sweep.Workers = p.Sweep.Workers
	}
	if p.DataDir != "" {
		out.DataDir = p.DataDir
	}
	return &out
}
