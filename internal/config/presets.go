package config

import (
	"sort"

	"github.com/san-kum/quadlab/internal/quad"
)

// Presets are keyed by integrand, then by preset name.
var Presets = map[string]map[string]*Config{
	"x4": {
		"textbook": {
			Integrand: "x4", Rule: "trapezoidal", Bins: 10,
		},
		"simpson": {
			Integrand: "x4", Rule: "simpson", Bins: 10,
		},
		"optimal": {
			Integrand: "x4", Rule: "trapezoidal", Method: "exact",
		},
		"floor": {
			Integrand: "x4", Rule: "trapezoidal",
			Sweep: SweepConfig{MinBins: 10, MaxBins: 100_000_000, Points: 29},
		},
	},
	"sin": {
		"smooth": {
			Integrand: "sin", Rule: "simpson", Tolerance: 1e-10,
		},
		"halfwave": {
			Integrand: "sin", Rule: "trapezoidal", Bins: 64,
			Interval: &quad.Interval{A: 0, B: 1.5707963267948966},
		},
	},
	"runge": {
		"adaptive": {
			Integrand: "runge", Tolerance: 1e-10,
			Adaptive: AdaptiveConfig{MaxDepth: 40, Trace: true},
		},
		"fd": {
			Integrand: "runge", Rule: "simpson", Bins: 100, DerivativeSource: "finite-difference",
		},
	},
	"sqrt": {
		"singular": {
			Integrand: "sqrt", Tolerance: 1e-8, DerivativeSource: "none",
			Adaptive: AdaptiveConfig{MaxDepth: 60},
		},
	},
	"gaussian": {
		"tail": {
			Integrand: "gaussian", Rule: "simpson", Bins: 200,
			Interval: &quad.Interval{A: 0, B: 6},
		},
	},
}

func GetPreset(integrand, preset string) *Config {
	integrandPresets, ok := Presets[integrand]
	if !ok {
		return nil
	}
	cfg, ok := integrandPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(integrand string) []string {
	integrandPresets, ok := Presets[integrand]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(integrandPresets))
	for name := range integrandPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
