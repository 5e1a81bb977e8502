package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/quadlab/internal/config"
	"github.com/san-kum/quadlab/internal/logging"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string
	logFormat  string

	ruleName    string
	bins        int
	lower       float64
	upper       float64
	eps         float64
	derivSource string
	tol         float64
	method      string
	exprSrc     string

	maxDepth int
	trace    bool

	minBins   int
	maxBins   int
	points    int
	workers   int
	quiet     bool
	noSave    bool
	showPlot  bool
	sampleCol int

	logger *slog.Logger
)

// main registers the quadlab commands and flags and executes the root command.
// It exits with status 1 if a command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:           "quadlab",
		Short:         "numerical quadrature and error analysis lab",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := logging.Setup(os.Stderr, logLevel, logFormat)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	integrateCmd := &cobra.Command{
		Use:   "integrate [integrand]",
		Short: "integrate with a fixed-order rule and report the error model",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runIntegrate,
	}
	addProblemFlags(integrateCmd)

	optimizeCmd := &cobra.Command{
		Use:   "optimize [integrand]",
		Short: "predict the step size that minimizes total error",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runOptimize,
	}
	addProblemFlags(optimizeCmd)

	adaptiveCmd := &cobra.Command{
		Use:   "adaptive [integrand]",
		Short: "integrate with adaptive Simpson refinement",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runAdaptive,
	}
	addProblemFlags(adaptiveCmd)
	adaptiveCmd.Flags().IntVar(&maxDepth, "max-depth", config.DefaultMaxDepth, "maximum recursion depth")
	adaptiveCmd.Flags().BoolVar(&trace, "trace", false, "print every accepted span")

	sweepCmd := &cobra.Command{
		Use:   "sweep [integrand]",
		Short: "measure actual error across log-spaced bin counts",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addProblemFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&minBins, "min", config.DefaultMinBins, "smallest bin count")
	sweepCmd.Flags().IntVar(&maxBins, "max", config.DefaultMaxBins, "largest bin count")
	sweepCmd.Flags().IntVar(&points, "points", config.DefaultPoints, "number of bin counts")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "concurrent integrations (0 = GOMAXPROCS)")
	sweepCmd.Flags().BoolVar(&quiet, "quiet", false, "hide the progress bar")
	sweepCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	sweepCmd.Flags().BoolVar(&showPlot, "plot", true, "plot the convergence curve")

	exploreCmd := &cobra.Command{
		Use:   "explore [integrand]",
		Short: "step through bin counts and rules interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runExplore,
	}
	addProblemFlags(exploreCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored sweep runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the convergence curve of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export the convergence table to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	samplesCmd := &cobra.Command{
		Use:   "samples [file.csv]",
		Short: "integrate tabulated x,y samples",
		Args:  cobra.ExactArgs(1),
		RunE:  runSamples,
	}
	samplesCmd.Flags().StringVar(&ruleName, "rule", config.DefaultRule, "quadrature rule (trapezoidal, simpson)")
	samplesCmd.Flags().IntVar(&sampleCol, "column", 1, "column holding y values")

	integrandsCmd := &cobra.Command{
		Use:   "integrands",
		Short: "list built-in integrands",
		RunE:  listIntegrands,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [integrand]",
		Short: "list available presets for an integrand",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for integrand: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(integrateCmd, optimizeCmd, adaptiveCmd, sweepCmd, exploreCmd, listCmd, plotCmd,
		exportJSONCmd, exportCSVCmd, samplesCmd, integrandsCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addProblemFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&ruleName, "rule", config.DefaultRule, "quadrature rule (trapezoidal, simpson)")
	cmd.Flags().IntVar(&bins, "n", 0, "number of bins (0 = optimal)")
	cmd.Flags().Float64Var(&lower, "a", 0, "lower bound")
	cmd.Flags().Float64Var(&upper, "b", 1, "upper bound")
	cmd.Flags().Float64Var(&eps, "eps", 0x1p-52, "machine epsilon for the round-off model")
	cmd.Flags().StringVar(&derivSource, "deriv", "auto", "derivative source (auto, analytic, finite-difference, none)")
	cmd.Flags().Float64Var(&tol, "tol", 0, "absolute error tolerance")
	cmd.Flags().StringVar(&method, "method", "exact", "step optimization (exact, balance)")
	cmd.Flags().StringVar(&exprSrc, "expr", "", "integrand expression in x")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml or toml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}
