package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Rishisingh1999/Employee-Benefits-Compliance-Tracker/internal/app"
	"github.com/Rishisingh1999/Employee-Benefits-Compliance-Tracker/internal/config"
)

func newRunCmd() *cobra.Command {
	var (
		configPath string
		outDir     string
		inputDir   string
		seed       int64
		employees  int
		exceptions int
		graceDays  int
		asOf       string
		charts     bool
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one compliance reporting pass",
		Long:  "Generates (or loads) the benefits dataset, runs the aggregation library, computes KPIs, and writes all CSV and HTML artifacts.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			// Precedence: flag > env > file > default. Load applied
			// env and file; flags win when set explicitly.
			flags := cmd.Flags()
			applyString(flags, "out", &cfg.OutDir, outDir)
			applyString(flags, "input", &cfg.InputDir, inputDir)
			if flags.Changed("seed") {
				cfg.Seed = seed
			}
			if flags.Changed("employees") {
				cfg.Employees = employees
			}
			if flags.Changed("exceptions") {
				cfg.Exceptions = exceptions
			}
			if flags.Changed("grace-days") {
				cfg.GraceDays = graceDays
			}
			if flags.Changed("as-of") {
				t, err := time.Parse("2006-01-02", asOf)
				if err != nil {
					return fmt.Errorf("--as-of must be YYYY-MM-DD: %w", err)
				}
				cfg.AsOf = t
			}
			if flags.Changed("charts") {
				cfg.Charts = charts
			}
			applyString(flags, "log-level", &cfg.LogLevel, logLevel)

			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
			for _, w := range cfg.Warnings {
				logger.Warn(w)
			}

			return app.New(cfg, logger).Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to YAML config file (default: ./"+config.DefaultFile+" if present)")
	cmd.Flags().StringVar(&outDir, "out", "./output", "Artifact output directory")
	cmd.Flags().StringVar(&inputDir, "input", "", "Directory with input CSVs; omit to generate synthetic data")
	cmd.Flags().Int64Var(&seed, "seed", 42, "RNG seed for synthetic data")
	cmd.Flags().IntVar(&employees, "employees", 150, "Synthetic employee count")
	cmd.Flags().IntVar(&exceptions, "exceptions", 20, "Synthetic exception count")
	cmd.Flags().IntVar(&graceDays, "grace-days", 0, "Grace period in days before a lapsed deadline counts as overdue")
	cmd.Flags().StringVar(&asOf, "as-of", "", "Reference date (YYYY-MM-DD, default: today)")
	cmd.Flags().BoolVar(&charts, "charts", true, "Emit standalone HTML charts")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")

	return cmd
}

func applyString(flags *pflag.FlagSet, name string, dst *string, value string) {
	if flags.Changed(name) {
		*dst = value
	}
}
