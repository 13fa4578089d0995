package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/okian/roster/internal/adapters/report"
	"github.com/okian/roster/internal/adapters/source"
	service "github.com/okian/roster/internal/app"
	"github.com/okian/roster/internal/config"
	"github.com/okian/roster/pkg/logger"
	"github.com/okian/roster/pkg/metrics"
)

const version = "0.1.0"

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := newRootCmd()
	root.AddCommand(newVersionCmd())

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// flags holds command-line overrides; empty values leave the config untouched.
type flags struct {
	rosterFile      string
	format          string
	metricsTextfile string
	logLevel        string
}

func newRootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:           "roster",
		Short:         "Record registrations and print participants, unique names, and final scores",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			applyFlags(cmd, cfg, f)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&f.rosterFile, "roster", "", "YAML or TOML file of registrations (default: built-in list)")
	cmd.Flags().StringVar(&f.format, "format", "", "report format: text or json")
	cmd.Flags().StringVar(&f.metricsTextfile, "metrics-textfile", "", "write Prometheus metrics to this file after the run")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "roster %s\n", version)
		},
	}
}

// applyFlags layers explicitly set flags over the loaded config.
func applyFlags(cmd *cobra.Command, cfg *config.Config, f flags) {
	if cmd.Flags().Changed("roster") {
		cfg.RosterFile = f.rosterFile
	}
	if cmd.Flags().Changed("format") {
		cfg.Format = f.format
	}
	if cmd.Flags().Changed("metrics-textfile") {
		cfg.MetricsTextfile = f.metricsTextfile
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
}

// run ingests the configured registrations and writes the report to out.
// Logs go to errOut so that out carries only the report.
func run(ctx context.Context, cfg *config.Config, out, errOut io.Writer) error {
	if err := logger.Init(logger.WithWriter(errOut), logger.WithJSON(cfg.LogJSON)); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Named("roster").With(logger.String("run_id", uuid.NewString()))

	// Apply configured log level (fallback to warn on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to warn", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("warn")
	}

	renderer, err := report.ForFormat(cfg.Format)
	if err != nil {
		return err
	}

	regs, err := source.New(cfg.RosterFile).Registrations(ctx)
	if err != nil {
		log.Error(ctx, "failed to read registrations", logger.String("roster_file", cfg.RosterFile), logger.Error(err))
		return err
	}

	m := metrics.NewManager()
	svc := service.New(
		service.WithLogger(log),
		service.WithMetrics(m),
		service.WithCapacity(len(regs)),
	)
	if err := svc.Ingest(ctx, regs); err != nil {
		return err
	}

	rep, err := svc.Report(ctx)
	if err != nil {
		return err
	}

	start := time.Now()
	if err := renderer.Render(out, rep); err != nil {
		m.RecordReportError(cfg.Format)
		return err
	}
	m.ObserveReport(time.Since(start))

	if cfg.MetricsTextfile != "" {
		if err := m.WriteTextfile(cfg.MetricsTextfile); err != nil {
			log.Error(ctx, "failed to write metrics textfile", logger.String("path", cfg.MetricsTextfile), logger.Error(err))
			return err
		}
		log.Info(ctx, "metrics written", logger.String("path", cfg.MetricsTextfile))
	}
	return nil
}
