package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	service "github.com/okian/pillscore/internal/app"
	"github.com/okian/pillscore/internal/config"
	"github.com/okian/pillscore/pkg/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

type rootFlags struct {
	config       string
	logLevel     string
	workers      int
	strictCounts bool
	metricsFile  string
	quiet        bool
	table        bool
}

func newRootCmd() *cobra.Command {
	var flags rootFlags
	cmd := &cobra.Command{
		Use:   "pillscore [input_dir] [output_dir]",
		Short: "Score pill-slot detections against ground truth",
		Long: "pillscore compares predicted pill-slot detections with ground-truth annotations\n" +
			"and writes a weighted score report to <output_dir>/scores.txt.",
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, flags)
		},
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.config, "config", "", "YAML config file (default $"+config.EnvConfigFile+")")
	f.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	f.IntVar(&flags.workers, "workers", 0, "Number of metric reductions running at once")
	f.BoolVar(&flags.strictCounts, "strict-counts", false, "Fail when pill counts disagree with centroid lists")
	f.StringVar(&flags.metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile")
	f.BoolVarP(&flags.quiet, "quiet", "q", false, "Do not print the score summary")
	f.BoolVar(&flags.table, "table", false, "Print the summary as a table")
	return cmd
}

// loadConfig layers command-line arguments and flags over the loaded config.
func loadConfig(cmd *cobra.Command, args []string, flags rootFlags) (*config.Config, error) {
	path := flags.config
	if path == "" {
		path = os.Getenv(config.EnvConfigFile)
	}
	cfg, err := config.LoadFile(cmd.Context(), path)
	if err != nil {
		return nil, err
	}

	if len(args) > 0 {
		cfg.InputDir = args[0]
	}
	if len(args) > 1 {
		cfg.OutputDir = args[1]
	}

	f := cmd.Flags()
	if f.Changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	if f.Changed("workers") {
		cfg.WorkerCount = flags.workers
	}
	if f.Changed("strict-counts") {
		cfg.StrictCounts = flags.strictCounts
	}
	if f.Changed("metrics-file") {
		cfg.MetricsFile = flags.metricsFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(cmd *cobra.Command, args []string, flags rootFlags) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd, args, flags)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := logger.Init(
		logger.WithOutput(cmd.ErrOrStderr()),
		logger.WithJSON(strings.EqualFold(cfg.LogFormat, "json")),
	); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	var console io.Writer
	if !flags.quiet && !flags.table {
		console = cmd.OutOrStdout()
	}

	report, err := service.NewFromConfig(cfg, console).Run(ctx)
	if err != nil {
		return err
	}
	if flags.table && !flags.quiet {
		fmt.Fprintln(cmd.OutOrStdout(), report.Table())
	}
	return nil
}

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "pillscore:", err)
		stop()
		os.Exit(1)
	}
}
