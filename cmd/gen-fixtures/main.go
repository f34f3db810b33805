// Command gen-fixtures writes a synthetic evaluation tree for pillscore.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/okian/pillscore/internal/fixtures"
	"github.com/okian/pillscore/pkg/logger"
)

func newRootCmd() *cobra.Command {
	cfg := fixtures.NewConfig("")
	cmd := &cobra.Command{
		Use:           "gen-fixtures <dir>",
		Short:         "Generate ground-truth and prediction files for pillscore",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := logger.Init(logger.WithOutput(cmd.ErrOrStderr())); err != nil {
				return err
			}
			cfg.Dir = args[0]
			stats, err := fixtures.Generate(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "generated %d samples in %s\n", stats.Samples, cfg.Dir)
			fmt.Fprintf(cmd.OutOrStdout(), "  slots:     %d\n", stats.Slots)
			fmt.Fprintf(cmd.OutOrStdout(), "  missing:   %d\n", stats.MissingSlots)
			fmt.Fprintf(cmd.OutOrStdout(), "  dropped:   %d\n", stats.DroppedSlots)
			fmt.Fprintf(cmd.OutOrStdout(), "  anomalous: %d\n", stats.AnomalySamples)
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVarP(&cfg.Samples, "samples", "n", cfg.Samples, "Number of samples")
	f.IntVar(&cfg.Slots, "slots", cfg.Slots, "Pill slots per sample")
	f.Float64Var(&cfg.MissingRate, "missing-rate", cfg.MissingRate, "Probability that a slot is empty")
	f.Float64Var(&cfg.Jitter, "jitter", cfg.Jitter, "Prediction noise in pixels")
	f.Float64Var(&cfg.DropRate, "drop-rate", cfg.DropRate, "Probability that a prediction omits a slot")
	f.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed")
	f.IntVar(&cfg.Workers, "workers", cfg.Workers, "Concurrent file writers")
	f.Float64Var(&cfg.PylintRating, "pylint", cfg.PylintRating, "Pylint rating written to ingestion metrics")
	f.Float64Var(&cfg.PredictionTime, "prediction-time", cfg.PredictionTime, "Prediction time written to ingestion metrics")
	f.Float64Var(&cfg.ElapsedTime, "elapsed-time", cfg.ElapsedTime, "Elapsed time written to metadata")
	f.BoolVar(&cfg.SkipExternal, "skip-external", false, "Do not write ingestion metrics or metadata")
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "gen-fixtures:", err)
		stop()
		os.Exit(1)
	}
}
