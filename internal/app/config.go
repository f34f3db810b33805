package service

import (
	"io"

	"github.com/okian/pillscore/internal/adapters/report"
	"github.com/okian/pillscore/internal/adapters/repository"
	"github.com/okian/pillscore/internal/config"
	"github.com/okian/pillscore/pkg/logger"
)

// NewFromConfig builds a Service over the file layout described by cfg.
// The summary table is printed to console unless it is nil. opts are applied
// last and may override any component.
func NewFromConfig(cfg *config.Config, console io.Writer, opts ...Option) *Service {
	store := repository.NewFileStore(cfg.ReferencePattern(), cfg.PredictionPath(),
		repository.WithPredictionExt(cfg.PredictionExt),
		repository.WithStrictCounts(cfg.StrictCounts),
		repository.WithLogger(logger.Named("repository")),
	)
	writer := report.NewWriter(cfg.ScorePath(),
		report.WithHTMLPath(cfg.HTMLPath()),
		report.WithConsole(console),
		report.WithLogger(logger.Named("report")),
	)

	base := []Option{
		WithStore(store),
		WithReportWriter(writer),
		WithWorkerCount(cfg.WorkerCount),
		WithIngestionMetricsPath(cfg.IngestionMetricsPath()),
		WithMetadataPath(cfg.MetadataPath()),
		WithMetricsFile(cfg.MetricsFile),
		WithLogger(logger.Named("pipeline")),
	}
	return New(append(base, opts...)...)
}
