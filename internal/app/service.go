// Package service runs one scoring pass: it loads the paired samples, computes
// every metric, aggregates the weighted report and persists it.
package service

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/okian/pillscore/internal/adapters/ingestion"
	"github.com/okian/pillscore/internal/adapters/repository"
	"github.com/okian/pillscore/internal/domain/classification"
	"github.com/okian/pillscore/internal/domain/model"
	"github.com/okian/pillscore/internal/domain/scoring"
	"github.com/okian/pillscore/internal/domain/spatial"
	"github.com/okian/pillscore/pkg/logger"
	"github.com/okian/pillscore/pkg/metrics"
)

// Pipeline stage names used in logs and metrics.
const (
	stageLoad      = "load"
	stageScore     = "score"
	stageExternal  = "external"
	stageAggregate = "aggregate"
	stagePersist   = "persist"
)

// Metric label values.
const (
	diagAccuracy          = "accuracy"
	diagSlotCountAccuracy = "slot_count_accuracy"
	diagSlotCountRatio    = "slot_count_ratio"
	diagExcludedSamples   = "excluded_samples"

	outcomeTruePositive  = "true_positive"
	outcomeTrueNegative  = "true_negative"
	outcomeFalsePositive = "false_positive"
	outcomeFalseNegative = "false_negative"

	componentPipeline      = "pipeline"
	componentIngestion     = "ingestion"
	componentMetricsExport = "metrics_export"
	errorTypeUnavailable   = "unavailable"
	errorTypeWriteFailure  = "write_failure"
)

// ReportWriter persists a finished report.
type ReportWriter interface {
	Write(ctx context.Context, r scoring.Report) error
}

// Service wires the scoring pipeline together.
type Service struct {
	// Core components
	store      repository.Store
	matcher    *spatial.Matcher
	aggregator *scoring.Aggregator
	writer     ReportWriter

	// Optional inputs and outputs
	ingestionMetricsPath string
	metadataPath         string
	metricsFile          string

	// Configuration
	workerCount int
	newRunID    func() string

	// Observability
	logger  logger.Logger
	metrics *metrics.Manager
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		matcher:     spatial.NewMatcher(),
		aggregator:  scoring.NewAggregator(),
		workerCount: runtime.NumCPU(),
		newRunID:    uuid.NewString,
		metrics:     metrics.Default(),
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// results collects the metric values computed in parallel.
type results struct {
	anomaly     float64
	avgSample   float64
	spatial     spatial.Result
	diagnostics classification.Diagnostics
}

// Run performs one scoring pass. On any fatal error nothing is persisted and
// the error is returned.
func (s *Service) Run(ctx context.Context) (scoring.Report, error) {
	if s.store == nil {
		return scoring.Report{}, ErrNoStore
	}
	log := s.logger
	if log == nil {
		log = logger.Get().Named("pipeline")
	}

	runID := s.newRunID()
	log = log.With(logger.String("run", runID))
	s.metrics.UpdateRunInfo(runID)
	started := time.Now()
	log.Info(ctx, "scoring started", logger.Int("workers", s.workerCount))

	var pairs []model.SamplePair
	err := s.stage(ctx, stageLoad, func(ctx context.Context) error {
		var err error
		pairs, err = s.store.Load(ctx)
		return err
	})
	if err != nil {
		log.Error(ctx, "loading samples failed", logger.Error(err))
		return scoring.Report{}, fmt.Errorf("load samples: %w", err)
	}
	s.metrics.RecordSamplesLoaded(len(pairs))
	log.Info(ctx, "samples loaded", logger.Int("samples", len(pairs)))

	var res results
	err = s.stage(ctx, stageScore, func(ctx context.Context) error {
		var err error
		res, err = s.score(ctx, pairs)
		return err
	})
	if err != nil {
		log.Error(ctx, "scoring failed", logger.Error(err))
		return scoring.Report{}, err
	}

	values := map[string]float64{
		scoring.KeyAnomalyDetectionAccuracy: res.anomaly,
		scoring.KeyAvgSampleAccuracy:        res.avgSample,
		scoring.KeyDistance:                 res.spatial.Score,
	}
	_ = s.stage(ctx, stageExternal, func(ctx context.Context) error {
		s.external(ctx, log, values)
		return nil
	})

	var report scoring.Report
	_ = s.stage(ctx, stageAggregate, func(context.Context) error {
		report = s.aggregator.Aggregate(values)
		return nil
	})

	if err := s.stage(ctx, stagePersist, func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.writer == nil {
			return nil
		}
		return s.writer.Write(ctx, report)
	}); err != nil {
		log.Error(ctx, "persisting report failed", logger.Error(err))
		return scoring.Report{}, fmt.Errorf("persist report: %w", err)
	}

	s.publish(report, res)
	if s.metricsFile != "" {
		if err := s.metrics.WriteTextfile(s.metricsFile); err != nil {
			s.metrics.RecordErrorByComponent(componentMetricsExport, errorTypeWriteFailure)
			log.Warn(ctx, "metrics export failed", logger.Error(err))
		}
	}

	log.Info(ctx, "scoring completed",
		logger.Int("samples", len(pairs)),
		logger.Float64("total", report.Total()),
		logger.Duration("took", time.Since(started)),
	)
	return report, nil
}

// score runs the metric reductions concurrently over the read-only pairs.
func (s *Service) score(ctx context.Context, pairs []model.SamplePair) (results, error) {
	var res results
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workerCount)

	g.Go(func() error {
		v, err := classification.AnomalyDetectionAccuracy(pairs)
		if err != nil {
			return fmt.Errorf("anomaly detection accuracy: %w", err)
		}
		res.anomaly = v
		return ctx.Err()
	})
	g.Go(func() error {
		v, err := classification.AverageSampleAccuracy(pairs)
		if err != nil {
			return fmt.Errorf("average sample accuracy: %w", err)
		}
		res.avgSample = v
		return ctx.Err()
	})
	g.Go(func() error {
		v, err := s.matcher.Evaluate(pairs)
		if err != nil {
			return err
		}
		res.spatial = v
		return ctx.Err()
	})
	g.Go(func() error {
		res.diagnostics = classification.Diagnose(pairs)
		return ctx.Err()
	})

	if err := g.Wait(); err != nil {
		return results{}, err
	}
	return res, nil
}

// external adds the optional ingestion signals to values. Unavailable
// signals are logged and left at zero.
func (s *Service) external(ctx context.Context, log logger.Logger, values map[string]float64) {
	if s.ingestionMetricsPath != "" {
		m, err := ingestion.LoadMetrics(s.ingestionMetricsPath)
		if err != nil {
			s.metrics.RecordErrorByComponent(componentIngestion, errorTypeUnavailable)
			log.Warn(ctx, "ingestion metrics unavailable, using 0", logger.Error(err))
		} else {
			values[scoring.KeyCodeQuality] = m.PylintRating
			values[scoring.KeyPredictionTime] = m.PredictionTime
		}
	}

	if s.metadataPath != "" {
		elapsed, err := ingestion.LoadElapsedTime(s.metadataPath)
		if err != nil {
			s.metrics.RecordErrorByComponent(componentIngestion, errorTypeUnavailable)
			log.Warn(ctx, "run metadata unavailable, using 0", logger.Error(err))
		} else {
			values[scoring.KeyElapsedTime] = elapsed
		}
	}
}

// stage times fn and records failures.
func (s *Service) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	s.metrics.RecordStageDuration(name, time.Since(start))
	if err != nil {
		s.metrics.RecordErrorByComponent(componentPipeline, name)
	}
	return err
}

// publish exports the run's values as gauges.
func (s *Service) publish(report scoring.Report, res results) {
	for _, e := range report.Entries() {
		s.metrics.UpdateScore(e.Key, e.Value)
	}
	s.metrics.UpdateTotalScore(report.Total())

	d := res.diagnostics
	s.metrics.UpdateDiagnostic(diagAccuracy, d.ExactCountAccuracy)
	s.metrics.UpdateDiagnostic(diagSlotCountAccuracy, d.SlotCountAccuracy)
	s.metrics.UpdateDiagnostic(diagSlotCountRatio, d.SlotCountRatio)
	s.metrics.UpdateDiagnostic(diagExcludedSamples, float64(d.ExcludedSamples))
	s.metrics.UpdateConfusion(outcomeTruePositive, d.Confusion.TruePositives)
	s.metrics.UpdateConfusion(outcomeTrueNegative, d.Confusion.TrueNegatives)
	s.metrics.UpdateConfusion(outcomeFalsePositive, d.Confusion.FalsePositives)
	s.metrics.UpdateConfusion(outcomeFalseNegative, d.Confusion.FalseNegatives)

	for _, t := range res.spatial.Types {
		s.metrics.UpdatePillTypeScore(string(t.Type), t.Mean, t.Points)
	}
	s.metrics.UpdateLastRun(time.Now())
}
