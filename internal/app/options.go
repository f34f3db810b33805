package service

import (
	"github.com/okian/pillscore/internal/adapters/repository"
	"github.com/okian/pillscore/internal/domain/scoring"
	"github.com/okian/pillscore/internal/domain/spatial"
	"github.com/okian/pillscore/pkg/logger"
	"github.com/okian/pillscore/pkg/metrics"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the source of sample pairs.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithReportWriter sets where the finished report is persisted.
func WithReportWriter(w ReportWriter) Option {
	return func(s *Service) {
		s.writer = w
	}
}

// WithWorkerCount bounds the number of metric reductions running at once.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithIngestionMetricsPath sets the ingestion metrics file. Empty skips it.
func WithIngestionMetricsPath(path string) Option {
	return func(s *Service) {
		s.ingestionMetricsPath = path
	}
}

// WithMetadataPath sets the run metadata file. Empty skips it.
func WithMetadataPath(path string) Option {
	return func(s *Service) {
		s.metadataPath = path
	}
}

// WithMetricsFile sets a Prometheus textfile written after each run.
func WithMetricsFile(path string) Option {
	return func(s *Service) {
		s.metricsFile = path
	}
}

// WithMetricsManager sets the metrics manager. Defaults to the global one.
func WithMetricsManager(m *metrics.Manager) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithMatcher sets the localization matcher.
func WithMatcher(m *spatial.Matcher) Option {
	return func(s *Service) {
		if m != nil {
			s.matcher = m
		}
	}
}

// WithAggregator sets the score aggregator.
func WithAggregator(a *scoring.Aggregator) Option {
	return func(s *Service) {
		if a != nil {
			s.aggregator = a
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRunIDGenerator overrides how run identifiers are produced.
func WithRunIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newRunID = gen
		}
	}
}
