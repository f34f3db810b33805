package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics of a scoring run.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	registry         *prometheus.Registry

	// Input Metrics
	samplesLoaded   prometheus.Gauge
	countMismatches *prometheus.CounterVec

	// Score Metrics - One series per report row
	scoreValue *prometheus.GaugeVec
	scoreTotal prometheus.Gauge

	// Diagnostic Metrics - Informational, not weighted
	diagnostics    *prometheus.GaugeVec
	confusion      *prometheus.GaugeVec
	pillTypeMean   *prometheus.GaugeVec
	pillTypePoints *prometheus.GaugeVec

	// Run Metrics
	stageDuration        *prometheus.HistogramVec
	errorRateByComponent *prometheus.CounterVec
	runInfo              *prometheus.GaugeVec
	lastRunUnix          prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "pillscore",
		subsystem:        "run",
		histogramBuckets: prometheus.DefBuckets,
		customLabels:     make(map[string]string),
		registry:         prometheus.NewRegistry(),
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// Initialize metrics
	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	m.samplesLoaded = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "samples_loaded",
		Help:        "Number of ground-truth/prediction pairs loaded",
		ConstLabels: labels,
	})

	m.countMismatches = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "count_mismatches_total",
		Help:        "Samples whose declared pill counts disagree with their centroid lists",
		ConstLabels: labels,
	}, []string{"side", "pill_type"})

	m.scoreValue = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "score_value",
		Help:        "Value of each score table entry",
		ConstLabels: labels,
	}, []string{"metric"})

	m.scoreTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "score_total",
		Help:        "Weighted total score",
		ConstLabels: labels,
	})

	m.diagnostics = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "diagnostic_value",
		Help:        "Informational metrics that do not contribute to the total",
		ConstLabels: labels,
	}, []string{"metric"})

	m.confusion = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "anomaly_confusion",
		Help:        "Anomaly classification outcomes by confusion cell",
		ConstLabels: labels,
	}, []string{"outcome"})

	m.pillTypeMean = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "pill_type_match_score",
		Help:        "Mean localization score per pill type in [0, 1]",
		ConstLabels: labels,
	}, []string{"pill_type"})

	m.pillTypePoints = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "pill_type_points",
		Help:        "Ground-truth points that took part in matching per pill type",
		ConstLabels: labels,
	}, []string{"pill_type"})

	m.stageDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "stage_duration_seconds",
		Help:        "Duration of pipeline stages",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	}, []string{"stage"})

	m.errorRateByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_by_component_total",
		Help:        "Errors by component and type",
		ConstLabels: labels,
	}, []string{"component", "error_type"})

	m.runInfo = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "info",
		Help:        "Identifier of the latest run",
		ConstLabels: labels,
	}, []string{"run_id"})

	m.lastRunUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "last_run_timestamp_seconds",
		Help:        "Unix time at which the latest run finished",
		ConstLabels: labels,
	})
}

// Registry returns the registry the manager's metrics live in.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// RecordSamplesLoaded sets the number of loaded pairs.
func (m *Manager) RecordSamplesLoaded(count int) {
	m.samplesLoaded.Set(float64(count))
}

// RecordCountMismatch counts one sample whose count disagrees with its list.
func (m *Manager) RecordCountMismatch(side, pillType string) {
	m.countMismatches.WithLabelValues(side, pillType).Inc()
}

// UpdateScore sets the value of one score table entry.
func (m *Manager) UpdateScore(key string, value float64) {
	m.scoreValue.WithLabelValues(key).Set(value)
}

// UpdateTotalScore sets the weighted total.
func (m *Manager) UpdateTotalScore(value float64) {
	m.scoreTotal.Set(value)
}

// UpdateDiagnostic sets an informational metric.
func (m *Manager) UpdateDiagnostic(name string, value float64) {
	m.diagnostics.WithLabelValues(name).Set(value)
}

// UpdateConfusion sets the size of one confusion cell.
func (m *Manager) UpdateConfusion(outcome string, count int) {
	m.confusion.WithLabelValues(outcome).Set(float64(count))
}

// UpdatePillTypeScore sets the localization breakdown of one pill type.
func (m *Manager) UpdatePillTypeScore(pillType string, mean float64, points int) {
	m.pillTypeMean.WithLabelValues(pillType).Set(mean)
	m.pillTypePoints.WithLabelValues(pillType).Set(float64(points))
}

// RecordStageDuration observes how long a pipeline stage took.
func (m *Manager) RecordStageDuration(stage string, d time.Duration) {
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordErrorByComponent records an error with component and type labels.
func (m *Manager) RecordErrorByComponent(component, errorType string) {
	m.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateRunInfo marks runID as the latest run.
func (m *Manager) UpdateRunInfo(runID string) {
	m.runInfo.Reset()
	m.runInfo.WithLabelValues(runID).Set(1)
}

// UpdateLastRun stores the completion time of the latest run.
func (m *Manager) UpdateLastRun(t time.Time) {
	m.lastRunUnix.Set(float64(t.Unix()))
}

// WriteTextfile writes every metric in the registry to path in the
// Prometheus text format, for pickup by a node exporter textfile collector.
func (m *Manager) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrExportFailed, path, err)
	}
	return nil
}

// Global Metrics Functions.

// Default returns the global manager.
func Default() *Manager {
	return globalManager
}

// RecordSamplesLoaded sets the number of loaded pairs.
func RecordSamplesLoaded(count int) {
	globalManager.RecordSamplesLoaded(count)
}

// RecordCountMismatch counts one sample whose count disagrees with its list.
func RecordCountMismatch(side, pillType string) {
	globalManager.RecordCountMismatch(side, pillType)
}

// UpdateScore sets the value of one score table entry.
func UpdateScore(key string, value float64) {
	globalManager.UpdateScore(key, value)
}

// UpdateTotalScore sets the weighted total.
func UpdateTotalScore(value float64) {
	globalManager.UpdateTotalScore(value)
}

// UpdateDiagnostic sets an informational metric.
func UpdateDiagnostic(name string, value float64) {
	globalManager.UpdateDiagnostic(name, value)
}

// UpdateConfusion sets the size of one confusion cell.
func UpdateConfusion(outcome string, count int) {
	globalManager.UpdateConfusion(outcome, count)
}

// UpdatePillTypeScore sets the localization breakdown of one pill type.
func UpdatePillTypeScore(pillType string, mean float64, points int) {
	globalManager.UpdatePillTypeScore(pillType, mean, points)
}

// RecordStageDuration observes how long a pipeline stage took.
func RecordStageDuration(stage string, d time.Duration) {
	globalManager.RecordStageDuration(stage, d)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.RecordErrorByComponent(component, errorType)
}

// UpdateRunInfo marks runID as the latest run.
func UpdateRunInfo(runID string) {
	globalManager.UpdateRunInfo(runID)
}

// UpdateLastRun stores the completion time of the latest run.
func UpdateLastRun(t time.Time) {
	globalManager.UpdateLastRun(t)
}

// WriteTextfile exports the global registry to path.
func WriteTextfile(path string) error {
	return globalManager.WriteTextfile(path)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
