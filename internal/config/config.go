// Package config defines run configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Paths for inputs are relative to InputDir, paths for outputs to OutputDir.
// - External errors must be wrapped with this package's sentinel errors.
package config

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// InputDir holds the reference annotations and the submission results.
	InputDir string `koanf:"input_dir"`

	// OutputDir receives the score files.
	OutputDir string `koanf:"output_dir"`

	// ReferenceGlob selects ground-truth records below InputDir.
	ReferenceGlob string `koanf:"reference_glob"`

	// PredictionDir and PredictionExt locate the prediction for sample ID x
	// at InputDir/PredictionDir/x+PredictionExt.
	PredictionDir string `koanf:"prediction_dir"`
	PredictionExt string `koanf:"prediction_ext"`

	// IngestionMetricsFile and MetadataFile are optional inputs below InputDir.
	IngestionMetricsFile string `koanf:"ingestion_metrics_file"`
	MetadataFile         string `koanf:"metadata_file"`

	// ScoreFile and HTMLFile are written below OutputDir.
	ScoreFile string `koanf:"score_file"`
	HTMLFile  string `koanf:"html_file"`

	// MetricsFile, when set, receives a Prometheus textfile export.
	MetricsFile string `koanf:"metrics_file"`

	// WorkerCount bounds the number of metric reductions running at once.
	WorkerCount int `koanf:"worker_count"`

	// StrictCounts rejects samples whose counts disagree with their centroid lists.
	StrictCounts bool `koanf:"strict_counts"`
}

// New creates a Config with defaults matching the evaluation harness layout.
func New() *Config {
	c := &Config{
		LogLevel:             "info",
		LogFormat:            "text",
		InputDir:             filepath.Join("..", "evaluation_results"),
		OutputDir:            filepath.Join("..", "scoring_output"),
		ReferenceGlob:        filepath.Join("ref_cust", "*.json"),
		PredictionDir:        "res",
		PredictionExt:        ".prediction",
		IngestionMetricsFile: filepath.Join("res", "ingestion_metrics.json"),
		MetadataFile:         filepath.Join("res", "metadata"),
		ScoreFile:            "scores.txt",
		HTMLFile:             "scores.html",
		WorkerCount:          runtime.NumCPU(),
	}
	return c
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.InputDir) == "":
		return fmt.Errorf("%w: input_dir must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.OutputDir) == "":
		return fmt.Errorf("%w: output_dir must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.ReferenceGlob) == "":
		return fmt.Errorf("%w: reference_glob must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.ScoreFile) == "":
		return fmt.Errorf("%w: score_file must not be empty", ErrInvalidConfig)
	case c.WorkerCount < 1:
		return fmt.Errorf("%w: worker_count must be positive, got %d", ErrInvalidConfig, c.WorkerCount)
	}
	if _, err := filepath.Match(c.ReferenceGlob, ""); err != nil {
		return fmt.Errorf("%w: reference_glob: %w", ErrInvalidConfig, err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}

// ReferencePattern returns the glob matching ground-truth records.
func (c *Config) ReferencePattern() string {
	return filepath.Join(c.InputDir, c.ReferenceGlob)
}

// PredictionPath returns the directory holding prediction records.
func (c *Config) PredictionPath() string {
	return filepath.Join(c.InputDir, c.PredictionDir)
}

// IngestionMetricsPath returns the path of the ingestion metrics file.
func (c *Config) IngestionMetricsPath() string {
	return c.inputPath(c.IngestionMetricsFile)
}

// MetadataPath returns the path of the run metadata file.
func (c *Config) MetadataPath() string {
	return c.inputPath(c.MetadataFile)
}

// ScorePath returns the path of the scores file.
func (c *Config) ScorePath() string {
	return filepath.Join(c.OutputDir, c.ScoreFile)
}

// HTMLPath returns the path of the HTML report, or "" when disabled.
func (c *Config) HTMLPath() string {
	if c.HTMLFile == "" {
		return ""
	}
	return filepath.Join(c.OutputDir, c.HTMLFile)
}

func (c *Config) inputPath(name string) string {
	if name == "" {
		return ""
	}
	return filepath.Join(c.InputDir, name)
}
