package fixtures

import (
	"fmt"
	"runtime"
)

// Default generation constants.
const (
	defaultSamples        = 100
	defaultSlots          = 10
	defaultMissingRate    = 0.1
	defaultJitter         = 3.0
	defaultDropRate       = 0.05
	defaultSeed           = 42
	defaultPylintRating   = 8.5
	defaultPredictionTime = 30.0
	defaultElapsedTime    = 120.0
)

// Config holds configuration for a synthetic evaluation tree.
type Config struct {
	Dir         string  // Root of the tree (the scorer's input directory)
	Samples     int     // Number of samples to generate
	Slots       int     // Pill slots per sample
	MissingRate float64 // Probability that a slot is empty in the ground truth
	Jitter      float64 // Standard deviation of predicted centroid noise, in pixels
	DropRate    float64 // Probability that the prediction omits a slot
	Seed        int64   // Seed for reproducible trees
	Workers     int     // Number of concurrent file writers

	// External signals written next to the predictions. Zero values are written as-is.
	PylintRating   float64
	PredictionTime float64
	ElapsedTime    float64
	// SkipExternal leaves out ingestion_metrics.json and metadata.
	SkipExternal bool
}

// NewConfig returns a Config with defaults rooted at dir.
func NewConfig(dir string) *Config {
	return &Config{
		Dir:            dir,
		Samples:        defaultSamples,
		Slots:          defaultSlots,
		MissingRate:    defaultMissingRate,
		Jitter:         defaultJitter,
		DropRate:       defaultDropRate,
		Seed:           defaultSeed,
		Workers:        runtime.NumCPU(),
		PylintRating:   defaultPylintRating,
		PredictionTime: defaultPredictionTime,
		ElapsedTime:    defaultElapsedTime,
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Dir == "":
		return fmt.Errorf("%w: dir must not be empty", ErrInvalidConfig)
	case c.Samples < 1:
		return fmt.Errorf("%w: samples must be positive", ErrInvalidConfig)
	case c.Slots < 0:
		return fmt.Errorf("%w: slots must not be negative", ErrInvalidConfig)
	case c.MissingRate < 0 || c.MissingRate > 1:
		return fmt.Errorf("%w: missing rate must be within [0, 1]", ErrInvalidConfig)
	case c.DropRate < 0 || c.DropRate > 1:
		return fmt.Errorf("%w: drop rate must be within [0, 1]", ErrInvalidConfig)
	case c.Jitter < 0:
		return fmt.Errorf("%w: jitter must not be negative", ErrInvalidConfig)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers must be positive", ErrInvalidConfig)
	}
	return nil
}

// Stats summarizes a generated tree.
type Stats struct {
	Samples        int
	Slots          int
	MissingSlots   int
	DroppedSlots   int
	AnomalySamples int
}
