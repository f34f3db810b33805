// Package ingestion reads the signals produced by the ingestion harness: the
// code-quality rating, the prediction time and the run's elapsed time.
package ingestion

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// elapsedTimeKey is the metadata key holding the run duration in seconds.
const elapsedTimeKey = "elapsedTime"

// Metrics are the values written by the ingestion harness.
type Metrics struct {
	// PylintRating is the opaque code-quality rating of the submission.
	PylintRating float64
	// PredictionTime is the time the submission spent predicting, in seconds.
	PredictionTime float64
}

type metricsFile struct {
	PylintRating   *float64 `json:"pylint_rating"`
	PredictionTime *float64 `json:"prediction_time"`
}

// LoadMetrics reads the ingestion metrics JSON file at path.
func LoadMetrics(path string) (Metrics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Metrics{}, fmt.Errorf("%w: %w", ErrMetricsUnavailable, err)
	}

	var raw metricsFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return Metrics{}, fmt.Errorf("%w: %s: %w", ErrMetricsUnavailable, path, err)
	}
	switch {
	case raw.PylintRating == nil:
		return Metrics{}, fmt.Errorf("%w: %s: pylint_rating not set", ErrMetricsUnavailable, path)
	case raw.PredictionTime == nil:
		return Metrics{}, fmt.Errorf("%w: %s: prediction_time not set", ErrMetricsUnavailable, path)
	}

	return Metrics{
		PylintRating:   *raw.PylintRating,
		PredictionTime: *raw.PredictionTime,
	}, nil
}

// LoadElapsedTime reads elapsedTime from the YAML run metadata at path.
func LoadElapsedTime(path string) (float64, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMetricsUnavailable, err)
	}
	if !k.Exists(elapsedTimeKey) {
		return 0, fmt.Errorf("%w: %s: %s not set", ErrMetricsUnavailable, path, elapsedTimeKey)
	}

	switch v := k.Get(elapsedTimeKey).(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("%w: %s: %s is %T, not a number", ErrMetricsUnavailable, path, elapsedTimeKey, v)
	}
}
