// Package classification scores how well predicted pill counts match ground truth.
package classification

import (
	"fmt"
	"math"

	"github.com/okian/pillscore/internal/domain/model"
)

const percent = 100

// ConfusionCounts tallies binary anomaly outcomes. A sample is positive when
// at least one pill is missing.
type ConfusionCounts struct {
	TruePositives  int
	TrueNegatives  int
	FalsePositives int
	FalseNegatives int
}

// Total returns the number of classified samples.
func (c ConfusionCounts) Total() int {
	return c.TruePositives + c.TrueNegatives + c.FalsePositives + c.FalseNegatives
}

// Correct returns the number of correctly classified samples.
func (c ConfusionCounts) Correct() int {
	return c.TruePositives + c.TrueNegatives
}

// Confusion builds the anomaly confusion counts over pairs.
func Confusion(pairs []model.SamplePair) ConfusionCounts {
	var c ConfusionCounts
	for _, p := range pairs {
		truth, predicted := p.GroundTruth.HasAnomaly(), p.Prediction.HasAnomaly()
		switch {
		case truth && predicted:
			c.TruePositives++
		case !truth && !predicted:
			c.TrueNegatives++
		case !truth && predicted:
			c.FalsePositives++
		default:
			c.FalseNegatives++
		}
	}
	return c
}

// AnomalyDetectionAccuracy returns 100·(TP+TN)/total.
func AnomalyDetectionAccuracy(pairs []model.SamplePair) (float64, error) {
	c := Confusion(pairs)
	if c.Total() == 0 {
		return 0, fmt.Errorf("anomaly detection accuracy: %w", ErrEmptyDataset)
	}
	return percent * float64(c.Correct()) / float64(c.Total()), nil
}

// SampleDeviation returns the relative count error of one pair and whether it
// is defined. It is undefined when the ground truth has no slots.
func SampleDeviation(p model.SamplePair) (float64, bool) {
	slots := p.GroundTruth.Slots()
	if slots == 0 {
		return 0, false
	}
	wrong := absInt(p.GroundTruth.MissingCount-p.Prediction.MissingCount) +
		absInt(p.GroundTruth.PresentCount-p.Prediction.PresentCount)
	return float64(wrong) / float64(slots), true
}

// AverageSampleAccuracy returns 100·(1 − mean deviation). Samples whose ground
// truth has zero slots are left out of the mean. The result is clamped to
// [0, 100]; heavy overcounting would otherwise push it below zero.
func AverageSampleAccuracy(pairs []model.SamplePair) (float64, error) {
	var sum float64
	var n int
	for _, p := range pairs {
		d, ok := SampleDeviation(p)
		if !ok {
			continue
		}
		sum += d
		n++
	}
	if n == 0 {
		return 0, fmt.Errorf("average sample accuracy: %w", ErrEmptyDataset)
	}
	return clamp(percent * (1 - sum/float64(n))), nil
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(percent, v))
}
