package classification

import (
	"fmt"
	"math"

	"github.com/okian/pillscore/internal/domain/model"
)

// Diagnostics carries informational count metrics. None of them is weighted
// into the final score.
type Diagnostics struct {
	Confusion          ConfusionCounts
	ExactCountAccuracy float64
	SlotCountAccuracy  float64
	SlotCountRatio     float64
	ExcludedSamples    int // samples left out of AverageSampleAccuracy
}

// ExactCountAccuracy returns the share of samples whose present and missing
// counts are both predicted exactly.
func ExactCountAccuracy(pairs []model.SamplePair) (float64, error) {
	if len(pairs) == 0 {
		return 0, fmt.Errorf("exact count accuracy: %w", ErrEmptyDataset)
	}
	var hits int
	for _, p := range pairs {
		if p.GroundTruth.PresentCount == p.Prediction.PresentCount &&
			p.GroundTruth.MissingCount == p.Prediction.MissingCount {
			hits++
		}
	}
	return percent * float64(hits) / float64(len(pairs)), nil
}

// SlotCountAccuracy compares the total number of slots over the dataset:
// 100·(1 − |predicted − truth| / truth).
func SlotCountAccuracy(pairs []model.SamplePair) (float64, error) {
	truth, predicted := slotTotals(pairs)
	if truth == 0 {
		return 0, fmt.Errorf("slot count accuracy: %w", ErrEmptyDataset)
	}
	return percent * (1 - math.Abs(float64(predicted-truth))/float64(truth)), nil
}

// SlotCountRatio returns 100·predicted/truth over the dataset's slot totals.
func SlotCountRatio(pairs []model.SamplePair) (float64, error) {
	truth, predicted := slotTotals(pairs)
	if truth == 0 {
		return 0, fmt.Errorf("slot count ratio: %w", ErrEmptyDataset)
	}
	return percent * float64(predicted) / float64(truth), nil
}

// Diagnose computes every informational metric. Metrics with an undefined
// denominator are left at zero.
func Diagnose(pairs []model.SamplePair) Diagnostics {
	d := Diagnostics{Confusion: Confusion(pairs)}
	d.ExactCountAccuracy, _ = ExactCountAccuracy(pairs)
	d.SlotCountAccuracy, _ = SlotCountAccuracy(pairs)
	d.SlotCountRatio, _ = SlotCountRatio(pairs)
	for _, p := range pairs {
		if _, ok := SampleDeviation(p); !ok {
			d.ExcludedSamples++
		}
	}
	return d
}

func slotTotals(pairs []model.SamplePair) (truth, predicted int) {
	for _, p := range pairs {
		truth += p.GroundTruth.Slots()
		predicted += p.Prediction.Slots()
	}
	return truth, predicted
}
