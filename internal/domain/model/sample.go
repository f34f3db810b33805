package model

// PillType distinguishes the two kinds of annotated slots.
type PillType string

// Pill types in their fixed evaluation order.
const (
	Present PillType = "present"
	Missing PillType = "missing"
)

// PillTypes lists every pill type in evaluation order.
var PillTypes = [...]PillType{Present, Missing}

// Sample is one evaluated unit, either ground truth or prediction.
type Sample struct {
	ID            string  // identifier shared by ground truth and prediction
	File          string  // file name reported inside the record
	PresentCount  int     // number of present pills
	MissingCount  int     // number of missing pills
	PresentPoints []Point // centroids of present pills, unordered
	MissingPoints []Point // centroids of missing pills, unordered
}

// Points returns the centroids recorded for the pill type.
func (s Sample) Points(t PillType) []Point {
	if t == Missing {
		return s.MissingPoints
	}
	return s.PresentPoints
}

// Count returns the reported count for the pill type.
func (s Sample) Count(t PillType) int {
	if t == Missing {
		return s.MissingCount
	}
	return s.PresentCount
}

// Slots returns the total number of reported slots.
func (s Sample) Slots() int {
	return s.PresentCount + s.MissingCount
}

// HasAnomaly reports whether at least one pill is missing.
func (s Sample) HasAnomaly() bool {
	return s.MissingCount > 0
}

// CountMismatches returns the pill types whose reported count differs from
// the number of recorded centroids.
func (s Sample) CountMismatches() []PillType {
	var out []PillType
	for _, t := range PillTypes {
		if s.Count(t) != len(s.Points(t)) {
			out = append(out, t)
		}
	}
	return out
}

// SamplePair joins a ground-truth sample with the prediction for the same ID.
type SamplePair struct {
	ID          string
	GroundTruth Sample
	Prediction  Sample
}
