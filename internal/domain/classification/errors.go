package classification

import "errors"

// Sentinel kinds for classification errors.
var (
	// ErrEmptyDataset means a metric denominator is zero over the whole dataset.
	ErrEmptyDataset = errors.New("empty dataset")
)
