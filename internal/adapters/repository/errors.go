package repository

import "errors"

// Sentinel kinds for loading and pairing errors.
var (
	ErrNoGroundTruth      = errors.New("no ground-truth records")
	ErrMissingPrediction  = errors.New("missing prediction")
	ErrDecodeRecord       = errors.New("decode record")
	ErrDuplicateRecord    = errors.New("duplicate record id")
	ErrInconsistentCounts = errors.New("pill counts disagree with centroid lists")
)
