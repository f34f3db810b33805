package assignment

import "errors"

// Sentinel kinds for assignment errors.
var (
	ErrRaggedMatrix = errors.New("cost matrix rows differ in length")
	ErrInvalidCost  = errors.New("cost matrix contains NaN or infinite entry")
)
