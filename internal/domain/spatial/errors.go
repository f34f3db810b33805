package spatial

import "errors"

// Sentinel kinds for spatial scoring errors.
var (
	// ErrDegenerateInput means no pill type contributed any ground-truth point.
	ErrDegenerateInput = errors.New("degenerate input: no matchable points for any pill type")
)
