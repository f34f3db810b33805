package ingestion

import "errors"

// ErrMetricsUnavailable means an optional external metric could not be read.
var ErrMetricsUnavailable = errors.New("external metrics unavailable")
