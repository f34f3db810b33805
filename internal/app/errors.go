package service

import "errors"

// Sentinel kinds for pipeline errors.
var (
	ErrNoStore = errors.New("no result store configured")
)
