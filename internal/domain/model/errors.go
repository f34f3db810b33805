package model

import "errors"

// ErrNegativeCount is returned when a record carries a negative pill count.
var ErrNegativeCount = errors.New("pill count must not be negative")
