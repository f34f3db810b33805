package fixtures

import "errors"

// ErrInvalidConfig means the generator settings are unusable.
var ErrInvalidConfig = errors.New("invalid fixture config")
