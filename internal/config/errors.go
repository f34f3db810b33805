package config

import "errors"

var (
	// ErrInvalidConfig wraps every Validate failure, such as an empty input
	// directory, a malformed reference glob or a non-positive worker count.
	ErrInvalidConfig = errors.New("invalid scorer config")
	// ErrLoadConfig wraps failures reading the YAML file named by
	// PILLSCORE_CONFIG or decoding the layered values into Config.
	ErrLoadConfig = errors.New("load scorer config")
)
