// Package repository loads ground-truth and prediction records and pairs them by sample ID.
package repository

import "github.com/okian/pillscore/pkg/logger"

// Default file layout constants.
const (
	defaultPredictionExt = ".prediction"
)

// Option applies a configuration option to a store.
type Option func(*storeOptions)

type storeOptions struct {
	predictionExt string
	strictCounts  bool
	logger        logger.Logger
}

func newStoreOptions(opts []Option) storeOptions {
	o := storeOptions{
		predictionExt: defaultPredictionExt,
	}

	// Apply all options
	for _, opt := range opts {
		opt(&o)
	}

	if o.logger == nil {
		o.logger = logger.Get().Named("repository")
	}
	return o
}

// WithPredictionExt sets the file extension of prediction records.
func WithPredictionExt(ext string) Option {
	return func(o *storeOptions) {
		if ext != "" {
			o.predictionExt = ext
		}
	}
}

// WithStrictCounts makes count/list disagreements fatal.
func WithStrictCounts(strict bool) Option {
	return func(o *storeOptions) {
		o.strictCounts = strict
	}
}

// WithLogger sets a custom logger for the store.
func WithLogger(l logger.Logger) Option {
	return func(o *storeOptions) {
		if l != nil {
			o.logger = l
		}
	}
}
