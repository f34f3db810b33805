package report

import (
	"io"

	"github.com/okian/pillscore/pkg/logger"
)

// Option applies a configuration option to the Writer.
type Option func(*Writer)

// WithHTMLPath sets where the HTML report is written. Empty disables it.
func WithHTMLPath(path string) Option {
	return func(w *Writer) {
		w.htmlPath = path
	}
}

// WithConsole sets where the human-readable table is printed. Nil disables it.
func WithConsole(out io.Writer) Option {
	return func(w *Writer) {
		w.console = out
	}
}

// WithLogger sets a custom logger for the writer.
func WithLogger(l logger.Logger) Option {
	return func(w *Writer) {
		if l != nil {
			w.logger = l
		}
	}
}
