// Package report persists score reports.
package report

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"

	"github.com/okian/pillscore/internal/domain/scoring"
	"github.com/okian/pillscore/pkg/logger"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

var page = template.Must(template.New("scores").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
{{.Table}}
</body>
</html>
`))

// Writer writes the scores file, the optional HTML report and the console summary.
type Writer struct {
	scorePath string
	htmlPath  string
	console   io.Writer
	logger    logger.Logger
}

// NewWriter creates a Writer persisting the scores file at scorePath.
func NewWriter(scorePath string, opts ...Option) *Writer {
	w := &Writer{
		scorePath: scorePath,
	}

	// Apply all options
	for _, opt := range opts {
		opt(w)
	}

	if w.logger == nil {
		w.logger = logger.Get().Named("report")
	}
	return w
}

// Write persists r. Every file is rendered and staged before any of them is
// renamed into place, so a failure leaves no partial report behind.
func (w *Writer) Write(ctx context.Context, r scoring.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var scores bytes.Buffer
	if err := r.WriteScores(&scores); err != nil {
		return err
	}
	files := []pending{{path: w.scorePath, data: scores.Bytes()}}

	if w.htmlPath != "" {
		var html bytes.Buffer
		err := page.Execute(&html, struct {
			Title string
			Table template.HTML
		}{
			Title: "Scores",
			Table: template.HTML(r.HTML()), //nolint:gosec // rendered by go-pretty from numeric values and fixed names
		})
		if err != nil {
			return fmt.Errorf("render html: %w", err)
		}
		// The scores file is committed last.
		files = append([]pending{{path: w.htmlPath, data: html.Bytes()}}, files...)
	}

	if err := commit(files); err != nil {
		return err
	}
	for _, f := range files {
		w.logger.Info(ctx, "report file written", logger.String("path", f.path))
	}

	if w.console != nil {
		if err := r.WriteSummary(w.console); err != nil {
			return fmt.Errorf("print summary: %w", err)
		}
	}
	return nil
}

// pending is a file waiting to be written.
type pending struct {
	path string
	data []byte
	tmp  string
}

// commit stages every file as a temporary sibling and renames them in order
// once all of them are on disk. Staged files are removed on failure.
func commit(files []pending) (err error) {
	defer func() {
		if err == nil {
			return
		}
		for _, f := range files {
			if f.tmp != "" {
				_ = os.Remove(f.tmp)
			}
		}
	}()

	for i := range files {
		if files[i].tmp, err = stage(files[i].path, files[i].data); err != nil {
			return err
		}
	}
	for i := range files {
		if err = os.Rename(files[i].tmp, files[i].path); err != nil {
			return fmt.Errorf("rename into %s: %w", files[i].path, err)
		}
		files[i].tmp = ""
	}
	return nil
}

// stage writes data to a temporary file next to path and returns its name.
func stage(path string, data []byte) (name string, err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp for %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("sync %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err = os.Chmod(tmp.Name(), filePerm); err != nil {
		return "", fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	return tmp.Name(), nil
}
