package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/okian/pillscore/internal/domain/model"
	"github.com/okian/pillscore/pkg/logger"
	"github.com/okian/pillscore/pkg/metrics"
)

// FileStore reads ground truth matched by a glob and looks up each
// prediction as <predictionDir>/<id><ext>.
type FileStore struct {
	referencePattern string
	predictionDir    string
	opts             storeOptions
}

// NewFileStore creates a file-backed store.
func NewFileStore(referencePattern, predictionDir string, opts ...Option) *FileStore {
	return &FileStore{
		referencePattern: referencePattern,
		predictionDir:    predictionDir,
		opts:             newStoreOptions(opts),
	}
}

// Load reads and pairs every record. Any unreadable or malformed record is fatal.
func (s *FileStore) Load(ctx context.Context) ([]model.SamplePair, error) {
	paths, err := filepath.Glob(s.referencePattern)
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", s.referencePattern, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: nothing matches %s", ErrNoGroundTruth, s.referencePattern)
	}
	sort.Strings(paths)

	groundTruth := make([]Record, 0, len(paths))
	predictions := make([]Record, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		gt, err := readRecord(path)
		if err != nil {
			metrics.RecordErrorByComponent("repository", "decode")
			return nil, err
		}
		groundTruth = append(groundTruth, gt)

		predPath := filepath.Join(s.predictionDir, gt.ID()+s.opts.predictionExt)
		pred, err := readRecord(predPath)
		if errors.Is(err, fs.ErrNotExist) {
			metrics.RecordErrorByComponent("repository", "missing_prediction")
			return nil, fmt.Errorf("%w: %s (expected %s)", ErrMissingPrediction, gt.ID(), predPath)
		}
		if err != nil {
			metrics.RecordErrorByComponent("repository", "decode")
			return nil, err
		}
		predictions = append(predictions, pred)
	}

	pairs, err := Pair(groundTruth, predictions)
	if err != nil {
		return nil, err
	}
	if err := checkCounts(ctx, s.opts.logger, pairs, s.opts.strictCounts); err != nil {
		return nil, err
	}

	s.opts.logger.Debug(ctx, "records loaded",
		logger.Int("samples", len(pairs)),
		logger.String("pattern", s.referencePattern),
	)
	return pairs, nil
}

func readRecord(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, fmt.Errorf("read %s: %w", path, err)
	}
	var rec model.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("%w: %s: %w", ErrDecodeRecord, path, err)
	}
	if err := rec.Validate(); err != nil {
		return Record{}, fmt.Errorf("%w: %s: %w", ErrDecodeRecord, path, err)
	}
	return Record{Source: path, Record: rec}, nil
}
