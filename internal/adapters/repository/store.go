package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/okian/pillscore/internal/domain/model"
	"github.com/okian/pillscore/pkg/logger"
	"github.com/okian/pillscore/pkg/metrics"
)

// Store provides the paired samples of one evaluation run.
type Store interface {
	// Load returns one pair per ground-truth record, ordered by source.
	Load(ctx context.Context) ([]model.SamplePair, error)
}

// Record is a decoded record together with where it came from.
type Record struct {
	// Source is the file name or path the record was read from.
	Source string
	model.Record
}

// ID returns the sample identifier of the record: its source base name
// without extension.
func (r Record) ID() string {
	return SampleID(r.Source)
}

// SampleID strips the directory and the final extension from source.
func SampleID(source string) string {
	base := filepath.Base(source)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Pair joins every ground-truth record with the prediction of the same ID.
// Pairs are ordered by ground-truth source. Predictions without ground truth
// are ignored.
func Pair(groundTruth, predictions []Record) ([]model.SamplePair, error) {
	if len(groundTruth) == 0 {
		return nil, ErrNoGroundTruth
	}

	byID := make(map[string]Record, len(predictions))
	for _, p := range predictions {
		id := p.ID()
		if prev, ok := byID[id]; ok {
			return nil, fmt.Errorf("%w: prediction %q from %s and %s", ErrDuplicateRecord, id, prev.Source, p.Source)
		}
		byID[id] = p
	}

	ordered := append([]Record(nil), groundTruth...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Source < ordered[j].Source
	})

	pairs := make([]model.SamplePair, 0, len(ordered))
	seen := make(map[string]string, len(ordered))
	for _, gt := range ordered {
		id := gt.ID()
		if prev, ok := seen[id]; ok {
			return nil, fmt.Errorf("%w: ground truth %q from %s and %s", ErrDuplicateRecord, id, prev, gt.Source)
		}
		seen[id] = gt.Source

		pred, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingPrediction, id)
		}
		pairs = append(pairs, model.SamplePair{
			ID:          id,
			GroundTruth: gt.Sample(id),
			Prediction:  pred.Sample(id),
		})
	}
	return pairs, nil
}

// Side names used when reporting count mismatches.
const (
	SideGroundTruth = "ground_truth"
	SidePrediction  = "prediction"
)

// Mismatch is one sample side whose declared count disagrees with the
// length of its centroid list.
type Mismatch struct {
	ID   string
	Side string
	Type model.PillType
}

// Mismatches lists every count/list disagreement in pairs.
func Mismatches(pairs []model.SamplePair) []Mismatch {
	var out []Mismatch
	for _, p := range pairs {
		for _, t := range p.GroundTruth.CountMismatches() {
			out = append(out, Mismatch{ID: p.ID, Side: SideGroundTruth, Type: t})
		}
		for _, t := range p.Prediction.CountMismatches() {
			out = append(out, Mismatch{ID: p.ID, Side: SidePrediction, Type: t})
		}
	}
	return out
}

// checkCounts reports mismatches and fails on the first one in strict mode.
func checkCounts(ctx context.Context, log logger.Logger, pairs []model.SamplePair, strict bool) error {
	for _, m := range Mismatches(pairs) {
		if strict {
			return fmt.Errorf("%w: sample %s, %s %s pills", ErrInconsistentCounts, m.ID, m.Side, m.Type)
		}
		metrics.RecordCountMismatch(m.Side, string(m.Type))
		log.Warn(ctx, "pill count disagrees with centroid list",
			logger.String("sample", m.ID),
			logger.String("side", m.Side),
			logger.String("pillType", string(m.Type)),
		)
	}
	return nil
}

// MemoryStore serves records held in memory.
type MemoryStore struct {
	groundTruth []Record
	predictions []Record
	opts        storeOptions
}

// NewMemoryStore creates a store over the given records.
func NewMemoryStore(groundTruth, predictions []Record, opts ...Option) *MemoryStore {
	return &MemoryStore{
		groundTruth: append([]Record(nil), groundTruth...),
		predictions: append([]Record(nil), predictions...),
		opts:        newStoreOptions(opts),
	}
}

// Load pairs the stored records.
func (s *MemoryStore) Load(ctx context.Context) ([]model.SamplePair, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pairs, err := Pair(s.groundTruth, s.predictions)
	if err != nil {
		return nil, err
	}
	if err := checkCounts(ctx, s.opts.logger, pairs, s.opts.strictCounts); err != nil {
		return nil, err
	}
	return pairs, nil
}
