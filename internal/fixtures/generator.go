// Package fixtures generates synthetic evaluation trees for smoke runs of the
// scorer: ground truth, noisy predictions and the ingestion side files.
package fixtures

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/knadh/koanf/parsers/yaml"
	"golang.org/x/sync/errgroup"

	"github.com/okian/pillscore/internal/domain/model"
	"github.com/okian/pillscore/pkg/logger"
)

// Tree layout constants.
const (
	ReferenceDir        = "ref_cust"
	ResultDir           = "res"
	ReferenceExt        = ".json"
	PredictionExt       = ".prediction"
	IngestionMetrics    = "ingestion_metrics.json"
	Metadata            = "metadata"
	directoryPermission = 0o750
	filePermission      = 0o600
)

// Blister geometry, in pixels.
const (
	slotColumns = 5
	slotPitchX  = 60.0
	slotPitchY  = 80.0
	originX     = 40.0
	originY     = 50.0
)

// namespace scopes the deterministic sample IDs.
var namespace = uuid.MustParse("5b7c0d5e-3f0c-4c1a-9a43-6d1f7b1e9c20")

type sample struct {
	id         string
	truth      model.Sample
	prediction model.Sample
}

// Generate writes a synthetic tree under cfg.Dir. The same Config always
// produces the same tree.
func Generate(ctx context.Context, cfg *Config) (Stats, error) {
	if err := cfg.Validate(); err != nil {
		return Stats{}, err
	}
	log := logger.Get().Named("fixtures")
	log.Info(ctx, "generating fixtures",
		logger.String("dir", cfg.Dir),
		logger.Int("samples", cfg.Samples),
		logger.Int("slots", cfg.Slots),
	)

	for _, dir := range []string{ReferenceDir, ResultDir} {
		if err := os.MkdirAll(filepath.Join(cfg.Dir, dir), directoryPermission); err != nil {
			return Stats{}, fmt.Errorf("create %s: %w", dir, err)
		}
	}

	// Samples are drawn sequentially so the tree depends only on the seed.
	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // deterministic seed for reproducible fixtures
	samples := make([]sample, cfg.Samples)
	var stats Stats
	for i := range samples {
		samples[i] = generateSample(rng, cfg, i, &stats)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, s := range samples {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := writeJSON(filepath.Join(cfg.Dir, ReferenceDir, s.id+ReferenceExt), model.NewRecord(s.truth)); err != nil {
				return err
			}
			return writeJSON(filepath.Join(cfg.Dir, ResultDir, s.id+PredictionExt), model.NewRecord(s.prediction))
		})
	}
	if err := g.Wait(); err != nil {
		return Stats{}, fmt.Errorf("write samples: %w", err)
	}

	if !cfg.SkipExternal {
		if err := writeExternal(cfg); err != nil {
			return Stats{}, err
		}
	}

	log.Info(ctx, "fixtures generated",
		logger.Int("samples", stats.Samples),
		logger.Int("missingSlots", stats.MissingSlots),
		logger.Int("droppedSlots", stats.DroppedSlots),
		logger.Int("anomalySamples", stats.AnomalySamples),
	)
	return stats, nil
}

// SampleID returns the deterministic identifier of sample index under seed.
func SampleID(seed int64, index int) string {
	return "sample_" + uuid.NewSHA1(namespace, []byte(fmt.Sprintf("%d/%d", seed, index))).String()
}

func generateSample(rng *rand.Rand, cfg *Config, index int, stats *Stats) sample {
	id := SampleID(cfg.Seed, index)
	s := sample{
		id:         id,
		truth:      model.Sample{ID: id, File: id + ".tiff"},
		prediction: model.Sample{ID: id, File: id + ".tiff"},
	}

	for slot := 0; slot < cfg.Slots; slot++ {
		center := model.Point{
			X: originX + float64(slot%slotColumns)*slotPitchX,
			Y: originY + float64(slot/slotColumns)*slotPitchY,
		}
		missing := rng.Float64() < cfg.MissingRate
		if missing {
			s.truth.MissingPoints = append(s.truth.MissingPoints, center)
			stats.MissingSlots++
		} else {
			s.truth.PresentPoints = append(s.truth.PresentPoints, center)
		}

		if rng.Float64() < cfg.DropRate {
			stats.DroppedSlots++
			continue
		}
		guess := model.Point{
			X: center.X + rng.NormFloat64()*cfg.Jitter,
			Y: center.Y + rng.NormFloat64()*cfg.Jitter,
		}
		if missing {
			s.prediction.MissingPoints = append(s.prediction.MissingPoints, guess)
		} else {
			s.prediction.PresentPoints = append(s.prediction.PresentPoints, guess)
		}
	}

	s.truth.PresentCount, s.truth.MissingCount = len(s.truth.PresentPoints), len(s.truth.MissingPoints)
	s.prediction.PresentCount, s.prediction.MissingCount = len(s.prediction.PresentPoints), len(s.prediction.MissingPoints)

	stats.Samples++
	stats.Slots += cfg.Slots
	if s.truth.HasAnomaly() {
		stats.AnomalySamples++
	}
	return s
}

func writeExternal(cfg *Config) error {
	metrics := map[string]float64{
		"pylint_rating":   cfg.PylintRating,
		"prediction_time": cfg.PredictionTime,
	}
	if err := writeJSON(filepath.Join(cfg.Dir, ResultDir, IngestionMetrics), metrics); err != nil {
		return err
	}

	data, err := yaml.Parser().Marshal(map[string]interface{}{"elapsedTime": cfg.ElapsedTime})
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	path := filepath.Join(cfg.Dir, ResultDir, Metadata)
	if err := os.WriteFile(path, data, filePermission); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, filePermission); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
