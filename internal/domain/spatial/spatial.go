// Package spatial scores how well predicted pill centroids match ground truth.
//
// For every sample and pill type the two point sets are paired by an exact
// minimum-distance assignment and each matched distance is mapped to [0, 1]
// with a Gaussian kernel. Per-type means are then combined, weighted by the
// number of ground-truth points of each type across the whole dataset.
package spatial

import (
	"fmt"
	"math"
	"sort"

	"github.com/okian/pillscore/internal/domain/assignment"
	"github.com/okian/pillscore/internal/domain/model"
)

// Default kernel parameters.
const (
	defaultSigma = 10
	defaultMu    = 0
	percent      = 100
)

// TypeScore summarizes one pill type over the dataset.
type TypeScore struct {
	Type model.PillType
	// Mean is the straight mean of per-sample scores in [0, 1], or 0 when no
	// sample contributed.
	Mean float64
	// Samples is the number of samples that contributed a score.
	Samples int
	// Points is the number of ground-truth points of this type over all samples.
	Points int
}

// Result is the outcome of a full evaluation.
type Result struct {
	// Score is the weighted localization score in [0, 100].
	Score float64
	// Types holds the per-type breakdown in model.PillTypes order.
	Types []TypeScore
}

// SampleScore is the score of one (sample, pill type) entry.
type SampleScore struct {
	ID    string
	Type  model.PillType
	Score float64
	// Matched is the number of assigned point pairs.
	Matched int
}

// Matcher scores localization quality.
type Matcher struct {
	sigma float64
	mu    float64
}

// NewMatcher creates a Matcher with σ = 10 and μ = 0 unless overridden.
func NewMatcher(opts ...Option) *Matcher {
	m := &Matcher{
		sigma: defaultSigma,
		mu:    defaultMu,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Weight maps a distance to a quality score in (0, 1].
func (m *Matcher) Weight(d float64) float64 {
	x := d - m.mu
	return math.Exp(-(x * x) / (2 * m.sigma * m.sigma))
}

// MatchPoints returns the mean kernel score of the optimal assignment between
// truth and predicted, and the number of matched pairs. ok is false when either
// set is empty. The result depends only on the two point sets, not on their
// order.
func (m *Matcher) MatchPoints(truth, predicted []model.Point) (score float64, matched int, ok bool, err error) {
	if len(truth) == 0 || len(predicted) == 0 {
		return 0, 0, false, nil
	}

	// Tied assignments are resolved by index, so fix the order first.
	truth = sortedPoints(truth)
	predicted = sortedPoints(predicted)

	cost := make([][]float64, len(truth))
	for i, t := range truth {
		cost[i] = make([]float64, len(predicted))
		for j, p := range predicted {
			cost[i][j] = t.Distance(p)
		}
	}

	res, err := assignment.Solve(cost)
	if err != nil {
		return 0, 0, false, fmt.Errorf("assign points: %w", err)
	}

	// Sum in ascending distance order.
	distances := make([]float64, len(res.Pairs))
	for k, p := range res.Pairs {
		distances[k] = cost[p.Row][p.Col]
	}
	sort.Float64s(distances)

	var sum float64
	for _, d := range distances {
		sum += m.Weight(d)
	}
	return sum / float64(len(distances)), len(distances), true, nil
}

// ScorePair scores every pill type of one pair. Types with an empty point list
// on either side are omitted.
func (m *Matcher) ScorePair(p model.SamplePair) ([]SampleScore, error) {
	var out []SampleScore
	for _, t := range model.PillTypes {
		score, matched, ok, err := m.MatchPoints(p.GroundTruth.Points(t), p.Prediction.Points(t))
		if err != nil {
			return nil, fmt.Errorf("sample %s, %s pills: %w", p.ID, t, err)
		}
		if !ok {
			continue
		}
		out = append(out, SampleScore{ID: p.ID, Type: t, Score: score, Matched: matched})
	}
	return out, nil
}

// Evaluate computes the localization score over all pairs.
func (m *Matcher) Evaluate(pairs []model.SamplePair) (Result, error) {
	sums := make(map[model.PillType]float64, len(model.PillTypes))
	samples := make(map[model.PillType]int, len(model.PillTypes))
	points := make(map[model.PillType]int, len(model.PillTypes))

	for _, p := range pairs {
		scores, err := m.ScorePair(p)
		if err != nil {
			return Result{}, err
		}
		for _, s := range scores {
			sums[s.Type] += s.Score
			samples[s.Type]++
		}
		for _, t := range model.PillTypes {
			points[t] += len(p.GroundTruth.Points(t))
		}
	}

	res := Result{Types: make([]TypeScore, 0, len(model.PillTypes))}
	var weighted float64
	var total int
	for _, t := range model.PillTypes {
		ts := TypeScore{Type: t, Samples: samples[t], Points: points[t]}
		if ts.Samples > 0 {
			ts.Mean = sums[t] / float64(ts.Samples)
		}
		weighted += ts.Mean * float64(ts.Points)
		total += ts.Points
		res.Types = append(res.Types, ts)
	}

	if total == 0 {
		return Result{}, fmt.Errorf("distance score: %w", ErrDegenerateInput)
	}
	res.Score = percent * weighted / float64(total)
	return res, nil
}

// Score returns only the scalar localization score.
func (m *Matcher) Score(pairs []model.SamplePair) (float64, error) {
	res, err := m.Evaluate(pairs)
	if err != nil {
		return 0, err
	}
	return res.Score, nil
}

// sortedPoints returns a copy of pts ordered by X, then Y.
func sortedPoints(pts []model.Point) []model.Point {
	out := make([]model.Point, len(pts))
	copy(out, pts)
	sort.Slice(out, func(i, j int) bool {
		if out[i].X != out[j].X {
			return out[i].X < out[j].X
		}
		return out[i].Y < out[j].Y
	})
	return out
}
