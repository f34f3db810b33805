package spatial_test

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/okian/pillscore/internal/domain/model"
	"github.com/okian/pillscore/internal/domain/spatial"
	. "github.com/smartystreets/goconvey/convey"
)

func pair(id string, truthPresent, predPresent, truthMissing, predMissing []model.Point) model.SamplePair {
	return model.SamplePair{
		ID: id,
		GroundTruth: model.Sample{
			ID: id, PresentCount: len(truthPresent), MissingCount: len(truthMissing),
			PresentPoints: truthPresent, MissingPoints: truthMissing,
		},
		Prediction: model.Sample{
			ID: id, PresentCount: len(predPresent), MissingCount: len(predMissing),
			PresentPoints: predPresent, MissingPoints: predMissing,
		},
	}
}

func TestMatcherWeight(t *testing.T) {
	Convey("Given the default matcher", t, func() {
		m := spatial.NewMatcher()

		Convey("Then a zero distance should score 1", func() {
			So(m.Weight(0), ShouldEqual, 1)
		})

		Convey("Then a distance of one sigma should score exp(-1/2)", func() {
			So(m.Weight(10), ShouldAlmostEqual, math.Exp(-0.5), 1e-12)
		})

		Convey("Then larger distances should score lower", func() {
			So(m.Weight(5), ShouldBeGreaterThan, m.Weight(20))
		})
	})

	Convey("Given custom kernel options", t, func() {
		m := spatial.NewMatcher(spatial.WithSigma(2), spatial.WithMu(1))

		Convey("Then the kernel should peak at mu", func() {
			So(m.Weight(1), ShouldEqual, 1)
			So(m.Weight(3), ShouldAlmostEqual, math.Exp(-0.5), 1e-12)
		})

		Convey("And a non-positive sigma should be ignored", func() {
			d := spatial.NewMatcher(spatial.WithSigma(0))
			So(d.Weight(10), ShouldAlmostEqual, math.Exp(-0.5), 1e-12)
		})
	})
}

func TestMatcherEvaluate(t *testing.T) {
	m := spatial.NewMatcher()

	Convey("Given an identical single-point prediction", t, func() {
		p := []model.Point{{X: 1, Y: 1}}
		pairs := []model.SamplePair{pair("a", p, p, nil, nil)}

		Convey("When evaluating", func() {
			res, err := m.Evaluate(pairs)

			Convey("Then the distance score should be 100", func() {
				So(err, ShouldBeNil)
				So(res.Score, ShouldEqual, 100)
				So(res.Types[0], ShouldResemble, spatial.TypeScore{Type: model.Present, Mean: 1, Samples: 1, Points: 1})
				So(res.Types[1].Samples, ShouldEqual, 0)
			})
		})
	})

	Convey("Given swapped prediction order", t, func() {
		truth := []model.Point{{X: 0, Y: 0}, {X: 10, Y: 0}}
		pred := []model.Point{{X: 10, Y: 0}, {X: 0, Y: 0}}

		Convey("When scoring the pair", func() {
			scores, err := m.ScorePair(pair("c", truth, pred, nil, nil))

			Convey("Then each point should match its zero-distance counterpart", func() {
				So(err, ShouldBeNil)
				So(scores, ShouldHaveLength, 1)
				So(scores[0].Score, ShouldEqual, 1)
				So(scores[0].Matched, ShouldEqual, 2)
			})
		})
	})

	Convey("Given pairs with an empty side", t, func() {
		pts := []model.Point{{X: 3, Y: 4}}
		pairs := []model.SamplePair{
			pair("only-truth", pts, nil, nil, nil),
			pair("only-pred", nil, pts, nil, pts),
			pair("both", pts, []model.Point{{X: 0, Y: 0}}, nil, nil),
		}

		Convey("When evaluating", func() {
			res, err := m.Evaluate(pairs)

			Convey("Then only the matchable entry should contribute to the mean", func() {
				So(err, ShouldBeNil)
				So(res.Types[0].Samples, ShouldEqual, 1)
				So(res.Types[0].Points, ShouldEqual, 2)
				So(res.Score, ShouldAlmostEqual, 100*m.Weight(5), 1e-9)
			})
		})
	})

	Convey("Given both pill types with different weights", t, func() {
		present := []model.Point{{X: 0, Y: 0}, {X: 50, Y: 50}, {X: 100, Y: 100}}
		missing := []model.Point{{X: 20, Y: 20}}
		pairs := []model.SamplePair{
			pair("a", present, present, missing, []model.Point{{X: 30, Y: 20}}),
		}

		Convey("Then the types should be combined by ground-truth point counts", func() {
			res, err := m.Evaluate(pairs)
			So(err, ShouldBeNil)
			want := 100 * (1*3 + m.Weight(10)*1) / 4
			So(res.Score, ShouldAlmostEqual, want, 1e-9)
			So(res.Types[1].Points, ShouldEqual, 1)
		})
	})

	Convey("Given ground-truth points that were never predicted", t, func() {
		present := []model.Point{{X: 0, Y: 0}}
		unmatched := make([]model.Point, 8)
		for i := range unmatched {
			unmatched[i] = model.Point{X: float64(20 * i), Y: 40}
		}
		pairs := []model.SamplePair{
			pair("s1", present, present, []model.Point{{X: 5, Y: 5}}, []model.Point{{X: 15, Y: 5}}),
			pair("s2", unmatched, nil, nil, nil),
		}

		Convey("When evaluating", func() {
			res, err := m.Evaluate(pairs)

			Convey("Then they should still weight their type", func() {
				So(err, ShouldBeNil)
				So(res.Types[0], ShouldResemble, spatial.TypeScore{Type: model.Present, Mean: 1, Samples: 1, Points: 9})
				So(res.Types[1].Points, ShouldEqual, 1)
				want := 100 * (1*9 + m.Weight(10)*1) / 10
				So(res.Score, ShouldAlmostEqual, want, 1e-9)
			})
		})
	})

	Convey("Given ground truth with no predicted centroids at all", t, func() {
		pairs := []model.SamplePair{pair("a", []model.Point{{X: 1, Y: 1}, {X: 2, Y: 2}}, nil, nil, nil)}

		Convey("Then the type should score 0 instead of failing", func() {
			res, err := m.Evaluate(pairs)
			So(err, ShouldBeNil)
			So(res.Score, ShouldEqual, 0)
			So(res.Types[0].Samples, ShouldEqual, 0)
			So(res.Types[0].Points, ShouldEqual, 2)
		})
	})

	Convey("Given integer centroids with equally cheap assignments", t, func() {
		line := func(xs ...float64) []model.Point {
			out := make([]model.Point, len(xs))
			for i, x := range xs {
				out[i] = model.Point{X: x}
			}
			return out
		}
		truth := line(2, 3, 1)

		Convey("When the prediction list is reversed", func() {
			forward, _, _, err := m.MatchPoints(truth, line(4, 8))
			So(err, ShouldBeNil)
			backward, _, _, err := m.MatchPoints(truth, line(8, 4))
			So(err, ShouldBeNil)

			Convey("Then the score should not change", func() {
				So(backward, ShouldEqual, forward)
			})
		})

		Convey("When every ordering of both lists is tried", func() {
			base, _, _, err := m.MatchPoints(truth, line(4, 8))
			So(err, ShouldBeNil)

			Convey("Then all of them should agree", func() {
				for _, tr := range [][]float64{{1, 2, 3}, {1, 3, 2}, {2, 1, 3}, {2, 3, 1}, {3, 1, 2}, {3, 2, 1}} {
					for _, pr := range [][]float64{{4, 8}, {8, 4}} {
						got, _, _, err := m.MatchPoints(line(tr...), line(pr...))
						So(err, ShouldBeNil)
						So(got, ShouldEqual, base)
					}
				}
			})
		})

		Convey("Then the caller's slices should be left untouched", func() {
			pred := line(8, 4)
			_, _, _, err := m.MatchPoints(truth, pred)
			So(err, ShouldBeNil)
			So(truth, ShouldResemble, line(2, 3, 1))
			So(pred, ShouldResemble, line(8, 4))
		})
	})

	Convey("Given more predictions than ground-truth points", t, func() {
		truth := []model.Point{{X: 0, Y: 0}}
		pred := []model.Point{{X: 40, Y: 40}, {X: 0, Y: 0}, {X: 90, Y: 10}}

		Convey("Then only the best match should be scored", func() {
			score, matched, ok, err := m.MatchPoints(truth, pred)
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			So(matched, ShouldEqual, 1)
			So(score, ShouldEqual, 1)
		})
	})

	Convey("Given random point sets", t, func() {
		rng := rand.New(rand.NewSource(42))
		points := func(n int) []model.Point {
			out := make([]model.Point, n)
			for i := range out {
				out[i] = model.Point{X: rng.Float64() * 200, Y: rng.Float64() * 200}
			}
			return out
		}

		Convey("Then the score should not depend on list order", func() {
			for trial := 0; trial < 50; trial++ {
				truth := points(1 + rng.Intn(7))
				pred := points(1 + rng.Intn(7))

				base, _, _, err := m.MatchPoints(truth, pred)
				So(err, ShouldBeNil)

				shuffledTruth := append([]model.Point(nil), truth...)
				shuffledPred := append([]model.Point(nil), pred...)
				rng.Shuffle(len(shuffledTruth), func(i, j int) {
					shuffledTruth[i], shuffledTruth[j] = shuffledTruth[j], shuffledTruth[i]
				})
				rng.Shuffle(len(shuffledPred), func(i, j int) {
					shuffledPred[i], shuffledPred[j] = shuffledPred[j], shuffledPred[i]
				})

				again, _, _, err := m.MatchPoints(shuffledTruth, shuffledPred)
				So(err, ShouldBeNil)
				So(again, ShouldEqual, base)
				So(base, ShouldBeBetweenOrEqual, 0, 1)
			}
		})

		Convey("Then identical sets should score exactly 1", func() {
			for trial := 0; trial < 20; trial++ {
				set := points(1 + rng.Intn(8))
				score, _, _, err := m.MatchPoints(set, set)
				So(err, ShouldBeNil)
				So(score, ShouldEqual, 1)
			}
		})
	})

	Convey("Given no ground-truth points anywhere", t, func() {
		pairs := []model.SamplePair{pair("empty", nil, []model.Point{{X: 1, Y: 1}}, nil, nil)}

		Convey("Then evaluation should report degenerate input", func() {
			_, err := m.Evaluate(pairs)
			So(errors.Is(err, spatial.ErrDegenerateInput), ShouldBeTrue)

			_, err = m.Score(nil)
			So(errors.Is(err, spatial.ErrDegenerateInput), ShouldBeTrue)
		})
	})
}
