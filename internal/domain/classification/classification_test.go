package classification_test

import (
	"errors"
	"testing"

	"github.com/okian/pillscore/internal/domain/classification"
	"github.com/okian/pillscore/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func counts(id string, truthMissing, truthPresent, predMissing, predPresent int) model.SamplePair {
	return model.SamplePair{
		ID:          id,
		GroundTruth: model.Sample{ID: id, MissingCount: truthMissing, PresentCount: truthPresent},
		Prediction:  model.Sample{ID: id, MissingCount: predMissing, PresentCount: predPresent},
	}
}

func TestAnomalyDetectionAccuracy(t *testing.T) {
	Convey("Given one pair of each confusion outcome", t, func() {
		pairs := []model.SamplePair{
			counts("tp", 2, 8, 1, 9),
			counts("tn", 0, 10, 0, 10),
			counts("fp", 0, 10, 1, 9),
			counts("fn", 1, 9, 0, 10),
		}

		Convey("When building the confusion counts", func() {
			c := classification.Confusion(pairs)

			Convey("Then each cell should hold one sample", func() {
				So(c, ShouldResemble, classification.ConfusionCounts{
					TruePositives: 1, TrueNegatives: 1, FalsePositives: 1, FalseNegatives: 1,
				})
				So(c.Total(), ShouldEqual, 4)
				So(c.Correct(), ShouldEqual, 2)
			})
		})

		Convey("When computing the accuracy", func() {
			acc, err := classification.AnomalyDetectionAccuracy(pairs)

			Convey("Then half of the samples should be correct", func() {
				So(err, ShouldBeNil)
				So(acc, ShouldEqual, 50)
			})
		})
	})

	Convey("Given a ground truth with one missing pill predicted as complete", t, func() {
		pairs := []model.SamplePair{counts("b", 1, 0, 0, 0)}

		Convey("Then it should be a false negative and score 0", func() {
			So(classification.Confusion(pairs).FalseNegatives, ShouldEqual, 1)
			acc, err := classification.AnomalyDetectionAccuracy(pairs)
			So(err, ShouldBeNil)
			So(acc, ShouldEqual, 0)
		})
	})

	Convey("Given a perfect prediction without anomalies", t, func() {
		pairs := []model.SamplePair{counts("a", 0, 1, 0, 1)}

		Convey("Then it should be a true negative", func() {
			So(classification.Confusion(pairs).TrueNegatives, ShouldEqual, 1)
			acc, err := classification.AnomalyDetectionAccuracy(pairs)
			So(err, ShouldBeNil)
			So(acc, ShouldEqual, 100)
		})
	})

	Convey("Given no pairs", t, func() {
		Convey("Then the accuracy should be undefined", func() {
			_, err := classification.AnomalyDetectionAccuracy(nil)
			So(errors.Is(err, classification.ErrEmptyDataset), ShouldBeTrue)
		})
	})
}

func TestAverageSampleAccuracy(t *testing.T) {
	Convey("Given pairs with known deviations", t, func() {
		pairs := []model.SamplePair{
			counts("exact", 1, 9, 1, 9), // deviation 0
			counts("off", 2, 8, 1, 8),   // deviation 1/10
			counts("worse", 0, 4, 1, 2), // deviation 3/4
			counts("empty", 0, 0, 3, 3), // excluded: no ground-truth slots
		}

		Convey("When computing the accuracy", func() {
			acc, err := classification.AverageSampleAccuracy(pairs)

			Convey("Then zero-slot samples should be excluded from the mean", func() {
				So(err, ShouldBeNil)
				So(acc, ShouldAlmostEqual, 100*(1-(0+0.1+0.75)/3), 1e-9)
			})
		})

		Convey("When computing a single deviation", func() {
			d, ok := classification.SampleDeviation(pairs[1])
			So(ok, ShouldBeTrue)
			So(d, ShouldAlmostEqual, 0.1, 1e-12)

			_, ok = classification.SampleDeviation(pairs[3])
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given heavy overcounting", t, func() {
		pairs := []model.SamplePair{counts("x", 0, 1, 5, 10)}

		Convey("Then the accuracy should be clamped at zero", func() {
			acc, err := classification.AverageSampleAccuracy(pairs)
			So(err, ShouldBeNil)
			So(acc, ShouldEqual, 0)
		})
	})

	Convey("Given only zero-slot ground truth", t, func() {
		pairs := []model.SamplePair{counts("z", 0, 0, 0, 0)}

		Convey("Then the accuracy should be undefined", func() {
			_, err := classification.AverageSampleAccuracy(pairs)
			So(errors.Is(err, classification.ErrEmptyDataset), ShouldBeTrue)
		})
	})

	Convey("Given arbitrary pairs", t, func() {
		pairs := []model.SamplePair{
			counts("a", 3, 0, 0, 7),
			counts("b", 0, 12, 4, 4),
			counts("c", 1, 1, 1, 1),
		}

		Convey("Then both accuracies should stay within [0, 100]", func() {
			acc, err := classification.AverageSampleAccuracy(pairs)
			So(err, ShouldBeNil)
			So(acc, ShouldBeBetweenOrEqual, 0, 100)

			anomaly, err := classification.AnomalyDetectionAccuracy(pairs)
			So(err, ShouldBeNil)
			So(anomaly, ShouldBeBetweenOrEqual, 0, 100)
		})
	})
}

func TestDiagnostics(t *testing.T) {
	Convey("Given a small dataset", t, func() {
		pairs := []model.SamplePair{
			counts("a", 1, 9, 1, 9),
			counts("b", 0, 10, 0, 8),
			counts("c", 0, 0, 0, 0),
		}

		Convey("When diagnosing it", func() {
			d := classification.Diagnose(pairs)

			Convey("Then the informational metrics should be filled in", func() {
				So(d.ExactCountAccuracy, ShouldAlmostEqual, 200.0/3, 1e-9)
				So(d.SlotCountAccuracy, ShouldAlmostEqual, 90, 1e-9)
				So(d.SlotCountRatio, ShouldAlmostEqual, 90, 1e-9)
				So(d.ExcludedSamples, ShouldEqual, 1)
				So(d.Confusion.TruePositives, ShouldEqual, 1)
				So(d.Confusion.TrueNegatives, ShouldEqual, 2)
			})
		})
	})

	Convey("Given no slots at all", t, func() {
		pairs := []model.SamplePair{counts("c", 0, 0, 0, 0)}

		Convey("Then the slot metrics should report an empty dataset", func() {
			_, err := classification.SlotCountAccuracy(pairs)
			So(errors.Is(err, classification.ErrEmptyDataset), ShouldBeTrue)
			_, err = classification.SlotCountRatio(pairs)
			So(errors.Is(err, classification.ErrEmptyDataset), ShouldBeTrue)
			_, err = classification.ExactCountAccuracy(nil)
			So(errors.Is(err, classification.ErrEmptyDataset), ShouldBeTrue)
		})
	})
}
