package repository_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/okian/pillscore/internal/adapters/repository"
	"github.com/okian/pillscore/internal/domain/model"
	"github.com/okian/pillscore/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithOutput(io.Discard)); err != nil {
		panic(err)
	}
}

func record(source string, missing, present int) repository.Record {
	rec := model.Record{MissingPills: missing, PresentPills: present}
	for i := 0; i < missing; i++ {
		rec.Coordinates.Missing = append(rec.Coordinates.Missing, model.Point{X: float64(i), Y: 0})
	}
	for i := 0; i < present; i++ {
		rec.Coordinates.Present = append(rec.Coordinates.Present, model.Point{X: float64(i), Y: 1})
	}
	return repository.Record{Source: source, Record: rec}
}

func TestSampleID(t *testing.T) {
	Convey("Given record sources", t, func() {
		Convey("Then the directory and final extension should be stripped", func() {
			So(repository.SampleID("ref_cust/img_001.json"), ShouldEqual, "img_001")
			So(repository.SampleID("res/img_001.prediction"), ShouldEqual, "img_001")
			So(repository.SampleID("a.b.json"), ShouldEqual, "a.b")
			So(repository.SampleID("plain"), ShouldEqual, "plain")
		})
	})
}

func TestPair(t *testing.T) {
	Convey("Given ground truth and predictions in arbitrary order", t, func() {
		gt := []repository.Record{
			record("ref/c.json", 0, 2),
			record("ref/a.json", 1, 1),
			record("ref/b.json", 0, 3),
		}
		pred := []repository.Record{
			record("res/b.prediction", 0, 3),
			record("res/a.prediction", 1, 0),
			record("res/c.prediction", 0, 2),
			record("res/extra.prediction", 5, 5),
		}

		Convey("When pairing them", func() {
			pairs, err := repository.Pair(gt, pred)

			Convey("Then one pair per ground-truth record should be returned in source order", func() {
				So(err, ShouldBeNil)
				So(pairs, ShouldHaveLength, 3)
				So(pairs[0].ID, ShouldEqual, "a")
				So(pairs[1].ID, ShouldEqual, "b")
				So(pairs[2].ID, ShouldEqual, "c")
				So(pairs[0].GroundTruth.PresentCount, ShouldEqual, 1)
				So(pairs[0].Prediction.PresentCount, ShouldEqual, 0)
				So(pairs[0].Prediction.ID, ShouldEqual, "a")
			})
		})

		Convey("When a prediction is missing", func() {
			_, err := repository.Pair(gt, pred[1:])

			Convey("Then pairing should fail naming the sample", func() {
				So(errors.Is(err, repository.ErrMissingPrediction), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "b")
			})
		})

		Convey("When two predictions share an ID", func() {
			dup := append(pred, record("other/a.json", 0, 0))
			_, err := repository.Pair(gt, dup)

			Convey("Then pairing should be rejected as ambiguous", func() {
				So(errors.Is(err, repository.ErrDuplicateRecord), ShouldBeTrue)
			})
		})

		Convey("When two ground-truth records share an ID", func() {
			dup := append(gt, record("ref2/a.json", 0, 0))
			_, err := repository.Pair(dup, pred)

			Convey("Then pairing should be rejected as ambiguous", func() {
				So(errors.Is(err, repository.ErrDuplicateRecord), ShouldBeTrue)
			})
		})
	})

	Convey("Given no ground truth", t, func() {
		Convey("Then pairing should fail", func() {
			_, err := repository.Pair(nil, []repository.Record{record("res/a.prediction", 0, 0)})
			So(errors.Is(err, repository.ErrNoGroundTruth), ShouldBeTrue)
		})
	})
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given records whose counts disagree with their centroids", t, func() {
		bad := record("res/a.prediction", 0, 2)
		bad.PresentPills = 5
		gt := []repository.Record{record("ref/a.json", 0, 2)}
		pred := []repository.Record{bad}

		Convey("When loading permissively", func() {
			pairs, err := repository.NewMemoryStore(gt, pred).Load(ctx)

			Convey("Then the pair should be returned unchanged", func() {
				So(err, ShouldBeNil)
				So(pairs, ShouldHaveLength, 1)
				So(pairs[0].Prediction.PresentCount, ShouldEqual, 5)
				So(repository.Mismatches(pairs), ShouldResemble, []repository.Mismatch{
					{ID: "a", Side: repository.SidePrediction, Type: model.Present},
				})
			})
		})

		Convey("When loading strictly", func() {
			_, err := repository.NewMemoryStore(gt, pred, repository.WithStrictCounts(true)).Load(ctx)

			Convey("Then loading should fail", func() {
				So(errors.Is(err, repository.ErrInconsistentCounts), ShouldBeTrue)
			})
		})
	})

	Convey("Given a cancelled context", t, func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		Convey("Then loading should stop", func() {
			_, err := repository.NewMemoryStore(nil, nil).Load(cctx)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}
