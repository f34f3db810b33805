package config_test

import (
	"errors"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/okian/pillscore/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should follow the evaluation harness layout", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.InputDir, convey.ShouldEqual, filepath.Join("..", "evaluation_results"))
			convey.So(cfg.OutputDir, convey.ShouldEqual, filepath.Join("..", "scoring_output"))
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.StrictCounts, convey.ShouldBeFalse)
			convey.So(cfg.MetricsFile, convey.ShouldBeEmpty)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then the derived paths should be rooted in the right directories", func() {
			cfg.InputDir = "in"
			cfg.OutputDir = "out"
			convey.So(cfg.ReferencePattern(), convey.ShouldEqual, filepath.Join("in", "ref_cust", "*.json"))
			convey.So(cfg.PredictionPath(), convey.ShouldEqual, filepath.Join("in", "res"))
			convey.So(cfg.IngestionMetricsPath(), convey.ShouldEqual, filepath.Join("in", "res", "ingestion_metrics.json"))
			convey.So(cfg.MetadataPath(), convey.ShouldEqual, filepath.Join("in", "res", "metadata"))
			convey.So(cfg.ScorePath(), convey.ShouldEqual, filepath.Join("out", "scores.txt"))
			convey.So(cfg.HTMLPath(), convey.ShouldEqual, filepath.Join("out", "scores.html"))
		})

		convey.Convey("Then optional files should resolve to empty paths when unset", func() {
			cfg.HTMLFile = ""
			cfg.MetadataFile = ""
			convey.So(cfg.HTMLPath(), convey.ShouldBeEmpty)
			convey.So(cfg.MetadataPath(), convey.ShouldBeEmpty)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given invalid configurations", t, func() {
		cases := map[string]func(*config.Config){
			"empty input dir":    func(c *config.Config) { c.InputDir = " " },
			"empty output dir":   func(c *config.Config) { c.OutputDir = "" },
			"empty glob":         func(c *config.Config) { c.ReferenceGlob = "" },
			"bad glob":           func(c *config.Config) { c.ReferenceGlob = "ref/[" },
			"empty score file":   func(c *config.Config) { c.ScoreFile = "" },
			"zero workers":       func(c *config.Config) { c.WorkerCount = 0 },
			"unknown log format": func(c *config.Config) { c.LogFormat = "xml" },
		}

		for name, mutate := range cases {
			convey.Convey("When the config has "+name, func() {
				cfg := config.New()
				mutate(cfg)

				convey.Convey("Then validation should fail with ErrInvalidConfig", func() {
					convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
					convey.So(cfg.Validate().Error(), convey.ShouldStartWith, "invalid scorer config: ")
				})
			})
		}
	})
}
