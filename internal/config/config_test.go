package config_test

import (
	"runtime"
	"testing"

	"github.com/carlospagolacorrea-rgb/RMW2/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.Backend, convey.ShouldEqual, config.BackendMemory)
			convey.So(cfg.ScorerTimeoutMS, convey.ShouldEqual, 15_000)
			convey.So(cfg.LocalCacheSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.LeaderboardLimit, convey.ShouldEqual, 10)
			convey.So(cfg.PersistWorkers, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.RevealIntervalMS, convey.ShouldEqual, 1_200)
			convey.So(cfg.GeminiAPIKey, convey.ShouldBeEmpty)
		})

		convey.Convey("Then the defaults validate", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
