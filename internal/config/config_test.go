package config_test

import (
	"testing"

	"github.com/MalekSoula7/AI-Career-Studio/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewDefaults(t *testing.T) {
	Convey("Given a default config", t, func() {
		cfg := config.New()

		Convey("Then the engine defaults match the documented contract", func() {
			So(cfg.Addr, ShouldEqual, ":8000")
			So(cfg.LogLevel, ShouldEqual, "info")
			So(cfg.QuestionTimeoutS, ShouldEqual, 60)
			So(cfg.EMAAlpha, ShouldEqual, 0.2)
			So(cfg.NudgeThreshold, ShouldEqual, 0.4)
			So(cfg.NudgeCooldownS, ShouldEqual, 15)
		})

		Convey("Then the final-score weights default to 0.7/0.3", func() {
			So(cfg.ContentWeight, ShouldEqual, 0.7)
			So(cfg.AttentionWeight, ShouldEqual, 0.3)
			So(cfg.AttentionEMAShare, ShouldEqual, 0.6)
		})

		Convey("Then the registry bounds are sane", func() {
			So(cfg.MaxSessions, ShouldBeGreaterThan, 0)
			So(cfg.EventBufferSize, ShouldBeGreaterThan, 0)
			So(cfg.SessionTTLMin, ShouldBeGreaterThan, 0)
		})
	})
}
