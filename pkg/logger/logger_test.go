package logger_test

import (
	"context"
	"testing"

	"github.com/MalekSoula7/AI-Career-Studio/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given an initialized global logger", t, func() {
		err := logger.Init()
		So(err, ShouldBeNil)

		Convey("Then Get returns a usable logger", func() {
			l := logger.Get()
			So(l, ShouldNotBeNil)
			So(func() {
				l.Info(context.Background(), "hello", logger.String("k", "v"))
			}, ShouldNotPanic)
		})

		Convey("Then Named returns a grouped sub-logger", func() {
			l := logger.Named("orchestrator")
			So(l, ShouldNotBeNil)
			So(func() {
				l.Debug(context.Background(), "scoped entry", logger.Int("n", 1))
			}, ShouldNotPanic)
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given the global level setter", t, func() {
		So(logger.Init(), ShouldBeNil)

		Convey("When setting known levels", func() {
			for _, lvl := range []string{"debug", "info", "warn", "warning", "error", ""} {
				So(logger.SetLevelString(lvl), ShouldBeNil)
			}
		})

		Convey("When setting an unknown level", func() {
			err := logger.SetLevelString("verbose")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestFieldConstructors(t *testing.T) {
	Convey("Given the field helpers", t, func() {
		So(logger.String("a", "b").Key, ShouldEqual, "a")
		So(logger.Int("n", 3).Value, ShouldEqual, 3)
		So(logger.Float64("f", 0.5).Value, ShouldEqual, 0.5)
		So(logger.Bool("ok", true).Value, ShouldEqual, true)
		So(logger.Error(nil).Key, ShouldEqual, "error")
	})
}
