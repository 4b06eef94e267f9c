package model_test

import (
	"testing"

	"github.com/MalekSoula7/AI-Career-Studio/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestStateString(t *testing.T) {
	Convey("Given lifecycle states", t, func() {
		So(model.StateCreated.String(), ShouldEqual, "CREATED")
		So(model.StateActive.String(), ShouldEqual, "ACTIVE")
		So(model.StateComplete.String(), ShouldEqual, "COMPLETE")
		So(model.State(42).String(), ShouldEqual, "UNKNOWN")
	})
}

func TestPresentRatio(t *testing.T) {
	Convey("Given an attention state", t, func() {
		Convey("When no frames were seen", func() {
			var a model.AttentionState
			So(a.PresentRatio(), ShouldEqual, 0)
		})

		Convey("When some frames contained a face", func() {
			a := model.AttentionState{FrameCount: 8, PresentFrameCount: 6}
			So(a.PresentRatio(), ShouldEqual, 0.75)
		})

		Convey("When every frame contained a face", func() {
			a := model.AttentionState{FrameCount: 4, PresentFrameCount: 4}
			So(a.PresentRatio(), ShouldEqual, 1.0)
		})
	})
}

func TestCurrentQuestion(t *testing.T) {
	Convey("Given a session with two questions", t, func() {
		s := &model.Session{
			Questions: []model.Question{
				{ID: "q1", Prompt: "first"},
				{ID: "q2", Prompt: "second"},
			},
		}

		Convey("Then index 0 resolves the first question", func() {
			q, ok := s.CurrentQuestion()
			So(ok, ShouldBeTrue)
			So(q.ID, ShouldEqual, "q1")
		})

		Convey("Then an exhausted index resolves nothing", func() {
			s.Index = 2
			_, ok := s.CurrentQuestion()
			So(ok, ShouldBeFalse)
		})

		Convey("Then progress reports answered over total", func() {
			s.Index = 1
			answered, total := s.Progress()
			So(answered, ShouldEqual, 1)
			So(total, ShouldEqual, 2)
		})
	})
}
