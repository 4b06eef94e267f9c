package metrics_test

import (
	"testing"

	"github.com/MalekSoula7/AI-Career-Studio/pkg/metrics"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRecorders(t *testing.T) {
	Convey("Given the metrics package", t, func() {
		Convey("Then session recorders do not panic", func() {
			So(metrics.RecordSessionStarted, ShouldNotPanic)
			So(metrics.RecordSessionCompleted, ShouldNotPanic)
			So(metrics.RecordSessionEvicted, ShouldNotPanic)
			So(func() { metrics.UpdateActiveSessions(3) }, ShouldNotPanic)
		})

		Convey("Then pipeline recorders do not panic", func() {
			So(func() { metrics.RecordAnswerScored(72.5) }, ShouldNotPanic)
			So(metrics.RecordQuestionTimeout, ShouldNotPanic)
			So(metrics.RecordStaleSubmission, ShouldNotPanic)
			So(metrics.RecordAttentionSample, ShouldNotPanic)
			So(metrics.RecordSampleClamped, ShouldNotPanic)
			So(metrics.RecordNudge, ShouldNotPanic)
			So(metrics.RecordEventDropped, ShouldNotPanic)
			So(func() { metrics.RecordOverallScore(88) }, ShouldNotPanic)
		})

		Convey("Then the HTTP recorder accepts label values", func() {
			So(func() {
				metrics.RecordHTTPRequest("sessions", "POST", "201", 4.2)
			}, ShouldNotPanic)
		})
	})
}
