// Package event defines the transport-agnostic outbound event contract.
//
// The orchestrator emits these; a thin adapter marshals them onto the
// actual wire (REST responses or the WebSocket live channel). Keeping the
// contract here keeps the state machine testable without a network.
package event

import (
	"time"

	"github.com/MalekSoula7/AI-Career-Studio/internal/domain/model"
)

// Type names an outbound event.
type Type string

const (
	TypeQuestionIssued  Type = "question_issued"
	TypeFeedbackHint    Type = "feedback_hint"
	TypeAttentionStatus Type = "attention_status"
	TypeNudge           Type = "nudge"
	TypeSessionComplete Type = "session_complete"
	TypeError           Type = "error"
)

// Event is the envelope delivered to the transport adapter.
type Event struct {
	Type      Type      `json:"type"`
	SessionID string    `json:"session_id"`
	At        time.Time `json:"at"`
	Payload   any       `json:"payload,omitempty"`
}

// QuestionIssued is emitted after start, join, and every advance.
type QuestionIssued struct {
	Question model.Question `json:"question"`
	Progress string         `json:"progress"` // answered/total
}

// FeedbackHint follows each scored answer.
type FeedbackHint struct {
	Text string `json:"text"`
}

// AttentionStatus is the throttled smoothed-signal snapshot.
type AttentionStatus struct {
	EMAAttention float64 `json:"ema_attention"`
	EMAFaceCount float64 `json:"ema_face_count"`
	FrameCount   int     `json:"frame_count"`
	PresentRatio float64 `json:"present_ratio"`
	SmileRatio   float64 `json:"smile_ratio"`
}

// Nudge signals sustained low attention.
type Nudge struct {
	Reason string `json:"reason"`
}

// SessionComplete carries the final report. Emitted exactly once.
type SessionComplete struct {
	Insights model.FinalInsights `json:"insights"`
}

// Error surfaces a command failure, e.g. an unknown session id.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
