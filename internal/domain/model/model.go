// Package model contains domain models passed between layers.
package model

import "time"

// State is the session lifecycle state.
type State int

const (
	StateCreated State = iota
	StateActive
	StateComplete
)

// String returns the lifecycle label.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "CREATED"
	case StateActive:
		return "ACTIVE"
	case StateComplete:
		return "COMPLETE"
	default:
		return "UNKNOWN"
	}
}

// Question is a single interview prompt. Immutable once generated.
type Question struct {
	ID       string   `json:"id"`
	Prompt   string   `json:"prompt"`
	Category string   `json:"category"`
	Hints    []string `json:"-"` // keyword hints consumed by the scorer
}

// AnswerRecord captures one scored answer. Immutable once created; the
// orchestrator writes at most one per question index.
type AnswerRecord struct {
	QuestionID   string        `json:"question_id"`
	Transcript   string        `json:"transcript"`
	SubmittedAt  time.Time     `json:"submitted_at"`
	Elapsed      time.Duration `json:"elapsed"`
	ContentScore float64       `json:"content_score"`
	Feedback     string        `json:"feedback"`
}

// FaceSample is one webcam-derived measurement. Transient: consumed by the
// attention tracker, never retained individually.
type FaceSample struct {
	At        time.Time `json:"-"`
	Attention float64   `json:"attention"`
	Smiling   bool      `json:"smiling"`
	Faces     int       `json:"faces"`
}

// AttentionState holds the smoothed attention signals for one session.
// Mutated only by the attention tracker, owned by the Session.
type AttentionState struct {
	EMAAttention      float64
	EMASmileRatio     float64
	EMAFaceCount      float64
	FrameCount        int
	PresentFrameCount int
	LastNudge         time.Time
	NudgeCount        int
	LastStatusEmit    time.Time
}

// PresentRatio is the fraction of sampled frames with at least one face,
// 0 when no frames were seen yet.
func (a AttentionState) PresentRatio() float64 {
	if a.FrameCount == 0 {
		return 0
	}
	return float64(a.PresentFrameCount) / float64(a.FrameCount)
}

// AttentionSummary is the snapshot embedded in the final report.
type AttentionSummary struct {
	Attention    float64 `json:"attention"`
	PresentRatio float64 `json:"present_ratio"`
	SmileRatio   float64 `json:"smile_ratio"`
	Frames       int     `json:"frames"`
	Nudges       int     `json:"nudges"`
}

// FinalInsights is the end-of-session report. Computed once, immutable,
// derived solely from AnswerRecords and AttentionState.
type FinalInsights struct {
	OverallScore   float64          `json:"overall_score"`
	Strengths      []string         `json:"strengths"`
	Weaknesses     []string         `json:"weaknesses"`
	Communication  string           `json:"communication"`
	TechnicalDepth string           `json:"technical_depth"`
	Attention      AttentionSummary `json:"attention_summary"`
}

// Session is one candidate's interview. Exclusively owned by the registry
// and mutated only through orchestrator operations.
type Session struct {
	ID        string
	Role      string
	Skills    []string
	Questions []Question
	Index     int
	Answers   []AnswerRecord
	Attention AttentionState
	State     State
	CreatedAt time.Time
	// QuestionIssuedAt feeds AnswerRecord.Elapsed.
	QuestionIssuedAt time.Time
	// LastActivity drives TTL eviction.
	LastActivity time.Time
	Insights     *FinalInsights
}

// CurrentQuestion returns the question at the session's index, or false
// when the sequence is exhausted.
func (s *Session) CurrentQuestion() (Question, bool) {
	if s.Index < 0 || s.Index >= len(s.Questions) {
		return Question{}, false
	}
	return s.Questions[s.Index], true
}

// Progress reports answered/total.
func (s *Session) Progress() (answered, total int) {
	return s.Index, len(s.Questions)
}
