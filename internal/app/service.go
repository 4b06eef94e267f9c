// Package service implements the session orchestrator binding questions,
// answers, timers, and attention into one session lifecycle.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MalekSoula7/AI-Career-Studio/internal/adapters/registry"
	"github.com/MalekSoula7/AI-Career-Studio/internal/adapters/stream"
	"github.com/MalekSoula7/AI-Career-Studio/internal/domain/attention"
	"github.com/MalekSoula7/AI-Career-Studio/internal/domain/event"
	"github.com/MalekSoula7/AI-Career-Studio/internal/domain/insights"
	"github.com/MalekSoula7/AI-Career-Studio/internal/domain/model"
	"github.com/MalekSoula7/AI-Career-Studio/internal/domain/questionbank"
	"github.com/MalekSoula7/AI-Career-Studio/internal/domain/scoring"
	"github.com/MalekSoula7/AI-Career-Studio/pkg/logger"
	"github.com/MalekSoula7/AI-Career-Studio/pkg/metrics"
)

// Service is the per-candidate session orchestrator. All state-mutating
// operations on one session are serialized through the registry entry's
// mutex; the question-index check on submissions additionally resolves the
// answer/timeout race, so neither mechanism is sufficient alone.
type Service struct {
	mu sync.RWMutex

	// Core components
	sessions   *registry.Registry
	bank       *questionbank.Bank
	scorer     scoring.Scorer
	tracker    *attention.Tracker
	aggregator *insights.Aggregator

	// Streams carry outbound events per session.
	streamMu sync.Mutex
	streams  map[string]*stream.Stream

	// Configuration
	questionTimeout  time.Duration
	eventBuffer      int
	maxSessions      int
	sessionTTL       time.Duration
	evictionInterval time.Duration

	// State
	started bool

	logger logger.Logger
	now    func() time.Time
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		streams:          make(map[string]*stream.Stream),
		questionTimeout:  60 * time.Second,
		eventBuffer:      64,
		maxSessions:      10_000,
		sessionTTL:       30 * time.Minute,
		evictionInterval: time.Minute,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the components that were not injected and launches
// the registry sweeper.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("orchestrator")
	}
	if s.bank == nil {
		s.bank = questionbank.New()
	}
	if s.scorer == nil {
		s.scorer = scoring.NewHeuristic()
	}
	if s.tracker == nil {
		s.tracker = attention.New()
	}
	if s.aggregator == nil {
		s.aggregator = insights.New()
	}
	if s.sessions == nil {
		s.sessions = registry.New(
			registry.WithMaxSessions(s.maxSessions),
			registry.WithTTL(s.sessionTTL),
			registry.WithSweepInterval(s.evictionInterval),
			registry.WithLogger(s.logger.Named("registry")),
		)
	}
	s.sessions.StartSweeper(ctx)

	s.started = true
	s.logger.Info(ctx, "session orchestrator started",
		logger.Duration("questionTimeout", s.questionTimeout),
		logger.Int("maxSessions", s.maxSessions),
	)
	return nil
}

// Stop halts the sweeper and closes every live stream.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.sessions.Stop()

	s.streamMu.Lock()
	for id, st := range s.streams {
		st.Close()
		delete(s.streams, id)
	}
	s.streamMu.Unlock()

	s.started = false
	s.logger.Info(context.Background(), "session orchestrator stopped")
}

// StartSession creates a new ACTIVE session for the resolved role and
// skill context, issues the first question, and arms its timeout.
func (s *Service) StartSession(ctx context.Context, role string, skills []string) (string, model.Question, error) {
	id := uuid.NewString()
	now := s.now()

	questions := s.bank.QuestionsFor(role)
	sess := &model.Session{
		ID:               id,
		Role:             role,
		Skills:           skills,
		Questions:        questions,
		State:            model.StateActive,
		CreatedAt:        now,
		QuestionIssuedAt: now,
		LastActivity:     now,
	}

	st := stream.New(stream.WithCapacity(s.eventBuffer))
	entry, err := s.sessions.Create(ctx, sess, func() {
		st.Close()
		s.dropStream(id)
	})
	if err != nil {
		st.Close()
		return "", model.Question{}, fmt.Errorf("start session: %w", err)
	}

	s.streamMu.Lock()
	s.streams[id] = st
	s.streamMu.Unlock()

	entry.Mu.Lock()
	s.armTimer(entry, 0)
	entry.Mu.Unlock()

	first := questions[0]
	s.publish(id, event.TypeQuestionIssued, event.QuestionIssued{
		Question: first,
		Progress: fmt.Sprintf("0/%d", len(questions)),
	})

	metrics.RecordSessionStarted()
	s.logger.Info(ctx, "session started",
		logger.String("sessionID", id),
		logger.String("role", role),
		logger.Int("questions", len(questions)),
	)
	return id, first, nil
}

// JoinSession re-attaches a connection to an existing session without
// mutating lifecycle state, replaying the current question.
func (s *Service) JoinSession(ctx context.Context, id string) (model.Question, error) {
	entry, err := s.entry(ctx, id)
	if err != nil {
		return model.Question{}, err
	}

	entry.Mu.Lock()
	defer entry.Mu.Unlock()

	sess := entry.Session
	if sess.State == model.StateComplete {
		return model.Question{}, ErrSessionComplete
	}

	q, ok := sess.CurrentQuestion()
	if !ok {
		return model.Question{}, ErrSessionComplete
	}
	sess.LastActivity = s.now()

	answered, total := sess.Progress()
	s.publish(id, event.TypeQuestionIssued, event.QuestionIssued{
		Question: q,
		Progress: fmt.Sprintf("%d/%d", answered, total),
	})
	return q, nil
}

// SubmitAnswer scores the transcript for the given question index and
// advances the session. Calls with a stale or already-consumed index are
// silent no-ops: idempotence against the timeout race.
func (s *Service) SubmitAnswer(ctx context.Context, id string, questionIndex int, transcript string) error {
	entry, err := s.entry(ctx, id)
	if err != nil {
		return err
	}

	entry.Mu.Lock()
	defer entry.Mu.Unlock()

	sess := entry.Session
	if sess.State != model.StateActive {
		return nil
	}
	if questionIndex != sess.Index {
		metrics.RecordStaleSubmission()
		s.logger.Debug(ctx, "stale submission ignored",
			logger.String("sessionID", id),
			logger.Int("submitted", questionIndex),
			logger.Int("current", sess.Index),
		)
		return nil
	}

	s.advance(ctx, entry, transcript)
	return nil
}

// ReportAttention forwards a face sample to the attention tracker. It may
// emit a nudge or a status update but never changes lifecycle state.
func (s *Service) ReportAttention(ctx context.Context, id string, sample model.FaceSample) error {
	entry, err := s.entry(ctx, id)
	if err != nil {
		return err
	}

	entry.Mu.Lock()
	defer entry.Mu.Unlock()

	sess := entry.Session
	if sess.State != model.StateActive {
		return nil
	}

	now := s.now()
	nudged, clamped := s.tracker.Ingest(&sess.Attention, sample, now)
	sess.LastActivity = now

	metrics.RecordAttentionSample()
	if clamped {
		metrics.RecordSampleClamped()
	}

	if nudged {
		metrics.RecordNudge()
		s.publish(id, event.TypeNudge, event.Nudge{
			Reason: "Attention has been low for a while. Keep your eyes on the screen: it helps with clarity and presence.",
		})
	}

	if s.tracker.ShouldEmitStatus(&sess.Attention, now) {
		snap := s.tracker.Snapshot(&sess.Attention)
		s.publish(id, event.TypeAttentionStatus, event.AttentionStatus{
			EMAAttention: snap.EMAAttention,
			EMAFaceCount: snap.EMAFaceCount,
			FrameCount:   snap.FrameCount,
			PresentRatio: snap.PresentRatio,
			SmileRatio:   snap.EMASmileRatio,
		})
	}
	return nil
}

// EndSession completes a session early. A no-op on a session that already
// finished.
func (s *Service) EndSession(ctx context.Context, id string) error {
	entry, err := s.entry(ctx, id)
	if err != nil {
		return err
	}

	entry.Mu.Lock()
	defer entry.Mu.Unlock()

	if entry.Session.State != model.StateActive {
		return nil
	}
	s.cancelTimer(entry)
	s.complete(ctx, entry)
	return nil
}

// Report returns the final insights once the session completed.
func (s *Service) Report(ctx context.Context, id string) (model.FinalInsights, error) {
	entry, err := s.entry(ctx, id)
	if err != nil {
		return model.FinalInsights{}, err
	}

	entry.Mu.Lock()
	defer entry.Mu.Unlock()

	if entry.Session.Insights == nil {
		return model.FinalInsights{}, ErrReportNotReady
	}
	return *entry.Session.Insights, nil
}

// Subscribe returns the session's outbound event channel.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan event.Event, error) {
	if _, err := s.entry(ctx, id); err != nil {
		return nil, err
	}
	st := s.stream(id)
	if st == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSession, id)
	}
	return st.Events(), nil
}

// DrainEvents returns all buffered outbound events for polling adapters.
func (s *Service) DrainEvents(ctx context.Context, id string) ([]event.Event, error) {
	if _, err := s.entry(ctx, id); err != nil {
		return nil, err
	}
	st := s.stream(id)
	if st == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSession, id)
	}
	return st.Drain(), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":         s.started,
		"questionTimeout": s.questionTimeout.String(),
		"maxSessions":     s.maxSessions,
	}
	if s.started {
		stats["activeSessions"] = s.sessions.Count(context.Background())
	}
	return stats
}

// entry resolves a registry entry, mapping registry misses to the
// orchestrator's sentinel.
func (s *Service) entry(ctx context.Context, id string) (*registry.Entry, error) {
	entry, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSession, id)
	}
	return entry, nil
}

// advance consumes the current question: scores the transcript, records
// the answer, and either issues the next question or completes the
// session. Caller holds entry.Mu.
func (s *Service) advance(ctx context.Context, entry *registry.Entry, transcript string) {
	sess := entry.Session
	now := s.now()

	s.cancelTimer(entry)

	q := sess.Questions[sess.Index]
	res, err := s.scorer.Score(ctx, scoring.Input{
		QuestionHints: q.Hints,
		Skills:        sess.Skills,
		Category:      q.Category,
		Transcript:    transcript,
	})
	if err != nil {
		// Scoring is pure and should not fail; record a blank score so the
		// session still advances rather than wedging on this question.
		s.logger.Error(ctx, "scoring failed",
			logger.String("sessionID", sess.ID),
			logger.String("questionID", q.ID),
			logger.Error(err),
		)
		res = scoring.Result{Score: 0, Feedback: "We could not evaluate that answer."}
	}

	sess.Answers = append(sess.Answers, model.AnswerRecord{
		QuestionID:   q.ID,
		Transcript:   transcript,
		SubmittedAt:  now,
		Elapsed:      now.Sub(sess.QuestionIssuedAt),
		ContentScore: res.Score,
		Feedback:     res.Feedback,
	})
	metrics.RecordAnswerScored(res.Score)

	sess.Index++
	sess.LastActivity = now

	s.publish(sess.ID, event.TypeFeedbackHint, event.FeedbackHint{Text: res.Feedback})

	if next, ok := sess.CurrentQuestion(); ok {
		sess.QuestionIssuedAt = now
		s.armTimer(entry, sess.Index)

		answered, total := sess.Progress()
		s.publish(sess.ID, event.TypeQuestionIssued, event.QuestionIssued{
			Question: next,
			Progress: fmt.Sprintf("%d/%d", answered, total),
		})
		return
	}

	s.complete(ctx, entry)
}

// complete transitions the session to COMPLETE and emits the final report
// exactly once. Caller holds entry.Mu; the State check makes re-entry
// impossible.
func (s *Service) complete(ctx context.Context, entry *registry.Entry) {
	sess := entry.Session
	if sess.State == model.StateComplete {
		return
	}
	sess.State = model.StateComplete
	sess.LastActivity = s.now()

	final := s.aggregator.Finalize(sess.Answers, sess.Attention)
	sess.Insights = &final

	metrics.RecordSessionCompleted()
	metrics.RecordOverallScore(final.OverallScore)

	s.publish(sess.ID, event.TypeSessionComplete, event.SessionComplete{Insights: final})

	s.logger.Info(ctx, "session complete",
		logger.String("sessionID", sess.ID),
		logger.Float64("overallScore", final.OverallScore),
		logger.Int("answers", len(sess.Answers)),
	)
}

// armTimer schedules the timeout for (session, index). Caller holds
// entry.Mu. The fired handler re-checks the index, so a lost cancellation
// race degrades to a no-op.
func (s *Service) armTimer(entry *registry.Entry, index int) {
	id := entry.Session.ID
	entry.Timer = time.AfterFunc(s.questionTimeout, func() {
		s.onTimeout(id, index)
	})
}

// cancelTimer stops the pending timeout, if any. Caller holds entry.Mu.
func (s *Service) cancelTimer(entry *registry.Entry) {
	if entry.Timer != nil {
		entry.Timer.Stop()
		entry.Timer = nil
	}
}

// onTimeout fires when a question's timer elapses: it behaves as an empty
// submission when the index still matches, and as a no-op when a real
// answer already resolved the race.
func (s *Service) onTimeout(id string, index int) {
	ctx := context.Background()

	entry, err := s.sessions.Get(ctx, id)
	if err != nil {
		return // session evicted meanwhile
	}

	entry.Mu.Lock()
	defer entry.Mu.Unlock()

	sess := entry.Session
	if sess.State != model.StateActive || sess.Index != index {
		metrics.RecordStaleSubmission()
		return
	}

	metrics.RecordQuestionTimeout()
	s.logger.Debug(ctx, "question timed out",
		logger.String("sessionID", id),
		logger.Int("index", index),
	)
	s.advance(ctx, entry, "")
}

func (s *Service) publish(id string, typ event.Type, payload any) {
	st := s.stream(id)
	if st == nil {
		return
	}
	st.Publish(event.Event{
		Type:      typ,
		SessionID: id,
		At:        s.now(),
		Payload:   payload,
	})
}

func (s *Service) stream(id string) *stream.Stream {
	s.streamMu.Lock()
	defer s.streamMu.Unlock()
	return s.streams[id]
}

func (s *Service) dropStream(id string) {
	s.streamMu.Lock()
	defer s.streamMu.Unlock()
	delete(s.streams, id)
}
