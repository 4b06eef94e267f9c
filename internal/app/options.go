package service

import (
	"time"

	"github.com/MalekSoula7/AI-Career-Studio/internal/domain/attention"
	"github.com/MalekSoula7/AI-Career-Studio/internal/domain/insights"
	"github.com/MalekSoula7/AI-Career-Studio/internal/domain/questionbank"
	"github.com/MalekSoula7/AI-Career-Studio/internal/domain/scoring"
	"github.com/MalekSoula7/AI-Career-Studio/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithQuestionTimeout sets the server-owned per-question timeout.
func WithQuestionTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.questionTimeout = d
		}
	}
}

// WithEventBufferSize bounds each session's outbound event stream.
func WithEventBufferSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.eventBuffer = n
		}
	}
}

// WithMaxSessions caps concurrent sessions in the registry.
func WithMaxSessions(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

// WithSessionTTL sets how long an idle session survives before eviction.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithEvictionInterval sets the registry sweep cadence.
func WithEvictionInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.evictionInterval = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithScorer swaps the answer-scoring strategy.
func WithScorer(sc scoring.Scorer) Option {
	return func(s *Service) {
		if sc != nil {
			s.scorer = sc
		}
	}
}

// WithBank swaps the question bank.
func WithBank(b *questionbank.Bank) Option {
	return func(s *Service) {
		if b != nil {
			s.bank = b
		}
	}
}

// WithTracker swaps the attention tracker.
func WithTracker(t *attention.Tracker) Option {
	return func(s *Service) {
		if t != nil {
			s.tracker = t
		}
	}
}

// WithAggregator swaps the insights aggregator.
func WithAggregator(a *insights.Aggregator) Option {
	return func(s *Service) {
		if a != nil {
			s.aggregator = a
		}
	}
}

// WithClock overrides the time source. Tests use this to drive the nudge
// cooldown and elapsed-time bookkeeping deterministically.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
