// Package stream buffers outbound events for one session.
//
// The orchestrator publishes without blocking; a slow or absent consumer
// must never stall the state machine, so overflow drops the oldest event
// instead of rejecting the newest. Live feedback is only useful fresh.
package stream

import (
	"sync"

	"github.com/MalekSoula7/AI-Career-Studio/internal/domain/event"
	"github.com/MalekSoula7/AI-Career-Studio/pkg/metrics"
)

const defaultCapacity = 64

// Stream is a bounded per-session event queue.
type Stream struct {
	mu     sync.Mutex
	events chan event.Event
	closed bool
}

// Option applies a configuration option to the Stream.
type Option func(*config)

type config struct {
	capacity int
}

// WithCapacity bounds the number of buffered events.
func WithCapacity(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.capacity = n
		}
	}
}

// New creates an open stream.
func New(opts ...Option) *Stream {
	cfg := config{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Stream{events: make(chan event.Event, cfg.capacity)}
}

// Publish appends an event, dropping the oldest buffered event when full.
// Publishing to a closed stream is a no-op.
func (s *Stream) Publish(e event.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	for {
		select {
		case s.events <- e:
			return
		default:
		}
		// Full: shed the oldest entry and retry.
		select {
		case <-s.events:
			metrics.RecordEventDropped()
		default:
		}
	}
}

// Events returns the receive side. The channel closes when the stream is
// closed and the buffer drains.
func (s *Stream) Events() <-chan event.Event {
	return s.events
}

// Drain returns all currently buffered events without blocking.
func (s *Stream) Drain() []event.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]event.Event, 0, len(s.events))
	for {
		select {
		case e, ok := <-s.events:
			if !ok {
				return out
			}
			out = append(out, e)
		default:
			return out
		}
	}
}

// Len returns the number of buffered events.
func (s *Stream) Len() int {
	return len(s.events)
}

// Close shuts the stream. Idempotent; buffered events remain readable.
func (s *Stream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	close(s.events)
}

// IsClosed reports whether Close was called.
func (s *Stream) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
