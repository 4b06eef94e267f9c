// Package registry owns every live session in the process.
//
// Sessions are reachable only through their opaque id; callers never hold
// raw references across operations. Each entry carries the per-session
// mutex that serializes orchestrator operations, and the registry runs the
// TTL sweep that frees abandoned sessions.
package registry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MalekSoula7/AI-Career-Studio/internal/domain/model"
	"github.com/MalekSoula7/AI-Career-Studio/pkg/logger"
	"github.com/MalekSoula7/AI-Career-Studio/pkg/metrics"
)

// Entry binds a session to its exclusion scope and cleanup hooks.
type Entry struct {
	// Mu serializes every state-mutating operation for this session.
	Mu      sync.Mutex
	Session *model.Session

	// Timer is the pending per-question timeout, nil when none is armed.
	// Guarded by Mu.
	Timer *time.Timer

	// OnEvict runs outside the registry lock when the entry is removed
	// (stream close, timer cancel). Set once at creation.
	OnEvict func()
}

// Registry is the process-wide session arena.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Entry

	maxSessions   int
	ttl           time.Duration
	sweepInterval time.Duration

	stopCh   chan struct{}
	stopOnce sync.Once

	log logger.Logger
}

// Option applies a configuration option to the Registry.
type Option func(*Registry)

// WithMaxSessions caps concurrent sessions.
func WithMaxSessions(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.maxSessions = n
		}
	}
}

// WithTTL sets how long an idle session survives.
func WithTTL(ttl time.Duration) Option {
	return func(r *Registry) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// WithSweepInterval sets how often the eviction loop runs.
func WithSweepInterval(interval time.Duration) Option {
	return func(r *Registry) {
		if interval > 0 {
			r.sweepInterval = interval
		}
	}
}

// WithLogger sets a custom logger for the registry.
func WithLogger(log logger.Logger) Option {
	return func(r *Registry) {
		if log != nil {
			r.log = log
		}
	}
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		entries:       make(map[string]*Entry),
		maxSessions:   10_000,
		ttl:           30 * time.Minute,
		sweepInterval: time.Minute,
		stopCh:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logger.Get().Named("registry")
	}
	return r
}

// Create inserts a new session. The session id must be unique; capacity
// exhaustion is reported upward, never retried here.
func (r *Registry) Create(ctx context.Context, sess *model.Session, onEvict func()) (*Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.entries) >= r.maxSessions {
		return nil, fmt.Errorf("%w: %d sessions", ErrCapacity, r.maxSessions)
	}
	if _, exists := r.entries[sess.ID]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateID, sess.ID)
	}

	e := &Entry{Session: sess, OnEvict: onEvict}
	r.entries[sess.ID] = e
	metrics.UpdateActiveSessions(len(r.entries))

	r.log.Debug(ctx, "session registered",
		logger.String("sessionID", sess.ID),
		logger.Int("active", len(r.entries)),
	)
	return e, nil
}

// Get resolves a session entry by id.
func (r *Registry) Get(_ context.Context, id string) (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSession, id)
	}
	return e, nil
}

// Remove evicts a session. Idempotent: removing an unknown id is a no-op.
func (r *Registry) Remove(ctx context.Context, id string) {
	r.mu.Lock()
	e, ok := r.entries[id]
	if ok {
		delete(r.entries, id)
	}
	active := len(r.entries)
	r.mu.Unlock()

	if !ok {
		return
	}

	metrics.UpdateActiveSessions(active)
	r.evict(ctx, e)
}

// Count returns the number of live sessions.
func (r *Registry) Count(_ context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// StartSweeper launches the TTL eviction loop until ctx is canceled or
// Stop is called.
func (r *Registry) StartSweeper(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(r.sweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-r.stopCh:
				return
			case <-ticker.C:
				r.sweep(ctx)
			}
		}
	}()
}

// Stop halts the sweeper. Safe to call more than once.
func (r *Registry) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
}

// sweep removes sessions idle past their TTL.
func (r *Registry) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-r.ttl)

	r.mu.Lock()
	var expired []*Entry
	for id, e := range r.entries {
		e.Mu.Lock()
		idle := e.Session.LastActivity.Before(cutoff)
		e.Mu.Unlock()
		if idle {
			expired = append(expired, e)
			delete(r.entries, id)
		}
	}
	active := len(r.entries)
	r.mu.Unlock()

	if len(expired) == 0 {
		return
	}

	metrics.UpdateActiveSessions(active)
	for _, e := range expired {
		metrics.RecordSessionEvicted()
		r.evict(ctx, e)
	}
	r.log.Info(ctx, "evicted idle sessions",
		logger.Int("count", len(expired)),
		logger.Int("active", active),
	)
}

// evict cancels the pending timer and runs the entry's cleanup hook.
func (r *Registry) evict(_ context.Context, e *Entry) {
	e.Mu.Lock()
	if e.Timer != nil {
		e.Timer.Stop()
		e.Timer = nil
	}
	hook := e.OnEvict
	e.Mu.Unlock()

	if hook != nil {
		hook()
	}
}
