// Package attention smooths noisy webcam-derived signals per session.
//
// Samples may arrive bursty or out of order; the tracker treats every
// inbound sample as most recent regardless of wall-clock gaps, so the EMA
// never assumes a fixed sampling rate.
package attention

import (
	"math"
	"time"

	"github.com/MalekSoula7/AI-Career-Studio/internal/domain/model"
)

// Status is the snapshot emitted to clients and embedded in reports.
type Status struct {
	EMAAttention  float64
	EMASmileRatio float64
	EMAFaceCount  float64
	FrameCount    int
	PresentRatio  float64
}

// Tracker applies exponential smoothing and the nudge policy. The tracker
// itself is stateless; all per-session state lives in model.AttentionState,
// so one tracker instance serves every session.
type Tracker struct {
	alpha          float64
	nudgeThreshold float64
	nudgeCooldown  time.Duration
	statusInterval time.Duration
}

// Option applies a configuration option to the Tracker.
type Option func(*Tracker)

// WithAlpha sets the smoothing constant. Values outside (0,1] are ignored.
func WithAlpha(alpha float64) Option {
	return func(t *Tracker) {
		if alpha > 0 && alpha <= 1 {
			t.alpha = alpha
		}
	}
}

// WithNudgePolicy sets the low-attention threshold and cooldown window.
func WithNudgePolicy(threshold float64, cooldown time.Duration) Option {
	return func(t *Tracker) {
		if threshold >= 0 && threshold <= 1 {
			t.nudgeThreshold = threshold
		}
		if cooldown >= 0 {
			t.nudgeCooldown = cooldown
		}
	}
}

// WithStatusInterval sets the minimum spacing between status emissions.
func WithStatusInterval(interval time.Duration) Option {
	return func(t *Tracker) {
		if interval >= 0 {
			t.statusInterval = interval
		}
	}
}

// New creates a Tracker with the default policy.
func New(opts ...Option) *Tracker {
	t := &Tracker{
		alpha:          0.2,
		nudgeThreshold: 0.4,
		nudgeCooldown:  15 * time.Second,
		statusInterval: time.Second,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Ingest folds one sample into the session's attention state.
// Malformed values are clamped, never rejected: the live feedback loop has
// to stay resilient to noisy client-side estimators. Returns whether a
// nudge fired and whether any value needed clamping.
func (t *Tracker) Ingest(state *model.AttentionState, sample model.FaceSample, now time.Time) (nudged, clamped bool) {
	att, c1 := clamp01(sample.Attention)
	faces, c2 := clampFaces(sample.Faces)
	clamped = c1 || c2

	smile := 0.0
	if sample.Smiling {
		smile = 1.0
	}

	if state.FrameCount == 0 {
		// First sample seeds the EMAs directly; a zero start would make
		// early readings meaningless.
		state.EMAAttention = att
		state.EMASmileRatio = smile
		state.EMAFaceCount = float64(faces)
	} else {
		state.EMAAttention = t.alpha*att + (1-t.alpha)*state.EMAAttention
		state.EMASmileRatio = t.alpha*smile + (1-t.alpha)*state.EMASmileRatio
		state.EMAFaceCount = t.alpha*float64(faces) + (1-t.alpha)*state.EMAFaceCount
	}

	state.FrameCount++
	if faces >= 1 {
		state.PresentFrameCount++
	}

	if state.EMAAttention < t.nudgeThreshold &&
		(state.LastNudge.IsZero() || now.Sub(state.LastNudge) >= t.nudgeCooldown) {
		state.NudgeCount++
		state.LastNudge = now
		nudged = true
	}

	return nudged, clamped
}

// Snapshot returns the current smoothed state.
func (t *Tracker) Snapshot(state *model.AttentionState) Status {
	return Status{
		EMAAttention:  state.EMAAttention,
		EMASmileRatio: state.EMASmileRatio,
		EMAFaceCount:  state.EMAFaceCount,
		FrameCount:    state.FrameCount,
		PresentRatio:  state.PresentRatio(),
	}
}

// ShouldEmitStatus reports whether enough time passed since the last
// status event and records the emission when it did.
func (t *Tracker) ShouldEmitStatus(state *model.AttentionState, now time.Time) bool {
	if !state.LastStatusEmit.IsZero() && now.Sub(state.LastStatusEmit) < t.statusInterval {
		return false
	}
	state.LastStatusEmit = now
	return true
}

func clamp01(v float64) (float64, bool) {
	switch {
	case math.IsNaN(v):
		return 0, true
	case v < 0:
		return 0, true
	case v > 1:
		return 1, true
	}
	return v, false
}

func clampFaces(n int) (int, bool) {
	if n < 0 {
		return 0, true
	}
	return n, false
}
