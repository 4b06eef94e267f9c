// Package config defines engine configuration structures and loading hooks.
//
// Conventions:
// - Defaults come from New; Load layers an optional YAML file and env vars.
// - External errors are wrapped via this package's sentinel kinds.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr"`

	// QuestionTimeoutS is the server-owned per-question timeout in seconds.
	QuestionTimeoutS int `koanf:"question_timeout_s"`

	// EMAAlpha is the smoothing constant for attention signals.
	EMAAlpha float64 `koanf:"ema_alpha"`

	// NudgeThreshold is the smoothed-attention level below which a nudge
	// may fire.
	NudgeThreshold float64 `koanf:"nudge_threshold"`

	// NudgeCooldownS is the minimum spacing between nudges in seconds.
	NudgeCooldownS int `koanf:"nudge_cooldown_s"`

	// StatusIntervalS throttles attention_status events per session.
	StatusIntervalS int `koanf:"status_interval_s"`

	// SessionTTLMin evicts idle sessions after this many minutes.
	SessionTTLMin int `koanf:"session_ttl_min"`

	// EvictionIntervalS is how often the registry sweeps for expired sessions.
	EvictionIntervalS int `koanf:"eviction_interval_s"`

	// MaxSessions caps concurrent sessions held by the registry.
	MaxSessions int `koanf:"max_sessions"`

	// EventBufferSize bounds each session's outbound event stream.
	EventBufferSize int `koanf:"event_buffer_size"`

	// ContentWeight and AttentionWeight blend answer quality and visual
	// engagement into the final score.
	ContentWeight   float64 `koanf:"content_weight"`
	AttentionWeight float64 `koanf:"attention_weight"`

	// AttentionEMAShare is the share of smoothed attention (vs present
	// ratio) inside the attention component.
	AttentionEMAShare float64 `koanf:"attention_ema_share"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":8000",
		QuestionTimeoutS:  60,
		EMAAlpha:          0.2,
		NudgeThreshold:    0.4,
		NudgeCooldownS:    15,
		StatusIntervalS:   1,
		SessionTTLMin:     30,
		EvictionIntervalS: 60,
		MaxSessions:       10_000,
		EventBufferSize:   64,
		ContentWeight:     0.7,
		AttentionWeight:   0.3,
		AttentionEMAShare: 0.6,
	}
}
