package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if STUDIO_CONFIG is set
//  3. env (prefix STUDIO_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("STUDIO_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: STUDIO_ADDR, STUDIO_QUESTION_TIMEOUT_S, ...
	// Keys keep their underscores to match the koanf tags on the struct.
	envProvider := env.Provider("STUDIO_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "studio_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.QuestionTimeoutS <= 0:
		return fmt.Errorf("%w: question_timeout_s must be positive", ErrInvalidConfig)
	case c.EMAAlpha <= 0 || c.EMAAlpha > 1:
		return fmt.Errorf("%w: ema_alpha must be in (0,1]", ErrInvalidConfig)
	case c.NudgeThreshold < 0 || c.NudgeThreshold > 1:
		return fmt.Errorf("%w: nudge_threshold must be in [0,1]", ErrInvalidConfig)
	case c.NudgeCooldownS < 0:
		return fmt.Errorf("%w: nudge_cooldown_s must not be negative", ErrInvalidConfig)
	case c.MaxSessions <= 0:
		return fmt.Errorf("%w: max_sessions must be positive", ErrInvalidConfig)
	case c.EventBufferSize <= 0:
		return fmt.Errorf("%w: event_buffer_size must be positive", ErrInvalidConfig)
	case c.ContentWeight < 0 || c.AttentionWeight < 0:
		return fmt.Errorf("%w: score weights must not be negative", ErrInvalidConfig)
	case c.AttentionEMAShare < 0 || c.AttentionEMAShare > 1:
		return fmt.Errorf("%w: attention_ema_share must be in [0,1]", ErrInvalidConfig)
	}
	return nil
}
