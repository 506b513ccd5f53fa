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
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if MATCHSTATS_CONFIG is set
//  3. env (prefix MATCHSTATS_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("MATCHSTATS_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: MATCHSTATS_ADDR, MATCHSTATS_REDIS_ADDR, ...
	// Map env keys like MATCHSTATS_MAX_EVENTS -> max_events (flat keys).
	// Underscores are preserved to match koanf tags on the struct.
	envProvider := env.Provider("MATCHSTATS_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "matchstats_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.ReportChannel == "" {
		cfg.ReportChannel = cfg.ChatChannel
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if len(c.Variants) == 0 {
		return fmt.Errorf("%w: at least one variant required", ErrInvalidConfig)
	}
	if c.MaxPlausibleScore <= 0 {
		return fmt.Errorf("%w: max_plausible_score must be positive", ErrInvalidConfig)
	}
	if c.MaxEvents <= 0 {
		return fmt.Errorf("%w: max_events must be positive", ErrInvalidConfig)
	}
	if c.TopN <= 0 {
		return fmt.Errorf("%w: top_n must be positive", ErrInvalidConfig)
	}
	if c.LookbackDays < 0 {
		return fmt.Errorf("%w: lookback_days must not be negative", ErrInvalidConfig)
	}
	return nil
}
