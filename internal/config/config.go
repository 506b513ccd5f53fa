// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load layers file and env.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// ChatToken authenticates the chat platform client.
	ChatToken string `koanf:"chat_token"`

	// ChatChannel is the channel whose history carries game notifications.
	ChatChannel string `koanf:"chat_channel"`

	// ReportChannel receives summaries and report uploads. Defaults to
	// ChatChannel when empty.
	ReportChannel string `koanf:"report_channel"`

	// CronSecret guards the report-trigger endpoints. Requests must carry
	// it as a bearer token. Empty disables the endpoints.
	CronSecret string `koanf:"cron_secret"`

	// RedisAddr, RedisPassword and RedisDB locate the event store.
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	// Variants lists the game variants to aggregate, e.g. ["7", "12"].
	Variants []string `koanf:"variants"`

	// MaxPlausibleScore drops chat-parsed scores above this ceiling.
	MaxPlausibleScore int `koanf:"max_plausible_score"`

	// MaxEvents bounds how many store records are read per variant.
	MaxEvents int `koanf:"max_events"`

	// LookbackDays zero-fills the daily series over this many days.
	// Zero keeps only days with activity.
	LookbackDays int `koanf:"lookback_days"`

	// MinGroupSample hides geo groups with fewer games from the rendered
	// report. The snapshot always keeps every group.
	MinGroupSample int `koanf:"min_group_sample"`

	// TopN caps leaderboard length in the snapshot.
	TopN int `koanf:"top_n"`

	// SnapshotPath, when set, persists the latest snapshot as JSON.
	SnapshotPath string `koanf:"snapshot_path"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":9080",
		Variants:          []string{"7", "12"},
		MaxPlausibleScore: 30,
		MaxEvents:         10_000,
		LookbackDays:      30,
		MinGroupSample:    5,
		TopN:              10,
	}
}
