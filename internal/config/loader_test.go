package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/playdeck/matchstats/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigDefaults(t *testing.T) {
	convey.Convey("Given a new config with defaults", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.Variants, convey.ShouldResemble, []string{"7", "12"})
			convey.So(cfg.MaxPlausibleScore, convey.ShouldEqual, 30)
			convey.So(cfg.MaxEvents, convey.ShouldEqual, 10_000)
			convey.So(cfg.LookbackDays, convey.ShouldEqual, 30)
			convey.So(cfg.MinGroupSample, convey.ShouldEqual, 5)
			convey.So(cfg.TopN, convey.ShouldEqual, 10)
		})
	})
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.MaxPlausibleScore, convey.ShouldEqual, 30)
				convey.So(cfg.MaxEvents, convey.ShouldEqual, 10_000)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("MATCHSTATS_ADDR", ":8080")
			_ = os.Setenv("MATCHSTATS_MAX_EVENTS", "5000")
			_ = os.Setenv("MATCHSTATS_MAX_PLAUSIBLE_SCORE", "50")
			_ = os.Setenv("MATCHSTATS_REDIS_ADDR", "localhost:6379")
			_ = os.Setenv("MATCHSTATS_CRON_SECRET", "s3cret")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.MaxEvents, convey.ShouldEqual, 5000)
				convey.So(cfg.MaxPlausibleScore, convey.ShouldEqual, 50)
				convey.So(cfg.RedisAddr, convey.ShouldEqual, "localhost:6379")
				convey.So(cfg.CronSecret, convey.ShouldEqual, "s3cret")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
chat_channel: "C123"
max_events: 2000
lookback_days: 60
variants:
  - "7"
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("MATCHSTATS_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.ChatChannel, convey.ShouldEqual, "C123")
				convey.So(cfg.MaxEvents, convey.ShouldEqual, 2000)
				convey.So(cfg.LookbackDays, convey.ShouldEqual, 60)
				convey.So(cfg.Variants, convey.ShouldResemble, []string{"7"})
			})

			convey.Convey("Then the report channel falls back to the chat channel", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.ReportChannel, convey.ShouldEqual, "C123")
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
max_events: 2000
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("MATCHSTATS_CONFIG", tmpFile)
			_ = os.Setenv("MATCHSTATS_ADDR", ":8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")    // Overridden by env
				convey.So(cfg.MaxEvents, convey.ShouldEqual, 2000)  // From file
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("MATCHSTATS_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("MATCHSTATS_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with a zero score ceiling", func() {
			_ = os.Setenv("MATCHSTATS_MAX_PLAUSIBLE_SCORE", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("MATCHSTATS_MAX_EVENTS", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"MATCHSTATS_CONFIG",
		"MATCHSTATS_ADDR",
		"MATCHSTATS_MAX_EVENTS",
		"MATCHSTATS_MAX_PLAUSIBLE_SCORE",
		"MATCHSTATS_REDIS_ADDR",
		"MATCHSTATS_CRON_SECRET",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "matchstats-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
