package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/playdeck/matchstats/internal/adapters/chat"
	"github.com/playdeck/matchstats/internal/adapters/http/api"
	"github.com/playdeck/matchstats/internal/adapters/kvstore"
	"github.com/playdeck/matchstats/internal/adapters/report"
	"github.com/playdeck/matchstats/internal/app"
	"github.com/playdeck/matchstats/internal/config"
	"github.com/playdeck/matchstats/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 120 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	chatClient := chat.New(cfg.ChatToken, cfg.ChatChannel,
		chat.WithLogger(log),
		chat.WithScoreCeiling(cfg.MaxPlausibleScore),
		chat.WithReportChannel(cfg.ReportChannel),
	)

	kvSource := kvstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB,
		kvstore.WithLogger(log),
		kvstore.WithMaxEvents(cfg.MaxEvents),
	)
	defer func() {
		if err := kvSource.Close(); err != nil {
			log.Warn(ctx, "closing store client", logger.Error(err))
		}
	}()

	renderer := report.NewRenderer(
		report.WithMinGroupSample(cfg.MinGroupSample),
	)

	svc := app.New(
		app.WithLogger(log),
		app.WithChatSource(chatClient),
		app.WithKVSource(kvSource),
		app.WithPublisher(chatClient),
		app.WithRenderer(renderer),
		app.WithVariants(cfg.Variants),
		app.WithTopN(cfg.TopN),
		app.WithLookbackDays(cfg.LookbackDays),
		app.WithSnapshotPath(cfg.SnapshotPath),
	)

	// HTTP mux and routes.
	mux := http.NewServeMux()
	api.NewServer(svc, cfg.CronSecret).Register(mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}
