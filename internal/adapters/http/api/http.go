// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/playdeck/matchstats/internal/domain/model"
)

// Runner is the slice of the application service the cron endpoints
// trigger. Using an interface bundle keeps the handler layer loosely
// coupled to implementations in other packages.
type Runner interface {
	// RunDaily fetches, aggregates and posts the daily summary.
	RunDaily(ctx context.Context) error

	// RunFull additionally renders and uploads the full documents.
	RunFull(ctx context.Context) error

	// Snapshots returns the latest per-variant aggregation results.
	// Nil when no run has completed yet.
	Snapshots() map[string]*model.StatsSnapshot

	// GetStats returns the latest completed run per run kind.
	GetStats() map[string]model.RunReport
}

// Server wires HTTP routes for the reporting API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	cronHandler   *CronHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(runner Runner, cronSecret string) *Server {
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(runner),
		cronHandler:   NewCronHandler(runner, cronSecret),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/cron/daily-report", MetricsMiddleware(s.cronHandler.HandleDaily, "cron_daily"))
	mux.HandleFunc("/cron/full-report", MetricsMiddleware(s.cronHandler.HandleFull, "cron_full"))
}

type statusResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
