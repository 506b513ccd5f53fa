package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/playdeck/matchstats/internal/domain/stats"
)

// CronHandler triggers report runs from external schedulers. Both
// endpoints are POST-only and guarded by the cron secret.
type CronHandler struct {
	runner Runner
	secret string
}

// NewCronHandler creates a new cron handler.
func NewCronHandler(runner Runner, secret string) *CronHandler {
	return &CronHandler{runner: runner, secret: secret}
}

// HandleDaily handles POST /cron/daily-report requests.
func (h *CronHandler) HandleDaily(w http.ResponseWriter, r *http.Request) {
	requireSecret(h.secret, func(w http.ResponseWriter, r *http.Request) {
		h.run(w, r, h.runner.RunDaily)
	})(w, r)
}

// HandleFull handles POST /cron/full-report requests.
func (h *CronHandler) HandleFull(w http.ResponseWriter, r *http.Request) {
	requireSecret(h.secret, func(w http.ResponseWriter, r *http.Request) {
		h.run(w, r, h.runner.RunFull)
	})(w, r)
}

// run executes one report run. An empty data window is a normal
// outcome for a quiet day, not a failure.
func (h *CronHandler) run(w http.ResponseWriter, r *http.Request, fn func(context.Context) error) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	if err := fn(r.Context()); err != nil {
		if errors.Is(err, stats.ErrNoData) {
			writeJSON(w, http.StatusOK, statusResponse{Status: "no_data"})
			return
		}
		writeError(w, http.StatusBadGateway, "run_failed", fmt.Errorf("%w: %w", ErrRunFailed, err))
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}
