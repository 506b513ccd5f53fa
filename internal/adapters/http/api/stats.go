package api

import (
	"net/http"

	"github.com/playdeck/matchstats/internal/domain/model"
)

// statsResponse pairs the per-kind run reports with the latest
// per-variant snapshots.
type statsResponse struct {
	Runs      map[string]model.RunReport      `json:"runs"`
	Snapshots map[string]*model.StatsSnapshot `json:"snapshots"`
}

// StatsHandler serves the latest aggregation snapshots.
type StatsHandler struct {
	runner Runner
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(runner Runner) *StatsHandler {
	return &StatsHandler{runner: runner}
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	runs := h.runner.GetStats()
	snaps := h.runner.Snapshots()
	if len(runs) == 0 && len(snaps) == 0 {
		writeJSON(w, http.StatusOK, statusResponse{Status: "no_data"})
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{Runs: runs, Snapshots: snaps})
}
