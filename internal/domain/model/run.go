package model

import "time"

// RunReport describes one completed pipeline run. The service keeps the
// latest report per run kind and exposes them for operators.
type RunReport struct {
	RunID   string    `json:"run_id"`
	Kind    string    `json:"kind"`
	Events  int       `json:"events"`
	Players int       `json:"players"`
	NoData  bool      `json:"no_data"`
	At      time.Time `json:"at"`
}
