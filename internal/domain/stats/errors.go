package stats

import "errors"

// Sentinel kinds for aggregation results.
var (
	// ErrNoData signals an empty input set. It is an explicit outcome,
	// not a failure: callers must branch on it instead of treating an
	// empty snapshot as valid statistics.
	ErrNoData = errors.New("no game data")
)
