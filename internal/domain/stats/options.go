package stats

// Default aggregation configuration constants.
const (
	defaultTopN       = 10
	superEngagedGames = 10
)

// Option applies a configuration option to an aggregation run.
type Option func(*aggregator)

// WithTopN sets the number of entries kept per leaderboard.
func WithTopN(n int) Option {
	return func(a *aggregator) {
		if n > 0 {
			a.topN = n
		}
	}
}

// WithBucketTable sets the score distribution table. Use TableForVariant
// to pick the deployed table for a game variant.
func WithBucketTable(t BucketTable) Option {
	return func(a *aggregator) {
		if len(t.labels) > 0 {
			a.table = t
		}
	}
}

// WithLookbackDays constrains the daily series to a continuous window of
// d days ending at the newest event's date. Days without events inside the
// window are reported as zeros so downstream time-series charts stay
// continuous. Zero disables the window.
func WithLookbackDays(d int) Option {
	return func(a *aggregator) {
		if d > 0 {
			a.lookbackDays = d
		}
	}
}
