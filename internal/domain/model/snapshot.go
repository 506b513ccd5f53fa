package model

import "time"

// PlayerAggregate collects everything observed about one player during a
// single aggregation run. Aggregates are rebuilt from scratch on every run;
// they are never persisted or updated incrementally.
type PlayerAggregate struct {
	PlayerID    string
	Scores      []int // arrival order
	HighScore   int
	GamesPlayed int

	// FirstSeen is the index of the player's first event in the input
	// sequence. It is the tie-break key for all rankings.
	FirstSeen int

	Cities    map[string]struct{}
	Platforms map[string]struct{}

	// BestContext describes where and when the player's high score happened.
	BestContext HighScoreContext

	// Latest avatar/location metadata, most recent event wins.
	AvatarCoords string
	LastSeen     time.Time
}

// HighScoreContext carries the circumstances of a player's best game.
type HighScoreContext struct {
	Location  string    `json:"location"`
	Platform  string    `json:"platform"`
	Timestamp time.Time `json:"timestamp"`
}

// BucketCount is one labeled score range with its event count.
type BucketCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// PlayerRank is one leaderboard row. Value is games played or high score
// depending on the board.
type PlayerRank struct {
	Rank     int     `json:"rank"`
	PlayerID string  `json:"player_id"`
	Value    int     `json:"value"`
	AvgScore float64 `json:"avg_score,omitempty"`
	Avatar   string  `json:"avatar,omitempty"`
}

// Engagement partitions players by how much they keep coming back.
// OneTime and Returning are mutually exclusive and cover every player;
// SuperEngaged is a subset of Returning.
type Engagement struct {
	OneTime      int `json:"one_time_players"`
	Returning    int `json:"returning_players"`
	SuperEngaged int `json:"super_engaged"`
}

// DayStat is one calendar day (UTC) of activity.
type DayStat struct {
	Date          string `json:"date"` // 2006-01-02
	Games         int    `json:"games"`
	UniquePlayers int    `json:"unique_players"`
}

// GroupStat is a per-group rollup for geographic and platform breakdowns.
type GroupStat struct {
	Name     string  `json:"name"`
	Games    int     `json:"games"`
	AvgScore float64 `json:"avg_score"`
	MaxScore int     `json:"max_score"`
}

// NameCount is a generic (name, count) pair for supplemental listings
// such as multi-city and multi-platform players.
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// StatsSnapshot is the complete, immutable result of one aggregation run.
// Rendering may filter or truncate for display; the snapshot itself always
// carries the full breakdowns.
type StatsSnapshot struct {
	TotalGames     int `json:"total_games"`
	UniquePlayers  int `json:"unique_players"`
	HighScoreGames int `json:"high_score_games"`

	AvgScore    float64 `json:"avg_score"`
	MedianScore float64 `json:"median_score"`
	MaxScore    int     `json:"max_score"`
	MinScore    int     `json:"min_score"`

	ScoreDistribution []BucketCount `json:"score_distribution"`

	TopByGames []PlayerRank `json:"top_players_by_games"`
	TopByScore []PlayerRank `json:"top_players_by_score"`

	// HighScoreInfo maps a ranked player to the context of their best game.
	HighScoreInfo map[string]HighScoreContext `json:"player_high_score_info"`

	Engagement Engagement `json:"engagement"`

	Daily []DayStat `json:"daily_stats"`

	Countries []GroupStat `json:"country_stats"`
	Cities    []GroupStat `json:"city_stats"`
	Platforms []GroupStat `json:"platform_stats"`

	PlayerTravel    []NameCount `json:"multi_city_players"`
	PlayerPlatforms []NameCount `json:"multi_platform_players"`
}
