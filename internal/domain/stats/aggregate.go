// Package stats turns a flat sequence of game events into a statistics
// snapshot: scalar rollups, score distribution, leaderboards, engagement
// tiers, daily series and geographic/platform breakdowns.
//
// Aggregation is a pure function of its input. It performs no I/O, holds
// no state between runs, and produces byte-identical output for identical
// input: leaderboard ties are broken by each player's first-seen position
// in the input sequence, which the aggregator tracks explicitly because
// the grouping map has no order of its own.
package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/playdeck/matchstats/internal/domain/model"
)

// aggregator carries the per-run configuration.
type aggregator struct {
	topN         int
	table        BucketTable
	lookbackDays int
}

// Aggregate consumes a finite batch of game events and produces a
// snapshot. An empty batch yields ErrNoData. Events must already be
// normalized: a negative score indicates a caller bug and panics.
func Aggregate(events []model.GameEvent, opts ...Option) (*model.StatsSnapshot, error) {
	if len(events) == 0 {
		return nil, ErrNoData
	}

	a := &aggregator{
		topN:  defaultTopN,
		table: ClassicTable,
	}
	for _, opt := range opts {
		opt(a)
	}

	return a.run(events), nil
}

//nolint:funlen // single grouping pass plus derived views; splitting obscures the flow
func (a *aggregator) run(events []model.GameEvent) *model.StatsSnapshot {
	var (
		totalScore     int
		highScoreGames int
		scores         = make([]int, 0, len(events))
		bucketCounts   = make(map[string]int, len(a.table.labels))

		players     = make(map[string]*model.PlayerAggregate)
		playerOrder = make([]string, 0) // first-seen order

		daily = make(map[string]*dayAccum)

		countries = make(map[string]*groupAccum)
		cities    = make(map[string]*groupAccum)
		platforms = make(map[string]*groupAccum)
	)

	maxScore := events[0].Score
	minScore := events[0].Score

	for i, ev := range events {
		if ev.Score < 0 {
			panic(fmt.Sprintf("stats: negative score %d for player %q; normalization must reject it", ev.Score, ev.PlayerID))
		}

		scores = append(scores, ev.Score)
		totalScore += ev.Score
		if ev.Score > maxScore {
			maxScore = ev.Score
		}
		if ev.Score < minScore {
			minScore = ev.Score
		}
		if ev.HighScore {
			highScoreGames++
		}
		bucketCounts[a.table.Bucket(ev.Score)]++

		p, ok := players[ev.PlayerID]
		if !ok {
			p = &model.PlayerAggregate{
				PlayerID:  ev.PlayerID,
				FirstSeen: i,
				Cities:    make(map[string]struct{}),
				Platforms: make(map[string]struct{}),
				HighScore: -1,
			}
			players[ev.PlayerID] = p
			playerOrder = append(playerOrder, ev.PlayerID)
		}
		p.Scores = append(p.Scores, ev.Score)
		p.GamesPlayed++
		p.Cities[ev.City] = struct{}{}
		p.Platforms[ev.Platform] = struct{}{}
		if ev.Score > p.HighScore {
			p.HighScore = ev.Score
			p.BestContext = model.HighScoreContext{
				Location:  ev.City + ", " + ev.Country,
				Platform:  ev.Platform,
				Timestamp: ev.Timestamp,
			}
		}
		// Latest avatar metadata wins. On an exact timestamp tie the
		// later event in the input sequence wins.
		if ev.AvatarCoords != "" && !ev.Timestamp.Before(p.LastSeen) {
			p.LastSeen = ev.Timestamp
			p.AvatarCoords = ev.AvatarCoords
		}

		if !ev.Timestamp.IsZero() {
			date := ev.Timestamp.UTC().Format("2006-01-02")
			d, ok := daily[date]
			if !ok {
				d = &dayAccum{players: make(map[string]struct{})}
				daily[date] = d
			}
			d.games++
			d.players[ev.PlayerID] = struct{}{}
		}

		accumGroup(countries, ev.Country, ev.Score)
		accumGroup(cities, ev.City, ev.Score)
		accumGroup(platforms, ev.Platform, ev.Score)
	}

	snap := &model.StatsSnapshot{
		TotalGames:        len(events),
		UniquePlayers:     len(players),
		HighScoreGames:    highScoreGames,
		AvgScore:          float64(totalScore) / float64(len(events)),
		MedianScore:       median(scores),
		MaxScore:          maxScore,
		MinScore:          minScore,
		ScoreDistribution: a.distribution(bucketCounts),
		Engagement:        engagement(players),
		Daily:             a.dailySeries(daily),
		Countries:         groupStats(countries),
		Cities:            groupStats(cities),
		Platforms:         groupStats(platforms),
		HighScoreInfo:     make(map[string]model.HighScoreContext, len(players)),
	}

	ordered := make([]*model.PlayerAggregate, len(playerOrder))
	for i, id := range playerOrder {
		ordered[i] = players[id]
	}

	snap.TopByGames = topBy(ordered, a.topN, func(p *model.PlayerAggregate) int { return p.GamesPlayed }, true)
	snap.TopByScore = topBy(ordered, a.topN, func(p *model.PlayerAggregate) int { return p.HighScore }, false)

	for _, p := range ordered {
		snap.HighScoreInfo[p.PlayerID] = p.BestContext
	}

	snap.PlayerTravel = multiUse(ordered, func(p *model.PlayerAggregate) int { return len(p.Cities) })
	snap.PlayerPlatforms = multiUse(ordered, func(p *model.PlayerAggregate) int { return len(p.Platforms) })

	return snap
}

// median returns the exact median: the middle element for odd counts, the
// arithmetic mean of the two middle elements for even counts.
func median(scores []int) float64 {
	sorted := make([]int, len(scores))
	copy(sorted, scores)
	sort.Ints(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return float64(sorted[n/2])
	}
	return (float64(sorted[n/2-1]) + float64(sorted[n/2])) / 2
}

// distribution emits every bucket of the table in order, including zeros,
// so the counts always partition the event set.
func (a *aggregator) distribution(counts map[string]int) []model.BucketCount {
	out := make([]model.BucketCount, 0, len(a.table.labels))
	for _, label := range a.table.labels {
		out = append(out, model.BucketCount{Label: label, Count: counts[label]})
	}
	return out
}

// engagement segments players in a single pass over the aggregates.
// One-time and returning partition all players; super-engaged is the
// subset of returning players with ten or more games.
func engagement(players map[string]*model.PlayerAggregate) model.Engagement {
	var e model.Engagement
	for _, p := range players {
		switch {
		case p.GamesPlayed == 1:
			e.OneTime++
		default:
			e.Returning++
		}
		if p.GamesPlayed >= superEngagedGames {
			e.SuperEngaged++
		}
	}
	return e
}

type dayAccum struct {
	games   int
	players map[string]struct{}
}

// dailySeries sorts the per-day accumulators by date. With a lookback
// window configured, the series becomes a continuous run of days ending
// at the newest observed date, zero-filling gaps.
func (a *aggregator) dailySeries(daily map[string]*dayAccum) []model.DayStat {
	if len(daily) == 0 {
		return nil
	}

	dates := make([]string, 0, len(daily))
	for date := range daily {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	if a.lookbackDays <= 0 {
		out := make([]model.DayStat, 0, len(dates))
		for _, date := range dates {
			d := daily[date]
			out = append(out, model.DayStat{Date: date, Games: d.games, UniquePlayers: len(d.players)})
		}
		return out
	}

	last, err := time.Parse("2006-01-02", dates[len(dates)-1])
	if err != nil {
		// Dates are produced by Format above; a parse failure is a bug.
		panic("stats: malformed daily date " + dates[len(dates)-1])
	}

	out := make([]model.DayStat, 0, a.lookbackDays)
	for i := a.lookbackDays - 1; i >= 0; i-- {
		date := last.AddDate(0, 0, -i).Format("2006-01-02")
		if d, ok := daily[date]; ok {
			out = append(out, model.DayStat{Date: date, Games: d.games, UniquePlayers: len(d.players)})
		} else {
			out = append(out, model.DayStat{Date: date})
		}
	}
	return out
}

type groupAccum struct {
	games int
	sum   int
	max   int
}

func accumGroup(groups map[string]*groupAccum, name string, score int) {
	g, ok := groups[name]
	if !ok {
		g = &groupAccum{}
		groups[name] = g
	}
	g.games++
	g.sum += score
	if score > g.max {
		g.max = score
	}
}

// groupStats orders breakdowns by games descending, then name ascending
// for a deterministic layout. Minimum-sample filtering is a rendering
// concern; the snapshot keeps every group.
func groupStats(groups map[string]*groupAccum) []model.GroupStat {
	out := make([]model.GroupStat, 0, len(groups))
	for name, g := range groups {
		out = append(out, model.GroupStat{
			Name:     name,
			Games:    g.games,
			AvgScore: float64(g.sum) / float64(g.games),
			MaxScore: g.max,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Games != out[j].Games {
			return out[i].Games > out[j].Games
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// topBy ranks players descending by key, ties broken by first-seen order.
// The input is already in first-seen order, so a stable sort preserves
// the tie-break.
func topBy(ordered []*model.PlayerAggregate, n int, key func(*model.PlayerAggregate) int, withAvg bool) []model.PlayerRank {
	ranked := make([]*model.PlayerAggregate, len(ordered))
	copy(ranked, ordered)
	sort.SliceStable(ranked, func(i, j int) bool {
		return key(ranked[i]) > key(ranked[j])
	})

	if n > len(ranked) {
		n = len(ranked)
	}
	out := make([]model.PlayerRank, 0, n)
	for i := 0; i < n; i++ {
		p := ranked[i]
		r := model.PlayerRank{
			Rank:     i + 1,
			PlayerID: p.PlayerID,
			Value:    key(p),
			Avatar:   p.AvatarCoords,
		}
		if withAvg {
			r.AvgScore = avg(p.Scores)
		}
		out = append(out, r)
	}
	return out
}

func avg(scores []int) float64 {
	if len(scores) == 0 {
		return 0
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	return float64(sum) / float64(len(scores))
}

// multiUse lists players whose distinct-value count exceeds one, ordered
// by count descending with first-seen tie-break.
func multiUse(ordered []*model.PlayerAggregate, count func(*model.PlayerAggregate) int) []model.NameCount {
	multi := make([]*model.PlayerAggregate, 0)
	for _, p := range ordered {
		if count(p) > 1 {
			multi = append(multi, p)
		}
	}
	sort.SliceStable(multi, func(i, j int) bool {
		return count(multi[i]) > count(multi[j])
	})
	out := make([]model.NameCount, len(multi))
	for i, p := range multi {
		out[i] = model.NameCount{Name: p.PlayerID, Count: count(p)}
	}
	return out
}
