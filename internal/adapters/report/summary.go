package report

import (
	"fmt"
	"strings"

	"github.com/playdeck/matchstats/internal/domain/model"
)

const summaryBoardRows = 3

// Summary projects a snapshot into the short highlight message posted
// to the report channel. One line per headline number, three rows per
// board.
func (r *Renderer) Summary(variant string, snap *model.StatsSnapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Game stats, variant %s\n", variant)
	fmt.Fprintf(&b, "Games: %d | Players: %d | Avg score: %.2f | Best: %d\n",
		snap.TotalGames, snap.UniquePlayers, snap.AvgScore, snap.MaxScore)

	if len(snap.TopByScore) > 0 {
		b.WriteString("Top scores:\n")
		for _, rank := range truncateRanks(snap.TopByScore) {
			fmt.Fprintf(&b, "  %d. %s - %d\n", rank.Rank, rank.PlayerID, rank.Value)
		}
	}
	if len(snap.TopByGames) > 0 {
		b.WriteString("Most active:\n")
		for _, rank := range truncateRanks(snap.TopByGames) {
			fmt.Fprintf(&b, "  %d. %s - %d games\n", rank.Rank, rank.PlayerID, rank.Value)
		}
	}

	return b.String()
}

// CombinedSummary joins per-variant summaries into one message. The
// headline counts are sums of per-variant figures; a player active in
// both variants counts once per variant.
func (r *Renderer) CombinedSummary(snaps map[string]*model.StatsSnapshot, order []string) string {
	var (
		b       strings.Builder
		games   int
		players int
	)
	for _, variant := range order {
		if snap := snaps[variant]; snap != nil {
			games += snap.TotalGames
			players += snap.UniquePlayers
		}
	}
	fmt.Fprintf(&b, "Daily game report: %d games, %d players across %d variants\n\n", games, players, len(snaps))

	for _, variant := range order {
		snap := snaps[variant]
		if snap == nil {
			continue
		}
		b.WriteString(r.Summary(variant, snap))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func truncateRanks(ranks []model.PlayerRank) []model.PlayerRank {
	if len(ranks) > summaryBoardRows {
		return ranks[:summaryBoardRows]
	}
	return ranks
}
