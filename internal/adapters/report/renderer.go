// Package report renders statistics snapshots into the documents and
// chat summaries the pipeline publishes.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/playdeck/matchstats/internal/domain/model"
)

const (
	defaultMinGroupSample = 5
	leaderboardRows       = 15
)

// LeaderRow is one enriched ranking entry, joined from the store's high
// score set and player metadata by the caller.
type LeaderRow struct {
	PlayerID string
	Name     string
	Score    int
	Avatar   string
}

// Renderer turns snapshots into plain-text report documents. Zero value
// is not usable; construct with NewRenderer.
type Renderer struct {
	minGroupSample int
	now            func() time.Time
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithMinGroupSample hides geographic groups with fewer games from the
// rendered breakdowns. The snapshot itself keeps every group.
func WithMinGroupSample(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.minGroupSample = n
		}
	}
}

// WithClock overrides the report timestamp source.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		r.now = now
	}
}

// NewRenderer builds a Renderer with defaults.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		minGroupSample: defaultMinGroupSample,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Document renders the full report for one variant. Leaders may be nil
// when the store ranking is unavailable; the section is skipped.
func (r *Renderer) Document(variant string, snap *model.StatsSnapshot, leaders []LeaderRow) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Game Statistics Report (variant %s)\n", variant)
	fmt.Fprintf(&b, "Generated %s\n\n", r.now().UTC().Format("2006-01-02 15:04 UTC"))

	r.overall(&b, snap)
	r.distribution(&b, snap)
	r.leaderboard(&b, snap, leaders)
	r.daily(&b, snap)
	r.topByGames(&b, snap)
	r.platforms(&b, snap)
	r.engagement(&b, snap)
	r.geography(&b, snap)
	r.travelers(&b, snap)

	return b.String()
}

func (r *Renderer) newTable(b *strings.Builder, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(b)
	t.SetTitle(title)
	t.SetStyle(table.StyleRounded)

	t.Style().Title.Align = text.AlignCenter
	t.Style().Format.Header = text.FormatDefault

	return t
}

func (r *Renderer) overall(b *strings.Builder, snap *model.StatsSnapshot) {
	t := r.newTable(b, "OVERALL")
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRow(table.Row{"Total games", snap.TotalGames})
	t.AppendRow(table.Row{"Unique players", snap.UniquePlayers})
	t.AppendRow(table.Row{"High score games", snap.HighScoreGames})
	t.AppendRow(table.Row{"Average score", fmt.Sprintf("%.2f", snap.AvgScore)})
	t.AppendRow(table.Row{"Median score", fmt.Sprintf("%.1f", snap.MedianScore)})
	t.AppendRow(table.Row{"Max score", snap.MaxScore})
	t.AppendRow(table.Row{"Min score", snap.MinScore})
	t.Render()
	b.WriteString("\n")
}

func (r *Renderer) distribution(b *strings.Builder, snap *model.StatsSnapshot) {
	t := r.newTable(b, "SCORE DISTRIBUTION")
	t.AppendHeader(table.Row{"Bucket", "Games", "Share"})
	for _, bucket := range snap.ScoreDistribution {
		share := 0.0
		if snap.TotalGames > 0 {
			share = float64(bucket.Count) / float64(snap.TotalGames) * 100
		}
		t.AppendRow(table.Row{bucket.Label, bucket.Count, fmt.Sprintf("%.1f%%", share)})
	}
	t.Render()
	b.WriteString("\n")
}

// leaderboard joins the snapshot's score board with store metadata. Rows
// beyond the store ranking fall back to snapshot data alone.
func (r *Renderer) leaderboard(b *strings.Builder, snap *model.StatsSnapshot, leaders []LeaderRow) {
	t := r.newTable(b, "HIGH SCORE LEADERBOARD")
	t.AppendHeader(table.Row{"#", "Player", "Score", "Platform", "Location"})

	meta := make(map[string]LeaderRow, len(leaders))
	for _, l := range leaders {
		meta[l.PlayerID] = l
	}

	rows := snap.TopByScore
	if len(rows) > leaderboardRows {
		rows = rows[:leaderboardRows]
	}
	for _, rank := range rows {
		name := rank.PlayerID
		if m, ok := meta[rank.PlayerID]; ok && m.Name != "" {
			name = m.Name
		}
		info := snap.HighScoreInfo[rank.PlayerID]
		t.AppendRow(table.Row{rank.Rank, name, rank.Value, info.Platform, info.Location})
	}
	t.Render()
	b.WriteString("\n")
}

func (r *Renderer) daily(b *strings.Builder, snap *model.StatsSnapshot) {
	if len(snap.Daily) == 0 {
		return
	}
	t := r.newTable(b, "DAILY ACTIVITY")
	t.AppendHeader(table.Row{"Date", "Games", "Players"})
	for _, d := range snap.Daily {
		t.AppendRow(table.Row{d.Date, d.Games, d.UniquePlayers})
	}
	t.Render()
	b.WriteString("\n")
}

func (r *Renderer) topByGames(b *strings.Builder, snap *model.StatsSnapshot) {
	t := r.newTable(b, "MOST ACTIVE PLAYERS")
	t.AppendHeader(table.Row{"#", "Player", "Games", "Avg Score"})
	for _, rank := range snap.TopByGames {
		t.AppendRow(table.Row{rank.Rank, rank.PlayerID, rank.Value, fmt.Sprintf("%.2f", rank.AvgScore)})
	}
	t.Render()
	b.WriteString("\n")
}

func (r *Renderer) platforms(b *strings.Builder, snap *model.StatsSnapshot) {
	if len(snap.Platforms) == 0 {
		return
	}
	t := r.newTable(b, "PLATFORMS")
	t.AppendHeader(table.Row{"Platform", "Games", "Avg Score", "Max Score"})
	for _, g := range snap.Platforms {
		t.AppendRow(table.Row{g.Name, g.Games, fmt.Sprintf("%.2f", g.AvgScore), g.MaxScore})
	}
	t.Render()
	b.WriteString("\n")
}

func (r *Renderer) engagement(b *strings.Builder, snap *model.StatsSnapshot) {
	t := r.newTable(b, "ENGAGEMENT")
	t.AppendHeader(table.Row{"Tier", "Players"})
	t.AppendRow(table.Row{"One-time", snap.Engagement.OneTime})
	t.AppendRow(table.Row{"Returning", snap.Engagement.Returning})
	t.AppendRow(table.Row{"Super engaged (10+ games)", snap.Engagement.SuperEngaged})
	t.Render()
	b.WriteString("\n")
}

// geography renders countries then cities, hiding groups below the
// minimum sample so one-off games do not read as trends.
func (r *Renderer) geography(b *strings.Builder, snap *model.StatsSnapshot) {
	r.groupTable(b, "COUNTRIES", snap.Countries)
	r.groupTable(b, "CITIES", snap.Cities)
}

func (r *Renderer) groupTable(b *strings.Builder, title string, groups []model.GroupStat) {
	rows := make([]model.GroupStat, 0, len(groups))
	for _, g := range groups {
		if g.Games >= r.minGroupSample {
			rows = append(rows, g)
		}
	}
	if len(rows) == 0 {
		return
	}

	t := r.newTable(b, title)
	t.AppendHeader(table.Row{"Name", "Games", "Avg Score", "Max Score"})
	for _, g := range rows {
		t.AppendRow(table.Row{g.Name, g.Games, fmt.Sprintf("%.2f", g.AvgScore), g.MaxScore})
	}
	t.Render()
	b.WriteString("\n")
}

func (r *Renderer) travelers(b *strings.Builder, snap *model.StatsSnapshot) {
	if len(snap.PlayerTravel) == 0 && len(snap.PlayerPlatforms) == 0 {
		return
	}
	t := r.newTable(b, "CROSS-LOCATION AND CROSS-PLATFORM PLAYERS")
	t.AppendHeader(table.Row{"Player", "Kind", "Count"})
	for _, p := range snap.PlayerTravel {
		t.AppendRow(table.Row{p.Name, "cities", p.Count})
	}
	for _, p := range snap.PlayerPlatforms {
		t.AppendRow(table.Row{p.Name, "platforms", p.Count})
	}
	t.Render()
	b.WriteString("\n")
}
