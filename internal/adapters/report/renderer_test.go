package report_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/playdeck/matchstats/internal/adapters/report"
	"github.com/playdeck/matchstats/internal/domain/model"
	"github.com/playdeck/matchstats/internal/domain/stats"
	. "github.com/smartystreets/goconvey/convey"
)

func sampleSnapshot() *model.StatsSnapshot {
	events := []model.GameEvent{
		{PlayerID: "ace", Score: 22, HighScore: true, Platform: "iPhone", City: "Berlin", Country: "Germany",
			Timestamp: time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)},
		{PlayerID: "ace", Score: 14, Platform: "iPhone", City: "Berlin", Country: "Germany",
			Timestamp: time.Date(2026, 8, 11, 9, 0, 0, 0, time.UTC)},
		{PlayerID: "bee", Score: 9, Platform: "Android", City: "Oslo", Country: "Norway",
			Timestamp: time.Date(2026, 8, 11, 10, 0, 0, 0, time.UTC)},
	}
	snap, err := stats.Aggregate(events)
	if err != nil {
		panic(err)
	}
	return snap
}

func fixedClock() time.Time {
	return time.Date(2026, 8, 30, 6, 0, 0, 0, time.UTC)
}

func TestDocument(t *testing.T) {
	Convey("Given a rendered document", t, func() {
		r := report.NewRenderer(report.WithClock(fixedClock), report.WithMinGroupSample(1))
		doc := r.Document("7", sampleSnapshot(), []report.LeaderRow{
			{PlayerID: "ace", Name: "Ace Player", Score: 22},
		})

		Convey("Then it opens with the variant and generation time", func() {
			So(doc, ShouldContainSubstring, "Game Statistics Report (variant 7)")
			So(doc, ShouldContainSubstring, "Generated 2026-08-30 06:00 UTC")
		})

		Convey("Then every section renders", func() {
			So(doc, ShouldContainSubstring, "OVERALL")
			So(doc, ShouldContainSubstring, "SCORE DISTRIBUTION")
			So(doc, ShouldContainSubstring, "HIGH SCORE LEADERBOARD")
			So(doc, ShouldContainSubstring, "DAILY ACTIVITY")
			So(doc, ShouldContainSubstring, "MOST ACTIVE PLAYERS")
			So(doc, ShouldContainSubstring, "PLATFORMS")
			So(doc, ShouldContainSubstring, "ENGAGEMENT")
			So(doc, ShouldContainSubstring, "COUNTRIES")
			So(doc, ShouldContainSubstring, "CITIES")
		})

		Convey("Then store metadata replaces the raw player ID", func() {
			So(doc, ShouldContainSubstring, "Ace Player")
		})

		Convey("Then the leaderboard carries platform and location context", func() {
			So(doc, ShouldContainSubstring, "iPhone")
			So(doc, ShouldContainSubstring, "Berlin, Germany")
		})

		Convey("Then distribution shares are percentages of all games", func() {
			So(doc, ShouldContainSubstring, "33.3%")
		})
	})
}

func TestDocumentMinGroupSample(t *testing.T) {
	Convey("Given a renderer with the default sample floor", t, func() {
		r := report.NewRenderer(report.WithClock(fixedClock))
		doc := r.Document("7", sampleSnapshot(), nil)

		Convey("Then small geographic groups are hidden from the document", func() {
			So(doc, ShouldNotContainSubstring, "COUNTRIES")
			So(doc, ShouldNotContainSubstring, "CITIES")
		})

		Convey("Then the groups survive in the snapshot itself", func() {
			So(len(sampleSnapshot().Countries), ShouldEqual, 2)
		})
	})
}

func TestSummary(t *testing.T) {
	Convey("Given a snapshot summary", t, func() {
		r := report.NewRenderer(report.WithClock(fixedClock))
		text := r.Summary("7", sampleSnapshot())

		Convey("Then the headline carries the scalar rollups", func() {
			So(text, ShouldContainSubstring, "Games: 3 | Players: 2")
			So(text, ShouldContainSubstring, "Best: 22")
		})

		Convey("Then both boards are projected to their top rows", func() {
			So(text, ShouldContainSubstring, "1. ace - 22")
			So(text, ShouldContainSubstring, "1. ace - 2 games")
			So(text, ShouldContainSubstring, "2. bee - 1 games")
		})
	})
}

func TestCombinedSummary(t *testing.T) {
	Convey("Given snapshots for two variants", t, func() {
		r := report.NewRenderer(report.WithClock(fixedClock))
		snaps := map[string]*model.StatsSnapshot{
			"7":  sampleSnapshot(),
			"12": sampleSnapshot(),
		}

		text := r.CombinedSummary(snaps, []string{"7", "12"})

		Convey("Then the headline sums per-variant figures", func() {
			So(text, ShouldContainSubstring, "6 games, 4 players across 2 variants")
		})

		Convey("Then variants appear in the given order", func() {
			i7 := strings.Index(text, "variant 7")
			i12 := strings.Index(text, "variant 12")
			So(i7, ShouldBeGreaterThanOrEqualTo, 0)
			So(i12, ShouldBeGreaterThan, i7)
		})
	})
}

func TestWriteSnapshot(t *testing.T) {
	Convey("Given a snapshot written to disk", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "out", "snapshot.json")
		snaps := map[string]*model.StatsSnapshot{"7": sampleSnapshot()}

		So(report.WriteSnapshot(path, snaps), ShouldBeNil)

		Convey("Then it round-trips as JSON", func() {
			raw, err := os.ReadFile(path)
			So(err, ShouldBeNil)

			var got map[string]*model.StatsSnapshot
			So(json.Unmarshal(raw, &got), ShouldBeNil)
			So(got["7"].TotalGames, ShouldEqual, 3)
			So(got["7"].UniquePlayers, ShouldEqual, 2)
		})
	})
}
