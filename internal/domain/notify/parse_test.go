package notify_test

import (
	"testing"
	"time"

	"github.com/playdeck/matchstats/internal/domain/model"
	"github.com/playdeck/matchstats/internal/domain/notify"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseFullNotification(t *testing.T) {
	Convey("Given a fully formatted high score message", t, func() {
		ts := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
		text := ":trophy: HIGH SCORE: 24 | Berlin, Germany | iPhone | AB12CD #7 Code: GM-2024-X7"

		Convey("When parsing", func() {
			ev, ok := notify.Parse(text, ts)

			Convey("Then every field is extracted", func() {
				So(ok, ShouldBeTrue)
				So(ev.Score, ShouldEqual, 24)
				So(ev.HighScore, ShouldBeTrue)
				So(ev.City, ShouldEqual, "Berlin")
				So(ev.Country, ShouldEqual, "Germany")
				So(ev.Platform, ShouldEqual, "iPhone")
				So(ev.PlayerID, ShouldEqual, "AB12CD")
				So(ev.GameNumber, ShouldEqual, 7)
				So(ev.GameCode, ShouldEqual, "GM-2024-X7")
				So(ev.Timestamp, ShouldEqual, ts)
			})
		})
	})
}

func TestParseScoreLabels(t *testing.T) {
	Convey("Given the two score label forms", t, func() {
		Convey("A plain score message is not flagged as a high score", func() {
			ev, ok := notify.Parse("Score: 11 | Oslo, Norway | Android | ZZ88YY #12", time.Time{})
			So(ok, ShouldBeTrue)
			So(ev.Score, ShouldEqual, 11)
			So(ev.HighScore, ShouldBeFalse)
		})

		Convey("A high score message sets the flag", func() {
			ev, ok := notify.Parse("HIGH SCORE: 19", time.Time{})
			So(ok, ShouldBeTrue)
			So(ev.Score, ShouldEqual, 19)
			So(ev.HighScore, ShouldBeTrue)
		})

		Convey("A message carrying both labels resolves to the leftmost", func() {
			ev, ok := notify.Parse("Score: 5 something HIGH SCORE: 9", time.Time{})
			So(ok, ShouldBeTrue)
			So(ev.Score, ShouldEqual, 5)
			So(ev.HighScore, ShouldBeTrue)
		})
	})
}

func TestParsePartialNotification(t *testing.T) {
	Convey("Given a message with only a score", t, func() {
		ev, ok := notify.Parse("Score: 8", time.Time{})

		Convey("Then the remaining fields default independently", func() {
			So(ok, ShouldBeTrue)
			So(ev.Score, ShouldEqual, 8)
			So(ev.PlayerID, ShouldEqual, model.Unknown)
			So(ev.Platform, ShouldEqual, model.Unknown)
			So(ev.City, ShouldEqual, model.Unknown)
			So(ev.Country, ShouldEqual, model.Unknown)
			So(ev.GameNumber, ShouldEqual, 0)
			So(ev.GameCode, ShouldEqual, "")
		})
	})

	Convey("Given a message with location but no player block", t, func() {
		ev, ok := notify.Parse("Score: 3 | Lisbon, Portugal |", time.Time{})

		Convey("Then only the location resolves", func() {
			So(ok, ShouldBeTrue)
			So(ev.City, ShouldEqual, "Lisbon")
			So(ev.Country, ShouldEqual, "Portugal")
			So(ev.PlayerID, ShouldEqual, model.Unknown)
			So(ev.Platform, ShouldEqual, model.Unknown)
		})
	})
}

func TestParseNonNotification(t *testing.T) {
	Convey("Given ordinary chatter without a score label", t, func() {
		for _, text := range []string{
			"good game everyone",
			"the score was amazing",
			"HIGH SCORE soon",
			"",
		} {
			ev, ok := notify.Parse(text, time.Time{})
			So(ok, ShouldBeFalse)
			So(ev, ShouldBeZeroValue)
		}
	})
}

func TestIsNotification(t *testing.T) {
	Convey("Given raw channel messages", t, func() {
		So(notify.IsNotification("Score: 1"), ShouldBeTrue)
		So(notify.IsNotification(":trophy: HIGH SCORE: 22"), ShouldBeTrue)
		So(notify.IsNotification("who wants to play"), ShouldBeFalse)
	})
}
