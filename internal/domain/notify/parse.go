// Package notify extracts game events from free-text game-over
// notifications posted to the chat channel.
//
// A notification is a single message whose fields are pipe-delimited,
// for example:
//
//	:trophy: HIGH SCORE: 24 | Berlin, Germany | iPhone | AB12CD #7 Code: GM-2024-X7
//	Score: 11 | Oslo, Norway | Android | ZZ88YY #12 Code: GM-2024-K2
//
// Only the score is mandatory. Every other field defaults to Unknown
// (or zero) independently, so partially formatted messages still yield
// usable events. A message with both labels resolves the score to the
// leftmost match.
package notify

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/playdeck/matchstats/internal/domain/model"
)

var (
	scoreRe    = regexp.MustCompile(`(?:HIGH SCORE|Score):\s*(\d+)`)
	locationRe = regexp.MustCompile(`\|\s*([^|]+),\s*([^|]+?)\s*\|`)
	platformRe = regexp.MustCompile(`\|\s*([^|]+?)\s*\|\s*[a-zA-Z0-9]+\s*#`)
	playerRe   = regexp.MustCompile(`\|\s*([a-zA-Z0-9]+)\s*#\d+`)
	gameNumRe  = regexp.MustCompile(`#(\d+)`)
	gameCodeRe = regexp.MustCompile(`Code:\s*([A-Z]+-[0-9A-Z-]+)`)
)

// Parse reads one notification message. The second return value is
// false when the text carries no score label, which marks ordinary
// chatter rather than a malformed event.
func Parse(text string, ts time.Time) (model.GameEvent, bool) {
	m := scoreRe.FindStringSubmatch(text)
	if m == nil {
		return model.GameEvent{}, false
	}
	score, err := strconv.Atoi(m[1])
	if err != nil {
		// \d+ capture; Atoi only fails on overflow.
		return model.GameEvent{}, false
	}

	ev := model.GameEvent{
		PlayerID:  model.Unknown,
		Score:     score,
		HighScore: strings.Contains(text, "HIGH SCORE:"),
		Timestamp: ts,
		Platform:  model.Unknown,
		City:      model.Unknown,
		Country:   model.Unknown,
	}

	if m := locationRe.FindStringSubmatch(text); m != nil {
		ev.City = strings.TrimSpace(m[1])
		ev.Country = strings.TrimSpace(m[2])
	}
	if m := platformRe.FindStringSubmatch(text); m != nil {
		ev.Platform = strings.TrimSpace(m[1])
	}
	if m := playerRe.FindStringSubmatch(text); m != nil {
		ev.PlayerID = m[1]
	}
	if m := gameNumRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			ev.GameNumber = n
		}
	}
	if m := gameCodeRe.FindStringSubmatch(text); m != nil {
		ev.GameCode = m[1]
	}

	return ev, true
}

// IsNotification reports whether the text carries a score label at all.
// Used by sources to filter raw channel history before parsing.
func IsNotification(text string) bool {
	return strings.Contains(text, "HIGH SCORE:") || strings.Contains(text, "Score:")
}
