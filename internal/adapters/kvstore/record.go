package kvstore

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/playdeck/matchstats/internal/domain/model"
)

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Record is one finished game room as stored in the events list. Scores,
// avatars and locations are keyed by player ID; a room with no scores
// produced no games.
type Record struct {
	RoomID    string                    `json:"roomId"`
	StartedAt int64                     `json:"startedAt"`
	EndedAt   int64                     `json:"endedAt"`
	Scores    map[string]int            `json:"scores"`
	Avatars   map[string]string         `json:"avatars"`
	Locations map[string]model.Location `json:"locations"`
}

// Timestamp prefers the room's end time, falling back to its start.
// Both are milliseconds since epoch; zero yields a zero time.
func (r *Record) Timestamp() time.Time {
	ms := r.EndedAt
	if ms == 0 {
		ms = r.StartedAt
	}
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

// Expand flattens a record into one event per scored player. Players are
// emitted in a stable order so downstream first-seen tie-breaks do not
// depend on map iteration.
func (r *Record) Expand() []model.GameEvent {
	if len(r.Scores) == 0 {
		return nil
	}

	ts := r.Timestamp()
	out := make([]model.GameEvent, 0, len(r.Scores))
	for _, id := range sortedKeys(r.Scores) {
		// Store data is external input; a negative score is corrupt, not fatal.
		if r.Scores[id] < 0 {
			continue
		}
		ev := model.GameEvent{
			PlayerID:     id,
			Score:        r.Scores[id],
			Timestamp:    ts,
			Platform:     model.Unknown,
			City:         model.Unknown,
			Country:      model.Unknown,
			AvatarCoords: r.Avatars[id],
		}
		if loc, ok := r.Locations[id]; ok {
			if loc.City != "" {
				ev.City = loc.City
			}
			if loc.Country != "" {
				ev.Country = loc.Country
			}
		}
		out = append(out, ev)
	}
	return out
}

// decodeRecord parses one list entry. Malformed entries are reported so
// the caller can count and skip them.
func decodeRecord(raw string) (*Record, error) {
	var r Record
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// encodeRecord is the inverse of decodeRecord, used by seeding tooling.
func encodeRecord(r *Record) (string, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
