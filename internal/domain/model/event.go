// Package model contains domain models passed between layers.
package model

import "time"

// Unknown is the sentinel used for classification fields the sources
// could not supply.
const Unknown = "Unknown"

// GameEvent is one normalized record of a single player's score in a
// single play session. Events with no extractable score never become
// GameEvents; they are discarded at the normalization stage.
type GameEvent struct {
	PlayerID  string    // short player code, stable across events
	Score     int       // non-negative
	HighScore bool      // source event was tagged as a new high score
	Timestamp time.Time // zero value when the source had no timestamp

	// Optional classification, each defaulting to Unknown independently.
	Platform string
	City     string
	Country  string

	// Free-text source extras.
	GameNumber int    // per-player game counter from the notification, 0 when absent
	GameCode   string // session code, Unknown when absent

	// Structured source extras.
	AvatarCoords string // sprite-sheet coordinates "col,row", empty when absent
}

// Location pairs a city and country as reported per player by the
// structured event records.
type Location struct {
	City    string `json:"city"`
	Country string `json:"country"`
}
