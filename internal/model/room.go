package model

import (
	"regexp"
	"time"
)

// RoomID is the 6-character code players use to join a room
type RoomID string

const (
	// RoomIDLength is the length of generated room codes
	RoomIDLength = 6
	// RoomIDAlphabet is the characters used in room codes
	RoomIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var roomIDPattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)

// ValidateRoomID reports whether id is exactly six uppercase letters or digits
func ValidateRoomID(id string) bool {
	return roomIDPattern.MatchString(id)
}

// GameState represents the current phase of a room
type GameState string

const (
	GameStateWaiting GameState = "waiting" // Lobby, accepting joins
	GameStateStarted GameState = "started" // Game in progress
	// GameStateFinished is reserved; no transition enters it yet.
	GameStateFinished GameState = "finished"
)

// GameMode selects the content pool boards and draws are built from
type GameMode string

const (
	GameModeClassic  GameMode = "CLASSIC"  // Numbers 1-75
	GameModeBusiness GameMode = "BUSINESS" // Business buzzwords
)

// Valid reports whether m is a known game mode
func (m GameMode) Valid() bool {
	return m == GameModeClassic || m == GameModeBusiness
}

// NumberGenerator selects who calls the numbers
type NumberGenerator string

const (
	NumberGeneratorExternal NumberGenerator = "EXTERNAL" // Called out of band
	NumberGeneratorBuiltin  NumberGenerator = "BUILTIN"  // Drawn by the server
)

// Valid reports whether g is a known number generator
func (g NumberGenerator) Valid() bool {
	return g == NumberGeneratorExternal || g == NumberGeneratorBuiltin
}

// Room is a bingo session shared by a group of players
type Room struct {
	ID              RoomID          `json:"id"`
	HostID          SessionID       `json:"hostId"`
	Players         []Player        `json:"players"` // Join order
	GameState       GameState       `json:"gameState"`
	GameMode        GameMode        `json:"gameMode"`
	NumberGenerator NumberGenerator `json:"numberGenerator"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// GetPlayer returns the player with the given session, or nil if not found
func (r *Room) GetPlayer(id SessionID) *Player {
	for i := range r.Players {
		if r.Players[i].ID == id {
			return &r.Players[i]
		}
	}
	return nil
}

// IsHost reports whether the session currently hosts the room
func (r *Room) IsHost(id SessionID) bool {
	return r.HostID == id
}

// RemovePlayer drops the session from the player list. The host is handed to
// the first remaining player when the departing session held it. Returns
// false if the session was not in the room.
func (r *Room) RemovePlayer(id SessionID) bool {
	for i, p := range r.Players {
		if p.ID != id {
			continue
		}
		r.Players = append(r.Players[:i], r.Players[i+1:]...)
		if r.HostID == id && len(r.Players) > 0 {
			r.HostID = r.Players[0].ID
		}
		return true
	}
	return false
}

// IsEmpty reports whether no players remain
func (r *Room) IsEmpty() bool {
	return len(r.Players) == 0
}

// Clone returns a deep copy so callers can hand rooms to other goroutines
func (r *Room) Clone() *Room {
	c := *r
	c.Players = make([]Player, len(r.Players))
	copy(c.Players, r.Players)
	return &c
}
