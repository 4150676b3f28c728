package model

import (
	"encoding/json"
	"time"
)

// EventType names a message on the wire
type EventType string

const (
	// Client to server
	EventCreateRoom     EventType = "create_room"
	EventJoinRoom       EventType = "join_room"
	EventStartGame      EventType = "start_game"
	EventMarkCell       EventType = "mark_cell"
	EventCallBingo      EventType = "call_bingo"
	EventGetNextNumber  EventType = "get_next_number"
	EventChallengeBingo EventType = "challenge_bingo"

	// Server to client
	EventRoomCreated     EventType = "room_created"
	EventRoomJoined      EventType = "room_joined"
	EventPlayerJoined    EventType = "player_joined" // Any membership change
	EventGameStarted     EventType = "game_started"
	EventGameStateUpdate EventType = "game_state_update"
	EventBingoValidation EventType = "bingo_validation"
	EventNumberGenerated EventType = "number_generated"
	EventBingoChallenged EventType = "bingo_challenged"
	EventError           EventType = "error"
)

// Envelope is the JSON frame carried over the wire in both directions
type Envelope struct {
	Event EventType       `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Event is an outbound message and its payload
type Event struct {
	Type    EventType
	Payload any
}

// RoomCreatedPayload is sent to the creator of a room
type RoomCreatedPayload struct {
	RoomID RoomID `json:"roomId"`
	Room   *Room  `json:"room"`
}

// RoomJoinedPayload acknowledges a join attempt. Room is null on failure.
type RoomJoinedPayload struct {
	Room    *Room  `json:"room"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// RoomPayload carries a room snapshot (player_joined, game_started)
type RoomPayload struct {
	Room *Room `json:"room"`
}

// MarkedCell identifies a toggled cell
type MarkedCell struct {
	PlayerID  SessionID `json:"playerId"`
	CellIndex int       `json:"cellIndex"`
}

// GameStateUpdatePayload is broadcast when a player toggles a cell
type GameStateUpdatePayload struct {
	Room       *Room       `json:"room"`
	MarkedCell *MarkedCell `json:"markedCell,omitempty"`
}

// BingoValidationPayload is broadcast after a bingo call
type BingoValidationPayload struct {
	PlayerID     SessionID `json:"playerId"`
	PlayerName   string    `json:"playerName"`
	MarkedCells  []int     `json:"markedCells"`
	IsValid      bool      `json:"isValid"`
	WinningLines [][]int   `json:"winningLines"`
}

// NumberGeneratedPayload is broadcast for each built-in draw
type NumberGeneratedPayload struct {
	Number    string    `json:"number"`
	Timestamp time.Time `json:"timestamp"`
}

// BingoChallengedPayload is broadcast when the host challenges a call
type BingoChallengedPayload struct {
	PlayerID   SessionID `json:"playerId"`
	PlayerName string    `json:"playerName"`
	Reason     string    `json:"reason"`
	Timestamp  time.Time `json:"timestamp"`
}

// ErrorPayload is sent to the session whose intent failed
type ErrorPayload struct {
	Message string `json:"message"`
}
