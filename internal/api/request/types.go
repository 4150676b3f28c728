package request

import "github.com/mcoot/rocketbingo/internal/model"

// Payloads clients send inside a wire envelope

// CreateRoom is the payload of create_room
type CreateRoom struct {
	PlayerName      string                `json:"playerName"`
	GameMode        model.GameMode        `json:"gameMode,omitempty"`
	NumberGenerator model.NumberGenerator `json:"numberGenerator,omitempty"`
}

// JoinRoom is the payload of join_room
type JoinRoom struct {
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName"`
}

// Room is the payload of start_game and get_next_number
type Room struct {
	RoomID model.RoomID `json:"roomId"`
}

// MarkCell is the payload of mark_cell. A missing index is invalid.
type MarkCell struct {
	RoomID    model.RoomID `json:"roomId"`
	CellIndex *int         `json:"cellIndex"`
}

// CallBingo is the payload of call_bingo
type CallBingo struct {
	RoomID      model.RoomID `json:"roomId"`
	MarkedCells []int        `json:"markedCells,omitempty"`
}

// ChallengeBingo is the payload of challenge_bingo
type ChallengeBingo struct {
	RoomID   model.RoomID    `json:"roomId"`
	PlayerID model.SessionID `json:"playerId"`
}
