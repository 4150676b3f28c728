package model

import (
	"errors"
	"fmt"
)

// Common errors used across the application
var (
	// Validation errors
	ErrNameRequired      = errors.New("player name is required")
	ErrJoinFieldsMissing = errors.New("room id and player name are required")
	ErrInvalidRoomID     = errors.New("invalid room id format")
	ErrInvalidCellIndex  = errors.New("invalid cell index")
	ErrInvalidGameMode   = errors.New("invalid game mode")
	ErrInvalidGenerator  = errors.New("invalid number generator")
	ErrMalformedIntent   = errors.New("malformed intent")
	ErrUnknownIntent     = errors.New("unknown intent")

	// Not-found errors
	ErrRoomNotFound   = errors.New("room not found")
	ErrPlayerNotFound = errors.New("player not found in room")
	ErrBoardNotFound  = errors.New("board not found")

	// Conflict errors
	ErrRoomExists = errors.New("room already exists")

	// Authorization errors
	ErrNotHost = errors.New("player is not the host")

	// State errors
	ErrGameAlreadyStarted  = errors.New("game already started")
	ErrGameNotInProgress   = errors.New("game not in progress")
	ErrInsufficientPlayers = errors.New("insufficient players to start game")
	ErrNotBuiltinGenerator = errors.New("room is not using the built-in number generator")

	// Resource errors
	ErrInsufficientPool = errors.New("not enough items to generate a bingo board")
	ErrPoolExhausted    = errors.New("number pool exhausted")
	ErrNumbersExhausted = fmt.Errorf("%w: all numbers drawn", ErrPoolExhausted)
	ErrTermsExhausted   = fmt.Errorf("%w: all business terms drawn", ErrPoolExhausted)
)
