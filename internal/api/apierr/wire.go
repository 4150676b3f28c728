package apierr

import (
	"errors"

	"github.com/mcoot/rocketbingo/internal/model"
)

// Messages shown to players when an intent fails for a reason they caused
var wireMessages = []struct {
	err     error
	message string
}{
	{model.ErrNameRequired, "Player name is required"},
	{model.ErrJoinFieldsMissing, "Room ID and player name are required"},
	{model.ErrInvalidRoomID, "Invalid room ID format"},
	{model.ErrInvalidGameMode, "Invalid game mode"},
	{model.ErrInvalidGenerator, "Invalid number generator"},
	{model.ErrInvalidCellIndex, "Invalid cell index"},
	{model.ErrRoomNotFound, "Room not found"},
	{model.ErrPlayerNotFound, "Player not found in room"},
	{model.ErrGameAlreadyStarted, "Game already started"},
	{model.ErrGameNotInProgress, "Game not in progress"},
	{model.ErrInsufficientPlayers, "Need at least 1 player to start"},
	{model.ErrNotBuiltinGenerator, "This room is not using built-in number generator"},
	{model.ErrNumbersExhausted, "All numbers have been generated"},
	{model.ErrTermsExhausted, "All business terms have been generated"},
	{model.ErrUnknownIntent, "Unknown event"},
}

// Host-only intents each word their refusal differently
var notHostMessages = map[model.EventType]string{
	model.EventStartGame:      "Only the host can start the game",
	model.EventGetNextNumber:  "Only the host can generate numbers",
	model.EventChallengeBingo: "Only the host can challenge bingo calls",
}

// Fallbacks for failures the player did not cause
var failureMessages = map[model.EventType]string{
	model.EventCreateRoom:     "Failed to create room",
	model.EventJoinRoom:       "Failed to join room",
	model.EventStartGame:      "Failed to start game",
	model.EventMarkCell:       "Failed to mark cell",
	model.EventCallBingo:      "Failed to call bingo",
	model.EventGetNextNumber:  "Failed to generate number",
	model.EventChallengeBingo: "Failed to challenge bingo",
}

// WireMessage turns an intent failure into the message sent back to the
// session. Known domain errors get their own wording; anything else is
// reported as a generic failure of the intent.
func WireMessage(intent model.EventType, err error) string {
	if errors.Is(err, model.ErrNotHost) {
		if msg, ok := notHostMessages[intent]; ok {
			return msg
		}
		return "Only the host can perform this action"
	}
	for _, m := range wireMessages {
		if errors.Is(err, m.err) {
			return m.message
		}
	}
	return FailureMessage(intent)
}

// FailureMessage is the generic failure text for an intent
func FailureMessage(intent model.EventType) string {
	if msg, ok := failureMessages[intent]; ok {
		return msg
	}
	return "Failed to process request"
}
