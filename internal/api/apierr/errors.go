package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/rocketbingo/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeInvalidRoomID       = "INVALID_ROOM_ID"
	CodeInvalidCellIndex    = "INVALID_CELL_INDEX"
	CodeNotHost             = "NOT_HOST"
	CodeRoomNotFound        = "ROOM_NOT_FOUND"
	CodePlayerNotFound      = "PLAYER_NOT_FOUND"
	CodeRoomExists          = "ROOM_EXISTS"
	CodeGameAlreadyStarted  = "GAME_ALREADY_STARTED"
	CodeGameNotInProgress   = "GAME_NOT_IN_PROGRESS"
	CodeInsufficientPlayers = "INSUFFICIENT_PLAYERS"
	CodeNotBuiltin          = "NOT_BUILTIN_GENERATOR"
	CodePoolExhausted       = "POOL_EXHAUSTED"
	CodeInternalError       = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrInvalidRoomID):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRoomID, "Invalid room ID format"}}
	case errors.Is(err, model.ErrInvalidCellIndex):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidCellIndex, "Invalid cell index"}}
	case errors.Is(err, model.ErrRoomNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeRoomNotFound, "Room not found"}}
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found in room"}}
	case errors.Is(err, model.ErrRoomExists):
		return &httpError{http.StatusConflict, APIError{CodeRoomExists, "Room already exists"}}
	case errors.Is(err, model.ErrNotHost):
		return &httpError{http.StatusForbidden, APIError{CodeNotHost, "Only the host can perform this action"}}
	case errors.Is(err, model.ErrGameAlreadyStarted):
		return &httpError{http.StatusConflict, APIError{CodeGameAlreadyStarted, "Game already started"}}
	case errors.Is(err, model.ErrGameNotInProgress):
		return &httpError{http.StatusConflict, APIError{CodeGameNotInProgress, "Game not in progress"}}
	case errors.Is(err, model.ErrInsufficientPlayers):
		return &httpError{http.StatusConflict, APIError{CodeInsufficientPlayers, "Need at least 1 player to start"}}
	case errors.Is(err, model.ErrNotBuiltinGenerator):
		return &httpError{http.StatusConflict, APIError{CodeNotBuiltin, "This room is not using built-in number generator"}}
	case errors.Is(err, model.ErrPoolExhausted):
		return &httpError{http.StatusConflict, APIError{CodePoolExhausted, "All values have been generated"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
