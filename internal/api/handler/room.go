package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/rocketbingo/internal/api/response"
	"github.com/mcoot/rocketbingo/internal/model"
	"github.com/mcoot/rocketbingo/internal/services/board"
	"github.com/mcoot/rocketbingo/internal/services/draw"
	"github.com/mcoot/rocketbingo/internal/services/room"
	"github.com/mcoot/rocketbingo/internal/web/hub"
	"github.com/mcoot/rocketbingo/internal/web/sse"
)

// RoomHandler serves read-only views of rooms
type RoomHandler struct {
	rooms room.ControllerInterface
	draws draw.ServiceInterface
	hubs  *hub.Manager
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(rooms room.ControllerInterface, draws draw.ServiceInterface, hubs *hub.Manager) *RoomHandler {
	return &RoomHandler{
		rooms: rooms,
		draws: draws,
		hubs:  hubs,
	}
}

// lookup validates the {id} path variable and loads the room
func (h *RoomHandler) lookup(r *http.Request) (*model.Room, error) {
	id := mux.Vars(r)["id"]
	if !model.ValidateRoomID(id) {
		return nil, model.ErrInvalidRoomID
	}
	return h.rooms.GetRoom(r.Context(), model.RoomID(id))
}

// Get handles GET /api/v1/rooms/{id}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	rm, err := h.lookup(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(rm))
}

// Draws handles GET /api/v1/rooms/{id}/draws
func (h *RoomHandler) Draws(w http.ResponseWriter, r *http.Request) {
	rm, err := h.lookup(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	pool, err := board.PoolFor(rm.GameMode)
	if err != nil {
		WriteError(w, err)
		return
	}

	draws, err := h.draws.History(r.Context(), rm.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.DrawHistoryFromModel(rm.ID, draws, len(pool)))
}

// Events handles GET /api/v1/rooms/{id}/events
func (h *RoomHandler) Events(w http.ResponseWriter, r *http.Request) {
	rm, err := h.lookup(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	sse.ServeSSE(w, r, h.hubs, rm.ID)
}
