package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/rocketbingo/internal/api/handler"
	"github.com/mcoot/rocketbingo/internal/api/middleware"
	"github.com/mcoot/rocketbingo/internal/api/response"
	"github.com/mcoot/rocketbingo/internal/services/draw"
	"github.com/mcoot/rocketbingo/internal/services/room"
	"github.com/mcoot/rocketbingo/internal/web/hub"
	common "github.com/mcoot/rocketbingo/internal/middleware"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	RoomController room.ControllerInterface
	DrawService    draw.ServiceInterface
	Hubs           *hub.Manager

	// WebSocket serves GET /ws
	WebSocket http.Handler
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	roomHandler := handler.NewRoomHandler(cfg.RoomController, cfg.DrawService, cfg.Hubs)

	recoveryMiddleware := middleware.Recovery(cfg.Logger)
	loggingMiddleware := common.Logging(cfg.Logger)

	// No recovery here: a panic after the upgrade cannot be answered with JSON
	r.Handle("/ws", loggingMiddleware(cfg.WebSocket)).Methods(http.MethodGet)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	rooms := api.PathPrefix("/rooms").Subrouter()
	rooms.HandleFunc("/{id}", roomHandler.Get).Methods(http.MethodGet)
	rooms.HandleFunc("/{id}/draws", roomHandler.Draws).Methods(http.MethodGet)
	rooms.HandleFunc("/{id}/events", roomHandler.Events).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}
