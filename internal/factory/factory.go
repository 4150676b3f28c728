package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/rocketbingo/internal/dependencies/clock"
	"github.com/mcoot/rocketbingo/internal/dependencies/random"
	"github.com/mcoot/rocketbingo/internal/janitor"
	"github.com/mcoot/rocketbingo/internal/services/board"
	"github.com/mcoot/rocketbingo/internal/services/broker"
	"github.com/mcoot/rocketbingo/internal/services/draw"
	"github.com/mcoot/rocketbingo/internal/services/room"
	"github.com/mcoot/rocketbingo/internal/storage"
	"github.com/mcoot/rocketbingo/internal/storage/memory"
	redisstorage "github.com/mcoot/rocketbingo/internal/storage/redis"
	"github.com/mcoot/rocketbingo/internal/web/hub"
	"github.com/mcoot/rocketbingo/internal/web/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	BoardGenerator *board.Generator
	DrawService    *draw.Service
	RoomController *room.Controller
	Broker         *broker.Broker

	// Transport
	HubManager       *hub.Manager
	Gateway          *ws.Gateway
	WebSocketHandler *ws.Handler

	// Housekeeping
	Janitor *janitor.Janitor
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	return newWithDependencies(store, clock.New(), random.New(), logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, logger *slog.Logger) *App {
	generator := board.NewGenerator(rnd)
	drawService := draw.New(store, rnd, logger)
	roomController := room.NewController(store, generator, drawService, clk, rnd, logger)

	hubManager := hub.NewManager(logger)
	gateway := ws.NewGateway(hubManager, logger)
	brk := broker.New(roomController, gateway, logger)
	wsHandler := ws.NewHandler(gateway, brk, logger)

	return &App{
		Storage:          store,
		Clock:            clk,
		Random:           rnd,
		BoardGenerator:   generator,
		DrawService:      drawService,
		RoomController:   roomController,
		Broker:           brk,
		HubManager:       hubManager,
		Gateway:          gateway,
		WebSocketHandler: wsHandler,
		Janitor:          janitor.New(hubManager, store, logger),
	}
}
