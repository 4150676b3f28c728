package room

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mcoot/rocketbingo/internal/dependencies/clock"
	"github.com/mcoot/rocketbingo/internal/dependencies/random"
	"github.com/mcoot/rocketbingo/internal/model"
	"github.com/mcoot/rocketbingo/internal/services/board"
	"github.com/mcoot/rocketbingo/internal/services/draw"
	"github.com/mcoot/rocketbingo/internal/services/scoring"
	"github.com/mcoot/rocketbingo/internal/storage"
)

// ChallengeReason is the fixed reason attached to every host challenge
const ChallengeReason = "Bingo call challenged by host"

// CreateOptions carries the optional settings of a new room. Zero values
// select CLASSIC and EXTERNAL.
type CreateOptions struct {
	GameMode        model.GameMode
	NumberGenerator model.NumberGenerator
}

// LeaveResult describes what happened to a room when a session left it
type LeaveResult struct {
	Room    *model.Room // Remaining room, nil when deleted
	Deleted bool
}

// Controller manages the room state machine
type Controller struct {
	storage   storage.Storage
	generator board.GeneratorInterface
	draws     draw.ServiceInterface
	clock     clock.Clock
	random    random.Random
	logger    *slog.Logger
}

// NewController creates a new room Controller
func NewController(
	storage storage.Storage,
	generator board.GeneratorInterface,
	draws draw.ServiceInterface,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:   storage,
		generator: generator,
		draws:     draws,
		clock:     clock,
		random:    random,
		logger:    logger.With("component", "room"),
	}
}

// CreateRoom opens a new waiting room with the session as sole player and host
func (c *Controller) CreateRoom(ctx context.Context, session model.SessionID, playerName string, opts CreateOptions) (*model.Room, error) {
	name := strings.TrimSpace(playerName)
	if name == "" {
		return nil, model.ErrNameRequired
	}

	mode := opts.GameMode
	if mode == "" {
		mode = model.GameModeClassic
	}
	if !mode.Valid() {
		return nil, model.ErrInvalidGameMode
	}

	generator := opts.NumberGenerator
	if generator == "" {
		generator = model.NumberGeneratorExternal
	}
	if !generator.Valid() {
		return nil, model.ErrInvalidGenerator
	}

	now := c.clock.Now()

	// Generate unique room id
	var id model.RoomID
	for {
		id = model.RoomID(c.random.String(model.RoomIDLength, model.RoomIDAlphabet))
		exists, err := c.storage.RoomExists(ctx, id)
		if err != nil {
			return nil, err
		}
		if !exists {
			break
		}
	}

	room := &model.Room{
		ID:     id,
		HostID: session,
		Players: []model.Player{
			{ID: session, Name: name, JoinedAt: now},
		},
		GameState:       model.GameStateWaiting,
		GameMode:        mode,
		NumberGenerator: generator,
		CreatedAt:       now,
	}

	if err := c.storage.CreateRoom(ctx, room); err != nil {
		return nil, err
	}

	c.logger.Info("room created", "room", id, "host", session, "mode", mode, "generator", generator)
	return room, nil
}

// GetRoom retrieves a room by id
func (c *Controller) GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error) {
	return c.storage.GetRoom(ctx, id)
}

// JoinRoom adds the session to a waiting room. Joining a room the session
// is already in succeeds without change and reports added=false.
func (c *Controller) JoinRoom(ctx context.Context, session model.SessionID, roomID string, playerName string) (room *model.Room, added bool, err error) {
	name := strings.TrimSpace(playerName)
	if roomID == "" || name == "" {
		return nil, false, model.ErrJoinFieldsMissing
	}
	if !model.ValidateRoomID(roomID) {
		return nil, false, model.ErrInvalidRoomID
	}

	room, err = c.storage.GetRoom(ctx, model.RoomID(roomID))
	if err != nil {
		return nil, false, err
	}

	if room.GameState != model.GameStateWaiting {
		return nil, false, model.ErrGameAlreadyStarted
	}

	if room.GetPlayer(session) != nil {
		return room, false, nil
	}

	room.Players = append(room.Players, model.Player{
		ID:       session,
		Name:     name,
		JoinedAt: c.clock.Now(),
	})

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, false, err
	}

	c.logger.Info("player joined", "room", room.ID, "player", session, "players", len(room.Players))
	return room, true, nil
}

// StartGame moves the room to started and stores a reference board. Clients
// generate their own boards, so the reference board is never handed out.
func (c *Controller) StartGame(ctx context.Context, session model.SessionID, id model.RoomID) (*model.Room, error) {
	room, err := c.storage.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	if !room.IsHost(session) {
		return nil, model.ErrNotHost
	}

	if len(room.Players) < 1 {
		return nil, model.ErrInsufficientPlayers
	}

	ref, err := c.generator.Generate(room.GameMode)
	if err != nil {
		return nil, err
	}
	if err := c.storage.SaveReferenceBoard(ctx, id, ref); err != nil {
		return nil, err
	}

	room.GameState = model.GameStateStarted
	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	c.logger.Info("game started", "room", id, "players", len(room.Players))
	return room, nil
}

// MarkCell toggles a cell in the session's mark set for the room
func (c *Controller) MarkCell(ctx context.Context, session model.SessionID, id model.RoomID, index int) (*model.Room, error) {
	room, err := c.storage.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	if room.GameState != model.GameStateStarted {
		return nil, model.ErrGameNotInProgress
	}

	if !model.IsValidCellIndex(index) {
		return nil, model.ErrInvalidCellIndex
	}

	marked, err := c.storage.ToggleMark(ctx, id, session, index)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("cell toggled", "room", id, "player", session, "cell", index, "marked", marked)
	return room, nil
}

// CallBingo validates the caller's claimed cells with the call rule
func (c *Controller) CallBingo(ctx context.Context, session model.SessionID, id model.RoomID, markedCells []int) (*model.BingoValidationPayload, error) {
	room, err := c.storage.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	if room.GameState != model.GameStateStarted {
		return nil, model.ErrGameNotInProgress
	}

	player := room.GetPlayer(session)
	if player == nil {
		return nil, model.ErrPlayerNotFound
	}

	if markedCells == nil {
		markedCells = []int{}
	}
	result := scoring.ValidateCall(markedCells)

	c.logger.Info("bingo called",
		"room", id,
		"player", session,
		"valid", result.IsValid,
		"lines", len(result.WinningLines),
	)

	return &model.BingoValidationPayload{
		PlayerID:     session,
		PlayerName:   player.Name,
		MarkedCells:  markedCells,
		IsValid:      result.IsValid,
		WinningLines: result.WinningLines,
	}, nil
}

// NextNumber draws the next built-in value for the room
func (c *Controller) NextNumber(ctx context.Context, session model.SessionID, id model.RoomID) (*model.NumberGeneratedPayload, error) {
	room, err := c.storage.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	if !room.IsHost(session) {
		return nil, model.ErrNotHost
	}

	if room.GameState != model.GameStateStarted {
		return nil, model.ErrGameNotInProgress
	}

	if room.NumberGenerator != model.NumberGeneratorBuiltin {
		return nil, model.ErrNotBuiltinGenerator
	}

	d, err := c.draws.Next(ctx, room)
	if err != nil {
		return nil, err
	}

	return &model.NumberGeneratedPayload{
		Number:    d.Value,
		Timestamp: c.clock.Now(),
	}, nil
}

// ChallengeBingo lets the host dispute a player's call. Nothing is mutated.
func (c *Controller) ChallengeBingo(ctx context.Context, session model.SessionID, id model.RoomID, target model.SessionID) (*model.BingoChallengedPayload, error) {
	room, err := c.storage.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	if !room.IsHost(session) {
		return nil, model.ErrNotHost
	}

	player := room.GetPlayer(target)
	if player == nil {
		return nil, model.ErrPlayerNotFound
	}

	c.logger.Info("bingo challenged", "room", id, "target", target)
	return &model.BingoChallengedPayload{
		PlayerID:   target,
		PlayerName: player.Name,
		Reason:     ChallengeReason,
		Timestamp:  c.clock.Now(),
	}, nil
}

// Leave removes the session from the room. An emptied room is deleted along
// with its marks, draws and reference board; otherwise the host passes to the
// first remaining player if the host left.
func (c *Controller) Leave(ctx context.Context, session model.SessionID, id model.RoomID) (*LeaveResult, error) {
	room, err := c.storage.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	wasHost := room.IsHost(session)
	if !room.RemovePlayer(session) {
		return nil, model.ErrPlayerNotFound
	}

	if room.IsEmpty() {
		if err := c.storage.DeleteRoom(ctx, id); err != nil {
			return nil, err
		}
		c.logger.Info("room removed", "room", id)
		return &LeaveResult{Deleted: true}, nil
	}

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	if wasHost {
		c.logger.Info("host transferred", "room", id, "host", room.HostID)
	}
	c.logger.Info("player left", "room", id, "player", session, "players", len(room.Players))
	return &LeaveResult{Room: room}, nil
}

// Interface for dependency injection
type ControllerInterface interface {
	CreateRoom(ctx context.Context, session model.SessionID, playerName string, opts CreateOptions) (*model.Room, error)
	GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error)
	JoinRoom(ctx context.Context, session model.SessionID, roomID string, playerName string) (*model.Room, bool, error)
	StartGame(ctx context.Context, session model.SessionID, id model.RoomID) (*model.Room, error)
	MarkCell(ctx context.Context, session model.SessionID, id model.RoomID, index int) (*model.Room, error)
	CallBingo(ctx context.Context, session model.SessionID, id model.RoomID, markedCells []int) (*model.BingoValidationPayload, error)
	NextNumber(ctx context.Context, session model.SessionID, id model.RoomID) (*model.NumberGeneratedPayload, error)
	ChallengeBingo(ctx context.Context, session model.SessionID, id model.RoomID, target model.SessionID) (*model.BingoChallengedPayload, error)
	Leave(ctx context.Context, session model.SessionID, id model.RoomID) (*LeaveResult, error)
}

var _ ControllerInterface = (*Controller)(nil)
