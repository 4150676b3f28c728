package draw

import (
	"context"
	"log/slog"

	"github.com/mcoot/rocketbingo/internal/dependencies/random"
	"github.com/mcoot/rocketbingo/internal/model"
	"github.com/mcoot/rocketbingo/internal/services/board"
	"github.com/mcoot/rocketbingo/internal/storage"
)

// Service draws values without replacement from a room's pool for the
// built-in number generator
type Service struct {
	storage storage.Storage
	random  random.Random
	logger  *slog.Logger
}

// New creates a new draw service
func New(storage storage.Storage, random random.Random, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		random:  random,
		logger:  logger.With("component", "draw"),
	}
}

// Next picks a not-yet-drawn value from the room's pool and records it
func (s *Service) Next(ctx context.Context, room *model.Room) (model.Draw, error) {
	pool, err := board.PoolFor(room.GameMode)
	if err != nil {
		return model.Draw{}, err
	}

	history, err := s.storage.GetDraws(ctx, room.ID)
	if err != nil {
		return model.Draw{}, err
	}

	drawn := make(map[int]bool, len(history))
	for _, d := range history {
		drawn[d.PoolIndex] = true
	}

	available := make([]int, 0, len(pool)-len(drawn))
	for i := range pool {
		if !drawn[i] {
			available = append(available, i)
		}
	}

	if len(available) == 0 {
		if room.GameMode == model.GameModeBusiness {
			return model.Draw{}, model.ErrTermsExhausted
		}
		return model.Draw{}, model.ErrNumbersExhausted
	}

	idx := available[s.random.Intn(len(available))]
	d := model.Draw{Value: pool[idx], PoolIndex: idx}

	if err := s.storage.AppendDraw(ctx, room.ID, d); err != nil {
		return model.Draw{}, err
	}

	s.logger.Debug("value drawn",
		"room", room.ID,
		"value", d.Value,
		"remaining", len(available)-1,
	)
	return d, nil
}

// History returns the room's draws in the order they were made
func (s *Service) History(ctx context.Context, id model.RoomID) ([]model.Draw, error) {
	return s.storage.GetDraws(ctx, id)
}

// Interface for dependency injection
type ServiceInterface interface {
	Next(ctx context.Context, room *model.Room) (model.Draw, error)
	History(ctx context.Context, id model.RoomID) ([]model.Draw, error)
}

var _ ServiceInterface = (*Service)(nil)
