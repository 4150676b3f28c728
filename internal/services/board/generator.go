package board

import (
	"github.com/mcoot/rocketbingo/internal/dependencies/random"
	"github.com/mcoot/rocketbingo/internal/model"
)

// Generator builds randomised bingo boards
type Generator struct {
	random random.Random
}

// NewGenerator creates a Generator drawing from rnd
func NewGenerator(rnd random.Random) *Generator {
	return &Generator{random: rnd}
}

// Generate builds a board from the pool for the given mode
func (g *Generator) Generate(mode model.GameMode) (*model.BingoBoard, error) {
	pool, err := PoolFor(mode)
	if err != nil {
		return nil, err
	}
	return g.GenerateFromPool(pool)
}

// GenerateFromPool shuffles a copy of pool and lays the first 24 entries out
// around the free centre cell. The caller's slice is left untouched.
func (g *Generator) GenerateFromPool(pool []string) (*model.BingoBoard, error) {
	if len(pool) < model.PoolMinimum {
		return nil, model.ErrInsufficientPool
	}

	shuffled := make([]string, len(pool))
	copy(shuffled, pool)
	random.Shuffle(g.random, shuffled)

	var board model.BingoBoard
	next := 0
	for i := range board {
		if i == model.FreeIndex {
			board[i] = model.BingoCell{
				ID:      model.CellID(i),
				Content: model.FreeLabel,
				Marked:  true,
				IsFree:  true,
			}
			continue
		}
		board[i] = model.BingoCell{
			ID:      model.CellID(i),
			Content: shuffled[next],
		}
		next++
	}

	return &board, nil
}

// Interface for dependency injection
type GeneratorInterface interface {
	Generate(mode model.GameMode) (*model.BingoBoard, error)
	GenerateFromPool(pool []string) (*model.BingoBoard, error)
}

var _ GeneratorInterface = (*Generator)(nil)
