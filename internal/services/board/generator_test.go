package board

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/rocketbingo/internal/dependencies/mocks"
	"github.com/mcoot/rocketbingo/internal/dependencies/random"
	"github.com/mcoot/rocketbingo/internal/model"
)

type GeneratorSuite struct {
	suite.Suite
	random    *mocks.MockRandom
	generator *Generator
}

func TestGeneratorSuite(t *testing.T) {
	suite.Run(t, new(GeneratorSuite))
}

func (s *GeneratorSuite) SetupTest() {
	s.random = mocks.NewMockRandom()
	s.generator = NewGenerator(s.random)
}

func (s *GeneratorSuite) assertBoardShape(board *model.BingoBoard) {
	s.Len(board, model.BoardSize)
	for i, cell := range board {
		s.Equal(fmt.Sprintf("cell-%d", i), cell.ID)
		if i == model.FreeIndex {
			s.True(cell.IsFree)
			s.True(cell.Marked)
			s.Equal(model.FreeLabel, cell.Content)
			continue
		}
		s.False(cell.IsFree, "cell %d", i)
		s.False(cell.Marked, "cell %d", i)
		s.NotEmpty(cell.Content, "cell %d", i)
	}
}

// Generate tests

func (s *GeneratorSuite) TestGenerateClassicBoardShape() {
	board, err := s.generator.Generate(model.GameModeClassic)
	s.Require().NoError(err)
	s.assertBoardShape(board)
}

func (s *GeneratorSuite) TestGenerateBusinessBoardShape() {
	board, err := s.generator.Generate(model.GameModeBusiness)
	s.Require().NoError(err)
	s.assertBoardShape(board)

	terms := make(map[string]bool)
	for _, t := range BusinessPool() {
		terms[t] = true
	}
	for i, cell := range board {
		if i != model.FreeIndex {
			s.True(terms[cell.Content], "unexpected content %q", cell.Content)
		}
	}
}

func (s *GeneratorSuite) TestGenerateUnknownModeFails() {
	_, err := s.generator.Generate("BOGUS")
	s.ErrorIs(err, model.ErrInvalidGameMode)
}

func (s *GeneratorSuite) TestGenerateSkipsCentreWhenPlacing() {
	// With every Intn returning 0 the shuffle rotates the pool left by one
	board, err := s.generator.Generate(model.GameModeClassic)
	s.Require().NoError(err)

	s.Equal("2", board[0].Content)
	s.Equal("13", board[11].Content)
	s.Equal(model.FreeLabel, board[12].Content)
	s.Equal("14", board[13].Content)
	s.Equal("25", board[24].Content)
}

func (s *GeneratorSuite) TestGenerateFromPoolExactMinimum() {
	pool := make([]string, model.PoolMinimum)
	for i := range pool {
		pool[i] = fmt.Sprintf("Item %d", i)
	}

	board, err := s.generator.GenerateFromPool(pool)
	s.Require().NoError(err)
	s.assertBoardShape(board)
}

func (s *GeneratorSuite) TestGenerateFromPoolTooSmall() {
	pool := make([]string, model.PoolMinimum-1)
	for i := range pool {
		pool[i] = fmt.Sprintf("Item %d", i)
	}

	_, err := s.generator.GenerateFromPool(pool)
	s.ErrorIs(err, model.ErrInsufficientPool)
}

func (s *GeneratorSuite) TestGenerateFromPoolDoesNotMutateInput() {
	pool := ClassicPool()
	s.random.QueueIntn(5, 17, 40, 3, 60)

	_, err := s.generator.GenerateFromPool(pool)
	s.Require().NoError(err)
	s.Equal(ClassicPool(), pool)
}

// Real randomness: only invariants can be checked

func TestGenerateWithCryptoRandomHasUniqueCells(t *testing.T) {
	gen := NewGenerator(random.New())
	for n := 0; n < 20; n++ {
		board, err := gen.Generate(model.GameModeClassic)
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		seen := make(map[string]bool)
		for i, cell := range board {
			if i == model.FreeIndex {
				continue
			}
			if seen[cell.Content] {
				t.Fatalf("duplicate content %q on board", cell.Content)
			}
			seen[cell.Content] = true
		}
	}
}

func TestPoolFor(t *testing.T) {
	tests := []struct {
		name string
		mode model.GameMode
		size int
	}{
		{name: "classic", mode: model.GameModeClassic, size: 75},
		{name: "business", mode: model.GameModeBusiness, size: 38},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool, err := PoolFor(tt.mode)
			if err != nil {
				t.Fatalf("PoolFor(%q) error = %v", tt.mode, err)
			}
			if len(pool) != tt.size {
				t.Errorf("PoolFor(%q) returned %d items, want %d", tt.mode, len(pool), tt.size)
			}
			if len(pool) < model.PoolMinimum {
				t.Errorf("pool %q too small for a board", tt.mode)
			}
		})
	}
}
