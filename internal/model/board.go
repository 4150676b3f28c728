package model

import "fmt"

const (
	// GridSize is the board dimension
	GridSize = 5
	// BoardSize is the number of cells on a board
	BoardSize = GridSize * GridSize
	// FreeIndex is the position of the free cell
	FreeIndex = 12
	// FreeLabel is the content of the free cell
	FreeLabel = "FREE"
	// PoolMinimum is the number of pool entries needed to fill a board
	PoolMinimum = BoardSize - 1
)

// BingoCell is one square of a board
type BingoCell struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	Marked  bool   `json:"marked"`
	IsFree  bool   `json:"isFree"`
}

// CellID returns the positional identifier for a cell index
func CellID(index int) string {
	return fmt.Sprintf("cell-%d", index)
}

// BingoBoard is a 5x5 grid in row-major order. Index 12 is the free cell.
type BingoBoard [BoardSize]BingoCell

// Mark sets the marked flag on a cell. Out of range indices are ignored.
func (b *BingoBoard) Mark(index int) {
	if IsValidCellIndex(index) {
		b[index].Marked = true
	}
}

// IsValidCellIndex reports whether index addresses a cell
func IsValidCellIndex(index int) bool {
	return index >= 0 && index < BoardSize
}

// WinResult is the outcome of a strict line check
type WinResult struct {
	HasBingo       bool  `json:"hasBingo"`
	WinningIndices []int `json:"winningIndices"`
}

// CallResult is the outcome of validating a bingo call
type CallResult struct {
	IsValid      bool    `json:"isValid"`
	WinningLines [][]int `json:"winningLines"`
}

// Draw is one value produced by the built-in number generator.
// PoolIndex is the value's position in its mode's pool.
type Draw struct {
	Value     string `json:"value"`
	PoolIndex int    `json:"poolIndex"`
}
