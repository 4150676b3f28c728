package scoring

import (
	"slices"

	"github.com/mcoot/rocketbingo/internal/model"
)

// winPatterns lists every line on a 5x5 board: rows, then columns, then diagonals
var winPatterns = [12][model.GridSize]int{
	// Rows
	{0, 1, 2, 3, 4},
	{5, 6, 7, 8, 9},
	{10, 11, 12, 13, 14},
	{15, 16, 17, 18, 19},
	{20, 21, 22, 23, 24},
	// Columns
	{0, 5, 10, 15, 20},
	{1, 6, 11, 16, 21},
	{2, 7, 12, 17, 22},
	{3, 8, 13, 18, 23},
	{4, 9, 14, 19, 24},
	// Diagonals
	{0, 6, 12, 18, 24},
	{4, 8, 12, 16, 20},
}

// callThreshold is how many non-free cells of a line a call needs
const callThreshold = 4

// Lines returns a copy of the twelve winning lines
func Lines() [][]int {
	lines := make([][]int, len(winPatterns))
	for i, p := range winPatterns {
		lines[i] = slices.Clone(p[:])
	}
	return lines
}

// CheckLines reports every line whose five cells are all marked on the board.
// WinningIndices is the sorted union of those lines.
func CheckLines(board *model.BingoBoard) model.WinResult {
	seen := make(map[int]bool)
	for _, pattern := range winPatterns {
		complete := true
		for _, idx := range pattern {
			if !board[idx].Marked {
				complete = false
				break
			}
		}
		if !complete {
			continue
		}
		for _, idx := range pattern {
			seen[idx] = true
		}
	}

	indices := make([]int, 0, len(seen))
	for idx := range seen {
		indices = append(indices, idx)
	}
	slices.Sort(indices)

	return model.WinResult{
		HasBingo:       len(indices) > 0,
		WinningIndices: indices,
	}
}

// ValidateCall checks a player's claimed marks. The free cell is ignored, and
// a line qualifies once four of its remaining cells are marked, so lines
// through the centre need all four of theirs. Each qualifying line adds its
// marked cells in line order; overlapping lines repeat shared indices.
func ValidateCall(marked []int) model.CallResult {
	markedSet := make(map[int]bool, len(marked))
	for _, idx := range marked {
		markedSet[idx] = true
	}

	lines := [][]int{}
	for _, pattern := range winPatterns {
		var hits []int
		for _, idx := range pattern {
			if idx == model.FreeIndex {
				continue
			}
			if markedSet[idx] {
				hits = append(hits, idx)
			}
		}
		if len(hits) >= callThreshold {
			lines = append(lines, hits)
		}
	}

	return model.CallResult{
		IsValid:      len(lines) > 0,
		WinningLines: lines,
	}
}
