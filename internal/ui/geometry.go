package ui

import "github.com/hailam/fairyplay/internal/rules"

// boardGeometry maps squares to pixels. Rank 1 is at the bottom unless the
// board is flipped.
type boardGeometry struct {
	boardSize  int
	squareSize int
	flipped    bool
}

// SquareToScreen returns the top-left pixel of sq.
func (bg boardGeometry) SquareToScreen(sq rules.Square) (int, int) {
	file, rank := sq.File(), sq.Rank()
	if bg.flipped {
		file, rank = rules.Files-1-file, rules.Ranks-1-rank
	}
	return file * bg.squareSize, (rules.Ranks - 1 - rank) * bg.squareSize
}

// ScreenToSquare returns the square under (x, y), or NoSquare off the board.
func (bg boardGeometry) ScreenToSquare(x, y int) rules.Square {
	if x < 0 || x >= bg.boardSize || y < 0 || y >= bg.boardSize {
		return rules.NoSquare
	}
	file := x / bg.squareSize
	rank := rules.Ranks - 1 - y/bg.squareSize
	if bg.flipped {
		file, rank = rules.Files-1-file, rules.Ranks-1-rank
	}
	return rules.NewSquare(file, rank)
}
