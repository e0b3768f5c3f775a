package rules

import (
	"strings"

	"github.com/notnil/chess"
)

var (
	knightSteps = [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingSteps   = [8][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
	rookRays    = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopRays  = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
)

// inCheck reports whether the side to move in cp has its king attacked.
// It reads the board, so a start position can already be in check.
func inCheck(cp *chess.Position) bool {
	board := boardOf(cp)
	side, opp := White, Black
	if cp.Turn() == chess.Black {
		side, opp = Black, White
	}
	for sq, p := range board {
		if p.Color == side && p.Symbol == 'K' {
			return attacked(&board, Square(sq), opp)
		}
	}
	return false
}

// attacked reports whether any piece of color by attacks sq.
func attacked(board *[Files * Ranks]Piece, sq Square, by Color) bool {
	f, r := sq.File(), sq.Rank()
	holds := func(t Square, symbols string) bool {
		p := board[t]
		return p.Color == by && strings.ContainsRune(symbols, p.Symbol)
	}
	step := func(df, dr int, symbols string) bool {
		t := NewSquare(f+df, r+dr)
		return t != NoSquare && holds(t, symbols)
	}

	// A white pawn attacks upwards, so it stands one rank below sq.
	pawnRank := -1
	if by == Black {
		pawnRank = 1
	}
	if step(-1, pawnRank, "P") || step(1, pawnRank, "P") {
		return true
	}
	for _, d := range knightSteps {
		if step(d[0], d[1], "N") {
			return true
		}
	}
	for _, d := range kingSteps {
		if step(d[0], d[1], "K") {
			return true
		}
	}

	ray := func(dirs [4][2]int, symbols string) bool {
		for _, d := range dirs {
			for i := 1; ; i++ {
				t := NewSquare(f+d[0]*i, r+d[1]*i)
				if t == NoSquare {
					break
				}
				if board[t].IsNone() {
					continue
				}
				if holds(t, symbols) {
					return true
				}
				break
			}
		}
		return false
	}
	return ray(rookRays, "RQ") || ray(bishopRays, "BQ")
}
