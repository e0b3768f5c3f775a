package ui

import (
	"testing"

	"github.com/hailam/fairyplay/internal/rules"
)

func TestBoardGeometry(t *testing.T) {
	tests := []struct {
		name    string
		flipped bool
		sq      string
		x, y    int
	}{
		{"A1Normal", false, "a1", 0, 560},
		{"H8Normal", false, "h8", 560, 0},
		{"E2Normal", false, "e2", 320, 480},
		{"A1Flipped", true, "a1", 560, 0},
		{"H8Flipped", true, "h8", 0, 560},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bg := boardGeometry{boardSize: BoardSize, squareSize: SquareSize, flipped: tt.flipped}
			sq := rules.MustSquare(tt.sq)

			x, y := bg.SquareToScreen(sq)
			if x != tt.x || y != tt.y {
				t.Errorf("SquareToScreen(%s) = (%d, %d), want (%d, %d)", tt.sq, x, y, tt.x, tt.y)
			}
			if got := bg.ScreenToSquare(x+SquareSize/2, y+SquareSize/2); got != sq {
				t.Errorf("ScreenToSquare round trip = %v, want %v", got, sq)
			}
		})
	}
}

func TestScreenToSquareOffBoard(t *testing.T) {
	bg := boardGeometry{boardSize: BoardSize, squareSize: SquareSize}
	for _, pt := range [][2]int{{-1, 10}, {10, -1}, {BoardSize, 10}, {10, BoardSize}} {
		if sq := bg.ScreenToSquare(pt[0], pt[1]); sq != rules.NoSquare {
			t.Errorf("ScreenToSquare(%d, %d) = %v, want NoSquare", pt[0], pt[1], sq)
		}
	}
}
