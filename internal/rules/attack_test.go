package rules

import "testing"

func TestAttacked(t *testing.T) {
	o := newTestOracle(t)

	tests := []struct {
		name string
		fen  string
		sq   string
		by   Color
		want bool
	}{
		{"WhitePawn", "4k3/8/8/8/8/3P4/8/4K3 w - - 0 1", "e4", White, true},
		{"WhitePawnSideways", "4k3/8/8/8/8/3P4/8/4K3 w - - 0 1", "e3", White, false},
		{"BlackPawn", "4k3/8/3p4/8/8/8/8/4K3 w - - 0 1", "e5", Black, true},
		{"Knight", "4k3/8/8/8/8/8/8/1N2K3 w - - 0 1", "c3", White, true},
		{"RookOpenFile", "r3k3/8/8/8/8/8/8/4K3 w - - 0 1", "a1", Black, true},
		{"RookBlocked", "r3k3/8/8/p7/8/8/8/4K3 w - - 0 1", "a1", Black, false},
		{"BishopDiagonal", "4k3/8/8/8/8/8/6b1/4K3 w - - 0 1", "e4", Black, true},
		{"BishopBlocked", "4k3/8/8/8/8/5P2/6b1/4K3 w - - 0 1", "e4", Black, false},
		{"QueenDiagonal", "4k3/8/8/8/8/8/6q1/4K3 w - - 0 1", "d5", Black, true},
		{"King", "4k3/8/8/8/8/8/8/4K3 w - - 0 1", "d2", White, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board, err := o.Board(NewPosition("chess", tt.fen))
			if err != nil {
				t.Fatalf("Board failed: %v", err)
			}
			if got := attacked(&board, MustSquare(tt.sq), tt.by); got != tt.want {
				t.Errorf("attacked(%s, %v) = %v, want %v", tt.sq, tt.by, got, tt.want)
			}
		})
	}
}
