package rules

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestOracle(t *testing.T) *Oracle {
	t.Helper()
	o, err := NewOracle()
	if err != nil {
		t.Fatalf("NewOracle failed: %v", err)
	}
	t.Cleanup(o.Close)
	return o
}

func play(t *testing.T, o *Oracle, p Position, moves ...string) Position {
	t.Helper()
	for _, s := range moves {
		m, err := ParseMove(s)
		if err != nil {
			t.Fatalf("ParseMove(%q): %v", s, err)
		}
		p, err = o.Apply(p, m)
		if err != nil {
			t.Fatalf("Apply(%s): %v", s, err)
		}
	}
	return p
}

func squares(sqs []Square) string {
	names := make([]string, len(sqs))
	for i, sq := range sqs {
		names[i] = sq.String()
	}
	return strings.Join(names, ",")
}

func TestLegalDestinations(t *testing.T) {
	o := newTestOracle(t)
	start := NewPosition("chess", StandardFEN)

	tests := []struct {
		origin string
		want   []string
	}{
		{"e2", []string{"e3", "e4"}},
		{"g1", []string{"f3", "h3"}},
		{"e1", nil},
		{"e4", nil},
		{"e7", nil}, // black pawn, white to move
	}

	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			got := o.LegalDestinations(start, MustSquare(tt.origin))
			if len(got) != len(tt.want) {
				t.Fatalf("got %s, want %v", squares(got), tt.want)
			}
			for _, w := range tt.want {
				found := false
				for _, sq := range got {
					if sq == MustSquare(w) {
						found = true
					}
				}
				if !found {
					t.Errorf("destination %s missing from %s", w, squares(got))
				}
			}
		})
	}
}

func TestApplyPawnAdvance(t *testing.T) {
	o := newTestOracle(t)
	start := NewPosition("chess", StandardFEN)

	if !o.IsLegal(start, MustSquare("e2"), MustSquare("e4")) {
		t.Fatal("e2e4 should be legal")
	}
	next, err := o.Apply(start, NewMove(MustSquare("e2"), MustSquare("e4")))
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if start.Ply() != 0 {
		t.Errorf("Apply modified the original position")
	}
	if got := o.PieceAt(next, MustSquare("e4")); got != (Piece{Color: White, Symbol: 'P'}) {
		t.Errorf("e4 holds %v, want white pawn", got)
	}
	if got := o.PieceAt(next, MustSquare("e2")); !got.IsNone() {
		t.Errorf("e2 holds %v, want empty", got)
	}
	if o.SideToMove(next) != Black {
		t.Errorf("expected Black to move")
	}
	fen, err := o.FEN(next)
	if err != nil {
		t.Fatalf("FEN failed: %v", err)
	}
	if !strings.HasPrefix(fen, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b") {
		t.Errorf("unexpected FEN %s", fen)
	}
}

func TestApplyIllegal(t *testing.T) {
	o := newTestOracle(t)
	start := NewPosition("chess", StandardFEN)

	if o.IsLegal(start, MustSquare("e2"), MustSquare("e5")) {
		t.Error("e2e5 should be illegal")
	}
	_, err := o.Apply(start, NewMove(MustSquare("e2"), MustSquare("e5")))
	if !errors.Is(err, ErrIllegalMove) {
		t.Errorf("expected ErrIllegalMove, got %v", err)
	}
}

func TestPromotion(t *testing.T) {
	o := newTestOracle(t)
	pos := NewPosition("chess", "8/P6k/8/8/8/8/8/K7 w - - 0 1")

	queen := play(t, o, pos, "a7a8")
	if got := queen.LastMove().Promotion; got != 'q' {
		t.Errorf("default promotion = %q, want 'q'", got)
	}
	if got := o.PieceAt(queen, MustSquare("a8")); got != (Piece{Color: White, Symbol: 'Q'}) {
		t.Errorf("a8 holds %v, want white queen", got)
	}

	knight := play(t, o, pos, "a7a8n")
	if got := o.PieceAt(knight, MustSquare("a8")); got != (Piece{Color: White, Symbol: 'N'}) {
		t.Errorf("a8 holds %v, want white knight", got)
	}
}

func TestSAN(t *testing.T) {
	o := newTestOracle(t)
	pos := play(t, o, NewPosition("chess", StandardFEN), "e2e4", "e7e5", "g1f3")

	san, err := o.SAN(pos)
	if err != nil {
		t.Fatalf("SAN failed: %v", err)
	}
	if got := strings.Join(san, " "); got != "e4 e5 Nf3" {
		t.Errorf("SAN = %q, want %q", got, "e4 e5 Nf3")
	}
}

func TestSANLine(t *testing.T) {
	o := newTestOracle(t)
	pos := NewPosition("chess", StandardFEN)

	got := o.SANLine(pos, []string{"e2e4", "e7e5", "g1f3", "b8c6"})
	if strings.Join(got, " ") != "e4 e5 Nf3 Nc6" {
		t.Errorf("SANLine = %v", got)
	}

	got = o.SANLine(pos, []string{"e2e4", "e2e4", "g1f3"})
	if len(got) != 1 || got[0] != "e4" {
		t.Errorf("Expected conversion to stop at the illegal move, got %v", got)
	}
}

func TestStatus(t *testing.T) {
	o := newTestOracle(t)

	t.Run("FoolsMate", func(t *testing.T) {
		pos := play(t, o, NewPosition("chess", StandardFEN), "f2f3", "e7e5", "g2g4", "d8h4")
		st, err := o.Status(pos)
		if err != nil {
			t.Fatalf("Status failed: %v", err)
		}
		if !st.Over || st.Result != ResultBlackWins || !st.InCheck {
			t.Errorf("unexpected status %+v", st)
		}
		if st.Describe() != "Black wins by checkmate" {
			t.Errorf("Describe = %q", st.Describe())
		}
	})

	t.Run("Stalemate", func(t *testing.T) {
		st, err := o.Status(NewPosition("chess", "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1"))
		if err != nil {
			t.Fatalf("Status failed: %v", err)
		}
		if !st.Over || st.Result != ResultDraw || st.Reason != "stalemate" {
			t.Errorf("unexpected status %+v", st)
		}
	})

	t.Run("InsufficientMaterial", func(t *testing.T) {
		st, err := o.Status(NewPosition("chess", "8/8/8/4k3/8/8/8/4K3 w - - 0 1"))
		if err != nil {
			t.Fatalf("Status failed: %v", err)
		}
		if !st.Over || st.Reason != "insufficient material" {
			t.Errorf("unexpected status %+v", st)
		}
	})

	t.Run("ThreefoldRepetition", func(t *testing.T) {
		shuffle := []string{"g1f3", "g8f6", "f3g1", "f6g8"}
		twice := play(t, o, NewPosition("chess", StandardFEN), shuffle...)
		st, _ := o.Status(twice)
		if st.Over {
			t.Fatalf("game over after one repetition: %+v", st)
		}
		thrice := play(t, o, twice, shuffle...)
		st, _ = o.Status(thrice)
		if !st.Over || st.Reason != "threefold repetition" {
			t.Errorf("unexpected status %+v", st)
		}
	})

	t.Run("SameColouredBishops", func(t *testing.T) {
		st, err := o.Status(NewPosition("chess", "4k3/8/8/8/8/b7/8/2B1K3 w - - 0 1"))
		if err != nil {
			t.Fatalf("Status failed: %v", err)
		}
		if !st.Over || st.Result != ResultDraw || st.Reason != "insufficient material" {
			t.Errorf("unexpected status %+v", st)
		}
	})

	t.Run("FiftyMoveRule", func(t *testing.T) {
		st, err := o.Status(NewPosition("chess", "8/8/8/4k3/8/8/4K3/R7 w - - 100 80"))
		if err != nil {
			t.Fatalf("Status failed: %v", err)
		}
		if !st.Over || st.Result != ResultDraw || st.Reason != "50-move rule" {
			t.Errorf("unexpected status %+v", st)
		}
	})

	t.Run("CheckAtStart", func(t *testing.T) {
		st, err := o.Status(NewPosition("chess", "4k3/8/8/8/8/8/8/4K2r w - - 0 1"))
		if err != nil {
			t.Fatalf("Status failed: %v", err)
		}
		if !st.InCheck || st.Over {
			t.Errorf("expected check at the start position, got %+v", st)
		}
	})

	t.Run("Ongoing", func(t *testing.T) {
		st, err := o.Status(NewPosition("chess", StandardFEN))
		if err != nil {
			t.Fatalf("Status failed: %v", err)
		}
		if st.Over || st.InCheck || st.Result != ResultOngoing {
			t.Errorf("unexpected status %+v", st)
		}
	})
}

func TestKingSquare(t *testing.T) {
	o := newTestOracle(t)
	start := NewPosition("chess", StandardFEN)
	if got := o.KingSquare(start, White); got != MustSquare("e1") {
		t.Errorf("white king on %v, want e1", got)
	}
	if got := o.KingSquare(start, Black); got != MustSquare("e8") {
		t.Errorf("black king on %v, want e8", got)
	}
}

func TestValidateFEN(t *testing.T) {
	if err := ValidateFEN(StandardFEN); err != nil {
		t.Errorf("standard FEN rejected: %v", err)
	}
	for _, fen := range []string{"", "not a fen", "8/8/8/8/8/8/8/8 w - - 0 1", "8/8/8/8/8/8/8/K7 w - - 0 1"} {
		if err := ValidateFEN(fen); !errors.Is(err, ErrInvalidFEN) {
			t.Errorf("ValidateFEN(%q) = %v, want ErrInvalidFEN", fen, err)
		}
	}
}

func TestPGN(t *testing.T) {
	o := newTestOracle(t)
	pos := play(t, o, NewPosition("chess", StandardFEN), "e2e4", "e7e5", "g1f3")

	pgn, err := o.PGN(pos, "Alice", "Bob", time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), map[string]string{"Annotator": "test"})
	if err != nil {
		t.Fatalf("PGN failed: %v", err)
	}
	for _, want := range []string{`[Date "2024.03.09"]`, `[White "Alice"]`, `[Result "*"]`, `[Annotator "test"]`, "1. e4 e5 2. Nf3 *"} {
		if !strings.Contains(pgn, want) {
			t.Errorf("PGN missing %q:\n%s", want, pgn)
		}
	}
	if strings.Contains(pgn, "[FEN") {
		t.Errorf("standard start should not carry a FEN tag:\n%s", pgn)
	}
}

func TestMoveText(t *testing.T) {
	tests := []struct {
		name       string
		san        []string
		blackFirst bool
		first      int
		want       string
	}{
		{"Empty", nil, false, 1, ""},
		{"WhiteFirst", []string{"e4", "e5", "Nf3"}, false, 1, "1. e4 e5 2. Nf3"},
		{"BlackFirst", []string{"e5", "Nf3", "Nc6"}, true, 12, "12... e5 13. Nf3 Nc6"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MoveText(tt.san, tt.blackFirst, tt.first); got != tt.want {
				t.Errorf("MoveText = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNumbering(t *testing.T) {
	tests := []struct {
		fen        string
		blackFirst bool
		first      int
	}{
		{StandardFEN, false, 1},
		{"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1", true, 1},
		{"8/8/8/4k3/8/8/4K3/8 b - - 10 42", true, 42},
		{"8/8/8/4k3/8/8/4K3/8 w - -", false, 1},
		{"8/8/8/4k3/8/8/4K3/8 w - - 0 x", false, 1},
	}
	for _, tt := range tests {
		blackFirst, first := Numbering(tt.fen)
		if blackFirst != tt.blackFirst || first != tt.first {
			t.Errorf("Numbering(%q) = %v, %d, want %v, %d", tt.fen, blackFirst, first, tt.blackFirst, tt.first)
		}
	}
}
