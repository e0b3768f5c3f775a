package rules

import "testing"

func TestParseMove(t *testing.T) {
	tests := []struct {
		in      string
		want    Move
		wantErr bool
	}{
		{"e2e4", NewMove(MustSquare("e2"), MustSquare("e4")), false},
		{"a7a8q", Move{From: MustSquare("a7"), To: MustSquare("a8"), Promotion: 'q'}, false},
		{"a7a8N", Move{From: MustSquare("a7"), To: MustSquare("a8"), Promotion: 'n'}, false},
		{"a7a8k", NoMove, true},
		{"e9e4", NoMove, true},
		{"e2", NoMove, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMove(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMove(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseMove(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestPositionUndo(t *testing.T) {
	p := NewPosition("chess", "")
	if _, ok := p.Undo(); ok {
		t.Error("Undo on empty position should fail")
	}
	m := NewMove(MustSquare("e2"), MustSquare("e4"))
	next := p.With(m)
	prev, ok := next.Undo()
	if !ok || !prev.Equal(p) {
		t.Errorf("Undo did not restore the position: %+v", prev)
	}
	if next.LastMove() != m || next.Ply() != 1 {
		t.Errorf("unexpected last move %v", next.LastMove())
	}
}
