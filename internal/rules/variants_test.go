package rules

import (
	"errors"
	"strings"
	"testing"
)

func TestRegistryBuiltins(t *testing.T) {
	r := NewRegistry()
	names := strings.Join(r.Names(), ",")
	if names != "chess,chess960,nocastle,pawns" {
		t.Errorf("Names = %s", names)
	}

	for _, name := range r.Names() {
		pos, err := r.StartPosition(name)
		if err != nil {
			t.Fatalf("StartPosition(%s): %v", name, err)
		}
		if err := ValidateFEN(pos.StartFEN); err != nil {
			t.Errorf("%s start position invalid: %v", name, err)
		}
		if pos.Variant != name {
			t.Errorf("variant = %q, want %q", pos.Variant, name)
		}
	}

	if _, err := r.Get("atomic"); !errors.Is(err, ErrUnknownVariant) {
		t.Errorf("expected ErrUnknownVariant, got %v", err)
	}
}

func TestChess960FEN(t *testing.T) {
	if got := Chess960FEN(518); got != "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1" {
		t.Errorf("position 518 = %s", got)
	}
	for n := 0; n < 960; n++ {
		fen := Chess960FEN(n)
		rank := strings.Split(strings.Fields(fen)[0], "/")[7]
		k := strings.IndexByte(rank, 'K')
		r1 := strings.IndexByte(rank, 'R')
		r2 := strings.LastIndexByte(rank, 'R')
		if !(r1 < k && k < r2) {
			t.Fatalf("position %d: king not between rooks in %s", n, rank)
		}
		b1 := strings.IndexByte(rank, 'B')
		b2 := strings.LastIndexByte(rank, 'B')
		if (b1+b2)%2 == 0 {
			t.Fatalf("position %d: bishops on same color in %s", n, rank)
		}
	}
}

func TestRegistryLoad(t *testing.T) {
	const doc = `
variants:
  - name: Knightmare
    startFen: "nnnnknnn/pppppppp/8/8/8/8/PPPPPPPP/NNNNKNNN w - - 0 1"
    description: All knights
  - name: plain
`
	r := NewRegistry()
	names, err := r.Load(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if strings.Join(names, ",") != "knightmare,plain" {
		t.Errorf("loaded %v", names)
	}

	v, err := r.Get("knightmare")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if v.Description != "All knights" {
		t.Errorf("description = %q", v.Description)
	}
	plain, _ := r.Get("plain")
	if plain.StartFEN != StandardFEN {
		t.Errorf("empty startFen should default to the standard position")
	}
}

func TestRegistryLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"MissingName", "variants:\n  - startFen: \"" + StandardFEN + "\"\n"},
		{"BadFEN", "variants:\n  - name: broken\n    startFen: \"8/8/8 w\"\n"},
		{"UnknownField", "variants:\n  - name: x\n    pockets: true\n"},
		{"Spaces", "variants:\n  - name: two words\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			if _, err := r.Load(strings.NewReader(tt.doc)); err == nil {
				t.Error("expected error")
			}
			if len(r.Names()) != len(builtinVariants) {
				t.Errorf("failed load must not register variants")
			}
		})
	}
}
