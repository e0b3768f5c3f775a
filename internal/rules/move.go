package rules

import (
	"fmt"
	"strings"
)

// Move is a pair of squares, optionally annotated with a promotion choice.
type Move struct {
	From      Square
	To        Square
	Promotion rune // lower-case piece letter ('q', 'r', 'b', 'n') or 0
}

// NoMove represents an invalid or null move.
var NoMove = Move{From: NoSquare, To: NoSquare}

// NewMove creates a move without promotion.
func NewMove(from, to Square) Move {
	return Move{From: from, To: to}
}

// IsPromotion returns true if the move carries a promotion piece.
func (m Move) IsPromotion() bool {
	return m.Promotion != 0
}

// String returns the move in UCI coordinate notation (e.g. "e7e8q").
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From.String() + m.To.String()
	if m.IsPromotion() {
		s += string(m.Promotion)
	}
	return s
}

// ParseMove parses a move in UCI coordinate notation.
func ParseMove(s string) (Move, error) {
	s = strings.TrimSpace(s)
	if len(s) != 4 && len(s) != 5 {
		return NoMove, fmt.Errorf("invalid move %q", s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}
	m := Move{From: from, To: to}
	if len(s) == 5 {
		promo := rune(strings.ToLower(s[4:])[0])
		if !isPromotionLetter(promo) {
			return NoMove, fmt.Errorf("invalid promotion in %q", s)
		}
		m.Promotion = promo
	}
	return m, nil
}

func isPromotionLetter(r rune) bool {
	switch r {
	case 'q', 'r', 'b', 'n':
		return true
	}
	return false
}
