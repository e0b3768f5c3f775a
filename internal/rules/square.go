// Package rules adapts an external chess rules library to the small oracle
// surface the front-end needs: legality checks, move application and the
// squares a selected piece may reach.
package rules

import "fmt"

// Board dimensions. The rules library only models the orthodox 8x8 board.
const (
	Files = 8
	Ranks = 8
)

// Square is a board square (0-63).
// Uses Little-Endian Rank-File Mapping: A1=0, H1=7, A8=56, H8=63.
type Square int8

// NoSquare marks the absence of a square.
const NoSquare Square = -1

// NewSquare creates a square from file (0-7) and rank (0-7).
func NewSquare(file, rank int) Square {
	if file < 0 || file >= Files || rank < 0 || rank >= Ranks {
		return NoSquare
	}
	return Square(rank*Files + file)
}

// File returns the file (column) of the square (0-7, where 0=a, 7=h).
func (sq Square) File() int {
	return int(sq) % Files
}

// Rank returns the rank (row) of the square (0-7, where 0=rank 1).
func (sq Square) Rank() int {
	return int(sq) / Files
}

// Valid reports whether sq is on the board.
func (sq Square) Valid() bool {
	return sq >= 0 && int(sq) < Files*Ranks
}

// String returns the algebraic name of the square (e.g. "e4").
func (sq Square) String() string {
	if !sq.Valid() {
		return "-"
	}
	return fmt.Sprintf("%c%d", 'a'+sq.File(), sq.Rank()+1)
}

// ParseSquare parses an algebraic square name.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("invalid square %q", s)
	}
	file := int(s[0] - 'a')
	rank := int(s[1] - '1')
	sq := NewSquare(file, rank)
	if sq == NoSquare {
		return NoSquare, fmt.Errorf("invalid square %q", s)
	}
	return sq, nil
}

// MustSquare is like ParseSquare but panics on malformed input.
func MustSquare(s string) Square {
	sq, err := ParseSquare(s)
	if err != nil {
		panic(err)
	}
	return sq
}
