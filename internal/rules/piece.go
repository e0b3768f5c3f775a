package rules

import "unicode"

// Color represents the color of a piece or player.
type Color int8

const (
	White Color = iota
	Black
	NoColor
)

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// Piece is a piece on the board, identified by its FEN letter so that the
// view can draw pieces it has never heard of.
type Piece struct {
	Color  Color
	Symbol rune // upper-case FEN letter, e.g. 'N'
}

// NoPiece is the empty square.
var NoPiece = Piece{Color: NoColor}

// IsNone reports whether p is the empty square.
func (p Piece) IsNone() bool {
	return p.Color == NoColor
}

// FEN returns the FEN letter of the piece (upper case for White).
func (p Piece) FEN() string {
	switch p.Color {
	case White:
		return string(p.Symbol)
	case Black:
		return string(unicode.ToLower(p.Symbol))
	default:
		return ""
	}
}

// String returns the FEN letter, or "." for an empty square.
func (p Piece) String() string {
	if p.IsNone() {
		return "."
	}
	return p.FEN()
}
