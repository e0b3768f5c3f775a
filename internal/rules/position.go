package rules

import "strings"

// StandardFEN is the orthodox starting position.
const StandardFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Position is an immutable game state: where the game started and the moves
// played since. It is opaque to the view; only the oracle interprets it.
type Position struct {
	Variant  string
	StartFEN string
	Moves    []Move
}

// NewPosition creates a position at the start of a game.
func NewPosition(variant, startFEN string) Position {
	if startFEN == "" {
		startFEN = StandardFEN
	}
	return Position{Variant: variant, StartFEN: startFEN}
}

// With returns a copy of the position with m appended. The receiver is not
// modified.
func (p Position) With(m Move) Position {
	moves := make([]Move, len(p.Moves), len(p.Moves)+1)
	copy(moves, p.Moves)
	p.Moves = append(moves, m)
	return p
}

// Undo returns the position before the last move.
func (p Position) Undo() (Position, bool) {
	if len(p.Moves) == 0 {
		return p, false
	}
	moves := make([]Move, len(p.Moves)-1)
	copy(moves, p.Moves)
	p.Moves = moves
	return p, true
}

// Ply returns the number of moves played.
func (p Position) Ply() int {
	return len(p.Moves)
}

// LastMove returns the most recent move, or NoMove.
func (p Position) LastMove() Move {
	if len(p.Moves) == 0 {
		return NoMove
	}
	return p.Moves[len(p.Moves)-1]
}

// MoveStrings returns the moves in UCI notation.
func (p Position) MoveStrings() []string {
	out := make([]string, len(p.Moves))
	for i, m := range p.Moves {
		out[i] = m.String()
	}
	return out
}

// Key identifies the position for caching.
func (p Position) Key() string {
	var sb strings.Builder
	sb.WriteString(p.StartFEN)
	for _, m := range p.Moves {
		sb.WriteByte(' ')
		sb.WriteString(m.String())
	}
	return sb.String()
}

// Equal reports whether both positions share start and move list.
func (p Position) Equal(o Position) bool {
	if p.Variant != o.Variant || p.StartFEN != o.StartFEN || len(p.Moves) != len(o.Moves) {
		return false
	}
	for i := range p.Moves {
		if p.Moves[i] != o.Moves[i] {
			return false
		}
	}
	return true
}
