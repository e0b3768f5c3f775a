package ui

import (
	"fmt"
	"time"

	petname "github.com/dustinkirkland/golang-petname"
	"github.com/hailam/fairyplay/internal/rules"
	"github.com/hailam/fairyplay/internal/storage"
)

// sessionFor returns the storable form of pos.
func sessionFor(pos rules.Position) *storage.Session {
	return &storage.Session{
		Variant:  pos.Variant,
		StartFEN: pos.StartFEN,
		Moves:    pos.MoveStrings(),
	}
}

// restoreSession rebuilds a saved game, replaying it to make sure every
// move is still legal.
func restoreSession(o *rules.Oracle, s *storage.Session) (rules.Position, error) {
	pos := rules.NewPosition(s.Variant, s.StartFEN)
	if err := rules.ValidateFEN(pos.StartFEN); err != nil {
		return pos, err
	}
	for _, str := range s.Moves {
		m, err := rules.ParseMove(str)
		if err != nil {
			return pos, fmt.Errorf("saved move %q: %w", str, err)
		}
		if pos, err = o.Apply(pos, m); err != nil {
			return pos, err
		}
	}
	return pos, nil
}

// archivedGame builds the archive record for a finished game. Each game
// gets a readable name, which also becomes its PGN event.
func archivedGame(o *rules.Oracle, pos rules.Position, st rules.Status, finished time.Time) (*storage.ArchivedGame, error) {
	name := petname.Generate(2, "-")
	pgn, err := o.PGN(pos, "White", "Black", finished, map[string]string{
		"Event":       name,
		"Termination": st.Reason,
	})
	if err != nil {
		return nil, err
	}
	return &storage.ArchivedGame{
		Name:       name,
		Variant:    pos.Variant,
		StartFEN:   pos.StartFEN,
		Moves:      pos.MoveStrings(),
		Result:     st.Result,
		Reason:     st.Reason,
		PGN:        pgn,
		FinishedAt: finished,
	}, nil
}

// moveKind classifies m using the board as it was before the move.
func moveKind(before *[rules.Files * rules.Ranks]rules.Piece, m rules.Move) MoveKind {
	mover := before[m.From]
	fileDelta := m.To.File() - m.From.File()
	switch {
	case mover.Symbol == 'K' && (fileDelta > 1 || fileDelta < -1):
		return MoveCastle
	case !before[m.To].IsNone():
		return MoveCapture
	case mover.Symbol == 'P' && fileDelta != 0:
		return MoveCapture // en passant
	default:
		return MoveQuiet
	}
}

// pgnFileName names an exported game.
func pgnFileName(variant string, t time.Time) string {
	if variant == "" {
		variant = "chess"
	}
	return fmt.Sprintf("fairyplay-%s-%s.pgn", variant, t.Format("20060102-150405"))
}
