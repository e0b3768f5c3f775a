package rules

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/notnil/chess"
)

// Result strings as used in PGN.
const (
	ResultWhiteWins = "1-0"
	ResultBlackWins = "0-1"
	ResultDraw      = "1/2-1/2"
	ResultOngoing   = "*"
)

// Status describes whether the game goes on and why it ended.
type Status struct {
	InCheck bool
	Over    bool
	Result  string
	Reason  string
}

// Status reports check and game-over conditions for the position. Draws
// the rules allow a player to claim (threefold repetition, fifty-move rule)
// end the game at once.
func (o *Oracle) Status(p Position) (Status, error) {
	g, err := o.replay(p)
	if err != nil {
		return Status{Result: ResultOngoing}, err
	}
	cur := g.Position()
	st := Status{Result: ResultOngoing, InCheck: inCheck(cur)}

	if g.Outcome() != chess.NoOutcome {
		st.Over = true
		st.Result = resultOf(g.Outcome())
		st.Reason = reasonOf(g.Method())
		return st, nil
	}
	for _, m := range g.EligibleDraws() {
		if m == chess.ThreefoldRepetition || m == chess.FiftyMoveRule {
			st.Over, st.Result, st.Reason = true, ResultDraw, reasonOf(m)
			break
		}
	}
	return st, nil
}

func resultOf(o chess.Outcome) string {
	switch o {
	case chess.WhiteWon:
		return ResultWhiteWins
	case chess.BlackWon:
		return ResultBlackWins
	case chess.Draw:
		return ResultDraw
	default:
		return ResultOngoing
	}
}

func reasonOf(m chess.Method) string {
	switch m {
	case chess.Checkmate:
		return "checkmate"
	case chess.Stalemate:
		return "stalemate"
	case chess.ThreefoldRepetition:
		return "threefold repetition"
	case chess.FivefoldRepetition:
		return "fivefold repetition"
	case chess.FiftyMoveRule:
		return "50-move rule"
	case chess.SeventyFiveMoveRule:
		return "75-move rule"
	case chess.InsufficientMaterial:
		return "insufficient material"
	default:
		return "agreement"
	}
}

// Describe returns a human readable result line.
func (s Status) Describe() string {
	if !s.Over {
		return ""
	}
	switch s.Result {
	case ResultWhiteWins:
		return "White wins by " + s.Reason
	case ResultBlackWins:
		return "Black wins by " + s.Reason
	default:
		return "Draw by " + s.Reason
	}
}

// PGN renders the game in Portable Game Notation. Extra tags are written in
// name order after the seven-tag roster; an "Event" entry replaces the
// default event name.
func (o *Oracle) PGN(p Position, white, black string, date time.Time, extra map[string]string) (string, error) {
	san, err := o.SAN(p)
	if err != nil {
		return "", err
	}
	st, err := o.Status(p)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	tag := func(k, v string) {
		fmt.Fprintf(&sb, "[%s \"%s\"]\n", k, strings.ReplaceAll(v, `"`, `\"`))
	}
	event := "Casual game"
	if e, ok := extra["Event"]; ok {
		event = e
	}
	tag("Event", event)
	tag("Site", "FairyPlay")
	tag("Date", date.Format("2006.01.02"))
	tag("Round", "-")
	tag("White", white)
	tag("Black", black)
	tag("Result", st.Result)
	if p.Variant != "" && p.Variant != "chess" {
		tag("Variant", p.Variant)
	}
	if p.StartFEN != StandardFEN {
		tag("SetUp", "1")
		tag("FEN", p.StartFEN)
	}
	keys := make([]string, 0, len(extra))
	for k := range extra {
		if k != "Event" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		tag(k, extra[k])
	}
	sb.WriteByte('\n')
	blackFirst, first := Numbering(p.StartFEN)
	sb.WriteString(MoveText(san, blackFirst, first))
	if len(san) > 0 {
		sb.WriteByte(' ')
	}
	sb.WriteString(st.Result)
	sb.WriteByte('\n')
	return sb.String(), nil
}

// MoveText numbers SAN moves in pairs ("1. e4 e5 2. Nf3").
func MoveText(san []string, blackFirst bool, firstNumber int) string {
	var parts []string
	num := firstNumber
	for i, m := range san {
		white := (i%2 == 0) != blackFirst
		switch {
		case white:
			parts = append(parts, fmt.Sprintf("%d.", num), m)
		case i == 0:
			parts = append(parts, fmt.Sprintf("%d...", num), m)
			num++
		default:
			parts = append(parts, m)
			num++
		}
	}
	return strings.Join(parts, " ")
}

// Numbering reports whether Black moves first in fen and the full move
// number the game starts at.
func Numbering(fen string) (blackFirst bool, first int) {
	fields := strings.Fields(fen)
	blackFirst = len(fields) > 1 && fields[1] == "b"
	first = 1
	if len(fields) >= 6 {
		if n, err := strconv.Atoi(fields[5]); err == nil && n > 0 {
			first = n
		}
	}
	return blackFirst, first
}
