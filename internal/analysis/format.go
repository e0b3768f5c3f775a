package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
)

// maxPVMoves limits how much of a variation is shown.
const maxPVMoves = 8

func sortLines(lines []Line) {
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].MultiPV < lines[j].MultiPV
	})
}

// FormatScore renders a score from White's point of view: "#3" / "#-2" for
// mates, "+0.35" for centipawns.
func FormatScore(l Line, blackToMove bool) string {
	score := l.Score
	if blackToMove {
		score = -score
	}
	if l.Mate {
		return fmt.Sprintf("#%d", score)
	}
	return fmt.Sprintf("%+.2f", float64(score)/100)
}

// FormatLine renders "depth  score  pv" for display. pv is the variation in
// whatever notation the caller prefers; nil uses the engine's UCI moves.
func FormatLine(l Line, blackToMove bool, pv []string) string {
	if pv == nil {
		pv = l.PV
	}
	more := ""
	if len(pv) > maxPVMoves {
		pv = pv[:maxPVMoves]
		more = " ..."
	}
	return fmt.Sprintf("%2d  %6s  %s%s", l.Depth, FormatScore(l, blackToMove), strings.Join(pv, " "), more)
}

// FormatNodes renders a node count, e.g. "1,234,567 nodes".
func FormatNodes(nodes int) string {
	if nodes <= 0 {
		return ""
	}
	return humanize.Comma(int64(nodes)) + " nodes"
}
