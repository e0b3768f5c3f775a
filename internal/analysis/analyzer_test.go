package analysis

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/freeeve/uci"
)

const (
	startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
	e4FEN    = "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"
)

// fakeEngine answers every depth instantly with a fixed line.
type fakeEngine struct {
	mu      sync.Mutex
	fen     string
	fens    []string
	depths  []int
	block   chan struct{}
	started chan struct{}
	err     error
}

func (f *fakeEngine) SetFEN(fen string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fen = fen
	f.fens = append(f.fens, fen)
	return nil
}

func (f *fakeEngine) GoDepth(depth int, _ ...uint) (*uci.Results, error) {
	if f.block != nil {
		select {
		case f.started <- struct{}{}:
		default:
		}
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.depths = append(f.depths, depth)
	return &uci.Results{
		BestMove: "e2e4",
		Results: []uci.ScoreResult{
			{MultiPV: 2, Depth: depth, Score: -10, BestMoves: []string{"d2d4"}},
			{MultiPV: 1, Depth: depth, Score: 35, Nodes: 1234567, BestMoves: []string{"e2e4", "e7e5"}},
		},
	}, nil
}

func (f *fakeEngine) searchedFENs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.fens...)
}

func waitFor(t *testing.T, a *Analyzer, cond func(Update) bool) Update {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case u := <-a.Updates():
			if cond(u) {
				return u
			}
		case <-timeout:
			t.Fatalf("Timed out waiting for analysis update")
			return Update{}
		}
	}
}

func TestAnalyzerDeepens(t *testing.T) {
	eng := &fakeEngine{}
	closed := false
	a := New(eng, func() { closed = true }, 4)

	a.Analyze(startFEN)
	u := waitFor(t, a, func(u Update) bool { return u.Depth == 4 })

	if u.FEN != startFEN || u.BestMove != "e2e4" {
		t.Errorf("Unexpected update %+v", u)
	}
	if len(u.Lines) != 2 || u.Lines[0].MultiPV != 1 || u.Lines[0].Nodes != 1234567 {
		t.Errorf("Expected lines ordered by MultiPV, got %+v", u.Lines)
	}

	a.Close()
	if !closed {
		t.Errorf("Expected Close to stop the engine")
	}
	a.Close()
}

func TestAnalyzerLatestPositionWins(t *testing.T) {
	eng := &fakeEngine{block: make(chan struct{}), started: make(chan struct{}, 1)}
	a := New(eng, nil, 3)
	defer a.Close()
	defer close(eng.block)

	a.Analyze(startFEN)
	<-eng.started // blocked inside the first depth of startFEN
	a.Analyze("stale")
	a.Analyze(e4FEN)

	for i := 0; i < 2; i++ {
		eng.block <- struct{}{}
	}
	u := waitFor(t, a, func(u Update) bool { return u.FEN == e4FEN })
	if u.Depth != 1 {
		t.Errorf("Expected the new position to restart at depth 1, got %d", u.Depth)
	}

	for _, fen := range eng.searchedFENs() {
		if fen == "stale" {
			t.Errorf("Superseded request was searched")
		}
	}
}

func TestAnalyzerPause(t *testing.T) {
	eng := &fakeEngine{}
	a := New(eng, nil, 60)
	defer a.Close()

	a.Pause()
	if !a.Paused() {
		t.Fatalf("Expected analyzer to be paused")
	}
	a.Analyze(startFEN)

	select {
	case u := <-a.Updates():
		t.Fatalf("Expected no update while paused, got depth %d", u.Depth)
	case <-time.After(50 * time.Millisecond):
	}

	a.Resume()
	waitFor(t, a, func(u Update) bool { return u.FEN == startFEN })
}

func TestAnalyzerError(t *testing.T) {
	boom := errors.New("engine crashed")
	a := New(&fakeEngine{err: boom}, nil, 5)
	defer a.Close()

	a.Analyze(startFEN)
	u := waitFor(t, a, func(Update) bool { return true })
	if !errors.Is(u.Err, boom) {
		t.Errorf("Expected wrapped engine error, got %v", u.Err)
	}
}

func TestAnalyzerClosesEngineAfterSearch(t *testing.T) {
	eng := &fakeEngine{block: make(chan struct{}), started: make(chan struct{}, 1)}
	var mu sync.Mutex
	searching, closedMidSearch := false, false
	a := New(&trackingEngine{fakeEngine: eng, mu: &mu, searching: &searching}, func() {
		mu.Lock()
		closedMidSearch = searching
		mu.Unlock()
	}, 3)

	a.Analyze(startFEN)
	<-eng.started

	closed := make(chan struct{})
	go func() {
		a.Close()
		close(closed)
	}()
	select {
	case <-closed:
		t.Fatal("Close returned while the engine was still searching")
	case <-time.After(20 * time.Millisecond):
	}

	close(eng.block)
	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not return")
	}
	if closedMidSearch {
		t.Error("Engine was closed during a search")
	}
}

// trackingEngine records whether a search is running.
type trackingEngine struct {
	*fakeEngine
	mu        *sync.Mutex
	searching *bool
}

func (e *trackingEngine) GoDepth(depth int, opts ...uint) (*uci.Results, error) {
	e.mu.Lock()
	*e.searching = true
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		*e.searching = false
		e.mu.Unlock()
	}()
	return e.fakeEngine.GoDepth(depth, opts...)
}

func TestOpenWithoutEngine(t *testing.T) {
	if _, err := Open(Settings{}); !errors.Is(err, ErrNoEngine) {
		t.Errorf("Expected ErrNoEngine, got %v", err)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name        string
		line        Line
		blackToMove bool
		want        string
	}{
		{"WhiteAdvantage", Line{Score: 35}, false, "+0.35"},
		{"BlackToMoveFlipped", Line{Score: 35}, true, "-0.35"},
		{"Equal", Line{Score: 0}, false, "+0.00"},
		{"MateFor", Line{Score: 3, Mate: true}, false, "#3"},
		{"MatedAsBlack", Line{Score: -2, Mate: true}, true, "#2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatScore(tt.line, tt.blackToMove); got != tt.want {
				t.Errorf("FormatScore() = %q, want %q", got, tt.want)
			}
		})
	}

	l := Line{Depth: 12, Score: 35, PV: []string{"e2e4", "e7e5"}}
	if got := FormatLine(l, false, nil); got != "12   +0.35  e2e4 e7e5" {
		t.Errorf("FormatLine() = %q", got)
	}
	long := make([]string, 10)
	for i := range long {
		long[i] = "Nf3"
	}
	if got := FormatLine(l, false, long); len(got) == 0 || got[len(got)-3:] != "..." {
		t.Errorf("Expected truncated PV, got %q", got)
	}

	if got := FormatNodes(1234567); got != "1,234,567 nodes" {
		t.Errorf("FormatNodes() = %q", got)
	}
	if got := FormatNodes(0); got != "" {
		t.Errorf("FormatNodes(0) = %q", got)
	}
}
