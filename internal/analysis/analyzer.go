// Package analysis runs an external UCI engine in the background and
// publishes its evaluation of the position on the board.
package analysis

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/freeeve/uci"
)

// ErrNoEngine is returned when analysis is requested without an engine path.
var ErrNoEngine = errors.New("no engine configured")

// Settings configures the engine process.
type Settings struct {
	Path    string
	Args    []string
	Hash    int
	MultiPV int
	Depth   int
}

// Searcher is the part of *uci.Engine the analyzer drives.
type Searcher interface {
	SetFEN(fen string) error
	GoDepth(depth int, resultOpts ...uint) (*uci.Results, error)
}

// Line is one principal variation reported by the engine. Score is in
// centipawns (or moves to mate when Mate is set) from the side to move.
type Line struct {
	MultiPV int
	Depth   int
	Score   int
	Mate    bool
	Nodes   int
	PV      []string
}

// Update is published after every completed search depth.
type Update struct {
	FEN      string
	Depth    int
	BestMove string
	Lines    []Line
	Err      error
}

// Analyzer owns a Searcher on a single worker goroutine. Requests are
// coalesced: only the most recent position is searched.
type Analyzer struct {
	engine   Searcher
	closeFn  func()
	maxDepth int

	requests chan string
	resume   chan struct{}
	updates  chan Update
	done     chan struct{}
	paused   atomic.Bool

	closeOnce sync.Once
	wg        sync.WaitGroup
}

// Open starts the engine at s.Path and returns an analyzer driving it.
func Open(s Settings) (*Analyzer, error) {
	if s.Path == "" {
		return nil, ErrNoEngine
	}
	eng, err := uci.NewEngine(s.Path, s.Args...)
	if err != nil {
		return nil, fmt.Errorf("start engine %s: %w", s.Path, err)
	}
	err = eng.SetOptions(uci.Options{
		MultiPV: max(s.MultiPV, 1),
		Hash:    max(s.Hash, 1),
		Ponder:  false,
		OwnBook: false,
	})
	if err != nil {
		eng.Close()
		return nil, fmt.Errorf("configure engine: %w", err)
	}
	log.Printf("[ANALYSIS] Engine started: %s (hash %d MB, multipv %d)", s.Path, s.Hash, s.MultiPV)
	return New(eng, func() { eng.Close() }, s.Depth), nil
}

// New starts an analyzer over an already running searcher. closeFn, if not
// nil, is called once on the worker goroutine after Close.
func New(engine Searcher, closeFn func(), maxDepth int) *Analyzer {
	if maxDepth < 1 {
		maxDepth = 1
	}
	a := &Analyzer{
		engine:   engine,
		closeFn:  closeFn,
		maxDepth: maxDepth,
		requests: make(chan string, 1),
		resume:   make(chan struct{}, 1),
		updates:  make(chan Update, 1),
		done:     make(chan struct{}),
	}
	a.wg.Add(1)
	go a.run()
	return a
}

// Analyze asks for fen to be searched, replacing any pending request.
func (a *Analyzer) Analyze(fen string) {
	select {
	case <-a.requests:
	default:
	}
	select {
	case a.requests <- fen:
	case <-a.done:
	}
}

// Updates returns the channel results are published on. Only the newest
// undelivered update is kept.
func (a *Analyzer) Updates() <-chan Update {
	return a.updates
}

// Pause stops searching after the current depth completes.
func (a *Analyzer) Pause() {
	a.paused.Store(true)
}

// Resume continues a paused search.
func (a *Analyzer) Resume() {
	a.paused.Store(false)
	select {
	case a.resume <- struct{}{}:
	default:
	}
}

// Paused reports whether analysis is paused.
func (a *Analyzer) Paused() bool {
	return a.paused.Load()
}

// Close stops the worker and waits for it to shut the engine down. A search
// in progress finishes its current depth first.
func (a *Analyzer) Close() {
	a.closeOnce.Do(func() {
		close(a.done)
		a.wg.Wait()
	})
}

// run owns the engine: it is the only goroutine that searches with it or
// closes it.
func (a *Analyzer) run() {
	defer a.wg.Done()
	defer func() {
		if a.closeFn != nil {
			a.closeFn()
		}
	}()

	pending := ""
	for {
		fen := pending
		if fen == "" {
			select {
			case <-a.done:
				return
			case fen = <-a.requests:
			}
		}
		pending = a.search(fen)
	}
}

// search deepens on fen until maxDepth, returning a newer request that
// interrupted it (or "" when finished).
func (a *Analyzer) search(fen string) string {
	if err := a.engine.SetFEN(fen); err != nil {
		a.publish(Update{FEN: fen, Err: fmt.Errorf("set position: %w", err)})
		return ""
	}

	for depth := 1; depth <= a.maxDepth; depth++ {
		if next, stop := a.interrupted(); stop {
			return next
		}

		res, err := a.engine.GoDepth(depth, uci.HighestDepthOnly)
		if err != nil {
			select {
			case <-a.done:
			default:
				a.publish(Update{FEN: fen, Depth: depth, Err: fmt.Errorf("search depth %d: %w", depth, err)})
			}
			return ""
		}
		a.publish(toUpdate(fen, depth, res))
	}
	return ""
}

// interrupted waits out a pause and reports whether the current search must
// stop, either for shutdown or for a newer position.
func (a *Analyzer) interrupted() (string, bool) {
	for {
		select {
		case <-a.done:
			return "", true
		case next := <-a.requests:
			return next, true
		default:
		}
		if !a.paused.Load() {
			return "", false
		}
		select {
		case <-a.done:
			return "", true
		case next := <-a.requests:
			return next, true
		case <-a.resume:
		}
	}
}

func (a *Analyzer) publish(u Update) {
	select {
	case a.updates <- u:
		return
	default:
	}
	// Replace the stale update.
	select {
	case <-a.updates:
	default:
	}
	select {
	case a.updates <- u:
	default:
	}
}

func toUpdate(fen string, depth int, res *uci.Results) Update {
	u := Update{FEN: fen, Depth: depth}
	if res == nil {
		return u
	}
	u.BestMove = res.BestMove
	for _, r := range res.Results {
		u.Lines = append(u.Lines, Line{
			MultiPV: r.MultiPV,
			Depth:   r.Depth,
			Score:   r.Score,
			Mate:    r.Mate,
			Nodes:   r.Nodes,
			PV:      r.BestMoves,
		})
	}
	sortLines(u.Lines)
	return u
}
