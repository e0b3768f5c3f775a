// Package input turns square clicks into moves.
//
// The machine has two states, Idle and Selecting(origin). Step is a pure
// transition function; Machine holds the committed position and notifies a
// View after every transition that changed something.
package input

import (
	"github.com/hailam/fairyplay/internal/rules"
)

// Oracle is the rules surface the machine needs.
type Oracle interface {
	SideToMove(p rules.Position) rules.Color
	PieceAt(p rules.Position, sq rules.Square) rules.Piece
	IsLegal(p rules.Position, origin, dest rules.Square) bool
	Apply(p rules.Position, m rules.Move) (rules.Position, error)
	LegalDestinations(p rules.Position, origin rules.Square) []rules.Square
}

// View is redrawn after every successful transition.
type View interface {
	Redraw(p rules.Position, sel Selection)
}

// Phase is the machine state without its payload.
type Phase int

const (
	Idle Phase = iota
	Selecting
)

// String returns the phase name.
func (ph Phase) String() string {
	if ph == Selecting {
		return "Selecting"
	}
	return "Idle"
}

// State is Idle or Selecting(Origin).
type State struct {
	Phase  Phase
	Origin rules.Square
}

// IdleState is the state with no selection.
var IdleState = State{Phase: Idle, Origin: rules.NoSquare}

// SelectingState returns Selecting(origin).
func SelectingState(origin rules.Square) State {
	return State{Phase: Selecting, Origin: origin}
}

// Selection is what the view highlights.
type Selection struct {
	Origin       rules.Square
	Destinations []rules.Square
}

// Empty reports whether nothing is selected.
func (s Selection) Empty() bool {
	return s.Origin == rules.NoSquare
}

// Effect names what a transition did.
type Effect int

const (
	EffectNone     Effect = iota // state unchanged
	EffectSelect                 // a piece was (re)selected
	EffectCancel                 // the selection was dropped
	EffectMove                   // a move was applied
	EffectRejected               // an illegal destination was ignored
)

// String returns the effect name.
func (e Effect) String() string {
	switch e {
	case EffectSelect:
		return "select"
	case EffectCancel:
		return "cancel"
	case EffectMove:
		return "move"
	case EffectRejected:
		return "rejected"
	default:
		return "none"
	}
}

// Redraws reports whether the effect changes what the board shows.
func (e Effect) Redraws() bool {
	return e == EffectSelect || e == EffectCancel || e == EffectMove
}

// Result is the outcome of one transition.
type Result struct {
	State    State
	Position rules.Position
	Effect   Effect
	Move     rules.Move // set for EffectMove
}

// Step applies one click to (pos, s). promote is the promotion letter used
// when the move needs one; 0 lets the oracle choose.
func Step(o Oracle, pos rules.Position, s State, sq rules.Square, promote rune) Result {
	unchanged := Result{State: s, Position: pos, Effect: EffectNone, Move: rules.NoMove}
	if !sq.Valid() {
		return unchanged
	}

	ownPiece := func() bool {
		p := o.PieceAt(pos, sq)
		return !p.IsNone() && p.Color == o.SideToMove(pos)
	}

	if s.Phase == Idle {
		if ownPiece() {
			return Result{State: SelectingState(sq), Position: pos, Effect: EffectSelect, Move: rules.NoMove}
		}
		return unchanged
	}

	if sq == s.Origin {
		return Result{State: IdleState, Position: pos, Effect: EffectCancel, Move: rules.NoMove}
	}

	if o.IsLegal(pos, s.Origin, sq) {
		m := rules.Move{From: s.Origin, To: sq, Promotion: promote}
		next, err := o.Apply(pos, m)
		if err != nil && promote != 0 {
			// The chosen piece is not available here; take the oracle's default.
			m.Promotion = 0
			next, err = o.Apply(pos, m)
		}
		if err == nil {
			return Result{State: IdleState, Position: next, Effect: EffectMove, Move: next.LastMove()}
		}
	}

	if ownPiece() {
		return Result{State: SelectingState(sq), Position: pos, Effect: EffectSelect, Move: rules.NoMove}
	}
	unchanged.Effect = EffectRejected
	return unchanged
}

// Machine owns the committed position and the current selection.
type Machine struct {
	oracle    Oracle
	view      View
	position  rules.Position
	state     State
	promoteTo rune
}

// NewMachine creates an idle machine at pos. view may be nil.
func NewMachine(o Oracle, view View, pos rules.Position) *Machine {
	return &Machine{
		oracle:    o,
		view:      view,
		position:  pos,
		state:     IdleState,
		promoteTo: 'q',
	}
}

// SetPromotion sets the piece letter used for promotions.
func (m *Machine) SetPromotion(r rune) {
	m.promoteTo = r
}

// Click feeds one square click through the machine.
func (m *Machine) Click(sq rules.Square) Result {
	res := Step(m.oracle, m.position, m.state, sq, m.promoteTo)
	m.state = res.State
	m.position = res.Position
	if res.Effect.Redraws() {
		m.redraw()
	}
	return res
}

// Cancel drops the selection, if any.
func (m *Machine) Cancel() bool {
	if m.state.Phase == Idle {
		return false
	}
	m.state = IdleState
	m.redraw()
	return true
}

// Reset replaces the committed position and clears the selection.
func (m *Machine) Reset(pos rules.Position) {
	m.position = pos
	m.state = IdleState
	m.redraw()
}

// Position returns the committed position.
func (m *Machine) Position() rules.Position {
	return m.position
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Selection returns the selected square and its legal destinations.
func (m *Machine) Selection() Selection {
	if m.state.Phase != Selecting {
		return Selection{Origin: rules.NoSquare}
	}
	return Selection{
		Origin:       m.state.Origin,
		Destinations: m.oracle.LegalDestinations(m.position, m.state.Origin),
	}
}

func (m *Machine) redraw() {
	if m.view != nil {
		m.view.Redraw(m.position, m.Selection())
	}
}
