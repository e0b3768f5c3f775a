package rules

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/notnil/chess"
)

var (
	// ErrIllegalMove is returned when a move is not legal in the position.
	ErrIllegalMove = errors.New("illegal move")
	// ErrInvalidFEN is returned when a start position cannot be decoded.
	ErrInvalidFEN = errors.New("invalid FEN")
)

// Oracle answers rules questions about positions by replaying them through
// github.com/notnil/chess. Replayed positions are cached by key so the
// common case (a position one move past a cached one) costs a single update.
type Oracle struct {
	cache *ristretto.Cache[string, *chess.Position]
}

// NewOracle creates a rules oracle.
func NewOracle() (*Oracle, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, *chess.Position]{
		NumCounters: 1 << 14,
		MaxCost:     1 << 10,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create position cache: %w", err)
	}
	return &Oracle{cache: cache}, nil
}

// Close releases the position cache.
func (o *Oracle) Close() {
	o.cache.Close()
}

// ValidateFEN checks that fen describes a playable position.
func ValidateFEN(fen string) error {
	_, err := decodeFEN(fen)
	return err
}

func decodeFEN(fen string) (*chess.Position, error) {
	opt, err := chess.FEN(strings.TrimSpace(fen))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}
	pos := chess.NewGame(opt).Position()

	kings := map[chess.Color]int{}
	for _, p := range pos.Board().SquareMap() {
		if p.Type() == chess.King {
			kings[p.Color()]++
		}
	}
	if kings[chess.White] != 1 || kings[chess.Black] != 1 {
		return nil, fmt.Errorf("%w: each side needs exactly one king", ErrInvalidFEN)
	}
	return pos, nil
}

// position returns the library position for p, replaying from the closest
// cached ancestor.
func (o *Oracle) position(p Position) (*chess.Position, error) {
	key := p.Key()
	if cp, ok := o.cache.Get(key); ok {
		return cp, nil
	}

	var cp *chess.Position
	start := 0
	if n := len(p.Moves); n > 0 {
		prev := Position{StartFEN: p.StartFEN, Moves: p.Moves[:n-1]}
		if cached, ok := o.cache.Get(prev.Key()); ok {
			cp = cached
			start = n - 1
		}
	}
	if cp == nil {
		var err error
		if cp, err = decodeFEN(p.StartFEN); err != nil {
			return nil, err
		}
	}

	for _, m := range p.Moves[start:] {
		cm := findMove(cp, m)
		if cm == nil {
			return nil, fmt.Errorf("%w: %s", ErrIllegalMove, m)
		}
		cp = cp.Update(cm)
	}

	o.cache.Set(key, cp, 1)
	return cp, nil
}

// replay plays the whole game through the library's game record, which
// tracks repetitions and draw claims.
func (o *Oracle) replay(p Position) (*chess.Game, error) {
	if _, err := decodeFEN(p.StartFEN); err != nil {
		return nil, err
	}
	opt, err := chess.FEN(strings.TrimSpace(p.StartFEN))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}
	g := chess.NewGame(opt)
	for _, m := range p.Moves {
		cm := findMove(g.Position(), m)
		if cm == nil {
			return nil, fmt.Errorf("%w: %s", ErrIllegalMove, m)
		}
		if err := g.Move(cm); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrIllegalMove, m, err)
		}
	}
	return g, nil
}

// findMove returns the library move matching m, or nil.
// A move without promotion matches a queen promotion.
func findMove(cp *chess.Position, m Move) *chess.Move {
	want := chess.NoPieceType
	if m.IsPromotion() {
		want = pieceTypeFromLetter(m.Promotion)
	}
	var fallback *chess.Move
	for _, cm := range cp.ValidMoves() {
		if cm.S1() != chess.Square(m.From) || cm.S2() != chess.Square(m.To) {
			continue
		}
		if cm.Promo() == want {
			return cm
		}
		if want == chess.NoPieceType && cm.Promo() == chess.Queen {
			fallback = cm
		}
	}
	return fallback
}

// SideToMove returns the color whose turn it is.
func (o *Oracle) SideToMove(p Position) Color {
	cp, err := o.position(p)
	if err != nil {
		return NoColor
	}
	return fromChessColor(cp.Turn())
}

// PieceAt returns the piece standing on sq.
func (o *Oracle) PieceAt(p Position, sq Square) Piece {
	if !sq.Valid() {
		return NoPiece
	}
	cp, err := o.position(p)
	if err != nil {
		return NoPiece
	}
	return fromChessPiece(cp.Board().Piece(chess.Square(sq)))
}

// Board returns every square's piece, indexed by Square.
func (o *Oracle) Board(p Position) ([Files * Ranks]Piece, error) {
	var out [Files * Ranks]Piece
	for i := range out {
		out[i] = NoPiece
	}
	cp, err := o.position(p)
	if err != nil {
		return out, err
	}
	return boardOf(cp), nil
}

func boardOf(cp *chess.Position) [Files * Ranks]Piece {
	var out [Files * Ranks]Piece
	for i := range out {
		out[i] = NoPiece
	}
	for sq, piece := range cp.Board().SquareMap() {
		out[int(sq)] = fromChessPiece(piece)
	}
	return out
}

// IsLegal reports whether moving the piece on origin to dest is legal.
func (o *Oracle) IsLegal(p Position, origin, dest Square) bool {
	cp, err := o.position(p)
	if err != nil {
		return false
	}
	for _, cm := range cp.ValidMoves() {
		if cm.S1() == chess.Square(origin) && cm.S2() == chess.Square(dest) {
			return true
		}
	}
	return false
}

// Apply plays m and returns the resulting position. A promotion without an
// explicit piece promotes to a queen.
func (o *Oracle) Apply(p Position, m Move) (Position, error) {
	cp, err := o.position(p)
	if err != nil {
		return p, err
	}
	cm := findMove(cp, m)
	if cm == nil {
		return p, fmt.Errorf("%w: %s", ErrIllegalMove, m)
	}
	resolved := Move{From: m.From, To: m.To}
	if cm.Promo() != chess.NoPieceType {
		resolved.Promotion = letterFromPieceType(cm.Promo())
	}
	next := p.With(resolved)
	o.cache.Set(next.Key(), cp.Update(cm), 1)
	return next, nil
}

// LegalDestinations returns the squares the piece on origin may move to.
func (o *Oracle) LegalDestinations(p Position, origin Square) []Square {
	cp, err := o.position(p)
	if err != nil {
		return nil
	}
	var out []Square
	seen := make(map[chess.Square]bool)
	for _, cm := range cp.ValidMoves() {
		if cm.S1() != chess.Square(origin) || seen[cm.S2()] {
			continue
		}
		seen[cm.S2()] = true
		out = append(out, Square(cm.S2()))
	}
	return out
}

// LegalMoves returns every legal move in the position.
func (o *Oracle) LegalMoves(p Position) []Move {
	cp, err := o.position(p)
	if err != nil {
		return nil
	}
	valid := cp.ValidMoves()
	out := make([]Move, 0, len(valid))
	for _, cm := range valid {
		m := Move{From: Square(cm.S1()), To: Square(cm.S2())}
		if cm.Promo() != chess.NoPieceType {
			m.Promotion = letterFromPieceType(cm.Promo())
		}
		out = append(out, m)
	}
	return out
}

// FEN returns the FEN of the current position.
func (o *Oracle) FEN(p Position) (string, error) {
	cp, err := o.position(p)
	if err != nil {
		return "", err
	}
	return cp.String(), nil
}

// SAN returns the moves of the game in Standard Algebraic Notation.
func (o *Oracle) SAN(p Position) ([]string, error) {
	g, err := o.replay(p)
	if err != nil {
		return nil, err
	}
	positions, moves := g.Positions(), g.Moves()
	notation := chess.AlgebraicNotation{}
	out := make([]string, len(moves))
	for i, cm := range moves {
		out[i] = notation.Encode(positions[i], cm)
	}
	return out, nil
}

// SANLine converts a line of UCI moves played from p into SAN. Conversion
// stops at the first move that does not parse or is not legal.
func (o *Oracle) SANLine(p Position, line []string) []string {
	cp, err := o.position(p)
	if err != nil {
		return nil
	}
	notation := chess.AlgebraicNotation{}
	out := make([]string, 0, len(line))
	for _, s := range line {
		m, err := ParseMove(s)
		if err != nil {
			break
		}
		cm := findMove(cp, m)
		if cm == nil {
			break
		}
		out = append(out, notation.Encode(cp, cm))
		cp = cp.Update(cm)
	}
	return out
}

// KingSquare returns the square of c's king, or NoSquare.
func (o *Oracle) KingSquare(p Position, c Color) Square {
	board, err := o.Board(p)
	if err != nil {
		return NoSquare
	}
	for sq, piece := range board {
		if piece.Color == c && piece.Symbol == 'K' {
			return Square(sq)
		}
	}
	return NoSquare
}

func fromChessColor(c chess.Color) Color {
	switch c {
	case chess.White:
		return White
	case chess.Black:
		return Black
	default:
		return NoColor
	}
}

func fromChessPiece(p chess.Piece) Piece {
	if p == chess.NoPiece {
		return NoPiece
	}
	return Piece{Color: fromChessColor(p.Color()), Symbol: symbolFromPieceType(p.Type())}
}

func symbolFromPieceType(pt chess.PieceType) rune {
	switch pt {
	case chess.King:
		return 'K'
	case chess.Queen:
		return 'Q'
	case chess.Rook:
		return 'R'
	case chess.Bishop:
		return 'B'
	case chess.Knight:
		return 'N'
	case chess.Pawn:
		return 'P'
	default:
		return '?'
	}
}

func letterFromPieceType(pt chess.PieceType) rune {
	switch pt {
	case chess.Queen:
		return 'q'
	case chess.Rook:
		return 'r'
	case chess.Bishop:
		return 'b'
	case chess.Knight:
		return 'n'
	default:
		return 0
	}
}

func pieceTypeFromLetter(r rune) chess.PieceType {
	switch r {
	case 'q':
		return chess.Queen
	case 'r':
		return chess.Rook
	case 'b':
		return chess.Bishop
	case 'n':
		return chess.Knight
	default:
		return chess.NoPieceType
	}
}
