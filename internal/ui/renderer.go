package ui

import (
	"image/color"

	"github.com/hailam/fairyplay/internal/input"
	"github.com/hailam/fairyplay/internal/rules"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Theme defines the color scheme for the board.
type Theme struct {
	LightSquare    color.RGBA
	DarkSquare     color.RGBA
	SelectedSquare color.RGBA
	LegalMoveColor color.RGBA
	CaptureColor   color.RGBA
	LastMoveColor  color.RGBA
	CheckColor     color.RGBA
	Background     color.RGBA
	TextColor      color.RGBA
}

// DefaultTheme returns the default color theme.
func DefaultTheme() *Theme {
	return &Theme{
		LightSquare:    color.RGBA{240, 217, 181, 255},
		DarkSquare:     color.RGBA{181, 136, 99, 255},
		SelectedSquare: color.RGBA{247, 247, 105, 180},
		LegalMoveColor: color.RGBA{130, 151, 105, 200},
		CaptureColor:   color.RGBA{200, 70, 60, 200},
		LastMoveColor:  color.RGBA{180, 190, 100, 90},
		CheckColor:     color.RGBA{255, 100, 100, 180},
		Background:     color.RGBA{40, 44, 52, 255},
		TextColor:      color.RGBA{220, 220, 220, 255},
	}
}

// Renderer handles all drawing operations on the board.
type Renderer struct {
	boardGeometry
	sprites *SpriteManager
	theme   *Theme
}

// NewRenderer creates a new renderer.
func NewRenderer(boardSize, squareSize int) *Renderer {
	return &Renderer{
		boardGeometry: boardGeometry{boardSize: boardSize, squareSize: squareSize},
		sprites:       NewSpriteManager(squareSize),
		theme:         DefaultTheme(),
	}
}

// SetFlipped sets whether Black is drawn at the bottom.
func (r *Renderer) SetFlipped(flipped bool) {
	r.flipped = flipped
}

// Flipped reports whether the board is drawn from Black's side.
func (r *Renderer) Flipped() bool {
	return r.flipped
}

// DrawBoard draws the squares and the coordinate labels.
func (r *Renderer) DrawBoard(screen *ebiten.Image) {
	size := float32(r.squareSize)
	for sq := rules.Square(0); sq < rules.Files*rules.Ranks; sq++ {
		c := r.theme.LightSquare
		if (sq.File()+sq.Rank())%2 == 0 {
			c = r.theme.DarkSquare
		}
		x, y := r.SquareToScreen(sq)
		vector.DrawFilledRect(screen, float32(x), float32(y), size, size, c, false)
	}
	r.drawCoordinates(screen)
}

// drawCoordinates labels files along the bottom edge and ranks along the
// left edge, in the opposite square color.
func (r *Renderer) drawCoordinates(screen *ebiten.Image) {
	face := GetSmallFace()
	for i := 0; i < rules.Files; i++ {
		// Bottom row
		sq := r.ScreenToSquare(i*r.squareSize, r.boardSize-1)
		x, y := r.SquareToScreen(sq)
		drawText(screen, string(rune('a'+sq.File())), face,
			float64(x+r.squareSize-10), float64(y+r.squareSize-15), r.labelColor(sq))

		// Left column
		sq = r.ScreenToSquare(0, i*r.squareSize)
		x, y = r.SquareToScreen(sq)
		drawText(screen, string(rune('1'+sq.Rank())), face, float64(x+3), float64(y+2), r.labelColor(sq))
	}
}

func (r *Renderer) labelColor(sq rules.Square) color.RGBA {
	if (sq.File()+sq.Rank())%2 == 0 {
		return r.theme.LightSquare
	}
	return r.theme.DarkSquare
}

// DrawHighlights draws the last move, the selected square and its legal
// destinations: a dot for an empty target, a ring for a capture.
func (r *Renderer) DrawHighlights(screen *ebiten.Image, sel input.Selection, lastMove rules.Move, pieces *[rules.Files * rules.Ranks]rules.Piece) {
	if lastMove != rules.NoMove {
		r.highlightSquare(screen, lastMove.From, r.theme.LastMoveColor)
		r.highlightSquare(screen, lastMove.To, r.theme.LastMoveColor)
	}

	if sel.Empty() {
		return
	}
	r.highlightSquare(screen, sel.Origin, r.theme.SelectedSquare)
	for _, sq := range sel.Destinations {
		if pieces != nil && !pieces[sq].IsNone() {
			r.drawCaptureRing(screen, sq)
		} else {
			r.drawMoveDot(screen, sq)
		}
	}
}

// DrawCheck highlights the king's square if in check.
func (r *Renderer) DrawCheck(screen *ebiten.Image, kingSq rules.Square) {
	r.highlightSquare(screen, kingSq, r.theme.CheckColor)
}

func (r *Renderer) highlightSquare(screen *ebiten.Image, sq rules.Square, c color.RGBA) {
	if !sq.Valid() {
		return
	}
	x, y := r.SquareToScreen(sq)
	size := float32(r.squareSize)
	vector.DrawFilledRect(screen, float32(x), float32(y), size, size, c, false)
}

func (r *Renderer) squareCenter(sq rules.Square) (float32, float32) {
	x, y := r.SquareToScreen(sq)
	half := float32(r.squareSize) / 2
	return float32(x) + half, float32(y) + half
}

func (r *Renderer) drawMoveDot(screen *ebiten.Image, sq rules.Square) {
	cx, cy := r.squareCenter(sq)
	vector.DrawFilledCircle(screen, cx, cy, float32(r.squareSize)*0.15, r.theme.LegalMoveColor, true)
}

func (r *Renderer) drawCaptureRing(screen *ebiten.Image, sq rules.Square) {
	cx, cy := r.squareCenter(sq)
	size := float32(r.squareSize)
	vector.StrokeCircle(screen, cx, cy, size*0.45, size*0.07, r.theme.CaptureColor, true)
}

// DrawPieces draws every piece, shaking the ones with an active animation.
func (r *Renderer) DrawPieces(screen *ebiten.Image, pieces *[rules.Files * rules.Ranks]rules.Piece, anims *AnimationManager) {
	for i, p := range pieces {
		if p.IsNone() {
			continue
		}
		sq := rules.Square(i)
		x, y := r.SquareToScreen(sq)
		if anims != nil {
			dx, dy := anims.GetShakeOffset(sq)
			x += int(dx)
			y += int(dy)
		}
		r.sprites.DrawPieceAt(screen, p, x, y)
	}
}

// SquareSize returns the size of one square in pixels.
func (r *Renderer) SquareSize() int {
	return r.squareSize
}

// Theme returns the current theme.
func (r *Renderer) Theme() *Theme {
	return r.theme
}
