package ui

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"strings"

	"github.com/hailam/fairyplay/internal/rules"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// tokenSVG is the disc every piece is drawn on. The piece letter is drawn
// over it so any variant's piece set can be shown.
const tokenSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="100" viewBox="0 0 100 100">
  <circle cx="51" cy="53" r="41" fill="#000000" fill-opacity="0.3"/>
  <circle cx="50" cy="50" r="41" fill="%[1]s" stroke="%[2]s" stroke-width="4"/>
  <circle cx="50" cy="50" r="33" fill="none" stroke="%[2]s" stroke-width="1.5"/>
</svg>`

type tokenStyle struct {
	fill, stroke string
	letter       color.RGBA
}

var tokenStyles = map[rules.Color]tokenStyle{
	rules.White: {fill: "#f8f4ea", stroke: "#3a3a3a", letter: color.RGBA{40, 40, 40, 255}},
	rules.Black: {fill: "#2f2f33", stroke: "#d8d8d8", letter: color.RGBA{245, 245, 245, 255}},
}

// SpriteManager renders piece tokens.
type SpriteManager struct {
	tokens      map[rules.Color]*ebiten.Image
	face        *text.GoTextFace
	size        int     // Display size
	renderScale float64 // Render at higher resolution for quality
}

// NewSpriteManager creates a sprite manager for pieces of the given size.
func NewSpriteManager(size int) *SpriteManager {
	sm := &SpriteManager{
		tokens:      make(map[rules.Color]*ebiten.Image),
		face:        GetBoldFaceWithSize(float64(size) * 0.5),
		size:        size,
		renderScale: 3.0,
	}
	for c, style := range tokenStyles {
		img, err := rasterizeSVG(fmt.Sprintf(tokenSVG, style.fill, style.stroke), int(float64(size)*sm.renderScale))
		if err != nil {
			log.Printf("Failed to render %s token: %v", c, err)
			continue
		}
		sm.tokens[c] = ebiten.NewImageFromImage(img)
	}
	return sm
}

// rasterizeSVG renders an SVG document into a size x size RGBA image.
func rasterizeSVG(doc string, size int) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(strings.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	rgba := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)
	return rgba, nil
}

// DrawPieceAt draws a piece with its top-left corner at (x, y).
func (sm *SpriteManager) DrawPieceAt(screen *ebiten.Image, p rules.Piece, x, y int) {
	if p.IsNone() {
		return
	}
	if token := sm.tokens[p.Color]; token != nil {
		op := &ebiten.DrawImageOptions{}
		scale := 1.0 / sm.renderScale
		op.GeoM.Scale(scale, scale)
		op.GeoM.Translate(float64(x), float64(y))
		op.Filter = ebiten.FilterLinear
		screen.DrawImage(token, op)
	}

	half := float64(sm.size) / 2
	drawTextCentered(screen, string(p.Symbol), sm.face, float64(x)+half, float64(y)+half, tokenStyles[p.Color].letter)
}

// Size returns the size of piece sprites.
func (sm *SpriteManager) Size() int {
	return sm.size
}
