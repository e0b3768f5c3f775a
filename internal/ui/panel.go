package ui

import (
	"fmt"
	"image/color"

	"github.com/hailam/fairyplay/internal/rules"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Panel dimensions
const (
	PanelPadding  = 16
	ButtonHeight  = 32
	ButtonSpacing = 6
	SectionLabelH = 20
	MoveRowHeight = 20
	StatusBarH    = 56
	EngineAreaH   = 96
)

// Panel colors
var (
	panelBg         = color.RGBA{38, 40, 45, 255}
	tabActiveBg     = color.RGBA{76, 132, 96, 255}
	tabInactiveBg   = color.RGBA{50, 54, 60, 255}
	tabHoverBg      = color.RGBA{65, 70, 78, 255}
	buttonBg        = color.RGBA{50, 54, 60, 255}
	buttonHoverBg   = color.RGBA{65, 70, 78, 255}
	buttonPressedBg = color.RGBA{40, 44, 50, 255}
	buttonBorder    = color.RGBA{70, 75, 82, 255}
	accentColor     = color.RGBA{76, 175, 120, 255}
	accentHover     = color.RGBA{96, 195, 140, 255}
	accentPressed   = color.RGBA{56, 155, 100, 255}
	textPrimary     = color.RGBA{240, 240, 245, 255}
	textSecondary   = color.RGBA{160, 165, 175, 255}
	textMuted       = color.RGBA{120, 125, 135, 255}
	dividerColor    = color.RGBA{60, 65, 72, 255}
	moveRowAlt      = color.RGBA{44, 48, 54, 255}
	statusThinking  = color.RGBA{100, 180, 255, 255}
	statusGameOver  = color.RGBA{255, 200, 80, 255}
	statusCheck     = color.RGBA{255, 120, 110, 255}
)

// promotionLetters matches the promotion button order.
var promotionLetters = []rune{'q', 'r', 'b', 'n'}

// Button represents a clickable UI element.
type Button struct {
	X, Y, W, H int
	Label      string
	Primary    bool
	OnClick    func()
	hovered    bool
	pressed    bool
}

// Panel is the side panel with the game controls, move list, engine output
// and status line.
type Panel struct {
	game      *Game
	buttons   []*Button
	engineBtn *Button
	promotion *ButtonGroup

	promotionY int
	movesY     int

	scrollY    int
	maxScrollY int
}

// NewPanel creates a new panel for the given game.
func NewPanel(g *Game) *Panel {
	p := &Panel{game: g}
	p.createButtons()
	return p
}

// createButtons lays the buttons out in rows of two.
func (p *Panel) createButtons() {
	x := BoardSize + PanelPadding
	w := (PanelWidth - PanelPadding*2 - ButtonSpacing) / 2

	rows := [][2]*Button{
		{{Label: "New Game", Primary: true, OnClick: p.game.NewGameAction}, {Label: "Reset", OnClick: p.game.ResetAction}},
		{{Label: "Set FEN", OnClick: p.game.SetFENAction}, {Label: "Undo", OnClick: p.game.UndoAction}},
		{{Label: "Load Engine", OnClick: p.game.LoadEngineAction}, {Label: "Engine: Off", OnClick: p.game.ToggleAnalysisAction}},
		{{Label: "Flip Board", OnClick: p.game.FlipAction}, {Label: "Save PGN", OnClick: p.game.SavePGNAction}},
		{{Label: "Settings", OnClick: p.game.ShowSettings}, {Label: "Stats", OnClick: p.game.StatsAction}},
	}

	y := PanelPadding
	for _, row := range rows {
		for i, b := range row {
			b.X, b.Y, b.W, b.H = x+i*(w+ButtonSpacing), y, w, ButtonHeight
			p.buttons = append(p.buttons, b)
		}
		y += ButtonHeight + ButtonSpacing
	}
	p.engineBtn = rows[2][1]

	p.promotionY = y + 6
	groupW := (PanelWidth - PanelPadding*2) / len(promotionLetters)
	p.promotion = NewButtonGroup(x, p.promotionY+SectionLabelH, []string{"Queen", "Rook", "Bishop", "Knight"}, 0, groupW, 28)
	p.promotion.OnChange = func(i int) { p.game.SetPromotion(promotionLetters[i]) }
	for i, r := range promotionLetters {
		if r == p.game.cfg.Promotion() {
			p.promotion.Selected = i
		}
	}

	p.movesY = p.promotion.Y + p.promotion.ButtonH + 12
}

// HandleInput processes input for the panel. Returns true if input was handled.
func (p *Panel) HandleInput(input *InputHandler) bool {
	mx, my := input.MousePosition()

	if wheel := input.WheelY(); wheel != 0 && mx >= BoardSize && my >= p.movesY && my < p.movesBottom() {
		p.scrollY = max(0, min(p.scrollY-int(wheel*30), p.maxScrollY))
	}

	for _, b := range p.buttons {
		b.hovered = input.IsInBounds(b.X, b.Y, b.W, b.H)
		b.pressed = b.hovered && input.IsLeftPressed()
	}
	if p.promotion.Update(input) {
		return true
	}

	if !input.IsLeftJustPressed() {
		return false
	}
	for _, b := range p.buttons {
		if b.hovered {
			b.OnClick()
			return true
		}
	}
	return false
}

// AnyButtonHovered returns true if any button in the panel is hovered.
func (p *Panel) AnyButtonHovered() bool {
	for _, b := range p.buttons {
		if b.hovered {
			return true
		}
	}
	return p.promotion.Hovered()
}

func (p *Panel) movesBottom() int {
	return ScreenHeight - StatusBarH - EngineAreaH
}

// Draw renders the panel.
func (p *Panel) Draw(screen *ebiten.Image) {
	vector.DrawFilledRect(screen, BoardSize, 0, PanelWidth, ScreenHeight, panelBg, false)

	if p.game.AnalysisOn() {
		p.engineBtn.Label = "Engine: On"
	} else {
		p.engineBtn.Label = "Engine: Off"
	}
	for _, b := range p.buttons {
		p.drawButton(screen, b)
	}

	x := BoardSize + PanelPadding
	p.drawLabel(screen, "Promote to", x, p.promotionY)
	p.promotion.Draw(screen)

	p.drawLabel(screen, "Moves", x, p.movesY)
	p.drawMoveHistory(screen, p.movesY+SectionLabelH+4)

	p.drawEngineOutput(screen, p.movesBottom())
	p.drawStatusBar(screen)
}

func (p *Panel) drawButton(screen *ebiten.Image, b *Button) {
	bg, border, fg := buttonBg, buttonBorder, textSecondary
	if b.Primary {
		bg, border, fg = accentColor, accentPressed, textPrimary
	}
	switch {
	case b.pressed && b.Primary:
		bg = accentPressed
	case b.pressed:
		bg = buttonPressedBg
	case b.hovered && b.Primary:
		bg = accentHover
	case b.hovered:
		bg, border = buttonHoverBg, accentColor
	}
	if b == p.engineBtn && p.game.AnalysisOn() {
		bg, fg = tabActiveBg, textPrimary
	}

	vector.DrawFilledRect(screen, float32(b.X), float32(b.Y), float32(b.W), float32(b.H), bg, false)
	vector.StrokeRect(screen, float32(b.X), float32(b.Y), float32(b.W), float32(b.H), 1, border, false)
	drawTextCentered(screen, b.Label, GetRegularFace(), float64(b.X)+float64(b.W)/2, float64(b.Y)+float64(b.H)/2, fg)
}

func (p *Panel) drawLabel(screen *ebiten.Image, label string, x, y int) {
	drawText(screen, label, GetRegularFace(), float64(x), float64(y), textMuted)
}

// drawMoveHistory draws the SAN moves numbered in pairs. A game starting
// with Black to move begins with "n..." in the first row.
func (p *Panel) drawMoveHistory(screen *ebiten.Image, startY int) {
	moves := p.game.SANHistory()
	x := BoardSize + PanelPadding
	if len(moves) == 0 {
		drawText(screen, "No moves yet", GetRegularFace(), float64(x), float64(startY+5), textMuted)
		return
	}

	pos := p.game.Position()
	offset := 0
	blackFirst, firstNumber := rules.Numbering(pos.StartFEN)
	if blackFirst {
		offset = 1
	}
	rows := (len(moves) + offset + 1) / 2

	bottom := p.movesBottom() - 8
	visibleH := bottom - startY
	contentH := rows * MoveRowHeight
	p.maxScrollY = max(0, contentH-visibleH)
	p.scrollY = min(p.scrollY, p.maxScrollY)

	face := GetRegularFace()
	for row := p.scrollY / MoveRowHeight; row < rows; row++ {
		y := startY + row*MoveRowHeight - p.scrollY
		if y > bottom-MoveRowHeight {
			break
		}
		if row%2 == 1 {
			vector.DrawFilledRect(screen, float32(x-4), float32(y-2), float32(PanelWidth-PanelPadding*2+8), MoveRowHeight, moveRowAlt, false)
		}
		drawText(screen, fmt.Sprintf("%d.", firstNumber+row), face, float64(x), float64(y), textMuted)
		for col := 0; col < 2; col++ {
			i := row*2 + col - offset
			if i < 0 {
				drawText(screen, "...", face, float64(x+40), float64(y), textMuted)
				continue
			}
			if i < len(moves) {
				drawText(screen, moves[i], face, float64(x+40+col*90), float64(y), textPrimary)
			}
		}
	}

	if p.maxScrollY > 0 {
		pct := float32(p.scrollY) / float32(p.maxScrollY)
		h := max(float32(visibleH)*float32(visibleH)/float32(contentH), 20)
		y := float32(startY) + pct*(float32(visibleH)-h)
		vector.DrawFilledRect(screen, float32(BoardSize+PanelWidth-8), y, 4, h, textMuted, false)
	}
}

func (p *Panel) drawEngineOutput(screen *ebiten.Image, y int) {
	x := BoardSize + PanelPadding
	DrawDivider(screen, x, y-4, PanelWidth-PanelPadding*2)
	p.drawLabel(screen, "Engine", x, y)

	face := GetSmallFace()
	lines := p.game.AnalysisLines()
	switch {
	case !p.game.AnalysisOn():
		drawText(screen, "off", face, float64(x), float64(y+22), textMuted)
	case len(lines) == 0:
		drawText(screen, "thinking...", face, float64(x), float64(y+22), statusThinking)
	}
	for i, l := range lines {
		ly := y + 22 + i*15
		if ly > y+EngineAreaH-14 {
			break
		}
		drawText(screen, l, face, float64(x), float64(ly), textSecondary)
	}
}

func (p *Panel) drawStatusBar(screen *ebiten.Image) {
	y := ScreenHeight - StatusBarH + 8
	x := BoardSize + PanelPadding
	DrawDivider(screen, x, y-6, PanelWidth-PanelPadding*2)

	pos := p.game.Position()
	drawText(screen, "Variant: "+pos.Variant, GetRegularFace(), float64(x), float64(y), textSecondary)

	st := p.game.Status()
	text, c := "", textPrimary
	switch {
	case st.Over:
		text, c = st.Describe(), statusGameOver
	case st.InCheck:
		text, c = p.game.SideToMove().String()+" to move (check)", statusCheck
	default:
		text = p.game.SideToMove().String() + " to move"
	}
	drawText(screen, text, GetRegularFace(), float64(x), float64(y+20), c)
}
