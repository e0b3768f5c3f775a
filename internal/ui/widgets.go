package ui

import (
	"image/color"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Widget colors (shared with panel.go)
var (
	widgetBg          = color.RGBA{48, 52, 58, 255}
	widgetBorder      = color.RGBA{68, 72, 78, 255}
	widgetFocusBorder = color.RGBA{76, 175, 120, 255}
	widgetHoverBg     = color.RGBA{65, 70, 78, 255}
	checkboxCheck     = color.RGBA{76, 175, 120, 255}
	inputTextColor    = color.RGBA{240, 240, 245, 255}
	inputPlaceholder  = color.RGBA{120, 125, 135, 255}
)

// TextInput is an editable single-line text field. Text wider than the
// field scrolls so the end stays visible.
type TextInput struct {
	X, Y, W, H  int
	Value       string
	Placeholder string
	MaxLength   int
	focused     bool
	hovered     bool
	cursorBlink int
	repeat      int
}

// NewTextInput creates a new text input widget.
func NewTextInput(x, y, w, h int, placeholder string, maxLen int) *TextInput {
	return &TextInput{
		X: x, Y: y, W: w, H: h,
		Placeholder: placeholder,
		MaxLength:   maxLen,
	}
}

// Update handles text input updates.
func (ti *TextInput) Update(input *InputHandler) bool {
	mx, my := input.MousePosition()
	ti.hovered = mx >= ti.X && mx < ti.X+ti.W && my >= ti.Y && my < ti.Y+ti.H

	if input.IsLeftJustPressed() {
		ti.focused = ti.hovered
	}
	if !ti.focused {
		return false
	}

	ti.cursorBlink = (ti.cursorBlink + 1) % 60

	for _, c := range ebiten.AppendInputChars(nil) {
		if ti.MaxLength == 0 || utf8.RuneCountInString(ti.Value) < ti.MaxLength {
			ti.Value += string(c)
		}
	}

	// Backspace repeats while held
	if ebiten.IsKeyPressed(ebiten.KeyBackspace) {
		if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) || (ti.repeat > 20 && ti.repeat%3 == 0) {
			_, size := utf8.DecodeLastRuneInString(ti.Value)
			ti.Value = ti.Value[:len(ti.Value)-size]
		}
		ti.repeat++
	} else {
		ti.repeat = 0
	}
	return true
}

// Draw renders the text input.
func (ti *TextInput) Draw(screen *ebiten.Image) {
	bgColor := widgetBg
	if ti.hovered && !ti.focused {
		bgColor = color.RGBA{52, 56, 62, 255}
	}
	vector.DrawFilledRect(screen, float32(ti.X), float32(ti.Y), float32(ti.W), float32(ti.H), bgColor, false)

	borderColor := widgetBorder
	if ti.focused {
		borderColor = widgetFocusBorder
	} else if ti.hovered {
		borderColor = accentColor
	}
	vector.StrokeRect(screen, float32(ti.X), float32(ti.Y), float32(ti.W), float32(ti.H), 2, borderColor, false)

	face := GetRegularFace()
	if face == nil {
		return
	}

	textX := float64(ti.X + 10)
	midY := float64(ti.Y + ti.H/2)
	if ti.Value == "" {
		_, h := MeasureText(ti.Placeholder, face)
		drawText(screen, ti.Placeholder, face, textX, midY-h/2, inputPlaceholder)
		if ti.focused && ti.cursorBlink < 30 {
			vector.DrawFilledRect(screen, float32(textX), float32(ti.Y+8), 2, float32(ti.H-16), inputTextColor, false)
		}
		return
	}

	shown := ti.visibleTail(face)
	w, h := MeasureText(shown, face)
	drawText(screen, shown, face, textX, midY-h/2, inputTextColor)
	if ti.focused && ti.cursorBlink < 30 {
		vector.DrawFilledRect(screen, float32(textX+w+2), float32(ti.Y+8), 2, float32(ti.H-16), inputTextColor, false)
	}
}

// visibleTail returns the longest suffix of Value that fits the field.
func (ti *TextInput) visibleTail(face *text.GoTextFace) string {
	s := ti.Value
	for len(s) > 0 {
		if w, _ := MeasureText(s, face); w <= float64(ti.W-24) {
			break
		}
		_, size := utf8.DecodeRuneInString(s)
		s = s[size:]
	}
	return s
}

// SetFocused sets the focus state.
func (ti *TextInput) SetFocused(focused bool) {
	ti.focused = focused
}

// OptionList is a vertical, scrollable list with one selected entry.
type OptionList struct {
	X, Y, W  int
	Options  []string
	Selected int
	ItemH    int
	Visible  int // rows shown at once
	scroll   int
	hovered  int
}

// NewOptionList creates a list showing up to visible rows.
func NewOptionList(x, y, w, visible int) *OptionList {
	return &OptionList{X: x, Y: y, W: w, ItemH: 30, Visible: visible, hovered: -1}
}

// SetOptions replaces the entries and selects the one equal to selected.
func (ol *OptionList) SetOptions(options []string, selected string) {
	ol.Options = options
	ol.Selected = 0
	ol.scroll = 0
	for i, o := range options {
		if o == selected {
			ol.Selected = i
		}
	}
	if ol.Selected >= ol.Visible {
		ol.scroll = ol.Selected - ol.Visible + 1
	}
}

// Value returns the selected entry.
func (ol *OptionList) Value() string {
	if ol.Selected < 0 || ol.Selected >= len(ol.Options) {
		return ""
	}
	return ol.Options[ol.Selected]
}

// Height returns the list height in pixels.
func (ol *OptionList) Height() int {
	return ol.Visible * ol.ItemH
}

// Update handles selection and scrolling. It returns true when an entry
// was clicked.
func (ol *OptionList) Update(input *InputHandler) bool {
	ol.hovered = -1
	if !input.IsInBounds(ol.X, ol.Y, ol.W, ol.Height()) {
		return false
	}

	if wheel := input.WheelY(); wheel != 0 {
		ol.scroll -= int(wheel)
		ol.scroll = max(0, min(ol.scroll, len(ol.Options)-ol.Visible))
	}

	_, my := input.MousePosition()
	i := ol.scroll + (my-ol.Y)/ol.ItemH
	if i >= len(ol.Options) {
		return false
	}
	ol.hovered = i
	if input.IsLeftJustPressed() {
		ol.Selected = i
		return true
	}
	return false
}

// Draw renders the visible rows.
func (ol *OptionList) Draw(screen *ebiten.Image) {
	face := GetRegularFace()
	vector.DrawFilledRect(screen, float32(ol.X), float32(ol.Y), float32(ol.W), float32(ol.Height()), widgetBg, false)
	vector.StrokeRect(screen, float32(ol.X), float32(ol.Y), float32(ol.W), float32(ol.Height()), 1, widgetBorder, false)

	for row := 0; row < ol.Visible; row++ {
		i := ol.scroll + row
		if i >= len(ol.Options) {
			break
		}
		y := ol.Y + row*ol.ItemH
		switch {
		case i == ol.Selected:
			vector.DrawFilledRect(screen, float32(ol.X+1), float32(y+1), float32(ol.W-2), float32(ol.ItemH-2), tabActiveBg, false)
		case i == ol.hovered:
			vector.DrawFilledRect(screen, float32(ol.X+1), float32(y+1), float32(ol.W-2), float32(ol.ItemH-2), widgetHoverBg, false)
		}
		textColor := textSecondary
		if i == ol.Selected {
			textColor = textPrimary
		}
		_, h := MeasureText(ol.Options[i], face)
		drawText(screen, ol.Options[i], face, float64(ol.X+12), float64(y+ol.ItemH/2)-h/2, textColor)
	}
}

// Checkbox is a toggleable checkbox widget.
type Checkbox struct {
	X, Y    int
	Label   string
	Checked bool
	hovered bool
}

// NewCheckbox creates a new checkbox.
func NewCheckbox(x, y int, label string, checked bool) *Checkbox {
	return &Checkbox{X: x, Y: y, Label: label, Checked: checked}
}

// Update handles checkbox input.
func (cb *Checkbox) Update(input *InputHandler) bool {
	cb.hovered = input.IsInBounds(cb.X, cb.Y, 200, 24)
	if input.IsLeftJustPressed() && cb.hovered {
		cb.Checked = !cb.Checked
		return true
	}
	return false
}

// Draw renders the checkbox.
func (cb *Checkbox) Draw(screen *ebiten.Image) {
	boxX, boxY := float32(cb.X), float32(cb.Y)
	const boxSize = 20

	bgColor := widgetBg
	if cb.hovered {
		bgColor = widgetHoverBg
	}
	vector.DrawFilledRect(screen, boxX, boxY, boxSize, boxSize, bgColor, false)

	borderC := widgetBorder
	if cb.hovered {
		borderC = accentColor
	} else if cb.Checked {
		borderC = checkboxCheck
	}
	vector.StrokeRect(screen, boxX, boxY, boxSize, boxSize, 2, borderC, false)

	if cb.Checked {
		vector.StrokeLine(screen, boxX+4, boxY+10, boxX+8, boxY+14, 2, checkboxCheck, false)
		vector.StrokeLine(screen, boxX+8, boxY+14, boxX+16, boxY+6, 2, checkboxCheck, false)
	}

	face := GetRegularFace()
	textColor := textSecondary
	if cb.Checked {
		textColor = textPrimary
	}
	_, h := MeasureText(cb.Label, face)
	drawText(screen, cb.Label, face, float64(cb.X+30), float64(cb.Y+10)-h/2, textColor)
}

// ButtonGroup is a horizontal group of toggle buttons.
type ButtonGroup struct {
	X, Y     int
	Options  []string
	Selected int
	ButtonW  int
	ButtonH  int
	OnChange func(i int)
	hovered  int
	pressed  int
}

// NewButtonGroup creates a new button group.
func NewButtonGroup(x, y int, options []string, selected int, buttonW, buttonH int) *ButtonGroup {
	return &ButtonGroup{
		X:        x,
		Y:        y,
		Options:  options,
		Selected: selected,
		ButtonW:  buttonW,
		ButtonH:  buttonH,
		hovered:  -1,
		pressed:  -1,
	}
}

// Update handles button group input.
func (bg *ButtonGroup) Update(input *InputHandler) bool {
	bg.hovered, bg.pressed = -1, -1
	for i := range bg.Options {
		if !input.IsInBounds(bg.X+i*bg.ButtonW, bg.Y, bg.ButtonW, bg.ButtonH) {
			continue
		}
		bg.hovered = i
		if input.IsLeftPressed() {
			bg.pressed = i
		}
		if input.IsLeftJustPressed() {
			bg.Selected = i
			if bg.OnChange != nil {
				bg.OnChange(i)
			}
			return true
		}
	}
	return false
}

// Hovered reports whether a button of the group is under the mouse.
func (bg *ButtonGroup) Hovered() bool {
	return bg.hovered >= 0
}

// Draw renders the button group.
func (bg *ButtonGroup) Draw(screen *ebiten.Image) {
	face := GetRegularFace()
	for i, label := range bg.Options {
		btnX := bg.X + i*bg.ButtonW
		isSelected := i == bg.Selected

		bgColor := tabInactiveBg
		switch {
		case isSelected:
			bgColor = tabActiveBg
		case i == bg.pressed:
			bgColor = buttonPressedBg
		case i == bg.hovered:
			bgColor = tabHoverBg
		}
		vector.DrawFilledRect(screen, float32(btnX), float32(bg.Y), float32(bg.ButtonW), float32(bg.ButtonH), bgColor, false)

		border := buttonBorder
		if isSelected {
			border = tabActiveBg
		} else if i == bg.hovered {
			border = accentColor
		}
		vector.StrokeRect(screen, float32(btnX), float32(bg.Y), float32(bg.ButtonW), float32(bg.ButtonH), 1, border, false)

		textColor := textSecondary
		if isSelected {
			textColor = textPrimary
		}
		drawTextCentered(screen, label, face, float64(btnX)+float64(bg.ButtonW)/2, float64(bg.Y)+float64(bg.ButtonH)/2, textColor)
	}
}

// ModalButton is a button for modal dialogs.
type ModalButton struct {
	X, Y, W, H int
	Label      string
	Primary    bool
	OnClick    func()
	hovered    bool
	pressed    bool
}

// NewModalButton creates a new modal button.
func NewModalButton(x, y, w, h int, label string, primary bool, onClick func()) *ModalButton {
	return &ModalButton{
		X: x, Y: y, W: w, H: h,
		Label:   label,
		Primary: primary,
		OnClick: onClick,
	}
}

// IsHovered returns true if the button is hovered.
func (mb *ModalButton) IsHovered() bool {
	return mb.hovered
}

// Update handles modal button input.
func (mb *ModalButton) Update(input *InputHandler) bool {
	mb.hovered = input.IsInBounds(mb.X, mb.Y, mb.W, mb.H)
	mb.pressed = input.IsLeftPressed() && mb.hovered

	if input.IsLeftJustPressed() && mb.hovered && mb.OnClick != nil {
		mb.OnClick()
		return true
	}
	return false
}

// Draw renders the modal button.
func (mb *ModalButton) Draw(screen *ebiten.Image) {
	var bgColor, borderC color.RGBA
	if mb.Primary {
		bgColor, borderC = accentColor, accentPressed
		if mb.pressed {
			bgColor = accentPressed
		} else if mb.hovered {
			bgColor, borderC = accentHover, color.RGBA{116, 215, 160, 255}
		}
	} else {
		bgColor, borderC = buttonBg, widgetBorder
		if mb.pressed {
			bgColor = buttonPressedBg
		} else if mb.hovered {
			bgColor, borderC = buttonHoverBg, accentColor
		}
	}

	vector.DrawFilledRect(screen, float32(mb.X), float32(mb.Y), float32(mb.W), float32(mb.H), bgColor, false)
	vector.StrokeRect(screen, float32(mb.X), float32(mb.Y), float32(mb.W), float32(mb.H), 1, borderC, false)
	drawTextCentered(screen, mb.Label, GetRegularFace(), float64(mb.X)+float64(mb.W)/2, float64(mb.Y)+float64(mb.H)/2, textPrimary)
}

// DrawDivider draws a horizontal divider line.
func DrawDivider(screen *ebiten.Image, x, y, w int) {
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), 1, dividerColor, false)
}
