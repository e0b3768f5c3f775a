package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Modal colors
var (
	modalOverlay = color.RGBA{0, 0, 0, 180}
	modalBg      = color.RGBA{38, 40, 45, 255}
	modalHeader  = color.RGBA{48, 52, 58, 255}
	modalBorder  = color.RGBA{58, 62, 68, 255}
	modalError   = color.RGBA{230, 110, 100, 255}
)

const (
	modalPadX    = 24
	modalHeaderH = 44
	modalButtonW = 100
	modalButtonH = 38
)

// modalFrame is the centered box shared by every dialog.
type modalFrame struct {
	x, y, w, h int
	title      string
}

func newModalFrame(w, h int, title string) modalFrame {
	return modalFrame{
		x:     (ScreenWidth - w) / 2,
		y:     (ScreenHeight - h) / 2,
		w:     w,
		h:     h,
		title: title,
	}
}

// contentX returns the left edge of the content area.
func (f modalFrame) contentX() int {
	return f.x + modalPadX
}

// contentW returns the width of the content area.
func (f modalFrame) contentW() int {
	return f.w - modalPadX*2
}

// buttons returns the Cancel and confirm buttons at the bottom right.
func (f modalFrame) buttons(confirm string, onConfirm, onCancel func()) (ok, cancel *ModalButton) {
	const spacing = 12
	y := f.y + f.h - 20 - modalButtonH
	right := f.x + f.w - modalPadX
	ok = NewModalButton(right-modalButtonW, y, modalButtonW, modalButtonH, confirm, true, onConfirm)
	cancel = NewModalButton(right-modalButtonW*2-spacing, y, modalButtonW, modalButtonH, "Cancel", false, onCancel)
	return ok, cancel
}

func (f modalFrame) draw(screen *ebiten.Image) {
	vector.DrawFilledRect(screen, 0, 0, ScreenWidth, ScreenHeight, modalOverlay, false)
	vector.DrawFilledRect(screen, float32(f.x), float32(f.y), float32(f.w), float32(f.h), modalBg, false)
	vector.StrokeRect(screen, float32(f.x), float32(f.y), float32(f.w), float32(f.h), 2, modalBorder, false)
	vector.DrawFilledRect(screen, float32(f.x), float32(f.y), float32(f.w), modalHeaderH, modalHeader, false)
	drawTextCentered(screen, f.title, GetBoldFace(), float64(f.x)+float64(f.w)/2, float64(f.y)+modalHeaderH/2, textPrimary)
}

func (f modalFrame) drawLabel(screen *ebiten.Image, label string, y int) {
	drawText(screen, label, GetRegularFace(), float64(f.contentX()), float64(y), textMuted)
}

// PromptModal asks for one line of text. onSubmit may reject the value by
// returning an error, which is shown and keeps the dialog open.
type PromptModal struct {
	frame     modalFrame
	visible   bool
	label     string
	errMsg    string
	input     *TextInput
	okBtn     *ModalButton
	cancelBtn *ModalButton
	onSubmit  func(string) error
}

// NewPromptModal creates a hidden prompt.
func NewPromptModal() *PromptModal {
	pm := &PromptModal{frame: newModalFrame(560, 210, "")}
	f := pm.frame
	pm.input = NewTextInput(f.contentX(), f.y+84, f.contentW(), 36, "", 0)
	pm.okBtn, pm.cancelBtn = f.buttons("OK", pm.submit, pm.Hide)
	return pm
}

// Show opens the prompt with an initial value.
func (pm *PromptModal) Show(title, label, value string, onSubmit func(string) error) {
	pm.frame.title = title
	pm.label = label
	pm.errMsg = ""
	pm.input.Value = value
	pm.input.SetFocused(true)
	pm.onSubmit = onSubmit
	pm.visible = true
}

// Hide closes the prompt.
func (pm *PromptModal) Hide() {
	pm.visible = false
	pm.input.SetFocused(false)
}

// IsVisible returns true if the prompt is open.
func (pm *PromptModal) IsVisible() bool {
	return pm.visible
}

func (pm *PromptModal) submit() {
	if pm.onSubmit != nil {
		if err := pm.onSubmit(pm.input.Value); err != nil {
			pm.errMsg = err.Error()
			return
		}
	}
	pm.Hide()
}

// Update handles input while the prompt is open. It consumes all input.
func (pm *PromptModal) Update(input *InputHandler) bool {
	if !pm.visible {
		return false
	}
	if IsKeyJustPressed(ebiten.KeyEscape) {
		pm.Hide()
		return true
	}
	if IsKeyJustPressed(ebiten.KeyEnter) || IsKeyJustPressed(ebiten.KeyNumpadEnter) {
		pm.submit()
		return true
	}
	pm.input.Update(input)
	pm.okBtn.Update(input)
	pm.cancelBtn.Update(input)
	return true
}

// AnyButtonHovered returns true if a button of the prompt is hovered.
func (pm *PromptModal) AnyButtonHovered() bool {
	return pm.visible && (pm.okBtn.IsHovered() || pm.cancelBtn.IsHovered())
}

// Draw renders the prompt.
func (pm *PromptModal) Draw(screen *ebiten.Image) {
	if !pm.visible {
		return
	}
	pm.frame.draw(screen)
	pm.frame.drawLabel(screen, pm.label, pm.frame.y+60)
	pm.input.Draw(screen)
	if pm.errMsg != "" {
		drawText(screen, pm.errMsg, GetSmallFace(), float64(pm.frame.contentX()), float64(pm.input.Y+pm.input.H+6), modalError)
	}
	pm.okBtn.Draw(screen)
	pm.cancelBtn.Draw(screen)
}

// VariantModal picks the variant for a new game.
type VariantModal struct {
	frame     modalFrame
	visible   bool
	list      *OptionList
	startBtn  *ModalButton
	cancelBtn *ModalButton
	onChoose  func(string)
	describe  func(string) string
}

// NewVariantModal creates a hidden variant chooser. describe returns the
// line shown under the list for the selected variant.
func NewVariantModal(describe func(string) string) *VariantModal {
	vm := &VariantModal{frame: newModalFrame(400, 420, "New Game"), describe: describe}
	f := vm.frame
	vm.list = NewOptionList(f.contentX(), f.y+84, f.contentW(), 7)
	vm.startBtn, vm.cancelBtn = f.buttons("Start", vm.choose, vm.Hide)
	return vm
}

// Show opens the chooser with names, preselecting current.
func (vm *VariantModal) Show(names []string, current string, onChoose func(string)) {
	vm.list.SetOptions(names, current)
	vm.onChoose = onChoose
	vm.visible = true
}

// Hide closes the chooser.
func (vm *VariantModal) Hide() {
	vm.visible = false
}

// IsVisible returns true if the chooser is open.
func (vm *VariantModal) IsVisible() bool {
	return vm.visible
}

func (vm *VariantModal) choose() {
	vm.Hide()
	if v := vm.list.Value(); v != "" && vm.onChoose != nil {
		vm.onChoose(v)
	}
}

// Update handles input while the chooser is open. It consumes all input.
func (vm *VariantModal) Update(input *InputHandler) bool {
	if !vm.visible {
		return false
	}
	if IsKeyJustPressed(ebiten.KeyEscape) {
		vm.Hide()
		return true
	}
	if IsKeyJustPressed(ebiten.KeyEnter) {
		vm.choose()
		return true
	}
	vm.list.Update(input)
	vm.startBtn.Update(input)
	vm.cancelBtn.Update(input)
	return true
}

// AnyButtonHovered returns true if a button or row is hovered.
func (vm *VariantModal) AnyButtonHovered() bool {
	return vm.visible && (vm.startBtn.IsHovered() || vm.cancelBtn.IsHovered() || vm.list.hovered >= 0)
}

// Draw renders the chooser.
func (vm *VariantModal) Draw(screen *ebiten.Image) {
	if !vm.visible {
		return
	}
	vm.frame.draw(screen)
	vm.frame.drawLabel(screen, "Variant", vm.frame.y+60)
	vm.list.Draw(screen)
	if vm.describe != nil {
		desc := vm.describe(vm.list.Value())
		drawText(screen, desc, GetSmallFace(), float64(vm.frame.contentX()), float64(vm.list.Y+vm.list.Height()+10), textSecondary)
	}
	vm.startBtn.Draw(screen)
	vm.cancelBtn.Draw(screen)
}
