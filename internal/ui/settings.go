package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hailam/fairyplay/internal/config"
	"github.com/hailam/fairyplay/internal/storage"
	"github.com/hajimehoshi/ebiten/v2"
)

// Settings modal dimensions
const (
	SettingsWidth  = 460
	SettingsHeight = 480
)

// engineLimits are the engine options editable in the settings modal.
type engineLimits struct {
	Hash    int `validate:"min=1,max=4096"`
	MultiPV int `validate:"min=1,max=8"`
	Depth   int `validate:"min=1,max=60"`
}

// parseEngineLimits reads the three number fields of the settings modal.
func parseEngineLimits(hash, multiPV, depth string) (engineLimits, error) {
	var l engineLimits
	fields := []struct {
		name string
		text string
		dst  *int
	}{
		{"Hash", hash, &l.Hash},
		{"MultiPV", multiPV, &l.MultiPV},
		{"Depth", depth, &l.Depth},
	}
	for _, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f.text))
		if err != nil {
			return l, fmt.Errorf("%s must be a number", f.name)
		}
		*f.dst = n
	}

	err := validator.New().Struct(l)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return l, fmt.Errorf("%s must be at %s %s", fe.Field(), boundWord(fe.Tag()), fe.Param())
	}
	return l, err
}

// effectiveLimits returns the engine limits in use: values saved from the
// settings modal, else the configuration.
func effectiveLimits(cfg *config.Configuration, prefs *storage.Preferences) engineLimits {
	l := engineLimits{Hash: cfg.Engine.Hash, MultiPV: cfg.Engine.MultiPV, Depth: cfg.Engine.Depth}
	if prefs.EngineHash > 0 {
		l.Hash = prefs.EngineHash
	}
	if prefs.EngineMultiPV > 0 {
		l.MultiPV = prefs.EngineMultiPV
	}
	if prefs.EngineDepth > 0 {
		l.Depth = prefs.EngineDepth
	}
	return l
}

func boundWord(tag string) string {
	if tag == "max" {
		return "most"
	}
	return "least"
}

// SettingsModal edits the engine, the variants file and sound.
type SettingsModal struct {
	frame   modalFrame
	visible bool

	enginePath    *TextInput
	engineArgs    *TextInput
	variantsFile  *TextInput
	hash          *TextInput
	multiPV       *TextInput
	depth         *TextInput
	soundCheckbox *Checkbox
	errMsg        string
	saveBtn       *ModalButton
	cancelBtn     *ModalButton

	onSave func(prefs *storage.Preferences)
	prefs  *storage.Preferences
}

// NewSettingsModal creates a new settings modal.
func NewSettingsModal() *SettingsModal {
	sm := &SettingsModal{frame: newModalFrame(SettingsWidth, SettingsHeight, "Settings")}
	f := sm.frame
	x, w := f.contentX(), f.contentW()

	sm.enginePath = NewTextInput(x, f.y+80, w, 34, "Path to a UCI engine", 0)
	sm.engineArgs = NewTextInput(x, f.y+150, w, 34, "Engine arguments (space separated)", 0)
	sm.variantsFile = NewTextInput(x, f.y+220, w, 34, "Path to a variants YAML file", 0)
	third := (w - 2*12) / 3
	sm.hash = NewTextInput(x, f.y+290, third, 34, "MB", 5)
	sm.multiPV = NewTextInput(x+third+12, f.y+290, third, 34, "lines", 1)
	sm.depth = NewTextInput(x+2*(third+12), f.y+290, third, 34, "plies", 2)
	sm.soundCheckbox = NewCheckbox(x, f.y+342, "Sound Effects", true)
	sm.saveBtn, sm.cancelBtn = f.buttons("Save", sm.handleSave, sm.Hide)
	return sm
}

// Show displays the settings modal with the given preferences and the
// engine limits currently in effect.
func (sm *SettingsModal) Show(prefs *storage.Preferences, limits engineLimits, onSave func(*storage.Preferences)) {
	sm.prefs = prefs
	sm.onSave = onSave
	sm.errMsg = ""
	sm.hash.Value = strconv.Itoa(limits.Hash)
	sm.multiPV.Value = strconv.Itoa(limits.MultiPV)
	sm.depth.Value = strconv.Itoa(limits.Depth)

	sm.enginePath.Value = prefs.EnginePath
	sm.engineArgs.Value = strings.Join(prefs.EngineArgs, " ")
	sm.variantsFile.Value = prefs.VariantsFile
	sm.soundCheckbox.Checked = prefs.SoundEnabled
	sm.visible = true
}

// Hide closes the settings modal.
func (sm *SettingsModal) Hide() {
	sm.visible = false
	sm.enginePath.SetFocused(false)
	sm.engineArgs.SetFocused(false)
	sm.variantsFile.SetFocused(false)
	sm.hash.SetFocused(false)
	sm.multiPV.SetFocused(false)
	sm.depth.SetFocused(false)
}

// IsVisible returns true if the modal is visible.
func (sm *SettingsModal) IsVisible() bool {
	return sm.visible
}

// handleSave hands a modified copy of the preferences to onSave. Invalid
// engine limits keep the modal open.
func (sm *SettingsModal) handleSave() {
	limits, err := parseEngineLimits(sm.hash.Value, sm.multiPV.Value, sm.depth.Value)
	if err != nil {
		sm.errMsg = err.Error()
		return
	}

	prefs := *sm.prefs
	prefs.EngineHash = limits.Hash
	prefs.EngineMultiPV = limits.MultiPV
	prefs.EngineDepth = limits.Depth
	prefs.EnginePath = strings.TrimSpace(sm.enginePath.Value)
	prefs.EngineArgs = strings.Fields(sm.engineArgs.Value)
	prefs.VariantsFile = strings.TrimSpace(sm.variantsFile.Value)
	prefs.SoundEnabled = sm.soundCheckbox.Checked

	sm.Hide()
	if sm.onSave != nil {
		sm.onSave(&prefs)
	}
}

// Update handles input for the settings modal.
func (sm *SettingsModal) Update(input *InputHandler) bool {
	if !sm.visible {
		return false
	}
	if IsKeyJustPressed(ebiten.KeyEscape) {
		sm.Hide()
		return true
	}
	if IsKeyJustPressed(ebiten.KeyEnter) {
		sm.handleSave()
		return true
	}

	sm.enginePath.Update(input)
	sm.engineArgs.Update(input)
	sm.variantsFile.Update(input)
	sm.hash.Update(input)
	sm.multiPV.Update(input)
	sm.depth.Update(input)
	sm.soundCheckbox.Update(input)
	sm.saveBtn.Update(input)
	sm.cancelBtn.Update(input)

	// Modal consumes all input
	return true
}

// AnyButtonHovered returns true if any button in the modal is hovered.
func (sm *SettingsModal) AnyButtonHovered() bool {
	if !sm.visible {
		return false
	}
	return sm.saveBtn.IsHovered() || sm.cancelBtn.IsHovered() || sm.soundCheckbox.hovered
}

// Draw renders the settings modal.
func (sm *SettingsModal) Draw(screen *ebiten.Image) {
	if !sm.visible {
		return
	}
	sm.frame.draw(screen)
	sm.frame.drawLabel(screen, "Engine", sm.enginePath.Y-22)
	sm.frame.drawLabel(screen, "Engine Arguments", sm.engineArgs.Y-22)
	sm.frame.drawLabel(screen, "Variants File", sm.variantsFile.Y-22)
	for _, l := range []struct {
		text  string
		input *TextInput
	}{{"Hash (MB)", sm.hash}, {"MultiPV", sm.multiPV}, {"Depth", sm.depth}} {
		drawText(screen, l.text, GetRegularFace(), float64(l.input.X), float64(l.input.Y-22), textMuted)
	}

	sm.enginePath.Draw(screen)
	sm.engineArgs.Draw(screen)
	sm.variantsFile.Draw(screen)
	sm.hash.Draw(screen)
	sm.multiPV.Draw(screen)
	sm.depth.Draw(screen)
	sm.soundCheckbox.Draw(screen)
	if sm.errMsg != "" {
		drawText(screen, sm.errMsg, GetSmallFace(), float64(sm.frame.contentX()), float64(sm.soundCheckbox.Y+34), modalError)
	}
	sm.saveBtn.Draw(screen)
	sm.cancelBtn.Draw(screen)
}
