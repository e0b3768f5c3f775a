package ui

import (
	"strings"
	"testing"

	"github.com/hailam/fairyplay/internal/config"
	"github.com/hailam/fairyplay/internal/storage"
)

func TestParseEngineLimits(t *testing.T) {
	tests := []struct {
		name                 string
		hash, multiPV, depth string
		want                 engineLimits
		wantErr              string
	}{
		{"Valid", "128", "3", "20", engineLimits{Hash: 128, MultiPV: 3, Depth: 20}, ""},
		{"Spaces", " 64 ", "1", " 18", engineLimits{Hash: 64, MultiPV: 1, Depth: 18}, ""},
		{"NotANumber", "lots", "1", "18", engineLimits{}, "Hash must be a number"},
		{"TooManyLines", "64", "9", "18", engineLimits{}, "MultiPV must be at most 8"},
		{"ZeroDepth", "64", "1", "0", engineLimits{}, "Depth must be at least 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseEngineLimits(tt.hash, tt.multiPV, tt.depth)
			if tt.wantErr != "" {
				if err == nil || err.Error() != tt.wantErr {
					t.Errorf("Expected error %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseEngineLimits failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestEffectiveLimits(t *testing.T) {
	cfg := &config.Configuration{}
	cfg.Engine.Hash, cfg.Engine.MultiPV, cfg.Engine.Depth = 64, 1, 18

	prefs := storage.DefaultPreferences()
	if got := effectiveLimits(cfg, prefs); got != (engineLimits{Hash: 64, MultiPV: 1, Depth: 18}) {
		t.Errorf("Expected configured limits, got %+v", got)
	}

	prefs.EngineMultiPV = 4
	if got := effectiveLimits(cfg, prefs); got != (engineLimits{Hash: 64, MultiPV: 4, Depth: 18}) {
		t.Errorf("Expected saved MultiPV to win, got %+v", got)
	}
}

func TestSettingsSave(t *testing.T) {
	sm := NewSettingsModal()
	var saved *storage.Preferences
	prefs := storage.DefaultPreferences()
	sm.Show(prefs, engineLimits{Hash: 64, MultiPV: 1, Depth: 18}, func(p *storage.Preferences) { saved = p })

	sm.multiPV.Value = "12"
	sm.handleSave()
	if saved != nil || !sm.IsVisible() {
		t.Fatal("Invalid limits should keep the modal open")
	}
	if !strings.Contains(sm.errMsg, "MultiPV") {
		t.Errorf("Expected a MultiPV error, got %q", sm.errMsg)
	}

	sm.multiPV.Value = "2"
	sm.hash.Value = "256"
	sm.handleSave()
	if saved == nil || sm.IsVisible() {
		t.Fatal("Expected the preferences to be saved")
	}
	if saved.EngineHash != 256 || saved.EngineMultiPV != 2 || saved.EngineDepth != 18 {
		t.Errorf("Unexpected saved limits %+v", saved)
	}
	if prefs.EngineHash != 0 {
		t.Error("Save should not modify the shown preferences")
	}
}
