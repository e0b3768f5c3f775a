package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.PromoteTo != "q" || cfg.Promotion() != 'q' {
		t.Errorf("PromoteTo = %q, want q", cfg.PromoteTo)
	}
	if !cfg.Sound {
		t.Error("sound should default to enabled")
	}
	if cfg.Engine.Hash != 64 || cfg.Engine.MultiPV != 1 || cfg.Engine.Depth != 18 {
		t.Errorf("unexpected engine defaults %+v", cfg.Engine)
	}
	if cfg.Variant != "" || cfg.Engine.Path != "" {
		t.Errorf("variant and engine path should be empty by default")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("FAIRYPLAY_VARIANT", "pawns")
	t.Setenv("FAIRYPLAY_PROMOTE_TO", "n")
	t.Setenv("FAIRYPLAY_SOUND", "false")
	t.Setenv("FAIRYPLAY_ENGINE_PATH", "/usr/games/stockfish")
	t.Setenv("FAIRYPLAY_ENGINE_ARGS", "--uci,--quiet")
	t.Setenv("FAIRYPLAY_ENGINE_MULTIPV", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Variant != "pawns" || cfg.Promotion() != 'n' || cfg.Sound {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Engine.Path != "/usr/games/stockfish" || cfg.Engine.MultiPV != 3 {
		t.Errorf("unexpected engine config %+v", cfg.Engine)
	}
	if len(cfg.Engine.Args) != 2 || cfg.Engine.Args[1] != "--quiet" {
		t.Errorf("engine args = %v", cfg.Engine.Args)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"FAIRYPLAY_PROMOTE_TO":     "k",
		"FAIRYPLAY_ENGINE_MULTIPV": "0",
		"FAIRYPLAY_ENGINE_HASH":    "lots",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Errorf("%s=%s should be rejected", key, value)
			}
		})
	}
}
