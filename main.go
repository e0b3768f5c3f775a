// FairyPlay - a chess variant board built with Ebitengine
package main

import (
	"log"

	"github.com/hailam/fairyplay/internal/config"
	"github.com/hailam/fairyplay/internal/rules"
	"github.com/hailam/fairyplay/internal/storage"
	"github.com/hailam/fairyplay/internal/ui"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	variants := rules.NewRegistry()
	if cfg.VariantsFile != "" {
		names, err := variants.LoadFile(cfg.VariantsFile)
		if err != nil {
			log.Fatalf("variants: %v", err)
		}
		log.Printf("[VARIANTS] Loaded %d variants from %s", len(names), cfg.VariantsFile)
	}

	oracle, err := rules.NewOracle()
	if err != nil {
		log.Fatalf("rules: %v", err)
	}
	defer oracle.Close()

	store, err := storage.NewStorage(cfg.DataDir)
	if err != nil {
		log.Printf("Warning: storage unavailable, settings will not persist: %v", err)
		store = nil
	}

	game := ui.NewGame(ui.Options{
		Config:   cfg,
		Oracle:   oracle,
		Variants: variants,
		Storage:  store,
	})
	defer game.Close()

	ebiten.SetWindowSize(ui.ScreenWidth, ui.ScreenHeight)
	ebiten.SetWindowTitle("FairyPlay")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
