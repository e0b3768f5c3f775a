package ui

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/hailam/fairyplay/internal/analysis"
	"github.com/hailam/fairyplay/internal/config"
	"github.com/hailam/fairyplay/internal/input"
	"github.com/hailam/fairyplay/internal/rules"
	"github.com/hailam/fairyplay/internal/storage"
	"github.com/hajimehoshi/ebiten/v2"
)

// UI Constants
const (
	ScreenWidth  = 960
	ScreenHeight = 640
	BoardSize    = 640
	SquareSize   = BoardSize / 8
	PanelWidth   = ScreenWidth - BoardSize
)

// Options wires the game to its collaborators.
type Options struct {
	Config   *config.Configuration
	Oracle   *rules.Oracle
	Variants *rules.Registry
	Storage  *storage.Storage // optional
}

// Game implements ebiten.Game and is the board view of the input machine.
type Game struct {
	cfg      *config.Configuration
	oracle   *rules.Oracle
	variants *rules.Registry
	machine  *input.Machine

	// Snapshot of the committed position, refreshed by Redraw
	shown     rules.Position
	pieces    [rules.Files * rules.Ranks]rules.Piece
	selection input.Selection
	san       []string
	status    rules.Status
	fen       string
	archived  string // key of the last archived position
	archiveID string

	// Storage
	storage *storage.Storage
	prefs   *storage.Preferences

	// Components
	renderer *Renderer
	input    *InputHandler
	panel    *Panel
	feedback *FeedbackManager

	// Modals
	prompt        *PromptModal
	variantModal  *VariantModal
	settingsModal *SettingsModal

	// Engine analysis
	analyzer      *analysis.Analyzer
	analysisOn    bool
	analysisLines []string
}

// NewGame creates the window state and restores the last session.
func NewGame(opts Options) *Game {
	g := &Game{
		cfg:      opts.Config,
		oracle:   opts.Oracle,
		variants: opts.Variants,
		storage:  opts.Storage,
		renderer: NewRenderer(BoardSize, SquareSize),
		input:    NewInputHandler(),
	}

	g.loadPreferences()
	g.feedback = NewFeedbackManager(g.prefs.SoundEnabled && g.cfg.Sound)
	g.renderer.SetFlipped(g.prefs.Flipped)

	g.prompt = NewPromptModal()
	g.settingsModal = NewSettingsModal()
	g.variantModal = NewVariantModal(func(name string) string {
		v, err := g.variants.Get(name)
		if err != nil {
			return ""
		}
		return v.Description
	})

	g.machine = input.NewMachine(g.oracle, g, g.initialPosition())
	g.machine.SetPromotion(g.cfg.Promotion())
	g.panel = NewPanel(g)
	g.Redraw(g.machine.Position(), g.machine.Selection())

	g.checkFirstLaunch()
	if g.prefs.AnalysisOn && g.prefs.EnginePath != "" {
		g.ToggleAnalysisAction()
	}
	return g
}

// loadPreferences loads user preferences from storage. Engine settings
// from the environment take precedence over saved ones.
func (g *Game) loadPreferences() {
	g.prefs = storage.DefaultPreferences()
	if g.storage != nil {
		prefs, err := g.storage.LoadPreferences()
		if err != nil {
			log.Printf("Warning: Failed to load preferences: %v", err)
		} else {
			g.prefs = prefs
		}
	}

	if g.cfg.Engine.Path != "" {
		g.prefs.EnginePath = g.cfg.Engine.Path
		g.prefs.EngineArgs = g.cfg.Engine.Args
	}
	if g.cfg.VariantsFile == "" && g.prefs.VariantsFile != "" {
		g.loadVariantsFile(g.prefs.VariantsFile)
	}
}

// savePreferences saves current preferences to storage.
func (g *Game) savePreferences() {
	if g.storage == nil {
		return
	}
	g.prefs.Flipped = g.renderer.Flipped()
	g.prefs.SoundEnabled = g.feedback.Audio().IsEnabled()
	g.prefs.AnalysisOn = g.analysisOn
	if err := g.storage.SavePreferences(g.prefs); err != nil {
		log.Printf("Warning: Failed to save preferences: %v", err)
	}
}

// initialPosition picks the starting position: the environment first, then
// the saved session, then standard chess.
func (g *Game) initialPosition() rules.Position {
	variant := g.cfg.Variant
	if variant == "" {
		variant = "chess"
	}

	if g.cfg.StartFEN != "" {
		err := rules.ValidateFEN(g.cfg.StartFEN)
		if err == nil {
			return rules.NewPosition(variant, g.cfg.StartFEN)
		}
		log.Printf("Warning: Ignoring start FEN: %v", err)
	}

	if g.cfg.Variant != "" {
		pos, err := g.variants.StartPosition(variant)
		if err == nil {
			return pos
		}
		log.Printf("Warning: %v", err)
	}

	if g.storage != nil {
		sess, err := g.storage.LoadSession()
		if err != nil {
			log.Printf("Warning: Failed to load session: %v", err)
		}
		if sess != nil {
			pos, err := restoreSession(g.oracle, sess)
			if err == nil {
				log.Printf("[SESSION] Resumed %s game after %d moves", pos.Variant, pos.Ply())
				return pos
			}
			log.Printf("Warning: Discarding saved session: %v", err)
			if err := g.storage.ClearSession(); err != nil {
				log.Printf("Warning: Failed to clear session: %v", err)
			}
		}
	}

	pos, err := g.variants.StartPosition("chess")
	if err != nil {
		return rules.NewPosition("chess", rules.StandardFEN)
	}
	return pos
}

// checkFirstLaunch shows a hint on first launch.
func (g *Game) checkFirstLaunch() {
	if g.storage == nil {
		return
	}
	isFirst, err := g.storage.IsFirstLaunch()
	if err != nil {
		log.Printf("Warning: Failed to check first launch: %v", err)
		return
	}
	if isFirst {
		g.feedback.toasts.Show("Click a piece, then a highlighted square", ToastInfo, 6*time.Second)
		if err := g.storage.MarkFirstLaunchComplete(); err != nil {
			log.Printf("Warning: Failed to mark first launch complete: %v", err)
		}
	}
}

// Redraw refreshes the displayed snapshot. The input machine calls it after
// every transition.
func (g *Game) Redraw(pos rules.Position, sel input.Selection) {
	g.selection = sel
	if g.fen != "" && pos.Equal(g.shown) {
		return
	}
	g.shown = pos

	var err error
	if g.pieces, err = g.oracle.Board(pos); err != nil {
		log.Printf("Warning: Failed to read board: %v", err)
	}
	if g.san, err = g.oracle.SAN(pos); err != nil {
		log.Printf("Warning: Failed to build move list: %v", err)
	}
	if g.status, err = g.oracle.Status(pos); err != nil {
		log.Printf("Warning: Failed to read game status: %v", err)
	}
	if g.fen, err = g.oracle.FEN(pos); err != nil {
		log.Printf("Warning: Failed to read FEN: %v", err)
	}

	g.saveSession(pos)
	g.analysisLines = nil
	if g.analysisOn && g.analyzer != nil && !g.status.Over {
		g.analyzer.Analyze(g.fen)
	}
	if g.status.Over {
		g.archiveGame(pos)
	}
}

func (g *Game) saveSession(pos rules.Position) {
	if g.storage == nil {
		return
	}
	if err := g.storage.SaveSession(sessionFor(pos)); err != nil {
		log.Printf("Warning: Failed to save session: %v", err)
	}
}

// archiveGame records a finished game once.
func (g *Game) archiveGame(pos rules.Position) {
	if g.storage == nil || pos.Key() == g.archived || pos.Ply() == 0 {
		return
	}
	g.archived = pos.Key()

	rec, err := archivedGame(g.oracle, pos, g.status, time.Now())
	if err != nil {
		log.Printf("Warning: Failed to build archive record: %v", err)
		return
	}
	id, err := g.storage.RecordGame(rec)
	if err != nil {
		log.Printf("Warning: Failed to archive game: %v", err)
		return
	}
	g.archiveID = id
	log.Printf("[ARCHIVE] %s %s %s (%s) stored as %s", rec.Name, pos.Variant, g.status.Result, g.status.Reason, id)
}

// Update handles game logic updates.
func (g *Game) Update() error {
	g.input.Update()
	g.feedback.Update()

	// Modals block other input
	switch {
	case g.prompt.IsVisible():
		g.prompt.Update(g.input)
	case g.variantModal.IsVisible():
		g.variantModal.Update(g.input)
	case g.settingsModal.IsVisible():
		g.settingsModal.Update(g.input)
	case g.panel.HandleInput(g.input):
	default:
		g.handleKeys()
		g.handleBoardInput()
	}

	g.checkAnalysis()
	g.updateCursor()
	return nil
}

// updateCursor sets the cursor shape based on what's being hovered.
func (g *Game) updateCursor() {
	var hovered bool
	switch {
	case g.prompt.IsVisible():
		hovered = g.prompt.AnyButtonHovered()
	case g.variantModal.IsVisible():
		hovered = g.variantModal.AnyButtonHovered()
	case g.settingsModal.IsVisible():
		hovered = g.settingsModal.AnyButtonHovered()
	default:
		hovered = g.panel.AnyButtonHovered()
	}

	if hovered {
		ebiten.SetCursorShape(ebiten.CursorShapePointer)
	} else {
		ebiten.SetCursorShape(ebiten.CursorShapeDefault)
	}
}

// handleKeys processes keyboard shortcuts.
func (g *Game) handleKeys() {
	switch {
	case IsKeyJustPressed(ebiten.KeyEscape):
		g.machine.Cancel()
	case IsKeyJustPressed(ebiten.KeyBackspace),
		IsKeyJustPressed(ebiten.KeyZ) && (IsKeyPressed(ebiten.KeyControl) || IsKeyPressed(ebiten.KeyMeta)):
		g.UndoAction()
	case IsKeyJustPressed(ebiten.KeyN):
		g.NewGameAction()
	case IsKeyJustPressed(ebiten.KeyF):
		g.FlipAction()
	case IsKeyJustPressed(ebiten.KeyA):
		g.ToggleAnalysisAction()
	}
}

// handleBoardInput turns clicks on the board into machine clicks.
func (g *Game) handleBoardInput() {
	if g.input.IsRightJustPressed() {
		g.machine.Cancel()
		return
	}
	if !g.input.IsLeftJustPressed() {
		return
	}
	mx, my := g.input.MousePosition()
	sq := g.renderer.ScreenToSquare(mx, my)
	if sq == rules.NoSquare || g.status.Over {
		return
	}

	before := g.pieces
	origin := g.machine.State().Origin
	res := g.machine.Click(sq)

	switch res.Effect {
	case input.EffectMove:
		g.feedback.OnMoveMade(moveKind(&before, res.Move))
		switch {
		case g.status.Over:
			g.feedback.OnGameOver(g.status)
		case g.status.InCheck:
			g.feedback.OnCheck()
		}
	case input.EffectRejected:
		g.feedback.OnRejected(origin, sq)
	}
}

// checkAnalysis polls the analyzer without blocking.
func (g *Game) checkAnalysis() {
	if g.analyzer == nil {
		return
	}
	select {
	case u := <-g.analyzer.Updates():
		if u.Err != nil {
			log.Printf("Warning: Analysis failed: %v", u.Err)
			g.feedback.Error("Engine error: " + u.Err.Error())
			g.stopEngine()
			return
		}
		if !g.analysisOn || u.FEN != g.fen {
			return // stale
		}
		g.analysisLines = g.formatAnalysis(u)
	default:
	}
}

func (g *Game) formatAnalysis(u analysis.Update) []string {
	pos := g.machine.Position()
	blackToMove := g.oracle.SideToMove(pos) == rules.Black
	lines := make([]string, 0, len(u.Lines)+1)
	nodes := 0
	for _, l := range u.Lines {
		lines = append(lines, analysis.FormatLine(l, blackToMove, g.oracle.SANLine(pos, l.PV)))
		nodes = max(nodes, l.Nodes)
	}
	if s := analysis.FormatNodes(nodes); s != "" {
		lines = append(lines, s)
	}
	return lines
}

// startEngine launches the configured engine.
func (g *Game) startEngine() error {
	g.stopEngine()
	limits := effectiveLimits(g.cfg, g.prefs)
	a, err := analysis.Open(analysis.Settings{
		Path:    g.prefs.EnginePath,
		Args:    g.prefs.EngineArgs,
		Hash:    limits.Hash,
		MultiPV: limits.MultiPV,
		Depth:   limits.Depth,
	})
	if err != nil {
		return err
	}
	g.analyzer = a
	return nil
}

// stopEngine detaches the analyzer; it shuts down once its current depth
// completes, off the UI goroutine.
func (g *Game) stopEngine() {
	if g.analyzer != nil {
		go g.analyzer.Close()
		g.analyzer = nil
	}
	g.analysisOn = false
	g.analysisLines = nil
}

// NewGameAction opens the variant chooser.
func (g *Game) NewGameAction() {
	g.variantModal.Show(g.variants.Names(), g.machine.Position().Variant, g.startVariant)
}

func (g *Game) startVariant(name string) {
	pos, err := g.variants.StartPosition(name)
	if err != nil {
		g.feedback.Error(err.Error())
		return
	}
	g.machine.Reset(pos)
	g.feedback.Info("New game: " + name)
}

// ResetAction restarts the current variant.
func (g *Game) ResetAction() {
	cur := g.machine.Position()
	if cur.Variant == rules.Chess960 {
		g.startVariant(cur.Variant)
		return
	}
	g.machine.Reset(rules.NewPosition(cur.Variant, cur.StartFEN))
}

// UndoAction takes back the last move.
func (g *Game) UndoAction() {
	if prev, ok := g.machine.Position().Undo(); ok {
		g.machine.Reset(prev)
	}
}

// SetFENAction asks for a start position for the current variant.
func (g *Game) SetFENAction() {
	g.prompt.Show("Set FEN", "Position (FEN)", g.fen, func(fen string) error {
		if err := rules.ValidateFEN(fen); err != nil {
			return err
		}
		g.machine.Reset(rules.NewPosition(g.machine.Position().Variant, fen))
		return nil
	})
}

// LoadEngineAction asks for an engine binary and starts analysis with it.
func (g *Game) LoadEngineAction() {
	g.prompt.Show("Load Engine", "UCI engine executable", g.prefs.EnginePath, func(path string) error {
		if path == "" {
			return analysis.ErrNoEngine
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("engine not found: %w", err)
		}
		g.prefs.EnginePath = path
		if err := g.startEngine(); err != nil {
			return err
		}
		g.ToggleAnalysisAction()
		return nil
	})
}

// ToggleAnalysisAction switches engine analysis on or off.
func (g *Game) ToggleAnalysisAction() {
	if g.analysisOn {
		g.analysisOn = false
		g.analysisLines = nil
		g.analyzer.Pause()
		g.savePreferences()
		return
	}

	if g.analyzer == nil {
		if err := g.startEngine(); err != nil {
			if errors.Is(err, analysis.ErrNoEngine) {
				g.LoadEngineAction()
				return
			}
			log.Printf("Warning: Failed to start engine: %v", err)
			g.feedback.Error("Could not start engine")
			return
		}
	}
	g.analysisOn = true
	g.analyzer.Resume()
	if !g.status.Over {
		g.analyzer.Analyze(g.fen)
	}
	g.savePreferences()
}

// FlipAction turns the board around.
func (g *Game) FlipAction() {
	g.renderer.SetFlipped(!g.renderer.Flipped())
	g.savePreferences()
}

// SavePGNAction writes the current game to the games directory. A finished
// game is exported as archived.
func (g *Game) SavePGNAction() {
	now := time.Now()
	pgn, err := g.currentPGN(now)
	if err != nil {
		g.feedback.Error(err.Error())
		return
	}
	dir, err := storage.GetGamesDir(g.cfg.DataDir)
	if err != nil {
		log.Printf("Warning: Failed to create games directory: %v", err)
		g.feedback.Error("Could not save game")
		return
	}
	path := filepath.Join(dir, pgnFileName(g.machine.Position().Variant, now))
	if err := os.WriteFile(path, []byte(pgn), 0644); err != nil {
		log.Printf("Warning: Failed to write %s: %v", path, err)
		g.feedback.Error("Could not save game")
		return
	}
	g.feedback.Success("Saved " + filepath.Base(path))
}

func (g *Game) currentPGN(now time.Time) (string, error) {
	pos := g.machine.Position()
	if g.storage != nil && g.archiveID != "" && pos.Key() == g.archived {
		rec, found, err := g.storage.LoadGame(g.archiveID)
		if err != nil {
			log.Printf("Warning: Failed to load archived game: %v", err)
		} else if found {
			return rec.PGN, nil
		}
	}
	return g.oracle.PGN(pos, "White", "Black", now, nil)
}

// StatsAction shows the archive statistics.
func (g *Game) StatsAction() {
	if g.storage == nil {
		g.feedback.Info("No game archive")
		return
	}
	stats, err := g.storage.LoadStats()
	if err != nil {
		g.feedback.Error(err.Error())
		return
	}
	g.feedback.Info(fmt.Sprintf("%d games: %d white wins, %d black wins, %d draws (%.0f%%)",
		stats.GamesPlayed, stats.WhiteWins, stats.BlackWins, stats.Draws, stats.DrawRate()))

	recent, err := g.storage.RecentGames(1)
	if err != nil {
		log.Printf("Warning: Failed to list archived games: %v", err)
		return
	}
	if len(recent) > 0 {
		last := recent[0]
		g.feedback.Info(fmt.Sprintf("Last: %s, %s %s by %s", last.Name, last.Variant, last.Result, last.Reason))
	}
}

// ShowSettings opens the settings modal. Changing the engine or its limits
// restarts analysis when it was running.
func (g *Game) ShowSettings() {
	g.settingsModal.Show(g.prefs, effectiveLimits(g.cfg, g.prefs), func(prefs *storage.Preferences) {
		engineChanged := prefs.EnginePath != g.prefs.EnginePath ||
			fmt.Sprint(prefs.EngineArgs) != fmt.Sprint(g.prefs.EngineArgs) ||
			effectiveLimits(g.cfg, prefs) != effectiveLimits(g.cfg, g.prefs)
		variantsChanged := prefs.VariantsFile != g.prefs.VariantsFile

		g.prefs = prefs
		g.feedback.Audio().SetEnabled(prefs.SoundEnabled)
		if engineChanged && g.analyzer != nil {
			wasOn := g.analysisOn
			g.stopEngine()
			if wasOn {
				g.ToggleAnalysisAction()
			}
		}
		if variantsChanged && prefs.VariantsFile != "" {
			g.loadVariantsFile(prefs.VariantsFile)
		}
		g.savePreferences()
	})
}

func (g *Game) loadVariantsFile(path string) {
	names, err := g.variants.LoadFile(path)
	if err != nil {
		log.Printf("Warning: Failed to load variants: %v", err)
		if g.feedback != nil {
			g.feedback.Error("Could not load variants file")
		}
		return
	}
	log.Printf("[VARIANTS] Loaded %v from %s", names, path)
}

// SetPromotion sets the promotion piece letter.
func (g *Game) SetPromotion(r rune) {
	g.machine.SetPromotion(r)
}

// Draw renders the game.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.renderer.Theme().Background)

	g.renderer.DrawBoard(screen)
	if g.status.InCheck {
		side := g.oracle.SideToMove(g.machine.Position())
		g.renderer.DrawCheck(screen, g.oracle.KingSquare(g.machine.Position(), side))
	}
	g.renderer.DrawHighlights(screen, g.selection, g.machine.Position().LastMove(), &g.pieces)
	g.renderer.DrawPieces(screen, &g.pieces, g.feedback.Animations())

	g.feedback.Draw(screen, g.renderer)
	g.panel.Draw(screen)

	g.settingsModal.Draw(screen)
	g.variantModal.Draw(screen)
	g.prompt.Draw(screen)
}

// Layout returns the game's logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ScreenWidth, ScreenHeight
}

// Position returns the committed position.
func (g *Game) Position() rules.Position {
	return g.machine.Position()
}

// SANHistory returns the moves of the game in SAN.
func (g *Game) SANHistory() []string {
	return g.san
}

// Status returns the game status.
func (g *Game) Status() rules.Status {
	return g.status
}

// SideToMove returns the color to move.
func (g *Game) SideToMove() rules.Color {
	return g.oracle.SideToMove(g.machine.Position())
}

// AnalysisOn reports whether the engine is analysing.
func (g *Game) AnalysisOn() bool {
	return g.analysisOn
}

// AnalysisLines returns the formatted engine output.
func (g *Game) AnalysisLines() []string {
	return g.analysisLines
}

// Close cleans up game resources.
func (g *Game) Close() {
	if g.analyzer != nil {
		g.analyzer.Close()
	}
	g.stopEngine()
	if g.storage != nil {
		g.storage.Close()
	}
}
