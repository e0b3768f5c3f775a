package ui

import (
	"image/color"
	"math"
	"time"

	"github.com/hailam/fairyplay/internal/rules"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// ToastType selects the colors of a toast.
type ToastType int

const (
	ToastInfo ToastType = iota
	ToastWarning
	ToastError
	ToastSuccess
)

// timed is anything that expires.
type timed struct {
	born time.Time
	ttl  time.Duration
}

func newTimed(ttl time.Duration) timed {
	return timed{born: time.Now(), ttl: ttl}
}

// progress runs from 0 at birth to 1 at expiry.
func (t timed) progress(now time.Time) float64 {
	return now.Sub(t.born).Seconds() / t.ttl.Seconds()
}

func (t timed) expired(now time.Time) bool {
	return t.progress(now) >= 1
}

type toast struct {
	timed
	text string
	kind ToastType
}

// ToastManager shows a short stack of messages over the board.
type ToastManager struct {
	stack []toast
	limit int
}

// NewToastManager creates a toast manager showing at most three messages.
func NewToastManager() *ToastManager {
	return &ToastManager{limit: 3}
}

// Show pushes a message; the oldest one is dropped when the stack is full.
func (tm *ToastManager) Show(message string, kind ToastType, ttl time.Duration) {
	tm.stack = append(tm.stack, toast{timed: newTimed(ttl), text: message, kind: kind})
	if over := len(tm.stack) - tm.limit; over > 0 {
		tm.stack = tm.stack[over:]
	}
}

// Update drops expired toasts.
func (tm *ToastManager) Update() {
	tm.stack = sweep(tm.stack, time.Now(), func(t toast) timed { return t.timed })
}

// sweep keeps the entries of items that have not expired at now.
func sweep[T any](items []T, now time.Time, clock func(T) timed) []T {
	kept := items[:0]
	for _, it := range items {
		if !clock(it).expired(now) {
			kept = append(kept, it)
		}
	}
	return kept
}

func toastColors(kind ToastType, alpha float64) (bg, fg color.RGBA) {
	a := func(v float64) uint8 { return uint8(v * alpha) }
	fg = color.RGBA{255, 255, 255, a(255)}
	switch kind {
	case ToastWarning:
		return color.RGBA{180, 140, 20, a(220)}, color.RGBA{40, 30, 0, a(255)}
	case ToastError:
		return color.RGBA{180, 50, 50, a(220)}, fg
	case ToastSuccess:
		return color.RGBA{50, 150, 50, a(220)}, fg
	default:
		return color.RGBA{50, 100, 150, a(220)}, fg
	}
}

// fadeAlpha fades in and out over the first and last fifth of a second.
func fadeAlpha(t timed, now time.Time) float64 {
	const fade = 0.2
	elapsed := now.Sub(t.born).Seconds()
	left := t.ttl.Seconds() - elapsed
	return math.Max(0, math.Min(1, math.Min(elapsed, left)/fade))
}

// Draw stacks the toasts from the top of the board, centered on it.
func (tm *ToastManager) Draw(screen *ebiten.Image) {
	face := GetRegularFace()
	if face == nil {
		return
	}

	const pad = 12.0
	now := time.Now()
	y := 50.0
	for _, t := range tm.stack {
		bg, fg := toastColors(t.kind, fadeAlpha(t.timed, now))
		w, h := MeasureText(t.text, face)
		boxW, boxH := w+pad*2, h+pad*2
		x := float64(BoardSize)/2 - boxW/2

		vector.DrawFilledRect(screen, float32(x), float32(y), float32(boxW), float32(boxH), bg, false)
		drawText(screen, t.text, face, x+pad, y+pad, fg)
		y += boxH + 8
	}
}

type effectKind int

const (
	effectShake effectKind = iota
	effectFlash
)

// squareEffect is a short animation attached to one board square.
type squareEffect struct {
	timed
	kind effectKind
	sq   rules.Square
	tint color.RGBA
}

// AnimationManager holds the running square effects.
type AnimationManager struct {
	effects []squareEffect
}

// NewAnimationManager creates an empty animation manager.
func NewAnimationManager() *AnimationManager {
	return &AnimationManager{}
}

// StartShake wiggles the piece on sq.
func (am *AnimationManager) StartShake(sq rules.Square) {
	am.effects = append(am.effects, squareEffect{timed: newTimed(300 * time.Millisecond), kind: effectShake, sq: sq})
}

// StartFlash tints sq with c, fading out.
func (am *AnimationManager) StartFlash(sq rules.Square, c color.RGBA) {
	am.effects = append(am.effects, squareEffect{timed: newTimed(400 * time.Millisecond), kind: effectFlash, sq: sq, tint: c})
}

// Update drops finished effects.
func (am *AnimationManager) Update() {
	am.effects = sweep(am.effects, time.Now(), func(e squareEffect) timed { return e.timed })
}

// GetShakeOffset returns the horizontal displacement of the piece on sq.
func (am *AnimationManager) GetShakeOffset(sq rules.Square) (float64, float64) {
	now := time.Now()
	for _, e := range am.effects {
		if e.kind != effectShake || e.sq != sq || e.expired(now) {
			continue
		}
		p := e.progress(now)
		// damped sine, 8px at the start
		return 8 * math.Exp(-5*p) * math.Sin(40*p), 0
	}
	return 0, 0
}

// DrawFlashes paints the flash tints over their squares.
func (am *AnimationManager) DrawFlashes(screen *ebiten.Image, renderer *Renderer) {
	size := float32(renderer.SquareSize())
	now := time.Now()
	for _, e := range am.effects {
		if e.kind != effectFlash || e.expired(now) {
			continue
		}
		c := e.tint
		c.A = uint8(float64(c.A) * (1 - e.progress(now)))
		x, y := renderer.SquareToScreen(e.sq)
		vector.DrawFilledRect(screen, float32(x), float32(y), size, size, c, false)
	}
}

// MoveKind classifies a played move for its sound.
type MoveKind int

const (
	MoveQuiet MoveKind = iota
	MoveCapture
	MoveCastle
)

// FeedbackManager coordinates toasts, animations and sounds.
type FeedbackManager struct {
	toasts     *ToastManager
	animations *AnimationManager
	audio      *AudioManager
}

// NewFeedbackManager creates a new feedback manager.
func NewFeedbackManager(sound bool) *FeedbackManager {
	return &FeedbackManager{
		toasts:     NewToastManager(),
		animations: NewAnimationManager(),
		audio:      NewAudioManager(sound),
	}
}

// Update updates all feedback systems.
func (fm *FeedbackManager) Update() {
	fm.toasts.Update()
	fm.animations.Update()
}

// Draw renders all feedback overlays.
func (fm *FeedbackManager) Draw(screen *ebiten.Image, renderer *Renderer) {
	fm.animations.DrawFlashes(screen, renderer)
	fm.toasts.Draw(screen)
}

// Animations returns the animation manager for renderer integration.
func (fm *FeedbackManager) Animations() *AnimationManager {
	return fm.animations
}

// Audio returns the audio manager.
func (fm *FeedbackManager) Audio() *AudioManager {
	return fm.audio
}

// Info shows an informational toast.
func (fm *FeedbackManager) Info(msg string) {
	fm.toasts.Show(msg, ToastInfo, 2*time.Second)
}

// Success shows a success toast.
func (fm *FeedbackManager) Success(msg string) {
	fm.toasts.Show(msg, ToastSuccess, 3*time.Second)
}

// Error shows an error toast.
func (fm *FeedbackManager) Error(msg string) {
	fm.toasts.Show(msg, ToastError, 4*time.Second)
}

// OnRejected flashes a destination the selected piece cannot reach.
func (fm *FeedbackManager) OnRejected(origin, dest rules.Square) {
	fm.animations.StartShake(origin)
	fm.animations.StartFlash(dest, color.RGBA{255, 80, 80, 150})
	fm.audio.Play(SoundInvalid)
}

// OnMoveMade plays the sound for a move.
func (fm *FeedbackManager) OnMoveMade(kind MoveKind) {
	switch kind {
	case MoveCastle:
		fm.audio.Play(SoundCastle)
	case MoveCapture:
		fm.audio.Play(SoundCapture)
	default:
		fm.audio.Play(SoundMove)
	}
}

// OnCheck handles a check event.
func (fm *FeedbackManager) OnCheck() {
	fm.toasts.Show("Check!", ToastWarning, 2*time.Second)
	fm.audio.Play(SoundCheck)
}

// OnGameOver announces the result.
func (fm *FeedbackManager) OnGameOver(st rules.Status) {
	tt := ToastInfo
	if st.Result != rules.ResultDraw {
		tt = ToastSuccess
	}
	fm.toasts.Show(st.Describe(), tt, 5*time.Second)
	fm.audio.Play(SoundGameEnd)
}
