package ui

import (
	"image/color"
	"testing"
	"time"

	"github.com/hailam/fairyplay/internal/rules"
)

func TestToastStackLimit(t *testing.T) {
	tm := NewToastManager()
	for _, msg := range []string{"one", "two", "three", "four"} {
		tm.Show(msg, ToastInfo, time.Minute)
	}
	if len(tm.stack) != 3 {
		t.Fatalf("Expected 3 toasts, got %d", len(tm.stack))
	}
	if tm.stack[0].text != "two" || tm.stack[2].text != "four" {
		t.Errorf("Expected oldest toast dropped, got %q..%q", tm.stack[0].text, tm.stack[2].text)
	}
}

func TestToastExpiry(t *testing.T) {
	tm := NewToastManager()
	tm.Show("gone", ToastError, time.Nanosecond)
	tm.Show("kept", ToastSuccess, time.Minute)
	time.Sleep(time.Millisecond)
	tm.Update()
	if len(tm.stack) != 1 || tm.stack[0].text != "kept" {
		t.Errorf("Expected only the live toast, got %+v", tm.stack)
	}
}

func TestFadeAlpha(t *testing.T) {
	born := time.Now()
	tt := timed{born: born, ttl: 2 * time.Second}

	tests := []struct {
		name string
		at   time.Duration
		want float64
	}{
		{"Start", 0, 0},
		{"FadingIn", 100 * time.Millisecond, 0.5},
		{"Middle", time.Second, 1},
		{"FadingOut", 1900 * time.Millisecond, 0.5},
		{"After", 3 * time.Second, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := fadeAlpha(tt, born.Add(tc.at))
			if got < tc.want-0.01 || got > tc.want+0.01 {
				t.Errorf("fadeAlpha at %v = %.2f, want %.2f", tc.at, got, tc.want)
			}
		})
	}
}

func TestShakeOffset(t *testing.T) {
	am := NewAnimationManager()
	e4 := rules.MustSquare("e4")
	am.StartShake(e4)
	am.StartFlash(rules.MustSquare("d5"), color.RGBA{255, 80, 80, 150})

	if dx, dy := am.GetShakeOffset(rules.MustSquare("d5")); dx != 0 || dy != 0 {
		t.Errorf("Flash square should not shake, got %.1f,%.1f", dx, dy)
	}
	time.Sleep(5 * time.Millisecond)
	if dx, _ := am.GetShakeOffset(e4); dx == 0 {
		t.Error("Expected a shake offset on e4")
	}

	am.effects[0].born = time.Now().Add(-time.Second)
	am.Update()
	if len(am.effects) != 1 || am.effects[0].kind != effectFlash {
		t.Errorf("Expected only the flash left, got %+v", am.effects)
	}
}
