// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"
	"time"
)

func TestNewTheme_ForcedModes(t *testing.T) {
	dark := NewTheme("dark")
	if !dark.IsDark || dark.Mode != ThemeDark {
		t.Errorf("dark theme: IsDark=%v Mode=%q", dark.IsDark, dark.Mode)
	}
	light := NewTheme("LIGHT")
	if light.IsDark || light.Mode != ThemeLight {
		t.Errorf("light theme: IsDark=%v Mode=%q", light.IsDark, light.Mode)
	}
	if got := NewTheme("bogus").Mode; got != ThemeAuto {
		t.Errorf("unknown mode = %q, want auto", got)
	}
}

func TestTheme_LayoutMode(t *testing.T) {
	theme := NewTheme("dark")
	tests := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutNarrow},
		{59, LayoutNarrow},
		{60, LayoutMedium},
		{99, LayoutMedium},
		{100, LayoutWide},
	}
	for _, tt := range tests {
		theme.SetSize(tt.width, 24)
		if got := theme.GetLayoutMode(); got != tt.want {
			t.Errorf("width %d: got %v, want %v", tt.width, got, tt.want)
		}
	}
}

func TestTheme_BubbleWidth(t *testing.T) {
	theme := NewTheme("dark")
	theme.SetSize(100, 30)
	if got := theme.BubbleWidth(); got != 80 {
		t.Errorf("wide bubble = %d, want 80", got)
	}
	theme.SetSize(40, 30)
	if got := theme.BubbleWidth(); got != 38 {
		t.Errorf("narrow bubble = %d, want 38", got)
	}
	theme.SetSize(0, 0)
	if got := theme.BubbleWidth(); got != 64 {
		t.Errorf("unsized bubble = %d, want 64", got)
	}
}

func TestBounceFrame(t *testing.T) {
	n := len(ThinkingDots.Frames)
	if BounceFrame(ThinkingDots, 0) != ThinkingDots.Frames[0] {
		t.Error("tick 0 should be first frame")
	}
	if BounceFrame(ThinkingDots, n) != ThinkingDots.Frames[0] {
		t.Error("frames should wrap")
	}
	if BounceFrame(ThinkingDots, -1) != ThinkingDots.Frames[1] {
		t.Error("negative ticks should not panic")
	}
	if BounceFrame(SpinnerConfig{}, 3) != "" {
		t.Error("empty spinner should render nothing")
	}
}

func TestSpinnerConfig_Duration(t *testing.T) {
	if got := ThinkingDots.Duration(); got != time.Second/6 {
		t.Errorf("duration = %v", got)
	}
	if got := (SpinnerConfig{}).Duration(); got != time.Second {
		t.Errorf("zero fps duration = %v", got)
	}
}
