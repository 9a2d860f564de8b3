// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/thaplubot/thaplubot-tui/internal/ui/styles"
)

// ThinkingLabel is shown while a reply is pending.
const ThinkingLabel = "Thinking"

// TypingIndicator is the animated "Thinking" line shown while a request
// is outstanding.
type TypingIndicator struct {
	spinner spinner.Model
	theme   *styles.Theme
}

// NewTypingIndicator creates the indicator with the bouncing dot frames.
func NewTypingIndicator(theme *styles.Theme) TypingIndicator {
	s := spinner.New(spinner.WithSpinner(spinner.Spinner{
		Frames: styles.ThinkingDots.Frames,
		FPS:    styles.ThinkingDots.Duration(),
	}))
	s.Style = theme.ThinkingDots
	return TypingIndicator{spinner: s, theme: theme}
}

// Tick starts the animation.
func (t TypingIndicator) Tick() tea.Msg {
	return t.spinner.Tick()
}

// Update advances the animation.
func (t TypingIndicator) Update(msg tea.Msg) (TypingIndicator, tea.Cmd) {
	var cmd tea.Cmd
	t.spinner, cmd = t.spinner.Update(msg)
	return t, cmd
}

// View renders the indicator.
func (t TypingIndicator) View() string {
	return t.theme.ThinkingText.Render(ThinkingLabel) + " " + t.spinner.View()
}
