// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/thaplubot/thaplubot-tui/internal/ui/styles"
	"github.com/thaplubot/thaplubot-tui/internal/util"
)

// ErrorBanner renders the last error as a one-line banner. Callers decide
// visibility; an empty message renders nothing.
func ErrorBanner(theme *styles.Theme, message string, width int) string {
	if message == "" {
		return ""
	}
	text := util.TruncateWidth(styles.StatusIndicators.Error+" "+message, max(width-2, 10))
	return theme.ErrorBanner.Width(max(width, 12)).Render(text)
}

// Shortcut is a key hint in the status bar.
type Shortcut struct {
	Key  string
	Desc string
}

// ChatShortcuts are the hints shown under the input.
var ChatShortcuts = []Shortcut{
	{"enter", "send"},
	{"alt+enter", "newline"},
	{"tab", "select"},
	{"ctrl+s", "sources"},
	{"ctrl+y", "copy"},
	{"ctrl+l", "clear"},
	{"ctrl+c", "quit"},
}

// StatusBar shows a transient notice or, when there is none, key hints
// that fit the width.
type StatusBar struct {
	Width  int
	Notice string
	theme  *styles.Theme
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{Width: 80, theme: theme}
}

// View renders the bar.
func (s *StatusBar) View() string {
	t := s.theme
	if s.Notice != "" {
		return t.Toast.Render(util.TruncateWidth(s.Notice, max(s.Width, 10)))
	}

	var parts []string
	used := 0
	for _, sc := range ChatShortcuts {
		w := util.StringWidth(sc.Key) + 1 + util.StringWidth(sc.Desc)
		if used > 0 {
			w += 3
		}
		if used+w > s.Width {
			break
		}
		used += w
		parts = append(parts, t.ShortcutKey.Render(sc.Key)+" "+t.ShortcutDesc.Render(sc.Desc))
	}
	return t.StatusBar.Render(strings.Join(parts, t.ShortcutDesc.Render(" · ")))
}
