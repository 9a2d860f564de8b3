// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/thaplubot/thaplubot-tui/internal/ui/components"
)

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Starting ThapluBot..."
	}
	if m.showNote {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.note.View())
	}

	parts := []string{m.header.View()}
	if m.state.ShowErrorBanner() {
		parts = append(parts, components.ErrorBanner(m.theme, m.state.LastError, m.width))
	}
	parts = append(parts, m.viewport.View(), m.inputView(), m.status.View())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) inputView() string {
	box := m.theme.InputBox
	if !m.inputEnabled() {
		box = m.theme.InputBoxDisabled
	}
	return box.Width(max(m.width-2, 12)).Render(m.input.View())
}
