// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/thaplubot/thaplubot-tui/internal/ui/styles"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Header text.
const (
	HeaderTitle   = "ThapluBot"
	HeaderTagline = "AI-powered with multi-source verification ✨"
)

// Header is the title bar.
type Header struct {
	Width        int
	Connected    bool
	MessageCount int
	theme        *styles.Theme
}

// NewHeader creates a header.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{Width: 80, theme: theme}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetStatus updates the connection indicator and message count.
func (h *Header) SetStatus(connected bool, messageCount int) {
	h.Connected = connected
	h.MessageCount = messageCount
}

// ConnectionLabel returns "Connected" or "Disconnected".
func ConnectionLabel(connected bool) string {
	if connected {
		return "Connected"
	}
	return "Disconnected"
}

// View renders the header.
func (h *Header) View() string {
	t := h.theme
	width := max(h.Width, 40)
	// Border and padding.
	inner := width - 4

	left := t.HeaderTitle.Render(HeaderTitle)
	if t.GetLayoutMode() != styles.LayoutNarrow {
		left += "  " + t.HeaderSubtitle.Render(HeaderTagline)
	}

	var right []string
	if h.Connected {
		right = append(right, t.Connected.Render(styles.StatusIndicators.Connected+" "+ConnectionLabel(true)))
	} else {
		right = append(right, t.Disconnected.Render(styles.StatusIndicators.Disconnected+" "+ConnectionLabel(false)))
	}
	if h.MessageCount > 0 {
		right = append(right, t.MessageCount.Render(strconv.Itoa(h.MessageCount)+" messages"))
		right = append(right, t.ClearHint.Render("ctrl+l clear"))
	}
	rightText := strings.Join(right, "  ")

	gap := inner - lipgloss.Width(left) - lipgloss.Width(rightText)
	var line string
	if gap < 1 {
		line = lipgloss.JoinVertical(lipgloss.Left, left, rightText)
	} else {
		line = left + strings.Repeat(" ", gap) + rightText
	}
	return t.Header.Width(width - 2).Render(line)
}
