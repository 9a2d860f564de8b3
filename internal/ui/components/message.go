// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/thaplubot/thaplubot-tui/internal/model"
	"github.com/thaplubot/thaplubot-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// Renderer turns markdown into terminal text. *markdown.Renderer
// satisfies it.
type Renderer interface {
	Render(text string) string
}

// MessageBubble renders one message.
type MessageBubble struct {
	Message       model.Message
	Width         int
	ShowTimestamp bool
	Selected      bool
	Expanded      bool
	renderer      Renderer
	theme         *styles.Theme
}

// NewMessageBubble creates a bubble for msg. renderer may be nil, in which
// case bot replies are shown as plain text.
func NewMessageBubble(msg model.Message, theme *styles.Theme, renderer Renderer) *MessageBubble {
	return &MessageBubble{
		Message:       msg,
		Width:         80,
		ShowTimestamp: true,
		renderer:      renderer,
		theme:         theme,
	}
}

// SourcesToggleLabel is the label of the sources toggle: "N sources".
func SourcesToggleLabel(n int) string {
	return strconv.Itoa(n) + " sources"
}

// VerificationBadge returns the badge text for status, or "" when the
// reply carries no status.
func VerificationBadge(status model.VerificationStatus) string {
	if status == "" {
		return ""
	}
	if status.IsCrossVerified() {
		return styles.StatusIndicators.Verified + " " + status.Label()
	}
	return styles.StatusIndicators.SingleSource + " " + status.Label()
}

// View renders the bubble and, when expanded, its sources panel.
func (b *MessageBubble) View() string {
	if b.Message.IsUser() {
		return b.renderUser()
	}
	return b.renderBot()
}

func (b *MessageBubble) bubbleStyle(base lipgloss.Style) lipgloss.Style {
	if b.Selected {
		return base.BorderForeground(styles.SelectedBorder)
	}
	return base
}

// contentWidth is the text width inside a bubble of the given outer width.
func contentWidth(outer int) int {
	// Border (2) and horizontal padding (2).
	return max(outer-4, 10)
}

// ==========================================================================
// USER BUBBLE - right aligned
// ==========================================================================

func (b *MessageBubble) renderUser() string {
	t := b.theme
	maxWidth := b.maxBubbleWidth()
	text := wordwrap.String(b.Message.Content, contentWidth(maxWidth))
	bubble := b.bubbleStyle(t.UserBubble).Render(text)

	label := t.RoleLabel.Foreground(styles.Cyan).Render(b.Message.Role.DisplayName())
	if ts := b.timestamp(); ts != "" {
		label = t.Timestamp.Render(ts) + " " + label
	}

	block := lipgloss.JoinVertical(lipgloss.Right, label, bubble)
	return lipgloss.PlaceHorizontal(b.Width, lipgloss.Right, block)
}

// ==========================================================================
// BOT BUBBLE - left aligned, markdown body, badge and sources
// ==========================================================================

func (b *MessageBubble) renderBot() string {
	t := b.theme
	maxWidth := b.maxBubbleWidth()

	var body string
	if b.renderer != nil {
		body = trimRendered(b.renderer.Render(b.Message.Content))
	} else {
		body = wordwrap.String(b.Message.Content, contentWidth(maxWidth))
	}
	bubble := b.bubbleStyle(t.BotBubble).MaxWidth(maxWidth).Render(body)

	label := t.RoleLabel.Render(b.Message.Role.DisplayName())
	if ts := b.timestamp(); ts != "" {
		label += " " + t.Timestamp.Render(ts)
	}

	parts := []string{label, bubble}
	if meta := b.metaLine(); meta != "" {
		parts = append(parts, meta)
	}
	if b.Expanded && b.Message.HasSources() {
		panel := NewSourcesPanel(b.Message.Sources(), t)
		panel.Width = maxWidth
		parts = append(parts, panel.View())
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// metaLine holds the verification badge and the sources toggle.
func (b *MessageBubble) metaLine() string {
	t := b.theme
	var parts []string

	status := b.Message.Verification()
	if badge := VerificationBadge(status); badge != "" {
		if status.IsCrossVerified() {
			parts = append(parts, t.VerifiedBadge.Render(badge))
		} else {
			parts = append(parts, t.SingleBadge.Render(badge))
		}
	}

	if b.Message.HasSources() {
		arrow := "▸ "
		if b.Expanded {
			arrow = "▾ "
		}
		parts = append(parts, t.SourcesToggle.Render(arrow+SourcesToggleLabel(len(b.Message.Sources()))))
	}
	return strings.Join(parts, "  ")
}

func (b *MessageBubble) timestamp() string {
	if !b.ShowTimestamp {
		return ""
	}
	return model.ClockTime(b.Message.Timestamp)
}

func (b *MessageBubble) maxBubbleWidth() int {
	return max(styles.BubbleWidth(b.Width), 14)
}

// trimRendered drops the blank margin lines and trailing padding that
// glamour adds around a document.
func trimRendered(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return strings.Join(lines[start:end], "\n")
}
