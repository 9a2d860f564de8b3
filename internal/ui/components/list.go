// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/thaplubot/thaplubot-tui/internal/model"
	"github.com/thaplubot/thaplubot-tui/internal/ui/styles"
)

// MessageList renders the history and owns the two view-only toggles: the
// selected bot message and the one message whose sources are expanded.
type MessageList struct {
	Width          int
	ShowTimestamps bool

	// Selected is the id of the bot message keyboard actions apply to.
	// Empty means the latest bot message.
	Selected string

	// Expanded is the id of the message whose sources are shown, or "".
	Expanded string

	renderer Renderer
	theme    *styles.Theme
}

// NewMessageList creates an empty list view.
func NewMessageList(theme *styles.Theme, renderer Renderer) *MessageList {
	return &MessageList{
		Width:          80,
		ShowTimestamps: true,
		renderer:       renderer,
		theme:          theme,
	}
}

// SetWidth updates the render width.
func (l *MessageList) SetWidth(width int) {
	l.Width = width
}

// Reset forgets selection and expansion, e.g. after the chat is cleared.
func (l *MessageList) Reset() {
	l.Selected = ""
	l.Expanded = ""
}

// ToggleSources expands the sources of message id, or collapses them if
// they are already shown. Expanding one message collapses any other.
// Messages without sources are ignored. It reports whether the message
// is now expanded.
func (l *MessageList) ToggleSources(msgs []model.Message, id string) bool {
	msg, ok := find(msgs, id)
	if !ok || !msg.HasSources() {
		return false
	}
	if l.Expanded == id {
		l.Expanded = ""
		return false
	}
	l.Expanded = id
	return true
}

// SelectedMessage returns the selected bot message, falling back to the
// latest one.
func (l *MessageList) SelectedMessage(msgs []model.Message) (model.Message, bool) {
	if l.Selected != "" {
		if m, ok := find(msgs, l.Selected); ok {
			return m, true
		}
	}
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].IsBot() {
			return msgs[i], true
		}
	}
	return model.Message{}, false
}

// SelectNext moves the selection to the next bot message, wrapping.
func (l *MessageList) SelectNext(msgs []model.Message) {
	l.moveSelection(msgs, 1)
}

// SelectPrev moves the selection to the previous bot message, wrapping.
func (l *MessageList) SelectPrev(msgs []model.Message) {
	l.moveSelection(msgs, -1)
}

func (l *MessageList) moveSelection(msgs []model.Message, step int) {
	var bots []string
	for _, m := range msgs {
		if m.IsBot() {
			bots = append(bots, m.ID)
		}
	}
	if len(bots) == 0 {
		l.Selected = ""
		return
	}
	cur := len(bots) - 1
	if sel, ok := l.SelectedMessage(msgs); ok {
		for i, id := range bots {
			if id == sel.ID {
				cur = i
				break
			}
		}
	}
	next := (cur + step + len(bots)) % len(bots)
	l.Selected = bots[next]
}

// View renders every message, separated by blank lines.
func (l *MessageList) View(msgs []model.Message) string {
	selected, _ := l.SelectedMessage(msgs)

	blocks := make([]string, 0, len(msgs))
	for _, m := range msgs {
		b := NewMessageBubble(m, l.theme, l.renderer)
		b.Width = l.Width
		b.ShowTimestamp = l.ShowTimestamps
		b.Selected = m.IsBot() && m.ID == selected.ID
		b.Expanded = m.ID == l.Expanded
		blocks = append(blocks, b.View())
	}
	return strings.Join(blocks, "\n\n")
}

func find(msgs []model.Message, id string) (model.Message, bool) {
	for _, m := range msgs {
		if m.ID == id {
			return m, true
		}
	}
	return model.Message{}, false
}
