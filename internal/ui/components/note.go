// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/thaplubot/thaplubot-tui/internal/shortcut"
	"github.com/thaplubot/thaplubot-tui/internal/ui/styles"
)

// NoteView renders the hidden note page.
type NoteView struct {
	Width int
	Tick  int
	theme *styles.Theme
}

// NewNoteView creates the note view.
func NewNoteView(theme *styles.Theme) *NoteView {
	return &NoteView{Width: 80, theme: theme}
}

// View renders the title, paragraphs, signature and back hint.
func (n *NoteView) View() string {
	t := n.theme
	width := min(max(n.Width, 30), 90)
	// Border (2) and padding (4).
	inner := width - 6

	heart := styles.BounceFrame(styles.HeartPulse, n.Tick)
	title := t.NoteTitle.Render(heart + " " + shortcut.NoteTitle + " ✦")

	var paras []string
	for _, p := range shortcut.Note {
		text := wordwrap.String(p.Text, inner)
		switch p.Emphasis {
		case shortcut.EmphasisStrong:
			paras = append(paras, t.NoteStrong.Render(text))
		case shortcut.EmphasisHeadline:
			paras = append(paras, t.NoteHeading.Render(text))
		default:
			paras = append(paras, t.NoteText.Render(text))
		}
	}
	sign := lipgloss.PlaceHorizontal(inner, lipgloss.Right, t.NoteSign.Render(shortcut.NoteSignature))
	paras = append(paras, sign)

	body := t.NoteBox.Width(width - 2).Render(strings.Join(paras, "\n\n"))
	hint := t.Muted.Render(shortcut.NoteBackHint)

	return lipgloss.JoinVertical(lipgloss.Center,
		lipgloss.PlaceHorizontal(width, lipgloss.Center, title),
		"",
		body,
		"",
		lipgloss.PlaceHorizontal(width, lipgloss.Center, hint),
	)
}
