// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/muesli/reflow/wordwrap"

	"github.com/thaplubot/thaplubot-tui/internal/model"
	"github.com/thaplubot/thaplubot-tui/internal/ui/styles"
	"github.com/thaplubot/thaplubot-tui/internal/util"
)

// snippetLines caps each snippet in the panel.
const snippetLines = 2

// SourcesPanel lists the sources of one bot reply.
type SourcesPanel struct {
	Sources []model.Source
	Width   int
	theme   *styles.Theme
}

// NewSourcesPanel creates a panel for sources.
func NewSourcesPanel(sources []model.Source, theme *styles.Theme) *SourcesPanel {
	return &SourcesPanel{Sources: sources, Width: 60, theme: theme}
}

// View renders the numbered list. Titles and URLs are truncated to one
// line; snippets are wrapped and clamped to two.
func (p *SourcesPanel) View() string {
	t := p.theme
	// Panel border (1) and padding (1).
	width := max(p.Width-2, 10)

	lines := []string{t.RoleLabel.Render("Sources")}
	for i, src := range p.Sources {
		prefix := strconv.Itoa(i+1) + ". "
		indent := strings.Repeat(" ", len(prefix))
		textWidth := max(width-len(prefix), 4)

		title := src.Title
		if title == "" {
			title = src.URL
		}
		lines = append(lines, prefix+t.SourceTitle.Render(util.TruncateWidth(title, textWidth)))

		for _, l := range clampLines(src.Snippet, textWidth, snippetLines) {
			lines = append(lines, indent+t.SourceSnippet.Render(l))
		}
		if src.URL != "" {
			lines = append(lines, indent+t.SourceURL.Render(util.TruncateWidth(src.URL, textWidth)))
		}
	}
	return t.SourcesPanel.Render(strings.Join(lines, "\n"))
}

// clampLines wraps s to width and keeps at most n lines, marking the cut
// with an ellipsis.
func clampLines(s string, width, n int) []string {
	s = util.CollapseWhitespace(s)
	if s == "" {
		return nil
	}
	lines := strings.Split(wordwrap.String(s, width), "\n")
	for i, l := range lines {
		lines[i] = util.TruncateWidth(l, width)
	}
	if len(lines) <= n {
		return lines
	}
	lines = lines[:n]
	last := lines[n-1]
	if util.StringWidth(last)+len(util.Ellipsis) <= width {
		lines[n-1] = last + util.Ellipsis
	} else {
		// Too wide to append: force a cut so the ellipsis replaces the tail.
		lines[n-1] = util.TruncateWidth(last+util.Ellipsis+" ", width)
	}
	return lines
}
