// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/thaplubot/thaplubot-tui/internal/ui/styles"
)

// Empty state text.
const (
	Greeting = "Hey there! I'm ThapluBot 👋"
	Intro    = "Your AI assistant with real-time web search and fact verification. Ask me anything!"
)

// Feature is one tile of the empty state.
type Feature struct {
	Title       string
	Description string
}

// Features are shown under the greeting.
var Features = []Feature{
	{Title: "Web Search", Description: "Searches multiple sources"},
	{Title: "Verified", Description: "Cross-references facts"},
	{Title: "Context", Description: "Remembers conversation"},
}

// Suggestions can be sent with alt+1 to alt+4 on an empty chat.
var Suggestions = []string{
	"Oye kitkat dilade yaar 🍫",
	"Chal sushi khane chalte hai 🍣",
	"Bhai mai batari hun fr fr 💀",
	"No cap, explain this to me bestie ✨",
}

// SuggestionAt returns the suggestion for a 1-based key such as "3".
func SuggestionAt(key string) (string, bool) {
	n, err := strconv.Atoi(key)
	if err != nil || n < 1 || n > len(Suggestions) {
		return "", false
	}
	return Suggestions[n-1], true
}

// EmptyState is shown instead of the message list before the first
// message.
type EmptyState struct {
	Width int
	theme *styles.Theme
}

// NewEmptyState creates the empty state view.
func NewEmptyState(theme *styles.Theme) *EmptyState {
	return &EmptyState{Width: 80, theme: theme}
}

// View renders the greeting, features and numbered suggestions.
func (e *EmptyState) View() string {
	t := e.theme
	width := max(e.Width, 20)

	center := func(s string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
	}

	var sections []string
	sections = append(sections, center(t.Greeting.Render(Greeting)))
	sections = append(sections, center(t.Tagline.Width(min(width, 60)).Align(lipgloss.Center).Render(Intro)))

	tiles := make([]string, 0, len(Features))
	for _, f := range Features {
		tiles = append(tiles, t.Feature.Render(t.RoleLabel.Render(f.Title)+"\n"+t.Muted.Render(f.Description)))
	}
	if width >= 60 {
		sections = append(sections, center(lipgloss.JoinHorizontal(lipgloss.Top, intersperse(tiles, "    ")...)))
	} else {
		sections = append(sections, center(lipgloss.JoinVertical(lipgloss.Center, tiles...)))
	}

	var rows []string
	for i, s := range Suggestions {
		rows = append(rows, t.SuggestionKey.Render(strconv.Itoa(i+1))+" "+t.Suggestion.Render(s))
	}
	sections = append(sections, center(lipgloss.JoinVertical(lipgloss.Left, rows...)))
	sections = append(sections, center(t.Muted.Render("Press alt+1 to alt+4 to try a suggestion")))

	return strings.Join(sections, "\n\n")
}

func intersperse(items []string, sep string) []string {
	out := make([]string, 0, len(items)*2)
	for i, it := range items {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, it)
	}
	return out
}
