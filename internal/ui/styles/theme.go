// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme modes accepted by NewTheme.
const (
	ThemeAuto  = "auto"
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Theme holds the styles for every screen element.
type Theme struct {
	// Terminal capabilities
	Mode         string
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// HEADER
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style
	Connected      lipgloss.Style
	Disconnected   lipgloss.Style
	MessageCount   lipgloss.Style
	ClearHint      lipgloss.Style

	// ==========================================================================
	// MESSAGES
	// ==========================================================================

	UserBubble     lipgloss.Style
	BotBubble      lipgloss.Style
	RoleLabel      lipgloss.Style
	Timestamp      lipgloss.Style
	VerifiedBadge  lipgloss.Style
	SingleBadge    lipgloss.Style
	SourcesToggle  lipgloss.Style
	SourceTitle    lipgloss.Style
	SourceSnippet  lipgloss.Style
	SourceURL      lipgloss.Style
	SourcesPanel   lipgloss.Style
	ThinkingText   lipgloss.Style
	ThinkingDots   lipgloss.Style

	// ==========================================================================
	// INPUT AND STATUS
	// ==========================================================================

	InputBox         lipgloss.Style
	InputBoxDisabled lipgloss.Style
	StatusBar        lipgloss.Style
	ShortcutKey      lipgloss.Style
	ShortcutDesc     lipgloss.Style
	Toast            lipgloss.Style

	// ==========================================================================
	// EMPTY STATE
	// ==========================================================================

	Greeting       lipgloss.Style
	Tagline        lipgloss.Style
	Feature        lipgloss.Style
	Suggestion     lipgloss.Style
	SuggestionKey  lipgloss.Style

	// ==========================================================================
	// ERRORS AND NOTE PAGE
	// ==========================================================================

	ErrorBanner lipgloss.Style
	NoteBox     lipgloss.Style
	NoteTitle   lipgloss.Style
	NoteText    lipgloss.Style
	NoteStrong  lipgloss.Style
	NoteHeading lipgloss.Style
	NoteSign    lipgloss.Style
	Muted       lipgloss.Style
}

// NewTheme builds a theme. mode is auto, dark or light; auto asks the
// terminal for its background.
func NewTheme(mode string) *Theme {
	mode = strings.ToLower(strings.TrimSpace(mode))
	colorProfile := termenv.ColorProfile()

	var isDark bool
	switch mode {
	case ThemeDark:
		isDark = true
	case ThemeLight:
		isDark = false
	default:
		mode = ThemeAuto
		isDark = termenv.HasDarkBackground()
	}
	lipgloss.SetHasDarkBackground(isDark)

	t := &Theme{
		Mode:         mode,
		IsDark:       isDark,
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}
	t.initStyles()
	return t
}

func (t *Theme) initStyles() {
	// Header
	t.Header = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(0, 1)
	t.HeaderTitle = lipgloss.NewStyle().Bold(true).Foreground(Purple)
	t.HeaderSubtitle = lipgloss.NewStyle().Foreground(TextSecondary).Italic(true)
	t.Connected = lipgloss.NewStyle().Foreground(Emerald).Bold(true)
	t.Disconnected = lipgloss.NewStyle().Foreground(Rose).Bold(true)
	t.MessageCount = lipgloss.NewStyle().Foreground(TextSecondary)
	t.ClearHint = lipgloss.NewStyle().Foreground(TextMuted)

	// Messages
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 1)
	t.BotBubble = lipgloss.NewStyle().
		Foreground(BotBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(BotBubbleBorder).
		Padding(0, 1)
	t.RoleLabel = lipgloss.NewStyle().Bold(true).Foreground(Purple)
	t.Timestamp = lipgloss.NewStyle().Foreground(TextMuted)
	t.VerifiedBadge = lipgloss.NewStyle().Foreground(Emerald)
	t.SingleBadge = lipgloss.NewStyle().Foreground(Amber)
	t.SourcesToggle = lipgloss.NewStyle().Foreground(Cyan).Underline(true)
	t.SourceTitle = lipgloss.NewStyle().Bold(true).Foreground(TextPrimary)
	t.SourceSnippet = lipgloss.NewStyle().Foreground(TextSecondary)
	t.SourceURL = lipgloss.NewStyle().Foreground(Cyan).Underline(true)
	t.SourcesPanel = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderTop(false).
		BorderRight(false).
		BorderBottom(false).
		BorderForeground(Overlay).
		PaddingLeft(1)
	t.ThinkingText = lipgloss.NewStyle().Foreground(TextSecondary).Italic(true)
	t.ThinkingDots = lipgloss.NewStyle().Foreground(Purple).Bold(true)

	// Input and status
	t.InputBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(0, 1)
	t.InputBoxDisabled = t.InputBox.BorderForeground(Overlay)
	t.StatusBar = lipgloss.NewStyle().Foreground(TextMuted)
	t.ShortcutKey = lipgloss.NewStyle().Foreground(Purple).Bold(true)
	t.ShortcutDesc = lipgloss.NewStyle().Foreground(TextMuted)
	t.Toast = lipgloss.NewStyle().Foreground(Emerald)

	// Empty state
	t.Greeting = lipgloss.NewStyle().Bold(true).Foreground(Purple)
	t.Tagline = lipgloss.NewStyle().Foreground(TextSecondary)
	t.Feature = lipgloss.NewStyle().Foreground(TextPrimary)
	t.Suggestion = lipgloss.NewStyle().
		Foreground(TextPrimary).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.SuggestionKey = lipgloss.NewStyle().Foreground(Pink).Bold(true)

	// Errors and note page
	t.ErrorBanner = lipgloss.NewStyle().
		Foreground(Rose).
		Background(RoseDeep).
		Bold(true).
		Padding(0, 1)
	t.NoteBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Pink).
		Padding(1, 2)
	t.NoteTitle = lipgloss.NewStyle().Bold(true).Foreground(Pink)
	t.NoteText = lipgloss.NewStyle().Foreground(TextPrimary)
	t.NoteStrong = lipgloss.NewStyle().Bold(true).Foreground(Purple)
	t.NoteHeading = lipgloss.NewStyle().Bold(true).Foreground(Purple).MarginTop(1)
	t.NoteSign = lipgloss.NewStyle().Bold(true).Foreground(Pink)
	t.Muted = lipgloss.NewStyle().Foreground(TextMuted)
}

// SetSize updates the dimensions used for responsive layout.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// LayoutMode is the responsive layout bucket.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)

// GetLayoutMode returns the layout mode for the current width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// BubbleWidth returns the maximum width of a message bubble for the
// current screen width.
func (t *Theme) BubbleWidth() int {
	return BubbleWidth(t.Width)
}

// BubbleWidth returns the maximum bubble width for a screen width: most of
// a narrow screen, 80% otherwise. Zero means 80 columns.
func BubbleWidth(width int) int {
	if width <= 0 {
		width = 80
	}
	if width < 60 {
		return max(width-2, 10)
	}
	return width * 4 / 5
}
