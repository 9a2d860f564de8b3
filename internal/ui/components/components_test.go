// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/thaplubot/thaplubot-tui/internal/model"
	"github.com/thaplubot/thaplubot-tui/internal/ui/styles"
	"github.com/thaplubot/thaplubot-tui/internal/util"
)

func init() {
	// Plain output keeps assertions independent of the test terminal.
	lipgloss.SetColorProfile(termenv.Ascii)
}

func testTheme(width int) *styles.Theme {
	theme := styles.NewTheme("dark")
	theme.SetSize(width, 40)
	return theme
}

// upperRenderer marks rendered text so tests can tell it was used.
type upperRenderer struct{}

func (upperRenderer) Render(text string) string {
	return "\n  " + strings.ToUpper(text) + "  \n\n"
}

func botMessage(content string, status model.VerificationStatus, sources ...model.Source) model.Message {
	return model.NewBotMessage(content, "2025-03-04T09:07:00Z", sources, status)
}

// =============================================================================
// HEADER TESTS
// =============================================================================

func TestHeader_View(t *testing.T) {
	h := NewHeader(testTheme(100))
	h.SetWidth(100)

	view := h.View()
	if !strings.Contains(view, HeaderTitle) {
		t.Error("header should contain the title")
	}
	if !strings.Contains(view, "Disconnected") {
		t.Error("new header should show Disconnected")
	}
	if strings.Contains(view, "messages") || strings.Contains(view, "clear") {
		t.Error("message count and clear hint only appear with messages")
	}

	h.SetStatus(true, 3)
	view = h.View()
	for _, want := range []string{"Connected", "3 messages", "ctrl+l clear"} {
		if !strings.Contains(view, want) {
			t.Errorf("header missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "Disconnected") {
		t.Error("connected header should not say Disconnected")
	}
}

func TestHeader_NarrowHidesTagline(t *testing.T) {
	h := NewHeader(testTheme(50))
	h.SetWidth(50)
	if strings.Contains(h.View(), HeaderTagline) {
		t.Error("tagline should be hidden on narrow terminals")
	}
}

// =============================================================================
// MESSAGE BUBBLE TESTS
// =============================================================================

func TestSourcesToggleLabel(t *testing.T) {
	tests := map[int]string{1: "1 sources", 2: "2 sources", 12: "12 sources"}
	for n, want := range tests {
		if got := SourcesToggleLabel(n); got != want {
			t.Errorf("SourcesToggleLabel(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestVerificationBadge(t *testing.T) {
	if got := VerificationBadge(""); got != "" {
		t.Errorf("empty status badge = %q", got)
	}
	if got := VerificationBadge(model.VerificationCrossVerified); !strings.HasSuffix(got, "Verified") {
		t.Errorf("cross-verified badge = %q", got)
	}
	if got := VerificationBadge(model.VerificationStatus("whatever")); !strings.HasSuffix(got, "Single source") {
		t.Errorf("other status badge = %q", got)
	}
}

func TestMessageBubble_Bot(t *testing.T) {
	msg := botMessage("hello there", model.VerificationCrossVerified,
		model.Source{Title: "Only source", Snippet: "snip", URL: "https://a.example"})

	b := NewMessageBubble(msg, testTheme(100), upperRenderer{})
	b.Width = 100
	view := b.View()

	if !strings.Contains(view, "HELLO THERE") {
		t.Error("bot body should go through the markdown renderer")
	}
	if !strings.Contains(view, "ThapluBot") {
		t.Error("bot bubble should be labelled")
	}
	if !strings.Contains(view, model.ClockTime(msg.Timestamp)) {
		t.Error("bot bubble should show HH:MM")
	}
	if !strings.Contains(view, "Verified") {
		t.Error("missing verification badge")
	}
	if !strings.Contains(view, "1 sources") {
		t.Error("single source should render as \"1 sources\"")
	}
	if strings.Contains(view, "https://a.example") {
		t.Error("sources should be collapsed by default")
	}

	b.Expanded = true
	if !strings.Contains(b.View(), "https://a.example") {
		t.Error("expanded bubble should show the sources panel")
	}
}

func TestMessageBubble_BotWithoutStatusOrSources(t *testing.T) {
	b := NewMessageBubble(botMessage("plain", ""), testTheme(80), nil)
	view := b.View()
	if strings.Contains(view, "Verified") || strings.Contains(view, "Single source") {
		t.Error("no badge without a status")
	}
	if strings.Contains(view, "sources") {
		t.Error("no toggle without sources")
	}
}

func TestMessageBubble_UserRightAligned(t *testing.T) {
	msg := model.NewUserMessage("hi")
	b := NewMessageBubble(msg, testTheme(80), upperRenderer{})
	b.Width = 80
	b.ShowTimestamp = false

	view := b.View()
	if strings.Contains(view, "HI") {
		t.Error("user text must not be markdown-rendered")
	}
	for _, line := range strings.Split(view, "\n") {
		if lipgloss.Width(line) != 80 {
			t.Fatalf("user bubble lines should be padded to the full width, got %d", lipgloss.Width(line))
		}
		if !strings.HasPrefix(line, " ") {
			t.Fatalf("user bubble should be right aligned: %q", line)
		}
	}
}

func TestMessageBubble_HidesUnparseableTimestamp(t *testing.T) {
	msg := botMessage("x", "")
	msg.Timestamp = "not a time"
	view := NewMessageBubble(msg, testTheme(80), nil).View()
	if strings.Contains(view, "not a time") {
		t.Error("raw timestamp should never be shown")
	}
}

func TestTrimRendered(t *testing.T) {
	got := trimRendered("\n\n  hello   \n  world  \n\n")
	if got != "  hello\n  world" {
		t.Errorf("trimRendered = %q", got)
	}
}

// =============================================================================
// MESSAGE LIST TESTS
// =============================================================================

func conversationFixture() []model.Message {
	src := model.Source{Title: "S", Snippet: "s", URL: "https://s.example"}
	return []model.Message{
		model.NewUserMessage("q1"),
		botMessage("a1", model.VerificationCrossVerified, src),
		model.NewUserMessage("q2"),
		botMessage("a2", model.VerificationSingleSource, src, src),
		botMessage("a3", ""),
	}
}

func TestMessageList_ToggleSourcesSingleExpansion(t *testing.T) {
	msgs := conversationFixture()
	l := NewMessageList(testTheme(80), nil)

	if !l.ToggleSources(msgs, msgs[1].ID) {
		t.Fatal("first toggle should expand")
	}
	if l.Expanded != msgs[1].ID {
		t.Fatalf("Expanded = %q", l.Expanded)
	}

	if !l.ToggleSources(msgs, msgs[3].ID) {
		t.Fatal("toggling another message should expand it")
	}
	if l.Expanded != msgs[3].ID {
		t.Error("only one message may be expanded")
	}

	if l.ToggleSources(msgs, msgs[3].ID) {
		t.Error("toggling the expanded message should collapse it")
	}
	if l.Expanded != "" {
		t.Error("panel should be hidden after toggling twice")
	}

	if l.ToggleSources(msgs, msgs[4].ID) || l.Expanded != "" {
		t.Error("messages without sources cannot be expanded")
	}
	if l.ToggleSources(msgs, msgs[0].ID) || l.Expanded != "" {
		t.Error("user messages cannot be expanded")
	}
}

func TestMessageList_Selection(t *testing.T) {
	msgs := conversationFixture()
	l := NewMessageList(testTheme(80), nil)

	sel, ok := l.SelectedMessage(msgs)
	if !ok || sel.ID != msgs[4].ID {
		t.Fatal("default selection should be the latest bot message")
	}

	l.SelectNext(msgs)
	if l.Selected != msgs[1].ID {
		t.Errorf("next from last should wrap to first bot message")
	}
	l.SelectNext(msgs)
	if l.Selected != msgs[3].ID {
		t.Errorf("next should skip user messages")
	}
	l.SelectPrev(msgs)
	if l.Selected != msgs[1].ID {
		t.Errorf("prev should move back")
	}

	l.Reset()
	if l.Selected != "" || l.Expanded != "" {
		t.Error("Reset should clear toggles")
	}

	if _, ok := l.SelectedMessage([]model.Message{model.NewUserMessage("x")}); ok {
		t.Error("no bot message means no selection")
	}
}

func TestMessageList_ViewOrder(t *testing.T) {
	msgs := conversationFixture()
	l := NewMessageList(testTheme(100), nil)
	l.SetWidth(100)
	view := l.View(msgs)

	last := -1
	for _, m := range msgs {
		i := strings.Index(view, m.Content)
		if i < 0 {
			t.Fatalf("view missing %q", m.Content)
		}
		if i < last {
			t.Fatalf("%q rendered out of order", m.Content)
		}
		last = i
	}
}

// =============================================================================
// SOURCES PANEL TESTS
// =============================================================================

func TestSourcesPanel_TruncatesByDisplayWidth(t *testing.T) {
	long := strings.Repeat("寿司", 40)
	p := NewSourcesPanel([]model.Source{{Title: long, Snippet: strings.Repeat("word ", 60), URL: "https://x.example"}}, testTheme(40))
	p.Width = 40

	view := p.View()
	for _, line := range strings.Split(view, "\n") {
		if w := lipgloss.Width(line); w > 40 {
			t.Errorf("line wider than panel (%d): %q", w, line)
		}
	}
	if !strings.Contains(view, "1. ") {
		t.Error("sources should be numbered")
	}
	if !strings.Contains(view, util.Ellipsis) {
		t.Error("long text should be truncated with an ellipsis")
	}
}

func TestClampLines(t *testing.T) {
	lines := clampLines(strings.Repeat("abcd ", 20), 10, 2)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if !strings.HasSuffix(lines[1], util.Ellipsis) {
		t.Errorf("clamped line should end with ellipsis: %q", lines[1])
	}
	for _, l := range lines {
		if util.StringWidth(l) > 10 {
			t.Errorf("line too wide: %q", l)
		}
	}
	if clampLines("   ", 10, 2) != nil {
		t.Error("blank snippet should produce no lines")
	}
	if got := clampLines("short", 10, 2); len(got) != 1 || got[0] != "short" {
		t.Errorf("short snippet = %q", got)
	}
}

// =============================================================================
// EMPTY STATE, NOTE, STATUS TESTS
// =============================================================================

func TestSuggestionAt(t *testing.T) {
	for i, want := range Suggestions {
		got, ok := SuggestionAt(string(rune('1' + i)))
		if !ok || got != want {
			t.Errorf("SuggestionAt(%d) = %q, %v", i+1, got, ok)
		}
	}
	for _, key := range []string{"0", "5", "a", ""} {
		if _, ok := SuggestionAt(key); ok {
			t.Errorf("SuggestionAt(%q) should fail", key)
		}
	}
}

func TestEmptyState_View(t *testing.T) {
	e := NewEmptyState(testTheme(100))
	e.Width = 100
	view := e.View()
	if !strings.Contains(view, Greeting) {
		t.Error("missing greeting")
	}
	for _, f := range Features {
		if !strings.Contains(view, f.Title) {
			t.Errorf("missing feature %q", f.Title)
		}
	}
	for _, s := range Suggestions {
		if !strings.Contains(view, s) {
			t.Errorf("missing suggestion %q", s)
		}
	}
}

func TestNoteView(t *testing.T) {
	n := NewNoteView(testTheme(100))
	n.Width = 100
	view := n.View()
	for _, want := range []string{"A Note...", "— PJ", "Back to Chat", "Heheheh."} {
		if !strings.Contains(view, want) {
			t.Errorf("note view missing %q", want)
		}
	}
}

func TestErrorBanner(t *testing.T) {
	theme := testTheme(80)
	if ErrorBanner(theme, "", 80) != "" {
		t.Error("empty message should render nothing")
	}
	if !strings.Contains(ErrorBanner(theme, "API not responding", 80), "API not responding") {
		t.Error("banner should contain the message")
	}
}

func TestStatusBar(t *testing.T) {
	s := NewStatusBar(testTheme(30))
	s.Width = 30
	view := s.View()
	if !strings.Contains(view, "enter send") {
		t.Error("first hint should always fit")
	}
	if strings.Contains(view, "ctrl+c") {
		t.Error("hints beyond the width should be dropped")
	}
	if lipgloss.Width(view) > 30 {
		t.Errorf("status bar too wide: %d", lipgloss.Width(view))
	}

	s.Notice = "Copied to clipboard"
	if !strings.Contains(s.View(), "Copied to clipboard") {
		t.Error("notice should replace hints")
	}
}
