// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/thaplubot/thaplubot-tui/internal/config"
	"github.com/thaplubot/thaplubot-tui/internal/markdown"
	"github.com/thaplubot/thaplubot-tui/internal/model"
	"github.com/thaplubot/thaplubot-tui/internal/ui/components"
)

// =============================================================================
// MARKDOWN
// =============================================================================

// newOutputRenderer returns the markdown renderer used for replies written
// to w. Output that is not a terminal is left untouched so pipes get the
// raw text.
func newOutputRenderer(cfg *config.Config, w io.Writer) func(string) string {
	raw := func(s string) string { return s }
	if !isTerminal(w) {
		return raw
	}
	r, err := markdown.New(markdown.Options{
		Style:     cfg.UI.MarkdownStyle,
		Width:     min(terminalWidth(w), cfg.UI.WordWrap),
		CodeStyle: cfg.UI.CodeStyle,
	})
	if err != nil {
		return raw
	}
	return r.Render
}

// =============================================================================
// REPLIES
// =============================================================================

// writeReply prints a bot reply with its header line:
//
//	ThapluBot 14:05  [✓] Verified · 3 sources
func writeReply(w io.Writer, msg model.Message, render func(string) string) {
	header := BotStyle.Render(msg.Role.DisplayName())
	if clock := model.ClockTime(msg.Timestamp); clock != "" {
		header += " " + DimStyle.Render(clock)
	}
	if badge := components.VerificationBadge(msg.Verification()); badge != "" {
		style := WarningStyle
		if msg.Verification().IsCrossVerified() {
			style = SuccessStyle
		}
		header += "  " + style.Render(badge)
	}
	if msg.HasSources() {
		header += DimStyle.Render(" · " + components.SourcesToggleLabel(len(msg.Sources())))
	}
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, strings.TrimRight(render(msg.Content), "\n"))
}

// writeSources prints the numbered source list of msg.
func writeSources(w io.Writer, msg model.Message) {
	sources := msg.Sources()
	if len(sources) == 0 {
		fmt.Fprintln(w, DimStyle.Render("No sources for this reply."))
		return
	}
	for i, src := range sources {
		title := src.Title
		if title == "" {
			title = src.URL
		}
		fmt.Fprintf(w, "%2d. %s\n", i+1, ValueStyle.Render(title))
		if snippet := strings.TrimSpace(src.Snippet); snippet != "" {
			fmt.Fprintf(w, "    %s\n", DimStyle.Render(snippet))
		}
		if src.URL != "" {
			fmt.Fprintf(w, "    %s\n", src.URL)
		}
	}
}

// lastBotMessage returns the newest bot message in msgs.
func lastBotMessage(msgs []model.Message) (model.Message, bool) {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].IsBot() {
			return msgs[i], true
		}
	}
	return model.Message{}, false
}

// botMessages returns the bot messages of msgs in order.
func botMessages(msgs []model.Message) []model.Message {
	var out []model.Message
	for _, m := range msgs {
		if m.IsBot() {
			out = append(out, m)
		}
	}
	return out
}

// =============================================================================
// JSON
// =============================================================================

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
