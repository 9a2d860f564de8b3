// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/thaplubot/thaplubot-tui/internal/model"
	"github.com/thaplubot/thaplubot-tui/internal/util"
)

// Export formats.
const (
	FormatMarkdown = "md"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
)

// Formats lists the supported export formats.
var Formats = []string{FormatMarkdown, FormatJSON, FormatYAML}

// Export renders conv in the named format.
func Export(conv *model.Conversation, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatMarkdown, "markdown":
		return []byte(ExportMarkdown(conv)), nil
	case FormatJSON:
		return ExportJSON(conv)
	case FormatYAML, "yml":
		return ExportYAML(conv)
	default:
		return nil, fmt.Errorf("unknown export format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

// ExportJSON renders conv as indented JSON.
func ExportJSON(conv *model.Conversation) ([]byte, error) {
	data, err := json.MarshalIndent(conv, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// ExportYAML renders conv as YAML.
func ExportYAML(conv *model.Conversation) ([]byte, error) {
	return yaml.Marshal(conv)
}

// ExportMarkdown renders conv as a readable Markdown document. Bot
// replies carry their verification label and a numbered source list.
func ExportMarkdown(conv *model.Conversation) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", conv.Title)
	fmt.Fprintf(&sb, "_%s", conv.CreatedAt.Format("2006-01-02 15:04"))
	if conv.SessionID != "" {
		fmt.Fprintf(&sb, " · session `%s`", conv.SessionID)
	}
	sb.WriteString("_\n")

	for _, m := range conv.Messages {
		fmt.Fprintf(&sb, "\n## %s", m.Role.DisplayName())
		if clock := model.ClockTime(m.Timestamp); clock != "" {
			fmt.Fprintf(&sb, " (%s)", clock)
		}
		sb.WriteString("\n\n")
		sb.WriteString(strings.TrimSpace(m.Content))
		sb.WriteString("\n")

		if !m.IsBot() {
			continue
		}
		fmt.Fprintf(&sb, "\n> %s\n", m.Verification().Label())
		if srcs := m.Sources(); len(srcs) > 0 {
			sb.WriteString("\n**Sources**\n\n")
			for i, src := range srcs {
				if src.URL != "" {
					fmt.Fprintf(&sb, "%d. [%s](%s)\n", i+1, src.Title, src.URL)
				} else {
					fmt.Fprintf(&sb, "%d. %s\n", i+1, src.Title)
				}
			}
		}
	}
	return sb.String()
}

// FormatList renders metas as a numbered table for the terminal.
func FormatList(metas []Meta, now time.Time) string {
	if len(metas) == 0 {
		return "No saved conversations.\n"
	}
	var sb strings.Builder
	for i, m := range metas {
		fmt.Fprintf(&sb, "%3d. %s  %s  (%s, %s)\n",
			i+1,
			shortID(m.ID),
			util.PadRight(util.TruncateWidth(m.Title, 40), 40),
			messageCount(m.MessageCount),
			humanize.RelTime(m.UpdatedAt, now, "ago", "from now"),
		)
	}
	return sb.String()
}

func shortID(id string) string {
	id = strings.TrimPrefix(id, "conv_")
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func messageCount(n int) string {
	if n == 1 {
		return "1 message"
	}
	return humanize.Comma(int64(n)) + " messages"
}
