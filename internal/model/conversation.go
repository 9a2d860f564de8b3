// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/thaplubot/thaplubot-tui/internal/util"
)

// maxTitleWidth bounds generated conversation titles.
const maxTitleWidth = 50

// Conversation is a saved transcript: the backend session id plus the
// messages exchanged under it.
type Conversation struct {
	ID        string    `json:"id" yaml:"id"`
	SessionID string    `json:"session_id,omitempty" yaml:"session_id,omitempty"`
	Title     string    `json:"title" yaml:"title"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
	Messages  []Message `json:"messages" yaml:"messages"`
}

// NewConversation creates an empty conversation with a fresh id.
func NewConversation() *Conversation {
	now := time.Now()
	return &Conversation{
		ID:        "conv_" + NewID(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetMessages replaces the transcript and refreshes the title and update time.
func (c *Conversation) SetMessages(msgs []Message) {
	c.Messages = append([]Message(nil), msgs...)
	c.UpdatedAt = time.Now()
	if c.Title == "" {
		c.Title = GenerateTitle(c.Messages)
	}
}

// MessageCount returns the number of messages.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// Preview returns a one-line preview of the last message.
func (c *Conversation) Preview(width int) string {
	if len(c.Messages) == 0 {
		return ""
	}
	last := c.Messages[len(c.Messages)-1]
	return util.TruncateWidth(util.CollapseWhitespace(last.Content), width)
}

// GenerateTitle derives a title from the first user message.
func GenerateTitle(msgs []Message) string {
	for _, m := range msgs {
		if m.IsUser() {
			if line := util.FirstLine(m.Content); line != "" {
				return util.TruncateWidth(line, maxTitleWidth)
			}
		}
	}
	return "Untitled chat"
}
