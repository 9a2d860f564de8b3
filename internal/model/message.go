// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role identifies the sender of a message.
type Role int

const (
	RoleUser Role = iota
	RoleBot
)

// String returns the wire name of the role.
func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleBot:
		return "bot"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleBot:
		return "ThapluBot"
	default:
		return r.String()
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) {
	switch r {
	case RoleUser, RoleBot:
		return []byte(r.String()), nil
	}
	return nil, fmt.Errorf("invalid role %d", int(r))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Role) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "user":
		*r = RoleUser
	case "bot", "assistant":
		*r = RoleBot
	default:
		return fmt.Errorf("invalid role %q", text)
	}
	return nil
}

// =============================================================================
// SOURCES AND VERIFICATION
// =============================================================================

// Source is a citation backing a bot answer.
type Source struct {
	Title   string `json:"title" yaml:"title"`
	Snippet string `json:"snippet" yaml:"snippet"`
	URL     string `json:"url" yaml:"url"`
}

// VerificationStatus reports whether an answer was cross-checked. The
// backend may send values this client does not know; anything other than
// VerificationCrossVerified is treated as single-source.
type VerificationStatus string

const (
	VerificationCrossVerified VerificationStatus = "cross-verified"
	VerificationSingleSource  VerificationStatus = "single-source"
)

// IsCrossVerified reports whether the answer was checked across sources.
func (v VerificationStatus) IsCrossVerified() bool {
	return v == VerificationCrossVerified
}

// Label returns the badge text shown next to a bot message.
func (v VerificationStatus) Label() string {
	if v.IsCrossVerified() {
		return "Verified"
	}
	return "Single source"
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// BotReply holds the fields that only exist on bot messages.
type BotReply struct {
	Sources      []Source           `json:"sources,omitempty" yaml:"sources,omitempty"`
	Verification VerificationStatus `json:"verification_status,omitempty" yaml:"verification_status,omitempty"`
}

// Message is a single immutable turn of a conversation.
type Message struct {
	ID        string `json:"id" yaml:"id"`
	Role      Role   `json:"role" yaml:"role"`
	Content   string `json:"content" yaml:"content"`
	Timestamp string `json:"timestamp" yaml:"timestamp"` // ISO-8601

	// Bot is nil for user messages.
	Bot *BotReply `json:"bot,omitempty" yaml:"bot,omitempty"`
}

// NewUserMessage creates a user message with a fresh id and the current time.
func NewUserMessage(content string) Message {
	return Message{
		ID:        NewID(),
		Role:      RoleUser,
		Content:   content,
		Timestamp: Now(),
	}
}

// NewBotMessage creates a bot message. An empty timestamp is replaced
// with the current time.
func NewBotMessage(content, timestamp string, sources []Source, status VerificationStatus) Message {
	if timestamp == "" {
		timestamp = Now()
	}
	var src []Source
	if len(sources) > 0 {
		src = append([]Source(nil), sources...)
	}
	return Message{
		ID:        NewID(),
		Role:      RoleBot,
		Content:   content,
		Timestamp: timestamp,
		Bot: &BotReply{
			Sources:      src,
			Verification: status,
		},
	}
}

// IsUser reports whether the message was sent by the user.
func (m Message) IsUser() bool { return m.Role == RoleUser }

// IsBot reports whether the message came from the bot.
func (m Message) IsBot() bool { return m.Role == RoleBot }

// Sources returns the citations of a bot message, or nil.
func (m Message) Sources() []Source {
	if m.Bot == nil {
		return nil
	}
	return m.Bot.Sources
}

// Verification returns the verification status of a bot message, or "".
func (m Message) Verification() VerificationStatus {
	if m.Bot == nil {
		return ""
	}
	return m.Bot.Verification
}

// HasSources reports whether the message carries at least one citation.
func (m Message) HasSources() bool {
	return len(m.Sources()) > 0
}

// Time parses the message timestamp. The second result is false when the
// timestamp is empty or in an unknown layout.
func (m Message) Time() (time.Time, bool) {
	return ParseTimestamp(m.Timestamp)
}

// =============================================================================
// IDS AND TIMESTAMPS
// =============================================================================

// NewID returns a random UUID string.
func NewID() string {
	return uuid.NewString()
}

// TimestampLayout is the layout used for locally generated timestamps,
// matching JavaScript's Date.toISOString.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatTimestamp formats t as an ISO-8601 UTC timestamp.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Now returns the current time as an ISO-8601 UTC timestamp.
func Now() string {
	return FormatTimestamp(time.Now())
}

// timestampLayouts lists the accepted timestamp layouts. The backend sends
// naive local timestamps with microseconds.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// ParseTimestamp parses an ISO-8601 timestamp in any accepted layout.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		var (
			t   time.Time
			err error
		)
		if strings.HasSuffix(layout, "999999999") {
			t, err = time.ParseInLocation(layout, s, time.Local)
		} else {
			t, err = time.Parse(layout, s)
		}
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ClockTime formats a timestamp as local HH:MM, or "" if it cannot be parsed.
func ClockTime(s string) string {
	t, ok := ParseTimestamp(s)
	if !ok {
		return ""
	}
	return t.Local().Format("15:04")
}
