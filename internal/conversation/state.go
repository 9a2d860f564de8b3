// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

import "github.com/thaplubot/thaplubot-tui/internal/model"

// State is a point-in-time copy of the conversation. Callers may keep and
// read it freely; it never changes after it is returned.
type State struct {
	// SessionID is empty until the backend assigns one.
	SessionID string

	// Messages in insertion order.
	Messages []model.Message

	// Connected reflects the last completed health probe.
	Connected bool

	// Probed is false until the first health probe completes.
	Probed bool

	// Pending is true while at least one SendMessage call is outstanding.
	Pending  bool
	InFlight int

	// LastError is empty when there is nothing to report.
	LastError string
}

// HasError reports whether a last error is set.
func (s State) HasError() bool {
	return s.LastError != ""
}

// ShowErrorBanner reports whether the error banner should be visible:
// only while disconnected.
func (s State) ShowErrorBanner() bool {
	return s.HasError() && !s.Connected
}

// CanSend reports whether the input should accept a new message.
func (s State) CanSend() bool {
	return s.Connected && !s.Pending
}

// MessageCount returns the number of messages.
func (s State) MessageCount() int {
	return len(s.Messages)
}

