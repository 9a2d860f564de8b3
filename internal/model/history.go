// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// History is an insertion-ordered list of messages. Messages are only ever
// appended or cleared in bulk. History is not safe for concurrent use; the
// owner serializes access.
type History struct {
	messages []Message
}

// Append adds m to the end of the history.
func (h *History) Append(m Message) {
	h.messages = append(h.messages, m)
}

// Messages returns a copy of the messages in order.
func (h *History) Messages() []Message {
	if len(h.messages) == 0 {
		return nil
	}
	out := make([]Message, len(h.messages))
	copy(out, h.messages)
	return out
}

// Clear removes every message.
func (h *History) Clear() {
	h.messages = nil
}
