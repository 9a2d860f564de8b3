// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"sync"

	"github.com/thaplubot/thaplubot-tui/internal/conversation"
	"github.com/thaplubot/thaplubot-tui/internal/model"
)

// Recorder saves the live conversation to a Store after every exchange.
// It implements conversation.Recorder.
type Recorder struct {
	store *Store

	mu      sync.Mutex
	current *model.Conversation
}

var _ conversation.Recorder = (*Recorder)(nil)

// NewRecorder returns a recorder writing to store.
func NewRecorder(store *Store) *Recorder {
	return &Recorder{store: store}
}

// Record saves s as the current transcript. Empty states are ignored.
func (r *Recorder) Record(s conversation.State) error {
	if len(s.Messages) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current == nil {
		r.current = model.NewConversation()
	}
	if s.SessionID != "" {
		r.current.SessionID = s.SessionID
	}
	r.current.SetMessages(s.Messages)
	return r.store.Save(r.current)
}

// Reset ends the current transcript; the next Record starts a new one.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.current = nil
	r.mu.Unlock()
}

// CurrentID returns the id of the transcript being recorded, or "".
func (r *Recorder) CurrentID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return ""
	}
	return r.current.ID
}
