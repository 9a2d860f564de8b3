// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/thaplubot/thaplubot-tui/internal/config"
	"github.com/thaplubot/thaplubot-tui/internal/conversation"
)

// StateMsg carries a new conversation state from the manager.
type StateMsg struct {
	State conversation.State
}

// stateClosedMsg is sent once the manager closed the subscription.
type stateClosedMsg struct{}

// sendDoneMsg reports that a SendMessage call returned.
type sendDoneMsg struct {
	err error
}

// clearDoneMsg reports that ClearChat returned.
type clearDoneMsg struct{}

// copyDoneMsg reports the result of a clipboard write.
type copyDoneMsg struct {
	chars int
	err   error
}

// noticeExpiredMsg hides the status notice with the given sequence number.
type noticeExpiredMsg struct {
	seq int
}

// noteTickMsg animates the note page.
type noteTickMsg struct{}

// ConfigReloadedMsg applies UI settings from a reloaded config file.
type ConfigReloadedMsg struct {
	Config *config.Config
}
