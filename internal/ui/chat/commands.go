// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/thaplubot/thaplubot-tui/internal/conversation"
)

// noticeDuration is how long status notices stay visible.
const noticeDuration = 2 * time.Second

// waitForState blocks until the manager publishes a state.
func waitForState(ch <-chan conversation.State) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return stateClosedMsg{}
		}
		return StateMsg{State: s}
	}
}

func sendCmd(ctx context.Context, mgr *conversation.Manager, text string) tea.Cmd {
	return func() tea.Msg {
		return sendDoneMsg{err: mgr.SendMessage(ctx, text)}
	}
}

func clearCmd(ctx context.Context, mgr *conversation.Manager) tea.Cmd {
	return func() tea.Msg {
		mgr.ClearChat(ctx)
		return clearDoneMsg{}
	}
}

func copyCmd(write func(string) error, text string) tea.Cmd {
	return func() tea.Msg {
		return copyDoneMsg{chars: utf8.RuneCountInString(text), err: write(text)}
	}
}

func noticeTimeout(seq int) tea.Cmd {
	return tea.Tick(noticeDuration, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

func noteTick() tea.Cmd {
	return tea.Tick(time.Second/2, func(time.Time) tea.Msg {
		return noteTickMsg{}
	})
}
