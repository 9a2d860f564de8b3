// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat is the Bubble Tea program of the ThapluBot terminal client.

The Model renders a conversation.Manager: it subscribes to the manager's
state stream, turns key presses into manager operations and keeps only
view state of its own (input text, scroll position, selected message,
expanded sources, the note page).

# Key Types

  - Model: the tea.Model
  - Options: dependencies handed to New
  - KeyMap: key bindings
  - ConfigReloadedMsg: sent by the caller when the config file changes

# Usage

	mgr := conversation.New(client, conversation.Config{})
	mgr.Start(ctx)
	defer mgr.Close()

	m := chat.New(chat.Options{Context: ctx, Manager: mgr, Config: cfg})
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
*/
package chat
