// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the rendering pieces of the ThapluBot chat
screen. Components are plain structs with a View method; they hold no
conversation state of their own and are rebuilt from a conversation.State
on every frame.

# Core Components

Header (header.go) - Title, tagline, connection indicator, message count.
MessageBubble (message.go) - One chat turn with timestamp, verification
badge and sources toggle.
MessageList (list.go) - The ordered history with selection and the single
expanded sources panel.
SourcesPanel (sources.go) - Numbered source list under a bot reply.
TypingIndicator (typing.go) - "Thinking" with animated dots.
EmptyState (empty.go) - Greeting, feature tiles and numbered suggestions.
NoteView (note.go) - The hidden note page.
ErrorBanner, StatusBar (status.go) - Error line and key hints.

# Usage

	theme := styles.NewTheme("auto")
	list := components.NewMessageList(theme, renderer)
	list.SetWidth(width)
	view := list.View(state.Messages)
*/
package components
