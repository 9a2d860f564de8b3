// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for ThapluBot conversations.
//
// # Key Types
//
//   - Role: closed enumeration of message senders (RoleUser, RoleBot)
//   - Message: one turn; bot turns carry a BotReply with sources and
//     verification status, user turns never do
//   - Source: citation (title, snippet, url) backing a bot answer
//   - History: insertion-ordered, append-only message list
//   - Conversation: a history plus the backend session id, used for
//     persisted transcripts
//
// # Usage
//
//	var h model.History
//	h.Append(model.NewUserMessage("hi"))
//	h.Append(model.NewBotMessage("hello!", model.Now(), nil, model.VerificationSingleSource))
//	for _, m := range h.Messages() {
//	    fmt.Println(m.Role.DisplayName(), m.Content)
//	}
package model
