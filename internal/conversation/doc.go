// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package conversation owns the state of the active ThapluBot chat.
//
// A Manager is the single authoritative store for one conversation: the
// backend session id, the message history, connection health and the
// request lifecycle. Front-ends (the TUI, the line REPL, one-shot
// commands) create a Manager, read it through Snapshot or Subscribe, and
// dispose of it with Close.
//
// # Request Lifecycle
//
// Each SendMessage call goes idle -> pending -> resolved -> idle:
//
//	success          session id adopted, bot reply appended
//	app error        LastError = backend error, fallback reply appended
//	transport error  LastError = connect error, apology reply appended
//
// There are no retries. A failed chat call never changes Connected; only
// the health probe does.
//
// # Usage
//
//	mgr := conversation.New(client, conversation.DefaultConfig())
//	mgr.Start(ctx) // probe now and every 30s
//	defer mgr.Close()
//
//	updates, unsubscribe := mgr.Subscribe()
//	defer unsubscribe()
//
//	go mgr.SendMessage(ctx, "Chal sushi khane chalte hai")
//	state := <-updates
package conversation
