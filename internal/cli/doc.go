// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the thaplubot command line.
//
// Running thaplubot without a subcommand opens the full-screen chat. The
// other commands are front-ends over the same conversation manager and
// transcript store:
//
//	thaplubot                     open the chat TUI
//	thaplubot chat                line-mode chat with input history
//	thaplubot ask "question"      one question, answer on stdout
//	thaplubot status              probe the backend (exit 1 if unreachable)
//	thaplubot sessions ...        list, show, search, delete, export, reindex transcripts
//	thaplubot config ...          show, path, get, init, set
//	thaplubot version
//
// Global flags:
//
//	--config FILE     config file (default ~/.thaplubot/config.toml)
//	--api-url URL     backend base URL for this run
//	--debug           debug logging
//
// Output is plain when stdout is not a terminal or NO_COLOR is set.
package cli
