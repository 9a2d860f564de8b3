// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the thaplubot packages.
//
// # Key Functions
//
// String Utilities:
//   - TruncateWidth: display-width aware truncation with ellipsis
//   - FirstLine: first non-empty line of a text, used for titles
//   - PadRight: pad a string to a display width
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
//
// # Usage
//
//	title := util.TruncateWidth(util.FirstLine(text), 40)
//	err := util.AtomicWriteFile(path, data, 0600)
package util
