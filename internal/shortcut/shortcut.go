// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package shortcut recognizes chat input that opens a hidden view instead
// of being sent.
package shortcut

import "strings"

// SecretNotePhrase opens the note view when typed as a whole message.
const SecretNotePhrase = "pj note"

// IsSecretNote reports whether input is exactly the secret phrase, ignoring
// case and surrounding whitespace. Anything longer is a normal message.
func IsSecretNote(input string) bool {
	return strings.ToLower(strings.TrimSpace(input)) == SecretNotePhrase
}
