// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists chat transcripts.
//
// Each conversation is a JSON file under the history directory
// (~/.thaplubot/conversations/<id>.json), written atomically. A SQLite
// database in the same directory (index.db) indexes titles and message
// text for search; it is derived data and is rebuilt from the JSON files
// when it is missing or out of date.
//
// # Key Types
//
//   - Store: save, load, list, search and delete transcripts
//   - Meta: listing row for a transcript
//   - Recorder: plugs a Store into a conversation.Manager
//
// # Usage
//
//	store, err := storage.Open(dir, 100)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	metas, err := store.Search("sushi", 20)
package storage
