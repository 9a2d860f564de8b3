// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/thaplubot/thaplubot-tui/internal/model"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrIndexClosed is returned when the search index is used after Close.
var ErrIndexClosed = errors.New("search index closed")

const indexSchema = `
CREATE TABLE IF NOT EXISTS conversations (
	id            TEXT PRIMARY KEY,
	title         TEXT NOT NULL,
	session_id    TEXT NOT NULL DEFAULT '',
	updated_at    INTEGER NOT NULL,
	message_count INTEGER NOT NULL,
	body          TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_conversations_updated ON conversations(updated_at DESC);
`

// Index is a SQLite table of case-folded transcript text.
type Index struct {
	db *sql.DB
}

// OpenIndex opens or creates the index database at path.
func OpenIndex(path string) (*Index, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}

	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(indexSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index schema: %w", err)
	}
	return &Index{db: db}, nil
}

// Close closes the database.
func (i *Index) Close() error {
	return i.db.Close()
}

// Upsert indexes conv, replacing any previous entry.
func (i *Index) Upsert(conv *model.Conversation) error {
	_, err := i.db.Exec(`
		INSERT INTO conversations (id, title, session_id, updated_at, message_count, body)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			session_id = excluded.session_id,
			updated_at = excluded.updated_at,
			message_count = excluded.message_count,
			body = excluded.body`,
		conv.ID, conv.Title, conv.SessionID, conv.UpdatedAt.UnixNano(), conv.MessageCount(), searchBody(conv))
	if err != nil {
		return fmt.Errorf("failed to index conversation: %w", err)
	}
	return nil
}

// Delete removes id from the index. Unknown ids are ignored.
func (i *Index) Delete(id string) error {
	if _, err := i.db.Exec(`DELETE FROM conversations WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to unindex conversation: %w", err)
	}
	return nil
}

// Count returns the number of indexed conversations.
func (i *Index) Count() (int, error) {
	var n int
	if err := i.db.QueryRow(`SELECT COUNT(*) FROM conversations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count index: %w", err)
	}
	return n, nil
}

// Rebuild replaces the whole index with convs.
func (i *Index) Rebuild(convs []*model.Conversation) error {
	tx, err := i.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin reindex: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM conversations`); err != nil {
		return fmt.Errorf("failed to clear index: %w", err)
	}
	stmt, err := tx.Prepare(`
		INSERT INTO conversations (id, title, session_id, updated_at, message_count, body)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare reindex: %w", err)
	}
	defer stmt.Close()

	for _, conv := range convs {
		if _, err := stmt.Exec(conv.ID, conv.Title, conv.SessionID, conv.UpdatedAt.UnixNano(), conv.MessageCount(), searchBody(conv)); err != nil {
			return fmt.Errorf("failed to index %s: %w", conv.ID, err)
		}
	}
	return tx.Commit()
}

// Search returns ids of conversations whose title or text contains query,
// newest first. limit <= 0 means no limit.
func (i *Index) Search(query string, limit int) ([]string, error) {
	pattern := "%" + escapeLike(fold(strings.TrimSpace(query))) + "%"
	if limit <= 0 {
		limit = -1
	}
	rows, err := i.db.Query(`
		SELECT id FROM conversations
		WHERE body LIKE ? ESCAPE '\'
		ORDER BY updated_at DESC
		LIMIT ?`, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// searchBody is the folded text matched by Search: title first, then
// every message on its own line.
func searchBody(conv *model.Conversation) string {
	var sb strings.Builder
	sb.WriteString(conv.Title)
	for _, m := range conv.Messages {
		sb.WriteByte('\n')
		sb.WriteString(m.Content)
		for _, src := range m.Sources() {
			sb.WriteByte('\n')
			sb.WriteString(src.Title)
		}
	}
	return fold(sb.String())
}

// fold case-folds s so "Straße" matches "STRASSE".
func fold(s string) string {
	return cases.Fold().String(s)
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
