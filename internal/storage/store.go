// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/thaplubot/thaplubot-tui/internal/model"
	"github.com/thaplubot/thaplubot-tui/internal/util"
)

const (
	// previewWidth bounds the preview text in listings.
	previewWidth = 60

	maxPositionDigits = 4
)

// =============================================================================
// ERRORS
// =============================================================================

// ErrConversationNotFound is returned when no transcript has the given id.
var ErrConversationNotFound = &ConversationError{Message: "conversation not found"}

// ErrInvalidID is returned for ids that cannot name a file.
var ErrInvalidID = &ConversationError{Message: "invalid conversation id"}

// ConversationError is a storage error that can be matched with errors.Is.
type ConversationError struct {
	Message string
}

func (e *ConversationError) Error() string {
	return e.Message
}

// Is matches errors with the same message.
func (e *ConversationError) Is(target error) bool {
	t, ok := target.(*ConversationError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}

// =============================================================================
// META
// =============================================================================

// Meta summarizes a stored transcript for listings.
type Meta struct {
	ID           string    `json:"id" yaml:"id"`
	Title        string    `json:"title" yaml:"title"`
	SessionID    string    `json:"session_id,omitempty" yaml:"session_id,omitempty"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" yaml:"updated_at"`
	MessageCount int       `json:"message_count" yaml:"message_count"`
	Preview      string    `json:"preview" yaml:"preview"`
}

func metaOf(c *model.Conversation) Meta {
	return Meta{
		ID:           c.ID,
		Title:        c.Title,
		SessionID:    c.SessionID,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
		MessageCount: c.MessageCount(),
		Preview:      c.Preview(previewWidth),
	}
}

// =============================================================================
// STORE
// =============================================================================

// Store manages transcripts in a directory. It is safe for concurrent use.
type Store struct {
	// BaseDir holds one JSON file per conversation and the search index.
	BaseDir string

	// MaxConversations limits stored conversations; the least recently
	// updated are removed first. 0 means unlimited.
	MaxConversations int

	mu    sync.Mutex
	index *Index
}

// Open opens (creating if needed) the store in dir and its search index.
func Open(dir string, maxConversations int) (*Store, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}
	idx, err := OpenIndex(filepath.Join(dir, "index.db"))
	if err != nil {
		return nil, err
	}
	s := &Store{BaseDir: dir, MaxConversations: maxConversations, index: idx}

	if err := s.syncIndex(); err != nil {
		idx.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the search index.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index == nil {
		return nil
	}
	err := s.index.Close()
	s.index = nil
	return err
}

// Save writes conv and updates the index. A missing id or title is filled
// in.
func (s *Store) Save(conv *model.Conversation) error {
	if conv.ID == "" {
		conv.ID = model.NewConversation().ID
	}
	if !validID(conv.ID) {
		return ErrInvalidID
	}
	if conv.Title == "" {
		conv.Title = model.GenerateTitle(conv.Messages)
	}
	if conv.CreatedAt.IsZero() {
		conv.CreatedAt = time.Now()
	}
	if conv.UpdatedAt.IsZero() {
		conv.UpdatedAt = conv.CreatedAt
	}

	data, err := json.MarshalIndent(conv, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode conversation: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := util.AtomicWriteFile(s.filePath(conv.ID), data, 0600); err != nil {
		return fmt.Errorf("failed to write conversation: %w", err)
	}
	if s.index != nil {
		if err := s.index.Upsert(conv); err != nil {
			return err
		}
	}
	return s.enforceLimitLocked()
}

// Load reads the conversation with the given id.
func (s *Store) Load(id string) (*model.Conversation, error) {
	if !validID(id) {
		return nil, ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(id)
}

func (s *Store) loadLocked(id string) (*model.Conversation, error) {
	data, err := os.ReadFile(s.filePath(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	var conv model.Conversation
	if err := json.Unmarshal(data, &conv); err != nil {
		return nil, fmt.Errorf("failed to decode conversation %s: %w", id, err)
	}
	return &conv, nil
}

// LoadByIndex loads the n-th conversation (1-based) of List.
func (s *Store) LoadByIndex(n int) (*model.Conversation, error) {
	metas, err := s.List()
	if err != nil {
		return nil, err
	}
	if n < 1 || n > len(metas) {
		return nil, ErrConversationNotFound
	}
	return s.Load(metas[n-1].ID)
}

// Resolve loads a conversation by id, by 1-based list position or by
// unique id prefix.
func (s *Store) Resolve(ref string) (*model.Conversation, error) {
	// Short numbers are list positions; longer digit runs may be id prefixes.
	if len(ref) <= maxPositionDigits {
		if n, err := strconv.Atoi(ref); err == nil {
			return s.LoadByIndex(n)
		}
	}
	if validID(ref) {
		if conv, err := s.Load(ref); err == nil {
			return conv, nil
		}
	}
	metas, err := s.List()
	if err != nil {
		return nil, err
	}
	var match string
	for _, m := range metas {
		if strings.HasPrefix(m.ID, ref) || strings.HasPrefix(strings.TrimPrefix(m.ID, "conv_"), ref) {
			if match != "" {
				return nil, fmt.Errorf("ambiguous conversation reference %q", ref)
			}
			match = m.ID
		}
	}
	if match == "" {
		return nil, ErrConversationNotFound
	}
	return s.Load(match)
}

// List returns every stored conversation, most recently updated first.
// Unreadable files are skipped.
func (s *Store) List() ([]Meta, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listLocked()
}

func (s *Store) listLocked() ([]Meta, error) {
	ids, err := s.fileIDsLocked()
	if err != nil {
		return nil, err
	}
	metas := make([]Meta, 0, len(ids))
	for _, id := range ids {
		conv, err := s.loadLocked(id)
		if err != nil {
			continue
		}
		metas = append(metas, metaOf(conv))
	}
	sort.Slice(metas, func(i, j int) bool {
		return metas[i].UpdatedAt.After(metas[j].UpdatedAt)
	})
	return metas, nil
}

// Search returns conversations whose title or messages contain query,
// most recently updated first. Matching ignores case. An empty query
// lists everything.
func (s *Store) Search(query string, limit int) ([]Meta, error) {
	if strings.TrimSpace(query) == "" {
		metas, err := s.List()
		if err != nil {
			return nil, err
		}
		if limit > 0 && len(metas) > limit {
			metas = metas[:limit]
		}
		return metas, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index == nil {
		return nil, ErrIndexClosed
	}
	ids, err := s.index.Search(query, limit)
	if err != nil {
		return nil, err
	}
	metas := make([]Meta, 0, len(ids))
	for _, id := range ids {
		conv, err := s.loadLocked(id)
		if err != nil {
			continue
		}
		metas = append(metas, metaOf(conv))
	}
	return metas, nil
}

// Delete removes a conversation.
func (s *Store) Delete(id string) error {
	if !validID(id) {
		return ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteLocked(id)
}

func (s *Store) deleteLocked(id string) error {
	if err := os.Remove(s.filePath(id)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrConversationNotFound
		}
		return err
	}
	if s.index != nil {
		return s.index.Delete(id)
	}
	return nil
}

// Clear removes every conversation.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids, err := s.fileIDsLocked()
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := s.deleteLocked(id); err != nil && !errors.Is(err, ErrConversationNotFound) {
			return err
		}
	}
	return nil
}

// Reindex rebuilds the search index from the JSON files.
func (s *Store) Reindex() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reindexLocked()
}

func (s *Store) reindexLocked() error {
	if s.index == nil {
		return ErrIndexClosed
	}
	ids, err := s.fileIDsLocked()
	if err != nil {
		return err
	}
	convs := make([]*model.Conversation, 0, len(ids))
	for _, id := range ids {
		if conv, err := s.loadLocked(id); err == nil {
			convs = append(convs, conv)
		}
	}
	return s.index.Rebuild(convs)
}

// syncIndex rebuilds the index when it disagrees with the files on disk,
// e.g. after files were copied in or the database was deleted.
func (s *Store) syncIndex() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids, err := s.fileIDsLocked()
	if err != nil {
		return err
	}
	n, err := s.index.Count()
	if err != nil {
		return err
	}
	if n == len(ids) {
		return nil
	}
	return s.reindexLocked()
}

func (s *Store) enforceLimitLocked() error {
	if s.MaxConversations <= 0 {
		return nil
	}
	metas, err := s.listLocked()
	if err != nil || len(metas) <= s.MaxConversations {
		return err
	}
	for _, m := range metas[s.MaxConversations:] {
		if err := s.deleteLocked(m.ID); err != nil && !errors.Is(err, ErrConversationNotFound) {
			return err
		}
	}
	return nil
}

func (s *Store) fileIDsLocked() ([]string, error) {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		if id := strings.TrimSuffix(name, ".json"); validID(id) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (s *Store) filePath(id string) string {
	return filepath.Join(s.BaseDir, id+".json")
}

var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

func validID(id string) bool {
	return idPattern.MatchString(id)
}
