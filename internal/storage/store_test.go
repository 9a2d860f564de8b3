// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/thaplubot/thaplubot-tui/internal/conversation"
	"github.com/thaplubot/thaplubot-tui/internal/model"
)

func openStore(t *testing.T, max int) *Store {
	t.Helper()
	s, err := Open(t.TempDir(), max)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleConversation(question, answer string) *model.Conversation {
	conv := model.NewConversation()
	conv.SessionID = "sess-1"
	conv.SetMessages([]model.Message{
		model.NewUserMessage(question),
		model.NewBotMessage(answer, "2025-01-01T12:00:00Z",
			[]model.Source{{Title: "Menu", Snippet: "Fresh fish", URL: "https://example.com/menu"}},
			model.VerificationCrossVerified),
	})
	return conv
}

func TestStore_SaveLoad(t *testing.T) {
	s := openStore(t, 0)
	conv := sampleConversation("Where is good sushi?", "Try the harbour.")

	require.NoError(t, s.Save(conv))

	got, err := s.Load(conv.ID)
	require.NoError(t, err)
	assert.Equal(t, conv.ID, got.ID)
	assert.Equal(t, "Where is good sushi?", got.Title)
	assert.Equal(t, "sess-1", got.SessionID)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, model.RoleBot, got.Messages[1].Role)
	assert.True(t, got.Messages[1].Verification().IsCrossVerified())
	assert.Equal(t, "Menu", got.Messages[1].Sources()[0].Title)

	info, err := os.Stat(filepath.Join(s.BaseDir, conv.ID+".json"))
	require.NoError(t, err)
	if runtime.GOOS != "windows" && info.Mode().Perm()&0077 != 0 {
		t.Errorf("transcript permissions = %v, want owner only", info.Mode().Perm())
	}
}

func TestStore_LoadMissing(t *testing.T) {
	s := openStore(t, 0)
	_, err := s.Load("conv_missing")
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestStore_RejectsPathTraversal(t *testing.T) {
	s := openStore(t, 0)
	for _, id := range []string{"../etc/passwd", "a/b", "", strings.Repeat("x", 200)} {
		_, err := s.Load(id)
		assert.ErrorIs(t, err, ErrInvalidID, "id %q", id)
	}
	conv := model.NewConversation()
	conv.ID = "../../evil"
	assert.ErrorIs(t, s.Save(conv), ErrInvalidID)
}

func TestStore_ListNewestFirst(t *testing.T) {
	s := openStore(t, 0)
	base := time.Now()
	for i, q := range []string{"first", "second", "third"} {
		conv := sampleConversation(q, "ok")
		conv.UpdatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, s.Save(conv))
	}

	metas, err := s.List()
	require.NoError(t, err)
	require.Len(t, metas, 3)
	assert.Equal(t, "third", metas[0].Title)
	assert.Equal(t, "first", metas[2].Title)
	assert.Equal(t, 2, metas[0].MessageCount)
	assert.Equal(t, "ok", metas[0].Preview)
}

func TestStore_EnforcesLimit(t *testing.T) {
	s := openStore(t, 2)
	base := time.Now()
	var ids []string
	for i := 0; i < 3; i++ {
		conv := sampleConversation("q", "a")
		conv.UpdatedAt = base.Add(time.Duration(i) * time.Second)
		require.NoError(t, s.Save(conv))
		ids = append(ids, conv.ID)
	}

	metas, err := s.List()
	require.NoError(t, err)
	assert.Len(t, metas, 2)
	_, err = s.Load(ids[0])
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestStore_SearchFoldsCase(t *testing.T) {
	s := openStore(t, 0)
	sushi := sampleConversation("Where is good SUSHI?", "Try the harbour.")
	ramen := sampleConversation("Best ramen nearby", "Go to Straße 5.")
	require.NoError(t, s.Save(sushi))
	require.NoError(t, s.Save(ramen))

	metas, err := s.Search("sushi", 10)
	require.NoError(t, err)
	require.Len(t, metas, 1)
	assert.Equal(t, sushi.ID, metas[0].ID)

	metas, err = s.Search("STRASSE", 10)
	require.NoError(t, err)
	require.Len(t, metas, 1)
	assert.Equal(t, ramen.ID, metas[0].ID)

	// Source titles are searchable.
	metas, err = s.Search("menu", 10)
	require.NoError(t, err)
	assert.Len(t, metas, 2)

	metas, err = s.Search("nothing here", 10)
	require.NoError(t, err)
	assert.Empty(t, metas)
}

func TestStore_SearchTreatsWildcardsLiterally(t *testing.T) {
	s := openStore(t, 0)
	require.NoError(t, s.Save(sampleConversation("discount 100% off", "nice")))
	require.NoError(t, s.Save(sampleConversation("discount 100 off", "nice")))

	metas, err := s.Search("100%", 10)
	require.NoError(t, err)
	require.Len(t, metas, 1)
	assert.Equal(t, "discount 100% off", metas[0].Title)
}

func TestStore_SearchEmptyQueryLists(t *testing.T) {
	s := openStore(t, 0)
	for i := 0; i < 3; i++ {
		require.NoError(t, s.Save(sampleConversation("q", "a")))
	}
	metas, err := s.Search("  ", 2)
	require.NoError(t, err)
	assert.Len(t, metas, 2)
}

func TestStore_ReindexesOnOpen(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, 0)
	require.NoError(t, err)
	conv := sampleConversation("pizza toppings", "pineapple")
	require.NoError(t, s.Save(conv))
	require.NoError(t, s.Close())

	// Drop the database; the transcripts are the source of truth.
	for _, name := range []string{"index.db", "index.db-wal", "index.db-shm"} {
		os.Remove(filepath.Join(dir, name))
	}

	s, err = Open(dir, 0)
	require.NoError(t, err)
	defer s.Close()

	metas, err := s.Search("pineapple", 0)
	require.NoError(t, err)
	require.Len(t, metas, 1)
	assert.Equal(t, conv.ID, metas[0].ID)
}

func TestStore_DeleteAndClear(t *testing.T) {
	s := openStore(t, 0)
	a := sampleConversation("alpha", "x")
	b := sampleConversation("beta", "x")
	require.NoError(t, s.Save(a))
	require.NoError(t, s.Save(b))

	require.NoError(t, s.Delete(a.ID))
	assert.ErrorIs(t, s.Delete(a.ID), ErrConversationNotFound)

	metas, err := s.Search("alpha", 0)
	require.NoError(t, err)
	assert.Empty(t, metas)

	require.NoError(t, s.Clear())
	metas, err = s.List()
	require.NoError(t, err)
	assert.Empty(t, metas)
}

func TestStore_Resolve(t *testing.T) {
	s := openStore(t, 0)
	older := sampleConversation("older", "x")
	older.UpdatedAt = time.Now().Add(-time.Hour)
	newer := sampleConversation("newer", "x")
	require.NoError(t, s.Save(older))
	require.NoError(t, s.Save(newer))

	got, err := s.Resolve("1")
	require.NoError(t, err)
	assert.Equal(t, newer.ID, got.ID)

	got, err = s.Resolve(older.ID)
	require.NoError(t, err)
	assert.Equal(t, older.ID, got.ID)

	got, err = s.Resolve(strings.TrimPrefix(newer.ID, "conv_")[:8])
	require.NoError(t, err)
	assert.Equal(t, newer.ID, got.ID)

	_, err = s.Resolve("9")
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestRecorder_FollowsManagerLifecycle(t *testing.T) {
	s := openStore(t, 0)
	rec := NewRecorder(s)

	require.NoError(t, rec.Record(conversation.State{}))
	assert.Empty(t, rec.CurrentID(), "empty state starts no transcript")

	msgs := []model.Message{model.NewUserMessage("hello"), model.NewBotMessage("hi", "", nil, model.VerificationSingleSource)}
	require.NoError(t, rec.Record(conversation.State{SessionID: "s1", Messages: msgs[:1]}))
	first := rec.CurrentID()
	require.NotEmpty(t, first)

	require.NoError(t, rec.Record(conversation.State{SessionID: "s1", Messages: msgs}))
	assert.Equal(t, first, rec.CurrentID(), "same transcript until reset")

	got, err := s.Load(first)
	require.NoError(t, err)
	assert.Len(t, got.Messages, 2)
	assert.Equal(t, "s1", got.SessionID)
	assert.Equal(t, "hello", got.Title)

	rec.Reset()
	assert.Empty(t, rec.CurrentID())
	require.NoError(t, rec.Record(conversation.State{Messages: msgs[:1]}))
	assert.NotEqual(t, first, rec.CurrentID())

	metas, err := s.List()
	require.NoError(t, err)
	assert.Len(t, metas, 2)
}

func TestExportMarkdown(t *testing.T) {
	conv := sampleConversation("Where is good sushi?", "Try the **harbour**.")
	md := ExportMarkdown(conv)

	assert.True(t, strings.HasPrefix(md, "# Where is good sushi?\n"))
	assert.Contains(t, md, "## You")
	assert.Contains(t, md, "## ThapluBot")
	assert.Contains(t, md, "Try the **harbour**.")
	assert.Contains(t, md, "> Verified")
	assert.Contains(t, md, "1. [Menu](https://example.com/menu)")
	assert.Contains(t, md, "session `sess-1`")
}

func TestExport_Formats(t *testing.T) {
	conv := sampleConversation("q", "a")

	data, err := Export(conv, "json")
	require.NoError(t, err)
	var fromJSON model.Conversation
	require.NoError(t, json.Unmarshal(data, &fromJSON))
	assert.Equal(t, conv.ID, fromJSON.ID)

	data, err = Export(conv, "YAML")
	require.NoError(t, err)
	var fromYAML map[string]any
	require.NoError(t, yaml.Unmarshal(data, &fromYAML))
	assert.Equal(t, conv.ID, fromYAML["id"])
	assert.Contains(t, string(data), "role: bot")

	_, err = Export(conv, "pdf")
	assert.Error(t, err)
}

func TestFormatList(t *testing.T) {
	now := time.Now()
	out := FormatList([]Meta{
		{ID: "conv_0123456789abcdef", Title: "Sushi", MessageCount: 1, UpdatedAt: now.Add(-2 * time.Hour)},
		{ID: "conv_fedcba9876543210", Title: "Ramen", MessageCount: 1200, UpdatedAt: now.Add(-3 * 24 * time.Hour)},
	}, now)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "  1. 01234567")
	assert.Contains(t, lines[0], "1 message,")
	assert.Contains(t, lines[0], "2 hours ago")
	assert.Contains(t, lines[1], "1,200 messages")
	assert.Contains(t, lines[1], "3 days ago")

	assert.Equal(t, "No saved conversations.\n", FormatList(nil, now))
}
