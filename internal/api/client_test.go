// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// HEALTH
// =============================================================================

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		wantErr    bool
		wantStatus bool
	}{
		{"ok", http.StatusOK, false, false},
		{"no content", http.StatusNoContent, false, false},
		{"server error", http.StatusInternalServerError, true, true},
		{"not found", http.StatusNotFound, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/api/health", r.URL.Path)
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			err := NewClient(server.URL).Health(context.Background())
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantStatus, IsStatus(err))
		})
	}
}

func TestHealth_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	err := NewClient(url).Health(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.False(t, IsStatus(err))
}

func TestHealth_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := NewClient(server.URL).Health(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// =============================================================================
// CHAT
// =============================================================================

func TestChat_RequestShape(t *testing.T) {
	var got []map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		got = append(got, body)
		w.Write([]byte(`{"success": true, "response": "hi", "session_id": "s1"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL + "/")
	_, err := client.Chat(context.Background(), "first", "")
	require.NoError(t, err)
	_, err = client.Chat(context.Background(), "second", "s1")
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0]["message"])
	v, present := got[0]["session_id"]
	assert.True(t, present, "session_id must be sent")
	assert.Nil(t, v, "empty session is sent as null")
	assert.Equal(t, "s1", got[1]["session_id"])
}

func TestChat_DecodesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"success": true,
			"response": "**Sushi** time",
			"sources": [{"title": "A", "snippet": "B", "url": "C"}],
			"verification_status": "cross-verified",
			"context_length": 4,
			"session_id": "abc",
			"timestamp": "2024-05-01T10:20:30.123456"
		}`))
	}))
	defer server.Close()

	resp, err := NewClient(server.URL).Chat(context.Background(), "sushi?", "")
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "**Sushi** time", resp.Response)
	require.Len(t, resp.Sources, 1)
	assert.Equal(t, "A", resp.Sources[0].Title)
	assert.Equal(t, "C", resp.Sources[0].URL)
	assert.True(t, resp.Verification().IsCrossVerified())
	assert.Equal(t, 4, resp.ContextLength)
	assert.Equal(t, "abc", resp.SessionID)
}

func TestChat_ApplicationErrorWithStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success": false, "error": "model overloaded"}`))
	}))
	defer server.Close()

	resp, err := NewClient(server.URL).Chat(context.Background(), "hi", "")
	require.NoError(t, err, "a decodable body is an application error, not a transport error")
	assert.False(t, resp.Success)
	assert.Equal(t, "model overloaded", resp.Error)
}

func TestChat_Malformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>gateway</html>`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Chat(context.Background(), "hi", "")
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestChat_NullBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(" null\n"))
	}))
	defer server.Close()

	resp, err := NewClient(server.URL).WithHTTPClient(server.Client()).Chat(context.Background(), "hi", "")
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestChat_NonJSONErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(strings.Repeat("x", 1000)))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Chat(context.Background(), "hi", "")
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadGateway, se.StatusCode)
	assert.LessOrEqual(t, len(se.Body), maxErrorBody)
}

func TestChat_ResponseTooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(w, io.LimitReader(zeroReader{}, MaxResponseSize+10))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Chat(context.Background(), "hi", "")
	assert.ErrorIs(t, err, ErrResponseTooLarge)
}

func TestChat_RateLimit(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"success": true}`))
	}))
	defer server.Close()

	client := NewClient(server.URL).WithRateLimit(0.001, 1)

	_, err := client.Chat(context.Background(), "one", "")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = client.Chat(ctx, "two", "")
	require.Error(t, err, "second request must wait for a token")
	assert.Equal(t, int32(1), calls.Load())
}

// =============================================================================
// DELETE CONTEXT
// =============================================================================

func TestDeleteContext(t *testing.T) {
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		path = r.URL.EscapedPath()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	require.NoError(t, client.DeleteContext(context.Background(), "a b/c"))
	assert.Equal(t, "/api/context/a%20b%2Fc", path)

	assert.ErrorIs(t, client.DeleteContext(context.Background(), ""), ErrEmptySession)
}

func TestDeleteContext_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	err := NewClient(server.URL).DeleteContext(context.Background(), "gone")
	assert.True(t, IsStatus(err))
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = '0'
	}
	return len(p), nil
}
