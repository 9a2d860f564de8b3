// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import "github.com/thaplubot/thaplubot-tui/internal/model"

// ChatRequest is the body of POST /api/chat. A nil SessionID is sent as
// JSON null and asks the backend to start a new session.
type ChatRequest struct {
	Message   string  `json:"message"`
	SessionID *string `json:"session_id"`
}

// ChatResponse is the body returned by POST /api/chat.
type ChatResponse struct {
	Success            bool           `json:"success"`
	Response           string         `json:"response"`
	Sources            []model.Source `json:"sources"`
	VerificationStatus string         `json:"verification_status"`
	ContextLength      int            `json:"context_length"`
	SessionID          string         `json:"session_id"`
	Timestamp          string         `json:"timestamp"`
	Error              string         `json:"error,omitempty"`
}

// Verification returns the verification status as a typed value.
func (r *ChatResponse) Verification() model.VerificationStatus {
	return model.VerificationStatus(r.VerificationStatus)
}
