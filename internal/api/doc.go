// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the HTTP client for the ThapluBot backend.
//
// The backend exposes three endpoints:
//
//	GET    /api/health              liveness, any 2xx is healthy
//	POST   /api/chat                {message, session_id} -> ChatResponse
//	DELETE /api/context/{session}   drop server-side conversation context
//
// The client never retries. Every call is a single attempt and the caller
// decides what a failure means.
//
// # Key Types
//
//   - Client: backend client configured with With* setters
//   - ChatRequest, ChatResponse: /api/chat wire types
//   - StatusError: non-2xx response that carried no usable body
//
// # Usage
//
//	client := api.NewClient(cfg.API.BaseURL).
//	    WithTimeout(cfg.API.Timeout.Std()).
//	    WithLogger(log)
//
//	resp, err := client.Chat(ctx, "hello", "")
//	if err != nil {
//	    return err // transport failure or malformed response
//	}
//	if !resp.Success {
//	    fmt.Println(resp.Error)
//	}
package api
