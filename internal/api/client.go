// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/thaplubot/thaplubot-tui/internal/util"
)

const (
	// DefaultTimeout bounds a single request. The hosted backend sleeps
	// when idle and the first request can take most of a minute.
	DefaultTimeout = 60 * time.Second

	// MaxResponseSize is the largest body the client will read.
	MaxResponseSize = 4 * 1024 * 1024

	// maxErrorBody bounds the body text kept in a StatusError.
	maxErrorBody = 200

	healthPath  = "/api/health"
	chatPath    = "/api/chat"
	contextPath = "/api/context/"
)

// Client talks to the ThapluBot backend. It is safe for concurrent use
// once configured.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
	log        *zap.Logger
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		userAgent:  "thaplubot-tui",
		log:        zap.NewNop(),
	}
}

// WithTimeout sets the per-request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.httpClient.Timeout = timeout
	return c
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// WithRateLimit limits chat requests to rps per second with the given
// burst. rps <= 0 removes the limit. Health and context calls are never
// limited.
func (c *Client) WithRateLimit(rps float64, burst int) *Client {
	if rps <= 0 {
		c.limiter = nil
		return c
	}
	if burst < 1 {
		burst = 1
	}
	c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	return c
}

// WithUserAgent sets the User-Agent header.
func (c *Client) WithUserAgent(ua string) *Client {
	c.userAgent = ua
	return c
}

// WithLogger sets the logger.
func (c *Client) WithLogger(log *zap.Logger) *Client {
	if log != nil {
		c.log = log
	}
	return c
}

// BaseURL returns the backend origin.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// ENDPOINTS
// =============================================================================

// Health probes GET /api/health. A nil error means a 2xx status; the body
// is ignored. Non-2xx statuses return a *StatusError, anything else wraps
// ErrUnavailable.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, healthPath, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, MaxResponseSize))

	if !isSuccess(resp.StatusCode) {
		return &StatusError{StatusCode: resp.StatusCode}
	}
	return nil
}

// Chat sends one message. An empty sessionID is sent as null.
//
// The body is decoded whatever the status code, since the backend reports
// application failures as {"success": false, "error": ...} with a 4xx/5xx
// status. The returned error is non-nil only when no ChatResponse could be
// decoded.
func (c *Client) Chat(ctx context.Context, message, sessionID string) (*ChatResponse, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	reqBody := ChatRequest{Message: message}
	if sessionID != "" {
		reqBody.SessionID = &sessionID
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, chatPath, payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := readResponse(resp)
	if err != nil {
		return nil, err
	}

	// A JSON null decodes without error but leaves out nil.
	var out *ChatResponse
	err = json.Unmarshal(body, &out)
	if err == nil && out == nil {
		err = errors.New("body is not an object")
	}
	if err != nil {
		if !isSuccess(resp.StatusCode) {
			return nil, &StatusError{StatusCode: resp.StatusCode, Body: util.TruncateWidth(string(body), maxErrorBody)}
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return out, nil
}

// DeleteContext asks the backend to forget the context of sessionID.
func (c *Client) DeleteContext(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrEmptySession
	}
	resp, err := c.do(ctx, http.MethodDelete, contextPath+url.PathEscape(sessionID), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, MaxResponseSize))

	if !isSuccess(resp.StatusCode) {
		return &StatusError{StatusCode: resp.StatusCode}
	}
	return nil
}

// =============================================================================
// TRANSPORT
// =============================================================================

// do performs a single request. Transport errors are wrapped with
// ErrUnavailable; context cancellation is returned as is.
func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug("api_request_failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	c.log.Debug("api_request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)
	return resp, nil
}

// readResponse reads at most MaxResponseSize bytes of the body.
func readResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrUnavailable, err)
	}
	if len(body) > MaxResponseSize {
		return nil, fmt.Errorf("%w: exceeded %d bytes", ErrResponseTooLarge, MaxResponseSize)
	}
	return body, nil
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}
