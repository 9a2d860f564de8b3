// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnavailable wraps transport failures: DNS, refused connections,
	// timeouts, TLS errors.
	ErrUnavailable = errors.New("backend unavailable")

	// ErrMalformedResponse indicates a body that is not the expected JSON.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrResponseTooLarge indicates a body over MaxResponseSize.
	ErrResponseTooLarge = errors.New("response too large")

	// ErrEmptySession is returned by DeleteContext for an empty session id.
	ErrEmptySession = errors.New("empty session id")
)

// StatusError is a non-2xx HTTP response.
type StatusError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("backend returned HTTP %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("backend returned HTTP %d (%s)", e.StatusCode, http.StatusText(e.StatusCode))
}

// IsStatus reports whether err is a StatusError, i.e. the backend was
// reachable but answered with a non-2xx status.
func IsStatus(err error) bool {
	var se *StatusError
	return errors.As(err, &se)
}
