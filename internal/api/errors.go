// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error variables for common backend errors.
var (
	// ErrNotConfigured indicates the server URL or token is not set.
	ErrNotConfigured = errors.New("backend not configured")

	// ErrAuthFailed indicates authentication failed (invalid credentials or
	// an expired token).
	ErrAuthFailed = errors.New("authentication failed")

	// ErrChatNotFound indicates the requested conversation does not exist
	// (or belongs to another user).
	ErrChatNotFound = errors.New("chat not found")

	// ErrInvalidURL indicates the backend rejected the video URL.
	ErrInvalidURL = errors.New("invalid video URL")

	// ErrRateLimited indicates the client-side submission limiter refused
	// the request.
	ErrRateLimited = errors.New("rate limited")
)

// APIError is a structured error response from the backend. FastAPI wraps
// failure text in a {"detail": ...} body; detail is usually a string but can
// be a validation object, so it is kept verbatim.
type APIError struct {
	Status int
	Detail string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend error (HTTP %d): %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("backend error (HTTP %d)", e.Status)
}

// detailBody is the wire shape of a FastAPI error payload.
type detailBody struct {
	Detail json.RawMessage `json:"detail"`
}

// decodeErrorResponse converts a non-2xx response body into an error,
// preserving the server's detail text when present and mapping well-known
// statuses onto sentinel errors.
func decodeErrorResponse(statusCode int, body []byte) error {
	detail := extractDetail(body)

	apiErr := &APIError{Status: statusCode, Detail: detail}

	switch statusCode {
	case http.StatusUnauthorized:
		if detail != "" {
			return fmt.Errorf("%w: %s", ErrAuthFailed, detail)
		}
		return ErrAuthFailed
	case http.StatusNotFound:
		if detail != "" {
			return fmt.Errorf("%w: %s", ErrChatNotFound, detail)
		}
		return ErrChatNotFound
	default:
		return apiErr
	}
}

// extractDetail pulls the detail text out of a FastAPI error body.
// Returns "" for bodies that are not parseable error payloads.
func extractDetail(body []byte) string {
	var db detailBody
	if err := json.Unmarshal(body, &db); err != nil || len(db.Detail) == 0 {
		return ""
	}

	// String detail is the common case.
	var s string
	if err := json.Unmarshal(db.Detail, &s); err == nil {
		return s
	}

	// Validation errors and other structured details are kept verbatim.
	return string(db.Detail)
}
