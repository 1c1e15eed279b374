// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/jeranaias/tubetalk/internal/logging"
)

// Configuration constants for the backend API.
const (
	// DefaultTimeout is the default timeout for request/response calls.
	DefaultTimeout = 30 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	// SECURITY: Response size limit prevents memory exhaustion attacks.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB limit

	// askBurst and askPerMinute bound how fast questions can be submitted.
	// The backend runs a full RAG graph per question; hammering it helps
	// nobody.
	askBurst     = 3
	askPerMinute = 20
)

var (
	// PERFORMANCE: Connection pooling reduces TCP handshake overhead.
	// Shared HTTP client for ordinary request/response calls.
	sharedHTTPClient = &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		Timeout: DefaultTimeout,
	}

	// sharedStreamingClient is used for streaming requests. No client
	// timeout: an open answer stream is unbounded and lifetime is
	// controlled via context.
	sharedStreamingClient = &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
)

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the tubetalk backend. All requests carry the bearer token;
// a missing or rejected token surfaces as a generic failure here, not as a
// special auth flow.
type Client struct {
	baseURL string
	token   string

	httpClient      *http.Client
	streamingClient *http.Client
	askLimiter      *rate.Limiter
	log             zerolog.Logger
}

// NewClient creates a client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:         strings.TrimRight(baseURL, "/"),
		httpClient:      sharedHTTPClient,
		streamingClient: sharedStreamingClient,
		askLimiter:      rate.NewLimiter(rate.Limit(askPerMinute)/60.0, askBurst),
		log:             logging.Component("api"),
	}
}

// SetToken installs the bearer credential attached to every request.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Token returns the current bearer credential.
func (c *Client) Token() string {
	return c.token
}

// IsConfigured returns true if a base URL is set.
func (c *Client) IsConfigured() bool {
	return c.baseURL != ""
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// setHeaders applies the standard headers to a request.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// =============================================================================
// REQUEST HELPERS
// =============================================================================

// doJSON performs one request/response call with a JSON body and decodes a
// JSON result into out (out may be nil to discard the body).
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	if !c.IsConfigured() {
		return ErrNotConfigured
	}

	var bodyReader io.Reader
	if in != nil {
		bodyBytes, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := decodeErrorResponse(resp.StatusCode, body)
		c.log.Debug().
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Err(err).
			Msg("request rejected")
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
