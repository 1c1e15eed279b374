// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jeranaias/tubetalk/internal/sse"
)

// =============================================================================
// STREAM EVENTS
// =============================================================================

// EventKind discriminates transport event variants.
type EventKind int

const (
	// EventFrame carries one decoded frame (status, result, or error).
	EventFrame EventKind = iota
	// EventTransportFailed reports that the request could not be
	// established or that the network stream ended abnormally.
	EventTransportFailed
	// EventStreamEnded reports that the byte stream closed. Terminal
	// records whether a terminal frame preceded the close; a close with no
	// terminal frame is an error for the caller.
	EventStreamEnded
)

// StreamEvent is one event surfaced by an open answer stream.
type StreamEvent struct {
	Kind     EventKind
	Frame    sse.Frame // valid when Kind == EventFrame
	Err      error     // valid when Kind == EventTransportFailed
	Terminal bool      // valid when Kind == EventStreamEnded
}

// askRequest is the body of a streaming question.
type askRequest struct {
	Question string `json:"question"`
}

// streamReadSize is the chunk size for reads off the response body.
const streamReadSize = 4 * 1024

// =============================================================================
// STREAMING ASK
// =============================================================================

// Ask submits one question for a conversation and returns the event stream.
//
// The channel always closes after exactly one of: an EventTransportFailed,
// or an EventStreamEnded (possibly preceded by frames). Reads are strictly
// sequential; frames are delivered in arrival order with no buffering of
// the overall response. Cancel the context to abandon the stream.
func (c *Client) Ask(ctx context.Context, chatID int64, question string) <-chan StreamEvent {
	events := make(chan StreamEvent)

	go func() {
		defer close(events)

		if !c.IsConfigured() {
			events <- StreamEvent{Kind: EventTransportFailed, Err: ErrNotConfigured}
			return
		}
		if !c.askLimiter.Allow() {
			events <- StreamEvent{Kind: EventTransportFailed, Err: ErrRateLimited}
			return
		}

		bodyBytes, err := json.Marshal(askRequest{Question: question})
		if err != nil {
			events <- StreamEvent{Kind: EventTransportFailed, Err: fmt.Errorf("failed to marshal request: %w", err)}
			return
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			c.baseURL+"/stream/"+formatID(chatID), bytes.NewReader(bodyBytes))
		if err != nil {
			events <- StreamEvent{Kind: EventTransportFailed, Err: fmt.Errorf("failed to create request: %w", err)}
			return
		}
		c.setHeaders(req)
		req.Header.Set("Accept", "text/event-stream")
		req.Header.Set("Cache-Control", "no-cache")

		resp, err := c.streamingClient.Do(req)
		if err != nil {
			events <- StreamEvent{Kind: EventTransportFailed, Err: fmt.Errorf("request failed: %w", err)}
			return
		}
		defer resp.Body.Close()

		// A non-success initial response carries a structured error
		// payload, not a stream; no decoding is attempted.
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
			events <- StreamEvent{
				Kind: EventTransportFailed,
				Err:  decodeErrorResponse(resp.StatusCode, body),
			}
			return
		}

		c.log.Debug().Int64("chat_id", chatID).Msg("answer stream open")
		c.readStream(ctx, resp.Body, events)
	}()

	return events
}

// readStream pumps body chunks through one decoder, forwarding frames in
// order until the stream ends or errors.
func (c *Client) readStream(ctx context.Context, body io.Reader, events chan<- StreamEvent) {
	dec := sse.NewDecoder()
	terminal := false
	buf := make([]byte, streamReadSize)

	emit := func(frames []sse.Frame) bool {
		for _, frame := range frames {
			if frame.IsTerminal() {
				terminal = true
			}
			select {
			case events <- StreamEvent{Kind: EventFrame, Frame: frame}:
			case <-ctx.Done():
				return false
			}
		}
		return true
	}

	for {
		n, err := body.Read(buf)
		if n > 0 {
			if !emit(dec.Feed(buf[:n])) {
				return
			}
		}
		if err == io.EOF {
			if !emit(dec.Flush()) {
				return
			}
			select {
			case events <- StreamEvent{Kind: EventStreamEnded, Terminal: terminal}:
			case <-ctx.Done():
			}
			return
		}
		if err != nil {
			select {
			case events <- StreamEvent{Kind: EventTransportFailed, Err: err}:
			case <-ctx.Done():
			}
			return
		}
	}
}
