// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package sse decodes the backend's server-sent event stream into frames.
package sse

import (
	"bytes"
	"encoding/json"
)

// =============================================================================
// FRAME TYPES
// =============================================================================

// FrameType discriminates the decoded frame variants.
type FrameType string

const (
	// FrameStatus is a progress update; it never mutates history.
	FrameStatus FrameType = "status"
	// FrameResult is the terminal success frame for one question.
	FrameResult FrameType = "result"
	// FrameError is the terminal server-declared failure frame.
	FrameError FrameType = "error"
)

// Frame is one decoded server-pushed event.
type Frame struct {
	Type FrameType

	// Msg carries the text of status and error frames.
	Msg string

	// Answer and FollowUps carry the payload of result frames.
	Answer    string
	FollowUps []string
}

// IsTerminal reports whether the frame ends the current question.
func (f Frame) IsTerminal() bool {
	return f.Type == FrameResult || f.Type == FrameError
}

// envelope is the wire shape of a frame payload.
type envelope struct {
	Type    string `json:"type"`
	Msg     string `json:"msg"`
	Payload struct {
		Answer   string   `json:"answer"`
		FollowUp []string `json:"follow_up"`
	} `json:"payload"`
}

// =============================================================================
// DECODER
// =============================================================================

// dataPrefix marks a well-formed event line. Content without it is not a
// frame and is discarded at block granularity.
var dataPrefix = []byte("data:")

// frameDelim separates frames on the wire: a blank line, i.e. two
// consecutive newlines. CRLF line endings are tolerated.
var (
	frameDelim     = []byte("\n\n")
	frameDelimCRLF = []byte("\r\n\r\n")
)

// Decoder turns an ordered sequence of raw chunks into frames.
//
// The decoder is pure and transport-agnostic: it knows nothing about HTTP
// or conversations. Chunks may split a frame anywhere (including inside the
// JSON payload or inside the delimiter itself) or bundle several frames;
// the undelimited tail is carried over and prefixed to the next chunk
// before re-scanning. One decoder instance serves exactly one stream and
// is not restartable.
//
// Decoding policy: a block whose payload fails JSON parsing is dropped
// silently, as is a frame with an unrecognized type. This tolerates a
// delimiter falling inside a JSON string value at the cost of being unable
// to distinguish truncated from malformed data.
type Decoder struct {
	carry []byte
}

// NewDecoder creates a decoder for one stream.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Feed appends a chunk and returns every frame completed by it, in wire
// order. The returned slice is nil when no frame completed.
func (d *Decoder) Feed(chunk []byte) []Frame {
	d.carry = append(d.carry, chunk...)

	var frames []Frame
	for {
		idx, delimLen := nextDelim(d.carry)
		if idx < 0 {
			break
		}
		block := d.carry[:idx]
		d.carry = d.carry[idx+delimLen:]

		if frame, ok := decodeBlock(block); ok {
			frames = append(frames, frame)
		}
	}
	return frames
}

// nextDelim locates the earliest frame delimiter in buf, preferring the
// CRLF form when both start at the same position.
func nextDelim(buf []byte) (idx, length int) {
	lf := bytes.Index(buf, frameDelim)
	crlf := bytes.Index(buf, frameDelimCRLF)

	switch {
	case crlf >= 0 && (lf < 0 || crlf <= lf):
		return crlf, len(frameDelimCRLF)
	case lf >= 0:
		return lf, len(frameDelim)
	default:
		return -1, 0
	}
}

// Flush drains a trailing frame once the transport signals end-of-stream.
// A final data block not followed by the delimiter still counts as one
// frame, matching a server that closes immediately after its last event.
func (d *Decoder) Flush() []Frame {
	block := d.carry
	d.carry = nil

	if len(bytes.TrimSpace(block)) == 0 {
		return nil
	}
	if frame, ok := decodeBlock(block); ok {
		return []Frame{frame}
	}
	return nil
}

// Buffered returns the number of carried-over bytes awaiting a delimiter.
func (d *Decoder) Buffered() int {
	return len(d.carry)
}

// =============================================================================
// BLOCK DECODING
// =============================================================================

// decodeBlock parses one delimiter-separated block into a frame.
// The bool result is false for blocks that are not well-formed frames.
func decodeBlock(block []byte) (Frame, bool) {
	payload, ok := extractData(block)
	if !ok {
		return Frame{}, false
	}

	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		// Dropped, not fatal: mid-stream decode anomalies must never
		// crash the session.
		return Frame{}, false
	}

	switch FrameType(env.Type) {
	case FrameStatus:
		return Frame{Type: FrameStatus, Msg: env.Msg}, true
	case FrameResult:
		return Frame{
			Type:      FrameResult,
			Answer:    env.Payload.Answer,
			FollowUps: env.Payload.FollowUp,
		}, true
	case FrameError:
		return Frame{Type: FrameError, Msg: env.Msg}, true
	default:
		return Frame{}, false
	}
}

// extractData collects the data field lines of a block, joined with
// newlines per the SSE field rules. Lines without the data prefix
// (comments, id:, retry:) are ignored.
func extractData(block []byte) ([]byte, bool) {
	var dataLines [][]byte
	for _, line := range bytes.Split(block, []byte("\n")) {
		line = bytes.TrimRight(line, "\r")
		if !bytes.HasPrefix(line, dataPrefix) {
			continue
		}
		data := line[len(dataPrefix):]
		if len(data) > 0 && data[0] == ' ' {
			data = data[1:]
		}
		dataLines = append(dataLines, data)
	}
	if len(dataLines) == 0 {
		return nil, false
	}
	return bytes.Join(dataLines, []byte("\n")), true
}
