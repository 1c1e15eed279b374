// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package sse decodes the backend's server-sent event stream into frames.
//
// The backend answers one question with an unbounded chunked text stream of
// `data: <json>` events separated by blank lines. This package owns only the
// framing: it reassembles frames that networks split arbitrarily across
// reads and ignores anything that is not a well-formed event. Transport and
// conversation state live elsewhere.
//
// # Key Types
//
//   - Decoder: chunk-fed, carry-over-buffered frame scanner (one per stream)
//   - Frame: decoded event (status, result, or error)
//
// # Usage
//
//	dec := sse.NewDecoder()
//	for chunk := range chunks {
//	    for _, frame := range dec.Feed(chunk) {
//	        handle(frame)
//	    }
//	}
//	for _, frame := range dec.Flush() {
//	    handle(frame)
//	}
package sse
