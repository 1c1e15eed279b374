// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the tubetalk backend.
//
// The backend is a FastAPI service: conventional JSON request/response for
// auth, chat CRUD, and history, plus one streaming endpoint per question
// that answers with server-sent events. Every request carries the bearer
// token; auth handling beyond attaching it lives with the caller.
//
// # Key Types
//
//   - Client: pooled HTTP client with error mapping and a submission
//     rate limiter
//   - StreamEvent: one event from an open answer stream (frame, transport
//     failure, or stream end)
//
// # Streaming
//
// Ask opens the stream and returns a channel that closes after exactly one
// terminal transport event:
//
//	for ev := range client.Ask(ctx, chatID, "What is this about?") {
//	    switch ev.Kind {
//	    case api.EventFrame:        // status/result/error frame
//	    case api.EventTransportFailed:
//	    case api.EventStreamEnded:
//	    }
//	}
package api
