// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import (
	"context"

	"github.com/jeranaias/tubetalk/internal/api"
	"github.com/jeranaias/tubetalk/internal/model"
	"github.com/jeranaias/tubetalk/internal/sse"
)

// =============================================================================
// ASK SESSION
// =============================================================================

// runSession consumes one answer stream and applies its events to the
// conversation entry, strictly in arrival order. It is the only writer for
// the session's lifetime; each event is handled as a message, so mutation
// stays single-threaded even though the read loop runs on its own
// goroutine.
//
// Exactly one terminal mutation happens per session: the first result,
// error frame, transport failure, or non-terminal stream end wins, and the
// in-flight flag blocks any later one.
func (e *Engine) runSession(ctx context.Context, id int64, question string) {
	events := e.backend.Ask(ctx, id, question)

	for ev := range events {
		switch ev.Kind {
		case api.EventFrame:
			e.applyFrame(id, ev.Frame)
		case api.EventTransportFailed:
			if ctx.Err() != nil {
				// Abandoned by Remove; nothing left to report to.
				return
			}
			e.log.Warn().Int64("chat_id", id).Err(ev.Err).Msg("transport failed")
			e.finishWithError(id, ev.Err.Error())
		case api.EventStreamEnded:
			if !ev.Terminal {
				// The server closed without a terminal frame; for the
				// conversation this is indistinguishable from an error.
				e.finishWithError(id, "the answer stream ended unexpectedly")
			}
		}
	}
}

// applyFrame applies one decoded frame to the entry.
func (e *Engine) applyFrame(id int64, frame sse.Frame) {
	switch frame.Type {
	case sse.FrameStatus:
		e.updateStatus(id, frame.Msg)
	case sse.FrameResult:
		e.finishWithResult(id, frame.Answer, frame.FollowUps)
	case sse.FrameError:
		e.finishWithError(id, frame.Msg)
	}
}

// updateStatus replaces the progress label in place. No history mutation.
func (e *Engine) updateStatus(id int64, text string) {
	e.mu.Lock()
	ent, ok := e.mu.entries[id]
	if !ok || ent.removed || !ent.inFlight {
		e.mu.Unlock()
		return
	}
	ent.statusText = text
	snap := ent.snapshot()
	e.mu.Unlock()

	e.watchers.notify(id, snap)
}

// finishWithResult applies the terminal success mutation: one assistant
// message, back to idle. The conversation list is refreshed afterwards
// since the server may have retitled the chat.
func (e *Engine) finishWithResult(id int64, answer string, followUps []string) {
	if !e.finish(id, model.NewAssistantMessage(answer, followUps)) {
		return
	}
	go e.RefreshSummaries(context.Background())
}

// finishWithError applies the terminal failure mutation: one visibly
// marked assistant message, back to idle.
func (e *Engine) finishWithError(id int64, reason string) {
	e.finish(id, model.NewErrorMessage(reason))
}

// finish appends the terminal message and resets the session state.
// Returns false when the session already terminated (or the conversation
// was removed), in which case nothing is mutated.
func (e *Engine) finish(id int64, msg model.Message) bool {
	e.mu.Lock()
	ent, ok := e.mu.entries[id]
	if !ok || ent.removed || !ent.inFlight {
		e.mu.Unlock()
		return false
	}
	ent.messages = append(ent.messages, msg)
	ent.status = StatusIdle
	ent.statusText = ""
	ent.inFlight = false
	if ent.cancel != nil {
		// Release the request context; the stream is done.
		ent.cancel()
		ent.cancel = nil
	}
	snap := ent.snapshot()
	e.mu.Unlock()

	e.watchers.notify(id, snap)
	return true
}
