// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import (
	"context"

	"github.com/jeranaias/tubetalk/internal/model"
)

// =============================================================================
// STATUS
// =============================================================================

// Status is the per-conversation generation state.
type Status int

const (
	// StatusIdle means no answer stream is open for the conversation.
	StatusIdle Status = iota
	// StatusActive means a stream is open; the status text carries the
	// server's latest progress label.
	StatusActive
)

// String returns the string representation of the status.
func (s Status) String() string {
	if s == StatusActive {
		return "active"
	}
	return "idle"
}

// =============================================================================
// ENTRY
// =============================================================================

// entry is the engine-private mutable record for one conversation.
// All access happens under the engine mutex.
//
// Invariants: status != StatusIdle iff inFlight; messages is append-only;
// meta is set at most once and never cleared short of removal.
type entry struct {
	id int64

	messages   []model.Message
	status     Status
	statusText string
	meta       *model.ChatMeta

	loaded  bool
	loading bool

	// inFlight guards the at-most-one-open-stream invariant and doubles
	// as the "terminal mutation not yet applied" flag for a session.
	inFlight bool
	cancel   context.CancelFunc

	removed bool
}

func newEntry(id int64) *entry {
	return &entry{id: id, status: StatusIdle}
}

// snapshot returns an immutable copy for watchers.
func (e *entry) snapshot() Snapshot {
	msgs := make([]model.Message, len(e.messages))
	copy(msgs, e.messages)

	var meta *model.ChatMeta
	if e.meta != nil {
		m := *e.meta
		meta = &m
	}

	return Snapshot{
		ID:         e.id,
		Messages:   msgs,
		Status:     e.status,
		StatusText: e.statusText,
		Meta:       meta,
		Loaded:     e.loaded,
		InFlight:   e.inFlight,
		Removed:    e.removed,
	}
}

// =============================================================================
// SNAPSHOT
// =============================================================================

// Snapshot is the read-only view of a conversation handed to watchers.
// It is a value copy: holding one never observes later mutations.
type Snapshot struct {
	ID         int64
	Messages   []model.Message
	Status     Status
	StatusText string
	Meta       *model.ChatMeta
	Loaded     bool
	InFlight   bool
	Removed    bool
}

// LastMessage returns the most recent message, or a zero Message if empty.
func (s Snapshot) LastMessage() model.Message {
	if len(s.Messages) == 0 {
		return model.Message{}
	}
	return s.Messages[len(s.Messages)-1]
}
