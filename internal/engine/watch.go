// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import (
	"sort"
	"sync"

	"github.com/jeranaias/tubetalk/internal/model"
)

// =============================================================================
// VIEW BINDING
// =============================================================================

// WatchHandle identifies one registered observer for later removal.
type WatchHandle struct {
	id     int64
	serial int
}

// watcherTable fans entry snapshots out to per-conversation observers.
// Guarded by its own mutex so notify never runs under the engine lock.
type watcherTable struct {
	mu     sync.Mutex
	serial int
	fns    map[int64]map[int]func(Snapshot)
}

func (t *watcherTable) init() {
	t.fns = make(map[int64]map[int]func(Snapshot))
}

func (t *watcherTable) add(id int64, fn func(Snapshot)) WatchHandle {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.serial++
	m, ok := t.fns[id]
	if !ok {
		m = make(map[int]func(Snapshot))
		t.fns[id] = m
	}
	m[t.serial] = fn
	return WatchHandle{id: id, serial: t.serial}
}

func (t *watcherTable) remove(h WatchHandle) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if m, ok := t.fns[h.id]; ok {
		delete(m, h.serial)
		if len(m) == 0 {
			delete(t.fns, h.id)
		}
	}
}

// notify calls every observer for id in registration order. The callback
// set is copied first so observers may register or unregister from within
// their callback.
func (t *watcherTable) notify(id int64, snap Snapshot) {
	t.mu.Lock()
	m := t.fns[id]
	serials := make([]int, 0, len(m))
	for s := range m {
		serials = append(serials, s)
	}
	sort.Ints(serials)
	fns := make([]func(Snapshot), len(serials))
	for i, s := range serials {
		fns[i] = m[s]
	}
	t.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

// drop discards all observers of a removed conversation.
func (t *watcherTable) drop(id int64) {
	t.mu.Lock()
	delete(t.fns, id)
	t.mu.Unlock()
}

// listenerTable fans conversation-list changes out to observers.
type listenerTable struct {
	mu     sync.Mutex
	serial int
	fns    map[int]func([]model.ChatSummary)
}

func (t *listenerTable) init() {
	t.fns = make(map[int]func([]model.ChatSummary))
}

func (t *listenerTable) add(fn func([]model.ChatSummary)) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.serial++
	t.fns[t.serial] = fn
	return t.serial
}

func (t *listenerTable) remove(serial int) {
	t.mu.Lock()
	delete(t.fns, serial)
	t.mu.Unlock()
}

func (t *listenerTable) notify(summaries []model.ChatSummary) {
	t.mu.Lock()
	serials := make([]int, 0, len(t.fns))
	for s := range t.fns {
		serials = append(serials, s)
	}
	sort.Ints(serials)
	fns := make([]func([]model.ChatSummary), len(serials))
	for i, s := range serials {
		fns[i] = t.fns[s]
	}
	t.mu.Unlock()

	for _, fn := range fns {
		fn(summaries)
	}
}

// =============================================================================
// PUBLIC BINDING API
// =============================================================================

// Watch registers fn to run after every change to the conversation,
// whatever the cause, and returns the current state so the caller can
// render immediately without waiting for the first change. Any number of
// observers may watch the same conversation.
func (e *Engine) Watch(id int64, fn func(Snapshot)) (Snapshot, WatchHandle) {
	e.mu.Lock()
	ent := e.ensureEntryLocked(id)
	snap := ent.snapshot()
	e.mu.Unlock()

	h := e.watchers.add(id, fn)
	return snap, h
}

// Unwatch removes a previously registered observer. Safe to call after the
// conversation was removed.
func (e *Engine) Unwatch(h WatchHandle) {
	e.watchers.remove(h)
}

// Listen registers fn to run after every conversation-list change and
// returns a handle for Unlisten.
func (e *Engine) Listen(fn func([]model.ChatSummary)) int {
	return e.listeners.add(fn)
}

// Unlisten removes a list observer.
func (e *Engine) Unlisten(handle int) {
	e.listeners.remove(handle)
}

// Get returns the current state of one conversation without registering an
// observer.
func (e *Engine) Get(id int64) Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	if ent, ok := e.mu.entries[id]; ok {
		return ent.snapshot()
	}
	return Snapshot{ID: id}
}
