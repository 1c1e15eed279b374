// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc"

	"github.com/jeranaias/tubetalk/internal/api"
	"github.com/jeranaias/tubetalk/internal/logging"
	"github.com/jeranaias/tubetalk/internal/model"
)

// =============================================================================
// COLLABORATOR INTERFACES
// =============================================================================

// Backend is the slice of the API client the engine depends on.
type Backend interface {
	GetChat(ctx context.Context, chatID int64) (model.ChatSummary, error)
	FetchHistory(ctx context.Context, chatID int64) ([]model.Message, error)
	Ask(ctx context.Context, chatID int64, question string) <-chan api.StreamEvent
	ListChats(ctx context.Context) ([]model.ChatSummary, error)
	RenameChat(ctx context.Context, chatID int64, name string) error
	DeleteChat(ctx context.Context, chatID int64) error
}

// SummaryCache persists the conversation list locally so the UI has
// something to show before the first list fetch completes. Optional.
type SummaryCache interface {
	Load() ([]model.ChatSummary, error)
	Store(summaries []model.ChatSummary) error
	Rename(chatID int64, name string) error
	Delete(chatID int64) error
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine is the process-wide owner of all conversation entries. It is
// constructed once at application start and injected into the UI layers;
// entries outlive any one view, which is what lets the user navigate away
// mid-stream and come back without losing progress.
//
// Only the engine mutates entries, and only inside its mutex; watcher
// callbacks run outside the lock. Public operations never return an error
// for a failed generation — failures are absorbed into entry state that
// watchers observe.
type Engine struct {
	backend Backend
	cache   SummaryCache // may be nil
	log     zerolog.Logger

	mu        lockedState
	watchers  watcherTable
	listeners listenerTable
}

// lockedState groups everything guarded by the engine mutex.
type lockedState struct {
	sync.Mutex
	entries   map[int64]*entry
	summaries []model.ChatSummary
}

// New creates the engine. cache may be nil.
func New(backend Backend, cache SummaryCache) *Engine {
	e := &Engine{
		backend: backend,
		cache:   cache,
		log:     logging.Component("engine"),
	}
	e.mu.entries = make(map[int64]*entry)
	e.watchers.init()
	e.listeners.init()

	if cache != nil {
		if cached, err := cache.Load(); err == nil && len(cached) > 0 {
			e.mu.summaries = cached
		}
	}
	return e
}

// ensureEntryLocked returns the entry for id, creating it lazily.
func (e *Engine) ensureEntryLocked(id int64) *entry {
	ent, ok := e.mu.entries[id]
	if !ok {
		ent = newEntry(id)
		e.mu.entries[id] = ent
	}
	return ent
}

// =============================================================================
// LOAD
// =============================================================================

// Load populates a conversation's history and metadata. Idempotent: a
// second call while the entry is loaded or loading is a no-op. Metadata and
// history are fetched concurrently and each half may fail alone — partial
// success still marks the entry loaded.
func (e *Engine) Load(id int64) {
	e.mu.Lock()
	ent := e.ensureEntryLocked(id)
	if ent.loaded || ent.loading {
		e.mu.Unlock()
		return
	}
	ent.loading = true
	e.mu.Unlock()

	go e.runLoad(id)
}

// runLoad performs the paired fetches and commits the result.
func (e *Engine) runLoad(id int64) {
	ctx := context.Background()

	var (
		meta    *model.ChatMeta
		history []model.Message
		haveHis bool
	)

	var wg conc.WaitGroup
	wg.Go(func() {
		chat, err := e.backend.GetChat(ctx, id)
		if err != nil {
			e.log.Warn().Int64("chat_id", id).Err(err).Msg("metadata fetch failed")
			return
		}
		meta = &model.ChatMeta{
			Title:        chat.Title,
			Author:       chat.Author,
			VideoURL:     chat.URL,
			ThumbnailURL: chat.ThumbnailURL,
		}
	})
	wg.Go(func() {
		msgs, err := e.backend.FetchHistory(ctx, id)
		if err != nil {
			e.log.Warn().Int64("chat_id", id).Err(err).Msg("history fetch failed")
			return
		}
		history = msgs
		haveHis = true
	})
	wg.Wait()

	e.mu.Lock()
	ent, ok := e.mu.entries[id]
	if !ok || ent.removed {
		e.mu.Unlock()
		return
	}
	// Live state wins: if streaming appended messages while the fetch was
	// in flight, the fetched history is stale and is discarded.
	if haveHis && len(ent.messages) == 0 {
		ent.messages = history
	}
	if meta != nil && ent.meta == nil {
		ent.meta = meta
	}
	ent.loaded = true
	ent.loading = false
	snap := ent.snapshot()
	e.mu.Unlock()

	e.watchers.notify(id, snap)
}

// =============================================================================
// ASK
// =============================================================================

// askPlaceholder is the status label shown before the first status frame.
const askPlaceholder = "…"

// Ask submits a question on a conversation. A no-op while a stream is
// already open for that conversation: asks are serialized by the in-flight
// guard, never queued. The user message is appended synchronously; the
// answer arrives through the entry as the stream progresses.
func (e *Engine) Ask(id int64, question string) {
	e.mu.Lock()
	ent := e.ensureEntryLocked(id)
	if ent.inFlight {
		e.mu.Unlock()
		e.log.Debug().Int64("chat_id", id).Msg("ask rejected: generation in flight")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	ent.messages = append(ent.messages, model.NewUserMessage(question))
	ent.status = StatusActive
	ent.statusText = askPlaceholder
	ent.inFlight = true
	ent.cancel = cancel
	snap := ent.snapshot()
	e.mu.Unlock()

	e.watchers.notify(id, snap)
	go e.runSession(ctx, id, question)
}

// =============================================================================
// REMOVE / RENAME
// =============================================================================

// Remove deletes a conversation: the entry and any in-flight stream are
// discarded together (the stream's context is cancelled, closing the
// network read), and the server-side record is deleted in the background.
func (e *Engine) Remove(id int64) {
	e.mu.Lock()
	ent, ok := e.mu.entries[id]
	if ok {
		if ent.cancel != nil {
			ent.cancel()
			ent.cancel = nil
		}
		ent.removed = true
		ent.status = StatusIdle
		ent.statusText = ""
		ent.inFlight = false
		delete(e.mu.entries, id)
	}
	e.dropSummaryLocked(id)
	summaries := e.summariesLocked()
	var snap Snapshot
	if ok {
		snap = ent.snapshot()
	} else {
		snap = Snapshot{ID: id, Removed: true}
	}
	e.mu.Unlock()

	e.watchers.notify(id, snap)
	e.watchers.drop(id)
	e.listeners.notify(summaries)

	if e.cache != nil {
		if err := e.cache.Delete(id); err != nil {
			e.log.Warn().Int64("chat_id", id).Err(err).Msg("cache delete failed")
		}
	}

	go func() {
		if err := e.backend.DeleteChat(context.Background(), id); err != nil {
			e.log.Warn().Int64("chat_id", id).Err(err).Msg("server delete failed")
		}
	}()
}

// Rename updates the cached display name in the conversation list. The
// entry itself is untouched; names live in the summary list.
func (e *Engine) Rename(id int64, name string) {
	e.mu.Lock()
	for i := range e.mu.summaries {
		if e.mu.summaries[i].ID == id {
			e.mu.summaries[i].Name = name
			break
		}
	}
	summaries := e.summariesLocked()
	e.mu.Unlock()

	e.listeners.notify(summaries)

	if e.cache != nil {
		if err := e.cache.Rename(id, name); err != nil {
			e.log.Warn().Int64("chat_id", id).Err(err).Msg("cache rename failed")
		}
	}

	go func() {
		if err := e.backend.RenameChat(context.Background(), id, name); err != nil {
			e.log.Warn().Int64("chat_id", id).Err(err).Msg("server rename failed")
		}
	}()
}
