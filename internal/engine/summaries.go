// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import (
	"context"

	"github.com/jeranaias/tubetalk/internal/model"
)

// =============================================================================
// CONVERSATION LIST
// =============================================================================

// summariesLocked copies the summary list. Caller holds the engine mutex.
func (e *Engine) summariesLocked() []model.ChatSummary {
	out := make([]model.ChatSummary, len(e.mu.summaries))
	copy(out, e.mu.summaries)
	return out
}

// dropSummaryLocked removes one conversation from the summary list.
// Caller holds the engine mutex.
func (e *Engine) dropSummaryLocked(id int64) {
	for i := range e.mu.summaries {
		if e.mu.summaries[i].ID == id {
			e.mu.summaries = append(e.mu.summaries[:i], e.mu.summaries[i+1:]...)
			return
		}
	}
}

// Summaries returns the current conversation list. Cached entries are
// served until the first RefreshSummaries completes.
func (e *Engine) Summaries() []model.ChatSummary {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.summariesLocked()
}

// RefreshSummaries fetches the conversation list from the server, replaces
// the in-memory copy, persists it to the cache and notifies list observers.
// On fetch failure the previous list is kept.
func (e *Engine) RefreshSummaries(ctx context.Context) error {
	summaries, err := e.backend.ListChats(ctx)
	if err != nil {
		e.log.Warn().Err(err).Msg("conversation list fetch failed")
		return err
	}

	e.mu.Lock()
	e.mu.summaries = summaries
	copied := e.summariesLocked()
	e.mu.Unlock()

	e.listeners.notify(copied)

	if e.cache != nil {
		if err := e.cache.Store(copied); err != nil {
			e.log.Warn().Err(err).Msg("cache store failed")
		}
	}
	return nil
}
