// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

// =============================================================================
// CHAT SUMMARY
// =============================================================================

// ChatSummary is one row of the conversation list as the backend reports it.
// The engine depends only on ID and the display name; the video fields are
// presentation data. Timestamps stay as the server's ISO strings since the
// client only ever displays them.
type ChatSummary struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	URL          string `json:"url"`
	Title        string `json:"title,omitempty"`
	Author       string `json:"author,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	CreatedAt    string `json:"created_at"`
	LastSession  string `json:"last_session"`
}

// DisplayName returns the user-facing name for the chat.
func (c ChatSummary) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	if c.Title != "" {
		return c.Title
	}
	return "New Conversation"
}

// =============================================================================
// CHAT METADATA
// =============================================================================

// ChatMeta is the per-conversation descriptor held by an engine entry.
// It is set once on the first successful load and never cleared except on
// deletion of the conversation itself.
type ChatMeta struct {
	Title        string
	Author       string
	VideoURL     string
	ThumbnailURL string
}
