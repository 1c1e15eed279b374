// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/jeranaias/tubetalk/internal/model"
)

// =============================================================================
// CHAT CRUD
// =============================================================================

// createChatRequest is the body of a chat creation call.
type createChatRequest struct {
	URL  string `json:"url"`
	Name string `json:"name,omitempty"`
}

// renameRequest is the body of an update_name call.
type renameRequest struct {
	Name string `json:"name"`
}

// CreateChat creates a conversation bound to a video URL. The backend
// validates the URL and derives title/author/thumbnail metadata; an invalid
// or unavailable video is reported as ErrInvalidURL.
func (c *Client) CreateChat(ctx context.Context, videoURL, name string) (model.ChatSummary, error) {
	var chat model.ChatSummary
	err := c.doJSON(ctx, http.MethodPost, "/chat/create",
		createChatRequest{URL: videoURL, Name: name}, &chat)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest {
			if apiErr.Detail != "" {
				return chat, fmt.Errorf("%w: %s", ErrInvalidURL, apiErr.Detail)
			}
			return chat, ErrInvalidURL
		}
		return chat, err
	}
	c.log.Info().Int64("chat_id", chat.ID).Msg("chat created")
	return chat, nil
}

// ListChats returns the user's conversations, most recent session first.
func (c *Client) ListChats(ctx context.Context) ([]model.ChatSummary, error) {
	var chats []model.ChatSummary
	if err := c.doJSON(ctx, http.MethodGet, "/chat/list", nil, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

// GetChat fetches one conversation's record, including video metadata.
func (c *Client) GetChat(ctx context.Context, chatID int64) (model.ChatSummary, error) {
	var chat model.ChatSummary
	err := c.doJSON(ctx, http.MethodGet, "/chat/get/"+formatID(chatID), nil, &chat)
	return chat, err
}

// RenameChat updates a conversation's display name.
func (c *Client) RenameChat(ctx context.Context, chatID int64, name string) error {
	return c.doJSON(ctx, http.MethodPut, "/chat/update_name/"+formatID(chatID),
		renameRequest{Name: name}, nil)
}

// DeleteChat removes a conversation server-side.
func (c *Client) DeleteChat(ctx context.Context, chatID int64) error {
	return c.doJSON(ctx, http.MethodDelete, "/chat/delete/"+formatID(chatID), nil, nil)
}

// formatID renders a conversation identifier for a URL path.
func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
