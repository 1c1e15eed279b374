// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"

	"github.com/jeranaias/tubetalk/internal/model"
)

// historyMessage is the wire shape of one stored message.
type historyMessage struct {
	Role     string   `json:"role"`
	Content  string   `json:"content"`
	FollowUp []string `json:"follow_up,omitempty"`
}

// FetchHistory returns a conversation's stored messages in chronological
// order, mapped 1:1 onto the model shape.
func (c *Client) FetchHistory(ctx context.Context, chatID int64) ([]model.Message, error) {
	var wire []historyMessage
	err := c.doJSON(ctx, http.MethodGet, "/chat/"+formatID(chatID)+"/history", nil, &wire)
	if err != nil {
		return nil, err
	}

	messages := make([]model.Message, 0, len(wire))
	for _, m := range wire {
		msg := model.NewMessage(model.Role(m.Role), m.Content)
		msg.FollowUps = m.FollowUp
		messages = append(messages, msg)
	}
	return messages, nil
}
