// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// ErrorMarker prefixes assistant messages that report a failed generation.
// The UI renders these in the error style; the engine never produces an
// unmarked assistant message on the failure path.
const ErrorMarker = "⚠ "

// Message represents a single message in a conversation.
//
// Messages are immutable once appended to a conversation: the engine only
// ever appends, never edits or reorders committed messages.
type Message struct {
	// Identity
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`

	// Content
	Content string `json:"content"`

	// FollowUps holds the server-suggested follow-up questions attached to
	// an assistant answer. Order is preserved; may be empty.
	FollowUps []string `json:"follow_up,omitempty"`
}

// NewMessage creates a new message with a generated ID.
func NewMessage(role Role, content string) Message {
	return Message{
		ID:        generateID(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage creates a new assistant message with follow-ups.
func NewAssistantMessage(content string, followUps []string) Message {
	msg := NewMessage(RoleAssistant, content)
	msg.FollowUps = followUps
	return msg
}

// NewErrorMessage creates the assistant-role message used to surface a
// failed generation in the conversation itself.
func NewErrorMessage(reason string) Message {
	return NewMessage(RoleAssistant, ErrorMarker+reason)
}

// IsError reports whether the message surfaces a failed generation.
func (m Message) IsError() bool {
	return m.Role == RoleAssistant && len(m.Content) >= len(ErrorMarker) &&
		m.Content[:len(ErrorMarker)] == ErrorMarker
}

// IsEmpty returns true if the message has no content.
func (m Message) IsEmpty() bool {
	return len(m.Content) == 0
}

// Preview returns a truncated preview of the message content.
// Uses rune-based truncation to handle Unicode correctly.
func (m Message) Preview(maxLen int) string {
	runes := []rune(m.Content)
	if len(runes) <= maxLen {
		return m.Content
	}
	return string(runes[:maxLen-3]) + "..."
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateID creates a unique message ID.
func generateID() string {
	return "msg_" + uuid.NewString()
}
