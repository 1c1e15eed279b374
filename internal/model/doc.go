// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// This package defines the core domain types used throughout the application
// for representing chat conversations and messages.
//
// # Key Types
//
//   - Message: Single message with role, content, timestamp, and optional
//     follow-up suggestions
//   - Role: Message role enumeration (user, assistant)
//   - ChatSummary: One row of the server's conversation list
//   - ChatMeta: Per-conversation video descriptor (title, author, thumbnail)
//
// # Usage
//
// Create messages:
//
//	q := model.NewUserMessage("What is this video about?")
//	a := model.NewAssistantMessage("It's about X.", []string{"Tell me more"})
package model
