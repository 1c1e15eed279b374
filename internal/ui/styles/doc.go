// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the tubetalk TUI.
//
// A single Theme carries every lipgloss style the views use, built from an
// adaptive palette so light and dark terminals both render sensibly. Views
// never construct styles inline; they take them from the Theme so the look
// stays consistent across the chat view and the conversation list.
package styles
