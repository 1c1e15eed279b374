// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides reusable UI components for the tubetalk TUI:
// the loading spinner, the conversation header, the status bar, and the
// message bubble renderer. Components take their styles from a shared
// Theme and render plain strings for the views to compose.
package components
