// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the per-conversation view for the TUI.
//
// The view is a pure projection of engine snapshots: the engine watcher
// feeds SnapshotMsg values into the Bubble Tea loop, and the view re-renders
// whatever the latest snapshot says. Submitting a question goes straight to
// the engine; nothing is rendered optimistically beyond what the engine
// itself records.
package chat
