// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chatlist provides the conversation list view for the TUI:
// browsing, opening, creating, renaming, and deleting conversations. The
// list contents come from engine summaries; mutations go back through the
// engine so the cache and server stay in step.
package chatlist
