// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui provides the Bubble Tea application shell for tubetalk.
//
// The shell owns view switching between the conversation list and the chat
// view, and bridges engine callbacks into the Bubble Tea loop via
// Program.Send. Engine watchers fire on their own goroutines; the relay is
// the only place that crossing happens, so the views stay single-threaded.
package ui
