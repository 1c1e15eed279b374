// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the non-TUI command surface of tubetalk: argument
// parsing, one-shot questions, the line-based chat REPL, and conversation,
// auth and configuration management commands.
package cli
