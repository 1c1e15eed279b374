// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the local SQLite cache of the conversation
// list. The cache is read once on startup and overwritten after every
// successful list fetch; the server stays authoritative.
package storage
