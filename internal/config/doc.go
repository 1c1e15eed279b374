// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for tubetalk.
//
// Configuration lives in ~/.tubetalk/config.toml with sensible defaults,
// environment variable overrides (TUBETALK_*), and validation. The file
// stores the login token, so it is kept at mode 0600 and written
// atomically. A filesystem watcher picks up external edits while the
// application runs.
package config
