// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small shared helpers for the tubetalk application:
// UTF-8 safe string truncation for display, and crash-safe atomic file
// writes used by the config layer.
package util
