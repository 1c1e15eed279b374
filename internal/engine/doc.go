// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package engine maintains per-conversation state fed by answer streams.
//
// The engine owns one entry per conversation for the life of the process.
// Views never hold conversation state themselves: they register a watcher,
// render the snapshot they are handed, and re-render on every change. That
// split is what lets a conversation keep streaming while the user browses the
// conversation list, and lets two views of the same conversation stay in
// agreement for free.
//
// All mutation funnels through the engine mutex; watcher callbacks always
// run outside it. A conversation accepts at most one open answer stream at
// a time, and every ask terminates in exactly one history mutation — an
// assistant answer or a marked error message — no matter how the stream
// ends.
package engine
