// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/tubetalk/internal/model"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func sampleSummaries() []model.ChatSummary {
	return []model.ChatSummary{
		{ID: 2, Name: "generics talk", URL: "https://youtu.be/a", Title: "Go Generics", Author: "Gopher", CreatedAt: "2025-01-02T10:00:00Z"},
		{ID: 1, Name: "", URL: "https://youtu.be/b", Title: "Channels Deep Dive", Author: "Gopher", LastSession: "2025-01-03T09:00:00Z"},
	}
}

func TestStoreAndLoadPreservesOrder(t *testing.T) {
	c := openTestCache(t)
	require.NoError(t, c.Store(sampleSummaries()))

	got, err := c.Load()
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Stored order, not id order.
	assert.Equal(t, int64(2), got[0].ID)
	assert.Equal(t, int64(1), got[1].ID)
	assert.Equal(t, "Go Generics", got[0].Title)
	assert.Equal(t, "Channels Deep Dive", got[1].Title)
}

func TestStoreReplacesWholesale(t *testing.T) {
	c := openTestCache(t)
	require.NoError(t, c.Store(sampleSummaries()))
	require.NoError(t, c.Store([]model.ChatSummary{{ID: 9, Name: "only one"}}))

	got, err := c.Load()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(9), got[0].ID)
}

func TestRename(t *testing.T) {
	c := openTestCache(t)
	require.NoError(t, c.Store(sampleSummaries()))
	require.NoError(t, c.Rename(2, "renamed"))

	got, err := c.Load()
	require.NoError(t, err)
	assert.Equal(t, "renamed", got[0].Name)
	assert.Equal(t, "", got[1].Name)
}

func TestDelete(t *testing.T) {
	c := openTestCache(t)
	require.NoError(t, c.Store(sampleSummaries()))
	require.NoError(t, c.Delete(2))

	got, err := c.Load()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
}

func TestLoadEmptyCache(t *testing.T) {
	c := openTestCache(t)
	got, err := c.Load()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	c, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, c.Store(sampleSummaries()))
	require.NoError(t, c.Close())

	c2, err := Open(path)
	require.NoError(t, err)
	defer c2.Close()
	got, err := c2.Load()
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}
