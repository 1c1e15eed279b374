// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/tubetalk/internal/model"
)

// =============================================================================
// SUMMARY CACHE
// =============================================================================

// Cache is the local SQLite copy of the server's conversation list. It
// exists so the list renders instantly on startup; the server remains the
// source of truth and every successful list fetch replaces the cache
// wholesale.
type Cache struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS chats (
	id            INTEGER PRIMARY KEY,
	name          TEXT NOT NULL DEFAULT '',
	url           TEXT NOT NULL DEFAULT '',
	title         TEXT NOT NULL DEFAULT '',
	author        TEXT NOT NULL DEFAULT '',
	thumbnail_url TEXT NOT NULL DEFAULT '',
	created_at    TEXT NOT NULL DEFAULT '',
	last_session  TEXT NOT NULL DEFAULT '',
	position      INTEGER NOT NULL DEFAULT 0
);
`

// Open opens (creating if necessary) the cache database at path.
func Open(path string) (*Cache, error) {
	if path == "" {
		return nil, errors.New("missing cache path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize cache schema: %w", err)
	}

	// One writer at a time keeps the pure-Go driver happy.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return &Cache{db: db}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Load returns the cached conversation list in stored order.
func (c *Cache) Load() ([]model.ChatSummary, error) {
	rows, err := c.db.Query(`
		SELECT id, name, url, title, author, thumbnail_url, created_at, last_session
		FROM chats ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query cache: %w", err)
	}
	defer rows.Close()

	var out []model.ChatSummary
	for rows.Next() {
		var s model.ChatSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.URL, &s.Title, &s.Author,
			&s.ThumbnailURL, &s.CreatedAt, &s.LastSession); err != nil {
			return nil, fmt.Errorf("failed to scan cache row: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Store replaces the cached list wholesale, preserving order.
func (c *Cache) Store(summaries []model.ChatSummary) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin cache transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM chats`); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO chats (id, name, url, title, author, thumbnail_url, created_at, last_session, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare cache insert: %w", err)
	}
	defer stmt.Close()

	for i, s := range summaries {
		if _, err := stmt.Exec(s.ID, s.Name, s.URL, s.Title, s.Author,
			s.ThumbnailURL, s.CreatedAt, s.LastSession, i); err != nil {
			return fmt.Errorf("failed to insert cache row: %w", err)
		}
	}

	return tx.Commit()
}

// Rename updates a single cached conversation name.
func (c *Cache) Rename(chatID int64, name string) error {
	_, err := c.db.Exec(`UPDATE chats SET name = ? WHERE id = ?`, name, chatID)
	if err != nil {
		return fmt.Errorf("failed to rename cached chat: %w", err)
	}
	return nil
}

// Delete removes a single conversation from the cache.
func (c *Cache) Delete(chatID int64) error {
	_, err := c.db.Exec(`DELETE FROM chats WHERE id = ?`, chatID)
	if err != nil {
		return fmt.Errorf("failed to delete cached chat: %w", err)
	}
	return nil
}
