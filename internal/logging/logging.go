// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging configures the application-wide zerolog logger.
//
// The TUI owns stdout and stderr, so logs go to a file under the settings
// directory. Before Init (or when the log file cannot be opened) the
// package logger is a no-op, which keeps every component safe to construct
// in tests without setup.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu   sync.RWMutex
	root = zerolog.Nop()
	file *os.File
)

// Init opens the log file and installs the root logger. Level is one of
// debug, info, warn, error; anything else falls back to info.
func Init(path, level string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	logger := zerolog.New(f).Level(parseLevel(level)).With().Timestamp().Logger()

	mu.Lock()
	if file != nil {
		file.Close()
	}
	file = f
	root = logger
	mu.Unlock()
	return nil
}

// Component returns a child logger tagged with a component name.
func Component(name string) zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return root.With().Str("component", name).Logger()
}

// Close flushes and closes the log file.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if file == nil {
		return nil
	}
	err := file.Close()
	file = nil
	root = zerolog.Nop()
	return err
}

// parseLevel converts a config string to a zerolog level.
func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
