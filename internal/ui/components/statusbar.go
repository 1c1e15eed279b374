// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/tubetalk/internal/ui/styles"
)

// =============================================================================
// STATUS BAR
// =============================================================================

// Shortcut is one key binding shown in the status bar.
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBar renders the bottom bar: generation state on the left, key
// shortcuts on the right, padded to the full terminal width.
type StatusBar struct {
	theme *styles.Theme
}

// NewStatusBar creates a status bar bound to the theme.
func NewStatusBar(theme *styles.Theme) StatusBar {
	return StatusBar{theme: theme}
}

// View renders one status bar line.
func (b StatusBar) View(width int, active bool, statusText string, shortcuts []Shortcut) string {
	var left string
	if active {
		label := statusText
		if label == "" {
			label = "working"
		}
		left = b.theme.StatusActive.Render("● " + label)
	} else {
		left = b.theme.StatusIdle.Render("○ ready")
	}

	var parts []string
	for _, s := range shortcuts {
		parts = append(parts, b.theme.ShortcutKey.Render(s.Key)+" "+b.theme.ShortcutDesc.Render(s.Desc))
	}
	right := strings.Join(parts, "  ")

	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		// Too narrow for shortcuts: keep the state alone.
		return b.theme.StatusBar.Render(left)
	}

	return b.theme.StatusBar.Render(left + strings.Repeat(" ", gap) + right)
}
