// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/jeranaias/tubetalk/internal/ui/components"
)

// chatShortcuts are the bindings advertised in the status bar.
var chatShortcuts = []components.Shortcut{
	{Key: "enter", Desc: "ask"},
	{Key: "alt+№", Desc: "follow-up"},
	{Key: "esc", Desc: "back"},
	{Key: "ctrl+c", Desc: "quit"},
}

// View renders the chat view: header, transcript, spinner, input, status.
func (m Model) View() string {
	if !m.ready {
		return "loading…"
	}

	var b strings.Builder
	b.WriteString(m.header.View(m.width, m.snap.Meta))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if sp := m.spinner.View(); sp != "" {
		b.WriteString(sp)
	}
	b.WriteString("\n")

	b.WriteString(m.theme.InputContainer.Width(m.width).Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(m.status.View(m.width, m.snap.InFlight, m.snap.StatusText, chatShortcuts))

	return b.String()
}

// transcript renders every message in order, separated by blank lines.
func (m Model) transcript() string {
	if !m.snap.Loaded && len(m.snap.Messages) == 0 {
		return m.theme.ThinkingText.Render("Loading conversation…")
	}
	if len(m.snap.Messages) == 0 {
		return m.theme.ThinkingText.Render("No messages yet. Ask something about the video.")
	}

	blocks := make([]string, 0, len(m.snap.Messages))
	for i, msg := range m.snap.Messages {
		// Follow-ups only render on the newest answer; older ones are
		// stale suggestions.
		showFollowUps := m.showFollowUps && i == len(m.snap.Messages)-1
		blocks = append(blocks, m.renderer.Render(msg, m.width, showFollowUps))
	}
	return strings.Join(blocks, "\n\n")
}
