// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/tubetalk/internal/model"
	"github.com/jeranaias/tubetalk/internal/ui/styles"
)

// =============================================================================
// MESSAGE RENDERING
// =============================================================================

// MessageRenderer renders conversation messages as aligned bubbles: user
// messages on the right, assistant answers on the left, failed answers in
// the error style.
type MessageRenderer struct {
	theme *styles.Theme
}

// NewMessageRenderer creates a message renderer bound to the theme.
func NewMessageRenderer(theme *styles.Theme) MessageRenderer {
	return MessageRenderer{theme: theme}
}

// Render renders one message block, including the role label and any
// follow-up suggestions, wrapped to the given width.
func (r MessageRenderer) Render(msg model.Message, width int, showFollowUps bool) string {
	bubbleWidth := width - 8
	if bubbleWidth < 20 {
		bubbleWidth = width
	}

	var bubble lipgloss.Style
	switch {
	case msg.Role == model.RoleUser:
		bubble = r.theme.UserBubble
	case msg.IsError():
		bubble = r.theme.ErrorBubble
	default:
		bubble = r.theme.AssistantBubble
	}

	var b strings.Builder
	label := r.theme.RoleLabel.Render(msg.Role.DisplayName())
	body := bubble.MaxWidth(bubbleWidth).Render(msg.Content)

	if msg.Role == model.RoleUser {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Right, label))
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Right, body))
	} else {
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(body)
	}

	if showFollowUps && len(msg.FollowUps) > 0 && !msg.IsError() {
		for i, q := range msg.FollowUps {
			b.WriteString("\n")
			b.WriteString(r.theme.FollowUp.Render(shortcutDigit(i) + " " + q))
		}
	}

	return b.String()
}

// shortcutDigit labels the first nine follow-ups with their alt-key digit.
func shortcutDigit(i int) string {
	if i < 9 {
		return "[" + string(rune('1'+i)) + "]"
	}
	return "•"
}
