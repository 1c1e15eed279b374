// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/tubetalk/internal/model"
	"github.com/jeranaias/tubetalk/internal/ui/styles"
	"github.com/jeranaias/tubetalk/internal/util"
)

// =============================================================================
// CONVERSATION HEADER
// =============================================================================

// Header renders the one-line conversation header: video title and author
// when metadata has arrived, a placeholder before that.
type Header struct {
	theme *styles.Theme
}

// NewHeader creates a header bound to the theme.
func NewHeader(theme *styles.Theme) Header {
	return Header{theme: theme}
}

// View renders the header for a conversation.
func (h Header) View(width int, meta *model.ChatMeta) string {
	title := "Loading…"
	subtitle := ""
	if meta != nil {
		title = meta.Title
		if title == "" {
			title = meta.VideoURL
		}
		subtitle = meta.Author
	}

	line := h.theme.HeaderTitle.Render(util.TruncateWidth(title, width-4))
	if subtitle != "" {
		sub := h.theme.HeaderSubtitle.Render(" — " + subtitle)
		if lipgloss.Width(line)+lipgloss.Width(sub) <= width-4 {
			line += sub
		}
	}

	return h.theme.Header.Width(width).Render(line)
}
