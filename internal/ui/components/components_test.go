// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jeranaias/tubetalk/internal/model"
	"github.com/jeranaias/tubetalk/internal/ui/styles"
)

func TestStatusBarStates(t *testing.T) {
	theme := styles.NewTheme()
	bar := NewStatusBar(theme)

	idle := bar.View(80, false, "", nil)
	assert.Contains(t, idle, "ready")

	active := bar.View(80, true, "Searching transcript", nil)
	assert.Contains(t, active, "Searching transcript")

	// No status text yet: a generic label, not an empty indicator.
	active = bar.View(80, true, "", nil)
	assert.Contains(t, active, "working")
}

func TestStatusBarShortcuts(t *testing.T) {
	theme := styles.NewTheme()
	bar := NewStatusBar(theme)

	out := bar.View(80, false, "", []Shortcut{{Key: "enter", Desc: "ask"}, {Key: "esc", Desc: "back"}})
	assert.Contains(t, out, "enter")
	assert.Contains(t, out, "ask")
	assert.Contains(t, out, "esc")

	// Too narrow to fit shortcuts: state survives, shortcuts drop.
	narrow := bar.View(10, false, "", []Shortcut{{Key: "enter", Desc: "ask"}})
	assert.Contains(t, narrow, "ready")
	assert.NotContains(t, narrow, "ask")
}

func TestMessageRendererRoles(t *testing.T) {
	theme := styles.NewTheme()
	r := NewMessageRenderer(theme)

	user := r.Render(model.NewUserMessage("what is this about?"), 80, false)
	assert.Contains(t, user, "what is this about?")
	assert.Contains(t, user, model.RoleUser.DisplayName())

	assistant := r.Render(model.NewAssistantMessage("Go generics.", nil), 80, false)
	assert.Contains(t, assistant, "Go generics.")
	assert.Contains(t, assistant, model.RoleAssistant.DisplayName())
}

func TestMessageRendererFollowUps(t *testing.T) {
	theme := styles.NewTheme()
	r := NewMessageRenderer(theme)
	msg := model.NewAssistantMessage("Answer.", []string{"What about X?", "And Y?"})

	shown := r.Render(msg, 80, true)
	assert.Contains(t, shown, "[1]")
	assert.Contains(t, shown, "What about X?")
	assert.Contains(t, shown, "[2]")
	assert.Contains(t, shown, "And Y?")

	hidden := r.Render(msg, 80, false)
	assert.NotContains(t, hidden, "What about X?")
}

func TestMessageRendererErrorHasNoFollowUps(t *testing.T) {
	theme := styles.NewTheme()
	r := NewMessageRenderer(theme)

	msg := model.NewErrorMessage("model overloaded")
	msg.FollowUps = []string{"should not render"}

	out := r.Render(msg, 80, true)
	assert.Contains(t, out, "model overloaded")
	assert.NotContains(t, out, "should not render")
}

func TestHeaderWithAndWithoutMeta(t *testing.T) {
	theme := styles.NewTheme()
	h := NewHeader(theme)

	assert.Contains(t, h.View(80, nil), "Loading")

	meta := &model.ChatMeta{Title: "A Talk", Author: "Someone"}
	out := h.View(80, meta)
	assert.Contains(t, out, "A Talk")
	assert.Contains(t, out, "Someone")
}

func TestSpinnerLifecycle(t *testing.T) {
	theme := styles.NewTheme()
	s := NewSpinner(theme)

	assert.False(t, s.Active())
	assert.Empty(t, s.View())

	cmd := s.Start("Thinking")
	assert.NotNil(t, cmd)
	assert.True(t, s.Active())
	assert.True(t, strings.Contains(s.View(), "Thinking"))

	s.SetMessage("Summarizing")
	assert.Contains(t, s.View(), "Summarizing")

	s.Stop()
	assert.False(t, s.Active())
	assert.Empty(t, s.View())
}
