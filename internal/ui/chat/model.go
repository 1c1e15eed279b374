// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/tubetalk/internal/engine"
	"github.com/jeranaias/tubetalk/internal/ui/components"
	"github.com/jeranaias/tubetalk/internal/ui/styles"
)

// =============================================================================
// MESSAGES
// =============================================================================

// SnapshotMsg delivers a fresh conversation snapshot from the engine
// watcher into the Bubble Tea loop.
type SnapshotMsg struct {
	Snapshot engine.Snapshot
}

// BackMsg asks the parent view to leave the chat and show the list.
type BackMsg struct{}

// =============================================================================
// MODEL
// =============================================================================

// Model is the chat view for one conversation. It holds no conversation
// state of its own: everything rendered comes from the latest engine
// snapshot, so navigating away and back shows the same truth.
type Model struct {
	theme *styles.Theme
	eng   *engine.Engine
	id    int64

	snap engine.Snapshot

	viewport viewport.Model
	input    textinput.Model
	spinner  components.Spinner
	header   components.Header
	status   components.StatusBar
	renderer components.MessageRenderer

	showFollowUps bool
	width         int
	height        int
	ready         bool
}

// New creates a chat view bound to one conversation. The caller is
// responsible for routing engine watcher callbacks in as SnapshotMsg.
func New(theme *styles.Theme, eng *engine.Engine, snap engine.Snapshot, showFollowUps bool) Model {
	input := textinput.New()
	input.Placeholder = "Ask about the video…"
	input.Prompt = theme.InputPrompt.Render("❯ ")
	input.CharLimit = 2000
	input.Focus()

	return Model{
		theme:         theme,
		eng:           eng,
		id:            snap.ID,
		snap:          snap,
		input:         input,
		spinner:       components.NewSpinner(theme),
		header:        components.NewHeader(theme),
		status:        components.NewStatusBar(theme),
		renderer:      components.NewMessageRenderer(theme),
		showFollowUps: showFollowUps,
	}
}

// ID returns the conversation this view is bound to.
func (m Model) ID() int64 {
	return m.id
}

// Init starts the blinking cursor.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the chat view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case SnapshotMsg:
		if msg.Snapshot.ID != m.id {
			break
		}
		cmds = append(cmds, m.applySnapshot(msg.Snapshot)...)

	case tea.KeyMsg:
		handled, cmd := m.handleKey(msg)
		if handled {
			return m, cmd
		}

	default:
		if cmd := m.spinner.Update(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// applySnapshot replaces the rendered state with a fresh snapshot.
func (m *Model) applySnapshot(snap engine.Snapshot) []tea.Cmd {
	wasInFlight := m.snap.InFlight
	m.snap = snap

	var cmds []tea.Cmd
	switch {
	case snap.InFlight && !wasInFlight:
		cmds = append(cmds, m.spinner.Start(snap.StatusText))
	case snap.InFlight:
		m.spinner.SetMessage(snap.StatusText)
	default:
		m.spinner.Stop()
	}

	if m.ready {
		m.viewport.SetContent(m.transcript())
		m.viewport.GotoBottom()
	}
	return cmds
}

// handleKey processes chat-level key bindings. Returns handled=false for
// keys that belong to the text input.
func (m *Model) handleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return true, func() tea.Msg { return BackMsg{} }

	case "enter":
		question := strings.TrimSpace(m.input.Value())
		if question == "" || m.snap.InFlight {
			return true, nil
		}
		m.input.Reset()
		m.ask(question)
		return true, nil

	case "alt+1", "alt+2", "alt+3", "alt+4", "alt+5", "alt+6", "alt+7", "alt+8", "alt+9":
		if !m.showFollowUps || m.snap.InFlight {
			return true, nil
		}
		idx := int(msg.String()[4] - '1')
		last := m.snap.LastMessage()
		if idx < len(last.FollowUps) {
			m.ask(last.FollowUps[idx])
		}
		return true, nil

	case "pgup", "pgdown", "up", "down":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return true, cmd
	}

	return false, nil
}

// ask submits a question. The engine appends the user message and streams
// the answer; everything visible comes back through snapshots.
func (m *Model) ask(question string) {
	m.eng.Ask(m.id, question)
}

// resize lays out the viewport and input for new terminal dimensions.
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	headerHeight := 1
	footerHeight := 3 // spinner line, input, status bar
	vpHeight := height - headerHeight - footerHeight
	if vpHeight < 3 {
		vpHeight = 3
	}

	if !m.ready {
		m.viewport = viewport.New(width, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = vpHeight
	}
	m.input.Width = width - 4

	m.viewport.SetContent(m.transcript())
	m.viewport.GotoBottom()
}
