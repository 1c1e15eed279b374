// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chatlist

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/tubetalk/internal/api"
	"github.com/jeranaias/tubetalk/internal/engine"
	"github.com/jeranaias/tubetalk/internal/model"
	"github.com/jeranaias/tubetalk/internal/ui/components"
	"github.com/jeranaias/tubetalk/internal/ui/styles"
	"github.com/jeranaias/tubetalk/internal/util"
)

// =============================================================================
// MESSAGES
// =============================================================================

// OpenMsg asks the parent view to open a conversation.
type OpenMsg struct {
	ID int64
}

// SummariesMsg delivers a fresh conversation list from the engine.
type SummariesMsg struct {
	Summaries []model.ChatSummary
}

// createdMsg reports the outcome of a chat creation call.
type createdMsg struct {
	chat model.ChatSummary
	err  error
}

// =============================================================================
// LIST ITEM
// =============================================================================

// item adapts a ChatSummary to the bubbles list.
type item struct {
	summary model.ChatSummary
}

func (i item) Title() string {
	return i.summary.DisplayName()
}

func (i item) Description() string {
	parts := make([]string, 0, 2)
	if i.summary.Author != "" {
		parts = append(parts, i.summary.Author)
	}
	if d := datePart(i.summary.LastSession); d != "" {
		parts = append(parts, "last session "+d)
	}
	if len(parts) == 0 {
		return i.summary.URL
	}
	return strings.Join(parts, " · ")
}

// datePart trims a server ISO timestamp down to its date.
func datePart(ts string) string {
	if idx := strings.IndexByte(ts, 'T'); idx > 0 {
		return ts[:idx]
	}
	return ts
}

func (i item) FilterValue() string {
	return i.summary.DisplayName() + " " + i.summary.Title
}

// =============================================================================
// MODEL
// =============================================================================

// mode is the list view's input state.
type mode int

const (
	modeBrowse mode = iota
	modeCreate
	modeRename
)

// listShortcuts are the bindings advertised in the status bar.
var listShortcuts = []components.Shortcut{
	{Key: "enter", Desc: "open"},
	{Key: "n", Desc: "new"},
	{Key: "r", Desc: "rename"},
	{Key: "d", Desc: "delete"},
	{Key: "ctrl+c", Desc: "quit"},
}

// Model is the conversation list view.
type Model struct {
	theme  *styles.Theme
	eng    *engine.Engine
	client *api.Client

	list   list.Model
	input  textinput.Model
	status components.StatusBar

	mode     mode
	renameID int64
	errText  string
	width    int
	height   int
}

// New creates the conversation list view seeded from the engine.
func New(theme *styles.Theme, eng *engine.Engine, client *api.Client) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = theme.ListItemSelected
	delegate.Styles.SelectedDesc = theme.ListItemDesc

	l := list.New(nil, delegate, 0, 0)
	l.Title = "tubetalk"
	l.Styles.Title = theme.ListTitle
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)

	input := textinput.New()
	input.Prompt = theme.InputPrompt.Render("❯ ")
	input.CharLimit = 500

	m := Model{
		theme:  theme,
		eng:    eng,
		client: client,
		list:   l,
		input:  input,
		status: components.NewStatusBar(theme),
	}
	m.setSummaries(eng.Summaries())
	return m
}

// Init kicks off a list refresh against the server.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg {
		// Errors keep the cached list visible; nothing to do here.
		m.eng.RefreshSummaries(context.Background())
		return nil
	}
}

// Update handles messages for the list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-3)

	case SummariesMsg:
		m.setSummaries(msg.Summaries)

	case createdMsg:
		m.mode = modeBrowse
		m.input.Blur()
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.errText = ""
		m.eng.Load(msg.chat.ID)
		return m, tea.Batch(
			func() tea.Msg {
				m.eng.RefreshSummaries(context.Background())
				return nil
			},
			func() tea.Msg { return OpenMsg{ID: msg.chat.ID} },
		)

	case tea.KeyMsg:
		if m.mode != modeBrowse {
			return m.updateInput(msg)
		}
		return m.updateBrowse(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// updateBrowse handles keys while navigating the list.
func (m Model) updateBrowse(msg tea.KeyMsg) (Model, tea.Cmd) {
	// Filtering has its own key handling.
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "enter":
		if it, ok := m.list.SelectedItem().(item); ok {
			id := it.summary.ID
			m.eng.Load(id)
			return m, func() tea.Msg { return OpenMsg{ID: id} }
		}
		return m, nil

	case "n":
		m.mode = modeCreate
		m.errText = ""
		m.input.Placeholder = "Paste a YouTube URL…"
		m.input.Reset()
		return m, m.input.Focus()

	case "r":
		if it, ok := m.list.SelectedItem().(item); ok {
			m.mode = modeRename
			m.errText = ""
			m.renameID = it.summary.ID
			m.input.Placeholder = "New name…"
			m.input.Reset()
			m.input.SetValue(it.summary.Name)
			return m, m.input.Focus()
		}
		return m, nil

	case "d":
		if it, ok := m.list.SelectedItem().(item); ok {
			m.eng.Remove(it.summary.ID)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// updateInput handles keys while the create/rename prompt is open.
func (m Model) updateInput(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil

	case "enter":
		value := strings.TrimSpace(m.input.Value())
		if value == "" {
			return m, nil
		}
		switch m.mode {
		case modeCreate:
			return m, m.createChat(value)
		case modeRename:
			m.eng.Rename(m.renameID, value)
			m.mode = modeBrowse
			m.input.Blur()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// createChat creates a conversation for a video URL off the UI loop.
func (m Model) createChat(videoURL string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		chat, err := client.CreateChat(context.Background(), videoURL, "")
		return createdMsg{chat: chat, err: err}
	}
}

// setSummaries replaces the list items.
func (m *Model) setSummaries(summaries []model.ChatSummary) {
	items := make([]list.Item, len(summaries))
	for i, s := range summaries {
		items[i] = item{summary: s}
	}
	m.list.SetItems(items)
}

// View renders the list view.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.list.View())
	b.WriteString("\n")

	switch m.mode {
	case modeCreate:
		b.WriteString(m.theme.InputContainer.Width(m.width).Render("New conversation  " + m.input.View()))
	case modeRename:
		b.WriteString(m.theme.InputContainer.Width(m.width).Render("Rename  " + m.input.View()))
	default:
		if m.errText != "" {
			b.WriteString(m.theme.ErrorText.Render(util.TruncateWidth(m.errText, m.width)))
		}
	}
	b.WriteString("\n")
	b.WriteString(m.status.View(m.width, false, "", listShortcuts))

	return b.String()
}
