// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/tubetalk/internal/api"
	"github.com/jeranaias/tubetalk/internal/config"
	"github.com/jeranaias/tubetalk/internal/engine"
	"github.com/jeranaias/tubetalk/internal/model"
	"github.com/jeranaias/tubetalk/internal/ui/chat"
	"github.com/jeranaias/tubetalk/internal/ui/chatlist"
	"github.com/jeranaias/tubetalk/internal/ui/styles"
)

// =============================================================================
// ENGINE-TO-PROGRAM RELAY
// =============================================================================

// relay forwards engine callbacks into the Bubble Tea loop. Callbacks can
// fire before the program exists, so the program reference is guarded.
type relay struct {
	mu sync.Mutex
	p  *tea.Program
}

func (r *relay) set(p *tea.Program) {
	r.mu.Lock()
	r.p = p
	r.mu.Unlock()
}

func (r *relay) send(msg tea.Msg) {
	r.mu.Lock()
	p := r.p
	r.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// =============================================================================
// APP
// =============================================================================

// configReloadedMsg carries a freshly loaded config after an on-disk edit.
type configReloadedMsg struct {
	cfg *config.Config
}

// view identifies the active top-level view.
type view int

const (
	viewList view = iota
	viewChat
)

// App is the root Bubble Tea model: the conversation list, with a chat
// view layered on top when a conversation is open.
type App struct {
	theme *styles.Theme
	cfg   *config.Config
	eng   *engine.Engine
	relay *relay

	active view
	listM  chatlist.Model
	chatM  chat.Model

	watch    engine.WatchHandle
	watching bool
	width    int
	height   int
}

func newApp(theme *styles.Theme, cfg *config.Config, eng *engine.Engine, client *api.Client, r *relay) App {
	return App{
		theme: theme,
		cfg:   cfg,
		eng:   eng,
		relay: r,
		listM: chatlist.New(theme, eng, client),
	}
}

// Init starts the list view.
func (a App) Init() tea.Cmd {
	return a.listM.Init()
}

// Update routes messages to the active view and handles view switching.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		var cmds []tea.Cmd
		var cmd tea.Cmd
		a.listM, cmd = a.listM.Update(msg)
		cmds = append(cmds, cmd)
		if a.active == viewChat {
			a.chatM, cmd = a.chatM.Update(msg)
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

	case configReloadedMsg:
		a.cfg = msg.cfg
		return a, nil

	case chatlist.OpenMsg:
		return a.openChat(msg.ID)

	case chat.BackMsg:
		a.closeChat()
		return a, nil

	case chat.SnapshotMsg:
		if msg.Snapshot.Removed {
			// The conversation disappeared under the open view.
			a.closeChat()
			return a, nil
		}
	}

	var cmd tea.Cmd
	switch a.active {
	case viewChat:
		a.chatM, cmd = a.chatM.Update(msg)
	default:
		a.listM, cmd = a.listM.Update(msg)
	}
	return a, cmd
}

// View renders the active view.
func (a App) View() string {
	if a.active == viewChat {
		return a.chatM.View()
	}
	return a.listM.View()
}

// openChat binds a chat view to a conversation and registers its watcher.
func (a App) openChat(id int64) (tea.Model, tea.Cmd) {
	if a.watching {
		a.eng.Unwatch(a.watch)
	}

	r := a.relay
	snap, handle := a.eng.Watch(id, func(s engine.Snapshot) {
		r.send(chat.SnapshotMsg{Snapshot: s})
	})
	a.watch = handle
	a.watching = true

	a.chatM = chat.New(a.theme, a.eng, snap, a.cfg.UI.ShowFollowUps)
	a.active = viewChat

	cmds := []tea.Cmd{a.chatM.Init()}
	if a.width > 0 {
		var cmd tea.Cmd
		a.chatM, cmd = a.chatM.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
		cmds = append(cmds, cmd)
	}
	return a, tea.Batch(cmds...)
}

// closeChat returns to the list and releases the chat watcher.
func (a *App) closeChat() {
	if a.watching {
		a.eng.Unwatch(a.watch)
		a.watching = false
	}
	a.active = viewList
}

// =============================================================================
// ENTRY POINT
// =============================================================================

// Run starts the TUI and blocks until the user quits.
func Run(cfg *config.Config, eng *engine.Engine, client *api.Client) error {
	theme := styles.NewTheme()
	r := &relay{}

	app := newApp(theme, cfg, eng, client, r)
	p := tea.NewProgram(app, tea.WithAltScreen())
	r.set(p)

	listen := eng.Listen(func(summaries []model.ChatSummary) {
		r.send(chatlist.SummariesMsg{Summaries: summaries})
	})
	defer eng.Unlisten(listen)

	// Pick up config edits made while the TUI is running. Watch failures
	// are non-fatal; the session just keeps its startup config.
	if w, err := config.Watch(func(fresh *config.Config) {
		r.send(configReloadedMsg{cfg: fresh})
	}); err == nil {
		defer w.Close()
	}

	_, err := p.Run()
	return err
}
