// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chatlist

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/tubetalk/internal/api"
	"github.com/jeranaias/tubetalk/internal/engine"
	"github.com/jeranaias/tubetalk/internal/model"
	"github.com/jeranaias/tubetalk/internal/ui/styles"
)

// stubBackend satisfies engine.Backend with a fixed conversation list.
type stubBackend struct {
	mu      sync.Mutex
	list    []model.ChatSummary
	renamed map[int64]string
	deleted []int64
}

func (s *stubBackend) GetChat(ctx context.Context, chatID int64) (model.ChatSummary, error) {
	return model.ChatSummary{ID: chatID}, nil
}

func (s *stubBackend) FetchHistory(ctx context.Context, chatID int64) ([]model.Message, error) {
	return nil, nil
}

func (s *stubBackend) Ask(ctx context.Context, chatID int64, question string) <-chan api.StreamEvent {
	ch := make(chan api.StreamEvent)
	close(ch)
	return ch
}

func (s *stubBackend) ListChats(ctx context.Context) ([]model.ChatSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.ChatSummary(nil), s.list...), nil
}

func (s *stubBackend) RenameChat(ctx context.Context, chatID int64, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.renamed == nil {
		s.renamed = make(map[int64]string)
	}
	s.renamed[chatID] = name
	return nil
}

func (s *stubBackend) DeleteChat(ctx context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, chatID)
	return nil
}

func (s *stubBackend) renameOf(id int64) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name, ok := s.renamed[id]
	return name, ok
}

func (s *stubBackend) deletedIDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int64(nil), s.deleted...)
}

func newTestModel(t *testing.T, summaries []model.ChatSummary) (Model, *stubBackend) {
	t.Helper()
	sb := &stubBackend{list: summaries}
	eng := engine.New(sb, nil)
	require.NoError(t, eng.RefreshSummaries(context.Background()))
	m := New(styles.NewTheme(), eng, api.NewClient(""))
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return m, sb
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeString(m Model, s string) Model {
	for _, r := range s {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func sampleSummaries() []model.ChatSummary {
	return []model.ChatSummary{
		{ID: 1, Name: "generics talk", URL: "https://youtu.be/a", Title: "Go Generics", Author: "Gopher"},
		{ID: 2, URL: "https://youtu.be/b", Title: "Channels Deep Dive", Author: "Gopher", LastSession: "2025-01-03T09:00:00"},
	}
}

func TestSeededFromEngineSummaries(t *testing.T) {
	m, _ := newTestModel(t, sampleSummaries())

	require.Len(t, m.list.Items(), 2)
	view := m.View()
	assert.Contains(t, view, "generics talk")
	assert.Contains(t, view, "Channels Deep Dive")
}

func TestSummariesMsgReplacesItems(t *testing.T) {
	m, _ := newTestModel(t, sampleSummaries())

	m, _ = m.Update(SummariesMsg{Summaries: []model.ChatSummary{
		{ID: 9, Name: "only one"},
	}})

	require.Len(t, m.list.Items(), 1)
	assert.Contains(t, m.View(), "only one")
}

func TestEnterOpensSelectedConversation(t *testing.T) {
	m, _ := newTestModel(t, sampleSummaries())

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg := cmd()
	require.IsType(t, OpenMsg{}, msg)
	assert.Equal(t, int64(1), msg.(OpenMsg).ID)
}

func TestDeleteRemovesConversation(t *testing.T) {
	m, sb := newTestModel(t, sampleSummaries())

	m, _ = m.Update(key("d"))

	assert.Eventually(t, func() bool {
		ids := sb.deletedIDs()
		return len(ids) == 1 && ids[0] == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRenameUpdatesNameOnServer(t *testing.T) {
	m, sb := newTestModel(t, sampleSummaries())

	m, cmd := m.Update(key("r"))
	if cmd != nil {
		cmd()
	}
	m = typeString(m, " v2")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Eventually(t, func() bool {
		name, ok := sb.renameOf(1)
		return ok && name == "generics talk v2"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestEscCancelsPrompt(t *testing.T) {
	m, _ := newTestModel(t, sampleSummaries())

	m, _ = m.Update(key("n"))
	assert.Contains(t, m.View(), "New conversation")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.NotContains(t, m.View(), "New conversation")
}

func TestCreateErrorShown(t *testing.T) {
	m, _ := newTestModel(t, sampleSummaries())

	m, _ = m.Update(createdMsg{err: errors.New("invalid YouTube video URL")})

	assert.Contains(t, m.View(), "invalid YouTube video URL")
}

func TestCreateSuccessOpensChat(t *testing.T) {
	m, _ := newTestModel(t, sampleSummaries())

	m, cmd := m.Update(createdMsg{chat: model.ChatSummary{ID: 7, URL: "https://youtu.be/c"}})
	require.NotNil(t, cmd)

	var opened bool
	collect := func(msg tea.Msg) {
		if open, ok := msg.(OpenMsg); ok {
			opened = true
			assert.Equal(t, int64(7), open.ID)
		}
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			if c != nil {
				collect(c())
			}
		}
	default:
		collect(msg)
	}
	assert.True(t, opened)
}

func TestItemDescription(t *testing.T) {
	tests := []struct {
		name    string
		summary model.ChatSummary
		want    string
	}{
		{
			name:    "author and last session",
			summary: model.ChatSummary{Author: "Gopher", LastSession: "2025-01-03T09:00:00"},
			want:    "Gopher · last session 2025-01-03",
		},
		{
			name:    "author only",
			summary: model.ChatSummary{Author: "Gopher"},
			want:    "Gopher",
		},
		{
			name:    "url fallback",
			summary: model.ChatSummary{URL: "https://youtu.be/a"},
			want:    "https://youtu.be/a",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, item{summary: tt.summary}.Description())
		})
	}
}

func TestFilterValueIncludesTitle(t *testing.T) {
	it := item{summary: model.ChatSummary{Name: "my chat", Title: "Go Generics"}}
	assert.Contains(t, it.FilterValue(), "Go Generics")
}
