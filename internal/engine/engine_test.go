// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/tubetalk/internal/api"
	"github.com/jeranaias/tubetalk/internal/model"
	"github.com/jeranaias/tubetalk/internal/sse"
)

// =============================================================================
// FAKE BACKEND
// =============================================================================

type fakeBackend struct {
	mu sync.Mutex

	chat    model.ChatSummary
	chatErr error

	history      []model.Message
	historyErr   error
	historyGate  chan struct{} // when non-nil, FetchHistory blocks until closed
	historyCalls int

	// events is replayed on each Ask, then the channel closes. askFn, when
	// set, takes over entirely.
	events []api.StreamEvent
	askFn  func(ctx context.Context, chatID int64, question string) <-chan api.StreamEvent

	list    []model.ChatSummary
	listErr error

	renamed map[int64]string
	deleted chan int64
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		renamed: make(map[int64]string),
		deleted: make(chan int64, 4),
	}
}

func (f *fakeBackend) GetChat(ctx context.Context, chatID int64) (model.ChatSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.chatErr != nil {
		return model.ChatSummary{}, f.chatErr
	}
	return f.chat, nil
}

func (f *fakeBackend) FetchHistory(ctx context.Context, chatID int64) ([]model.Message, error) {
	f.mu.Lock()
	f.historyCalls++
	gate := f.historyGate
	msgs := f.history
	err := f.historyErr
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return msgs, err
}

func (f *fakeBackend) Ask(ctx context.Context, chatID int64, question string) <-chan api.StreamEvent {
	f.mu.Lock()
	fn := f.askFn
	events := f.events
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx, chatID, question)
	}
	ch := make(chan api.StreamEvent, len(events))
	for _, ev := range events {
		ch <- ev
	}
	close(ch)
	return ch
}

func (f *fakeBackend) ListChats(ctx context.Context) ([]model.ChatSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.list, f.listErr
}

func (f *fakeBackend) RenameChat(ctx context.Context, chatID int64, name string) error {
	f.mu.Lock()
	f.renamed[chatID] = name
	f.mu.Unlock()
	return nil
}

func (f *fakeBackend) DeleteChat(ctx context.Context, chatID int64) error {
	f.deleted <- chatID
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func frameEvent(f sse.Frame) api.StreamEvent {
	return api.StreamEvent{Kind: api.EventFrame, Frame: f}
}

func statusFrame(msg string) api.StreamEvent {
	return frameEvent(sse.Frame{Type: sse.FrameStatus, Msg: msg})
}

func resultFrame(answer string, followUps ...string) api.StreamEvent {
	return frameEvent(sse.Frame{Type: sse.FrameResult, Answer: answer, FollowUps: followUps})
}

func errorFrame(msg string) api.StreamEvent {
	return frameEvent(sse.Frame{Type: sse.FrameError, Msg: msg})
}

// watchSnapshots registers a channel-backed watcher on id.
func watchSnapshots(e *Engine, id int64) (<-chan Snapshot, Snapshot, WatchHandle) {
	ch := make(chan Snapshot, 64)
	snap, h := e.Watch(id, func(s Snapshot) { ch <- s })
	return ch, snap, h
}

// waitSnapshot drains snapshots until pred matches, failing on timeout.
func waitSnapshot(t *testing.T, ch <-chan Snapshot, pred func(Snapshot) bool) Snapshot {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case s := <-ch:
			if pred(s) {
				return s
			}
		case <-deadline:
			t.Fatal("timed out waiting for snapshot")
		}
	}
}

func idle(s Snapshot) bool { return !s.InFlight && s.Status == StatusIdle }

// =============================================================================
// ASK
// =============================================================================

func TestAskAppendsQuestionAndAnswer(t *testing.T) {
	fb := newFakeBackend()
	fb.events = []api.StreamEvent{
		statusFrame("Searching transcript"),
		resultFrame("The video covers Go generics.", "What about type sets?"),
		{Kind: api.EventStreamEnded, Terminal: true},
	}
	e := New(fb, nil)

	ch, _, h := watchSnapshots(e, 1)
	defer e.Unwatch(h)

	e.Ask(1, "What is the video about?")

	// The question lands synchronously, before any stream traffic.
	first := waitSnapshot(t, ch, func(s Snapshot) bool { return len(s.Messages) == 1 })
	assert.Equal(t, model.RoleUser, first.Messages[0].Role)
	assert.Equal(t, "What is the video about?", first.Messages[0].Content)
	assert.Equal(t, StatusActive, first.Status)

	got := waitSnapshot(t, ch, func(s Snapshot) bool { return idle(s) && len(s.Messages) == 2 })
	answer := got.LastMessage()
	assert.Equal(t, model.RoleAssistant, answer.Role)
	assert.Equal(t, "The video covers Go generics.", answer.Content)
	assert.Equal(t, []string{"What about type sets?"}, answer.FollowUps)
	assert.False(t, answer.IsError())
	assert.Empty(t, got.StatusText)
}

func TestAskStatusFramesUpdateLabelOnly(t *testing.T) {
	fb := newFakeBackend()
	fb.events = []api.StreamEvent{
		statusFrame("Fetching transcript"),
		statusFrame("Thinking"),
		resultFrame("done"),
		{Kind: api.EventStreamEnded, Terminal: true},
	}
	e := New(fb, nil)

	ch, _, h := watchSnapshots(e, 7)
	defer e.Unwatch(h)

	e.Ask(7, "q")

	s := waitSnapshot(t, ch, func(s Snapshot) bool { return s.StatusText == "Thinking" })
	// Status updates never touch history.
	assert.Len(t, s.Messages, 1)
	assert.Equal(t, StatusActive, s.Status)

	waitSnapshot(t, ch, idle)
}

func TestAskRejectedWhileInFlight(t *testing.T) {
	fb := newFakeBackend()
	hold := make(chan struct{})
	fb.askFn = func(ctx context.Context, chatID int64, question string) <-chan api.StreamEvent {
		ch := make(chan api.StreamEvent)
		go func() {
			<-hold
			close(ch)
		}()
		return ch
	}
	defer close(hold)
	e := New(fb, nil)

	e.Ask(3, "first")
	e.Ask(3, "second")

	snap := e.Get(3)
	require.Len(t, snap.Messages, 1)
	assert.Equal(t, "first", snap.Messages[0].Content)
	assert.True(t, snap.InFlight)
}

func TestAskErrorFrameProducesMarkedMessage(t *testing.T) {
	fb := newFakeBackend()
	fb.events = []api.StreamEvent{
		statusFrame("Thinking"),
		errorFrame("model overloaded"),
		{Kind: api.EventStreamEnded, Terminal: true},
	}
	e := New(fb, nil)

	ch, _, h := watchSnapshots(e, 2)
	defer e.Unwatch(h)

	e.Ask(2, "q")

	got := waitSnapshot(t, ch, func(s Snapshot) bool { return idle(s) && len(s.Messages) == 2 })
	msg := got.LastMessage()
	assert.Equal(t, model.RoleAssistant, msg.Role)
	assert.True(t, msg.IsError())
	assert.True(t, strings.Contains(msg.Content, "model overloaded"))
}

func TestAskTransportFailureProducesMarkedMessage(t *testing.T) {
	fb := newFakeBackend()
	fb.events = []api.StreamEvent{
		{Kind: api.EventTransportFailed, Err: errors.New("quota exceeded")},
	}
	e := New(fb, nil)

	ch, _, h := watchSnapshots(e, 4)
	defer e.Unwatch(h)

	e.Ask(4, "q")

	got := waitSnapshot(t, ch, func(s Snapshot) bool { return idle(s) && len(s.Messages) == 2 })
	msg := got.LastMessage()
	assert.True(t, msg.IsError())
	assert.True(t, strings.Contains(msg.Content, "quota exceeded"))
	assert.False(t, got.InFlight)
}

func TestStreamEndWithoutTerminalFrameIsFailure(t *testing.T) {
	fb := newFakeBackend()
	fb.events = []api.StreamEvent{
		statusFrame("Thinking"),
		{Kind: api.EventStreamEnded, Terminal: false},
	}
	e := New(fb, nil)

	ch, _, h := watchSnapshots(e, 5)
	defer e.Unwatch(h)

	e.Ask(5, "q")

	got := waitSnapshot(t, ch, func(s Snapshot) bool { return idle(s) && len(s.Messages) == 2 })
	assert.True(t, got.LastMessage().IsError())
}

func TestExactlyOneTerminalMutation(t *testing.T) {
	fb := newFakeBackend()
	// A misbehaving server sending two terminals: only the first counts.
	fb.events = []api.StreamEvent{
		resultFrame("first answer"),
		errorFrame("late failure"),
		resultFrame("second answer"),
		{Kind: api.EventStreamEnded, Terminal: true},
	}
	e := New(fb, nil)

	ch, _, h := watchSnapshots(e, 6)
	defer e.Unwatch(h)

	e.Ask(6, "q")

	waitSnapshot(t, ch, func(s Snapshot) bool { return idle(s) && len(s.Messages) == 2 })
	time.Sleep(50 * time.Millisecond)

	snap := e.Get(6)
	require.Len(t, snap.Messages, 2)
	assert.Equal(t, "first answer", snap.LastMessage().Content)
}

func TestAskAgainAfterCompletion(t *testing.T) {
	fb := newFakeBackend()
	fb.events = []api.StreamEvent{
		resultFrame("a1"),
		{Kind: api.EventStreamEnded, Terminal: true},
	}
	e := New(fb, nil)

	ch, _, h := watchSnapshots(e, 8)
	defer e.Unwatch(h)

	e.Ask(8, "q1")
	waitSnapshot(t, ch, func(s Snapshot) bool { return idle(s) && len(s.Messages) == 2 })

	e.Ask(8, "q2")
	got := waitSnapshot(t, ch, func(s Snapshot) bool { return idle(s) && len(s.Messages) == 4 })
	assert.Equal(t, "a1", got.Messages[3].Content)
}

// =============================================================================
// LOAD
// =============================================================================

func TestLoadPopulatesHistoryAndMeta(t *testing.T) {
	fb := newFakeBackend()
	fb.chat = model.ChatSummary{
		ID: 10, Title: "A talk", Author: "Someone", URL: "https://youtu.be/x",
	}
	fb.history = []model.Message{
		model.NewUserMessage("earlier question"),
		model.NewAssistantMessage("earlier answer", nil),
	}
	e := New(fb, nil)

	ch, initial, h := watchSnapshots(e, 10)
	defer e.Unwatch(h)
	assert.False(t, initial.Loaded)

	e.Load(10)

	got := waitSnapshot(t, ch, func(s Snapshot) bool { return s.Loaded })
	require.Len(t, got.Messages, 2)
	require.NotNil(t, got.Meta)
	assert.Equal(t, "A talk", got.Meta.Title)
	assert.Equal(t, "Someone", got.Meta.Author)
}

func TestLoadIsIdempotent(t *testing.T) {
	fb := newFakeBackend()
	fb.history = []model.Message{model.NewUserMessage("q")}
	e := New(fb, nil)

	ch, _, h := watchSnapshots(e, 11)
	defer e.Unwatch(h)

	e.Load(11)
	waitSnapshot(t, ch, func(s Snapshot) bool { return s.Loaded })
	e.Load(11)
	time.Sleep(50 * time.Millisecond)

	fb.mu.Lock()
	calls := fb.historyCalls
	fb.mu.Unlock()
	assert.Equal(t, 1, calls)
}

func TestLoadPartialFailureStillLoads(t *testing.T) {
	fb := newFakeBackend()
	fb.chatErr = errors.New("metadata unavailable")
	fb.history = []model.Message{model.NewUserMessage("q")}
	e := New(fb, nil)

	ch, _, h := watchSnapshots(e, 12)
	defer e.Unwatch(h)

	e.Load(12)

	got := waitSnapshot(t, ch, func(s Snapshot) bool { return s.Loaded })
	assert.Len(t, got.Messages, 1)
	assert.Nil(t, got.Meta)
}

func TestLiveStateWinsOverStaleFetch(t *testing.T) {
	fb := newFakeBackend()
	gate := make(chan struct{})
	fb.historyGate = gate
	fb.history = []model.Message{model.NewUserMessage("stale")}
	fb.events = []api.StreamEvent{
		resultFrame("live answer"),
		{Kind: api.EventStreamEnded, Terminal: true},
	}
	e := New(fb, nil)

	ch, _, h := watchSnapshots(e, 13)
	defer e.Unwatch(h)

	e.Load(13)
	e.Ask(13, "live question")
	waitSnapshot(t, ch, func(s Snapshot) bool { return idle(s) && len(s.Messages) == 2 })

	close(gate)
	got := waitSnapshot(t, ch, func(s Snapshot) bool { return s.Loaded })

	// The fetched history must not clobber what streamed in meanwhile.
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "live question", got.Messages[0].Content)
	assert.Equal(t, "live answer", got.Messages[1].Content)
}

// =============================================================================
// REMOVE / RENAME
// =============================================================================

func TestRemoveCancelsInFlightStream(t *testing.T) {
	fb := newFakeBackend()
	ctxCh := make(chan context.Context, 1)
	fb.askFn = func(ctx context.Context, chatID int64, question string) <-chan api.StreamEvent {
		ctxCh <- ctx
		ch := make(chan api.StreamEvent, 2)
		go func() {
			<-ctx.Done()
			ch <- resultFrame("too late")
			close(ch)
		}()
		return ch
	}
	e := New(fb, nil)

	ch, _, h := watchSnapshots(e, 20)
	defer e.Unwatch(h)

	e.Ask(20, "q")
	streamCtx := <-ctxCh

	e.Remove(20)

	waitSnapshot(t, ch, func(s Snapshot) bool { return s.Removed })
	select {
	case <-streamCtx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("stream context not cancelled by remove")
	}

	select {
	case id := <-fb.deleted:
		assert.Equal(t, int64(20), id)
	case <-time.After(2 * time.Second):
		t.Fatal("server delete never issued")
	}

	// Whatever the abandoned stream still emits is discarded.
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, e.Get(20).Messages)
}

func TestRemoveDropsSummary(t *testing.T) {
	fb := newFakeBackend()
	fb.list = []model.ChatSummary{{ID: 1, Name: "one"}, {ID: 2, Name: "two"}}
	e := New(fb, nil)
	require.NoError(t, e.RefreshSummaries(context.Background()))

	e.Remove(1)
	<-fb.deleted

	summaries := e.Summaries()
	require.Len(t, summaries, 1)
	assert.Equal(t, int64(2), summaries[0].ID)
}

func TestRenameUpdatesListAndServer(t *testing.T) {
	fb := newFakeBackend()
	fb.list = []model.ChatSummary{{ID: 1, Name: "old"}}
	e := New(fb, nil)
	require.NoError(t, e.RefreshSummaries(context.Background()))

	listCh := make(chan []model.ChatSummary, 4)
	handle := e.Listen(func(s []model.ChatSummary) { listCh <- s })
	defer e.Unlisten(handle)

	e.Rename(1, "new")

	select {
	case got := <-listCh:
		require.Len(t, got, 1)
		assert.Equal(t, "new", got[0].Name)
	case <-time.After(2 * time.Second):
		t.Fatal("list observer never notified")
	}

	assert.Eventually(t, func() bool {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		return fb.renamed[1] == "new"
	}, 2*time.Second, 10*time.Millisecond)
}

// =============================================================================
// WATCHERS
// =============================================================================

func TestMultipleWatchersSeeSameChange(t *testing.T) {
	fb := newFakeBackend()
	fb.events = []api.StreamEvent{
		resultFrame("a"),
		{Kind: api.EventStreamEnded, Terminal: true},
	}
	e := New(fb, nil)

	ch1, _, h1 := watchSnapshots(e, 30)
	defer e.Unwatch(h1)
	ch2, _, h2 := watchSnapshots(e, 30)
	defer e.Unwatch(h2)

	e.Ask(30, "q")

	for _, ch := range []<-chan Snapshot{ch1, ch2} {
		got := waitSnapshot(t, ch, func(s Snapshot) bool { return idle(s) && len(s.Messages) == 2 })
		assert.Equal(t, "a", got.LastMessage().Content)
	}
}

func TestUnwatchStopsNotifications(t *testing.T) {
	fb := newFakeBackend()
	fb.events = []api.StreamEvent{
		resultFrame("a"),
		{Kind: api.EventStreamEnded, Terminal: true},
	}
	e := New(fb, nil)

	var calls int
	var mu sync.Mutex
	_, h := e.Watch(31, func(Snapshot) {
		mu.Lock()
		calls++
		mu.Unlock()
	})
	e.Unwatch(h)

	ch, _, h2 := watchSnapshots(e, 31)
	defer e.Unwatch(h2)

	e.Ask(31, "q")
	waitSnapshot(t, ch, func(s Snapshot) bool { return idle(s) && len(s.Messages) == 2 })

	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, calls)
}

func TestWatchReturnsCurrentState(t *testing.T) {
	fb := newFakeBackend()
	hold := make(chan struct{})
	fb.askFn = func(ctx context.Context, chatID int64, question string) <-chan api.StreamEvent {
		ch := make(chan api.StreamEvent)
		go func() {
			<-hold
			close(ch)
		}()
		return ch
	}
	defer close(hold)
	e := New(fb, nil)

	e.Ask(32, "q")

	_, snap, h := watchSnapshots(e, 32)
	defer e.Unwatch(h)

	// A late watcher sees the in-progress state immediately.
	require.Len(t, snap.Messages, 1)
	assert.True(t, snap.InFlight)
	assert.Equal(t, StatusActive, snap.Status)
}
