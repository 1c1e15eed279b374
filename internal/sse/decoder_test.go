// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	statusFrame = `data: {"type":"status","msg":"retrieving"}` + "\n\n"
	resultFrame = `data: {"type":"result","payload":{"answer":"It's about X.","follow_up":["Tell me more about X"]}}` + "\n\n"
	errorFrame  = `data: {"type":"error","msg":"model overloaded"}` + "\n\n"
)

// feedAll runs a full stream through a fresh decoder in one chunk.
func feedAll(t *testing.T, stream string) []Frame {
	t.Helper()
	dec := NewDecoder()
	frames := dec.Feed([]byte(stream))
	return append(frames, dec.Flush()...)
}

func TestDecoder_SingleFrames(t *testing.T) {
	tests := []struct {
		name   string
		stream string
		want   Frame
	}{
		{
			name:   "status",
			stream: statusFrame,
			want:   Frame{Type: FrameStatus, Msg: "retrieving"},
		},
		{
			name:   "result with follow-ups",
			stream: resultFrame,
			want: Frame{
				Type:      FrameResult,
				Answer:    "It's about X.",
				FollowUps: []string{"Tell me more about X"},
			},
		},
		{
			name:   "result without follow-ups",
			stream: `data: {"type":"result","payload":{"answer":"Short."}}` + "\n\n",
			want:   Frame{Type: FrameResult, Answer: "Short."},
		},
		{
			name:   "error",
			stream: errorFrame,
			want:   Frame{Type: FrameError, Msg: "model overloaded"},
		},
		{
			name:   "no space after colon",
			stream: `data:{"type":"status","msg":"drafting"}` + "\n\n",
			want:   Frame{Type: FrameStatus, Msg: "drafting"},
		},
		{
			name:   "crlf line endings",
			stream: "data: {\"type\":\"status\",\"msg\":\"judging\"}\r\n\r\n",
			want:   Frame{Type: FrameStatus, Msg: "judging"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frames := feedAll(t, tt.stream)
			require.Len(t, frames, 1)
			assert.Equal(t, tt.want, frames[0])
		})
	}
}

func TestDecoder_Terminality(t *testing.T) {
	assert.False(t, Frame{Type: FrameStatus}.IsTerminal())
	assert.True(t, Frame{Type: FrameResult}.IsTerminal())
	assert.True(t, Frame{Type: FrameError}.IsTerminal())
}

// Any chunk-splitting of the same byte sequence must reproduce the same
// frames in the same order, wherever the boundaries fall — including inside
// the JSON payload and inside the delimiter itself.
func TestDecoder_ChunkSplitInvariance(t *testing.T) {
	stream := statusFrame +
		`data: {"type":"status","msg":"drafting"}` + "\n\n" +
		resultFrame
	want := feedAll(t, stream)
	require.Len(t, want, 3)

	// Every two-chunk split.
	for cut := 0; cut <= len(stream); cut++ {
		dec := NewDecoder()
		frames := dec.Feed([]byte(stream[:cut]))
		frames = append(frames, dec.Feed([]byte(stream[cut:]))...)
		frames = append(frames, dec.Flush()...)
		require.Equalf(t, want, frames, "split at byte %d", cut)
	}

	// Byte-at-a-time delivery.
	dec := NewDecoder()
	var frames []Frame
	for i := 0; i < len(stream); i++ {
		frames = append(frames, dec.Feed([]byte{stream[i]})...)
	}
	frames = append(frames, dec.Flush()...)
	assert.Equal(t, want, frames)
}

func TestDecoder_BundledFramesInOneChunk(t *testing.T) {
	frames := feedAll(t, statusFrame+statusFrame+resultFrame)
	require.Len(t, frames, 3)
	assert.Equal(t, FrameStatus, frames[0].Type)
	assert.Equal(t, FrameStatus, frames[1].Type)
	assert.Equal(t, FrameResult, frames[2].Type)
}

func TestDecoder_DropsMalformedAndUnknown(t *testing.T) {
	stream := "data: {not json}\n\n" +
		`data: {"type":"telemetry","msg":"ignored"}` + "\n\n" +
		": keep-alive comment\n\n" +
		"event: ping\n\n" +
		statusFrame
	frames := feedAll(t, stream)
	require.Len(t, frames, 1)
	assert.Equal(t, Frame{Type: FrameStatus, Msg: "retrieving"}, frames[0])
}

func TestDecoder_FlushDrainsTrailingFrame(t *testing.T) {
	// Server closed right after its last event, without a trailing blank line.
	dec := NewDecoder()
	frames := dec.Feed([]byte(`data: {"type":"result","payload":{"answer":"done"}}` + "\n"))
	assert.Empty(t, frames)

	frames = dec.Flush()
	require.Len(t, frames, 1)
	assert.Equal(t, "done", frames[0].Answer)

	// Flush is terminal: the carry-over is gone afterwards.
	assert.Zero(t, dec.Buffered())
	assert.Empty(t, dec.Flush())
}

func TestDecoder_FlushIgnoresWhitespaceTail(t *testing.T) {
	dec := NewDecoder()
	dec.Feed([]byte(statusFrame + "\n"))
	assert.Empty(t, dec.Flush())
}

func TestDecoder_PartialFrameStaysBuffered(t *testing.T) {
	dec := NewDecoder()
	assert.Empty(t, dec.Feed([]byte(`data: {"type":"sta`)))
	assert.Positive(t, dec.Buffered())

	frames := dec.Feed([]byte(`tus","msg":"retrieving"}` + "\n\n"))
	require.Len(t, frames, 1)
	assert.Equal(t, "retrieving", frames[0].Msg)
	assert.Zero(t, dec.Buffered())
}

func TestDecoder_MultiLineDataJoined(t *testing.T) {
	// SSE joins multiple data fields of one event with newlines; a payload
	// split across data lines must still parse as one JSON document.
	stream := "data: {\"type\":\"status\",\ndata: \"msg\":\"retrieving\"}\n\n"
	frames := feedAll(t, stream)
	require.Len(t, frames, 1)
	assert.Equal(t, "retrieving", frames[0].Msg)
}
