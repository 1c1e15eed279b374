// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot question command handler for the tubetalk CLI.
//
// Command: ask
// Short:   Ask a single question about a video and print the answer
//
// Examples:
//
//	tubetalk ask "What is the thesis?" --chat 3
//	tubetalk ask "Summarize this" --url https://youtu.be/abc123
//	tubetalk ask "List the steps" --chat 3 --json
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jeranaias/tubetalk/internal/api"
	"github.com/jeranaias/tubetalk/internal/sse"
)

// askResult is the JSON payload for a successful ask.
type askResult struct {
	ChatID   int64    `json:"chat_id"`
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	FollowUp []string `json:"follow_up,omitempty"`
}

// HandleAskCommand handles the "ask" command.
func HandleAskCommand(args Args) error {
	if args.Query == "" {
		return ErrMissingArgument("question", "tubetalk ask \"What is this video about?\" --chat 3")
	}

	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	client := newClient(cfg)

	// Ctrl+C cancels the stream instead of killing the process mid-write.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	chat, err := resolveChat(ctx, client, args)
	if err != nil {
		return err
	}

	answer, followUps, err := streamAnswer(ctx, client, chat.ID, args.Query, quietMode(args))
	if err != nil {
		return err
	}

	if args.JSON {
		NewJSONResponse("ask", askResult{
			ChatID:   chat.ID,
			Question: args.Query,
			Answer:   answer,
			FollowUp: followUps,
		}).Print()
		return nil
	}

	fmt.Println(AnswerStyle.Render(WrapText(answer, GetTerminalWidth())))
	printFollowUps(followUps)
	return nil
}

// streamAnswer submits one question and consumes the event stream until a
// terminal frame arrives. Status frames go to stderr so stdout carries only
// the answer.
func streamAnswer(ctx context.Context, client *api.Client, chatID int64, question string, quiet bool) (string, []string, error) {
	statusShown := false
	clearStatus := func() {
		if statusShown {
			fmt.Fprint(os.Stderr, "\r\033[K")
			statusShown = false
		}
	}

	for ev := range client.Ask(ctx, chatID, question) {
		switch ev.Kind {
		case api.EventFrame:
			switch ev.Frame.Type {
			case sse.FrameStatus:
				if !quiet {
					fmt.Fprintf(os.Stderr, "\r\033[K%s", DimStyle.Render(ev.Frame.Msg))
					statusShown = true
				}
			case sse.FrameResult:
				clearStatus()
				return ev.Frame.Answer, ev.Frame.FollowUps, nil
			case sse.FrameError:
				clearStatus()
				return "", nil, fmt.Errorf("server error: %s", ev.Frame.Msg)
			}

		case api.EventTransportFailed:
			clearStatus()
			if ctx.Err() != nil {
				return "", nil, errors.New("cancelled")
			}
			return "", nil, ev.Err

		case api.EventStreamEnded:
			clearStatus()
			if !ev.Terminal {
				return "", nil, errors.New("the answer stream ended unexpectedly")
			}
		}
	}

	return "", nil, errors.New("the answer stream ended unexpectedly")
}

// printFollowUps prints suggested follow-up questions, if any.
func printFollowUps(followUps []string) {
	if len(followUps) == 0 {
		return
	}
	fmt.Println()
	fmt.Println(DimStyle.Render("Suggested follow-ups:"))
	for i, q := range followUps {
		fmt.Printf("  %s %s\n", FollowUpStyle.Render(fmt.Sprintf("[%d]", i+1)), q)
	}
}
