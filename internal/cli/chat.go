// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat command handler for the tubetalk CLI.
//
// Handles the "tubetalk chat" command which provides a line-based REPL for
// asking questions about one video, with input history and line editing.
//
// Command: chat
// Short:   Interactive question/answer session for one conversation
//
// Examples:
//
//	tubetalk chat --chat 3                    Open an existing conversation
//	tubetalk chat --url https://youtu.be/x    Create one, then chat
//
// Interactive Commands (during chat):
//
//	/help, /h           Show available commands
//	/history            Show the conversation transcript
//	/name <new name>    Rename the conversation
//	/quit, /q           Exit chat
//	1-9                 Ask the numbered follow-up suggestion
//	Ctrl+C              Cancel the current question
//	Ctrl+D              Exit chat
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeranaias/tubetalk/internal/api"
	"github.com/jeranaias/tubetalk/internal/config"
	"github.com/jeranaias/tubetalk/internal/model"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI provides input history and line editing for interactive chat.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a new ChatCLI with input history support.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.SettingsDir()
	if err != nil {
		dir = os.TempDir()
	}

	c := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(dir, "chat_history"),
	}
	c.loadHistory()
	return c
}

// loadHistory loads input history from file.
func (c *ChatCLI) loadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line of input with the given prompt.
// Supports history navigation with arrow keys.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// Close persists input history and restores the terminal.
func (c *ChatCLI) Close() {
	if err := config.EnsureSettingsDir(); err == nil {
		if f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			c.line.WriteHistory(f)
			f.Close()
		}
	}
	c.line.Close()
}

// =============================================================================
// CHAT COMMAND
// =============================================================================

// HandleChatCommand handles the "chat" command.
func HandleChatCommand(args Args) error {
	if err := RequiresTTY("chat"); err != nil {
		return err
	}

	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	client := newClient(cfg)

	ctx := context.Background()
	chat, err := resolveChat(ctx, client, args)
	if err != nil {
		return err
	}

	printChatBanner(chat)

	// Show where the conversation left off.
	if history, err := client.FetchHistory(ctx, chat.ID); err == nil && len(history) > 0 {
		printRecentHistory(history, 4)
	}

	repl := NewChatCLI()
	defer repl.Close()

	var lastFollowUps []string
	prompt := "❯ "

	for {
		input, err := repl.ReadInput(prompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				fmt.Println(DimStyle.Render("(interrupted — /quit to exit)"))
				continue
			}
			if errors.Is(err, io.EOF) {
				fmt.Println()
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			done, err := handleChatSlashCommand(ctx, client, &chat, input)
			if err != nil {
				DisplayError(err, false)
				continue
			}
			if done {
				return nil
			}
			continue
		}

		// A bare digit selects the numbered follow-up from the last answer.
		question := input
		if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(lastFollowUps) {
			question = lastFollowUps[n-1]
			fmt.Printf("%s %s\n", DimStyle.Render("asking:"), question)
		}

		answer, followUps, err := streamAnswer(ctx, client, chat.ID, question, false)
		if err != nil {
			DisplayError(err, false)
			continue
		}

		fmt.Println()
		fmt.Println(AnswerStyle.Render(WrapText(answer, GetTerminalWidth())))
		printFollowUps(followUps)
		fmt.Println()
		lastFollowUps = followUps
	}
}

// printChatBanner prints the conversation header.
func printChatBanner(chat model.ChatSummary) {
	fmt.Println()
	fmt.Println(TitleStyle.Render("tubetalk — " + chat.DisplayName()))
	if chat.Author != "" {
		fmt.Println(DimStyle.Render(chat.Author))
	}
	fmt.Println(DimStyle.Render(chat.URL))
	fmt.Println(DimStyle.Render("Type a question, /help for commands, /quit to exit."))
	fmt.Println()
}

// printRecentHistory prints the tail of a transcript.
func printRecentHistory(history []model.Message, max int) {
	start := 0
	if len(history) > max {
		start = len(history) - max
		fmt.Println(DimStyle.Render(fmt.Sprintf("… %d earlier messages (/history to see all)", start)))
	}
	for _, msg := range history[start:] {
		printTranscriptMessage(msg)
	}
	fmt.Println()
}

// printTranscriptMessage prints one message in transcript form.
func printTranscriptMessage(msg model.Message) {
	label := msg.Role.DisplayName()
	switch msg.Role {
	case model.RoleUser:
		fmt.Printf("%s %s\n", FollowUpStyle.Render(label+":"), msg.Content)
	default:
		if msg.IsError() {
			fmt.Printf("%s %s\n", ErrorStyle.Render(label+":"), msg.Content)
			return
		}
		fmt.Printf("%s %s\n", SuccessStyle.Render(label+":"),
			WrapText(msg.Content, GetTerminalWidth()))
	}
}

// handleChatSlashCommand executes one /command. Returns done=true on /quit.
func handleChatSlashCommand(ctx context.Context, client *api.Client, chat *model.ChatSummary, input string) (bool, error) {
	fields := strings.Fields(input)
	switch fields[0] {
	case "/quit", "/q", "/exit":
		return true, nil

	case "/help", "/h":
		fmt.Println(DimStyle.Render("  /history         show the full transcript"))
		fmt.Println(DimStyle.Render("  /name <new>      rename this conversation"))
		fmt.Println(DimStyle.Render("  /quit            exit"))
		fmt.Println(DimStyle.Render("  1-9              ask a suggested follow-up"))
		return false, nil

	case "/history":
		history, err := client.FetchHistory(ctx, chat.ID)
		if err != nil {
			return false, err
		}
		if len(history) == 0 {
			fmt.Println(DimStyle.Render("No messages yet."))
			return false, nil
		}
		for _, msg := range history {
			printTranscriptMessage(msg)
		}
		return false, nil

	case "/name":
		name := strings.TrimSpace(strings.TrimPrefix(input, "/name"))
		if name == "" {
			return false, ErrMissingArgument("name", "/name My video notes")
		}
		if err := client.RenameChat(ctx, chat.ID, name); err != nil {
			return false, err
		}
		chat.Name = name
		fmt.Printf("%s renamed to %q\n", SuccessStyle.Render("✓"), name)
		return false, nil

	default:
		return false, fmt.Errorf("unknown command %s (try /help)", fields[0])
	}
}
