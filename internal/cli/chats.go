// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chats.go - Conversation management command handlers for the tubetalk CLI.
//
// Commands: list, new, rename, delete, history
//
// Examples:
//
//	tubetalk list                          List conversations
//	tubetalk new https://youtu.be/abc123   Create a conversation
//	tubetalk rename 3 "RAG lecture"        Rename conversation 3
//	tubetalk delete 3 --confirm            Delete conversation 3
//	tubetalk history 3                     Print the transcript
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/jeranaias/tubetalk/internal/model"
	"github.com/jeranaias/tubetalk/internal/util"
)

// HandleListCommand handles the "list" command.
func HandleListCommand(args Args) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	client := newClient(cfg)

	chats, err := client.ListChats(context.Background())
	if err != nil {
		return err
	}

	if args.JSON {
		NewJSONResponse("list", chats).Print()
		return nil
	}

	if len(chats) == 0 {
		fmt.Println(DimStyle.Render("No conversations yet. Create one with: tubetalk new <youtube-url>"))
		return nil
	}

	width := GetTerminalWidth()
	nameWidth := width - 30
	if nameWidth < 20 {
		nameWidth = 20
	}

	fmt.Printf("%s  %s  %s\n",
		LabelStyle.Width(6).Render("ID"),
		LabelStyle.Width(nameWidth).Render("NAME"),
		LabelStyle.Render("AUTHOR"))
	for _, chat := range chats {
		fmt.Printf("%s  %s  %s\n",
			ValueStyle.Width(6).Render(fmt.Sprintf("%d", chat.ID)),
			ValueStyle.Width(nameWidth).Render(util.TruncateWidth(chat.DisplayName(), nameWidth)),
			DimStyle.Render(chat.Author))
	}
	fmt.Println()
	fmt.Println(DimStyle.Render(fmt.Sprintf("%d conversation(s)", len(chats))))
	return nil
}

// HandleNewCommand handles the "new" command.
func HandleNewCommand(args Args) error {
	if args.URL == "" {
		return ErrMissingArgument("url", "tubetalk new https://youtu.be/abc123")
	}

	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	client := newClient(cfg)

	chat, err := client.CreateChat(context.Background(), args.URL, args.Name)
	if err != nil {
		return err
	}

	if args.JSON {
		NewJSONResponse("new", chat).Print()
		return nil
	}

	fmt.Printf("%s created conversation %d\n", SuccessStyle.Render("✓"), chat.ID)
	if chat.Title != "" {
		fmt.Println(ValueStyle.Render(chat.Title))
	}
	fmt.Println(DimStyle.Render(fmt.Sprintf("Ask away: tubetalk ask \"...\" --chat %d", chat.ID)))
	return nil
}

// HandleRenameCommand handles the "rename" command.
func HandleRenameCommand(args Args) error {
	if args.ChatID == 0 {
		return ErrMissingArgument("id", "tubetalk rename 3 \"New name\"")
	}
	if args.Name == "" {
		return ErrMissingArgument("name", "tubetalk rename 3 \"New name\"")
	}

	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	client := newClient(cfg)

	if err := client.RenameChat(context.Background(), args.ChatID, args.Name); err != nil {
		return err
	}

	fmt.Printf("%s conversation %d renamed to %q\n", SuccessStyle.Render("✓"), args.ChatID, args.Name)
	return nil
}

// HandleDeleteCommand handles the "delete" command. Deletion is permanent
// on the server, so it asks first unless --confirm is given.
func HandleDeleteCommand(args Args) error {
	if args.ChatID == 0 {
		return ErrMissingArgument("id", "tubetalk delete 3 --confirm")
	}

	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	client := newClient(cfg)

	if !args.Confirm {
		if !IsTTY() {
			return ErrMissingArgument("--confirm", "tubetalk delete 3 --confirm")
		}
		answer, err := promptLine(fmt.Sprintf("Delete conversation %d? This cannot be undone [y/N]: ", args.ChatID))
		if err != nil || !strings.EqualFold(answer, "y") {
			fmt.Println(DimStyle.Render("Aborted."))
			return nil
		}
	}

	if err := client.DeleteChat(context.Background(), args.ChatID); err != nil {
		return err
	}

	fmt.Printf("%s conversation %d deleted\n", SuccessStyle.Render("✓"), args.ChatID)
	return nil
}

// HandleHistoryCommand handles the "history" command.
func HandleHistoryCommand(args Args) error {
	if args.ChatID == 0 {
		return ErrMissingArgument("id", "tubetalk history 3")
	}

	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	client := newClient(cfg)

	ctx := context.Background()
	history, err := client.FetchHistory(ctx, args.ChatID)
	if err != nil {
		return err
	}

	if args.JSON {
		NewJSONResponse("history", history).Print()
		return nil
	}

	// Header is best-effort; the transcript is the payload.
	if chat, err := client.GetChat(ctx, args.ChatID); err == nil {
		fmt.Println(TitleStyle.Render(chat.DisplayName()))
		fmt.Println(RenderSeparator(GetTerminalWidth() - 4))
	}

	if len(history) == 0 {
		fmt.Println(DimStyle.Render("No messages yet."))
		return nil
	}

	for i, msg := range history {
		if i > 0 && msg.Role == model.RoleUser {
			fmt.Println()
		}
		printTranscriptMessage(msg)
	}
	return nil
}
