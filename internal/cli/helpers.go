// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// helpers.go - Shared plumbing for CLI command handlers.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jeranaias/tubetalk/internal/api"
	"github.com/jeranaias/tubetalk/internal/config"
	"github.com/jeranaias/tubetalk/internal/model"
)

// loadConfig loads the user configuration, applying any CLI overrides.
func loadConfig(args Args) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if args.Server != "" {
		cfg.Server.BaseURL = args.Server
	}
	return cfg, nil
}

// newClient builds an API client from the configuration.
func newClient(cfg *config.Config) *api.Client {
	client := api.NewClient(cfg.Server.BaseURL)
	if cfg.Auth.Token != "" {
		client.SetToken(cfg.Auth.Token)
	}
	return client
}

// resolveChat returns the conversation named by --chat or creates one for
// --url. Exactly one of the two must be provided.
func resolveChat(ctx context.Context, client *api.Client, args Args) (model.ChatSummary, error) {
	switch {
	case args.ChatID != 0:
		return client.GetChat(ctx, args.ChatID)
	case args.URL != "":
		chat, err := client.CreateChat(ctx, args.URL, args.Name)
		if err != nil {
			return model.ChatSummary{}, err
		}
		if !quietMode(args) {
			fmt.Fprintf(os.Stderr, "%s created conversation %d for %s\n",
				SuccessStyle.Render("✓"), chat.ID, chat.URL)
		}
		return chat, nil
	default:
		return model.ChatSummary{}, ErrMissingArgument("conversation",
			"tubetalk ask \"question\" --chat 3  (or --url https://youtu.be/...)")
	}
}

// quietMode reports whether progress chatter should be suppressed.
// JSON output implies quiet: stdout must stay machine-readable.
func quietMode(args Args) bool {
	return args.Quiet || args.JSON
}

// promptLine reads one line from stdin after printing a label.
func promptLine(label string) (string, error) {
	fmt.Print(label)
	var line string
	if _, err := fmt.Fscanln(os.Stdin, &line); err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
