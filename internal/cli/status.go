// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - Status command handler for the tubetalk CLI.
//
// Command: status
// Short:   Show connection, auth and configuration status
// Aliases: s
package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jeranaias/tubetalk/internal/api"
	"github.com/jeranaias/tubetalk/internal/config"
)

// statusData is the JSON payload for the status command.
type statusData struct {
	ServerURL     string `json:"server_url"`
	Reachable     bool   `json:"reachable"`
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
	Conversations int    `json:"conversations"`
	ConfigPath    string `json:"config_path"`
	CacheEnabled  bool   `json:"cache_enabled"`
	Error         string `json:"error,omitempty"`
}

// HandleStatusCommand handles the "status" command.
func HandleStatusCommand(args Args) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	client := newClient(cfg)

	data := statusData{
		ServerURL:     cfg.Server.BaseURL,
		Authenticated: cfg.Auth.Token != "",
		Username:      cfg.Auth.Username,
		CacheEnabled:  cfg.Cache.Enabled,
	}
	if path, err := config.Path(); err == nil {
		data.ConfigPath = path
	}

	// One cheap authenticated call doubles as reachability and auth probe.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	chats, err := client.ListChats(ctx)
	switch {
	case err == nil:
		data.Reachable = true
		data.Conversations = len(chats)
	case errors.Is(err, api.ErrAuthFailed):
		data.Reachable = true
		data.Authenticated = false
		data.Error = err.Error()
	default:
		data.Error = err.Error()
	}

	if args.JSON {
		NewJSONResponse("status", data).Print()
		return nil
	}

	fmt.Println(TitleStyle.Render("tubetalk status"))
	fmt.Println()

	serverStatus := RenderStatus("fail")
	if data.Reachable {
		serverStatus = RenderStatus("ok")
	}
	fmt.Printf("  %s %s %s\n", LabelStyle.Render("Server"), serverStatus, ValueStyle.Render(data.ServerURL))

	authStatus := RenderStatus("warn")
	authText := "not logged in"
	if data.Authenticated {
		authStatus = RenderStatus("ok")
		authText = "logged in"
		if data.Username != "" {
			authText += " as " + data.Username
		}
	}
	fmt.Printf("  %s %s %s\n", LabelStyle.Render("Auth"), authStatus, ValueStyle.Render(authText))

	if data.Reachable {
		fmt.Printf("  %s      %s\n", LabelStyle.Render("Chats"),
			ValueStyle.Render(fmt.Sprintf("%d conversation(s)", data.Conversations)))
	}

	cacheText := "disabled"
	if data.CacheEnabled {
		cacheText = "enabled"
	}
	fmt.Printf("  %s      %s\n", LabelStyle.Render("Cache"), ValueStyle.Render(cacheText))
	fmt.Printf("  %s      %s\n", LabelStyle.Render("Config"), DimStyle.Render(data.ConfigPath))

	if data.Error != "" {
		fmt.Println()
		fmt.Printf("  %s %s\n", ErrorStyle.Render("Last error:"), data.Error)
	}
	return nil
}
