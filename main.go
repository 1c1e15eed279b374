// tubetalk - chat with YouTube videos from your terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	"github.com/jeranaias/tubetalk/internal/api"
	"github.com/jeranaias/tubetalk/internal/cli"
	"github.com/jeranaias/tubetalk/internal/config"
	"github.com/jeranaias/tubetalk/internal/engine"
	"github.com/jeranaias/tubetalk/internal/logging"
	"github.com/jeranaias/tubetalk/internal/storage"
	"github.com/jeranaias/tubetalk/internal/ui"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		runTUI(args)
	case cli.CmdAsk:
		cli.HandleErrorAndExit(cli.HandleAskCommand(args), args.JSON)
	case cli.CmdChat:
		cli.HandleErrorAndExit(cli.HandleChatCommand(args), args.JSON)
	case cli.CmdLogin:
		cli.HandleErrorAndExit(cli.HandleLoginCommand(args), args.JSON)
	case cli.CmdRegister:
		cli.HandleErrorAndExit(cli.HandleRegisterCommand(args), args.JSON)
	case cli.CmdLogout:
		cli.HandleErrorAndExit(cli.HandleLogoutCommand(args), args.JSON)
	case cli.CmdList:
		cli.HandleErrorAndExit(cli.HandleListCommand(args), args.JSON)
	case cli.CmdNew:
		cli.HandleErrorAndExit(cli.HandleNewCommand(args), args.JSON)
	case cli.CmdRename:
		cli.HandleErrorAndExit(cli.HandleRenameCommand(args), args.JSON)
	case cli.CmdDelete:
		cli.HandleErrorAndExit(cli.HandleDeleteCommand(args), args.JSON)
	case cli.CmdHistory:
		cli.HandleErrorAndExit(cli.HandleHistoryCommand(args), args.JSON)
	case cli.CmdConfig:
		cli.HandleErrorAndExit(cli.HandleConfigCommand(args), args.JSON)
	case cli.CmdStatus:
		cli.HandleErrorAndExit(cli.HandleStatusCommand(args), args.JSON)
	case cli.CmdVersion:
		cli.HandleVersion(args)
	case cli.CmdHelp:
		cli.HandleHelp()
	default:
		cli.PrintUsage()
		os.Exit(cli.ExitUsageError)
	}
}

// runTUI starts the full-screen interface.
func runTUI(args cli.Args) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load configuration: %v\n", err)
		os.Exit(cli.ExitConfigError)
	}
	if args.Server != "" {
		cfg.Server.BaseURL = args.Server
	}

	// The TUI owns the terminal; logs go to a file.
	if logPath, err := cfg.LogPath(); err == nil {
		if err := logging.Init(logPath, cfg.Logging.Level); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: file logging disabled: %v\n", err)
		}
	}

	client := api.NewClient(cfg.Server.BaseURL)
	if cfg.Auth.Token != "" {
		client.SetToken(cfg.Auth.Token)
	}

	// The summary cache keeps the conversation list warm across restarts.
	// Failure to open it degrades to a cold start, not a fatal error.
	var cache engine.SummaryCache
	if cfg.Cache.Enabled {
		if cachePath, err := cfg.CachePath(); err == nil {
			if store, err := storage.Open(cachePath); err == nil {
				defer store.Close()
				cache = store
			} else {
				fmt.Fprintf(os.Stderr, "Warning: summary cache disabled: %v\n", err)
			}
		}
	}

	eng := engine.New(client, cache)

	if err := ui.Run(cfg, eng, client); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitGeneralError)
	}
}
