// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Configuration command handler for the tubetalk CLI.
//
// Command: config
// Short:   Show and edit the tubetalk configuration
//
// Examples:
//
//	tubetalk config show
//	tubetalk config get server.base_url
//	tubetalk config set ui.theme light
//	tubetalk config path
package cli

import (
	"fmt"

	"github.com/jeranaias/tubetalk/internal/config"
)

// HandleConfigCommand handles the "config" command.
func HandleConfigCommand(args Args) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	switch args.Subcommand {
	case "", "show":
		return configShow(cfg, args)

	case "get":
		if args.ConfigKey == "" {
			return ErrMissingArgument("key", "tubetalk config get server.base_url")
		}
		value, err := cfg.Get(args.ConfigKey)
		if err != nil {
			return err
		}
		fmt.Println(value)
		return nil

	case "set":
		if args.ConfigKey == "" || args.ConfigVal == "" {
			return ErrMissingArgument("key/value", "tubetalk config set ui.theme light")
		}
		if err := cfg.Set(args.ConfigKey, args.ConfigVal); err != nil {
			return err
		}
		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("failed to save configuration: %w", err)
		}
		fmt.Printf("%s %s = %s\n", SuccessStyle.Render("✓"), args.ConfigKey, args.ConfigVal)
		return nil

	case "path":
		path, err := config.Path()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil

	default:
		return fmt.Errorf("unknown config subcommand %q (try show, get, set, path)", args.Subcommand)
	}
}

// configShow prints every settable key with its current value.
func configShow(cfg *config.Config, args Args) error {
	if args.JSON {
		values := make(map[string]string)
		for _, key := range config.Keys() {
			if v, err := cfg.Get(key); err == nil {
				values[key] = v
			}
		}
		NewJSONResponse("config", values).Print()
		return nil
	}

	fmt.Println(TitleStyle.Render("tubetalk configuration"))
	if path, err := config.Path(); err == nil {
		fmt.Println(DimStyle.Render(path))
	}
	fmt.Println()
	for _, key := range config.Keys() {
		value, err := cfg.Get(key)
		if err != nil {
			continue
		}
		if value == "" {
			value = DimStyle.Render("(unset)")
		}
		fmt.Printf("  %s %s\n", LabelStyle.Width(20).Render(key), ValueStyle.Render(value))
	}
	if cfg.Auth.Token != "" {
		fmt.Printf("  %s %s\n", LabelStyle.Width(20).Render("auth.token"), DimStyle.Render("(stored)"))
	}
	return nil
}
