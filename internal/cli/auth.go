// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// auth.go - Authentication command handlers for the tubetalk CLI.
//
// Commands: login, register, logout
//
// Examples:
//
//	tubetalk login                    Prompt for credentials, store the token
//	tubetalk register                 Create an account, then log in
//	tubetalk logout                   Discard the stored token
package cli

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/jeranaias/tubetalk/internal/config"
)

// HandleLoginCommand handles the "login" command.
func HandleLoginCommand(args Args) error {
	if err := RequiresTTY("log in"); err != nil {
		return err
	}

	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	client := newClient(cfg)

	username, password, err := promptCredentials(cfg.Auth.Username)
	if err != nil {
		return err
	}

	token, err := client.Login(context.Background(), username, password)
	if err != nil {
		return err
	}

	cfg.Auth.Username = username
	cfg.Auth.Token = token
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("authenticated, but failed to save the token: %w", err)
	}

	fmt.Printf("%s logged in as %s\n", SuccessStyle.Render("✓"), username)
	return nil
}

// HandleRegisterCommand handles the "register" command. A successful
// registration is followed by a login so the token is stored immediately.
func HandleRegisterCommand(args Args) error {
	if err := RequiresTTY("register"); err != nil {
		return err
	}

	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	client := newClient(cfg)

	username, password, err := promptCredentials("")
	if err != nil {
		return err
	}

	ctx := context.Background()
	if err := client.Register(ctx, username, password); err != nil {
		return err
	}
	fmt.Printf("%s account created\n", SuccessStyle.Render("✓"))

	token, err := client.Login(ctx, username, password)
	if err != nil {
		return fmt.Errorf("registered, but login failed: %w", err)
	}

	cfg.Auth.Username = username
	cfg.Auth.Token = token
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("authenticated, but failed to save the token: %w", err)
	}

	fmt.Printf("%s logged in as %s\n", SuccessStyle.Render("✓"), username)
	return nil
}

// HandleLogoutCommand handles the "logout" command.
func HandleLogoutCommand(args Args) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	if cfg.Auth.Token == "" {
		fmt.Println(DimStyle.Render("Not logged in."))
		return nil
	}

	cfg.Auth.Token = ""
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Printf("%s logged out\n", SuccessStyle.Render("✓"))
	return nil
}

// promptCredentials reads a username and password from the terminal.
// The password is read without echo. defaultUser, when non-empty, is
// offered as the default username.
func promptCredentials(defaultUser string) (string, string, error) {
	label := "Username: "
	if defaultUser != "" {
		label = fmt.Sprintf("Username [%s]: ", defaultUser)
	}

	username, err := promptLine(label)
	if err != nil && defaultUser == "" {
		return "", "", err
	}
	if username == "" {
		username = defaultUser
	}
	if username == "" {
		return "", "", ErrMissingArgument("username", "a non-empty username")
	}

	fmt.Print("Password: ")
	passwordBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", "", fmt.Errorf("failed to read password: %w", err)
	}
	if len(passwordBytes) == 0 {
		return "", "", ErrMissingArgument("password", "a non-empty password")
	}

	return username, string(passwordBytes), nil
}
