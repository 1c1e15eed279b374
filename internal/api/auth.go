// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"fmt"
	"net/http"
)

// tokenResponse is the backend's answer to a successful login.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// credentials is the login/registration request body.
type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates against the backend and installs the returned bearer
// token on the client. The token is also returned so callers can persist it.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var resp tokenResponse
	err := c.doJSON(ctx, http.MethodPost, "/auth/token",
		credentials{Username: username, Password: password}, &resp)
	if err != nil {
		return "", err
	}
	if resp.AccessToken == "" {
		return "", fmt.Errorf("login succeeded but no token returned")
	}

	c.SetToken(resp.AccessToken)
	c.log.Info().Str("username", username).Msg("logged in")
	return resp.AccessToken, nil
}

// Register creates a new account. The caller still needs to Login afterwards.
func (c *Client) Register(ctx context.Context, username, password string) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/register",
		credentials{Username: username, Password: password}, nil)
}
