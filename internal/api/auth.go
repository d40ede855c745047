package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/fitnesshub/web/internal/types"
)

var errMissingToken = errors.New("auth response carried no token")

// Login exchanges credentials for a token and profile
func (c *Client) Login(ctx context.Context, creds types.Credentials) (*types.AuthResult, error) {
	return c.authenticate(ctx, "/auth/login", creds)
}

// Register creates an account and signs it in
func (c *Client) Register(ctx context.Context, reg types.Registration) (*types.AuthResult, error) {
	return c.authenticate(ctx, "/auth/register", reg)
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (*types.AuthResult, error) {
	var result types.AuthResult
	if err := c.do(ctx, http.MethodPost, path, nil, body, &result); err != nil {
		return nil, err
	}
	if result.Token == "" || result.User == nil {
		return nil, fmt.Errorf("POST %s: %w", path, errMissingToken)
	}
	return &result, nil
}

// Me fetches the profile of the token holder
func (c *Client) Me(ctx context.Context) (*types.User, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &raw); err != nil {
		return nil, err
	}
	var user types.User
	if err := unwrap(raw, "user", &user); err != nil {
		return nil, fmt.Errorf("decode GET /auth/me: %w", err)
	}
	if user.ID == "" {
		return nil, fmt.Errorf("GET /auth/me: %w", ErrNotFound)
	}
	return &user, nil
}
