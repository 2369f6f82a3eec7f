package gateway

import (
	"context"

	"github.com/jonathan/resume-wizard/internal/types"
)

// Signup creates an account. The server sets the access-token cookie on the
// response; the jar keeps it for subsequent calls.
func (c *Client) Signup(ctx context.Context, req types.SignupRequest) (*types.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var out types.AuthResponse
	if err := c.post(ctx, "/auth/signup", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login authenticates and stores the access-token cookie.
func (c *Client) Login(ctx context.Context, req types.LoginRequest) (*types.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var out types.AuthResponse
	if err := c.post(ctx, "/auth/login", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the authenticated account, or an auth error when the session
// cookie is missing or expired.
func (c *Client) Me(ctx context.Context) (*types.AuthUser, error) {
	var out types.AuthUser
	if err := c.get(ctx, "/auth/me", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout clears the server-side cookie.
func (c *Client) Logout(ctx context.Context) error {
	return c.post(ctx, "/auth/logout", nil, nil, nil)
}
