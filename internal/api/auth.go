package api

import (
	"context"
	"net/http"

	"github.com/Veraticus/fintrack/internal/model"
)

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	var out model.AuthResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: "/auth/login", body: req, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account and returns its first token.
func (c *Client) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	var out model.AuthResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: "/auth/register", body: req, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// CurrentUser returns the user the stored token belongs to.
func (c *Client) CurrentUser(ctx context.Context) (*model.User, error) {
	var out model.User
	if err := c.do(ctx, request{method: http.MethodGet, path: "/users/me", out: &out, auth: true}); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile changes the current user's name or email.
func (c *Client) UpdateProfile(ctx context.Context, update model.ProfileUpdate) (*model.User, error) {
	var out model.User
	if err := c.do(ctx, request{method: http.MethodPut, path: "/users/me", body: update, out: &out, auth: true}); err != nil {
		return nil, err
	}
	return &out, nil
}
