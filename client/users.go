package client

import (
	"context"
	"fmt"
	"net/http"

	"pricetrack/model"
)

// Register creates an account. On success in bearer-token mode the returned
// access token is written to the session store before the body is returned,
// so the next call is already authenticated.
func (c *Client) Register(ctx context.Context, req model.UserCreate) (*model.TokenResponse, error) {
	var tr model.TokenResponse
	if err := c.do(ctx, http.MethodPost, c.apiURL("/users/register", nil), req, &tr); err != nil {
		return nil, err
	}
	if err := c.storeToken(tr.AccessToken); err != nil {
		return nil, err
	}
	return &tr, nil
}

// Login authenticates and, in bearer-token mode, persists the issued token to
// the session store before returning the body.
func (c *Client) Login(ctx context.Context, creds model.Credentials) (*model.TokenResponse, error) {
	var tr model.TokenResponse
	if err := c.do(ctx, http.MethodPost, c.apiURL("/users/login", nil), creds, &tr); err != nil {
		return nil, err
	}
	if err := c.storeToken(tr.AccessToken); err != nil {
		return nil, err
	}
	return &tr, nil
}

func (c *Client) storeToken(token string) error {
	if token == "" {
		return nil
	}
	if err := c.creds.SetCredential(token); err != nil {
		return fmt.Errorf("persist credential: %w", err)
	}
	return nil
}

// Me fetches the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var u model.User
	if err := c.do(ctx, http.MethodGet, c.apiURL("/users/me", nil), nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateMe applies a partial update to the authenticated user's profile.
func (c *Client) UpdateMe(ctx context.Context, req model.UserUpdate) (*model.User, error) {
	var u model.User
	if err := c.do(ctx, http.MethodPut, c.apiURL("/users/me", nil), req, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
