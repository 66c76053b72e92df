package api

import (
	"context"
	"fmt"
	"net/http"

	"doganjib/internal/models"
)

// Register creates a new account. Registration does not return tokens; the
// caller logs in afterwards.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) error {
	return c.do(ctx, http.MethodPost, "/api/auth/register", nil, req, nil)
}

// Login authenticates and persists the returned token pair.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.TokenPair, error) {
	var pair models.TokenPair
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, req, &pair); err != nil {
		return nil, err
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		return nil, fmt.Errorf("login succeeded but no tokens were returned")
	}
	if err := c.tokens.SetTokens(pair.AccessToken, pair.RefreshToken); err != nil {
		return nil, fmt.Errorf("failed to persist tokens: %w", err)
	}
	return &pair, nil
}

// Logout invalidates the session server-side. Local tokens are cleared even
// when the backend call fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil, nil)
	if clearErr := c.tokens.Clear(); clearErr != nil && err == nil {
		err = fmt.Errorf("failed to clear local tokens: %w", clearErr)
	}
	return err
}

// Profile returns the current user's profile, including the member grade and
// its display discount.
func (c *Client) Profile(ctx context.Context) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Authenticated reports whether an access token is currently stored.
func (c *Client) Authenticated() bool {
	return c.tokens.AccessToken() != ""
}
