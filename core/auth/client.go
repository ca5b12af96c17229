package auth

import (
	"context"
	"errors"
	"fmt"

	"StillFM/core/api"
	"StillFM/logger"
	"StillFM/model"
)

// Client performs the account operations of the auth API. It always uses
// bearer authorization, independent of the admin auth mode.
type Client struct {
	api      *api.Client
	identity *IdentityStore
}

// NewClient creates an auth client bound to the given identity store.
// The api client's authorizer is set to bearer delivery from that store.
func NewClient(apiClient *api.Client, identity *IdentityStore) *Client {
	apiClient.SetAuthorizer(&api.BearerAuthorizer{Tokens: identity})
	return &Client{
		api:      apiClient,
		identity: identity,
	}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, email, password string) error {
	return c.api.Post(ctx, "Register", "/auth/register", registerRequest{
		Email:    email,
		Password: password,
	}, nil, false)
}

// Login exchanges credentials for a bearer token and stores it.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var resp loginResponse
	err := c.api.Post(ctx, "Login", "/auth/login", registerRequest{
		Email:    email,
		Password: password,
	}, &resp, false)
	if err != nil {
		return err
	}
	if err := c.identity.SetToken(ctx, resp.AccessToken); err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}
	return nil
}

// Logout discards the stored credential.
func (c *Client) Logout(ctx context.Context) error {
	return c.identity.ClearToken(ctx)
}

// Me resolves the identity behind the stored credential. A rejected request
// means the credential is no longer valid, so it is cleared (implicit
// logout) before the error is returned.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var user model.User
	err := c.api.GetAuthed(ctx, "Resolve identity", "/auth/me", &user)
	if err != nil {
		var failure *api.RequestFailure
		if errors.As(err, &failure) {
			logger.Info("credential rejected, logging out", logger.Int("status", failure.Status))
			if clearErr := c.identity.ClearToken(ctx); clearErr != nil {
				logger.Warn("failed to clear credential", logger.ErrorField(clearErr))
			}
		}
		return nil, err
	}
	return &user, nil
}
