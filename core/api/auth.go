package api

import (
	"context"
	"fmt"
	"net/http"

	"StillFM/config"
)

// AdminKeyHeader carries the static shared admin secret.
const AdminKeyHeader = "X-Admin-Key"

// TokenSource yields the current bearer credential, if any.
type TokenSource interface {
	Token(ctx context.Context) (string, bool)
}

// Authorizer attaches admin authorization to an outgoing request. The two
// deployment modes (bearer credential vs. static shared secret) are
// interchangeable behind this interface.
type Authorizer interface {
	Apply(r *http.Request)
}

// BearerAuthorizer sets an Authorization header from a TokenSource.
// If no credential is present the request goes out unauthorized and the
// server rejects it.
type BearerAuthorizer struct {
	Tokens TokenSource
}

func (a *BearerAuthorizer) Apply(r *http.Request) {
	if token, ok := a.Tokens.Token(r.Context()); ok {
		r.Header.Set("Authorization", "Bearer "+token)
	}
}

// AdminKeyAuthorizer sets the shared admin secret header.
type AdminKeyAuthorizer struct {
	Key string
}

func (a *AdminKeyAuthorizer) Apply(r *http.Request) {
	r.Header.Set(AdminKeyHeader, a.Key)
}

// AuthorizerFor selects the admin authorization strategy for the configured
// deployment mode.
func AuthorizerFor(cfg *config.Config, tokens TokenSource) (Authorizer, error) {
	switch cfg.AdminAuthMode {
	case config.AuthModeBearer:
		return &BearerAuthorizer{Tokens: tokens}, nil
	case config.AuthModeAdminKey:
		if cfg.AdminKey == "" {
			return nil, fmt.Errorf("admin auth mode %q requires ADMIN_KEY", cfg.AdminAuthMode)
		}
		return &AdminKeyAuthorizer{Key: cfg.AdminKey}, nil
	default:
		return nil, fmt.Errorf("unknown admin auth mode %q", cfg.AdminAuthMode)
	}
}
