// Package auth holds the client-side identity state: the bearer credential,
// the device identifier and the auth API operations.
package auth

import (
	"context"
	"errors"

	"StillFM/logger"
	"StillFM/store"
)

const tokenKey = "token"

// IdentityStore holds the current auth credential in durable storage.
// It performs no server-side validation; a credential is considered valid
// until an authenticated request fails.
type IdentityStore struct {
	store store.Store
}

// NewIdentityStore creates an IdentityStore backed by the given store.
func NewIdentityStore(s store.Store) *IdentityStore {
	return &IdentityStore{store: s}
}

// Token returns the stored credential, or false if none is present.
func (s *IdentityStore) Token(ctx context.Context) (string, bool) {
	token, err := s.store.Get(ctx, tokenKey)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logger.Warn("failed to read credential", logger.ErrorField(err))
		}
		return "", false
	}
	return token, token != ""
}

// SetToken stores the credential.
func (s *IdentityStore) SetToken(ctx context.Context, token string) error {
	return s.store.Set(ctx, tokenKey, token)
}

// ClearToken removes the credential. Absence is not an error.
func (s *IdentityStore) ClearToken(ctx context.Context) error {
	return s.store.Remove(ctx, tokenKey)
}

// IsAuthenticated reports whether a credential is present.
func (s *IdentityStore) IsAuthenticated(ctx context.Context) bool {
	_, ok := s.Token(ctx)
	return ok
}
