// Package store provides the durable key-value persistence used for
// client-side state (auth credential, device identifier). Implementations
// are injected into the components that need them so tests can substitute
// an in-memory fake.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no value exists for the key.
var ErrNotFound = errors.New("store: key not found")

// Store is a minimal durable key-value store.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
