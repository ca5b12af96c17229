package auth

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"

	"StillFM/store"
)

const deviceIDKey = "device_id"

// deviceIDRange bounds the generated identifier to [0, 1_000_000).
// Collisions across devices are accepted, not engineered around.
const deviceIDRange = 1_000_000

// DeviceIdentity assigns and persists a stable pseudo-random identifier for
// this device. Sessions started without a user identity are attributed to it.
type DeviceIdentity struct {
	store store.Store
}

// NewDeviceIdentity creates a DeviceIdentity backed by the given store.
func NewDeviceIdentity(s store.Store) *DeviceIdentity {
	return &DeviceIdentity{store: s}
}

// DeviceID returns the persisted identifier, generating and persisting one
// on first use. The value is stable for the lifetime of the store.
func (d *DeviceIdentity) DeviceID(ctx context.Context) (int64, error) {
	value, err := d.store.Get(ctx, deviceIDKey)
	if err == nil {
		id, parseErr := strconv.ParseInt(value, 10, 64)
		if parseErr != nil {
			return 0, fmt.Errorf("corrupt device id %q: %w", value, parseErr)
		}
		return id, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return 0, fmt.Errorf("failed to read device id: %w", err)
	}

	id := rand.Int64N(deviceIDRange)
	if err := d.store.Set(ctx, deviceIDKey, strconv.FormatInt(id, 10)); err != nil {
		return 0, fmt.Errorf("failed to persist device id: %w", err)
	}
	return id, nil
}
