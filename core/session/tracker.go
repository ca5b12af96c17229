// Package session tracks playback sessions. Tracking is best-effort: a
// failed open or close is logged and never blocks playback.
package session

import (
	"context"
	"fmt"
	"sync"

	"StillFM/core/api"
	"StillFM/core/auth"
	"StillFM/logger"
	"StillFM/model"
)

// Tracker maps each track id to its in-flight session id. Per track the
// lifecycle is NO_SESSION -> OPEN -> NO_SESSION; at most one open session
// per track exists on a given client instance.
type Tracker struct {
	api    *api.Client
	device *auth.DeviceIdentity

	mu     sync.Mutex
	active map[int64]int64 // track id -> open session id
}

// NewTracker creates a tracker that attributes sessions to this device.
func NewTracker(apiClient *api.Client, device *auth.DeviceIdentity) *Tracker {
	return &Tracker{
		api:    apiClient,
		device: device,
		active: make(map[int64]int64),
	}
}

type startRequest struct {
	MeditationID int64 `json:"meditation_id"`
	DeviceID     int64 `json:"device_id"`
}

type completeRequest struct {
	SecondsListened int `json:"seconds_listened"`
}

// Start opens a session for the track and records the mapping. The mapping
// is only updated once the open request has fully succeeded. Starting a
// track that already has an open session overwrites the mapping entry; the
// previous session stays open on the server, orphaned client-side.
func (t *Tracker) Start(ctx context.Context, trackID int64) (int64, error) {
	deviceID, err := t.device.DeviceID(ctx)
	if err != nil {
		logger.Warn("failed to resolve device id, session not tracked",
			logger.Int64("trackID", trackID), logger.ErrorField(err))
		return 0, err
	}

	var opened model.Session
	err = t.api.Post(ctx, "Start session", "/sessions/start", startRequest{
		MeditationID: trackID,
		DeviceID:     deviceID,
	}, &opened, false)
	if err != nil {
		logger.Warn("failed to start session",
			logger.Int64("trackID", trackID), logger.ErrorField(err))
		return 0, err
	}

	t.mu.Lock()
	if previous, ok := t.active[trackID]; ok {
		logger.Warn("track already had an open session, orphaning it",
			logger.Int64("trackID", trackID), logger.Int64("sessionID", previous))
	}
	t.active[trackID] = opened.ID
	t.mu.Unlock()

	logger.Debug("session started",
		logger.Int64("trackID", trackID), logger.Int64("sessionID", opened.ID))
	return opened.ID, nil
}

// Complete closes the open session for the track with the observed listened
// duration. Completing a track with no open session is a silent no-op. The
// mapping entry is removed whether or not the close call succeeds
// (fire-and-forget); a failed close is logged and the session stays open
// server-side.
func (t *Tracker) Complete(ctx context.Context, trackID int64, secondsListened int) error {
	t.mu.Lock()
	sessionID, ok := t.active[trackID]
	t.mu.Unlock()
	if !ok {
		return nil
	}

	path := fmt.Sprintf("/sessions/%d/complete", sessionID)
	err := t.api.Post(ctx, "Complete session", path, completeRequest{
		SecondsListened: secondsListened,
	}, nil, false)

	t.mu.Lock()
	delete(t.active, trackID)
	t.mu.Unlock()

	if err != nil {
		logger.Warn("failed to complete session",
			logger.Int64("trackID", trackID),
			logger.Int64("sessionID", sessionID),
			logger.ErrorField(err))
		return err
	}

	logger.Debug("session completed",
		logger.Int64("trackID", trackID),
		logger.Int64("sessionID", sessionID),
		logger.Int("secondsListened", secondsListened))
	return nil
}

// ActiveSession returns the open session id for the track, if any.
func (t *Tracker) ActiveSession(trackID int64) (int64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	sessionID, ok := t.active[trackID]
	return sessionID, ok
}

// ActiveCount returns the number of tracks with an open session.
func (t *Tracker) ActiveCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.active)
}

// Stats fetches aggregate listening stats for this device.
func (t *Tracker) Stats(ctx context.Context) (*model.DeviceStats, error) {
	deviceID, err := t.device.DeviceID(ctx)
	if err != nil {
		return nil, err
	}

	var stats model.DeviceStats
	path := fmt.Sprintf("/sessions/stats/%d", deviceID)
	if err := t.api.Get(ctx, "Fetch stats", path, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
