package session_test

import (
	"context"
	"testing"

	"StillFM/core/api"
	"StillFM/core/auth"
	"StillFM/core/session"
	"StillFM/store"
	"StillFM/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTracker(t *testing.T) (*testhelpers.Server, *session.Tracker, *auth.DeviceIdentity) {
	t.Helper()
	srv := testhelpers.NewServer()
	t.Cleanup(srv.Close)

	device := auth.NewDeviceIdentity(store.NewMemoryStore())
	tracker := session.NewTracker(api.NewClient(srv.URL()), device)
	return srv, tracker, device
}

func TestStartRecordsMappingOnSuccess(t *testing.T) {
	ctx := context.Background()
	srv, tracker, device := newTracker(t)

	sessionID, err := tracker.Start(ctx, 7)
	require.NoError(t, err)

	tracked, ok := tracker.ActiveSession(7)
	assert.True(t, ok)
	assert.Equal(t, sessionID, tracked)

	opened, ok := srv.Session(sessionID)
	require.True(t, ok)
	assert.Equal(t, int64(7), opened.MeditationID)

	deviceID, err := device.DeviceID(ctx)
	require.NoError(t, err)
	assert.Equal(t, deviceID, opened.DeviceID, "sessions are attributed to the device")
}

func TestStartTwiceOverwritesMapping(t *testing.T) {
	ctx := context.Background()
	srv, tracker, _ := newTracker(t)

	first, err := tracker.Start(ctx, 7)
	require.NoError(t, err)
	second, err := tracker.Start(ctx, 7)
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	// Only the second session id is tracked; the first stays open on the
	// server, orphaned client-side.
	tracked, ok := tracker.ActiveSession(7)
	assert.True(t, ok)
	assert.Equal(t, second, tracked)
	assert.Equal(t, 1, tracker.ActiveCount())
	assert.Equal(t, 2, srv.StartCalls)
}

func TestStartFailureLeavesNoMapping(t *testing.T) {
	ctx := context.Background()
	srv, tracker, _ := newTracker(t)
	srv.FailStart = true

	_, err := tracker.Start(ctx, 7)
	require.Error(t, err)

	_, ok := tracker.ActiveSession(7)
	assert.False(t, ok, "the transition must not occur when the open request fails")
	assert.Equal(t, 0, tracker.ActiveCount())
}

func TestCompleteWithoutSessionIsSilentNoOp(t *testing.T) {
	ctx := context.Background()
	srv, tracker, _ := newTracker(t)

	err := tracker.Complete(ctx, 7, 300)
	assert.NoError(t, err)
	assert.Equal(t, 0, srv.CompleteCalls, "no network call for an untracked track")
}

func TestCompleteSendsDurationAndClearsMapping(t *testing.T) {
	ctx := context.Background()
	srv, tracker, _ := newTracker(t)

	sessionID, err := tracker.Start(ctx, 7)
	require.NoError(t, err)

	require.NoError(t, tracker.Complete(ctx, 7, 300))

	closed, ok := srv.Session(sessionID)
	require.True(t, ok)
	assert.Equal(t, 300, closed.SecondsListened)
	assert.NotNil(t, closed.CompletedAt)

	_, ok = tracker.ActiveSession(7)
	assert.False(t, ok)

	// Completing again is a no-op.
	require.NoError(t, tracker.Complete(ctx, 7, 300))
	assert.Equal(t, 1, srv.CompleteCalls)
}

func TestCompleteFailureStillDropsMapping(t *testing.T) {
	ctx := context.Background()
	srv, tracker, _ := newTracker(t)

	_, err := tracker.Start(ctx, 7)
	require.NoError(t, err)
	srv.FailComplete = true

	err = tracker.Complete(ctx, 7, 300)
	require.Error(t, err)

	// Fire-and-forget: local tracking state is dropped even though the
	// close never landed; the session stays open server-side.
	_, ok := tracker.ActiveSession(7)
	assert.False(t, ok)
	assert.Equal(t, 1, srv.CompleteCalls)
}

func TestStatsAggregatesDeviceListening(t *testing.T) {
	ctx := context.Background()
	_, tracker, _ := newTracker(t)

	_, err := tracker.Start(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, tracker.Complete(ctx, 1, 300))

	_, err = tracker.Start(ctx, 2)
	require.NoError(t, err)
	require.NoError(t, tracker.Complete(ctx, 2, 600))

	stats, err := tracker.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 15, stats.TotalMinutes)
	assert.Equal(t, 2, stats.Streak)
}
