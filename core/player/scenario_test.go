package player_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"StillFM/core/admin"
	"StillFM/core/api"
	"StillFM/core/auth"
	"StillFM/core/catalog"
	"StillFM/core/player"
	"StillFM/core/session"
	"StillFM/store"
	"StillFM/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Full operator-then-listener flow: create a track without audio, attach
// audio, play it to the end, and verify the recorded session.
func TestCreateUploadListenFlow(t *testing.T) {
	ctx := context.Background()
	srv := testhelpers.NewServer()
	t.Cleanup(srv.Close)

	apiClient := api.NewClient(srv.URL())
	apiClient.SetAuthorizer(&api.AdminKeyAuthorizer{Key: testhelpers.AdminKey})
	catalogClient := catalog.New(apiClient)
	ctrl := admin.NewController(catalogClient)

	device := auth.NewDeviceIdentity(store.NewMemoryStore())
	tracker := session.NewTracker(apiClient, device)
	p := player.New(tracker)
	p.SetSpeed(100_000)

	// Create without audio.
	created, err := ctrl.Create(ctx, admin.CreateForm{
		Title:    "Calm",
		Category: "sleep",
		Duration: "300",
		Level:    "beginner",
	})
	require.NoError(t, err)

	tracks := catalogClient.Tracks()
	require.Len(t, tracks, 1)
	assert.Equal(t, "Calm", tracks[0].Title)
	assert.Nil(t, tracks[0].AudioURL)

	// Attach audio; the refetched catalog shows it.
	require.NoError(t, ctrl.UploadAudioFile(ctx, created.ID, writeScenarioAudio(t)))
	tracks = catalogClient.Tracks()
	require.Len(t, tracks, 1)
	require.True(t, tracks[0].HasAudio())

	// Listen to the end.
	require.NoError(t, p.Play(ctx, tracks[0]))
	assert.Equal(t, 0, tracker.ActiveCount())

	recorded, ok := srv.Session(1)
	require.True(t, ok)
	assert.Equal(t, created.ID, recorded.MeditationID)
	assert.Equal(t, 300, recorded.SecondsListened)
	require.NotNil(t, recorded.CompletedAt)
}

func writeScenarioAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "calm.mp3")
	require.NoError(t, os.WriteFile(path, []byte("mp3-bytes"), 0644))
	return path
}
