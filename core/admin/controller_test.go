package admin_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"StillFM/core/admin"
	"StillFM/core/api"
	"StillFM/core/catalog"
	"StillFM/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newController(t *testing.T) (*testhelpers.Server, *catalog.Client, *admin.Controller) {
	t.Helper()
	srv := testhelpers.NewServer()
	t.Cleanup(srv.Close)

	apiClient := api.NewClient(srv.URL())
	apiClient.SetAuthorizer(&api.AdminKeyAuthorizer{Key: testhelpers.AdminKey})
	catalogClient := catalog.New(apiClient)
	return srv, catalogClient, admin.NewController(catalogClient)
}

func writeTempAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "calm.mp3")
	require.NoError(t, os.WriteFile(path, []byte("mp3-bytes"), 0644))
	return path
}

func TestCreateEmptyTitleMakesNoNetworkCalls(t *testing.T) {
	ctx := context.Background()
	srv, _, ctrl := newController(t)

	_, err := ctrl.Create(ctx, admin.CreateForm{
		Title:    "   ",
		Category: "sleep",
		Duration: "300",
	})

	var validation *api.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, 0, srv.CreateCalls)
	assert.Equal(t, 0, srv.UploadCalls)
	assert.Equal(t, 0, srv.ListCalls)
}

func TestCreateNonNumericDurationMakesNoNetworkCalls(t *testing.T) {
	ctx := context.Background()
	srv, _, ctrl := newController(t)

	_, err := ctrl.Create(ctx, admin.CreateForm{
		Title:    "Calm",
		Category: "sleep",
		Duration: "five minutes",
	})

	var validation *api.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, 0, srv.CreateCalls)
}

func TestCreateWithoutFile(t *testing.T) {
	ctx := context.Background()
	srv, _, ctrl := newController(t)

	created, err := ctrl.Create(ctx, admin.CreateForm{
		Title:    "Calm",
		Category: "sleep",
		Duration: "300",
	})
	require.NoError(t, err)
	assert.Equal(t, "beginner", created.Level, "level defaults when left empty")
	assert.Nil(t, created.AudioURL)

	assert.Equal(t, 1, srv.CreateCalls)
	assert.Equal(t, 0, srv.UploadCalls)
}

func TestCreateWithFileUploadsForNewID(t *testing.T) {
	ctx := context.Background()
	srv, _, ctrl := newController(t)

	created, err := ctrl.Create(ctx, admin.CreateForm{
		Title:     "Calm",
		Category:  "sleep",
		Duration:  "300",
		Level:     "intermediate",
		AudioPath: writeTempAudio(t),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, srv.CreateCalls)
	assert.Equal(t, 1, srv.UploadCalls)
	assert.Equal(t, "calm.mp3", srv.LastUploadFilename)

	stored, ok := srv.Track(created.ID)
	require.True(t, ok)
	assert.True(t, stored.HasAudio())
}

func TestCreateUploadFailureDoesNotRollBack(t *testing.T) {
	ctx := context.Background()
	srv, _, ctrl := newController(t)
	srv.FailUpload = true

	created, err := ctrl.Create(ctx, admin.CreateForm{
		Title:     "Calm",
		Category:  "sleep",
		Duration:  "300",
		AudioPath: writeTempAudio(t),
	})
	require.Error(t, err)
	require.NotNil(t, created, "the created track is reported alongside the upload error")

	stored, ok := srv.Track(created.ID)
	require.True(t, ok, "the track exists without audio")
	assert.False(t, stored.HasAudio())
}

func TestEditFieldThenSave(t *testing.T) {
	ctx := context.Background()
	srv, catalogClient, ctrl := newController(t)
	seeded := srv.AddTrack("Old", "focus", 600, "beginner", nil)

	_, err := catalogClient.Refresh(ctx)
	require.NoError(t, err)

	require.NoError(t, ctrl.EditField(seeded.ID, "title", "New"))
	require.NoError(t, ctrl.EditField(seeded.ID, "duration_sec", "900"))
	require.NoError(t, ctrl.Save(ctx, seeded.ID))

	updated, ok := srv.Track(seeded.ID)
	require.True(t, ok)
	assert.Equal(t, "New", updated.Title)
	assert.Equal(t, 900, updated.DurationSec)

	// The refresh after save rebuilt the buffer from server state.
	drafts := ctrl.Drafts()
	require.Len(t, drafts, 1)
	assert.Equal(t, "New", drafts[0].Title)
	assert.Equal(t, "900", drafts[0].Duration)
}

func TestSaveRejectsNonNumericDurationLocally(t *testing.T) {
	ctx := context.Background()
	srv, catalogClient, ctrl := newController(t)
	seeded := srv.AddTrack("Calm", "sleep", 300, "beginner", nil)

	_, err := catalogClient.Refresh(ctx)
	require.NoError(t, err)

	require.NoError(t, ctrl.EditField(seeded.ID, "duration_sec", "soon"))
	err = ctrl.Save(ctx, seeded.ID)

	var validation *api.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, 0, srv.UpdateCalls, "nothing is sent for an unparsable duration")

	// The invalid edit stays in the buffer for the operator to correct.
	drafts := ctrl.Drafts()
	require.Len(t, drafts, 1)
	assert.Equal(t, "soon", drafts[0].Duration)
}

func TestSaveFailureKeepsUnsavedEdits(t *testing.T) {
	ctx := context.Background()
	srv, catalogClient, ctrl := newController(t)
	seeded := srv.AddTrack("Old", "focus", 600, "beginner", nil)

	_, err := catalogClient.Refresh(ctx)
	require.NoError(t, err)
	srv.FailUpdate = true

	require.NoError(t, ctrl.EditField(seeded.ID, "title", "New"))
	require.Error(t, ctrl.Save(ctx, seeded.ID))

	drafts := ctrl.Drafts()
	require.Len(t, drafts, 1)
	assert.Equal(t, "New", drafts[0].Title, "failed saves keep the edit buffer")
}

func TestEditFieldRejectsUnknownTrackAndField(t *testing.T) {
	ctx := context.Background()
	srv, catalogClient, ctrl := newController(t)
	seeded := srv.AddTrack("Calm", "sleep", 300, "beginner", nil)
	_, err := catalogClient.Refresh(ctx)
	require.NoError(t, err)

	var validation *api.ValidationError
	assert.ErrorAs(t, ctrl.EditField(99, "title", "x"), &validation)
	assert.ErrorAs(t, ctrl.EditField(seeded.ID, "level", "expert"), &validation,
		"level is not an editable field")
}

func TestUploadClearsBusyFlag(t *testing.T) {
	ctx := context.Background()
	srv, _, ctrl := newController(t)
	seeded := srv.AddTrack("Calm", "sleep", 300, "beginner", nil)
	path := writeTempAudio(t)

	require.NoError(t, ctrl.UploadAudioFile(ctx, seeded.ID, path))
	assert.False(t, ctrl.Uploading(seeded.ID))

	// A second sequential upload is allowed once the first completed.
	require.NoError(t, ctrl.UploadAudioFile(ctx, seeded.ID, path))
	assert.Equal(t, 2, srv.UploadCalls)
}

func TestDeleteRemovesTrack(t *testing.T) {
	ctx := context.Background()
	srv, catalogClient, ctrl := newController(t)
	seeded := srv.AddTrack("Calm", "sleep", 300, "beginner", nil)

	_, err := catalogClient.Refresh(ctx)
	require.NoError(t, err)

	require.NoError(t, ctrl.Delete(ctx, seeded.ID))

	_, ok := srv.Track(seeded.ID)
	assert.False(t, ok)
	assert.Empty(t, ctrl.Drafts(), "the refresh after delete empties the buffer")
}
