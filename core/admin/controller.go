// Package admin orchestrates the multi-step operator workflows: create a
// track then optionally attach its audio, buffer field edits until an
// explicit save, replace audio, delete.
package admin

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"StillFM/core/api"
	"StillFM/core/catalog"
	"StillFM/model"
)

// Draft holds one track's editable fields as entered by the operator.
// Duration stays a string until save so a bad value can be rejected before
// any request is sent.
type Draft struct {
	Track    model.Track
	Title    string
	Category string
	Duration string
}

// Controller reconciles local edit buffers against server state. It
// subscribes to catalog refreshes; every refresh rebuilds the buffer from
// the authoritative list, discarding saved (and unsaved-but-refreshed)
// local edits.
type Controller struct {
	catalog *catalog.Client

	mu        sync.Mutex
	drafts    map[int64]*Draft
	uploading map[int64]bool // advisory per-track busy flag, not a lock
}

// NewController creates a controller bound to the catalog client.
func NewController(c *catalog.Client) *Controller {
	ctrl := &Controller{
		catalog:   c,
		drafts:    make(map[int64]*Draft),
		uploading: make(map[int64]bool),
	}
	c.Subscribe(ctrl.reset)
	return ctrl
}

// reset rebuilds the edit buffer from a fresh server list.
func (a *Controller) reset(tracks []model.Track) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.drafts = make(map[int64]*Draft, len(tracks))
	for _, track := range tracks {
		a.drafts[track.ID] = &Draft{
			Track:    track,
			Title:    track.Title,
			Category: track.Category,
			Duration: strconv.Itoa(track.DurationSec),
		}
	}
}

// Drafts returns the buffered tracks ordered by id.
func (a *Controller) Drafts() []Draft {
	a.mu.Lock()
	defer a.mu.Unlock()
	drafts := make([]Draft, 0, len(a.drafts))
	for _, draft := range a.drafts {
		drafts = append(drafts, *draft)
	}
	sort.Slice(drafts, func(i, j int) bool { return drafts[i].Track.ID < drafts[j].Track.ID })
	return drafts
}

// EditField patches one field of one buffered track. Purely local; nothing
// is sent until Save.
func (a *Controller) EditField(id int64, field, value string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	draft, ok := a.drafts[id]
	if !ok {
		return &api.ValidationError{Message: "unknown track id " + strconv.FormatInt(id, 10)}
	}
	switch field {
	case "title":
		draft.Title = value
	case "category":
		draft.Category = value
	case "duration_sec":
		draft.Duration = value
	default:
		return &api.ValidationError{Message: "unknown field " + field}
	}
	return nil
}

// Save sends the buffered edits for one track. An unparsable or negative
// duration is rejected locally before any request. On failure the buffer
// keeps the unsaved edits; on success the catalog refresh rebuilds it.
func (a *Controller) Save(ctx context.Context, id int64) error {
	a.mu.Lock()
	draft, ok := a.drafts[id]
	if !ok {
		a.mu.Unlock()
		return &api.ValidationError{Message: "unknown track id " + strconv.FormatInt(id, 10)}
	}
	title := draft.Title
	category := draft.Category
	duration := draft.Duration
	a.mu.Unlock()

	durationSec, err := strconv.Atoi(strings.TrimSpace(duration))
	if err != nil || durationSec < 0 {
		return &api.ValidationError{Message: "duration must be a non-negative number of seconds"}
	}

	return a.catalog.Update(ctx, id, catalog.UpdateRequest{
		Title:       title,
		Category:    category,
		DurationSec: durationSec,
	})
}

// CreateForm holds the "add new track" form fields. AudioPath is optional.
type CreateForm struct {
	Title     string
	Category  string
	Duration  string
	Level     string
	AudioPath string
}

// Create validates the form, creates the track and, when an audio file was
// supplied, uploads it for the new id. The two steps are sequential, not
// transactional: an upload failure leaves the created track in place
// without audio and is reported alongside the created track.
func (a *Controller) Create(ctx context.Context, form CreateForm) (*model.Track, error) {
	title := strings.TrimSpace(form.Title)
	category := strings.TrimSpace(form.Category)
	level := strings.TrimSpace(form.Level)
	if level == "" {
		level = "beginner"
	}

	durationSec, err := strconv.Atoi(strings.TrimSpace(form.Duration))
	if title == "" || category == "" || err != nil || durationSec < 0 {
		return nil, &api.ValidationError{Message: "please fill title, category, and a valid duration (sec)"}
	}

	created, err := a.catalog.Create(ctx, catalog.CreateRequest{
		Title:       title,
		Category:    category,
		DurationSec: durationSec,
		Level:       level,
	})
	if err != nil {
		return nil, err
	}

	if form.AudioPath != "" {
		if uploadErr := a.UploadAudioFile(ctx, created.ID, form.AudioPath); uploadErr != nil {
			return created, uploadErr
		}
	}
	return created, nil
}

// Delete removes a track.
func (a *Controller) Delete(ctx context.Context, id int64) error {
	return a.catalog.Delete(ctx, id)
}

// UploadAudio replaces a track's audio. While an upload for a track is in
// flight, further uploads for the same track are refused. The flag is
// advisory within this client only; another client can still race.
func (a *Controller) UploadAudio(ctx context.Context, id int64, filename string, file io.Reader) error {
	a.mu.Lock()
	if a.uploading[id] {
		a.mu.Unlock()
		return &api.ValidationError{Message: "an upload for this track is already in progress"}
	}
	a.uploading[id] = true
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		delete(a.uploading, id)
		a.mu.Unlock()
	}()

	return a.catalog.ReplaceAudio(ctx, id, filename, file)
}

// UploadAudioFile opens the file at path and uploads it for the track.
func (a *Controller) UploadAudioFile(ctx context.Context, id int64, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return &api.ValidationError{Message: "cannot open audio file: " + err.Error()}
	}
	defer file.Close()

	return a.UploadAudio(ctx, id, filepath.Base(path), file)
}

// Uploading reports whether an upload for the track is in flight.
func (a *Controller) Uploading(id int64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.uploading[id]
}
