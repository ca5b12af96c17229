// Package catalog fetches the track catalog and performs the admin
// mutations on it. The server list is the sole source of truth: every
// mutation is followed by a full refetch before the operation is reported
// complete, never by an optimistic local patch.
package catalog

import (
	"context"
	"fmt"
	"io"
	"sync"

	"StillFM/core/api"
	"StillFM/model"
)

// Client is the catalog client. The cached track list is owned exclusively
// by this type and is only replaced wholesale by Refresh.
type Client struct {
	api *api.Client

	mu        sync.RWMutex
	tracks    []model.Track
	listeners []func([]model.Track)
}

// New creates a catalog client on top of the given API client.
func New(apiClient *api.Client) *Client {
	return &Client{api: apiClient}
}

// Subscribe registers a callback invoked with the new track list after
// every refresh. Callbacks run synchronously on the refreshing goroutine.
func (c *Client) Subscribe(fn func([]model.Track)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Tracks returns a copy of the cached track list.
func (c *Client) Tracks() []model.Track {
	c.mu.RLock()
	defer c.mu.RUnlock()
	tracks := make([]model.Track, len(c.tracks))
	copy(tracks, c.tracks)
	return tracks
}

// Refresh refetches the full catalog, replaces the cache and notifies
// subscribers.
func (c *Client) Refresh(ctx context.Context) ([]model.Track, error) {
	var tracks []model.Track
	if err := c.api.Get(ctx, "List meditations", "/meditations", &tracks); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.tracks = tracks
	listeners := make([]func([]model.Track), len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(tracks)
	}
	return c.Tracks(), nil
}

// Get fetches a single track by id.
func (c *Client) Get(ctx context.Context, id int64) (*model.Track, error) {
	var track model.Track
	path := fmt.Sprintf("/meditations/%d", id)
	if err := c.api.Get(ctx, "Get meditation", path, &track); err != nil {
		return nil, err
	}
	return &track, nil
}

// CreateRequest holds the fields of a new track. The server assigns the id;
// audio is always absent until uploaded separately.
type CreateRequest struct {
	Title       string
	Category    string
	DurationSec int
	Level       string
}

type createPayload struct {
	Title       string  `json:"title"`
	Category    string  `json:"category"`
	DurationSec int     `json:"duration_sec"`
	Level       string  `json:"level"`
	AudioURL    *string `json:"audio_url"` // always null on create
}

// Create creates a track without audio and refreshes the catalog.
func (c *Client) Create(ctx context.Context, req CreateRequest) (*model.Track, error) {
	if req.DurationSec < 0 {
		return nil, &api.ValidationError{Message: "duration must be a non-negative number of seconds"}
	}

	var created model.Track
	err := c.api.Post(ctx, "Create", "/admin/meditations/", createPayload{
		Title:       req.Title,
		Category:    req.Category,
		DurationSec: req.DurationSec,
		Level:       req.Level,
	}, &created, true)
	if err != nil {
		return nil, err
	}

	if _, err := c.Refresh(ctx); err != nil {
		return &created, fmt.Errorf("created but refresh failed: %w", err)
	}
	return &created, nil
}

// UpdateRequest holds the three fields a partial update may change. Level
// and audio are untouched by updates.
type UpdateRequest struct {
	Title       string `json:"title"`
	Category    string `json:"category"`
	DurationSec int    `json:"duration_sec"`
}

// Update patches title, category and duration of one track, then refreshes
// the catalog. Negative durations are rejected before any request is sent.
func (c *Client) Update(ctx context.Context, id int64, req UpdateRequest) error {
	if req.DurationSec < 0 {
		return &api.ValidationError{Message: "duration must be a non-negative number of seconds"}
	}

	path := fmt.Sprintf("/admin/meditations/%d", id)
	if err := c.api.Patch(ctx, "Save", path, req, true); err != nil {
		return err
	}

	if _, err := c.Refresh(ctx); err != nil {
		return fmt.Errorf("saved but refresh failed: %w", err)
	}
	return nil
}

// Delete removes a track and refreshes the catalog. Deleting an unknown id
// is an error, not a no-op.
func (c *Client) Delete(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/admin/meditations/%d", id)
	if err := c.api.Delete(ctx, "Delete", path, true); err != nil {
		return err
	}

	if _, err := c.Refresh(ctx); err != nil {
		return fmt.Errorf("deleted but refresh failed: %w", err)
	}
	return nil
}

// ReplaceAudio uploads new audio for a track, replacing any previous audio,
// then refreshes the catalog.
func (c *Client) ReplaceAudio(ctx context.Context, id int64, filename string, file io.Reader) error {
	path := fmt.Sprintf("/admin/meditations/%d/upload-audio", id)
	if err := c.api.Upload(ctx, "Upload", path, "file", filename, file, true); err != nil {
		return err
	}

	if _, err := c.Refresh(ctx); err != nil {
		return fmt.Errorf("uploaded but refresh failed: %w", err)
	}
	return nil
}
