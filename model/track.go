package model

// Track represents one guided meditation in the catalog.
// The server owns the record; clients hold a read-mostly copy that is
// refreshed in full after every mutation.
type Track struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Category    string  `json:"category"`
	DurationSec int     `json:"duration_sec"` // authoritative length in seconds
	Level       string  `json:"level"`
	AudioURL    *string `json:"audio_url"` // nil until audio has been uploaded
	IsPublished bool    `json:"is_published"`
}

// HasAudio reports whether the track has playable audio attached.
func (t *Track) HasAudio() bool {
	return t.AudioURL != nil && *t.AudioURL != ""
}
