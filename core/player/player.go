// Package player simulates audio playback and drives the session tracker
// from playback events: a session opens when playback begins and closes
// when it reaches its natural end.
package player

import (
	"context"
	"fmt"
	"time"

	"StillFM/core/session"
	"StillFM/model"
)

// Player plays one track at a time in simulated real time.
type Player struct {
	tracker    *session.Tracker
	speed      float64
	onProgress func(elapsedSec, totalSec int)
}

// New creates a player driving the given tracker at real-time speed.
func New(tracker *session.Tracker) *Player {
	return &Player{tracker: tracker, speed: 1.0}
}

// SetSpeed scales playback; 2.0 plays twice as fast. Values <= 0 are ignored.
func (p *Player) SetSpeed(speed float64) {
	if speed > 0 {
		p.speed = speed
	}
}

// OnProgress registers a callback invoked once per simulated second.
func (p *Player) OnProgress(fn func(elapsedSec, totalSec int)) {
	p.onProgress = fn
}

// Play plays the track to its natural end. A session is opened at playback
// start and closed at the end with the track's authoritative duration, not
// wall-clock time. Tracking failures do not interrupt playback; cancelling
// the context stops playback without closing the session, mirroring a
// listener who never reaches the end of the track.
func (p *Player) Play(ctx context.Context, track model.Track) error {
	if !track.HasAudio() {
		return fmt.Errorf("audio not available for %q", track.Title)
	}

	// Best-effort: the tracker already logged any failure.
	p.tracker.Start(ctx, track.ID) //nolint:errcheck

	interval := time.Duration(float64(time.Second) / p.speed)
	for elapsed := 0; elapsed < track.DurationSec; elapsed++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
		if p.onProgress != nil {
			p.onProgress(elapsed+1, track.DurationSec)
		}
	}

	// Natural end: report the full authoritative duration.
	p.tracker.Complete(ctx, track.ID, track.DurationSec) //nolint:errcheck
	return nil
}
