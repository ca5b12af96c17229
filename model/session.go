package model

import "time"

// Session is a server-tracked record of one playback attempt. It is opened
// when playback starts and closed when playback reaches its natural end.
type Session struct {
	ID              int64      `json:"id"`
	MeditationID    int64      `json:"meditation_id"`
	DeviceID        int64      `json:"device_id"`
	StartedAt       time.Time  `json:"started_at"`
	CompletedAt     *time.Time `json:"completed_at"`
	SecondsListened int        `json:"seconds_listened"` // meaningful only after completion
}

// DeviceStats aggregates listening activity for one device.
type DeviceStats struct {
	TotalMinutes int `json:"total_minutes"`
	Streak       int `json:"streak"`
}
