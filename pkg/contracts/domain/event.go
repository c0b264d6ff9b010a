package domain

import "time"

// Event is a cleaned listening event. Every Event carries a valid UTC
// timestamp and a non-negative duration; artist and track may be blank and
// are resolved to the Unknown placeholders when dimensions are built.
type Event struct {
	PlayedAt        time.Time
	ArtistName      string
	TrackName       string
	AlbumName       string
	Platform        string
	MsPlayed        int64
	DurationSeconds float64
	ReasonEnd       string
	Shuffle         bool
	Skipped         bool
	Offline         bool
}

// Completed reports whether the event counts as a completed listen. The
// export carries no track length, so completion is the inverse of the skip
// flag.
func (e Event) Completed() bool {
	return !e.Skipped
}

// Date returns the UTC calendar date the event belongs to.
func (e Event) Date() time.Time {
	return time.Date(e.PlayedAt.Year(), e.PlayedAt.Month(), e.PlayedAt.Day(), 0, 0, 0, 0, time.UTC)
}
