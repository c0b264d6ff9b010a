package domain

// Reserved labels for events whose artist, track or platform field is blank.
// Blank values map here instead of forming blank-named dimension rows, so
// listening time is never silently lost from aggregates.
const (
	UnknownArtist   = "Unknown Artist"
	UnknownTrack    = "Unknown Track"
	UnknownPlatform = "Unknown Platform"
)

// ArtistRow is one row of the artist dimension.
type ArtistRow struct {
	ID   int64
	Name string
}

// TrackRow is one row of the track dimension. Uniqueness key is the
// normalized (artist, track name) pair; the same track name under two
// artists is two rows.
type TrackRow struct {
	ID       int64
	ArtistID int64
	Name     string
	Album    string
}

// TimeRow is one row of the time dimension, one per distinct UTC calendar
// date in the cleaned event set.
type TimeRow struct {
	ID         int64
	Date       string
	Year       int
	Month      int
	MonthName  string
	Day        int
	ISOWeek    int
	Weekday    string
	WeekdayNum int
	IsWeekend  bool
}

// PlatformRow is one row of the platform dimension.
type PlatformRow struct {
	ID   int64
	Name string
}

// FactRow is one row of the fact table, one per cleaned event. Every
// foreign key resolves to an existing dimension row; the hour is kept as a
// degenerate attribute so hourly aggregates stay derivable.
type FactRow struct {
	ID              int64
	ArtistID        int64
	TrackID         int64
	TimeID          int64
	PlatformID      int64
	Hour            int
	DurationSeconds float64
	MsPlayed        int64
	Skipped         bool
	Shuffle         bool
	Offline         bool
	Completed       bool
	ReasonEnd       string
}

// Dataset bundles the star schema produced by one pipeline run.
type Dataset struct {
	Artists   []ArtistRow
	Tracks    []TrackRow
	Times     []TimeRow
	Platforms []PlatformRow
	Facts     []FactRow
}
