package domain

// DailySummary aggregates one calendar date of listening.
type DailySummary struct {
	Date          string
	TotalMinutes  float64
	HoursPlayed   float64
	TracksPlayed  int
	Skips         int
	Completions   int
	UniqueArtists int
	SkipRate      float64
}

// ArtistSummary aggregates all listening attributed to one artist.
type ArtistSummary struct {
	Artist       string
	TotalMinutes float64
	HoursPlayed  float64
	TrackCount   int
	Plays        int
	Skips        int
	SkipRate     float64
	FirstPlay    string
	LastPlay     string
}

// TrackSummary aggregates all listening for one (artist, track) pair.
type TrackSummary struct {
	Track        string
	Artist       string
	TotalMinutes float64
	PlayCount    int
	Skips        int
	Completions  int
	SkipRate     float64
	FirstPlay    string
	LastPlay     string
}

// HourlyPattern aggregates listening by hour of day (0-23).
type HourlyPattern struct {
	Hour          int
	TotalMinutes  float64
	TrackCount    int
	Skips         int
	UniqueArtists int
	AvgMinutes    float64
	SkipRate      float64
}

// WeekdayPattern aggregates listening by day of week.
type WeekdayPattern struct {
	Weekday       string
	TotalMinutes  float64
	TrackCount    int
	Skips         int
	UniqueArtists int
	SkipRate      float64
}

// MonthlyProgression aggregates listening by calendar month.
type MonthlyProgression struct {
	Month         int
	MonthName     string
	TotalMinutes  float64
	HoursPlayed   float64
	TracksPlayed  int
	Skips         int
	UniqueArtists int
	UniqueTracks  int
	ListeningDays int
	SkipRate      float64
}

// PlatformShare aggregates listening by playback platform.
type PlatformShare struct {
	Platform     string
	TotalMinutes float64
	TrackCount   int
	Percentage   float64
}

// KPIReport holds the headline figures for one run, logged at the end of
// the analytics stage and included in the optional workbook export.
type KPIReport struct {
	TotalMinutes    float64
	TotalHours      float64
	TotalPlays      int
	UniqueArtists   int
	UniqueTracks    int
	SkipRate        float64
	CompletionRate  float64
	ListeningDays   int
	AvgDailyMinutes float64
}

// Summary bundles every derived aggregation table for one run.
type Summary struct {
	Daily    []DailySummary
	Artists  []ArtistSummary
	Tracks   []TrackSummary
	Hourly   []HourlyPattern
	Weekly   []WeekdayPattern
	Monthly  []MonthlyProgression
	Platform []PlatformShare
	KPIs     KPIReport
}
