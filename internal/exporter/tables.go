package exporter

import (
	"context"
	"log/slog"
	"strconv"

	"spotifyetl/pkg/contracts/domain"
)

// Output filenames and column sets are the contract with the downstream BI
// tool (schema version 1). Do not reorder columns or rename files without a
// documented schema-version bump.
const (
	FileArtistDim        = "dim_artist.csv"
	FileTrackDim         = "dim_track.csv"
	FileTimeDim          = "dim_time.csv"
	FilePlatformDim      = "dim_platform.csv"
	FileFacts            = "fact_plays.csv"
	FileDailySummary     = "daily_summary.csv"
	FileArtistSummary    = "artist_summary.csv"
	FileTrackSummary     = "track_summary.csv"
	FileHourlyPattern    = "hourly_pattern.csv"
	FileWeeklyPattern    = "weekly_pattern.csv"
	FileMonthlyTrend     = "monthly_progression.csv"
	FilePlatformShare    = "platform_distribution.csv"
)

var (
	artistHeaders   = []string{"artist_id", "artist_name"}
	trackHeaders    = []string{"track_id", "artist_id", "track_name", "album_name"}
	timeHeaders     = []string{"time_id", "date", "year", "month", "month_name", "day", "iso_week", "weekday", "weekday_num", "is_weekend"}
	platformHeaders = []string{"platform_id", "platform_name"}
	factHeaders     = []string{"play_id", "artist_id", "track_id", "time_id", "platform_id", "hour", "duration_seconds", "ms_played", "skipped", "shuffle", "offline", "completed", "reason_end"}

	dailyHeaders    = []string{"date", "total_minutes", "hours_played", "tracks_played", "skips", "completions", "unique_artists", "skip_rate"}
	artistSumHdrs   = []string{"artist_name", "total_minutes", "hours_played", "track_count", "plays", "skips", "skip_rate", "first_play", "last_play"}
	trackSumHdrs    = []string{"track_name", "artist_name", "total_minutes", "play_count", "skips", "completions", "skip_rate", "first_play", "last_play"}
	hourlyHeaders   = []string{"hour", "total_minutes", "track_count", "skips", "unique_artists", "avg_minutes_per_play", "skip_rate"}
	weeklyHeaders   = []string{"weekday", "total_minutes", "track_count", "skips", "unique_artists", "skip_rate"}
	monthlyHeaders  = []string{"month", "month_name", "total_minutes", "hours_played", "tracks_played", "skips", "unique_artists", "unique_tracks", "listening_days", "skip_rate"}
	platformShHdrs  = []string{"platform", "total_minutes", "track_count", "percentage"}
)

// WriteDataset writes the star schema tables.
func (w *CSVWriter) WriteDataset(ctx context.Context, ds domain.Dataset) error {
	tables := []struct {
		filename string
		headers  []string
		records  [][]string
	}{
		{FileArtistDim, artistHeaders, artistRecords(ds.Artists)},
		{FileTrackDim, trackHeaders, trackRecords(ds.Tracks)},
		{FileTimeDim, timeHeaders, timeRecords(ds.Times)},
		{FilePlatformDim, platformHeaders, platformRecords(ds.Platforms)},
		{FileFacts, factHeaders, factRecords(ds.Facts)},
	}

	for _, table := range tables {
		if err := w.WriteTable(table.filename, table.headers, table.records); err != nil {
			return err
		}
	}

	w.logger.InfoContext(ctx, "star schema written",
		slog.String("output_dir", w.outDir),
		slog.Int("artists", len(ds.Artists)),
		slog.Int("tracks", len(ds.Tracks)),
		slog.Int("dates", len(ds.Times)),
		slog.Int("platforms", len(ds.Platforms)),
		slog.Int("facts", len(ds.Facts)))

	return nil
}

// WriteSummary writes the derived aggregation tables.
func (w *CSVWriter) WriteSummary(ctx context.Context, summary domain.Summary) error {
	tables := []struct {
		filename string
		headers  []string
		records  [][]string
	}{
		{FileDailySummary, dailyHeaders, dailyRecords(summary.Daily)},
		{FileArtistSummary, artistSumHdrs, artistSummaryRecords(summary.Artists)},
		{FileTrackSummary, trackSumHdrs, trackSummaryRecords(summary.Tracks)},
		{FileHourlyPattern, hourlyHeaders, hourlyRecords(summary.Hourly)},
		{FileWeeklyPattern, weeklyHeaders, weeklyRecords(summary.Weekly)},
		{FileMonthlyTrend, monthlyHeaders, monthlyRecords(summary.Monthly)},
		{FilePlatformShare, platformShHdrs, platformShareRecords(summary.Platform)},
	}

	for _, table := range tables {
		if err := w.WriteTable(table.filename, table.headers, table.records); err != nil {
			return err
		}
	}

	w.logger.InfoContext(ctx, "summary tables written",
		slog.String("output_dir", w.outDir),
		slog.Int("table_count", len(tables)))

	return nil
}

func artistRecords(rows []domain.ArtistRow) [][]string {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{formatInt(r.ID), r.Name})
	}
	return records
}

func trackRecords(rows []domain.TrackRow) [][]string {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{formatInt(r.ID), formatInt(r.ArtistID), r.Name, r.Album})
	}
	return records
}

func timeRecords(rows []domain.TimeRow) [][]string {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			formatInt(r.ID),
			r.Date,
			strconv.Itoa(r.Year),
			strconv.Itoa(r.Month),
			r.MonthName,
			strconv.Itoa(r.Day),
			strconv.Itoa(r.ISOWeek),
			r.Weekday,
			strconv.Itoa(r.WeekdayNum),
			strconv.FormatBool(r.IsWeekend),
		})
	}
	return records
}

func platformRecords(rows []domain.PlatformRow) [][]string {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{formatInt(r.ID), r.Name})
	}
	return records
}

func factRecords(rows []domain.FactRow) [][]string {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			formatInt(r.ID),
			formatInt(r.ArtistID),
			formatInt(r.TrackID),
			formatInt(r.TimeID),
			formatInt(r.PlatformID),
			strconv.Itoa(r.Hour),
			formatSeconds(r.DurationSeconds),
			formatInt(r.MsPlayed),
			strconv.FormatBool(r.Skipped),
			strconv.FormatBool(r.Shuffle),
			strconv.FormatBool(r.Offline),
			strconv.FormatBool(r.Completed),
			r.ReasonEnd,
		})
	}
	return records
}

func dailyRecords(rows []domain.DailySummary) [][]string {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.Date,
			formatFloat(r.TotalMinutes),
			formatFloat(r.HoursPlayed),
			strconv.Itoa(r.TracksPlayed),
			strconv.Itoa(r.Skips),
			strconv.Itoa(r.Completions),
			strconv.Itoa(r.UniqueArtists),
			formatFloat(r.SkipRate),
		})
	}
	return records
}

func artistSummaryRecords(rows []domain.ArtistSummary) [][]string {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.Artist,
			formatFloat(r.TotalMinutes),
			formatFloat(r.HoursPlayed),
			strconv.Itoa(r.TrackCount),
			strconv.Itoa(r.Plays),
			strconv.Itoa(r.Skips),
			formatFloat(r.SkipRate),
			r.FirstPlay,
			r.LastPlay,
		})
	}
	return records
}

func trackSummaryRecords(rows []domain.TrackSummary) [][]string {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.Track,
			r.Artist,
			formatFloat(r.TotalMinutes),
			strconv.Itoa(r.PlayCount),
			strconv.Itoa(r.Skips),
			strconv.Itoa(r.Completions),
			formatFloat(r.SkipRate),
			r.FirstPlay,
			r.LastPlay,
		})
	}
	return records
}

func hourlyRecords(rows []domain.HourlyPattern) [][]string {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			strconv.Itoa(r.Hour),
			formatFloat(r.TotalMinutes),
			strconv.Itoa(r.TrackCount),
			strconv.Itoa(r.Skips),
			strconv.Itoa(r.UniqueArtists),
			formatFloat(r.AvgMinutes),
			formatFloat(r.SkipRate),
		})
	}
	return records
}

func weeklyRecords(rows []domain.WeekdayPattern) [][]string {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.Weekday,
			formatFloat(r.TotalMinutes),
			strconv.Itoa(r.TrackCount),
			strconv.Itoa(r.Skips),
			strconv.Itoa(r.UniqueArtists),
			formatFloat(r.SkipRate),
		})
	}
	return records
}

func monthlyRecords(rows []domain.MonthlyProgression) [][]string {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			strconv.Itoa(r.Month),
			r.MonthName,
			formatFloat(r.TotalMinutes),
			formatFloat(r.HoursPlayed),
			strconv.Itoa(r.TracksPlayed),
			strconv.Itoa(r.Skips),
			strconv.Itoa(r.UniqueArtists),
			strconv.Itoa(r.UniqueTracks),
			strconv.Itoa(r.ListeningDays),
			formatFloat(r.SkipRate),
		})
	}
	return records
}

func platformShareRecords(rows []domain.PlatformShare) [][]string {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.Platform,
			formatFloat(r.TotalMinutes),
			strconv.Itoa(r.TrackCount),
			formatFloat(r.Percentage),
		})
	}
	return records
}

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}

// formatSeconds keeps millisecond precision on durations.
func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

// formatFloat renders derived measures at two decimals.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
