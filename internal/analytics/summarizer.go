package analytics

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"strings"

	"spotifyetl/pkg/contracts/domain"
)

// Summarizer derives the aggregation tables and headline KPIs from the
// cleaned event collection. All orderings are deterministic so reruns on
// identical input produce identical tables.
type Summarizer struct {
	logger *slog.Logger
}

// NewSummarizer creates a summarizer.
func NewSummarizer(logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{logger: logger}
}

// Generate computes every summary table for one run.
func (s *Summarizer) Generate(ctx context.Context, events []domain.Event) domain.Summary {
	summary := domain.Summary{
		Daily:    s.dailySummaries(events),
		Artists:  s.artistSummaries(events),
		Tracks:   s.trackSummaries(events),
		Hourly:   s.hourlyPatterns(events),
		Weekly:   s.weekdayPatterns(events),
		Monthly:  s.monthlyProgression(events),
		Platform: s.platformShares(events),
		KPIs:     s.kpis(events),
	}

	s.logger.InfoContext(ctx, "summary tables generated",
		slog.Int("daily_rows", len(summary.Daily)),
		slog.Int("artist_rows", len(summary.Artists)),
		slog.Int("track_rows", len(summary.Tracks)),
		slog.Int("platform_rows", len(summary.Platform)))

	s.logger.InfoContext(ctx, "run KPIs",
		slog.Float64("total_hours", summary.KPIs.TotalHours),
		slog.Int("total_plays", summary.KPIs.TotalPlays),
		slog.Int("unique_artists", summary.KPIs.UniqueArtists),
		slog.Int("unique_tracks", summary.KPIs.UniqueTracks),
		slog.Float64("skip_rate", summary.KPIs.SkipRate),
		slog.Float64("completion_rate", summary.KPIs.CompletionRate),
		slog.Int("listening_days", summary.KPIs.ListeningDays),
		slog.Float64("avg_daily_minutes", summary.KPIs.AvgDailyMinutes))

	return summary
}

func (s *Summarizer) dailySummaries(events []domain.Event) []domain.DailySummary {
	type acc struct {
		minutes     float64
		plays       int
		skips       int
		completions int
		artists     map[string]struct{}
	}

	byDate := make(map[string]*acc)
	for _, e := range events {
		date := e.Date().Format("2006-01-02")
		a := byDate[date]
		if a == nil {
			a = &acc{artists: make(map[string]struct{})}
			byDate[date] = a
		}
		a.minutes += e.DurationSeconds / 60
		a.plays++
		if e.Skipped {
			a.skips++
		} else {
			a.completions++
		}
		a.artists[domain.NormalizeKey(e.ArtistName)] = struct{}{}
	}

	rows := make([]domain.DailySummary, 0, len(byDate))
	for date, a := range byDate {
		rows = append(rows, domain.DailySummary{
			Date:          date,
			TotalMinutes:  round2(a.minutes),
			HoursPlayed:   round2(a.minutes / 60),
			TracksPlayed:  a.plays,
			Skips:         a.skips,
			Completions:   a.completions,
			UniqueArtists: len(a.artists),
			SkipRate:      rate(a.skips, a.plays),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })
	return rows
}

func (s *Summarizer) artistSummaries(events []domain.Event) []domain.ArtistSummary {
	type acc struct {
		label     string
		minutes   float64
		plays     int
		skips     int
		tracks    map[string]struct{}
		firstPlay string
		lastPlay  string
	}

	byArtist := make(map[string]*acc)
	for _, e := range events {
		key := domain.NormalizeKey(e.ArtistName)
		a := byArtist[key]
		if a == nil {
			a = &acc{
				label:  artistLabel(e.ArtistName),
				tracks: make(map[string]struct{}),
			}
			byArtist[key] = a
		}
		date := e.Date().Format("2006-01-02")
		if a.firstPlay == "" || date < a.firstPlay {
			a.firstPlay = date
		}
		if date > a.lastPlay {
			a.lastPlay = date
		}
		a.minutes += e.DurationSeconds / 60
		a.plays++
		if e.Skipped {
			a.skips++
		}
		a.tracks[domain.NormalizeKey(e.TrackName)] = struct{}{}
	}

	rows := make([]domain.ArtistSummary, 0, len(byArtist))
	for _, a := range byArtist {
		rows = append(rows, domain.ArtistSummary{
			Artist:       a.label,
			TotalMinutes: round2(a.minutes),
			HoursPlayed:  round2(a.minutes / 60),
			TrackCount:   len(a.tracks),
			Plays:        a.plays,
			Skips:        a.skips,
			SkipRate:     rate(a.skips, a.plays),
			FirstPlay:    a.firstPlay,
			LastPlay:     a.lastPlay,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalMinutes != rows[j].TotalMinutes {
			return rows[i].TotalMinutes > rows[j].TotalMinutes
		}
		return rows[i].Artist < rows[j].Artist
	})
	return rows
}

func (s *Summarizer) trackSummaries(events []domain.Event) []domain.TrackSummary {
	type key struct {
		artist string
		track  string
	}
	type acc struct {
		artistLabel string
		trackLabel  string
		minutes     float64
		plays       int
		skips       int
		completions int
		firstPlay   string
		lastPlay    string
	}

	byTrack := make(map[key]*acc)
	for _, e := range events {
		k := key{artist: domain.NormalizeKey(e.ArtistName), track: domain.NormalizeKey(e.TrackName)}
		a := byTrack[k]
		if a == nil {
			a = &acc{
				artistLabel: artistLabel(e.ArtistName),
				trackLabel:  trackLabel(e.TrackName),
			}
			byTrack[k] = a
		}
		date := e.Date().Format("2006-01-02")
		if a.firstPlay == "" || date < a.firstPlay {
			a.firstPlay = date
		}
		if date > a.lastPlay {
			a.lastPlay = date
		}
		a.minutes += e.DurationSeconds / 60
		a.plays++
		if e.Skipped {
			a.skips++
		} else {
			a.completions++
		}
	}

	rows := make([]domain.TrackSummary, 0, len(byTrack))
	for _, a := range byTrack {
		rows = append(rows, domain.TrackSummary{
			Track:        a.trackLabel,
			Artist:       a.artistLabel,
			TotalMinutes: round2(a.minutes),
			PlayCount:    a.plays,
			Skips:        a.skips,
			Completions:  a.completions,
			SkipRate:     rate(a.skips, a.plays),
			FirstPlay:    a.firstPlay,
			LastPlay:     a.lastPlay,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalMinutes != rows[j].TotalMinutes {
			return rows[i].TotalMinutes > rows[j].TotalMinutes
		}
		if rows[i].Artist != rows[j].Artist {
			return rows[i].Artist < rows[j].Artist
		}
		return rows[i].Track < rows[j].Track
	})
	return rows
}

func (s *Summarizer) hourlyPatterns(events []domain.Event) []domain.HourlyPattern {
	type acc struct {
		minutes float64
		plays   int
		skips   int
		artists map[string]struct{}
	}

	byHour := make(map[int]*acc)
	for _, e := range events {
		hour := e.PlayedAt.Hour()
		a := byHour[hour]
		if a == nil {
			a = &acc{artists: make(map[string]struct{})}
			byHour[hour] = a
		}
		a.minutes += e.DurationSeconds / 60
		a.plays++
		if e.Skipped {
			a.skips++
		}
		a.artists[domain.NormalizeKey(e.ArtistName)] = struct{}{}
	}

	rows := make([]domain.HourlyPattern, 0, len(byHour))
	for hour, a := range byHour {
		avg := 0.0
		if a.plays > 0 {
			avg = a.minutes / float64(a.plays)
		}
		rows = append(rows, domain.HourlyPattern{
			Hour:          hour,
			TotalMinutes:  round2(a.minutes),
			TrackCount:    a.plays,
			Skips:         a.skips,
			UniqueArtists: len(a.artists),
			AvgMinutes:    round2(avg),
			SkipRate:      rate(a.skips, a.plays),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Hour < rows[j].Hour })
	return rows
}

// weekdayOrder fixes the output ordering of the weekday pattern table.
var weekdayOrder = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

func (s *Summarizer) weekdayPatterns(events []domain.Event) []domain.WeekdayPattern {
	type acc struct {
		minutes float64
		plays   int
		skips   int
		artists map[string]struct{}
	}

	byDay := make(map[string]*acc)
	for _, e := range events {
		day := e.PlayedAt.Weekday().String()
		a := byDay[day]
		if a == nil {
			a = &acc{artists: make(map[string]struct{})}
			byDay[day] = a
		}
		a.minutes += e.DurationSeconds / 60
		a.plays++
		if e.Skipped {
			a.skips++
		}
		a.artists[domain.NormalizeKey(e.ArtistName)] = struct{}{}
	}

	rows := make([]domain.WeekdayPattern, 0, len(byDay))
	for _, day := range weekdayOrder {
		a, ok := byDay[day]
		if !ok {
			continue
		}
		rows = append(rows, domain.WeekdayPattern{
			Weekday:       day,
			TotalMinutes:  round2(a.minutes),
			TrackCount:    a.plays,
			Skips:         a.skips,
			UniqueArtists: len(a.artists),
			SkipRate:      rate(a.skips, a.plays),
		})
	}
	return rows
}

func (s *Summarizer) monthlyProgression(events []domain.Event) []domain.MonthlyProgression {
	type acc struct {
		monthName string
		minutes   float64
		plays     int
		skips     int
		artists   map[string]struct{}
		tracks    map[string]struct{}
		days      map[string]struct{}
	}

	byMonth := make(map[int]*acc)
	for _, e := range events {
		month := int(e.PlayedAt.Month())
		a := byMonth[month]
		if a == nil {
			a = &acc{
				monthName: e.PlayedAt.Month().String(),
				artists:   make(map[string]struct{}),
				tracks:    make(map[string]struct{}),
				days:      make(map[string]struct{}),
			}
			byMonth[month] = a
		}
		a.minutes += e.DurationSeconds / 60
		a.plays++
		if e.Skipped {
			a.skips++
		}
		a.artists[domain.NormalizeKey(e.ArtistName)] = struct{}{}
		a.tracks[domain.NormalizeKey(e.ArtistName)+"\x00"+domain.NormalizeKey(e.TrackName)] = struct{}{}
		a.days[e.Date().Format("2006-01-02")] = struct{}{}
	}

	rows := make([]domain.MonthlyProgression, 0, len(byMonth))
	for month, a := range byMonth {
		rows = append(rows, domain.MonthlyProgression{
			Month:         month,
			MonthName:     a.monthName,
			TotalMinutes:  round2(a.minutes),
			HoursPlayed:   round2(a.minutes / 60),
			TracksPlayed:  a.plays,
			Skips:         a.skips,
			UniqueArtists: len(a.artists),
			UniqueTracks:  len(a.tracks),
			ListeningDays: len(a.days),
			SkipRate:      rate(a.skips, a.plays),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Month < rows[j].Month })
	return rows
}

func (s *Summarizer) platformShares(events []domain.Event) []domain.PlatformShare {
	type acc struct {
		label   string
		minutes float64
		plays   int
	}

	byPlatform := make(map[string]*acc)
	for _, e := range events {
		key := domain.NormalizeKey(e.Platform)
		a := byPlatform[key]
		if a == nil {
			a = &acc{label: platformLabel(e.Platform)}
			byPlatform[key] = a
		}
		a.minutes += e.DurationSeconds / 60
		a.plays++
	}

	rows := make([]domain.PlatformShare, 0, len(byPlatform))
	for _, a := range byPlatform {
		share := 0.0
		if len(events) > 0 {
			share = float64(a.plays) / float64(len(events)) * 100
		}
		rows = append(rows, domain.PlatformShare{
			Platform:     a.label,
			TotalMinutes: round2(a.minutes),
			TrackCount:   a.plays,
			Percentage:   round2(share),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TrackCount != rows[j].TrackCount {
			return rows[i].TrackCount > rows[j].TrackCount
		}
		return rows[i].Platform < rows[j].Platform
	})
	return rows
}

func (s *Summarizer) kpis(events []domain.Event) domain.KPIReport {
	var minutes float64
	var skips, completions int
	artists := make(map[string]struct{})
	tracks := make(map[string]struct{})
	days := make(map[string]struct{})

	for _, e := range events {
		minutes += e.DurationSeconds / 60
		if e.Skipped {
			skips++
		} else {
			completions++
		}
		artists[domain.NormalizeKey(e.ArtistName)] = struct{}{}
		tracks[domain.NormalizeKey(e.ArtistName)+"\x00"+domain.NormalizeKey(e.TrackName)] = struct{}{}
		days[e.Date().Format("2006-01-02")] = struct{}{}
	}

	avgDaily := 0.0
	if len(days) > 0 {
		avgDaily = minutes / float64(len(days))
	}

	return domain.KPIReport{
		TotalMinutes:    round2(minutes),
		TotalHours:      round2(minutes / 60),
		TotalPlays:      len(events),
		UniqueArtists:   len(artists),
		UniqueTracks:    len(tracks),
		SkipRate:        rate(skips, len(events)),
		CompletionRate:  rate(completions, len(events)),
		ListeningDays:   len(days),
		AvgDailyMinutes: round2(avgDaily),
	}
}

func artistLabel(name string) string {
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		return trimmed
	}
	return domain.UnknownArtist
}

func trackLabel(name string) string {
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		return trimmed
	}
	return domain.UnknownTrack
}

func platformLabel(name string) string {
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		return trimmed
	}
	return domain.UnknownPlatform
}

// rate returns the percentage of part in total, rounded to two decimals.
func rate(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(part) / float64(total) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
