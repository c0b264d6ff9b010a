package cleaner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"spotifyetl/pkg/contracts/domain"
)

// Report counts what happened to every record the cleaner saw. Per-record
// validation issues are not logged individually; the aggregate is reported
// at the end of the stage.
type Report struct {
	Read                int
	DroppedNoTimestamp  int
	DroppedBadDuration  int
	DroppedBelowMinimum int
	DroppedPodcast      int
	Deduplicated        int
	Kept                int
}

// Dropped returns the total number of records removed for any reason.
func (r Report) Dropped() int {
	return r.DroppedNoTimestamp + r.DroppedBadDuration + r.DroppedBelowMinimum + r.DroppedPodcast + r.Deduplicated
}

// DropFraction returns the fraction of read records that were removed.
func (r Report) DropFraction() float64 {
	if r.Read == 0 {
		return 0
	}
	return float64(r.Dropped()) / float64(r.Read)
}

// Cleaner validates and normalizes raw stream records into events
type Cleaner struct {
	logger             *slog.Logger
	minDurationSeconds float64
	maxDropFraction    float64
}

// New creates a cleaner. minDurationSeconds filters short music listens
// (0 keeps everything non-negative); maxDropFraction is the sanity
// threshold above which the stage emits a warning.
func New(logger *slog.Logger, minDurationSeconds, maxDropFraction float64) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{
		logger:             logger,
		minDurationSeconds: minDurationSeconds,
		maxDropFraction:    maxDropFraction,
	}
}

// Clean applies, in order: timestamp parsing and UTC normalization,
// duration normalization to seconds, removal of podcast and unusable
// records, the minimum-listen filter, and exact-duplicate removal.
// Input order is preserved for the records that survive.
func (c *Cleaner) Clean(ctx context.Context, records []domain.StreamRecord) ([]domain.Event, Report) {
	report := Report{Read: len(records)}
	seen := make(map[string]struct{}, len(records))
	events := make([]domain.Event, 0, len(records))

	for _, record := range records {
		playedAt, err := parseTimestamp(record.Timestamp)
		if err != nil {
			report.DroppedNoTimestamp++
			continue
		}

		if record.IsPodcast() {
			report.DroppedPodcast++
			continue
		}

		if record.MsPlayed < 0 {
			report.DroppedBadDuration++
			continue
		}
		durationSeconds := float64(record.MsPlayed) / 1000.0

		if durationSeconds < c.minDurationSeconds {
			report.DroppedBelowMinimum++
			continue
		}

		key := dedupKey(record, playedAt)
		if _, dup := seen[key]; dup {
			report.Deduplicated++
			continue
		}
		seen[key] = struct{}{}

		events = append(events, domain.Event{
			PlayedAt:        playedAt,
			ArtistName:      record.ArtistName,
			TrackName:       record.TrackName,
			AlbumName:       record.AlbumName,
			Platform:        record.Platform,
			MsPlayed:        record.MsPlayed,
			DurationSeconds: durationSeconds,
			ReasonEnd:       record.ReasonEnd,
			Shuffle:         boolValue(record.Shuffle),
			Skipped:         boolValue(record.Skipped),
			Offline:         boolValue(record.Offline),
		})
	}

	report.Kept = len(events)

	c.logger.InfoContext(ctx, "cleaning complete",
		slog.Int("records_read", report.Read),
		slog.Int("dropped_no_timestamp", report.DroppedNoTimestamp),
		slog.Int("dropped_bad_duration", report.DroppedBadDuration),
		slog.Int("dropped_below_minimum", report.DroppedBelowMinimum),
		slog.Int("dropped_podcast", report.DroppedPodcast),
		slog.Int("deduplicated", report.Deduplicated),
		slog.Int("kept", report.Kept))

	if fraction := report.DropFraction(); fraction > c.maxDropFraction {
		c.logger.WarnContext(ctx, "dropped fraction exceeds sanity threshold",
			slog.Float64("drop_fraction", fraction),
			slog.Float64("threshold", c.maxDropFraction))
	}

	return events, report
}

// parseTimestamp parses the export timestamp and normalizes it to UTC.
// The export writes RFC3339 with a Z suffix; offsets are tolerated.
func parseTimestamp(ts string) (time.Time, error) {
	if ts == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	parsed, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return time.Time{}, err
	}
	return parsed.UTC(), nil
}

// dedupKey identifies an exact duplicate event: same track identity, same
// instant, same duration. Overlapping export files re-ingest these.
func dedupKey(r domain.StreamRecord, playedAt time.Time) string {
	return fmt.Sprintf("%s\x00%s\x00%d\x00%d",
		domain.NormalizeKey(r.ArtistName),
		domain.NormalizeKey(r.TrackName),
		playedAt.UnixMilli(),
		r.MsPlayed)
}

func boolValue(b *bool) bool {
	return b != nil && *b
}
