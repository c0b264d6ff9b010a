package facts

import (
	"context"
	"fmt"
	"log/slog"

	"spotifyetl/internal/dimensions"
	apperrors "spotifyetl/internal/errors"
	"spotifyetl/pkg/contracts/domain"
)

// Build joins each cleaned event to its dimension ids and emits one fact
// row per event. The dimensions were built from the same cleaned collection,
// so a failed lookup is an internal defect and fails the run instead of
// being silently coerced.
func Build(ctx context.Context, logger *slog.Logger, events []domain.Event, dims *dimensions.Dimensions) ([]domain.FactRow, error) {
	if logger == nil {
		logger = slog.Default()
	}

	facts := make([]domain.FactRow, 0, len(events))
	for i, e := range events {
		artistID, ok := dims.ArtistID(e.ArtistName)
		if !ok {
			return nil, integrityError("artist", e.ArtistName, i)
		}
		trackID, ok := dims.TrackID(e.ArtistName, e.TrackName)
		if !ok {
			return nil, integrityError("track", e.TrackName, i)
		}
		timeID, ok := dims.TimeID(e.Date())
		if !ok {
			return nil, integrityError("time", e.Date().Format("2006-01-02"), i)
		}
		platformID, ok := dims.PlatformID(e.Platform)
		if !ok {
			return nil, integrityError("platform", e.Platform, i)
		}

		facts = append(facts, domain.FactRow{
			ID:              int64(i + 1),
			ArtistID:        artistID,
			TrackID:         trackID,
			TimeID:          timeID,
			PlatformID:      platformID,
			Hour:            e.PlayedAt.Hour(),
			DurationSeconds: e.DurationSeconds,
			MsPlayed:        e.MsPlayed,
			Skipped:         e.Skipped,
			Shuffle:         e.Shuffle,
			Offline:         e.Offline,
			Completed:       e.Completed(),
			ReasonEnd:       e.ReasonEnd,
		})
	}

	logger.InfoContext(ctx, "fact table built", slog.Int("row_count", len(facts)))
	return facts, nil
}

func integrityError(dimension, key string, index int) error {
	return apperrors.NewIntegrityError(
		fmt.Sprintf("event %d: %s key %q does not resolve to a dimension row", index, dimension, key))
}
