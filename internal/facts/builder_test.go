package facts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "spotifyetl/internal/errors"
	"spotifyetl/internal/dimensions"
	"spotifyetl/pkg/contracts/domain"
)

func events() []domain.Event {
	return []domain.Event{
		{
			PlayedAt:        time.Date(2024, 1, 1, 10, 15, 0, 0, time.UTC),
			ArtistName:      "ArtistA",
			TrackName:       "TrackX",
			Platform:        "android",
			MsPlayed:        200000,
			DurationSeconds: 200,
			Skipped:         false,
			Shuffle:         true,
		},
		{
			PlayedAt:        time.Date(2024, 1, 2, 23, 5, 0, 0, time.UTC),
			ArtistName:      "",
			TrackName:       "TrackY",
			Platform:        "android",
			MsPlayed:        30000,
			DurationSeconds: 30,
			Skipped:         true,
		},
	}
}

func TestBuild_OneFactPerEvent(t *testing.T) {
	evs := events()
	dims := dimensions.Build(evs)

	facts, err := Build(context.Background(), nil, evs, dims)
	require.NoError(t, err)
	require.Len(t, facts, 2)

	first := facts[0]
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(1), first.ArtistID)
	assert.Equal(t, int64(1), first.TrackID)
	assert.Equal(t, int64(1), first.TimeID)
	assert.Equal(t, int64(1), first.PlatformID)
	assert.Equal(t, 10, first.Hour)
	assert.Equal(t, 200.0, first.DurationSeconds)
	assert.True(t, first.Shuffle)
	assert.True(t, first.Completed)

	second := facts[1]
	assert.Equal(t, int64(2), second.ID)
	assert.Equal(t, 23, second.Hour)
	assert.True(t, second.Skipped)
	assert.False(t, second.Completed)
}

func TestBuild_BlankArtistResolvesToUnknownRow(t *testing.T) {
	evs := events()
	dims := dimensions.Build(evs)

	facts, err := Build(context.Background(), nil, evs, dims)
	require.NoError(t, err)

	// Second event has a blank artist; it must reference the reserved
	// Unknown Artist row, not be dropped.
	unknownID := facts[1].ArtistID
	require.Greater(t, unknownID, int64(0))
	assert.Equal(t, domain.UnknownArtist, dims.Artists[unknownID-1].Name)
}

func TestBuild_ReferentialIntegrity(t *testing.T) {
	evs := events()
	dims := dimensions.Build(evs)

	facts, err := Build(context.Background(), nil, evs, dims)
	require.NoError(t, err)

	for _, f := range facts {
		assert.GreaterOrEqual(t, f.ArtistID, int64(1))
		assert.LessOrEqual(t, f.ArtistID, int64(len(dims.Artists)))
		assert.GreaterOrEqual(t, f.TrackID, int64(1))
		assert.LessOrEqual(t, f.TrackID, int64(len(dims.Tracks)))
		assert.GreaterOrEqual(t, f.TimeID, int64(1))
		assert.LessOrEqual(t, f.TimeID, int64(len(dims.Times)))
		assert.GreaterOrEqual(t, f.PlatformID, int64(1))
		assert.LessOrEqual(t, f.PlatformID, int64(len(dims.Platforms)))
	}
}

func TestBuild_Conservation(t *testing.T) {
	evs := events()
	dims := dimensions.Build(evs)

	facts, err := Build(context.Background(), nil, evs, dims)
	require.NoError(t, err)

	var cleanedTotal, factTotal float64
	for _, e := range evs {
		cleanedTotal += e.DurationSeconds
	}
	for _, f := range facts {
		factTotal += f.DurationSeconds
	}
	assert.Equal(t, cleanedTotal, factTotal)
}

func TestBuild_UnresolvedLookupIsFatal(t *testing.T) {
	evs := events()
	// Dimensions built from a different collection cannot cover the events
	dims := dimensions.Build(evs[:1])

	_, err := Build(context.Background(), nil, evs, dims)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeIntegrity))
}
