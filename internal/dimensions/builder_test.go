package dimensions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spotifyetl/pkg/contracts/domain"
)

func event(ts time.Time, artist, track, album, platform string) domain.Event {
	return domain.Event{
		PlayedAt:        ts,
		ArtistName:      artist,
		TrackName:       track,
		AlbumName:       album,
		Platform:        platform,
		DurationSeconds: 100,
	}
}

func TestBuild_FirstSeenOrderIDs(t *testing.T) {
	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	events := []domain.Event{
		event(base, "ArtistB", "TrackY", "AlbumB", "android"),
		event(base.Add(time.Hour), "ArtistA", "TrackX", "AlbumA", "ios"),
		event(base.Add(2*time.Hour), "ArtistB", "TrackZ", "AlbumB", "android"),
	}

	d := Build(events)

	require.Len(t, d.Artists, 2)
	assert.Equal(t, domain.ArtistRow{ID: 1, Name: "ArtistB"}, d.Artists[0])
	assert.Equal(t, domain.ArtistRow{ID: 2, Name: "ArtistA"}, d.Artists[1])

	require.Len(t, d.Tracks, 3)
	assert.Equal(t, int64(1), d.Tracks[0].ID)
	assert.Equal(t, "TrackY", d.Tracks[0].Name)
	assert.Equal(t, int64(1), d.Tracks[0].ArtistID)
	assert.Equal(t, "TrackZ", d.Tracks[2].Name)

	require.Len(t, d.Platforms, 2)
	assert.Equal(t, "android", d.Platforms[0].Name)
}

func TestBuild_NormalizationCollapsesVariants(t *testing.T) {
	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	events := []domain.Event{
		event(base, "The Artist", "Song", "", "web player"),
		event(base, " the artist ", "SONG", "", "Web Player"),
	}

	d := Build(events)

	require.Len(t, d.Artists, 1)
	// First-seen casing wins for the stored label
	assert.Equal(t, "The Artist", d.Artists[0].Name)
	assert.Len(t, d.Tracks, 1)
	assert.Len(t, d.Platforms, 1)
}

func TestBuild_SameTrackNameDifferentArtists(t *testing.T) {
	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	events := []domain.Event{
		event(base, "ArtistA", "Intro", "", "ios"),
		event(base, "ArtistB", "Intro", "", "ios"),
	}

	d := Build(events)

	require.Len(t, d.Tracks, 2)
	assert.NotEqual(t, d.Tracks[0].ArtistID, d.Tracks[1].ArtistID)
}

func TestBuild_UnknownPlaceholders(t *testing.T) {
	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	events := []domain.Event{
		event(base, "", "  ", "", ""),
	}

	d := Build(events)

	require.Len(t, d.Artists, 1)
	assert.Equal(t, domain.UnknownArtist, d.Artists[0].Name)
	require.Len(t, d.Tracks, 1)
	assert.Equal(t, domain.UnknownTrack, d.Tracks[0].Name)
	require.Len(t, d.Platforms, 1)
	assert.Equal(t, domain.UnknownPlatform, d.Platforms[0].Name)

	// Blank and explicit whitespace resolve to the same rows
	id, ok := d.ArtistID("")
	require.True(t, ok)
	assert.Equal(t, int64(1), id)
}

func TestBuild_TimeDimension(t *testing.T) {
	events := []domain.Event{
		event(time.Date(2024, 1, 6, 23, 30, 0, 0, time.UTC), "A", "X", "", "ios"), // Saturday
		event(time.Date(2024, 1, 6, 8, 0, 0, 0, time.UTC), "A", "Y", "", "ios"),   // same date
		event(time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC), "A", "Z", "", "ios"),   // Monday
	}

	d := Build(events)

	require.Len(t, d.Times, 2)

	saturday := d.Times[0]
	assert.Equal(t, "2024-01-06", saturday.Date)
	assert.Equal(t, 2024, saturday.Year)
	assert.Equal(t, 1, saturday.Month)
	assert.Equal(t, "January", saturday.MonthName)
	assert.Equal(t, "Saturday", saturday.Weekday)
	assert.Equal(t, 5, saturday.WeekdayNum)
	assert.True(t, saturday.IsWeekend)

	monday := d.Times[1]
	assert.Equal(t, "Monday", monday.Weekday)
	assert.Equal(t, 0, monday.WeekdayNum)
	assert.False(t, monday.IsWeekend)
	assert.Equal(t, 2, monday.ISOWeek)
}

func TestLookups(t *testing.T) {
	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	d := Build([]domain.Event{event(base, "ArtistA", "TrackX", "Album", "ios")})

	artistID, ok := d.ArtistID("  ARTISTA ")
	require.True(t, ok)
	assert.Equal(t, int64(1), artistID)

	trackID, ok := d.TrackID("artista", "trackx")
	require.True(t, ok)
	assert.Equal(t, int64(1), trackID)

	timeID, ok := d.TimeID(base)
	require.True(t, ok)
	assert.Equal(t, int64(1), timeID)

	platformID, ok := d.PlatformID("IOS")
	require.True(t, ok)
	assert.Equal(t, int64(1), platformID)

	_, ok = d.ArtistID("missing")
	assert.False(t, ok)
}

func TestBuild_Deterministic(t *testing.T) {
	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	events := []domain.Event{
		event(base, "B", "1", "", "x"),
		event(base.AddDate(0, 0, 1), "A", "2", "", "y"),
		event(base.AddDate(0, 0, 2), "C", "3", "", "z"),
	}

	first := Build(events)
	second := Build(events)

	assert.Equal(t, first.Artists, second.Artists)
	assert.Equal(t, first.Tracks, second.Tracks)
	assert.Equal(t, first.Times, second.Times)
	assert.Equal(t, first.Platforms, second.Platforms)
}
