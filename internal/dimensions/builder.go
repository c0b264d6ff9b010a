package dimensions

import (
	"strings"
	"time"

	"spotifyetl/pkg/contracts/domain"
)

// trackKey is the uniqueness key of the track dimension: the same track
// name under two artists is two distinct rows.
type trackKey struct {
	artist string
	track  string
}

// Dimensions holds the four reference tables for one run plus the lookup
// indexes the fact builder resolves against. Surrogate ids are sequential
// from 1 in first-seen order over the cleaned event collection, so they are
// deterministic for deterministic input ordering.
type Dimensions struct {
	Artists   []domain.ArtistRow
	Tracks    []domain.TrackRow
	Times     []domain.TimeRow
	Platforms []domain.PlatformRow

	artistIDs   map[string]int64
	trackIDs    map[trackKey]int64
	timeIDs     map[string]int64
	platformIDs map[string]int64
}

// Build derives all four dimensions from the cleaned event collection.
// Blank artist, track and platform values map to the reserved Unknown rows
// instead of being excluded.
func Build(events []domain.Event) *Dimensions {
	d := &Dimensions{
		artistIDs:   make(map[string]int64),
		trackIDs:    make(map[trackKey]int64),
		timeIDs:     make(map[string]int64),
		platformIDs: make(map[string]int64),
	}

	for _, e := range events {
		artistID := d.addArtist(e.ArtistName)
		d.addTrack(artistID, e.ArtistName, e.TrackName, e.AlbumName)
		d.addTime(e.Date())
		d.addPlatform(e.Platform)
	}

	return d
}

func (d *Dimensions) addArtist(name string) int64 {
	key := domain.NormalizeKey(name)
	if id, ok := d.artistIDs[key]; ok {
		return id
	}

	id := int64(len(d.Artists) + 1)
	d.artistIDs[key] = id
	d.Artists = append(d.Artists, domain.ArtistRow{ID: id, Name: label(name, domain.UnknownArtist)})
	return id
}

func (d *Dimensions) addTrack(artistID int64, artist, track, album string) int64 {
	key := trackKey{artist: domain.NormalizeKey(artist), track: domain.NormalizeKey(track)}
	if id, ok := d.trackIDs[key]; ok {
		return id
	}

	id := int64(len(d.Tracks) + 1)
	d.trackIDs[key] = id
	d.Tracks = append(d.Tracks, domain.TrackRow{
		ID:       id,
		ArtistID: artistID,
		Name:     label(track, domain.UnknownTrack),
		Album:    strings.TrimSpace(album),
	})
	return id
}

func (d *Dimensions) addTime(date time.Time) int64 {
	key := date.Format("2006-01-02")
	if id, ok := d.timeIDs[key]; ok {
		return id
	}

	id := int64(len(d.Times) + 1)
	d.timeIDs[key] = id

	_, isoWeek := date.ISOWeek()
	weekday := date.Weekday()
	d.Times = append(d.Times, domain.TimeRow{
		ID:         id,
		Date:       key,
		Year:       date.Year(),
		Month:      int(date.Month()),
		MonthName:  date.Month().String(),
		Day:        date.Day(),
		ISOWeek:    isoWeek,
		Weekday:    weekday.String(),
		WeekdayNum: (int(weekday) + 6) % 7, // Monday = 0
		IsWeekend:  weekday == time.Saturday || weekday == time.Sunday,
	})
	return id
}

func (d *Dimensions) addPlatform(name string) int64 {
	key := domain.NormalizeKey(name)
	if id, ok := d.platformIDs[key]; ok {
		return id
	}

	id := int64(len(d.Platforms) + 1)
	d.platformIDs[key] = id
	d.Platforms = append(d.Platforms, domain.PlatformRow{ID: id, Name: label(name, domain.UnknownPlatform)})
	return id
}

// ArtistID resolves an artist name to its surrogate id using the same
// normalization applied at build time.
func (d *Dimensions) ArtistID(name string) (int64, bool) {
	id, ok := d.artistIDs[domain.NormalizeKey(name)]
	return id, ok
}

// TrackID resolves an (artist, track) pair to its surrogate id.
func (d *Dimensions) TrackID(artist, track string) (int64, bool) {
	id, ok := d.trackIDs[trackKey{artist: domain.NormalizeKey(artist), track: domain.NormalizeKey(track)}]
	return id, ok
}

// TimeID resolves a UTC calendar date to its surrogate id.
func (d *Dimensions) TimeID(date time.Time) (int64, bool) {
	id, ok := d.timeIDs[date.Format("2006-01-02")]
	return id, ok
}

// PlatformID resolves a platform string to its surrogate id.
func (d *Dimensions) PlatformID(name string) (int64, bool) {
	id, ok := d.platformIDs[domain.NormalizeKey(name)]
	return id, ok
}

// label returns the trimmed original value, or the reserved placeholder
// when the value is blank.
func label(value, placeholder string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return placeholder
	}
	return trimmed
}
