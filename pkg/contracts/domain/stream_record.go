package domain

// StreamRecord represents one raw playback record from a Spotify Extended
// Streaming History export file. Field names follow the documented export
// schema; undocumented fields are ignored during decoding and optional
// fields tolerate absence (empty string / nil pointer / zero).
type StreamRecord struct {
	Timestamp     string `json:"ts"`
	Username      string `json:"username,omitempty"`
	Platform      string `json:"platform"`
	MsPlayed      int64  `json:"ms_played"`
	ConnCountry   string `json:"conn_country,omitempty"`
	TrackName     string `json:"master_metadata_track_name"`
	ArtistName    string `json:"master_metadata_album_artist_name"`
	AlbumName     string `json:"master_metadata_album_album_name"`
	TrackURI      string `json:"spotify_track_uri,omitempty"`
	EpisodeName   string `json:"episode_name,omitempty"`
	EpisodeShow   string `json:"episode_show_name,omitempty"`
	EpisodeURI    string `json:"spotify_episode_uri,omitempty"`
	ReasonStart   string `json:"reason_start,omitempty"`
	ReasonEnd     string `json:"reason_end,omitempty"`
	Shuffle       *bool  `json:"shuffle"`
	Skipped       *bool  `json:"skipped"`
	Offline       *bool  `json:"offline"`
	OfflineTs     *int64 `json:"offline_timestamp"`
	IncognitoMode *bool  `json:"incognito_mode"`
}

// IsPodcast reports whether the record describes a podcast episode rather
// than a music track. Any populated podcast-specific field qualifies.
func (r StreamRecord) IsPodcast() bool {
	return r.EpisodeName != "" || r.EpisodeShow != "" || r.EpisodeURI != ""
}
