package history

import (
	"math"

	"github.com/goccy/go-json"
)

// Record is one raw element of an export array.
type Record map[string]any

// Export field names.
const (
	fieldTimestamp      = "ts"
	fieldPlatform       = "platform"
	fieldMsPlayed       = "ms_played"
	fieldCountry        = "conn_country"
	fieldIPAddress      = "ip_addr"
	fieldTrackName      = "master_metadata_track_name"
	fieldArtistName     = "master_metadata_album_artist_name"
	fieldAlbumName      = "master_metadata_album_album_name"
	fieldTrackURI       = "spotify_track_uri"
	fieldReasonStart    = "reason_start"
	fieldReasonEnd      = "reason_end"
	fieldShuffle        = "shuffle"
	fieldSkipped        = "skipped"
	fieldOffline        = "offline"
	fieldIncognito      = "incognito_mode"
	fieldPodcastShow    = "episode_show_name"
	fieldPodcastEpisode = "episode_name"
)

// Normalize maps a raw record onto an Event. It never fails: missing, null or
// wrongly typed fields fall back to "", 0 or false.
func Normalize(r Record) Event {
	return Event{
		Timestamp:          r.str(fieldTimestamp),
		Platform:           r.str(fieldPlatform),
		Country:            r.str(fieldCountry),
		IPAddress:          r.str(fieldIPAddress),
		MsPlayed:           r.millis(fieldMsPlayed),
		TrackName:          r.str(fieldTrackName),
		ArtistName:         r.str(fieldArtistName),
		AlbumName:          r.str(fieldAlbumName),
		TrackURI:           r.str(fieldTrackURI),
		PodcastShowName:    r.str(fieldPodcastShow),
		PodcastEpisodeName: r.str(fieldPodcastEpisode),
		ReasonStart:        r.str(fieldReasonStart),
		ReasonEnd:          r.str(fieldReasonEnd),
		Shuffle:            r.flag(fieldShuffle),
		Skipped:            r.flag(fieldSkipped),
		Offline:            r.flag(fieldOffline),
		IncognitoMode:      r.flag(fieldIncognito),
	}
}

func (r Record) str(key string) string {
	s, _ := r[key].(string)
	return s
}

func (r Record) flag(key string) bool {
	b, _ := r[key].(bool)
	return b
}

// millis reads a duration in milliseconds. Fractions are truncated and
// negative values clamp to zero.
func (r Record) millis(key string) int64 {
	var f float64
	switch v := r[key].(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return max(n, 0)
		}
		parsed, err := v.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case float64:
		f = v
	case int:
		return max(int64(v), 0)
	case int64:
		return max(v, 0)
	default:
		return 0
	}

	if math.IsNaN(f) || f <= 0 {
		return 0
	}
	if f >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(f)
}
