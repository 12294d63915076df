// Package history reads streaming-history exports: it walks an export folder,
// streams the JSON array in each file and normalizes every element into an
// Event.
package history

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoTimestamp is returned by Event.Time for untimed events.
var ErrNoTimestamp = errors.New("event has no timestamp")

// Event is one normalized playback record. Absent string fields are "".
type Event struct {
	Timestamp string
	Platform  string
	Country   string
	IPAddress string
	MsPlayed  int64

	TrackName  string
	ArtistName string
	AlbumName  string
	TrackURI   string

	PodcastShowName    string
	PodcastEpisodeName string

	ReasonStart string
	ReasonEnd   string

	Shuffle       bool
	Skipped       bool
	Offline       bool
	IncognitoMode bool
}

// IsMusic reports whether the event carries a track or artist name.
func (e Event) IsMusic() bool {
	return e.TrackName != "" || e.ArtistName != ""
}

// IsPodcast reports whether the event carries a podcast show name.
func (e Event) IsPodcast() bool {
	return e.PodcastShowName != ""
}

// TrackKey identifies a track by title and artist, e.g. "Hurt - Johnny Cash".
func (e Event) TrackKey() string {
	return e.TrackName + " - " + e.ArtistName
}

// Time parses the timestamp, keeping the offset it was recorded with.
func (e Event) Time() (time.Time, error) {
	if e.Timestamp == "" {
		return time.Time{}, ErrNoTimestamp
	}
	t, err := time.Parse(time.RFC3339Nano, e.Timestamp)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", e.Timestamp, err)
	}
	return t, nil
}
