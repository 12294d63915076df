package stats

import (
	"errors"
	"fmt"

	"github.com/ademuri/streaming-history-tools/internal/history"
)

type YearlyStats struct {
	Year          string   `json:"year"`
	Streams       int64    `json:"streams"`
	MusicHours    float64  `json:"musicHours"`
	UniqueStreams int64    `json:"uniqueStreams"`
	PodcastPlays  int64    `json:"podcastPlays"`
	PodcastHours  float64  `json:"podcastHours"`
	TopTracks     []Ranked `json:"topTracks"`
	TopArtists    []Ranked `json:"topArtists"`
}

type yearBucket struct {
	year      string
	streams   int64
	unique    int64
	musicMs   int64
	podcasts  int64
	podcastMs int64
	tracks    *Counter
	artists   *Counter
}

// YearlyCollector buckets music streams and podcast plays by calendar year.
//
// A stream is unique the first time its track URI is seen anywhere in the
// corpus, not just within its year. Exports without URIs fall back to the
// "<track> - <artist>" key.
type YearlyCollector struct {
	Limit int

	years  *table[yearBucket]
	seen   map[string]struct{}
	result []YearlyStats
}

func NewYearlyCollector() *YearlyCollector {
	return &YearlyCollector{
		Limit: EmbeddedLimit,
		years: newTable[yearBucket](),
		seen:  make(map[string]struct{}),
	}
}

func (c *YearlyCollector) Collect(ev history.Event) error {
	music := (ev.TrackURI != "" || ev.IsMusic()) && IsStream(ev)
	podcast := ev.IsPodcast() && IsPodcastPlay(ev)
	if !music && !podcast {
		return nil
	}

	ts, err := ev.Time()
	if errors.Is(err, history.ErrNoTimestamp) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("yearly stats: %w", err)
	}

	year := ts.Format("2006")
	bucket := c.years.entry(year, func() yearBucket {
		return yearBucket{year: year, tracks: NewCounter(), artists: NewCounter()}
	})

	if music {
		bucket.streams++
		bucket.musicMs += ev.MsPlayed
		key := ev.TrackURI
		if key == "" {
			key = ev.TrackKey()
		}
		if _, ok := c.seen[key]; !ok {
			c.seen[key] = struct{}{}
			bucket.unique++
		}
		if ev.TrackName != "" {
			bucket.tracks.Add(ev.TrackKey(), 1)
		}
		if ev.ArtistName != "" {
			bucket.artists.Add(ev.ArtistName, 1)
		}
	}
	if podcast {
		bucket.podcasts++
		bucket.podcastMs += ev.MsPlayed
	}
	return nil
}

func (c *YearlyCollector) Finalize() {
	years := c.years.values()
	c.result = make([]YearlyStats, len(years))
	for i, y := range years {
		c.result[i] = YearlyStats{
			Year:          y.year,
			Streams:       y.streams,
			MusicHours:    hours(y.musicMs),
			UniqueStreams: y.unique,
			PodcastPlays:  y.podcasts,
			PodcastHours:  hours(y.podcastMs),
			TopTracks:     y.tracks.Top(c.Limit),
			TopArtists:    y.artists.Top(c.Limit),
		}
	}
}

// Years returns every finalized year in first-seen order.
func (c *YearlyCollector) Years() []YearlyStats {
	return c.result
}

func (c *YearlyCollector) Year(year string) (YearlyStats, bool) {
	for _, y := range c.result {
		if y.Year == year {
			return y, true
		}
	}
	return YearlyStats{}, false
}
