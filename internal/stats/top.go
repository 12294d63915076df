package stats

import (
	"slices"

	"github.com/ademuri/streaming-history-tools/internal/history"
)

type TrackStats struct {
	Track       string `json:"track"`
	Artist      string `json:"artist"`
	StreamCount int64  `json:"streamCount"`
	SkipCount   int64  `json:"skipCount"`
	FirstPlayed string `json:"firstPlayed"`
}

type ArtistStats struct {
	Artist            string `json:"artist"`
	StreamCount       int64  `json:"streamCount"`
	UniqueStreamCount int64  `json:"uniqueStreamCount"`
	SkipCount         int64  `json:"skipCount"`
	FirstPlayed       string `json:"firstPlayed"`
}

// AlbumStats is keyed by title alone, so same-titled albums by different
// artists share one entry. Artists lists every artist seen streaming it.
type AlbumStats struct {
	Album       string   `json:"album"`
	Artists     []string `json:"artists"`
	StreamCount int64    `json:"streamCount"`
	SkipCount   int64    `json:"skipCount"`
	Hours       float64  `json:"hours"`
	FirstPlayed string   `json:"firstPlayed"`
}

// TopStats holds the leaderboards produced by TopCollector.Finalize.
type TopStats struct {
	Tracks          []TrackStats  `json:"topTracks"`
	Artists         []ArtistStats `json:"topArtists"`
	ArtistsByUnique []ArtistStats `json:"topArtistsByUniqueStreams"`
	Albums          []AlbumStats  `json:"topAlbums"`
	Podcasts        []Ranked      `json:"topPodcasts"`
	MostSkipped     []TrackStats  `json:"mostSkippedTracks"`
	NeverSkipped    []TrackStats  `json:"topTracksNeverSkipped"`
}

// TopCollector keeps per-track, per-artist, per-album and per-podcast
// counters. Music events go to the first three; events with no track or
// artist name count as podcast plays if they clear the podcast bar.
type TopCollector struct {
	Limit int

	tracks   *table[TrackStats]
	artists  *table[ArtistStats]
	albums   *table[AlbumStats]
	podcasts *Counter

	// Track names that already earned an artist a unique stream.
	uniqueTracks map[string]struct{}

	result TopStats
}

func NewTopCollector() *TopCollector {
	return &TopCollector{
		Limit:        GlobalLimit,
		tracks:       newTable[TrackStats](),
		artists:      newTable[ArtistStats](),
		albums:       newTable[AlbumStats](),
		podcasts:     NewCounter(),
		uniqueTracks: make(map[string]struct{}),
	}
}

func (c *TopCollector) Collect(ev history.Event) error {
	switch {
	case ev.IsMusic():
		c.collectMusic(ev)
	case ev.IsPodcast() && IsPodcastPlay(ev):
		c.podcasts.Add(ev.PodcastShowName, 1)
	}
	return nil
}

func (c *TopCollector) collectMusic(ev history.Event) {
	stream := IsStream(ev)
	skip := IsSkip(ev)

	track := c.tracks.entry(ev.TrackKey(), func() TrackStats {
		return TrackStats{Track: ev.TrackName, Artist: ev.ArtistName, FirstPlayed: ev.Timestamp}
	})
	if stream {
		track.StreamCount++
		track.FirstPlayed = earliest(track.FirstPlayed, ev.Timestamp)
	}
	if skip {
		track.SkipCount++
	}

	if ev.ArtistName != "" {
		artist := c.artists.entry(ev.ArtistName, func() ArtistStats {
			return ArtistStats{Artist: ev.ArtistName, FirstPlayed: ev.Timestamp}
		})
		if stream {
			artist.StreamCount++
			artist.FirstPlayed = earliest(artist.FirstPlayed, ev.Timestamp)
			if _, seen := c.uniqueTracks[ev.TrackName]; !seen && ev.TrackName != "" {
				c.uniqueTracks[ev.TrackName] = struct{}{}
				artist.UniqueStreamCount++
			}
		}
		if skip {
			artist.SkipCount++
		}
	}

	if ev.AlbumName != "" {
		album := c.albums.entry(ev.AlbumName, func() AlbumStats {
			return AlbumStats{Album: ev.AlbumName, FirstPlayed: ev.Timestamp}
		})
		if stream {
			album.StreamCount++
			album.Hours += hours(ev.MsPlayed)
			album.FirstPlayed = earliest(album.FirstPlayed, ev.Timestamp)
			if ev.ArtistName != "" && !slices.Contains(album.Artists, ev.ArtistName) {
				album.Artists = append(album.Artists, ev.ArtistName)
			}
		}
		if skip {
			album.SkipCount++
		}
	}
}

// earliest compares ISO-8601 strings lexically, ignoring empty ones.
func earliest(current, candidate string) string {
	if candidate == "" {
		return current
	}
	if current == "" || candidate < current {
		return candidate
	}
	return current
}

func (c *TopCollector) Finalize() {
	tracks := c.tracks.values()
	artists := c.artists.values()

	byStreams := func(a, b TrackStats) bool { return a.StreamCount > b.StreamCount }
	bySkips := func(a, b TrackStats) bool { return a.SkipCount > b.SkipCount }

	var neverSkipped []TrackStats
	var skipped []TrackStats
	for _, t := range tracks {
		switch {
		case t.SkipCount > 0:
			skipped = append(skipped, t)
		case t.StreamCount > 0:
			neverSkipped = append(neverSkipped, t)
		}
	}

	c.result = TopStats{
		Tracks:          topN(tracks, byStreams, c.Limit),
		Artists:         topN(artists, func(a, b ArtistStats) bool { return a.StreamCount > b.StreamCount }, c.Limit),
		ArtistsByUnique: topN(artists, func(a, b ArtistStats) bool { return a.UniqueStreamCount > b.UniqueStreamCount }, c.Limit),
		Albums:          topN(c.albums.values(), func(a, b AlbumStats) bool { return a.StreamCount > b.StreamCount }, c.Limit),
		Podcasts:        c.podcasts.Top(c.Limit),
		MostSkipped:     topN(skipped, bySkips, c.Limit),
		NeverSkipped:    topN(neverSkipped, byStreams, c.Limit),
	}
}

// Result returns the leaderboards built by the last Finalize.
func (c *TopCollector) Result() TopStats {
	return c.result
}

// Track looks up a track by its "<track> - <artist>" key.
func (c *TopCollector) Track(key string) (TrackStats, bool) {
	return c.tracks.lookup(key)
}

func (c *TopCollector) Artist(name string) (ArtistStats, bool) {
	return c.artists.lookup(name)
}

func (c *TopCollector) Album(title string) (AlbumStats, bool) {
	return c.albums.lookup(title)
}

// PodcastPlays returns the play count for a show.
func (c *TopCollector) PodcastPlays(show string) int64 {
	return c.podcasts.Get(show)
}
