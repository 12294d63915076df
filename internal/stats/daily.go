package stats

import (
	"errors"
	"fmt"

	"github.com/ademuri/streaming-history-tools/internal/history"
)

// DayLayout formats day bucket keys, e.g. "March 9, 2024".
const DayLayout = "January 2, 2006"

type DailyStats struct {
	Date        string   `json:"date"`
	Streams     int64    `json:"streams"`
	Hours       float64  `json:"hours"`
	TopTracks   []Ranked `json:"topTracks"`
	TopArtists  []Ranked `json:"topArtists"`
	TopPodcasts []Ranked `json:"topPodcasts"`
}

type dayBucket struct {
	date     string
	streams  int64
	ms       int64
	tracks   *Counter
	artists  *Counter
	podcasts *Counter
}

// DailyCollector buckets plays of at least StreamThresholdMs by calendar day,
// in the offset each timestamp was recorded with.
type DailyCollector struct {
	Limit int

	days   *table[dayBucket]
	result []DailyStats
}

func NewDailyCollector() *DailyCollector {
	return &DailyCollector{
		Limit: EmbeddedLimit,
		days:  newTable[dayBucket](),
	}
}

func (c *DailyCollector) Collect(ev history.Event) error {
	if !IsStream(ev) {
		return nil
	}
	ts, err := ev.Time()
	if errors.Is(err, history.ErrNoTimestamp) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("daily stats: %w", err)
	}

	date := ts.Format(DayLayout)
	day := c.days.entry(date, func() dayBucket {
		return dayBucket{date: date, tracks: NewCounter(), artists: NewCounter(), podcasts: NewCounter()}
	})
	day.streams++
	day.ms += ev.MsPlayed
	if ev.TrackName != "" && ev.ArtistName != "" {
		day.tracks.Add(fmt.Sprintf("%s (%s)", ev.TrackName, ev.ArtistName), 1)
	}
	if ev.ArtistName != "" {
		day.artists.Add(ev.ArtistName, 1)
	}
	if ev.IsPodcast() {
		day.podcasts.Add(ev.PodcastShowName, 1)
	}
	return nil
}

func (c *DailyCollector) Finalize() {
	days := c.days.values()
	c.result = make([]DailyStats, len(days))
	for i, d := range days {
		c.result[i] = DailyStats{
			Date:        d.date,
			Streams:     d.streams,
			Hours:       hours(d.ms),
			TopTracks:   d.tracks.Top(c.Limit),
			TopArtists:  d.artists.Top(c.Limit),
			TopPodcasts: d.podcasts.Top(c.Limit),
		}
	}
}

// Days returns every finalized day in first-seen order.
func (c *DailyCollector) Days() []DailyStats {
	return c.result
}

// Day looks up a finalized day by its DayLayout key.
func (c *DailyCollector) Day(date string) (DailyStats, bool) {
	for _, d := range c.result {
		if d.Date == date {
			return d, true
		}
	}
	return DailyStats{}, false
}

// DaysByHours ranks days by listening time. A limit <= 0 returns all days.
func (c *DailyCollector) DaysByHours(limit int) []DailyStats {
	return topN(c.result, func(a, b DailyStats) bool { return a.Hours > b.Hours }, limit)
}
