package stats

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ademuri/streaming-history-tools/internal/history"
)

const (
	// NotAvailable fills FirstTrack fields when no timed music event exists.
	NotAvailable = "N/A"

	firstTrackLayout = "Monday, January 2, 2006 at 3:04 PM"
)

// revenuePerStream is a flat per-stream payout estimate in dollars.
var revenuePerStream = decimal.New(4, -3)

// TimeTotals reports one duration at three granularities. Each is truncated
// from the raw milliseconds independently.
type TimeTotals struct {
	Minutes int64 `json:"minutes"`
	Hours   int64 `json:"hours"`
	Days    int64 `json:"days"`
}

func NewTimeTotals(ms int64) TimeTotals {
	return TimeTotals{
		Minutes: ms / 60000,
		Hours:   ms / 3600000,
		Days:    ms / 86400000,
	}
}

type FirstTrack struct {
	Track     string `json:"track"`
	Artist    string `json:"artist"`
	TimeStamp string `json:"timeStamp"`
}

type GeneralStats struct {
	TotalEntries           int64      `json:"totalEntries"`
	TotalStreams           int64      `json:"totalStreams"`
	TotalUniqueStreams     int64      `json:"totalUniqueStreams"`
	TotalSkippedTracks     int64      `json:"totalSkippedTracks"`
	PercentageTimeShuffled int64      `json:"percentageTimeShuffled"`
	TotalMusicTime         TimeTotals `json:"totalMusicTime"`
	TotalPodcastTime       TimeTotals `json:"totalPodcastTime"`
	TotalArtistRevenue     string     `json:"totalArtistRevenue"`
	FirstTrackEver         FirstTrack `json:"firstTrackEver"`

	// Why tracks started, and why skipped tracks ended.
	ReasonStart   []Ranked `json:"reasonStart"`
	ReasonSkipped []Ranked `json:"reasonSkipped"`
}

// GeneralCollector accumulates corpus-wide totals. Only events with a track
// name count as entries; podcast time is tracked for any event with a show.
type GeneralCollector struct {
	entries      int64
	streams      int64
	skipped      int64
	shuffled     int64
	musicMs      int64
	podcastMs    int64
	uniqueTracks map[string]struct{}

	first    history.Event
	firstAt  time.Time
	hasFirst bool

	reasonStart   *Counter
	reasonSkipped *Counter

	result GeneralStats
}

func NewGeneralCollector() *GeneralCollector {
	return &GeneralCollector{
		uniqueTracks:  make(map[string]struct{}),
		reasonStart:   NewCounter(),
		reasonSkipped: NewCounter(),
	}
}

func (c *GeneralCollector) Collect(ev history.Event) error {
	if ev.TrackName != "" {
		c.entries++
		c.musicMs += ev.MsPlayed
		if ev.Shuffle {
			c.shuffled++
		}
		if IsStream(ev) {
			c.streams++
			c.uniqueTracks[ev.TrackName] = struct{}{}
		}
		if IsSkip(ev) {
			c.skipped++
			if ev.ReasonEnd != "" {
				c.reasonSkipped.Add(ev.ReasonEnd, 1)
			}
		}
		if ev.ReasonStart != "" {
			c.reasonStart.Add(ev.ReasonStart, 1)
		}
		// Events with unusable timestamps are not candidates.
		if ts, err := ev.Time(); err == nil && (!c.hasFirst || ts.Before(c.firstAt)) {
			c.first, c.firstAt, c.hasFirst = ev, ts, true
		}
	}

	if ev.IsPodcast() {
		c.podcastMs += ev.MsPlayed
	}
	return nil
}

func (c *GeneralCollector) Finalize() {
	c.result = GeneralStats{
		TotalEntries:           c.entries,
		TotalStreams:           c.streams,
		TotalUniqueStreams:     int64(len(c.uniqueTracks)),
		TotalSkippedTracks:     c.skipped,
		PercentageTimeShuffled: PercentShuffled(c.shuffled, c.entries),
		TotalMusicTime:         NewTimeTotals(c.musicMs),
		TotalPodcastTime:       NewTimeTotals(c.podcastMs),
		TotalArtistRevenue:     ArtistRevenue(c.streams),
		FirstTrackEver:         c.firstTrack(),
		ReasonStart:            c.reasonStart.Top(0),
		ReasonSkipped:          c.reasonSkipped.Top(0),
	}
}

func (c *GeneralCollector) firstTrack() FirstTrack {
	if !c.hasFirst {
		return FirstTrack{Track: NotAvailable, Artist: NotAvailable, TimeStamp: NotAvailable}
	}
	return FirstTrack{
		Track:     c.first.TrackName,
		Artist:    c.first.ArtistName,
		TimeStamp: c.firstAt.Format(firstTrackLayout),
	}
}

func (c *GeneralCollector) Result() GeneralStats {
	return c.result
}

// PercentShuffled rounds shuffled/entries to a whole percentage, or 0 when
// there are no entries.
func PercentShuffled(shuffled, entries int64) int64 {
	if entries == 0 {
		return 0
	}
	return int64(math.Round(float64(shuffled) / float64(entries) * 100))
}

// ArtistRevenue estimates payouts for streams, rounded to cents.
func ArtistRevenue(streams int64) string {
	return decimal.NewFromInt(streams).Mul(revenuePerStream).StringFixed(2)
}
