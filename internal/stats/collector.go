// Package stats computes listening statistics in a single pass over an export.
//
// Each statistic family lives in its own Collector. Run feeds every event to
// every collector in order, then Compute finalizes them into a Bundle.
package stats

import "github.com/ademuri/streaming-history-tools/internal/history"

// Collector accumulates one family of statistics.
type Collector interface {
	// Collect is called once per event, in file order. A returned error
	// abandons the rest of the current file.
	Collect(ev history.Event) error

	// Finalize sorts and trims the accumulated state. It is idempotent.
	Finalize()
}

const (
	// StreamThresholdMs is the minimum play time for a music play to count.
	StreamThresholdMs = 30000

	// PodcastThresholdMs must be exceeded for a podcast play to count.
	PodcastThresholdMs = 5000

	// SkipThresholdMs is the longest play time that can still be a skip.
	SkipThresholdMs = 5000

	GlobalLimit   = 50
	EmbeddedLimit = 5
)

var skipReasons = map[string]bool{
	"backbtn": true,
	"unknown": true,
	"endplay": true,
	"fwdbtn":  true,
}

// IsStream reports whether the event counts as a genuine play.
func IsStream(ev history.Event) bool {
	return ev.MsPlayed >= StreamThresholdMs
}

// IsPodcastPlay reports whether the event clears the podcast play bar. It
// does not check for a show name.
func IsPodcastPlay(ev history.Event) bool {
	return ev.MsPlayed > PodcastThresholdMs
}

// IsSkip applies the skip rule: a short play that was either flagged as
// skipped or ended by the user.
func IsSkip(ev history.Event) bool {
	return ev.MsPlayed <= SkipThresholdMs && (ev.Skipped || skipReasons[ev.ReasonEnd])
}

func hours(ms int64) float64 {
	return float64(ms) / 1000 / 60 / 60
}
