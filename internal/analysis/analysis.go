package analysis

import (
	"errors"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/ademuri/streaming-history-tools/internal/stats"
)

// Limits on how many entries each section of the report lists.
const (
	reportArtists  = 30
	reportAlbums   = 20
	reportTracks   = 30
	reportPodcasts = 10
)

// GenerateReport summarizes a computed bundle as a report.
func GenerateReport(b *stats.Bundle, now time.Time) (*Report, error) {
	if b == nil || b.Top == nil || b.General == nil || b.Daily == nil || b.Yearly == nil {
		return nil, errors.New("generating report: bundle has not been computed")
	}

	general := b.General.Result()
	top := b.Top.Result()
	years := sortedYears(b.Yearly.Years())

	report := &Report{}

	// 1. Metadata
	report.Metadata = ProfileMetadata{
		GeneratedDate: now.Format("2006-01-02"),
		Folder:        b.Folder,
		FilesRead:     b.Run.FilesParsed,
		FilesSkipped:  b.Run.FilesFailed,
		FirstPlay:     general.FirstTrackEver.TimeStamp,
		FirstTrack:    firstTrack(general.FirstTrackEver),
	}

	// 2. Totals
	report.Totals = Totals{
		Entries:          general.TotalEntries,
		Streams:          general.TotalStreams,
		UniqueTracks:     general.TotalUniqueStreams,
		Skips:            general.TotalSkippedTracks,
		MusicHours:       general.TotalMusicTime.Hours,
		PodcastHours:     general.TotalPodcastTime.Hours,
		EstimatedRevenue: general.TotalArtistRevenue,
	}

	// 3. Leaderboards
	peaks := peakYears(years)
	for _, a := range head(top.Artists, reportArtists) {
		report.TopArtists = append(report.TopArtists, ArtistStat{
			Name:         a.Artist,
			Streams:      a.StreamCount,
			UniqueTracks: a.UniqueStreamCount,
			Skips:        a.SkipCount,
			FirstPlayed:  a.FirstPlayed,
			PeakYears:    strings.Join(peaks[a.Artist], ", "),
		})
	}
	for _, a := range head(top.Albums, reportAlbums) {
		report.TopAlbums = append(report.TopAlbums, AlbumStat{
			Title:   a.Album,
			Artists: a.Artists,
			Streams: a.StreamCount,
			Hours:   round(a.Hours),
		})
	}
	for _, t := range head(top.Tracks, reportTracks) {
		report.TopTracks = append(report.TopTracks, TrackStat{
			Title:   t.Track,
			Artist:  t.Artist,
			Streams: t.StreamCount,
			Skips:   t.SkipCount,
		})
	}
	for _, p := range head(top.Podcasts, reportPodcasts) {
		report.TopPodcasts = append(report.TopPodcasts, PodcastStat{Show: p.Name, Plays: p.Count})
	}

	// 4. Years
	for _, y := range years {
		ys := YearStat{
			Year:          y.Year,
			Streams:       y.Streams,
			UniqueStreams: y.UniqueStreams,
			MusicHours:    round(y.MusicHours),
			PodcastPlays:  y.PodcastPlays,
			PodcastHours:  round(y.PodcastHours),
		}
		for _, a := range y.TopArtists {
			ys.TopArtists = append(ys.TopArtists, a.Name)
		}
		report.Years = append(report.Years, ys)
	}

	// 5. Listening Patterns
	report.ListeningPatterns = calculateListeningPatterns(general, b.Daily.DaysByHours(1))

	// Heuristic: half the entries on shuffle means the listener mostly
	// leaves ordering to the player.
	if general.PercentageTimeShuffled >= 50 {
		report.Metadata.ListeningStyle = "shuffle-oriented"
	} else {
		report.Metadata.ListeningStyle = "album-oriented"
	}

	return report, nil
}

func calculateListeningPatterns(general stats.GeneralStats, busiest []stats.DailyStats) ListeningPatterns {
	lp := ListeningPatterns{ShufflePercentage: general.PercentageTimeShuffled}
	if general.TotalEntries > 0 {
		lp.SkipRate = round(float64(general.TotalSkippedTracks) / float64(general.TotalEntries))
	}
	if general.TotalUniqueStreams > 0 {
		lp.RepeatListeningRatio = round(float64(general.TotalStreams) / float64(general.TotalUniqueStreams))
	}
	if len(busiest) > 0 {
		lp.BusiestDay = busiest[0].Date
		lp.BusiestDayHours = round(busiest[0].Hours)
	}
	if len(general.ReasonStart) > 0 {
		lp.TopStartReason = general.ReasonStart[0].Name
	}
	if len(general.ReasonSkipped) > 0 {
		lp.TopSkipReason = general.ReasonSkipped[0].Name
	}
	return lp
}

// -- Helpers --

func firstTrack(f stats.FirstTrack) string {
	if f.Track == stats.NotAvailable {
		return stats.NotAvailable
	}
	if f.Artist == "" {
		return f.Track
	}
	return f.Track + " - " + f.Artist
}

// peakYears lists, per artist, the years in which they made that year's top
// artists.
func peakYears(years []stats.YearlyStats) map[string][]string {
	peaks := make(map[string][]string)
	for _, y := range years {
		for _, a := range y.TopArtists {
			peaks[a.Name] = append(peaks[a.Name], y.Year)
		}
	}
	return peaks
}

func sortedYears(years []stats.YearlyStats) []stats.YearlyStats {
	out := make([]stats.YearlyStats, len(years))
	copy(out, years)
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

func head[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func round(f float64) float64 {
	return math.Round(f*100) / 100
}
