/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ademuri/streaming-history-tools/internal/stats"
)

var (
	limitTracks   int
	limitArtists  int
	limitAlbums   int
	limitPodcasts int
	limitSkipped  int
)

var topNCmd = &cobra.Command{
	Use:   "top-n [folder]",
	Short: "Prints every leaderboard",
	Long:  `Prints top tracks, artists, albums and podcasts, and the most skipped tracks. A limit of 0 hides a section.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		b, err := loadBundle(args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		err = printTopN(cmd.OutOrStdout(), b, topNLimits{
			Tracks:   limitTracks,
			Artists:  limitArtists,
			Albums:   limitAlbums,
			Podcasts: limitPodcasts,
			Skipped:  limitSkipped,
		})
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(topNCmd)
	topNCmd.Flags().IntVar(&limitTracks, "tracks", 10, "Number of top tracks to show")
	topNCmd.Flags().IntVar(&limitArtists, "artists", 10, "Number of top artists to show")
	topNCmd.Flags().IntVar(&limitAlbums, "albums", 10, "Number of top albums to show")
	topNCmd.Flags().IntVar(&limitPodcasts, "podcasts", 5, "Number of top podcasts to show")
	topNCmd.Flags().IntVar(&limitSkipped, "skipped", 5, "Number of most skipped tracks to show")
}

type topNLimits struct {
	Tracks, Artists, Albums, Podcasts, Skipped int
}

func printTopN(out io.Writer, b *stats.Bundle, limits topNLimits) error {
	sections := []struct {
		limit    int
		analyser Analyser
	}{
		{limits.Tracks, TopTracksAnalyzer{Config: AnalyserConfig{NumToReturn: limits.Tracks}}},
		{limits.Artists, TopArtistsAnalyzer{Config: AnalyserConfig{NumToReturn: limits.Artists}}},
		{limits.Albums, TopAlbumsAnalyzer{Config: AnalyserConfig{NumToReturn: limits.Albums}}},
		{limits.Podcasts, TopPodcastsAnalyzer{Config: AnalyserConfig{NumToReturn: limits.Podcasts}}},
		{limits.Skipped, TopTracksAnalyzer{Config: AnalyserConfig{NumToReturn: limits.Skipped}, MostSkipped: true}},
	}

	for _, s := range sections {
		if s.limit <= 0 {
			continue
		}
		analysis, err := s.analyser.GetResults(b)
		if err != nil {
			return fmt.Errorf("%s: %w", s.analyser.GetName(), err)
		}
		fmt.Fprintf(out, "## %s\n", s.analyser.GetName())
		fmt.Fprintln(out, analysis)
	}
	return nil
}

// TopTracksAnalyzer ranks tracks by streams, or by skips when MostSkipped is
// set.
type TopTracksAnalyzer struct {
	Config AnalyserConfig

	MostSkipped bool
}

func (t *TopTracksAnalyzer) Configure(params map[string]string) error {
	return t.Config.Configure(params)
}

func (t TopTracksAnalyzer) GetName() string {
	if t.MostSkipped {
		return "Most skipped tracks"
	}
	return "Top tracks"
}

func (t TopTracksAnalyzer) GetResults(b *stats.Bundle) (analysis Analysis, err error) {
	top := b.Top.Result()
	tracks := top.Tracks
	if t.MostSkipped {
		tracks = top.MostSkipped
	}

	analysis.results = [][]string{{"Track", "Artist", "Streams", "Skips"}}
	for _, track := range tracks {
		score := track.StreamCount
		if t.MostSkipped {
			score = track.SkipCount
		}
		if t.Config.FilterThreshold > 0 && score <= t.Config.FilterThreshold {
			continue
		}
		if len(analysis.results) > t.Config.limit(len(tracks)) {
			break
		}
		analysis.results = append(analysis.results, []string{
			track.Track, track.Artist, count(track.StreamCount), count(track.SkipCount),
		})
	}

	if !t.MostSkipped {
		analysis.summary = fmt.Sprintf("%d tracks streamed without a single skip", len(top.NeverSkipped))
	}
	return
}

type TopPodcastsAnalyzer struct {
	Config AnalyserConfig
}

func (t *TopPodcastsAnalyzer) Configure(params map[string]string) error {
	return t.Config.Configure(params)
}

func (t TopPodcastsAnalyzer) GetName() string {
	return "Top podcasts"
}

func (t TopPodcastsAnalyzer) GetResults(b *stats.Bundle) (analysis Analysis, err error) {
	podcasts := b.Top.Result().Podcasts

	analysis.results = [][]string{{"Show", "Plays"}}
	for _, p := range podcasts[:t.Config.limit(len(podcasts))] {
		if t.Config.FilterThreshold > 0 && p.Count <= t.Config.FilterThreshold {
			continue
		}
		analysis.results = append(analysis.results, []string{p.Name, count(p.Count)})
	}
	return
}
