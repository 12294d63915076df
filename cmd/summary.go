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
	"os"

	"github.com/spf13/cobra"

	"github.com/ademuri/streaming-history-tools/internal/stats"
)

var summaryCmd = &cobra.Command{
	Use:   "summary [folder]",
	Short: "Prints overall listening totals",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		b, err := loadBundle(args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		analysis, err := (&SummaryAnalyzer{}).GetResults(b)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		fmt.Fprint(cmd.OutOrStdout(), analysis)
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

type SummaryAnalyzer struct{}

func (t *SummaryAnalyzer) GetName() string {
	return "Summary"
}

func (t *SummaryAnalyzer) GetResults(b *stats.Bundle) (Analysis, error) {
	g := b.General.Result()
	first := g.FirstTrackEver

	results := [][]string{
		{"Statistic", "Value"},
		{"Entries", count(g.TotalEntries)},
		{"Streams", count(g.TotalStreams)},
		{"Unique tracks", count(g.TotalUniqueStreams)},
		{"Skipped tracks", count(g.TotalSkippedTracks)},
		{"Shuffled", fmt.Sprintf("%d%%", g.PercentageTimeShuffled)},
		{"Music time", formatTotals(g.TotalMusicTime)},
		{"Podcast time", formatTotals(g.TotalPodcastTime)},
		{"Estimated artist revenue", "$" + g.TotalArtistRevenue},
		{"First track", fmt.Sprintf("%s by %s", first.Track, first.Artist)},
		{"First played", first.TimeStamp},
	}

	analysis := Analysis{results: results}
	if b.Run.FilesFailed > 0 {
		analysis.summary = fmt.Sprintf("Read %d files, skipped %d unreadable files.", b.Run.FilesParsed, b.Run.FilesFailed)
	} else {
		analysis.summary = fmt.Sprintf("Read %d files.", b.Run.FilesParsed)
	}
	return analysis, nil
}

func formatTotals(t stats.TimeTotals) string {
	return fmt.Sprintf("%d minutes (%d hours, %d days)", t.Minutes, t.Hours, t.Days)
}
