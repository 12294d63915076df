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
	"sort"

	"github.com/spf13/cobra"

	"github.com/ademuri/streaming-history-tools/internal/stats"
)

var topYearsCmd = &cobra.Command{
	Use:   "top-years [folder]",
	Short: "Prints listening totals per calendar year",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		b, err := loadBundle(args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		analysis, err := TopYearsAnalyzer{}.GetResults(b)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		fmt.Fprintln(cmd.OutOrStdout(), analysis)
	},
}

func init() {
	rootCmd.AddCommand(topYearsCmd)
}

type TopYearsAnalyzer struct{}

func (t TopYearsAnalyzer) GetName() string {
	return "Years"
}

func (t TopYearsAnalyzer) GetResults(b *stats.Bundle) (analysis Analysis, err error) {
	years := append([]stats.YearlyStats(nil), b.Yearly.Years()...)
	sort.Slice(years, func(i, j int) bool { return years[i].Year < years[j].Year })

	analysis.results = [][]string{{"Year", "Streams", "Unique", "Music hours", "Podcast plays", "Podcast hours", "Top artists"}}
	var numStreams int64
	for _, y := range years {
		numStreams += y.Streams
		analysis.results = append(analysis.results, []string{
			y.Year,
			count(y.Streams),
			count(y.UniqueStreams),
			hoursString(y.MusicHours),
			count(y.PodcastPlays),
			hoursString(y.PodcastHours),
			names(y.TopArtists),
		})
	}
	analysis.summary = fmt.Sprintf("Found %d streams across %d years", numStreams, len(years))
	return
}
