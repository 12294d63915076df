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
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ademuri/streaming-history-tools/internal/stats"
)

var topDaysNumber int
var topDaysCmd = &cobra.Command{
	Use:   "top-days [from] [to (optional)]",
	Short: "Ranks days by hours listened",
	Long: `Lists the days with the most listening time, optionally restricted to a date or date range.
Date strings look like 'yyyy', 'yyyy-mm', 'yyyy-mm-dd', or a relative '30d', '12w', '6m', '1y'.
The export folder comes from --history.`,
	Args: cobra.RangeArgs(0, 2),
	Run: func(cmd *cobra.Command, args []string) {
		err := printTopDays(cmd.OutOrStdout(), args, topDaysNumber)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(topDaysCmd)

	topDaysCmd.Flags().IntVarP(&topDaysNumber, "number", "n", 10, "number of results to return")
}

func printTopDays(out io.Writer, args []string, numToReturn int) error {
	analyser := TopDaysAnalyzer{Config: AnalyserConfig{numToReturn, 0}}
	if len(args) > 0 {
		start, end, err := parseDateRangeFromArgs(args)
		if err != nil {
			return err
		}
		analyser.Start, analyser.End = start, end
	}

	b, err := loadBundle(nil)
	if err != nil {
		return err
	}
	analysis, err := analyser.GetResults(b)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, analysis)
	return nil
}

// TopDaysAnalyzer ranks days by hours. A zero Start and End means every day.
type TopDaysAnalyzer struct {
	Config AnalyserConfig

	Start time.Time
	End   time.Time
}

func (t *TopDaysAnalyzer) Configure(params map[string]string) error {
	return t.Config.Configure(params)
}

func (t TopDaysAnalyzer) GetName() string {
	return "Top days"
}

func (t TopDaysAnalyzer) GetResults(b *stats.Bundle) (analysis Analysis, err error) {
	analysis.results = [][]string{{"Date", "Hours", "Streams", "Top artists", "Top tracks"}}

	var numDays int
	for _, d := range b.Daily.DaysByHours(0) {
		in, err := t.includes(d.Date)
		if err != nil {
			return analysis, err
		}
		if !in || (t.Config.FilterThreshold > 0 && d.Streams <= t.Config.FilterThreshold) {
			continue
		}
		numDays++
		if t.Config.NumToReturn > 0 && numDays > t.Config.NumToReturn {
			continue
		}
		analysis.results = append(analysis.results, []string{
			d.Date, hoursString(d.Hours), count(d.Streams), names(d.TopArtists), names(d.TopTracks),
		})
	}

	const dateFormat = "2006-01-02"
	if t.Start.IsZero() {
		analysis.summary = fmt.Sprintf("Found %d days with streams", numDays)
	} else {
		analysis.summary = fmt.Sprintf("Found %d days with streams from %s to %s",
			numDays, t.Start.Format(dateFormat), t.End.Format(dateFormat))
	}
	return
}

func (t TopDaysAnalyzer) includes(date string) (bool, error) {
	if t.Start.IsZero() && t.End.IsZero() {
		return true, nil
	}
	day, err := time.Parse(stats.DayLayout, date)
	if err != nil {
		return false, fmt.Errorf("parsing day %q: %w", date, err)
	}
	// Relative starts carry a time of day; compare whole days.
	start := time.Date(t.Start.Year(), t.Start.Month(), t.Start.Day(), 0, 0, 0, 0, time.UTC)
	return !day.Before(start) && day.Before(t.End), nil
}

func names(ranked []stats.Ranked) string {
	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.Name
	}
	return strings.Join(out, ", ")
}
