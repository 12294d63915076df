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

var topArtistsNumber int
var topArtistsUnique bool
var topArtistsCmd = &cobra.Command{
	Use:   "top-artists [folder]",
	Short: "Gets the most streamed artists",
	Long:  `Ranks artists by streams, or with --unique by the number of distinct tracks they were first to be streamed with.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := printTopArtists(cmd.OutOrStdout(), args, topArtistsNumber, topArtistsUnique)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(topArtistsCmd)

	topArtistsCmd.Flags().IntVarP(&topArtistsNumber, "number", "n", 10, "number of results to return")
	topArtistsCmd.Flags().BoolVar(&topArtistsUnique, "unique", false, "rank by unique streams instead of streams")
}

func printTopArtists(out io.Writer, args []string, numToReturn int, unique bool) error {
	b, err := loadBundle(args)
	if err != nil {
		return err
	}

	analyser := TopArtistsAnalyzer{ByUniqueStreams: unique}.SetConfig(AnalyserConfig{numToReturn, 0})
	analysis, err := analyser.GetResults(b)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, analysis)
	return nil
}

type TopArtistsAnalyzer struct {
	Config AnalyserConfig

	ByUniqueStreams bool
}

func (t TopArtistsAnalyzer) SetConfig(config AnalyserConfig) TopArtistsAnalyzer {
	t.Config = config
	return t
}

func (t *TopArtistsAnalyzer) Configure(params map[string]string) error {
	return t.Config.Configure(params)
}

func (t TopArtistsAnalyzer) GetName() string {
	if t.ByUniqueStreams {
		return "Top artists by unique streams"
	}
	return "Top artists"
}

func (t TopArtistsAnalyzer) GetResults(b *stats.Bundle) (analysis Analysis, err error) {
	top := b.Top.Result()
	artists := top.Artists
	if t.ByUniqueStreams {
		artists = top.ArtistsByUnique
	}

	analysis.results = [][]string{{"Artist", "Streams", "Unique", "Skips", "First played"}}
	var numStreams int64
	for _, a := range artists {
		numStreams += a.StreamCount
		score := a.StreamCount
		if t.ByUniqueStreams {
			score = a.UniqueStreamCount
		}
		if t.Config.FilterThreshold > 0 && score <= t.Config.FilterThreshold {
			continue
		}
		if t.Config.NumToReturn > 0 && len(analysis.results) > t.Config.NumToReturn {
			continue
		}
		analysis.results = append(analysis.results, []string{
			a.Artist, count(a.StreamCount), count(a.UniqueStreamCount), count(a.SkipCount), a.FirstPlayed,
		})
	}

	analysis.summary = fmt.Sprintf("Found %d ranked artists with %d streams", len(artists), numStreams)
	return
}
