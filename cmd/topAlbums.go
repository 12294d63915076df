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

	"github.com/spf13/cobra"

	"github.com/ademuri/streaming-history-tools/internal/stats"
)

var topAlbumsNumber int
var topAlbumsCmd = &cobra.Command{
	Use:   "top-albums [folder]",
	Short: "Gets the most streamed albums",
	Long:  `Albums are keyed by title, so every artist seen streaming a title is listed with it.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := printTopAlbums(cmd.OutOrStdout(), args, topAlbumsNumber)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(topAlbumsCmd)

	topAlbumsCmd.Flags().IntVarP(&topAlbumsNumber, "number", "n", 10, "number of results to return")
}

func printTopAlbums(out io.Writer, args []string, numToReturn int) error {
	b, err := loadBundle(args)
	if err != nil {
		return err
	}

	analysis, err := TopAlbumsAnalyzer{Config: AnalyserConfig{numToReturn, 0}}.GetResults(b)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, analysis)
	return nil
}

type TopAlbumsAnalyzer struct {
	Config AnalyserConfig
}

func (t *TopAlbumsAnalyzer) Configure(params map[string]string) error {
	return t.Config.Configure(params)
}

func (t TopAlbumsAnalyzer) GetName() string {
	return "Top albums"
}

func (t TopAlbumsAnalyzer) GetResults(b *stats.Bundle) (analysis Analysis, err error) {
	albums := b.Top.Result().Albums

	analysis.results = [][]string{{"Album", "Artists", "Streams", "Hours"}}
	var numStreams int64
	for _, a := range albums {
		numStreams += a.StreamCount
		if t.Config.FilterThreshold > 0 && a.StreamCount <= t.Config.FilterThreshold {
			continue
		}
		if t.Config.NumToReturn > 0 && len(analysis.results) > t.Config.NumToReturn {
			continue
		}
		analysis.results = append(analysis.results, []string{
			a.Album, strings.Join(a.Artists, ", "), count(a.StreamCount), hoursString(a.Hours),
		})
	}

	analysis.summary = fmt.Sprintf("Found %d ranked albums with %d streams", len(albums), numStreams)
	return
}
