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
	"bytes"
	"strings"
	"testing"
)

func TestPrintTopN(t *testing.T) {
	b := createTestBundle(t)

	var out bytes.Buffer
	err := printTopN(&out, b, topNLimits{Tracks: 1, Artists: 10, Albums: 10, Podcasts: 5, Skipped: 5})
	if err != nil {
		t.Fatalf("printTopN failed: %v", err)
	}
	output := out.String()

	for _, section := range []string{"## Top tracks", "## Top artists", "## Top albums", "## Top podcasts", "## Most skipped tracks"} {
		if !strings.Contains(output, section) {
			t.Errorf("Output missing section %q. Got:\n%s", section, output)
		}
	}
	for _, want := range []string{"Opening", "Talk Show", "Other & Co", "2 tracks streamed without a single skip"} {
		if !strings.Contains(output, want) {
			t.Errorf("Output missing %q. Got:\n%s", want, output)
		}
	}
	// Only one track row fits in the top tracks table; Second shows up nowhere else.
	if strings.Contains(output, "Second") {
		t.Errorf("Output should not contain 'Second' when tracks=1. Got:\n%s", output)
	}
}

func TestPrintTopNHidesSections(t *testing.T) {
	b := createTestBundle(t)

	var out bytes.Buffer
	if err := printTopN(&out, b, topNLimits{Podcasts: 5}); err != nil {
		t.Fatalf("printTopN failed: %v", err)
	}
	output := out.String()
	if !strings.Contains(output, "## Top podcasts") {
		t.Errorf("Output missing podcasts section. Got:\n%s", output)
	}
	if strings.Contains(output, "## Top tracks") || strings.Contains(output, "## Top artists") {
		t.Errorf("Output should only contain podcasts. Got:\n%s", output)
	}
}

func TestTopArtistsAnalyzer(t *testing.T) {
	b := createTestBundle(t)

	analysis, err := TopArtistsAnalyzer{}.GetResults(b)
	if err != nil {
		t.Fatalf("GetResults error: %v", err)
	}
	if len(analysis.results) != 3 {
		t.Fatalf("Expected header and 2 artists, got %v", analysis.results)
	}
	if got := analysis.results[1]; got[0] != "Band" || got[1] != "3" || got[2] != "2" {
		t.Errorf("Expected Band with 3 streams and 2 unique, got %v", got)
	}

	filtered, err := TopArtistsAnalyzer{}.SetConfig(AnalyserConfig{FilterThreshold: 1}).GetResults(b)
	if err != nil {
		t.Fatalf("GetResults error: %v", err)
	}
	if len(filtered.results) != 2 {
		t.Errorf("Expected only Band above the threshold, got %v", filtered.results)
	}
}

func TestTopAlbumsAnalyzer(t *testing.T) {
	b := createTestBundle(t)

	analysis, err := TopAlbumsAnalyzer{Config: AnalyserConfig{NumToReturn: 1}}.GetResults(b)
	if err != nil {
		t.Fatalf("GetResults error: %v", err)
	}
	if len(analysis.results) != 2 {
		t.Fatalf("Expected header and 1 album, got %v", analysis.results)
	}
	if got := analysis.results[1]; got[0] != "First" || got[1] != "Band" || got[2] != "3" {
		t.Errorf("Unexpected album row %v", got)
	}
}

func TestTopDaysAnalyzer(t *testing.T) {
	b := createTestBundle(t)

	start, end, err := parseDateRangeFromArgs([]string{"2024-03"})
	if err != nil {
		t.Fatalf("parseDateRangeFromArgs error: %v", err)
	}
	analysis, err := TopDaysAnalyzer{Start: start, End: end}.GetResults(b)
	if err != nil {
		t.Fatalf("GetResults error: %v", err)
	}
	if len(analysis.results) != 3 {
		t.Fatalf("Expected header and 2 days, got %v", analysis.results)
	}
	if analysis.results[1][0] != "March 10, 2024" || analysis.results[2][0] != "March 9, 2024" {
		t.Errorf("Expected March 10 then March 9, got %v", analysis.results)
	}
	if analysis.summary != "Found 2 days with streams from 2024-03-01 to 2024-04-01" {
		t.Errorf("Unexpected summary %q", analysis.summary)
	}

	all, err := TopDaysAnalyzer{}.GetResults(b)
	if err != nil {
		t.Fatalf("GetResults error: %v", err)
	}
	if len(all.results) != 4 {
		t.Errorf("Expected header and 3 days, got %v", all.results)
	}
}

func TestPrintTopDaysUsesHistoryFlag(t *testing.T) {
	setHistory(t, createTestExport(t))

	var out bytes.Buffer
	if err := printTopDays(&out, []string{"2023"}, 10); err != nil {
		t.Fatalf("printTopDays failed: %v", err)
	}
	if !strings.Contains(out.String(), "December 31, 2023") {
		t.Errorf("Output missing December 31, 2023. Got:\n%s", out.String())
	}

	if err := printTopDays(&out, []string{"derp"}, 10); err == nil {
		t.Errorf("printTopDays should have errored with an invalid date string")
	}
}

func TestTopYearsAnalyzer(t *testing.T) {
	b := createTestBundle(t)

	analysis, err := TopYearsAnalyzer{}.GetResults(b)
	if err != nil {
		t.Fatalf("GetResults error: %v", err)
	}
	if len(analysis.results) != 3 {
		t.Fatalf("Expected header and 2 years, got %v", analysis.results)
	}
	if got := analysis.results[2]; got[0] != "2024" || got[1] != "2" || got[2] != "1" || got[4] != "1" {
		t.Errorf("Unexpected 2024 row %v", got)
	}
}

func TestAnalysisString(t *testing.T) {
	empty := Analysis{results: [][]string{{"Track", "Streams"}}, summary: "nothing"}
	if got := empty.String(); got != "No listens found.\nnothing\n" {
		t.Errorf("Unexpected empty rendering %q", got)
	}

	table := Analysis{results: [][]string{{"Track", "Streams"}, {"Opening", "2"}}}
	got := table.String()
	if !strings.Contains(got, "Opening") || !strings.Contains(strings.ToUpper(got), "STREAMS") {
		t.Errorf("Unexpected table rendering:\n%s", got)
	}
}

func TestAnalyserConfigConfigure(t *testing.T) {
	var c AnalyserConfig
	if err := c.Configure(map[string]string{"n": "20", "min": "5"}); err != nil {
		t.Fatalf("Configure error: %v", err)
	}
	if c.NumToReturn != 20 || c.FilterThreshold != 5 {
		t.Errorf("Unexpected config %+v", c)
	}

	for _, params := range []map[string]string{{"n": "x"}, {"min": "-1"}, {"tags": "5"}} {
		if err := c.Configure(params); err == nil {
			t.Errorf("Configure(%v) should have errored", params)
		}
	}
}
