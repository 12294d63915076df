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
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/ademuri/streaming-history-tools/internal/stats"
)

type Analysis struct {
	results [][]string
	summary string
}

type AnalyserConfig struct {
	// Number of results to return, default is all results.
	NumToReturn int

	// Only return results with more streams than this. Default is all results.
	FilterThreshold int64
}

type Analyser interface {
	GetResults(b *stats.Bundle) (Analysis, error)

	GetName() string
}

type Configurable interface {
	Configure(params map[string]string) error
}

func (a Analysis) String() string {
	out := new(bytes.Buffer)
	if len(a.results) > 1 {
		table := tablewriter.NewWriter(out)
		table.Header(a.results[0])
		for _, row := range a.results[1:] {
			if err := table.Append(row); err != nil {
				return fmt.Sprintf("Error rendering table: %v", err)
			}
		}
		if err := table.Render(); err != nil {
			return fmt.Sprintf("Error rendering table: %v", err)
		}
	} else {
		fmt.Fprintln(out, "No listens found.")
	}
	if a.summary != "" {
		fmt.Fprintf(out, "%s\n", a.summary)
	}
	return out.String()
}

// Configure reads "n" (number of rows) and "min" (stream threshold).
func (c *AnalyserConfig) Configure(params map[string]string) error {
	if v, ok := params["n"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid n %q", v)
		}
		c.NumToReturn = n
	}
	if v, ok := params["min"]; ok {
		min, err := strconv.ParseInt(v, 10, 64)
		if err != nil || min < 0 {
			return fmt.Errorf("invalid min %q", v)
		}
		c.FilterThreshold = min
	}
	for k := range params {
		if k != "n" && k != "min" {
			return fmt.Errorf("unknown parameter %q", k)
		}
	}
	return nil
}

// limit trims rows to NumToReturn, keeping all when it is zero.
func (c AnalyserConfig) limit(n int) int {
	if c.NumToReturn > 0 && c.NumToReturn < n {
		return c.NumToReturn
	}
	return n
}

func count(n int64) string {
	return strconv.FormatInt(n, 10)
}

func hoursString(h float64) string {
	return strconv.FormatFloat(h, 'f', 1, 64)
}
