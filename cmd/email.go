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
	"html"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/streaming-history-tools/internal/logging"
	"github.com/ademuri/streaming-history-tools/internal/stats"
)

type SendEmailConfig struct {
	Folder         string
	From           string
	To             string
	Types          []string
	Params         []map[string]string
	DryRun         bool
	SendgridAPIKey string
}

var defaultEmailAnalyses = []string{"summary", "top-tracks", "top-artists", "top-albums", "top-podcasts", "top-years"}

var emailCmd = &cobra.Command{
	Use:   "email <address> [analysis_name...]",
	Short: "Sends an email report",
	Long: `Emails listening statistics for the --history folder to the specified address.
  <analysis_name> is one or more of: summary, top-tracks, top-artists, top-unique-artists,
  top-albums, top-podcasts, most-skipped, top-days, top-years.
  Defaults to summary, top-tracks, top-artists, top-albums, top-podcasts and top-years.`,
	Args: cobra.MinimumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetString("from") == "" {
			return fmt.Errorf("required flag(s) \"from\" not set")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		analysisTypes := args[1:]
		if len(analysisTypes) == 0 {
			analysisTypes = defaultEmailAnalyses
		}

		params, _ := cmd.Flags().GetStringArray("params")
		if len(params) > 0 && len(params) != len(analysisTypes) {
			fmt.Printf("Error: Number of --params flags (%d) must match number of reports (%d), or be 0.\n", len(params), len(analysisTypes))
			os.Exit(1)
		}

		folder, err := historyFolder(nil)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		config := SendEmailConfig{
			Folder:         folder,
			From:           viper.GetString("from"),
			To:             args[0],
			Types:          analysisTypes,
			Params:         parseParams(params, len(analysisTypes)),
			DryRun:         viper.GetBool("dryRun"),
			SendgridAPIKey: viper.GetString("sendgrid_api_key"),
		}
		err = sendEmail(cmd.OutOrStdout(), config)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(emailCmd)

	var dryRun bool
	emailCmd.Flags().BoolVarP(&dryRun, "dry_run", "n", false, "When true, just print instead of emailing")
	viper.BindPFlag("dryRun", emailCmd.Flags().Lookup("dry_run"))

	emailCmd.Flags().StringArray("params", nil, "Parameters for reports, matched by index (e.g. --params 'n=20,min=5')")
}

// parseParams turns "k=v,k2=v2" strings into one map per analysis.
func parseParams(params []string, n int) []map[string]string {
	structured := make([]map[string]string, n)
	for i, v := range params {
		pMap := make(map[string]string)
		if v != "" {
			for _, pair := range strings.Split(v, ",") {
				kv := strings.SplitN(pair, "=", 2)
				if len(kv) == 2 {
					pMap[kv[0]] = kv[1]
				}
			}
		}
		structured[i] = pMap
	}
	return structured
}

func sendEmail(out io.Writer, config SendEmailConfig) error {
	actions, err := configureActions(config)
	if err != nil {
		return err
	}

	b, err := stats.Compute(config.Folder)
	if err != nil {
		return fmt.Errorf("computing statistics: %w", err)
	}

	subject, body, err := generateEmailContent(config, b, actions)
	if err != nil {
		return err
	}

	if config.DryRun {
		fmt.Fprintf(out, "Would have sent email: \nsubject: %s\n%s\n", subject, body)
		return nil
	}

	if config.SendgridAPIKey == "" {
		return fmt.Errorf("sendgrid_api_key must be set in order to send emails")
	}

	from := mail.NewEmail("streaming-history-tools", config.From)
	to := mail.NewEmail(config.To, config.To)
	message := mail.NewSingleEmail(from, subject, to, "This report requires an HTML-capable mail client.", body)
	client := sendgrid.NewSendClient(config.SendgridAPIKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("sendEmail: %w", err)
	}
	if response.StatusCode >= 300 {
		return fmt.Errorf("sendEmail: status %d: %s", response.StatusCode, response.Body)
	}

	logging.Info().Str("to", config.To).Str("subject", subject).Msg("sent report email")
	return nil
}

func configureActions(config SendEmailConfig) ([]Analyser, error) {
	actions := make([]Analyser, 0, len(config.Types))
	for i, actionName := range config.Types {
		action, err := getActionFromName(actionName)
		if err != nil {
			return nil, err
		}

		if i < len(config.Params) && len(config.Params[i]) > 0 {
			configurable, ok := action.(Configurable)
			if !ok {
				return nil, fmt.Errorf("%s does not take parameters", actionName)
			}
			if err := configurable.Configure(config.Params[i]); err != nil {
				return nil, fmt.Errorf("configuring %s (index %d): %w", actionName, i, err)
			}
		}

		actions = append(actions, action)
	}
	return actions, nil
}

func generateEmailContent(config SendEmailConfig, b *stats.Bundle, actions []Analyser) (subject string, body string, err error) {
	var out strings.Builder
	out.WriteString(`
<html>
  <head>
<style>
td {
  padding: 0.1em 0.2em;
}
table, th, td {
  border: 1px solid black;
  border-collapse: collapse;
}
</style>
  </head>
  <body>
`)
	name := filepath.Base(filepath.Clean(config.Folder))
	for _, action := range actions {
		analysis, err := action.GetResults(b)
		if err != nil {
			return "", "", fmt.Errorf("getting results for %s: %w", action.GetName(), err)
		}

		out.WriteString("\t\t<div>\n")
		fmt.Fprintf(&out, "<h2>%s for %s:</h2>\n", html.EscapeString(action.GetName()), html.EscapeString(name))
		if len(analysis.results) <= 1 {
			out.WriteString("<div>No listens found.</div>\n")
		} else {
			out.WriteString("\t\t\t<table>\n\t\t\t\t<thead>\n\t\t\t\t\t<tr>\n")
			for _, header := range analysis.results[0] {
				fmt.Fprintf(&out, "<th>%s</th>", html.EscapeString(header))
			}
			out.WriteString("\t\t\t\t</tr>\n\t\t\t</thead>\n\t\t\t<tbody>\n")
			for _, row := range analysis.results[1:] {
				out.WriteString("<tr>\n")
				for _, column := range row {
					fmt.Fprintf(&out, "<td>%s</td>\n", html.EscapeString(column))
				}
				out.WriteString("</tr>\n")
			}
			out.WriteString("\t\t\t\t</tbody>\n\t\t\t</table>\n")
		}
		fmt.Fprintf(&out, "<div>%s</div>\n\t\t</div>\n", html.EscapeString(analysis.summary))
	}
	out.WriteString("  </body>\n</html>\n")

	subject = fmt.Sprintf("Listening report for %s", name)
	if first := b.General.Result().FirstTrackEver.TimeStamp; first != stats.NotAvailable {
		subject += " since " + first
	}
	return subject, out.String(), nil
}

func getActionFromName(actionName string) (Analyser, error) {
	// Pointers required for Configure.
	actionMap := map[string]Analyser{
		"summary":            &SummaryAnalyzer{},
		"top-tracks":         &TopTracksAnalyzer{Config: AnalyserConfig{20, 0}},
		"top-artists":        &TopArtistsAnalyzer{Config: AnalyserConfig{20, 0}},
		"top-unique-artists": &TopArtistsAnalyzer{Config: AnalyserConfig{20, 0}, ByUniqueStreams: true},
		"top-albums":         &TopAlbumsAnalyzer{Config: AnalyserConfig{20, 0}},
		"top-podcasts":       &TopPodcastsAnalyzer{Config: AnalyserConfig{10, 0}},
		"most-skipped":       &TopTracksAnalyzer{Config: AnalyserConfig{10, 0}, MostSkipped: true},
		"top-days":           &TopDaysAnalyzer{Config: AnalyserConfig{10, 0}},
		"top-years":          &TopYearsAnalyzer{},
	}

	action, ok := actionMap[actionName]
	if !ok {
		return nil, fmt.Errorf("Invalid analysis_name: %s", actionName)
	}

	return action, nil
}
