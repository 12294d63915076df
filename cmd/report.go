package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ademuri/streaming-history-tools/internal/analysis"
)

var reportCmd = &cobra.Command{
	Use:   "report [folder]",
	Short: "Generates a comprehensive listening report",
	Long:  `Analyzes a streaming history export to generate a detailed YAML report of top artists, albums and tracks, yearly totals, and listening patterns.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := runReport(cmd.OutOrStdout(), args)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating report: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func runReport(out io.Writer, args []string) error {
	b, err := loadBundle(args)
	if err != nil {
		return fmt.Errorf("computing statistics: %w", err)
	}

	report, err := analysis.GenerateReport(b, time.Now())
	if err != nil {
		return fmt.Errorf("analyzing data: %w", err)
	}

	encoder := yaml.NewEncoder(out)
	encoder.SetIndent(2)
	err = encoder.Encode(report)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}

	return encoder.Close()
}
