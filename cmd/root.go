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
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/ademuri/streaming-history-tools/internal/logging"
	"github.com/ademuri/streaming-history-tools/internal/stats"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "streaming-history-tools",
	Short: "Computes listening statistics from a streaming history export",
	Long: `Reads an extracted streaming history export (a folder of JSON arrays of
play records) and reports top tracks, artists, albums and podcasts, overall
totals, and per-day and per-year breakdowns.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(logging.Config{
			Level:  viper.GetString("log_level"),
			Format: viper.GetString("log_format"),
		})
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default is $HOME/.streaming-history-tools.yaml)")

	var history string
	rootCmd.PersistentFlags().StringVarP(
		&history, "history", "H", "", "Path to the extracted export folder")
	viper.BindPFlag("history", rootCmd.PersistentFlags().Lookup("history"))

	var logLevel string
	rootCmd.PersistentFlags().StringVar(&logLevel, "log_level", "warn", "Log level: trace, debug, info, warn, error, disabled")
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log_level"))

	var logFormat string
	rootCmd.PersistentFlags().StringVar(&logFormat, "log_format", "console", "Log format: json or console")
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log_format"))

	var from string
	rootCmd.PersistentFlags().StringVar(&from, "from", "", "From email address")
	viper.BindPFlag("from", rootCmd.PersistentFlags().Lookup("from"))

	var sendgridKey string
	rootCmd.PersistentFlags().StringVar(&sendgridKey, "sendgrid_api_key", "", "SendGrid API key")
	viper.BindPFlag("sendgrid_api_key", rootCmd.PersistentFlags().Lookup("sendgrid_api_key"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".streaming-history-tools" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".streaming-history-tools")
	}

	// STREAMING_HISTORY_DATA_ROOT and friends.
	viper.SetEnvPrefix("streaming_history")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	// See https://github.com/spf13/viper/pull/852
	rootCmd.Flags().VisitAll(func(f *pflag.Flag) {
		if viper.IsSet(f.Name) && viper.GetString(f.Name) != "" {
			rootCmd.Flags().Set(f.Name, viper.GetString(f.Name))
		}
	})
}

// historyFolder picks the export folder: an explicit positional argument wins
// over --history.
func historyFolder(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if folder := viper.GetString("history"); folder != "" {
		return folder, nil
	}
	return "", fmt.Errorf("required flag(s) \"history\" not set")
}

func loadBundle(args []string) (*stats.Bundle, error) {
	folder, err := historyFolder(args)
	if err != nil {
		return nil, err
	}
	b, err := stats.Compute(folder)
	if err != nil {
		return nil, err
	}
	if b.Run.FilesParsed == 0 {
		fmt.Fprintf(os.Stderr, "No readable history files found in %s\n", folder)
	}
	return b, nil
}
