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
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/streaming-history-tools/internal/api"
	"github.com/ademuri/streaming-history-tools/internal/logging"
	"github.com/ademuri/streaming-history-tools/internal/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves statistics over HTTP",
	Long: `Serves a read-only JSON API over the export folders under --data_root.
Each subdirectory is a session; only the most recently requested one is kept computed.`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetString("data_root") == "" {
			return fmt.Errorf("required flag(s) \"data_root\" not set")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		if err := serve(serveConfig()); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("listen", ":8080", "Address to listen on")
	viper.BindPFlag("listen", serveCmd.Flags().Lookup("listen"))

	serveCmd.Flags().String("data_root", "", "Folder holding one extracted export per subdirectory")
	viper.BindPFlag("data_root", serveCmd.Flags().Lookup("data_root"))

	serveCmd.Flags().Float64("rate_limit", 5, "Sustained session requests per second, 0 to disable")
	viper.BindPFlag("rate_limit", serveCmd.Flags().Lookup("rate_limit"))

	serveCmd.Flags().Int("rate_burst", 10, "Session requests allowed in a burst")
	viper.BindPFlag("rate_burst", serveCmd.Flags().Lookup("rate_burst"))

	serveCmd.Flags().StringSlice("allowed_origins", []string{"*"}, "CORS allowed origins")
	viper.BindPFlag("allowed_origins", serveCmd.Flags().Lookup("allowed_origins"))
}

func serveConfig() api.Config {
	return api.Config{
		DataRoot:       viper.GetString("data_root"),
		AllowedOrigins: viper.GetStringSlice("allowed_origins"),
		RateLimit:      viper.GetFloat64("rate_limit"),
		Burst:          viper.GetInt("rate_burst"),
	}
}

func serve(cfg api.Config) error {
	server := api.New(cfg, session.New(nil))
	httpServer := &http.Server{
		Addr:              viper.GetString("listen"),
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errs := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", httpServer.Addr).Str("data_root", cfg.DataRoot).Msg("starting server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		close(errs)
	}()

	select {
	case err := <-errs:
		if err != nil {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logging.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	logging.Info().Msg("server stopped")
	return nil
}
