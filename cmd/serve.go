/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

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
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/valpere/mortgate/internal/config"
	"github.com/valpere/mortgate/internal/detector"
	"github.com/valpere/mortgate/internal/monitor"
	"github.com/valpere/mortgate/internal/router"
	"github.com/valpere/mortgate/internal/server"
	"github.com/valpere/mortgate/internal/store"
	"github.com/valpere/mortgate/internal/validator"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the translation gateway",
	Long: `Start the HTTP gateway the MORT client connects to. The gateway reads its
configuration from the environment, probes engine health in the background,
and routes /translate requests with automatic failover.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		logger := log.New(os.Stderr, "", log.LstdFlags)

		engines, err := buildEngines(cfg, logger)
		if err != nil {
			return err
		}

		var db *store.Store
		if cfg.CacheDBPath != "" {
			db, err = store.New(cfg.CacheDBPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close()
			logger.Printf("translation memory: %s", cfg.CacheDBPath)
		}

		opts := router.Options{
			Mode:       cfg.Mode,
			Separator:  cfg.Separator,
			Timeout:    cfg.RequestTimeout,
			Detector:   detector.New(),
			Verifier:   validator.New(),
			Logger:     logger,
			ControlLog: cfg.ControlLog,
		}
		if db != nil {
			opts.Cache = db
		}
		r := router.New(engines, opts)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		mon := monitor.New(engines, cfg.ProbeInterval, cfg.FailureThreshold, logger)
		mon.Start(ctx)

		srv := server.New(server.Options{
			Router:     r,
			Store:      db,
			Logger:     logger,
			ControlLog: cfg.ControlLog,
		})
		return srv.Start(ctx, cfg.ServerHost, cfg.ServerPort)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
