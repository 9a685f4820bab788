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
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/valpere/mortgate/internal/config"
	"github.com/valpere/mortgate/internal/detector"
	"github.com/valpere/mortgate/internal/router"
	"github.com/valpere/mortgate/internal/segment"
	"github.com/valpere/mortgate/internal/store"
	"github.com/valpere/mortgate/internal/validator"
)

var (
	inputFile  string
	outputFile string
	sourceLang string
	targetLang string
	noCache    bool
	verbose    bool
)

var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Translate a MORT text file from the command line",
	Long: `Translate a file of separator-delimited segments without running the HTTP
server. Engine selection and credentials are read from the environment, the
same way "mortgate serve" reads them.

Useful for smoke-testing engine configuration and for offline batch work.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if inputFile == outputFile {
			return fmt.Errorf("input file and output file cannot be the same")
		}

		raw, err := os.ReadFile(inputFile)
		if err != nil {
			return fmt.Errorf("failed to read input file: %w", err)
		}
		text := string(raw)

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		var logger *log.Logger
		if verbose {
			logger = log.New(os.Stderr, "", log.LstdFlags)
		}

		engines, err := buildEngines(cfg, logger)
		if err != nil {
			return err
		}

		opts := router.Options{
			Mode:       cfg.Mode,
			Separator:  cfg.Separator,
			Timeout:    cfg.RequestTimeout,
			Detector:   detector.New(),
			Verifier:   validator.New(),
			Logger:     logger,
			ControlLog: verbose,
		}
		if !noCache && cfg.CacheDBPath != "" {
			db, err := store.New(cfg.CacheDBPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close()
			opts.Cache = db
		}
		r := router.New(engines, opts)

		requestID := uuid.NewString()
		res := r.Translate(cmd.Context(), text, sourceLang, targetLang, requestID)
		if !res.OK() {
			return fmt.Errorf("translation failed (%s): %s", res.ErrorCode, res.ErrorMessage)
		}

		final := segment.Normalize(segment.Encode(res.Segments, cfg.Separator), cfg.Separator)

		if outputFile == "" {
			fmt.Println(final)
			return nil
		}
		if dir := filepath.Dir(outputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		if err := os.WriteFile(outputFile, []byte(final), 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Translated with %s (%s) -> %s\n", res.EngineName, res.Model, outputFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input file with separator-delimited segments (required)")
	translateCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	translateCmd.Flags().StringVarP(&sourceLang, "source", "s", "auto", "Source language code")
	translateCmd.Flags().StringVarP(&targetLang, "target", "t", "uk", "Target language code")
	translateCmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the translation memory cache")
	translateCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log engine calls to stderr")

	translateCmd.MarkFlagRequired("input")
}
