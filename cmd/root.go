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
	"os"

	"github.com/spf13/cobra"
)

var version = "0.2.0"

var rootCmd = &cobra.Command{
	Use:   "mortgate",
	Short: "MORT Translation Gateway",
	Long: `A translation gateway for the MORT game-text client. Routes multi-segment
translation requests to LLM engines: a primary/secondary remote pair with
automatic failover, or a single local Ollama-compatible engine.

Configuration is read from the environment (ACTIVE_MODE, PRIMARY_CLOUD_*,
SECONDARY_CLOUD_*, LOCAL_API_*).

Use "mortgate serve --help" to run the gateway.`,
	Version: version,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
