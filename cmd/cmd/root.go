/*
Copyright © 2025 Your Name

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

	"github.com/spf13/cobra"

	"dealwire/internal/config"
	"dealwire/internal/logger"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dealwire",
	Short: "Dealwire turns M&A press releases into a structured deals newsletter.",
	Long: `Dealwire enriches raw M&A press releases into structured deal records
and renders them as a newsletter issue.

Each article is run through a deterministic extraction pipeline (date
normalization, summary, deal value) plus an optional generative step whose
structured claims are verified against the source text before use. Fields
that cannot be verified are published as "NA", never invented.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.dealwire.yaml)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if _, err := config.Load(cfgFile); err != nil {
		logger.Error("Failed to load configuration", err)
		os.Exit(1)
	}
}
