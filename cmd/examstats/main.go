// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the examstats CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the examstats CLI.
var rootCmd = &cobra.Command{
	Use:   "examstats",
	Short: "Parse ham-radio exam result sheets into structured records and statistics",
	Long: `examstats converts exam result reports (PDF or plain text) into structured
records and aggregate accuracy statistics: per question, per section, and
per subsection, across one or many exam sittings.

PDF inputs are rendered to text through Ghostscript's txtwrite device or
pdftotext. Use "parse" for one-shot runs and "archive" to accumulate
sittings over time.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./examstats.yaml or ~/.config/examstats/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("examstats")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "examstats"))
		}
	}

	viper.SetEnvPrefix("EXAMSTATS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
