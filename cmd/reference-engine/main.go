// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the reference-engine CLI, the
// application-layer driver for the reconciliation and citation library.
// The engine packages under internal/ stay free of any entry point of
// their own. See docs/ARCHITECTURE.md § CLI surface.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/reference-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the reference-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "reference-engine",
	Short: "Reconcile, deduplicate, cite, and export bibliographies",
	Long: `reference-engine reconciles a user's bibliography against registry-reported
canonical records. Each stage is a subcommand: import loads a reference list
into a job, dedupe finds duplicate groups, review shows and commits
correction decisions, cite formats a single reference, and export writes
the job in a chosen file format.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./reference-engine.yaml or ~/.config/reference-engine/config.yaml)")
	rootCmd.PersistentFlags().String("jobs-dir", "", "base directory for job databases")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("reference-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "reference-engine"))
		}
	}

	viper.SetEnvPrefix("REFERENCE_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// storeConfig resolves the job store settings from flag, then config file.
func storeConfig(cmd *cobra.Command) types.StoreConfig {
	jobsDir, _ := cmd.Flags().GetString("jobs-dir")
	if jobsDir == "" {
		jobsDir = viper.GetString("store.jobs_dir")
	}
	if jobsDir == "" {
		jobsDir = "jobs"
	}
	return types.StoreConfig{JobsDir: jobsDir}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
