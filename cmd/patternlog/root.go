package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "patternlog",
	Short: "Patternlog insight engine",
	Long: `Analytics for a personal behavior and medication log: period reports,
trends, correlations and the journal, served over HTTP or printed from the CLI.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Add subcommands
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(entriesCmd)
	rootCmd.AddCommand(migrateCmd)
}
