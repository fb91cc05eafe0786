package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "epochtree",
		Short: "Epochtree - epoch organization for electrophysiology data",
		Long: `epochtree organizes electrophysiology trial data into navigable
hierarchies.

It imports epoch archives, regroups them by arbitrary metadata rules,
tracks per-epoch inclusion for analysis, extracts epoch-aligned trace
matrices, and reconstructs stimulus waveforms from their generator
parameters.`,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON (for pipeline consumption)")
	rootCmd.PersistentFlags().String("config", "", "Config file path (default ~/.epochtree/config.yaml)")
	rootCmd.PersistentFlags().String("store", "", "SQLite trace store path (overrides config)")

	// Add subcommands
	rootCmd.AddCommand(
		newVersionCmd(),
		newInspectCmd(),
		newTreeCmd(),
		newSelectCmd(),
		newMatrixCmd(),
		newReconstructCmd(),
		newGeneratorsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
