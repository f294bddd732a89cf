package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mcdrive",
	Short: "mcdrive - Metropolis Monte Carlo structure-search orchestrator",
	Long: `mcdrive drives a Metropolis Monte Carlo search over atomic-structure
configurations, farming out energy evaluations to external worker
processes through a shared working directory.`,
	// No RunE - defaults to showing help when no subcommand is provided
}

var workRoot string

func init() {
	rootCmd.PersistentFlags().StringVar(&workRoot, "root", ".", "Working directory shared with the workers")

	// Add subcommands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
