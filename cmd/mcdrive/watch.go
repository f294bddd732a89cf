package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/materialsmc/mcdrive/internal/store"
	"github.com/materialsmc/mcdrive/internal/tui"
	"github.com/materialsmc/mcdrive/internal/workdir"
	"github.com/spf13/cobra"
)

var watchWorkers int

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch a running Monte Carlo search interactively",
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().IntVar(&watchWorkers, "workers", 4, "Number of slots to display when no run is recorded")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ledger, err := store.New(ledgerPath())
	if err != nil {
		return err
	}
	defer ledger.Close()

	layout := workdir.Layout{Root: workRoot}
	model := tui.New(ledger, layout, watchWorkers)
	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}
