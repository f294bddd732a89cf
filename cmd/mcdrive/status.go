package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/materialsmc/mcdrive/internal/store"
	"github.com/materialsmc/mcdrive/internal/workdir"
	"github.com/spf13/cobra"
)

var statusWorkers int

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show a snapshot of the working directory and latest run",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().IntVar(&statusWorkers, "workers", 4, "Number of slots to inspect when no run is recorded")
}

var (
	statusHeader = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	statusBusy   = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	statusIdle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

func runStatus(cmd *cobra.Command, args []string) error {
	layout := workdir.Layout{Root: workRoot}

	fmt.Println(statusHeader.Render("mcdrive status"))

	workers := statusWorkers
	dbPath := ledgerPath()
	if _, err := os.Stat(dbPath); err == nil {
		ledger, err := store.New(dbPath)
		if err != nil {
			return err
		}
		defer ledger.Close()
		run, err := ledger.LatestRun()
		if err != nil {
			return err
		}
		if run != nil {
			workers = run.Workers
			state := "running"
			if run.EndedAt != nil {
				state = "finished"
			}
			fmt.Printf("run %s  %s\n", run.ID, state)
			fmt.Printf("  input=%s steps=%d/%d accepted=%d temp=%g\n",
				run.Input, run.FinalSteps, run.StepsBudget, run.FinalAccepts, run.Temperature)
		}
	}

	n, err := workdir.NewCounter(layout.CounterPath()).Read()
	if err != nil {
		return err
	}
	fmt.Printf("archived acceptances: %d\n", n)

	states, err := workdir.NewSlots(layout, workers).States()
	if err != nil {
		return err
	}
	parts := make([]string, len(states))
	for i, st := range states {
		label := fmt.Sprintf("%d:%s", i+1, st)
		if st == workdir.SlotBusy {
			parts[i] = statusBusy.Render(label)
		} else {
			parts[i] = statusIdle.Render(label)
		}
	}
	fmt.Printf("slots: %s\n", strings.Join(parts, "  "))

	reports, err := layout.ListReports()
	if err == nil {
		fmt.Printf("pending reports: %d\n", len(reports))
	}
	return nil
}

// ledgerPath resolves the ledger database under the working root,
// honoring the MCDRIVE_DB override.
func ledgerPath() string {
	path := os.Getenv("MCDRIVE_DB")
	if path == "" {
		path = "mcdrive.db"
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(workRoot, path)
	}
	return path
}
