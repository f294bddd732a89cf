package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/materialsmc/mcdrive/internal/models"
	"github.com/materialsmc/mcdrive/internal/store"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List the recorded steps of the latest run",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of events to show, 0 for all")
}

func runHistory(cmd *cobra.Command, args []string) error {
	ledger, err := store.New(ledgerPath())
	if err != nil {
		return err
	}
	defer ledger.Close()

	run, err := ledger.LatestRun()
	if err != nil {
		return err
	}
	if run == nil {
		fmt.Println("No runs recorded.")
		return nil
	}

	events, err := ledger.ListEvents(run.ID, historyLimit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tSTEP\tTASK\tE_NEW\tE_OLD\tDECISION")
	for _, e := range events {
		switch e.Kind {
		case models.EventBootstrap:
			fmt.Fprintf(w, "boot\t-\t%s\t%.6f\t-\t-\n", e.TaskID, e.EnergyNew)
		default:
			decision := "reject"
			if e.Accepted {
				decision = "accept"
			}
			fmt.Fprintf(w, "step\t%d\t%s\t%.6f\t%.6f\t%s\n",
				e.Step, e.TaskID, e.EnergyNew, e.EnergyOld, decision)
		}
	}
	return w.Flush()
}
