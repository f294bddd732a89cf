package orchestrator

import (
	"log"
	"os"
	"path/filepath"

	"github.com/materialsmc/mcdrive/internal/mc"
	"github.com/materialsmc/mcdrive/internal/workdir"
)

// drainReports processes every report present in the inbox at listing
// time, stopping early the moment the step budget is reached. Returns
// whether any report was consumed.
func (o *Orchestrator) drainReports() bool {
	reports, err := o.layout.ListReports()
	if err != nil {
		log.Printf("Warning: %v", err)
		return false
	}
	processed := false
	for _, path := range reports {
		if o.processReport(path) {
			processed = true
		}
		if o.state.Steps >= o.cfg.Steps {
			break
		}
	}
	return processed
}

// processReport consumes one report exactly once: the file is deleted
// whatever the outcome. Returns true when the report advanced the
// chain (bootstrap or counted step); malformed and error reports are
// logged and discarded without counting.
func (o *Orchestrator) processReport(path string) bool {
	defer func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("Warning: cannot remove report %s: %v", path, err)
		}
	}()

	rep, err := workdir.ParseReportFile(path)
	if err != nil {
		log.Printf("Warning: %v", err)
		return false
	}
	if rep.Status == workdir.StatusError {
		msg := rep.Error
		if msg == "" {
			msg = "<no_msg>"
		}
		log.Printf("Warning: report %s carries worker error: %s", filepath.Base(path), msg)
		return false
	}
	if !rep.HasEnergy() {
		log.Printf("Warning: report %s has missing or non-finite energy_final", filepath.Base(path))
		return false
	}
	energy := *rep.EnergyFinal

	if !o.state.HasState {
		// First-ever valid report: adopt as the initial accepted
		// state. Not a proposal, not counted against the budget.
		o.state.Bootstrap(energy)
		o.publishAccepted(rep.TaskID)
		o.log.InitialState(rep.TaskID, energy)
		if o.store != nil {
			if err := o.store.RecordBootstrap(o.runID, rep.TaskID, energy); err != nil {
				log.Printf("Warning: ledger bootstrap record failed: %v", err)
			}
		}
		return true
	}

	o.state.Steps++
	accepted := mc.Accept(o.state.CurrentEnergy, energy, o.cfg.Temperature, o.rng)
	o.log.Step(o.state.Steps, rep.TaskID, energy, o.state.CurrentEnergy, accepted)
	if o.store != nil {
		if err := o.store.RecordStep(o.runID, o.state.Steps, rep.TaskID, energy, o.state.CurrentEnergy, accepted); err != nil {
			log.Printf("Warning: ledger step record failed: %v", err)
		}
	}

	if accepted {
		o.publishAccepted(rep.TaskID)
		o.state.CurrentEnergy = energy
		o.state.Accepts++
		if err := o.archive(rep.TaskID, energy); err != nil {
			log.Printf("Warning: archive failed for task %s: %v", rep.TaskID, err)
		}
	}
	return true
}

// publishAccepted copies the task's refined artifacts over the global
// accepted-state files. A missing artifact keeps the previous file in
// place, with a warning.
func (o *Orchestrator) publishAccepted(taskID string) {
	outbox := o.layout.OutboxDir(taskID)
	o.copyArtifact(filepath.Join(outbox, "SAVE"), o.layout.SavePath())
	o.copyArtifact(filepath.Join(outbox, "CONTCAR"), o.layout.ContcarPath())
}

func (o *Orchestrator) copyArtifact(src, dst string) {
	if err := workdir.CopyFile(src, dst); err != nil {
		log.Printf("Warning: copy %s: %v", src, err)
	}
}
