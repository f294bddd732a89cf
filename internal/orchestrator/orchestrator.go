// Package orchestrator drives the Metropolis search: it keeps every
// idle fast slot fed with a candidate, drains result reports from the
// slow tier, applies the accept/reject decision, and persists the
// accepted-state lineage.
package orchestrator

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/materialsmc/mcdrive/internal/audit"
	"github.com/materialsmc/mcdrive/internal/config"
	"github.com/materialsmc/mcdrive/internal/mc"
	"github.com/materialsmc/mcdrive/internal/store"
	"github.com/materialsmc/mcdrive/internal/workdir"
)

// Orchestrator owns the single-writer chain state and the loop over
// dispatch and drain phases. All communication with the workers goes
// through the working directory.
type Orchestrator struct {
	cfg     config.Config
	layout  workdir.Layout
	slots   *workdir.Slots
	counter *workdir.Counter
	weights mc.Weights
	rng     *rand.Rand
	log     *audit.RunLog
	store   *store.Store
	runID   string

	state mc.State

	noMoveWarned bool
}

// New wires an orchestrator over an already-bootstrapped working
// directory. The ledger store and run ID are optional; pass nil and ""
// to run without a ledger.
func New(cfg config.Config, layout workdir.Layout, runLog *audit.RunLog, ledger *store.Store, runID string, rng *rand.Rand) *Orchestrator {
	return &Orchestrator{
		cfg:     cfg,
		layout:  layout,
		slots:   workdir.NewSlots(layout, cfg.Workers),
		counter: workdir.NewCounter(layout.CounterPath()),
		weights: cfg.Weights(),
		rng:     rng,
		log:     runLog,
		store:   ledger,
		runID:   runID,
	}
}

// State returns the current chain state.
func (o *Orchestrator) State() mc.State { return o.state }

// Run executes the loop until the step budget is exhausted or ctx is
// cancelled. It returns the final chain state.
func (o *Orchestrator) Run(ctx context.Context) mc.State {
	o.log.Header(o.cfg.Workers, o.cfg.Steps, o.cfg.Temperature)

	// Best-effort watcher on the inbox: cuts the idle backoff short
	// when a report lands. Polling still happens each iteration, so a
	// missing watcher only costs latency.
	var wake <-chan fsnotify.Event
	if watcher, err := fsnotify.NewWatcher(); err == nil {
		if err := watcher.Add(o.layout.ReportsDir()); err == nil {
			wake = watcher.Events
		} else {
			log.Printf("Warning: cannot watch reports dir: %v", err)
		}
		defer watcher.Close()
	} else {
		log.Printf("Warning: fsnotify unavailable: %v", err)
	}

	for o.state.Steps < o.cfg.Steps {
		if ctx.Err() != nil {
			log.Printf("Run cancelled at step %d", o.state.Steps)
			break
		}

		o.dispatchIdleSlots()

		processed := o.drainReports()
		if o.state.Steps >= o.cfg.Steps {
			break
		}
		if !processed {
			o.waitForWork(ctx, wake)
		}
	}

	o.log.Finish(o.state.Steps, o.state.Accepts)
	return o.state
}

// waitForWork blocks for the fixed backoff interval, returning early
// when the inbox watcher sees a new report or the context ends.
func (o *Orchestrator) waitForWork(ctx context.Context, wake <-chan fsnotify.Event) {
	timer := time.NewTimer(o.cfg.Backoff)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			return
		case ev, ok := <-wake:
			if !ok {
				wake = nil
				continue
			}
			if ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Rename) {
				return
			}
		}
	}
}
