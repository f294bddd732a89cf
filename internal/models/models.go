// Package models defines the core domain types for the run ledger.
package models

import "time"

// EventKind distinguishes ledger events.
type EventKind string

const (
	// EventBootstrap is the adoption of the first valid report as the
	// initial accepted state. Not counted as a step.
	EventBootstrap EventKind = "bootstrap"
	// EventStep is one Metropolis decision over a proposal.
	EventStep EventKind = "step"
)

// Run is one orchestrator invocation.
type Run struct {
	ID           string     `json:"id"`
	Input        string     `json:"input"`
	Workers      int        `json:"workers"`
	StepsBudget  int        `json:"steps_budget"`
	Temperature  float64    `json:"temperature"`
	Seed         int64      `json:"seed"`
	StartedAt    time.Time  `json:"started_at"`
	EndedAt      *time.Time `json:"ended_at,omitempty"`
	FinalSteps   int        `json:"final_steps"`
	FinalAccepts int        `json:"final_accepts"`
}

// Event is one bootstrap or step record within a run.
type Event struct {
	ID        string    `json:"id"`
	RunID     string    `json:"run_id"`
	Kind      EventKind `json:"kind"`
	TaskID    string    `json:"task_id"`
	Step      int       `json:"step"`
	EnergyNew float64   `json:"energy_new"`
	EnergyOld float64   `json:"energy_old"`
	Accepted  bool      `json:"accepted"`
	CreatedAt time.Time `json:"created_at"`
}
