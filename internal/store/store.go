// Package store provides SQLite-backed persistence for the run
// ledger. The ledger supplements the file contract in the working
// directory; the files remain the source of truth for the workers.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/materialsmc/mcdrive/internal/models"
	_ "modernc.org/sqlite"
)

// Store provides access to the ledger database.
type Store struct {
	db *sql.DB
}

// New creates a new Store and runs migrations.
func New(dbPath string) (*Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	// Open with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate runs idempotent schema migrations.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		input TEXT NOT NULL,
		workers INTEGER NOT NULL,
		steps_budget INTEGER NOT NULL,
		temperature REAL NOT NULL,
		seed INTEGER NOT NULL,
		started_at DATETIME NOT NULL,
		ended_at DATETIME,
		final_steps INTEGER NOT NULL DEFAULT 0,
		final_accepts INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		run_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		task_id TEXT NOT NULL,
		step INTEGER NOT NULL,
		energy_new REAL NOT NULL,
		energy_old REAL NOT NULL,
		accepted INTEGER NOT NULL,
		created_at DATETIME NOT NULL,
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);

	CREATE INDEX IF NOT EXISTS idx_events_run_id ON events(run_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// CreateRun inserts a new run row.
func (s *Store) CreateRun(input string, workers, stepsBudget int, temperature float64, seed int64) (*models.Run, error) {
	run := &models.Run{
		ID:          uuid.New().String(),
		Input:       input,
		Workers:     workers,
		StepsBudget: stepsBudget,
		Temperature: temperature,
		Seed:        seed,
		StartedAt:   time.Now().UTC(),
	}

	_, err := s.db.Exec(
		`INSERT INTO runs (id, input, workers, steps_budget, temperature, seed, started_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Input, run.Workers, run.StepsBudget, run.Temperature, run.Seed, run.StartedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// FinishRun records the terminal tallies for a run.
func (s *Store) FinishRun(runID string, finalSteps, finalAccepts int) error {
	now := time.Now().UTC()
	_, err := s.db.Exec(
		`UPDATE runs SET ended_at = ?, final_steps = ?, final_accepts = ? WHERE id = ?`,
		now, finalSteps, finalAccepts, runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// GetRun fetches one run by ID.
func (s *Store) GetRun(runID string) (*models.Run, error) {
	row := s.db.QueryRow(
		`SELECT id, input, workers, steps_budget, temperature, seed, started_at, ended_at, final_steps, final_accepts
		 FROM runs WHERE id = ?`, runID,
	)
	return scanRun(row)
}

// LatestRun fetches the most recently started run, or nil when the
// ledger is empty.
func (s *Store) LatestRun() (*models.Run, error) {
	row := s.db.QueryRow(
		`SELECT id, input, workers, steps_budget, temperature, seed, started_at, ended_at, final_steps, final_accepts
		 FROM runs ORDER BY started_at DESC LIMIT 1`,
	)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return run, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*models.Run, error) {
	var run models.Run
	var endedAt sql.NullTime
	err := row.Scan(&run.ID, &run.Input, &run.Workers, &run.StepsBudget, &run.Temperature,
		&run.Seed, &run.StartedAt, &endedAt, &run.FinalSteps, &run.FinalAccepts)
	if err != nil {
		return nil, err
	}
	if endedAt.Valid {
		run.EndedAt = &endedAt.Time
	}
	return &run, nil
}

// RecordBootstrap inserts the bootstrap event for a run.
func (s *Store) RecordBootstrap(runID, taskID string, energy float64) error {
	return s.insertEvent(&models.Event{
		ID:        uuid.New().String(),
		RunID:     runID,
		Kind:      models.EventBootstrap,
		TaskID:    taskID,
		EnergyNew: energy,
		EnergyOld: energy,
		Accepted:  true,
		CreatedAt: time.Now().UTC(),
	})
}

// RecordStep inserts one Metropolis decision for a run.
func (s *Store) RecordStep(runID string, step int, taskID string, eNew, eOld float64, accepted bool) error {
	return s.insertEvent(&models.Event{
		ID:        uuid.New().String(),
		RunID:     runID,
		Kind:      models.EventStep,
		TaskID:    taskID,
		Step:      step,
		EnergyNew: eNew,
		EnergyOld: eOld,
		Accepted:  accepted,
		CreatedAt: time.Now().UTC(),
	})
}

func (s *Store) insertEvent(e *models.Event) error {
	accepted := 0
	if e.Accepted {
		accepted = 1
	}
	_, err := s.db.Exec(
		`INSERT INTO events (id, run_id, kind, task_id, step, energy_new, energy_old, accepted, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.RunID, e.Kind, e.TaskID, e.Step, e.EnergyNew, e.EnergyOld, accepted, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// ListEvents returns up to limit most recent events of a run, newest
// first. limit <= 0 means no limit.
func (s *Store) ListEvents(runID string, limit int) ([]*models.Event, error) {
	query := `SELECT id, run_id, kind, task_id, step, energy_new, energy_old, accepted, created_at
		 FROM events WHERE run_id = ? ORDER BY created_at DESC, step DESC`
	args := []interface{}{runID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		var e models.Event
		var accepted int
		if err := rows.Scan(&e.ID, &e.RunID, &e.Kind, &e.TaskID, &e.Step,
			&e.EnergyNew, &e.EnergyOld, &accepted, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Accepted = accepted != 0
		events = append(events, &e)
	}
	return events, rows.Err()
}
