package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/materialsmc/mcdrive/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return s
}

func TestNew(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer s.Close()

	// Verify file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestRunLifecycle(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	run, err := s.CreateRun("input.str", 4, 100, 0.001, 42)
	if err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}
	if run.ID == "" {
		t.Error("Run ID should not be empty")
	}

	got, err := s.GetRun(run.ID)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if got.Input != "input.str" || got.Workers != 4 || got.StepsBudget != 100 {
		t.Errorf("Run fields wrong: %+v", got)
	}
	if got.EndedAt != nil {
		t.Error("Fresh run should not have ended")
	}

	if err := s.FinishRun(run.ID, 100, 7); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}
	got, err = s.GetRun(run.ID)
	if err != nil {
		t.Fatalf("GetRun after finish failed: %v", err)
	}
	if got.EndedAt == nil || got.FinalSteps != 100 || got.FinalAccepts != 7 {
		t.Errorf("Finish not recorded: %+v", got)
	}
}

func TestLatestRun(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	run, err := s.LatestRun()
	if err != nil {
		t.Fatalf("LatestRun on empty ledger failed: %v", err)
	}
	if run != nil {
		t.Errorf("Expected nil run, got %+v", run)
	}

	if _, err := s.CreateRun("a.str", 1, 10, 0.5, 1); err != nil {
		t.Fatal(err)
	}
	want, err := s.CreateRun("b.str", 2, 20, 0.5, 2)
	if err != nil {
		t.Fatal(err)
	}
	got, err := s.LatestRun()
	if err != nil {
		t.Fatalf("LatestRun failed: %v", err)
	}
	if got == nil || got.ID != want.ID {
		t.Errorf("LatestRun returned wrong run: %+v", got)
	}
}

func TestEvents(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	run, err := s.CreateRun("input.str", 4, 100, 0.001, 42)
	if err != nil {
		t.Fatal(err)
	}

	if err := s.RecordBootstrap(run.ID, "task-0", -10.0); err != nil {
		t.Fatalf("RecordBootstrap failed: %v", err)
	}
	if err := s.RecordStep(run.ID, 1, "task-1", -9.0, -10.0, false); err != nil {
		t.Fatalf("RecordStep failed: %v", err)
	}
	if err := s.RecordStep(run.ID, 2, "task-2", -11.0, -10.0, true); err != nil {
		t.Fatalf("RecordStep failed: %v", err)
	}

	events, err := s.ListEvents(run.ID, 0)
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(events))
	}

	// Newest first.
	if events[0].Kind != models.EventStep || events[0].Step != 2 || !events[0].Accepted {
		t.Errorf("First event wrong: %+v", events[0])
	}
	last := events[len(events)-1]
	if last.Kind != models.EventBootstrap || last.TaskID != "task-0" {
		t.Errorf("Bootstrap event wrong: %+v", last)
	}

	limited, err := s.ListEvents(run.ID, 1)
	if err != nil || len(limited) != 1 {
		t.Errorf("Limit not applied: %d events, %v", len(limited), err)
	}
}
