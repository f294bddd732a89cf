package audit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunLogLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mc.log")
	l, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	l.Header(4, 100, 0.001)
	l.InitialState("task-0", -10.0)
	l.Step(1, "task-1", -9.0, -10.0, false)
	l.Step(2, "task-2", -11.0, -10.0, true)
	l.Finish(2, 1)
	if err := l.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 5 {
		t.Fatalf("Expected 5 lines, got %d:\n%s", len(lines), data)
	}
	checks := []string{
		"# MC run: workers=4 steps=100 temp=0.001",
		"INITIAL_STATE task_id=task-0 E = -10",
		"STEP 1 proposal task_id=task-1 E_new=-9 E_old=-10 -> REJECT",
		"STEP 2 proposal task_id=task-2 E_new=-11 E_old=-10 -> ACCEPT",
		"# Finished. MC steps = 2, accepted = 1",
	}
	for i, want := range checks {
		if lines[i] != want {
			t.Errorf("Line %d: got %q, want %q", i, lines[i], want)
		}
	}
}
