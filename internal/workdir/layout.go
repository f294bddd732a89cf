// Package workdir models the shared-filesystem mailbox between the
// orchestrator and its external workers: slot files and go-markers,
// the report inbox, the refinement outbox, the global accepted-state
// files, the durable acceptance counter, and the archive.
package workdir

import (
	"fmt"
	"os"
	"path/filepath"
)

// ReportExt is the only report file extension the consumer recognizes.
const ReportExt = ".json"

// Layout resolves every path of the directory contract relative to a
// working-directory root.
type Layout struct {
	Root string
}

func (l Layout) FastDir() string     { return filepath.Join(l.Root, "fast") }
func (l Layout) ReportsDir() string  { return filepath.Join(l.Root, "reports") }
func (l Layout) CountersDir() string { return filepath.Join(l.Root, "counters") }
func (l Layout) ArchiveRoot() string { return filepath.Join(l.Root, "mcprocess") }

// OutboxDir is where the refinement stage leaves the full artifacts
// for one task.
func (l Layout) OutboxDir(taskID string) string {
	return filepath.Join(l.Root, "refine_outbox", taskID)
}

// SavePath and ContcarPath are the global accepted-state files,
// overwritten on every acceptance and at bootstrap.
func (l Layout) SavePath() string    { return filepath.Join(l.Root, "SAVE") }
func (l Layout) ContcarPath() string { return filepath.Join(l.Root, "CONTCAR") }

// LogPath is the append-only human-readable run log.
func (l Layout) LogPath() string { return filepath.Join(l.Root, "mc.log") }

// CounterPath is the durable acceptance counter.
func (l Layout) CounterPath() string {
	return filepath.Join(l.CountersDir(), "mc_count")
}

// SlotPoscar and SlotSave are the candidate files for fast slot k.
func (l Layout) SlotPoscar(k int) string {
	return filepath.Join(l.FastDir(), fmt.Sprintf("POSCAR%d", k))
}

func (l Layout) SlotSave(k int) string {
	return filepath.Join(l.FastDir(), fmt.Sprintf("SAVE%d", k))
}

// SlotMarker is slot k's go-marker: present means busy, the external
// worker deletes it when it has consumed the candidate.
func (l Layout) SlotMarker(k int) string {
	return filepath.Join(l.FastDir(), fmt.Sprintf(".go_%d", k))
}

// ArchiveDir is the zero-padded sequential archive slot for
// acceptance n.
func (l Layout) ArchiveDir(n int) string {
	return filepath.Join(l.ArchiveRoot(), fmt.Sprintf("%06d", n))
}

// EnsureDirs creates every directory the workers and the orchestrator
// expect, including the pool directories used only by the workers.
func (l Layout) EnsureDirs() error {
	dirs := []string{
		l.FastDir(),
		l.ReportsDir(),
		filepath.Join(l.Root, "refine_outbox"),
		filepath.Join(l.Root, "waiting_pool"),
		filepath.Join(l.Root, "waiting_work"),
		l.CountersDir(),
		l.ArchiveRoot(),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0755); err != nil {
			return fmt.Errorf("create %s: %w", d, err)
		}
	}
	return nil
}

// ListReports returns the report files currently present in the inbox,
// filtered to the recognized extension. The listing order is the
// processing order for one drain pass.
func (l Layout) ListReports() ([]string, error) {
	entries, err := os.ReadDir(l.ReportsDir())
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ReportExt {
			continue
		}
		out = append(out, filepath.Join(l.ReportsDir(), e.Name()))
	}
	return out, nil
}
