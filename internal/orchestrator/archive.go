package orchestrator

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/materialsmc/mcdrive/internal/workdir"
)

// archive records one acceptance: it increments the durable counter,
// creates the next zero-padded archive slot, and snapshots the
// accepted artifacts plus a summary record. Sequence numbers are never
// reused; a crash after the increment leaves a gap, not corruption.
func (o *Orchestrator) archive(taskID string, finalEnergy float64) error {
	n, err := o.counter.Increment()
	if err != nil {
		return err
	}
	dir := o.layout.ArchiveDir(n)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create archive slot: %w", err)
	}

	outbox := o.layout.OutboxDir(taskID)
	for _, name := range []string{"CONTCAR", "SAVE", "meta.json"} {
		src := filepath.Join(outbox, name)
		if err := workdir.CopyFile(src, filepath.Join(dir, name)); err != nil {
			log.Printf("Warning: archive copy %s: %v", src, err)
		}
	}

	info := fmt.Sprintf("task_id = %s\nE_final = %.12g\n", taskID, finalEnergy)
	if err := workdir.AtomicWriteFile(filepath.Join(dir, "info.txt"), []byte(info)); err != nil {
		return err
	}

	log.Printf("Accepted task %s, archived to %s", taskID, dir)
	return nil
}
