// Package audit writes the human-readable run log: one header line
// with the configuration, one line per bootstrap/step event, and a
// final summary. Every line is flushed as written so the log survives
// a crash mid-run.
package audit

import (
	"bufio"
	"fmt"
	"os"
)

// RunLog appends run events to mc.log.
type RunLog struct {
	f *os.File
	w *bufio.Writer
}

// Open truncates and opens the run log at path.
func Open(path string) (*RunLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("open run log: %w", err)
	}
	return &RunLog{f: f, w: bufio.NewWriter(f)}, nil
}

// Header records the run configuration.
func (l *RunLog) Header(workers, steps int, temp float64) {
	fmt.Fprintf(l.w, "# MC run: workers=%d steps=%d temp=%g\n", workers, steps, temp)
	l.w.Flush()
}

// InitialState records the bootstrap event adopting the first valid
// report as the accepted state.
func (l *RunLog) InitialState(taskID string, energy float64) {
	fmt.Fprintf(l.w, "INITIAL_STATE task_id=%s E = %.12g\n", taskID, energy)
	l.w.Flush()
}

// Step records one Metropolis decision.
func (l *RunLog) Step(step int, taskID string, eNew, eOld float64, accepted bool) {
	decision := "REJECT"
	if accepted {
		decision = "ACCEPT"
	}
	fmt.Fprintf(l.w, "STEP %d proposal task_id=%s E_new=%.12g E_old=%.12g -> %s\n",
		step, taskID, eNew, eOld, decision)
	l.w.Flush()
}

// Finish records the terminal tallies.
func (l *RunLog) Finish(steps, accepts int) {
	fmt.Fprintf(l.w, "# Finished. MC steps = %d, accepted = %d\n", steps, accepts)
	l.w.Flush()
}

// Close flushes and closes the log file.
func (l *RunLog) Close() error {
	l.w.Flush()
	return l.f.Close()
}
