package workdir

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// Report statuses produced by the refinement stage.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Report is one inbound result from the slow worker tier. It is
// immutable and consumed exactly once.
type Report struct {
	Status      string   `json:"status"`
	TaskID      string   `json:"task_id"`
	EnergyFinal *float64 `json:"energy_final,omitempty"`
	Error       string   `json:"error,omitempty"`
}

// HasEnergy reports whether a finite final energy is present.
func (r *Report) HasEnergy() bool {
	return r.EnergyFinal != nil && !math.IsNaN(*r.EnergyFinal) && !math.IsInf(*r.EnergyFinal, 0)
}

// ParseReportFile reads and decodes one report. When the report omits
// task_id, the file's base name stands in, matching what the workers
// name their reports after.
func ParseReportFile(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode report %s: %w", filepath.Base(path), err)
	}
	if r.TaskID == "" {
		r.TaskID = strings.TrimSuffix(filepath.Base(path), ReportExt)
	}
	return &r, nil
}
