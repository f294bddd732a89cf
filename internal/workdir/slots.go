package workdir

import (
	"fmt"
	"os"
)

// SlotState is the scheduler-side view of one fast worker channel.
type SlotState int

const (
	// SlotIdle means the go-marker is absent and the slot can take a
	// new candidate.
	SlotIdle SlotState = iota
	// SlotBusy means a candidate has been dispatched and the external
	// worker has not cleared the marker yet.
	SlotBusy
)

func (s SlotState) String() string {
	if s == SlotBusy {
		return "busy"
	}
	return "idle"
}

// Slots tracks the N fixed worker channels, numbered 1..N. The
// busy/idle bit is materialized as the go-marker file; only the
// external worker ever clears it.
type Slots struct {
	layout Layout
	n      int
}

// NewSlots returns a tracker for n slots under layout.
func NewSlots(layout Layout, n int) *Slots {
	return &Slots{layout: layout, n: n}
}

// N returns the number of slots.
func (s *Slots) N() int { return s.n }

// State reads slot k's current state from the marker file.
func (s *Slots) State(k int) (SlotState, error) {
	if k < 1 || k > s.n {
		return SlotIdle, fmt.Errorf("slot %d out of range 1..%d", k, s.n)
	}
	_, err := os.Stat(s.layout.SlotMarker(k))
	if err == nil {
		return SlotBusy, nil
	}
	if os.IsNotExist(err) {
		return SlotIdle, nil
	}
	return SlotIdle, fmt.Errorf("stat slot %d marker: %w", k, err)
}

// Idle returns the slots currently free to take a candidate.
func (s *Slots) Idle() ([]int, error) {
	var idle []int
	for k := 1; k <= s.n; k++ {
		st, err := s.State(k)
		if err != nil {
			return nil, err
		}
		if st == SlotIdle {
			idle = append(idle, k)
		}
	}
	return idle, nil
}

// MarkBusy publishes slot k's go-marker, handing the candidate to the
// external worker. Must be called only after the candidate files are
// fully written.
func (s *Slots) MarkBusy(k int) error {
	return Touch(s.layout.SlotMarker(k))
}

// States returns the state of every slot, index 0 holding slot 1.
func (s *Slots) States() ([]SlotState, error) {
	out := make([]SlotState, s.n)
	for k := 1; k <= s.n; k++ {
		st, err := s.State(k)
		if err != nil {
			return nil, err
		}
		out[k-1] = st
	}
	return out, nil
}
