package orchestrator

import (
	"errors"
	"fmt"
	"log"

	"github.com/materialsmc/mcdrive/internal/mc"
	"github.com/materialsmc/mcdrive/internal/structure"
)

// dispatchIdleSlots generates one candidate for every idle slot. A
// slot stays busy across iterations until its worker clears the
// go-marker.
func (o *Orchestrator) dispatchIdleSlots() {
	idle, err := o.slots.Idle()
	if err != nil {
		log.Printf("Warning: cannot enumerate slots: %v", err)
		return
	}
	for _, k := range idle {
		if err := o.dispatch(k); err != nil {
			log.Printf("Warning: dispatch to slot %d failed: %v", k, err)
		}
	}
}

// dispatch reloads the accepted save-state, applies one random move,
// writes the slot's candidate files, and publishes the go-marker. The
// reload from disk (not the in-memory object) is the synchronization
// boundary with the external workers; the marker goes last so the
// worker never sees a partial candidate.
func (o *Orchestrator) dispatch(slot int) error {
	s, err := structure.Load(o.layout.SavePath())
	if err != nil {
		return fmt.Errorf("load accepted state: %w", err)
	}

	move, err := mc.Propose(s, o.weights, o.rng)
	if errors.Is(err, mc.ErrNoMove) {
		// The structure is degenerate for this move kind; the same
		// slot would hit it again every pass, so warn only once until
		// a proposal succeeds again.
		if !o.noMoveWarned {
			log.Printf("Warning: %s has no applicable operands, slot %d skipped", move, slot)
			o.noMoveWarned = true
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("propose %s: %w", move, err)
	}
	o.noMoveWarned = false

	if err := s.WritePoscarFile(o.layout.SlotPoscar(slot)); err != nil {
		return err
	}
	if err := s.WriteSaveFile(o.layout.SlotSave(slot)); err != nil {
		return err
	}
	return o.slots.MarkBusy(slot)
}
