// Package mc implements the Metropolis accept/reject decision, the
// chain state, and weighted random move proposal over a structure.
package mc

import (
	"math"
	"math/rand"
)

// Accept applies the Metropolis criterion. A proposal that does not
// raise the energy is always accepted; an uphill proposal is accepted
// with probability exp(-(newEnergy-oldEnergy)/temp) against a single
// uniform draw. temp must be validated as strictly positive before the
// run starts.
func Accept(oldEnergy, newEnergy, temp float64, rng *rand.Rand) bool {
	if newEnergy <= oldEnergy {
		return true
	}
	p := math.Exp(-(newEnergy - oldEnergy) / temp)
	return rng.Float64() < p
}

// State is the single-writer chain state: the current accepted energy
// and the step/accept tallies. The zero value is the uninitialized
// pre-bootstrap state.
type State struct {
	CurrentEnergy float64
	HasState      bool
	Steps         int
	Accepts       int
}

// Bootstrap adopts the first valid report as the initial accepted
// state. It is not a proposal and resets both tallies.
func (s *State) Bootstrap(energy float64) {
	s.CurrentEnergy = energy
	s.HasState = true
	s.Steps = 0
	s.Accepts = 0
}
