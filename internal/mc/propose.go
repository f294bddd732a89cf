package mc

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/materialsmc/mcdrive/internal/structure"
)

// ErrNoMove signals that the selected move family has no applicable
// operands in the current structure (for example a single metallic
// species, or no interstitial sites). Recoverable: skip the proposal.
var ErrNoMove = errors.New("mc: no applicable move")

// Move identifies one move family.
type Move int

const (
	MoveSwapMetal Move = iota
	MoveSwapInterstitial
	MoveExchangeMetal
	MoveExchangeInterstitial
)

func (m Move) String() string {
	switch m {
	case MoveSwapMetal:
		return "swap-metal"
	case MoveSwapInterstitial:
		return "swap-interstitial"
	case MoveExchangeMetal:
		return "exchange-metal"
	case MoveExchangeInterstitial:
		return "exchange-interstitial"
	default:
		return "unknown"
	}
}

// Weights are the configured integer weights of the four move
// families. A single uniform draw over the sum selects exactly one
// family per proposal.
type Weights struct {
	SwapMetal            int
	SwapInterstitial     int
	ExchangeMetal        int
	ExchangeInterstitial int
}

// Sum returns the total weight.
func (w Weights) Sum() int {
	return w.SwapMetal + w.SwapInterstitial + w.ExchangeMetal + w.ExchangeInterstitial
}

// Validate rejects negative weights and a non-positive sum.
func (w Weights) Validate() error {
	if w.SwapMetal < 0 || w.SwapInterstitial < 0 || w.ExchangeMetal < 0 || w.ExchangeInterstitial < 0 {
		return fmt.Errorf("mc: move weights must be non-negative")
	}
	if w.Sum() <= 0 {
		return fmt.Errorf("mc: move weights sum to zero")
	}
	return nil
}

// Pick draws one move family proportionally to the weights.
func (w Weights) Pick(rng *rand.Rand) Move {
	r := rng.Intn(w.Sum())
	if r < w.SwapMetal {
		return MoveSwapMetal
	}
	r -= w.SwapMetal
	if r < w.SwapInterstitial {
		return MoveSwapInterstitial
	}
	r -= w.SwapInterstitial
	if r < w.ExchangeMetal {
		return MoveExchangeMetal
	}
	return MoveExchangeInterstitial
}

// Propose applies exactly one randomly selected move to s. Operands
// are drawn from candidate lists filtered by the distinct-type
// precondition, so selection always terminates even when the
// precondition set is small. Returns the applied move family, or
// ErrNoMove when the drawn family has no valid operands.
func Propose(s *structure.Structure, w Weights, rng *rand.Rand) (Move, error) {
	move := w.Pick(rng)
	var err error
	switch move {
	case MoveSwapMetal:
		err = proposeSwapMetal(s, rng)
	case MoveSwapInterstitial:
		err = proposeSwapInterstitial(s, rng)
	case MoveExchangeMetal:
		err = proposeExchangeMetal(s, rng)
	case MoveExchangeInterstitial:
		err = proposeExchangeInterstitial(s, rng)
	}
	if err != nil {
		return move, err
	}
	return move, nil
}

func proposeSwapMetal(s *structure.Structure, rng *rand.Rand) error {
	n := s.NumMetallic()
	if n == 0 {
		return ErrNoMove
	}
	a := rng.Intn(n)
	var candidates []int
	for b := 0; b < n; b++ {
		if s.AtomType[b] != s.AtomType[a] {
			candidates = append(candidates, b)
		}
	}
	if len(candidates) == 0 {
		return ErrNoMove
	}
	return s.SwapMetal(a, candidates[rng.Intn(len(candidates))])
}

func proposeSwapInterstitial(s *structure.Structure, rng *rand.Rand) error {
	occupied := s.OccupiedSites()
	if len(occupied) == 0 {
		return ErrNoMove
	}
	a := occupied[rng.Intn(len(occupied))]
	var candidates []int
	for b := range s.SiteOcc {
		if s.SiteOcc[b] != s.SiteOcc[a] {
			candidates = append(candidates, b)
		}
	}
	if len(candidates) == 0 {
		return ErrNoMove
	}
	return s.SwapInterstitial(a, candidates[rng.Intn(len(candidates))])
}

func proposeExchangeMetal(s *structure.Structure, rng *rand.Rand) error {
	n := s.NumMetallic()
	if n == 0 || len(s.Species) < 2 {
		return ErrNoMove
	}
	a := rng.Intn(n)
	var types []int
	for t := range s.Species {
		if t != s.AtomType[a] {
			types = append(types, t)
		}
	}
	return s.ExchangeMetal(a, types[rng.Intn(len(types))])
}

func proposeExchangeInterstitial(s *structure.Structure, rng *rand.Rand) error {
	if s.NumSites() == 0 {
		return ErrNoMove
	}
	a := rng.Intn(s.NumSites())
	var occs []int
	for t := structure.Vacant; t < len(s.InterSpecies); t++ {
		if t != s.SiteOcc[a] {
			occs = append(occs, t)
		}
	}
	if len(occs) == 0 {
		return ErrNoMove
	}
	return s.ExchangeInterstitial(a, occs[rng.Intn(len(occs))])
}
