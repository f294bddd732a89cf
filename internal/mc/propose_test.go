package mc

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/materialsmc/mcdrive/internal/structure"
)

const sampleInput = `1.0
2 0 0
0 2 0
0 0 2
Fe Ni
3 1
C
1
2
No Shuffle
Direct
0 0 0
0.5 0 0
0 0.5 0
0 0 0.5
0.25 0.25 0.25
0.75 0.75 0.75
`

func testStructure(t *testing.T) *structure.Structure {
	t.Helper()
	s, err := structure.Parse(strings.NewReader(sampleInput))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return s
}

func TestWeightsValidate(t *testing.T) {
	if err := (Weights{SwapMetal: 70, SwapInterstitial: 30}).Validate(); err != nil {
		t.Errorf("Valid weights rejected: %v", err)
	}
	if err := (Weights{}).Validate(); err == nil {
		t.Error("Zero-sum weights accepted")
	}
	if err := (Weights{SwapMetal: -1, SwapInterstitial: 2}).Validate(); err == nil {
		t.Error("Negative weight accepted")
	}
}

func TestPickRespectsWeights(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	w := Weights{SwapMetal: 1, ExchangeInterstitial: 3}
	counts := map[Move]int{}
	for i := 0; i < 10000; i++ {
		counts[w.Pick(rng)]++
	}
	if counts[MoveSwapInterstitial] != 0 || counts[MoveExchangeMetal] != 0 {
		t.Errorf("Zero-weight families drawn: %v", counts)
	}
	ratio := float64(counts[MoveExchangeInterstitial]) / float64(counts[MoveSwapMetal])
	if ratio < 2.5 || ratio > 3.5 {
		t.Errorf("Weight ratio off: %f", ratio)
	}
}

func TestProposeAppliesExactlyOneMove(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	w := Weights{SwapMetal: 1}
	for i := 0; i < 100; i++ {
		s := testStructure(t)
		move, err := Propose(s, w, rng)
		if err != nil {
			t.Fatalf("Propose failed: %v", err)
		}
		if move != MoveSwapMetal {
			t.Fatalf("Wrong family: %v", move)
		}
		// A metal swap always exchanges the lone Ni with an Fe.
		if err := s.Validate(); err != nil {
			t.Fatalf("Invariants violated: %v", err)
		}
		diffs := 0
		for j, at := range s.AtomType {
			want := 0
			if j == 3 {
				want = 1
			}
			if at != want {
				diffs++
			}
		}
		if diffs != 2 {
			t.Fatalf("Expected exactly one swap, atom types %v", s.AtomType)
		}
	}
}

func TestProposeSwapInterstitialDistinctOccupancy(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	w := Weights{SwapInterstitial: 1}
	for i := 0; i < 100; i++ {
		s := testStructure(t)
		if _, err := Propose(s, w, rng); err != nil {
			t.Fatalf("Propose failed: %v", err)
		}
		// The single C atom must have hopped to the other site.
		if s.SiteOcc[0] != structure.Vacant || s.SiteOcc[1] != 0 {
			t.Fatalf("Swap did not move the occupant: %v", s.SiteOcc)
		}
	}
}

func TestProposeNoApplicableMove(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	s := testStructure(t)
	// Make all metallic atoms the same species.
	for i := range s.AtomType {
		s.AtomType[i] = 0
	}
	s.NumAtoms = []int{4, 0}
	if _, err := Propose(s, Weights{SwapMetal: 1}, rng); !errors.Is(err, ErrNoMove) {
		t.Errorf("Expected ErrNoMove for single-species swap, got %v", err)
	}

	// No interstitial sites at all.
	s.SitePos = nil
	s.SiteOcc = nil
	s.NumInterAtoms = []int{0}
	if _, err := Propose(s, Weights{SwapInterstitial: 1}, rng); !errors.Is(err, ErrNoMove) {
		t.Errorf("Expected ErrNoMove for empty sites, got %v", err)
	}
	if _, err := Propose(s, Weights{ExchangeInterstitial: 1}, rng); !errors.Is(err, ErrNoMove) {
		t.Errorf("Expected ErrNoMove for exchange with no sites, got %v", err)
	}
}

func TestProposeExchangeInterstitialTerminatesWithMinimalChoices(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	w := Weights{ExchangeInterstitial: 1}
	// One species, two sites: every draw has exactly one alternative
	// occupancy, which filtered candidate lists must find directly.
	for i := 0; i < 100; i++ {
		s := testStructure(t)
		if _, err := Propose(s, w, rng); err != nil {
			t.Fatalf("Propose failed: %v", err)
		}
		if err := s.Validate(); err != nil {
			t.Fatalf("Invariants violated: %v", err)
		}
	}
}
