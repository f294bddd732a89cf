package structure

import (
	"errors"
	"math/rand"
	"strings"
	"testing"
)

func testStructure(t *testing.T) *Structure {
	t.Helper()
	s, err := Parse(strings.NewReader(sampleFractional))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return s
}

func TestSwapMetalIsItsOwnInverse(t *testing.T) {
	s := testStructure(t)
	// Atom 0 is Fe, atom 3 is Ni.
	before := append([]int{}, s.AtomType...)
	counts := append([]int{}, s.NumAtoms...)

	if err := s.SwapMetal(0, 3); err != nil {
		t.Fatalf("SwapMetal failed: %v", err)
	}
	if s.AtomType[0] != 1 || s.AtomType[3] != 0 {
		t.Errorf("Types not exchanged: %v", s.AtomType)
	}
	if err := s.SwapMetal(0, 3); err != nil {
		t.Fatalf("Second SwapMetal failed: %v", err)
	}
	for i := range before {
		if s.AtomType[i] != before[i] {
			t.Errorf("Atom %d type changed: %d != %d", i, s.AtomType[i], before[i])
		}
	}
	for i := range counts {
		if s.NumAtoms[i] != counts[i] {
			t.Errorf("Species %d count changed", i)
		}
	}
}

func TestSwapMetalSameType(t *testing.T) {
	s := testStructure(t)
	if err := s.SwapMetal(0, 1); !errors.Is(err, ErrSameType) {
		t.Errorf("Expected ErrSameType, got %v", err)
	}
	if err := s.SwapMetal(0, 99); !errors.Is(err, ErrIndexRange) {
		t.Errorf("Expected ErrIndexRange, got %v", err)
	}
	if err := s.SwapMetal(-1, 0); !errors.Is(err, ErrIndexRange) {
		t.Errorf("Expected ErrIndexRange, got %v", err)
	}
}

func TestExchangeMetal(t *testing.T) {
	s := testStructure(t)
	// Atom 0 is Fe (type 0); move it to Ni (type 1).
	if err := s.ExchangeMetal(0, 1); err != nil {
		t.Fatalf("ExchangeMetal failed: %v", err)
	}
	if s.NumAtoms[0] != 2 || s.NumAtoms[1] != 2 {
		t.Errorf("Counts not adjusted: %v", s.NumAtoms)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Invariants violated: %v", err)
	}

	if err := s.ExchangeMetal(0, 1); !errors.Is(err, ErrSameType) {
		t.Errorf("Expected ErrSameType, got %v", err)
	}
	if err := s.ExchangeMetal(0, 5); !errors.Is(err, ErrIndexRange) {
		t.Errorf("Expected ErrIndexRange for bad species, got %v", err)
	}
	if err := s.ExchangeMetal(17, 1); !errors.Is(err, ErrIndexRange) {
		t.Errorf("Expected ErrIndexRange for bad atom, got %v", err)
	}
}

func TestSwapInterstitial(t *testing.T) {
	s := testStructure(t)
	// Site 0 occupied by C, site 1 vacant.
	if err := s.SwapInterstitial(0, 1); err != nil {
		t.Fatalf("SwapInterstitial failed: %v", err)
	}
	if s.SiteOcc[0] != Vacant || s.SiteOcc[1] != 0 {
		t.Errorf("Occupancies not exchanged: %v", s.SiteOcc)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Invariants violated: %v", err)
	}
	if err := s.SwapInterstitial(0, 0); !errors.Is(err, ErrSameType) {
		t.Errorf("Expected ErrSameType, got %v", err)
	}
}

func TestExchangeInterstitial(t *testing.T) {
	s := testStructure(t)
	// Vacate the occupied site.
	if err := s.ExchangeInterstitial(0, Vacant); err != nil {
		t.Fatalf("ExchangeInterstitial failed: %v", err)
	}
	if s.NumInterAtoms[0] != 0 {
		t.Errorf("Count not decremented: %v", s.NumInterAtoms)
	}
	// Occupy the other site.
	if err := s.ExchangeInterstitial(1, 0); err != nil {
		t.Fatalf("ExchangeInterstitial failed: %v", err)
	}
	if s.NumInterAtoms[0] != 1 {
		t.Errorf("Count not incremented: %v", s.NumInterAtoms)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Invariants violated: %v", err)
	}
}

// The same-type precondition compares the site's occupancy, not the
// metallic atom type at the same index.
func TestExchangeInterstitialSameTypeUsesOccupancy(t *testing.T) {
	s := testStructure(t)
	// Site 0 is occupied by species 0 while metallic atom 0 has type 0
	// as well: reassigning site 0 to species 0 must be the no-op case.
	if err := s.ExchangeInterstitial(0, 0); !errors.Is(err, ErrSameType) {
		t.Errorf("Expected ErrSameType, got %v", err)
	}
	// Site 1 is vacant. Metallic atom 1 has type 0, but that must not
	// block assigning occupant 0 to the vacant site.
	if err := s.ExchangeInterstitial(1, 0); err != nil {
		t.Errorf("Occupancy check leaked metallic state: %v", err)
	}
	// Vacant-to-vacant is the same-type case too.
	s2 := testStructure(t)
	if err := s2.ExchangeInterstitial(1, Vacant); !errors.Is(err, ErrSameType) {
		t.Errorf("Expected ErrSameType for vacant-to-vacant, got %v", err)
	}
}

func TestShufflePreservesCounts(t *testing.T) {
	s := testStructure(t)
	rng := rand.New(rand.NewSource(42))
	s.Shuffle(rng)
	if err := s.Validate(); err != nil {
		t.Fatalf("Invariants violated after shuffle: %v", err)
	}
	occupied := s.OccupiedSites()
	if len(occupied) != 1 {
		t.Errorf("Expected 1 occupied site, got %d", len(occupied))
	}
}

func TestShuffleDeterministicWithSeed(t *testing.T) {
	a := testStructure(t)
	b := testStructure(t)
	a.Shuffle(rand.New(rand.NewSource(7)))
	b.Shuffle(rand.New(rand.NewSource(7)))
	for i := range a.AtomType {
		if a.AtomType[i] != b.AtomType[i] {
			t.Fatalf("Shuffle not deterministic at atom %d", i)
		}
	}
	for i := range a.SiteOcc {
		if a.SiteOcc[i] != b.SiteOcc[i] {
			t.Fatalf("Shuffle not deterministic at site %d", i)
		}
	}
}
