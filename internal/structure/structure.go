// Package structure holds the in-memory atomic configuration under
// optimization: metallic atoms, interstitial sites, the periodic cell,
// and the move primitives that mutate species assignments.
package structure

import (
	"errors"
	"fmt"
)

// Vacant marks an unoccupied interstitial site.
const Vacant = -1

var (
	// ErrSameType signals a move whose two operands already carry the
	// same species or occupancy; the move is a no-op.
	ErrSameType = errors.New("structure: same type")
	// ErrIndexRange signals an atom, site, or species index outside the
	// valid range for the current structure.
	ErrIndexRange = errors.New("structure: index out of range")
)

// Structure is one atomic configuration. Positions are absolute
// Cartesian coordinates; the scaling factor is applied at parse time.
type Structure struct {
	// Cell rows are the three lattice vectors.
	Cell [3][3]float64

	// Metallic species, input order. NumAtoms[i] atoms of Species[i].
	Species  []string
	NumAtoms []int

	// Interstitial species and their occupied-site counts.
	InterSpecies  []string
	NumInterAtoms []int

	// AtomType[i] indexes Species for metallic atom i.
	AtomType []int
	AtomPos  [][3]float64

	// SiteOcc[i] indexes InterSpecies for site i, or Vacant.
	SitePos [][3]float64
	SiteOcc []int

	// ShuffleRequested records the input file's shuffle flag. It is a
	// load-time property only and never serialized back out.
	ShuffleRequested bool
}

// NumMetallic returns the number of metallic atoms.
func (s *Structure) NumMetallic() int { return len(s.AtomType) }

// NumSites returns the number of interstitial sites.
func (s *Structure) NumSites() int { return len(s.SitePos) }

// OccupiedSites returns the indices of all occupied interstitial sites.
func (s *Structure) OccupiedSites() []int {
	var out []int
	for i, occ := range s.SiteOcc {
		if occ != Vacant {
			out = append(out, i)
		}
	}
	return out
}

// VacantSites returns the indices of all vacant interstitial sites.
func (s *Structure) VacantSites() []int {
	var out []int
	for i, occ := range s.SiteOcc {
		if occ == Vacant {
			out = append(out, i)
		}
	}
	return out
}

// Validate checks the bookkeeping invariants: per-species atom counts
// must sum to the atom total, and occupancy labels must tally with the
// per-species interstitial counts.
func (s *Structure) Validate() error {
	total := 0
	for _, n := range s.NumAtoms {
		total += n
	}
	if total != len(s.AtomType) {
		return fmt.Errorf("structure: species counts sum to %d, have %d metallic atoms", total, len(s.AtomType))
	}
	perType := make([]int, len(s.Species))
	for i, t := range s.AtomType {
		if t < 0 || t >= len(s.Species) {
			return fmt.Errorf("structure: atom %d has invalid type %d", i, t)
		}
		perType[t]++
	}
	for i, n := range s.NumAtoms {
		if perType[i] != n {
			return fmt.Errorf("structure: species %s declares %d atoms, found %d", s.Species[i], n, perType[i])
		}
	}
	occ := make([]int, len(s.InterSpecies))
	for i, o := range s.SiteOcc {
		if o == Vacant {
			continue
		}
		if o < 0 || o >= len(s.InterSpecies) {
			return fmt.Errorf("structure: site %d has invalid occupant %d", i, o)
		}
		occ[o]++
	}
	for i, n := range s.NumInterAtoms {
		if occ[i] != n {
			return fmt.Errorf("structure: interstitial species %s declares %d atoms, found %d occupied sites", s.InterSpecies[i], n, occ[i])
		}
	}
	return nil
}
