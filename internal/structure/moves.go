package structure

// SwapMetal exchanges the species labels of metallic atoms a and b.
// Per-species counts never change. Returns ErrSameType when both atoms
// already carry the same species.
func (s *Structure) SwapMetal(a, b int) error {
	n := s.NumMetallic()
	if a < 0 || b < 0 || a >= n || b >= n {
		return ErrIndexRange
	}
	if s.AtomType[a] == s.AtomType[b] {
		return ErrSameType
	}
	s.AtomType[a], s.AtomType[b] = s.AtomType[b], s.AtomType[a]
	return nil
}

// ExchangeMetal reassigns metallic atom a to species newType,
// decrementing the old species count and incrementing the new one.
func (s *Structure) ExchangeMetal(a, newType int) error {
	if a < 0 || a >= s.NumMetallic() {
		return ErrIndexRange
	}
	if newType < 0 || newType >= len(s.Species) {
		return ErrIndexRange
	}
	old := s.AtomType[a]
	if old == newType {
		return ErrSameType
	}
	s.NumAtoms[old]--
	s.AtomType[a] = newType
	s.NumAtoms[newType]++
	return nil
}

// SwapInterstitial exchanges the occupancy labels of sites a and b.
// Vacancy counts as a label, so an atom can hop to a vacant site.
func (s *Structure) SwapInterstitial(a, b int) error {
	n := s.NumSites()
	if a < 0 || b < 0 || a >= n || b >= n {
		return ErrIndexRange
	}
	if s.SiteOcc[a] == s.SiteOcc[b] {
		return ErrSameType
	}
	s.SiteOcc[a], s.SiteOcc[b] = s.SiteOcc[b], s.SiteOcc[a]
	return nil
}

// ExchangeInterstitial reassigns site a's occupancy to newOcc, which
// may be Vacant. Per-species interstitial counts are adjusted: the old
// occupant (if any) is decremented, the new one (if not vacant)
// incremented. The same-type check compares the site's occupancy,
// mirroring SwapInterstitial.
func (s *Structure) ExchangeInterstitial(a, newOcc int) error {
	if a < 0 || a >= s.NumSites() {
		return ErrIndexRange
	}
	if newOcc < Vacant || newOcc >= len(s.InterSpecies) {
		return ErrIndexRange
	}
	old := s.SiteOcc[a]
	if old == newOcc {
		return ErrSameType
	}
	if old != Vacant {
		s.NumInterAtoms[old]--
	}
	if newOcc != Vacant {
		s.NumInterAtoms[newOcc]++
	}
	s.SiteOcc[a] = newOcc
	return nil
}
