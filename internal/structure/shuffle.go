package structure

import "math/rand"

// shuffleSwaps is the fixed number of random metal swaps applied by
// Shuffle before interstitials are reassigned.
const shuffleSwaps = 10

// Shuffle randomizes the configuration at load time: a fixed number of
// random metal swaps (same-type draws are no-ops), then every
// interstitial species' allotted atom count is reassigned to distinct
// randomly chosen sites. Existing occupancies are cleared first so the
// per-species counts are preserved exactly.
func (s *Structure) Shuffle(rng *rand.Rand) {
	n := s.NumMetallic()
	if n > 0 {
		for i := 0; i < shuffleSwaps; i++ {
			a := rng.Intn(n)
			b := rng.Intn(n)
			// Same-type and self swaps simply do nothing.
			_ = s.SwapMetal(a, b)
		}
	}

	for i := range s.SiteOcc {
		s.SiteOcc[i] = Vacant
	}
	vacant := make([]int, len(s.SiteOcc))
	for i := range vacant {
		vacant[i] = i
	}
	rng.Shuffle(len(vacant), func(i, j int) {
		vacant[i], vacant[j] = vacant[j], vacant[i]
	})
	idx := 0
	for t, count := range s.NumInterAtoms {
		for i := 0; i < count && idx < len(vacant); i++ {
			s.SiteOcc[vacant[idx]] = t
			idx++
		}
	}
}
