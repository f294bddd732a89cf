package structure

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Load parses a structure file from disk. See Parse for the format.
func Load(path string) (*Structure, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open structure file: %w", err)
	}
	defer f.Close()
	s, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return s, nil
}

// Parse reads the structure text format:
//
//	optional title line (species summary, ignored)
//	scaling factor
//	3 cell vector lines
//	metallic species names / per-species atom counts
//	interstitial species names / per-species atom counts
//	interstitial site count
//	shuffle flag line ("Shuffle" or anything else)
//	coordinate-system line (C/c/K/k => Cartesian, else fractional)
//	metallic coordinates grouped by species
//	interstitial site coordinates (occupied first, vacant last)
//
// The title line is optional so that both the canonical save format
// (which carries one) and headerless inputs parse.
func Parse(r io.Reader) (*Structure, error) {
	lr := &lineReader{sc: bufio.NewScanner(r)}

	first, err := lr.next()
	if err != nil {
		return nil, fmt.Errorf("empty structure file: %w", err)
	}
	scale, ok := parseBareNumber(first)
	if !ok {
		// First line was a title; the scaling factor follows.
		line, err := lr.next()
		if err != nil {
			return nil, fmt.Errorf("missing scaling factor: %w", err)
		}
		scale, ok = parseBareNumber(line)
		if !ok {
			return nil, fmt.Errorf("bad scaling factor %q", line)
		}
	}

	s := &Structure{}
	for i := 0; i < 3; i++ {
		v, err := lr.floats(3)
		if err != nil {
			return nil, fmt.Errorf("cell vector %d: %w", i+1, err)
		}
		for j := 0; j < 3; j++ {
			s.Cell[i][j] = v[j] * scale
		}
	}

	s.Species, err = lr.speciesNames()
	if err != nil {
		return nil, fmt.Errorf("metallic species: %w", err)
	}
	s.NumAtoms, err = lr.ints(len(s.Species))
	if err != nil {
		return nil, fmt.Errorf("metallic atom counts: %w", err)
	}

	s.InterSpecies, err = lr.speciesNames()
	if err != nil {
		return nil, fmt.Errorf("interstitial species: %w", err)
	}
	s.NumInterAtoms, err = lr.ints(len(s.InterSpecies))
	if err != nil {
		return nil, fmt.Errorf("interstitial atom counts: %w", err)
	}

	nSites, err := lr.ints(1)
	if err != nil {
		return nil, fmt.Errorf("interstitial site count: %w", err)
	}
	numSites := nSites[0]
	if numSites < 0 {
		return nil, fmt.Errorf("negative interstitial site count %d", numSites)
	}

	flag, err := lr.next()
	if err != nil {
		return nil, fmt.Errorf("missing shuffle flag line: %w", err)
	}
	s.ShuffleRequested = strings.TrimSpace(flag) == "Shuffle"

	coord, err := lr.next()
	if err != nil {
		return nil, fmt.Errorf("missing coordinate-system line: %w", err)
	}
	cartesian := false
	if t := strings.TrimSpace(coord); t != "" {
		switch t[0] {
		case 'C', 'c', 'K', 'k':
			cartesian = true
		}
	}

	readPos := func() ([3]float64, error) {
		v, err := lr.floats(3)
		if err != nil {
			return [3]float64{}, err
		}
		if cartesian {
			return [3]float64{v[0] * scale, v[1] * scale, v[2] * scale}, nil
		}
		// Fractional: combine the lattice vectors.
		var p [3]float64
		for j := 0; j < 3; j++ {
			p[j] = v[0]*s.Cell[0][j] + v[1]*s.Cell[1][j] + v[2]*s.Cell[2][j]
		}
		return p, nil
	}

	for t, n := range s.NumAtoms {
		for i := 0; i < n; i++ {
			p, err := readPos()
			if err != nil {
				return nil, fmt.Errorf("metallic coordinates for %s: %w", s.Species[t], err)
			}
			s.AtomPos = append(s.AtomPos, p)
			s.AtomType = append(s.AtomType, t)
		}
	}

	for i := 0; i < numSites; i++ {
		p, err := readPos()
		if err != nil {
			return nil, fmt.Errorf("interstitial site %d: %w", i+1, err)
		}
		s.SitePos = append(s.SitePos, p)
		s.SiteOcc = append(s.SiteOcc, Vacant)
	}

	// Occupied sites come first, grouped by occupying species.
	idx := 0
	for t, n := range s.NumInterAtoms {
		for i := 0; i < n; i++ {
			if idx >= numSites {
				return nil, fmt.Errorf("interstitial counts exceed %d sites", numSites)
			}
			s.SiteOcc[idx] = t
			idx++
		}
	}

	if extra, err := lr.next(); err == nil {
		return nil, fmt.Errorf("line %d: unexpected trailing content %q", lr.line, extra)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

type lineReader struct {
	sc   *bufio.Scanner
	line int
}

func (lr *lineReader) next() (string, error) {
	for lr.sc.Scan() {
		lr.line++
		t := strings.TrimSpace(lr.sc.Text())
		if t != "" {
			return t, nil
		}
	}
	if err := lr.sc.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("unexpected end of file at line %d", lr.line)
}

func (lr *lineReader) floats(n int) ([]float64, error) {
	line, err := lr.next()
	if err != nil {
		return nil, err
	}
	fields := strings.Fields(line)
	if len(fields) < n {
		return nil, fmt.Errorf("line %d: want %d values, have %d", lr.line, n, len(fields))
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i], err = strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad number %q", lr.line, fields[i])
		}
	}
	return out, nil
}

func (lr *lineReader) ints(n int) ([]int, error) {
	line, err := lr.next()
	if err != nil {
		return nil, err
	}
	fields := strings.Fields(line)
	if len(fields) < n {
		return nil, fmt.Errorf("line %d: want %d values, have %d", lr.line, n, len(fields))
	}
	out := make([]int, n)
	for i := 0; i < n; i++ {
		out[i], err = strconv.Atoi(fields[i])
		if err != nil {
			return nil, fmt.Errorf("line %d: bad integer %q", lr.line, fields[i])
		}
	}
	return out, nil
}

func (lr *lineReader) speciesNames() ([]string, error) {
	line, err := lr.next()
	if err != nil {
		return nil, err
	}
	names := strings.Fields(line)
	if len(names) == 0 {
		return nil, fmt.Errorf("line %d: no species names", lr.line)
	}
	for _, name := range names {
		if AtomicNumber(name) == 0 {
			return nil, fmt.Errorf("line %d: unknown element %q", lr.line, name)
		}
	}
	return names, nil
}

func parseBareNumber(line string) (float64, bool) {
	fields := strings.Fields(line)
	if len(fields) != 1 {
		return 0, false
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
