package structure

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// EncodeSave writes the canonical save format: everything Parse reads,
// with absolute Cartesian coordinates at scale 1.0 and vacant sites
// appended after the occupied ones.
func (s *Structure) EncodeSave(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s\n", s.titleLine())
	fmt.Fprintf(bw, "1.0\n")
	s.writeCell(bw)
	fmt.Fprintf(bw, "%s\n", strings.Join(s.Species, " "))
	fmt.Fprintf(bw, "%s\n", joinInts(s.NumAtoms))
	fmt.Fprintf(bw, "%s\n", strings.Join(s.InterSpecies, " "))
	fmt.Fprintf(bw, "%s\n", joinInts(s.NumInterAtoms))
	fmt.Fprintf(bw, "%d\n", s.NumSites())
	fmt.Fprintf(bw, "No Shuffle\n")
	fmt.Fprintf(bw, "Cartesian\n")
	s.writeMetallic(bw)
	s.writeOccupied(bw)
	for i, occ := range s.SiteOcc {
		if occ == Vacant {
			writePos(bw, s.SitePos[i])
		}
	}
	return bw.Flush()
}

// EncodePoscar writes the candidate configuration handed to workers:
// metallic and interstitial species merged into one header, occupied
// sites only, vacant sites omitted.
func (s *Structure) EncodePoscar(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s\n", s.titleLine())
	fmt.Fprintf(bw, "1.0\n")
	s.writeCell(bw)
	names := append(append([]string{}, s.Species...), s.InterSpecies...)
	counts := append(append([]int{}, s.NumAtoms...), s.NumInterAtoms...)
	fmt.Fprintf(bw, "%s\n", strings.Join(names, " "))
	fmt.Fprintf(bw, "%s\n", joinInts(counts))
	fmt.Fprintf(bw, "Cartesian\n")
	s.writeMetallic(bw)
	s.writeOccupied(bw)
	return bw.Flush()
}

// WriteSaveFile atomically writes the save format to path. The file
// becomes visible only complete, never partially written.
func (s *Structure) WriteSaveFile(path string) error {
	return atomicWrite(path, s.EncodeSave)
}

// WritePoscarFile atomically writes the candidate format to path.
func (s *Structure) WritePoscarFile(path string) error {
	return atomicWrite(path, s.EncodePoscar)
}

func (s *Structure) titleLine() string {
	return strings.Join(s.Species, "") + " + " + strings.Join(s.InterSpecies, "")
}

func (s *Structure) writeCell(w io.Writer) {
	for i := 0; i < 3; i++ {
		fmt.Fprintf(w, "%s %s %s\n", ftoa(s.Cell[i][0]), ftoa(s.Cell[i][1]), ftoa(s.Cell[i][2]))
	}
}

func (s *Structure) writeMetallic(w io.Writer) {
	for t := range s.Species {
		for i, at := range s.AtomType {
			if at == t {
				writePos(w, s.AtomPos[i])
			}
		}
	}
}

func (s *Structure) writeOccupied(w io.Writer) {
	for t := range s.InterSpecies {
		for i, occ := range s.SiteOcc {
			if occ == t {
				writePos(w, s.SitePos[i])
			}
		}
	}
}

func writePos(w io.Writer, p [3]float64) {
	fmt.Fprintf(w, "%s %s %s\n", ftoa(p[0]), ftoa(p[1]), ftoa(p[2]))
}

// ftoa formats with the shortest representation that parses back to
// the same float64, keeping re-serialization idempotent.
func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, " ")
}

func atomicWrite(path string, encode func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".tmp_*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if err := encode(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("publish %s: %w", path, err)
	}
	return nil
}
