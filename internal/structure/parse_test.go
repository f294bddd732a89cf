package structure

import (
	"bytes"
	"strings"
	"testing"
)

const sampleFractional = `1.0
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

const sampleCartesian = `FeNi + C
2.0
1 0 0
0 1 0
0 0 1
Fe Ni
3 1
C
1
2
Shuffle
Cartesian
0 0 0
0.5 0 0
0 0.5 0
0 0 0.5
0.25 0.25 0.25
0.75 0.75 0.75
`

func TestParseFractional(t *testing.T) {
	s, err := Parse(strings.NewReader(sampleFractional))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if s.NumMetallic() != 4 {
		t.Errorf("Expected 4 metallic atoms, got %d", s.NumMetallic())
	}
	if s.NumSites() != 2 {
		t.Errorf("Expected 2 sites, got %d", s.NumSites())
	}
	if s.ShuffleRequested {
		t.Error("Shuffle should not be requested")
	}
	// Fractional 0.5 0 0 in a 2x2x2 cell is Cartesian (1, 0, 0).
	if got := s.AtomPos[1]; got != [3]float64{1, 0, 0} {
		t.Errorf("Fractional conversion wrong: %v", got)
	}
	// First site occupied by C, second vacant.
	if s.SiteOcc[0] != 0 || s.SiteOcc[1] != Vacant {
		t.Errorf("Occupancy wrong: %v", s.SiteOcc)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Invariants violated after load: %v", err)
	}
}

func TestParseCartesianWithTitleAndScale(t *testing.T) {
	s, err := Parse(strings.NewReader(sampleCartesian))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !s.ShuffleRequested {
		t.Error("Shuffle flag should be set")
	}
	// Cartesian coords and cell are scaled by 2.0.
	if got := s.AtomPos[1]; got != [3]float64{1, 0, 0} {
		t.Errorf("Scaled Cartesian wrong: %v", got)
	}
	if s.Cell[0][0] != 2 {
		t.Errorf("Cell not scaled: %v", s.Cell[0])
	}
}

func TestParseUnknownSpecies(t *testing.T) {
	bad := strings.Replace(sampleFractional, "Fe Ni", "Fe Xx", 1)
	if _, err := Parse(strings.NewReader(bad)); err == nil {
		t.Fatal("Expected error for unknown element")
	}
}

func TestParseTruncated(t *testing.T) {
	lines := strings.Split(strings.TrimSpace(sampleFractional), "\n")
	// Drop the last interstitial coordinate line.
	bad := strings.Join(lines[:len(lines)-1], "\n")
	if _, err := Parse(strings.NewReader(bad)); err == nil {
		t.Fatal("Expected error for truncated coordinate block")
	}
	if _, err := Parse(strings.NewReader("")); err == nil {
		t.Fatal("Expected error for empty file")
	}
}

func TestParseCountMismatch(t *testing.T) {
	bad := strings.Replace(sampleFractional, "3 1", "2 1", 1)
	if _, err := Parse(strings.NewReader(bad)); err == nil {
		t.Fatal("Expected error when counts do not match coordinates")
	}
}

func TestParseTrailingContent(t *testing.T) {
	extra := sampleFractional + "0.1 0.2 0.3\n"
	if _, err := Parse(strings.NewReader(extra)); err == nil {
		t.Fatal("Expected error for coordinates beyond the declared counts")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	s, err := Parse(strings.NewReader(sampleFractional))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	var first bytes.Buffer
	if err := s.EncodeSave(&first); err != nil {
		t.Fatalf("EncodeSave failed: %v", err)
	}

	s2, err := Parse(bytes.NewReader(first.Bytes()))
	if err != nil {
		t.Fatalf("Re-parse of save output failed: %v", err)
	}
	var second bytes.Buffer
	if err := s2.EncodeSave(&second); err != nil {
		t.Fatalf("Second EncodeSave failed: %v", err)
	}

	if first.String() != second.String() {
		t.Errorf("Save output not idempotent under re-parse:\n%s\n---\n%s", first.String(), second.String())
	}
	if err := s2.Validate(); err != nil {
		t.Errorf("Invariants violated after round trip: %v", err)
	}
}

func TestPoscarOmitsVacantSites(t *testing.T) {
	s, err := Parse(strings.NewReader(sampleFractional))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	var buf bytes.Buffer
	if err := s.EncodePoscar(&buf); err != nil {
		t.Fatalf("EncodePoscar failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	// title, scale, 3 cell, names, counts, Cartesian, 4 metallic, 1 occupied.
	if len(lines) != 13 {
		t.Errorf("Expected 13 lines, got %d:\n%s", len(lines), buf.String())
	}
	if lines[5] != "Fe Ni C" {
		t.Errorf("Combined species header wrong: %q", lines[5])
	}
	if lines[6] != "3 1 1" {
		t.Errorf("Combined counts wrong: %q", lines[6])
	}
}
