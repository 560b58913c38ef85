package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseIntRange(t *testing.T) {
	tests := []struct {
		r        string
		min, max int
		wantErr  error
	}{
		{"2:5", 2, 5, nil},
		{"", 0, 9, nil},
		{":4", 0, 4, nil},
		{"3:", 3, 9, nil},
		{"-5:20", 0, 9, nil},
		{"7:3", 3, 3, ErrRangeSpec},
		{"seven", 0, 9, ErrRangeSpec},
	}
	for _, tt := range tests {
		min, max, err := parseIntRange(tt.r, 0, 9)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("parseIntRange(%q): expected error %v, got: %v", tt.r, tt.wantErr, err)
		}
		if min != tt.min || max != tt.max {
			t.Errorf("parseIntRange(%q): expected %d:%d, got: %d:%d", tt.r, tt.min, tt.max, min, max)
		}
	}
}

func TestParseFloat64Range(t *testing.T) {
	// Test case 1: Valid input range
	min, max, err := parseFloat64Range("0.5:1.5", 0.0, 2.0)
	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
	if min != 0.5 || max != 1.5 {
		t.Errorf("Expected 0.5:1.5, got: %f:%f", min, max)
	}

	// Test case 2: Empty input range
	min, max, err = parseFloat64Range("", 0.0, 2.0)
	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
	if min != 0.0 || max != 2.0 {
		t.Errorf("Expected 0.0:2.0, got: %f:%f", min, max)
	}

	// Test case 3: Invalid input range
	min, max, err = parseFloat64Range("2.5:1.5", 0.0, 2.0)
	if !errors.Is(err, ErrRangeSpec) {
		t.Errorf("Expected error: %v, got: %v", ErrRangeSpec, err)
	}
	if min != 1.5 || max != 1.5 {
		t.Errorf("Expected 1.5:1.5, got: %f:%f", min, max)
	}

	// Test case 4: Exponent notation
	min, max, err = parseFloat64Range("-12.01e1:+6", -1000, 1000)
	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
	if min != -120.1 || max != 6.0 {
		t.Errorf("Expected -120.1:6.0, got: %f:%f", min, max)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCommand(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	if stderr.Len() > 0 {
		t.Logf("stderr: %s", stderr.String())
	}
	return stdout.String(), err
}

func TestSummaryCommand(t *testing.T) {
	out, err := run(t, "summary", "--json", "internal/pridexml/testdata/small.xml")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	var r summaryReport
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatalf("summary output is not JSON: %v", err)
	}
	r.SourceID = ""
	want := summaryReport{
		FormatVersion:   outputFormatVersion,
		Path:            "internal/pridexml/testdata/small.xml",
		Format:          "PRIDE XML",
		Spectra:         3,
		Identifications: 2,
		Instruments:     []string{"LTQ Orbitrap", "LTQ Orbitrap"},
		Software:        []string{"Mascot Distiller 2.3"},
		SourceFiles:     []string{"liver.raw"},
		Taxonomy:        []string{"9606"},
		SearchEngines:   []string{"MASCOT"},
	}
	if diff := cmp.Diff(want, r); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}

	out, err = run(t, "summary", "internal/mzml/testdata/small.mzML")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if !strings.Contains(out, "format:          mzML\n") {
		t.Errorf("unexpected summary text:\n%s", out)
	}
}

func TestSpectrumCommand(t *testing.T) {
	out, err := run(t, "spectrum", "--json", "--mz", "150:", "--peaks", "internal/mzml/testdata/small.mzML", "scan=19")
	if err != nil {
		t.Fatalf("spectrum: %v", err)
	}
	var reports []spectrumReport
	if err := json.Unmarshal([]byte(out), &reports); err != nil {
		t.Fatalf("spectrum output is not JSON: %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("Expected 1 spectrum, got: %d", len(reports))
	}
	r := reports[0]
	if r.MsLevel != 1 || r.Peaks != 2 || r.SumIntensity != 50 || r.MaxIntensity != 30 {
		t.Errorf("unexpected report: %+v", r)
	}
	if diff := cmp.Diff([][]float64{{200.25, 20}, {300.125, 30}}, r.PeakList); diff != "" {
		t.Errorf("peak list mismatch (-want +got):\n%s", diff)
	}

	out, err = run(t, "spectrum", "--index", "1:", "internal/mzml/testdata/small.mzML")
	if err != nil {
		t.Fatalf("spectrum: %v", err)
	}
	if !strings.HasPrefix(out, "scan=20\tms2\t") || !strings.Contains(out, "precursor=200.2500/2") {
		t.Errorf("unexpected spectrum text:\n%s", out)
	}

	if _, err := run(t, "spectrum", "--index", "5:1", "internal/mzml/testdata/small.mzML"); !errors.Is(err, ErrRangeSpec) {
		t.Errorf("Expected error: %v, got: %v", ErrRangeSpec, err)
	}
	if _, err := run(t, "spectrum", "internal/mzml/testdata/small.mzML", "scan=99"); err == nil {
		t.Errorf("Expected error for unknown spectrum")
	}
}

func TestProteinCommand(t *testing.T) {
	out, err := run(t, "protein", "--json", "--min-peptides", "2", "internal/mzidentml/testdata/proteins.mzid")
	if err != nil {
		t.Fatalf("protein: %v", err)
	}
	var reports []proteinReport
	if err := json.Unmarshal([]byte(out), &reports); err != nil {
		t.Fatalf("protein output is not JSON: %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("Expected 1 protein, got: %d", len(reports))
	}
	r := reports[0]
	if r.ID != "PDH_1" || r.Accession != "P12345" || r.Coverage != 15 || !r.PassThreshold {
		t.Errorf("unexpected report: %+v", r)
	}

	out, err = run(t, "protein", "--stats", "internal/mzidentml/testdata/proteins.mzid", "PDH_2")
	if err != nil {
		t.Fatalf("protein: %v", err)
	}
	if !strings.HasPrefix(out, "PDH_2\tQ99999\t") {
		t.Errorf("unexpected protein text:\n%s", out)
	}
}

func TestInvalidConfig(t *testing.T) {
	if _, err := run(t, "summary", "--log-level", "loud", "internal/mzml/testdata/small.mzML"); err == nil {
		t.Errorf("Expected error for invalid log level")
	}
}
