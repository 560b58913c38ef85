// Copyright 2018 Rob Marissen.
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/524D/mzcore/internal/cv"
	"github.com/524D/mzcore/internal/model"
	"github.com/524D/mzcore/internal/query"
	"github.com/524D/mzcore/internal/source"
)

// Format of output, if it ever changes we should still be able to parse
// output from old versions
const outputFormatVersion = "1.0"

type summaryReport struct {
	FormatVersion   string   `json:"formatVersion"`
	SourceID        string   `json:"sourceId"`
	Path            string   `json:"path"`
	Format          string   `json:"format"`
	Spectra         int      `json:"spectra"`
	Identifications int      `json:"identifications"`
	Instruments     []string `json:"instruments,omitempty"`
	Software        []string `json:"software,omitempty"`
	SourceFiles     []string `json:"sourceFiles,omitempty"`
	Taxonomy        []string `json:"taxonomy,omitempty"`
	SearchEngines   []string `json:"searchEngines,omitempty"`
}

type spectrumReport struct {
	ID              string      `json:"id"`
	MsLevel         int         `json:"msLevel"`
	RetentionTime   float64     `json:"retentionTime"`
	PrecursorMz     float64     `json:"precursorMz"`
	PrecursorCharge int         `json:"precursorCharge"`
	Peaks           int         `json:"peaks"`
	SumIntensity    float64     `json:"sumIntensity"`
	MaxIntensity    float64     `json:"maxIntensity"`
	PeakList        [][]float64 `json:"peakList,omitempty"`
}

type scoreReport struct {
	Engine string   `json:"engine"`
	Term   string   `json:"term"`
	Value  *float64 `json:"value"`
}

type proteinReport struct {
	ID               string        `json:"id"`
	Accession        string        `json:"accession"`
	SearchEngine     string        `json:"searchEngine,omitempty"`
	PassThreshold    bool          `json:"passThreshold"`
	Peptides         int           `json:"peptides"`
	UniquePeptides   int           `json:"uniquePeptides"`
	PTMs             int           `json:"ptms"`
	Coverage         int           `json:"coverage"`
	CoverageFraction float64       `json:"coverageFraction"`
	SequenceCoverage float64       `json:"sequenceCoverage"`
	Scores           []scoreReport `json:"scores,omitempty"`
}

func newSummaryReport(src *source.Source) (summaryReport, error) {
	r := summaryReport{
		FormatVersion:   outputFormatVersion,
		SourceID:        src.ID().String(),
		Path:            src.Path(),
		Format:          src.Format().String(),
		Spectra:         len(src.SpectrumIDs()),
		Identifications: len(src.IdentificationIDs()),
		Taxonomy:        query.GetTaxonomy(src.Samples()),
	}
	for _, ic := range src.InstrumentConfigurations() {
		r.Instruments = append(r.Instruments, ic.ID)
	}
	for _, sw := range src.Software() {
		r.Software = append(r.Software, strings.TrimSpace(sw.Name+" "+sw.Version))
	}
	for _, sf := range src.SourceFiles() {
		r.SourceFiles = append(r.SourceFiles, sf.Name)
	}
	engines, err := src.SearchEngineTypes()
	if err != nil {
		return r, err
	}
	for _, e := range engines {
		r.SearchEngines = append(r.SearchEngines, e.String())
	}
	return r, nil
}

// newSpectrumReport describes spectrum id. Peak counts and intensities
// only include peaks with m/z in [mzMin, mzMax].
func newSpectrumReport(src *source.Source, id string, mzMin, mzMax float64, withPeaks bool) (spectrumReport, error) {
	r := spectrumReport{ID: id}
	sp, err := src.Spectrum(id)
	if err != nil {
		return r, err
	}
	if r.MsLevel, err = src.MsLevel(id); err != nil {
		return r, err
	}
	if r.PrecursorCharge, err = src.PrecursorCharge(id); err != nil {
		return r, err
	}
	if r.PrecursorMz, err = src.PrecursorMz(id); err != nil {
		return r, err
	}
	r.RetentionTime = query.GetRetentionTime(sp)

	var mz, intensity []float64
	if a := sp.MzArray(); a != nil {
		mz = a.Doubles()
	}
	if a := sp.IntensityArray(); a != nil {
		intensity = a.Doubles()
	}
	for i := range mz {
		if mz[i] < mzMin || mz[i] > mzMax || i >= len(intensity) {
			continue
		}
		r.Peaks++
		r.SumIntensity += intensity[i]
		if intensity[i] > r.MaxIntensity {
			r.MaxIntensity = intensity[i]
		}
		if withPeaks {
			r.PeakList = append(r.PeakList, []float64{mz[i], intensity[i]})
		}
	}
	return r, nil
}

func newProteinReport(src *source.Source, id string) (proteinReport, error) {
	r := proteinReport{ID: id}
	ident, err := src.Identification(id)
	if err != nil {
		return r, err
	}
	if r.Coverage, err = src.ProteinCoverage(id); err != nil {
		return r, err
	}
	r.Accession = ident.Accession()
	r.SearchEngine = ident.SearchEngine
	r.PassThreshold = ident.PassThreshold
	r.Peptides = query.GetNumberOfPeptides(ident)
	r.UniquePeptides = query.GetNumberOfUniquePeptides(ident)
	r.PTMs = query.GetNumberOfPTMs(ident)
	r.CoverageFraction = query.CoverageFraction(ident)
	r.SequenceCoverage = ident.SequenceCoverage
	r.Scores = scoreReports(ident.Score)
	return r, nil
}

func scoreReports(s *model.Score) []scoreReport {
	var out []scoreReport
	for _, k := range s.Keys() {
		v, _ := s.Value(k.Engine, k.Term)
		out = append(out, scoreReport{Engine: k.Engine.String(), Term: termName(k.Term), Value: v})
	}
	return out
}

func termName(t cv.Term) string {
	if t.Name != "" {
		return t.Name
	}
	return t.Accession
}

func writeJSON(w io.Writer, v any) error {
	e := json.NewEncoder(w)
	e.SetIndent(``, `  `) // Make output easier to read for humans
	return e.Encode(v)
}

func formatValue(v float64) string {
	if v < 0 {
		return "-"
	}
	return fmt.Sprintf("%.4f", v)
}

func writeSummaryText(w io.Writer, r summaryReport) {
	fmt.Fprintf(w, "file:            %s\n", r.Path)
	fmt.Fprintf(w, "format:          %s\n", r.Format)
	fmt.Fprintf(w, "spectra:         %d\n", r.Spectra)
	fmt.Fprintf(w, "identifications: %d\n", r.Identifications)
	list := func(name string, items []string) {
		if len(items) > 0 {
			fmt.Fprintf(w, "%-17s%s\n", name+":", strings.Join(items, ", "))
		}
	}
	list("instruments", r.Instruments)
	list("software", r.Software)
	list("source files", r.SourceFiles)
	list("taxonomy", r.Taxonomy)
	list("search engines", r.SearchEngines)
}

func writeSpectrumText(w io.Writer, r spectrumReport) {
	fmt.Fprintf(w, "%s\tms%d\trt=%s\tprecursor=%s/%d\tpeaks=%d\tsum=%s\tmax=%s\n",
		r.ID, r.MsLevel, formatValue(r.RetentionTime), formatValue(r.PrecursorMz),
		r.PrecursorCharge, r.Peaks, formatValue(r.SumIntensity), formatValue(r.MaxIntensity))
	for _, p := range r.PeakList {
		fmt.Fprintf(w, "\t%.6f\t%g\n", p[0], p[1])
	}
}

func writeProteinText(w io.Writer, r proteinReport) {
	pct := "-"
	if r.CoverageFraction >= 0 {
		pct = fmt.Sprintf("%.1f%%", 100*r.CoverageFraction)
	}
	fmt.Fprintf(w, "%s\t%s\tpeptides=%d\tunique=%d\tptms=%d\tcoverage=%d (%s)\n",
		r.ID, r.Accession, r.Peptides, r.UniquePeptides, r.PTMs, r.Coverage, pct)
	for _, s := range r.Scores {
		v := "n/a"
		if s.Value != nil {
			v = fmt.Sprintf("%g", *s.Value)
		}
		fmt.Fprintf(w, "\t%s %s: %s\n", s.Engine, s.Term, v)
	}
}
