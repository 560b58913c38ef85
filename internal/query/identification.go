package query

import (
	"strconv"
	"strings"

	"github.com/524D/mzcore/internal/cv"
	"github.com/524D/mzcore/internal/model"
)

// GetPeptideScore collects, for every engine in engines, the first matching
// CV parameter of each of its score terms. Non-numeric values are kept as
// absent entries.
func GetPeptideScore(pg *model.ParamGroup, engines []cv.SearchEngineType) (*model.Score, error) {
	if pg == nil {
		return nil, ErrNilParamGroup
	}
	if engines == nil {
		return nil, ErrNilSearchEngines
	}
	score := model.NewScore()
	for _, e := range engines {
		for _, t := range e.ScoreTerms() {
			matches, err := GetCvParam(pg, t.CvLabel, t.Accession)
			if err != nil {
				return nil, err
			}
			if len(matches) == 0 {
				continue
			}
			// only the first match counts
			if v, err := strconv.ParseFloat(strings.TrimSpace(matches[0].Value), 64); err == nil {
				score.Add(e, t, &v)
			} else {
				score.Add(e, t, nil)
			}
		}
	}
	return score, nil
}

// GetSearchEngineTypes returns the engines for which at least one score
// term is present in pg.
func GetSearchEngineTypes(pg *model.ParamGroup) ([]cv.SearchEngineType, error) {
	if pg == nil {
		return nil, ErrNilParamGroup
	}
	out := []cv.SearchEngineType{}
	for _, e := range cv.AllSearchEngines() {
		for _, t := range e.ScoreTerms() {
			matches, err := GetCvParam(pg, t.CvLabel, t.Accession)
			if err != nil {
				return nil, err
			}
			if len(matches) > 0 {
				out = append(out, e)
				break
			}
		}
	}
	return out, nil
}

// GetScore is GetPeptideScore over the engines present in pg. A nil group
// yields a nil score.
func GetScore(pg *model.ParamGroup) *model.Score {
	if pg == nil {
		return nil
	}
	engines, _ := GetSearchEngineTypes(pg)
	score, _ := GetPeptideScore(pg, engines)
	return score
}

// GetProteinCoverage returns the number of residues of the protein
// sequence covered by at least one of its peptides. ok is false when the
// protein has no peptides.
//
// Peptides whose sequence does not occur in the protein are ignored. A
// peptide is placed at its recorded start when the recorded positions match
// the sequence; otherwise every occurrence of the peptide is counted.
func GetProteinCoverage(ident *model.Identification) (coverage int, ok bool) {
	if ident == nil {
		return 0, false
	}
	peptides := ident.Peptides()
	if len(peptides) == 0 {
		return 0, false
	}
	var seq string
	if ident.DBSequence != nil {
		seq = ident.DBSequence.Sequence
	}

	var evidences []*model.PeptideEvidence
	for _, p := range peptides {
		ps := p.Sequence()
		if ps != "" && strings.Contains(seq, ps) {
			evidences = append(evidences, p.Evidence)
		}
	}

	marks := make([]int, len(seq))
	upper := strings.ToUpper(seq)
	for _, ev := range evidences {
		ps := ev.PeptideSequence.Sequence
		for _, start := range peptideStarts(seq, upper, ps, ev.Start, ev.End) {
			for i := start; i < start+len(ps) && i < len(marks); i++ {
				marks[i]++
			}
		}
	}
	for _, m := range marks {
		if m != 0 {
			coverage++
		}
	}
	return coverage, true
}

// peptideStarts returns the 0-based start positions of ps within seq.
func peptideStarts(seq, upper, ps string, start, end int) []int {
	if start >= 1 && start <= len(seq) && end >= start && end <= len(seq) &&
		upper[start-1:end] == strings.ToUpper(ps) {
		return []int{start - 1}
	}
	var starts []int
	seen := make(map[int]bool)
	for i := strings.Index(seq, ps); i >= 0; {
		if !seen[i] {
			seen[i] = true
			starts = append(starts, i)
		}
		next := strings.Index(seq[i+1:], ps)
		if next < 0 {
			break
		}
		i += next + 1
	}
	return starts
}

// CoverageFraction returns the coverage as a fraction of the sequence
// length, or -1 when it cannot be computed.
func CoverageFraction(ident *model.Identification) float64 {
	cov, ok := GetProteinCoverage(ident)
	if !ok || ident.DBSequence == nil || len(ident.DBSequence.Sequence) == 0 {
		return -1
	}
	return float64(cov) / float64(len(ident.DBSequence.Sequence))
}

// GetPeptide returns the index-th peptide, or nil.
func GetPeptide(ident *model.Identification, index int) *model.Peptide {
	peptides := ident.Peptides()
	if index < 0 || index >= len(peptides) {
		return nil
	}
	return peptides[index]
}

// GetPeptideEvidence returns the index-th distinct peptide evidence, or nil.
func GetPeptideEvidence(ident *model.Identification, index int) *model.PeptideEvidence {
	evidences := ident.Evidences()
	if index < 0 || index >= len(evidences) {
		return nil
	}
	return evidences[index]
}

func GetNumberOfPeptides(ident *model.Identification) int {
	return len(ident.Peptides())
}

// GetNumberOfUniquePeptides counts distinct peptide sequences.
func GetNumberOfUniquePeptides(ident *model.Identification) int {
	seen := make(map[string]bool)
	for _, p := range ident.Peptides() {
		seen[p.Sequence()] = true
	}
	return len(seen)
}

// GetNumberOfPTMs counts the modifications over all peptides.
func GetNumberOfPTMs(ident *model.Identification) int {
	cnt := 0
	for _, p := range ident.Peptides() {
		cnt += len(p.Modifications())
	}
	return cnt
}

// HasFragmentIon reports whether the spectrum match of p lists fragment ions.
func HasFragmentIon(p *model.Peptide) bool {
	return p != nil && p.SpectrumIdentification != nil && len(p.SpectrumIdentification.FragmentIons) > 0
}
