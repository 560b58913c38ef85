// Package query holds lookups over the common model: CV parameter
// searches, precursor values, search engine scores and protein coverage.
package query

import (
	"errors"
	"strconv"
	"strings"

	"github.com/524D/mzcore/internal/cv"
	"github.com/524D/mzcore/internal/model"
)

var (
	// ErrNilParamGroup means a required parameter group is nil
	ErrNilParamGroup = errors.New("query: nil parameter group")
	// ErrEmptyAccession means a CV accession is required
	ErrEmptyAccession = errors.New("query: empty accession")
	// ErrEmptyName means a parameter name is required
	ErrEmptyName = errors.New("query: empty name")
	// ErrNilSearchEngines means a list of search engines is required
	ErrNilSearchEngines = errors.New("query: nil search engine list")
)

// GetCvParam returns the CV parameters with the given accession, compared
// case-insensitively. cvLabel does not restrict the match, since many files
// omit or misspell the CV reference.
func GetCvParam(pg *model.ParamGroup, cvLabel, accession string) ([]model.CvParam, error) {
	if pg == nil {
		return nil, ErrNilParamGroup
	}
	if accession == "" {
		return nil, ErrEmptyAccession
	}
	out := []model.CvParam{}
	for _, p := range pg.CvParams {
		if p.HasAccession(accession) {
			out = append(out, p)
		}
	}
	return out, nil
}

// GetParamByName returns the CV parameters and then the user parameters
// whose name matches, compared case-insensitively.
func GetParamByName(pg *model.ParamGroup, name string) ([]model.Parameter, error) {
	if pg == nil {
		return nil, ErrNilParamGroup
	}
	if name == "" {
		return nil, ErrEmptyName
	}
	out := []model.Parameter{}
	for _, p := range pg.CvParams {
		if strings.EqualFold(p.Name, name) {
			out = append(out, p)
		}
	}
	for _, p := range pg.UserParams {
		if strings.EqualFold(p.Name, name) {
			out = append(out, p)
		}
	}
	return out, nil
}

// GetSelectedCvParamValue returns the numeric value for the first match of
// each term in turn; a later term that matches replaces an earlier result.
// A non-numeric value of a matching term makes the result absent.
func GetSelectedCvParamValue(pg *model.ParamGroup, terms ...cv.Term) (float64, bool) {
	if pg == nil {
		return 0, false
	}
	var (
		value float64
		ok    bool
	)
	for _, t := range terms {
		matches, err := GetCvParam(pg, t.CvLabel, t.Accession)
		if err != nil || len(matches) == 0 {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(matches[0].Value), 64)
		value, ok = v, err == nil
	}
	return value, ok
}

// GetSelectedIonCvParamValue applies GetSelectedCvParamValue to the
// index-th selected ion of p.
func GetSelectedIonCvParamValue(p *model.Precursor, index int, terms ...cv.Term) (float64, bool) {
	if p == nil || index < 0 || index >= len(p.SelectedIons) {
		return 0, false
	}
	return GetSelectedCvParamValue(p.SelectedIons[index], terms...)
}

// GetSelectedIonCharge reads the charge of a selected ion. The PRIDE XML
// term is passed last, so it wins over the mzML one.
func GetSelectedIonCharge(p *model.Precursor, index int) (float64, bool) {
	return GetSelectedIonCvParamValue(p, index, cv.ChargeState, cv.PsiChargeState)
}

func GetSelectedIonMz(p *model.Precursor, index int) (float64, bool) {
	return GetSelectedIonCvParamValue(p, index, cv.SelectedIonMz, cv.PsiMassToChargeRatio)
}

func GetSelectedIonIntensity(p *model.Precursor, index int) (float64, bool) {
	return GetSelectedIonCvParamValue(p, index, cv.PeakIntensity, cv.PsiIntensity)
}

// GetPrecursorChargeParamGroup reads a charge directly from a parameter
// group, as found in identification parameters.
func GetPrecursorChargeParamGroup(pg *model.ParamGroup) (int, bool) {
	c, ok := GetSelectedCvParamValue(pg, cv.ChargeState, cv.PsiChargeState)
	return int(c), ok
}

// GetTaxonomy returns the accessions of taxonomy terms of the samples.
func GetTaxonomy(samples []*model.Sample) []string {
	var out []string
	for _, s := range samples {
		for _, p := range s.CvParams {
			for _, label := range cv.TaxonomyLabels {
				if strings.EqualFold(p.CvLookupID, label) {
					out = append(out, p.Accession)
				}
			}
		}
	}
	return out
}

// GetProjectName returns the value of the last project name term, or "".
func GetProjectName(pg *model.ParamGroup) string {
	var project string
	if pg == nil {
		return project
	}
	for _, p := range pg.CvParams {
		if cv.ProjectName.Matches(p.Accession) {
			project = p.Value
		}
	}
	return project
}
