// Package model holds the format-independent representation of mass
// spectrometry experiments that every transformer produces.
package model

import "strings"

// Parameter is the common view of CvParam and UserParam used by name searches.
type Parameter interface {
	ParamName() string
	ParamValue() string
}

// CvParam is a parameter described by a controlled vocabulary term.
type CvParam struct {
	Accession      string
	Name           string
	CvLookupID     string
	Value          string
	UnitAccession  string
	UnitName       string
	UnitCvLookupID string
}

// CvParamKey identifies a CvParam; name, value and unit do not take part.
type CvParamKey struct {
	Accession  string
	CvLookupID string
}

// NewCvParam returns a CvParam without unit information.
func NewCvParam(accession, name, cvLookupID, value string) CvParam {
	return CvParam{Accession: accession, Name: name, CvLookupID: cvLookupID, Value: value}
}

// Key returns the identity of p.
func (p CvParam) Key() CvParamKey {
	return CvParamKey{Accession: p.Accession, CvLookupID: p.CvLookupID}
}

// Equal reports whether p and o refer to the same term.
func (p CvParam) Equal(o CvParam) bool {
	return p.Key() == o.Key()
}

// HasAccession compares accessions case-insensitively.
func (p CvParam) HasAccession(accession string) bool {
	return strings.EqualFold(p.Accession, accession)
}

func (p CvParam) ParamName() string  { return p.Name }
func (p CvParam) ParamValue() string { return p.Value }

// UserParam is a free-form name/value parameter.
type UserParam struct {
	Name           string
	Type           string
	Value          string
	UnitAccession  string
	UnitName       string
	UnitCvLookupID string
}

// NewUserParam returns a UserParam without type or unit.
func NewUserParam(name, value string) UserParam {
	return UserParam{Name: name, Value: value}
}

func (p UserParam) ParamName() string  { return p.Name }
func (p UserParam) ParamValue() string { return p.Value }

// ParamGroup is an ordered collection of CV and user parameters. The zero
// value is an empty group ready for use.
type ParamGroup struct {
	CvParams   []CvParam
	UserParams []UserParam
}

// NewParamGroup returns a group holding copies of the given parameters.
func NewParamGroup(cvParams []CvParam, userParams []UserParam) *ParamGroup {
	pg := &ParamGroup{}
	pg.AddCvParams(cvParams)
	pg.AddUserParams(userParams)
	return pg
}

func (pg *ParamGroup) AddCvParam(p CvParam) {
	pg.CvParams = append(pg.CvParams, p)
}

func (pg *ParamGroup) AddCvParams(ps []CvParam) {
	pg.CvParams = append(pg.CvParams, ps...)
}

func (pg *ParamGroup) AddUserParam(p UserParam) {
	pg.UserParams = append(pg.UserParams, p)
}

func (pg *ParamGroup) AddUserParams(ps []UserParam) {
	pg.UserParams = append(pg.UserParams, ps...)
}

// Merge appends the parameters of other, keeping their order.
func (pg *ParamGroup) Merge(other *ParamGroup) {
	if other == nil {
		return
	}
	pg.AddCvParams(other.CvParams)
	pg.AddUserParams(other.UserParams)
}

// IsEmpty reports whether the group holds no parameters. A nil group is empty.
func (pg *ParamGroup) IsEmpty() bool {
	return pg == nil || (len(pg.CvParams) == 0 && len(pg.UserParams) == 0)
}

// Clone returns a deep copy of pg.
func (pg *ParamGroup) Clone() *ParamGroup {
	if pg == nil {
		return nil
	}
	return NewParamGroup(pg.CvParams, pg.UserParams)
}

// Params returns CV parameters followed by user parameters.
func (pg *ParamGroup) Params() []Parameter {
	if pg == nil {
		return nil
	}
	out := make([]Parameter, 0, len(pg.CvParams)+len(pg.UserParams))
	for _, p := range pg.CvParams {
		out = append(out, p)
	}
	for _, p := range pg.UserParams {
		out = append(out, p)
	}
	return out
}
