package cv

import "strings"

// Registry resolves accessions to terms and answers ontology subsumption
// queries.
type Registry interface {
	Lookup(accession string) (Term, bool)
	IsChild(parent, child string) bool
}

type staticRegistry struct {
	terms   map[string]Term
	parents map[string]string
}

var defaultRegistry = newStaticRegistry()

// DefaultRegistry returns a read-only registry of the built-in terms. Only
// the parent relations needed to classify binary arrays are known.
func DefaultRegistry() Registry {
	return defaultRegistry
}

func newStaticRegistry() *staticRegistry {
	r := &staticRegistry{
		terms:   make(map[string]Term),
		parents: make(map[string]string),
	}
	children := map[Term][]Term{
		BinaryDataType:  {Int32, Float16, Float32, Int64, Float64},
		CompressionType: {NoCompression, ZlibCompression, NumpressLinear, NumpressPic, NumpressSlof, NumpressLinearZlib, NumpressPicZlib, NumpressSlofZlib},
		ArrayType:       {MzArray, IntensityArray, ChargeArray, TimeArray},
		SpectrumType:    {CentroidSpectrum, ProfileSpectrum},
	}
	for parent, cs := range children {
		r.add(parent)
		for _, c := range cs {
			r.add(c)
			r.parents[key(c.Accession)] = key(parent.Accession)
		}
	}
	for _, t := range []Term{MsLevel, MassSpectrum, TotalIonCurrent, ScanStartTime, NoCombination,
		SumOfSpectra, ScanWindowLow, ScanWindowHigh, InstrumentModel, ContactName, ContactOrg,
		ConversionToMzML, ProjectName, ChargeState, SelectedIonMz, PeakIntensity, PsiChargeState,
		PsiMassToChargeRatio, PsiIntensity, RetentionTime, RetentionTimes, ElutionTime, Minute,
		MinuteMS, Second} {
		r.add(t)
	}
	for _, e := range AllSearchEngines() {
		for _, t := range e.ScoreTerms() {
			r.add(t)
		}
	}
	return r
}

func key(accession string) string {
	return strings.ToUpper(accession)
}

func (r *staticRegistry) add(t Term) {
	r.terms[key(t.Accession)] = t
}

func (r *staticRegistry) Lookup(accession string) (Term, bool) {
	t, ok := r.terms[key(accession)]
	return t, ok
}

// IsChild reports whether child is a descendant of parent.
func (r *staticRegistry) IsChild(parent, child string) bool {
	p := key(parent)
	for c, ok := r.parents[key(child)]; ok; c, ok = r.parents[c] {
		if c == p {
			return true
		}
	}
	return false
}
