package cv

import "strings"

// Search engine score terms. The PRIDE ones are used by PRIDE XML, the MS
// ones by mzIdentML.
var (
	MascotScore            = Term{"PRIDE", "PRIDE:0000069", "Mascot Score"}
	MascotExpectValue      = Term{"PRIDE", "PRIDE:0000212", "Mascot expect value"}
	MsMascotScore          = Term{"MS", "MS:1001171", "Mascot:score"}
	MsMascotExpectValue    = Term{"MS", "MS:1001172", "Mascot:expectation value"}
	XTandemHyperScore      = Term{"PRIDE", "PRIDE:0000176", "X!Tandem Hyperscore"}
	XTandemExpectancyScore = Term{"PRIDE", "PRIDE:0000183", "X|Tandem expectancy score"}
	MsXTandemHyperScore    = Term{"MS", "MS:1001331", "X!Tandem:hyperscore"}
	MsXTandemExpectValue   = Term{"MS", "MS:1001330", "X!Tandem:expect"}
	SequestScore           = Term{"PRIDE", "PRIDE:0000053", "Sequest score"}
	XCorrelation           = Term{"PRIDE", "PRIDE:0000013", "X correlation"}
	SequestDeltaCn         = Term{"PRIDE", "PRIDE:0000012", "Delta Cn"}
	MsSequestXCorr         = Term{"MS", "MS:1001155", "SEQUEST:xcorr"}
	MsSequestConsensus     = Term{"MS", "MS:1001163", "SEQUEST:consensus score"}
	MsSequestDeltaCn       = Term{"MS", "MS:1001156", "SEQUEST:deltacn"}
	SpectrumMillScore      = Term{"PRIDE", "PRIDE:0000177", "Spectrum Mill peptide score"}
	MsSpectrumMillScore    = Term{"MS", "MS:1001572", "SpectrumMill:Score"}
	OmssaEValue            = Term{"PRIDE", "PRIDE:0000185", "OMSSA E-value"}
	OmssaPValue            = Term{"PRIDE", "PRIDE:0000186", "OMSSA P-value"}
	MsOmssaEValue          = Term{"MS", "MS:1001328", "OMSSA:evalue"}
	MsOmssaPValue          = Term{"MS", "MS:1001329", "OMSSA:pvalue"}
)

// SearchEngineType is one of the supported proteomics search engines.
type SearchEngineType int

const (
	Mascot SearchEngineType = iota + 1
	XTandem
	Sequest
	SpectrumMill
	Omssa
)

// AllSearchEngines returns every supported engine in a fixed order.
func AllSearchEngines() []SearchEngineType {
	return []SearchEngineType{Mascot, XTandem, Sequest, SpectrumMill, Omssa}
}

func (t SearchEngineType) String() string {
	switch t {
	case Mascot:
		return "MASCOT"
	case XTandem:
		return "XTANDEM"
	case Sequest:
		return "SEQUEST"
	case SpectrumMill:
		return "SPECTRUM_MILL"
	case Omssa:
		return "OMSSA"
	}
	return "UNKNOWN"
}

// ScoreTerms returns the score terms of t; order is significant.
func (t SearchEngineType) ScoreTerms() []Term {
	switch t {
	case Mascot:
		return []Term{MascotScore, MascotExpectValue, MsMascotScore, MsMascotExpectValue}
	case XTandem:
		return []Term{XTandemHyperScore, XTandemExpectancyScore, MsXTandemHyperScore, MsXTandemExpectValue}
	case Sequest:
		return []Term{SequestScore, XCorrelation, SequestDeltaCn, MsSequestXCorr, MsSequestConsensus, MsSequestDeltaCn}
	case SpectrumMill:
		return []Term{SpectrumMillScore, MsSpectrumMillScore}
	case Omssa:
		return []Term{OmssaEValue, OmssaPValue, MsOmssaEValue, MsOmssaPValue}
	}
	return nil
}

// DefaultScoreTerm is the term used for a bare protein score reported
// together with the engine name.
func (t SearchEngineType) DefaultScoreTerm() (Term, bool) {
	terms := t.ScoreTerms()
	if len(terms) == 0 {
		return Term{}, false
	}
	return terms[0], true
}

// SearchEngineByName resolves an engine name as written in data files.
func SearchEngineByName(name string) (SearchEngineType, bool) {
	n := strings.ToUpper(strings.TrimSpace(name))
	switch n {
	case "MASCOT", "MATRIX SCIENCE MASCOT":
		return Mascot, true
	case "XTANDEM", "X!TANDEM", "X! TANDEM":
		return XTandem, true
	case "SEQUEST":
		return Sequest, true
	case "SPECTRUM_MILL", "SPECTRUM MILL", "SPECTRUMMILL":
		return SpectrumMill, true
	case "OMSSA":
		return Omssa, true
	}
	return 0, false
}
