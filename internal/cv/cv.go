// Package cv holds the controlled vocabulary terms used to interpret and
// synthesize CvParams, and a minimal term registry.
package cv

import "strings"

// Term is a controlled vocabulary term.
type Term struct {
	CvLabel   string
	Accession string
	Name      string
}

// Matches compares accessions case-insensitively.
func (t Term) Matches(accession string) bool {
	return strings.EqualFold(t.Accession, accession)
}

func (t Term) String() string {
	return t.Accession + " " + t.Name
}

var (
	MsLevel          = Term{"MS", "MS:1000511", "ms level"}
	MassSpectrum     = Term{"MS", "MS:1000294", "mass spectrum"}
	SpectrumType     = Term{"MS", "MS:1000525", "spectrum representation"}
	CentroidSpectrum = Term{"MS", "MS:1000127", "centroid spectrum"}
	ProfileSpectrum  = Term{"MS", "MS:1000128", "profile spectrum"}
	TotalIonCurrent  = Term{"MS", "MS:1000285", "total ion current"}
	ScanStartTime    = Term{"MS", "MS:1000016", "scan start time"}

	NoCombination  = Term{"MS", "MS:1000795", "no combination"}
	SumOfSpectra   = Term{"MS", "MS:1000571", "sum of spectra"}
	ScanWindowLow  = Term{"MS", "MS:1000501", "scan window lower limit"}
	ScanWindowHigh = Term{"MS", "MS:1000500", "scan window upper limit"}

	BinaryDataType = Term{"MS", "MS:1000518", "binary data type"}
	Int32          = Term{"MS", "MS:1000519", "32-bit integer"}
	Float16        = Term{"MS", "MS:1000520", "16-bit float"}
	Float32        = Term{"MS", "MS:1000521", "32-bit float"}
	Int64          = Term{"MS", "MS:1000522", "64-bit integer"}
	Float64        = Term{"MS", "MS:1000523", "64-bit float"}

	CompressionType = Term{"MS", "MS:1000572", "binary data compression type"}
	NoCompression   = Term{"MS", "MS:1000576", "no compression"}
	ZlibCompression = Term{"MS", "MS:1000574", "zlib compression"}

	ArrayType      = Term{"MS", "MS:1000513", "binary data array"}
	MzArray        = Term{"MS", "MS:1000514", "m/z array"}
	IntensityArray = Term{"MS", "MS:1000515", "intensity array"}
	ChargeArray    = Term{"MS", "MS:1000516", "charge array"}
	TimeArray      = Term{"MS", "MS:1000595", "time array"}

	InstrumentModel  = Term{"MS", "MS:1000031", "instrument model"}
	ContactName      = Term{"MS", "MS:1000586", "contact name"}
	ContactOrg       = Term{"MS", "MS:1000590", "contact organization"}
	ConversionToMzML = Term{"MS", "MS:1000544", "Conversion to mzML"}
	ProjectName      = Term{"PRIDE", "PRIDE:0000097", "Project"}

	// Selected ion terms. The MS ones come from mzML, the PSI ones from PRIDE XML.
	ChargeState          = Term{"MS", "MS:1000041", "charge state"}
	SelectedIonMz        = Term{"MS", "MS:1000744", "selected ion m/z"}
	PeakIntensity        = Term{"MS", "MS:1000042", "peak intensity"}
	PsiChargeState       = Term{"PSI", "PSI:1000041", "ChargeState"}
	PsiMassToChargeRatio = Term{"PSI", "PSI:1000040", "MassToChargeRatio"}
	PsiIntensity         = Term{"PSI", "PSI:1000042", "Intensity"}

	// Scan start time variants used by identification files.
	RetentionTime  = Term{"MS", "MS:1000894", "retention time"}
	RetentionTimes = Term{"MS", "MS:1001114", "retention time(s)"}
	ElutionTime    = Term{"MS", "MS:1000826", "elution time"}
	Minute         = Term{"UO", "UO:0000031", "minute"}
	MinuteMS       = Term{"MS", "MS:1000038", "minute"}
	Second         = Term{"UO", "UO:0000010", "second"}

	SequenceCoverage = Term{"MS", "MS:1001093", "sequence coverage"}

	NumpressLinear     = Term{"MS", "MS:1002312", "MS-Numpress linear prediction compression"}
	NumpressPic        = Term{"MS", "MS:1002313", "MS-Numpress positive integer compression"}
	NumpressSlof       = Term{"MS", "MS:1002314", "MS-Numpress short logged float compression"}
	NumpressLinearZlib = Term{"MS", "MS:1002746", "MS-Numpress linear prediction compression followed by zlib compression"}
	NumpressPicZlib    = Term{"MS", "MS:1002747", "MS-Numpress positive integer compression followed by zlib compression"}
	NumpressSlofZlib   = Term{"MS", "MS:1002748", "MS-Numpress short logged float compression followed by zlib compression"}
)

// Taxonomy vocabularies recognised by the taxonomy query.
var TaxonomyLabels = []string{"NEWT", "NCBITaxon"}
