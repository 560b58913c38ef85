package model

import "github.com/524D/mzcore/internal/cv"

// Spectrum is a single mass spectrum.
type Spectrum struct {
	ParamGroup
	ID                 string
	Index              int
	SpotID             string
	DefaultArrayLength int
	DataProcessing     *DataProcessing
	SourceFile         *SourceFile
	ScanList           *ScanList
	Precursors         []*Precursor
	Products           []*ParamGroup
	BinaryDataArrays   []*BinaryDataArray
}

// MzArray returns the m/z array, or nil when the spectrum has none.
func (s *Spectrum) MzArray() *BinaryDataArray {
	return findArray(s.BinaryDataArrays, cv.MzArray.Accession)
}

// IntensityArray returns the intensity array, or nil when the spectrum has none.
func (s *Spectrum) IntensityArray() *BinaryDataArray {
	return findArray(s.BinaryDataArrays, cv.IntensityArray.Accession)
}

func findArray(arrays []*BinaryDataArray, accession string) *BinaryDataArray {
	for _, a := range arrays {
		if a.HasCvParam(accession) {
			return a
		}
	}
	return nil
}

// Chromatogram is an intensity trace over time.
type Chromatogram struct {
	ParamGroup
	ID                 string
	Index              int
	DefaultArrayLength int
	DataProcessing     *DataProcessing
	Precursor          *Precursor
	Product            *ParamGroup
	BinaryDataArrays   []*BinaryDataArray
}

// TimeArray returns the time array, or nil.
func (c *Chromatogram) TimeArray() *BinaryDataArray {
	return findArray(c.BinaryDataArrays, cv.TimeArray.Accession)
}

// IntensityArray returns the intensity array, or nil.
func (c *Chromatogram) IntensityArray() *BinaryDataArray {
	return findArray(c.BinaryDataArrays, cv.IntensityArray.Accession)
}

// ScanList groups the scans that were combined into a spectrum. The
// method of combination is held in the embedded ParamGroup.
type ScanList struct {
	ParamGroup
	Scans []*Scan
}

type Scan struct {
	ParamGroup
	SpectrumRef             string
	ExternalSpectrumID      string
	SourceFile              *SourceFile
	InstrumentConfiguration *InstrumentConfiguration
	ScanWindows             []*ParamGroup
}

// Precursor describes the ion that was selected for fragmentation.
type Precursor struct {
	Spectrum           *Spectrum
	SpectrumRef        string
	SourceFile         *SourceFile
	ExternalSpectrumID string
	IsolationWindow    *ParamGroup
	SelectedIons       []*ParamGroup
	Activation         *ParamGroup
}
