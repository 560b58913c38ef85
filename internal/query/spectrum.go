package query

import (
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/524D/mzcore/internal/cv"
	"github.com/524D/mzcore/internal/model"
)

// GetPrecursorCharge returns the charge of the first selected ion of the
// first precursor, or -1.
func GetPrecursorCharge(s *model.Spectrum) int {
	if s == nil || len(s.Precursors) == 0 {
		return -1
	}
	if c, ok := GetSelectedIonCharge(s.Precursors[0], 0); ok {
		return int(c)
	}
	return -1
}

// GetPrecursorMz returns the m/z of the first selected ion of the first
// precursor, or -1.
func GetPrecursorMz(s *model.Spectrum) float64 {
	if s == nil || len(s.Precursors) == 0 {
		return -1
	}
	if m, ok := GetSelectedIonMz(s.Precursors[0], 0); ok {
		return m
	}
	return -1
}

// GetPrecursorIntensity returns the intensity of the first selected ion of
// the first precursor, or -1.
func GetPrecursorIntensity(s *model.Spectrum) float64 {
	if s == nil || len(s.Precursors) == 0 {
		return -1
	}
	if it, ok := GetSelectedIonIntensity(s.Precursors[0], 0); ok {
		return it
	}
	return -1
}

// GetMsLevel returns the value of the "ms level" parameter, or -1.
func GetMsLevel(s *model.Spectrum) int {
	if s == nil {
		return -1
	}
	params, err := GetParamByName(&s.ParamGroup, cv.MsLevel.Name)
	if err != nil || len(params) == 0 {
		return -1
	}
	level, err := strconv.Atoi(strings.TrimSpace(params[0].ParamValue()))
	if err != nil {
		return -1
	}
	return level
}

// GetNumberOfPeaks returns the length of the first binary array, or -1.
func GetNumberOfPeaks(s *model.Spectrum) int {
	if s == nil || len(s.BinaryDataArrays) == 0 || s.BinaryDataArrays[0] == nil {
		return -1
	}
	return s.BinaryDataArrays[0].Len()
}

// GetSumOfIntensity returns the sum of the intensity array, or 0.
func GetSumOfIntensity(s *model.Spectrum) float64 {
	if s == nil {
		return 0
	}
	a := s.IntensityArray()
	if a == nil || a.Len() == 0 {
		return 0
	}
	return floats.Sum(a.Doubles())
}

// GetMaxIntensity returns the base peak intensity, or 0.
func GetMaxIntensity(s *model.Spectrum) float64 {
	if s == nil {
		return 0
	}
	a := s.IntensityArray()
	if a == nil || a.Len() == 0 {
		return 0
	}
	return floats.Max(a.Doubles())
}

// GetRetentionTime returns the scan start time of the first scan in
// seconds, or -1.
func GetRetentionTime(s *model.Spectrum) float64 {
	if s == nil || s.ScanList == nil {
		return -1
	}
	for _, scan := range s.ScanList.Scans {
		for _, p := range scan.CvParams {
			if !cv.ScanStartTime.Matches(p.Accession) {
				continue
			}
			rt, err := strconv.ParseFloat(strings.TrimSpace(p.Value), 64)
			if err != nil {
				return -1
			}
			if cv.Minute.Matches(p.UnitAccession) || cv.MinuteMS.Matches(p.UnitAccession) {
				rt *= 60
			}
			return rt
		}
	}
	return -1
}
