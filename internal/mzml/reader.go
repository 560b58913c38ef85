package mzml

import (
	"encoding/xml"
	"io"
	"math"
	"strconv"

	"golang.org/x/net/html/charset"

	"github.com/524D/mzcore/internal/cv"
)

// Read reads mzML file from an io.Reader
func Read(reader io.Reader) (*MzML, error) {
	mzML := &MzML{}

	d := xml.NewDecoder(reader)
	d.CharsetReader = charset.NewReaderLabel

	// We are only interested in mzML content, so skip over indexedmzML
	// and everything else
	for {
		t, tokenErr := d.Token()
		if tokenErr != nil {
			if tokenErr == io.EOF {
				break
			}
			return nil, tokenErr
		}
		if t, ok := t.(xml.StartElement); ok && t.Name.Local == "mzML" {
			if err := d.DecodeElement(&mzML.content, &t); err != nil {
				return nil, err
			}
			break
		}
	}

	if err := mzML.traverseScan(); err != nil {
		return nil, err
	}
	if err := mzML.resolveReferences(); err != nil {
		return nil, err
	}
	return mzML, nil
}

// NumSpecs returns the number of spectra
func (f *MzML) NumSpecs() int {
	return len(f.content.Run.SpectrumList.Spectrum)
}

// SpectrumIDs returns the spectrum identifiers in file order.
func (f *MzML) SpectrumIDs() []string {
	out := make([]string, len(f.index2id))
	copy(out, f.index2id)
	return out
}

// ChromatogramIDs returns the chromatogram identifiers in file order.
func (f *MzML) ChromatogramIDs() []string {
	if f.content.Run.ChromatogramList == nil {
		return nil
	}
	out := make([]string, 0, len(f.content.Run.ChromatogramList.Chromatogram))
	for _, c := range f.content.Run.ChromatogramList.Chromatogram {
		out = append(out, c.ID)
	}
	return out
}

// RetentionTime returns the retention time of a spectrum in seconds,
// or -1 if the spectrum has none
func (f *MzML) RetentionTime(scanIndex int) (float64, error) {
	if scanIndex < 0 || scanIndex >= f.NumSpecs() {
		return 0.0, ErrInvalidScanIndex
	}
	sl := f.content.Run.SpectrumList.Spectrum[scanIndex].ScanList
	if sl == nil {
		return -1.0, nil
	}
	for _, scan := range sl.Scan {
		for _, cvParam := range f.groupParams(&scan.paramGroup).CvParams {
			if cv.ScanStartTime.Matches(cvParam.Accession) {
				retentionTime, err := strconv.ParseFloat(cvParam.Value, 64)
				// Check if the retention time is in minutes, otherwise assume it's seconds
				if cv.Minute.Matches(cvParam.UnitAccession) ||
					cv.MinuteMS.Matches(cvParam.UnitAccession) {
					retentionTime *= 60
				}
				return retentionTime, err
			}
		}
	}
	return -1.0, nil
}

// ReadScan reads the peaks of a single scan.
// scanIndex is the sequence number of the scan in the mzML file,
// This is not the same as the scan number that is specified
// in the mzML file! To read a scan using the mzML number,
// use ReadScan(f, ScanIndex(f, scanNum))
func (f *MzML) ReadScan(scanIndex int) ([]Peak, error) {
	if scanIndex < 0 || scanIndex >= f.NumSpecs() {
		return nil, ErrInvalidScanIndex
	}
	s, err := f.transformSpectrum(&f.content.Run.SpectrumList.Spectrum[scanIndex], true)
	if err != nil {
		return nil, err
	}
	mz := s.MzArray().Doubles()
	intens := s.IntensityArray().Doubles()
	n := len(mz)
	if len(intens) < n {
		n = len(intens)
	}
	p := make([]Peak, n)
	for i := range p {
		p[i] = Peak{Mz: mz[i], Intens: intens[i]}
	}
	return p, nil
}

// Centroid returns true is the spectrum contains centroid peaks
func (f *MzML) Centroid(scanIndex int) (bool, error) {
	if scanIndex < 0 || scanIndex >= f.NumSpecs() {
		return false, ErrInvalidScanIndex
	}
	for _, cvParam := range f.groupParams(&f.content.Run.SpectrumList.Spectrum[scanIndex].paramGroup).CvParams {
		if cv.CentroidSpectrum.Matches(cvParam.Accession) {
			return true, nil
		}
	}
	return false, nil
}

// TotalIonCurrent returns the total ion current, or NaN if not found
func (f *MzML) TotalIonCurrent(scanIndex int) (float64, error) {
	if scanIndex < 0 || scanIndex >= f.NumSpecs() {
		return 0.0, ErrInvalidScanIndex
	}
	for _, cvParam := range f.groupParams(&f.content.Run.SpectrumList.Spectrum[scanIndex].paramGroup).CvParams {
		if cv.TotalIonCurrent.Matches(cvParam.Accession) {
			return strconv.ParseFloat(cvParam.Value, 64)
		}
	}
	return math.NaN(), nil
}

// MSLevel returns the MS level of a scan
func (f *MzML) MSLevel(scanIndex int) (int, error) {
	if scanIndex < 0 || scanIndex >= f.NumSpecs() {
		return 0, ErrInvalidScanIndex
	}
	for _, cvParam := range f.groupParams(&f.content.Run.SpectrumList.Spectrum[scanIndex].paramGroup).CvParams {
		if cv.MsLevel.Matches(cvParam.Accession) {
			msLevel, err := strconv.ParseInt(cvParam.Value, 10, 64)
			return int(msLevel), err
		}
	}
	return 1, nil // If nothing else, guess it's MS1
}

// MSInstruments returns the CV accessions of the mass analyzers
func (f *MzML) MSInstruments() []string {
	var instr []string
	for _, id := range f.instrumentOrder {
		for _, conf := range f.instrumentConfs[id] {
			if len(conf.Analyzer.CvParams) > 0 {
				instr = append(instr, conf.Analyzer.CvParams[0].Accession)
			}
		}
	}
	return instr
}

// traverseScan traverses all scans,
// collects info of all scans and
// and fills the arrays f.index2id and f.id2Index to make scans accessible
func (f *MzML) traverseScan() error {
	f.index2id = make([]string, f.NumSpecs())
	f.id2Index = make(map[string]int, f.NumSpecs())

	for i := range f.content.Run.SpectrumList.Spectrum {
		if err := f.addSpecToIndex(i); err != nil {
			return err
		}
	}
	if cl := f.content.Run.ChromatogramList; cl != nil {
		f.chromIndex = make(map[string]int, len(cl.Chromatogram))
		for i, c := range cl.Chromatogram {
			f.chromIndex[c.ID] = i
		}
	}
	return nil
}

func (f *MzML) addSpecToIndex(i int) error {
	if i != f.content.Run.SpectrumList.Spectrum[i].Index {
		return ErrInvalidScanIndex
	}
	f.index2id[i] = f.content.Run.SpectrumList.Spectrum[i].ID
	f.id2Index[f.content.Run.SpectrumList.Spectrum[i].ID] = i
	return nil
}

// ScanIndex converts a scan identifier (the string used in the mzML file)
// into an index that is used to access the scans
func (f *MzML) ScanIndex(scanID string) (int, error) {
	if index, ok := f.id2Index[scanID]; ok {
		return index, nil
	}
	return 0, ErrInvalidScanID
}

// ScanID converts a scan index (used to access the scan data) into a scan id
// (used in the mzML file)
func (f *MzML) ScanID(scanIndex int) (string, error) {
	if scanIndex >= 0 && scanIndex < f.NumSpecs() {
		return f.index2id[scanIndex], nil
	}
	return "", ErrInvalidScanIndex
}
