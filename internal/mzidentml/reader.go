package mzidentml

import (
	"encoding/xml"
	"io"
	"math"
	"strconv"

	"golang.org/x/net/html/charset"

	"github.com/524D/mzcore/internal/cv"
	"github.com/524D/mzcore/internal/model"
)

// Read reads mzIdentML content from io.reader
func Read(reader io.Reader) (*MzIdentML, error) {
	mzIdentML := &MzIdentML{}
	d := xml.NewDecoder(reader)
	d.CharsetReader = charset.NewReaderLabel
	err := d.Decode(&mzIdentML.content)
	if err != nil {
		return nil, err
	}
	mzIdentML.buildPepID2Sequence()
	mzIdentML.buildIdentList()
	mzIdentML.buildProteinIndex()
	return mzIdentML, nil
}

func (m *MzIdentML) buildPepID2Sequence() {
	m.seqID2PepIdx = make(map[string]int, len(m.content.Peptide))
	for i, p := range m.content.Peptide {
		m.seqID2PepIdx[p.ID] = i
	}
}

func (m *MzIdentML) buildIdentList() {
	m.siiIdx = make(map[string]identRef)
	for i := range m.content.SpectrumIdentificationResult {
		for j, item := range m.content.SpectrumIdentificationResult[i].SpectrumIdentificationItem {
			iRef := identRef{resultIdx: i, itemIdx: j}
			m.identList = append(m.identList, iRef)
			if item.ID != "" {
				m.siiIdx[item.ID] = iRef
			}
		}
	}
}

// buildProteinIndex collects the protein identification ids. Without a
// protein detection list every database sequence that is referenced by a
// spectrum match counts as one identification.
func (m *MzIdentML) buildProteinIndex() {
	m.dbSeqIdx = make(map[string]int, len(m.content.DBSequence))
	for i, s := range m.content.DBSequence {
		m.dbSeqIdx[s.ID] = i
	}
	m.evidenceIdx = make(map[string]int, len(m.content.PeptideEvidence))
	for i, e := range m.content.PeptideEvidence {
		m.evidenceIdx[e.ID] = i
	}

	m.pdhIdx = make(map[string]*proteinDetectionHypothesis)
	for i := range m.content.ProteinAmbiguityGroup {
		g := &m.content.ProteinAmbiguityGroup[i]
		for j := range g.ProteinDetectionHypothesis {
			h := &g.ProteinDetectionHypothesis[j]
			m.identIDs = append(m.identIDs, h.ID)
			m.pdhIdx[h.ID] = h
		}
	}
	if len(m.identIDs) > 0 {
		return
	}

	referenced := make(map[string]bool)
	for _, r := range m.content.SpectrumIdentificationResult {
		for _, item := range r.SpectrumIdentificationItem {
			for _, ref := range item.PeptideEvidenceRef {
				if i, ok := m.evidenceIdx[ref.Ref]; ok {
					referenced[m.content.PeptideEvidence[i].DBSequenceRef] = true
				}
			}
		}
	}
	for _, s := range m.content.DBSequence {
		if referenced[s.ID] {
			m.identIDs = append(m.identIDs, s.ID)
		}
	}
}

// NumIdents returns the total number of identifications in the mzIdentML file
// Note that for some spectra, multiple identifications may be present
// The identifications can be accessed using the Ident() method, which takes
// an index as argument. The index runs from 0 to NumIdents()-1
func (m *MzIdentML) NumIdents() int {
	return len(m.identList)
}

// Ident returns a spectrum identification from the mzIdentML file.
// Parameter i is the index of the identification to return. The index runs
// from 0 to NumIdents()-1
func (m *MzIdentML) Ident(i int) (SpectrumMatch, error) {
	var ident SpectrumMatch

	if i < 0 || i >= len(m.identList) {
		return ident, ErrInvalidIdentIndex
	}
	result := &m.content.SpectrumIdentificationResult[m.identList[i].resultIdx]
	item := &result.SpectrumIdentificationItem[m.identList[i].itemIdx]

	pepIdx, ok := m.seqID2PepIdx[item.PeptideRef]
	if !ok {
		return ident, ErrUnknownPeptide
	}
	pep := &m.content.Peptide[pepIdx]
	ident.PepSeq = pep.PeptideSequence
	ident.PepID = pep.ID
	ident.Charge = item.ChargeState
	for _, mod := range pep.Modification {
		if mod.MonoisotopicMassDelta != nil {
			ident.ModMass += *mod.MonoisotopicMassDelta
		}
	}
	ident.SpecID = result.SpectrumID
	rt, err := retentionTime(&result.paramGroup)
	if err != nil {
		return ident, err
	}
	ident.RetentionTime = rt
	// Collect CV terms/values for the identification, the scores are in there
	ident.Cv = transformParams(&item.paramGroup).CvParams

	return ident, nil
}

// retentionTime returns the retention time in seconds, or -1.
// There are multiple CV terms that can be used to report the
// retention time. In order of decreasing preference we use:
// 1. MS:1000016 - scan start time
// 2. MS:1000894 - retention time
// 3. MS:1000826 - elution time
// 4. MS:1001114 - retention time (deprecated)
func retentionTime(pg *paramGroup) (float64, error) {
	terms := []cv.Term{cv.ScanStartTime, cv.RetentionTime, cv.ElutionTime, cv.RetentionTimes}
	rt := float64(-1)
	prio := math.MaxInt32
	for _, c := range pg.CvPar {
		for p, t := range terms {
			if !t.Matches(c.Accession) || prio <= p {
				continue
			}
			prio = p
			retentionTime, err := strconv.ParseFloat(c.Value, 64)
			if err != nil {
				return rt, err
			}
			// Check if the retention time is in minutes, otherwise assume it's seconds
			if cv.Minute.Matches(c.UnitAccession) || cv.MinuteMS.Matches(c.UnitAccession) {
				retentionTime *= 60
			}
			rt = retentionTime
		}
	}
	return rt, nil
}

// IdentificationIDs returns the protein identification ids in file order.
func (m *MzIdentML) IdentificationIDs() []string {
	out := make([]string, len(m.identIDs))
	copy(out, m.identIDs)
	return out
}

// SpectrumIDs returns nil; spectra are kept in separate files.
func (m *MzIdentML) SpectrumIDs() []string {
	return nil
}

func (m *MzIdentML) Spectrum(id string) (*model.Spectrum, error) {
	return nil, ErrNoSpectra
}

// InstrumentConfigurations returns nil; mzIdentML does not describe instruments.
func (m *MzIdentML) InstrumentConfigurations() []*model.InstrumentConfiguration {
	return nil
}

func (m *MzIdentML) DataProcessings() []*model.DataProcessing {
	return nil
}

func (m *MzIdentML) Samples() []*model.Sample {
	return nil
}

func (m *MzIdentML) Contacts() []*model.Contact {
	return nil
}
