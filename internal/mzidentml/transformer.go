package mzidentml

import (
	"strconv"
	"strings"

	"github.com/524D/mzcore/internal/cv"
	"github.com/524D/mzcore/internal/model"
	"github.com/524D/mzcore/internal/query"
)

func transformParams(raw *paramGroup) *model.ParamGroup {
	if raw == nil {
		return nil
	}
	pg := &model.ParamGroup{}
	for _, c := range raw.CvPar {
		pg.AddCvParam(model.CvParam{
			Accession:      c.Accession,
			Name:           c.Name,
			CvLookupID:     c.CvRef,
			Value:          c.Value,
			UnitAccession:  c.UnitAccession,
			UnitName:       c.UnitName,
			UnitCvLookupID: c.UnitCvRef,
		})
	}
	for _, u := range raw.UserPar {
		pg.AddUserParam(model.UserParam{
			Name:           u.Name,
			Type:           u.Type,
			Value:          u.Value,
			UnitAccession:  u.UnitAccession,
			UnitName:       u.UnitName,
			UnitCvLookupID: u.UnitCvRef,
		})
	}
	return pg
}

func parseInt(s string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return v
}

// builder transforms the objects of one identification so that shared
// references resolve to the same model value.
type builder struct {
	m         *MzIdentML
	dbSeqs    map[string]*model.DBSequence
	sequences map[string]*model.PeptideSequence
	evidences map[string]*model.PeptideEvidence
	items     map[string]*model.SpectrumIdentification
}

func (m *MzIdentML) newBuilder() *builder {
	return &builder{
		m:         m,
		dbSeqs:    make(map[string]*model.DBSequence),
		sequences: make(map[string]*model.PeptideSequence),
		evidences: make(map[string]*model.PeptideEvidence),
		items:     make(map[string]*model.SpectrumIdentification),
	}
}

func (b *builder) dbSequence(id string) *model.DBSequence {
	if s, ok := b.dbSeqs[id]; ok {
		return s
	}
	i, ok := b.m.dbSeqIdx[id]
	if !ok {
		return nil
	}
	raw := &b.m.content.DBSequence[i]
	s := &model.DBSequence{
		ParamGroup:    *transformParams(&raw.paramGroup),
		ID:            raw.ID,
		Accession:     raw.Accession,
		SpliceIsoform: -1,
		Sequence:      raw.Seq,
		Length:        raw.Length,
	}
	if s.Length == 0 {
		s.Length = len(raw.Seq)
	}
	for _, db := range b.m.content.SearchDatabase {
		if db.ID == raw.SearchDatabaseRef {
			s.Database = db.Name
			s.DatabaseVersion = db.Version
			if s.Database == "" {
				s.Database = db.Location
			}
		}
	}
	b.dbSeqs[id] = s
	return s
}

func (b *builder) peptideSequence(id string) *model.PeptideSequence {
	if s, ok := b.sequences[id]; ok {
		return s
	}
	i, ok := b.m.seqID2PepIdx[id]
	if !ok {
		return nil
	}
	raw := &b.m.content.Peptide[i]
	s := &model.PeptideSequence{
		ParamGroup: *transformParams(&raw.paramGroup),
		ID:         raw.ID,
		Sequence:   raw.PeptideSequence,
	}
	for j := range raw.Modification {
		s.Modifications = append(s.Modifications, transformModification(&raw.Modification[j]))
	}
	b.sequences[id] = s
	return s
}

// transformModification takes accession and database from the first CV
// parameter of the modification.
func transformModification(raw *modification) *model.Modification {
	mod := &model.Modification{
		ParamGroup: *transformParams(&raw.paramGroup),
		Location:   parseInt(raw.Location, -1),
		Residues:   strings.Fields(raw.Residues),
	}
	if len(raw.CvPar) > 0 {
		mod.Accession = raw.CvPar[0].Accession
		mod.Database = raw.CvPar[0].CvRef
	}
	if raw.MonoisotopicMassDelta != nil {
		mod.MonoisotopicMass = []float64{*raw.MonoisotopicMassDelta}
	}
	if raw.AvgMassDelta != nil {
		mod.AverageMass = []float64{*raw.AvgMassDelta}
	}
	return mod
}

func (b *builder) evidence(id string) *model.PeptideEvidence {
	if e, ok := b.evidences[id]; ok {
		return e
	}
	i, ok := b.m.evidenceIdx[id]
	if !ok {
		return nil
	}
	raw := &b.m.content.PeptideEvidence[i]
	e := &model.PeptideEvidence{
		ParamGroup:      *transformParams(&raw.paramGroup),
		ID:              raw.ID,
		Start:           parseInt(raw.Start, -1),
		End:             parseInt(raw.End, -1),
		Pre:             raw.Pre,
		Post:            raw.Post,
		Decoy:           raw.IsDecoy,
		PeptideSequence: b.peptideSequence(raw.PeptideRef),
		DBSequence:      b.dbSequence(raw.DBSequenceRef),
	}
	b.evidences[id] = e
	return e
}

func (b *builder) spectrumIdentification(ref identRef) *model.SpectrumIdentification {
	result := &b.m.content.SpectrumIdentificationResult[ref.resultIdx]
	raw := &result.SpectrumIdentificationItem[ref.itemIdx]
	if raw.ID != "" {
		if s, ok := b.items[raw.ID]; ok {
			return s
		}
	}
	params := transformParams(&raw.paramGroup)
	s := &model.SpectrumIdentification{
		ParamGroup:               *params,
		ID:                       raw.ID,
		Rank:                     raw.Rank,
		ChargeState:              raw.ChargeState,
		ExperimentalMassToCharge: raw.ExperimentalMassToCharge,
		CalculatedMassToCharge:   -1,
		PassThreshold:            raw.PassThreshold,
		SpectrumRef:              result.SpectrumID,
		Score:                    query.GetScore(params),
	}
	if raw.CalculatedMassToCharge != nil {
		s.CalculatedMassToCharge = *raw.CalculatedMassToCharge
	}
	// A malformed retention time leaves it unknown.
	if rt, err := retentionTime(&result.paramGroup); err == nil {
		s.RetentionTime = rt
	} else {
		s.RetentionTime = -1
	}
	for i := range raw.IonType {
		s.FragmentIons = append(s.FragmentIons, &model.FragmentIon{ParamGroup: *transformParams(&raw.IonType[i].paramGroup)})
	}
	if raw.ID != "" {
		b.items[raw.ID] = s
	}
	return s
}

// Identification builds the protein identification with the given id.
func (m *MzIdentML) Identification(id string) (*model.Identification, error) {
	b := m.newBuilder()
	if h, ok := m.pdhIdx[id]; ok {
		return b.fromHypothesis(h), nil
	}
	if _, ok := m.dbSeqIdx[id]; ok && len(m.pdhIdx) == 0 {
		return b.fromDBSequence(id), nil
	}
	return nil, ErrInvalidIdentificationID
}

func (m *MzIdentML) searchEngine() string {
	if len(m.content.AnalysisSoftware) == 0 {
		return ""
	}
	s := m.content.AnalysisSoftware[0]
	if s.Name != "" {
		return s.Name
	}
	if s.SoftwareName != nil && len(s.SoftwareName.CvPar) > 0 {
		return s.SoftwareName.CvPar[0].Name
	}
	return ""
}

func (b *builder) newIdentification(id string, dbSeq *model.DBSequence, params *model.ParamGroup) *model.Identification {
	ident := &model.Identification{
		ParamGroup:       *params,
		ID:               id,
		DBSequence:       dbSeq,
		Score:            query.GetScore(params),
		Threshold:        -1,
		SearchEngine:     b.m.searchEngine(),
		SequenceCoverage: -1,
	}
	if v, ok := query.GetSelectedCvParamValue(params, cv.SequenceCoverage); ok {
		ident.SequenceCoverage = v
	}
	return ident
}

func (b *builder) fromHypothesis(h *proteinDetectionHypothesis) *model.Identification {
	ident := b.newIdentification(h.ID, b.dbSequence(h.DBSequenceRef), transformParams(&h.paramGroup))
	ident.PassThreshold = h.PassThreshold
	for _, ph := range h.PeptideHypothesis {
		ev := b.evidence(ph.PeptideEvidenceRef)
		if ev == nil {
			continue
		}
		for _, r := range ph.SpectrumIdentificationItemRef {
			ref, ok := b.m.siiIdx[r.Ref]
			if !ok {
				continue
			}
			ident.AddPeptide(&model.Peptide{Evidence: ev, SpectrumIdentification: b.spectrumIdentification(ref)})
		}
	}
	return ident
}

// fromDBSequence collects every spectrum match with evidence on the
// database sequence, in file order.
func (b *builder) fromDBSequence(id string) *model.Identification {
	ident := b.newIdentification(id, b.dbSequence(id), &model.ParamGroup{})
	for _, ref := range b.m.identList {
		item := &b.m.content.SpectrumIdentificationResult[ref.resultIdx].SpectrumIdentificationItem[ref.itemIdx]
		for _, er := range item.PeptideEvidenceRef {
			i, ok := b.m.evidenceIdx[er.Ref]
			if !ok || b.m.content.PeptideEvidence[i].DBSequenceRef != id {
				continue
			}
			ident.AddPeptide(&model.Peptide{Evidence: b.evidence(er.Ref), SpectrumIdentification: b.spectrumIdentification(ref)})
		}
	}
	for _, p := range ident.Peptides() {
		if p.SpectrumIdentification.PassThreshold {
			ident.PassThreshold = true
			break
		}
	}
	return ident
}

// Software returns the analysis software list.
func (m *MzIdentML) Software() []*model.Software {
	out := make([]*model.Software, 0, len(m.content.AnalysisSoftware))
	for i := range m.content.AnalysisSoftware {
		raw := &m.content.AnalysisSoftware[i]
		sw := &model.Software{ID: raw.ID, Name: raw.Name, Version: raw.Version}
		if pg := transformParams(raw.SoftwareName); pg != nil {
			sw.ParamGroup = *pg
			if sw.Name == "" && len(pg.CvParams) > 0 {
				sw.Name = pg.CvParams[0].Name
			}
		}
		out = append(out, sw)
	}
	return out
}

// SourceFiles returns the spectra files that the identifications refer to.
// File and spectrum id formats are kept as parameters.
func (m *MzIdentML) SourceFiles() []*model.SourceFile {
	out := make([]*model.SourceFile, 0, len(m.content.SpectraData))
	for i := range m.content.SpectraData {
		raw := &m.content.SpectraData[i]
		sf := &model.SourceFile{ID: raw.ID, Name: raw.Name, Location: raw.Location}
		sf.Merge(transformParams(raw.FileFormat))
		sf.Merge(transformParams(raw.SpectrumIDFormat))
		out = append(out, sf)
	}
	return out
}

func (m *MzIdentML) CVLookups() []*model.CVLookup {
	out := make([]*model.CVLookup, 0, len(m.content.Cv))
	for _, c := range m.content.Cv {
		out = append(out, &model.CVLookup{CvLabel: c.ID, FullName: c.FullName, Version: c.Version, Address: c.URI})
	}
	return out
}
