package pridexml

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/524D/mzcore/internal/codec"
	"github.com/524D/mzcore/internal/cv"
	"github.com/524D/mzcore/internal/model"
	"github.com/524D/mzcore/internal/query"
)

// Fixed identifiers of the single-valued metadata of a PRIDE XML file.
const (
	sampleID         = "sample1"
	sourceFileID     = "sourcefile1"
	dataProcessingID = "dataprocessing1"
	protocolID       = "protocol1"
)

const (
	spectrumTypeDiscrete   = "discrete"
	spectrumTypeContinuous = "continuous"
)

func transformParams(raw *param) *model.ParamGroup {
	if raw == nil {
		return nil
	}
	pg := &model.ParamGroup{}
	addParams(pg, raw)
	return pg
}

func addParams(pg *model.ParamGroup, raw *param) {
	if raw == nil {
		return
	}
	for _, c := range raw.CvPar {
		pg.AddCvParam(model.NewCvParam(c.Accession, c.Name, c.CvLabel, c.Value))
	}
	for _, u := range raw.UserPar {
		pg.AddUserParam(model.NewUserParam(u.Name, u.Value))
	}
}

func termParam(t cv.Term, value string) model.CvParam {
	return model.NewCvParam(t.Accession, t.Name, t.CvLabel, value)
}

// parseFloat returns def when s is not a number.
func parseFloat(s string, def float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return def
	}
	return v
}

func parseInt(s string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return v
}

// Spectrum transforms the spectrum with the given id.
func (f *PrideXML) Spectrum(id string) (*model.Spectrum, error) {
	i, err := f.ScanIndex(id)
	if err != nil {
		return nil, err
	}
	return f.transformSpectrum(&f.content.MzData.SpectrumList[i], i, true)
}

// transformSpectrum builds a spectrum. Precursor spectra are resolved only
// when withParents is set.
func (f *PrideXML) transformSpectrum(raw *spectrum, index int, withParents bool) (*model.Spectrum, error) {
	if raw == nil {
		return nil, nil
	}
	s := &model.Spectrum{
		ID:                 raw.ID,
		Index:              index,
		DefaultArrayLength: -1,
		DataProcessing:     f.dataProcessing(),
	}

	var (
		settings *spectrumSettings
		desc     = raw.SpectrumDesc
	)
	if desc != nil {
		settings = desc.SpectrumSettings
	}
	var instr *spectrumInstrument
	var acq *acqSpecification
	if settings != nil {
		instr = settings.SpectrumInstrument
		acq = settings.AcqSpecification
	}

	if instr != nil && instr.MsLevel != "" {
		s.AddCvParam(termParam(cv.MsLevel, instr.MsLevel))
	}
	s.AddCvParam(termParam(cv.MassSpectrum, ""))
	if acq != nil {
		switch strings.ToLower(strings.TrimSpace(acq.SpectrumType)) {
		case spectrumTypeDiscrete:
			s.AddCvParam(termParam(cv.CentroidSpectrum, acq.SpectrumType))
		case spectrumTypeContinuous:
			s.AddCvParam(termParam(cv.ProfileSpectrum, acq.SpectrumType))
		}
	}
	if instr != nil {
		addParams(&s.ParamGroup, &instr.param)
	}
	if desc != nil {
		for _, c := range desc.Comments {
			s.AddUserParam(model.NewUserParam("comments", c))
		}
		s.ScanList = transformScanList(acq, instr)
		if desc.PrecursorList != nil {
			for i := range desc.PrecursorList.Precursor {
				s.Precursors = append(s.Precursors, f.transformPrecursor(&desc.PrecursorList.Precursor[i], withParents))
			}
		}
	}

	mz, err := transformPeakList(raw.MzArrayBinary, cv.MzArray)
	if err != nil {
		return nil, fmt.Errorf("PrideXML: spectrum %s: %w", raw.ID, err)
	}
	intens, err := transformPeakList(raw.IntenArrayBinary, cv.IntensityArray)
	if err != nil {
		return nil, fmt.Errorf("PrideXML: spectrum %s: %w", raw.ID, err)
	}
	if mz != nil {
		s.DefaultArrayLength = mz.Len()
		s.BinaryDataArrays = append(s.BinaryDataArrays, mz)
	}
	if intens != nil {
		s.BinaryDataArrays = append(s.BinaryDataArrays, intens)
	}
	return s, nil
}

// transformPeakList decodes an uncompressed array. Its parameters are the
// precision, "no compression" and the array kind, in that order.
func transformPeakList(raw *peakList, kind cv.Term) (*model.BinaryDataArray, error) {
	if raw == nil {
		return nil, nil
	}
	precision := codec.PrecisionFromBits(raw.Data.Precision)
	order := codec.ByteOrderFromString(raw.Data.Endian)
	data, err := codec.DecodeArray(raw.Data.Value, precision, codec.NoCompression, order)
	if err != nil {
		return nil, err
	}
	pt, _ := precision.Term()
	params := model.NewParamGroup([]model.CvParam{
		termParam(pt, ""),
		termParam(cv.NoCompression, ""),
		termParam(kind, ""),
	}, nil)
	return model.NewBinaryDataArray(nil, data, params), nil
}

// transformScanList builds one scan per acquisition, or a single scan when
// the acquisition specification is missing. Every scan carries the m/z
// range of the spectrum as its scan window. The method of combination is
// reduced to a CV term without value.
func transformScanList(acq *acqSpecification, instr *spectrumInstrument) *model.ScanList {
	sl := &model.ScanList{}
	if acq != nil && strings.Contains(strings.ToLower(acq.MethodOfCombination), "sum") {
		sl.AddCvParam(termParam(cv.SumOfSpectra, ""))
	} else {
		sl.AddCvParam(termParam(cv.NoCombination, ""))
	}

	var window *model.ParamGroup
	if instr != nil && instr.MzRangeStart != "" && instr.MzRangeStop != "" {
		window = model.NewParamGroup([]model.CvParam{
			termParam(cv.ScanWindowLow, instr.MzRangeStart),
			termParam(cv.ScanWindowHigh, instr.MzRangeStop),
		}, nil)
	}
	newScan := func(params *param) *model.Scan {
		sc := &model.Scan{}
		addParams(&sc.ParamGroup, params)
		if window != nil {
			sc.ScanWindows = []*model.ParamGroup{window.Clone()}
		}
		return sc
	}

	if acq == nil || len(acq.Acquisition) == 0 {
		sl.Scans = []*model.Scan{newScan(nil)}
		return sl
	}
	for i := range acq.Acquisition {
		sl.Scans = append(sl.Scans, newScan(&acq.Acquisition[i].param))
	}
	return sl
}

func (f *PrideXML) transformPrecursor(raw *precursor, withParent bool) *model.Precursor {
	if raw == nil {
		return nil
	}
	p := &model.Precursor{
		SpectrumRef: raw.SpectrumRef,
		Activation:  transformParams(raw.Activation),
	}
	if ion := transformParams(raw.IonSelection); ion != nil {
		p.SelectedIons = []*model.ParamGroup{ion}
	}
	if withParent && raw.SpectrumRef != "" {
		if i, err := f.ScanIndex(raw.SpectrumRef); err == nil {
			// A parent with undecodable arrays leaves the reference unresolved.
			p.Spectrum, _ = f.transformSpectrum(&f.content.MzData.SpectrumList[i], i, false)
		}
	}
	return p
}

// Identification transforms the identification with the given id.
func (f *PrideXML) Identification(id string) (*model.Identification, error) {
	raw, ok := f.idents[id]
	if !ok {
		return nil, ErrInvalidIdentificationID
	}
	return f.transformIdentification(id, raw), nil
}

func (f *PrideXML) transformIdentification(id string, raw *identification) *model.Identification {
	dbSeq := &model.DBSequence{
		ID:               raw.Accession,
		Accession:        raw.Accession,
		AccessionVersion: raw.AccessionVersion,
		SpliceIsoform:    parseInt(raw.SpliceIsoform, -1),
		Database:         raw.Database,
		DatabaseVersion:  raw.DatabaseVersion,
	}
	ident := &model.Identification{
		ID:               id,
		DBSequence:       dbSeq,
		Score:            f.proteinScore(raw),
		Threshold:        parseFloat(raw.Threshold, -1),
		SearchEngine:     raw.SearchEngine,
		SequenceCoverage: parseFloat(raw.SequenceCoverage, -1),
	}
	if pg := transformParams(raw.Additional); pg != nil {
		ident.ParamGroup = *pg
	}
	if raw.twoDim {
		ident.Gel = transformGel(raw)
	}
	for i := range raw.PeptideItem {
		ident.AddPeptide(f.transformPeptide(id, i, &raw.PeptideItem[i], dbSeq))
	}
	return ident
}

// proteinScore combines the scores of the additional parameters with the
// bare protein score, which is filed under the default term of the
// reported search engine.
func (f *PrideXML) proteinScore(raw *identification) *model.Score {
	score := query.GetScore(transformParams(raw.Additional))
	if score == nil {
		score = model.NewScore()
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw.Score), 64)
	if err != nil {
		return score
	}
	engine, ok := cv.SearchEngineByName(raw.SearchEngine)
	if !ok {
		slog.Debug("PrideXML: unknown search engine", "engine", raw.SearchEngine)
		return score
	}
	if t, ok := engine.DefaultScoreTerm(); ok {
		score.Add(engine, t, &v)
	}
	return score
}

func transformGel(raw *identification) *model.Gel {
	g := &model.Gel{
		XCoordinate:     -1,
		YCoordinate:     -1,
		MolecularWeight: parseFloat(raw.MolecularWeight, -1),
		PI:              parseFloat(raw.PI, -1),
	}
	if raw.Gel != nil {
		g.GelLink = raw.Gel.GelLink
		if pg := transformParams(raw.Gel.Additional); pg != nil {
			g.ParamGroup = *pg
		}
	}
	if raw.GelLocation != nil {
		g.XCoordinate = parseFloat(raw.GelLocation.XCoordinate, -1)
		g.YCoordinate = parseFloat(raw.GelLocation.YCoordinate, -1)
	}
	return g
}

// transformPeptide pairs the evidence of a peptide item with its spectrum
// match. Charge and m/z come from the precursor of the referenced spectrum.
func (f *PrideXML) transformPeptide(identID string, n int, raw *peptideItem, dbSeq *model.DBSequence) *model.Peptide {
	pepID := fmt.Sprintf("%s_%d", identID, n)
	seq := &model.PeptideSequence{ID: pepID, Sequence: raw.Sequence}
	for i := range raw.ModificationItem {
		seq.Modifications = append(seq.Modifications, transformModification(&raw.ModificationItem[i]))
	}

	additional := transformParams(raw.Additional)
	ev := &model.PeptideEvidence{
		ID:              pepID,
		Start:           parseInt(raw.Start, -1),
		End:             parseInt(raw.End, -1),
		PeptideSequence: seq,
		DBSequence:      dbSeq,
	}
	sii := &model.SpectrumIdentification{
		ID:                     pepID,
		Rank:                   1,
		ChargeState:            -1,
		CalculatedMassToCharge: -1,
		SpectrumRef:            raw.SpectrumReference,
		Score:                  query.GetScore(additional),
	}
	if additional != nil {
		ev.ParamGroup = *additional
		sii.ParamGroup = *additional.Clone()
	}
	for i := range raw.FragmentIon {
		fi := &model.FragmentIon{}
		addParams(&fi.ParamGroup, &raw.FragmentIon[i])
		sii.FragmentIons = append(sii.FragmentIons, fi)
	}

	if raw.SpectrumReference != "" {
		s, err := f.Spectrum(raw.SpectrumReference)
		if err != nil {
			slog.Warn("PrideXML: peptide spectrum not available", "peptide", pepID, "spectrum", raw.SpectrumReference, "error", err)
		}
		sii.Spectrum = s
	}
	sii.ChargeState = query.GetPrecursorCharge(sii.Spectrum)
	sii.ExperimentalMassToCharge = query.GetPrecursorMz(sii.Spectrum)
	sii.RetentionTime = query.GetRetentionTime(sii.Spectrum)
	p := &model.Peptide{Evidence: ev, SpectrumIdentification: sii}
	if sii.ChargeState > 0 {
		if m, err := query.PeptideMass(p); err == nil {
			sii.CalculatedMassToCharge = query.MassToCharge(m, sii.ChargeState)
		}
	}
	return p
}

// transformModification keeps only the numeric mass deltas.
func transformModification(raw *modificationItem) *model.Modification {
	m := &model.Modification{
		Accession:       raw.ModAccession,
		Database:        raw.ModDatabase,
		DatabaseVersion: raw.ModDatabaseVersion,
		Location:        parseInt(raw.ModLocation, -1),
	}
	if pg := transformParams(raw.Additional); pg != nil {
		m.ParamGroup = *pg
	}
	for _, d := range raw.ModMonoDelta {
		if v, err := strconv.ParseFloat(strings.TrimSpace(d), 64); err == nil {
			m.MonoisotopicMass = append(m.MonoisotopicMass, v)
		}
	}
	for _, d := range raw.ModAvgDelta {
		if v, err := strconv.ParseFloat(strings.TrimSpace(d), 64); err == nil {
			m.AverageMass = append(m.AverageMass, v)
		}
	}
	return m
}

func (f *PrideXML) admin() *admin {
	return f.content.MzData.Description.Admin
}

func (f *PrideXML) Samples() []*model.Sample {
	a := f.admin()
	if a == nil {
		return nil
	}
	s := &model.Sample{ID: sampleID, Name: a.SampleName}
	if pg := transformParams(a.SampleDescription); pg != nil {
		s.ParamGroup = *pg
	}
	return []*model.Sample{s}
}

// SourceFiles returns the single source file; its type is kept as a user
// parameter.
func (f *PrideXML) SourceFiles() []*model.SourceFile {
	a := f.admin()
	if a == nil || a.SourceFile == nil {
		return nil
	}
	sf := &model.SourceFile{ID: sourceFileID, Name: a.SourceFile.NameOfFile, Location: a.SourceFile.PathToFile}
	if a.SourceFile.FileType != "" {
		sf.AddUserParam(model.NewUserParam("file type", a.SourceFile.FileType))
	}
	return []*model.SourceFile{sf}
}

// Contacts returns the contacts with name and institution also recorded as
// CV parameters.
func (f *PrideXML) Contacts() []*model.Contact {
	a := f.admin()
	if a == nil {
		return nil
	}
	var out []*model.Contact
	for _, c := range a.Contact {
		mc := &model.Contact{Name: c.Name, Institution: c.Institution, ContactInfo: c.ContactInfo}
		mc.AddCvParam(termParam(cv.ContactName, c.Name))
		mc.AddCvParam(termParam(cv.ContactOrg, c.Institution))
		if c.ContactInfo != "" {
			mc.AddUserParam(model.NewUserParam("contact information", c.ContactInfo))
		}
		out = append(out, mc)
	}
	return out
}

func (f *PrideXML) software() *model.Software {
	dp := f.content.MzData.Description.DataProcessing
	if dp == nil || dp.Software == nil {
		return nil
	}
	raw := dp.Software
	sw := &model.Software{ID: raw.Name, Name: raw.Name, Version: raw.Version}
	if raw.Comments != "" {
		sw.AddUserParam(model.NewUserParam("comments", raw.Comments))
	}
	if raw.CompletionTime != "" {
		sw.AddUserParam(model.NewUserParam("completion time", raw.CompletionTime))
	}
	return sw
}

func (f *PrideXML) Software() []*model.Software {
	if sw := f.software(); sw != nil {
		return []*model.Software{sw}
	}
	return nil
}

func (f *PrideXML) dataProcessing() *model.DataProcessing {
	dp := f.content.MzData.Description.DataProcessing
	if dp == nil {
		return nil
	}
	pm := &model.ProcessingMethod{Order: 1, Software: f.software()}
	if pg := transformParams(dp.ProcessingMethod); pg != nil {
		pm.ParamGroup = *pg
	}
	return &model.DataProcessing{ID: dataProcessingID, ProcessingMethods: []*model.ProcessingMethod{pm}}
}

func (f *PrideXML) DataProcessings() []*model.DataProcessing {
	if dp := f.dataProcessing(); dp != nil {
		return []*model.DataProcessing{dp}
	}
	return nil
}

// InstrumentConfigurations returns one configuration per analyzer. The
// source has order 1, analyzers follow, the detector comes last.
func (f *PrideXML) InstrumentConfigurations() []*model.InstrumentConfiguration {
	raw := f.content.MzData.Description.Instrument
	if raw == nil {
		return nil
	}
	params := model.NewParamGroup([]model.CvParam{termParam(cv.InstrumentModel, raw.InstrumentName)}, nil)
	addParams(params, raw.Additional)
	sw := f.software()

	component := func(p *param, kind model.ComponentKind, order int) *model.InstrumentComponent {
		c := &model.InstrumentComponent{Kind: kind, Order: order}
		addParams(&c.ParamGroup, p)
		return c
	}
	source := component(raw.Source, model.SourceComponent, 1)
	detector := component(raw.Detector, model.DetectorComponent, len(raw.Analyzer)+2)

	newConf := func(analyzer *model.InstrumentComponent) *model.InstrumentConfiguration {
		return &model.InstrumentConfiguration{
			ParamGroup: *params.Clone(),
			ID:         raw.InstrumentName,
			Software:   sw,
			Source:     source,
			Analyzer:   analyzer,
			Detector:   detector,
		}
	}
	if len(raw.Analyzer) == 0 {
		return []*model.InstrumentConfiguration{newConf(nil)}
	}
	out := make([]*model.InstrumentConfiguration, 0, len(raw.Analyzer))
	for i := range raw.Analyzer {
		out = append(out, newConf(component(&raw.Analyzer[i], model.AnalyzerComponent, i+2)))
	}
	return out
}

// ScanSettings returns nil; PRIDE XML has no scan settings.
func (f *PrideXML) ScanSettings() []*model.ScanSetting {
	return nil
}

func (f *PrideXML) Protocol() *model.Protocol {
	raw := f.content.Protocol
	if raw == nil {
		return nil
	}
	p := &model.Protocol{ID: protocolID, Name: raw.ProtocolName}
	for i := range raw.Steps {
		p.Steps = append(p.Steps, transformParams(&raw.Steps[i]))
	}
	return p
}

func (f *PrideXML) References() []*model.Reference {
	var out []*model.Reference
	for _, r := range f.content.Reference {
		ref := &model.Reference{FullReference: r.RefLine}
		if pg := transformParams(r.Additional); pg != nil {
			ref.ParamGroup = *pg
		}
		out = append(out, ref)
	}
	return out
}

func (f *PrideXML) CVLookups() []*model.CVLookup {
	out := make([]*model.CVLookup, 0, len(f.content.MzData.CvLookup))
	for _, c := range f.content.MzData.CvLookup {
		out = append(out, &model.CVLookup{CvLabel: c.CvLabel, FullName: c.FullName, Version: c.Version, Address: c.Address})
	}
	return out
}

// Additional returns the experiment-level parameters, such as the project
// name.
func (f *PrideXML) Additional() *model.ParamGroup {
	return transformParams(f.content.Additional)
}
