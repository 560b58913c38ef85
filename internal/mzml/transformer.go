package mzml

import (
	"encoding/binary"
	"fmt"

	"github.com/524D/mzcore/internal/codec"
	"github.com/524D/mzcore/internal/cv"
	"github.com/524D/mzcore/internal/model"
)

// resolveReferences builds the metadata objects that spectra refer to by
// id. It runs once, after decoding.
func (f *MzML) resolveReferences() error {
	var err error
	if f.paramGroups, err = readParamGroups(f.content.ReferenceableParamGroupList); err != nil {
		return err
	}

	f.software = make(map[string]*model.Software)
	if sl := f.content.SoftwareList; sl != nil {
		for i := range sl.Software {
			s := &sl.Software[i]
			sw := &model.Software{ParamGroup: *f.groupParams(&s.paramGroup), ID: s.ID, Version: s.Version}
			if len(sw.CvParams) > 0 {
				sw.Name = sw.CvParams[0].Name
			}
			f.software[s.ID] = sw
		}
	}

	f.sourceFiles = make(map[string]*model.SourceFile)
	if sfl := f.content.FileDescription.SourceFileList; sfl != nil {
		for i := range sfl.SourceFile {
			s := &sfl.SourceFile[i]
			f.sourceFiles[s.ID] = &model.SourceFile{
				ParamGroup: *f.groupParams(&s.paramGroup),
				ID:         s.ID,
				Name:       s.Name,
				Location:   s.Location,
			}
		}
	}

	f.scanSettings = make(map[string]*model.ScanSetting)
	if ssl := f.content.ScanSettingsList; ssl != nil {
		for i := range ssl.ScanSettings {
			s := &ssl.ScanSettings[i]
			ss := &model.ScanSetting{ParamGroup: *f.groupParams(&s.paramGroup), ID: s.ID}
			for _, r := range s.SourceFileRefList {
				if sf := f.sourceFiles[r.Ref]; sf != nil {
					ss.SourceFiles = append(ss.SourceFiles, sf)
				}
			}
			for j := range s.TargetList {
				ss.Targets = append(ss.Targets, f.groupParams(&s.TargetList[j]))
			}
			f.scanSettings[s.ID] = ss
		}
	}

	f.dataProcessings = make(map[string]*model.DataProcessing)
	if dpl := f.content.DataProcessingList; dpl != nil {
		for _, d := range dpl.DataProcessing {
			f.dataProcessings[d.ID] = f.transformDataProcessing(&d)
		}
	}

	return f.readInstrumentConfigurations()
}

// groupParams converts a raw parameter set, resolving group references.
func (f *MzML) groupParams(raw *paramGroup) *model.ParamGroup {
	if raw == nil {
		return nil
	}
	pg := &model.ParamGroup{}
	for _, r := range raw.RefParamGroupRef {
		pg.Merge(f.paramGroups[r.Ref])
	}
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

func (f *MzML) transformDataProcessing(raw *dataProcessing) *model.DataProcessing {
	if raw == nil {
		return nil
	}
	dp := &model.DataProcessing{ID: raw.ID}
	for i := range raw.ProcessingMeth {
		m := &raw.ProcessingMeth[i]
		dp.ProcessingMethods = append(dp.ProcessingMethods, &model.ProcessingMethod{
			ParamGroup: *f.groupParams(&m.paramGroup),
			Order:      m.Order,
			Software:   f.software[m.SoftwareRef],
		})
	}
	return dp
}

// Spectrum transforms the spectrum with the given id.
func (f *MzML) Spectrum(id string) (*model.Spectrum, error) {
	i, err := f.ScanIndex(id)
	if err != nil {
		return nil, err
	}
	return f.transformSpectrum(&f.content.Run.SpectrumList.Spectrum[i], true)
}

// transformSpectrum builds a spectrum. Precursor spectra are resolved only
// when withParents is set, so a precursor's own precursors stay unresolved.
func (f *MzML) transformSpectrum(raw *spectrum, withParents bool) (*model.Spectrum, error) {
	if raw == nil {
		return nil, nil
	}
	dpRef := raw.DataProcessingRef
	if dpRef == "" {
		dpRef = f.content.Run.SpectrumList.DefaultDataProcessingRef
	}
	s := &model.Spectrum{
		ParamGroup:         *f.groupParams(&raw.paramGroup),
		ID:                 raw.ID,
		Index:              raw.Index,
		SpotID:             raw.SpotID,
		DefaultArrayLength: raw.DefaultArrayLength,
		DataProcessing:     f.dataProcessings[dpRef],
		SourceFile:         f.sourceFiles[raw.SourceFileRef],
		ScanList:           f.transformScanList(raw.ScanList),
	}
	if raw.PrecursorList != nil {
		for i := range raw.PrecursorList.Precursor {
			s.Precursors = append(s.Precursors, f.transformPrecursor(&raw.PrecursorList.Precursor[i], withParents))
		}
	}
	if raw.ProductList != nil {
		for _, p := range raw.ProductList.Product {
			s.Products = append(s.Products, f.groupParams(p.IsolationWindow))
		}
	}
	arrays, err := f.transformBinaryDataArrays(&raw.BinaryDataArrayList)
	if err != nil {
		return nil, fmt.Errorf("MzML: spectrum %s: %w", raw.ID, err)
	}
	s.BinaryDataArrays = arrays
	return s, nil
}

func (f *MzML) transformScanList(raw *scanList) *model.ScanList {
	if raw == nil {
		return nil
	}
	sl := &model.ScanList{ParamGroup: *f.groupParams(&raw.paramGroup)}
	for i := range raw.Scan {
		sl.Scans = append(sl.Scans, f.transformScan(&raw.Scan[i]))
	}
	return sl
}

func (f *MzML) transformScan(raw *scan) *model.Scan {
	if raw == nil {
		return nil
	}
	confRef := raw.InstrConfRef
	if confRef == "" {
		confRef = f.content.Run.DefaultInstrumentConfigurationRef
	}
	s := &model.Scan{
		ParamGroup:         *f.groupParams(&raw.paramGroup),
		SpectrumRef:        raw.SpectrumRef,
		ExternalSpectrumID: raw.ExternalSpectrumID,
		SourceFile:         f.sourceFiles[raw.SourceFileRef],
	}
	if confs := f.instrumentConfs[confRef]; len(confs) > 0 {
		s.InstrumentConfiguration = confs[0]
	}
	for i := range raw.ScanWindowList {
		s.ScanWindows = append(s.ScanWindows, f.groupParams(&raw.ScanWindowList[i]))
	}
	return s
}

func (f *MzML) transformPrecursor(raw *XMLprecursor, withParent bool) *model.Precursor {
	if raw == nil {
		return nil
	}
	p := &model.Precursor{
		SpectrumRef:        raw.SpectrumRef,
		SourceFile:         f.sourceFiles[raw.SourceFileRef],
		ExternalSpectrumID: raw.ExternalSpectrumID,
		IsolationWindow:    f.groupParams(raw.IsolationWindow),
		Activation:         f.groupParams(raw.Activation),
	}
	for i := range raw.SelectedIonList {
		p.SelectedIons = append(p.SelectedIons, f.groupParams(&raw.SelectedIonList[i]))
	}
	if withParent && raw.SpectrumRef != "" {
		if i, err := f.ScanIndex(raw.SpectrumRef); err == nil {
			// A parent with undecodable arrays leaves the reference unresolved.
			p.Spectrum, _ = f.transformSpectrum(&f.content.Run.SpectrumList.Spectrum[i], false)
		}
	}
	return p
}

func (f *MzML) transformBinaryDataArrays(raw *binaryDataArrayList) ([]*model.BinaryDataArray, error) {
	var arrays []*model.BinaryDataArray
	for i := range raw.BinaryDataArray {
		a, err := f.transformBinaryDataArray(&raw.BinaryDataArray[i])
		if err != nil {
			return nil, err
		}
		arrays = append(arrays, a)
	}
	return arrays, nil
}

// transformBinaryDataArray decodes one array. mzML arrays are always
// little endian; missing compression terms mean no compression.
func (f *MzML) transformBinaryDataArray(raw *binaryDataArray) (*model.BinaryDataArray, error) {
	params := f.groupParams(&raw.paramGroup)
	reg := cv.DefaultRegistry()

	precision := codec.Float32
	compression := codec.NoCompression
	for _, p := range params.CvParams {
		if reg.IsChild(cv.BinaryDataType.Accession, p.Accession) {
			if pr, ok := codec.PrecisionFromTerm(p.Accession); ok {
				precision = pr
			}
			continue
		}
		c, ok, err := codec.CompressionFromTerm(p.Accession)
		if err != nil {
			return nil, err
		}
		if ok {
			compression = c
		}
	}
	data, err := codec.DecodeArray(raw.Binary, precision, compression, binary.LittleEndian)
	if err != nil {
		return nil, err
	}
	return model.NewBinaryDataArray(f.dataProcessings[raw.DataProcessingRef], data, params), nil
}

// Chromatogram transforms the chromatogram with the given id.
func (f *MzML) Chromatogram(id string) (*model.Chromatogram, error) {
	i, ok := f.chromIndex[id]
	if !ok {
		return nil, ErrInvalidChromatogramID
	}
	cl := f.content.Run.ChromatogramList
	raw := &cl.Chromatogram[i]
	dpRef := raw.DataProcessingRef
	if dpRef == "" {
		dpRef = cl.DefaultDataProcessingRef
	}
	c := &model.Chromatogram{
		ParamGroup:         *f.groupParams(&raw.paramGroup),
		ID:                 raw.ID,
		Index:              raw.Index,
		DefaultArrayLength: raw.DefaultArrayLength,
		DataProcessing:     f.dataProcessings[dpRef],
		Precursor:          f.transformPrecursor(raw.Precursor, true),
	}
	if raw.Product != nil {
		c.Product = f.groupParams(raw.Product.IsolationWindow)
	}
	arrays, err := f.transformBinaryDataArrays(&raw.BinaryDataArrayList)
	if err != nil {
		return nil, fmt.Errorf("MzML: chromatogram %s: %w", raw.ID, err)
	}
	c.BinaryDataArrays = arrays
	return c, nil
}

// IdentificationIDs returns nil; mzML holds no identifications.
func (f *MzML) IdentificationIDs() []string {
	return nil
}

func (f *MzML) Identification(id string) (*model.Identification, error) {
	return nil, ErrNoIdentifications
}

// InstrumentConfigurations returns one configuration per analyzer, in file
// order.
func (f *MzML) InstrumentConfigurations() []*model.InstrumentConfiguration {
	var out []*model.InstrumentConfiguration
	for _, id := range f.instrumentOrder {
		out = append(out, f.instrumentConfs[id]...)
	}
	return out
}

func (f *MzML) SourceFiles() []*model.SourceFile {
	sfl := f.content.FileDescription.SourceFileList
	if sfl == nil {
		return nil
	}
	out := make([]*model.SourceFile, 0, len(sfl.SourceFile))
	for _, s := range sfl.SourceFile {
		out = append(out, f.sourceFiles[s.ID])
	}
	return out
}

func (f *MzML) Software() []*model.Software {
	sl := f.content.SoftwareList
	if sl == nil {
		return nil
	}
	out := make([]*model.Software, 0, len(sl.Software))
	for _, s := range sl.Software {
		out = append(out, f.software[s.ID])
	}
	return out
}

func (f *MzML) DataProcessings() []*model.DataProcessing {
	dpl := f.content.DataProcessingList
	if dpl == nil {
		return nil
	}
	out := make([]*model.DataProcessing, 0, len(dpl.DataProcessing))
	for _, d := range dpl.DataProcessing {
		out = append(out, f.dataProcessings[d.ID])
	}
	return out
}

func (f *MzML) ScanSettings() []*model.ScanSetting {
	ssl := f.content.ScanSettingsList
	if ssl == nil {
		return nil
	}
	out := make([]*model.ScanSetting, 0, len(ssl.ScanSettings))
	for _, s := range ssl.ScanSettings {
		out = append(out, f.scanSettings[s.ID])
	}
	return out
}

func (f *MzML) Samples() []*model.Sample {
	sl := f.content.SampleList
	if sl == nil {
		return nil
	}
	out := make([]*model.Sample, 0, len(sl.Sample))
	for i := range sl.Sample {
		s := &sl.Sample[i]
		out = append(out, &model.Sample{ParamGroup: *f.groupParams(&s.paramGroup), ID: s.ID, Name: s.Name})
	}
	return out
}

// Contacts returns the contacts of the file description. Name and
// institution are taken from the contact name and organization terms.
func (f *MzML) Contacts() []*model.Contact {
	var out []*model.Contact
	for i := range f.content.FileDescription.Contact {
		pg := f.groupParams(&f.content.FileDescription.Contact[i])
		c := &model.Contact{ParamGroup: *pg}
		for _, p := range pg.CvParams {
			switch {
			case cv.ContactName.Matches(p.Accession):
				c.Name = p.Value
			case cv.ContactOrg.Matches(p.Accession):
				c.Institution = p.Value
			}
		}
		out = append(out, c)
	}
	return out
}

func (f *MzML) CVLookups() []*model.CVLookup {
	out := make([]*model.CVLookup, 0, len(f.content.CvList.Cv))
	for _, c := range f.content.CvList.Cv {
		out = append(out, &model.CVLookup{CvLabel: c.ID, FullName: c.FullName, Version: c.Version, Address: c.URI})
	}
	return out
}

// FileContent returns the parameters describing the spectra in the file.
func (f *MzML) FileContent() *model.ParamGroup {
	return f.groupParams(&f.content.FileDescription.FileContent)
}
