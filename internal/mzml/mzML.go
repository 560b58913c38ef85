package mzml

import (
	"encoding/xml"
	"errors"

	"github.com/524D/mzcore/internal/model"
)

// MzML wraps the contents of the mzML file together with the metadata
// that spectra refer to by id.
type MzML struct {
	content  mzMLContent
	index2id []string
	id2Index map[string]int

	chromIndex map[string]int

	paramGroups     map[string]*model.ParamGroup
	software        map[string]*model.Software
	sourceFiles     map[string]*model.SourceFile
	dataProcessings map[string]*model.DataProcessing
	scanSettings    map[string]*model.ScanSetting
	instrumentConfs map[string][]*model.InstrumentConfiguration
	instrumentOrder []string
}

// Peak contains the actual ms peak info
type Peak struct {
	Mz     float64
	Intens float64
}

// The mzML content that we read. The referenceable param groups and the
// instrument configurations are kept as raw XML and queried with XPath.
type mzMLContent struct {
	XMLName                     xml.Name                     `xml:"mzML"`
	ID                          string                       `xml:"id,attr,omitempty"`
	Version                     string                       `xml:"version,attr,omitempty"`
	CvList                      cvList                       `xml:"cvList"`
	FileDescription             fileDescription              `xml:"fileDescription"`
	ReferenceableParamGroupList *referenceableParamGroupList `xml:"referenceableParamGroupList"`
	SampleList                  *sampleList                  `xml:"sampleList"`
	SoftwareList                *softwareList                `xml:"softwareList"`
	ScanSettingsList            *scanSettingsList            `xml:"scanSettingsList"`
	InstrumentConfigurationList *instrumentConfigurationList `xml:"instrumentConfigurationList"`
	DataProcessingList          *dataProcessingList          `xml:"dataProcessingList"`
	Run                         run                          `xml:"run"`
}

// paramGroup is the set of parameter elements that most mzML elements carry.
type paramGroup struct {
	RefParamGroupRef []ref       `xml:"referenceableParamGroupRef"`
	CvPar            []CVParam   `xml:"cvParam"`
	UserPar          []userParam `xml:"userParam"`
}

type ref struct {
	Ref string `xml:"ref,attr"`
}

type cvList struct {
	Count int       `xml:"count,attr,omitempty"`
	Cv    []cvEntry `xml:"cv"`
}

type cvEntry struct {
	ID       string `xml:"id,attr"`
	FullName string `xml:"fullName,attr"`
	Version  string `xml:"version,attr,omitempty"`
	URI      string `xml:"URI,attr"`
}

type fileDescription struct {
	FileContent    paramGroup      `xml:"fileContent"`
	SourceFileList *sourceFileList `xml:"sourceFileList"`
	Contact        []paramGroup    `xml:"contact"`
}

type sourceFileList struct {
	Count      int          `xml:"count,attr,omitempty"`
	SourceFile []sourceFile `xml:"sourceFile"`
}

type sourceFile struct {
	paramGroup
	ID       string `xml:"id,attr"`
	Name     string `xml:"name,attr"`
	Location string `xml:"location,attr"`
}

type referenceableParamGroupList struct {
	Count                          int    `xml:"count,attr,omitempty"`
	ReferenceableParamGroupListXML []byte `xml:",innerxml"`
}

type sampleList struct {
	Count  int      `xml:"count,attr,omitempty"`
	Sample []sample `xml:"sample"`
}

type sample struct {
	paramGroup
	ID   string `xml:"id,attr"`
	Name string `xml:"name,attr,omitempty"`
}

type softwareList struct {
	Count    int        `xml:"count,attr,omitempty"`
	Software []software `xml:"software"`
}

type software struct {
	paramGroup
	ID      string `xml:"id,attr,omitempty"`
	Version string `xml:"version,attr,omitempty"`
}

type scanSettingsList struct {
	Count        int            `xml:"count,attr,omitempty"`
	ScanSettings []scanSettings `xml:"scanSettings"`
}

type scanSettings struct {
	paramGroup
	ID                string       `xml:"id,attr"`
	SourceFileRefList []ref        `xml:"sourceFileRefList>sourceFileRef"`
	TargetList        []paramGroup `xml:"targetList>target"`
}

type instrumentConfigurationList struct {
	Count                          int    `xml:"count,attr,omitempty"`
	InstrumentConfigurationListXML []byte `xml:",innerxml"`
}

type dataProcessingList struct {
	Count          int              `xml:"count,attr,omitempty"`
	DataProcessing []dataProcessing `xml:"dataProcessing"`
}

type dataProcessing struct {
	ID             string             `xml:"id,attr,omitempty"`
	ProcessingMeth []processingMethod `xml:"processingMethod"`
}

type processingMethod struct {
	paramGroup
	Order       int    `xml:"order,attr"`
	SoftwareRef string `xml:"softwareRef,attr,omitempty"`
}

type run struct {
	ID                                string            `xml:"id,attr,omitempty"`
	DefaultInstrumentConfigurationRef string            `xml:"defaultInstrumentConfigurationRef,attr,omitempty"`
	StartTimeStamp                    string            `xml:"startTimeStamp,attr,omitempty"`
	DefaultSourceFileRef              string            `xml:"defaultSourceFileRef,attr,omitempty"`
	SampleRef                         string            `xml:"sampleRef,attr,omitempty"`
	SpectrumList                      spectrumList      `xml:"spectrumList"`
	ChromatogramList                  *chromatogramList `xml:"chromatogramList"`
}

type spectrumList struct {
	Count                    int        `xml:"count,attr,omitempty"`
	DefaultDataProcessingRef string     `xml:"defaultDataProcessingRef,attr,omitempty"`
	Spectrum                 []spectrum `xml:"spectrum"`
}

type chromatogramList struct {
	Count                    int            `xml:"count,attr,omitempty"`
	DefaultDataProcessingRef string         `xml:"defaultDataProcessingRef,attr,omitempty"`
	Chromatogram             []chromatogram `xml:"chromatogram"`
}

type spectrum struct {
	paramGroup
	Index               int                 `xml:"index,attr"`
	ID                  string              `xml:"id,attr"`
	SpotID              string              `xml:"spotID,attr,omitempty"`
	DefaultArrayLength  int                 `xml:"defaultArrayLength,attr"`
	DataProcessingRef   string              `xml:"dataProcessingRef,attr,omitempty"`
	SourceFileRef       string              `xml:"sourceFileRef,attr,omitempty"`
	ScanList            *scanList           `xml:"scanList"`
	PrecursorList       *precursorList      `xml:"precursorList"`
	ProductList         *productList        `xml:"productList"`
	BinaryDataArrayList binaryDataArrayList `xml:"binaryDataArrayList"`
}

type chromatogram struct {
	paramGroup
	Index               int                 `xml:"index,attr"`
	ID                  string              `xml:"id,attr"`
	DefaultArrayLength  int                 `xml:"defaultArrayLength,attr"`
	DataProcessingRef   string              `xml:"dataProcessingRef,attr,omitempty"`
	Precursor           *XMLprecursor       `xml:"precursor"`
	Product             *product            `xml:"product"`
	BinaryDataArrayList binaryDataArrayList `xml:"binaryDataArrayList"`
}

type binaryDataArrayList struct {
	Count           int               `xml:"count,attr,omitempty"`
	BinaryDataArray []binaryDataArray `xml:"binaryDataArray"`
}

type binaryDataArray struct {
	paramGroup
	EncodedLength     int    `xml:"encodedLength,attr,omitempty"`
	ArrayLength       int    `xml:"arrayLength,attr,omitempty"`
	DataProcessingRef string `xml:"dataProcessingRef,attr,omitempty"`
	Binary            string `xml:"binary"`
}

type scanList struct {
	paramGroup
	Count int    `xml:"count,attr,omitempty"`
	Scan  []scan `xml:"scan"`
}

type scan struct {
	paramGroup
	SpectrumRef        string       `xml:"spectrumRef,attr,omitempty"`
	SourceFileRef      string       `xml:"sourceFileRef,attr,omitempty"`
	ExternalSpectrumID string       `xml:"externalSpectrumID,attr,omitempty"`
	InstrConfRef       string       `xml:"instrumentConfigurationRef,attr,omitempty"`
	ScanWindowList     []paramGroup `xml:"scanWindowList>scanWindow"`
}

type userParam struct {
	Name          string `xml:"name,attr,omitempty"`
	Value         string `xml:"value,attr,omitempty"`
	Type          string `xml:"type,attr,omitempty"`
	UnitCvRef     string `xml:"unitCvRef,attr,omitempty"`
	UnitAccession string `xml:"unitAccession,attr,omitempty"`
	UnitName      string `xml:"unitName,attr,omitempty"`
}

type precursorList struct {
	Count     int            `xml:"count,attr,omitempty"`
	Precursor []XMLprecursor `xml:"precursor"`
}

// XMLprecursor contains info for the correspondingly named tag in the mzML file
type XMLprecursor struct {
	SpectrumRef        string       `xml:"spectrumRef,attr,omitempty"`
	SourceFileRef      string       `xml:"sourceFileRef,attr,omitempty"`
	ExternalSpectrumID string       `xml:"externalSpectrumID,attr,omitempty"`
	IsolationWindow    *paramGroup  `xml:"isolationWindow"`
	SelectedIonList    []paramGroup `xml:"selectedIonList>selectedIon"`
	Activation         *paramGroup  `xml:"activation"`
}

type productList struct {
	Count   int       `xml:"count,attr,omitempty"`
	Product []product `xml:"product"`
}

type product struct {
	IsolationWindow *paramGroup `xml:"isolationWindow"`
}

// CVParam contains values and attributes of a mzML Controlled Vocabulary term
// (http://www.peptideatlas.org/tmp/mzML1.1.0.html)
type CVParam struct {
	CvRef         string `xml:"cvRef,attr,omitempty"`
	Accession     string `xml:"accession,attr,omitempty"`
	Name          string `xml:"name,attr,omitempty"`
	Value         string `xml:"value,attr,omitempty"`
	UnitCvRef     string `xml:"unitCvRef,attr,omitempty"`
	UnitAccession string `xml:"unitAccession,attr,omitempty"`
	UnitName      string `xml:"unitName,attr,omitempty"`
}

var (
	// ErrInvalidScanID means an invalid scan id is supplied
	ErrInvalidScanID = errors.New("MzML: invalid scan id")
	// ErrInvalidScanIndex means an invalid scan index is supplied
	ErrInvalidScanIndex = errors.New("MzML: invalid scan index")
	// ErrInvalidChromatogramID means an invalid chromatogram id is supplied
	ErrInvalidChromatogramID = errors.New("MzML: invalid chromatogram id")
	// ErrNoIdentifications is returned when identifications are requested
	ErrNoIdentifications = errors.New("MzML: file holds no identifications")
)
