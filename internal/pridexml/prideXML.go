// Package pridexml reads PRIDE XML experiment files and transforms them into
// the common model.
package pridexml

import (
	"encoding/xml"
	"errors"
)

// PrideXML wraps the first experiment of a PRIDE XML file.
type PrideXML struct {
	content experiment

	// spectrumIDs holds the spectrum ids in file order; the position of an
	// id is the spectrum index.
	spectrumIDs []string
	id2Index    map[string]int

	identIDs []string
	idents   map[string]*identification
}

type experimentCollection struct {
	XMLName    xml.Name     `xml:"ExperimentCollection"`
	Version    string       `xml:"version,attr"`
	Experiment []experiment `xml:"Experiment"`
}

type experiment struct {
	Accession           string           `xml:"ExperimentAccession"`
	Title               string           `xml:"Title"`
	Reference           []reference      `xml:"Reference"`
	ShortLabel          string           `xml:"ShortLabel"`
	Protocol            *protocol        `xml:"Protocol"`
	MzData              mzData           `xml:"mzData"`
	GelFreeIdent        []identification `xml:"GelFreeIdentification"`
	TwoDimensionalIdent []identification `xml:"TwoDimensionalIdentification"`
	Additional          *param           `xml:"additional"`
}

// param is the PRIDE parameter container: cvParams and userParams only.
type param struct {
	CvPar   []cvParam   `xml:"cvParam"`
	UserPar []userParam `xml:"userParam"`
}

type cvParam struct {
	CvLabel   string `xml:"cvLabel,attr"`
	Accession string `xml:"accession,attr"`
	Name      string `xml:"name,attr"`
	Value     string `xml:"value,attr"`
}

type userParam struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

type reference struct {
	RefLine    string `xml:"RefLine"`
	Additional *param `xml:"additional"`
}

type protocol struct {
	ProtocolName string  `xml:"ProtocolName"`
	Steps        []param `xml:"ProtocolSteps>StepDescription"`
}

type mzData struct {
	Version         string      `xml:"version,attr"`
	AccessionNumber string      `xml:"accessionNumber,attr"`
	CvLookup        []cvLookup  `xml:"cvLookup"`
	Description     description `xml:"description"`
	SpectrumList    []spectrum  `xml:"spectrumList>spectrum"`
}

type cvLookup struct {
	CvLabel  string `xml:"cvLabel,attr"`
	FullName string `xml:"fullName,attr"`
	Version  string `xml:"version,attr"`
	Address  string `xml:"address,attr"`
}

type description struct {
	Admin          *admin          `xml:"admin"`
	Instrument     *instrument     `xml:"instrument"`
	DataProcessing *dataProcessing `xml:"dataProcessing"`
}

type admin struct {
	SampleName        string      `xml:"sampleName"`
	SampleDescription *param      `xml:"sampleDescription"`
	SourceFile        *sourceFile `xml:"sourceFile"`
	Contact           []contact   `xml:"contact"`
}

type sourceFile struct {
	NameOfFile string `xml:"nameOfFile"`
	PathToFile string `xml:"pathToFile"`
	FileType   string `xml:"fileType"`
}

type contact struct {
	Name        string `xml:"name"`
	Institution string `xml:"institution"`
	ContactInfo string `xml:"contactInfo"`
}

type instrument struct {
	InstrumentName string  `xml:"instrumentName"`
	Source         *param  `xml:"source"`
	Analyzer       []param `xml:"analyzerList>analyzer"`
	Detector       *param  `xml:"detector"`
	Additional     *param  `xml:"additional"`
}

type dataProcessing struct {
	Software         *software `xml:"software"`
	ProcessingMethod *param    `xml:"processingMethod"`
}

type software struct {
	Name           string `xml:"name"`
	Version        string `xml:"version"`
	Comments       string `xml:"comments"`
	CompletionTime string `xml:"completionTime"`
}

type spectrum struct {
	ID               string        `xml:"id,attr"`
	SpectrumDesc     *spectrumDesc `xml:"spectrumDesc"`
	MzArrayBinary    *peakList     `xml:"mzArrayBinary"`
	IntenArrayBinary *peakList     `xml:"intenArrayBinary"`
}

type spectrumDesc struct {
	SpectrumSettings *spectrumSettings `xml:"spectrumSettings"`
	PrecursorList    *precursorList    `xml:"precursorList"`
	Comments         []string          `xml:"comments"`
}

type precursorList struct {
	Count     int         `xml:"count,attr"`
	Precursor []precursor `xml:"precursor"`
}

type spectrumSettings struct {
	AcqSpecification   *acqSpecification   `xml:"acqSpecification"`
	SpectrumInstrument *spectrumInstrument `xml:"spectrumInstrument"`
}

type acqSpecification struct {
	SpectrumType        string        `xml:"spectrumType,attr"`
	MethodOfCombination string        `xml:"methodOfCombination,attr"`
	Acquisition         []acquisition `xml:"acquisition"`
}

type acquisition struct {
	param
	AcqNumber string `xml:"acqNumber,attr"`
}

type spectrumInstrument struct {
	param
	MsLevel      string `xml:"msLevel,attr"`
	MzRangeStart string `xml:"mzRangeStart,attr"`
	MzRangeStop  string `xml:"mzRangeStop,attr"`
}

type precursor struct {
	MsLevel      string `xml:"msLevel,attr"`
	SpectrumRef  string `xml:"spectrumRef,attr"`
	IonSelection *param `xml:"ionSelection"`
	Activation   *param `xml:"activation"`
}

type peakList struct {
	Data peakData `xml:"data"`
}

type peakData struct {
	Precision string `xml:"precision,attr"`
	Endian    string `xml:"endian,attr"`
	Length    string `xml:"length,attr"`
	Value     string `xml:",chardata"`
}

// identification covers both gel-free and two-dimensional identifications;
// the gel fields are empty for gel-free ones.
type identification struct {
	Accession         string        `xml:"Accession"`
	AccessionVersion  string        `xml:"AccessionVersion"`
	SpliceIsoform     string        `xml:"SpliceIsoform"`
	Database          string        `xml:"Database"`
	DatabaseVersion   string        `xml:"DatabaseVersion"`
	PeptideItem       []peptideItem `xml:"PeptideItem"`
	Score             string        `xml:"Score"`
	Threshold         string        `xml:"Threshold"`
	SearchEngine      string        `xml:"SearchEngine"`
	SpectrumReference string        `xml:"SpectrumReference"`
	Additional        *param        `xml:"additional"`
	SequenceCoverage  string        `xml:"SequenceCoverage"`
	Gel               *simpleGel    `xml:"Gel"`
	GelLocation       *gelLocation  `xml:"GelLocation"`
	MolecularWeight   string        `xml:"MolecularWeight"`
	PI                string        `xml:"pI"`

	twoDim bool
}

type simpleGel struct {
	GelLink    string `xml:"GelLink"`
	Additional *param `xml:"additional"`
}

type gelLocation struct {
	XCoordinate string `xml:"XCoordinate"`
	YCoordinate string `xml:"YCoordinate"`
}

type peptideItem struct {
	Sequence          string             `xml:"Sequence"`
	Start             string             `xml:"Start"`
	End               string             `xml:"End"`
	SpectrumReference string             `xml:"SpectrumReference"`
	ModificationItem  []modificationItem `xml:"ModificationItem"`
	FragmentIon       []param            `xml:"FragmentIon"`
	Additional        *param             `xml:"additional"`
}

type modificationItem struct {
	ModLocation        string   `xml:"ModLocation"`
	ModAccession       string   `xml:"ModAccession"`
	ModDatabase        string   `xml:"ModDatabase"`
	ModDatabaseVersion string   `xml:"ModDatabaseVersion"`
	ModMonoDelta       []string `xml:"ModMonoDelta"`
	ModAvgDelta        []string `xml:"ModAvgDelta"`
	Additional         *param   `xml:"additional"`
}

var (
	// ErrInvalidSpectrumID means an unknown spectrum id is supplied
	ErrInvalidSpectrumID = errors.New("PrideXML: invalid spectrum id")
	// ErrInvalidIdentificationID means an unknown identification id is supplied
	ErrInvalidIdentificationID = errors.New("PrideXML: invalid identification id")
	// ErrNoExperiment means the file holds no Experiment element
	ErrNoExperiment = errors.New("PrideXML: no experiment found")
)
