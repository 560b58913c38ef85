package mzidentml

import (
	"encoding/xml"
	"errors"

	"github.com/524D/mzcore/internal/model"
)

// Types for parsing mzIdentML

// MzIdentML holds the parts of an mzIdentML file that describe peptide
// and protein identifications
type MzIdentML struct {
	seqID2PepIdx map[string]int
	identList    []identRef
	content      mzIdentMLContent

	dbSeqIdx    map[string]int
	evidenceIdx map[string]int
	siiIdx      map[string]identRef

	// identIDs are the protein detection hypothesis ids, or the referenced
	// database sequence ids when the file has no protein detection list.
	identIDs []string
	pdhIdx   map[string]*proteinDetectionHypothesis
}

type identRef struct {
	resultIdx int // Index into SpectrumIdentificationResult
	itemIdx   int // Index into SpectrumIdentificationItem
}

// SpectrumMatch is a single peptide-spectrum match in flat form.
type SpectrumMatch struct {
	PepSeq        string
	PepID         string
	Charge        int
	ModMass       float64
	SpecID        string
	RetentionTime float64
	Cv            []model.CvParam
}

type mzIdentMLContent struct {
	XMLName                      xml.Name                       `xml:"MzIdentML"`
	ID                           string                         `xml:"id,attr"`
	Version                      string                         `xml:"version,attr"`
	Cv                           []cvEntry                      `xml:"cvList>cv"`
	AnalysisSoftware             []analysisSoftware             `xml:"AnalysisSoftwareList>AnalysisSoftware"`
	DBSequence                   []dbSequence                   `xml:"SequenceCollection>DBSequence"`
	Peptide                      []peptide                      `xml:"SequenceCollection>Peptide"`
	PeptideEvidence              []peptideEvidence              `xml:"SequenceCollection>PeptideEvidence"`
	SearchDatabase               []searchDatabase               `xml:"DataCollection>Inputs>SearchDatabase"`
	SpectraData                  []spectraData                  `xml:"DataCollection>Inputs>SpectraData"`
	SpectrumIdentificationResult []spectrumIdentificationResult `xml:"DataCollection>AnalysisData>SpectrumIdentificationList>SpectrumIdentificationResult"`
	ProteinAmbiguityGroup        []proteinAmbiguityGroup        `xml:"DataCollection>AnalysisData>ProteinDetectionList>ProteinAmbiguityGroup"`
}

type paramGroup struct {
	CvPar   []cvParam   `xml:"cvParam"`
	UserPar []userParam `xml:"userParam"`
}

type cvEntry struct {
	ID       string `xml:"id,attr"`
	FullName string `xml:"fullName,attr"`
	Version  string `xml:"version,attr"`
	URI      string `xml:"uri,attr"`
}

type analysisSoftware struct {
	ID           string      `xml:"id,attr"`
	Name         string      `xml:"name,attr"`
	Version      string      `xml:"version,attr"`
	URI          string      `xml:"uri,attr"`
	SoftwareName *paramGroup `xml:"SoftwareName"`
}

type dbSequence struct {
	paramGroup
	ID                string `xml:"id,attr"`
	Accession         string `xml:"accession,attr"`
	SearchDatabaseRef string `xml:"searchDatabase_ref,attr"`
	Length            int    `xml:"length,attr"`
	Seq               string `xml:"Seq"`
}

type peptide struct {
	paramGroup
	ID              string `xml:"id,attr"`
	PeptideSequence string
	Modification    []modification
}

type modification struct {
	paramGroup
	Location string `xml:"location,attr"`
	Residues string `xml:"residues,attr"`
	// Note: monoisotopicMassDelta is optional according the the schema, but
	// appears to be no other way to determine mass shift, as other
	// corresponding cvParam's don't carry this info either
	MonoisotopicMassDelta *float64 `xml:"monoisotopicMassDelta,attr"`
	AvgMassDelta          *float64 `xml:"avgMassDelta,attr"`
}

type peptideEvidence struct {
	paramGroup
	ID            string `xml:"id,attr"`
	DBSequenceRef string `xml:"dBSequence_ref,attr"`
	PeptideRef    string `xml:"peptide_ref,attr"`
	Start         string `xml:"start,attr"`
	End           string `xml:"end,attr"`
	Pre           string `xml:"pre,attr"`
	Post          string `xml:"post,attr"`
	IsDecoy       bool   `xml:"isDecoy,attr"`
}

type searchDatabase struct {
	ID       string `xml:"id,attr"`
	Location string `xml:"location,attr"`
	Name     string `xml:"name,attr"`
	Version  string `xml:"version,attr"`
}

type spectraData struct {
	ID               string      `xml:"id,attr"`
	Location         string      `xml:"location,attr"`
	Name             string      `xml:"name,attr"`
	FileFormat       *paramGroup `xml:"FileFormat"`
	SpectrumIDFormat *paramGroup `xml:"SpectrumIDFormat"`
}

type spectrumIdentificationResult struct {
	paramGroup
	ID                         string `xml:"id,attr"`
	SpectrumID                 string `xml:"spectrumID,attr"`
	SpectraDataRef             string `xml:"spectraData_ref,attr"`
	SpectrumIdentificationItem []spectrumIdentificationItem
}

type spectrumIdentificationItem struct {
	paramGroup
	ID                       string   `xml:"id,attr"`
	ChargeState              int      `xml:"chargeState,attr"`
	ExperimentalMassToCharge float64  `xml:"experimentalMassToCharge,attr"`
	CalculatedMassToCharge   *float64 `xml:"calculatedMassToCharge,attr"`
	PeptideRef               string   `xml:"peptide_ref,attr"`
	Rank                     int      `xml:"rank,attr"`
	PassThreshold            bool     `xml:"passThreshold,attr"`
	PeptideEvidenceRef       []struct {
		Ref string `xml:"peptideEvidence_ref,attr"`
	} `xml:"PeptideEvidenceRef"`
	IonType []ionType `xml:"Fragmentation>IonType"`
}

type ionType struct {
	paramGroup
	Index  string `xml:"index,attr"`
	Charge int    `xml:"charge,attr"`
}

type proteinAmbiguityGroup struct {
	ID                         string                       `xml:"id,attr"`
	ProteinDetectionHypothesis []proteinDetectionHypothesis `xml:"ProteinDetectionHypothesis"`
}

type proteinDetectionHypothesis struct {
	paramGroup
	ID                string              `xml:"id,attr"`
	DBSequenceRef     string              `xml:"dBSequence_ref,attr"`
	PassThreshold     bool                `xml:"passThreshold,attr"`
	PeptideHypothesis []peptideHypothesis `xml:"PeptideHypothesis"`
}

type peptideHypothesis struct {
	PeptideEvidenceRef            string `xml:"peptideEvidence_ref,attr"`
	SpectrumIdentificationItemRef []struct {
		Ref string `xml:"spectrumIdentificationItem_ref,attr"`
	} `xml:"SpectrumIdentificationItemRef"`
}

type cvParam struct {
	CvRef         string `xml:"cvRef,attr"`
	Accession     string `xml:"accession,attr"`
	Name          string `xml:"name,attr"`
	Value         string `xml:"value,attr"`
	UnitAccession string `xml:"unitAccession,attr"`
	UnitName      string `xml:"unitName,attr"`
	UnitCvRef     string `xml:"unitCvRef,attr"`
}

type userParam struct {
	Name          string `xml:"name,attr"`
	Type          string `xml:"type,attr"`
	Value         string `xml:"value,attr"`
	UnitAccession string `xml:"unitAccession,attr"`
	UnitName      string `xml:"unitName,attr"`
	UnitCvRef     string `xml:"unitCvRef,attr"`
}

var (
	ErrInvalidIdentIndex = errors.New("mzIdentML: invalid identification index")
	// ErrInvalidIdentificationID means an unknown protein identification id is supplied
	ErrInvalidIdentificationID = errors.New("mzIdentML: invalid identification id")
	// ErrNoSpectra means spectra were requested; mzIdentML only references them
	ErrNoSpectra = errors.New("mzIdentML: file holds no spectra")
	// ErrUnknownPeptide means a spectrum identification item references a missing peptide
	ErrUnknownPeptide = errors.New("mzIdentML: unknown peptide reference")
)
