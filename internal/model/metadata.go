package model

// ComponentKind distinguishes the parts of an instrument.
type ComponentKind int

const (
	SourceComponent ComponentKind = iota
	AnalyzerComponent
	DetectorComponent
)

func (k ComponentKind) String() string {
	switch k {
	case SourceComponent:
		return "source"
	case AnalyzerComponent:
		return "analyzer"
	case DetectorComponent:
		return "detector"
	}
	return "unknown"
}

// InstrumentComponent is a source, analyzer or detector. Order is the
// position of the component in the ion path, starting at 1.
type InstrumentComponent struct {
	ParamGroup
	Kind  ComponentKind
	Order int
}

// InstrumentConfiguration describes one ion path through an instrument.
// Instruments with several analyzers are represented by one configuration
// per analyzer; those configurations share Source and Detector.
type InstrumentConfiguration struct {
	ParamGroup
	ID          string
	ScanSetting *ScanSetting
	Software    *Software
	Source      *InstrumentComponent
	Analyzer    *InstrumentComponent
	Detector    *InstrumentComponent
}

type ScanSetting struct {
	ParamGroup
	ID          string
	SourceFiles []*SourceFile
	Targets     []*ParamGroup
}

type SourceFile struct {
	ParamGroup
	ID       string
	Name     string
	Location string
}

type Software struct {
	ParamGroup
	ID      string
	Name    string
	Version string
}

type ProcessingMethod struct {
	ParamGroup
	Order    int
	Software *Software
}

type DataProcessing struct {
	ID                string
	ProcessingMethods []*ProcessingMethod
}

type Sample struct {
	ParamGroup
	ID   string
	Name string
}

// Contact is a person or organisation responsible for the data.
type Contact struct {
	ParamGroup
	Name        string
	Institution string
	ContactInfo string
}

// CVLookup describes a controlled vocabulary referenced by CvParams.
type CVLookup struct {
	CvLabel  string
	FullName string
	Version  string
	Address  string
}

type Protocol struct {
	ParamGroup
	ID    string
	Name  string
	Steps []*ParamGroup
}

type Reference struct {
	ParamGroup
	FullReference string
}
