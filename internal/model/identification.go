package model

import "github.com/524D/mzcore/internal/cv"

// PeptideSequence is an amino-acid sequence with its modifications.
type PeptideSequence struct {
	ParamGroup
	ID            string
	Sequence      string
	Modifications []*Modification
}

// Modification is a mass shift at a residue position. Location is -1 when
// unknown, 0 for the N-terminus.
type Modification struct {
	ParamGroup
	Accession        string
	Database         string
	DatabaseVersion  string
	Location         int
	Residues         []string
	MonoisotopicMass []float64
	AverageMass      []float64
}

type FragmentIon struct {
	ParamGroup
}

// DBSequence is a protein entry of the searched database.
type DBSequence struct {
	ParamGroup
	ID               string
	Accession        string
	AccessionVersion string
	SpliceIsoform    int
	Database         string
	DatabaseVersion  string
	Sequence         string
	Length           int
}

// PeptideEvidence places a peptide sequence within a protein. Start and End
// are 1-based and inclusive; -1 when unknown.
type PeptideEvidence struct {
	ParamGroup
	ID              string
	Start           int
	End             int
	Pre             string
	Post            string
	Decoy           bool
	PeptideSequence *PeptideSequence
	DBSequence      *DBSequence
}

// SpectrumIdentification is a peptide-spectrum match.
type SpectrumIdentification struct {
	ParamGroup
	ID                       string
	Rank                     int
	ChargeState              int
	ExperimentalMassToCharge float64
	CalculatedMassToCharge   float64
	RetentionTime            float64
	PassThreshold            bool
	Spectrum                 *Spectrum
	SpectrumRef              string
	FragmentIons             []*FragmentIon
	Score                    *Score
}

// Peptide pairs the evidence of a peptide in a protein with the spectrum
// match that supports it.
type Peptide struct {
	Evidence               *PeptideEvidence
	SpectrumIdentification *SpectrumIdentification
}

// Sequence returns the amino-acid sequence, or "" when unknown.
func (p *Peptide) Sequence() string {
	if p == nil || p.Evidence == nil || p.Evidence.PeptideSequence == nil {
		return ""
	}
	return p.Evidence.PeptideSequence.Sequence
}

// Modifications returns the modifications of the peptide sequence.
func (p *Peptide) Modifications() []*Modification {
	if p == nil || p.Evidence == nil || p.Evidence.PeptideSequence == nil {
		return nil
	}
	return p.Evidence.PeptideSequence.Modifications
}

// Gel holds two-dimensional gel metadata of a protein identification.
type Gel struct {
	ParamGroup
	GelLink         string
	XCoordinate     float64
	YCoordinate     float64
	MolecularWeight float64
	PI              float64
}

// Identification is a protein identification. Evidences keep the order in
// which they were first added.
type Identification struct {
	ParamGroup
	ID               string
	DBSequence       *DBSequence
	PassThreshold    bool
	Score            *Score
	Threshold        float64
	SearchEngine     string
	SequenceCoverage float64
	Gel              *Gel

	evidences []*PeptideEvidence
	peptides  map[*PeptideEvidence][]*Peptide
}

// AddPeptide records p under its evidence.
func (id *Identification) AddPeptide(p *Peptide) {
	if p == nil {
		return
	}
	if id.peptides == nil {
		id.peptides = make(map[*PeptideEvidence][]*Peptide)
	}
	if _, ok := id.peptides[p.Evidence]; !ok {
		id.evidences = append(id.evidences, p.Evidence)
	}
	id.peptides[p.Evidence] = append(id.peptides[p.Evidence], p)
}

// Evidences returns the peptide evidences in insertion order.
func (id *Identification) Evidences() []*PeptideEvidence {
	out := make([]*PeptideEvidence, len(id.evidences))
	copy(out, id.evidences)
	return out
}

// PeptidesFor returns the spectrum matches backing ev.
func (id *Identification) PeptidesFor(ev *PeptideEvidence) []*Peptide {
	ps := id.peptides[ev]
	out := make([]*Peptide, len(ps))
	copy(out, ps)
	return out
}

// Peptides returns all peptides, grouped by evidence.
func (id *Identification) Peptides() []*Peptide {
	var out []*Peptide
	for _, ev := range id.evidences {
		out = append(out, id.peptides[ev]...)
	}
	return out
}

// Accession returns the protein accession, or "".
func (id *Identification) Accession() string {
	if id.DBSequence == nil {
		return ""
	}
	return id.DBSequence.Accession
}

// ScoreKey identifies one score value.
type ScoreKey struct {
	Engine cv.SearchEngineType
	Term   cv.Term
}

// Score holds search engine scores. A nil value means the raw value was not
// numeric.
type Score struct {
	keys   []ScoreKey
	values map[ScoreKey]*float64
}

func NewScore() *Score {
	return &Score{values: make(map[ScoreKey]*float64)}
}

// Add sets the value for (engine, term). A nil value is kept as absent.
func (s *Score) Add(engine cv.SearchEngineType, term cv.Term, value *float64) {
	if s.values == nil {
		s.values = make(map[ScoreKey]*float64)
	}
	k := ScoreKey{Engine: engine, Term: term}
	if _, ok := s.values[k]; !ok {
		s.keys = append(s.keys, k)
	}
	s.values[k] = value
}

// Value returns the value for (engine, term). ok is false when no entry exists.
func (s *Score) Value(engine cv.SearchEngineType, term cv.Term) (value *float64, ok bool) {
	if s == nil {
		return nil, false
	}
	value, ok = s.values[ScoreKey{Engine: engine, Term: term}]
	return value, ok
}

// Keys returns the score keys in insertion order.
func (s *Score) Keys() []ScoreKey {
	if s == nil {
		return nil
	}
	out := make([]ScoreKey, len(s.keys))
	copy(out, s.keys)
	return out
}

// SearchEngineTypes returns the engines that have at least one entry.
func (s *Score) SearchEngineTypes() []cv.SearchEngineType {
	var out []cv.SearchEngineType
	seen := make(map[cv.SearchEngineType]bool)
	for _, k := range s.Keys() {
		if !seen[k.Engine] {
			seen[k.Engine] = true
			out = append(out, k.Engine)
		}
	}
	return out
}

func (s *Score) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}
