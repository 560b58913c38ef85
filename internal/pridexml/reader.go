package pridexml

import (
	"encoding/xml"
	"io"
	"strconv"

	"golang.org/x/net/html/charset"
)

// Read reads a PRIDE XML file from an io.Reader. Only the first experiment
// of an experiment collection is used.
func Read(reader io.Reader) (*PrideXML, error) {
	px := &PrideXML{}

	d := xml.NewDecoder(reader)
	d.CharsetReader = charset.NewReaderLabel

	found := false
	for !found {
		t, tokenErr := d.Token()
		if tokenErr != nil {
			if tokenErr == io.EOF {
				break
			}
			return nil, tokenErr
		}
		start, ok := t.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "ExperimentCollection":
			var coll experimentCollection
			if err := d.DecodeElement(&coll, &start); err != nil {
				return nil, err
			}
			if len(coll.Experiment) == 0 {
				return nil, ErrNoExperiment
			}
			px.content = coll.Experiment[0]
			found = true
		case "Experiment":
			if err := d.DecodeElement(&px.content, &start); err != nil {
				return nil, err
			}
			found = true
		}
	}
	if !found {
		return nil, ErrNoExperiment
	}

	px.buildIndex()
	return px, nil
}

// buildIndex records spectrum positions and assigns sequential ids to
// identifications, gel-free ones first.
func (f *PrideXML) buildIndex() {
	specs := f.content.MzData.SpectrumList
	f.spectrumIDs = make([]string, 0, len(specs))
	f.id2Index = make(map[string]int, len(specs))
	for i, s := range specs {
		f.spectrumIDs = append(f.spectrumIDs, s.ID)
		if _, dup := f.id2Index[s.ID]; !dup {
			f.id2Index[s.ID] = i
		}
	}

	f.idents = make(map[string]*identification)
	add := func(ident *identification, twoDim bool) {
		id := strconv.Itoa(len(f.identIDs) + 1)
		ident.twoDim = twoDim
		f.identIDs = append(f.identIDs, id)
		f.idents[id] = ident
	}
	for i := range f.content.GelFreeIdent {
		add(&f.content.GelFreeIdent[i], false)
	}
	for i := range f.content.TwoDimensionalIdent {
		add(&f.content.TwoDimensionalIdent[i], true)
	}
}

// NumSpecs returns the number of spectra
func (f *PrideXML) NumSpecs() int {
	return len(f.spectrumIDs)
}

// SpectrumIDs returns the spectrum identifiers in file order.
func (f *PrideXML) SpectrumIDs() []string {
	out := make([]string, len(f.spectrumIDs))
	copy(out, f.spectrumIDs)
	return out
}

// ScanIndex returns the position of the spectrum with the given id
func (f *PrideXML) ScanIndex(id string) (int, error) {
	i, ok := f.id2Index[id]
	if !ok {
		return 0, ErrInvalidSpectrumID
	}
	return i, nil
}

// IdentificationIDs returns the identification identifiers.
func (f *PrideXML) IdentificationIDs() []string {
	out := make([]string, len(f.identIDs))
	copy(out, f.identIDs)
	return out
}

// Title returns the experiment title.
func (f *PrideXML) Title() string {
	return f.content.Title
}

// ExperimentAccession returns the PRIDE accession of the experiment.
func (f *PrideXML) ExperimentAccession() string {
	return f.content.Accession
}

func (f *PrideXML) ShortLabel() string {
	return f.content.ShortLabel
}
