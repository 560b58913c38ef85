package transform

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want Format
	}{
		{"mzML", `<?xml version="1.0"?><mzML version="1.1.0"></mzML>`, MzML},
		{"indexed mzML", `<?xml version="1.0"?><!-- x --><indexedmzML><mzML/></indexedmzML>`, MzML},
		{"PRIDE XML", `<ExperimentCollection version="2.1"/>`, PrideXML},
		{"mzIdentML", `<MzIdentML xmlns="http://psidev.info/psi/pi/mzIdentML/1.1"/>`, MzIdentML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Detect(strings.NewReader(tt.doc))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Detect(strings.NewReader(`<html></html>`))
	assert.ErrorIs(t, err, ErrUnknownFormat)
	_, err = Detect(strings.NewReader(``))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestOpen(t *testing.T) {
	tests := []struct {
		path     string
		format   Format
		spectra  int
		proteins int
		configs  int
	}{
		{"../mzml/testdata/small.mzML", MzML, 2, 0, 2},
		{"../pridexml/testdata/small.xml", PrideXML, 3, 2, 2},
		{"../mzidentml/testdata/proteins.mzid", MzIdentML, 0, 2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			doc, err := Open(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.format, doc.Format)
			assert.Len(t, doc.SpectrumIDs(), tt.spectra)
			assert.Len(t, doc.IdentificationIDs(), tt.proteins)
			assert.Len(t, doc.InstrumentConfigurations(), tt.configs)
		})
	}
}

func TestReadErrors(t *testing.T) {
	_, err := Read(strings.NewReader(`<ExperimentCollection version="2.1"></ExperimentCollection>`))
	assert.Error(t, err)
	_, err = Read(strings.NewReader(`<svg/>`))
	assert.ErrorIs(t, err, ErrUnknownFormat)
	_, err = Open("testdata/missing.xml")
	assert.Error(t, err)
}
