// Package transform selects the reader for a mass spectrometry file by
// sniffing its root element.
package transform

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/net/html/charset"

	"github.com/524D/mzcore/internal/model"
	"github.com/524D/mzcore/internal/mzidentml"
	"github.com/524D/mzcore/internal/mzml"
	"github.com/524D/mzcore/internal/pridexml"
)

// Format is a supported input format.
type Format int

const (
	Unknown Format = iota
	MzML
	PrideXML
	MzIdentML
)

func (f Format) String() string {
	switch f {
	case MzML:
		return "mzML"
	case PrideXML:
		return "PRIDE XML"
	case MzIdentML:
		return "mzIdentML"
	}
	return "unknown"
}

// ErrUnknownFormat means the root element is not one of a supported format
var ErrUnknownFormat = errors.New("transform: unknown file format")

// sniffSize bounds how much of the input Detect looks at.
const sniffSize = 64 * 1024

// Transformer maps one file onto the common model.
type Transformer interface {
	SpectrumIDs() []string
	Spectrum(id string) (*model.Spectrum, error)
	IdentificationIDs() []string
	Identification(id string) (*model.Identification, error)
	InstrumentConfigurations() []*model.InstrumentConfiguration
	SourceFiles() []*model.SourceFile
	Software() []*model.Software
	DataProcessings() []*model.DataProcessing
	Samples() []*model.Sample
	Contacts() []*model.Contact
	CVLookups() []*model.CVLookup
}

var (
	_ Transformer = (*mzml.MzML)(nil)
	_ Transformer = (*pridexml.PrideXML)(nil)
	_ Transformer = (*mzidentml.MzIdentML)(nil)
)

// Document is a file read into the transformer of its format.
type Document struct {
	Transformer
	Format Format
}

// Detect returns the format of the document in r, judged by its root
// element.
func Detect(r io.Reader) (Format, error) {
	d := xml.NewDecoder(io.LimitReader(r, sniffSize))
	d.CharsetReader = charset.NewReaderLabel
	for {
		t, err := d.Token()
		if err != nil {
			if err == io.EOF {
				return Unknown, ErrUnknownFormat
			}
			return Unknown, err
		}
		if start, ok := t.(xml.StartElement); ok {
			return formatOf(start.Name.Local)
		}
	}
}

func formatOf(root string) (Format, error) {
	switch root {
	case "mzML", "indexedmzML":
		return MzML, nil
	case "ExperimentCollection", "Experiment":
		return PrideXML, nil
	case "MzIdentML":
		return MzIdentML, nil
	}
	return Unknown, fmt.Errorf("%w: root element %q", ErrUnknownFormat, root)
}

// Read detects the format of r and reads it with the matching reader.
func Read(r io.Reader) (*Document, error) {
	br := bufio.NewReaderSize(r, sniffSize)
	head, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, err
	}
	format, err := Detect(bytes.NewReader(head))
	if err != nil {
		return nil, err
	}

	var t Transformer
	switch format {
	case MzML:
		t, err = mzml.Read(br)
	case PrideXML:
		t, err = pridexml.Read(br)
	case MzIdentML:
		t, err = mzidentml.Read(br)
	}
	if err != nil {
		return nil, fmt.Errorf("transform: reading %s: %w", format, err)
	}
	return &Document{Transformer: t, Format: format}, nil
}

// Open reads the file at path.
func Open(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}
