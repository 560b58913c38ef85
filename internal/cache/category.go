package cache

import (
	"fmt"
	"strings"
)

// Kind is the data structure backing a category.
type Kind int

const (
	SetKind Kind = iota
	ListKind
	MapKind
)

func (k Kind) String() string {
	switch k {
	case SetKind:
		return "set"
	case ListKind:
		return "list"
	case MapKind:
		return "map"
	}
	return "unknown"
}

// Descriptor tells how a category is stored. Size is an initial capacity
// hint; zero means no hint.
type Descriptor struct {
	Kind Kind
	Size int
}

// Category identifies one kind of cached content.
type Category int

const (
	Spectrum Category = iota
	Identification
	SpectrumIDs
	IdentificationIDs
	MsLevel
	PrecursorCharge
	PrecursorMz
	ProteinCoverage
	SearchEngineTypes
	InstrumentConfigurations
	SourceFiles
	Software
	DataProcessings
	Samples
	Contacts
	CVLookups
)

var categoryNames = map[Category]string{
	Spectrum:                 "spectrum",
	Identification:           "identification",
	SpectrumIDs:              "spectrum_ids",
	IdentificationIDs:        "identification_ids",
	MsLevel:                  "ms_level",
	PrecursorCharge:          "precursor_charge",
	PrecursorMz:              "precursor_mz",
	ProteinCoverage:          "protein_coverage",
	SearchEngineTypes:        "search_engine_types",
	InstrumentConfigurations: "instrument_configurations",
	SourceFiles:              "source_files",
	Software:                 "software",
	DataProcessings:          "data_processings",
	Samples:                  "samples",
	Contacts:                 "contacts",
	CVLookups:                "cv_lookups",
}

// Categories returns every category in declaration order.
func Categories() []Category {
	out := make([]Category, 0, len(categoryNames))
	for c := Spectrum; c <= CVLookups; c++ {
		out = append(out, c)
	}
	return out
}

func (c Category) String() string {
	if n, ok := categoryNames[c]; ok {
		return n
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// ParseCategory is the inverse of Category.String. Case and the use of
// '-' or '_' do not matter.
func ParseCategory(s string) (Category, error) {
	n := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for c, name := range categoryNames {
		if name == n {
			return c, nil
		}
	}
	return 0, fmt.Errorf("cache: unknown category %q", s)
}

// Descriptor returns the default storage of c.
func (c Category) Descriptor() Descriptor {
	switch c {
	case Spectrum:
		return Descriptor{Kind: MapKind, Size: 256}
	case Identification:
		return Descriptor{Kind: MapKind, Size: 64}
	case MsLevel, PrecursorCharge, PrecursorMz:
		return Descriptor{Kind: MapKind, Size: 1024}
	case ProteinCoverage:
		return Descriptor{Kind: MapKind, Size: 64}
	case SearchEngineTypes:
		return Descriptor{Kind: SetKind}
	case SpectrumIDs, IdentificationIDs:
		return Descriptor{Kind: ListKind, Size: 1024}
	}
	return Descriptor{Kind: ListKind}
}
