// Package codec decodes and encodes the numeric peak arrays embedded in
// mass spectrometry files.
package codec

import (
	"encoding/binary"
	"strings"

	"github.com/524D/mzcore/internal/cv"
)

// Precision is the storage type of the elements of a binary array.
type Precision int

const (
	Int32 Precision = iota + 1
	Float16
	Float32
	Int64
	Float64
)

func (p Precision) String() string {
	switch p {
	case Int32:
		return "int32"
	case Float16:
		return "float16"
	case Float32:
		return "float32"
	case Int64:
		return "int64"
	case Float64:
		return "float64"
	}
	return "unknown"
}

// ByteLength returns the size of one element, or 0 for an unknown precision.
func (p Precision) ByteLength() int {
	switch p {
	case Int32, Float32:
		return 4
	case Float16:
		return 2
	case Int64, Float64:
		return 8
	}
	return 0
}

// Term returns the CV term describing p.
func (p Precision) Term() (cv.Term, bool) {
	switch p {
	case Int32:
		return cv.Int32, true
	case Float16:
		return cv.Float16, true
	case Float32:
		return cv.Float32, true
	case Int64:
		return cv.Int64, true
	case Float64:
		return cv.Float64, true
	}
	return cv.Term{}, false
}

// PrecisionFromTerm maps a binary data type accession to a Precision.
func PrecisionFromTerm(accession string) (Precision, bool) {
	for _, p := range []Precision{Int32, Float16, Float32, Int64, Float64} {
		if t, _ := p.Term(); t.Matches(accession) {
			return p, true
		}
	}
	return 0, false
}

// PrecisionFromBits maps the "32"/"64" precision strings of PRIDE XML.
// Anything other than "32" is read as 64-bit float.
func PrecisionFromBits(bits string) Precision {
	if strings.TrimSpace(bits) == "32" {
		return Float32
	}
	return Float64
}

// ByteOrderFromString maps "big"/"little". Anything other than "big" is
// little endian.
func ByteOrderFromString(endian string) binary.ByteOrder {
	if strings.EqualFold(strings.TrimSpace(endian), "big") {
		return binary.BigEndian
	}
	return binary.LittleEndian
}
