package codec

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zlib"

	"github.com/524D/mzcore/internal/cv"
)

var (
	// ErrCorruptData means a compressed array could not be inflated
	ErrCorruptData = errors.New("codec: corrupt compressed data")
	// ErrUnsupportedCompression means the array uses a compression this package cannot undo
	ErrUnsupportedCompression = errors.New("codec: unsupported compression")
)

// Compression is the compression applied to a binary array.
type Compression int

const (
	NoCompression Compression = iota
	Zlib
)

func (c Compression) String() string {
	switch c {
	case NoCompression:
		return "none"
	case Zlib:
		return "zlib"
	}
	return "unknown"
}

// Term returns the CV term describing c.
func (c Compression) Term() cv.Term {
	if c == Zlib {
		return cv.ZlibCompression
	}
	return cv.NoCompression
}

// CompressionFromTerm maps a compression accession. ok is false for
// accessions that are not compression terms; numpress terms return
// ErrUnsupportedCompression.
func CompressionFromTerm(accession string) (c Compression, ok bool, err error) {
	switch {
	case cv.NoCompression.Matches(accession):
		return NoCompression, true, nil
	case cv.ZlibCompression.Matches(accession):
		return Zlib, true, nil
	}
	for _, t := range []cv.Term{cv.NumpressLinear, cv.NumpressPic, cv.NumpressSlof,
		cv.NumpressLinearZlib, cv.NumpressPicZlib, cv.NumpressSlofZlib} {
		if t.Matches(accession) {
			return 0, true, fmt.Errorf("%w: %s", ErrUnsupportedCompression, t.Name)
		}
	}
	return NoCompression, false, nil
}

// Codec compresses and decompresses array payloads.
type Codec interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

type noopCodec struct{}

var _ Codec = noopCodec{}

func (noopCodec) Compress(data []byte) ([]byte, error)   { return data, nil }
func (noopCodec) Decompress(data []byte) ([]byte, error) { return data, nil }

type zlibCodec struct{}

var _ Codec = zlibCodec{}

func (zlibCodec) Compress(data []byte) ([]byte, error)   { return Compress(data) }
func (zlibCodec) Decompress(data []byte) ([]byte, error) { return Decompress(data) }

// CodecFor returns the codec for c.
func CodecFor(c Compression) (Codec, error) {
	switch c {
	case NoCompression:
		return noopCodec{}, nil
	case Zlib:
		return zlibCodec{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCompression, c)
	}
}

// Decompress inflates zlib data. Malformed input returns an error wrapping
// ErrCorruptData.
func Decompress(data []byte) ([]byte, error) {
	z, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptData, err)
	}
	defer z.Close()
	buf := bytes.NewBuffer(make([]byte, 0, 2*len(data)))
	if _, err := io.Copy(buf, z); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptData, err)
	}
	return buf.Bytes(), nil
}

// Compress deflates data in zlib format.
func Compress(data []byte) ([]byte, error) {
	var b bytes.Buffer
	b.Grow(len(data) + 16)
	z := zlib.NewWriter(&b)
	if _, err := z.Write(data); err != nil {
		z.Close()
		return nil, err
	}
	// zlib writer must be closed before reading the buffer
	if err := z.Close(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// DecodeArray decodes a base64 encoded array as found in XML files.
// Decompression failures are returned; decoding failures yield an empty
// slice. Whitespace in encoded is ignored.
func DecodeArray(encoded string, precision Precision, compression Compression, order binary.ByteOrder) ([]float64, error) {
	data, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(encoded), ""))
	if err != nil {
		return nil, fmt.Errorf("codec: base64: %w", err)
	}
	codec, err := CodecFor(compression)
	if err != nil {
		return nil, err
	}
	data, err = codec.Decompress(data)
	if err != nil {
		return nil, err
	}
	return DecodeDoubles(data, precision, order), nil
}

// EncodeArray is the inverse of DecodeArray.
func EncodeArray(values []float64, precision Precision, compression Compression, order binary.ByteOrder) (string, error) {
	codec, err := CodecFor(compression)
	if err != nil {
		return "", err
	}
	data, err := codec.Compress(EncodeDoubles(values, precision, order))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
