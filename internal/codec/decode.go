package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"math"
)

var (
	// ErrTruncated means the buffer length is not a multiple of the element size
	ErrTruncated = errors.New("codec: buffer length is not a multiple of the element size")
	// ErrUnsupportedPrecision means the precision cannot be decoded
	ErrUnsupportedPrecision = errors.New("codec: unsupported precision")
)

// Number is a decoded element. Integer precisions fill Int, float precisions
// fill Float.
type Number struct {
	Int     int64
	Float   float64
	Integer bool
}

// Float64 widens n to a double.
func (n Number) Float64() float64 {
	if n.Integer {
		return float64(n.Int)
	}
	return n.Float
}

// DecodeNumbers decodes data as a sequence of elements of the given
// precision. Malformed input is logged and yields an empty sequence.
func DecodeNumbers(data []byte, precision Precision, order binary.ByteOrder) []Number {
	out, err := decodeNumbers(data, precision, order)
	if err != nil {
		slog.Warn("codec: discarding undecodable array",
			"precision", precision.String(), "bytes", len(data), "error", err)
		return []Number{}
	}
	return out
}

// DecodeDoubles is DecodeNumbers widened to float64.
func DecodeDoubles(data []byte, precision Precision, order binary.ByteOrder) []float64 {
	nums := DecodeNumbers(data, precision, order)
	out := make([]float64, len(nums))
	for i, n := range nums {
		out[i] = n.Float64()
	}
	return out
}

func decodeNumbers(data []byte, precision Precision, order binary.ByteOrder) ([]Number, error) {
	if order == nil {
		order = binary.LittleEndian
	}
	size := precision.ByteLength()
	if size == 0 || precision == Float16 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPrecision, precision)
	}
	if len(data)%size != 0 {
		return nil, fmt.Errorf("%w: %d bytes, element size %d", ErrTruncated, len(data), size)
	}
	cnt := len(data) / size
	out := make([]Number, cnt)
	switch precision {
	case Int32:
		for i := 0; i < cnt; i++ {
			out[i] = Number{Int: int64(int32(order.Uint32(data[i*4:]))), Integer: true}
		}
	case Float32:
		for i := 0; i < cnt; i++ {
			out[i] = Number{Float: float64(math.Float32frombits(order.Uint32(data[i*4:])))}
		}
	case Int64:
		for i := 0; i < cnt; i++ {
			out[i] = Number{Int: int64(order.Uint64(data[i*8:])), Integer: true}
		}
	case Float64:
		for i := 0; i < cnt; i++ {
			out[i] = Number{Float: math.Float64frombits(order.Uint64(data[i*8:]))}
		}
	}
	return out, nil
}

// EncodeDoubles is the inverse of DecodeDoubles. Float16 is not supported
// and yields nil.
func EncodeDoubles(values []float64, precision Precision, order binary.ByteOrder) []byte {
	if order == nil {
		order = binary.LittleEndian
	}
	var raw []byte
	switch precision {
	case Float64:
		raw = make([]byte, len(values)*8)
		for i, v := range values {
			order.PutUint64(raw[8*i:], math.Float64bits(v))
		}
	case Float32:
		raw = make([]byte, len(values)*4)
		for i, v := range values {
			order.PutUint32(raw[4*i:], math.Float32bits(float32(v)))
		}
	case Int64:
		raw = make([]byte, len(values)*8)
		for i, v := range values {
			order.PutUint64(raw[8*i:], uint64(int64(v)))
		}
	case Int32:
		raw = make([]byte, len(values)*4)
		for i, v := range values {
			order.PutUint32(raw[4*i:], uint32(int32(v)))
		}
	}
	return raw
}
