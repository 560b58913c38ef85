package codec

import (
	"bytes"
	"encoding/binary"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	inputs := [][]byte{
		{},
		[]byte("a"),
		bytes.Repeat([]byte("peak"), 1000),
	}
	random := make([]byte, 4096)
	rng.Read(random)
	inputs = append(inputs, random)

	for _, in := range inputs {
		c, err := Compress(in)
		require.NoError(t, err)
		out, err := Decompress(c)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	}
}

func TestDecompressCorrupt(t *testing.T) {
	_, err := Decompress([]byte("definitely not zlib"))
	require.ErrorIs(t, err, ErrCorruptData)

	c, err := Compress(bytes.Repeat([]byte{1, 2, 3}, 100))
	require.NoError(t, err)
	_, err = Decompress(c[:len(c)/2])
	require.ErrorIs(t, err, ErrCorruptData)
}

func TestDecodeDoublesFloat64(t *testing.T) {
	want := []float64{0, 1, -2.5, math.Pi, math.MaxFloat64, math.SmallestNonzeroFloat64}
	buf := make([]byte, 8*len(want))
	for i, v := range want {
		binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(v))
	}
	got := DecodeDoubles(buf, Float64, binary.LittleEndian)
	require.Len(t, got, len(want))
	for i := range want {
		if math.Float64bits(want[i]) != math.Float64bits(got[i]) {
			t.Errorf("element %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDecodeNumbersPrecisions(t *testing.T) {
	be := []byte{0x3f, 0x80, 0x00, 0x00, 0x40, 0x00, 0x00, 0x00}
	assert.Equal(t, []float64{1, 2}, DecodeDoubles(be, Float32, binary.BigEndian))

	ints := make([]byte, 8)
	binary.LittleEndian.PutUint32(ints, uint32(0xffffffff))
	binary.LittleEndian.PutUint32(ints[4:], 7)
	nums := DecodeNumbers(ints, Int32, binary.LittleEndian)
	require.Len(t, nums, 2)
	assert.True(t, nums[0].Integer)
	assert.Equal(t, int64(-1), nums[0].Int)
	assert.Equal(t, 7.0, nums[1].Float64())

	assert.Len(t, DecodeNumbers(ints, Int64, binary.LittleEndian), 1)
}

func TestDecodeDegrades(t *testing.T) {
	assert.Empty(t, DecodeDoubles(make([]byte, 7), Float64, binary.LittleEndian))
	assert.Empty(t, DecodeDoubles(make([]byte, 4), Float16, binary.LittleEndian))
	assert.Empty(t, DecodeDoubles(make([]byte, 4), Precision(0), binary.LittleEndian))
	assert.NotNil(t, DecodeDoubles(nil, Float64, binary.LittleEndian))
}

func TestPrecisionMapping(t *testing.T) {
	assert.Equal(t, 4, Int32.ByteLength())
	assert.Equal(t, 2, Float16.ByteLength())
	assert.Equal(t, 4, Float32.ByteLength())
	assert.Equal(t, 8, Int64.ByteLength())
	assert.Equal(t, 8, Float64.ByteLength())

	p, ok := PrecisionFromTerm("MS:1000523")
	require.True(t, ok)
	assert.Equal(t, Float64, p)
	_, ok = PrecisionFromTerm("MS:1000514")
	assert.False(t, ok)

	assert.Equal(t, Float32, PrecisionFromBits("32"))
	assert.Equal(t, Float64, PrecisionFromBits("64"))
	assert.Equal(t, binary.BigEndian, ByteOrderFromString("BIG"))
	assert.Equal(t, binary.LittleEndian, ByteOrderFromString("little"))
}

func TestCompressionFromTerm(t *testing.T) {
	c, ok, err := CompressionFromTerm("MS:1000574")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, Zlib, c)

	_, ok, err = CompressionFromTerm("MS:1002312")
	assert.True(t, ok)
	assert.ErrorIs(t, err, ErrUnsupportedCompression)

	_, ok, err = CompressionFromTerm("MS:1000514")
	assert.False(t, ok)
	assert.NoError(t, err)
}

func TestArrayRoundTrip(t *testing.T) {
	values := []float64{100.5, 200.25, 1234.125}
	for _, c := range []Compression{NoCompression, Zlib} {
		for _, p := range []Precision{Float32, Float64} {
			enc, err := EncodeArray(values, p, c, binary.LittleEndian)
			require.NoError(t, err)
			got, err := DecodeArray(enc, p, c, binary.LittleEndian)
			require.NoError(t, err)
			assert.Equal(t, values, got, "%s/%s", c, p)
		}
	}

	_, err := DecodeArray("AAAA", Float64, Zlib, binary.LittleEndian)
	assert.ErrorIs(t, err, ErrCorruptData)
	_, err = DecodeArray("%%%", Float64, NoCompression, binary.LittleEndian)
	assert.Error(t, err)
}
