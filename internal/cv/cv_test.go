package cv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchEngineByName(t *testing.T) {
	tests := []struct {
		name string
		want SearchEngineType
		ok   bool
	}{
		{"Mascot", Mascot, true},
		{"Matrix Science Mascot", Mascot, true},
		{" omssa ", Omssa, true},
		{"X!Tandem", XTandem, true},
		{"Comet", 0, false},
	}
	for _, tt := range tests {
		got, ok := SearchEngineByName(tt.name)
		assert.Equal(t, tt.ok, ok, tt.name)
		assert.Equal(t, tt.want, got, tt.name)
	}
}

func TestScoreTermsOrder(t *testing.T) {
	terms := Sequest.ScoreTerms()
	require.Len(t, terms, 6)
	assert.Equal(t, SequestScore, terms[0])
	assert.Equal(t, MsSequestDeltaCn, terms[5])

	def, ok := Mascot.DefaultScoreTerm()
	require.True(t, ok)
	assert.Equal(t, MascotScore, def)

	_, ok = SearchEngineType(0).DefaultScoreTerm()
	assert.False(t, ok)
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()

	term, ok := r.Lookup("ms:1000523")
	require.True(t, ok)
	assert.Equal(t, Float64, term)

	assert.True(t, r.IsChild(BinaryDataType.Accession, Float32.Accession))
	assert.True(t, r.IsChild(CompressionType.Accession, "ms:1000574"))
	assert.False(t, r.IsChild(BinaryDataType.Accession, MzArray.Accession))
	assert.False(t, r.IsChild(BinaryDataType.Accession, BinaryDataType.Accession))

	_, ok = r.Lookup("MS:9999999")
	assert.False(t, ok)
}
