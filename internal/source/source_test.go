package source

import (
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/524D/mzcore/internal/cache"
	"github.com/524D/mzcore/internal/cv"
	"github.com/524D/mzcore/internal/model"
	"github.com/524D/mzcore/internal/mzidentml"
	"github.com/524D/mzcore/internal/pridexml"
	"github.com/524D/mzcore/internal/transform"
)

const (
	prideFile = "../pridexml/testdata/small.xml"
	mzidFile  = "../mzidentml/testdata/proteins.mzid"
	mzMLFile  = "../mzml/testdata/small.mzML"
)

// countingTransformer counts the calls that reach the file.
type countingTransformer struct {
	transform.Transformer
	spectra         atomic.Int32
	identifications atomic.Int32
	samples         atomic.Int32
	identIDs        atomic.Int32
}

func (c *countingTransformer) IdentificationIDs() []string {
	c.identIDs.Add(1)
	return c.Transformer.IdentificationIDs()
}

func (c *countingTransformer) Spectrum(id string) (*model.Spectrum, error) {
	c.spectra.Add(1)
	return c.Transformer.Spectrum(id)
}

func (c *countingTransformer) Identification(id string) (*model.Identification, error) {
	c.identifications.Add(1)
	return c.Transformer.Identification(id)
}

func (c *countingTransformer) Samples() []*model.Sample {
	c.samples.Add(1)
	return c.Transformer.Samples()
}

func openCounting(t *testing.T, path string) (*Source, *countingTransformer) {
	t.Helper()
	doc, err := transform.Open(path)
	require.NoError(t, err)
	ct := &countingTransformer{Transformer: doc}
	return New(ct), ct
}

func TestOpen(t *testing.T) {
	s, err := Open(prideFile)
	require.NoError(t, err)
	assert.Equal(t, transform.PrideXML, s.Format())
	assert.Equal(t, prideFile, s.Path())
	assert.NotEqual(t, uuid.Nil, s.ID())
	assert.Equal(t, []string{"1", "2", "3"}, s.SpectrumIDs())
	assert.Equal(t, []string{"1", "2"}, s.IdentificationIDs())

	other, err := Open(prideFile)
	require.NoError(t, err)
	assert.NotEqual(t, s.ID(), other.ID())

	_, err = Open("testdata/missing.xml")
	assert.Error(t, err)
}

func TestSpectrumIsCached(t *testing.T) {
	s, ct := openCounting(t, prideFile)

	first, err := s.Spectrum("2")
	require.NoError(t, err)
	second, err := s.Spectrum("2")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.EqualValues(t, 1, ct.spectra.Load())

	level, err := s.MsLevel("2")
	require.NoError(t, err)
	assert.Equal(t, 2, level)
	charge, err := s.PrecursorCharge("2")
	require.NoError(t, err)
	assert.Equal(t, 2, charge)
	mz, err := s.PrecursorMz("2")
	require.NoError(t, err)
	assert.Equal(t, 440.67, mz)
	assert.EqualValues(t, 1, ct.spectra.Load())

	// derived values survive dropping the spectra
	s.cache.Clear(cache.Spectrum)
	level, err = s.MsLevel("2")
	require.NoError(t, err)
	assert.Equal(t, 2, level)
	assert.EqualValues(t, 1, ct.spectra.Load())

	charge, err = s.PrecursorCharge("1")
	require.NoError(t, err)
	assert.Equal(t, -1, charge)

	_, err = s.Spectrum("42")
	assert.ErrorIs(t, err, pridexml.ErrInvalidSpectrumID)
	_, err = s.MsLevel("42")
	assert.ErrorIs(t, err, pridexml.ErrInvalidSpectrumID)
}

func TestClose(t *testing.T) {
	s, ct := openCounting(t, prideFile)
	_, err := s.Spectrum("1")
	require.NoError(t, err)
	require.NoError(t, s.Close())
	_, err = s.Spectrum("1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, ct.spectra.Load())
}

func TestMetadataCached(t *testing.T) {
	s, ct := openCounting(t, prideFile)
	samples := s.Samples()
	require.Len(t, samples, 1)
	assert.Equal(t, samples, s.Samples())
	assert.EqualValues(t, 1, ct.samples.Load())

	assert.Len(t, s.InstrumentConfigurations(), 2)
	assert.Len(t, s.SourceFiles(), 1)
	assert.Len(t, s.Software(), 1)
	assert.Len(t, s.DataProcessings(), 1)
	assert.Len(t, s.Contacts(), 1)
	assert.Len(t, s.CVLookups(), 2)
}

func TestProteins(t *testing.T) {
	s, ct := openCounting(t, mzidFile)

	cov, err := s.ProteinCoverage("PDH_1")
	require.NoError(t, err)
	assert.Equal(t, 15, cov)
	cov, err = s.ProteinCoverage("PDH_1")
	require.NoError(t, err)
	assert.Equal(t, 15, cov)
	assert.EqualValues(t, 1, ct.identifications.Load())

	engines, err := s.SearchEngineTypes()
	require.NoError(t, err)
	assert.Equal(t, []cv.SearchEngineType{cv.Mascot}, engines)
	engines, err = s.SearchEngineTypes()
	require.NoError(t, err)
	assert.Equal(t, []cv.SearchEngineType{cv.Mascot}, engines)
	// PDH_1 came from the cache, PDH_2 was read once
	assert.EqualValues(t, 2, ct.identifications.Load())

	_, err = s.ProteinCoverage("PDH_9")
	assert.Error(t, err)

	_, err = s.Spectrum("scan=20")
	assert.ErrorIs(t, err, mzidentml.ErrNoSpectra)
}

func TestProteinWithoutSequence(t *testing.T) {
	s, err := Open(prideFile)
	require.NoError(t, err)
	// PRIDE XML carries no protein sequences
	cov, err := s.ProteinCoverage("1")
	require.NoError(t, err)
	assert.Equal(t, 0, cov)

	engines, err := s.SearchEngineTypes()
	require.NoError(t, err)
	assert.Equal(t, []cv.SearchEngineType{cv.Mascot}, engines)
}

func TestEmptyListsCached(t *testing.T) {
	s, ct := openCounting(t, mzidFile)
	assert.Empty(t, s.Samples())
	assert.Empty(t, s.Samples())
	assert.EqualValues(t, 1, ct.samples.Load())

	require.NoError(t, s.Close())
	assert.Empty(t, s.Samples())
	assert.EqualValues(t, 2, ct.samples.Load())

	s, ct = openCounting(t, mzMLFile)
	for i := 0; i < 2; i++ {
		engines, err := s.SearchEngineTypes()
		require.NoError(t, err)
		assert.Empty(t, engines)
		assert.Empty(t, s.IdentificationIDs())
	}
	assert.EqualValues(t, 1, ct.identIDs.Load())
}
