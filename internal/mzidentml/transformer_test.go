package mzidentml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/524D/mzcore/internal/cv"
	"github.com/524D/mzcore/internal/query"
)

func TestProteinDetectionHypothesis(t *testing.T) {
	m := readTestFile(t, "testdata/proteins.mzid")
	assert.Equal(t, []string{"PDH_1", "PDH_2"}, m.IdentificationIDs())

	ident, err := m.Identification("PDH_1")
	require.NoError(t, err)
	assert.Equal(t, "PDH_1", ident.ID)
	assert.Equal(t, "P12345", ident.Accession())
	assert.True(t, ident.PassThreshold)
	assert.Equal(t, "Mascot", ident.SearchEngine)
	assert.Equal(t, 88.2, ident.SequenceCoverage)
	v, ok := ident.Score.Value(cv.Mascot, cv.MsMascotScore)
	require.True(t, ok)
	assert.Equal(t, 55.1, *v)

	db := ident.DBSequence
	require.NotNil(t, db)
	assert.Equal(t, "MKPEPTIDEKSAMPLER", db.Sequence)
	assert.Equal(t, 17, db.Length)
	assert.Equal(t, "UniProt", db.Database)
	assert.Equal(t, "2010_01", db.DatabaseVersion)

	peptides := ident.Peptides()
	require.Len(t, peptides, 2)
	p := peptides[0]
	assert.Equal(t, "PEPTIDEK", p.Sequence())
	assert.Equal(t, 3, p.Evidence.Start)
	assert.Equal(t, 10, p.Evidence.End)
	assert.Equal(t, "K", p.Evidence.Pre)
	assert.Same(t, db, p.Evidence.DBSequence)

	mods := p.Modifications()
	require.Len(t, mods, 1)
	assert.Equal(t, 2, mods[0].Location)
	assert.Equal(t, []string{"E"}, mods[0].Residues)
	assert.Equal(t, "UNIMOD:21", mods[0].Accession)
	assert.Equal(t, "UNIMOD", mods[0].Database)
	assert.Equal(t, []float64{79.966331}, mods[0].MonoisotopicMass)
	assert.Empty(t, mods[0].AverageMass)

	sii := p.SpectrumIdentification
	assert.Equal(t, "SII_1_1", sii.ID)
	assert.Equal(t, 1, sii.Rank)
	assert.Equal(t, 2, sii.ChargeState)
	assert.Equal(t, 490.7, sii.ExperimentalMassToCharge)
	assert.Equal(t, 490.71, sii.CalculatedMassToCharge)
	assert.True(t, sii.PassThreshold)
	assert.Equal(t, "scan=20", sii.SpectrumRef)
	assert.Equal(t, 330.0, sii.RetentionTime)
	assert.Nil(t, sii.Spectrum)
	assert.True(t, query.HasFragmentIon(p))
	sv, ok := sii.Score.Value(cv.Mascot, cv.MsMascotScore)
	require.True(t, ok)
	assert.Equal(t, 42.5, *sv)

	assert.Equal(t, -1.0, peptides[1].SpectrumIdentification.CalculatedMassToCharge)
	assert.False(t, peptides[1].SpectrumIdentification.PassThreshold)

	cov, ok := query.GetProteinCoverage(ident)
	require.True(t, ok)
	assert.Equal(t, 15, cov)

	second, err := m.Identification("PDH_2")
	require.NoError(t, err)
	assert.False(t, second.PassThreshold)
	assert.Equal(t, -1.0, second.SequenceCoverage)
	require.Len(t, second.Peptides(), 1)
	assert.True(t, second.Peptides()[0].Evidence.Decoy)

	_, err = m.Identification("DBSeq_1")
	assert.ErrorIs(t, err, ErrInvalidIdentificationID)
}

func TestDBSequenceFallback(t *testing.T) {
	m := readTestFile(t, "testdata/psms.mzid")
	// DBSeq_3 has no spectrum matches
	assert.Equal(t, []string{"DBSeq_1", "DBSeq_2"}, m.IdentificationIDs())

	ident, err := m.Identification("DBSeq_1")
	require.NoError(t, err)
	assert.True(t, ident.PassThreshold)
	assert.Equal(t, 0, ident.Score.Len())
	require.Len(t, ident.Peptides(), 2)
	assert.Equal(t, []string{"PEPTIDEK", "SAMPLER"}, []string{ident.Peptides()[0].Sequence(), ident.Peptides()[1].Sequence()})
	assert.Equal(t, 2, query.GetNumberOfUniquePeptides(ident))

	ident, err = m.Identification("DBSeq_2")
	require.NoError(t, err)
	assert.Equal(t, 9, ident.DBSequence.Length)
	assert.Equal(t, 120.5, ident.Peptides()[0].SpectrumIdentification.RetentionTime)

	_, err = m.Identification("DBSeq_9")
	assert.ErrorIs(t, err, ErrInvalidIdentificationID)
}

func TestMetadata(t *testing.T) {
	m := readTestFile(t, "testdata/proteins.mzid")

	sw := m.Software()
	require.Len(t, sw, 1)
	assert.Equal(t, "AS_mascot", sw[0].ID)
	assert.Equal(t, "Mascot", sw[0].Name)
	assert.Equal(t, "2.3", sw[0].Version)
	assert.Equal(t, "MS:1001207", sw[0].CvParams[0].Accession)

	sfs := m.SourceFiles()
	require.Len(t, sfs, 1)
	assert.Equal(t, "run1", sfs[0].Name)
	assert.Equal(t, "/data/run1.mzML", sfs[0].Location)
	require.Len(t, sfs[0].CvParams, 2)
	assert.Equal(t, "MS:1000768", sfs[0].CvParams[1].Accession)

	lookups := m.CVLookups()
	require.Len(t, lookups, 3)
	assert.Equal(t, "UNIMOD", lookups[1].CvLabel)

	assert.Nil(t, m.SpectrumIDs())
	_, err := m.Spectrum("scan=20")
	assert.ErrorIs(t, err, ErrNoSpectra)
	assert.Nil(t, m.InstrumentConfigurations())
}
