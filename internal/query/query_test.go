package query

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/524D/mzcore/internal/cv"
	"github.com/524D/mzcore/internal/model"
)

func cvp(t cv.Term, value string) model.CvParam {
	return model.NewCvParam(t.Accession, t.Name, t.CvLabel, value)
}

func TestGetCvParamIgnoresLabel(t *testing.T) {
	pg := model.NewParamGroup([]model.CvParam{
		{Accession: "MS:1000511", Name: "ms level", CvLookupID: "PSI-MS", Value: "2"},
		{Accession: "ms:1000511", Name: "ms level", CvLookupID: "MS", Value: "3"},
		{Accession: "MS:1000127", CvLookupID: "MS"},
	}, nil)

	got, err := GetCvParam(pg, "WRONG_LABEL", "MS:1000511")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "PSI-MS", got[0].CvLookupID)

	_, err = GetCvParam(nil, "MS", "MS:1000511")
	assert.ErrorIs(t, err, ErrNilParamGroup)
	_, err = GetCvParam(pg, "MS", "")
	assert.ErrorIs(t, err, ErrEmptyAccession)

	got, err = GetCvParam(pg, "MS", "MS:0000000")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGetParamByName(t *testing.T) {
	pg := model.NewParamGroup(
		[]model.CvParam{{Accession: "MS:1", Name: "Comment"}},
		[]model.UserParam{{Name: "comment", Value: "u"}, {Name: "other"}},
	)
	got, err := GetParamByName(pg, "COMMENT")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.IsType(t, model.CvParam{}, got[0])
	assert.IsType(t, model.UserParam{}, got[1])

	_, err = GetParamByName(pg, "")
	assert.ErrorIs(t, err, ErrEmptyName)
	_, err = GetParamByName(nil, "x")
	assert.ErrorIs(t, err, ErrNilParamGroup)
}

func TestSelectedValueLastTermWins(t *testing.T) {
	pg := model.NewParamGroup([]model.CvParam{
		cvp(cv.ChargeState, "3"),
		cvp(cv.PsiChargeState, "2"),
	}, nil)

	v, ok := GetSelectedCvParamValue(pg, cv.PsiChargeState, cv.ChargeState)
	require.True(t, ok)
	assert.Equal(t, 3.0, v)

	v, ok = GetSelectedCvParamValue(pg, cv.ChargeState, cv.PsiChargeState)
	require.True(t, ok)
	assert.Equal(t, 2.0, v)

	// a later non-numeric match clears the result
	bad := model.NewParamGroup([]model.CvParam{cvp(cv.PsiChargeState, "2"), cvp(cv.ChargeState, "two")}, nil)
	_, ok = GetSelectedCvParamValue(bad, cv.PsiChargeState, cv.ChargeState)
	assert.False(t, ok)

	_, ok = GetSelectedCvParamValue(pg, cv.SelectedIonMz)
	assert.False(t, ok)
}

func precursorSpectrum() *model.Spectrum {
	ion := model.NewParamGroup([]model.CvParam{
		cvp(cv.SelectedIonMz, "445.34"),
		cvp(cv.ChargeState, "2"),
		cvp(cv.PeakIntensity, "1200.5"),
	}, nil)
	s := &model.Spectrum{
		Precursors: []*model.Precursor{{SelectedIons: []*model.ParamGroup{ion}}},
		BinaryDataArrays: []*model.BinaryDataArray{
			model.NewBinaryDataArray(nil, []float64{100, 200, 300}, model.NewParamGroup([]model.CvParam{cvp(cv.MzArray, "")}, nil)),
			model.NewBinaryDataArray(nil, []float64{1, 5, 2.5}, model.NewParamGroup([]model.CvParam{cvp(cv.IntensityArray, "")}, nil)),
		},
		ScanList: &model.ScanList{Scans: []*model.Scan{{ParamGroup: model.ParamGroup{CvParams: []model.CvParam{
			{Accession: cv.ScanStartTime.Accession, Value: "1.5", UnitAccession: cv.Minute.Accession},
		}}}}},
	}
	s.AddCvParam(cvp(cv.MsLevel, "2"))
	return s
}

func TestSpectrumQueries(t *testing.T) {
	s := precursorSpectrum()
	assert.Equal(t, 2, GetPrecursorCharge(s))
	assert.Equal(t, 445.34, GetPrecursorMz(s))
	assert.Equal(t, 1200.5, GetPrecursorIntensity(s))
	assert.Equal(t, 2, GetMsLevel(s))
	assert.Equal(t, 3, GetNumberOfPeaks(s))
	assert.InDelta(t, 8.5, GetSumOfIntensity(s), 1e-12)
	assert.Equal(t, 5.0, GetMaxIntensity(s))
	assert.InDelta(t, 90.0, GetRetentionTime(s), 1e-9)

	empty := &model.Spectrum{}
	assert.Equal(t, -1, GetPrecursorCharge(empty))
	assert.Equal(t, -1.0, GetPrecursorMz(empty))
	assert.Equal(t, -1, GetMsLevel(empty))
	assert.Equal(t, -1, GetNumberOfPeaks(empty))
	assert.Equal(t, 0.0, GetSumOfIntensity(empty))
	assert.Equal(t, -1.0, GetRetentionTime(empty))

	_, ok := GetSelectedIonMz(s.Precursors[0], 1)
	assert.False(t, ok)
}

func TestScoreExtraction(t *testing.T) {
	pg := model.NewParamGroup([]model.CvParam{cvp(cv.MascotScore, "42.5")}, nil)

	engines, err := GetSearchEngineTypes(pg)
	require.NoError(t, err)
	assert.Equal(t, []cv.SearchEngineType{cv.Mascot}, engines)

	score, err := GetPeptideScore(pg, engines)
	require.NoError(t, err)
	require.Equal(t, 1, score.Len())
	v, ok := score.Value(cv.Mascot, cv.MascotScore)
	require.True(t, ok)
	require.NotNil(t, v)
	assert.Equal(t, 42.5, *v)

	_, err = GetPeptideScore(pg, nil)
	assert.ErrorIs(t, err, ErrNilSearchEngines)
	_, err = GetPeptideScore(nil, engines)
	assert.ErrorIs(t, err, ErrNilParamGroup)
	_, err = GetSearchEngineTypes(nil)
	assert.ErrorIs(t, err, ErrNilParamGroup)
}

func TestScoreNonNumericAndFirstMatch(t *testing.T) {
	pg := model.NewParamGroup([]model.CvParam{
		cvp(cv.SequestScore, "n/a"),
		cvp(cv.XCorrelation, "3.1"),
		cvp(cv.XCorrelation, "9.9"),
		cvp(cv.OmssaEValue, "1e-5"),
	}, nil)
	score := GetScore(pg)
	require.NotNil(t, score)
	assert.Equal(t, []cv.SearchEngineType{cv.Sequest, cv.Omssa}, score.SearchEngineTypes())

	v, ok := score.Value(cv.Sequest, cv.SequestScore)
	assert.True(t, ok)
	assert.Nil(t, v)
	v, _ = score.Value(cv.Sequest, cv.XCorrelation)
	assert.Equal(t, 3.1, *v)
	assert.Nil(t, GetScore(nil))
}

func protein(seq string, peptides ...*model.PeptideEvidence) *model.Identification {
	ident := &model.Identification{DBSequence: &model.DBSequence{Sequence: seq}}
	for _, ev := range peptides {
		ident.AddPeptide(&model.Peptide{Evidence: ev, SpectrumIdentification: &model.SpectrumIdentification{}})
	}
	return ident
}

func evidence(seq string, start, end int, mods ...*model.Modification) *model.PeptideEvidence {
	return &model.PeptideEvidence{Start: start, End: end, PeptideSequence: &model.PeptideSequence{Sequence: seq, Modifications: mods}}
}

func TestProteinCoverage(t *testing.T) {
	tests := []struct {
		name  string
		ident *model.Identification
		want  int
		ok    bool
	}{
		{"strict match", protein("MABCDEFG", evidence("BCD", 2, 4)), 3, true},
		{"repeated substring", protein("ABCABC", evidence("ABC", 2, 5)), 6, true},
		{"overlapping peptides", protein("MABCDEFG", evidence("ABCD", 2, 5), evidence("CDEF", 4, 7)), 6, true},
		{"not contained", protein("MABCDEFG", evidence("XYZ", 1, 3)), 0, true},
		{"case sensitive containment", protein("MABCDEFG", evidence("bcd", 3, 5)), 0, true},
		{"start out of range", protein("MABCDEFG", evidence("EFG", 7, 20)), 3, true},
		{"no sequence", protein("", evidence("ABC", 1, 3)), 0, true},
		{"no peptides", protein("MABCDEFG"), 0, false},
		{"nil", nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := GetProteinCoverage(tt.ident)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
			if tt.ident != nil && tt.ident.DBSequence != nil {
				assert.LessOrEqual(t, got, len(tt.ident.DBSequence.Sequence))
			}
		})
	}

	assert.InDelta(t, 3.0/8.0, CoverageFraction(protein("MABCDEFG", evidence("BCD", 2, 4))), 1e-12)
	assert.Equal(t, -1.0, CoverageFraction(protein("MABCDEFG")))
}

func TestPeptideCounts(t *testing.T) {
	phospho := &model.Modification{Location: 3, MonoisotopicMass: []float64{79.966331}}
	e1 := evidence("PEPTIDE", 1, 7, phospho)
	e2 := evidence("PEPTIDE", 10, 16)
	e3 := evidence("SAMPLER", 20, 26)
	ident := protein("X", e1, e2, e3)
	ident.AddPeptide(&model.Peptide{Evidence: e1, SpectrumIdentification: &model.SpectrumIdentification{
		FragmentIons: []*model.FragmentIon{{}},
	}})

	assert.Equal(t, 4, GetNumberOfPeptides(ident))
	assert.Equal(t, 2, GetNumberOfUniquePeptides(ident))
	assert.Equal(t, 2, GetNumberOfPTMs(ident))
	assert.False(t, HasFragmentIon(GetPeptide(ident, 0)))
	assert.True(t, HasFragmentIon(GetPeptide(ident, 1)))
	assert.Nil(t, GetPeptide(ident, 4))
}

func TestPeptideMass(t *testing.T) {
	m, err := SequenceMass("PEPTIDE")
	require.NoError(t, err)
	assert.InDelta(t, 799.359964, m, 1e-5)

	_, err = SequenceMass("PEPTIDEB")
	assert.ErrorIs(t, err, ErrInvalidAminoAcid)

	p := &model.Peptide{Evidence: evidence("PEPTIDE", 1, 7, &model.Modification{MonoisotopicMass: []float64{79.966331}})}
	m, err = PeptideMass(p)
	require.NoError(t, err)
	assert.InDelta(t, 879.326295, m, 1e-5)

	assert.InDelta(t, 400.687258, MassToCharge(799.359964, 2), 1e-5)
	assert.True(t, math.Abs(MassToCharge(100, 0)-100) < 1e-12)
}

func TestTaxonomyAndProject(t *testing.T) {
	samples := []*model.Sample{{ParamGroup: model.ParamGroup{CvParams: []model.CvParam{
		{Accession: "9606", CvLookupID: "newt", Name: "Homo sapiens"},
		{Accession: "BTO:0000089", CvLookupID: "BTO"},
	}}}}
	assert.Equal(t, []string{"9606"}, GetTaxonomy(samples))

	pg := model.NewParamGroup([]model.CvParam{cvp(cv.ProjectName, "first"), cvp(cv.ProjectName, "second")}, nil)
	assert.Equal(t, "second", GetProjectName(pg))
	assert.Equal(t, "", GetProjectName(nil))
}
