package query

import (
	"errors"
	"strings"

	"github.com/524D/mzcore/internal/model"
)

const (
	massProton = float64(1.007276466879)
	massH2O    = float64(18.0105647)
)

// ErrInvalidAminoAcid means a peptide sequence holds an unknown residue
var ErrInvalidAminoAcid = errors.New("query: invalid amino acid")

// Masses of amino acids (minus H2O)
var aaMass = map[rune]float64{
	'A': 71.0371138,
	'C': 103.0091848,
	'D': 115.0269430,
	'E': 129.0425931,
	'F': 147.0684139,
	'G': 57.0214637,
	'H': 137.0589119,
	'I': 113.0840640,
	'K': 128.0949630,
	'L': 113.0840640,
	'M': 131.0404849,
	'N': 114.0429274,
	'P': 97.0527638,
	'O': 237.1477269, // Pyrrolysine
	'Q': 128.0585775,
	'R': 156.1011110,
	'S': 87.0320284,
	'T': 101.0476785,
	'U': 144.9595902, // Selenocysteine
	'V': 99.0684139,
	'W': 186.0793129,
	'Y': 163.0633285,
}

// SequenceMass computes the lowest isotope mass of an unmodified peptide.
func SequenceMass(pepSeq string) (float64, error) {
	m := massH2O
	for _, aa := range strings.ToUpper(pepSeq) {
		aam, ok := aaMass[aa]
		if !ok {
			return 0.0, ErrInvalidAminoAcid
		}
		m += aam
	}
	return m, nil
}

// PeptideMass is SequenceMass plus the first monoisotopic delta of each
// modification.
func PeptideMass(p *model.Peptide) (float64, error) {
	m, err := SequenceMass(p.Sequence())
	if err != nil {
		return 0, err
	}
	for _, mod := range p.Modifications() {
		if len(mod.MonoisotopicMass) > 0 {
			m += mod.MonoisotopicMass[0]
		}
	}
	return m, nil
}

// MassToCharge returns the m/z of a neutral mass at the given charge.
func MassToCharge(mass float64, charge int) float64 {
	if charge == 0 {
		return mass
	}
	return (mass + float64(charge)*massProton) / float64(charge)
}
