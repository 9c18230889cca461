package core

// Atomic masses, monoisotopic and average
const (
	MassH = 1.0078250321
	MassC = 12.0000000000
	MassN = 14.0030740052
	MassO = 15.9949146221
	MassS = 31.9720706900

	AvgMassH = 1.00794
	AvgMassC = 12.0107
	AvgMassN = 14.0067
	AvgMassO = 15.9994
	AvgMassS = 32.065

	// Proton mass for charge calculations
	ProtonMass = 1.00727646688
)

// AminoAcidComposition stores elemental composition
type AminoAcidComposition struct {
	C, H, N, O, S int
}

// AminoAcidMasses maps amino acid one-letter codes to elemental composition
var AminoAcidMasses = map[byte]AminoAcidComposition{
	'A': {C: 3, H: 5, N: 1, O: 1, S: 0},
	'R': {C: 6, H: 12, N: 4, O: 1, S: 0},
	'N': {C: 4, H: 6, N: 2, O: 2, S: 0},
	'D': {C: 4, H: 5, N: 1, O: 3, S: 0},
	'C': {C: 3, H: 5, N: 1, O: 1, S: 1},
	'E': {C: 5, H: 7, N: 1, O: 3, S: 0},
	'Q': {C: 5, H: 8, N: 2, O: 2, S: 0},
	'G': {C: 2, H: 3, N: 1, O: 1, S: 0},
	'H': {C: 6, H: 7, N: 3, O: 1, S: 0},
	'I': {C: 6, H: 11, N: 1, O: 1, S: 0},
	'L': {C: 6, H: 11, N: 1, O: 1, S: 0},
	'K': {C: 6, H: 12, N: 2, O: 1, S: 0},
	'M': {C: 5, H: 9, N: 1, O: 1, S: 1},
	'F': {C: 9, H: 9, N: 1, O: 1, S: 0},
	'P': {C: 5, H: 7, N: 1, O: 1, S: 0},
	'S': {C: 3, H: 5, N: 1, O: 2, S: 0},
	'T': {C: 4, H: 7, N: 1, O: 2, S: 0},
	'W': {C: 11, H: 10, N: 2, O: 1, S: 0},
	'Y': {C: 9, H: 9, N: 1, O: 2, S: 0},
	'V': {C: 5, H: 9, N: 1, O: 1, S: 0},
}

// ResidueMonoMass returns the monoisotopic residue mass for a one-letter
// amino acid code.
func ResidueMonoMass(aa byte) (float64, bool) {
	comp, ok := AminoAcidMasses[aa]
	if !ok {
		return 0, false
	}
	return float64(comp.C)*MassC +
		float64(comp.H)*MassH +
		float64(comp.N)*MassN +
		float64(comp.O)*MassO +
		float64(comp.S)*MassS, true
}

// ResidueAvgMass returns the average residue mass for a one-letter amino
// acid code.
func ResidueAvgMass(aa byte) (float64, bool) {
	comp, ok := AminoAcidMasses[aa]
	if !ok {
		return 0, false
	}
	return float64(comp.C)*AvgMassC +
		float64(comp.H)*AvgMassH +
		float64(comp.N)*AvgMassN +
		float64(comp.O)*AvgMassO +
		float64(comp.S)*AvgMassS, true
}

// MonoisotopicMass computes the neutral monoisotopic mass of a peptide
// including its localized modification deltas.
func MonoisotopicMass(sequence string, mods []LocalizedModification) float64 {
	// Start with water for the terminal H and OH
	mass := 2*MassH + MassO

	for i := 0; i < len(sequence); i++ {
		if m, ok := ResidueMonoMass(sequence[i]); ok {
			mass += m
		}
	}

	for _, mod := range mods {
		mass += mod.MonoMassDelta
	}

	return mass
}

// AverageMass computes the neutral average mass of a peptide including its
// localized modification deltas.
func AverageMass(sequence string, mods []LocalizedModification) float64 {
	mass := 2*AvgMassH + AvgMassO

	for i := 0; i < len(sequence); i++ {
		if m, ok := ResidueAvgMass(sequence[i]); ok {
			mass += m
		}
	}

	for _, mod := range mods {
		mass += mod.AvgMassDelta
	}

	return mass
}

// MZ converts a neutral mass to the mass-to-charge ratio observed at the
// given charge state: (mass + z*proton) / z.
func MZ(neutralMass float64, charge int) float64 {
	return (neutralMass + float64(charge)*ProtonMass) / float64(charge)
}
