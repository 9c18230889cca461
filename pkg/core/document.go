// Package core provides the canonical identification document model and the
// deduplication index used when normalizing peptide-search results.
package core

// FlankNone is the flanking-residue sentinel used when a peptide sits at a
// protein terminus and has no preceding or following residue.
const FlankNone = '-'

// LocalizedModification is one chemical modification assigned to a specific
// place on a peptide. Location follows the mzIdentML convention: 0 means the
// peptide N-terminus, sequence length + 1 means the C-terminus, anything else
// is a 1-based residue position with Residue set to that residue.
type LocalizedModification struct {
	AvgMassDelta  float64
	MonoMassDelta float64
	Location      int
	Residue       byte // 0 for terminal locations
}

// PeptideVariant is a canonical distinct peptide: a sequence plus an ordered
// list of localized modifications. Variants are owned by the Index; everything
// else references them.
type PeptideVariant struct {
	ID            string
	Sequence      string
	Modifications []LocalizedModification
}

// ProteinRecord is a canonical database sequence entry, one per distinct
// accession.
type ProteinRecord struct {
	ID        string
	Accession string
	IsDecoy   bool
}

// PeptideEvidence links one peptide variant to one protein it occurs in,
// with the flanking residue context and the decoy flag inherited from the
// protein. Exactly one exists per (peptide, protein) pair.
type PeptideEvidence struct {
	ID      string
	Peptide *PeptideVariant
	Protein *ProteinRecord
	Pre     byte
	Post    byte
	IsDecoy bool
}

// Score is one named numeric search score on an identification item. The
// accession is set when the score name maps to a controlled-vocabulary term,
// and empty for free-form scores.
type Score struct {
	Name      string
	Accession string
	Value     float64
}

// IdentificationItem is one normalized search result: a single (spectrum,
// charge, rank, tie) tuple referencing its canonical peptide and evidence.
type IdentificationItem struct {
	ID             string
	Rank           int
	ChargeState    int
	ExperimentalMZ float64
	CalculatedMZ   float64
	MatchedPeaks   int
	UnmatchedPeaks int
	Peptide        *PeptideVariant
	Evidence       []*PeptideEvidence
	Scores         []Score
	PassThreshold  bool
}

// IdentificationResult holds the identification items for one spectrum.
// A result is never emitted without at least one item.
type IdentificationResult struct {
	ID         string
	SpectrumID string
	Items      []*IdentificationItem
}

// SearchSummary carries whole-run statistics accumulated during
// normalization. It is attached once at the document level rather than to
// whichever spectrum happened to be processed last.
type SearchSummary struct {
	TargetComparisons int
	DecoyComparisons  int
	SequencesSearched int
}
