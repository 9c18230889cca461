package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Index is the deduplication index for canonical peptide variants and protein
// records. It assigns stable synthetic identifiers at insertion time and
// returns the existing canonical entity on repeated insertion of an equal key.
//
// The index is single-writer: insertion order determines synthetic ids, so
// concurrent unsynchronized mutation is not supported.
type Index struct {
	decoyPrefix string

	peptides    map[string]*PeptideVariant
	peptideList []*PeptideVariant

	proteins    map[string]*ProteinRecord
	proteinList []*ProteinRecord
}

// NewIndex creates an empty index. Accessions starting with decoyPrefix
// (case-sensitive) are marked as decoy proteins.
func NewIndex(decoyPrefix string) *Index {
	return &Index{
		decoyPrefix: decoyPrefix,
		peptides:    make(map[string]*PeptideVariant),
		proteins:    make(map[string]*ProteinRecord),
	}
}

// InternPeptide inserts or finds the canonical peptide variant for the given
// sequence and ordered modification list. It reports whether the variant was
// newly inserted. New variants receive ids of the form PEP_<n> where n is the
// 1-based canonical peptide count at insertion time.
func (x *Index) InternPeptide(sequence string, mods []LocalizedModification) (*PeptideVariant, bool) {
	key := peptideKey(sequence, mods)
	if p, ok := x.peptides[key]; ok {
		return p, false
	}
	p := &PeptideVariant{
		ID:            fmt.Sprintf("PEP_%d", len(x.peptideList)+1),
		Sequence:      sequence,
		Modifications: mods,
	}
	x.peptides[key] = p
	x.peptideList = append(x.peptideList, p)
	return p, true
}

// InternProtein inserts or finds the canonical protein record for the given
// accession. New records receive ids of the form DBSeq_<accession> and a
// decoy flag derived from the configured decoy prefix.
func (x *Index) InternProtein(accession string) (*ProteinRecord, bool) {
	if p, ok := x.proteins[accession]; ok {
		return p, false
	}
	p := &ProteinRecord{
		ID:        "DBSeq_" + accession,
		Accession: accession,
		IsDecoy:   x.decoyPrefix != "" && strings.HasPrefix(accession, x.decoyPrefix),
	}
	x.proteins[accession] = p
	x.proteinList = append(x.proteinList, p)
	return p, true
}

// Peptides returns the canonical peptide variants in insertion order.
func (x *Index) Peptides() []*PeptideVariant {
	return x.peptideList
}

// Proteins returns the canonical protein records in insertion order.
func (x *Index) Proteins() []*ProteinRecord {
	return x.proteinList
}

// peptideKey builds the identity key for a (sequence, modifications) pair.
// Floats are encoded exactly so that key equality matches comparePeptides
// equality.
func peptideKey(sequence string, mods []LocalizedModification) string {
	var b strings.Builder
	b.WriteString(sequence)
	for _, m := range mods {
		b.WriteByte('|')
		b.WriteString(strconv.Itoa(m.Location))
		b.WriteByte(':')
		b.WriteString(strconv.FormatFloat(m.AvgMassDelta, 'b', -1, 64))
		b.WriteByte(':')
		b.WriteString(strconv.FormatFloat(m.MonoMassDelta, 'b', -1, 64))
	}
	return b.String()
}

// comparePeptides implements the canonical peptide ordering: sequence length,
// then lexical sequence, then modification count, then the first differing
// modification compared by location, average delta, monoisotopic delta.
func comparePeptides(a, b *PeptideVariant) int {
	if len(a.Sequence) != len(b.Sequence) {
		if len(a.Sequence) < len(b.Sequence) {
			return -1
		}
		return 1
	}
	if c := strings.Compare(a.Sequence, b.Sequence); c != 0 {
		return c
	}
	if len(a.Modifications) != len(b.Modifications) {
		if len(a.Modifications) < len(b.Modifications) {
			return -1
		}
		return 1
	}
	for i := range a.Modifications {
		if c := compareMods(a.Modifications[i], b.Modifications[i]); c != 0 {
			return c
		}
	}
	return 0
}

func compareMods(a, b LocalizedModification) int {
	if a.Location != b.Location {
		if a.Location < b.Location {
			return -1
		}
		return 1
	}
	if a.AvgMassDelta != b.AvgMassDelta {
		if a.AvgMassDelta < b.AvgMassDelta {
			return -1
		}
		return 1
	}
	if a.MonoMassDelta != b.MonoMassDelta {
		if a.MonoMassDelta < b.MonoMassDelta {
			return -1
		}
		return 1
	}
	return 0
}
