package normalize

import (
	"fmt"
	"sort"

	"github.com/PNNL-Comp-Mass-Spec/PeptideListToXML/pkg/core"
	"github.com/PNNL-Comp-Mass-Spec/PeptideListToXML/pkg/cv"
)

// Normalizer turns raw spectrum results into identification results while
// populating the identity index and the peptide evidence set. It is a
// single-writer, single-pass component: insertion order determines the
// synthetic ids in the output.
type Normalizer struct {
	// UseAverageMass selects average instead of monoisotopic masses for the
	// calculated m/z, matching a search configured for average precursor
	// masses.
	UseAverageMass bool

	index       *core.Index
	evidence    map[*core.PeptideVariant][]*core.PeptideEvidence
	allEvidence []*core.PeptideEvidence
	summary     core.SearchSummary
}

// New creates a normalizer over the given identity index.
func New(index *core.Index) *Normalizer {
	return &Normalizer{
		index:    index,
		evidence: make(map[*core.PeptideVariant][]*core.PeptideEvidence),
	}
}

// Normalize consumes the ordered raw result containers and returns the
// identification results. Spectra with no results across all charge states
// are dropped entirely, so every returned result has at least one item.
func (n *Normalizer) Normalize(spectra []*core.SpectrumMatches) []*core.IdentificationResult {
	var results []*core.IdentificationResult

	for _, s := range spectra {
		if s.TotalResults() == 0 {
			continue
		}

		sir := &core.IdentificationResult{
			ID:         fmt.Sprintf("SIR_%d", len(results)+1),
			SpectrumID: s.NativeID,
		}
		if sir.SpectrumID == "" {
			sir.SpectrumID = s.SpectrumID
		}

		itemIndex := 0
		for _, resultSet := range s.ResultsByCharge {
			if len(resultSet) == 0 {
				continue
			}
			for _, result := range byRank(resultSet) {
				itemIndex++
				sir.Items = append(sir.Items, n.buildItem(sir.ID, itemIndex, result))
			}
		}

		results = append(results, sir)
	}

	return results
}

// byRank orders a charge state's results by ascending rank while keeping
// tied results in their given order.
func byRank(results []core.SearchResult) []core.SearchResult {
	ranks := make(map[int][]core.SearchResult)
	var order []int
	for _, r := range results {
		if _, seen := ranks[r.Rank]; !seen {
			order = append(order, r.Rank)
		}
		ranks[r.Rank] = append(ranks[r.Rank], r)
	}
	sort.Ints(order)

	ordered := make([]core.SearchResult, 0, len(results))
	for _, rank := range order {
		ordered = append(ordered, ranks[rank]...)
	}
	return ordered
}

func (n *Normalizer) buildItem(resultID string, itemIndex int, result core.SearchResult) *core.IdentificationItem {
	mods := LocalizeModifications(result.Modifications, result.Sequence)
	peptide, isNew := n.index.InternPeptide(result.Sequence, mods)
	if isNew {
		n.addEvidence(peptide, result)
	}

	calculated := core.MonoisotopicMass(result.Sequence, mods)
	if n.UseAverageMass {
		calculated = core.AverageMass(result.Sequence, mods)
	}

	item := &core.IdentificationItem{
		ID:             fmt.Sprintf("%s_SII_%d", resultID, itemIndex),
		Rank:           result.Rank,
		ChargeState:    result.Charge,
		ExperimentalMZ: core.MZ(result.PrecursorMass, result.Charge),
		CalculatedMZ:   core.MZ(calculated, result.Charge),
		MatchedPeaks:   result.FragmentsMatched,
		UnmatchedPeaks: result.FragmentsUnmatched,
		Peptide:        peptide,
		Evidence:       n.evidence[peptide],
		PassThreshold:  true,
	}

	for _, raw := range result.Scores {
		item.Scores = append(item.Scores, core.Score{
			Name:      raw.Name,
			Accession: cv.TranslateScore(raw.Name).Accession,
			Value:     raw.Value,
		})
	}

	n.countComparison(item)
	return item
}

// addEvidence interns the result's proteins and creates exactly one evidence
// link per (peptide, protein) pair, cached against the peptide so later
// results matching the same variant reuse the list. A hit may repeat an
// accession (pepXML can list the primary protein again as an alternative);
// repeats are skipped.
func (n *Normalizer) addEvidence(peptide *core.PeptideVariant, result core.SearchResult) {
	seen := make(map[*core.ProteinRecord]bool, len(result.Proteins))
	for _, accession := range result.Proteins {
		protein, _ := n.index.InternProtein(accession)
		if seen[protein] {
			continue
		}
		seen[protein] = true

		pe := &core.PeptideEvidence{
			ID:      protein.ID + "_" + peptide.ID,
			Peptide: peptide,
			Protein: protein,
			Pre:     lastFlank(result.PrevAA),
			Post:    firstFlank(result.NextAA),
			IsDecoy: protein.IsDecoy,
		}

		n.evidence[peptide] = append(n.evidence[peptide], pe)
		n.allEvidence = append(n.allEvidence, pe)
	}
}

// countComparison tallies the item into the run summary: a match whose
// evidence is entirely decoy counts as a decoy comparison, anything else as
// a target comparison.
func (n *Normalizer) countComparison(item *core.IdentificationItem) {
	decoy := len(item.Evidence) > 0
	for _, pe := range item.Evidence {
		if !pe.IsDecoy {
			decoy = false
			break
		}
	}
	if decoy {
		n.summary.DecoyComparisons++
	} else {
		n.summary.TargetComparisons++
	}
}

func lastFlank(context string) byte {
	if context == "" {
		return core.FlankNone
	}
	return context[len(context)-1]
}

func firstFlank(context string) byte {
	if context == "" {
		return core.FlankNone
	}
	return context[0]
}

// Evidence returns all peptide evidence created so far, in insertion order.
func (n *Normalizer) Evidence() []*core.PeptideEvidence {
	return n.allEvidence
}

// Summary returns the run statistics accumulated across all normalized
// spectra.
func (n *Normalizer) Summary() core.SearchSummary {
	return n.summary
}
