package normalize

import (
	"testing"

	"github.com/PNNL-Comp-Mass-Spec/PeptideListToXML/pkg/core"
)

func simpleResult(rank, charge int, sequence string, proteins ...string) core.SearchResult {
	return core.SearchResult{
		Rank:          rank,
		Charge:        charge,
		PrecursorMass: 799.359964,
		Sequence:      sequence,
		Proteins:      proteins,
		PrevAA:        "K",
		NextAA:        "G",
	}
}

func TestNormalizeSharedPeptideAcrossSpectra(t *testing.T) {
	// Two spectra matching the same unmodified sequence at different charge
	// states must share one peptide, one protein and one evidence list.
	spectra := []*core.SpectrumMatches{
		{
			SpectrumID: "scan=100",
			ResultsByCharge: [][]core.SearchResult{
				{simpleResult(1, 2, "PEPTIDE", "P00001")},
			},
		},
		{
			SpectrumID: "scan=200",
			ResultsByCharge: [][]core.SearchResult{
				{simpleResult(1, 3, "PEPTIDE", "P00001")},
			},
		},
	}

	idx := core.NewIndex("DECOY_")
	n := New(idx)
	results := n.Normalize(spectra)

	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if len(idx.Peptides()) != 1 {
		t.Errorf("peptides = %d, want 1", len(idx.Peptides()))
	}
	if len(idx.Proteins()) != 1 {
		t.Errorf("proteins = %d, want 1", len(idx.Proteins()))
	}
	if len(n.Evidence()) != 1 {
		t.Errorf("evidence = %d, want 1", len(n.Evidence()))
	}

	first := results[0].Items[0]
	second := results[1].Items[0]
	if first.Peptide != second.Peptide {
		t.Error("items should reference the same canonical peptide")
	}
	if len(first.Evidence) != 1 || len(second.Evidence) != 1 || first.Evidence[0] != second.Evidence[0] {
		t.Error("items should share the same evidence")
	}
	if first.ChargeState != 2 || second.ChargeState != 3 {
		t.Errorf("charge states = %d/%d, want 2/3", first.ChargeState, second.ChargeState)
	}
	if first.ExperimentalMZ == second.ExperimentalMZ {
		t.Error("different charge states should give different experimental m/z")
	}
}

func TestNormalizeSkipsEmptySpectra(t *testing.T) {
	spectra := []*core.SpectrumMatches{
		{SpectrumID: "scan=1"},
		{SpectrumID: "scan=2", ResultsByCharge: [][]core.SearchResult{{}, {}}},
		{
			SpectrumID: "scan=3",
			ResultsByCharge: [][]core.SearchResult{
				{},
				{simpleResult(1, 2, "PEPTIDE", "P00001")},
			},
		},
	}

	n := New(core.NewIndex(""))
	results := n.Normalize(spectra)

	if len(results) != 1 {
		t.Fatalf("results = %d, want 1 (empty spectra dropped)", len(results))
	}
	for _, r := range results {
		if len(r.Items) == 0 {
			t.Errorf("result %s has no items", r.ID)
		}
	}
	if results[0].SpectrumID != "scan=3" {
		t.Errorf("surviving spectrum = %q, want scan=3", results[0].SpectrumID)
	}
}

func TestNormalizeRankAndTieOrdering(t *testing.T) {
	// Ranks arrive out of order with a tie at rank 1; output must be rank
	// ascending with ties in given order.
	resultSet := []core.SearchResult{
		simpleResult(2, 2, "SAMPLERA", "P00002"),
		simpleResult(1, 2, "PEPTIDE", "P00001"),
		simpleResult(1, 2, "EDITPEPK", "P00003"),
	}

	n := New(core.NewIndex(""))
	results := n.Normalize([]*core.SpectrumMatches{
		{SpectrumID: "scan=5", ResultsByCharge: [][]core.SearchResult{resultSet}},
	})

	items := results[0].Items
	if len(items) != 3 {
		t.Fatalf("items = %d, want 3", len(items))
	}

	wantRanks := []int{1, 1, 2}
	wantSeqs := []string{"PEPTIDE", "EDITPEPK", "SAMPLERA"}
	for i, item := range items {
		if item.Rank != wantRanks[i] {
			t.Errorf("item %d rank = %d, want %d", i, item.Rank, wantRanks[i])
		}
		if item.Peptide.Sequence != wantSeqs[i] {
			t.Errorf("item %d sequence = %q, want %q", i, item.Peptide.Sequence, wantSeqs[i])
		}
	}
	if items[0].ID != "SIR_1_SII_1" || items[2].ID != "SIR_1_SII_3" {
		t.Errorf("item ids = %q..%q", items[0].ID, items[2].ID)
	}
}

func TestNormalizeModifiedVariantDistinct(t *testing.T) {
	modified := simpleResult(1, 2, "PEPTIDE", "P00001")
	modified.Modifications = map[core.ModPosition][]core.MassDelta{
		core.Internal(3): {{Mono: 15.994915, Avg: 15.9994}},
	}

	spectra := []*core.SpectrumMatches{
		{
			SpectrumID: "scan=1",
			ResultsByCharge: [][]core.SearchResult{
				{simpleResult(1, 2, "PEPTIDE", "P00001")},
			},
		},
		{
			SpectrumID:      "scan=2",
			ResultsByCharge: [][]core.SearchResult{{modified}},
		},
	}

	idx := core.NewIndex("")
	n := New(idx)
	results := n.Normalize(spectra)

	if len(idx.Peptides()) != 2 {
		t.Fatalf("peptides = %d, want 2 (modified variant is distinct)", len(idx.Peptides()))
	}
	if len(idx.Proteins()) != 1 {
		t.Errorf("proteins = %d, want 1", len(idx.Proteins()))
	}
	// One evidence per (peptide, protein) pair
	if len(n.Evidence()) != 2 {
		t.Errorf("evidence = %d, want 2", len(n.Evidence()))
	}

	plain := results[0].Items[0]
	withMod := results[1].Items[0]
	if plain.Peptide == withMod.Peptide {
		t.Error("modified and unmodified instances must be distinct canonical peptides")
	}
	if withMod.CalculatedMZ <= plain.CalculatedMZ {
		t.Error("modification mass should raise the calculated m/z")
	}
}

func TestNormalizeEvidenceFlanksAndDecoy(t *testing.T) {
	result := simpleResult(1, 2, "PEPTIDE", "DECOY_P00002", "P00003")
	result.PrevAA = ""
	result.NextAA = "GLK"

	idx := core.NewIndex("DECOY_")
	n := New(idx)
	n.Normalize([]*core.SpectrumMatches{
		{SpectrumID: "scan=1", ResultsByCharge: [][]core.SearchResult{{result}}},
	})

	evidence := n.Evidence()
	if len(evidence) != 2 {
		t.Fatalf("evidence = %d, want 2", len(evidence))
	}

	decoy := evidence[0]
	if decoy.Protein.Accession != "DECOY_P00002" || !decoy.IsDecoy {
		t.Errorf("first evidence = %q decoy=%v, want decoy DECOY_P00002", decoy.Protein.Accession, decoy.IsDecoy)
	}
	target := evidence[1]
	if target.IsDecoy {
		t.Error("P00003 evidence should not be decoy")
	}

	if decoy.Pre != core.FlankNone {
		t.Errorf("missing preceding context should use %q, got %q", core.FlankNone, decoy.Pre)
	}
	if decoy.Post != 'G' {
		t.Errorf("post flank = %q, want first following residue G", decoy.Post)
	}
	if decoy.ID != "DBSeq_DECOY_P00002_PEP_1" {
		t.Errorf("evidence id = %q", decoy.ID)
	}
}

func TestNormalizeAverageMassSelection(t *testing.T) {
	spectra := func() []*core.SpectrumMatches {
		return []*core.SpectrumMatches{
			{
				SpectrumID: "scan=1",
				ResultsByCharge: [][]core.SearchResult{
					{simpleResult(1, 2, "PEPTIDE", "P00001")},
				},
			},
		}
	}

	mono := New(core.NewIndex(""))
	monoItem := mono.Normalize(spectra())[0].Items[0]

	avg := New(core.NewIndex(""))
	avg.UseAverageMass = true
	avgItem := avg.Normalize(spectra())[0].Items[0]

	wantMono := core.MZ(core.MonoisotopicMass("PEPTIDE", nil), 2)
	wantAvg := core.MZ(core.AverageMass("PEPTIDE", nil), 2)
	if monoItem.CalculatedMZ != wantMono {
		t.Errorf("monoisotopic calculated m/z = %f, want %f", monoItem.CalculatedMZ, wantMono)
	}
	if avgItem.CalculatedMZ != wantAvg {
		t.Errorf("average calculated m/z = %f, want %f", avgItem.CalculatedMZ, wantAvg)
	}
	if avgItem.CalculatedMZ <= monoItem.CalculatedMZ {
		t.Error("average masses should give a larger calculated m/z")
	}
}

func TestNormalizeRepeatedAccessionSingleEvidence(t *testing.T) {
	// pepXML can list the primary protein again as an alternative; the
	// (peptide, protein) pair must still yield exactly one evidence link.
	result := simpleResult(1, 2, "PEPTIDE", "P00001", "P00001", "P00002")

	idx := core.NewIndex("")
	n := New(idx)
	results := n.Normalize([]*core.SpectrumMatches{
		{SpectrumID: "scan=1", ResultsByCharge: [][]core.SearchResult{{result}}},
	})

	evidence := n.Evidence()
	if len(evidence) != 2 {
		t.Fatalf("evidence = %d, want 2 (repeated accession deduplicated)", len(evidence))
	}
	ids := make(map[string]bool)
	for _, pe := range evidence {
		if ids[pe.ID] {
			t.Errorf("duplicate evidence id %q", pe.ID)
		}
		ids[pe.ID] = true
	}
	if len(idx.Proteins()) != 2 {
		t.Errorf("proteins = %d, want 2", len(idx.Proteins()))
	}
	if got := results[0].Items[0].Evidence; len(got) != 2 {
		t.Errorf("item evidence = %d, want 2", len(got))
	}
}

func TestNormalizeNoOrphanReferences(t *testing.T) {
	spectra := []*core.SpectrumMatches{
		{
			SpectrumID: "scan=1",
			ResultsByCharge: [][]core.SearchResult{
				{
					simpleResult(1, 2, "PEPTIDE", "P00001", "DECOY_P00001"),
					simpleResult(2, 2, "SAMPLER", "P00002"),
				},
			},
		},
	}

	idx := core.NewIndex("DECOY_")
	n := New(idx)
	n.Normalize(spectra)

	peptides := make(map[*core.PeptideVariant]bool)
	for _, p := range idx.Peptides() {
		peptides[p] = true
	}
	proteins := make(map[*core.ProteinRecord]bool)
	for _, p := range idx.Proteins() {
		proteins[p] = true
	}

	for _, pe := range n.Evidence() {
		if !peptides[pe.Peptide] {
			t.Errorf("evidence %s references a peptide outside the canonical set", pe.ID)
		}
		if !proteins[pe.Protein] {
			t.Errorf("evidence %s references a protein outside the canonical set", pe.ID)
		}
	}
}

func TestNormalizeScoresAndSummary(t *testing.T) {
	target := simpleResult(1, 2, "PEPTIDE", "P00001")
	target.Scores = []core.RawScore{
		{Name: "xcorr", Value: 3.25},
		{Name: "homebrew", Value: 0.91},
	}
	decoy := simpleResult(1, 2, "SAMPLER", "DECOY_P00009")

	idx := core.NewIndex("DECOY_")
	n := New(idx)
	results := n.Normalize([]*core.SpectrumMatches{
		{SpectrumID: "scan=1", ResultsByCharge: [][]core.SearchResult{{target}}},
		{SpectrumID: "scan=2", ResultsByCharge: [][]core.SearchResult{{decoy}}},
	})

	scores := results[0].Items[0].Scores
	if len(scores) != 2 {
		t.Fatalf("scores = %d, want 2", len(scores))
	}
	if scores[0].Accession != "MS:1001155" {
		t.Errorf("xcorr accession = %q, want MS:1001155", scores[0].Accession)
	}
	if scores[1].Accession != "" || scores[1].Name != "homebrew" {
		t.Errorf("unrecognized score should stay free-form, got %+v", scores[1])
	}

	summary := n.Summary()
	if summary.TargetComparisons != 1 || summary.DecoyComparisons != 1 {
		t.Errorf("summary = %+v, want 1 target and 1 decoy comparison", summary)
	}

	if !results[0].Items[0].PassThreshold {
		t.Error("items always pass threshold")
	}
}
