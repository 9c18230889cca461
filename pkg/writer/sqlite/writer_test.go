package sqlite

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/PNNL-Comp-Mass-Spec/PeptideListToXML/pkg/assemble"
	"github.com/PNNL-Comp-Mass-Spec/PeptideListToXML/pkg/core"
)

func testDocument() *assemble.Document {
	target := &core.ProteinRecord{ID: "DBSeq_P00001", Accession: "P00001"}
	decoy := &core.ProteinRecord{ID: "DBSeq_rev_P00002", Accession: "rev_P00002", IsDecoy: true}
	pep := &core.PeptideVariant{
		ID:       "PEP_1",
		Sequence: "SAMPLEK",
		Modifications: []core.LocalizedModification{
			{AvgMassDelta: 15.994915, MonoMassDelta: 15.994915, Location: 3, Residue: 'M'},
		},
	}
	targetEv := &core.PeptideEvidence{
		ID: "DBSeq_P00001_PEP_1", Peptide: pep, Protein: target, Pre: 'K', Post: core.FlankNone,
	}
	decoyEv := &core.PeptideEvidence{
		ID: "DBSeq_rev_P00002_PEP_1", Peptide: pep, Protein: decoy, Pre: 'R', Post: 'A', IsDecoy: true,
	}
	item := &core.IdentificationItem{
		ID:             "SIR_1_SII_1",
		Rank:           1,
		ChargeState:    2,
		ExperimentalMZ: 412.234,
		CalculatedMZ:   412.229,
		MatchedPeaks:   11,
		UnmatchedPeaks: 4,
		Peptide:        pep,
		Evidence:       []*core.PeptideEvidence{targetEv, decoyEv},
		Scores: []core.Score{
			{Name: "MyriMatch:MVH", Accession: "MS:1001589", Value: 32.5},
			{Name: "custom score", Value: 0.25},
		},
		PassThreshold: true,
	}
	return &assemble.Document{
		ID:           "sample.mzML db.fasta MyriMatch 2.1",
		CreationDate: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		Software:     assemble.SoftwareInfo{Name: "MyriMatch", Version: "2.1"},
		SourcePath:   "sample.mzML",
		DatabasePath: "db.fasta",
		Proteins:     []*core.ProteinRecord{target, decoy},
		Peptides:     []*core.PeptideVariant{pep},
		Evidence:     []*core.PeptideEvidence{targetEv, decoyEv},
		Results: []*core.IdentificationResult{
			{ID: "SIR_1", SpectrumID: "scan=100", Items: []*core.IdentificationItem{item}},
		},
		Summary: core.SearchSummary{TargetComparisons: 900, DecoyComparisons: 100, SequencesSearched: 4000},
	}
}

func TestWriteDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.db")

	w, err := NewWriter(path)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	if err := w.WriteDocument(testDocument()); err != nil {
		t.Fatalf("WriteDocument() error = %v", err)
	}
	if err := w.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("reopening database: %v", err)
	}
	defer db.Close()

	counts := []struct {
		table string
		want  int
	}{
		{"ProteinTable", 2},
		{"PeptideTable", 1},
		{"ModificationTable", 1},
		{"EvidenceTable", 2},
		{"ResultTable", 1},
		{"ItemTable", 1},
		{"ItemEvidenceTable", 2},
		{"ScoreTable", 2},
		{"HeaderTable", 1},
	}
	for _, tc := range counts {
		var got int
		if err := db.QueryRow("SELECT COUNT(*) FROM " + tc.table).Scan(&got); err != nil {
			t.Fatalf("counting %s: %v", tc.table, err)
		}
		if got != tc.want {
			t.Errorf("%s row count = %d, want %d", tc.table, got, tc.want)
		}
	}

	var accession string
	var isDecoy bool
	err = db.QueryRow("SELECT Accession, IsDecoy FROM ProteinTable WHERE ProteinId = ?",
		"DBSeq_rev_P00002").Scan(&accession, &isDecoy)
	if err != nil {
		t.Fatalf("querying decoy protein: %v", err)
	}
	if accession != "rev_P00002" || !isDecoy {
		t.Errorf("decoy protein = (%s, %t), want (rev_P00002, true)", accession, isDecoy)
	}

	var sequences, targets, decoys int
	err = db.QueryRow("SELECT SequencesSearched, TargetComparisons, DecoyComparisons FROM HeaderTable").
		Scan(&sequences, &targets, &decoys)
	if err != nil {
		t.Fatalf("querying header: %v", err)
	}
	if sequences != 4000 || targets != 900 || decoys != 100 {
		t.Errorf("header summary = (%d, %d, %d), want (4000, 900, 100)", sequences, targets, decoys)
	}
}
