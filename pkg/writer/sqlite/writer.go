// Package sqlite writes an assembled identification document to a SQLite
// database file, one table per entity set of the document graph.
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/PNNL-Comp-Mass-Spec/PeptideListToXML/pkg/assemble"
	"github.com/PNNL-Comp-Mass-Spec/PeptideListToXML/pkg/core"
	_ "github.com/mattn/go-sqlite3"
)

// Date format for HeaderTable (ISO 8601)
const headerDateFormat = "2006-01-02"

// Writer handles writing identification documents to SQLite database files
type Writer struct {
	db         *sql.DB
	outputPath string

	proteinStmt      *sql.Stmt
	peptideStmt      *sql.Stmt
	modificationStmt *sql.Stmt
	evidenceStmt     *sql.Stmt
	resultStmt       *sql.Stmt
	itemStmt         *sql.Stmt
	itemEvidenceStmt *sql.Stmt
	scoreStmt        *sql.Stmt
}

// NewWriter creates a new SQLite writer
func NewWriter(outputPath string) (*Writer, error) {
	db, err := sql.Open("sqlite3", outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	w := &Writer{
		db:         db,
		outputPath: outputPath,
	}

	if err := w.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	if err := w.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}

	return w, nil
}

// createTables creates the required database schema
func (w *Writer) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS ProteinTable (
		ProteinId TEXT PRIMARY KEY,
		Accession TEXT NOT NULL,
		IsDecoy BOOL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS PeptideTable (
		PeptideId TEXT PRIMARY KEY,
		Sequence TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS ModificationTable (
		PeptideId TEXT REFERENCES PeptideTable(PeptideId),
		Location INTEGER NOT NULL,
		Residue TEXT,
		AvgMassDelta DOUBLE NOT NULL,
		MonoMassDelta DOUBLE NOT NULL
	);

	CREATE TABLE IF NOT EXISTS EvidenceTable (
		EvidenceId TEXT PRIMARY KEY,
		PeptideId TEXT REFERENCES PeptideTable(PeptideId),
		ProteinId TEXT REFERENCES ProteinTable(ProteinId),
		Pre TEXT,
		Post TEXT,
		IsDecoy BOOL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS ResultTable (
		ResultId TEXT PRIMARY KEY,
		SpectrumId TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS ItemTable (
		ItemId TEXT PRIMARY KEY,
		ResultId TEXT REFERENCES ResultTable(ResultId),
		PeptideId TEXT REFERENCES PeptideTable(PeptideId),
		Rank INTEGER NOT NULL,
		ChargeState INTEGER NOT NULL,
		ExperimentalMZ DOUBLE NOT NULL,
		CalculatedMZ DOUBLE NOT NULL,
		MatchedPeaks INTEGER,
		UnmatchedPeaks INTEGER,
		PassThreshold BOOL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS ItemEvidenceTable (
		ItemId TEXT REFERENCES ItemTable(ItemId),
		EvidenceId TEXT REFERENCES EvidenceTable(EvidenceId)
	);

	CREATE TABLE IF NOT EXISTS ScoreTable (
		ItemId TEXT REFERENCES ItemTable(ItemId),
		Name TEXT NOT NULL,
		Accession TEXT,
		Value DOUBLE NOT NULL
	);

	CREATE TABLE IF NOT EXISTS HeaderTable (
		DocumentId TEXT,
		CreationDate TEXT,
		SoftwareName TEXT,
		SoftwareVersion TEXT,
		SourcePath TEXT,
		DatabasePath TEXT,
		SequencesSearched INTEGER,
		TargetComparisons INTEGER,
		DecoyComparisons INTEGER
	);
	`

	_, err := w.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	return nil
}

// prepareStatements prepares SQL statements for batch insertion
func (w *Writer) prepareStatements() error {
	stmts := []struct {
		dst  **sql.Stmt
		name string
		sql  string
	}{
		{&w.proteinStmt, "protein",
			`INSERT INTO ProteinTable (ProteinId, Accession, IsDecoy) VALUES (?, ?, ?)`},
		{&w.peptideStmt, "peptide",
			`INSERT INTO PeptideTable (PeptideId, Sequence) VALUES (?, ?)`},
		{&w.modificationStmt, "modification",
			`INSERT INTO ModificationTable (PeptideId, Location, Residue, AvgMassDelta, MonoMassDelta)
			 VALUES (?, ?, ?, ?, ?)`},
		{&w.evidenceStmt, "evidence",
			`INSERT INTO EvidenceTable (EvidenceId, PeptideId, ProteinId, Pre, Post, IsDecoy)
			 VALUES (?, ?, ?, ?, ?, ?)`},
		{&w.resultStmt, "result",
			`INSERT INTO ResultTable (ResultId, SpectrumId) VALUES (?, ?)`},
		{&w.itemStmt, "item",
			`INSERT INTO ItemTable (ItemId, ResultId, PeptideId, Rank, ChargeState,
				ExperimentalMZ, CalculatedMZ, MatchedPeaks, UnmatchedPeaks, PassThreshold)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`},
		{&w.itemEvidenceStmt, "item evidence",
			`INSERT INTO ItemEvidenceTable (ItemId, EvidenceId) VALUES (?, ?)`},
		{&w.scoreStmt, "score",
			`INSERT INTO ScoreTable (ItemId, Name, Accession, Value) VALUES (?, ?, ?, ?)`},
	}

	for _, s := range stmts {
		stmt, err := w.db.Prepare(s.sql)
		if err != nil {
			return fmt.Errorf("failed to prepare %s statement: %w", s.name, err)
		}
		*s.dst = stmt
	}

	return nil
}

// WriteDocument writes the complete document graph: proteins and peptides
// first, then the evidence links, then the per-spectrum results, and finally
// the header row. Implements assemble.DocumentWriter.
func (w *Writer) WriteDocument(doc *assemble.Document) error {
	for _, prot := range doc.Proteins {
		if _, err := w.proteinStmt.Exec(prot.ID, prot.Accession, prot.IsDecoy); err != nil {
			return fmt.Errorf("failed to insert protein %s: %w", prot.Accession, err)
		}
	}

	for _, pep := range doc.Peptides {
		if err := w.writePeptide(pep); err != nil {
			return err
		}
	}

	for _, ev := range doc.Evidence {
		_, err := w.evidenceStmt.Exec(ev.ID, ev.Peptide.ID, ev.Protein.ID,
			string(ev.Pre), string(ev.Post), ev.IsDecoy)
		if err != nil {
			return fmt.Errorf("failed to insert evidence %s: %w", ev.ID, err)
		}
	}

	for _, result := range doc.Results {
		if err := w.writeResult(result); err != nil {
			return err
		}
	}

	return w.writeHeader(doc)
}

func (w *Writer) writePeptide(pep *core.PeptideVariant) error {
	if _, err := w.peptideStmt.Exec(pep.ID, pep.Sequence); err != nil {
		return fmt.Errorf("failed to insert peptide %s: %w", pep.ID, err)
	}

	for _, mod := range pep.Modifications {
		var residue interface{} = nil
		if mod.Residue != 0 {
			residue = string(mod.Residue)
		}
		_, err := w.modificationStmt.Exec(pep.ID, mod.Location, residue,
			mod.AvgMassDelta, mod.MonoMassDelta)
		if err != nil {
			return fmt.Errorf("failed to insert modification for %s: %w", pep.ID, err)
		}
	}

	return nil
}

func (w *Writer) writeResult(result *core.IdentificationResult) error {
	if _, err := w.resultStmt.Exec(result.ID, result.SpectrumID); err != nil {
		return fmt.Errorf("failed to insert result %s: %w", result.ID, err)
	}

	for _, item := range result.Items {
		_, err := w.itemStmt.Exec(item.ID, result.ID, item.Peptide.ID,
			item.Rank, item.ChargeState, item.ExperimentalMZ, item.CalculatedMZ,
			item.MatchedPeaks, item.UnmatchedPeaks, item.PassThreshold)
		if err != nil {
			return fmt.Errorf("failed to insert item %s: %w", item.ID, err)
		}

		for _, ev := range item.Evidence {
			if _, err := w.itemEvidenceStmt.Exec(item.ID, ev.ID); err != nil {
				return fmt.Errorf("failed to link item %s to evidence %s: %w", item.ID, ev.ID, err)
			}
		}

		for _, score := range item.Scores {
			var accession interface{} = nil
			if score.Accession != "" {
				accession = score.Accession
			}
			if _, err := w.scoreStmt.Exec(item.ID, score.Name, accession, score.Value); err != nil {
				return fmt.Errorf("failed to insert score %q for %s: %w", score.Name, item.ID, err)
			}
		}
	}

	return nil
}

func (w *Writer) writeHeader(doc *assemble.Document) error {
	_, err := w.db.Exec(`
		INSERT INTO HeaderTable (DocumentId, CreationDate, SoftwareName, SoftwareVersion,
			SourcePath, DatabasePath, SequencesSearched, TargetComparisons, DecoyComparisons)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, doc.ID, doc.CreationDate.Format(headerDateFormat), doc.Software.Name, doc.Software.Version,
		doc.SourcePath, doc.DatabasePath, doc.Summary.SequencesSearched,
		doc.Summary.TargetComparisons, doc.Summary.DecoyComparisons)
	if err != nil {
		return fmt.Errorf("failed to insert header: %w", err)
	}

	return nil
}

// Finalize closes the prepared statements and the database
func (w *Writer) Finalize() error {
	for _, stmt := range []*sql.Stmt{
		w.proteinStmt, w.peptideStmt, w.modificationStmt, w.evidenceStmt,
		w.resultStmt, w.itemStmt, w.itemEvidenceStmt, w.scoreStmt,
	} {
		if stmt != nil {
			stmt.Close()
		}
	}

	if err := w.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}

// Close closes the database connection (alias for Finalize)
func (w *Writer) Close() error {
	return w.Finalize()
}
