// Package assemble stitches protocol metadata, canonical entities and
// per-spectrum identification results into one document and hands it to a
// document writer.
package assemble

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/PNNL-Comp-Mass-Spec/PeptideListToXML/pkg/core"
	"github.com/PNNL-Comp-Mass-Spec/PeptideListToXML/pkg/cv"
	"github.com/PNNL-Comp-Mass-Spec/PeptideListToXML/pkg/protocol"
)

// Format selects the output interchange format.
type Format int

const (
	FormatMzIdentML Format = iota
	FormatSQLite
)

// Extension returns the filename extension for the format.
func (f Format) Extension() string {
	if f == FormatSQLite {
		return ".db"
	}
	return ".mzid"
}

func (f Format) String() string {
	if f == FormatSQLite {
		return "sqlite"
	}
	return "mzid"
}

// ParseFormat parses a format name from the command line.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "mzid", "mzidentml":
		return FormatMzIdentML, nil
	case "sqlite", "db":
		return FormatSQLite, nil
	default:
		return 0, fmt.Errorf("unsupported output format %q", name)
	}
}

// SoftwareInfo identifies the search engine that produced the results.
type SoftwareInfo struct {
	Name    string
	Version string
	URI     string
}

// FormatResolutionError is returned when the source spectra file format
// cannot be determined and the chosen output format requires it.
type FormatResolutionError struct {
	Path string
}

func (e *FormatResolutionError) Error() string {
	return fmt.Sprintf("unable to determine source file format of %q", e.Path)
}

// Document is the complete identification document graph: protocol metadata,
// the canonical entity sets, the evidence links, the per-spectrum results and
// the run-level summary.
type Document struct {
	ID           string
	CreationDate time.Time

	Software     SoftwareInfo
	SoftwareTerm cv.Term // zero when the engine name is unrecognized

	SourcePath     string
	SourceFormat   cv.Term
	NativeIDFormat cv.Term
	DatabasePath   string

	Protocol *protocol.Protocol

	Proteins []*core.ProteinRecord
	Peptides []*core.PeptideVariant
	Evidence []*core.PeptideEvidence
	Results  []*core.IdentificationResult
	Summary  core.SearchSummary
}

// DocumentWriter serializes an assembled document. Writer failures propagate
// to the caller verbatim.
type DocumentWriter interface {
	WriteDocument(doc *Document) error
}

// Options carries the per-export inputs that are not result data.
type Options struct {
	SourcePath   string // source spectra file the search ran on
	DatabasePath string // FASTA database the search ran against
	Software     SoftwareInfo
	Format       Format
}

// Assemble combines the protocol, the final index contents (proteins then
// peptides in insertion order), the accumulated evidence and the result list
// into one document. It fails with a FormatResolutionError when the source
// file format is unknown and the mzIdentML output requires it.
func Assemble(p *protocol.Protocol, index *core.Index, evidence []*core.PeptideEvidence,
	results []*core.IdentificationResult, summary core.SearchSummary, opts Options) (*Document, error) {

	sourceFormat := cv.IdentifyFileFormat(opts.SourcePath)
	if sourceFormat.IsZero() && opts.Format == FormatMzIdentML {
		return nil, &FormatResolutionError{Path: opts.SourcePath}
	}

	summary.SequencesSearched = p.SequencesSearched

	doc := &Document{
		ID: strings.Join([]string{
			opts.SourcePath, opts.DatabasePath, opts.Software.Name, opts.Software.Version,
		}, " "),
		CreationDate:   time.Now(),
		Software:       opts.Software,
		SoftwareTerm:   cv.TranslateSoftwareName(opts.Software.Name),
		SourcePath:     opts.SourcePath,
		SourceFormat:   sourceFormat,
		NativeIDFormat: cv.DefaultNativeIDFormat(opts.SourcePath),
		DatabasePath:   opts.DatabasePath,
		Protocol:       p,
		Proteins:       index.Proteins(),
		Peptides:       index.Peptides(),
		Evidence:       evidence,
		Results:        results,
		Summary:        summary,
	}
	return doc, nil
}

// OutputName computes the destination filename: the source basename with its
// extension replaced by the caller suffix and the format extension.
func OutputName(sourcePath, suffix string, f Format) string {
	base := filepath.Base(sourcePath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base + suffix + f.Extension()
}

// Export hands the document to the writer.
func Export(doc *Document, w DocumentWriter) error {
	return w.WriteDocument(doc)
}
