package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/PNNL-Comp-Mass-Spec/PeptideListToXML/pkg/assemble"
	"github.com/PNNL-Comp-Mass-Spec/PeptideListToXML/pkg/core"
	"github.com/PNNL-Comp-Mass-Spec/PeptideListToXML/pkg/normalize"
	"github.com/PNNL-Comp-Mass-Spec/PeptideListToXML/pkg/protocol"
	"github.com/PNNL-Comp-Mass-Spec/PeptideListToXML/pkg/reader/pepxml"
	"github.com/PNNL-Comp-Mass-Spec/PeptideListToXML/pkg/writer/mzid"
	"github.com/PNNL-Comp-Mass-Spec/PeptideListToXML/pkg/writer/sqlite"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export pepXML search results as mzIdentML or SQLite",
	Long: `Export normalizes the identifications of a pepXML file into a single
identification document and writes it in the chosen format.

Examples:
  # Export to mzIdentML next to the input
  peptidelisttoxml export --in results.pepXML --params search.cfg

  # Export to SQLite with an explicit database and decoy prefix
  peptidelisttoxml export --in results.pepXML --params search.cfg \
    --database uniprot.fasta --decoy-prefix XXX_ --format sqlite`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()
	log := logger.Sugar()

	if _, err := os.Stat(inputFile); os.IsNotExist(err) {
		return fmt.Errorf("input file does not exist: %s", inputFile)
	}

	format, err := assemble.ParseFormat(outputFormat)
	if err != nil {
		return err
	}

	lookup, err := loadParams(paramsFile)
	if err != nil {
		return fmt.Errorf("failed to load search parameters: %w", err)
	}
	log.Debugw("loaded search parameters", "file", paramsFile, "keys", len(lookup))

	prot, err := protocol.Build(lookup, cleavageRegexp)
	if err != nil {
		return fmt.Errorf("failed to build search protocol: %w", err)
	}

	spectra, err := pepxml.ReadFile(inputFile)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", inputFile, err)
	}
	log.Infow("read search results", "file", inputFile, "spectra", len(spectra))

	index := core.NewIndex(decoyPrefix)
	norm := normalize.New(index)
	norm.UseAverageMass = prot.PrecursorMassType == protocol.MassAverage
	results := norm.Normalize(spectra)

	source := spectraFile
	if source == "" {
		source = strings.TrimSuffix(inputFile, filepath.Ext(inputFile)) + ".mzML"
	}

	doc, err := assemble.Assemble(prot, index, norm.Evidence(), results, norm.Summary(), assemble.Options{
		SourcePath:   source,
		DatabasePath: databaseFile,
		Software: assemble.SoftwareInfo{
			Name:    engineName,
			Version: engineVersion,
			URI:     engineURI,
		},
		Format: format,
	})
	if err != nil {
		return err
	}
	log.Infow("assembled document",
		"peptides", len(doc.Peptides),
		"proteins", len(doc.Proteins),
		"evidence", len(doc.Evidence),
		"results", len(doc.Results),
		"targetComparisons", doc.Summary.TargetComparisons,
		"decoyComparisons", doc.Summary.DecoyComparisons)

	// Default output name follows the source spectra file, written next to
	// the input.
	outPath := outputFile
	if outPath == "" {
		outPath = filepath.Join(filepath.Dir(inputFile),
			assemble.OutputName(source, outputSuffix, format))
	}

	if err := writeDocument(doc, outPath, format); err != nil {
		return err
	}
	log.Infow("wrote document", "file", outPath, "format", format.String())
	return nil
}

func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.DisableStacktrace = true
	return cfg.Build()
}

// loadParams reads the flat key/value search parameter file. Viper
// lowercases keys; protocol lookups are case-insensitive so that is fine.
// Bare engine-configuration names (MyriMatch .cfg style) are stored under
// the "Config: " prefix the protocol builder expects.
func loadParams(path string) (protocol.Lookup, error) {
	v := viper.New()
	v.SetConfigFile(path)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml", ".toml", ".ini", ".properties":
	default:
		v.SetConfigType("properties")
	}
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	lookup := make(protocol.Lookup)
	for _, key := range v.AllKeys() {
		name := key
		if !strings.HasPrefix(name, "config:") && !strings.HasPrefix(name, "searchstats:") {
			name = "Config: " + name
		}
		lookup[name] = v.GetString(key)
	}
	return lookup, nil
}

func writeDocument(doc *assemble.Document, path string, format assemble.Format) error {
	switch format {
	case assemble.FormatSQLite:
		w, err := sqlite.NewWriter(path)
		if err != nil {
			return fmt.Errorf("failed to create output database: %w", err)
		}
		if err := assemble.Export(doc, w); err != nil {
			w.Close()
			return err
		}
		return w.Finalize()
	default:
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		return assemble.Export(doc, mzid.New(f))
	}
}
