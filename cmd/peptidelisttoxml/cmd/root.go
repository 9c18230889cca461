// Package cmd provides CLI command implementations
package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// Flags for export command
	inputFile      string
	paramsFile     string
	spectraFile    string
	databaseFile   string
	outputFile     string
	outputFormat   string
	outputSuffix   string
	decoyPrefix    string
	cleavageRegexp string
	engineName     string
	engineVersion  string
	engineURI      string
	verbose        bool
)

var rootCmd = &cobra.Command{
	Use:   "peptidelisttoxml",
	Short: "PeptideListToXML - Peptide search result export tool",
	Long: `PeptideListToXML normalizes peptide search results (pepXML) into an
mzIdentML-style identification document and exports it.

Deduplicates peptides, proteins, and peptide evidence across spectra,
translates engine scores and search parameters to controlled-vocabulary
terms, and writes mzIdentML or SQLite output.`,
	Version: "1.0.0",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&inputFile, "in", "i", "", "Input pepXML file path (required)")
	exportCmd.Flags().StringVarP(&paramsFile, "params", "p", "", "Search parameter file (required)")
	exportCmd.Flags().StringVar(&spectraFile, "spectra", "", "Source spectra file the search ran on (default: input name with .mzML)")
	exportCmd.Flags().StringVarP(&databaseFile, "database", "d", "", "FASTA database the search ran against")
	exportCmd.Flags().StringVarP(&outputFile, "out", "o", "", "Output file (default: input name with suffix and format extension)")
	exportCmd.Flags().StringVarP(&outputFormat, "format", "f", "mzid", "Output format: mzid or sqlite")
	exportCmd.Flags().StringVar(&outputSuffix, "suffix", "", "Suffix appended to the output base name")
	exportCmd.Flags().StringVar(&decoyPrefix, "decoy-prefix", "rev_", "Accession prefix marking decoy proteins (case-sensitive)")
	exportCmd.Flags().StringVar(&cleavageRegexp, "cleavage-regexp", "(?<=[KR])(?!P)", "Cleavage site regular expression of the search")
	exportCmd.Flags().StringVar(&engineName, "engine-name", "MyriMatch", "Search engine name")
	exportCmd.Flags().StringVar(&engineVersion, "engine-version", "", "Search engine version")
	exportCmd.Flags().StringVar(&engineURI, "engine-uri", "", "Search engine URI")
	exportCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	exportCmd.MarkFlagRequired("in")
	exportCmd.MarkFlagRequired("params")
}
