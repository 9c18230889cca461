// Package cv provides controlled-vocabulary term translation for search
// software names, cleavage agents, search scores, and spectral file formats.
// A failed lookup returns the zero Term; callers keep the raw name or pattern.
package cv

import (
	"path/filepath"
	"strings"
)

// Term is one controlled-vocabulary entry from the PSI-MS or Unit ontologies.
// The zero value means "unknown".
type Term struct {
	Accession string
	Name      string
}

// IsZero reports whether the term is the unknown sentinel.
func (t Term) IsZero() bool {
	return t.Accession == ""
}

// Terms referenced directly by the protocol and document writers.
var (
	TermMSMSSearch          = Term{"MS:1001083", "ms-ms search"}
	TermNoThreshold         = Term{"MS:1001494", "no threshold"}
	TermParentMassTypeMono  = Term{"MS:1001211", "parent mass type mono"}
	TermParentMassTypeAvg   = Term{"MS:1001212", "parent mass type average"}
	TermFragmentMassMono    = Term{"MS:1001256", "fragment mass type mono"}
	TermFragmentMassAvg     = Term{"MS:1001255", "fragment mass type average"}
	TermTolMinusValue       = Term{"MS:1001413", "search tolerance minus value"}
	TermTolPlusValue        = Term{"MS:1001412", "search tolerance plus value"}
	TermUnitPPM             = Term{"UO:0000169", "parts per million"}
	TermUnitDalton          = Term{"UO:0000221", "dalton"}
	TermModSpecNTerm        = Term{"MS:1001189", "modification specificity peptide N-term"}
	TermModSpecCTerm        = Term{"MS:1001190", "modification specificity peptide C-term"}
	TermMatchedPeaks        = Term{"MS:1001121", "number of matched peaks"}
	TermUnmatchedPeaks      = Term{"MS:1001362", "number of unmatched peaks"}
	TermFASTAFormat         = Term{"MS:1001348", "FASTA format"}
	TermDatabaseAminoAcid   = Term{"MS:1001073", "database type amino acid"}
	TermUnreleasedSoftware  = Term{"MS:1000799", "custom unreleased software tool"}
	TermScanNumberNativeID  = Term{"MS:1000776", "scan number only nativeID format"}
	TermThermoNativeID      = Term{"MS:1000768", "Thermo nativeID format"}
	TermWiffNativeID        = Term{"MS:1000770", "WIFF nativeID format"}
	TermMultiPeakListNative = Term{"MS:1000774", "multiple peak list nativeID format"}
)

// Fragment ion series terms keyed by the spelling used in fragmentation
// rule configuration.
var ionSeries = map[string]Term{
	"a":   {"MS:1001229", "frag: a ion"},
	"b":   {"MS:1001224", "frag: b ion"},
	"c":   {"MS:1001231", "frag: c ion"},
	"x":   {"MS:1001228", "frag: x ion"},
	"y":   {"MS:1001220", "frag: y ion"},
	"z":   {"MS:1001230", "frag: z ion"},
	"z+1": {"MS:1001367", "frag: z+1 ion"},
}

// TranslateIonSeries maps an ion-series label ("b", "y", "z+1") to its term.
func TranslateIonSeries(label string) Term {
	return ionSeries[strings.ToLower(strings.TrimSpace(label))]
}

var softwareNames = map[string]Term{
	"myrimatch": {"MS:1001585", "MyriMatch"},
	"sequest":   {"MS:1001208", "SEQUEST"},
	"mascot":    {"MS:1001207", "Mascot"},
	"xtandem":   {"MS:1001476", "X!Tandem"},
	"comet":     {"MS:1002251", "Comet"},
	"msgf":      {"MS:1002048", "MS-GF"},
	"msgf+":     {"MS:1002048", "MS-GF"},
	"pepitome":  {"MS:1001588", "Pepitome"},
	"tagrecon":  {"MS:1001587", "TagRecon"},
}

// TranslateSoftwareName maps a free-text search engine name to its term.
// Matching is case-insensitive and ignores spaces, bangs and dashes, so
// "X! Tandem" and "x!tandem" both resolve.
func TranslateSoftwareName(name string) Term {
	return softwareNames[normalizeName(name)]
}

func normalizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch r {
		case ' ', '!', '-', '_':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Cleavage agents keyed by their canonical site regular expression, as
// published in the PSI-MS ontology.
var cleavageAgents = map[string]Term{
	"(?<=[KR])(?!P)":   {"MS:1001251", "Trypsin"},
	"(?<=[KR])":        {"MS:1001313", "Trypsin/P"},
	"(?<=K)(?!P)":      {"MS:1001309", "Lys-C"},
	"(?<=K)":           {"MS:1001310", "Lys-C/P"},
	"(?<=R)(?!P)":      {"MS:1001303", "Arg-C"},
	"(?=[BD])":         {"MS:1001304", "Asp-N"},
	"(?<=[FYWL])(?!P)": {"MS:1001306", "Chymotrypsin"},
	"(?<=M)":           {"MS:1001307", "CNBr"},
	"((?<=D))|((?=D))": {"MS:1001308", "Formic_acid"},
	"(?<=[BDEZ])(?!P)": {"MS:1001305", "V8-DE"},
	"(?<=[FL])":        {"MS:1001311", "PepsinA"},
	"(?<=[^R])":        {"MS:1001956", "unspecific cleavage"},
}

// TranslateCleavageAgent maps a cleavage-site regular expression to the
// recognized enzyme term, if any.
func TranslateCleavageAgent(siteRegexp string) Term {
	return cleavageAgents[siteRegexp]
}

var scoreNames = map[string]Term{
	"xcorr":       {"MS:1001155", "SEQUEST:xcorr"},
	"deltacn":     {"MS:1001156", "SEQUEST:deltacn"},
	"spscore":     {"MS:1001157", "SEQUEST:sp"},
	"hyperscore":  {"MS:1001331", "X!Tandem:hyperscore"},
	"expect":      {"MS:1001330", "X!Tandem:expect"},
	"mvh":         {"MS:1001589", "MyriMatch:MVH"},
	"mzfidelity":  {"MS:1001590", "MyriMatch:mzFidelity"},
	"ionscore":    {"MS:1001171", "Mascot:score"},
	"probability": {"MS:1002357", "PSM-level probability"},
}

// TranslateScore maps a search score name to its term.
func TranslateScore(name string) Term {
	return scoreNames[strings.ToLower(strings.TrimSpace(name))]
}

var fileFormats = map[string]Term{
	".mzml":   {"MS:1000584", "mzML format"},
	".mzxml":  {"MS:1000566", "ISB mzXML format"},
	".mzdata": {"MS:1000564", "PSI mzData format"},
	".mgf":    {"MS:1001062", "Mascot MGF format"},
	".raw":    {"MS:1000563", "Thermo RAW format"},
	".wiff":   {"MS:1000562", "ABI WIFF format"},
}

// IdentifyFileFormat determines the file-format term for a spectral source
// file by extension. The zero term means the format could not be determined.
func IdentifyFileFormat(path string) Term {
	return fileFormats[strings.ToLower(filepath.Ext(path))]
}

// DefaultNativeIDFormat returns the native spectrum identifier scheme implied
// by a spectral source file.
func DefaultNativeIDFormat(path string) Term {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".raw":
		return TermThermoNativeID
	case ".wiff":
		return TermWiffNativeID
	case ".mgf":
		return TermMultiPeakListNative
	default:
		return TermScanNumberNativeID
	}
}
