package protocol

import (
	"sort"
	"strconv"
	"strings"

	"github.com/PNNL-Comp-Mass-Spec/PeptideListToXML/pkg/cv"
)

// Configuration keys recognized by the builder. All other entries are carried
// through verbatim as extra parameters.
const (
	KeyMinTerminiCleavages = "Config: MinTerminiCleavages"
	KeyMaxMissedCleavages  = "Config: MaxMissedCleavages"
	KeyPrecursorTolRule    = "Config: PrecursorMzToleranceRule"
	KeyMonoPrecursorTol    = "Config: MonoPrecursorMzTolerance"
	KeyAvgPrecursorTol     = "Config: AvgPrecursorMzTolerance"
	KeyFragmentTol         = "Config: FragmentMzTolerance"
	KeyFragmentationRule   = "Config: FragmentationRule"
	KeyDynamicMods         = "Config: DynamicMods"
	KeyStaticMods          = "Config: StaticMods"
	KeySearchStats         = "SearchStats: Overall"
)

// Terminus sentinels used in modification spec strings.
const (
	nTerminusSymbol = '('
	cTerminusSymbol = ')'
)

// Lookup is the flat configuration map consumed by the builder. Key lookup is
// case-insensitive so configuration loaders that normalize key case still
// resolve the recognized keys.
type Lookup map[string]string

// Get returns the value for key, trying an exact match first and falling
// back to a case-insensitive scan.
func (l Lookup) Get(key string) (string, bool) {
	if v, ok := l[key]; ok {
		return v, true
	}
	for k, v := range l {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return "", false
}

func (l Lookup) require(key string) (string, error) {
	v, ok := l.Get(key)
	if !ok {
		return "", &ConfigError{Key: key, Reason: "required key is missing"}
	}
	return v, nil
}

func (l Lookup) requireInt(key string) (int, error) {
	v, err := l.require(key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, &ConfigError{Key: key, Value: v, Reason: "not an integer"}
	}
	return n, nil
}

// ParseTolerance parses a tolerance string of the form "<number><unit>".
// Recognized units are "ppm" for a relative window and "da", "dalton" or "mz"
// (or no unit) for an absolute mass window.
func ParseTolerance(s string) (Tolerance, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Tolerance{}, &ConfigError{Value: s, Reason: "empty tolerance", Key: "tolerance"}
	}

	end := len(trimmed)
	for end > 0 {
		c := trimmed[end-1]
		if (c >= '0' && c <= '9') || c == '.' {
			break
		}
		end--
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(trimmed[:end]), 64)
	if err != nil {
		return Tolerance{}, &ConfigError{Key: "tolerance", Value: s, Reason: "not a number"}
	}

	unit := UnitDalton
	switch strings.ToLower(strings.TrimSpace(trimmed[end:])) {
	case "", "da", "dalton", "mz":
	case "ppm":
		unit = UnitPPM
	default:
		return Tolerance{}, &ConfigError{Key: "tolerance", Value: s, Reason: "unrecognized unit"}
	}

	return Tolerance{Value: value, Unit: unit}, nil
}

// Build produces the typed protocol from the configuration lookup and the
// cleavage-site pattern the search ran with.
func Build(lookup Lookup, siteRegexp string) (*Protocol, error) {
	p := &Protocol{}

	specCode, err := lookup.requireInt(KeyMinTerminiCleavages)
	if err != nil {
		return nil, err
	}
	if specCode < int(SpecificityNone) || specCode > int(SpecificityFull) {
		return nil, &ConfigError{Key: KeyMinTerminiCleavages, Value: strconv.Itoa(specCode), Reason: "specificity code out of range"}
	}

	missed, err := lookup.requireInt(KeyMaxMissedCleavages)
	if err != nil {
		return nil, err
	}

	p.Enzyme = Enzyme{
		SiteRegexp:      siteRegexp,
		Specificity:     Specificity(specCode),
		MissedCleavages: missed,
		NTermGain:       "H",
		CTermGain:       "OH",
		MinDistance:     1,
		Name:            cv.TranslateCleavageAgent(siteRegexp),
	}

	// Monoisotopic masses unless the tolerance rule forces average, which
	// also selects which precursor tolerance entry applies.
	rule, err := lookup.require(KeyPrecursorTolRule)
	if err != nil {
		return nil, err
	}
	precursorTolKey := KeyMonoPrecursorTol
	p.PrecursorMassType = MassMonoisotopic
	if rule == "avg" {
		precursorTolKey = KeyAvgPrecursorTol
		p.PrecursorMassType = MassAverage
	}
	p.FragmentMassType = MassMonoisotopic

	if p.PrecursorTolerance, err = requireTolerance(lookup, precursorTolKey); err != nil {
		return nil, err
	}
	if p.FragmentTolerance, err = requireTolerance(lookup, KeyFragmentTol); err != nil {
		return nil, err
	}

	fragRule, err := lookup.require(KeyFragmentationRule)
	if err != nil {
		return nil, err
	}
	p.IonSeries = parseFragmentationRule(fragRule)

	dynSpec, err := lookup.require(KeyDynamicMods)
	if err != nil {
		return nil, err
	}
	variable, err := parseDynamicMods(dynSpec)
	if err != nil {
		return nil, err
	}

	statSpec, err := lookup.require(KeyStaticMods)
	if err != nil {
		return nil, err
	}
	fixed, err := parseStaticMods(statSpec)
	if err != nil {
		return nil, err
	}

	// Variable mods precede fixed mods, each in input order.
	p.Modifications = append(variable, fixed...)

	if stats, ok := lookup.Get(KeySearchStats); ok {
		n, err := parseLeadingInt(stats)
		if err != nil {
			return nil, &ConfigError{Key: KeySearchStats, Value: stats, Reason: "leading sequence count is not an integer"}
		}
		p.SequencesSearched = n
	}

	p.ExtraParams = extraParams(lookup)

	return p, nil
}

func requireTolerance(lookup Lookup, key string) (Tolerance, error) {
	v, err := lookup.require(key)
	if err != nil {
		return Tolerance{}, err
	}
	tol, err := ParseTolerance(v)
	if err != nil {
		return Tolerance{}, &ConfigError{Key: key, Value: v, Reason: "malformed tolerance"}
	}
	return tol, nil
}

// parseFragmentationRule accumulates the ion series implied by the rule:
// "cid" adds b and y, "etd" adds c and z+1, "manual:<list>" adds the listed
// series. Matching is case-insensitive and the clauses are cumulative.
func parseFragmentationRule(rule string) []cv.Term {
	lower := strings.ToLower(rule)

	var labels []string
	if strings.Contains(lower, "cid") {
		labels = append(labels, "b", "y")
	}
	if strings.Contains(lower, "etd") {
		labels = append(labels, "c", "z+1")
	}
	if idx := strings.Index(lower, "manual:"); idx >= 0 {
		labels = append(labels, strings.Split(rule[idx+len("manual:"):], ",")...)
	}

	var series []cv.Term
	for _, label := range labels {
		if term := cv.TranslateIonSeries(label); !term.IsZero() {
			series = append(series, term)
		}
	}
	return series
}

// parseDynamicMods parses a variable modification spec: whitespace-separated
// triples of motif, wildcard token and mass delta. The motif is a residue
// letter, a bare "(" or ")" terminus sentinel, or a residue with a single
// terminal filter such as "(Q" or "K)".
func parseDynamicMods(spec string) ([]SearchMod, error) {
	fields := strings.Fields(spec)
	if len(fields)%3 != 0 {
		return nil, &ConfigError{Key: KeyDynamicMods, Value: spec, Reason: "expected motif, wildcard, mass triples"}
	}

	var mods []SearchMod
	for i := 0; i < len(fields); i += 3 {
		motif := fields[i]
		mass, err := strconv.ParseFloat(fields[i+2], 64)
		if err != nil {
			return nil, &ConfigError{Key: KeyDynamicMods, Value: fields[i+2], Reason: "mass delta is not a number"}
		}

		mod := SearchMod{MassDelta: mass}
		switch {
		case motif == string(nTerminusSymbol):
			mod.Specificity = ModNTerm
		case motif == string(cTerminusSymbol):
			mod.Specificity = ModCTerm
		case len(motif) == 2 && motif[0] == nTerminusSymbol && isResidue(motif[1]):
			mod.Residue = motif[1]
			mod.Specificity = ModNTerm
		case len(motif) == 2 && motif[1] == cTerminusSymbol && isResidue(motif[0]):
			mod.Residue = motif[0]
			mod.Specificity = ModCTerm
		case len(motif) == 1 && isResidue(motif[0]):
			mod.Residue = motif[0]
		default:
			return nil, &ConfigError{Key: KeyDynamicMods, Value: motif, Reason: "unrecognized modification motif"}
		}
		mods = append(mods, mod)
	}
	return mods, nil
}

// parseStaticMods parses a fixed modification spec: whitespace-separated
// pairs of site and mass delta, where site is a residue letter or a terminus
// sentinel.
func parseStaticMods(spec string) ([]SearchMod, error) {
	fields := strings.Fields(spec)
	if len(fields)%2 != 0 {
		return nil, &ConfigError{Key: KeyStaticMods, Value: spec, Reason: "expected site, mass pairs"}
	}

	var mods []SearchMod
	for i := 0; i < len(fields); i += 2 {
		site := fields[i]
		mass, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return nil, &ConfigError{Key: KeyStaticMods, Value: fields[i+1], Reason: "mass delta is not a number"}
		}

		mod := SearchMod{MassDelta: mass, Fixed: true}
		switch {
		case site == string(nTerminusSymbol):
			mod.Specificity = ModNTerm
		case site == string(cTerminusSymbol):
			mod.Specificity = ModCTerm
		case len(site) == 1 && isResidue(site[0]):
			mod.Residue = site[0]
		default:
			return nil, &ConfigError{Key: KeyStaticMods, Value: site, Reason: "unrecognized modification site"}
		}
		mods = append(mods, mod)
	}
	return mods, nil
}

func isResidue(c byte) bool {
	return c >= 'A' && c <= 'Z'
}

// parseLeadingInt extracts the integer that starts a search-statistics
// summary such as "32861 sequences searched".
func parseLeadingInt(s string) (int, error) {
	head, _, _ := strings.Cut(strings.TrimSpace(s), " ")
	return strconv.Atoi(head)
}

// extraParams preserves every configuration entry verbatim, sorted by key
// for deterministic output.
func extraParams(lookup Lookup) []Param {
	keys := make([]string, 0, len(lookup))
	for k := range lookup {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	params := make([]Param, 0, len(keys))
	for _, k := range keys {
		params = append(params, Param{Name: k, Value: lookup[k]})
	}
	return params
}
