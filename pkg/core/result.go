package core

// MassDelta is the mass shift of one chemical modification, in both
// monoisotopic and average terms.
type MassDelta struct {
	Mono float64
	Avg  float64
}

// RawScore is one named engine score attached to a raw search result, in the
// order the engine reported it.
type RawScore struct {
	Name  string
	Value float64
}

// SearchResult is one raw peptide-spectrum match as produced by the search
// engine, before identity resolution.
type SearchResult struct {
	Rank               int
	Charge             int
	PrecursorMass      float64 // experimental neutral mass
	Sequence           string
	Modifications      map[ModPosition][]MassDelta
	FragmentsMatched   int
	FragmentsUnmatched int
	Proteins           []string // accessions, primary first
	PrevAA             string   // preceding residue context, may be empty
	NextAA             string   // following residue context, may be empty
	Scores             []RawScore
}

// SpectrumMatches holds all raw results for one spectrum, bucketed by
// precursor charge state. Buckets may be empty; a spectrum whose buckets are
// all empty produces no identification result.
type SpectrumMatches struct {
	SpectrumID      string
	NativeID        string
	RetentionTime   float64 // seconds
	ResultsByCharge [][]SearchResult
}

// TotalResults counts the raw results across all charge states.
func (s *SpectrumMatches) TotalResults() int {
	total := 0
	for _, set := range s.ResultsByCharge {
		total += len(set)
	}
	return total
}
