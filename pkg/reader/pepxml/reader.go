// Package pepxml provides a streaming reader for pepXML search results,
// producing raw per-spectrum result containers grouped by precursor charge
// state.
package pepxml

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/PNNL-Comp-Mass-Spec/PeptideListToXML/pkg/core"
)

type spectrumQuery struct {
	Spectrum             string         `xml:"spectrum,attr"`
	StartScan            int            `xml:"start_scan,attr"`
	AssumedCharge        int            `xml:"assumed_charge,attr"`
	PrecursorNeutralMass float64        `xml:"precursor_neutral_mass,attr"`
	RetentionTimeSec     float64        `xml:"retention_time_sec,attr"`
	SearchResults        []searchResult `xml:"search_result"`
}

type searchResult struct {
	Hits []searchHit `xml:"search_hit"`
}

type searchHit struct {
	HitRank             int                  `xml:"hit_rank,attr"`
	Peptide             string               `xml:"peptide,attr"`
	PrevAA              string               `xml:"peptide_prev_aa,attr"`
	NextAA              string               `xml:"peptide_next_aa,attr"`
	Protein             string               `xml:"protein,attr"`
	NumMatchedIons      int                  `xml:"num_matched_ions,attr"`
	TotNumIons          int                  `xml:"tot_num_ions,attr"`
	AlternativeProteins []alternativeProtein `xml:"alternative_protein"`
	ModInfo             *modificationInfo    `xml:"modification_info"`
	Scores              []searchScore        `xml:"search_score"`
}

type alternativeProtein struct {
	Protein string `xml:"protein,attr"`
}

type modificationInfo struct {
	ModNTermMass float64            `xml:"mod_nterm_mass,attr"`
	ModCTermMass float64            `xml:"mod_cterm_mass,attr"`
	Mods         []modAminoacidMass `xml:"mod_aminoacid_mass"`
}

type modAminoacidMass struct {
	Position int     `xml:"position,attr"` // 1-based
	Mass     float64 `xml:"mass,attr"`     // residue mass including the modification
}

type searchScore struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// Read parses a pepXML stream and returns the raw result containers in file
// order. Queries for the same spectrum at different assumed charges are
// merged into one container with one result set per charge.
func Read(r io.Reader) ([]*core.SpectrumMatches, error) {
	d := xml.NewDecoder(r)
	d.CharsetReader = charset.NewReaderLabel

	var spectra []*core.SpectrumMatches
	byBase := make(map[string]*core.SpectrumMatches)

	for {
		tok, err := d.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("pepXML parse error: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "spectrum_query" {
			continue
		}

		var query spectrumQuery
		if err := d.DecodeElement(&query, &start); err != nil {
			return nil, fmt.Errorf("pepXML parse error: %w", err)
		}

		base := baseSpectrumID(query.Spectrum, query.AssumedCharge)
		matches, seen := byBase[base]
		if !seen {
			matches = &core.SpectrumMatches{
				SpectrumID:    base,
				RetentionTime: query.RetentionTimeSec,
			}
			if query.StartScan > 0 {
				matches.NativeID = "scan=" + strconv.Itoa(query.StartScan)
			}
			byBase[base] = matches
			spectra = append(spectra, matches)
		}

		matches.ResultsByCharge = append(matches.ResultsByCharge, convertQuery(&query))
	}

	return spectra, nil
}

// ReadFile parses a pepXML file.
func ReadFile(path string) ([]*core.SpectrumMatches, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pepXML file: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// baseSpectrumID strips the trailing charge component from the conventional
// "file.start.end.charge" spectrum naming so queries for the same scan at
// different charges group together.
func baseSpectrumID(spectrum string, charge int) string {
	suffix := "." + strconv.Itoa(charge)
	if strings.HasSuffix(spectrum, suffix) {
		return spectrum[:len(spectrum)-len(suffix)]
	}
	return spectrum
}

func convertQuery(query *spectrumQuery) []core.SearchResult {
	var results []core.SearchResult
	for _, sr := range query.SearchResults {
		for _, hit := range sr.Hits {
			results = append(results, convertHit(query, &hit))
		}
	}
	return results
}

func convertHit(query *spectrumQuery, hit *searchHit) core.SearchResult {
	result := core.SearchResult{
		Rank:               hit.HitRank,
		Charge:             query.AssumedCharge,
		PrecursorMass:      query.PrecursorNeutralMass,
		Sequence:           hit.Peptide,
		FragmentsMatched:   hit.NumMatchedIons,
		FragmentsUnmatched: hit.TotNumIons - hit.NumMatchedIons,
		PrevAA:             hit.PrevAA,
		NextAA:             hit.NextAA,
		Modifications:      convertModifications(hit),
	}

	result.Proteins = append(result.Proteins, hit.Protein)
	for _, alt := range hit.AlternativeProteins {
		result.Proteins = append(result.Proteins, alt.Protein)
	}

	for _, score := range hit.Scores {
		value, err := strconv.ParseFloat(score.Value, 64)
		if err != nil {
			// Non-numeric scores are dropped; the interchange formats
			// only carry numeric score values.
			continue
		}
		result.Scores = append(result.Scores, core.RawScore{Name: score.Name, Value: value})
	}

	return result
}

// convertModifications derives mass deltas from pepXML's absolute masses.
// pepXML records the modified residue mass (and terminal group masses), so
// the delta is the difference from the unmodified residue or terminal group.
// pepXML carries a single mass scale, so the same delta serves as both the
// monoisotopic and average value.
func convertModifications(hit *searchHit) map[core.ModPosition][]core.MassDelta {
	info := hit.ModInfo
	if info == nil {
		return nil
	}

	mods := make(map[core.ModPosition][]core.MassDelta)

	if info.ModNTermMass != 0 {
		delta := info.ModNTermMass - core.MassH
		mods[core.NTerminal()] = append(mods[core.NTerminal()], core.MassDelta{Mono: delta, Avg: delta})
	}
	if info.ModCTermMass != 0 {
		delta := info.ModCTermMass - (core.MassO + core.MassH)
		mods[core.CTerminal()] = append(mods[core.CTerminal()], core.MassDelta{Mono: delta, Avg: delta})
	}

	for _, mod := range info.Mods {
		offset := mod.Position - 1
		if offset < 0 || offset >= len(hit.Peptide) {
			continue
		}
		residueMass, ok := core.ResidueMonoMass(hit.Peptide[offset])
		if !ok {
			continue
		}
		delta := mod.Mass - residueMass
		pos := core.Internal(offset)
		mods[pos] = append(mods[pos], core.MassDelta{Mono: delta, Avg: delta})
	}

	if len(mods) == 0 {
		return nil
	}
	return mods
}
