// Package protocol builds typed search-protocol objects from the flat
// key/value configuration emitted by the search engine.
package protocol

import (
	"fmt"

	"github.com/PNNL-Comp-Mass-Spec/PeptideListToXML/pkg/cv"
)

// ToleranceUnit is the unit of a mass tolerance window.
type ToleranceUnit int

const (
	UnitDalton ToleranceUnit = iota
	UnitPPM
)

func (u ToleranceUnit) String() string {
	if u == UnitPPM {
		return "ppm"
	}
	return "Da"
}

// Term returns the unit ontology term for the tolerance unit.
func (u ToleranceUnit) Term() cv.Term {
	if u == UnitPPM {
		return cv.TermUnitPPM
	}
	return cv.TermUnitDalton
}

// Tolerance is a symmetric mass-matching window: the same value is applied
// as both the minus and plus bound.
type Tolerance struct {
	Value float64
	Unit  ToleranceUnit
}

// MassType selects monoisotopic or average masses.
type MassType int

const (
	MassMonoisotopic MassType = iota
	MassAverage
)

// Specificity is the cleavage terminal specificity of the enzyme rule,
// matching the integer codes used in search configurations.
type Specificity int

const (
	SpecificityNone Specificity = iota
	SpecificitySemi
	SpecificityFull
)

// Enzyme is the typed cleavage rule. The site pattern is stored verbatim;
// Name is set when the pattern matches a recognized cleavage agent and
// remains unknown otherwise.
type Enzyme struct {
	SiteRegexp      string
	Specificity     Specificity
	MissedCleavages int
	NTermGain       string
	CTermGain       string
	MinDistance     int
	Name            cv.Term
}

// ModSpecificity restricts a search modification to a peptide terminus.
type ModSpecificity int

const (
	ModAnywhere ModSpecificity = iota
	ModNTerm
	ModCTerm
)

// SearchMod is one modification the search was configured to consider.
// Residue is 0 for terminus-scoped modifications with no residue restriction.
type SearchMod struct {
	MassDelta   float64
	Fixed       bool
	Residue     byte
	Specificity ModSpecificity
}

// Param is one free-form configuration entry preserved verbatim on the
// protocol.
type Param struct {
	Name  string
	Value string
}

// Protocol is the complete typed search description: enzyme rule, tolerance
// windows, mass types, modification search parameters and the verbatim
// configuration entries. Built once per export, immutable thereafter.
type Protocol struct {
	Enzyme             Enzyme
	PrecursorTolerance Tolerance
	FragmentTolerance  Tolerance
	PrecursorMassType  MassType
	FragmentMassType   MassType
	Modifications      []SearchMod
	IonSeries          []cv.Term
	SequencesSearched  int // 0 when the search statistics summary is absent
	ExtraParams        []Param
}

// ConfigError is a fatal configuration problem: a required key is missing or
// a value cannot be parsed.
type ConfigError struct {
	Key    string
	Value  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("configuration key %q: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("configuration key %q (value %q): %s", e.Key, e.Value, e.Reason)
}
