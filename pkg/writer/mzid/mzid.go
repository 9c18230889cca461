// Package mzid serializes an assembled identification document as
// mzIdentML 1.1 XML.
package mzid

import "encoding/xml"

// Write-oriented element types for the mzIdentML subset this exporter
// populates.

type mzIdentML struct {
	XMLName      xml.Name `xml:"MzIdentML"`
	ID           string   `xml:"id,attr"`
	Version      string   `xml:"version,attr"`
	Xmlns        string   `xml:"xmlns,attr"`
	CreationDate string   `xml:"creationDate,attr"`

	CvList                     cvList                     `xml:"cvList"`
	AnalysisSoftwareList       analysisSoftwareList       `xml:"AnalysisSoftwareList"`
	SequenceCollection         sequenceCollection         `xml:"SequenceCollection"`
	AnalysisCollection         analysisCollection         `xml:"AnalysisCollection"`
	AnalysisProtocolCollection analysisProtocolCollection `xml:"AnalysisProtocolCollection"`
	DataCollection             dataCollection             `xml:"DataCollection"`
}

type cvList struct {
	Cv []cvEntry `xml:"cv"`
}

type cvEntry struct {
	ID       string `xml:"id,attr"`
	FullName string `xml:"fullName,attr"`
	URI      string `xml:"uri,attr"`
}

type cvParam struct {
	XMLName       xml.Name `xml:"cvParam"`
	CvRef         string   `xml:"cvRef,attr"`
	Accession     string   `xml:"accession,attr"`
	Name          string   `xml:"name,attr"`
	Value         string   `xml:"value,attr,omitempty"`
	UnitAccession string   `xml:"unitAccession,attr,omitempty"`
	UnitName      string   `xml:"unitName,attr,omitempty"`
	UnitCvRef     string   `xml:"unitCvRef,attr,omitempty"`
}

type userParam struct {
	XMLName xml.Name `xml:"userParam"`
	Name    string   `xml:"name,attr"`
	Value   string   `xml:"value,attr,omitempty"`
	Type    string   `xml:"type,attr,omitempty"`
}

type analysisSoftwareList struct {
	AnalysisSoftware []analysisSoftware `xml:"AnalysisSoftware"`
}

type analysisSoftware struct {
	ID           string     `xml:"id,attr"`
	Name         string     `xml:"name,attr,omitempty"`
	Version      string     `xml:"version,attr,omitempty"`
	URI          string     `xml:"uri,attr,omitempty"`
	SoftwareName paramGroup `xml:"SoftwareName"`
}

// paramGroup holds a single-slot choice of cvParam or userParam.
type paramGroup struct {
	CvParam   *cvParam   `xml:"cvParam,omitempty"`
	UserParam *userParam `xml:"userParam,omitempty"`
}

type sequenceCollection struct {
	DBSequence      []dbSequence      `xml:"DBSequence"`
	Peptide         []peptide         `xml:"Peptide"`
	PeptideEvidence []peptideEvidence `xml:"PeptideEvidence"`
}

type dbSequence struct {
	ID                string `xml:"id,attr"`
	Accession         string `xml:"accession,attr"`
	SearchDatabaseRef string `xml:"searchDatabase_ref,attr"`
}

type peptide struct {
	ID              string         `xml:"id,attr"`
	PeptideSequence string         `xml:"PeptideSequence"`
	Modification    []modification `xml:"Modification"`
}

type modification struct {
	Location              int     `xml:"location,attr"`
	Residues              string  `xml:"residues,attr,omitempty"`
	AvgMassDelta          float64 `xml:"avgMassDelta,attr"`
	MonoisotopicMassDelta float64 `xml:"monoisotopicMassDelta,attr"`
}

type peptideEvidence struct {
	ID            string `xml:"id,attr"`
	PeptideRef    string `xml:"peptide_ref,attr"`
	DBSequenceRef string `xml:"dBSequence_ref,attr"`
	Pre           string `xml:"pre,attr"`
	Post          string `xml:"post,attr"`
	IsDecoy       bool   `xml:"isDecoy,attr"`
}

type analysisCollection struct {
	SpectrumIdentification spectrumIdentification `xml:"SpectrumIdentification"`
}

type spectrumIdentification struct {
	ID                            string       `xml:"id,attr"`
	SpectrumIdentificationListRef string       `xml:"spectrumIdentificationList_ref,attr"`
	ProtocolRef                   string       `xml:"spectrumIdentificationProtocol_ref,attr"`
	ActivityDate                  string       `xml:"activityDate,attr,omitempty"`
	InputSpectra                  inputSpectra `xml:"InputSpectra"`
	SearchDatabaseRef             searchDBRef  `xml:"SearchDatabaseRef"`
}

type inputSpectra struct {
	SpectraDataRef string `xml:"spectraData_ref,attr"`
}

type searchDBRef struct {
	SearchDatabaseRef string `xml:"searchDatabase_ref,attr"`
}

type analysisProtocolCollection struct {
	Protocol identificationProtocol `xml:"SpectrumIdentificationProtocol"`
}

type identificationProtocol struct {
	ID                     string              `xml:"id,attr"`
	SoftwareRef            string              `xml:"analysisSoftware_ref,attr"`
	SearchType             paramGroup          `xml:"SearchType"`
	AdditionalSearchParams additionalParams    `xml:"AdditionalSearchParams"`
	ModificationParams     modificationParams  `xml:"ModificationParams"`
	Enzymes                enzymes             `xml:"Enzymes"`
	MassTable              massTable           `xml:"MassTable"`
	ParentTolerance        toleranceParams     `xml:"ParentTolerance"`
	FragmentTolerance      toleranceParams     `xml:"FragmentTolerance"`
	Threshold              thresholdParamGroup `xml:"Threshold"`
}

type additionalParams struct {
	CvParam   []cvParam   `xml:"cvParam"`
	UserParam []userParam `xml:"userParam"`
}

type modificationParams struct {
	SearchModification []searchModification `xml:"SearchModification"`
}

type searchModification struct {
	FixedMod         bool              `xml:"fixedMod,attr"`
	MassDelta        float64           `xml:"massDelta,attr"`
	Residues         string            `xml:"residues,attr"`
	SpecificityRules []specificityRule `xml:"SpecificityRules"`
}

type specificityRule struct {
	CvParam cvParam `xml:"cvParam"`
}

type enzymes struct {
	Enzyme []enzyme `xml:"Enzyme"`
}

type enzyme struct {
	ID              string      `xml:"id,attr"`
	NTermGain       string      `xml:"nTermGain,attr,omitempty"`
	CTermGain       string      `xml:"cTermGain,attr,omitempty"`
	MissedCleavages int         `xml:"missedCleavages,attr"`
	MinDistance     int         `xml:"minDistance,attr,omitempty"`
	SemiSpecific    bool        `xml:"semiSpecific,attr"`
	SiteRegexp      string      `xml:"SiteRegexp,omitempty"`
	EnzymeName      *paramGroup `xml:"EnzymeName,omitempty"`
}

type massTable struct {
	ID      string    `xml:"id,attr"`
	MSLevel string    `xml:"msLevel,attr"`
	Residue []residue `xml:"Residue"`
}

type residue struct {
	Code string  `xml:"code,attr"`
	Mass float64 `xml:"mass,attr"`
}

type toleranceParams struct {
	CvParam []cvParam `xml:"cvParam"`
}

type thresholdParamGroup struct {
	CvParam cvParam `xml:"cvParam"`
}

type dataCollection struct {
	Inputs       inputs       `xml:"Inputs"`
	AnalysisData analysisData `xml:"AnalysisData"`
}

type inputs struct {
	SearchDatabase searchDatabase `xml:"SearchDatabase"`
	SpectraData    spectraData    `xml:"SpectraData"`
}

type searchDatabase struct {
	ID           string      `xml:"id,attr"`
	Location     string      `xml:"location,attr"`
	Name         string      `xml:"name,attr,omitempty"`
	FileFormat   *paramGroup `xml:"FileFormat,omitempty"`
	DatabaseName paramGroup  `xml:"DatabaseName"`
	CvParam      []cvParam   `xml:"cvParam"`
}

type spectraData struct {
	ID               string      `xml:"id,attr"`
	Location         string      `xml:"location,attr"`
	Name             string      `xml:"name,attr,omitempty"`
	FileFormat       *paramGroup `xml:"FileFormat,omitempty"`
	SpectrumIDFormat paramGroup  `xml:"SpectrumIDFormat"`
}

type analysisData struct {
	SpectrumIdentificationList spectrumIdentificationList `xml:"SpectrumIdentificationList"`
}

type spectrumIdentificationList struct {
	ID                   string                         `xml:"id,attr"`
	NumSequencesSearched int                            `xml:"numSequencesSearched,attr,omitempty"`
	Results              []spectrumIdentificationResult `xml:"SpectrumIdentificationResult"`
	SummaryParams        []userParam                    `xml:"userParam"`
}

type spectrumIdentificationResult struct {
	ID             string                       `xml:"id,attr"`
	SpectrumID     string                       `xml:"spectrumID,attr"`
	SpectraDataRef string                       `xml:"spectraData_ref,attr"`
	Items          []spectrumIdentificationItem `xml:"SpectrumIdentificationItem"`
}

type spectrumIdentificationItem struct {
	ID                       string               `xml:"id,attr"`
	Rank                     int                  `xml:"rank,attr"`
	ChargeState              int                  `xml:"chargeState,attr"`
	ExperimentalMassToCharge float64              `xml:"experimentalMassToCharge,attr"`
	CalculatedMassToCharge   float64              `xml:"calculatedMassToCharge,attr"`
	PeptideRef               string               `xml:"peptide_ref,attr"`
	MassTableRef             string               `xml:"massTable_ref,attr,omitempty"`
	PassThreshold            bool                 `xml:"passThreshold,attr"`
	PeptideEvidenceRef       []peptideEvidenceRef `xml:"PeptideEvidenceRef"`
	CvParam                  []cvParam            `xml:"cvParam"`
	UserParam                []userParam          `xml:"userParam"`
}

type peptideEvidenceRef struct {
	PeptideEvidenceRef string `xml:"peptideEvidence_ref,attr"`
}
