package mzid

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PNNL-Comp-Mass-Spec/PeptideListToXML/pkg/assemble"
	"github.com/PNNL-Comp-Mass-Spec/PeptideListToXML/pkg/core"
	"github.com/PNNL-Comp-Mass-Spec/PeptideListToXML/pkg/cv"
	"github.com/PNNL-Comp-Mass-Spec/PeptideListToXML/pkg/protocol"
)

const (
	psiMSRef = "PSI-MS"
	unitRef  = "UO"

	searchDBID    = "SearchDB_1"
	spectraDataID = "SpectraData_1"
	softwareID    = "AS"
	protocolID    = "SIP"
	silID         = "SIL_1"
	massTableID   = "MT"
)

// Writer serializes an assembled document as mzIdentML 1.1.
type Writer struct {
	w io.Writer
}

// New returns a writer that emits the document to w.
func New(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteFile serializes the document to the named file.
func WriteFile(path string, doc *assemble.Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	return New(f).WriteDocument(doc)
}

// WriteDocument implements assemble.DocumentWriter.
func (mw *Writer) WriteDocument(doc *assemble.Document) error {
	root := buildDocument(doc)

	_, err := mw.w.Write([]byte(xml.Header))
	if err != nil {
		return fmt.Errorf("writing mzIdentML header: %w", err)
	}
	enc := xml.NewEncoder(mw.w)
	enc.Indent("", "  ")
	if err := enc.Encode(root); err != nil {
		return fmt.Errorf("encoding mzIdentML: %w", err)
	}
	return enc.Flush()
}

func buildDocument(doc *assemble.Document) *mzIdentML {
	return &mzIdentML{
		ID:           doc.ID,
		Version:      "1.1.0",
		Xmlns:        "http://psidev.info/psi/pi/mzIdentML/1.1",
		CreationDate: doc.CreationDate.Format(time.RFC3339),
		CvList: cvList{Cv: []cvEntry{
			{ID: psiMSRef, FullName: "Proteomics Standards Initiative Mass Spectrometry Vocabularies",
				URI: "https://raw.githubusercontent.com/HUPO-PSI/psi-ms-CV/master/psi-ms.obo"},
			{ID: unitRef, FullName: "Unit Ontology",
				URI: "https://raw.githubusercontent.com/bio-ontology-research-group/unit-ontology/master/unit.obo"},
		}},
		AnalysisSoftwareList:       buildSoftware(doc),
		SequenceCollection:         buildSequences(doc),
		AnalysisCollection:         buildAnalysis(doc),
		AnalysisProtocolCollection: buildProtocol(doc),
		DataCollection:             buildData(doc),
	}
}

func cvParamOf(t cv.Term, value string) cvParam {
	return cvParam{CvRef: psiMSRef, Accession: t.Accession, Name: t.Name, Value: value}
}

func toleranceParam(t cv.Term, tol protocol.Tolerance) cvParam {
	unit := tol.Unit.Term()
	return cvParam{
		CvRef:         psiMSRef,
		Accession:     t.Accession,
		Name:          t.Name,
		Value:         strconv.FormatFloat(tol.Value, 'g', -1, 64),
		UnitAccession: unit.Accession,
		UnitName:      unit.Name,
		UnitCvRef:     unitRef,
	}
}

func buildSoftware(doc *assemble.Document) analysisSoftwareList {
	sw := analysisSoftware{
		ID:      softwareID,
		Name:    doc.Software.Name,
		Version: doc.Software.Version,
		URI:     doc.Software.URI,
	}
	if doc.SoftwareTerm.IsZero() {
		// Unrecognized engines are recorded under the generic unreleased
		// tool term with the raw name preserved as the value.
		p := cvParamOf(cv.TermUnreleasedSoftware, doc.Software.Name)
		sw.SoftwareName = paramGroup{CvParam: &p}
	} else {
		p := cvParamOf(doc.SoftwareTerm, "")
		sw.SoftwareName = paramGroup{CvParam: &p}
	}
	return analysisSoftwareList{AnalysisSoftware: []analysisSoftware{sw}}
}

func buildSequences(doc *assemble.Document) sequenceCollection {
	var sc sequenceCollection
	for _, prot := range doc.Proteins {
		sc.DBSequence = append(sc.DBSequence, dbSequence{
			ID:                prot.ID,
			Accession:         prot.Accession,
			SearchDatabaseRef: searchDBID,
		})
	}
	for _, pep := range doc.Peptides {
		p := peptide{ID: pep.ID, PeptideSequence: pep.Sequence}
		for _, mod := range pep.Modifications {
			m := modification{
				Location:              mod.Location,
				AvgMassDelta:          mod.AvgMassDelta,
				MonoisotopicMassDelta: mod.MonoMassDelta,
			}
			if mod.Residue != 0 {
				m.Residues = string(mod.Residue)
			}
			p.Modification = append(p.Modification, m)
		}
		sc.Peptide = append(sc.Peptide, p)
	}
	for _, ev := range doc.Evidence {
		sc.PeptideEvidence = append(sc.PeptideEvidence, peptideEvidence{
			ID:            ev.ID,
			PeptideRef:    ev.Peptide.ID,
			DBSequenceRef: ev.Protein.ID,
			Pre:           string(ev.Pre),
			Post:          string(ev.Post),
			IsDecoy:       ev.IsDecoy,
		})
	}
	return sc
}

func buildAnalysis(doc *assemble.Document) analysisCollection {
	return analysisCollection{
		SpectrumIdentification: spectrumIdentification{
			ID:                            "SI",
			SpectrumIdentificationListRef: silID,
			ProtocolRef:                   protocolID,
			ActivityDate:                  doc.CreationDate.Format(time.RFC3339),
			InputSpectra:                  inputSpectra{SpectraDataRef: spectraDataID},
			SearchDatabaseRef:             searchDBRef{SearchDatabaseRef: searchDBID},
		},
	}
}

func buildProtocol(doc *assemble.Document) analysisProtocolCollection {
	p := doc.Protocol

	searchType := cvParamOf(cv.TermMSMSSearch, "")

	add := additionalParams{}
	if p.PrecursorMassType == protocol.MassAverage {
		add.CvParam = append(add.CvParam, cvParamOf(cv.TermParentMassTypeAvg, ""))
	} else {
		add.CvParam = append(add.CvParam, cvParamOf(cv.TermParentMassTypeMono, ""))
	}
	if p.FragmentMassType == protocol.MassAverage {
		add.CvParam = append(add.CvParam, cvParamOf(cv.TermFragmentMassAvg, ""))
	} else {
		add.CvParam = append(add.CvParam, cvParamOf(cv.TermFragmentMassMono, ""))
	}
	for _, ion := range p.IonSeries {
		add.CvParam = append(add.CvParam, cvParamOf(ion, ""))
	}
	for _, extra := range p.ExtraParams {
		add.UserParam = append(add.UserParam, userParam{Name: extra.Name, Value: extra.Value})
	}

	mods := modificationParams{}
	for _, mod := range p.Modifications {
		sm := searchModification{
			FixedMod:  mod.Fixed,
			MassDelta: mod.MassDelta,
			Residues:  ".",
		}
		if mod.Residue != 0 {
			sm.Residues = string(mod.Residue)
		}
		switch mod.Specificity {
		case protocol.ModNTerm:
			sm.SpecificityRules = []specificityRule{{CvParam: cvParamOf(cv.TermModSpecNTerm, "")}}
		case protocol.ModCTerm:
			sm.SpecificityRules = []specificityRule{{CvParam: cvParamOf(cv.TermModSpecCTerm, "")}}
		}
		mods.SearchModification = append(mods.SearchModification, sm)
	}

	enz := enzyme{
		ID:              "ENZ_1",
		NTermGain:       p.Enzyme.NTermGain,
		CTermGain:       p.Enzyme.CTermGain,
		MissedCleavages: p.Enzyme.MissedCleavages,
		MinDistance:     p.Enzyme.MinDistance,
		SemiSpecific:    p.Enzyme.Specificity != protocol.SpecificityFull,
		SiteRegexp:      p.Enzyme.SiteRegexp,
	}
	if !p.Enzyme.Name.IsZero() {
		ep := cvParamOf(p.Enzyme.Name, "")
		enz.EnzymeName = &paramGroup{CvParam: &ep}
	}

	return analysisProtocolCollection{
		Protocol: identificationProtocol{
			ID:                     protocolID,
			SoftwareRef:            softwareID,
			SearchType:             paramGroup{CvParam: &searchType},
			AdditionalSearchParams: add,
			ModificationParams:     mods,
			Enzymes:                enzymes{Enzyme: []enzyme{enz}},
			MassTable:              buildMassTable(),
			ParentTolerance: toleranceParams{CvParam: []cvParam{
				toleranceParam(cv.TermTolMinusValue, p.PrecursorTolerance),
				toleranceParam(cv.TermTolPlusValue, p.PrecursorTolerance),
			}},
			FragmentTolerance: toleranceParams{CvParam: []cvParam{
				toleranceParam(cv.TermTolMinusValue, p.FragmentTolerance),
				toleranceParam(cv.TermTolPlusValue, p.FragmentTolerance),
			}},
			Threshold: thresholdParamGroup{CvParam: cvParamOf(cv.TermNoThreshold, "")},
		},
	}
}

func buildMassTable() massTable {
	codes := make([]byte, 0, len(core.AminoAcidMasses))
	for code := range core.AminoAcidMasses {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	mt := massTable{ID: massTableID, MSLevel: "1 2"}
	for _, code := range codes {
		mass, _ := core.ResidueMonoMass(code)
		mt.Residue = append(mt.Residue, residue{Code: string(code), Mass: mass})
	}
	return mt
}

func buildData(doc *assemble.Document) dataCollection {
	dbName := filepath.Base(doc.DatabasePath)

	db := searchDatabase{
		ID:       searchDBID,
		Location: doc.DatabasePath,
		Name:     dbName,
		DatabaseName: paramGroup{
			UserParam: &userParam{Name: dbName},
		},
		CvParam: []cvParam{cvParamOf(cv.TermDatabaseAminoAcid, "")},
	}
	if strings.EqualFold(filepath.Ext(doc.DatabasePath), ".fasta") {
		ff := cvParamOf(cv.TermFASTAFormat, "")
		db.FileFormat = &paramGroup{CvParam: &ff}
	}

	sd := spectraData{
		ID:       spectraDataID,
		Location: doc.SourcePath,
		Name:     filepath.Base(doc.SourcePath),
	}
	if !doc.SourceFormat.IsZero() {
		ff := cvParamOf(doc.SourceFormat, "")
		sd.FileFormat = &paramGroup{CvParam: &ff}
	}
	idFormat := doc.NativeIDFormat
	if idFormat.IsZero() {
		idFormat = cv.TermScanNumberNativeID
	}
	idp := cvParamOf(idFormat, "")
	sd.SpectrumIDFormat = paramGroup{CvParam: &idp}

	sil := spectrumIdentificationList{
		ID:                   silID,
		NumSequencesSearched: doc.Summary.SequencesSearched,
		SummaryParams: []userParam{
			{Name: "number of target comparisons", Value: strconv.Itoa(doc.Summary.TargetComparisons)},
			{Name: "number of decoy comparisons", Value: strconv.Itoa(doc.Summary.DecoyComparisons)},
		},
	}
	for _, result := range doc.Results {
		sil.Results = append(sil.Results, buildResult(result))
	}

	return dataCollection{
		Inputs: inputs{SearchDatabase: db, SpectraData: sd},
		AnalysisData: analysisData{
			SpectrumIdentificationList: sil,
		},
	}
}

func buildResult(result *core.IdentificationResult) spectrumIdentificationResult {
	sir := spectrumIdentificationResult{
		ID:             result.ID,
		SpectrumID:     result.SpectrumID,
		SpectraDataRef: spectraDataID,
	}
	for _, item := range result.Items {
		sii := spectrumIdentificationItem{
			ID:                       item.ID,
			Rank:                     item.Rank,
			ChargeState:              item.ChargeState,
			ExperimentalMassToCharge: item.ExperimentalMZ,
			CalculatedMassToCharge:   item.CalculatedMZ,
			PeptideRef:               item.Peptide.ID,
			MassTableRef:             massTableID,
			PassThreshold:            item.PassThreshold,
		}
		for _, ev := range item.Evidence {
			sii.PeptideEvidenceRef = append(sii.PeptideEvidenceRef,
				peptideEvidenceRef{PeptideEvidenceRef: ev.ID})
		}
		sii.CvParam = append(sii.CvParam,
			cvParamOf(cv.TermMatchedPeaks, strconv.Itoa(item.MatchedPeaks)),
			cvParamOf(cv.TermUnmatchedPeaks, strconv.Itoa(item.UnmatchedPeaks)))
		for _, score := range item.Scores {
			value := strconv.FormatFloat(score.Value, 'g', -1, 64)
			if score.Accession != "" {
				sii.CvParam = append(sii.CvParam, cvParam{
					CvRef: psiMSRef, Accession: score.Accession, Name: score.Name, Value: value,
				})
			} else {
				sii.UserParam = append(sii.UserParam, userParam{Name: score.Name, Value: value})
			}
		}
		sir.Items = append(sir.Items, sii)
	}
	return sir
}
