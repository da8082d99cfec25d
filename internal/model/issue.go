package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Severity is the three-tier defect taxonomy. S0 and S1 block release;
// S2 is advisory only.
type Severity string

const (
	SeverityS0 Severity = "S0" // Safety-critical, ship-blocking
	SeverityS1 Severity = "S1" // Quality-critical, ship-blocking
	SeverityS2 Severity = "S2" // Warning, never blocking
)

// Severities lists every severity in a fixed order.
var Severities = []Severity{SeverityS0, SeverityS1, SeverityS2}

// IssueCode is the closed set of defect codes. The code→severity mapping is
// fixed; see SeverityFor.
type IssueCode string

const (
	// S0: safety-critical
	CodeOrphanCitation             IssueCode = "orphan_citation"              // Citation marker with no matching source
	CodeHallucinatedSource         IssueCode = "hallucinated_source"          // Claim cites a source that does not exist
	CodeDoseWithoutEvidence        IssueCode = "dose_without_evidence"        // Dose claim bound to nothing
	CodeThresholdWithoutEvidence   IssueCode = "threshold_without_evidence"   // Threshold claim bound to nothing
	CodeContraindicationUnbound    IssueCode = "contraindication_unbound"     // Contraindication claim bound to nothing
	CodeConflictingDoses           IssueCode = "conflicting_doses"            // Same drug, different doses
	CodeMissingMandatorySection    IssueCode = "missing_mandatory_section"    // Required section absent from draft
	// S1: quality-critical
	CodeClaimBindingFailed         IssueCode = "claim_binding_failed"         // Non-safety claim bound to nothing
	CodeWeakEvidenceForStrongClaim IssueCode = "weak_evidence_for_strong_claim"
	CodeOutdatedGuideline          IssueCode = "outdated_guideline"
	CodeTemplateIncomplete         IssueCode = "template_incomplete"          // Section present but empty
	CodeUnitMismatch               IssueCode = "unit_mismatch"                // Claim unit disagrees with evidence unit
	CodeAgeGroupConflict           IssueCode = "age_group_conflict"           // Pediatric vs adult dosing mixed
	// CodeLinterError is not part of the defect taxonomy: it is the
	// reporting code the collector uses when a linter itself fails, so the
	// failure surfaces as data instead of aborting the run.
	CodeLinterError                IssueCode = "linter_error"
	// S2: advisory
	CodeTermVariant                IssueCode = "term_variant"                 // Non-canonical unit/term spelling
	CodeEvidenceRedundancy         IssueCode = "evidence_redundancy"          // Many near-identical chunks behind one claim
	CodeInformalLanguage           IssueCode = "informal_language"
	CodeMissingDuration            IssueCode = "missing_duration"             // Antibiotic dose without treatment duration
)

// severityByCode is the fixed, closed code→severity mapping. A code absent
// from this table is not a valid issue code.
var severityByCode = map[IssueCode]Severity{
	CodeOrphanCitation:             SeverityS0,
	CodeHallucinatedSource:         SeverityS0,
	CodeDoseWithoutEvidence:        SeverityS0,
	CodeThresholdWithoutEvidence:   SeverityS0,
	CodeContraindicationUnbound:    SeverityS0,
	CodeConflictingDoses:           SeverityS0,
	CodeMissingMandatorySection:    SeverityS0,
	CodeClaimBindingFailed:         SeverityS1,
	CodeWeakEvidenceForStrongClaim: SeverityS1,
	CodeOutdatedGuideline:          SeverityS1,
	CodeTemplateIncomplete:         SeverityS1,
	CodeUnitMismatch:               SeverityS1,
	CodeAgeGroupConflict:           SeverityS1,
	CodeLinterError:                SeverityS1,
	CodeTermVariant:                SeverityS2,
	CodeEvidenceRedundancy:         SeverityS2,
	CodeInformalLanguage:           SeverityS2,
	CodeMissingDuration:            SeverityS2,
}

// SeverityFor returns the fixed severity for a code and whether the code is
// part of the closed taxonomy.
func SeverityFor(code IssueCode) (Severity, bool) {
	sev, ok := severityByCode[code]
	return sev, ok
}

// IssueCodes returns every valid code grouped under its severity.
func IssueCodes() map[Severity][]IssueCode {
	out := map[Severity][]IssueCode{}
	for code, sev := range severityByCode {
		out[sev] = append(out[sev], code)
	}
	return out
}

// Issue is a detected defect in the draft, a claim, or a binding.
type Issue struct {
	ID             string     `json:"id"`
	RunID          string     `json:"run_id"`
	Code           IssueCode  `json:"code"`
	Severity       Severity   `json:"severity"`
	Message        string     `json:"message"`
	LineNumber     int        `json:"line_number,omitempty"`
	ClaimID        string     `json:"claim_id,omitempty"`
	SourceID       string     `json:"source_id,omitempty"`
	AutoDetected   bool       `json:"auto_detected"`
	Resolved       bool       `json:"resolved"`
	ResolutionNote string     `json:"resolution_note,omitempty"` // Set by the manual-review workflow, never here
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// NewIssue constructs a validated issue. The severity is derived from the
// code; an unknown code or empty message is a construction error.
func NewIssue(runID string, code IssueCode, message string) (Issue, error) {
	sev, ok := severityByCode[code]
	if !ok {
		return Issue{}, fmt.Errorf("unknown issue code %q", code)
	}
	if strings.TrimSpace(message) == "" {
		return Issue{}, fmt.Errorf("issue message must not be empty")
	}
	return Issue{
		ID:           uuid.NewString(),
		RunID:        runID,
		Code:         code,
		Severity:     sev,
		Message:      message,
		AutoDetected: true,
		CreatedAt:    time.Now().UTC(),
	}, nil
}
