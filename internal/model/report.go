package model

import "time"

// VerificationReport is the complete output of a verification run, handed to
// the packaging/persistence stage.
type VerificationReport struct {
	RunID          string    `json:"run_id"`
	ProcedureTitle string    `json:"procedure_title"`
	VerifiedAt     time.Time `json:"verified_at"`

	Claims        []Claim             `json:"claims"`
	Links         []ClaimEvidenceLink `json:"links"`
	UnboundClaims []Claim             `json:"unbound_claims"`
	Issues        []Issue             `json:"issues"`
	Gates         []Gate              `json:"gates"`

	Decision ReviseDecision `json:"decision"`

	// Iterations is an audit-only trail: what each revise-loop pass produced.
	// Each pass is evaluated fresh; entries are never merged.
	Iterations []IterationResult `json:"iterations,omitempty"`
}

// ReviseDecision is the revise-loop output bundle for one iteration.
type ReviseDecision struct {
	Iteration            int      `json:"iteration"`
	NeedsRevision        bool     `json:"needs_revision"`
	CanProceed           bool     `json:"can_proceed"`
	MaxIterationsReached bool     `json:"max_iterations_reached"`
	RevisionGuidance     []string `json:"revision_guidance,omitempty"`
}

// IterationResult summarizes one pass of the revise loop.
type IterationResult struct {
	Iteration       int              `json:"iteration"`
	ClaimCount      int              `json:"claim_count"`
	IssueCount      int              `json:"issue_count"`
	IssueBySeverity map[Severity]int `json:"issues_by_severity"`
	FinalGate       GateStatus       `json:"final_gate"`
	Decision        ReviseDecision   `json:"decision"`
}
