// Package revise decides whether a draft must be regenerated before release.
// The loop itself is externally driven: the orchestrator passes in the
// current iteration, gates, and issues on every pass, and nothing is carried
// between calls.
package revise

import (
	"fmt"
	"sort"

	"claimgate/internal/gate"
	"claimgate/internal/model"
)

// MaxIterations bounds the revise loop. At the cap the loop always returns a
// terminal non-revising state; release stays blocked through the gates.
const MaxIterations = 3

// State is the orchestrator-supplied input for one decision.
type State struct {
	Iteration int
	Gates     []model.Gate
	Issues    []model.Issue
}

// Outcome classifies the decision.
type Outcome string

const (
	OutcomeProceed      Outcome = "proceed"        // Final gate passed
	OutcomeContinue     Outcome = "continue"       // Failed, budget left: regenerate
	OutcomeStoppedAtMax Outcome = "stopped_at_max" // Failed at the iteration cap
)

// Decision is the full decision bundle. Gates and issues are passed through
// unchanged for downstream audit and packaging.
type Decision struct {
	Outcome              Outcome
	Iteration            int
	NeedsRevision        bool
	CanProceed           bool
	MaxIterationsReached bool
	RevisionGuidance     []string
	Gates                []model.Gate
	Issues               []model.Issue
}

// Loop is the bounded revise-loop state machine.
type Loop struct {
	maxIterations int
}

// NewLoop creates a loop with the default iteration bound.
func NewLoop() *Loop {
	return NewLoopWithMax(MaxIterations)
}

// NewLoopWithMax creates a loop with a custom bound; values below 1 fall
// back to the default.
func NewLoopWithMax(max int) *Loop {
	if max < 1 {
		max = MaxIterations
	}
	return &Loop{maxIterations: max}
}

// Decide evaluates one pass. It never fails: every input maps to one of the
// three outcomes.
func (l *Loop) Decide(state State) Decision {
	d := Decision{
		Iteration: state.Iteration,
		Gates:     state.Gates,
		Issues:    state.Issues,
	}

	if gate.CanRelease(state.Gates) {
		d.Outcome = OutcomeProceed
		d.CanProceed = true
		return d
	}

	if state.Iteration >= l.maxIterations {
		d.Outcome = OutcomeStoppedAtMax
		d.MaxIterationsReached = true
		return d
	}

	d.Outcome = OutcomeContinue
	d.NeedsRevision = true
	d.RevisionGuidance = Guidance(state.Issues)
	return d
}

// guidanceByCode turns a failing issue code into an actionable instruction
// for the regeneration stage. Exhaustive over the blocking codes.
var guidanceByCode = map[model.IssueCode]string{
	model.CodeOrphanCitation:             "remove or replace citations that reference no retrieved source",
	model.CodeHallucinatedSource:         "only cite sources present in the supplied evidence",
	model.CodeDoseWithoutEvidence:        "state doses only when the evidence supports them, with a citation",
	model.CodeThresholdWithoutEvidence:   "state clinical thresholds only with supporting evidence",
	model.CodeContraindicationUnbound:    "back every contraindication with cited evidence",
	model.CodeConflictingDoses:           "reconcile conflicting doses for the same drug into one consistent dose",
	model.CodeMissingMandatorySection:    "add the missing mandatory sections",
	model.CodeClaimBindingFailed:         "reword or source claims that match no evidence passage",
	model.CodeWeakEvidenceForStrongClaim: "soften categorical wording or cite stronger evidence",
	model.CodeOutdatedGuideline:          "prefer current guidelines over outdated sources",
	model.CodeTemplateIncomplete:         "fill in sections that are present but empty",
	model.CodeUnitMismatch:               "use the same units as the cited evidence",
	model.CodeAgeGroupConflict:           "separate pediatric and adult dosing explicitly",
	model.CodeLinterError:                "regenerate; an automated check could not complete",
}

// Guidance derives non-empty, deduplicated revision guidance from the
// blocking issues, one instruction per failing code, each prefixed with the
// code and its occurrence count.
func Guidance(issues []model.Issue) []string {
	counts := make(map[model.IssueCode]int)
	for _, issue := range issues {
		if issue.Severity == model.SeverityS2 {
			continue
		}
		counts[issue.Code]++
	}

	codes := make([]model.IssueCode, 0, len(counts))
	for code := range counts {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	out := make([]string, 0, len(codes))
	for _, code := range codes {
		text, ok := guidanceByCode[code]
		if !ok {
			text = "address the reported issue"
		}
		out = append(out, fmt.Sprintf("[%s x%d] %s", code, counts[code], text))
	}
	if len(out) == 0 {
		// A failing gate with no blocking issues cannot normally happen, but
		// guidance for a Continue decision must never be empty.
		out = append(out, "review the draft against the verification report")
	}
	return out
}
