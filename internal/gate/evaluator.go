// Package gate aggregates issues into pass/fail release gates. S0 and S1
// issues block release; S2 issues never influence any gate.
package gate

import (
	"fmt"
	"time"

	"claimgate/internal/model"
)

// Evaluator computes the three release gates from an issue set. Stateless;
// every Evaluate call produces a fresh gate set.
type Evaluator struct{}

// NewEvaluator creates a gate evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate returns the S0, S1, and Final gates, in that order.
func (e *Evaluator) Evaluate(runID string, issues []model.Issue) []model.Gate {
	counts := CountBySeverity(issues)

	s0 := e.tierGate(runID, model.GateS0Safety, counts[model.SeverityS0], "safety-critical")
	s1 := e.tierGate(runID, model.GateS1Quality, counts[model.SeverityS1], "quality-critical")

	final := model.NewPendingGate(runID, model.GateFinal)
	final.IssuesChecked = s0.IssuesChecked + s1.IssuesChecked
	final.IssuesFailed = s0.IssuesFailed + s1.IssuesFailed
	if s0.Status == model.GateStatusFail || s1.Status == model.GateStatusFail {
		final.Status = model.GateStatusFail
		final.Message = fmt.Sprintf("release blocked: %d blocking issue(s)", final.IssuesFailed)
	} else {
		final.Status = model.GateStatusPass
		final.Message = "all release gates passed"
	}
	now := time.Now().UTC()
	final.EvaluatedAt = &now

	return []model.Gate{s0, s1, final}
}

// tierGate evaluates one severity tier. Every issue of the tier both counts
// as checked and as failed: a blocking issue cannot partially pass.
func (e *Evaluator) tierGate(runID string, gateType model.GateType, count int, label string) model.Gate {
	g := model.NewPendingGate(runID, gateType)
	g.IssuesChecked = count
	g.IssuesFailed = count
	if count > 0 {
		g.Status = model.GateStatusFail
		g.Message = fmt.Sprintf("%d %s issue(s) found", count, label)
	} else {
		g.Status = model.GateStatusPass
		g.Message = fmt.Sprintf("no %s issues", label)
	}
	now := time.Now().UTC()
	g.EvaluatedAt = &now
	return g
}

// CanRelease reports whether the Final gate passed.
func CanRelease(gates []model.Gate) bool {
	for _, g := range gates {
		if g.GateType == model.GateFinal {
			return g.Status == model.GateStatusPass
		}
	}
	return false
}

// FinalGate returns the Final gate from a gate set, if present.
func FinalGate(gates []model.Gate) (model.Gate, bool) {
	for _, g := range gates {
		if g.GateType == model.GateFinal {
			return g, true
		}
	}
	return model.Gate{}, false
}

// CountBySeverity returns issue counts with a zero-filled entry for every
// severity, whether or not it occurs in the input.
func CountBySeverity(issues []model.Issue) map[model.Severity]int {
	counts := make(map[model.Severity]int, len(model.Severities))
	for _, sev := range model.Severities {
		counts[sev] = 0
	}
	for _, issue := range issues {
		counts[issue.Severity]++
	}
	return counts
}
