package model

import (
	"strconv"
	"strings"
	"time"
)

// Column orders for the external relational store. The packaging stage writes
// rows in exactly this order; changing it is a schema migration there.

// IssueColumns is the persisted column order for issues.
var IssueColumns = []string{
	"id", "run_id", "code", "severity", "message", "line_number", "claim_id",
	"source_id", "auto_detected", "resolved", "resolution_note", "resolved_at",
	"created_at",
}

// ClaimColumns is the persisted column order for claims.
var ClaimColumns = []string{
	"id", "run_id", "claim_type", "text", "normalized_value", "unit",
	"source_refs", "line_number", "confidence", "created_at",
}

// GateColumns is the persisted column order for gates.
var GateColumns = []string{
	"id", "run_id", "gate_type", "status", "issues_checked", "issues_failed",
	"message", "created_at", "evaluated_at",
}

// Row renders the issue in IssueColumns order.
func (i Issue) Row() []string {
	resolvedAt := ""
	if i.ResolvedAt != nil {
		resolvedAt = i.ResolvedAt.Format(time.RFC3339)
	}
	line := ""
	if i.LineNumber > 0 {
		line = strconv.Itoa(i.LineNumber)
	}
	return []string{
		i.ID, i.RunID, string(i.Code), string(i.Severity), i.Message, line,
		i.ClaimID, i.SourceID, strconv.FormatBool(i.AutoDetected),
		strconv.FormatBool(i.Resolved), i.ResolutionNote, resolvedAt,
		i.CreatedAt.Format(time.RFC3339),
	}
}

// Row renders the claim in ClaimColumns order.
func (c Claim) Row() []string {
	return []string{
		c.ID, c.RunID, string(c.ClaimType), c.Text, c.NormalizedValue, c.Unit,
		strings.Join(c.SourceRefs, ";"), strconv.Itoa(c.LineNumber),
		strconv.FormatFloat(c.Confidence, 'f', -1, 64),
		c.CreatedAt.Format(time.RFC3339),
	}
}

// Row renders the gate in GateColumns order.
func (g Gate) Row() []string {
	evaluatedAt := ""
	if g.EvaluatedAt != nil {
		evaluatedAt = g.EvaluatedAt.Format(time.RFC3339)
	}
	return []string{
		g.ID, g.RunID, string(g.GateType), string(g.Status),
		strconv.Itoa(g.IssuesChecked), strconv.Itoa(g.IssuesFailed),
		g.Message, g.CreatedAt.Format(time.RFC3339), evaluatedAt,
	}
}
