package model

import (
	"time"

	"github.com/google/uuid"
)

// GateType identifies one of the three release checkpoints
type GateType string

const (
	GateS0Safety  GateType = "s0_safety"  // Fails on any S0 issue
	GateS1Quality GateType = "s1_quality" // Fails on any S1 issue
	GateFinal     GateType = "final"      // Fails if either tier gate fails
)

// GateStatus is the verdict of a gate
type GateStatus string

const (
	GateStatusPass    GateStatus = "pass"
	GateStatusFail    GateStatus = "fail"
	GateStatusPending GateStatus = "pending"
)

// Gate is an aggregate pass/fail checkpoint computed from the current issue
// set. One fresh set of three gates is produced per evaluator invocation.
type Gate struct {
	ID            string     `json:"id"`
	RunID         string     `json:"run_id"`
	GateType      GateType   `json:"gate_type"`
	Status        GateStatus `json:"status"`
	IssuesChecked int        `json:"issues_checked"`
	IssuesFailed  int        `json:"issues_failed"`
	Message       string     `json:"message,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	EvaluatedAt   *time.Time `json:"evaluated_at,omitempty"` // Set iff status is pass or fail
}

// NewPendingGate creates a gate awaiting evaluation.
func NewPendingGate(runID string, gateType GateType) Gate {
	return Gate{
		ID:        uuid.NewString(),
		RunID:     runID,
		GateType:  gateType,
		Status:    GateStatusPending,
		CreatedAt: time.Now().UTC(),
	}
}
