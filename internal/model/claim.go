package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ClaimType categorizes the nature of an extracted claim
type ClaimType string

const (
	ClaimTypeDose             ClaimType = "dose"             // Drug dosing statement
	ClaimTypeThreshold        ClaimType = "threshold"        // Clinical score or vital-sign cutoff
	ClaimTypeRecommendation   ClaimType = "recommendation"   // Modal-verb recommendation (bør/skal/...)
	ClaimTypeContraindication ClaimType = "contraindication" // Prohibition statement
	ClaimTypeRedFlag          ClaimType = "red_flag"         // Urgent-escalation statement
	ClaimTypeAlgorithmStep    ClaimType = "algorithm_step"   // Numbered/labeled procedure step
)

// ClaimTypes lists every claim type in a fixed order.
var ClaimTypes = []ClaimType{
	ClaimTypeDose,
	ClaimTypeThreshold,
	ClaimTypeRecommendation,
	ClaimTypeContraindication,
	ClaimTypeRedFlag,
	ClaimTypeAlgorithmStep,
}

// Claim represents a discrete, independently verifiable assertion extracted
// from generated procedure text. Claims are immutable after extraction.
type Claim struct {
	ID              string    `json:"id"`
	RunID           string    `json:"run_id"`
	ClaimType       ClaimType `json:"claim_type"`
	Text            string    `json:"text"`
	NormalizedValue string    `json:"normalized_value,omitempty"` // First numeric token, e.g. "50"
	Unit            string    `json:"unit,omitempty"`             // Canonical unit, e.g. "mg/kg/d"
	SourceRefs      []string  `json:"source_refs,omitempty"`      // Declared citation tokens, e.g. ["SRC001"]
	LineNumber      int       `json:"line_number"`                // 1-based line in the draft
	Confidence      float64   `json:"confidence"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewClaim constructs a validated claim. Construction is the only place
// claim invariants are enforced; downstream consumers may assume them.
func NewClaim(runID string, claimType ClaimType, text string, lineNumber int, confidence float64) (Claim, error) {
	if strings.TrimSpace(text) == "" {
		return Claim{}, fmt.Errorf("claim text must not be empty")
	}
	if lineNumber < 1 {
		return Claim{}, fmt.Errorf("claim line number must be >= 1, got %d", lineNumber)
	}
	if confidence < 0 || confidence > 1 {
		return Claim{}, fmt.Errorf("claim confidence must be in [0,1], got %g", confidence)
	}
	return Claim{
		ID:         uuid.NewString(),
		RunID:      runID,
		ClaimType:  claimType,
		Text:       text,
		LineNumber: lineNumber,
		Confidence: confidence,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// Excerpt returns the claim text shortened for issue messages.
func (c Claim) Excerpt(max int) string {
	if max <= 0 || len(c.Text) <= max {
		return c.Text
	}
	return c.Text[:max] + "..."
}
