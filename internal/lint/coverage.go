package lint

import (
	"fmt"

	"claimgate/internal/model"
)

// unboundCode maps claim type to the issue code for an unbound claim. The
// mapping is exhaustive over the closed ClaimType set: safety-bearing claim
// types escalate to S0 codes, the rest report a plain binding failure.
var unboundCode = map[model.ClaimType]model.IssueCode{
	model.ClaimTypeDose:             model.CodeDoseWithoutEvidence,
	model.ClaimTypeThreshold:        model.CodeThresholdWithoutEvidence,
	model.ClaimTypeContraindication: model.CodeContraindicationUnbound,
	model.ClaimTypeRecommendation:   model.CodeClaimBindingFailed,
	model.ClaimTypeRedFlag:          model.CodeClaimBindingFailed,
	model.ClaimTypeAlgorithmStep:    model.CodeClaimBindingFailed,
}

// ClaimCoverageLinter emits exactly one issue per unbound claim. Severity is
// determined solely by the claim type.
type ClaimCoverageLinter struct{}

// NewClaimCoverageLinter creates the coverage linter.
func NewClaimCoverageLinter() *ClaimCoverageLinter {
	return &ClaimCoverageLinter{}
}

func (l *ClaimCoverageLinter) Name() string { return "claim_coverage" }

func (l *ClaimCoverageLinter) Description() string {
	return "Reports claims the binder could not tie to any evidence chunk"
}

func (l *ClaimCoverageLinter) Lint(ctx Context) ([]model.Issue, error) {
	var issues []model.Issue
	for _, claim := range ctx.UnboundClaims {
		code, ok := unboundCode[claim.ClaimType]
		if !ok {
			return nil, fmt.Errorf("unhandled claim type %q", claim.ClaimType)
		}
		issue, err := model.NewIssue(ctx.RunID, code,
			fmt.Sprintf("no supporting evidence for %s claim: %q", claim.ClaimType, claim.Excerpt(80)))
		if err != nil {
			return nil, err
		}
		issue.ClaimID = claim.ID
		issue.LineNumber = claim.LineNumber
		issues = append(issues, issue)
	}
	return issues, nil
}
