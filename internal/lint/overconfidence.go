package lint

import (
	"fmt"
	"strings"

	"claimgate/internal/model"
)

// strongModal marks a claim as categorical: such claims need solid evidence.
var strongModals = []string{"skal", "altid", "aldrig", "må ikke", "må aldrig"}

// informalPhrases have no place in a clinical procedure document.
var informalPhrases = []string{
	"en masse", "rigtig mange", "sådan cirka", "stort set altid",
	"tit og ofte", "en del gange", "plejer at",
}

// OverconfidenceLinter flags categorical claims resting on weak evidence and
// informal register in the draft.
type OverconfidenceLinter struct {
	weakScore float64
}

// NewOverconfidenceLinter creates the linter; bindings scoring below
// weakScore count as weak support.
func NewOverconfidenceLinter(weakScore float64) *OverconfidenceLinter {
	return &OverconfidenceLinter{weakScore: weakScore}
}

func (l *OverconfidenceLinter) Name() string { return "overconfidence" }

func (l *OverconfidenceLinter) Description() string {
	return "Flags categorical statements with weak evidence and informal language"
}

func (l *OverconfidenceLinter) Lint(ctx Context) ([]model.Issue, error) {
	var issues []model.Issue
	linksByClaim := ctx.LinksByClaim()

	for _, claim := range ctx.Claims {
		if !isStrongClaim(claim.Text) {
			continue
		}
		links := linksByClaim[claim.ID]
		if len(links) == 0 {
			// Unbound claims belong to the coverage linter.
			continue
		}
		best := 0.0
		for _, link := range links {
			if link.BindingScore > best {
				best = link.BindingScore
			}
		}
		if best >= l.weakScore {
			continue
		}
		issue, err := model.NewIssue(ctx.RunID, model.CodeWeakEvidenceForStrongClaim,
			fmt.Sprintf("categorical claim has only weak evidence (best binding %.2f): %q",
				best, claim.Excerpt(60)))
		if err != nil {
			return nil, err
		}
		issue.ClaimID = claim.ID
		issue.LineNumber = claim.LineNumber
		issues = append(issues, issue)
	}

	reported := make(map[string]bool)
	for lineNo, line := range strings.Split(ctx.DraftText, "\n") {
		lower := strings.ToLower(line)
		for _, phrase := range informalPhrases {
			if reported[phrase] || !strings.Contains(lower, phrase) {
				continue
			}
			reported[phrase] = true
			issue, err := model.NewIssue(ctx.RunID, model.CodeInformalLanguage,
				fmt.Sprintf("informal phrasing %q in procedure text", phrase))
			if err != nil {
				return nil, err
			}
			issue.LineNumber = lineNo + 1
			issues = append(issues, issue)
		}
	}
	return issues, nil
}

func isStrongClaim(text string) bool {
	lower := strings.ToLower(text)
	for _, modal := range strongModals {
		if strings.Contains(lower, modal) {
			return true
		}
	}
	return false
}
