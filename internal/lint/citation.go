package lint

import (
	"fmt"
	"regexp"
	"strings"

	"claimgate/internal/model"
)

var citationMarkerRe = regexp.MustCompile(`\[([A-Za-z0-9_\-]+)\]`)

// CitationIntegrityLinter checks that every citation in the draft and every
// source reference declared by a claim points at a source the retrieval
// stage actually supplied.
type CitationIntegrityLinter struct{}

// NewCitationIntegrityLinter creates the citation linter.
func NewCitationIntegrityLinter() *CitationIntegrityLinter {
	return &CitationIntegrityLinter{}
}

func (l *CitationIntegrityLinter) Name() string { return "citation_integrity" }

func (l *CitationIntegrityLinter) Description() string {
	return "Detects citation markers and claim references without a matching source"
}

func (l *CitationIntegrityLinter) Lint(ctx Context) ([]model.Issue, error) {
	var issues []model.Issue
	known := ctx.SourceIDs()

	// Source refs declared by claims: a bad ref is a hallucinated source.
	claimed := make(map[string]bool)
	for _, claim := range ctx.Claims {
		for _, ref := range claim.SourceRefs {
			claimed[ref] = true
			if known[ref] {
				continue
			}
			issue, err := model.NewIssue(ctx.RunID, model.CodeHallucinatedSource,
				fmt.Sprintf("claim cites source %s which was never retrieved: %q", ref, claim.Excerpt(60)))
			if err != nil {
				return nil, err
			}
			issue.ClaimID = claim.ID
			issue.SourceID = ref
			issue.LineNumber = claim.LineNumber
			issues = append(issues, issue)
		}
	}

	// Remaining markers in the draft that belong to no claim and no source
	// are orphans. One issue per marker occurrence line.
	seen := make(map[string]bool)
	for lineNo, line := range strings.Split(ctx.DraftText, "\n") {
		for _, m := range citationMarkerRe.FindAllStringSubmatch(line, -1) {
			ref := m[1]
			if known[ref] || claimed[ref] || seen[ref] {
				continue
			}
			seen[ref] = true
			issue, err := model.NewIssue(ctx.RunID, model.CodeOrphanCitation,
				fmt.Sprintf("citation [%s] has no matching source", ref))
			if err != nil {
				return nil, err
			}
			issue.SourceID = ref
			issue.LineNumber = lineNo + 1
			issues = append(issues, issue)
		}
	}
	return issues, nil
}
