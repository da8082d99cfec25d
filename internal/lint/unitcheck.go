package lint

import (
	"fmt"
	"regexp"
	"strings"

	"claimgate/internal/model"
	"claimgate/internal/units"
)

var (
	valueUnitRe = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*([a-zµμ%æøå]+(?:/[a-zµμæøå]+)*)`)
	durationRe  = regexp.MustCompile(`(?i)\bi\s+\d+(?:\s*-\s*\d+)?\s*(dage|døgn|uger|dag|uge)\b`)
)

// variantSpellings are unit spellings the style guide considers non-canonical
// in draft prose, reported as advisory term variants.
var variantSpellings = []string{"mcg", "mikrogram", "microgram", "milligram", "pct"}

// antibiotics whose dosing lines are expected to state a treatment duration.
var durationDrugs = []string{
	"amoxicillin", "penicillin", "ampicillin", "cefuroxim", "gentamicin",
	"metronidazol", "clarithromycin", "dicloxacillin", "pivmecillinam",
}

// UnitCheckLinter compares claim units against the units found in their bound
// evidence, and flags non-canonical spellings and missing durations.
type UnitCheckLinter struct{}

// NewUnitCheckLinter creates the unit linter.
func NewUnitCheckLinter() *UnitCheckLinter {
	return &UnitCheckLinter{}
}

func (l *UnitCheckLinter) Name() string { return "unit_check" }

func (l *UnitCheckLinter) Description() string {
	return "Detects claim/evidence unit disagreement, unit term variants, and missing treatment durations"
}

func (l *UnitCheckLinter) Lint(ctx Context) ([]model.Issue, error) {
	var issues []model.Issue

	linksByClaim := ctx.LinksByClaim()
	chunkByID := ctx.ChunkByID()

	for _, claim := range ctx.Claims {
		if claim.ClaimType != model.ClaimTypeDose {
			continue
		}

		if claim.Unit != "" && claim.NormalizedValue != "" {
			if mismatch, evidenceUnit := l.evidenceUnitMismatch(claim, linksByClaim[claim.ID], chunkByID); mismatch {
				issue, err := model.NewIssue(ctx.RunID, model.CodeUnitMismatch,
					fmt.Sprintf("claim states %s %s but evidence states the value in %s: %q",
						claim.NormalizedValue, claim.Unit, evidenceUnit, claim.Excerpt(60)))
				if err != nil {
					return nil, err
				}
				issue.ClaimID = claim.ID
				issue.LineNumber = claim.LineNumber
				issues = append(issues, issue)
			}
		}

		if l.needsDuration(claim) {
			issue, err := model.NewIssue(ctx.RunID, model.CodeMissingDuration,
				fmt.Sprintf("antibiotic dose without treatment duration: %q", claim.Excerpt(60)))
			if err != nil {
				return nil, err
			}
			issue.ClaimID = claim.ID
			issue.LineNumber = claim.LineNumber
			issues = append(issues, issue)
		}
	}

	variantIssues, err := l.termVariants(ctx)
	if err != nil {
		return nil, err
	}
	issues = append(issues, variantIssues...)
	return issues, nil
}

// evidenceUnitMismatch reports whether any bound chunk states the claim's
// numeric value with a different canonical unit.
func (l *UnitCheckLinter) evidenceUnitMismatch(claim model.Claim, links []model.ClaimEvidenceLink, chunkByID map[string]model.EvidenceChunk) (bool, string) {
	value := strings.ReplaceAll(claim.NormalizedValue, ",", ".")
	sameValueSeen := false
	mismatchUnit := ""

	for _, link := range links {
		chunk, ok := chunkByID[link.EvidenceChunkID]
		if !ok {
			continue
		}
		for _, m := range valueUnitRe.FindAllStringSubmatch(chunk.Text, -1) {
			if strings.ReplaceAll(m[1], ",", ".") != value {
				continue
			}
			if !units.KnownUnit(m[2]) {
				continue
			}
			canon := units.NormalizeUnit(m[2])
			if canon == claim.Unit {
				return false, "" // at least one agreeing statement wins
			}
			sameValueSeen = true
			mismatchUnit = canon
		}
	}
	return sameValueSeen, mismatchUnit
}

// needsDuration reports whether the dose claim names an antibiotic but no
// treatment duration.
func (l *UnitCheckLinter) needsDuration(claim model.Claim) bool {
	lower := strings.ToLower(claim.Text)
	named := false
	for _, drug := range durationDrugs {
		if strings.Contains(lower, drug) {
			named = true
			break
		}
	}
	if !named {
		return false
	}
	return !durationRe.MatchString(lower)
}

// termVariants reports non-canonical unit spellings in the draft, one issue
// per distinct variant.
func (l *UnitCheckLinter) termVariants(ctx Context) ([]model.Issue, error) {
	var issues []model.Issue
	reported := make(map[string]bool)

	for lineNo, line := range strings.Split(ctx.DraftText, "\n") {
		lower := strings.ToLower(line)
		for _, variant := range variantSpellings {
			if reported[variant] || !containsWord(lower, variant) {
				continue
			}
			reported[variant] = true
			issue, err := model.NewIssue(ctx.RunID, model.CodeTermVariant,
				fmt.Sprintf("non-canonical unit spelling %q, canonical form is %q",
					variant, units.NormalizeUnit(variant)))
			if err != nil {
				return nil, err
			}
			issue.LineNumber = lineNo + 1
			issues = append(issues, issue)
		}
	}
	return issues, nil
}

func containsWord(haystack, word string) bool {
	idx := strings.Index(haystack, word)
	for idx >= 0 {
		before := idx == 0 || !isLetter(haystack[idx-1])
		afterIdx := idx + len(word)
		after := afterIdx >= len(haystack) || !isLetter(haystack[afterIdx])
		if before && after {
			return true
		}
		next := strings.Index(haystack[idx+1:], word)
		if next < 0 {
			return false
		}
		idx = idx + 1 + next
	}
	return false
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
