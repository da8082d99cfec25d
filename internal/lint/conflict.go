package lint

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"claimgate/internal/model"
)

var (
	pediatricMarkers = []string{"børn", "barn", "pædiatrisk", "spædbørn", "neonatal"}
	adultMarkers     = []string{"voksne", "voksen"}
)

var drugTokenRe = regexp.MustCompile(`(?i)^[^\p{L}]*(\p{L}{5,})`)

// ConflictLinter detects dose claims that contradict each other, doses
// applied across age groups, and redundant evidence behind a single claim.
type ConflictLinter struct {
	redundancyThreshold int
}

// NewConflictLinter creates the conflict linter. A claim with more than
// redundancyThreshold links into one source is reported as redundant.
func NewConflictLinter(redundancyThreshold int) *ConflictLinter {
	if redundancyThreshold <= 0 {
		redundancyThreshold = 4
	}
	return &ConflictLinter{redundancyThreshold: redundancyThreshold}
}

func (l *ConflictLinter) Name() string { return "conflict_detection" }

func (l *ConflictLinter) Description() string {
	return "Detects conflicting doses, age-group dosing mixups, and redundant evidence"
}

func (l *ConflictLinter) Lint(ctx Context) ([]model.Issue, error) {
	issues, err := l.doseConflicts(ctx)
	if err != nil {
		return nil, err
	}

	redundancy, err := l.evidenceRedundancy(ctx)
	if err != nil {
		return nil, err
	}
	return append(issues, redundancy...), nil
}

// doseConflicts groups dose claims by their leading drug token and compares
// values within each (drug, unit) group.
func (l *ConflictLinter) doseConflicts(ctx Context) ([]model.Issue, error) {
	type doseKey struct {
		drug string
		unit string
	}
	groups := make(map[doseKey][]model.Claim)
	var order []doseKey

	for _, claim := range ctx.Claims {
		if claim.ClaimType != model.ClaimTypeDose || claim.Unit == "" || claim.NormalizedValue == "" {
			continue
		}
		m := drugTokenRe.FindStringSubmatch(claim.Text)
		if m == nil {
			continue
		}
		key := doseKey{drug: strings.ToLower(m[1]), unit: claim.Unit}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], claim)
	}

	var issues []model.Issue
	for _, key := range order {
		claims := groups[key]
		if len(claims) < 2 {
			continue
		}

		// Differing values for the same drug and unit are an S0 conflict.
		first := claims[0]
		for _, other := range claims[1:] {
			if other.NormalizedValue == first.NormalizedValue {
				continue
			}
			issue, err := model.NewIssue(ctx.RunID, model.CodeConflictingDoses,
				fmt.Sprintf("conflicting doses for %s: %s %s (line %d) vs %s %s (line %d)",
					key.drug, first.NormalizedValue, first.Unit, first.LineNumber,
					other.NormalizedValue, other.Unit, other.LineNumber))
			if err != nil {
				return nil, err
			}
			issue.ClaimID = other.ID
			issue.LineNumber = other.LineNumber
			issues = append(issues, issue)
			break
		}

		// The identical dose stated for both a pediatric and an adult group
		// is the classic copy-paste defect.
		if conflictClaim, ok := ageGroupMix(claims); ok {
			issue, err := model.NewIssue(ctx.RunID, model.CodeAgeGroupConflict,
				fmt.Sprintf("same %s dose stated for both pediatric and adult groups: %q",
					key.drug, conflictClaim.Excerpt(60)))
			if err != nil {
				return nil, err
			}
			issue.ClaimID = conflictClaim.ID
			issue.LineNumber = conflictClaim.LineNumber
			issues = append(issues, issue)
		}
	}
	return issues, nil
}

// ageGroupMix finds two claims with the same value where one targets
// children and the other adults, and returns the adult-side claim.
func ageGroupMix(claims []model.Claim) (model.Claim, bool) {
	for _, a := range claims {
		if !mentionsAny(a.Text, pediatricMarkers) {
			continue
		}
		for _, b := range claims {
			if b.ID == a.ID || b.NormalizedValue != a.NormalizedValue {
				continue
			}
			if mentionsAny(b.Text, adultMarkers) {
				return b, true
			}
		}
	}
	return model.Claim{}, false
}

func mentionsAny(text string, markers []string) bool {
	lower := strings.ToLower(text)
	for _, marker := range markers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// evidenceRedundancy reports claims backed by an excessive number of chunks
// from one and the same source.
func (l *ConflictLinter) evidenceRedundancy(ctx Context) ([]model.Issue, error) {
	chunkByID := ctx.ChunkByID()
	perClaimSource := make(map[string]map[string]int)
	var claimOrder []string
	for _, link := range ctx.Links {
		chunk, ok := chunkByID[link.EvidenceChunkID]
		if !ok {
			continue
		}
		if _, seen := perClaimSource[link.ClaimID]; !seen {
			perClaimSource[link.ClaimID] = make(map[string]int)
			claimOrder = append(claimOrder, link.ClaimID)
		}
		perClaimSource[link.ClaimID][chunk.SourceID]++
	}

	var issues []model.Issue
	for _, claimID := range claimOrder {
		sources := make([]string, 0, len(perClaimSource[claimID]))
		for sourceID := range perClaimSource[claimID] {
			sources = append(sources, sourceID)
		}
		sort.Strings(sources)
		for _, sourceID := range sources {
			count := perClaimSource[claimID][sourceID]
			if count <= l.redundancyThreshold {
				continue
			}
			issue, err := model.NewIssue(ctx.RunID, model.CodeEvidenceRedundancy,
				fmt.Sprintf("claim is backed by %d chunks from the single source %s", count, sourceID))
			if err != nil {
				return nil, err
			}
			issue.ClaimID = claimID
			issue.SourceID = sourceID
			issues = append(issues, issue)
			break
		}
	}
	return issues, nil
}
