// Package extract scans generated procedure text and emits typed claims.
package extract

import (
	"regexp"
	"strings"

	"claimgate/internal/model"
	"claimgate/internal/units"
)

// Base confidence per pattern family. Declared citations add a fixed bonus on
// top of the otherwise-identical unsourced line, capped at 1.0.
const (
	confDose             = 0.80
	confThreshold        = 0.75
	confRecommendation   = 0.65
	confContraindication = 0.75
	confRedFlag          = 0.70
	confAlgorithmStep    = 0.60

	citationBonus = 0.15
	routeBonus    = 0.05
)

// ClaimExtractor turns draft text into typed claims using a fixed rule set.
type ClaimExtractor struct {
	rules *Rules
}

// NewClaimExtractor creates an extractor using the default pattern tables.
func NewClaimExtractor() *ClaimExtractor {
	return NewClaimExtractorWithRules(DefaultRules())
}

// NewClaimExtractorWithRules creates an extractor with injected rules.
func NewClaimExtractorWithRules(rules *Rules) *ClaimExtractor {
	return &ClaimExtractor{rules: rules}
}

// Extract scans text line by line (1-based) and emits claims. Blank lines and
// markdown headings are skipped. A line may yield several claims. Extraction
// never fails: unparseable or empty input yields an empty list.
func (e *ClaimExtractor) Extract(runID, text string) []model.Claim {
	claims := []model.Claim{}
	if strings.TrimSpace(text) == "" {
		return claims
	}

	for i, rawLine := range strings.Split(text, "\n") {
		lineNo := i + 1
		line := strings.TrimSpace(rawLine)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		refs, body := e.splitCitations(line)
		claims = append(claims, e.extractLine(runID, body, lineNo, refs)...)
	}
	return claims
}

// ExtractAll is an alias of Extract.
func (e *ClaimExtractor) ExtractAll(runID, text string) []model.Claim {
	return e.Extract(runID, text)
}

// splitCitations parses trailing bracketed reference tokens off a line and
// returns (refs, line without the trailing markers).
func (e *ClaimExtractor) splitCitations(line string) ([]string, string) {
	loc := e.rules.Citation.FindStringIndex(line)
	if loc == nil {
		return nil, line
	}
	trailer := line[loc[0]:]
	body := strings.TrimSpace(line[:loc[0]])
	if body == "" {
		// A line that is nothing but citation markers has no claim body.
		return nil, line
	}
	var refs []string
	for _, m := range e.rules.CitationRef.FindAllStringSubmatch(trailer, -1) {
		refs = append(refs, m[1])
	}
	return refs, body
}

func (e *ClaimExtractor) extractLine(runID, line string, lineNo int, refs []string) []model.Claim {
	var out []model.Claim

	add := func(claimType model.ClaimType, base float64, value, unit string) {
		conf := base
		if len(refs) > 0 {
			conf += citationBonus
		}
		if conf > 1.0 {
			conf = 1.0
		}
		claim, err := model.NewClaim(runID, claimType, line, lineNo, conf)
		if err != nil {
			// Line survived the blank check, so construction cannot fail;
			// degrade to dropping the claim rather than aborting the pass.
			return
		}
		claim.NormalizedValue = value
		claim.Unit = unit
		claim.SourceRefs = refs
		out = append(out, claim)
	}

	// Dose family. Every unit match on the line is its own claim ("500 mg
	// eller 1 g" yields two).
	doseMatches := e.rules.Dose.FindAllStringSubmatch(line, -1)
	doseBase := confDose
	if e.rules.DoseRoute.MatchString(line) {
		doseBase += routeBonus
	}
	for _, m := range doseMatches {
		unit := m[2] + stripSpaces(m[3])
		add(model.ClaimTypeDose, doseBase, m[1], units.NormalizeUnit(unit))
	}
	if len(doseMatches) == 0 {
		// Distribution phrases carry dosing semantics without a unit.
		for _, re := range e.rules.DoseDistribution {
			if m := re.FindStringSubmatch(line); m != nil {
				add(model.ClaimTypeDose, confDose, m[1], "")
				break
			}
		}
	}

	if m := e.rules.Threshold.FindStringSubmatch(line); m != nil {
		// The unit capture is loose; drop prose words that landed in it.
		unit := ""
		if units.KnownUnit(m[4]) {
			unit = units.NormalizeUnit(m[4])
		}
		add(model.ClaimTypeThreshold, confThreshold, m[3], unit)
	}

	if e.rules.Recommendation.MatchString(line) {
		add(model.ClaimTypeRecommendation, confRecommendation, "", "")
	}

	lower := strings.ToLower(line)
	if matchesTrigger(lower, e.rules.ContraindicationTriggers) {
		add(model.ClaimTypeContraindication, confContraindication, "", "")
	}
	if matchesTrigger(lower, e.rules.RedFlagTriggers) {
		add(model.ClaimTypeRedFlag, confRedFlag, "", "")
	}

	if e.rules.AlgorithmStep.MatchString(line) {
		add(model.ClaimTypeAlgorithmStep, confAlgorithmStep, "", "")
	}

	return out
}

func matchesTrigger(lower string, triggers []string) bool {
	for _, trigger := range triggers {
		if strings.Contains(lower, trigger) {
			return true
		}
	}
	return false
}

var spaceRe = regexp.MustCompile(`\s+`)

func stripSpaces(s string) string {
	return spaceRe.ReplaceAllString(s, "")
}
