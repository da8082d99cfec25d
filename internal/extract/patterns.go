package extract

import "regexp"

// Rules holds the compiled pattern tables for one extraction pass. The tables
// are compiled once at process start and never mutated; extraction is a pure
// function of (text, rules), which keeps parallel test runs deterministic.
type Rules struct {
	// Dose family: numeric dose with unit, optionally weight-based with a
	// per-day suffix (50 mg/kg/døgn). Danish distribution phrases cover
	// dosing lines that carry no unit of their own.
	Dose             *regexp.Regexp
	DoseDistribution []*regexp.Regexp
	DoseRoute        *regexp.Regexp

	// Threshold family: named clinical score or vital sign, comparator, number.
	Threshold *regexp.Regexp

	// Recommendation family: Danish modal-verb opener followed by a verb phrase.
	Recommendation *regexp.Regexp

	// Contraindication and RedFlag families: lexical phrase triggers.
	ContraindicationTriggers []string
	RedFlagTriggers          []string

	// AlgorithmStep family: line-initial numbered, lettered, ordinal-word or
	// labeled step marker, each requiring a trailing separator. Anchoring at
	// the line start keeps bare mid-sentence numbers ("mellem 2 og 4") out.
	AlgorithmStep *regexp.Regexp

	// Citation: one or more trailing bracketed reference tokens.
	Citation    *regexp.Regexp
	CitationRef *regexp.Regexp
}

// DefaultRules returns the standard pattern tables for Danish clinical
// procedure drafts.
func DefaultRules() *Rules {
	return defaultRules
}

var defaultRules = &Rules{
	Dose: regexp.MustCompile(
		`(?i)\b(\d+(?:[.,]\d+)?)\s*(mg|g|mcg|µg|μg|ml|ie)((?:\s*/\s*kg)(?:\s*/\s*(?:d|dag|døgn))?)?\b`),
	DoseDistribution: []*regexp.Regexp{
		regexp.MustCompile(`(?i)fordelt på\s+(\d+)(?:\s*-\s*(\d+))?\s+doser`),
		regexp.MustCompile(`(?i)\bx\s*(\d+)\s*gange\b`),
		regexp.MustCompile(`(?i)\bhver\s+(\d+)\.?\s*time\b`),
	},
	DoseRoute: regexp.MustCompile(`(?i)\b(i\.?v\.?|p\.?o\.?)(\s|$)`),

	Threshold: regexp.MustCompile(
		`(?i)\b(CRP|GCS|CURB-65|qSOFA|SpO2|saturation|temperatur|puls|blodtryk|BT|respirationsfrekvens|alder)\b[^0-9<>≤≥]{0,20}?(>=|<=|[<>]|≥|≤)\s*(\d+(?:[.,]\d+)?)\s*([a-zµμ%æøå][a-zµμ%æøå/]*)?`),

	Recommendation: regexp.MustCompile(
		`(?i)^(?:[-*•]\s*)?(?:\p{L}+\s+){0,3}(bør|skal|anbefales|tilrådes|indiceres|indicerer)\s+\p{L}+`),

	ContraindicationTriggers: []string{
		"kontraindiceret",
		"kontraindikation",
		"må ikke",
		"bør ikke",
		"frarådes",
		"undgå ved",
		"ikke anvendes",
	},
	RedFlagTriggers: []string{
		"ring 112",
		"akut indlæggelse",
		"indlægges akut",
		"akut henvisning",
		"straks",
		"omgående",
		"øjeblikkelig",
	},

	AlgorithmStep: regexp.MustCompile(
		`(?i)^\s*(?:\d{1,2}[.:)]|\pL[.)]|(?:første|anden|andet|tredje|fjerde|femte|sjette|syvende|ottende|niende|tiende)[.:]?|(?:trin|fase|del)\s+\d+[.:]?)\s+\S`),

	Citation:    regexp.MustCompile(`(?:\s*\[[A-Za-z0-9_\-]+\])+\s*$`),
	CitationRef: regexp.MustCompile(`\[([A-Za-z0-9_\-]+)\]`),
}
