// Package units canonicalizes medical units so doses extracted from drafts
// can be compared with doses found in evidence text.
package units

import (
	"regexp"
	"strings"
)

// primaryAliases maps standalone unit spellings to their canonical form.
// Lookup happens on lowercased, trimmed tokens.
var primaryAliases = map[string]string{
	"mikrogram": "μg",
	"microgram": "μg",
	"mcg":       "μg",
	"ug":        "μg",
	"µg":        "μg", // micro sign, distinct codepoint from Greek mu
	"μg":        "μg",
	"milligram": "mg",
	"mg":        "mg",
	"gram":      "g",
	"g":         "g",
	"milliliter": "ml",
	"millilitre": "ml",
	"ml":         "ml",
	"ie":         "IU", // Danish "internationale enheder"
	"iu":         "IU",
	"enheder": "U",
	"enhed":   "U",
	"units":   "U",
	"unit":    "U",
	"u":       "U",
	"procent": "%",
	"pct":     "%",
	"percent": "%",
	"%":       "%",
}

// suffixAliases are only valid as compound-unit suffixes (mg/kg/d); standalone
// they are ordinary Danish words and must not be touched.
var suffixAliases = map[string]string{
	"kg":   "kg",
	"d":    "d",
	"dag":  "d",
	"døgn": "d",
	"h":    "h",
	"t":    "h",
	"time": "h",
	"min":  "min",
}

// canonical spellings map to themselves after lowercasing, which is what
// makes NormalizeUnit idempotent ("IU" lowercases to "iu" and maps back).

// NormalizeUnit canonicalizes a unit string. Compound units are normalized
// token by token with separators preserved. Unknown tokens pass through
// unchanged; empty input is returned as is. Idempotent.
func NormalizeUnit(unit string) string {
	if strings.TrimSpace(unit) == "" {
		return unit
	}
	lowered := strings.ToLower(strings.TrimSpace(unit))
	parts := strings.Split(lowered, "/")
	for i, part := range parts {
		token := strings.TrimSpace(part)
		if canon, ok := primaryAliases[token]; ok {
			parts[i] = canon
			continue
		}
		if i > 0 {
			if canon, ok := suffixAliases[token]; ok {
				parts[i] = canon
				continue
			}
		}
		parts[i] = token
	}
	return strings.Join(parts, "/")
}

// extraUnits are measurement tokens that are valid units but have no alias
// canonicalization of their own (vital signs, ages, lab units).
var extraUnits = map[string]bool{
	"år": true, "mmhg": true, "mmol": true, "l": true, "kpa": true,
	"cm": true, "m": true, "kg": true, "min": true, "sek": true,
}

// KnownUnit reports whether every slash-separated token of s is a recognized
// unit spelling. Used to reject prose words captured by loose unit patterns.
func KnownUnit(s string) bool {
	lowered := strings.ToLower(strings.TrimSpace(s))
	if lowered == "" {
		return false
	}
	for _, token := range strings.Split(lowered, "/") {
		token = strings.TrimSpace(token)
		if _, ok := primaryAliases[token]; ok {
			continue
		}
		if _, ok := suffixAliases[token]; ok {
			continue
		}
		if !extraUnits[token] {
			return false
		}
	}
	return true
}

var (
	digitUnitRe = regexp.MustCompile(`(\d)([a-zA-Zµμ%])`)
	unitTokenRe = regexp.MustCompile(`(?i)[a-zµμ%æøå]+(?:/[a-zµμæøå]+)*`)
)

// NormalizeDoseText rewrites dose fragments inside free text: a space is
// inserted between a digit and an adjacent unit letter, and recognized unit
// substrings are substituted in place. Ordinary words are left alone.
func NormalizeDoseText(text string) string {
	if text == "" {
		return text
	}
	spaced := digitUnitRe.ReplaceAllString(text, "$1 $2")
	return unitTokenRe.ReplaceAllStringFunc(spaced, func(token string) string {
		lowered := strings.ToLower(token)
		parts := strings.Split(lowered, "/")
		// Standalone tokens substitute only when they are an unambiguous
		// unit spelling; suffix words like "dag" stay prose.
		if _, ok := primaryAliases[parts[0]]; !ok {
			return token
		}
		for _, part := range parts[1:] {
			if _, primary := primaryAliases[part]; primary {
				continue
			}
			if _, suffix := suffixAliases[part]; !suffix {
				return token
			}
		}
		return NormalizeUnit(lowered)
	})
}
