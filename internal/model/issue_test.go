package model

import (
	"strings"
	"testing"
)

func TestSeverityForCoversEveryCode(t *testing.T) {
	total := 0
	for sev, codes := range IssueCodes() {
		switch sev {
		case SeverityS0, SeverityS1, SeverityS2:
		default:
			t.Errorf("unknown severity tier %q", sev)
		}
		for _, code := range codes {
			got, ok := SeverityFor(code)
			if !ok || got != sev {
				t.Errorf("code %s: severity %s, grouped under %s", code, got, sev)
			}
		}
		total += len(codes)
	}
	// 17 taxonomy codes plus the linter-failure reporting code
	if total != 18 {
		t.Errorf("expected 18 codes, got %d", total)
	}
}

func TestSeverityTiers(t *testing.T) {
	s0Codes := []IssueCode{
		CodeOrphanCitation,
		CodeHallucinatedSource,
		CodeDoseWithoutEvidence,
		CodeThresholdWithoutEvidence,
		CodeContraindicationUnbound,
		CodeConflictingDoses,
		CodeMissingMandatorySection,
	}
	for _, code := range s0Codes {
		if sev, _ := SeverityFor(code); sev != SeverityS0 {
			t.Errorf("code %s: expected S0, got %s", code, sev)
		}
	}

	s2Codes := []IssueCode{
		CodeInformalLanguage,
		CodeTermVariant,
		CodeEvidenceRedundancy,
		CodeMissingDuration,
	}
	for _, code := range s2Codes {
		if sev, _ := SeverityFor(code); sev != SeverityS2 {
			t.Errorf("code %s: expected S2, got %s", code, sev)
		}
	}
}

func TestNewIssueAssignsSeverity(t *testing.T) {
	issue, err := NewIssue("run-1", CodeOrphanCitation, "citation [X1] matches no source")
	if err != nil {
		t.Fatalf("new issue: %v", err)
	}
	if issue.Severity != SeverityS0 {
		t.Errorf("expected S0, got %s", issue.Severity)
	}
	if issue.ID == "" || issue.RunID != "run-1" || !issue.AutoDetected {
		t.Errorf("unexpected issue: %+v", issue)
	}
	if issue.Resolved {
		t.Error("new issue must start unresolved")
	}
}

func TestNewIssueRejectsUnknownCode(t *testing.T) {
	if _, err := NewIssue("run-1", IssueCode("made_up"), "msg"); err == nil {
		t.Fatal("expected error for unknown code")
	}
	if _, err := NewIssue("run-1", CodeOrphanCitation, ""); err == nil {
		t.Fatal("expected error for empty message")
	}
}

func TestNewClaimValidation(t *testing.T) {
	claim, err := NewClaim("run-1", ClaimTypeDose, "Amoxicillin 50 mg/kg/d", 3, 0.8)
	if err != nil {
		t.Fatalf("new claim: %v", err)
	}
	if claim.ID == "" || claim.LineNumber != 3 {
		t.Errorf("unexpected claim: %+v", claim)
	}

	cases := []struct {
		name string
		text string
		line int
		conf float64
	}{
		{"empty text", "", 1, 0.5},
		{"zero line", "x", 0, 0.5},
		{"negative confidence", "x", 1, -0.1},
		{"confidence above one", "x", 1, 1.1},
	}
	for _, tc := range cases {
		if _, err := NewClaim("run-1", ClaimTypeDose, tc.text, tc.line, tc.conf); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestClaimExcerpt(t *testing.T) {
	claim := Claim{Text: strings.Repeat("a", 100)}
	if got := claim.Excerpt(20); got != strings.Repeat("a", 20)+"..." {
		t.Errorf("unexpected excerpt: %q", got)
	}
	short := Claim{Text: "kort"}
	if short.Excerpt(20) != "kort" {
		t.Errorf("short text should pass through")
	}
}

func TestIssueRowMatchesColumns(t *testing.T) {
	issue, err := NewIssue("run-1", CodeUnitMismatch, "unit differs from evidence")
	if err != nil {
		t.Fatalf("new issue: %v", err)
	}
	if got, want := len(issue.Row()), len(IssueColumns); got != want {
		t.Errorf("issue row has %d fields, columns %d", got, want)
	}

	claim := Claim{}
	if got, want := len(claim.Row()), len(ClaimColumns); got != want {
		t.Errorf("claim row has %d fields, columns %d", got, want)
	}

	g := NewPendingGate("run-1", GateFinal)
	if got, want := len(g.Row()), len(GateColumns); got != want {
		t.Errorf("gate row has %d fields, columns %d", got, want)
	}
}
