package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"claimgate/internal/model"
)

func sampleReport(t *testing.T) *model.VerificationReport {
	t.Helper()

	claim, err := model.NewClaim("run-1", model.ClaimTypeDose, "Amoxicillin 50 mg/kg/d", 8, 0.95)
	if err != nil {
		t.Fatalf("new claim: %v", err)
	}
	claim.Unit = "mg/kg/d"

	issue, err := model.NewIssue("run-1", model.CodeMissingMandatorySection, "mandatory section missing: Monitorering")
	if err != nil {
		t.Fatalf("new issue: %v", err)
	}

	s0 := model.NewPendingGate("run-1", model.GateS0Safety)
	s0.Status = model.GateStatusFail
	s1 := model.NewPendingGate("run-1", model.GateS1Quality)
	s1.Status = model.GateStatusPass
	final := model.NewPendingGate("run-1", model.GateFinal)
	final.Status = model.GateStatusFail

	return &model.VerificationReport{
		RunID:          "run-1",
		ProcedureTitle: "Pneumoni hos børn",
		VerifiedAt:     time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
		Claims:         []model.Claim{claim},
		Issues:         []model.Issue{issue},
		Gates:          []model.Gate{s0, s1, final},
		Decision: model.ReviseDecision{
			Iteration:        1,
			NeedsRevision:    true,
			RevisionGuidance: []string{"[missing_mandatory_section x1] add the missing mandatory sections"},
		},
	}
}

func TestRenderJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.json")

	if err := NewRenderer(true).RenderJSON(sampleReport(t), path); err != nil {
		t.Fatalf("render: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var decoded model.VerificationReport
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.RunID != "run-1" || len(decoded.Claims) != 1 || len(decoded.Gates) != 3 {
		t.Errorf("round trip lost data: %+v", decoded)
	}
}

func TestRenderMarkdown(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.md")

	if err := NewRenderer(true).RenderMarkdown(sampleReport(t), path); err != nil {
		t.Fatalf("render: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	text := string(data)

	for _, want := range []string{
		"Pneumoni hos børn",
		"s0_safety",
		"missing_mandatory_section",
		"kræver revision",
		"claimgate", // footer
	} {
		if !strings.Contains(text, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestRenderMarkdownNoFooter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.md")

	if err := NewRenderer(false).RenderMarkdown(sampleReport(t), path); err != nil {
		t.Fatalf("render: %v", err)
	}

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "Automatisk genereret") {
		t.Error("footer should be omitted")
	}
}

func TestRenderCSV(t *testing.T) {
	dir := t.TempDir()

	if err := NewRenderer(true).RenderCSV(sampleReport(t), dir); err != nil {
		t.Fatalf("render: %v", err)
	}

	for name, header := range map[string][]string{
		"issues.csv": model.IssueColumns,
		"claims.csv": model.ClaimColumns,
		"gates.csv":  model.GateColumns,
	} {
		f, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("open %s: %v", name, err)
		}
		rows, err := csv.NewReader(f).ReadAll()
		f.Close()
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if len(rows) < 2 {
			t.Errorf("%s: expected header plus data, got %d rows", name, len(rows))
			continue
		}
		if len(rows[0]) != len(header) {
			t.Errorf("%s: expected %d columns, got %d", name, len(header), len(rows[0]))
		}
	}
}
