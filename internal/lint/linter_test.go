package lint

import (
	"errors"
	"strings"
	"testing"

	"claimgate/internal/model"
)

type stubLinter struct {
	name   string
	issues []model.Issue
	err    error
	panics bool
}

func (s *stubLinter) Name() string        { return s.name }
func (s *stubLinter) Description() string { return "stub" }
func (s *stubLinter) Lint(ctx Context) ([]model.Issue, error) {
	if s.panics {
		panic("boom")
	}
	return s.issues, s.err
}

func mustIssue(t *testing.T, code model.IssueCode, msg string) model.Issue {
	t.Helper()
	issue, err := model.NewIssue("run-1", code, msg)
	if err != nil {
		t.Fatalf("NewIssue: %v", err)
	}
	return issue
}

func TestCollector_PreservesRegistrationAndPerLinterOrder(t *testing.T) {
	a1 := mustIssue(t, model.CodeUnitMismatch, "a1")
	a2 := mustIssue(t, model.CodeTermVariant, "a2")
	b1 := mustIssue(t, model.CodeOrphanCitation, "b1")

	c := NewCollector()
	c.Register(&stubLinter{name: "a", issues: []model.Issue{a1, a2}})
	c.Register(&stubLinter{name: "b", issues: []model.Issue{b1}})

	got := c.Collect(Context{RunID: "run-1"})

	if len(got) != 3 {
		t.Fatalf("Expected 3 issues, got %d", len(got))
	}
	wantOrder := []string{"a1", "a2", "b1"}
	for i, want := range wantOrder {
		if got[i].Message != want {
			t.Errorf("Position %d: expected %q, got %q", i, want, got[i].Message)
		}
	}
}

func TestCollector_IsolatesPanickingLinter(t *testing.T) {
	after := mustIssue(t, model.CodeTermVariant, "still runs")

	c := NewCollector()
	c.Register(&stubLinter{name: "explosive", panics: true})
	c.Register(&stubLinter{name: "healthy", issues: []model.Issue{after}})

	got := c.Collect(Context{RunID: "run-1"})

	if len(got) != 2 {
		t.Fatalf("Expected 2 issues (1 synthetic + 1 real), got %d", len(got))
	}
	if got[0].Code != model.CodeLinterError {
		t.Errorf("Expected linter_error code, got %s", got[0].Code)
	}
	if !strings.Contains(got[0].Message, "explosive") {
		t.Errorf("Synthetic issue does not name the failing linter: %q", got[0].Message)
	}
	if got[1].Message != "still runs" {
		t.Errorf("Later linter did not run, got %q", got[1].Message)
	}
}

func TestCollector_ConvertsLinterError(t *testing.T) {
	c := NewCollector()
	c.Register(&stubLinter{name: "broken", err: errors.New("bad state")})

	got := c.Collect(Context{RunID: "run-1"})

	if len(got) != 1 {
		t.Fatalf("Expected 1 synthetic issue, got %d", len(got))
	}
	if got[0].Code != model.CodeLinterError || got[0].Severity != model.SeverityS1 {
		t.Errorf("Unexpected synthetic issue: %+v", got[0])
	}
}

func TestCollector_Stats(t *testing.T) {
	c := NewCollector()
	c.Register(&stubLinter{name: "a", issues: []model.Issue{
		mustIssue(t, model.CodeDoseWithoutEvidence, "x"),
		mustIssue(t, model.CodeTermVariant, "y"),
	}})
	c.Register(&stubLinter{name: "quiet"})

	c.Collect(Context{RunID: "run-1"})
	stats := c.Stats()

	if stats.TotalIssues != 2 {
		t.Errorf("TotalIssues = %d, want 2", stats.TotalIssues)
	}
	if stats.LintersRun != 2 {
		t.Errorf("LintersRun = %d, want 2", stats.LintersRun)
	}
	if stats.LintersWithIssues != 1 {
		t.Errorf("LintersWithIssues = %d, want 1", stats.LintersWithIssues)
	}
	if stats.BySeverity[model.SeverityS0] != 1 || stats.BySeverity[model.SeverityS2] != 1 {
		t.Errorf("BySeverity = %v", stats.BySeverity)
	}
	if stats.BySeverity[model.SeverityS1] != 0 {
		t.Errorf("Expected zero-filled S1 count, got %d", stats.BySeverity[model.SeverityS1])
	}
}

func TestNewDefaultCollector_WiresSevenLinters(t *testing.T) {
	c := NewDefaultCollector(model.DefaultConfig().Verify)

	linters := c.Linters()
	if len(linters) != 7 {
		t.Fatalf("Expected 7 standard linters, got %d", len(linters))
	}
	wantOrder := []string{
		"citation_integrity", "template_compliance", "claim_coverage",
		"unit_check", "overconfidence", "conflict_detection", "recency_check",
	}
	for i, want := range wantOrder {
		if linters[i].Name() != want {
			t.Errorf("Linter %d: expected %s, got %s", i, want, linters[i].Name())
		}
	}
}
