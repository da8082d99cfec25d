package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"claimgate/internal/model"
)

// Renderer writes verification reports to their output formats
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a new renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the full report as indented JSON
func (r *Renderer) RenderJSON(report *model.VerificationReport, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// RenderMarkdown writes a human-readable report
func (r *Renderer) RenderMarkdown(report *model.VerificationReport, path string) error {
	var sb strings.Builder

	title := report.ProcedureTitle
	if title == "" {
		title = report.RunID
	}
	sb.WriteString(fmt.Sprintf("# Verifikationsrapport: %s\n\n", title))
	sb.WriteString(fmt.Sprintf("- Kørsel: `%s`\n", report.RunID))
	sb.WriteString(fmt.Sprintf("- Verificeret: %s\n", report.VerifiedAt.Format("2006-01-02 15:04 MST")))
	sb.WriteString(fmt.Sprintf("- Iterationer: %d\n\n", report.Decision.Iteration))

	sb.WriteString("## Porte\n\n")
	sb.WriteString("| Port | Status | Fundne problemer |\n")
	sb.WriteString("|------|--------|------------------|\n")
	for _, g := range report.Gates {
		sb.WriteString(fmt.Sprintf("| %s | %s | %d |\n", g.GateType, statusLabel(g.Status), g.IssuesFailed))
	}
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("## Påstande (%d fundet, %d ubundne)\n\n",
		len(report.Claims), len(report.UnboundClaims)))
	for _, c := range report.Claims {
		sb.WriteString(fmt.Sprintf("- linje %d [%s] %s\n", c.LineNumber, c.ClaimType, c.Excerpt(100)))
	}
	sb.WriteString("\n")

	if len(report.Issues) > 0 {
		sb.WriteString(fmt.Sprintf("## Problemer (%d)\n\n", len(report.Issues)))
		for _, sev := range []model.Severity{model.SeverityS0, model.SeverityS1, model.SeverityS2} {
			for _, issue := range report.Issues {
				if issue.Severity != sev {
					continue
				}
				sb.WriteString(fmt.Sprintf("- **%s** `%s`: %s\n", issue.Severity, issue.Code, issue.Message))
			}
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Afgørelse\n\n")
	switch {
	case report.Decision.CanProceed:
		sb.WriteString("Udkastet kan frigives.\n")
	case report.Decision.MaxIterationsReached:
		sb.WriteString("Frigivelse blokeret: iterationsgrænsen er nået med udestående problemer.\n")
	default:
		sb.WriteString("Udkastet kræver revision:\n\n")
		for _, g := range report.Decision.RevisionGuidance {
			sb.WriteString(fmt.Sprintf("- %s\n", g))
		}
	}

	if r.includeFooter {
		sb.WriteString("\n---\n\n*Automatisk genereret af claimgate. Porte afgør frigivelse; ")
		sb.WriteString("S2-advarsler blokerer aldrig.*\n")
	}

	return os.WriteFile(path, []byte(sb.String()), 0644)
}

// RenderCSV writes issues, claims, and gates as flat tables in one directory
func (r *Renderer) RenderCSV(report *model.VerificationReport, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	issueRows := make([][]string, 0, len(report.Issues))
	for _, issue := range report.Issues {
		issueRows = append(issueRows, issue.Row())
	}
	if err := writeCSV(filepath.Join(dir, "issues.csv"), model.IssueColumns, issueRows); err != nil {
		return err
	}

	claimRows := make([][]string, 0, len(report.Claims))
	for _, claim := range report.Claims {
		claimRows = append(claimRows, claim.Row())
	}
	if err := writeCSV(filepath.Join(dir, "claims.csv"), model.ClaimColumns, claimRows); err != nil {
		return err
	}

	gateRows := make([][]string, 0, len(report.Gates))
	for _, g := range report.Gates {
		gateRows = append(gateRows, g.Row())
	}
	return writeCSV(filepath.Join(dir, "gates.csv"), model.GateColumns, gateRows)
}

// RenderSummary prints a one-screen summary to stdout
func (r *Renderer) RenderSummary(report *model.VerificationReport) {
	title := report.ProcedureTitle
	if title == "" {
		title = report.RunID
	}

	fmt.Printf("\n%s\n", title)
	fmt.Printf("  Påstande: %d (%d ubundne)\n", len(report.Claims), len(report.UnboundClaims))

	counts := map[model.Severity]int{}
	for _, issue := range report.Issues {
		counts[issue.Severity]++
	}
	fmt.Printf("  Problemer: %d S0, %d S1, %d S2\n",
		counts[model.SeverityS0], counts[model.SeverityS1], counts[model.SeverityS2])

	for _, g := range report.Gates {
		fmt.Printf("  %-11s %s\n", string(g.GateType)+":", statusLabel(g.Status))
	}

	switch {
	case report.Decision.CanProceed:
		fmt.Printf("  Resultat: FRIGIVET (iteration %d)\n", report.Decision.Iteration)
	case report.Decision.MaxIterationsReached:
		fmt.Printf("  Resultat: BLOKERET, iterationsgrænse nået (%d)\n", report.Decision.Iteration)
	default:
		fmt.Printf("  Resultat: REVISION PÅKRÆVET (iteration %d)\n", report.Decision.Iteration)
	}
}

func statusLabel(s model.GateStatus) string {
	switch s {
	case model.GateStatusPass:
		return "PASS"
	case model.GateStatusFail:
		return "FAIL"
	default:
		return "PENDING"
	}
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	w.Flush()
	return w.Error()
}
