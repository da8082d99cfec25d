package lint

import (
	"fmt"
	"strings"

	"claimgate/internal/model"
)

// TemplateComplianceLinter verifies the draft carries the mandatory sections
// of a clinical procedure document, and that present sections have content.
type TemplateComplianceLinter struct {
	mandatorySections []string
}

// NewTemplateComplianceLinter creates the template linter for the given
// mandatory section headings.
func NewTemplateComplianceLinter(sections []string) *TemplateComplianceLinter {
	return &TemplateComplianceLinter{mandatorySections: sections}
}

func (l *TemplateComplianceLinter) Name() string { return "template_compliance" }

func (l *TemplateComplianceLinter) Description() string {
	return "Checks mandatory procedure sections exist and are filled in"
}

func (l *TemplateComplianceLinter) Lint(ctx Context) ([]model.Issue, error) {
	lines := strings.Split(ctx.DraftText, "\n")

	// heading line index and body line count per section
	type section struct {
		line int
		body int
	}
	found := make(map[string]section)
	var current string
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if strings.HasPrefix(line, "#") {
			heading := strings.ToLower(strings.TrimSpace(strings.TrimLeft(line, "#")))
			heading = strings.TrimSuffix(heading, ":")
			current = ""
			// Exact match only: "Kontraindikationer" must not satisfy
			// "Indikation".
			for _, want := range l.mandatorySections {
				if heading == strings.ToLower(want) {
					current = want
					found[want] = section{line: i + 1}
					break
				}
			}
			continue
		}
		if current != "" && line != "" && !isPlaceholder(line) {
			s := found[current]
			s.body++
			found[current] = s
		}
	}

	var issues []model.Issue
	for _, want := range l.mandatorySections {
		s, ok := found[want]
		if !ok {
			issue, err := model.NewIssue(ctx.RunID, model.CodeMissingMandatorySection,
				fmt.Sprintf("mandatory section %q is missing from the draft", want))
			if err != nil {
				return nil, err
			}
			issues = append(issues, issue)
			continue
		}
		if s.body == 0 {
			issue, err := model.NewIssue(ctx.RunID, model.CodeTemplateIncomplete,
				fmt.Sprintf("section %q is present but has no content", want))
			if err != nil {
				return nil, err
			}
			issue.LineNumber = s.line
			issues = append(issues, issue)
		}
	}
	return issues, nil
}

// isPlaceholder recognizes generator stubs that do not count as content.
func isPlaceholder(line string) bool {
	lower := strings.ToLower(line)
	return lower == "tbd" || lower == "todo" || lower == "..." ||
		strings.HasPrefix(lower, "[indsæt") || strings.HasPrefix(lower, "[udfyld")
}
