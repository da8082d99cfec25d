package lint

import (
	"fmt"

	"claimgate/internal/model"
)

// RecencyLinter flags guideline sources older than the configured cutoff
// year. Only sources actually bound to a claim are checked; unused sources
// are the retrieval stage's concern.
type RecencyLinter struct {
	cutoffYear int
}

// NewRecencyLinter creates the recency linter.
func NewRecencyLinter(cutoffYear int) *RecencyLinter {
	return &RecencyLinter{cutoffYear: cutoffYear}
}

func (l *RecencyLinter) Name() string { return "recency_check" }

func (l *RecencyLinter) Description() string {
	return "Flags bound guideline sources published before the cutoff year"
}

func (l *RecencyLinter) Lint(ctx Context) ([]model.Issue, error) {
	if l.cutoffYear <= 0 {
		return nil, nil
	}

	chunkByID := ctx.ChunkByID()
	reported := make(map[string]bool)

	var issues []model.Issue
	for _, link := range ctx.Links {
		chunk, ok := chunkByID[link.EvidenceChunkID]
		if !ok {
			continue
		}
		year := chunk.Metadata.SourceYear
		if year == 0 || year >= l.cutoffYear || reported[chunk.SourceID] {
			continue
		}
		reported[chunk.SourceID] = true

		title := chunk.Metadata.SourceTitle
		if title == "" {
			title = chunk.SourceID
		}
		issue, err := model.NewIssue(ctx.RunID, model.CodeOutdatedGuideline,
			fmt.Sprintf("bound source %q is from %d, before the %d cutoff", title, year, l.cutoffYear))
		if err != nil {
			return nil, err
		}
		issue.SourceID = chunk.SourceID
		issues = append(issues, issue)
	}
	return issues, nil
}
