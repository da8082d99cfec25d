// Package lint inspects claims, bindings, and draft text, and emits issues
// with fixed severities. Linters run under a collector that isolates any
// single linter's failure from the rest of the run.
package lint

import (
	"fmt"

	"claimgate/internal/model"
)

// Context is an immutable snapshot of one verification pass. Linters read
// from it and never write.
type Context struct {
	RunID          string
	RunDir         string
	ProcedureTitle string
	DraftText      string
	Claims         []model.Claim
	UnboundClaims  []model.Claim
	Chunks         []model.EvidenceChunk
	Links          []model.ClaimEvidenceLink
}

// SourceIDs returns the set of source ids present among the evidence chunks.
func (c Context) SourceIDs() map[string]bool {
	out := make(map[string]bool, len(c.Chunks))
	for _, chunk := range c.Chunks {
		out[chunk.SourceID] = true
	}
	return out
}

// LinksByClaim groups links by claim id.
func (c Context) LinksByClaim() map[string][]model.ClaimEvidenceLink {
	out := make(map[string][]model.ClaimEvidenceLink)
	for _, link := range c.Links {
		out[link.ClaimID] = append(out[link.ClaimID], link)
	}
	return out
}

// ChunkByID indexes chunks by id.
func (c Context) ChunkByID() map[string]model.EvidenceChunk {
	out := make(map[string]model.EvidenceChunk, len(c.Chunks))
	for _, chunk := range c.Chunks {
		out[chunk.ID] = chunk
	}
	return out
}

// Linter inspects one concern and reports issues. Returning an error marks
// the linter itself as failed; the collector converts that into a single
// reporting issue instead of aborting the run.
type Linter interface {
	Name() string
	Description() string
	Lint(ctx Context) ([]model.Issue, error)
}

// Stats aggregates the most recent collector run.
type Stats struct {
	TotalIssues       int
	BySeverity        map[model.Severity]int
	LintersRun        int
	LintersWithIssues int
}

// Collector holds an ordered linter registry and runs it against a context.
type Collector struct {
	linters []Linter
	stats   Stats
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// NewDefaultCollector wires the seven standard linters in their fixed order.
func NewDefaultCollector(cfg model.VerifyConfig) *Collector {
	c := NewCollector()
	c.Register(NewCitationIntegrityLinter())
	c.Register(NewTemplateComplianceLinter(cfg.MandatorySections))
	c.Register(NewClaimCoverageLinter())
	c.Register(NewUnitCheckLinter())
	c.Register(NewOverconfidenceLinter(cfg.WeakBindingScore))
	c.Register(NewConflictLinter(cfg.RedundancyThreshold))
	c.Register(NewRecencyLinter(cfg.GuidelineCutoffYear))
	return c
}

// Register appends a linter to the registry. Registration order is run order.
func (c *Collector) Register(l Linter) {
	c.linters = append(c.linters, l)
}

// Collect runs every linter in registration order and concatenates their
// issues, preserving per-linter order. A linter that fails (error or panic)
// contributes exactly one reporting issue; the remaining linters still run.
func (c *Collector) Collect(ctx Context) []model.Issue {
	issues := []model.Issue{}
	stats := Stats{BySeverity: map[model.Severity]int{
		model.SeverityS0: 0, model.SeverityS1: 0, model.SeverityS2: 0,
	}}

	for _, l := range c.linters {
		stats.LintersRun++
		found := c.runOne(ctx, l)
		if len(found) > 0 {
			stats.LintersWithIssues++
		}
		for _, issue := range found {
			stats.BySeverity[issue.Severity]++
		}
		issues = append(issues, found...)
	}

	stats.TotalIssues = len(issues)
	c.stats = stats
	return issues
}

// runOne executes a single linter with panic isolation. The catch/convert
// happens here, at the one collector boundary, not at call sites.
func (c *Collector) runOne(ctx Context, l Linter) (issues []model.Issue) {
	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		issues, err = l.Lint(ctx)
	}()
	if err != nil {
		issue, buildErr := model.NewIssue(ctx.RunID, model.CodeLinterError,
			fmt.Sprintf("linter %s failed: %v", l.Name(), err))
		if buildErr != nil {
			return nil
		}
		return []model.Issue{issue}
	}
	return issues
}

// Stats returns the aggregates of the most recent Collect call.
func (c *Collector) Stats() Stats {
	return c.stats
}

// Linters returns the registered linters in run order.
func (c *Collector) Linters() []Linter {
	return c.linters
}
