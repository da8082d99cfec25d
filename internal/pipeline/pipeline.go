// Package pipeline orchestrates a verification run: claim extraction,
// evidence binding, linting, gate evaluation, and the bounded revise loop.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"claimgate/internal/bind"
	"claimgate/internal/cache"
	"claimgate/internal/extract"
	"claimgate/internal/gate"
	"claimgate/internal/lint"
	"claimgate/internal/llm"
	"claimgate/internal/model"
	"claimgate/internal/revise"
)

// Regenerator produces a corrected draft from revision guidance. Implemented
// by llm.Reviser; nil disables regeneration, in which case the loop stops
// after its first failing pass.
type Regenerator interface {
	Regenerate(ctx context.Context, title, draft string, guidance []string) (string, error)
}

// VerifyInput is one verification run
type VerifyInput struct {
	RunID          string
	RunDir         string
	ProcedureTitle string
	DraftText      string
	Chunks         []model.EvidenceChunk
}

// Pipeline wires the verification stages together
type Pipeline struct {
	extractor   *extract.ClaimExtractor
	binder      *bind.Binder
	evaluator   *gate.Evaluator
	loop        *revise.Loop
	renderer    *Renderer
	regenerator Regenerator
	reports     *cache.ReportCache
	config      *model.Config
}

// NewPipeline creates a pipeline with the given configuration
func NewPipeline(cfg *model.Config) *Pipeline {
	var regenerator Regenerator
	if cfg.LLM.Provider != "" {
		reviser, err := llm.NewReviser(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			fmt.Printf("Warning: Failed to initialize LLM provider: %v\n", err)
		} else {
			regenerator = reviser
		}
	}

	return &Pipeline{
		extractor:   extract.NewClaimExtractor(),
		binder:      bind.NewBinder(cfg.Verify.KeywordThreshold),
		evaluator:   gate.NewEvaluator(),
		loop:        revise.NewLoopWithMax(cfg.Verify.MaxIterations),
		renderer:    NewRenderer(cfg.Output.IncludeFooter),
		regenerator: regenerator,
		reports:     cache.NewReportCache(cfg.Cache),
		config:      cfg,
	}
}

// WithRegenerator overrides the regeneration stage, mainly for tests
func (p *Pipeline) WithRegenerator(r Regenerator) *Pipeline {
	p.regenerator = r
	return p
}

// Verify runs the full verification loop for one draft. Never returns a nil
// report without an error: even a draft that fails every gate produces a
// complete report with the blocking issues attached.
func (p *Pipeline) Verify(ctx context.Context, input VerifyInput) (*model.VerificationReport, error) {
	if input.RunID == "" {
		return nil, fmt.Errorf("run id is required")
	}

	if p.reports != nil {
		if report, found := p.reports.Load(input.RunID, input.DraftText); found {
			return report, nil
		}
	}

	collector := lint.NewDefaultCollector(p.config.Verify)
	draft := input.DraftText
	var iterations []model.IterationResult

	for iteration := 1; ; iteration++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		claims := p.extractor.Extract(input.RunID, draft)
		links, unbound := p.binder.Bind(claims, input.Chunks)

		issues := collector.Collect(lint.Context{
			RunID:          input.RunID,
			RunDir:         input.RunDir,
			ProcedureTitle: input.ProcedureTitle,
			DraftText:      draft,
			Claims:         claims,
			UnboundClaims:  unbound,
			Chunks:         input.Chunks,
			Links:          links,
		})

		gates := p.evaluator.Evaluate(input.RunID, issues)
		decision := p.loop.Decide(revise.State{
			Iteration: iteration,
			Gates:     gates,
			Issues:    issues,
		})

		modelDecision := model.ReviseDecision{
			Iteration:            decision.Iteration,
			NeedsRevision:        decision.NeedsRevision,
			CanProceed:           decision.CanProceed,
			MaxIterationsReached: decision.MaxIterationsReached,
			RevisionGuidance:     decision.RevisionGuidance,
		}

		finalStatus := model.GateStatusPending
		if final, ok := gate.FinalGate(gates); ok {
			finalStatus = final.Status
		}
		iterations = append(iterations, model.IterationResult{
			Iteration:       iteration,
			ClaimCount:      len(claims),
			IssueCount:      len(issues),
			IssueBySeverity: gate.CountBySeverity(issues),
			FinalGate:       finalStatus,
			Decision:        modelDecision,
		})

		if decision.Outcome == revise.OutcomeContinue && p.regenerator != nil {
			revised, err := p.regenerator.Regenerate(ctx, input.ProcedureTitle, draft, decision.RevisionGuidance)
			if err != nil {
				fmt.Printf("Warning: draft regeneration failed, keeping current draft: %v\n", err)
			} else {
				draft = revised
				continue
			}
		}

		report := &model.VerificationReport{
			RunID:          input.RunID,
			ProcedureTitle: input.ProcedureTitle,
			VerifiedAt:     time.Now().UTC(),
			Claims:         claims,
			Links:          links,
			UnboundClaims:  unbound,
			Issues:         issues,
			Gates:          gates,
			Decision:       modelDecision,
			Iterations:     iterations,
		}

		if p.reports != nil {
			if err := p.reports.Store(input.RunID, input.DraftText, report); err != nil {
				fmt.Printf("Warning: failed to cache report: %v\n", err)
			}
		}

		return report, nil
	}
}

// RenderReport renders the report to the specified outputs
func (p *Pipeline) RenderReport(report *model.VerificationReport, jsonPath, mdPath, csvDir string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	if csvDir != "" {
		if err := p.renderer.RenderCSV(report, csvDir); err != nil {
			return fmt.Errorf("render CSV: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote CSV tables: %s\n", csvDir)
		}
	}

	p.renderer.RenderSummary(report)
	return nil
}
