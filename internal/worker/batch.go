package worker

import (
	"context"
	"fmt"
	"path/filepath"

	"claimgate/internal/model"
	"claimgate/internal/pipeline"
)

// Verifier runs one verification. Implemented by pipeline.Pipeline.
type Verifier interface {
	Verify(ctx context.Context, input pipeline.VerifyInput) (*model.VerificationReport, error)
}

// VerifyJob verifies a single run from a batch manifest
type VerifyJob struct {
	BaseDir  string
	Spec     pipeline.RunSpec
	Verifier Verifier
	Limiter  *Limiter // Optional; throttles runs that may call an LLM provider
	Provider string
}

// Execute loads the run and verifies it
func (j *VerifyJob) Execute(ctx context.Context) Result {
	if j.Limiter != nil && j.Provider != "" {
		if err := j.Limiter.Wait(ctx, j.Provider); err != nil {
			return &VerifyJobResult{RunID: j.Spec.ID, Error: err}
		}
	}

	input, err := j.Spec.Load(j.BaseDir)
	if err != nil {
		return &VerifyJobResult{RunID: j.Spec.ID, Error: err}
	}

	report, err := j.Verifier.Verify(ctx, input)
	if err != nil {
		return &VerifyJobResult{RunID: j.Spec.ID, Error: err}
	}

	return &VerifyJobResult{RunID: j.Spec.ID, Report: report}
}

// VerifyJobResult is the outcome of one batch run
type VerifyJobResult struct {
	RunID  string
	Report *model.VerificationReport
	Error  error
}

// GetError returns the error from the job, if any
func (r *VerifyJobResult) GetError() error {
	return r.Error
}

// BatchProcessor verifies multiple runs concurrently
type BatchProcessor struct {
	verifier    Verifier
	concurrency int
	limiter     *Limiter
	provider    string
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(verifier Verifier, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		verifier:    verifier,
		concurrency: concurrency,
	}
}

// WithRateLimit throttles runs by provider. Each verification may spend
// several provider calls, so the rate applies per run start.
func (b *BatchProcessor) WithRateLimit(provider string, requestsPerSecond float64) *BatchProcessor {
	if provider != "" {
		b.limiter = NewLimiter(requestsPerSecond, 0)
		b.provider = provider
	}
	return b
}

// ProcessRuns verifies the given runs concurrently. Paths in the specs are
// resolved against baseDir.
func (b *BatchProcessor) ProcessRuns(ctx context.Context, baseDir string, specs []pipeline.RunSpec) []*VerifyJobResult {
	if len(specs) == 0 {
		return []*VerifyJobResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for _, spec := range specs {
		pool.Submit(&VerifyJob{
			BaseDir:  baseDir,
			Spec:     spec,
			Verifier: b.verifier,
			Limiter:  b.limiter,
			Provider: b.provider,
		})
	}

	results := pool.Wait()

	jobResults := make([]*VerifyJobResult, len(results))
	for i, result := range results {
		jobResults[i] = result.(*VerifyJobResult)
	}

	return jobResults
}

// ProcessManifest reads a batch manifest and verifies every run in it
func (b *BatchProcessor) ProcessManifest(ctx context.Context, manifestPath string) ([]*VerifyJobResult, error) {
	manifest, err := pipeline.LoadManifest(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("load manifest: %w", err)
	}

	baseDir := filepath.Dir(manifestPath)
	return b.ProcessRuns(ctx, baseDir, manifest.Runs), nil
}
