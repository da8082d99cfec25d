package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"claimgate/internal/model"
	"claimgate/internal/pipeline"
)

type stubVerifier struct {
	failRuns map[string]bool
}

func (v *stubVerifier) Verify(_ context.Context, input pipeline.VerifyInput) (*model.VerificationReport, error) {
	if v.failRuns[input.RunID] {
		return nil, fmt.Errorf("verification failed")
	}
	return &model.VerificationReport{
		RunID:          input.RunID,
		ProcedureTitle: input.ProcedureTitle,
		Decision:       model.ReviseDecision{Iteration: 1, CanProceed: true},
	}, nil
}

func writeBatchFixture(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()

	for _, name := range []string{"a", "b", "c"} {
		draft := fmt.Sprintf("# Dosering\nAmoxicillin 50 mg/kg/d [SRC-%s]\n", name)
		if err := os.WriteFile(filepath.Join(dir, name+".md"), []byte(draft), 0644); err != nil {
			t.Fatalf("write draft: %v", err)
		}
	}

	manifest := `runs:
  - id: run-a
    title: Procedure A
    draft: a.md
  - id: run-b
    title: Procedure B
    draft: b.md
  - id: run-c
    title: Procedure C
    draft: c.md
`
	path := filepath.Join(dir, "manifest.yaml")
	if err := os.WriteFile(path, []byte(manifest), 0644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return dir, path
}

func TestProcessManifest(t *testing.T) {
	_, manifestPath := writeBatchFixture(t)

	b := NewBatchProcessor(&stubVerifier{}, 2)
	results, err := b.ProcessManifest(context.Background(), manifestPath)
	if err != nil {
		t.Fatalf("process: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	seen := map[string]bool{}
	for _, r := range results {
		if r.Error != nil {
			t.Errorf("run %s: %v", r.RunID, r.Error)
		}
		if r.Report == nil {
			t.Errorf("run %s: missing report", r.RunID)
			continue
		}
		seen[r.RunID] = true
	}
	for _, id := range []string{"run-a", "run-b", "run-c"} {
		if !seen[id] {
			t.Errorf("missing result for %s", id)
		}
	}
}

func TestProcessRunsIsolatesFailures(t *testing.T) {
	dir, manifestPath := writeBatchFixture(t)
	manifest, err := pipeline.LoadManifest(manifestPath)
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}

	b := NewBatchProcessor(&stubVerifier{failRuns: map[string]bool{"run-b": true}}, 2)
	results := b.ProcessRuns(context.Background(), dir, manifest.Runs)

	var failed, ok int
	for _, r := range results {
		if r.GetError() != nil {
			failed++
		} else {
			ok++
		}
	}
	if failed != 1 || ok != 2 {
		t.Errorf("expected 1 failure and 2 successes, got %d/%d", failed, ok)
	}
}

func TestProcessRunsMissingDraft(t *testing.T) {
	dir := t.TempDir()
	b := NewBatchProcessor(&stubVerifier{}, 1)

	results := b.ProcessRuns(context.Background(), dir, []pipeline.RunSpec{
		{ID: "run-x", Draft: "missing.md"},
	})
	if len(results) != 1 || results[0].Error == nil {
		t.Fatalf("expected load error, got %+v", results)
	}
}

func TestProcessManifestMissingFile(t *testing.T) {
	b := NewBatchProcessor(&stubVerifier{}, 1)
	if _, err := b.ProcessManifest(context.Background(), "/does/not/exist.yaml"); err == nil {
		t.Fatal("expected error")
	}
}

type blockingVerifier struct{}

func (v *blockingVerifier) Verify(ctx context.Context, input pipeline.VerifyInput) (*model.VerificationReport, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestProcessRunsHonorsDeadline(t *testing.T) {
	dir, manifestPath := writeBatchFixture(t)
	manifest, err := pipeline.LoadManifest(manifestPath)
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	b := NewBatchProcessor(&blockingVerifier{}, 2)

	done := make(chan []*VerifyJobResult, 1)
	go func() {
		done <- b.ProcessRuns(ctx, dir, manifest.Runs)
	}()

	select {
	case results := <-done:
		for _, r := range results {
			if r.Error == nil {
				t.Errorf("run %s should have been cancelled", r.RunID)
			}
		}
	case <-time.After(2 * time.Second):
		t.Fatal("deadline did not stop in-flight verifications")
	}
}

func TestBatchWithRateLimit(t *testing.T) {
	dir, manifestPath := writeBatchFixture(t)
	manifest, err := pipeline.LoadManifest(manifestPath)
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}

	// High rate so the test stays fast; wiring is what matters
	b := NewBatchProcessor(&stubVerifier{}, 2).WithRateLimit("openai", 1000)
	results := b.ProcessRuns(context.Background(), dir, manifest.Runs)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for _, r := range results {
		if r.Error != nil {
			t.Errorf("run %s: %v", r.RunID, r.Error)
		}
	}
}
