package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"claimgate/internal/pipeline"
	"claimgate/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <manifest>",
	Short: "Verify multiple drafts from a manifest in parallel",
	Long: `Batch verifies every run listed in a YAML manifest concurrently and writes
one report per run to the output directory.

Manifest format:
  runs:
    - id: pneumonia-children
      title: Pneumoni hos børn
      draft: drafts/pneumonia.md
      chunks: evidence/pneumonia.json

Example:
  claimgate batch manifest.yaml
  claimgate batch manifest.yaml --concurrency 8 --output-dir ./reports
  claimgate batch manifest.yaml --llm --llm-provider openai`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./claimgate-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for batch processing")

	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the report cache")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	batchCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM draft regeneration on gate failure")
	batchCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (provider default if empty)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	manifestPath := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Batch verification\n")
	fmt.Fprintf(os.Stderr, "  Manifest:   %s\n", manifestPath)
	fmt.Fprintf(os.Stderr, "  Workers:    %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Output dir: %s\n\n", outputDir)

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	p := pipeline.NewPipeline(cfg)
	processor := worker.NewBatchProcessor(p, concurrency)
	if cfg.LLM.Provider != "" {
		processor = processor.WithRateLimit(cfg.LLM.Provider, cfg.LLM.RequestsPerSecond)
	}

	results, err := processor.ProcessManifest(ctx, manifestPath)
	if err != nil {
		return err
	}

	released, blocked, failed := 0, 0, 0
	for _, result := range results {
		if result.Error != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.RunID, result.Error)
			continue
		}

		jsonPath := filepath.Join(outputDir, result.RunID+".json")
		mdPath := filepath.Join(outputDir, result.RunID+".md")
		if err := p.RenderReport(result.Report, jsonPath, mdPath, "", verbose); err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: render: %v\n", result.RunID, err)
			continue
		}

		if result.Report.Decision.CanProceed {
			released++
		} else {
			blocked++
		}
	}

	fmt.Fprintf(os.Stderr, "\nDone: %d released, %d blocked, %d failed (of %d)\n",
		released, blocked, failed, len(results))

	if failed > 0 {
		return fmt.Errorf("%d runs failed", failed)
	}
	return nil
}
