package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"claimgate/internal/model"
	"claimgate/internal/pipeline"
)

var (
	chunksPath  string
	runID       string
	title       string
	outJSON     string
	outMD       string
	outCSVDir   string
	timeout     time.Duration
	noCache     bool
	noFooter    bool
	llmEnabled  bool
	llmProvider string
	llmModel    string
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify <draft>",
	Short: "Verify a single draft against its retrieved evidence",
	Long: `Verify extracts claims from a draft, binds them to evidence chunks, lints
the result, and evaluates the release gates.

The draft is a Markdown, plain text, or HTML file. Evidence chunks come
from a JSON file produced by the retrieval stage; without one, every claim
is unbound and the coverage findings show exactly what evidence is missing.

Example:
  claimgate verify draft.md --chunks chunks.json
  claimgate verify draft.md --chunks chunks.json --md report.md --csv-dir ./tables
  claimgate verify draft.md --chunks chunks.json --llm --llm-provider anthropic`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringVar(&chunksPath, "chunks", "", "evidence chunks JSON file")
	verifyCmd.Flags().StringVar(&runID, "run-id", "", "run identifier (default: draft filename)")
	verifyCmd.Flags().StringVar(&title, "title", "", "procedure title for the report")

	verifyCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path")
	verifyCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	verifyCmd.Flags().StringVar(&outCSVDir, "csv-dir", "", "output directory for CSV tables (optional)")

	verifyCmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "overall verification timeout (covers LLM revision calls)")
	verifyCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the report cache (force fresh verification)")
	verifyCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	verifyCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM draft regeneration on gate failure")
	verifyCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	verifyCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (provider default if empty)")
}

func runVerify(cmd *cobra.Command, args []string) error {
	draftPath := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	draft, err := pipeline.LoadDraft(draftPath)
	if err != nil {
		return err
	}

	var chunks []model.EvidenceChunk
	if chunksPath != "" {
		chunks, err = pipeline.LoadChunks(chunksPath)
		if err != nil {
			return err
		}
	}

	id := runID
	if id == "" {
		id = draftPath
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Verifying: %s\n", draftPath)
		fmt.Fprintf(os.Stderr, "Evidence chunks: %d\n", len(chunks))
		fmt.Fprintf(os.Stderr, "Regeneration: %v\n\n", llmEnabled)
	}

	p := pipeline.NewPipeline(cfg)

	report, err := p.Verify(ctx, pipeline.VerifyInput{
		RunID:          id,
		ProcedureTitle: title,
		DraftText:      draft,
		Chunks:         chunks,
	})
	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Extracted %d claims (%d unbound)\n", len(report.Claims), len(report.UnboundClaims))
		fmt.Fprintf(os.Stderr, "✓ Found %d issues\n", len(report.Issues))
		fmt.Fprintf(os.Stderr, "✓ Revise-loop iterations: %d\n\n", report.Decision.Iteration)
	}

	if err := p.RenderReport(report, outJSON, outMD, outCSVDir, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	if !report.Decision.CanProceed {
		// Non-zero exit so CI pipelines can gate on the outcome
		return fmt.Errorf("release blocked: %d issues outstanding", len(report.Issues))
	}

	return nil
}

// buildConfig assembles the effective configuration from defaults, flags,
// and environment
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = !noCache
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter

	if !llmEnabled {
		return cfg, nil
	}

	cfg.LLM.Provider = llmProvider
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}

	switch llmProvider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", llmProvider)
	}

	return cfg, nil
}
