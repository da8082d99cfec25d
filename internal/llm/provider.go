package llm

import (
	"context"
	"fmt"
	"strings"

	"claimgate/internal/model"
)

// Provider is the interface all LLM providers implement
type Provider interface {
	// Name returns the provider name (e.g., "openai", "anthropic", "ollama")
	Name() string

	// Revise asks the model to produce a corrected draft
	Revise(ctx context.Context, req ReviseRequest) (*ReviseResponse, error)

	// IsAvailable checks if the provider is configured and reachable
	IsAvailable(ctx context.Context) bool
}

// Config contains configuration for LLM providers
type Config struct {
	Provider    string  // "openai", "anthropic", "ollama"
	Model       string  // Model name (provider-specific)
	APIKey      string  // API key (not needed for ollama)
	BaseURL     string  // Custom base URL (optional)
	MaxTokens   int     // Max tokens for response
	Temperature float64 // Sampling temperature
	Timeout     int     // Request timeout in seconds
}

// ConfigFromModel converts the YAML-level config into a provider config
func ConfigFromModel(cfg model.LLMConfig) Config {
	return Config{
		Provider:    cfg.Provider,
		Model:       cfg.Model,
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		Timeout:     cfg.TimeoutSeconds,
	}
}

// ReviseRequest contains everything a provider needs to rewrite a draft
type ReviseRequest struct {
	ProcedureTitle string
	Draft          string
	Guidance       []string // Revision instructions, one per issue group
	Model          string   // Override config model (optional)
	MaxTokens      int      // Override config max tokens (optional)
}

// ReviseResponse contains the rewritten draft and call metadata
type ReviseResponse struct {
	Draft      string
	Model      string
	TokensUsed int
}

const revisionSystemPrompt = "Du er en klinisk redaktør. Du retter udkast til kliniske " +
	"procedurer på dansk. Du må kun rette de anførte problemer og må ikke tilføje nye " +
	"påstande, kilder eller afsnit. Bevar dokumentets struktur og [kilde]-markører."

// BuildRevisionPrompt constructs the user prompt for a revision call.
// The guidance lines come from the gate evaluation and are the only
// changes the model is asked to make.
func BuildRevisionPrompt(req ReviseRequest) string {
	var sb strings.Builder

	sb.WriteString("Følgende udkast til en klinisk procedure")
	if req.ProcedureTitle != "" {
		sb.WriteString(fmt.Sprintf(" (%q)", req.ProcedureTitle))
	}
	sb.WriteString(" blev afvist ved kvalitetskontrol.\n\n")

	sb.WriteString("Ret udkastet så følgende problemer løses:\n")
	for _, g := range req.Guidance {
		sb.WriteString("- ")
		sb.WriteString(g)
		sb.WriteString("\n")
	}

	sb.WriteString("\nUDKAST:\n")
	sb.WriteString(req.Draft)
	sb.WriteString("\n\nSvar KUN med det rettede udkast, uden indledning eller kommentarer.\n")

	return sb.String()
}
