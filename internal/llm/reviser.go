package llm

import (
	"context"
	"fmt"
)

// Reviser produces corrected drafts via a configured provider. The
// revised draft always goes back through extraction and gating, so a
// bad rewrite can never pass the gates on the model's say-so.
type Reviser struct {
	provider Provider
	config   Config
}

// NewReviser creates a reviser from the configuration.
// Returns an error if the provider is unknown or misconfigured.
func NewReviser(config Config) (*Reviser, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, fmt.Errorf("create LLM provider: %w", err)
	}
	if provider == nil {
		return nil, fmt.Errorf("no LLM provider configured")
	}

	return &Reviser{
		provider: provider,
		config:   config,
	}, nil
}

// ProviderName returns the name of the underlying provider
func (r *Reviser) ProviderName() string {
	return r.provider.Name()
}

// Regenerate rewrites the draft according to the revision guidance
func (r *Reviser) Regenerate(ctx context.Context, title, draft string, guidance []string) (string, error) {
	resp, err := r.provider.Revise(ctx, ReviseRequest{
		ProcedureTitle: title,
		Draft:          draft,
		Guidance:       guidance,
	})
	if err != nil {
		return "", fmt.Errorf("revise draft: %w", err)
	}
	return resp.Draft, nil
}
