package model

import "time"

// Config is the complete runtime configuration, populated from defaults,
// ~/.claimgate/config.yaml, CLAIMGATE_* environment variables, and CLI flags.
type Config struct {
	Verify      VerifyConfig      `yaml:"verify"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Cache       CacheConfig       `yaml:"cache"`
	LLM         LLMConfig         `yaml:"llm"`
	Output      OutputConfig      `yaml:"output"`
}

// VerifyConfig tunes the verification core.
type VerifyConfig struct {
	MaxIterations        int      `yaml:"max_iterations"`         // Revise-loop bound
	KeywordThreshold     float64  `yaml:"keyword_threshold"`      // Jaccard cutoff for keyword binding
	WeakBindingScore     float64  `yaml:"weak_binding_score"`     // Below this, a strong claim is weakly supported
	GuidelineCutoffYear  int      `yaml:"guideline_cutoff_year"`  // Sources older than this raise outdated_guideline
	MandatorySections    []string `yaml:"mandatory_sections"`     // Section headings the draft must contain
	RedundancyThreshold  int      `yaml:"redundancy_threshold"`   // Links per claim before evidence_redundancy
}

// ConcurrencyConfig controls batch processing.
type ConcurrencyConfig struct {
	Workers int `yaml:"workers"`
}

// CacheConfig controls the verification-report cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Dir     string        `yaml:"dir"`
	TTL     time.Duration `yaml:"ttl"`
}

// LLMConfig configures the optional regeneration provider. Empty provider
// disables regeneration; the loop then stops after its first failing pass.
type LLMConfig struct {
	Provider          string  `yaml:"provider"` // openai, anthropic, ollama; empty = disabled
	Model             string  `yaml:"model"`
	APIKey            string  `yaml:"-"` // From environment only, never persisted
	BaseURL           string  `yaml:"base_url"`
	MaxTokens         int     `yaml:"max_tokens"`
	Temperature       float64 `yaml:"temperature"`
	TimeoutSeconds    int     `yaml:"timeout_seconds"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Verbose       bool   `yaml:"verbose"`
	IncludeFooter bool   `yaml:"include_footer"`
	Dir           string `yaml:"dir"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Verify: VerifyConfig{
			MaxIterations:       3,
			KeywordThreshold:    0.2,
			WeakBindingScore:    0.4,
			GuidelineCutoffYear: 2018,
			MandatorySections: []string{
				"Indikation",
				"Kontraindikationer",
				"Dosering",
				"Monitorering",
			},
			RedundancyThreshold: 4,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     "",
			TTL:     24 * time.Hour,
		},
		LLM: LLMConfig{
			Provider:          "",
			Model:             "gpt-4o-mini",
			MaxTokens:         4000,
			Temperature:       0.2,
			TimeoutSeconds:    60,
			RequestsPerSecond: 1,
		},
		Output: OutputConfig{
			Verbose:       false,
			IncludeFooter: true,
			Dir:           "./claimgate-reports",
		},
	}
}
