package llm

import "context"

// Candidate is one untrusted item object out of the model's array. Shape is
// arbitrary: fields may be missing, numbers may arrive as currency strings,
// categories may be misspelled. Only the normalizer decides what survives.
type Candidate map[string]any

// GenOptions carry per-call generation parameters. Structuring runs cold for
// determinism; rewrite runs warmer for variety.
type GenOptions struct {
	Temperature     float32
	MaxOutputTokens int
}

// Generator is the single model-calling primitive both the structuring
// engine and the rewrite assistant depend on.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts GenOptions) (string, error)
}

// RewriteResult is the rewrite assistant's output. Always populated: any
// failure collapses to a deterministic fallback.
type RewriteResult struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Preferences are optional free-text style hints for the rewrite assistant.
type Preferences struct {
	TitleStyle       string
	DescriptionStyle string
}
