package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Rewriter regenerates a single item's name and description from light-weight
// preferences. It never surfaces an error: missing configuration, network
// failures, and unparseable responses all collapse to a deterministic
// fallback so the calling UI always has something displayable.
type Rewriter struct {
	gen         Generator
	temperature float32
	logger      *slog.Logger
}

func NewRewriter(gen Generator, temperature float32, logger *slog.Logger) *Rewriter {
	if temperature <= 0 {
		temperature = 0.8
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Rewriter{gen: gen, temperature: temperature, logger: logger}
}

// Rewrite returns a regenerated title/description pair for the item.
func (r *Rewriter) Rewrite(ctx context.Context, name, category string, prefs *Preferences) RewriteResult {
	return withFallback(r.logger, FallbackRewrite(name), func() (RewriteResult, error) {
		return r.attempt(ctx, name, category, prefs)
	})
}

func (r *Rewriter) attempt(ctx context.Context, name, category string, prefs *Preferences) (RewriteResult, error) {
	prompt := BuildRewritePrompt(name, category, prefs)
	text, err := r.gen.Generate(ctx, prompt, GenOptions{Temperature: r.temperature, MaxOutputTokens: 256})
	if err != nil {
		return RewriteResult{}, err
	}

	raw := ExtractObject(text)
	if raw == nil {
		return RewriteResult{}, errors.New("no JSON object in rewrite response")
	}
	var out RewriteResult
	if err := json.Unmarshal(raw, &out); err != nil {
		return RewriteResult{}, fmt.Errorf("decode rewrite object: %w", err)
	}
	out.Title = strings.TrimSpace(out.Title)
	out.Description = strings.TrimSpace(out.Description)
	if out.Title == "" || out.Description == "" {
		return RewriteResult{}, errors.New("rewrite object missing title or description")
	}
	return out, nil
}

// FallbackRewrite is the deterministic result used when the model cannot be
// reached or its answer cannot be trusted.
func FallbackRewrite(name string) RewriteResult {
	name = strings.TrimSpace(name)
	return RewriteResult{
		Title:       "Signature " + name,
		Description: fmt.Sprintf("Our %s, prepared fresh to order with quality ingredients.", name),
	}
}

// withFallback makes the never-throws contract structural: the operation's
// failure is collapsed to the fallback in exactly one place.
func withFallback(logger *slog.Logger, fallback RewriteResult, op func() (RewriteResult, error)) RewriteResult {
	res, err := op()
	if err != nil {
		logger.Warn("llm.rewrite.fallback", "error", err)
		return fallback
	}
	return res
}
