package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hotelmate/menuscan/internal/common"
	"github.com/hotelmate/menuscan/internal/retry"
)

// EngineConfig holds the structuring engine's knobs.
type EngineConfig struct {
	Temperature     float32       // low; determinism favored
	MaxPromptChars  int           // menu text clipped beyond this
	MaxOutputTokens int
	MaxAttempts     int           // default 3
	BaseDelay       time.Duration // delay after attempt n is n×BaseDelay
	RateLimitDelay  time.Duration // extra fixed pause after a 429
}

// Engine turns free menu text into candidate item records via the model,
// retrying around transport failures and unusable responses.
type Engine struct {
	gen    Generator
	cfg    EngineConfig
	logger *slog.Logger
}

func NewEngine(gen Generator, cfg EngineConfig, logger *slog.Logger) *Engine {
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.2
	}
	if cfg.MaxPromptChars <= 0 {
		cfg.MaxPromptChars = 12000
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = 2 * time.Second
	}
	if cfg.RateLimitDelay <= 0 {
		cfg.RateLimitDelay = 12 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{gen: gen, cfg: cfg, logger: logger}
}

// Structure extracts candidate items from raw menu text. An attempt counts as
// failed when the call errors, the response has no text, or no valid
// non-empty array can be salvaged from it. On exhaustion no partial result is
// returned.
func (e *Engine) Structure(ctx context.Context, rawText string) ([]Candidate, error) {
	rid := uuid.New().String()
	prompt := BuildStructurePrompt(rawText, e.cfg.MaxPromptChars)

	e.logger.Info("llm.structure.start",
		"req_id", rid,
		"text_chars", len(rawText),
		"max_attempts", e.cfg.MaxAttempts,
	)

	policy := retry.Policy{
		MaxAttempts: e.cfg.MaxAttempts,
		Backoff: func(attempt int) time.Duration {
			return time.Duration(attempt) * e.cfg.BaseDelay
		},
		Penalty: func(err error) time.Duration {
			if errors.Is(err, ErrRateLimited) {
				return e.cfg.RateLimitDelay
			}
			return 0
		},
		Permanent: func(err error) bool {
			return errors.Is(err, common.ErrConfiguration)
		},
	}

	var items []Candidate
	err := policy.Do(ctx, func(ctx context.Context, attempt int) error {
		text, err := e.gen.Generate(ctx, prompt, GenOptions{
			Temperature:     e.cfg.Temperature,
			MaxOutputTokens: e.cfg.MaxOutputTokens,
		})
		if err != nil {
			e.logger.Warn("llm.structure.attempt_failed", "req_id", rid, "attempt", attempt, "error", err)
			return err
		}

		raw := ExtractArray(text)
		if raw == nil {
			e.logger.Warn("llm.structure.no_array", "req_id", rid, "attempt", attempt, "text_chars", len(text))
			return fmt.Errorf("attempt %d: no JSON array in response", attempt)
		}
		if err := ValidateCandidateArray(raw); err != nil {
			e.logger.Warn("llm.structure.schema_invalid", "req_id", rid, "attempt", attempt, "error", err)
			return fmt.Errorf("attempt %d: response array invalid: %w", attempt, err)
		}

		var got []Candidate
		if err := json.Unmarshal(raw, &got); err != nil {
			return fmt.Errorf("attempt %d: decode array: %w", attempt, err)
		}
		if len(got) == 0 {
			e.logger.Warn("llm.structure.empty_array", "req_id", rid, "attempt", attempt)
			return fmt.Errorf("attempt %d: response array was empty", attempt)
		}
		items = got
		e.logger.Info("llm.structure.ok", "req_id", rid, "attempt", attempt, "items", len(got))
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrConfiguration) {
			return nil, err
		}
		return nil, common.NewAppError(
			"STRUCTURING_EXHAUSTED",
			fmt.Sprintf("could not structure menu after %d attempts", e.cfg.MaxAttempts),
			fmt.Errorf("%w: %v", common.ErrStructuring, err),
		)
	}
	return items, nil
}
