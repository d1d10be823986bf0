package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hotelmate/menuscan/internal/common"
)

// scriptedGenerator returns canned responses (or errors) in order.
type scriptedGenerator struct {
	responses []string
	errs      []error
	calls     int
}

func (g *scriptedGenerator) Generate(ctx context.Context, prompt string, opts GenOptions) (string, error) {
	i := g.calls
	g.calls++
	if i < len(g.errs) && g.errs[i] != nil {
		return "", g.errs[i]
	}
	if i < len(g.responses) {
		return g.responses[i], nil
	}
	return "", errors.New("script exhausted")
}

func fastEngine(gen Generator) *Engine {
	return NewEngine(gen, EngineConfig{
		MaxAttempts:    3,
		BaseDelay:      time.Nanosecond,
		RateLimitDelay: time.Nanosecond,
	}, nil)
}

func TestStructureFirstAttemptSucceeds(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{`[{"name":"Idli","price":"40"}]`}}
	items, err := fastEngine(gen).Structure(context.Background(), "Idli - 40")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0]["name"] != "Idli" {
		t.Fatalf("items = %v", items)
	}
	if gen.calls != 1 {
		t.Fatalf("calls = %d, want 1", gen.calls)
	}
}

func TestStructureRecoversOnThirdAttempt(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{
		"I'm sorry, I can't see a menu here.",
		"Here is some prose without an array.",
		`[{"name":"Tea"}]`,
	}}
	items, err := fastEngine(gen).Structure(context.Background(), "Tea - 10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0]["name"] != "Tea" {
		t.Fatalf("items = %v", items)
	}
	if gen.calls != 3 {
		t.Fatalf("calls = %d, want exactly 3", gen.calls)
	}
}

func TestStructureExhaustion(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{"no", "still no", "never"}}
	items, err := fastEngine(gen).Structure(context.Background(), "Tea - 10")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, common.ErrStructuring) {
		t.Fatalf("err = %v, want ErrStructuring", err)
	}
	if items != nil {
		t.Fatalf("no partial result expected, got %v", items)
	}
	if gen.calls != 3 {
		t.Fatalf("calls = %d, want 3", gen.calls)
	}
}

func TestStructureEmptyArrayRetries(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{`[]`, `[{"name":"Tea"}]`}}
	items, err := fastEngine(gen).Structure(context.Background(), "Tea - 10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %v", items)
	}
	if gen.calls != 2 {
		t.Fatalf("calls = %d, want 2", gen.calls)
	}
}

func TestStructureNonObjectArrayRetries(t *testing.T) {
	// a valid JSON array of non-objects fails schema validation and retries
	gen := &scriptedGenerator{responses: []string{`["Idli","Dosa"]`, `[{"name":"Idli"}]`}}
	items, err := fastEngine(gen).Structure(context.Background(), "Idli")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %v", items)
	}
	if gen.calls != 2 {
		t.Fatalf("calls = %d, want 2", gen.calls)
	}
}

func TestStructureRateLimitStillRetries(t *testing.T) {
	gen := &scriptedGenerator{
		errs:      []error{ErrRateLimited, nil},
		responses: []string{"", `[{"name":"Tea"}]`},
	}
	items, err := fastEngine(gen).Structure(context.Background(), "Tea")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %v", items)
	}
}

func TestStructureConfigurationFailsFast(t *testing.T) {
	confErr := common.NewAppError("CONFIG_ERROR", "generation API key is not set", common.ErrConfiguration)
	gen := &scriptedGenerator{errs: []error{confErr, confErr, confErr}}
	_, err := fastEngine(gen).Structure(context.Background(), "Tea")
	if !errors.Is(err, common.ErrConfiguration) {
		t.Fatalf("err = %v, want ErrConfiguration", err)
	}
	if gen.calls != 1 {
		t.Fatalf("calls = %d, want 1 (no retry on configuration errors)", gen.calls)
	}
}
