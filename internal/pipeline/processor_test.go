package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hotelmate/menuscan/constants"
	"github.com/hotelmate/menuscan/internal/common"
	"github.com/hotelmate/menuscan/internal/llm"
)

type mockExtractor struct {
	text     string
	err      error
	calls    int
	lastMIME string
	lastB64  string
}

func (m *mockExtractor) Extract(ctx context.Context, base64Payload, mimeType string) (string, error) {
	m.calls++
	m.lastB64 = base64Payload
	m.lastMIME = mimeType
	return m.text, m.err
}

type mockStructurer struct {
	items    []llm.Candidate
	err      error
	calls    int
	lastText string
}

func (m *mockStructurer) Structure(ctx context.Context, rawText string) ([]llm.Candidate, error) {
	m.calls++
	m.lastText = rawText
	return m.items, m.err
}

func TestParseMenuTextSource(t *testing.T) {
	ext := &mockExtractor{}
	eng := &mockStructurer{items: []llm.Candidate{
		{"name": "Idli", "price": "40", "category": "Breakfast Items"},
		{"name": "Dosa", "price": "60", "category": "breakfast_items"},
	}}
	p := NewProcessor(ext, eng, nil)

	items, err := p.ParseMenu(context.Background(), "Idli - 40\nDosa - 60", constants.SourceText)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ext.calls != 0 {
		t.Fatal("text source must not touch the extractor")
	}
	if eng.lastText != "Idli - 40\nDosa - 60" {
		t.Fatalf("structurer got %q", eng.lastText)
	}
	if len(items) != 2 {
		t.Fatalf("items = %v", items)
	}
	for i, want := range []float64{40, 60} {
		if items[i].Category != "breakfast_items" {
			t.Fatalf("item %d category = %q", i, items[i].Category)
		}
		if items[i].Price == nil || *items[i].Price != want {
			t.Fatalf("item %d price = %v, want %v", i, items[i].Price, want)
		}
		if items[i].Description == "" {
			t.Fatalf("item %d description empty", i)
		}
	}
}

func TestParseMenuEmptyTextIsHardFailure(t *testing.T) {
	eng := &mockStructurer{}
	p := NewProcessor(&mockExtractor{}, eng, nil)
	_, err := p.ParseMenu(context.Background(), "   \n\t ", constants.SourceText)
	if !errors.Is(err, common.ErrNoText) {
		t.Fatalf("err = %v, want ErrNoText", err)
	}
	if eng.calls != 0 {
		t.Fatal("structuring must not run on empty input")
	}
}

func TestParseMenuShortOCRTextStopsBeforeStructuring(t *testing.T) {
	ext := &mockExtractor{text: "menu "}
	eng := &mockStructurer{}
	p := NewProcessor(ext, eng, nil)

	_, err := p.ParseMenu(context.Background(), "aGVsbG8=", constants.SourceImage)
	if !errors.Is(err, common.ErrNoText) {
		t.Fatalf("err = %v, want ErrNoText", err)
	}
	if eng.calls != 0 {
		t.Fatal("structuring must not run when OCR found nothing readable")
	}
}

func TestParseMenuStripsDataURLPrefix(t *testing.T) {
	ext := &mockExtractor{text: "STARTERS\nPaneer Tikka 220"}
	eng := &mockStructurer{items: []llm.Candidate{{"name": "Paneer Tikka"}}}
	p := NewProcessor(ext, eng, nil)

	_, err := p.ParseMenu(context.Background(), "data:image/png;base64,aGVsbG8=", constants.SourceImage)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ext.lastB64 != "aGVsbG8=" {
		t.Fatalf("payload = %q, prefix not stripped", ext.lastB64)
	}
	if ext.lastMIME != "image/png" {
		t.Fatalf("mime = %q, want the data-URL's tag", ext.lastMIME)
	}
}

func TestParseMenuDefaultMIMEPerSourceType(t *testing.T) {
	ext := &mockExtractor{text: "MAINS\nDal Makhani 180"}
	eng := &mockStructurer{items: []llm.Candidate{{"name": "Dal Makhani"}}}
	p := NewProcessor(ext, eng, nil)

	if _, err := p.ParseMenu(context.Background(), "aGVsbG8=", constants.SourcePDF); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ext.lastMIME != "application/pdf" {
		t.Fatalf("mime = %q, want application/pdf", ext.lastMIME)
	}
}

func TestParseMenuZeroItemsIsSuccess(t *testing.T) {
	eng := &mockStructurer{items: []llm.Candidate{{"name": "x"}}} // dropped by the normalizer
	p := NewProcessor(&mockExtractor{}, eng, nil)

	items, err := p.ParseMenu(context.Background(), "some menu text", constants.SourceText)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("items = %v, want empty", items)
	}
	if items == nil {
		t.Fatal("want empty slice, not nil")
	}
}

func TestParseMenuUnknownSourceType(t *testing.T) {
	p := NewProcessor(&mockExtractor{}, &mockStructurer{}, nil)
	_, err := p.ParseMenu(context.Background(), "x", constants.SourceType("spreadsheet"))
	if err == nil {
		t.Fatal("expected error for unknown source type")
	}
}

func TestParseMenuPropagatesStructuringError(t *testing.T) {
	exhausted := common.NewAppError("STRUCTURING_EXHAUSTED", "could not structure menu after 3 attempts", common.ErrStructuring)
	p := NewProcessor(&mockExtractor{}, &mockStructurer{err: exhausted}, nil)
	_, err := p.ParseMenu(context.Background(), "some menu text", constants.SourceText)
	if !errors.Is(err, common.ErrStructuring) {
		t.Fatalf("err = %v, want ErrStructuring", err)
	}
}

// End-to-end over the real structuring engine with a scripted model: two
// unusable answers, then a valid minimal array.
func TestParseMenuWithRealEngine(t *testing.T) {
	gen := &scriptedGen{responses: []string{
		"I could not find a menu.",
		"```\nnot json\n```",
		`[{"name":"Tea","price":"10","category":"Hot Drinks"}]`,
	}}
	engine := llm.NewEngine(gen, llm.EngineConfig{
		MaxAttempts: 3,
		BaseDelay:   time.Nanosecond,
	}, nil)
	p := NewProcessor(&mockExtractor{}, engine, nil)

	items, err := p.ParseMenu(context.Background(), "Tea - 10", constants.SourceText)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gen.calls != 3 {
		t.Fatalf("model calls = %d, want exactly 3", gen.calls)
	}
	if len(items) != 1 || items[0].Name != "Tea" || items[0].Category != "beverages" {
		t.Fatalf("items = %+v", items)
	}
	if items[0].Price == nil || *items[0].Price != 10 {
		t.Fatalf("price = %v", items[0].Price)
	}
}

type scriptedGen struct {
	responses []string
	calls     int
}

func (g *scriptedGen) Generate(ctx context.Context, prompt string, opts llm.GenOptions) (string, error) {
	i := g.calls
	g.calls++
	if i < len(g.responses) {
		return g.responses[i], nil
	}
	return "", errors.New("script exhausted")
}
