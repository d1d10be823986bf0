package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/hotelmate/menuscan/constants"
	"github.com/hotelmate/menuscan/internal/common"
	"github.com/hotelmate/menuscan/internal/entity"
	"github.com/hotelmate/menuscan/internal/llm"
	"github.com/hotelmate/menuscan/internal/ocr"
)

// TextExtractor is stage 1: base64 document bytes -> plain text.
type TextExtractor interface {
	Extract(ctx context.Context, base64Payload, mimeType string) (string, error)
}

// Structurer is stage 2: plain text -> untrusted candidate items.
type Structurer interface {
	Structure(ctx context.Context, rawText string) ([]llm.Candidate, error)
}

// Processor is the pipeline's public entry point: it sequences extraction,
// structuring, and normalization and owns the source-type contract.
type Processor struct {
	ocr    TextExtractor
	engine Structurer
	logger *slog.Logger
}

func NewProcessor(extractor TextExtractor, engine Structurer, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{ocr: extractor, engine: engine, logger: logger}
}

// matches an optional data-URL prefix on image/pdf sources; the embedded MIME
// tag wins over the source-type default.
var reDataURL = regexp.MustCompile(`^data:([-\w.+]+/[-\w.+]+);base64,`)

// ParseMenu converts one menu source into validated records. A text source
// goes straight to structuring; image and pdf sources pass through OCR first.
// Empty or unreadable text is a hard failure; a successfully structured menu
// that normalizes to zero items is a valid empty result.
func (p *Processor) ParseMenu(ctx context.Context, source string, sourceType constants.SourceType) ([]entity.MenuItem, error) {
	var rawText string

	switch sourceType {
	case constants.SourceText:
		rawText = strings.TrimSpace(source)
		if rawText == "" {
			return nil, common.NewAppError("NO_TEXT", "the supplied text is empty", common.ErrNoText)
		}

	case constants.SourceImage, constants.SourcePDF:
		payload := source
		mimeType := constants.DefaultMIME(sourceType)
		if m := reDataURL.FindStringSubmatch(source); m != nil {
			mimeType = m[1]
			payload = source[len(m[0]):]
		}
		text, err := p.ocr.Extract(ctx, payload, mimeType)
		if err != nil {
			return nil, err
		}
		rawText = strings.TrimSpace(text)
		if len(rawText) < ocr.MinReadableChars {
			return nil, common.NewAppError(
				"NO_TEXT",
				"no readable text found in the document; retake the photo with better lighting and framing",
				common.ErrNoText,
			)
		}

	default:
		return nil, common.NewAppError("INVALID_SOURCE", fmt.Sprintf("unsupported source type %q", sourceType), nil)
	}

	p.logger.Info("pipeline.parse.text_ready", "source_type", sourceType, "text_chars", len(rawText))

	candidates, err := p.engine.Structure(ctx, rawText)
	if err != nil {
		return nil, err
	}

	items := Normalize(candidates)
	p.logger.Info("pipeline.parse.ok",
		"source_type", sourceType,
		"candidates", len(candidates),
		"items", len(items),
	)
	return items, nil
}
