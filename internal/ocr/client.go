// Package ocr wraps an OCR.space-style parse endpoint. One outbound call per
// extraction, no retry: OCR failures are almost always content-quality
// problems (blur, glare, bad framing), not transient faults.
package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hotelmate/menuscan/internal/common"
)

// MinReadableChars is the threshold under which an OCR result counts as
// "nothing readable": a hard acquisition failure rather than a short menu.
const MinReadableChars = 10

// Config for the OCR client.
type Config struct {
	Endpoint string // default https://api.ocr.space/parse/image
	APIKey   string // required
	Language string // default "eng"
	Timeout  time.Duration
}

type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "https://api.ocr.space/parse/image"
	}
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

type parseResponse struct {
	ParsedResults []struct {
		ParsedText string `json:"ParsedText"`
	} `json:"ParsedResults"`
	IsErroredOnProcessing bool            `json:"IsErroredOnProcessing"`
	ErrorMessage          json.RawMessage `json:"ErrorMessage"`
}

// Extract submits a base64 payload (no data-URL prefix) with its MIME tag and
// returns the concatenated recognized text in reading order. Menus are
// grid-like, so table segmentation and orientation detection are requested,
// along with the higher-accuracy engine.
func (c *Client) Extract(ctx context.Context, base64Payload, mimeType string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", common.NewAppError("CONFIG_ERROR", "OCR API key is not set", common.ErrConfiguration)
	}

	rid := uuid.New().String()
	start := time.Now()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := map[string]string{
		"apikey":            c.cfg.APIKey,
		"language":          c.cfg.Language,
		"isOverlayRequired": "false",
		"detectOrientation": "true",
		"isTable":           "true",
		"scale":             "true",
		"OCREngine":         "2",
		"base64Image":       "data:" + mimeType + ";base64," + base64Payload,
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return "", fmt.Errorf("write form field %s: %w", k, err)
		}
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, &buf)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	c.logger.Info("ocr.extract.request", "req_id", rid, "mime", mimeType, "payload_bytes", len(base64Payload))

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("ocr.extract.send_error", "req_id", rid, "error", err)
		return "", fmt.Errorf("ocr request: %w", err)
	}
	defer func(rc io.ReadCloser) {
		if cerr := rc.Close(); cerr != nil {
			c.logger.Warn("ocr.extract.body_close_error", "req_id", rid, "error", cerr)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode/100 != 2 {
		c.logger.Error("ocr.extract.status", "req_id", rid, "status", resp.StatusCode)
		return "", fmt.Errorf("ocr backend status %d", resp.StatusCode)
	}

	var out parseResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode ocr response: %w", err)
	}
	if out.IsErroredOnProcessing {
		msg := flattenErrorMessage(out.ErrorMessage)
		c.logger.Error("ocr.extract.backend_error", "req_id", rid, "message", msg)
		return "", common.NewAppError("OCR_FAILED", msg, nil)
	}

	segments := make([]string, 0, len(out.ParsedResults))
	for _, r := range out.ParsedResults {
		if s := strings.TrimSpace(r.ParsedText); s != "" {
			segments = append(segments, s)
		}
	}
	text := strings.TrimSpace(strings.Join(segments, "\n\n"))

	c.logger.Info("ocr.extract.ok",
		"req_id", rid,
		"segments", len(segments),
		"text_chars", len(text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if len(text) < MinReadableChars {
		return "", common.NewAppError(
			"NO_TEXT",
			"no readable text found in the document; retake the photo with better lighting and framing",
			common.ErrNoText,
		)
	}
	return text, nil
}

// flattenErrorMessage handles the backend's habit of returning ErrorMessage
// as either a string or an array of strings.
func flattenErrorMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "ocr processing failed"
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil && single != "" {
		return single
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil && len(many) > 0 {
		return strings.Join(many, "; ")
	}
	return "ocr processing failed"
}
