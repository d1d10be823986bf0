package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hotelmate/menuscan/internal/common"
)

// ErrRateLimited marks a 429 from the generation backend. The retry policy
// inserts an extra delay before the next attempt when it sees this.
var ErrRateLimited = errors.New("generation backend rate limited")

// Config for the Gemini REST client.
type Config struct {
	APIKey          string // required; absence fails fast, no network call
	BaseURL         string // default https://generativelanguage.googleapis.com/v1beta
	Model           string // e.g. "gemini-1.5-flash"
	Timeout         time.Duration
	MaxOutputTokens int
}

// Client talks to a Gemini-style generateContent endpoint over plain HTTP.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-flash"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.MaxOutputTokens <= 0 {
		cfg.MaxOutputTokens = 4096
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

// Generate sends a single user-turn prompt and returns the concatenated
// candidate text. Empty responses and non-2xx statuses are errors.
func (c *Client) Generate(ctx context.Context, prompt string, opts GenOptions) (string, error) {
	if c.cfg.APIKey == "" {
		return "", common.NewAppError("CONFIG_ERROR", "generation API key is not set", common.ErrConfiguration)
	}

	rid := uuid.New().String()
	start := time.Now()

	maxTokens := opts.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = c.cfg.MaxOutputTokens
	}
	body := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": prompt}}},
		},
		"generationConfig": map[string]any{
			"temperature":     opts.Temperature,
			"maxOutputTokens": maxTokens,
		},
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.Model, url.QueryEscape(c.cfg.APIKey))

	c.logger.Info("llm.generate.request",
		"req_id", rid,
		"model", c.cfg.Model,
		"temp", opts.Temperature,
		"prompt_chars", len(prompt),
	)

	raw, status, err := c.post(ctx, endpoint, body)
	if err != nil {
		c.logger.Error("llm.generate.http_error",
			"req_id", rid, "status", status, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		if status == http.StatusTooManyRequests {
			return "", fmt.Errorf("%w: %v", ErrRateLimited, err)
		}
		return "", err
	}

	var out struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		c.logger.Error("llm.generate.decode_error", "req_id", rid, "error", err, "raw_bytes", len(raw))
		return "", fmt.Errorf("decode generation response: %w", err)
	}

	var b strings.Builder
	if len(out.Candidates) > 0 {
		for _, p := range out.Candidates[0].Content.Parts {
			b.WriteString(p.Text)
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		c.logger.Warn("llm.generate.empty", "req_id", rid, "raw_bytes", len(raw))
		return "", errors.New("generation response contained no text")
	}

	c.logger.Info("llm.generate.ok",
		"req_id", rid,
		"text_chars", len(text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return text, nil
}

func (c *Client) post(ctx context.Context, endpoint string, body map[string]any) ([]byte, int, error) {
	bs, err := json.Marshal(body)
	if err != nil {
		return nil, 0, fmt.Errorf("encode json: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bs))
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer func(rc io.ReadCloser) {
		if cerr := rc.Close(); cerr != nil {
			c.logger.Warn("llm.generate.body_close_error", "error", cerr)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode/100 != 2 {
		return raw, resp.StatusCode, fmt.Errorf("generation backend status %d: %s", resp.StatusCode, truncate(string(raw), 512))
	}
	return raw, resp.StatusCode, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
