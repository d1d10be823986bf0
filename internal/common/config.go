package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	OCR      OCRConfig
	LLM      LLMConfig
	Pipeline PipelineConfig
}

// OCRConfig holds text-extractor configuration
type OCRConfig struct {
	Endpoint string
	APIKey   string
	Language string
	Timeout  time.Duration
}

// LLMConfig holds structuring/rewrite backend configuration
type LLMConfig struct {
	BaseURL              string
	APIKey               string
	Model                string
	StructureTemperature float32
	RewriteTemperature   float32
	MaxOutputTokens      int
	Timeout              time.Duration
}

// PipelineConfig holds orchestration knobs
type PipelineConfig struct {
	MaxPromptChars int
	MaxAttempts    int
	BaseDelay      time.Duration
	RateLimitDelay time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		OCR: OCRConfig{
			Endpoint: getEnv("OCRSPACE_ENDPOINT", "https://api.ocr.space/parse/image"),
			APIKey:   getEnv("OCRSPACE_API_KEY", ""),
			Language: getEnv("OCRSPACE_LANGUAGE", "eng"),
			Timeout:  getEnvAsDuration("OCRSPACE_TIMEOUT", 60*time.Second),
		},
		LLM: LLMConfig{
			BaseURL:              getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
			APIKey:               getEnv("GEMINI_API_KEY", ""),
			Model:                getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
			StructureTemperature: getEnvAsFloat32("STRUCTURE_TEMPERATURE", 0.2),
			RewriteTemperature:   getEnvAsFloat32("REWRITE_TEMPERATURE", 0.8),
			MaxOutputTokens:      getEnvAsInt("LLM_MAX_OUTPUT_TOKENS", 4096),
			Timeout:              getEnvAsDuration("LLM_TIMEOUT", 60*time.Second),
		},
		Pipeline: PipelineConfig{
			MaxPromptChars: getEnvAsInt("MAX_PROMPT_CHARS", 12000),
			MaxAttempts:    getEnvAsInt("STRUCTURE_MAX_ATTEMPTS", 3),
			BaseDelay:      getEnvAsDuration("STRUCTURE_BASE_DELAY", 2*time.Second),
			RateLimitDelay: getEnvAsDuration("STRUCTURE_RATE_LIMIT_DELAY", 12*time.Second),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate checks that credentials needed for a full parse run are present.
// The rewrite path deliberately skips this: a missing LLM key collapses to
// the rewrite fallback instead of failing startup.
func (c *Config) Validate() error {
	if c.OCR.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "OCRSPACE_API_KEY is required", ErrConfiguration)
	}
	if c.LLM.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "GEMINI_API_KEY is required", ErrConfiguration)
	}
	return nil
}
