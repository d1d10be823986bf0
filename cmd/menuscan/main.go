package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/hotelmate/menuscan/constants"
	"github.com/hotelmate/menuscan/internal/common"
	"github.com/hotelmate/menuscan/internal/export"
	"github.com/hotelmate/menuscan/internal/llm"
	"github.com/hotelmate/menuscan/internal/ocr"
	"github.com/hotelmate/menuscan/internal/pipeline"
)

func main() {
	_ = godotenv.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "parse":
		runParse(os.Args[2:], logger)
	case "rewrite":
		runRewrite(os.Args[2:], logger)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
  menuscan parse [-type image|pdf|text] [-xlsx out.xlsx] <file|->
  menuscan rewrite -name <item> [-category <token>] [-title-style <hints>] [-desc-style <hints>]`)
}

func runParse(args []string, logger *slog.Logger) {
	fs := flag.NewFlagSet("parse", flag.ExitOnError)
	typeFlag := fs.String("type", "", "source type: image, pdf or text (default: inferred from extension)")
	xlsxFlag := fs.String("xlsx", "", "write an XLSX workbook to this path instead of JSON to stdout")
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		usage()
		os.Exit(2)
	}
	target := fs.Arg(0)

	cfg := common.LoadConfig()

	sourceType := constants.SourceType(*typeFlag)
	var data []byte
	var err error
	if target == "-" {
		data, err = io.ReadAll(os.Stdin)
		if sourceType == "" {
			sourceType = constants.SourceText
		}
	} else {
		data, err = os.ReadFile(target)
		if sourceType == "" {
			sourceType = constants.MapExtToSource(filepath.Ext(target))
		}
	}
	if err != nil {
		logger.Error("read source", "target", target, "error", err)
		os.Exit(1)
	}
	if sourceType == "" {
		logger.Error("cannot infer source type; pass -type", "target", target)
		os.Exit(2)
	}

	var source string
	if sourceType == constants.SourceText {
		source = string(data)
	} else {
		if cfg.OCR.APIKey == "" {
			logger.Error("OCRSPACE_API_KEY is required for image/pdf sources")
			os.Exit(2)
		}
		source = base64.StdEncoding.EncodeToString(data)
	}

	proc := pipeline.NewProcessor(
		ocr.NewClient(ocr.Config{
			Endpoint: cfg.OCR.Endpoint,
			APIKey:   cfg.OCR.APIKey,
			Language: cfg.OCR.Language,
			Timeout:  cfg.OCR.Timeout,
		}, logger),
		llm.NewEngine(newGenerator(cfg, logger), llm.EngineConfig{
			Temperature:     cfg.LLM.StructureTemperature,
			MaxPromptChars:  cfg.Pipeline.MaxPromptChars,
			MaxOutputTokens: cfg.LLM.MaxOutputTokens,
			MaxAttempts:     cfg.Pipeline.MaxAttempts,
			BaseDelay:       cfg.Pipeline.BaseDelay,
			RateLimitDelay:  cfg.Pipeline.RateLimitDelay,
		}, logger),
		logger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	items, err := proc.ParseMenu(ctx, source, sourceType)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrNoText):
			fmt.Fprintln(os.Stderr, "No readable text found. Try a sharper photo with better lighting, or paste the menu as text.")
		case errors.Is(err, common.ErrStructuring):
			fmt.Fprintln(os.Stderr, "Could not understand this menu. Please try again.")
		case errors.Is(err, common.ErrConfiguration):
			fmt.Fprintln(os.Stderr, "Missing API credentials; check the environment configuration.")
		}
		logger.Error("parse failed", "target", target, "error", err)
		os.Exit(1)
	}

	if *xlsxFlag != "" {
		wb, err := export.ItemsXLSX(items)
		if err != nil {
			logger.Error("export failed", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*xlsxFlag, wb, 0o644); err != nil {
			logger.Error("write workbook", "path", *xlsxFlag, "error", err)
			os.Exit(1)
		}
		logger.Info("workbook written", "path", *xlsxFlag, "items", len(items))
		return
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		logger.Error("encode output", "error", err)
		os.Exit(1)
	}
}

func runRewrite(args []string, logger *slog.Logger) {
	fs := flag.NewFlagSet("rewrite", flag.ExitOnError)
	name := fs.String("name", "", "item name (required)")
	category := fs.String("category", "", "category token")
	titleStyle := fs.String("title-style", "", "free-text hints for the title")
	descStyle := fs.String("desc-style", "", "free-text hints for the description")
	_ = fs.Parse(args)
	if *name == "" {
		usage()
		os.Exit(2)
	}

	cfg := common.LoadConfig()
	rewriter := llm.NewRewriter(newGenerator(cfg, logger), cfg.LLM.RewriteTemperature, logger)

	var prefs *llm.Preferences
	if *titleStyle != "" || *descStyle != "" {
		prefs = &llm.Preferences{TitleStyle: *titleStyle, DescriptionStyle: *descStyle}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	res := rewriter.Rewrite(ctx, *name, *category, prefs)
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		logger.Error("encode output", "error", err)
		os.Exit(1)
	}
}

func newGenerator(cfg *common.Config, logger *slog.Logger) *llm.Client {
	return llm.NewClient(llm.Config{
		APIKey:          cfg.LLM.APIKey,
		BaseURL:         cfg.LLM.BaseURL,
		Model:           cfg.LLM.Model,
		Timeout:         cfg.LLM.Timeout,
		MaxOutputTokens: cfg.LLM.MaxOutputTokens,
	}, logger)
}
