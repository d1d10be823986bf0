// menuscan-watch watches drop directories for menu files, digitizes each new
// file through the pipeline, and writes one XLSX workbook per source. A
// sqlite ledger keyed on content hash prevents double imports across
// restarts.
package main

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hotelmate/menuscan/constants"
	"github.com/hotelmate/menuscan/internal/common"
	"github.com/hotelmate/menuscan/internal/export"
	"github.com/hotelmate/menuscan/internal/ingest"
	"github.com/hotelmate/menuscan/internal/llm"
	"github.com/hotelmate/menuscan/internal/ocr"
	"github.com/hotelmate/menuscan/internal/pipeline"
)

func main() {
	_ = godotenv.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	dir := flag.String("dir", "./menus", "directory to watch for menu files")
	out := flag.String("out", "./out", "directory for generated workbooks")
	dbPath := flag.String("db", "./data/menuscan.db", "path of the import ledger")
	debounce := flag.Duration("debounce", 2*time.Second, "delay to coalesce file write bursts")
	flag.Parse()

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("configuration invalid", "error", err)
		os.Exit(2)
	}
	if err := os.MkdirAll(*out, 0o755); err != nil {
		logger.Error("create output dir", "dir", *out, "error", err)
		os.Exit(1)
	}

	store, err := ingest.OpenStore(*dbPath)
	if err != nil {
		logger.Error("open ledger", "path", *dbPath, "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Warn("close ledger", "error", cerr)
		}
	}()

	proc := pipeline.NewProcessor(
		ocr.NewClient(ocr.Config{
			Endpoint: cfg.OCR.Endpoint,
			APIKey:   cfg.OCR.APIKey,
			Language: cfg.OCR.Language,
			Timeout:  cfg.OCR.Timeout,
		}, logger),
		llm.NewEngine(llm.NewClient(llm.Config{
			APIKey:          cfg.LLM.APIKey,
			BaseURL:         cfg.LLM.BaseURL,
			Model:           cfg.LLM.Model,
			Timeout:         cfg.LLM.Timeout,
			MaxOutputTokens: cfg.LLM.MaxOutputTokens,
		}, logger), llm.EngineConfig{
			Temperature:     cfg.LLM.StructureTemperature,
			MaxPromptChars:  cfg.Pipeline.MaxPromptChars,
			MaxOutputTokens: cfg.LLM.MaxOutputTokens,
			MaxAttempts:     cfg.Pipeline.MaxAttempts,
			BaseDelay:       cfg.Pipeline.BaseDelay,
			RateLimitDelay:  cfg.Pipeline.RateLimitDelay,
		}, logger),
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	paths, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       []string{*dir},
		InitialScan: true,
		Debounce:    *debounce,
	}, logger)
	if err != nil {
		logger.Error("start watcher", "dir", *dir, "error", err)
		os.Exit(1)
	}
	logger.Info("watching for menus", "dir", *dir, "out", *out)

	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return
		case werr, ok := <-errs:
			if ok {
				logger.Warn("watcher error", "error", werr)
			}
		case path, ok := <-paths:
			if !ok {
				return
			}
			processFile(ctx, logger, store, proc, path, *out)
		}
	}
}

func processFile(ctx context.Context, logger *slog.Logger, store *ingest.Store, proc *pipeline.Processor, path, outDir string) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("read file", "path", path, "error", err)
		return
	}
	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])

	seen, err := store.Seen(hash)
	if err != nil {
		logger.Error("ledger lookup", "path", path, "error", err)
		return
	}
	if seen {
		logger.Info("already imported, skipping", "path", path)
		return
	}

	sourceType := constants.MapExtToSource(filepath.Ext(path))
	if sourceType == "" {
		return
	}
	var source string
	if sourceType == constants.SourceText {
		source = string(data)
	} else {
		source = base64.StdEncoding.EncodeToString(data)
	}

	runCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	items, err := proc.ParseMenu(runCtx, source, sourceType)
	if err != nil {
		logger.Error("import failed", "path", path, "error", err)
		if rerr := store.Record(path, hash, 0, "failed"); rerr != nil {
			logger.Error("ledger record", "path", path, "error", rerr)
		}
		return
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	outPath := filepath.Join(outDir, base+".xlsx")
	wb, err := export.ItemsXLSX(items)
	if err != nil {
		logger.Error("export failed", "path", path, "error", err)
		return
	}
	if err := os.WriteFile(outPath, wb, 0o644); err != nil {
		logger.Error("write workbook", "path", outPath, "error", err)
		return
	}
	if err := store.Record(path, hash, len(items), "ok"); err != nil {
		logger.Error("ledger record", "path", path, "error", err)
	}
	logger.Info("menu imported", "path", path, "items", len(items), "workbook", outPath)
}
