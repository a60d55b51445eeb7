package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/tirepoint/garage-docs/constants"
	"github.com/tirepoint/garage-docs/internal/async"
	"github.com/tirepoint/garage-docs/internal/common"
	"github.com/tirepoint/garage-docs/internal/export"
	"github.com/tirepoint/garage-docs/internal/extract"
	"github.com/tirepoint/garage-docs/internal/match"
	"github.com/tirepoint/garage-docs/internal/pipeline"
	"github.com/tirepoint/garage-docs/internal/repository"
	"github.com/tirepoint/garage-docs/internal/rules"
	"github.com/tirepoint/garage-docs/internal/score"
	"github.com/tirepoint/garage-docs/internal/textsource"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir     = flag.String("dir", "", "directory of documents to process (required)")
		out     = flag.String("out", "", "output XLSX file path (optional, defaults to parent directory)")
		dbPath  = flag.String("db", "", "local SQLite path (optional, overrides LOCAL_DB_PATH)")
		workers = flag.Int("workers", 0, "worker count (optional, overrides WORKER_COUNT)")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}
	if *out == "" {
		*out = filepath.Join(filepath.Dir(*dir), "extractions.xlsx")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file loaded", "error", err)
	}

	cfg := common.LoadConfig()
	if *dbPath != "" {
		cfg.Database.LocalPath = *dbPath
	}
	if *workers > 0 {
		cfg.Workers.Count = *workers
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store, err := repository.OpenLocal(cfg.Database.LocalPath)
	if err != nil {
		logger.Error("failed to open local store", "path", cfg.Database.LocalPath, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("closing local store", "error", err)
		}
	}()

	if err := store.SeedRules(ctx, rules.DefaultRules()); err != nil {
		logger.Error("failed to seed default rules", "error", err)
		os.Exit(1)
	}

	ruleStore := rules.NewStore(nil, logger)
	if err := ruleStore.Reload(ctx, store); err != nil {
		logger.Error("failed to load pattern rules", "error", err)
		os.Exit(1)
	}
	logger.Info("rules loaded", "version", ruleStore.Version())

	ocr := textsource.NewOCRSource(cfg.OCR.TesseractBin, cfg.OCR.Languages, logger)
	pdf := textsource.NewPDFSource(ocr, cfg.Extraction.MinTextLayerChars, logger)
	source := textsource.NewFileSource(pdf, ocr, logger)

	proc := pipeline.NewProcessor(
		logger,
		source,
		extract.New(ruleStore, logger),
		score.NewScorer(nil),
		match.NewMatcher(store, logger),
		store,
		cfg.Extraction.MaxRawTextBytes,
	)

	queue := async.NewProcessorQueue(proc, logger,
		async.WithWorkers(cfg.Workers.Count),
		async.WithQueueSize(cfg.Workers.QueueSize),
		async.WithProcessTimeout(cfg.Workers.ProcessTimeout),
	)

	logger.Info("starting batch run", "dir", *dir, "workers", cfg.Workers.Count)
	var queued int
	err = filepath.WalkDir(*dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if constants.MapExtToFormat(filepath.Ext(path)) == "" {
			logger.Debug("skipping unsupported file", "path", path)
			return nil
		}
		queued++
		return queue.Enqueue(ctx, async.Job{Path: path, SubmittedAt: time.Now()})
	})
	if err != nil {
		logger.Error("failed to walk document directory", "dir", *dir, "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	queue.Shutdown(shutdownCtx)
	cancel()
	logger.Info("batch run complete", "queued", queued)

	data, err := export.NewService(store, logger).ExportExtractionsXLSX(ctx)
	if err != nil {
		logger.Error("failed to export extractions", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		logger.Error("failed to write workbook", "path", *out, "error", err)
		os.Exit(1)
	}
	logger.Info("workbook written", "path", *out)
}
