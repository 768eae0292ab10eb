package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/chimchomes/dsp-sub000/internal/common"
	"github.com/chimchomes/dsp-sub000/internal/export"
	"github.com/chimchomes/dsp-sub000/internal/repository"
)

func main() {
	var (
		invoice = flag.String("invoice", "", "invoice number to export (required)")
		out     = flag.String("out", "", "output XLSX path (default <invoice>.xlsx)")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if *invoice == "" {
		fmt.Fprintln(os.Stderr, "Error: -invoice is required")
		flag.Usage()
		os.Exit(1)
	}
	if *out == "" {
		*out = *invoice + ".xlsx"
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warn("could not load .env file", "error", err)
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	db, pool, dialect, err := repository.Open(ctx, repository.Config{
		DSN:         cfg.Database.DSN,
		MaxConns:    cfg.Database.MaxConns,
		MinConns:    cfg.Database.MinConns,
		DialTimeout: cfg.Database.DialTimeout,
	}, logger)
	if err != nil {
		logger.Error("opening database", "error", err)
		os.Exit(1)
	}
	defer repository.Close(db, pool, logger)

	svc := export.NewService(repository.NewInvoiceRepository(db, dialect, logger), logger)
	data, err := svc.ExportInvoiceXLSX(ctx, *invoice)
	if err != nil {
		logger.Error("export failed", "invoice_number", *invoice, "error", err)
		os.Exit(1)
	}

	if dir := filepath.Dir(*out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Error("creating output directory", "error", err)
			os.Exit(1)
		}
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		logger.Error("writing workbook", "path", *out, "error", err)
		os.Exit(1)
	}
	logger.Info("workbook written", "path", *out, "bytes", len(data))
}
