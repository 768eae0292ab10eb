package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/chimchomes/dsp-sub000/internal/common"
	"github.com/chimchomes/dsp-sub000/internal/extract"
	"github.com/chimchomes/dsp-sub000/internal/ingest"
	"github.com/chimchomes/dsp-sub000/internal/layout"
	"github.com/chimchomes/dsp-sub000/internal/pipeline"
	"github.com/chimchomes/dsp-sub000/internal/repository"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		file    = flag.String("file", "", "ingest a single invoice PDF and exit")
		watch   = flag.String("watch", "", "watch an inbox directory for invoice PDFs (recursive)")
		scan    = flag.Bool("scan", true, "with -watch, also ingest PDFs already present in the inbox")
		jsonLog = flag.Bool("json", false, "emit JSON logs instead of text")
	)
	flag.Parse()

	if (*file == "") == (*watch == "") {
		printError("Error: exactly one of -file or -watch is required\n")
		flag.Usage()
		os.Exit(1)
	}

	var handler slog.Handler
	if *jsonLog {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

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
		DSN:              cfg.Database.DSN,
		MaxConns:         cfg.Database.MaxConns,
		MinConns:         cfg.Database.MinConns,
		MaxConnLifetime:  cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
		DialTimeout:      cfg.Database.DialTimeout,
		StatementTimeout: cfg.Database.StatementTimeout,
	}, logger)
	if err != nil {
		logger.Error("opening database", "error", err)
		os.Exit(1)
	}
	defer repository.Close(db, pool, logger)

	if err := repository.Migrate(ctx, db); err != nil {
		logger.Error("applying schema", "error", err)
		os.Exit(1)
	}

	profile := layout.DefaultProfile()
	if cfg.Ingest.LayoutProfile != "" {
		profile, err = layout.LoadProfile(cfg.Ingest.LayoutProfile)
		if err != nil {
			logger.Error("loading layout profile", "path", cfg.Ingest.LayoutProfile, "error", err)
			os.Exit(2)
		}
	}

	invoices := repository.NewInvoiceRepository(db, dialect, logger)
	jobs := repository.NewIngestJobRepository(db, dialect, logger)
	p := pipeline.New(logger, extract.NewPDFTokenExtractor(logger), profile, invoices, jobs)

	if *file != "" {
		rs, err := p.IngestFile(ctx, *file)
		if err != nil {
			logger.Error("ingest failed", "path", *file, "error", err)
			os.Exit(1)
		}
		logger.Info("ingest complete",
			"path", *file,
			"invoice_number", rs.Header.InvoiceNumber,
			"weekly_rows", len(rs.Weekly),
			"daily_services", len(rs.DailyServices),
			"adjustments", len(rs.AdjustmentDetails))
		return
	}

	err = ingest.Run(ctx, ingest.InboxConfig{
		Roots:       []string{*watch},
		InitialScan: *scan,
		Debounce:    cfg.Ingest.InboxDebounce,
		Workers:     int(cfg.Ingest.InboxWorkers),
	}, p, logger)
	if err != nil && ctx.Err() == nil {
		logger.Error("inbox watch failed", "error", err)
		os.Exit(1)
	}
	logger.Info("shutting down")
}
