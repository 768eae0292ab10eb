// Package pipeline wires the ingestion stages together: token extraction,
// row reconstruction, section parsing, validation, persistence.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/chimchomes/dsp-sub000/internal/entity"
	"github.com/chimchomes/dsp-sub000/internal/extract"
	"github.com/chimchomes/dsp-sub000/internal/layout"
	"github.com/chimchomes/dsp-sub000/internal/parse"
	"github.com/chimchomes/dsp-sub000/internal/repository"
)

// Pipeline ingests one document at a time: fully parsed and validated in
// memory before any persistence call is issued. The token extractor and the
// store are injected; the pipeline holds no ambient global state.
type Pipeline struct {
	logger    *slog.Logger
	extractor extract.TokenExtractor
	rows      *layout.RowReconstructor
	header    *parse.HeaderExtractor
	weekly    *parse.WeeklySummaryExtractor
	daily     *parse.DailyBreakdownParser
	adjust    *parse.AdjustmentParser
	invoices  repository.InvoiceRepository
	jobs      repository.IngestJobRepository
}

func New(
	logger *slog.Logger,
	extractor extract.TokenExtractor,
	profile layout.Profile,
	invoices repository.InvoiceRepository,
	jobs repository.IngestJobRepository,
) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		logger:    logger,
		extractor: extractor,
		rows:      layout.NewRowReconstructor(profile, logger),
		header:    parse.NewHeaderExtractor(logger),
		weekly:    parse.NewWeeklySummaryExtractor(logger),
		daily:     parse.NewDailyBreakdownParser(logger),
		adjust:    parse.NewAdjustmentParser(logger),
		invoices:  invoices,
		jobs:      jobs,
	}
}

// Parse runs extraction and every parser stage without touching the store.
// On success the returned record set is complete and validated.
func (p *Pipeline) Parse(ctx context.Context, r io.ReaderAt, size int64) (*entity.RecordSet, error) {
	pages, err := p.extractor.Extract(ctx, r, size)
	if err != nil {
		return nil, fmt.Errorf("token extraction: %w", err)
	}

	lines, err := p.rows.Lines(pages)
	if err != nil {
		return nil, err
	}

	sections := parse.SplitSections(lines)

	header, err := p.header.Extract(sections.All)
	if err != nil {
		return nil, err
	}
	inv := header.InvoiceNumber

	weekly, err := p.weekly.Extract(inv, sections.Weekly)
	if err != nil {
		return nil, fmt.Errorf("weekly summary: %w", err)
	}
	services, quantities, err := p.daily.Parse(inv, sections.Daily)
	if err != nil {
		return nil, err
	}
	details, summary, err := p.adjust.Parse(inv, sections.Adjustment)
	if err != nil {
		return nil, fmt.Errorf("adjustments: %w", err)
	}

	rs := &entity.RecordSet{
		Header:            header,
		Weekly:            weekly,
		DailyServices:     services,
		DailyQuantities:   quantities,
		AdjustmentDetails: details,
		AdjustmentSummary: summary,
	}
	if err := rs.Validate(); err != nil {
		return nil, err
	}

	p.logger.Info("document parsed",
		"invoice_number", inv,
		"weekly", len(weekly),
		"daily_services", len(services),
		"daily_quantities", len(quantities),
		"adjustments", len(details),
	)
	return rs, nil
}

// Ingest parses the document and hands the full record set to the store as
// one unit. On any failure no partial output survives.
func (p *Pipeline) Ingest(ctx context.Context, r io.ReaderAt, size int64) (*entity.RecordSet, error) {
	rs, err := p.Parse(ctx, r, size)
	if err != nil {
		return nil, err
	}
	if err := p.invoices.SaveBatch(ctx, rs); err != nil {
		return nil, err
	}
	return rs, nil
}

// IngestFile ingests one document from disk, recording an ingest job around
// the run when a job repository is configured. Job bookkeeping failures are
// logged, never returned: the pipeline outcome is the parse/persist result.
func (p *Pipeline) IngestFile(ctx context.Context, path string) (*entity.RecordSet, error) {
	var jobID uuid.UUID
	if p.jobs != nil {
		id, err := p.jobs.Start(ctx, path)
		if err != nil {
			p.logger.Warn("ingest job not recorded", "source_path", path, "err", err)
		} else {
			jobID = id
		}
	}

	rs, err := p.ingestPath(ctx, path)

	if p.jobs != nil && jobID != uuid.Nil {
		if err != nil {
			if jerr := p.jobs.FinishFailure(ctx, jobID, err.Error()); jerr != nil {
				p.logger.Warn("ingest job failure not recorded", "job_id", jobID, "err", jerr)
			}
		} else {
			if jerr := p.jobs.FinishSuccess(ctx, jobID, rs.Header.InvoiceNumber); jerr != nil {
				p.logger.Warn("ingest job success not recorded", "job_id", jobID, "err", jerr)
			}
		}
	}

	if err != nil {
		p.logger.Error("pipeline.ingest.failed", "source_path", path, "err", err)
		return nil, err
	}
	return rs, nil
}

func (p *Pipeline) ingestPath(ctx context.Context, path string) (*entity.RecordSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat document: %w", err)
	}
	return p.Ingest(ctx, f, info.Size())
}
