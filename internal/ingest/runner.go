package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/chimchomes/dsp-sub000/internal/async"
	"github.com/chimchomes/dsp-sub000/internal/entity"
)

// FileIngestor processes a single invoice document from disk.
type FileIngestor interface {
	IngestFile(ctx context.Context, path string) (*entity.RecordSet, error)
}

// Run drains inbox events into a worker queue until ctx is cancelled or the
// watcher channels close. Failures on individual documents are logged by the
// queue and skipped so one bad invoice cannot stall the inbox.
func Run(ctx context.Context, cfg InboxConfig, ing FileIngestor, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	events, errs, err := WatchInbox(ctx, cfg, logger)
	if err != nil {
		return err
	}

	queue := async.NewWorkerQueue(cfg.Workers, 0, func(jctx context.Context, job async.Job) error {
		rs, err := ing.IngestFile(jctx, job.Path)
		if err != nil {
			return err
		}
		logger.Info("inbox.ingest.ok", "path", job.Path, "invoice_number", rs.Header.InvoiceNumber)
		return nil
	}, logger)
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		queue.Shutdown(sctx)
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case path, ok := <-events:
			if !ok {
				return nil
			}
			if err := queue.Enqueue(ctx, async.Job{Path: path}); err != nil {
				return err
			}
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			logger.Warn("inbox.watch.degraded", "error", err)
		}
	}
}
