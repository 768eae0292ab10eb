package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/chimchomes/dsp-sub000/constants"
)

// IngestJobRepository records the lifecycle of one ingestion run. Job
// bookkeeping is best-effort audit trail: failures here are logged by the
// caller but never mask the pipeline result.
type IngestJobRepository interface {
	Start(ctx context.Context, sourcePath string) (uuid.UUID, error)
	FinishSuccess(ctx context.Context, jobID uuid.UUID, invoiceNumber string) error
	FinishFailure(ctx context.Context, jobID uuid.UUID, message string) error
}

type ingestJobRepo struct {
	db      *sql.DB
	dialect Dialect
	log     *slog.Logger
}

func NewIngestJobRepository(db *sql.DB, dialect Dialect, log *slog.Logger) IngestJobRepository {
	if log == nil {
		log = slog.Default()
	}
	return &ingestJobRepo{db: db, dialect: dialect, log: log}
}

func (r *ingestJobRepo) Start(ctx context.Context, sourcePath string) (uuid.UUID, error) {
	id := uuid.New()
	_, err := r.db.ExecContext(ctx, rebind(r.dialect, `
		INSERT INTO ingest_jobs (id, source_path, status, started_at)
		VALUES (?, ?, ?, ?)`),
		id.String(), sourcePath, string(constants.JobStatusRunning), time.Now().UTC())
	if err != nil {
		r.log.Error("ingest_job start failed", "source_path", sourcePath, "err", err)
		return uuid.Nil, err
	}
	r.log.Info("ingest_job started", "job_id", id, "source_path", sourcePath)
	return id, nil
}

func (r *ingestJobRepo) FinishSuccess(ctx context.Context, jobID uuid.UUID, invoiceNumber string) error {
	_, err := r.db.ExecContext(ctx, rebind(r.dialect, `
		UPDATE ingest_jobs SET status = ?, invoice_number = ?, finished_at = ?
		WHERE id = ?`),
		string(constants.JobStatusSucceeded), invoiceNumber, time.Now().UTC(), jobID.String())
	if err != nil {
		r.log.Error("ingest_job finish(SUCCEEDED) failed", "job_id", jobID, "err", err)
		return err
	}
	r.log.Info("ingest_job finished", "job_id", jobID, "invoice_number", invoiceNumber)
	return nil
}

func (r *ingestJobRepo) FinishFailure(ctx context.Context, jobID uuid.UUID, message string) error {
	_, err := r.db.ExecContext(ctx, rebind(r.dialect, `
		UPDATE ingest_jobs SET status = ?, error_message = ?, finished_at = ?
		WHERE id = ?`),
		string(constants.JobStatusFailed), message, time.Now().UTC(), jobID.String())
	if err != nil {
		r.log.Error("ingest_job finish(FAILED) failed", "job_id", jobID, "err", err)
		return err
	}
	r.log.Warn("ingest_job finished (FAILED)", "job_id", jobID, "error", message)
	return nil
}
