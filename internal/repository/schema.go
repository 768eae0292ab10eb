package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaDDL is portable between Postgres and sqlite: natural composite keys,
// no generated identifiers except the ingest job UUID, which the application
// supplies.
var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS invoice_headers (
		invoice_number TEXT PRIMARY KEY,
		invoice_date   DATE NOT NULL,
		period_start   DATE NOT NULL,
		period_end     DATE NOT NULL,
		supplier_id    TEXT,
		provider       TEXT NOT NULL DEFAULT '',
		net_total      NUMERIC(12,2) NOT NULL DEFAULT 0,
		vat_total      NUMERIC(12,2) NOT NULL DEFAULT 0,
		gross_total    NUMERIC(12,2) NOT NULL DEFAULT 0,
		updated_at     TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS weekly_summaries (
		invoice_number TEXT NOT NULL,
		operator_id    TEXT NOT NULL,
		tour           TEXT NOT NULL,
		qty_delivered  INTEGER NOT NULL,
		qty_collected  INTEGER NOT NULL,
		qty_sacks      INTEGER NOT NULL,
		qty_packets    INTEGER NOT NULL,
		qty_total      INTEGER NOT NULL,
		weekly_amount  NUMERIC(12,2) NOT NULL,
		PRIMARY KEY (invoice_number, operator_id, tour)
	)`,
	`CREATE TABLE IF NOT EXISTS daily_services (
		invoice_number TEXT NOT NULL,
		working_day    DATE NOT NULL,
		operator_id    TEXT NOT NULL,
		tour           TEXT NOT NULL,
		service_group  TEXT NOT NULL,
		qty_paid       INTEGER NOT NULL,
		qty_unpaid     INTEGER NOT NULL,
		qty_total      INTEGER NOT NULL,
		amount         NUMERIC(12,2) NOT NULL,
		PRIMARY KEY (invoice_number, working_day, operator_id, tour, service_group)
	)`,
	`CREATE TABLE IF NOT EXISTS daily_quantities (
		invoice_number TEXT NOT NULL,
		working_day    DATE NOT NULL,
		operator_id    TEXT NOT NULL,
		tour           TEXT NOT NULL,
		qty_delivery   INTEGER NOT NULL,
		qty_packet     INTEGER NOT NULL,
		qty_locker     INTEGER NOT NULL,
		qty_collection INTEGER NOT NULL,
		qty_sack       INTEGER NOT NULL,
		qty_timed      INTEGER NOT NULL,
		qty_total      INTEGER NOT NULL,
		PRIMARY KEY (invoice_number, working_day, operator_id, tour)
	)`,
	`CREATE TABLE IF NOT EXISTS adjustment_details (
		invoice_number TEXT NOT NULL,
		adj_date       DATE,
		tour           TEXT NOT NULL,
		operator_id    TEXT,
		parcel_id      TEXT,
		adj_type       TEXT NOT NULL,
		amount         NUMERIC(12,2) NOT NULL,
		description    TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_adjustment_details_invoice
		ON adjustment_details (invoice_number)`,
	`CREATE TABLE IF NOT EXISTS adjustment_summaries (
		invoice_number TEXT PRIMARY KEY,
		total_before   NUMERIC(12,2) NOT NULL,
		total_negative NUMERIC(12,2) NOT NULL,
		total_positive NUMERIC(12,2) NOT NULL,
		total_after    NUMERIC(12,2) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS ingest_jobs (
		id             TEXT PRIMARY KEY,
		source_path    TEXT NOT NULL,
		invoice_number TEXT,
		status         TEXT NOT NULL,
		error_message  TEXT,
		started_at     TIMESTAMP NOT NULL,
		finished_at    TIMESTAMP
	)`,
}

// Migrate creates the schema when absent. Statements are idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaDDL {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
