package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/chimchomes/dsp-sub000/constants"
	"github.com/chimchomes/dsp-sub000/internal/common"
	"github.com/chimchomes/dsp-sub000/internal/entity"
)

// InvoiceRepository persists and reads back the record sets of ingested
// invoices. All writes for one document go through SaveBatch.
type InvoiceRepository interface {
	SaveBatch(ctx context.Context, rs *entity.RecordSet) error
	GetHeader(ctx context.Context, invoiceNumber string) (*entity.InvoiceHeader, error)
	ListWeekly(ctx context.Context, invoiceNumber string) ([]*entity.WeeklySummaryRecord, error)
	ListDailyServices(ctx context.Context, invoiceNumber string) ([]*entity.DailyServiceRecord, error)
	ListDailyQuantities(ctx context.Context, invoiceNumber string) ([]*entity.DailyQuantityRecord, error)
	ListAdjustmentDetails(ctx context.Context, invoiceNumber string) ([]*entity.AdjustmentDetailRecord, error)
	GetAdjustmentSummary(ctx context.Context, invoiceNumber string) (*entity.AdjustmentSummaryRecord, error)
}

type invoiceRepository struct {
	db      *sql.DB
	dialect Dialect
	logger  *slog.Logger
}

func NewInvoiceRepository(db *sql.DB, dialect Dialect, logger *slog.Logger) InvoiceRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &invoiceRepository{db: db, dialect: dialect, logger: logger}
}

// persistErr tags a write failure with its stage and the sentinel the caller
// classifies on. Nothing from the batch is committed when this returns.
func persistErr(stage, invoiceNumber string, err error) error {
	return fmt.Errorf("persist %s for invoice %s: %v: %w", stage, invoiceNumber, err, common.ErrPersistenceFailure)
}

// SaveBatch writes the whole record set in one transaction: header and
// summaries upserted by their natural keys, adjustment details replaced
// wholesale. Any failure rolls everything back and reports the stage.
func (r *invoiceRepository) SaveBatch(ctx context.Context, rs *entity.RecordSet) error {
	inv := rs.Header.InvoiceNumber

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return persistErr("begin", inv, err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := r.upsertHeader(ctx, tx, rs.Header); err != nil {
		return persistErr("header", inv, err)
	}
	for _, w := range rs.Weekly {
		if err := r.upsertWeekly(ctx, tx, w); err != nil {
			return persistErr("weekly", inv, err)
		}
	}
	for _, d := range rs.DailyServices {
		if err := r.upsertDailyService(ctx, tx, d); err != nil {
			return persistErr("daily_service", inv, err)
		}
	}
	for _, q := range rs.DailyQuantities {
		if err := r.upsertDailyQuantity(ctx, tx, q); err != nil {
			return persistErr("daily_quantity", inv, err)
		}
	}

	// adjustment details have no natural key: full replace, never merge
	if _, err := tx.ExecContext(ctx,
		rebind(r.dialect, `DELETE FROM adjustment_details WHERE invoice_number = ?`), inv); err != nil {
		return persistErr("adjustment_delete", inv, err)
	}
	for _, a := range rs.AdjustmentDetails {
		if err := r.insertAdjustmentDetail(ctx, tx, a); err != nil {
			return persistErr("adjustment_detail", inv, err)
		}
	}
	if rs.AdjustmentSummary != nil {
		if err := r.upsertAdjustmentSummary(ctx, tx, rs.AdjustmentSummary); err != nil {
			return persistErr("adjustment_summary", inv, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return persistErr("commit", inv, err)
	}

	r.logger.Info("invoice batch persisted",
		"invoice_number", inv,
		"weekly", len(rs.Weekly),
		"daily_services", len(rs.DailyServices),
		"daily_quantities", len(rs.DailyQuantities),
		"adjustments", len(rs.AdjustmentDetails),
	)
	return nil
}

func (r *invoiceRepository) upsertHeader(ctx context.Context, tx *sql.Tx, h *entity.InvoiceHeader) error {
	_, err := tx.ExecContext(ctx, rebind(r.dialect, `
		INSERT INTO invoice_headers
			(invoice_number, invoice_date, period_start, period_end, supplier_id, provider, net_total, vat_total, gross_total, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (invoice_number) DO UPDATE SET
			invoice_date = excluded.invoice_date,
			period_start = excluded.period_start,
			period_end   = excluded.period_end,
			supplier_id  = excluded.supplier_id,
			provider     = excluded.provider,
			net_total    = excluded.net_total,
			vat_total    = excluded.vat_total,
			gross_total  = excluded.gross_total,
			updated_at   = excluded.updated_at`),
		h.InvoiceNumber, h.InvoiceDate, h.PeriodStart, h.PeriodEnd, h.SupplierID,
		h.Provider, h.NetTotal, h.VATTotal, h.GrossTotal, time.Now().UTC())
	return err
}

func (r *invoiceRepository) upsertWeekly(ctx context.Context, tx *sql.Tx, w *entity.WeeklySummaryRecord) error {
	_, err := tx.ExecContext(ctx, rebind(r.dialect, `
		INSERT INTO weekly_summaries
			(invoice_number, operator_id, tour, qty_delivered, qty_collected, qty_sacks, qty_packets, qty_total, weekly_amount)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (invoice_number, operator_id, tour) DO UPDATE SET
			qty_delivered = excluded.qty_delivered,
			qty_collected = excluded.qty_collected,
			qty_sacks     = excluded.qty_sacks,
			qty_packets   = excluded.qty_packets,
			qty_total     = excluded.qty_total,
			weekly_amount = excluded.weekly_amount`),
		w.InvoiceNumber, w.OperatorID, w.Tour, w.QtyDelivered, w.QtyCollected,
		w.QtySacks, w.QtyPackets, w.QtyTotal, w.WeeklyAmount)
	return err
}

func (r *invoiceRepository) upsertDailyService(ctx context.Context, tx *sql.Tx, d *entity.DailyServiceRecord) error {
	_, err := tx.ExecContext(ctx, rebind(r.dialect, `
		INSERT INTO daily_services
			(invoice_number, working_day, operator_id, tour, service_group, qty_paid, qty_unpaid, qty_total, amount)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (invoice_number, working_day, operator_id, tour, service_group) DO UPDATE SET
			qty_paid   = excluded.qty_paid,
			qty_unpaid = excluded.qty_unpaid,
			qty_total  = excluded.qty_total,
			amount     = excluded.amount`),
		d.InvoiceNumber, d.WorkingDay, d.OperatorID, d.Tour, string(d.ServiceGroup),
		d.QtyPaid, d.QtyUnpaid, d.QtyTotal, d.Amount)
	return err
}

func (r *invoiceRepository) upsertDailyQuantity(ctx context.Context, tx *sql.Tx, q *entity.DailyQuantityRecord) error {
	_, err := tx.ExecContext(ctx, rebind(r.dialect, `
		INSERT INTO daily_quantities
			(invoice_number, working_day, operator_id, tour, qty_delivery, qty_packet, qty_locker, qty_collection, qty_sack, qty_timed, qty_total)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (invoice_number, working_day, operator_id, tour) DO UPDATE SET
			qty_delivery   = excluded.qty_delivery,
			qty_packet     = excluded.qty_packet,
			qty_locker     = excluded.qty_locker,
			qty_collection = excluded.qty_collection,
			qty_sack       = excluded.qty_sack,
			qty_timed      = excluded.qty_timed,
			qty_total      = excluded.qty_total`),
		q.InvoiceNumber, q.WorkingDay, q.OperatorID, q.Tour, q.QtyDelivery,
		q.QtyPacket, q.QtyLocker, q.QtyCollection, q.QtySack, q.QtyTimed, q.QtyTotal)
	return err
}

func (r *invoiceRepository) insertAdjustmentDetail(ctx context.Context, tx *sql.Tx, a *entity.AdjustmentDetailRecord) error {
	_, err := tx.ExecContext(ctx, rebind(r.dialect, `
		INSERT INTO adjustment_details
			(invoice_number, adj_date, tour, operator_id, parcel_id, adj_type, amount, description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		a.InvoiceNumber, a.Date, a.Tour, a.OperatorID, a.ParcelID, a.Type, a.Amount, a.Description)
	return err
}

func (r *invoiceRepository) upsertAdjustmentSummary(ctx context.Context, tx *sql.Tx, s *entity.AdjustmentSummaryRecord) error {
	_, err := tx.ExecContext(ctx, rebind(r.dialect, `
		INSERT INTO adjustment_summaries
			(invoice_number, total_before, total_negative, total_positive, total_after)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (invoice_number) DO UPDATE SET
			total_before   = excluded.total_before,
			total_negative = excluded.total_negative,
			total_positive = excluded.total_positive,
			total_after    = excluded.total_after`),
		s.InvoiceNumber, s.TotalBefore, s.TotalNegative, s.TotalPositive, s.TotalAfter)
	return err
}

func (r *invoiceRepository) GetHeader(ctx context.Context, invoiceNumber string) (*entity.InvoiceHeader, error) {
	row := r.db.QueryRowContext(ctx, rebind(r.dialect, `
		SELECT invoice_number, invoice_date, period_start, period_end, supplier_id, provider, net_total, vat_total, gross_total
		FROM invoice_headers WHERE invoice_number = ?`), invoiceNumber)
	h := &entity.InvoiceHeader{}
	err := row.Scan(&h.InvoiceNumber, &h.InvoiceDate, &h.PeriodStart, &h.PeriodEnd,
		&h.SupplierID, &h.Provider, &h.NetTotal, &h.VATTotal, &h.GrossTotal)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("invoice %s: %w", invoiceNumber, common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return h, nil
}

func (r *invoiceRepository) ListWeekly(ctx context.Context, invoiceNumber string) ([]*entity.WeeklySummaryRecord, error) {
	rows, err := r.db.QueryContext(ctx, rebind(r.dialect, `
		SELECT invoice_number, operator_id, tour, qty_delivered, qty_collected, qty_sacks, qty_packets, qty_total, weekly_amount
		FROM weekly_summaries WHERE invoice_number = ?
		ORDER BY operator_id, tour`), invoiceNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.WeeklySummaryRecord
	for rows.Next() {
		w := &entity.WeeklySummaryRecord{}
		if err := rows.Scan(&w.InvoiceNumber, &w.OperatorID, &w.Tour, &w.QtyDelivered,
			&w.QtyCollected, &w.QtySacks, &w.QtyPackets, &w.QtyTotal, &w.WeeklyAmount); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (r *invoiceRepository) ListDailyServices(ctx context.Context, invoiceNumber string) ([]*entity.DailyServiceRecord, error) {
	rows, err := r.db.QueryContext(ctx, rebind(r.dialect, `
		SELECT invoice_number, working_day, operator_id, tour, service_group, qty_paid, qty_unpaid, qty_total, amount
		FROM daily_services WHERE invoice_number = ?
		ORDER BY working_day, operator_id, tour, service_group`), invoiceNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.DailyServiceRecord
	for rows.Next() {
		d := &entity.DailyServiceRecord{}
		var group string
		if err := rows.Scan(&d.InvoiceNumber, &d.WorkingDay, &d.OperatorID, &d.Tour,
			&group, &d.QtyPaid, &d.QtyUnpaid, &d.QtyTotal, &d.Amount); err != nil {
			return nil, err
		}
		d.ServiceGroup = constants.ServiceGroup(group)
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *invoiceRepository) ListDailyQuantities(ctx context.Context, invoiceNumber string) ([]*entity.DailyQuantityRecord, error) {
	rows, err := r.db.QueryContext(ctx, rebind(r.dialect, `
		SELECT invoice_number, working_day, operator_id, tour, qty_delivery, qty_packet, qty_locker, qty_collection, qty_sack, qty_timed, qty_total
		FROM daily_quantities WHERE invoice_number = ?
		ORDER BY working_day, operator_id, tour`), invoiceNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.DailyQuantityRecord
	for rows.Next() {
		q := &entity.DailyQuantityRecord{}
		if err := rows.Scan(&q.InvoiceNumber, &q.WorkingDay, &q.OperatorID, &q.Tour,
			&q.QtyDelivery, &q.QtyPacket, &q.QtyLocker, &q.QtyCollection,
			&q.QtySack, &q.QtyTimed, &q.QtyTotal); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (r *invoiceRepository) ListAdjustmentDetails(ctx context.Context, invoiceNumber string) ([]*entity.AdjustmentDetailRecord, error) {
	rows, err := r.db.QueryContext(ctx, rebind(r.dialect, `
		SELECT invoice_number, adj_date, tour, operator_id, parcel_id, adj_type, amount, description
		FROM adjustment_details WHERE invoice_number = ?
		ORDER BY adj_date, tour, adj_type`), invoiceNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.AdjustmentDetailRecord
	for rows.Next() {
		a := &entity.AdjustmentDetailRecord{}
		if err := rows.Scan(&a.InvoiceNumber, &a.Date, &a.Tour, &a.OperatorID,
			&a.ParcelID, &a.Type, &a.Amount, &a.Description); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *invoiceRepository) GetAdjustmentSummary(ctx context.Context, invoiceNumber string) (*entity.AdjustmentSummaryRecord, error) {
	row := r.db.QueryRowContext(ctx, rebind(r.dialect, `
		SELECT invoice_number, total_before, total_negative, total_positive, total_after
		FROM adjustment_summaries WHERE invoice_number = ?`), invoiceNumber)
	s := &entity.AdjustmentSummaryRecord{}
	err := row.Scan(&s.InvoiceNumber, &s.TotalBefore, &s.TotalNegative, &s.TotalPositive, &s.TotalAfter)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("adjustment summary %s: %w", invoiceNumber, common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}
