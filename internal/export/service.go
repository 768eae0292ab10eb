package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/chimchomes/dsp-sub000/internal/repository"
)

// Service is a tiny façade over the invoice repository that produces XLSX
// bytes for the finance handoff.
type Service struct {
	invoices repository.InvoiceRepository
	logger   *slog.Logger
}

func NewService(invoices repository.InvoiceRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{invoices: invoices, logger: logger}
}

// ExportInvoiceXLSX returns a workbook with Weekly, Daily and Adjustments
// sheets for one ingested invoice.
func (s *Service) ExportInvoiceXLSX(ctx context.Context, invoiceNumber string) ([]byte, error) {
	start := time.Now()

	header, err := s.invoices.GetHeader(ctx, invoiceNumber)
	if err != nil {
		return nil, fmt.Errorf("load header: %w", err)
	}

	f := excelize.NewFile()

	write := func(sheet string, col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
	addSheet := func(name string, headers []string) {
		if index, _ := f.GetSheetIndex(name); index == -1 {
			_, _ = f.NewSheet(name)
		}
		for i, h := range headers {
			write(name, i+1, 1, h)
		}
	}

	// Weekly
	const weeklySheet = "Weekly"
	addSheet(weeklySheet, []string{"Operator", "Tour", "Delivered", "Collected", "Sacks", "Packets", "Total", "Amount"})
	weekly, err := s.invoices.ListWeekly(ctx, invoiceNumber)
	if err != nil {
		return nil, fmt.Errorf("query weekly: %w", err)
	}
	for i, w := range weekly {
		row := i + 2
		write(weeklySheet, 1, row, w.OperatorID)
		write(weeklySheet, 2, row, w.Tour)
		write(weeklySheet, 3, row, w.QtyDelivered)
		write(weeklySheet, 4, row, w.QtyCollected)
		write(weeklySheet, 5, row, w.QtySacks)
		write(weeklySheet, 6, row, w.QtyPackets)
		write(weeklySheet, 7, row, w.QtyTotal)
		write(weeklySheet, 8, row, w.WeeklyAmount)
	}

	// Daily
	const dailySheet = "Daily"
	addSheet(dailySheet, []string{"Day", "Operator", "Tour", "Service Group", "Paid", "Unpaid", "Total", "Amount"})
	services, err := s.invoices.ListDailyServices(ctx, invoiceNumber)
	if err != nil {
		return nil, fmt.Errorf("query daily: %w", err)
	}
	for i, d := range services {
		row := i + 2
		write(dailySheet, 1, row, d.WorkingDay.Format("2006-01-02"))
		write(dailySheet, 2, row, d.OperatorID)
		write(dailySheet, 3, row, d.Tour)
		write(dailySheet, 4, row, string(d.ServiceGroup))
		write(dailySheet, 5, row, d.QtyPaid)
		write(dailySheet, 6, row, d.QtyUnpaid)
		write(dailySheet, 7, row, d.QtyTotal)
		write(dailySheet, 8, row, d.Amount)
	}

	// Adjustments
	const adjSheet = "Adjustments"
	addSheet(adjSheet, []string{"Date", "Tour", "Operator", "Parcel", "Type", "Amount", "Description"})
	details, err := s.invoices.ListAdjustmentDetails(ctx, invoiceNumber)
	if err != nil {
		return nil, fmt.Errorf("query adjustments: %w", err)
	}
	rowN := 2
	for _, a := range details {
		write(adjSheet, 1, rowN, a.Date.Format("2006-01-02"))
		write(adjSheet, 2, rowN, a.Tour)
		if a.OperatorID != nil {
			write(adjSheet, 3, rowN, *a.OperatorID)
		}
		if a.ParcelID != nil {
			write(adjSheet, 4, rowN, *a.ParcelID)
		}
		write(adjSheet, 5, rowN, a.Type)
		write(adjSheet, 6, rowN, a.Amount)
		write(adjSheet, 7, rowN, truncate(a.Description, 140))
		rowN++
	}
	if summary, err := s.invoices.GetAdjustmentSummary(ctx, invoiceNumber); err == nil {
		rowN++
		write(adjSheet, 5, rowN, "Total before adjustments")
		write(adjSheet, 6, rowN, summary.TotalBefore)
		write(adjSheet, 5, rowN+1, "Total deductions")
		write(adjSheet, 6, rowN+1, summary.TotalNegative)
		write(adjSheet, 5, rowN+2, "Total additions")
		write(adjSheet, 6, rowN+2, summary.TotalPositive)
		write(adjSheet, 5, rowN+3, "Total after adjustments")
		write(adjSheet, 6, rowN+3, summary.TotalAfter)
	}

	// drop the default sheet and widen the text columns
	_ = f.DeleteSheet("Sheet1")
	_ = f.SetColWidth(weeklySheet, "A", "B", 12)
	_ = f.SetColWidth(dailySheet, "A", "D", 16)
	_ = f.SetColWidth(adjSheet, "E", "E", 28)
	_ = f.SetColWidth(adjSheet, "G", "G", 48)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"invoice_number", header.InvoiceNumber,
		"weekly_rows", len(weekly),
		"daily_rows", len(services),
		"adjustment_rows", len(details),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// truncate caps a cell value at n runes, never splitting a multi-byte
// character.
func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return string(r[:1])
	}
	return string(r[:n-1]) + "…"
}
