package export

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/chimchomes/dsp-sub000/constants"
	"github.com/chimchomes/dsp-sub000/internal/common"
	"github.com/chimchomes/dsp-sub000/internal/entity"
)

// memStore implements the repository reads the exporter needs.
type memStore struct {
	rs *entity.RecordSet
}

func (m *memStore) SaveBatch(context.Context, *entity.RecordSet) error { return nil }

func (m *memStore) GetHeader(_ context.Context, invoiceNumber string) (*entity.InvoiceHeader, error) {
	if m.rs == nil || m.rs.Header.InvoiceNumber != invoiceNumber {
		return nil, common.ErrNotFound
	}
	return m.rs.Header, nil
}

func (m *memStore) ListWeekly(context.Context, string) ([]*entity.WeeklySummaryRecord, error) {
	return m.rs.Weekly, nil
}

func (m *memStore) ListDailyServices(context.Context, string) ([]*entity.DailyServiceRecord, error) {
	return m.rs.DailyServices, nil
}

func (m *memStore) ListDailyQuantities(context.Context, string) ([]*entity.DailyQuantityRecord, error) {
	return m.rs.DailyQuantities, nil
}

func (m *memStore) ListAdjustmentDetails(context.Context, string) ([]*entity.AdjustmentDetailRecord, error) {
	return m.rs.AdjustmentDetails, nil
}

func (m *memStore) GetAdjustmentSummary(context.Context, string) (*entity.AdjustmentSummaryRecord, error) {
	if m.rs.AdjustmentSummary == nil {
		return nil, common.ErrNotFound
	}
	return m.rs.AdjustmentSummary, nil
}

func exportFixture() *entity.RecordSet {
	d := time.Date(2025, 12, 14, 0, 0, 0, 0, time.UTC)
	return &entity.RecordSet{
		Header: &entity.InvoiceHeader{InvoiceNumber: "INV-2025-051", InvoiceDate: d},
		Weekly: []*entity.WeeklySummaryRecord{{
			InvoiceNumber: "INV-2025-051", OperatorID: "DB6249", Tour: "WB68",
			QtyDelivered: 120, QtyCollected: 8, QtySacks: 15, QtyPackets: 45,
			QtyTotal: 188, WeeklyAmount: 1234.50,
		}},
		DailyServices: []*entity.DailyServiceRecord{{
			InvoiceNumber: "INV-2025-051", WorkingDay: d, OperatorID: "DB6249",
			Tour: "WB68", ServiceGroup: constants.Packet,
			QtyPaid: 17, QtyTotal: 17, Amount: 29.75,
		}},
		AdjustmentDetails: []*entity.AdjustmentDetailRecord{{
			InvoiceNumber: "INV-2025-051", Date: d, Tour: "WB68",
			Type: "Late Delivery", Amount: -12.50, Description: "Customer complaint ref 998",
		}},
		AdjustmentSummary: &entity.AdjustmentSummaryRecord{
			InvoiceNumber: "INV-2025-051", TotalBefore: 5120.00,
			TotalNegative: -57.50, TotalPositive: 5.00, TotalAfter: 5067.50,
		},
	}
}

func TestExportInvoiceXLSX(t *testing.T) {
	svc := NewService(&memStore{rs: exportFixture()}, nil)

	data, err := svc.ExportInvoiceXLSX(context.Background(), "INV-2025-051")
	if err != nil {
		t.Fatalf("ExportInvoiceXLSX: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("workbook does not open: %v", err)
	}
	defer f.Close()

	for _, sheet := range []string{"Weekly", "Daily", "Adjustments"} {
		if idx, _ := f.GetSheetIndex(sheet); idx == -1 {
			t.Errorf("sheet %s missing", sheet)
		}
	}

	if v, _ := f.GetCellValue("Weekly", "A2"); v != "DB6249" {
		t.Errorf("Weekly!A2 = %q, want DB6249", v)
	}
	if v, _ := f.GetCellValue("Daily", "D2"); v != "Packet" {
		t.Errorf("Daily!D2 = %q, want Packet", v)
	}
	if v, _ := f.GetCellValue("Adjustments", "E2"); v != "Late Delivery" {
		t.Errorf("Adjustments!E2 = %q, want Late Delivery", v)
	}
	// summary block follows the detail rows after one blank row
	if v, _ := f.GetCellValue("Adjustments", "E4"); v != "Total before adjustments" {
		t.Errorf("Adjustments!E4 = %q, want summary label", v)
	}
}

func TestExportInvoiceXLSXUnknownInvoice(t *testing.T) {
	svc := NewService(&memStore{rs: exportFixture()}, nil)
	if _, err := svc.ExportInvoiceXLSX(context.Background(), "INV-MISSING"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate(short, 10) = %q", got)
	}
	if got := truncate("abcdefghij", 5); got != "abcd…" {
		t.Errorf("truncate = %q, want abcd…", got)
	}
	// multi-byte characters must never be split mid-rune
	if got := truncate("charge £12.50 café", 15); got != "charge £12.50 …" || !utf8.ValidString(got) {
		t.Errorf("truncate = %q (valid=%v), want charge £12.50 …", got, utf8.ValidString(got))
	}
	if got := truncate("££££", 6); got != "££££" {
		t.Errorf("truncate(££££, 6) = %q, want unchanged", got)
	}
}
