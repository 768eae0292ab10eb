package parse

import (
	"fmt"
	"log/slog"
	"regexp"

	"github.com/chimchomes/dsp-sub000/internal/entity"
)

// reWeeklyRow is the single fixed shape of a week summary line: operator,
// tour, four whole-number quantity columns, one currency column. Subtotal and
// footer lines lack the full shape and match nothing.
var reWeeklyRow = regexp.MustCompile(
	`^([A-Z]{2}\d{4,6})\s+([A-Z]{2}\d{2,3})\s+(\d+)\s+(\d+)\s+(\d+)\s+(\d+)\s+£?\s*(-?[\d,]+\.\d{2})\s*$`)

// WeeklySummaryExtractor scans the week summary block for aggregate lines.
type WeeklySummaryExtractor struct {
	logger *slog.Logger
}

func NewWeeklySummaryExtractor(logger *slog.Logger) *WeeklySummaryExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &WeeklySummaryExtractor{logger: logger}
}

// Extract emits one record per full-shape line. A document never states the
// same operator/tour pair twice in this block; if it did, the duplicate would
// be a distinct record and the store's natural-key upsert would collapse it.
func (w *WeeklySummaryExtractor) Extract(invoiceNumber string, lines []string) ([]*entity.WeeklySummaryRecord, error) {
	var records []*entity.WeeklySummaryRecord
	seen := make(map[string]bool)

	for _, line := range lines {
		m := reWeeklyRow.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		amount, ok := ParseAmount(m[7])
		if !ok {
			continue
		}
		rec := &entity.WeeklySummaryRecord{
			InvoiceNumber: invoiceNumber,
			OperatorID:    m[1],
			Tour:          m[2],
			QtyDelivered:  mustAtoi(m[3]),
			QtyCollected:  mustAtoi(m[4]),
			QtySacks:      mustAtoi(m[5]),
			QtyPackets:    mustAtoi(m[6]),
			WeeklyAmount:  amount,
		}
		rec.QtyTotal = rec.QtyDelivered + rec.QtyCollected + rec.QtySacks + rec.QtyPackets

		key := rec.OperatorID + "|" + rec.Tour
		if seen[key] {
			return nil, fmt.Errorf("duplicate weekly summary for operator %s tour %s", rec.OperatorID, rec.Tour)
		}
		seen[key] = true

		if err := rec.Validate(); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	w.logger.Debug("weekly summary extracted", "invoice_number", invoiceNumber, "records", len(records))
	return records, nil
}
