package entity

import (
	"github.com/chimchomes/dsp-sub000/internal/common"
)

// WeeklySummaryRecord is one aggregate line from the week summary block,
// keyed by (invoice_number, operator_id, tour). At most one record exists per
// key within a document.
type WeeklySummaryRecord struct {
	InvoiceNumber string  `json:"invoice_number"`
	OperatorID    string  `json:"operator_id"`
	Tour          string  `json:"tour"`
	QtyDelivered  int     `json:"qty_delivered"`
	QtyCollected  int     `json:"qty_collected"`
	QtySacks      int     `json:"qty_sacks"`
	QtyPackets    int     `json:"qty_packets"`
	QtyTotal      int     `json:"qty_total"`
	WeeklyAmount  float64 `json:"weekly_amount"`
}

// Validate checks construction-time requirements. QtyTotal is derived as the
// sum of the four quantity columns at construction, never parsed.
func (w *WeeklySummaryRecord) Validate() error {
	return common.NewValidator().
		Field("invoice_number", w.InvoiceNumber, common.Required).
		Field("operator_id", w.OperatorID, common.Required).
		Field("tour", w.Tour, common.Required).
		Field("qty_delivered", w.QtyDelivered, common.NonNegative).
		Field("qty_collected", w.QtyCollected, common.NonNegative).
		Field("qty_sacks", w.QtySacks, common.NonNegative).
		Field("qty_packets", w.QtyPackets, common.NonNegative).
		Error()
}
