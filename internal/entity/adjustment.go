package entity

import (
	"time"

	"github.com/chimchomes/dsp-sub000/internal/common"
)

// AdjustmentDetailRecord is one manual adjustment line item. There is no
// uniqueness constraint beyond document scope: re-ingesting a document fully
// replaces its prior adjustment set.
type AdjustmentDetailRecord struct {
	InvoiceNumber string    `json:"invoice_number"`
	Date          time.Time `json:"date"`
	Tour          string    `json:"tour"`
	OperatorID    *string   `json:"operator_id,omitempty"`
	ParcelID      *string   `json:"parcel_id,omitempty"`
	Type          string    `json:"type"`
	Amount        float64   `json:"amount"` // signed: negative is a deduction
	Description   string    `json:"description,omitempty"`
}

// Validate checks construction-time requirements.
func (a *AdjustmentDetailRecord) Validate() error {
	return common.NewValidator().
		Field("invoice_number", a.InvoiceNumber, common.Required).
		Field("tour", a.Tour, common.Required).
		Field("type", a.Type, common.Required).
		Error()
}

// AdjustmentSummaryRecord holds the week-level totals stated by the document
// itself. It is extracted from anchored totals lines, not derived by summing
// the detail records; both are persisted for downstream cross-checking.
type AdjustmentSummaryRecord struct {
	InvoiceNumber  string  `json:"invoice_number"`
	TotalBefore    float64 `json:"total_before"`
	TotalNegative  float64 `json:"total_negative"`
	TotalPositive  float64 `json:"total_positive"`
	TotalAfter     float64 `json:"total_after"`
}

// Validate checks construction-time requirements.
func (a *AdjustmentSummaryRecord) Validate() error {
	return common.NewValidator().
		Field("invoice_number", a.InvoiceNumber, common.Required).
		Error()
}
