package entity

import (
	"time"

	"github.com/chimchomes/dsp-sub000/internal/common"
)

// InvoiceHeader holds the scalar metadata of one supplier invoice.
// The invoice number is the natural key every other record refers to.
type InvoiceHeader struct {
	InvoiceNumber string    `json:"invoice_number"`
	InvoiceDate   time.Time `json:"invoice_date"`
	PeriodStart   time.Time `json:"period_start"`
	PeriodEnd     time.Time `json:"period_end"`
	SupplierID    *string   `json:"supplier_id,omitempty"`
	Provider      string    `json:"provider"`
	NetTotal      float64   `json:"net_total"`
	VATTotal      float64   `json:"vat_total"`
	GrossTotal    float64   `json:"gross_total"`
}

// Validate checks construction-time requirements.
func (h *InvoiceHeader) Validate() error {
	return common.NewValidator().
		Field("invoice_number", h.InvoiceNumber, common.Required).
		Field("invoice_date", h.InvoiceDate, common.Required).
		Error()
}
