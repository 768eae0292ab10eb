package entity

import "fmt"

// RecordSet is everything one document ingestion produced. It is handed to
// the store as a unit: either every member is persisted or none are.
type RecordSet struct {
	Header            *InvoiceHeader           `json:"header"`
	Weekly            []*WeeklySummaryRecord   `json:"weekly"`
	DailyServices     []*DailyServiceRecord    `json:"daily_services"`
	DailyQuantities   []*DailyQuantityRecord   `json:"daily_quantities"`
	AdjustmentDetails []*AdjustmentDetailRecord `json:"adjustment_details"`
	AdjustmentSummary *AdjustmentSummaryRecord `json:"adjustment_summary,omitempty"`
}

// Validate runs every member's construction checks. Parser-level invariants
// (quantity cross-checks) are enforced earlier, where the offending line is
// still at hand; this is the last structural gate before persistence.
func (rs *RecordSet) Validate() error {
	if rs.Header == nil {
		return fmt.Errorf("record set has no header")
	}
	if err := rs.Header.Validate(); err != nil {
		return fmt.Errorf("header: %w", err)
	}
	for _, w := range rs.Weekly {
		if err := w.Validate(); err != nil {
			return fmt.Errorf("weekly %s/%s: %w", w.OperatorID, w.Tour, err)
		}
	}
	for _, d := range rs.DailyServices {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("daily service %s/%s/%s: %w", d.OperatorID, d.Tour, d.ServiceGroup, err)
		}
	}
	for _, q := range rs.DailyQuantities {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("daily quantity %s/%s: %w", q.OperatorID, q.Tour, err)
		}
	}
	for _, a := range rs.AdjustmentDetails {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("adjustment %s/%s: %w", a.Tour, a.Type, err)
		}
	}
	if rs.AdjustmentSummary != nil {
		if err := rs.AdjustmentSummary.Validate(); err != nil {
			return fmt.Errorf("adjustment summary: %w", err)
		}
	}
	return nil
}
