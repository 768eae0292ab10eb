package entity

import (
	"time"

	"github.com/chimchomes/dsp-sub000/constants"
	"github.com/chimchomes/dsp-sub000/internal/common"
)

// DailyServiceRecord is one service-group row of the daily breakdown, keyed
// by (invoice_number, working_day, operator_id, tour, service_group).
//
// QtyTotal is the total stated on the invoice line; QtyPaid/QtyUnpaid are
// computed from the line's "qty @ rate" pairs. The parser rejects the whole
// document if QtyTotal != QtyPaid+QtyUnpaid, so persisted records always
// satisfy that equality.
type DailyServiceRecord struct {
	InvoiceNumber string                 `json:"invoice_number"`
	WorkingDay    time.Time              `json:"working_day"`
	OperatorID    string                 `json:"operator_id"`
	Tour          string                 `json:"tour"`
	ServiceGroup  constants.ServiceGroup `json:"service_group"`
	QtyPaid       int                    `json:"qty_paid"`
	QtyUnpaid     int                    `json:"qty_unpaid"`
	QtyTotal      int                    `json:"qty_total"`
	Amount        float64                `json:"amount"`
}

// Validate checks construction-time requirements.
func (d *DailyServiceRecord) Validate() error {
	return common.NewValidator().
		Field("invoice_number", d.InvoiceNumber, common.Required).
		Field("working_day", d.WorkingDay, common.Required).
		Field("operator_id", d.OperatorID, common.Required).
		Field("tour", d.Tour, common.Required).
		Field("service_group", string(d.ServiceGroup), common.Required).
		Field("qty_paid", d.QtyPaid, common.NonNegative).
		Field("qty_unpaid", d.QtyUnpaid, common.NonNegative).
		Field("qty_total", d.QtyTotal, common.NonNegative).
		Error()
}

// DailyQuantityRecord aggregates all DailyServiceRecords sharing
// (invoice_number, working_day, operator_id, tour) into the six category
// totals plus a grand total.
type DailyQuantityRecord struct {
	InvoiceNumber string    `json:"invoice_number"`
	WorkingDay    time.Time `json:"working_day"`
	OperatorID    string    `json:"operator_id"`
	Tour          string    `json:"tour"`
	QtyDelivery   int       `json:"qty_delivery"`
	QtyPacket     int       `json:"qty_packet"`
	QtyLocker     int       `json:"qty_locker"`
	QtyCollection int       `json:"qty_collection"`
	QtySack       int       `json:"qty_sack"`
	QtyTimed      int       `json:"qty_timed"`
	QtyTotal      int       `json:"qty_total"`
}

// Add folds one service-group total into the matching category counter and
// the grand total.
func (d *DailyQuantityRecord) Add(group constants.ServiceGroup, qty int) {
	switch group {
	case constants.RegularDelivery:
		d.QtyDelivery += qty
	case constants.Packet:
		d.QtyPacket += qty
	case constants.ParcelLockerDelivery:
		d.QtyLocker += qty
	case constants.AdHocCollections:
		d.QtyCollection += qty
	case constants.Sack:
		d.QtySack += qty
	case constants.TimedDelivery:
		d.QtyTimed += qty
	}
	d.QtyTotal += qty
}

// CategorySum returns the sum of the six category counters, which must equal
// QtyTotal for the record to be persistable.
func (d *DailyQuantityRecord) CategorySum() int {
	return d.QtyDelivery + d.QtyPacket + d.QtyLocker + d.QtyCollection + d.QtySack + d.QtyTimed
}

// Validate checks construction-time requirements.
func (d *DailyQuantityRecord) Validate() error {
	return common.NewValidator().
		Field("invoice_number", d.InvoiceNumber, common.Required).
		Field("working_day", d.WorkingDay, common.Required).
		Field("operator_id", d.OperatorID, common.Required).
		Field("tour", d.Tour, common.Required).
		Field("qty_total", d.QtyTotal, common.NonNegative).
		Error()
}
