package parse

import (
	"errors"
	"testing"
	"time"

	"github.com/chimchomes/dsp-sub000/constants"
	"github.com/chimchomes/dsp-sub000/internal/common"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDailyTourSplitAcrossWeekdayAndDateLines(t *testing.T) {
	// The tour code WB68 arrives in two pieces: WB6 on the weekday line,
	// the final 8 as the first token of the date line.
	lines := []string{
		"Sunday WB6 DB6249 Packet 17 017 @ 1.75 29.75",
		"14/12/2025 8 Regular Delivery 57 057 @ 1.75 99.75",
	}
	services, quantities, err := NewDailyBreakdownParser(nil).Parse("INV-2025-051", lines)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(services) != 2 {
		t.Fatalf("services = %d, want 2", len(services))
	}

	for i, s := range services {
		if s.Tour != "WB68" {
			t.Errorf("services[%d].Tour = %q, want WB68", i, s.Tour)
		}
		if s.OperatorID != "DB6249" {
			t.Errorf("services[%d].OperatorID = %q, want DB6249", i, s.OperatorID)
		}
		if !s.WorkingDay.Equal(day(2025, 12, 14)) {
			t.Errorf("services[%d].WorkingDay = %v", i, s.WorkingDay)
		}
	}
	if services[0].ServiceGroup != constants.Packet || services[0].QtyTotal != 17 {
		t.Errorf("first record = %s/%d, want Packet/17", services[0].ServiceGroup, services[0].QtyTotal)
	}
	if services[1].ServiceGroup != constants.RegularDelivery || services[1].QtyTotal != 57 {
		t.Errorf("second record = %s/%d, want Regular Delivery/57", services[1].ServiceGroup, services[1].QtyTotal)
	}
	if services[0].Amount != 29.75 || services[1].Amount != 99.75 {
		t.Errorf("amounts = %v/%v", services[0].Amount, services[1].Amount)
	}

	if len(quantities) != 1 {
		t.Fatalf("quantities = %d, want 1 aggregate", len(quantities))
	}
	q := quantities[0]
	if q.QtyPacket != 17 || q.QtyDelivery != 57 || q.QtyTotal != 74 {
		t.Errorf("aggregate = packet %d, delivery %d, total %d", q.QtyPacket, q.QtyDelivery, q.QtyTotal)
	}
}

func TestDailyZeroRatePairCountsAsUnpaid(t *testing.T) {
	lines := []string{
		"15/12/2025 DB6249 WB68 AdHoc/Scheduled Collections 4 3 @ 0.00 1 @ 1.50 1.50",
	}
	services, _, err := NewDailyBreakdownParser(nil).Parse("INV-2025-051", lines)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(services) != 1 {
		t.Fatalf("services = %d, want 1", len(services))
	}
	s := services[0]
	if s.ServiceGroup != constants.AdHocCollections {
		t.Errorf("group = %s", s.ServiceGroup)
	}
	if s.QtyTotal != 4 || s.QtyUnpaid != 3 || s.QtyPaid != 1 {
		t.Errorf("quantities = total %d, unpaid %d, paid %d; want 4/3/1", s.QtyTotal, s.QtyUnpaid, s.QtyPaid)
	}
	if s.Amount != 1.50 {
		t.Errorf("amount = %v", s.Amount)
	}
}

func TestDailyConcatenatedQuantityRecovered(t *testing.T) {
	// Extraction ran the stated total into the pair quantity: "17017" is the
	// total 17 followed by the zero-padded 017.
	lines := []string{
		"14/12/2025 DB6249 WB68 Packet 17017 @ 1.75 29.75",
	}
	services, _, err := NewDailyBreakdownParser(nil).Parse("INV-2025-051", lines)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(services) != 1 {
		t.Fatalf("services = %d, want 1", len(services))
	}
	if services[0].QtyTotal != 17 || services[0].QtyPaid != 17 {
		t.Errorf("total/paid = %d/%d, want 17/17", services[0].QtyTotal, services[0].QtyPaid)
	}
}

func TestDailyInvariantViolationAborts(t *testing.T) {
	lines := []string{
		"14/12/2025 DB6249 WB68 Packet 10 5 @ 1.75 8.75",
	}
	_, _, err := NewDailyBreakdownParser(nil).Parse("INV-2025-051", lines)
	if !errors.Is(err, common.ErrInvariantViolation) {
		t.Fatalf("err = %v, want ErrInvariantViolation", err)
	}
	var ive *common.InvariantViolationError
	if !errors.As(err, &ive) {
		t.Fatalf("err %T does not carry violation context", err)
	}
	if ive.Tour != "WB68" || ive.OperatorID != "DB6249" || ive.ServiceGroup != "Packet" {
		t.Errorf("context = %s/%s/%s", ive.OperatorID, ive.Tour, ive.ServiceGroup)
	}
}

func TestDailyDayContextCarriesOver(t *testing.T) {
	// A block boundary without a date restatement keeps the prior day.
	lines := []string{
		"14/12/2025 DB6249 WB68 Packet 17 17 @ 1.75 29.75",
		"WB6 DB6250 Sack 3 3 @ 2.00 6.00",
		"9 Regular Delivery 12 12 @ 1.75 21.00",
	}
	services, _, err := NewDailyBreakdownParser(nil).Parse("INV-2025-051", lines)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(services) != 3 {
		t.Fatalf("services = %d, want 3", len(services))
	}
	for i, s := range services[1:] {
		if s.Tour != "WB69" || s.OperatorID != "DB6250" {
			t.Errorf("services[%d] = %s/%s, want DB6250/WB69", i+1, s.OperatorID, s.Tour)
		}
		if !s.WorkingDay.Equal(day(2025, 12, 14)) {
			t.Errorf("services[%d].WorkingDay = %v, want carried-over day", i+1, s.WorkingDay)
		}
	}
}

func TestDailySkipsHeadersAndUnknownShapes(t *testing.T) {
	lines := []string{
		"Day Date Service Group Qty Amount",
		"14/12/2025 DB6249 WB68 Packet 17 17 @ 1.75 29.75",
		"some footer text without a service row",
		"Carried forward 102.75",
	}
	services, _, err := NewDailyBreakdownParser(nil).Parse("INV-2025-051", lines)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(services) != 1 {
		t.Fatalf("services = %d, want 1", len(services))
	}
}

func TestDailyRowsBeforeAnyContextAreIgnored(t *testing.T) {
	services, quantities, err := NewDailyBreakdownParser(nil).Parse("INV-2025-051", []string{
		"Packet 17 17 @ 1.75 29.75",
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(services) != 0 || len(quantities) != 0 {
		t.Errorf("records = %d/%d, want none without day/operator/tour context", len(services), len(quantities))
	}
}
