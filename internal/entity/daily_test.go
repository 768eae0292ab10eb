package entity

import (
	"testing"

	"github.com/chimchomes/dsp-sub000/constants"
)

func TestDailyQuantityRecordAdd(t *testing.T) {
	q := &DailyQuantityRecord{}
	q.Add(constants.RegularDelivery, 57)
	q.Add(constants.Packet, 17)
	q.Add(constants.ParcelLockerDelivery, 5)
	q.Add(constants.AdHocCollections, 4)
	q.Add(constants.Sack, 3)
	q.Add(constants.TimedDelivery, 2)

	if q.QtyDelivery != 57 || q.QtyPacket != 17 || q.QtyLocker != 5 ||
		q.QtyCollection != 4 || q.QtySack != 3 || q.QtyTimed != 2 {
		t.Errorf("counters = %+v", q)
	}
	if q.QtyTotal != 88 {
		t.Errorf("grand total = %d, want 88", q.QtyTotal)
	}
	if q.CategorySum() != q.QtyTotal {
		t.Errorf("category sum %d != grand total %d", q.CategorySum(), q.QtyTotal)
	}
}
