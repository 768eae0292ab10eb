package constants

import "testing"

func TestCanonicalizeServiceGroup(t *testing.T) {
	cases := []struct {
		in   string
		want ServiceGroup
		ok   bool
	}{
		{"Regular Delivery", RegularDelivery, true},
		{"standard delivery", RegularDelivery, true},
		{"Packets", Packet, true},
		{"Locker Delivery", ParcelLockerDelivery, true},
		{"AdHoc/Scheduled Collections", AdHocCollections, true},
		{"scheduled collections", AdHocCollections, true},
		{"Sacks", Sack, true},
		{"Timed", TimedDelivery, true},
		{"  Timed Delivery  ", TimedDelivery, true},
		{"", "", false},
		{"Mystery Service", "", false},
	}
	for _, c := range cases {
		got, ok := CanonicalizeServiceGroup(c.in)
		if ok != c.ok || got != c.want {
			t.Errorf("CanonicalizeServiceGroup(%q) = (%q, %v), want (%q, %v)", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestAllServiceGroupsIsStableCopy(t *testing.T) {
	a := AllServiceGroups()
	if len(a) != 6 {
		t.Fatalf("groups = %d, want 6", len(a))
	}
	a[0] = "tampered"
	if b := AllServiceGroups(); b[0] != RegularDelivery {
		t.Error("AllServiceGroups returned shared backing storage")
	}
}
