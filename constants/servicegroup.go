package constants

import (
	"strings"
)

// ServiceGroup is one of the fixed delivery/collection categories the
// supplier invoices separately. The set is closed: a daily breakdown row
// whose label is not one of these never produces a record.
type ServiceGroup string

const (
	RegularDelivery      ServiceGroup = "Regular Delivery"
	Packet               ServiceGroup = "Packet"
	ParcelLockerDelivery ServiceGroup = "Parcel Locker Delivery"
	AdHocCollections     ServiceGroup = "AdHoc/Scheduled Collections"
	Sack                 ServiceGroup = "Sack"
	TimedDelivery        ServiceGroup = "Timed Delivery"
)

var allServiceGroups = []ServiceGroup{
	RegularDelivery,
	Packet,
	ParcelLockerDelivery,
	AdHocCollections,
	Sack,
	TimedDelivery,
}

// AllServiceGroups returns the closed category set in stable order.
func AllServiceGroups() []ServiceGroup {
	out := make([]ServiceGroup, len(allServiceGroups))
	copy(out, allServiceGroups)
	return out
}

// CanonicalizeServiceGroup maps a raw row label to its canonical category.
// Labels vary slightly between invoice revisions, so a small synonyms map is
// consulted before the exact names.
func CanonicalizeServiceGroup(input string) (ServiceGroup, bool) {
	if input == "" {
		return "", false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))

	synonyms := map[string]ServiceGroup{
		"delivery":              RegularDelivery,
		"standard delivery":     RegularDelivery,
		"packets":               Packet,
		"locker delivery":       ParcelLockerDelivery,
		"parcel locker":         ParcelLockerDelivery,
		"adhoc collections":     AdHocCollections,
		"scheduled collections": AdHocCollections,
		"sacks":                 Sack,
		"sack delivery":         Sack,
		"timed":                 TimedDelivery,
	}

	if sg, ok := synonyms[normalized]; ok {
		return sg, true
	}

	for _, sg := range allServiceGroups {
		if normalized == strings.ToLower(string(sg)) {
			return sg, true
		}
	}

	return "", false
}
