package parse

import "testing"

func TestSplitSections(t *testing.T) {
	lines := []string{
		"Invoice Number: INV-2025-051",
		"Weekly Summary",
		"DB6249 WB68 120 8 15 45 £1,234.50",
		"Daily Breakdown",
		"14/12/2025 DB6249 WB68 Packet 17 17 @ 1.75 29.75",
		"Adjustments",
		"15/12/2025 WB68 Late Delivery -12.50",
	}
	s := SplitSections(lines)

	if len(s.All) != len(lines) {
		t.Fatalf("All = %d lines, want %d", len(s.All), len(lines))
	}
	if len(s.Weekly) != 1 || s.Weekly[0] != lines[2] {
		t.Errorf("Weekly = %v, want the single summary row", s.Weekly)
	}
	if len(s.Daily) != 1 || s.Daily[0] != lines[4] {
		t.Errorf("Daily = %v, want the single breakdown row", s.Daily)
	}
	if len(s.Adjustment) != 1 || s.Adjustment[0] != lines[6] {
		t.Errorf("Adjustment = %v, want the single adjustment row", s.Adjustment)
	}
}

func TestSplitSectionsAnchorVariants(t *testing.T) {
	s := SplitSections([]string{
		"Week Summary",
		"row a",
		"Manual Adjustments",
		"row b",
	})
	if len(s.Weekly) != 1 || s.Weekly[0] != "row a" {
		t.Errorf("Weekly = %v, want [row a]", s.Weekly)
	}
	if len(s.Adjustment) != 1 || s.Adjustment[0] != "row b" {
		t.Errorf("Adjustment = %v, want [row b]", s.Adjustment)
	}
	if s.Daily != nil {
		t.Errorf("Daily = %v, want empty when its anchor is absent", s.Daily)
	}
}

func TestSplitSectionsMissingAnchors(t *testing.T) {
	s := SplitSections([]string{"just a header", "and a footer"})
	if s.Weekly != nil || s.Daily != nil || s.Adjustment != nil {
		t.Errorf("expected all section ranges empty, got %+v", s)
	}
}
