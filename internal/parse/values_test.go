package parse

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"14/12/2025", time.Date(2025, 12, 14, 0, 0, 0, 0, time.UTC), true},
		{"3/1/26", time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC), true},
		{"3 Jan 2026", time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC), true},
		{"15 December 2025", time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC), true},
		{" 14/12/2025 ", time.Date(2025, 12, 14, 0, 0, 0, 0, time.UTC), true},
		{"2025-12-14", time.Time{}, false},
		{"not a date", time.Time{}, false},
	}
	for _, c := range cases {
		got, ok := ParseDate(c.in)
		if ok != c.ok {
			t.Errorf("ParseDate(%q) ok = %v, want %v", c.in, ok, c.ok)
			continue
		}
		if ok && !got.Equal(c.want) {
			t.Errorf("ParseDate(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"29.75", 29.75, true},
		{"£1,234.50", 1234.50, true},
		{"-12.50", -12.50, true},
		{"- 12.50", -12.50, true}, // minus split off by column spacing
		{"-£45.00", -45.00, true},
		{"", 0, false},
		{"n/a", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseAmount(c.in)
		if ok != c.ok {
			t.Errorf("ParseAmount(%q) ok = %v, want %v", c.in, ok, c.ok)
			continue
		}
		if ok && got != c.want {
			t.Errorf("ParseAmount(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestSplitConcatQty(t *testing.T) {
	cases := []struct {
		in            string
		first, second int
		ok            bool
	}{
		{"17017", 17, 17, true},  // 17 followed by zero-padded 017
		{"57057", 57, 57, true},
		{"4004", 4, 4, true},
		{"1234", 1, 234, true},   // no leading zero: smallest plausible tail
		{"017", 0, 0, false},     // too short to be a concatenation
		{"99", 0, 0, false},
	}
	for _, c := range cases {
		first, second, ok := SplitConcatQty(c.in)
		if ok != c.ok {
			t.Errorf("SplitConcatQty(%q) ok = %v, want %v", c.in, ok, c.ok)
			continue
		}
		if ok && (first != c.first || second != c.second) {
			t.Errorf("SplitConcatQty(%q) = (%d, %d), want (%d, %d)", c.in, first, second, c.first, c.second)
		}
	}
}

func TestOperatorAndTourShapesAreDisjoint(t *testing.T) {
	// An operator code must never be mistaken for a tour inside the same line.
	line := "DB6249 WB68"
	if got := reOperatorTok.FindString(line); got != "DB6249" {
		t.Errorf("operator = %q, want DB6249", got)
	}
	if got := reTourTok.FindString(line); got != "WB68" {
		t.Errorf("tour = %q, want WB68 (must not match inside DB6249)", got)
	}
	if got := reTourPrefixTok.FindString("WB6 rest"); got != "WB6" {
		t.Errorf("tour prefix = %q, want WB6", got)
	}
}
