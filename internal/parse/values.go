package parse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Token shapes of the supplier format. An operator code carries 4-6 digits,
// which keeps it disjoint from the 1-2 digit tour prefix: the \b after the
// prefix digits cannot fall inside a longer digit run.
var (
	reOperatorTok   = regexp.MustCompile(`\b([A-Z]{2}\d{4,6})\b`)
	reTourPrefixTok = regexp.MustCompile(`\b([A-Z]{2}\d{1,2})\b`)
	reTourTok       = regexp.MustCompile(`\b([A-Z]{2}\d{2,3})\b`)
	reLeadDate      = regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{2,4})\b`)
)

var dateLayouts = []string{
	"2/1/2006",
	"2/1/06",
	"2 Jan 2006",
	"2 Jan 06",
	"2 January 2006",
}

// ParseDate accepts the two date shapes the documents use, "D/M/YY[YY]" and
// "D Mon YY[YY]", and returns a UTC calendar date.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// ParseAmount parses a currency amount, tolerating thousands separators, a
// currency sign, and a minus separated from the digits by whitespace.
func ParseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "£")
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = strings.TrimSpace(strings.TrimPrefix(s, "-"))
		s = strings.TrimPrefix(s, "£")
	}
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		v = -v
	}
	return v, true
}

// SplitConcatQty recovers two numbers from a digit run the text extraction
// concatenated, such as "17017" for a stated total 17 followed by the
// zero-padded pair quantity 017. Split positions are probed left to right,
// preferring a split whose second part has a leading zero, then one whose
// second part stays under three digits' worth of value. This is a documented
// best-effort heuristic, not a guaranteed decoder; keep the preference order.
func SplitConcatQty(tok string) (first, second int, ok bool) {
	if len(tok) < 4 {
		return 0, 0, false
	}
	for i := 1; i < len(tok); i++ {
		if tok[i] == '0' {
			return mustAtoi(tok[:i]), mustAtoi(tok[i:]), true
		}
	}
	for i := 1; i < len(tok); i++ {
		if v := mustAtoi(tok[i:]); v < 1000 {
			return mustAtoi(tok[:i]), v, true
		}
	}
	return 0, 0, false
}

func mustAtoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
