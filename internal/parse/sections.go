// Package parse extracts ledger records from the reconstructed line stream
// of a supplier invoice.
package parse

import (
	"regexp"
)

// Section anchors of the supplier format. The reconstructed line stream is
// scanned once; each parser then operates on its own disjoint range.
var (
	reWeeklyAnchor     = regexp.MustCompile(`(?i)^week(?:ly)?\s+summary\b`)
	reDailyAnchor      = regexp.MustCompile(`(?i)^daily\s+breakdown\b`)
	reAdjustmentAnchor = regexp.MustCompile(`(?i)^(?:manual\s+)?adjustments\b`)
)

// Sections holds the line ranges of the document body. Header fields are
// matched over the whole stream, so no dedicated header range is kept.
type Sections struct {
	All        []string
	Weekly     []string
	Daily      []string
	Adjustment []string
}

// SplitSections locates the section anchors and slices the stream into the
// ranges between them. A missing anchor leaves its range empty; the section
// parsers then simply produce no records.
func SplitSections(lines []string) Sections {
	type mark struct {
		start int // line after the anchor
		end   int
	}
	var weekly, daily, adjustment *mark

	anchors := []struct {
		re   *regexp.Regexp
		mark **mark
	}{
		{reWeeklyAnchor, &weekly},
		{reDailyAnchor, &daily},
		{reAdjustmentAnchor, &adjustment},
	}

	var opens []*mark
	for i, line := range lines {
		for _, a := range anchors {
			if *a.mark != nil || !a.re.MatchString(line) {
				continue
			}
			m := &mark{start: i + 1, end: len(lines)}
			for _, open := range opens {
				if open.end == len(lines) {
					open.end = i
				}
			}
			opens = append(opens, m)
			*a.mark = m
			break
		}
	}

	s := Sections{All: lines}
	if weekly != nil {
		s.Weekly = lines[weekly.start:weekly.end]
	}
	if daily != nil {
		s.Daily = lines[daily.start:daily.end]
	}
	if adjustment != nil {
		s.Adjustment = lines[adjustment.start:adjustment.end]
	}
	return s
}
