package parse

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/chimchomes/dsp-sub000/internal/common"
	"github.com/chimchomes/dsp-sub000/internal/entity"
)

// Per-field ordered pattern chains. The first matching pattern wins; adding a
// fallback means appending to the slice, never restructuring control flow.
var (
	invoiceNumberPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^invoice\s+(?:number|no\.?)\s*[:#]?\s*([A-Z0-9][A-Z0-9/-]*)`),
		regexp.MustCompile(`(?i)^invoice\s*#\s*([A-Z0-9][A-Z0-9/-]*)`),
		regexp.MustCompile(`(?i)\binvoice\s+([A-Z]{2,4}-?\d{4,})\b`),
	}
	invoiceDatePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^invoice\s+date\s*:?\s*(\d{1,2}/\d{1,2}/\d{2,4}|\d{1,2}\s+[A-Za-z]{3,9}\s+\d{2,4})`),
		regexp.MustCompile(`(?i)^date\s*:?\s*(\d{1,2}/\d{1,2}/\d{2,4}|\d{1,2}\s+[A-Za-z]{3,9}\s+\d{2,4})`),
	}
	periodPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^(?:invoice\s+)?period\s*:?\s*(\d{1,2}/\d{1,2}/\d{2,4}|\d{1,2}\s+[A-Za-z]{3,9}\s+\d{2,4})\s*(?:-|–|to)\s*(\d{1,2}/\d{1,2}/\d{2,4}|\d{1,2}\s+[A-Za-z]{3,9}\s+\d{2,4})`),
		regexp.MustCompile(`(?i)^week\s+commencing\s*:?\s*(\d{1,2}/\d{1,2}/\d{2,4}|\d{1,2}\s+[A-Za-z]{3,9}\s+\d{2,4})`),
	}
	supplierIDPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^supplier\s+(?:id|ref)\s*:?\s*(\S+)`),
		regexp.MustCompile(`(?i)^account\s+(?:no\.?|number)\s*:?\s*(\S+)`),
	}
	providerPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^provider\s*:?\s*(.+)$`),
		regexp.MustCompile(`(?i)^issued\s+by\s*:?\s*(.+)$`),
	}
	netTotalPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bnet\s+total\s*:?\s*£?\s*(-?\s*[\d,]+\.\d{2})`),
		regexp.MustCompile(`(?i)^net\s*:?\s*£?\s*(-?\s*[\d,]+\.\d{2})`),
	}
	vatTotalPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bvat\s+total\s*:?\s*£?\s*(-?\s*[\d,]+\.\d{2})`),
		regexp.MustCompile(`(?i)^vat\s*(?:@\s*[\d.]+%)?\s*:?\s*£?\s*(-?\s*[\d,]+\.\d{2})`),
	}
	grossTotalPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bgross\s+total\s*:?\s*£?\s*(-?\s*[\d,]+\.\d{2})`),
		regexp.MustCompile(`(?i)\btotal\s+due\s*:?\s*£?\s*(-?\s*[\d,]+\.\d{2})`),
	}
)

// HeaderExtractor pulls scalar invoice metadata from the line stream.
type HeaderExtractor struct {
	logger *slog.Logger
	// now supplies the fallback date for unparseable header dates; header
	// dates are advisory next to the authoritative per-day records.
	now func() time.Time
}

func NewHeaderExtractor(logger *slog.Logger) *HeaderExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &HeaderExtractor{logger: logger, now: time.Now}
}

// Extract matches each field's pattern chain over the lines. Only a missing
// invoice number is fatal; every other field falls back to a default.
func (h *HeaderExtractor) Extract(lines []string) (*entity.InvoiceHeader, error) {
	invoiceNumber, ok := firstMatch(lines, invoiceNumberPatterns)
	if !ok {
		return nil, fmt.Errorf("invoice number not found in header section: %w", common.ErrMissingRequiredField)
	}

	header := &entity.InvoiceHeader{
		InvoiceNumber: strings.TrimSpace(invoiceNumber),
		InvoiceDate:   h.dateOrNow(lines, invoiceDatePatterns),
	}

	if start, end, ok := firstMatch2(lines, periodPatterns); ok {
		header.PeriodStart = h.parseDateOrNow(start)
		if end == "" {
			// "week commencing" states only the start; the period runs seven days
			header.PeriodEnd = header.PeriodStart.AddDate(0, 0, 6)
		} else {
			header.PeriodEnd = h.parseDateOrNow(end)
		}
	} else {
		header.PeriodStart = header.InvoiceDate
		header.PeriodEnd = header.InvoiceDate
	}

	if v, ok := firstMatch(lines, supplierIDPatterns); ok {
		s := strings.TrimSpace(v)
		header.SupplierID = &s
	}
	if v, ok := firstMatch(lines, providerPatterns); ok {
		header.Provider = strings.TrimSpace(v)
	}
	header.NetTotal = amountOrZero(lines, netTotalPatterns)
	header.VATTotal = amountOrZero(lines, vatTotalPatterns)
	header.GrossTotal = amountOrZero(lines, grossTotalPatterns)

	h.logger.Debug("header extracted",
		"invoice_number", header.InvoiceNumber,
		"invoice_date", header.InvoiceDate.Format("2006-01-02"),
		"period_start", header.PeriodStart.Format("2006-01-02"),
		"period_end", header.PeriodEnd.Format("2006-01-02"),
		"gross", header.GrossTotal,
	)
	return header, nil
}

func (h *HeaderExtractor) dateOrNow(lines []string, patterns []*regexp.Regexp) time.Time {
	if v, ok := firstMatch(lines, patterns); ok {
		return h.parseDateOrNow(v)
	}
	return dateOnly(h.now())
}

func (h *HeaderExtractor) parseDateOrNow(s string) time.Time {
	if t, ok := ParseDate(s); ok {
		return t
	}
	h.logger.Warn("header date unparseable, using processing date", "value", s)
	return dateOnly(h.now())
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// firstMatch returns the first capture of the first pattern that matches any
// line, trying patterns in chain order.
func firstMatch(lines []string, patterns []*regexp.Regexp) (string, bool) {
	for _, re := range patterns {
		for _, line := range lines {
			if m := re.FindStringSubmatch(line); m != nil {
				return m[1], true
			}
		}
	}
	return "", false
}

// firstMatch2 is firstMatch for patterns with up to two capture groups.
func firstMatch2(lines []string, patterns []*regexp.Regexp) (string, string, bool) {
	for _, re := range patterns {
		for _, line := range lines {
			if m := re.FindStringSubmatch(line); m != nil {
				second := ""
				if len(m) > 2 {
					second = m[2]
				}
				return m[1], second, true
			}
		}
	}
	return "", "", false
}

func amountOrZero(lines []string, patterns []*regexp.Regexp) float64 {
	if v, ok := firstMatch(lines, patterns); ok {
		if amt, ok := ParseAmount(v); ok {
			return amt
		}
	}
	return 0
}
