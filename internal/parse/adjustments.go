package parse

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/chimchomes/dsp-sub000/internal/entity"
)

var (
	// One adjustment line: date, tour, optional operator, optional parcel id,
	// free-form type/description span, trailing signed currency amount. The
	// sign may sit on either side of the currency symbol, and may be
	// separated from the digits by whitespace; whatever the rendition, the
	// whole token is captured and handed to ParseAmount.
	reAdjustmentRow = regexp.MustCompile(
		`^(\d{1,2}/\d{1,2}/\d{2,4})\s+([A-Z]{2}\d{2,3})\s+(?:([A-Z]{2}\d{4,6})\s+)?(?:([A-Z]{1,3}\d{4,12})\s+)?(.+?)\s+(-?\s*£?\s*-?\s*[\d,]+\.\d{2})\s*$`)

	reTotalsLine  = regexp.MustCompile(`(?i)^total\b`)
	reAdjHeader   = regexp.MustCompile(`(?i)^date\b.*\btour\b`)

	// Week-level totals, each anchored independently; the document states all
	// four, so none is derived by summing the details.
	totalBeforePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^total\s+before\s+adjustments?\b.*?(-?\s*£?\s*-?\s*[\d,]+\.\d{2})\s*$`),
		regexp.MustCompile(`(?i)^pre-adjustment\s+total\b.*?(-?\s*£?\s*-?\s*[\d,]+\.\d{2})\s*$`),
	}
	totalNegativePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^total\s+deductions?\b.*?(-?\s*£?\s*-?\s*[\d,]+\.\d{2})\s*$`),
		regexp.MustCompile(`(?i)^total\s+negative\s+adjustments?\b.*?(-?\s*£?\s*-?\s*[\d,]+\.\d{2})\s*$`),
	}
	totalPositivePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^total\s+additions?\b.*?(-?\s*£?\s*-?\s*[\d,]+\.\d{2})\s*$`),
		regexp.MustCompile(`(?i)^total\s+positive\s+adjustments?\b.*?(-?\s*£?\s*-?\s*[\d,]+\.\d{2})\s*$`),
	}
	totalAfterPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^total\s+after\s+adjustments?\b.*?(-?\s*£?\s*-?\s*[\d,]+\.\d{2})\s*$`),
		regexp.MustCompile(`(?i)^post-adjustment\s+total\b.*?(-?\s*£?\s*-?\s*[\d,]+\.\d{2})\s*$`),
	}
)

// typeLeadWords are id-shaped scheme codes that begin known type labels.
// They match the parcel-id token shape but belong to the type, so the row
// pattern's parcel capture is reattached when it equals one of these. The
// list is closed; a new colliding label means extending it, not generalizing.
var typeLeadWords = map[string]struct{}{
	"OOA2000": {},
	"DTR1000": {},
}

// compoundTypeLabels are multi-word type labels the format emits with the
// free-text reason attached directly behind them. Only these two split
// cleanly; the format does not mark the type/description boundary otherwise.
var compoundTypeLabels = []string{
	"Agency Cover Charge",
	"Missed Collection Penalty",
}

// AdjustmentParser extracts manual-adjustment line items and the week-level
// adjustment summary.
type AdjustmentParser struct {
	logger *slog.Logger
}

func NewAdjustmentParser(logger *slog.Logger) *AdjustmentParser {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdjustmentParser{logger: logger}
}

// Parse walks the adjustment block. A matched line missing its description
// consumes the following line as the description, provided that line is not
// itself an adjustment row or a totals line. Records with a zero amount or an
// empty type are dropped.
func (p *AdjustmentParser) Parse(invoiceNumber string, lines []string) ([]*entity.AdjustmentDetailRecord, *entity.AdjustmentSummaryRecord, error) {
	var details []*entity.AdjustmentDetailRecord

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" || reAdjHeader.MatchString(line) || reTotalsLine.MatchString(line) {
			continue
		}
		m := reAdjustmentRow.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		date, _ := ParseDate(m[1])
		amount, ok := ParseAmount(m[6])
		if !ok {
			continue
		}

		span := strings.TrimSpace(m[5])
		parcelID := m[4]
		if parcelID != "" {
			if _, isTypeWord := typeLeadWords[parcelID]; isTypeWord {
				// scheme code, not a parcel: put it back in front of the type
				span = parcelID + " " + span
				parcelID = ""
			}
		}

		typ, desc := splitTypeDescription(span)

		if desc == "" && i+1 < len(lines) {
			next := strings.TrimSpace(lines[i+1])
			if next != "" && !reAdjustmentRow.MatchString(next) && !reTotalsLine.MatchString(next) && !reAdjHeader.MatchString(next) {
				desc = next
				i++
			}
		}

		if amount == 0 || typ == "" {
			continue
		}

		rec := &entity.AdjustmentDetailRecord{
			InvoiceNumber: invoiceNumber,
			Date:          date,
			Tour:          m[2],
			Type:          typ,
			Amount:        amount,
			Description:   desc,
		}
		if m[3] != "" {
			op := m[3]
			rec.OperatorID = &op
		}
		if parcelID != "" {
			id := parcelID
			rec.ParcelID = &id
		}
		if err := rec.Validate(); err != nil {
			return nil, nil, err
		}
		details = append(details, rec)
	}

	summary := &entity.AdjustmentSummaryRecord{
		InvoiceNumber: invoiceNumber,
		TotalBefore:   amountOrZero(lines, totalBeforePatterns),
		TotalNegative: amountOrZero(lines, totalNegativePatterns),
		TotalPositive: amountOrZero(lines, totalPositivePatterns),
		TotalAfter:    amountOrZero(lines, totalAfterPatterns),
	}

	p.logger.Debug("adjustments parsed",
		"invoice_number", invoiceNumber,
		"details", len(details),
		"total_after", summary.TotalAfter,
	)
	return details, summary, nil
}

// splitTypeDescription separates the type label from an attached free-text
// reason. Only the known compound labels split; otherwise the whole span is
// the type and the description, if any, arrives on the next physical line.
func splitTypeDescription(span string) (string, string) {
	for _, label := range compoundTypeLabels {
		if strings.EqualFold(span, label) {
			return label, ""
		}
		if len(span) > len(label) && strings.EqualFold(span[:len(label)], label) && span[len(label)] == ' ' {
			return label, strings.TrimSpace(span[len(label):])
		}
	}
	return span, ""
}
