package parse

import (
	"log/slog"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/chimchomes/dsp-sub000/constants"
	"github.com/chimchomes/dsp-sub000/internal/common"
	"github.com/chimchomes/dsp-sub000/internal/entity"
)

// rateZeroTolerance decides whether a pair's rate counts as zero (unpaid).
const rateZeroTolerance = 0.001

var (
	reWeekdayLead  = regexp.MustCompile(`(?i)^(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`)
	reSuffixLead   = regexp.MustCompile(`^(\d)(?:\s|$)`)
	rePair         = regexp.MustCompile(`\b(\d+)\s*@\s*(-?\d+(?:\.\d+)?)`)
	reTrailAmount  = regexp.MustCompile(`£?\s*(-?[\d,]+\.\d{2})\s*$`)
	reLeadPrefixOp = regexp.MustCompile(`^([A-Z]{2}\d{1,2})\s+([A-Z]{2}\d{4,6})\b`)
	reColumnHeader = regexp.MustCompile(`(?i)^day\b.*\bdate\b|\bservice\s+group\b`)
	reFirstInt     = regexp.MustCompile(`\b\d+\b`)
)

// serviceLabels are the row labels the daily block uses, longest first so a
// compound label wins over its prefix. Each canonicalizes to one of the six
// fixed categories.
var serviceLabels = []string{
	"AdHoc/Scheduled Collections",
	"Scheduled Collections",
	"Parcel Locker Delivery",
	"Regular Delivery",
	"Standard Delivery",
	"Locker Delivery",
	"Timed Delivery",
	"Sack Delivery",
	"Packets",
	"Packet",
	"Sacks",
	"Sack",
	"Timed",
}

// DailyBreakdownParser reconstructs per-day, per-operator, per-tour service
// records from the daily breakdown block. The block splits the two-part tour
// identifier across a weekday line and the following date line, so the parser
// runs a small state machine: either idle, or holding a pending block whose
// tour code still awaits its final digit.
type DailyBreakdownParser struct {
	logger *slog.Logger
}

func NewDailyBreakdownParser(logger *slog.Logger) *DailyBreakdownParser {
	if logger == nil {
		logger = slog.Default()
	}
	return &DailyBreakdownParser{logger: logger}
}

// pendingBlock is the whole state of the AwaitingDateSuffix condition: the
// incomplete tour code, the operator that came with it, and the row content
// that cannot be parsed until the code is complete. Completing or abandoning
// the state drops the value as a unit, so no stale buffer survives.
type pendingBlock struct {
	tourPrefix  string
	operator    string
	bufferedRow string
}

type dailyRun struct {
	invoice string
	logger  *slog.Logger

	day      time.Time
	haveDay  bool
	operator string
	tour     string
	pending  *pendingBlock

	services   []*entity.DailyServiceRecord
	quantities map[string]*entity.DailyQuantityRecord
}

// Parse consumes the daily breakdown line range and returns the service
// records plus their per-day aggregates. Lines that fit no expected shape are
// skipped; a failed quantity cross-check aborts with ErrInvariantViolation.
func (p *DailyBreakdownParser) Parse(invoiceNumber string, lines []string) ([]*entity.DailyServiceRecord, []*entity.DailyQuantityRecord, error) {
	run := &dailyRun{
		invoice:    invoiceNumber,
		logger:     p.logger,
		quantities: make(map[string]*entity.DailyQuantityRecord),
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || reColumnHeader.MatchString(line) {
			continue
		}
		if err := run.handleLine(line); err != nil {
			return nil, nil, err
		}
	}
	return run.finish()
}

func (r *dailyRun) contextReady() bool {
	return r.haveDay && r.operator != "" && r.tour != ""
}

func (r *dailyRun) handleLine(line string) error {
	if m := reWeekdayLead.FindString(line); m != "" {
		rest := strings.TrimSpace(line[len(m):])
		r.bufferIfBlockStart(rest)
		// a plain weekday line is only a label for the date line that follows
		return nil
	}

	if m := reLeadDate.FindStringSubmatch(line); m != nil {
		if day, ok := ParseDate(m[1]); ok {
			r.day = day
			r.haveDay = true
		}
		rest := strings.TrimSpace(line[len(m[0]):])
		if r.pending != nil {
			if sm := reSuffixLead.FindStringSubmatch(rest); sm != nil {
				if err := r.completePending(sm[1]); err != nil {
					return err
				}
				return r.parseServiceRow(strings.TrimSpace(rest[1:]))
			}
			// no suffix on the date line; the block is still waiting for it
			return nil
		}
		if op := reOperatorTok.FindString(rest); op != "" {
			r.operator = op
		}
		if tour := reTourTok.FindString(rest); tour != "" {
			r.tour = tour
		}
		return r.parseServiceRow(rest)
	}

	// block boundary without a day restatement: the day context carries over
	if m := reLeadPrefixOp.FindStringSubmatch(line); m != nil {
		r.pending = &pendingBlock{
			tourPrefix:  m[1],
			operator:    m[2],
			bufferedRow: strings.TrimSpace(line[len(m[0]):]),
		}
		return nil
	}

	// suffix-first continuation, independent of a date line
	if r.pending != nil {
		if sm := reSuffixLead.FindStringSubmatch(line); sm != nil {
			if err := r.completePending(sm[1]); err != nil {
				return err
			}
			return r.parseServiceRow(strings.TrimSpace(line[1:]))
		}
	}

	return r.parseServiceRow(line)
}

// bufferIfBlockStart inspects the remainder of a weekday line. When it
// carries an incomplete tour code, an operator and at least one "qty @ rate"
// pair, the row is buffered until the date line supplies the final digit.
func (r *dailyRun) bufferIfBlockStart(rest string) {
	prefixLoc := reTourPrefixTok.FindStringIndex(rest)
	opLoc := reOperatorTok.FindStringIndex(rest)
	if prefixLoc == nil || opLoc == nil || !rePair.MatchString(rest) {
		return
	}
	r.pending = &pendingBlock{
		tourPrefix:  rest[prefixLoc[0]:prefixLoc[1]],
		operator:    rest[opLoc[0]:opLoc[1]],
		bufferedRow: strings.TrimSpace(rest[opLoc[1]:]),
	}
}

// completePending joins the buffered tour prefix with its suffix digit,
// adopts the buffered operator, and parses the buffered row under the now
// complete context.
func (r *dailyRun) completePending(suffix string) error {
	pend := r.pending
	r.pending = nil
	r.tour = pend.tourPrefix + suffix
	r.operator = pend.operator
	if pend.bufferedRow == "" {
		return nil
	}
	return r.parseServiceRow(pend.bufferedRow)
}

// parseServiceRow parses one service row under the current context. Rows
// that do not fit the shape contribute nothing; only a failed quantity
// cross-check is an error.
func (r *dailyRun) parseServiceRow(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || !r.contextReady() {
		return nil
	}
	if !strings.Contains(line, "@") {
		return nil
	}

	group, labelEnd := matchServiceLabel(line)
	if group == "" {
		return nil
	}

	am := reTrailAmount.FindStringSubmatchIndex(line)
	if am == nil {
		return nil
	}
	amount, ok := ParseAmount(line[am[2]:am[3]])
	if !ok {
		return nil
	}

	body := line[labelEnd:am[0]]
	pairs := rePair.FindAllStringSubmatchIndex(body, -1)
	if len(pairs) == 0 {
		return nil
	}

	// stated total: the first standalone integer between label and first pair
	total := -1
	if tok := reFirstInt.FindString(body[:pairs[0][0]]); tok != "" {
		total = mustAtoi(tok)
	}

	paid, unpaid := 0, 0
	for i, pr := range pairs {
		qtyTok := body[pr[2]:pr[3]]
		rate, _ := strconv.ParseFloat(body[pr[4]:pr[5]], 64)
		qty := mustAtoi(qtyTok)
		if len(qtyTok) >= 4 {
			if lead, second, ok := SplitConcatQty(qtyTok); ok {
				qty = second
				if i == 0 && total < 0 {
					// the stated total ran into the first pair's quantity
					total = lead
				}
			}
		}
		if math.Abs(rate) < rateZeroTolerance {
			unpaid += qty
		} else {
			paid += qty
		}
	}
	if total < 0 {
		return nil
	}

	if total != paid+unpaid {
		return &common.InvariantViolationError{
			InvoiceNumber: r.invoice,
			WorkingDay:    r.day.Format("2006-01-02"),
			OperatorID:    r.operator,
			Tour:          r.tour,
			ServiceGroup:  string(group),
			Line:          line,
			Detail:        strconv.Itoa(total) + " stated != " + strconv.Itoa(paid) + " paid + " + strconv.Itoa(unpaid) + " unpaid",
		}
	}

	rec := &entity.DailyServiceRecord{
		InvoiceNumber: r.invoice,
		WorkingDay:    r.day,
		OperatorID:    r.operator,
		Tour:          r.tour,
		ServiceGroup:  group,
		QtyPaid:       paid,
		QtyUnpaid:     unpaid,
		QtyTotal:      total,
		Amount:        amount,
	}
	if err := rec.Validate(); err != nil {
		return err
	}
	r.services = append(r.services, rec)

	key := r.day.Format("2006-01-02") + "|" + r.operator + "|" + r.tour
	q, ok := r.quantities[key]
	if !ok {
		q = &entity.DailyQuantityRecord{
			InvoiceNumber: r.invoice,
			WorkingDay:    r.day,
			OperatorID:    r.operator,
			Tour:          r.tour,
		}
		r.quantities[key] = q
	}
	q.Add(group, total)
	return nil
}

// finish runs the terminal invariant over every aggregate and returns the
// record sets in deterministic order.
func (r *dailyRun) finish() ([]*entity.DailyServiceRecord, []*entity.DailyQuantityRecord, error) {
	quantities := make([]*entity.DailyQuantityRecord, 0, len(r.quantities))
	for _, q := range r.quantities {
		if q.QtyTotal != q.CategorySum() {
			return nil, nil, &common.InvariantViolationError{
				InvoiceNumber: r.invoice,
				WorkingDay:    q.WorkingDay.Format("2006-01-02"),
				OperatorID:    q.OperatorID,
				Tour:          q.Tour,
				Detail:        "grand total " + strconv.Itoa(q.QtyTotal) + " != category sum " + strconv.Itoa(q.CategorySum()),
			}
		}
		quantities = append(quantities, q)
	}
	sort.Slice(quantities, func(i, j int) bool {
		a, b := quantities[i], quantities[j]
		if !a.WorkingDay.Equal(b.WorkingDay) {
			return a.WorkingDay.Before(b.WorkingDay)
		}
		if a.OperatorID != b.OperatorID {
			return a.OperatorID < b.OperatorID
		}
		return a.Tour < b.Tour
	})
	r.logger.Debug("daily breakdown parsed",
		"invoice_number", r.invoice,
		"service_records", len(r.services),
		"quantity_records", len(quantities),
	)
	return r.services, quantities, nil
}

// matchServiceLabel finds the earliest known row label in the line, taking
// the longest label on ties, and canonicalizes it.
func matchServiceLabel(line string) (constants.ServiceGroup, int) {
	lower := strings.ToLower(line)
	bestIdx, bestLen := -1, 0
	var bestLabel string
	for _, label := range serviceLabels {
		idx := strings.Index(lower, strings.ToLower(label))
		if idx < 0 {
			continue
		}
		if bestIdx < 0 || idx < bestIdx || (idx == bestIdx && len(label) > bestLen) {
			bestIdx, bestLen, bestLabel = idx, len(label), label
		}
	}
	if bestIdx < 0 {
		return "", 0
	}
	group, ok := constants.CanonicalizeServiceGroup(bestLabel)
	if !ok {
		return "", 0
	}
	return group, bestIdx + bestLen
}
