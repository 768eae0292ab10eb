package layout

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/chimchomes/dsp-sub000/internal/common"
	"github.com/chimchomes/dsp-sub000/internal/extract"
)

// RowReconstructor groups positioned tokens into visual rows and re-inserts
// the column spacing the extraction lost.
type RowReconstructor struct {
	profile Profile
	logger  *slog.Logger
}

func NewRowReconstructor(profile Profile, logger *slog.Logger) *RowReconstructor {
	if logger == nil {
		logger = slog.Default()
	}
	return &RowReconstructor{profile: profile, logger: logger}
}

// Lines rebuilds one string per visual row, top-to-bottom in page order, with
// an empty line between pages as the page-boundary marker. If the total
// reconstructed text is too short the document is treated as
// non-text-extractable and ingestion fails.
func (rc *RowReconstructor) Lines(pages []extract.Page) ([]string, error) {
	var lines []string
	totalLen := 0

	for i, page := range pages {
		if i > 0 {
			lines = append(lines, "")
		}
		for _, row := range rc.pageRows(page.Tokens) {
			line := rc.joinRow(row)
			if line == "" {
				continue
			}
			totalLen += utf8.RuneCountInString(line)
			lines = append(lines, line)
		}
	}

	if totalLen < rc.profile.MinTextLen {
		return nil, fmt.Errorf("reconstructed only %d characters from %d pages (need %d): %w",
			totalLen, len(pages), rc.profile.MinTextLen, common.ErrUnreadableDocument)
	}
	rc.logger.Debug("rows reconstructed", "pages", len(pages), "lines", len(lines), "chars", totalLen)
	return lines, nil
}

// pageRows buckets tokens by rounded vertical position and returns the
// buckets top-to-bottom. PDF coordinates grow upward, so reading order is
// descending y.
func (rc *RowReconstructor) pageRows(tokens []extract.Token) [][]extract.Token {
	buckets := make(map[int64][]extract.Token)
	for _, t := range tokens {
		key := int64(math.Round(t.Y / rc.profile.RowTolerance))
		buckets[key] = append(buckets[key], t)
	}

	keys := make([]int64, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] > keys[j] })

	rows := make([][]extract.Token, 0, len(keys))
	for _, k := range keys {
		row := buckets[k]
		sort.SliceStable(row, func(i, j int) bool { return row[i].X < row[j].X })
		rows = append(rows, row)
	}
	return rows
}

// joinRow concatenates a row's tokens left-to-right, inserting a single space
// wherever the horizontal gap between consecutive tokens crosses the column
// threshold and the emitted text does not already end in whitespace.
func (rc *RowReconstructor) joinRow(row []extract.Token) string {
	var b strings.Builder
	prevX := math.Inf(-1)
	for _, t := range row {
		text := NormalizeText(t.Text)
		if text == "" {
			continue
		}
		if b.Len() > 0 && t.X-prevX > rc.profile.GapThreshold && !endsInSpace(b.String()) {
			b.WriteByte(' ')
		}
		b.WriteString(text)
		prevX = t.X
	}
	return strings.TrimSpace(NormalizeText(b.String()))
}

func endsInSpace(s string) bool {
	if s == "" {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(s)
	return r == ' ' || r == '\t'
}
