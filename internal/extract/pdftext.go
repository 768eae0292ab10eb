package extract

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ledongthuc/pdf"
)

// PDFTokenExtractor extracts positioned text fragments from text-layer PDFs.
// It has no OCR capability: a scanned document simply yields no tokens, which
// the pipeline turns into an unreadable-document failure further down.
type PDFTokenExtractor struct {
	logger *slog.Logger
}

func NewPDFTokenExtractor(logger *slog.Logger) *PDFTokenExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFTokenExtractor{logger: logger}
}

// Extract reads every page of the document and returns its text fragments
// with page coordinates, in the order the content stream emits them.
func (e *PDFTokenExtractor) Extract(ctx context.Context, r io.ReaderAt, size int64) ([]Page, error) {
	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	numPages := reader.NumPage()
	pages := make([]Page, 0, numPages)
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content := page.Content()
		tokens := make([]Token, 0, len(content.Text))
		for _, t := range content.Text {
			if t.S == "" {
				continue
			}
			tokens = append(tokens, Token{Text: t.S, X: t.X, Y: t.Y})
		}
		pages = append(pages, Page{Number: i, Tokens: tokens})
	}

	e.logger.Debug("pdf tokens extracted", "pages", len(pages))
	return pages, nil
}
