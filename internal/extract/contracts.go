package extract

import (
	"context"
	"io"
)

// Token is one positioned text fragment from a document page. Coordinates
// are in document units with the origin at the bottom-left of the page.
type Token struct {
	Text string
	X    float64
	Y    float64
}

// Page holds the tokens of one page in extraction order, which is not
// necessarily reading order.
type Page struct {
	Number int
	Tokens []Token
}

// TokenExtractor is the input boundary of the pipeline: given document bytes,
// return positioned tokens per page. Implementations do not interpret the
// tokens; row reconstruction happens downstream.
type TokenExtractor interface {
	Extract(ctx context.Context, r io.ReaderAt, size int64) ([]Page, error)
}
