package layout

import (
	"errors"
	"testing"

	"github.com/chimchomes/dsp-sub000/internal/common"
	"github.com/chimchomes/dsp-sub000/internal/extract"
)

func testProfile() Profile {
	p := DefaultProfile()
	p.MinTextLen = 1
	return p
}

func tok(text string, x, y float64) extract.Token {
	return extract.Token{Text: text, X: x, Y: y}
}

func TestLinesOrdersRowsTopToBottom(t *testing.T) {
	// PDF y grows upward: the row with the larger y reads first.
	pages := []extract.Page{{Number: 1, Tokens: []extract.Token{
		tok("second", 0, 700),
		tok("first", 0, 750),
		tok("third", 0, 650),
	}}}
	lines, err := NewRowReconstructor(testProfile(), nil).Lines(pages)
	if err != nil {
		t.Fatalf("Lines: %v", err)
	}
	want := []string{"first", "second", "third"}
	if len(lines) != len(want) {
		t.Fatalf("lines = %v, want %v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("lines[%d] = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestLinesJoinsRowByHorizontalPosition(t *testing.T) {
	// Tokens nearly touching fuse; tokens across a column gap get one space.
	pages := []extract.Page{{Number: 1, Tokens: []extract.Token{
		tok("Number", 40, 700),
		tok("Inv", 0, 700),
		tok("oice", 2, 700.4),
	}}}
	lines, err := NewRowReconstructor(testProfile(), nil).Lines(pages)
	if err != nil {
		t.Fatalf("Lines: %v", err)
	}
	if len(lines) != 1 || lines[0] != "Invoice Number" {
		t.Fatalf("lines = %q, want [\"Invoice Number\"]", lines)
	}
}

func TestLinesPageBoundaryMarker(t *testing.T) {
	pages := []extract.Page{
		{Number: 1, Tokens: []extract.Token{tok("page one", 0, 700)}},
		{Number: 2, Tokens: []extract.Token{tok("page two", 0, 700)}},
	}
	lines, err := NewRowReconstructor(testProfile(), nil).Lines(pages)
	if err != nil {
		t.Fatalf("Lines: %v", err)
	}
	want := []string{"page one", "", "page two"}
	if len(lines) != 3 || lines[1] != "" {
		t.Fatalf("lines = %q, want %q", lines, want)
	}
}

func TestLinesUnreadableDocument(t *testing.T) {
	pages := []extract.Page{{Number: 1, Tokens: []extract.Token{tok("x", 0, 700)}}}
	_, err := NewRowReconstructor(DefaultProfile(), nil).Lines(pages)
	if !errors.Is(err, common.ErrUnreadableDocument) {
		t.Fatalf("err = %v, want ErrUnreadableDocument", err)
	}
}

func TestNormalizeText(t *testing.T) {
	cases := []struct{ in, want string }{
		{"a\r\nb", "a\nb"},
		{"a\rb", "a\nb"},
		{"a​b", "ab"},
		{"a   b", "a b"},
	}
	for _, c := range cases {
		if got := NormalizeText(c.in); got != c.want {
			t.Errorf("NormalizeText(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
