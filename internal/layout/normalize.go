package layout

import (
	"regexp"
	"strings"
)

var (
	reSpaceRun = regexp.MustCompile(`[ \t\x{00A0}\x{2007}\x{202F}]+`)
	reZeroWidth = regexp.MustCompile(`[\x{200B}\x{200C}\x{200D}\x{FEFF}]`)
)

// NormalizeText cleans whitespace and encoding artifacts left by text
// extraction: CR/CRLF line endings, zero-width characters, and runs of
// spacing characters (including the non-breaking variants PDFs like to emit)
// collapsed to a single space.
func NormalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = reZeroWidth.ReplaceAllString(s, "")
	s = reSpaceRun.ReplaceAllString(s, " ")
	return s
}
