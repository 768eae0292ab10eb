package constants

import "strings"

// AllowedExtensions holds the file extensions accepted for invoice ingestion.
// The pipeline only handles text-extractable PDFs; scanned image formats are
// rejected at discovery time rather than deep inside extraction.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
