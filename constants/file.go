package constants

import "strings"

// ExportFormats holds the deck formats the remote service can materialize.
var ExportFormats = []string{"pdf", "pptx"}

// AllowedExtensions holds the default allowed source extensions for discovery.
var AllowedExtensions = map[string]struct{}{
	"docx": {},
	"pdf":  {},
	"txt":  {},
	"md":   {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
