package extract

import (
	"context"
	"time"
)

// TextExtractor turns a source document into plain text plus any image URLs
// referenced inside it.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (Result, error)
}

type Result struct {
	Text       string
	ImageURLs  []string
	SourceType string // "DOCX" | "PDF" | "TXT"
	Method     string // "docx-text" | "pdf-text" | "plain"
	Duration   time.Duration
	Warnings   []string
}
