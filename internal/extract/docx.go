package extract

import (
	"fmt"
	"os"
	"strings"

	docx "github.com/fumiama/go-docx"

	"github.com/deckpilot/deckpilot/internal/common"
)

// extractDocx pulls paragraph and table text out of a .docx in document
// order. Empty paragraphs are dropped.
func extractDocx(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, common.NewAppError("EXTRACT_OPEN", path, fmt.Errorf("%w: %w", common.ErrIO, err))
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return Result{}, common.NewAppError("EXTRACT_STAT", path, fmt.Errorf("%w: %w", common.ErrIO, err))
	}

	doc, err := docx.Parse(f, fi.Size())
	if err != nil {
		return Result{}, common.NewAppError("EXTRACT_DOCX", path, fmt.Errorf("%w: %w", common.ErrIO, err))
	}

	var parts []string
	for _, item := range doc.Document.Body.Items {
		switch item.(type) {
		case *docx.Paragraph, *docx.Table:
			s, ok := item.(fmt.Stringer)
			if !ok {
				continue
			}
			if text := strings.TrimSpace(s.String()); text != "" {
				parts = append(parts, text)
			}
		}
	}

	return Result{
		Text:       strings.Join(parts, "\n"),
		SourceType: "DOCX",
		Method:     "docx-text",
	}, nil
}
