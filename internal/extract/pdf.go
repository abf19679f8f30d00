package extract

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/deckpilot/deckpilot/internal/common"
)

// extractPDF pulls the embedded text layer out of a PDF. Scanned PDFs with
// no text layer yield an empty result and a warning; OCR is out of scope.
func extractPDF(path string) (Result, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return Result{}, common.NewAppError("EXTRACT_PDF", path, fmt.Errorf("%w: %w", common.ErrIO, err))
	}
	defer f.Close()

	plain, err := reader.GetPlainText()
	if err != nil {
		return Result{}, common.NewAppError("EXTRACT_PDF_TEXT", path, fmt.Errorf("%w: %w", common.ErrIO, err))
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return Result{}, common.NewAppError("EXTRACT_PDF_READ", path, fmt.Errorf("%w: %w", common.ErrIO, err))
	}

	res := Result{
		Text:       buf.String(),
		SourceType: "PDF",
		Method:     "pdf-text",
	}
	if len(res.Text) == 0 {
		res.Warnings = append(res.Warnings, "no text layer found")
	}
	return res, nil
}
