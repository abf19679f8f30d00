package extract

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/deckpilot/deckpilot/constants"
	"github.com/deckpilot/deckpilot/internal/common"
)

// FileExtractor dispatches on file extension to a per-format extractor.
type FileExtractor struct {
	logger *slog.Logger
}

func NewFileExtractor(logger *slog.Logger) *FileExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileExtractor{logger: logger}
}

func (e *FileExtractor) Extract(ctx context.Context, path string) (Result, error) {
	start := time.Now()

	var (
		res Result
		err error
	)
	switch ext := constants.NormalizeExt(filepath.Ext(path)); ext {
	case "docx":
		res, err = extractDocx(path)
	case "pdf":
		res, err = extractPDF(path)
	case "txt", "md":
		res, err = extractPlain(path)
	default:
		return Result{}, common.NewAppError("EXTRACT_FORMAT",
			fmt.Sprintf("unsupported extension %q", ext), common.ErrInvalidInput)
	}
	if err != nil {
		e.logger.Error("extract.failed", "path", path, "err", err)
		return Result{}, err
	}

	res.ImageURLs = HarvestImageURLs(res.Text)
	res.Duration = time.Since(start)

	e.logger.Info("extract.ok",
		"path", path,
		"method", res.Method,
		"chars", len(res.Text),
		"image_urls", len(res.ImageURLs),
		"elapsed_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}
