package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/deckpilot/deckpilot/internal/record"
)

// AuditXLSX renders the full record history (superseded rows included) to an
// XLSX workbook, newest first.
func AuditXLSX(records []*record.Record, logger *slog.Logger) ([]byte, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Generation Records"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	// drop the default sheet excelize creates
	if index, _ := f.GetSheetIndex("Sheet1"); index != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	headers := []string{
		"File Name",
		"Source Path",
		"Content Hash",
		"Generation ID",
		"Status",
		"Failure Cause",
		"Export Status",
		"Export Method",
		"Export Path",
		"Remote URL",
		"Superseded",
		"Created",
		"Updated",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]

		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, r.FileName)
		write(2, r.SourcePath)
		write(3, r.ContentHash)
		write(4, r.GenerationID)
		write(5, string(r.Status))
		write(6, r.FailureCause)
		write(7, string(r.ExportStatus))
		write(8, r.ExportMethod)
		write(9, r.ExportPath)
		write(10, r.RemoteURL)
		write(11, r.Superseded)
		write(12, r.CreatedAt.UTC().Format(time.RFC3339))
		write(13, r.UpdatedAt.UTC().Format(time.RFC3339))
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	logger.Info("export.audit.ok",
		"records", len(records),
		"bytes", buf.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
