package report

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"mulewatch/internal/analysis"
	"mulewatch/internal/errors"
)

// WorkbookSheet pairs a sheet name with the grouping it holds
type WorkbookSheet struct {
	Name   string
	Result *analysis.GroupResult
}

// WriteAnalysisWorkbook exports the grouped-sum results to a single Excel
// workbook, one sheet per grouping.
func WriteAnalysisWorkbook(path string, sheets []WorkbookSheet) error {
	if len(sheets) == 0 {
		return errors.NewValidationError("no sheets to write")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("failed to create output directory", err).
			WithContext("path", path)
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				return errors.NewStorageError("failed to name workbook sheet", err)
			}
		} else {
			if _, err := f.NewSheet(sheet.Name); err != nil {
				return errors.NewStorageError("failed to add workbook sheet", err)
			}
		}
		if err := writeSheet(f, sheet.Name, sheet.Result); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errors.NewStorageError("failed to save analysis workbook", err).
			WithContext("path", path)
	}

	slog.Info("wrote analysis workbook",
		slog.String("path", path),
		slog.Int("sheets", len(sheets)))

	return nil
}

// writeSheet fills one sheet: group columns, then the sum column
func writeSheet(f *excelize.File, name string, r *analysis.GroupResult) error {
	headers := append(append([]string(nil), r.GroupColumns...), r.SumColumn)
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return errors.NewStorageError("failed to address workbook cell", err)
		}
		if err := f.SetCellValue(name, cell, header); err != nil {
			return errors.NewStorageError("failed to write workbook header", err)
		}
	}

	for i, row := range r.Rows {
		for col, key := range row.Keys {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return errors.NewStorageError("failed to address workbook cell", err)
			}
			if err := f.SetCellValue(name, cell, key); err != nil {
				return errors.NewStorageError("failed to write workbook cell", err)
			}
		}
		cell, err := excelize.CoordinatesToCellName(len(row.Keys)+1, i+2)
		if err != nil {
			return errors.NewStorageError("failed to address workbook cell", err)
		}
		if err := f.SetCellValue(name, cell, row.Sum.InexactFloat64()); err != nil {
			return errors.NewStorageError("failed to write workbook cell", err)
		}
	}

	return nil
}
