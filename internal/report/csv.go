package report

import (
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"

	"mulewatch/internal/dataset"
	"mulewatch/internal/errors"
)

// WriteTableCSV exports a table to a CSV file. The file gets a UTF-8 BOM so
// Excel recognises the encoding; null cells export as empty fields.
func WriteTableCSV(path string, t *dataset.Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("failed to create output directory", err).
			WithContext("path", path)
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.NewStorageError("failed to create CSV file", err).
			WithContext("path", path)
	}
	defer file.Close()

	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return errors.NewStorageError("failed to write BOM", err)
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(t.Columns); err != nil {
		return errors.NewStorageError("failed to write CSV header", err)
	}

	record := make([]string, len(t.Columns))
	for i, row := range t.Rows {
		for j, v := range row {
			record[j] = v.Display()
		}
		if err := writer.Write(record); err != nil {
			return errors.NewStorageError("failed to write CSV record", err).
				WithContext("row", i)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return errors.NewStorageError("failed to flush CSV file", err).
			WithContext("path", path)
	}

	slog.Info("wrote combined table CSV",
		slog.String("path", path),
		slog.Int("rows", t.RowCount()))

	return nil
}
