package dataset

import (
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"strings"

	"mulewatch/internal/errors"
)

// LoadCSV reads a delimited file into a table. The first record is the
// header. Ragged rows fail the load; there are no partial tables.
func LoadCSV(path, name string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewStorageError("failed to open source file", err).
			WithContext("path", path)
	}
	defer f.Close()

	table, err := ReadCSV(f, name)
	if err != nil {
		return nil, err
	}

	slog.Info("loaded source file",
		slog.String("table", name),
		slog.String("path", path),
		slog.Int("columns", len(table.Columns)),
		slog.Int("rows", table.RowCount()))

	return table, nil
}

// ReadCSV reads delimited data from a reader into a table
func ReadCSV(r io.Reader, name string) (*Table, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.NewParsingError("source file is empty", nil).
			WithContext("table", name)
	}
	if err != nil {
		return nil, errors.NewParsingError("failed to read header row", err).
			WithContext("table", name)
	}
	if len(header) > 0 {
		// Excel writes a UTF-8 BOM ahead of the first header cell
		header[0] = strings.TrimPrefix(header[0], "\xEF\xBB\xBF")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	table := New(name, header)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewParsingError("failed to read data row", err).
				WithContext("table", name).
				WithContext("row", table.RowCount()+1)
		}

		row := make([]Value, len(record))
		for i, cell := range record {
			row[i] = ParseCell(cell)
		}
		if err := table.AppendRow(row); err != nil {
			return nil, err
		}
	}

	return table, nil
}
