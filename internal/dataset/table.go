package dataset

import (
	"strings"

	"mulewatch/internal/errors"
)

// Table is an in-memory tabular dataset with ordered columns and nullable
// cells. All pipeline stages read and produce tables; none mutates its input.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]Value
}

// New creates an empty table with the given column order
func New(name string, columns []string) *Table {
	return &Table{
		Name:    name,
		Columns: append([]string(nil), columns...),
	}
}

// ColumnIndex returns the position of a column by name
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, c := range t.Columns {
		if c == name {
			return i, true
		}
	}
	return -1, false
}

// AppendRow adds a row, which must match the column count
func (t *Table) AppendRow(row []Value) error {
	if len(row) != len(t.Columns) {
		return errors.NewValidationError("row width does not match column count").
			WithContext("table", t.Name).
			WithContext("columns", len(t.Columns)).
			WithContext("cells", len(row))
	}
	t.Rows = append(t.Rows, row)
	return nil
}

// RowCount returns the number of data rows
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// Cell returns the value at the given row for a named column
func (t *Table) Cell(row int, column string) (Value, bool) {
	idx, ok := t.ColumnIndex(column)
	if !ok || row < 0 || row >= len(t.Rows) {
		return Null(), false
	}
	return t.Rows[row][idx], true
}

// ColumnValues returns all values of a named column in row order
func (t *Table) ColumnValues(column string) ([]Value, bool) {
	idx, ok := t.ColumnIndex(column)
	if !ok {
		return nil, false
	}
	values := make([]Value, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[idx]
	}
	return values, true
}

// Clone returns a deep copy of the table
func (t *Table) Clone() *Table {
	clone := New(t.Name, t.Columns)
	clone.Rows = make([][]Value, len(t.Rows))
	for i, row := range t.Rows {
		clone.Rows[i] = append([]Value(nil), row...)
	}
	return clone
}

// Fingerprint returns a canonical key for a full row, used for exact
// duplicate detection. Cells are joined with a separator that cannot appear
// inside a value key.
func Fingerprint(row []Value) string {
	keys := make([]string, len(row))
	for i, v := range row {
		keys[i] = v.Key()
	}
	return strings.Join(keys, "\x1f")
}
