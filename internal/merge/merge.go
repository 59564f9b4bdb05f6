// Package merge combines the cleaned tables into the single analytic table
// and derives the demographic feature columns on it.
package merge

import (
	"log/slog"

	"mulewatch/internal/dataset"
	"mulewatch/internal/errors"
)

// LeftJoin joins two tables on a shared key column. Every left row appears
// exactly once in the result; unmatched rows carry nulls for the right
// side's columns. When the right table repeats a key, the first occurrence
// wins. Null keys never match.
func LeftJoin(left, right *dataset.Table, key string) (*dataset.Table, error) {
	leftKey, ok := left.ColumnIndex(key)
	if !ok {
		return nil, errors.NewValidationError("join key column missing from left table").
			WithContext("table", left.Name).
			WithContext("column", key)
	}
	rightKey, ok := right.ColumnIndex(key)
	if !ok {
		return nil, errors.NewValidationError("join key column missing from right table").
			WithContext("table", right.Name).
			WithContext("column", key)
	}

	// The key column appears once; clashing right column names get the right
	// table's name as a suffix.
	columns := append([]string(nil), left.Columns...)
	rightCols := make([]int, 0, len(right.Columns)-1)
	for i, c := range right.Columns {
		if i == rightKey {
			continue
		}
		name := c
		if _, clash := left.ColumnIndex(c); clash {
			name = c + "_" + right.Name
		}
		columns = append(columns, name)
		rightCols = append(rightCols, i)
	}

	index := make(map[string][]dataset.Value, right.RowCount())
	for _, row := range right.Rows {
		k := row[rightKey]
		if k.IsNull() {
			continue
		}
		if _, exists := index[k.Key()]; !exists {
			index[k.Key()] = row
		}
	}

	out := dataset.New(left.Name, columns)
	matched := 0
	for _, row := range left.Rows {
		joined := append([]dataset.Value(nil), row...)

		k := row[leftKey]
		match, ok := index[k.Key()]
		if k.IsNull() {
			ok = false
		}
		if ok {
			matched++
		}
		for _, ri := range rightCols {
			if ok {
				joined = append(joined, match[ri])
			} else {
				joined = append(joined, dataset.Null())
			}
		}
		out.Rows = append(out.Rows, joined)
	}

	slog.Info("joined tables",
		slog.String("left", left.Name),
		slog.String("right", right.Name),
		slog.String("key", key),
		slog.Int("rows", out.RowCount()),
		slog.Int("matched", matched))

	return out, nil
}
