// Package clean removes duplicate rows and substitutes sentinel values for
// missing data ahead of the merge.
package clean

import (
	"log/slog"

	"mulewatch/internal/dataset"
)

// Dedupe returns a copy of the table with exact-duplicate rows removed. The
// first occurrence of each row is kept and row order is otherwise preserved.
// Applying it twice yields the same table as once.
func Dedupe(t *dataset.Table) *dataset.Table {
	out := dataset.New(t.Name, t.Columns)
	seen := make(map[string]bool, t.RowCount())

	for _, row := range t.Rows {
		fp := dataset.Fingerprint(row)
		if seen[fp] {
			continue
		}
		seen[fp] = true
		out.Rows = append(out.Rows, append([]dataset.Value(nil), row...))
	}

	if removed := t.RowCount() - out.RowCount(); removed > 0 {
		slog.Info("removed duplicate rows",
			slog.String("table", t.Name),
			slog.Int("removed", removed))
	}

	return out
}

// FillDefaults returns a copy of the table with nulls in the named columns
// replaced by their configured default. Columns not named in the map keep
// their nulls.
func FillDefaults(t *dataset.Table, defaults map[string]dataset.Value) *dataset.Table {
	out := t.Clone()

	filled := 0
	for column, def := range defaults {
		idx, ok := out.ColumnIndex(column)
		if !ok {
			slog.Warn("default-fill column not present in table",
				slog.String("table", t.Name),
				slog.String("column", column))
			continue
		}
		for _, row := range out.Rows {
			if row[idx].IsNull() {
				row[idx] = def
				filled++
			}
		}
	}

	if filled > 0 {
		slog.Info("filled missing values",
			slog.String("table", t.Name),
			slog.Int("cells", filled))
	}

	return out
}

// FillAll returns a copy of the table with every null cell, in every column,
// replaced by the given value.
func FillAll(t *dataset.Table, fill dataset.Value) *dataset.Table {
	defaults := make(map[string]dataset.Value, len(t.Columns))
	for _, column := range t.Columns {
		defaults[column] = fill
	}
	return FillDefaults(t, defaults)
}

// ParseDefaults converts a configured fill map into cell values using the
// same parsing rules as the loader, so "-1" fills numerically and "Missing"
// fills as text.
func ParseDefaults(raw map[string]string) map[string]dataset.Value {
	defaults := make(map[string]dataset.Value, len(raw))
	for column, cell := range raw {
		defaults[column] = dataset.ParseCell(cell)
	}
	return defaults
}
