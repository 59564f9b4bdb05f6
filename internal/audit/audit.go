// Package audit computes descriptive statistics over loaded tables. The
// pipeline prints the results for human inspection; nothing downstream
// consumes them.
package audit

import (
	"context"
	"log/slog"
	"sort"

	"mulewatch/internal/dataset"
)

// ValueCount is one distinct value and how often it occurs in a column.
// Null is counted like any other value.
type ValueCount struct {
	Value dataset.Value
	Count int
}

// ColumnStats holds the per-column audit results
type ColumnStats struct {
	Column       string
	ValueCounts  []ValueCount
	MissingCount int
	MissingPct   float64
}

// Report holds the full audit of one table
type Report struct {
	Table      string
	RowCount   int
	Duplicates int
	Columns    []ColumnStats
}

// Auditor examines tables and produces audit reports
type Auditor struct {
	logger *slog.Logger
}

// NewAuditor creates an auditor. A nil logger falls back to the default.
func NewAuditor(logger *slog.Logger) *Auditor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Auditor{logger: logger}
}

// Examine computes value frequencies, missing percentages and the
// exact-duplicate row count for a table.
func (a *Auditor) Examine(ctx context.Context, t *dataset.Table) *Report {
	report := &Report{
		Table:      t.Name,
		RowCount:   t.RowCount(),
		Duplicates: countDuplicates(t),
		Columns:    make([]ColumnStats, 0, len(t.Columns)),
	}

	for _, column := range t.Columns {
		values, _ := t.ColumnValues(column)
		report.Columns = append(report.Columns, examineColumn(column, values))
	}

	a.logger.InfoContext(ctx, "table audited",
		slog.String("table", t.Name),
		slog.Int("rows", report.RowCount),
		slog.Int("columns", len(report.Columns)),
		slog.Int("duplicate_rows", report.Duplicates))

	return report
}

// examineColumn tallies distinct values and the missing share of one column
func examineColumn(column string, values []dataset.Value) ColumnStats {
	stats := ColumnStats{Column: column}

	counts := make(map[string]int)
	order := make([]string, 0)
	byKey := make(map[string]dataset.Value)

	for _, v := range values {
		key := v.Key()
		if _, seen := counts[key]; !seen {
			order = append(order, key)
			byKey[key] = v
		}
		counts[key]++
		if v.IsNull() {
			stats.MissingCount++
		}
	}

	stats.ValueCounts = make([]ValueCount, 0, len(order))
	for _, key := range order {
		stats.ValueCounts = append(stats.ValueCounts, ValueCount{Value: byKey[key], Count: counts[key]})
	}
	// Most frequent first; first appearance breaks ties
	sort.SliceStable(stats.ValueCounts, func(i, j int) bool {
		return stats.ValueCounts[i].Count > stats.ValueCounts[j].Count
	})

	// Guard the empty table: 0 rows means 0% missing
	if len(values) > 0 {
		stats.MissingPct = float64(stats.MissingCount) / float64(len(values)) * 100
	}

	return stats
}

// countDuplicates counts rows that are exact duplicates of an earlier row
func countDuplicates(t *dataset.Table) int {
	seen := make(map[string]bool, t.RowCount())
	duplicates := 0
	for _, row := range t.Rows {
		fp := dataset.Fingerprint(row)
		if seen[fp] {
			duplicates++
			continue
		}
		seen[fp] = true
	}
	return duplicates
}

// ConsistencyResult reports the cross-table identifier invariants. They are
// reported, never enforced.
type ConsistencyResult struct {
	// SetsEqual is true only when every table holds exactly the same set of
	// identifiers.
	SetsEqual bool
	// Unique maps table name to whether its identifiers are unique within it
	Unique map[string]bool
}

// CheckIdentifiers verifies that the identifier sets of all tables are equal
// and that identifiers are unique within each table. A table without the
// identifier column fails both checks.
func CheckIdentifiers(column string, tables ...*dataset.Table) ConsistencyResult {
	result := ConsistencyResult{
		SetsEqual: true,
		Unique:    make(map[string]bool, len(tables)),
	}

	sets := make([]map[string]bool, len(tables))
	for i, t := range tables {
		values, ok := t.ColumnValues(column)
		if !ok {
			result.SetsEqual = false
			result.Unique[t.Name] = false
			continue
		}
		set := make(map[string]bool, len(values))
		for _, v := range values {
			set[v.Key()] = true
		}
		sets[i] = set
		result.Unique[t.Name] = len(set) == len(values)
	}

	for i := 1; i < len(sets); i++ {
		if sets[i] == nil || sets[0] == nil {
			result.SetsEqual = false
			break
		}
		if !sameSet(sets[0], sets[i]) {
			result.SetsEqual = false
			break
		}
	}

	return result
}

// sameSet reports whether two key sets are equal
func sameSet(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}
