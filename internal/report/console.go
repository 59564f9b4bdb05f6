// Package report renders pipeline results: console text, CSV and Excel
// exports of the tables, and HTML bar charts.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"mulewatch/internal/analysis"
	"mulewatch/internal/audit"
)

// maxValueCounts caps the per-column frequency listing on the console
const maxValueCounts = 10

// Console renders human-readable pipeline output to a writer
type Console struct {
	w io.Writer
}

// NewConsole creates a console renderer
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// WriteAudit prints one table's audit: column listing, record and duplicate
// counts, and per-column missing percentages with the most frequent values.
func (c *Console) WriteAudit(r *audit.Report) {
	fmt.Fprintf(c.w, "\n%s columns:\n", r.Table)
	for _, stats := range r.Columns {
		fmt.Fprintf(c.w, "  %s\n", stats.Column)
	}
	fmt.Fprintf(c.w, "%s records: %d\n", r.Table, r.RowCount)
	fmt.Fprintf(c.w, "%s duplicate rows: %d\n", r.Table, r.Duplicates)

	for _, stats := range r.Columns {
		fmt.Fprintf(c.w, "\n  %s (%.1f%% blank)\n", stats.Column, stats.MissingPct)
		for i, vc := range stats.ValueCounts {
			if i >= maxValueCounts {
				fmt.Fprintf(c.w, "    ... %d more distinct values\n", len(stats.ValueCounts)-maxValueCounts)
				break
			}
			label := vc.Value.Display()
			if vc.Value.IsNull() {
				label = "<null>"
			}
			fmt.Fprintf(c.w, "    %-24s %d\n", label, vc.Count)
		}
	}
}

// WriteConsistency prints the identifier invariant checks
func (c *Console) WriteConsistency(r audit.ConsistencyResult) {
	fmt.Fprintf(c.w, "\nIdentifier consistency: %t\n", r.SetsEqual)

	tables := make([]string, 0, len(r.Unique))
	for table := range r.Unique {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	for _, table := range tables {
		fmt.Fprintf(c.w, "No duplicate identifiers in %s: %t\n", table, r.Unique[table])
	}
}

// WriteGroupResult prints one grouped-sum table
func (c *Console) WriteGroupResult(title string, r *analysis.GroupResult) {
	fmt.Fprintf(c.w, "\n%s:\n", title)
	if len(r.Rows) == 0 {
		fmt.Fprintln(c.w, "  (no segments)")
		return
	}
	for _, row := range r.Rows {
		fmt.Fprintf(c.w, "  %-32s %s\n", strings.Join(row.Keys, " / "), row.Sum.String())
	}
}
