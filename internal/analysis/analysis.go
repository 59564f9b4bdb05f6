// Package analysis aggregates the mule-account flag over demographic
// segments of the combined table.
package analysis

import (
	"context"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"mulewatch/internal/dataset"
	"mulewatch/internal/errors"
)

// GroupSum is one segment and its summed flag count
type GroupSum struct {
	// Keys holds the segment's value per group column, in group-column order
	Keys []string
	Sum  decimal.Decimal
}

// GroupResult is the outcome of one grouping
type GroupResult struct {
	GroupColumns []string
	SumColumn    string
	Rows         []GroupSum
}

// Analyzer runs the demographic aggregations
type Analyzer struct {
	logger *slog.Logger
}

// NewAnalyzer creates an analyzer. A nil logger falls back to the default.
func NewAnalyzer(logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{logger: logger}
}

// SumByGroup groups rows by the tuple of group-column values and sums the
// given numeric column per group. Rows where any group column is null are
// excluded from the grouping. Null cells in the sum column count as zero;
// group order follows first appearance in the table.
func (a *Analyzer) SumByGroup(ctx context.Context, t *dataset.Table, groupColumns []string, sumColumn string) (*GroupResult, error) {
	groupIdx := make([]int, len(groupColumns))
	for i, column := range groupColumns {
		idx, ok := t.ColumnIndex(column)
		if !ok {
			return nil, errors.NewAnalysisError("group column missing from table", nil).
				WithContext("table", t.Name).
				WithContext("column", column)
		}
		groupIdx[i] = idx
	}
	sumIdx, ok := t.ColumnIndex(sumColumn)
	if !ok {
		return nil, errors.NewAnalysisError("sum column missing from table", nil).
			WithContext("table", t.Name).
			WithContext("column", sumColumn)
	}

	result := &GroupResult{
		GroupColumns: append([]string(nil), groupColumns...),
		SumColumn:    sumColumn,
	}

	position := make(map[string]int)
	skipped := 0
rows:
	for _, row := range t.Rows {
		keys := make([]string, len(groupIdx))
		fingerprint := ""
		for i, gi := range groupIdx {
			if row[gi].IsNull() {
				skipped++
				continue rows
			}
			keys[i] = row[gi].Display()
			fingerprint += row[gi].Key() + "\x1f"
		}

		increment := decimal.Zero
		if d, isNum := row[sumIdx].Number(); isNum {
			increment = d
		}

		pos, seen := position[fingerprint]
		if !seen {
			position[fingerprint] = len(result.Rows)
			result.Rows = append(result.Rows, GroupSum{Keys: keys, Sum: increment})
			continue
		}
		result.Rows[pos].Sum = result.Rows[pos].Sum.Add(increment)
	}

	a.logger.InfoContext(ctx, "grouped and summed",
		slog.String("table", t.Name),
		slog.Any("group_columns", groupColumns),
		slog.String("sum_column", sumColumn),
		slog.Int("groups", len(result.Rows)),
		slog.Int("ungrouped_rows", skipped))

	return result, nil
}

// TopSegments returns a copy of the result holding the n groups with the
// highest sums, in non-increasing order. The sort is stable: equal sums keep
// their first-seen order.
func TopSegments(r *GroupResult, n int) *GroupResult {
	out := &GroupResult{
		GroupColumns: append([]string(nil), r.GroupColumns...),
		SumColumn:    r.SumColumn,
		Rows:         append([]GroupSum(nil), r.Rows...),
	}

	sort.SliceStable(out.Rows, func(i, j int) bool {
		return out.Rows[i].Sum.GreaterThan(out.Rows[j].Sum)
	})

	if n < len(out.Rows) {
		out.Rows = out.Rows[:n]
	}
	return out
}

// SortByLabels reorders a single-column grouping to follow the given label
// order, appending groups with labels outside the list in their original
// order. Used for charting bucketed segments in bucket order rather than
// value order.
func SortByLabels(r *GroupResult, labels []string) *GroupResult {
	out := &GroupResult{
		GroupColumns: append([]string(nil), r.GroupColumns...),
		SumColumn:    r.SumColumn,
	}

	rank := make(map[string]int, len(labels))
	for i, label := range labels {
		rank[label] = i
	}

	out.Rows = append([]GroupSum(nil), r.Rows...)
	sort.SliceStable(out.Rows, func(i, j int) bool {
		ri, iKnown := rank[out.Rows[i].Keys[0]]
		rj, jKnown := rank[out.Rows[j].Keys[0]]
		if iKnown && jKnown {
			return ri < rj
		}
		return iKnown && !jKnown
	})

	return out
}
