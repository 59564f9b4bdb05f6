package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mulewatch/internal/dataset"
)

func buildTable(t *testing.T, name string, columns []string, rows [][]dataset.Value) *dataset.Table {
	t.Helper()
	table := dataset.New(name, columns)
	for _, row := range rows {
		require.NoError(t, table.AppendRow(row))
	}
	return table
}

func TestExamine_MissingPercentage(t *testing.T) {
	table := buildTable(t, "holder", []string{"Identifier", "Gender"}, [][]dataset.Value{
		{dataset.String("A-1"), dataset.String("Female")},
		{dataset.String("A-2"), dataset.Null()},
		{dataset.String("A-3"), dataset.String("Male")},
		{dataset.String("A-4"), dataset.Null()},
	})

	report := NewAuditor(nil).Examine(context.Background(), table)
	require.Len(t, report.Columns, 2)

	gender := report.Columns[1]
	assert.Equal(t, "Gender", gender.Column)
	assert.Equal(t, 2, gender.MissingCount)
	assert.InDelta(t, 50.0, gender.MissingPct, 0.0001)

	// missing share plus present share always covers the whole column
	present := 0
	for _, vc := range gender.ValueCounts {
		if !vc.Value.IsNull() {
			present += vc.Count
		}
	}
	presentPct := float64(present) / float64(report.RowCount) * 100
	assert.InDelta(t, 100.0, gender.MissingPct+presentPct, 0.0001)
}

func TestExamine_EmptyTable(t *testing.T) {
	table := dataset.New("empty", []string{"Identifier"})

	report := NewAuditor(nil).Examine(context.Background(), table)

	assert.Equal(t, 0, report.RowCount)
	assert.Equal(t, 0, report.Duplicates)
	require.Len(t, report.Columns, 1)
	assert.Zero(t, report.Columns[0].MissingPct)
}

func TestExamine_ValueCountsIncludeNull(t *testing.T) {
	table := buildTable(t, "fraud", []string{"MuleAccount"}, [][]dataset.Value{
		{dataset.NumberFromInt(1)},
		{dataset.NumberFromInt(0)},
		{dataset.NumberFromInt(0)},
		{dataset.Null()},
	})

	report := NewAuditor(nil).Examine(context.Background(), table)
	counts := report.Columns[0].ValueCounts
	require.Len(t, counts, 3)

	// most frequent value first
	assert.Equal(t, 2, counts[0].Count)
	zero, ok := counts[0].Value.Number()
	require.True(t, ok)
	assert.True(t, zero.IsZero())

	total := 0
	for _, vc := range counts {
		total += vc.Count
	}
	assert.Equal(t, report.RowCount, total)
}

func TestExamine_Duplicates(t *testing.T) {
	table := buildTable(t, "holder", []string{"Identifier", "Income"}, [][]dataset.Value{
		{dataset.String("A-1"), dataset.NumberFromInt(35000)},
		{dataset.String("A-1"), dataset.NumberFromInt(35000)},
		{dataset.String("A-1"), dataset.NumberFromInt(36000)},
		{dataset.String("A-1"), dataset.NumberFromInt(35000)},
	})

	report := NewAuditor(nil).Examine(context.Background(), table)
	assert.Equal(t, 2, report.Duplicates)
}

func TestCheckIdentifiers(t *testing.T) {
	account := buildTable(t, "account", []string{"Identifier"}, [][]dataset.Value{
		{dataset.String("A-1")}, {dataset.String("A-2")}, {dataset.String("A-3")},
	})
	holder := buildTable(t, "holder", []string{"Identifier"}, [][]dataset.Value{
		{dataset.String("A-3")}, {dataset.String("A-1")}, {dataset.String("A-2")},
	})
	fraud := buildTable(t, "fraud", []string{"Identifier"}, [][]dataset.Value{
		{dataset.String("A-1")}, {dataset.String("A-2")}, {dataset.String("A-3")},
	})

	result := CheckIdentifiers("Identifier", account, holder, fraud)
	assert.True(t, result.SetsEqual)
	assert.True(t, result.Unique["account"])
	assert.True(t, result.Unique["holder"])
	assert.True(t, result.Unique["fraud"])
}

func TestCheckIdentifiers_MissingID(t *testing.T) {
	account := buildTable(t, "account", []string{"Identifier"}, [][]dataset.Value{
		{dataset.String("A-1")}, {dataset.String("A-2")},
	})
	fraud := buildTable(t, "fraud", []string{"Identifier"}, [][]dataset.Value{
		{dataset.String("A-1")},
	})

	result := CheckIdentifiers("Identifier", account, fraud)
	assert.False(t, result.SetsEqual)
}

func TestCheckIdentifiers_DuplicateWithin(t *testing.T) {
	account := buildTable(t, "account", []string{"Identifier"}, [][]dataset.Value{
		{dataset.String("A-1")}, {dataset.String("A-1")}, {dataset.String("A-2")},
	})
	holder := buildTable(t, "holder", []string{"Identifier"}, [][]dataset.Value{
		{dataset.String("A-1")}, {dataset.String("A-2")},
	})

	result := CheckIdentifiers("Identifier", account, holder)
	// duplicate collapses into the same set, so the sets still match
	assert.True(t, result.SetsEqual)
	assert.False(t, result.Unique["account"])
	assert.True(t, result.Unique["holder"])
}

func TestCheckIdentifiers_ColumnAbsent(t *testing.T) {
	account := buildTable(t, "account", []string{"Identifier"}, [][]dataset.Value{
		{dataset.String("A-1")},
	})
	broken := dataset.New("broken", []string{"Id"})

	result := CheckIdentifiers("Identifier", account, broken)
	assert.False(t, result.SetsEqual)
	assert.False(t, result.Unique["broken"])
}
