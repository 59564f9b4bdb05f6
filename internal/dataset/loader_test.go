package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	input := strings.Join([]string{
		"Identifier,MuleAccount",
		"A-1001,1",
		"A-1002,",
		"A-1003,0",
	}, "\n")

	table, err := ReadCSV(strings.NewReader(input), "fraud")
	require.NoError(t, err)

	assert.Equal(t, []string{"Identifier", "MuleAccount"}, table.Columns)
	assert.Equal(t, 3, table.RowCount())

	v, ok := table.Cell(0, "MuleAccount")
	require.True(t, ok)
	assert.Equal(t, KindNumber, v.Kind())

	v, ok = table.Cell(1, "MuleAccount")
	require.True(t, ok)
	assert.True(t, v.IsNull())
}

func TestReadCSV_BOMHeader(t *testing.T) {
	input := "\xEF\xBB\xBFIdentifier,Gender\nA-1,Female\n"

	table, err := ReadCSV(strings.NewReader(input), "holder")
	require.NoError(t, err)
	assert.Equal(t, []string{"Identifier", "Gender"}, table.Columns)
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty file", ""},
		{"ragged row", "A,B\n1,2,3\n"},
		{"short row", "A,B\n1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.input), "bad")
			assert.Error(t, err)
		})
	}
}

func TestLoadCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "account_data.csv")
	content := "Identifier,AccountLength\nA-1,24\nA-2,\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	table, err := LoadCSV(path, "account")
	require.NoError(t, err)
	assert.Equal(t, "account", table.Name)
	assert.Equal(t, 2, table.RowCount())
}

func TestLoadCSV_MissingFile(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "absent.csv"), "account")
	assert.Error(t, err)
}
