package report

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/TFMV/sheetdiff/pkg/core"
	"github.com/TFMV/sheetdiff/pkg/writers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func keyedResult() *core.DiffResult {
	return &core.DiffResult{
		KeyColumns: []string{"id"},
		Columns:    []string{"name", "age"},
		OnlyInA: &core.KeyedTable{
			Keys: []core.RowKey{{"1"}},
			Rows: [][]core.Cell{{core.TextCell("Bob"), core.TextCell("30")}},
		},
		OnlyInB: &core.KeyedTable{
			Keys: []core.RowKey{{"3"}},
			Rows: [][]core.Cell{{core.TextCell("Cid"), core.AbsentCell()}},
		},
		Modified: []core.ModifiedCell{
			{Key: core.RowKey{"2"}, Column: "age", A: core.TextCell("25"), B: core.TextCell("26")},
		},
		Summary: core.DiffSummary{Deleted: 1, Added: 1, Modified: 1, ModifiedCells: 1, Columns: map[string]int64{"age": 1}},
	}
}

func TestConsoleSummary(t *testing.T) {
	var out bytes.Buffer
	console := NewConsole(&out, false)

	console.Columns(&core.Table{Source: "/data/a.xlsx", Columns: []string{"id", "name", "age"}})
	result := keyedResult()
	result.Warnings = []string{"comparison skipped: no common rows"}
	console.Summary("/data/a.xlsx", "/data/b.xlsx", result)

	text := out.String()
	assert.Contains(t, text, "Columns in a.xlsx: id, name, age\n")
	assert.Contains(t, text, "Rows only in a.xlsx: 1\n")
	assert.Contains(t, text, "Rows only in b.xlsx: 1\n")
	assert.Contains(t, text, "Rows with modified data: 1\n")
	assert.Contains(t, text, "[warn] comparison skipped: no common rows")
	assert.NotContains(t, text, "Modified cells by column")
}

func TestConsoleVerbose(t *testing.T) {
	var out bytes.Buffer
	NewConsole(&out, true).Summary("a.xlsx", "b.xlsx", keyedResult())

	assert.Contains(t, out.String(), "Modified cells by column:\n  age: 1\n")
}

func TestSections(t *testing.T) {
	sections := Sections(keyedResult())
	require.Len(t, sections, 3)

	assert.Equal(t, DeletedRows, sections[0].Name)
	assert.Equal(t, []string{"id", "name", "age"}, sections[0].Columns)
	assert.Equal(t, [][]string{{"1", "Bob", "30"}}, sections[0].Rows)

	assert.Equal(t, AddedRows, sections[1].Name)
	assert.Equal(t, [][]string{{"3", "Cid", ""}}, sections[1].Rows)

	assert.Equal(t, ModifiedCells, sections[2].Name)
	assert.Equal(t, []string{"id", "column", "value_a", "value_b"}, sections[2].Columns)
	assert.Equal(t, [][]string{{"2", "age", "25", "26"}}, sections[2].Rows)
}

func TestSectionsPositional(t *testing.T) {
	result := &core.DiffResult{
		Columns: []string{"name"},
		OnlyInA: &core.KeyedTable{Keys: []core.RowKey{{"4"}}, Rows: [][]core.Cell{{core.TextCell("Eve")}}},
		OnlyInB: &core.KeyedTable{},
	}
	sections := Sections(result)

	assert.Equal(t, []string{"row", "name"}, sections[0].Columns)
	assert.Equal(t, [][]string{{"4", "Eve"}}, sections[0].Rows)
	assert.Empty(t, sections[1].Rows)
	assert.Equal(t, []string{"row", "column", "value_a", "value_b"}, sections[2].Columns)
	assert.NotNil(t, sections[2].Rows)
}

func TestExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diff.xlsx")
	result := keyedResult()
	result.Modified = nil

	err := Export(context.Background(), writers.DefaultFactory, core.WriterConfig{Path: path}, result)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{DeletedRows, AddedRows, ModifiedCells}, f.GetSheetList())

	rows, err := f.GetRows(ModifiedCells)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"id", "column", "value_a", "value_b"}}, rows)

	err = Export(context.Background(), writers.DefaultFactory, core.WriterConfig{Path: strings.TrimSuffix(path, ".xlsx") + ".txt"}, result)
	assert.ErrorIs(t, err, core.ErrUnsupportedType)
}
