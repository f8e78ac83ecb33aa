package align

import (
	"testing"

	"github.com/TFMV/sheetdiff/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnSet(t *testing.T) {
	set := NewColumnSet("b", "a", "b")
	set.Add("c", "a")

	assert.Equal(t, []string{"b", "a", "c"}, set.Names())
	assert.Equal(t, 3, set.Len())
	assert.Equal(t, 1, set.Index("a"))
	assert.Equal(t, -1, set.Index("z"))

	names := set.Names()
	names[0] = "changed"
	assert.Equal(t, "b", set.Names()[0], "Names returns a copy")
}

func TestAlign(t *testing.T) {
	a := &core.KeyedTable{
		Source:     "a.xlsx",
		KeyColumns: []string{"id"},
		Columns:    []string{"name", "age"},
		Keys:       []core.RowKey{{"1"}},
		Rows:       [][]core.Cell{{core.TextCell("Bob"), core.TextCell("30")}},
	}
	b := &core.KeyedTable{
		Source:     "b.xlsx",
		KeyColumns: []string{"id"},
		Columns:    []string{"email", "name"},
		Keys:       []core.RowKey{{"1"}},
		Rows:       [][]core.Cell{{core.TextCell("bob@example.com"), core.TextCell("Bob")}},
	}

	alignedA, alignedB, union, err := Align(a, b)
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "age", "email"}, union.Names())
	assert.Equal(t, union.Names(), alignedA.Columns)
	assert.Equal(t, union.Names(), alignedB.Columns)

	assert.Equal(t, []core.Cell{core.TextCell("Bob"), core.TextCell("30"), core.AbsentCell()}, alignedA.Rows[0])
	assert.Equal(t, []core.Cell{core.TextCell("Bob"), core.AbsentCell(), core.TextCell("bob@example.com")}, alignedB.Rows[0])

	// inputs are left untouched
	assert.Equal(t, []string{"email", "name"}, b.Columns)
	assert.Len(t, b.Rows[0], 2)
}

func TestAlignSameColumns(t *testing.T) {
	a := &core.KeyedTable{Columns: []string{"x"}, Rows: [][]core.Cell{{core.TextCell("1")}}}
	b := &core.KeyedTable{Columns: []string{"x"}}

	alignedA, alignedB, union, err := Align(a, b)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, union.Names())
	assert.Equal(t, a.Rows, alignedA.Rows)
	assert.Empty(t, alignedB.Rows)
}

func TestAlignKeyMismatch(t *testing.T) {
	a := &core.KeyedTable{Source: "a", KeyColumns: []string{"id"}}
	b := &core.KeyedTable{Source: "b", KeyColumns: []string{"code"}}

	_, _, _, err := Align(a, b)
	assert.Error(t, err)
}
