// Package align reindexes two keyed tables onto the union of their columns.
package align

import (
	"fmt"

	"github.com/TFMV/sheetdiff/pkg/core"
)

// Union returns A's value columns in order followed by B's columns that A
// does not have, in B's order.
func Union(a, b *core.KeyedTable) *ColumnSet {
	union := NewColumnSet(a.Columns...)
	union.Add(b.Columns...)
	return union
}

// Align reindexes both tables onto the union of their value columns. A
// column one side lacks is filled with absent cells on that side. Both
// tables must share the same key columns.
func Align(a, b *core.KeyedTable) (*core.KeyedTable, *core.KeyedTable, *ColumnSet, error) {
	if !sameColumns(a.KeyColumns, b.KeyColumns) {
		return nil, nil, nil, fmt.Errorf("key columns differ: %v in %s, %v in %s",
			a.KeyColumns, a.Source, b.KeyColumns, b.Source)
	}

	union := Union(a, b)
	return Reindex(a, union), Reindex(b, union), union, nil
}

// Reindex returns a copy of t whose value columns are exactly the columns
// of union.
func Reindex(t *core.KeyedTable, union *ColumnSet) *core.KeyedTable {
	columns := union.Names()
	if sameColumns(t.Columns, columns) {
		out := *t
		out.Columns = columns
		return &out
	}

	// source position for every union column, -1 when t lacks it
	src := NewColumnSet(t.Columns...)
	sourceIdx := make([]int, union.Len())
	for i, col := range columns {
		sourceIdx[i] = src.Index(col)
	}

	out := &core.KeyedTable{
		Source:     t.Source,
		KeyColumns: t.KeyColumns,
		Columns:    columns,
		Keys:       t.Keys,
		Rows:       make([][]core.Cell, len(t.Rows)),
	}
	for r, row := range t.Rows {
		aligned := make([]core.Cell, len(columns))
		for i, idx := range sourceIdx {
			if idx < 0 || idx >= len(row) {
				aligned[i] = core.AbsentCell()
				continue
			}
			aligned[i] = row[idx]
		}
		out.Rows[r] = aligned
	}
	return out
}

func sameColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
