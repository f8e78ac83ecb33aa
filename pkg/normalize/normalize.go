// Package normalize turns raw tables into keyed, text-only tables ordered by row key.
package normalize

import (
	"fmt"
	"sort"
	"strings"

	"github.com/TFMV/sheetdiff/pkg/core"
)

// Normalize validates the key columns of t, coerces every cell to text and
// orders the rows by key. Without key columns rows keep their position as
// identity and their original order.
//
// Every key must be unique within the table; a repeated key fails with a
// *core.DuplicateKeyError.
func Normalize(t *core.Table, options core.DiffOptions) (*core.KeyedTable, error) {
	keyColumns := dedupe(options.KeyColumns)

	// Validate the key before anything else so every missing column is named.
	var missing []string
	for _, key := range keyColumns {
		if t.ColumnIndex(key) < 0 {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, &core.KeyColumnNotFoundError{Source: t.Source, Columns: missing}
	}

	ignored := make(map[string]bool, len(options.IgnoreColumns))
	for _, col := range options.IgnoreColumns {
		ignored[col] = true
	}

	keyIdx := make([]int, len(keyColumns))
	isKey := make(map[string]bool, len(keyColumns))
	for i, key := range keyColumns {
		if ignored[key] {
			return nil, fmt.Errorf("key column %q cannot be ignored", key)
		}
		keyIdx[i] = t.ColumnIndex(key)
		isKey[key] = true
	}

	var valueIdx []int
	var columns []string
	for i, col := range t.Columns {
		if isKey[col] || ignored[col] {
			continue
		}
		valueIdx = append(valueIdx, i)
		columns = append(columns, col)
	}

	out := &core.KeyedTable{
		Source:     t.Source,
		KeyColumns: keyColumns,
		Columns:    columns,
		Keys:       make([]core.RowKey, 0, len(t.Rows)),
		Rows:       make([][]core.Cell, 0, len(t.Rows)),
	}

	seen := make(map[string]int, len(t.Rows))
	for pos, raw := range t.Rows {
		var key core.RowKey
		if len(keyIdx) == 0 {
			key = core.PositionKey(pos)
		} else {
			key = make(core.RowKey, len(keyIdx))
			for i, idx := range keyIdx {
				key[i] = cellAt(raw, idx, options.Trim).Text
			}
			if first, dup := seen[key.String()]; dup {
				return nil, duplicateError(t, key, first, pos, keyIdx, options.Trim)
			}
			seen[key.String()] = pos
		}

		row := make([]core.Cell, len(valueIdx))
		for i, idx := range valueIdx {
			row[i] = cellAt(raw, idx, options.Trim)
		}
		out.Keys = append(out.Keys, key)
		out.Rows = append(out.Rows, row)
	}

	if len(keyIdx) > 0 {
		sortByKey(out)
	}
	return out, nil
}

// cellAt returns the coerced cell at idx. Short rows read as absent.
func cellAt(row []any, idx int, trim bool) core.Cell {
	if idx >= len(row) {
		return core.AbsentCell()
	}
	cell := Coerce(row[idx])
	if trim && !cell.Absent {
		cell.Text = strings.TrimSpace(cell.Text)
	}
	return cell
}

// duplicateError collects every row position sharing key, starting at first.
func duplicateError(t *core.Table, key core.RowKey, first, pos int, keyIdx []int, trim bool) error {
	rows := []int{first, pos}
	for next := pos + 1; next < len(t.Rows); next++ {
		other := make(core.RowKey, len(keyIdx))
		for i, idx := range keyIdx {
			other[i] = cellAt(t.Rows[next], idx, trim).Text
		}
		if other.String() == key.String() {
			rows = append(rows, next)
		}
	}
	return &core.DuplicateKeyError{Source: t.Source, Key: key, Rows: rows}
}

func sortByKey(t *core.KeyedTable) {
	order := make([]int, len(t.Keys))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return t.Keys[order[i]].Compare(t.Keys[order[j]]) < 0
	})

	keys := make([]core.RowKey, len(order))
	rows := make([][]core.Cell, len(order))
	for i, idx := range order {
		keys[i] = t.Keys[idx]
		rows[i] = t.Rows[idx]
	}
	t.Keys = keys
	t.Rows = rows
}

func dedupe(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}
