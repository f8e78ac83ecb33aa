// Package diff computes row and cell differences between two aligned tables.
package diff

import (
	"context"
	"errors"
	"fmt"

	"github.com/TFMV/sheetdiff/pkg/core"
	"go.uber.org/zap"
)

// checkEvery is how many rows are compared between context checks.
const checkEvery = 1024

// Differ partitions rows into deleted, added and common, and compares
// common rows cell by cell.
type Differ struct {
	options core.DiffOptions
	log     *zap.Logger
}

// NewDiffer creates a differ. A nil logger disables logging.
func NewDiffer(options core.DiffOptions, log *zap.Logger) *Differ {
	if log == nil {
		log = zap.NewNop()
	}
	return &Differ{options: options, log: log}
}

// Diff computes the difference between two aligned tables. Both tables must
// carry the same key columns. A failure to compare cells is not an error:
// the result then has no modified cells and carries a warning.
func (d *Differ) Diff(ctx context.Context, a, b *core.KeyedTable) (*core.DiffResult, error) {
	if !equalStrings(a.KeyColumns, b.KeyColumns) {
		return nil, fmt.Errorf("key columns differ: %v in %s, %v in %s",
			a.KeyColumns, a.Source, b.KeyColumns, b.Source)
	}

	// Create maps to track row indices by key
	indexA := indexKeys(a)
	indexB := indexKeys(b)

	var deleted, added []int
	var common [][2]int

	// Find deleted rows and common keys. A is sorted, so common keys come
	// out in ascending order.
	for i, key := range a.Keys {
		if j, exists := indexB[key.String()]; exists {
			common = append(common, [2]int{i, j})
		} else {
			deleted = append(deleted, i)
		}
	}

	// Find added rows (in B but not in A)
	for j, key := range b.Keys {
		if _, exists := indexA[key.String()]; !exists {
			added = append(added, j)
		}
	}

	result := &core.DiffResult{
		KeyColumns: a.KeyColumns,
		Columns:    a.Columns,
		OnlyInA:    subset(a, deleted),
		OnlyInB:    subset(b, added),
	}

	modified, err := d.compareCommon(ctx, a, b, common)
	var cmpErr *core.ComparisonError
	switch {
	case errors.As(err, &cmpErr):
		d.log.Warn("cell comparison skipped", zap.String("reason", cmpErr.Reason))
		result.Warnings = append(result.Warnings, cmpErr.Error())
		modified = nil
	case err != nil:
		return nil, err
	}
	result.Modified = modified
	result.Summary = summarize(a, b, result)

	d.log.Info("diff computed",
		zap.Int64("deleted", result.Summary.Deleted),
		zap.Int64("added", result.Summary.Added),
		zap.Int64("modified_rows", result.Summary.Modified),
		zap.Int64("modified_cells", result.Summary.ModifiedCells),
	)
	return result, nil
}

// compareCommon compares every pair of rows sharing a key. It refuses to run
// on an empty intersection or on tables with different column sets.
func (d *Differ) compareCommon(ctx context.Context, a, b *core.KeyedTable, common [][2]int) ([]core.ModifiedCell, error) {
	if len(common) == 0 {
		return nil, &core.ComparisonError{Reason: "no common rows"}
	}
	if !equalStrings(a.Columns, b.Columns) {
		return nil, &core.ComparisonError{Reason: "tables are not aligned to the same columns"}
	}

	var modified []core.ModifiedCell
	for n, pair := range common {
		if n%checkEvery == 0 {
			// Check if context is canceled
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}

		rowA, rowB := a.Rows[pair[0]], b.Rows[pair[1]]
		for c, col := range a.Columns {
			cellA, cellB := cellOf(rowA, c), cellOf(rowB, c)
			if cellA.Equal(cellB, d.options.StrictEmpty) {
				continue
			}
			modified = append(modified, core.ModifiedCell{
				Key:    a.Keys[pair[0]],
				Column: col,
				A:      cellA,
				B:      cellB,
			})
		}
	}
	return modified, nil
}

// summarize counts the result. Modified counts distinct keys, not cells.
func summarize(a, b *core.KeyedTable, result *core.DiffResult) core.DiffSummary {
	summary := core.DiffSummary{
		TotalSource:   int64(a.Len()),
		TotalTarget:   int64(b.Len()),
		Added:         int64(result.OnlyInB.Len()),
		Deleted:       int64(result.OnlyInA.Len()),
		ModifiedCells: int64(len(result.Modified)),
		Columns:       make(map[string]int64),
	}

	rows := make(map[string]bool)
	for _, cell := range result.Modified {
		rows[cell.Key.String()] = true
		summary.Columns[cell.Column]++
	}
	summary.Modified = int64(len(rows))
	return summary
}

func indexKeys(t *core.KeyedTable) map[string]int {
	index := make(map[string]int, len(t.Keys))
	for i, key := range t.Keys {
		index[key.String()] = i
	}
	return index
}

// subset returns the rows of t at the given positions.
func subset(t *core.KeyedTable, positions []int) *core.KeyedTable {
	out := &core.KeyedTable{
		Source:     t.Source,
		KeyColumns: t.KeyColumns,
		Columns:    t.Columns,
		Keys:       make([]core.RowKey, 0, len(positions)),
		Rows:       make([][]core.Cell, 0, len(positions)),
	}
	for _, pos := range positions {
		out.Keys = append(out.Keys, t.Keys[pos])
		out.Rows = append(out.Rows, t.Rows[pos])
	}
	return out
}

func cellOf(row []core.Cell, idx int) core.Cell {
	if idx < len(row) {
		return row[idx]
	}
	return core.AbsentCell()
}

func equalStrings(a, b []string) bool {
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
