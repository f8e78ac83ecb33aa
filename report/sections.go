package report

import (
	"context"
	"fmt"

	"github.com/TFMV/sheetdiff/pkg/core"
	"github.com/TFMV/sheetdiff/pkg/writers"
)

// Section names, in output order.
const (
	DeletedRows   = "Deleted_rows"
	AddedRows     = "Added_rows"
	ModifiedCells = "Modified_cells"
)

// rowColumn heads the position column of results without key columns.
const rowColumn = "row"

// Sections renders a result as its three output sections.
func Sections(result *core.DiffResult) []core.Section {
	keys := keyHeader(result.KeyColumns)

	modified := core.Section{
		Name:    ModifiedCells,
		Columns: append(append([]string{}, keys...), "column", "value_a", "value_b"),
		Rows:    make([][]string, 0, len(result.Modified)),
	}
	for _, cell := range result.Modified {
		row := append(append([]string{}, cell.Key...), cell.Column, cell.A.Text, cell.B.Text)
		modified.Rows = append(modified.Rows, row)
	}

	return []core.Section{
		rowSection(DeletedRows, keys, result.Columns, result.OnlyInA),
		rowSection(AddedRows, keys, result.Columns, result.OnlyInB),
		modified,
	}
}

func keyHeader(keyColumns []string) []string {
	if len(keyColumns) == 0 {
		return []string{rowColumn}
	}
	return keyColumns
}

func rowSection(name string, keys, columns []string, t *core.KeyedTable) core.Section {
	section := core.Section{
		Name:    name,
		Columns: append(append([]string{}, keys...), columns...),
	}
	if t == nil {
		section.Rows = [][]string{}
		return section
	}
	section.Rows = make([][]string, 0, t.Len())
	for i, cells := range t.Rows {
		row := make([]string, 0, len(section.Columns))
		row = append(row, t.Keys[i]...)
		for _, cell := range cells {
			row = append(row, cell.Text)
		}
		section.Rows = append(section.Rows, row)
	}
	return section
}

// Export writes the sections of result through a writer created by factory.
func Export(ctx context.Context, factory *writers.Factory, config core.WriterConfig, result *core.DiffResult) error {
	writer, err := factory.Create(config)
	if err != nil {
		return fmt.Errorf("failed to create writer: %w", err)
	}

	for _, section := range Sections(result) {
		if err := writer.WriteSection(ctx, section); err != nil {
			writer.Close()
			return fmt.Errorf("failed to write %s: %w", section.Name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close writer: %w", err)
	}
	return nil
}
