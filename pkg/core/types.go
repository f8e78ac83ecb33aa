// Package core provides the core types and interfaces for the sheetdiff comparison tool.
package core

import (
	"context"
	"math"
	"strconv"
	"strings"
)

// keySeparator joins key components into a map key. It is a control
// character so it cannot collide with text read from a spreadsheet cell.
const keySeparator = "\x1f"

// Table is a raw sheet as produced by a reader.
type Table struct {
	// Source is the path the table was read from.
	Source string

	// Sheet is the sheet name, empty for single-table formats.
	Sheet string

	// Columns holds the unique column names in sheet order.
	Columns []string

	// Rows holds one value per column for every row. Values are nil,
	// string, int64, float64, bool or time.Time.
	Rows [][]any
}

// ColumnIndex returns the position of a column, or -1 if it does not exist.
func (t *Table) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int {
	return len(t.Rows)
}

// Cell is the comparable textual form of a value.
type Cell struct {
	// Text is the canonical string form. Absent cells have an empty Text.
	Text string

	// Absent marks a cell that had no value at all, as opposed to a
	// present empty string.
	Absent bool
}

// AbsentCell returns the empty sentinel used for missing values and for
// columns a table does not have.
func AbsentCell() Cell {
	return Cell{Absent: true}
}

// TextCell returns a present cell holding s.
func TextCell(s string) Cell {
	return Cell{Text: s}
}

// Equal reports whether two cells hold the same value. Unless strict is set
// an absent cell equals a present empty string.
func (c Cell) Equal(other Cell, strict bool) bool {
	if strict && c.Absent != other.Absent {
		return false
	}
	return c.Text == other.Text
}

// RowKey identifies a row. It holds one text per key column, or the row
// position when the table has no key columns.
type RowKey []string

// PositionKey returns the key of a row identified by its position.
func PositionKey(pos int) RowKey {
	return RowKey{strconv.Itoa(pos)}
}

// String returns the key in a form usable as a map key.
func (k RowKey) String() string {
	return strings.Join(k, keySeparator)
}

// Display returns the key for humans.
func (k RowKey) Display() string {
	return strings.Join(k, ", ")
}

// Compare orders keys component by component. Within a component every
// number sorts before every text; numbers compare by value with ties such as
// "1" and "1.0" broken by their text, and texts compare as strings. NaN is
// text.
func (k RowKey) Compare(other RowKey) int {
	for i := 0; i < len(k) && i < len(other); i++ {
		if c := compareComponent(k[i], other[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(k) < len(other):
		return -1
	case len(k) > len(other):
		return 1
	}
	return 0
}

func compareComponent(a, b string) int {
	if a == b {
		return 0
	}
	fa, numA := parseNumber(a)
	fb, numB := parseNumber(b)
	switch {
	case numA && !numB:
		return -1
	case !numA && numB:
		return 1
	case numA && numB:
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
	}
	return strings.Compare(a, b)
}

// parseNumber reports whether s is a number, NaN excluded.
func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// KeyedTable is a normalized table: every row carries its RowKey, every cell
// is text, and rows are ordered by key.
type KeyedTable struct {
	// Source is the path the table was read from.
	Source string

	// KeyColumns are the columns forming the row key. Empty means rows are
	// identified by position.
	KeyColumns []string

	// Columns are the value columns, key columns excluded.
	Columns []string

	// Keys holds the key of each row.
	Keys []RowKey

	// Rows holds one cell per value column for every row.
	Rows [][]Cell
}

// Len returns the number of rows.
func (t *KeyedTable) Len() int {
	return len(t.Rows)
}

// Positional reports whether rows are identified by position.
func (t *KeyedTable) Positional() bool {
	return len(t.KeyColumns) == 0
}

// ModifiedCell is a single cell that differs between two rows sharing a key.
type ModifiedCell struct {
	Key    RowKey
	Column string
	A      Cell
	B      Cell
}

// DiffResult represents the difference between two tables.
type DiffResult struct {
	// KeyColumns are the key columns shared by both sides.
	KeyColumns []string

	// Columns is the union of both sides' value columns.
	Columns []string

	// OnlyInA contains rows whose key exists in the baseline only.
	OnlyInA *KeyedTable

	// OnlyInB contains rows whose key exists in the newer table only.
	OnlyInB *KeyedTable

	// Modified contains every differing cell of rows present on both sides,
	// ordered by key and then by column.
	Modified []ModifiedCell

	// Warnings holds recoverable problems met during the comparison.
	Warnings []string

	// Summary provides a summary of the differences.
	Summary DiffSummary
}

// DiffSummary provides a summary of the differences between two tables.
type DiffSummary struct {
	// TotalSource is the number of rows in the baseline.
	TotalSource int64 `json:"total_source"`

	// TotalTarget is the number of rows in the newer table.
	TotalTarget int64 `json:"total_target"`

	// Added is the number of rows only in the newer table.
	Added int64 `json:"added"`

	// Deleted is the number of rows only in the baseline.
	Deleted int64 `json:"deleted"`

	// Modified is the number of distinct keys with at least one changed cell.
	Modified int64 `json:"modified"`

	// ModifiedCells is the number of changed cells.
	ModifiedCells int64 `json:"modified_cells"`

	// Columns maps column names to the number of changed cells in that column.
	Columns map[string]int64 `json:"columns"`
}

// DiffOptions provides options for normalizing and diffing.
type DiffOptions struct {
	// KeyColumns specifies the columns to use as keys for matching rows.
	KeyColumns []string

	// IgnoreColumns specifies columns left out of the comparison.
	IgnoreColumns []string

	// StrictEmpty makes absent cells differ from present empty strings.
	StrictEmpty bool

	// Trim removes surrounding whitespace from every cell before comparing.
	Trim bool
}

// Section is one named result table ready for output.
type Section struct {
	Name    string     `json:"name"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// TableReader defines an interface for loading a table from a source.
type TableReader interface {
	// Read loads the whole table.
	Read(ctx context.Context) (*Table, error)

	// Close closes the reader and releases resources.
	Close() error
}

// ResultWriter defines an interface for writing result sections to a destination.
type ResultWriter interface {
	// WriteSection writes one named section.
	WriteSection(ctx context.Context, section Section) error

	// Close flushes pending data and closes the destination.
	Close() error
}

// ReaderConfig provides configuration for creating a reader.
type ReaderConfig struct {
	// Type is the type of the reader.
	Type string

	// Path is the path to the file.
	Path string

	// Sheet is a sheet name or 0-based index. Empty selects the first sheet.
	Sheet string
}

// WriterConfig provides configuration for creating a writer.
type WriterConfig struct {
	// Type is the type of the writer.
	Type string

	// Path is the path to the file.
	Path string
}
