package core

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

var (
	// ErrUnsupportedType is returned by factories for unknown reader or writer types.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrSheetNotFound is returned when the requested sheet does not exist.
	ErrSheetNotFound = errors.New("sheet not found")
)

// KeyColumnNotFoundError reports key columns missing from a table.
type KeyColumnNotFoundError struct {
	Source  string
	Columns []string
}

func (e *KeyColumnNotFoundError) Error() string {
	return fmt.Sprintf("key column not found in %s: %s", e.Source, quoteList(e.Columns))
}

// DuplicateKeyError reports a key shared by several rows of one table.
type DuplicateKeyError struct {
	Source string
	Key    RowKey
	// Rows are the 0-based data row positions sharing the key.
	Rows []int
}

func (e *DuplicateKeyError) Error() string {
	rows := make([]string, len(e.Rows))
	for i, r := range e.Rows {
		rows[i] = strconv.Itoa(r)
	}
	return fmt.Sprintf("duplicate key (%s) in %s at rows %s", e.Key.Display(), e.Source, strings.Join(rows, ", "))
}

// ComparisonError reports that two tables could not be compared cell by cell.
// The differ recovers from it by reporting no modified cells.
type ComparisonError struct {
	Reason string
}

func (e *ComparisonError) Error() string {
	return "comparison skipped: " + e.Reason
}

// BaseName returns the file name of a source path, for messages.
func BaseName(path string) string {
	if path == "" {
		return path
	}
	return filepath.Base(path)
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = strconv.Quote(item)
	}
	return strings.Join(quoted, ", ")
}
