package readers

import (
	"context"
	stdcsv "encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/TFMV/sheetdiff/pkg/core"
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/csv"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// CSVReader implements a reader for CSV files. Column types are inferred
// through Arrow; a file whose values contradict the inferred types is read
// again as plain text.
type CSVReader struct {
	path  string
	file  *os.File
	alloc memory.Allocator
}

// NewCSVReader creates a new CSV reader.
func NewCSVReader(config core.ReaderConfig) (core.TableReader, error) {
	if config.Path == "" {
		return nil, errors.New("path is required for CSV reader")
	}

	// Open the file
	file, err := os.Open(config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}

	return &CSVReader{
		path:  config.Path,
		file:  file,
		alloc: memory.NewGoAllocator(),
	}, nil
}

// Read loads the whole file.
func (r *CSVReader) Read(ctx context.Context) (*core.Table, error) {
	// Check if context is canceled
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	reader := stdcsv.NewReader(r.file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	if _, err := r.file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind CSV file: %w", err)
	}
	table, err := r.readInferred(textColumns(records))
	if err == nil && len(table.Columns) > 0 {
		return table, nil
	}
	return r.readText(records), nil
}

// textColumns returns the columns holding a value with a leading zero, such
// as "00501". Inference would read them as integers and lose the zeros.
func textColumns(records [][]string) map[string]arrow.DataType {
	if len(records) == 0 {
		return nil
	}
	types := make(map[string]arrow.DataType)
	for _, record := range records[1:] {
		for j, value := range record {
			if j < len(records[0]) && leadingZero(value) {
				types[records[0][j]] = arrow.BinaryTypes.String
			}
		}
	}
	return types
}

func leadingZero(s string) bool {
	s = strings.TrimPrefix(s, "-")
	return len(s) > 1 && s[0] == '0' && s[1] >= '0' && s[1] <= '9'
}

func (r *CSVReader) readInferred(types map[string]arrow.DataType) (*core.Table, error) {
	// A negative chunk loads the whole file into one record.
	reader := csv.NewInferringReader(
		r.file,
		csv.WithChunk(-1),
		csv.WithHeader(true),
		csv.WithNullReader(true, ""), // Empty string is treated as null
		csv.WithColumnTypes(types),
		csv.WithAllocator(r.alloc),
	)
	defer reader.Release()

	table := &core.Table{Source: r.path}
	for reader.Next() {
		record := reader.Record()
		if table.Columns == nil {
			table.Columns = schemaHeaders(record.Schema())
		}
		appendRecord(table, record)
	}
	if err := reader.Err(); err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if table.Columns == nil {
		if schema := reader.Schema(); schema != nil {
			table.Columns = schemaHeaders(schema)
		}
	}
	return table, nil
}

// readText keeps every value as a string, empty values as absent.
func (r *CSVReader) readText(records [][]string) *core.Table {
	table := &core.Table{Source: r.path}
	if len(records) == 0 {
		return table
	}
	table.Columns = uniqueHeaders(records[0])
	for _, record := range records[1:] {
		row := make([]any, len(table.Columns))
		for j := range row {
			if j < len(record) && record[j] != "" {
				row[j] = record[j]
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

// Close closes the reader and releases resources.
func (r *CSVReader) Close() error {
	// Close the file
	if r.file != nil {
		err := r.file.Close()
		r.file = nil
		return err
	}

	return nil
}
