package readers

import (
	"context"
	"errors"
	"fmt"

	"github.com/TFMV/sheetdiff/pkg/core"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
)

// defaultBatchSize is the number of rows converted per Arrow record.
const defaultBatchSize = 10000

// ParquetReader implements a reader for Parquet files.
type ParquetReader struct {
	path        string
	fileReader  *file.Reader
	arrowReader *pqarrow.FileReader
}

// NewParquetReader creates a new Parquet reader.
func NewParquetReader(config core.ReaderConfig) (core.TableReader, error) {
	if config.Path == "" {
		return nil, errors.New("path is required for Parquet reader")
	}

	parquetReader, err := file.OpenParquetFile(config.Path, false)
	if err != nil {
		return nil, fmt.Errorf("failed to open Parquet file: %w", err)
	}

	// Create Arrow reader from the Parquet file
	arrowProps := pqarrow.ArrowReadProperties{
		BatchSize: defaultBatchSize,
	}
	arrowReader, err := pqarrow.NewFileReader(parquetReader, arrowProps, memory.NewGoAllocator())
	if err != nil {
		parquetReader.Close()
		return nil, fmt.Errorf("failed to create Arrow reader: %w", err)
	}

	return &ParquetReader{
		path:        config.Path,
		fileReader:  parquetReader,
		arrowReader: arrowReader,
	}, nil
}

// Read loads the whole file.
func (r *ParquetReader) Read(ctx context.Context) (*core.Table, error) {
	tbl, err := r.arrowReader.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read Parquet table: %w", err)
	}
	defer tbl.Release()

	table := &core.Table{
		Source:  r.path,
		Columns: schemaHeaders(tbl.Schema()),
	}

	tableReader := array.NewTableReader(tbl, defaultBatchSize)
	defer tableReader.Release()

	for tableReader.Next() {
		// Check for context cancellation
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		appendRecord(table, tableReader.Record())
	}
	if err := tableReader.Err(); err != nil {
		return nil, fmt.Errorf("failed to read Parquet records: %w", err)
	}

	return table, nil
}

// Close closes the reader and releases resources.
func (r *ParquetReader) Close() error {
	if r.fileReader != nil {
		err := r.fileReader.Close()
		r.fileReader = nil
		return err
	}
	return nil
}
