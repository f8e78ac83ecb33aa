package readers

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/TFMV/sheetdiff/pkg/core"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// ArrowReader implements a reader for Arrow IPC files.
type ArrowReader struct {
	path   string
	file   *os.File
	reader *ipc.FileReader
}

// NewArrowReader creates a new Arrow IPC reader.
func NewArrowReader(config core.ReaderConfig) (core.TableReader, error) {
	if config.Path == "" {
		return nil, errors.New("path is required for Arrow reader")
	}

	file, err := os.Open(config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Arrow file: %w", err)
	}

	reader, err := ipc.NewFileReader(file, ipc.WithAllocator(memory.NewGoAllocator()))
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create Arrow file reader: %w", err)
	}

	return &ArrowReader{
		path:   config.Path,
		file:   file,
		reader: reader,
	}, nil
}

// Read loads every record batch of the file.
func (r *ArrowReader) Read(ctx context.Context) (*core.Table, error) {
	table := &core.Table{
		Source:  r.path,
		Columns: schemaHeaders(r.reader.Schema()),
	}

	for i := 0; i < r.reader.NumRecords(); i++ {
		// Check for context cancellation
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		record, err := r.reader.Record(i)
		if err != nil {
			return nil, fmt.Errorf("failed to read record %d: %w", i, err)
		}
		appendRecord(table, record)
	}

	return table, nil
}

// Close closes the reader and releases resources.
func (r *ArrowReader) Close() error {
	var err error
	if r.reader != nil {
		err = r.reader.Close()
		r.reader = nil
	}
	if r.file != nil {
		if closeErr := r.file.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		r.file = nil
	}
	return err
}
