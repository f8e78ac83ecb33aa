package readers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/TFMV/sheetdiff/pkg/core"
	"github.com/xuri/excelize/v2"
)

// XLSXReader implements a reader for Excel workbooks.
type XLSXReader struct {
	path  string
	sheet string
	file  *excelize.File
}

// NewXLSXReader creates a new Excel reader.
func NewXLSXReader(config core.ReaderConfig) (core.TableReader, error) {
	if config.Path == "" {
		return nil, errors.New("path is required for xlsx reader")
	}

	f, err := excelize.OpenFile(config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}

	return &XLSXReader{
		path:  config.Path,
		sheet: config.Sheet,
		file:  f,
	}, nil
}

// Read loads the selected sheet. The first row is the header.
func (r *XLSXReader) Read(ctx context.Context) (*core.Table, error) {
	// Check if context is canceled
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	sheet, err := resolveSheet(r.file, r.sheet)
	if err != nil {
		return nil, fmt.Errorf("%w in %s", err, r.path)
	}

	display, err := r.file.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	raw, err := r.file.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	table := &core.Table{Source: r.path, Sheet: sheet}
	if len(display) == 0 {
		return table, nil
	}
	// GetRows trims trailing empty cells, so the header can be narrower
	// than the data below it.
	width := 0
	for _, cells := range display {
		width = max(width, len(cells))
	}
	header := make([]string, width)
	copy(header, display[0])
	table.Columns = uniqueHeaders(header)

	for i := 1; i < len(display); i++ {
		if i%1000 == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}
		if blankRow(display[i]) {
			continue
		}

		row := make([]any, len(table.Columns))
		for j := range row {
			if j >= len(display[i]) {
				continue
			}
			rawValue := display[i][j]
			if i < len(raw) && j < len(raw[i]) {
				rawValue = raw[i][j]
			}
			row[j], err = r.cellValue(sheet, j+1, i+1, display[i][j], rawValue)
			if err != nil {
				return nil, err
			}
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// cellValue types a cell using its native Excel type. Numbers shown with a
// number format (dates, percentages, currency) keep their displayed text.
func (r *XLSXReader) cellValue(sheet string, col, row int, display, raw string) (any, error) {
	if display == "" && raw == "" {
		return nil, nil
	}

	cellName, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return nil, err
	}
	cellType, err := r.file.GetCellType(sheet, cellName)
	if err != nil {
		return display, nil
	}

	switch cellType {
	case excelize.CellTypeBool:
		switch strings.ToUpper(raw) {
		case "1", "TRUE":
			return true, nil
		case "0", "FALSE":
			return false, nil
		}
		return display, nil
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return display, nil
		}
		if shown, err := strconv.ParseFloat(display, 64); err == nil && shown == f {
			return f, nil
		}
		if display == raw {
			return f, nil
		}
		return display, nil
	default:
		return display, nil
	}
}

// Close closes the reader and releases resources.
func (r *XLSXReader) Close() error {
	if r.file != nil {
		err := r.file.Close()
		r.file = nil
		return err
	}
	return nil
}

// resolveSheet maps a sheet name or 0-based index to a sheet name. A name
// match wins over an index so a sheet literally called "1" stays reachable.
func resolveSheet(f *excelize.File, sheet string) (string, error) {
	names := f.GetSheetList()
	if len(names) == 0 {
		return "", fmt.Errorf("%w: workbook has no sheets", core.ErrSheetNotFound)
	}
	if sheet == "" {
		return names[0], nil
	}
	for _, name := range names {
		if name == sheet {
			return name, nil
		}
	}
	if idx, err := strconv.Atoi(sheet); err == nil && idx >= 0 && idx < len(names) {
		return names[idx], nil
	}
	return "", fmt.Errorf("%w: %q", core.ErrSheetNotFound, sheet)
}

func blankRow(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
