package writers

import (
	"context"
	"errors"
	"fmt"

	"github.com/TFMV/sheetdiff/pkg/core"
	"github.com/xuri/excelize/v2"
)

// defaultSheet is the sheet every new workbook starts with.
const defaultSheet = "Sheet1"

// XLSXWriter writes every section to its own tab of one workbook. The
// workbook is saved on Close.
type XLSXWriter struct {
	path     string
	file     *excelize.File
	sections int
}

// NewXLSXWriter creates a new xlsx writer.
func NewXLSXWriter(config core.WriterConfig) (core.ResultWriter, error) {
	if config.Path == "" {
		return nil, errors.New("path is required for xlsx writer")
	}
	return &XLSXWriter{
		path: config.Path,
		file: excelize.NewFile(),
	}, nil
}

// WriteSection writes a section to a new tab named after it. Empty strings
// are left as blank cells.
func (w *XLSXWriter) WriteSection(ctx context.Context, section core.Section) error {
	// Check if context is canceled
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	sheet := section.Name
	if w.sections == 0 {
		if err := w.file.SetSheetName(defaultSheet, sheet); err != nil {
			return fmt.Errorf("failed to name sheet %s: %w", sheet, err)
		}
	} else if _, err := w.file.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}
	w.sections++

	if err := w.writeRow(sheet, 1, section.Columns); err != nil {
		return err
	}
	for i, row := range section.Rows {
		if err := w.writeRow(sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func (w *XLSXWriter) writeRow(sheet string, rowIdx int, values []string) error {
	for c, v := range values {
		if v == "" {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(c+1, rowIdx)
		if err != nil {
			return fmt.Errorf("failed to address cell: %w", err)
		}
		if err := w.file.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("failed to write cell %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

// Close saves the workbook and releases it.
func (w *XLSXWriter) Close() error {
	if w.file == nil {
		return nil
	}
	var err error
	if saveErr := w.file.SaveAs(w.path); saveErr != nil {
		err = fmt.Errorf("failed to save workbook: %w", saveErr)
	}
	if closeErr := w.file.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	w.file = nil
	return err
}
