package writers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/TFMV/sheetdiff/pkg/core"
)

// JSONWriter writes sections as one JSON object keyed by section name.
type JSONWriter struct {
	file         *os.File
	firstSection bool
}

type jsonSection struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// NewJSONWriter creates a new JSON writer.
func NewJSONWriter(config core.WriterConfig) (core.ResultWriter, error) {
	if config.Path == "" {
		return nil, errors.New("path is required for JSON writer")
	}

	// Create file
	file, err := os.Create(config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create JSON file: %w", err)
	}

	// Write opening brace for the object
	if _, err := file.WriteString("{\n"); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to write opening brace: %w", err)
	}

	return &JSONWriter{
		file:         file,
		firstSection: true,
	}, nil
}

// WriteSection writes a section as one member of the object.
func (w *JSONWriter) WriteSection(ctx context.Context, section core.Section) error {
	// Check if context is canceled
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	rows := section.Rows
	if rows == nil {
		rows = [][]string{}
	}
	name, err := json.Marshal(section.Name)
	if err != nil {
		return fmt.Errorf("failed to encode section name: %w", err)
	}
	body, err := json.MarshalIndent(jsonSection{Columns: section.Columns, Rows: rows}, "  ", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode section %s: %w", section.Name, err)
	}

	// If not the first section, write a comma
	if !w.firstSection {
		if _, err := w.file.WriteString(",\n"); err != nil {
			return fmt.Errorf("failed to write comma: %w", err)
		}
	} else {
		w.firstSection = false
	}

	if _, err := fmt.Fprintf(w.file, "  %s: %s", name, body); err != nil {
		return fmt.Errorf("failed to write section %s: %w", section.Name, err)
	}
	return nil
}

// Close closes the writer and flushes any pending data.
func (w *JSONWriter) Close() error {
	if w.file == nil {
		return nil
	}
	var err error

	// Write closing brace for the object
	if _, closeErr := w.file.WriteString("\n}\n"); closeErr != nil {
		err = closeErr
	}

	// Close the file
	if closeErr := w.file.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	w.file = nil

	return err
}
