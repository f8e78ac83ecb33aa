// Package readers provides implementations of table readers for various file formats.
package readers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/TFMV/sheetdiff/pkg/core"
)

// Factory creates a reader based on the given configuration.
type Factory struct {
	// registered readers by type
	readers map[string]Creator
}

// Creator is a function that creates a reader from a configuration.
type Creator func(config core.ReaderConfig) (core.TableReader, error)

// NewFactory creates a new reader factory.
func NewFactory() *Factory {
	return &Factory{
		readers: make(map[string]Creator),
	}
}

// Register registers a creator for a reader type.
func (f *Factory) Register(typ string, creator Creator) {
	f.readers[typ] = creator
}

// Create creates a reader based on the given configuration. An empty type
// is detected from the file extension.
func (f *Factory) Create(config core.ReaderConfig) (core.TableReader, error) {
	if config.Type == "" || config.Type == "auto" {
		config.Type = DetectType(config.Path)
	}
	creator, ok := f.readers[config.Type]
	if !ok {
		return nil, fmt.Errorf("%w: reader %q", core.ErrUnsupportedType, config.Type)
	}
	return creator(config)
}

// Supports reports whether a reader is registered for typ. An empty or
// "auto" type is always supported.
func (f *Factory) Supports(typ string) bool {
	if typ == "" || typ == "auto" {
		return true
	}
	_, ok := f.readers[typ]
	return ok
}

// DefaultFactory is the default reader factory with built-in reader types.
var DefaultFactory = NewFactory()

// init registers built-in reader types.
func init() {
	DefaultFactory.Register("xlsx", NewXLSXReader)
	DefaultFactory.Register("csv", NewCSVReader)
	DefaultFactory.Register("parquet", NewParquetReader)
	DefaultFactory.Register("arrow", NewArrowReader)
}

// DetectType detects the reader type of a file based on its extension.
func DetectType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return "csv"
	case ".parquet":
		return "parquet"
	case ".arrow", ".ipc", ".feather":
		return "arrow"
	default:
		// Default to xlsx
		return "xlsx"
	}
}
