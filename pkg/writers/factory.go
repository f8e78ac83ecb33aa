// Package writers provides implementations of result writers for various file formats.
package writers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/TFMV/sheetdiff/pkg/core"
)

// Factory creates a writer based on the given configuration.
type Factory struct {
	// registered writers by type
	writers map[string]Creator
}

// Creator is a function that creates a writer from a configuration.
type Creator func(config core.WriterConfig) (core.ResultWriter, error)

// NewFactory creates a new writer factory.
func NewFactory() *Factory {
	return &Factory{
		writers: make(map[string]Creator),
	}
}

// Register registers a creator for a writer type.
func (f *Factory) Register(typ string, creator Creator) {
	f.writers[typ] = creator
}

// Create creates a writer based on the given configuration. An empty type
// is detected from the file extension.
func (f *Factory) Create(config core.WriterConfig) (core.ResultWriter, error) {
	if config.Type == "" {
		config.Type = DetectType(config.Path)
	}
	creator, ok := f.writers[config.Type]
	if !ok {
		return nil, fmt.Errorf("%w: writer %q", core.ErrUnsupportedType, config.Type)
	}
	return creator(config)
}

// Supports reports whether a writer is registered for typ.
func (f *Factory) Supports(typ string) bool {
	_, ok := f.writers[typ]
	return ok
}

// DefaultFactory is the default writer factory with built-in writer types.
var DefaultFactory = NewFactory()

// init registers built-in writer types.
func init() {
	DefaultFactory.Register("xlsx", NewXLSXWriter)
	DefaultFactory.Register("json", NewJSONWriter)
}

// DetectType detects the writer type of a path based on its extension.
func DetectType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	case ".xlsx", ".xlsm", "":
		return "xlsx"
	default:
		return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
}
