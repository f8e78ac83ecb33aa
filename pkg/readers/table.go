package readers

import (
	"fmt"
	"strings"

	"github.com/TFMV/sheetdiff/pkg/core"
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// uniqueHeaders trims header names, names blank headers col_<n> and
// suffixes repeated names with .1, .2, ...
func uniqueHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	used := make(map[string]bool, len(raw))
	counts := make(map[string]int)
	for i, h := range raw {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("col_%d", i)
		}
		name := h
		for used[name] {
			counts[h]++
			name = fmt.Sprintf("%s.%d", h, counts[h])
		}
		used[name] = true
		headers[i] = name
	}
	return headers
}

// schemaHeaders returns the field names of an Arrow schema.
func schemaHeaders(schema *arrow.Schema) []string {
	names := make([]string, schema.NumFields())
	for i, field := range schema.Fields() {
		names[i] = field.Name
	}
	return uniqueHeaders(names)
}

// appendRecord appends every row of an Arrow record to the table.
func appendRecord(t *core.Table, record arrow.Record) {
	numRows := int(record.NumRows())
	numCols := int(record.NumCols())
	for i := 0; i < numRows; i++ {
		row := make([]any, len(t.Columns))
		for j := 0; j < numCols && j < len(row); j++ {
			row[j] = arrayValue(record.Column(j), i)
		}
		t.Rows = append(t.Rows, row)
	}
}

// arrayValue converts a value at a specific index to a Go value.
func arrayValue(col arrow.Array, idx int) any {
	if col.IsNull(idx) {
		return nil
	}

	switch col := col.(type) {
	case *array.Int8:
		return int64(col.Value(idx))
	case *array.Int16:
		return int64(col.Value(idx))
	case *array.Int32:
		return int64(col.Value(idx))
	case *array.Int64:
		return col.Value(idx)
	case *array.Uint8:
		return int64(col.Value(idx))
	case *array.Uint16:
		return int64(col.Value(idx))
	case *array.Uint32:
		return int64(col.Value(idx))
	case *array.Uint64:
		return col.Value(idx)
	case *array.Float32:
		return float64(col.Value(idx))
	case *array.Float64:
		return col.Value(idx)
	case *array.Boolean:
		return col.Value(idx)
	case *array.String:
		return col.Value(idx)
	case *array.LargeString:
		return col.Value(idx)
	case *array.Date32:
		return col.Value(idx).ToTime()
	case *array.Date64:
		return col.Value(idx).ToTime()
	case *array.Timestamp:
		unit := col.DataType().(*arrow.TimestampType).Unit
		return col.Value(idx).ToTime(unit)
	default:
		return col.ValueStr(idx)
	}
}
