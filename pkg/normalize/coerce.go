package normalize

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/TFMV/sheetdiff/pkg/core"
)

// dateLayout renders times without a clock component.
const dateLayout = "2006-01-02"

// Coerce converts any reader value into its comparable cell form. It never
// fails: values of unknown types are rendered with fmt.
func Coerce(value any) core.Cell {
	switch v := value.(type) {
	case nil:
		return core.AbsentCell()
	case string:
		return core.TextCell(v)
	case int:
		return core.TextCell(strconv.Itoa(v))
	case int64:
		return core.TextCell(strconv.FormatInt(v, 10))
	case int32:
		return core.TextCell(strconv.FormatInt(int64(v), 10))
	case uint64:
		return core.TextCell(strconv.FormatUint(v, 10))
	case float32:
		return coerceFloat(float64(v), 32)
	case float64:
		return coerceFloat(v, 64)
	case bool:
		return core.TextCell(strconv.FormatBool(v))
	case time.Time:
		return coerceTime(v)
	case fmt.Stringer:
		return core.TextCell(v.String())
	default:
		return core.TextCell(fmt.Sprint(v))
	}
}

// coerceFloat renders the shortest form that round-trips; integral values
// drop the fraction so 30.0 and 30 compare equal.
func coerceFloat(f float64, bitSize int) core.Cell {
	if math.IsNaN(f) {
		return core.AbsentCell()
	}
	if f == 0 {
		// Negative zero prints as "-0".
		f = 0
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return core.TextCell(strconv.FormatFloat(f, 'f', 0, 64))
	}
	return core.TextCell(strconv.FormatFloat(f, 'g', -1, bitSize))
}

func coerceTime(t time.Time) core.Cell {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return core.TextCell(t.Format(dateLayout))
	}
	return core.TextCell(t.Format(time.RFC3339Nano))
}
