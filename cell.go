package jandas

import (
	"cmp"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NullString is the text used for missing values in group keys and Cell.String.
const NullString = "NA"

// Cell holds a single, optionally missing scalar: int64, float64, bool or string.
// A Cell does not own a dtype; the Series holding it enforces one.
type Cell struct {
	value any
}

// NewCell wraps v in a Cell. nil yields a missing cell. Integer types are
// normalised to int64 and float32 to float64; any other type fails.
func NewCell(v any) (Cell, error) {
	n, err := normalizeValue(v)
	if err != nil {
		return Cell{}, err
	}
	return Cell{value: n}, nil
}

// NullCell returns a missing cell.
func NullCell() Cell {
	return Cell{}
}

// IsMissing reports whether the cell has no value.
func (c Cell) IsMissing() bool {
	return c.value == nil
}

// Value returns the payload, or nil if the cell is missing.
func (c Cell) Value() any {
	return c.value
}

// DType returns the dtype of the payload. ok is false for a missing cell.
func (c Cell) DType() (DType, bool) {
	if c.value == nil {
		return 0, false
	}
	return dtypeOf(c.value), true
}

// SetValue replaces the payload, including to or from missing.
func (c *Cell) SetValue(v any) error {
	n, err := normalizeValue(v)
	if err != nil {
		return err
	}
	c.value = n
	return nil
}

// String formats the payload; missing cells render as NA.
func (c Cell) String() string {
	if c.value == nil {
		return NullString
	}
	return formatValue(c.value)
}

// normalizeValue maps v onto one of the four supported Go types.
func normalizeValue(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case int64:
		return x, nil
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint:
		if uint64(x) > math.MaxInt64 {
			return nil, fmt.Errorf("%w: %d overflows int64", ErrTypeIncompatible, x)
		}
		return int64(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return nil, fmt.Errorf("%w: %d overflows int64", ErrTypeIncompatible, x)
		}
		return int64(x), nil
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case bool:
		return x, nil
	case string:
		return x, nil
	case Cell:
		return x.value, nil
	default:
		return nil, fmt.Errorf("%w: unsupported value type %T", ErrTypeIncompatible, v)
	}
}

// dtypeOf returns the dtype of an already normalised, non-nil value.
func dtypeOf(v any) DType {
	switch v.(type) {
	case int64:
		return Int64
	case float64:
		return Float64
	case bool:
		return Bool
	default:
		return String
	}
}

func typeName(v any) string {
	if v == nil {
		return "null"
	}
	return dtypeOf(v).String()
}

// formatValue renders a normalised value. Floats always carry a decimal point
// or exponent so they are not re-read as integers.
func formatValue(v any) string {
	switch val := v.(type) {
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return formatFloat(val)
	case bool:
		return strconv.FormatBool(val)
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// compareValues orders two normalised, non-nil values by their natural order.
// Integers and floats compare numerically, text lexically, false before true.
func compareValues(a, b any) (int, error) {
	switch x := a.(type) {
	case int64:
		switch y := b.(type) {
		case int64:
			return cmp.Compare(x, y), nil
		case float64:
			return cmp.Compare(float64(x), y), nil
		}
	case float64:
		switch y := b.(type) {
		case int64:
			return cmp.Compare(x, float64(y)), nil
		case float64:
			return cmp.Compare(x, y), nil
		}
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y), nil
		}
	case bool:
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0, nil
			case !x:
				return -1, nil
			default:
				return 1, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: cannot compare %s with %s", ErrTypeIncompatible, typeName(a), typeName(b))
}

// toFloat64 converts a numeric value; ok is false for non-numeric values.
func toFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case float64:
		return x, true
	default:
		return 0, false
	}
}
