package jandas

import (
	"fmt"
	"strings"
)

// DType represents the data type of a Series
type DType uint8

const (
	// Int64 holds 64-bit signed integers.
	Int64 DType = iota
	// Float64 holds double precision floats.
	Float64
	// Bool holds booleans.
	Bool
	// String holds text.
	String
)

// String returns the string representation of the DType
func (d DType) String() string {
	switch d {
	case Int64:
		return "Int64"
	case Float64:
		return "Float64"
	case Bool:
		return "Bool"
	case String:
		return "String"
	default:
		return fmt.Sprintf("Unknown(%d)", d)
	}
}

// ParseDType parses a dtype name. Matching is case-insensitive and accepts the
// short forms "int", "float", "bool" and "str".
func ParseDType(s string) (DType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "int64", "int", "integer":
		return Int64, nil
	case "float64", "float", "double":
		return Float64, nil
	case "bool", "boolean":
		return Bool, nil
	case "string", "str", "text":
		return String, nil
	default:
		return 0, fmt.Errorf("%w: unknown dtype %q", ErrInvalidParameter, s)
	}
}

// IsNumeric returns true if the dtype is a numeric type
func (d DType) IsNumeric() bool {
	return d == Int64 || d == Float64
}

// IsFloat returns true if the dtype is a floating point type
func (d DType) IsFloat() bool {
	return d == Float64
}

// IsInteger returns true if the dtype is an integer type
func (d DType) IsInteger() bool {
	return d == Int64
}

// valid reports whether d is one of the four supported dtypes.
func (d DType) valid() bool {
	return d <= String
}

// zero returns the default fill value used by ImputeDefault.
func (d DType) zero() any {
	switch d {
	case Int64:
		return int64(0)
	case Float64:
		return 0.0
	case Bool:
		return false
	default:
		return ""
	}
}

// ============================================================================
// Schema
// ============================================================================

// Schema represents the schema of a DataFrame
type Schema struct {
	labels []Label
	dtypes []DType
}

// NewSchema creates a new schema from column labels and types
func NewSchema(labels []Label, dtypes []DType) (*Schema, error) {
	if len(labels) != len(dtypes) {
		return nil, dimensionErr("schema dtypes", len(labels), len(dtypes))
	}

	// Check for duplicate labels
	seen := make(map[Label]bool, len(labels))
	for _, l := range labels {
		if seen[l] {
			return nil, fmt.Errorf("%w: duplicate column label %s", ErrInvalidParameter, l.Quoted())
		}
		seen[l] = true
	}

	return &Schema{
		labels: append([]Label{}, labels...),
		dtypes: append([]DType{}, dtypes...),
	}, nil
}

// Len returns the number of columns in the schema
func (s *Schema) Len() int {
	return len(s.labels)
}

// Labels returns the column labels
func (s *Schema) Labels() []Label {
	return append([]Label{}, s.labels...)
}

// DTypes returns the column data types
func (s *Schema) DTypes() []DType {
	return append([]DType{}, s.dtypes...)
}

// GetDType returns the dtype for a column label
func (s *Schema) GetDType(l Label) (DType, bool) {
	if i, ok := s.GetIndex(l); ok {
		return s.dtypes[i], true
	}
	return 0, false
}

// GetIndex returns the position of a column label
func (s *Schema) GetIndex(l Label) (int, bool) {
	for i, n := range s.labels {
		if n == l {
			return i, true
		}
	}
	return -1, false
}

// Equal reports whether both schemas have the same labels and dtypes in order.
func (s *Schema) Equal(other *Schema) bool {
	if other == nil || len(s.labels) != len(other.labels) {
		return false
	}
	for i := range s.labels {
		if s.labels[i] != other.labels[i] || s.dtypes[i] != other.dtypes[i] {
			return false
		}
	}
	return true
}

// String returns a string representation of the schema
func (s *Schema) String() string {
	var sb strings.Builder
	sb.WriteString("Schema{\n")
	for i, l := range s.labels {
		fmt.Fprintf(&sb, "  %s: %s\n", l, s.dtypes[i])
	}
	sb.WriteString("}")
	return sb.String()
}
