package jandas

import (
	"fmt"
	"math"
)

// Series is a labelled, homogeneously typed column of cells.
// Every non-missing cell holds a value of the series' dtype.
type Series struct {
	label Label
	dtype DType
	cells []Cell
}

// ============================================================================
// Creation
// ============================================================================

// NewSeries creates a series of the given dtype. nil values become missing
// cells; integer values are widened for Float64 series; any other mismatch
// fails with ErrTypeIncompatible.
func NewSeries(label Label, dtype DType, values ...any) (*Series, error) {
	if !dtype.valid() {
		return nil, fmt.Errorf("%w: dtype %s", ErrInvalidParameter, dtype)
	}
	s := &Series{label: label, dtype: dtype, cells: make([]Cell, len(values))}
	for i, v := range values {
		c, err := s.check(v)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		s.cells[i] = c
	}
	return s, nil
}

// NewEmptySeries creates a zero-length series.
func NewEmptySeries(label Label, dtype DType) *Series {
	return &Series{label: label, dtype: dtype, cells: []Cell{}}
}

// NewSeriesInt64 creates an Int64 series without nulls
func NewSeriesInt64(name string, data []int64) *Series {
	s := &Series{label: StringLabel(name), dtype: Int64, cells: make([]Cell, len(data))}
	for i, v := range data {
		s.cells[i] = Cell{value: v}
	}
	return s
}

// NewSeriesFloat64 creates a Float64 series without nulls
func NewSeriesFloat64(name string, data []float64) *Series {
	s := &Series{label: StringLabel(name), dtype: Float64, cells: make([]Cell, len(data))}
	for i, v := range data {
		s.cells[i] = Cell{value: v}
	}
	return s
}

// NewSeriesBool creates a Bool series without nulls
func NewSeriesBool(name string, data []bool) *Series {
	s := &Series{label: StringLabel(name), dtype: Bool, cells: make([]Cell, len(data))}
	for i, v := range data {
		s.cells[i] = Cell{value: v}
	}
	return s
}

// NewSeriesString creates a String series without nulls
func NewSeriesString(name string, data []string) *Series {
	s := &Series{label: StringLabel(name), dtype: String, cells: make([]Cell, len(data))}
	for i, v := range data {
		s.cells[i] = Cell{value: v}
	}
	return s
}

// NewSeriesInt64WithNulls creates an Int64 series where valid[i] == false marks
// a missing value. valid must have the same length as data.
func NewSeriesInt64WithNulls(name string, data []int64, valid []bool) (*Series, error) {
	if len(valid) != len(data) {
		return nil, dimensionErr("validity mask", len(data), len(valid))
	}
	s := NewSeriesInt64(name, data)
	s.applyValidity(valid)
	return s, nil
}

// NewSeriesFloat64WithNulls creates a Float64 series with a validity mask.
func NewSeriesFloat64WithNulls(name string, data []float64, valid []bool) (*Series, error) {
	if len(valid) != len(data) {
		return nil, dimensionErr("validity mask", len(data), len(valid))
	}
	s := NewSeriesFloat64(name, data)
	s.applyValidity(valid)
	return s, nil
}

// NewSeriesStringWithNulls creates a String series with a validity mask.
func NewSeriesStringWithNulls(name string, data []string, valid []bool) (*Series, error) {
	if len(valid) != len(data) {
		return nil, dimensionErr("validity mask", len(data), len(valid))
	}
	s := NewSeriesString(name, data)
	s.applyValidity(valid)
	return s, nil
}

func (s *Series) applyValidity(valid []bool) {
	for i, ok := range valid {
		if !ok {
			s.cells[i] = Cell{}
		}
	}
}

// check normalises v and verifies it fits the series dtype.
func (s *Series) check(v any) (Cell, error) {
	n, err := normalizeValue(v)
	if err != nil {
		return Cell{}, err
	}
	out, err := conform(n, s.dtype)
	if err != nil {
		return Cell{}, &TypeError{Label: s.label, Expected: s.dtype, Actual: typeName(n)}
	}
	return Cell{value: out}, nil
}

// conform returns n as a value of dtype, allowing only integer to float widening.
func conform(n any, dtype DType) (any, error) {
	if n == nil {
		return nil, nil
	}
	actual := dtypeOf(n)
	if actual == dtype {
		return n, nil
	}
	if actual == Int64 && dtype == Float64 {
		return float64(n.(int64)), nil
	}
	return nil, ErrTypeIncompatible
}

// ============================================================================
// Access
// ============================================================================

// Label returns the series label.
func (s *Series) Label() Label {
	return s.label
}

// Name returns the label formatted as text.
func (s *Series) Name() string {
	return s.label.String()
}

// DType returns the data type of the series.
func (s *Series) DType() DType {
	return s.dtype
}

// Len returns the number of cells.
func (s *Series) Len() int {
	return len(s.cells)
}

// Get returns the value at index i, or nil if it is missing or out of range.
func (s *Series) Get(i int) any {
	if i < 0 || i >= len(s.cells) {
		return nil
	}
	return s.cells[i].value
}

// Cell returns a copy of the cell at index i.
func (s *Series) Cell(i int) (Cell, error) {
	if i < 0 || i >= len(s.cells) {
		return Cell{}, fmt.Errorf("%w: row %d of %d", ErrIndexOutOfRange, i, len(s.cells))
	}
	return s.cells[i], nil
}

// IsValid returns true if the value at index i is present.
func (s *Series) IsValid(i int) bool {
	return i >= 0 && i < len(s.cells) && s.cells[i].value != nil
}

// NullCount returns the number of missing values.
func (s *Series) NullCount() int {
	n := 0
	for _, c := range s.cells {
		if c.value == nil {
			n++
		}
	}
	return n
}

// HasNulls returns true if any value is missing.
func (s *Series) HasNulls() bool {
	for _, c := range s.cells {
		if c.value == nil {
			return true
		}
	}
	return false
}

// Values returns a copy of all values, nil for missing cells.
func (s *Series) Values() []any {
	out := make([]any, len(s.cells))
	for i, c := range s.cells {
		out[i] = c.value
	}
	return out
}

// Float64 returns numeric values as float64. Missing and non-numeric cells
// become NaN.
func (s *Series) Float64() []float64 {
	out := make([]float64, len(s.cells))
	for i, c := range s.cells {
		f, ok := toFloat64(c.value)
		if !ok {
			f = math.NaN()
		}
		out[i] = f
	}
	return out
}

// Int64 returns the values of an Int64 series; missing cells become 0.
func (s *Series) Int64() []int64 {
	out := make([]int64, len(s.cells))
	for i, c := range s.cells {
		if v, ok := c.value.(int64); ok {
			out[i] = v
		}
	}
	return out
}

// Bools returns the values of a Bool series; missing cells become false.
func (s *Series) Bools() []bool {
	out := make([]bool, len(s.cells))
	for i, c := range s.cells {
		if v, ok := c.value.(bool); ok {
			out[i] = v
		}
	}
	return out
}

// Strings returns every cell formatted as text, NA for missing cells.
func (s *Series) Strings() []string {
	out := make([]string, len(s.cells))
	for i, c := range s.cells {
		out[i] = c.String()
	}
	return out
}

// ============================================================================
// Mutation
// ============================================================================

// Set overwrites the value at index i. nil marks the cell missing.
func (s *Series) Set(i int, v any) error {
	if i < 0 || i >= len(s.cells) {
		return fmt.Errorf("%w: row %d of %d", ErrIndexOutOfRange, i, len(s.cells))
	}
	c, err := s.check(v)
	if err != nil {
		return err
	}
	s.cells[i] = c
	return nil
}

// Append adds a value at the end of the series.
func (s *Series) Append(v any) error {
	c, err := s.check(v)
	if err != nil {
		return err
	}
	s.cells = append(s.cells, c)
	return nil
}

// FillNull replaces every missing cell with v and returns how many were filled.
// Present cells are left untouched.
func (s *Series) FillNull(v any) (int, error) {
	if v == nil {
		return 0, fmt.Errorf("%w: fill value for %s", ErrNullArgument, s.label.Quoted())
	}
	c, err := s.check(v)
	if err != nil {
		return 0, err
	}
	filled := 0
	for i := range s.cells {
		if s.cells[i].value == nil {
			s.cells[i] = c
			filled++
		}
	}
	return filled, nil
}

// ============================================================================
// Derivation
// ============================================================================

// Clone returns an independent copy of the series.
func (s *Series) Clone() *Series {
	return &Series{label: s.label, dtype: s.dtype, cells: append([]Cell{}, s.cells...)}
}

// Rename returns a copy of the series with a new label.
func (s *Series) Rename(label Label) *Series {
	out := s.Clone()
	out.label = label
	return out
}

// Take returns a new series holding the cells at the given positions, in order.
// Indices must be in range.
func (s *Series) Take(indices []int) *Series {
	cells := make([]Cell, len(indices))
	for i, idx := range indices {
		cells[i] = s.cells[idx]
	}
	return &Series{label: s.label, dtype: s.dtype, cells: cells}
}

// Slice returns a new series with cells from start to end (exclusive).
// Bounds are clamped to the series length.
func (s *Series) Slice(start, end int) *Series {
	start = max(start, 0)
	end = min(end, len(s.cells))
	if start >= end {
		return NewEmptySeries(s.label, s.dtype)
	}
	return &Series{label: s.label, dtype: s.dtype, cells: append([]Cell{}, s.cells[start:end]...)}
}

// Head returns the first n values.
func (s *Series) Head(n int) *Series {
	return s.Slice(0, n)
}

// Tail returns the last n values.
func (s *Series) Tail(n int) *Series {
	return s.Slice(len(s.cells)-n, len(s.cells))
}

// Cast converts the series to another dtype. Int64 to Float64 and any dtype to
// String are supported; other conversions fail with ErrTypeIncompatible.
func (s *Series) Cast(dtype DType) (*Series, error) {
	if dtype == s.dtype {
		return s.Clone(), nil
	}
	out := &Series{label: s.label, dtype: dtype, cells: make([]Cell, len(s.cells))}
	for i, c := range s.cells {
		if c.value == nil {
			continue
		}
		switch {
		case dtype == String:
			out.cells[i] = Cell{value: formatValue(c.value)}
		case s.dtype == Int64 && dtype == Float64:
			out.cells[i] = Cell{value: float64(c.value.(int64))}
		default:
			return nil, &TypeError{Label: s.label, Expected: dtype, Actual: s.dtype.String()}
		}
	}
	return out, nil
}

// Equal reports whether both series have the same label, dtype and values.
// NaN values compare equal to each other.
func (s *Series) Equal(other *Series) bool {
	if other == nil || s.label != other.label || s.dtype != other.dtype || len(s.cells) != len(other.cells) {
		return false
	}
	for i, c := range s.cells {
		o := other.cells[i].value
		if c.value == o {
			continue
		}
		a, aok := c.value.(float64)
		b, bok := o.(float64)
		if aok && bok && math.IsNaN(a) && math.IsNaN(b) {
			continue
		}
		return false
	}
	return true
}

// String formats the series using the global display configuration.
func (s *Series) String() string {
	return SeriesStringWithConfig(s, GetDisplayConfig())
}
