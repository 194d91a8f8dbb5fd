package jandas

import (
	"fmt"
)

// Concat appends the rows of b below the rows of a.
//
// Both DataFrames need at least one column, the same number of columns and the
// same column labels in the same order. Column dtypes must match, except that
// an Int64/Float64 pair is promoted to Float64. The result has default row
// labels 0..n-1. Nothing is returned unless every check passes.
func Concat(a, b *DataFrame) (*DataFrame, error) {
	if a == nil || b == nil {
		return nil, fmt.Errorf("%w: concat operand", ErrNullArgument)
	}
	if a.Width() == 0 || b.Width() == 0 {
		return nil, fmt.Errorf("%w: concat needs columns on both sides", ErrEmptyTable)
	}
	if a.Width() != b.Width() {
		return nil, dimensionErr("columns", a.Width(), b.Width())
	}

	dtypes := make([]DType, a.Width())
	for j := range a.columns {
		left, right := a.columns[j], b.columns[j]
		if left.label != right.label {
			return nil, fmt.Errorf("%w: column %d is %s on the left and %s on the right",
				ErrLabelNotFound, j, left.label.Quoted(), right.label.Quoted())
		}
		dtype, err := promote(left.dtype, right.dtype)
		if err != nil {
			return nil, &TypeError{Label: left.label, Expected: left.dtype, Actual: right.dtype.String()}
		}
		if dtype != left.dtype || dtype != right.dtype {
			logger().Debug("promoting column", "column", left.label.String(), "dtype", dtype.String())
		}
		dtypes[j] = dtype
	}

	series := make([]*Series, a.Width())
	for j, dtype := range dtypes {
		cells := make([]Cell, 0, a.Height()+b.Height())
		cells = appendConformed(cells, a.columns[j].cells, dtype)
		cells = appendConformed(cells, b.columns[j].cells, dtype)
		series[j] = &Series{label: a.columns[j].label, dtype: dtype, cells: cells}
	}
	return fromOwned(DefaultLabels(a.Height()+b.Height()), series), nil
}

// ConcatDataFrames concatenates DataFrames vertically, left to right.
func ConcatDataFrames(dfs ...*DataFrame) (*DataFrame, error) {
	if len(dfs) == 0 {
		return nil, fmt.Errorf("%w: no DataFrames to concatenate", ErrNullArgument)
	}
	result := dfs[0]
	if result == nil {
		return nil, fmt.Errorf("%w: DataFrame 0", ErrNullArgument)
	}
	if len(dfs) == 1 {
		return concatSingle(result)
	}
	for i, df := range dfs[1:] {
		next, err := Concat(result, df)
		if err != nil {
			return nil, fmt.Errorf("DataFrame %d: %w", i+1, err)
		}
		result = next
	}
	return result, nil
}

// concatSingle gives a lone DataFrame the same treatment Concat would: a copy
// with default row labels.
func concatSingle(df *DataFrame) (*DataFrame, error) {
	if df.Width() == 0 {
		return nil, fmt.Errorf("%w: concat needs columns", ErrEmptyTable)
	}
	out := df.Copy()
	out.rowLabels = DefaultLabels(out.Height())
	return out, nil
}

// promote returns the dtype two concatenated columns share.
func promote(a, b DType) (DType, error) {
	switch {
	case a == b:
		return a, nil
	case a.IsNumeric() && b.IsNumeric():
		return Float64, nil
	default:
		return 0, ErrTypeIncompatible
	}
}

func appendConformed(dst, src []Cell, dtype DType) []Cell {
	for _, c := range src {
		// promote only ever widens Int64 to Float64, which conform accepts
		v, _ := conform(c.value, dtype)
		dst = append(dst, Cell{value: v})
	}
	return dst
}
