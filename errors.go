package jandas

import (
	"errors"
	"fmt"
)

// Errors returned by DataFrame and Series operations.
// Callers should test for them with errors.Is.
var (
	// ErrNullArgument is returned when a required argument is nil.
	ErrNullArgument = errors.New("null or missing argument")

	// ErrDimensionMismatch is returned when row or column counts disagree.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrLabelNotFound is returned when a row or column label does not exist.
	ErrLabelNotFound = errors.New("label not found")

	// ErrIndexOutOfRange is returned when a positional index is outside the table.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrTypeIncompatible is returned when a value does not match a column's dtype.
	ErrTypeIncompatible = errors.New("type incompatible")

	// ErrEmptyTable is returned when an operation requires at least one row or column.
	ErrEmptyTable = errors.New("empty table")

	// ErrInvalidParameter is returned for out-of-range or unsupported parameters.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// DimensionError reports an expected vs. actual row or column count.
type DimensionError struct {
	What     string
	Expected int
	Actual   int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%s: %s expected %d, got %d", ErrDimensionMismatch, e.What, e.Expected, e.Actual)
}

func (e *DimensionError) Unwrap() error {
	return ErrDimensionMismatch
}

// TypeError reports a value whose dtype does not match the target column.
type TypeError struct {
	Label    Label
	Expected DType
	Actual   string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s: column %s expects %s, got %s", ErrTypeIncompatible, e.Label, e.Expected, e.Actual)
}

func (e *TypeError) Unwrap() error {
	return ErrTypeIncompatible
}

func dimensionErr(what string, expected, actual int) error {
	return &DimensionError{What: what, Expected: expected, Actual: actual}
}

func labelNotFound(kind string, l Label) error {
	return fmt.Errorf("%w: %s %s", ErrLabelNotFound, kind, l.Quoted())
}
