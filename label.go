package jandas

import (
	"fmt"
	"math"
	"strconv"
)

type labelKind uint8

const (
	labelInt labelKind = iota
	labelString
)

// Label identifies a row or a column by value, never by position.
// Labels are either integer- or string-valued; two labels are equal only when
// both kind and value match, so IntLabel(1) != StringLabel("1").
// Label is comparable and can be used as a map key.
type Label struct {
	kind labelKind
	i    int64
	s    string
}

// IntLabel returns an integer label.
func IntLabel(i int) Label {
	return Label{kind: labelInt, i: int64(i)}
}

// StringLabel returns a text label.
func StringLabel(s string) Label {
	return Label{kind: labelString, s: s}
}

// NewLabel builds a label from an integer or string value.
func NewLabel(v any) (Label, error) {
	switch x := v.(type) {
	case Label:
		return x, nil
	case string:
		return StringLabel(x), nil
	case nil:
		return Label{}, fmt.Errorf("%w: label value", ErrNullArgument)
	}
	n, err := normalizeValue(v)
	if err != nil {
		return Label{}, err
	}
	if i, ok := n.(int64); ok {
		return Label{kind: labelInt, i: i}, nil
	}
	return Label{}, fmt.Errorf("%w: label must be integer or string, got %T", ErrTypeIncompatible, v)
}

// DefaultLabels returns the integer labels 0..n-1.
func DefaultLabels(n int) []Label {
	labels := make([]Label, n)
	for i := range labels {
		labels[i] = IntLabel(i)
	}
	return labels
}

// StringLabels is a convenience for building text labels.
func StringLabels(names ...string) []Label {
	labels := make([]Label, len(names))
	for i, n := range names {
		labels[i] = StringLabel(n)
	}
	return labels
}

// IsInt reports whether the label is integer-valued.
func (l Label) IsInt() bool {
	return l.kind == labelInt
}

// Int returns the integer value of the label.
func (l Label) Int() (int64, bool) {
	return l.i, l.kind == labelInt
}

// Value returns the label value as int64 or string.
func (l Label) Value() any {
	if l.kind == labelInt {
		return l.i
	}
	return l.s
}

// String returns the label value formatted as text.
func (l Label) String() string {
	if l.kind == labelInt {
		return strconv.FormatInt(l.i, 10)
	}
	return l.s
}

// Quoted formats the label for error messages, quoting text labels.
func (l Label) Quoted() string {
	if l.kind == labelInt {
		return l.String()
	}
	return strconv.Quote(l.s)
}

// nextIntLabel returns one past the largest integer label, or len(labels) if
// that is larger.
func nextIntLabel(labels []Label) Label {
	next := int64(len(labels))
	for _, l := range labels {
		if l.kind == labelInt && l.i < math.MaxInt64 && l.i+1 > next {
			next = l.i + 1
		}
	}
	return Label{kind: labelInt, i: next}
}
