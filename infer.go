package jandas

import (
	"fmt"
	"strconv"
	"strings"
)

// rawValue is one parsed input value together with its original text, which
// String columns keep verbatim.
type rawValue struct {
	value any
	text  string
}

// parseRaw parses one input value: text is tried as integer, then float, then
// a boolean literal, and kept as text otherwise. Empty text is missing.
// Non-text values are normalised as cells.
func parseRaw(v any) (rawValue, error) {
	s, ok := v.(string)
	if !ok {
		n, err := normalizeValue(v)
		if err != nil {
			return rawValue{}, err
		}
		if n == nil {
			return rawValue{}, nil
		}
		return rawValue{value: n, text: formatValue(n)}, nil
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return rawValue{}, nil
	}
	return rawValue{value: parseText(s), text: s}, nil
}

// parseField parses one delimited-text field. Only an empty field is missing.
// Surrounding whitespace is ignored when detecting numbers and booleans but
// kept in the text String columns store.
func parseField(field string) rawValue {
	if field == "" {
		return rawValue{}
	}
	t := strings.TrimSpace(field)
	if t == "" {
		return rawValue{value: field, text: field}
	}
	return rawValue{value: parseText(t), text: field}
}

// parseText parses non-empty text into int64, float64, bool or string.
func parseText(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if isFloatLiteral(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}
	return s
}

// isFloatLiteral accepts decimal notation with an optional exponent, plus the
// exact spellings NaN and Infinity. strconv.ParseFloat alone would also take
// "inf", "nan" and hex floats.
func isFloatLiteral(s string) bool {
	switch strings.TrimLeft(s, "+-") {
	case "NaN":
		return s == "NaN"
	case "Infinity":
		return true
	}
	digits := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits = true
		case r == '.' || r == 'e' || r == 'E' || r == '+' || r == '-':
		default:
			return false
		}
	}
	return digits
}

// inferDType picks the single dtype for a column of parsed values:
// all integer gives Int64, integer/float mixes give Float64, all boolean gives
// Bool, and anything else (including no values at all) gives String.
func inferDType(values []rawValue) DType {
	hasInt, hasFloat, hasBool, hasString := false, false, false, false
	for _, v := range values {
		switch v.value.(type) {
		case nil:
		case int64:
			hasInt = true
		case float64:
			hasFloat = true
		case bool:
			hasBool = true
		default:
			hasString = true
		}
	}

	switch {
	case hasString:
		return String
	case hasBool && (hasInt || hasFloat):
		return String
	case hasFloat:
		return Float64
	case hasInt:
		return Int64
	case hasBool:
		return Bool
	default:
		return String
	}
}

// buildSeries coerces parsed values into a series of dtype. String columns
// keep the original text of every value. Other conversions are strict apart
// from integer to float widening.
func buildSeries(label Label, dtype DType, values []rawValue) (*Series, error) {
	s := &Series{label: label, dtype: dtype, cells: make([]Cell, len(values))}
	for i, v := range values {
		if v.value == nil {
			continue
		}
		if dtype == String {
			s.cells[i] = Cell{value: v.text}
			continue
		}
		n, err := conform(v.value, dtype)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, &TypeError{Label: label, Expected: dtype, Actual: typeName(v.value)})
		}
		s.cells[i] = Cell{value: n}
	}
	return s, nil
}

// inferSeries parses and infers a column of raw values.
func inferSeries(label Label, raw []any) (*Series, error) {
	values := make([]rawValue, len(raw))
	for i, v := range raw {
		rv, err := parseRaw(v)
		if err != nil {
			return nil, fmt.Errorf("column %s row %d: %w", label.Quoted(), i, err)
		}
		values[i] = rv
	}
	return buildSeries(label, inferDType(values), values)
}

// headerLabel converts a header cell into a column label: integer values give
// integer labels, anything else a text label.
func headerLabel(v any) (Label, error) {
	if s, ok := v.(string); ok {
		return StringLabel(strings.TrimSpace(s)), nil
	}
	n, err := normalizeValue(v)
	if err != nil {
		return Label{}, err
	}
	switch x := n.(type) {
	case nil:
		return Label{}, fmt.Errorf("%w: header value", ErrNullArgument)
	case int64:
		return Label{kind: labelInt, i: x}, nil
	default:
		return StringLabel(formatValue(x)), nil
	}
}
