package jandas

import (
	"fmt"
	"math"
	"strings"
)

// GroupKeyLabel labels the key column of an aggregated DataFrame.
var GroupKeyLabel = StringLabel("Grupo")

// groupKeySep joins the values of several grouping columns into one key.
const groupKeySep = ", "

// AggOp is a per-group statistic.
type AggOp uint8

const (
	AggSum AggOp = iota
	AggMax
	AggMin
	AggCount
	AggMean
	AggVar // sample variance, n-1 divisor
	AggStd
)

// String returns the lowercase name of the statistic.
func (op AggOp) String() string {
	switch op {
	case AggSum:
		return "sum"
	case AggMax:
		return "max"
	case AggMin:
		return "min"
	case AggCount:
		return "count"
	case AggMean:
		return "mean"
	case AggVar:
		return "var"
	case AggStd:
		return "std"
	default:
		return fmt.Sprintf("agg(%d)", op)
	}
}

// ParseAggOp parses an aggregation name such as "sum" or "stddev".
func ParseAggOp(s string) (AggOp, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sum":
		return AggSum, nil
	case "max":
		return AggMax, nil
	case "min":
		return AggMin, nil
	case "count":
		return AggCount, nil
	case "mean", "avg", "average":
		return AggMean, nil
	case "var", "variance":
		return AggVar, nil
	case "std", "stddev":
		return AggStd, nil
	default:
		return 0, fmt.Errorf("%w: aggregation %q", ErrInvalidParameter, s)
	}
}

// GroupBy holds the rows of a DataFrame bucketed by the values of one or more
// grouping columns. Groups keep the order in which their key was first seen.
// It works on a snapshot, so later changes to the source are not seen.
type GroupBy struct {
	df     *DataFrame
	by     []Label
	keys   []string
	groups map[string][]int
}

// GroupBy buckets rows by the values of the given columns.
//
// A row's key is its grouping values formatted as text and joined with ", ";
// missing values are written as NA.
func (df *DataFrame) GroupBy(columns ...Label) (*GroupBy, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: no grouping columns", ErrInvalidParameter)
	}
	df = df.Copy()
	keyCols := make([]*Series, len(columns))
	for i, l := range columns {
		pos, err := df.columnPos(l)
		if err != nil {
			return nil, err
		}
		keyCols[i] = df.columns[pos]
	}

	g := &GroupBy{
		df:     df,
		by:     append([]Label{}, columns...),
		groups: make(map[string][]int),
	}

	parts := make([]string, len(keyCols))
	for row := 0; row < df.Height(); row++ {
		for i, s := range keyCols {
			parts[i] = s.cells[row].String()
		}
		key := strings.Join(parts, groupKeySep)
		if _, seen := g.groups[key]; !seen {
			g.keys = append(g.keys, key)
		}
		g.groups[key] = append(g.groups[key], row)
	}

	logger().Debug("grouped rows", "by", labelsString(columns), "groups", len(g.keys))
	return g, nil
}

// NumGroups returns the number of distinct keys.
func (g *GroupBy) NumGroups() int {
	return len(g.keys)
}

// Keys returns the group keys in first-seen order.
func (g *GroupBy) Keys() []string {
	return append([]string{}, g.keys...)
}

// Indices returns the row positions belonging to a group.
func (g *GroupBy) Indices(key string) ([]int, bool) {
	rows, ok := g.groups[key]
	if !ok {
		return nil, false
	}
	return append([]int{}, rows...), true
}

// Agg applies op to every numeric column that is not a grouping column.
func (g *GroupBy) Agg(op AggOp) (*DataFrame, error) {
	if _, err := ParseAggOp(op.String()); err != nil {
		return nil, err
	}
	grouping := make(map[Label]bool, len(g.by))
	for _, l := range g.by {
		grouping[l] = true
	}

	ops := make(map[Label]AggOp)
	for _, s := range g.df.columns {
		if s.dtype.IsNumeric() && !grouping[s.label] {
			ops[s.label] = op
		}
	}
	return g.aggregate(ops)
}

// AggColumns applies a statistic per column. Every column named must exist and
// be numeric. Output columns follow the DataFrame's column order.
func (g *GroupBy) AggColumns(ops map[Label]AggOp) (*DataFrame, error) {
	for l, op := range ops {
		pos, err := g.df.columnPos(l)
		if err != nil {
			return nil, err
		}
		if s := g.df.columns[pos]; !s.dtype.IsNumeric() {
			return nil, fmt.Errorf("%w: cannot aggregate %s column %s", ErrTypeIncompatible, s.dtype, l.Quoted())
		}
		if _, err := ParseAggOp(op.String()); err != nil {
			return nil, err
		}
	}
	return g.aggregate(ops)
}

// Sum computes per-group sums of the numeric columns.
func (g *GroupBy) Sum() (*DataFrame, error) { return g.Agg(AggSum) }

// Mean computes per-group means of the numeric columns.
func (g *GroupBy) Mean() (*DataFrame, error) { return g.Agg(AggMean) }

// Min computes per-group minimums of the numeric columns.
func (g *GroupBy) Min() (*DataFrame, error) { return g.Agg(AggMin) }

// Max computes per-group maximums of the numeric columns.
func (g *GroupBy) Max() (*DataFrame, error) { return g.Agg(AggMax) }

// Count counts non-missing values per group in the numeric columns.
func (g *GroupBy) Count() (*DataFrame, error) { return g.Agg(AggCount) }

// Var computes per-group sample variances of the numeric columns.
func (g *GroupBy) Var() (*DataFrame, error) { return g.Agg(AggVar) }

// Std computes per-group sample standard deviations of the numeric columns.
func (g *GroupBy) Std() (*DataFrame, error) { return g.Agg(AggStd) }

// aggregate builds the result: a Grupo key column and one Float64 column per
// target, one row per group labelled by its key.
func (g *GroupBy) aggregate(ops map[Label]AggOp) (*DataFrame, error) {
	rowLabels := make([]Label, len(g.keys))
	for i, k := range g.keys {
		rowLabels[i] = StringLabel(k)
	}

	series := []*Series{NewSeriesString(GroupKeyLabel.String(), g.keys)}
	for _, s := range g.df.columns {
		op, ok := ops[s.label]
		if !ok {
			continue
		}
		out := make([]float64, len(g.keys))
		values := make([]float64, 0)
		for i, k := range g.keys {
			values = values[:0]
			for _, row := range g.groups[k] {
				if f, ok := toFloat64(s.cells[row].value); ok {
					values = append(values, f)
				}
			}
			out[i] = reduce(op, values)
		}
		agg := NewSeriesFloat64("", out)
		agg.label = s.label
		series = append(series, agg)
	}

	return NewDataFrameWithLabels(rowLabels, series...)
}

// reduce computes one statistic. Empty input yields NaN except for AggCount.
func reduce(op AggOp, values []float64) float64 {
	n := len(values)
	if op == AggCount {
		return float64(n)
	}
	if n == 0 {
		return math.NaN()
	}

	switch op {
	case AggSum:
		sum := 0.0
		for _, v := range values {
			sum += v
		}
		return sum
	case AggMax:
		m := values[0]
		for _, v := range values[1:] {
			m = math.Max(m, v)
		}
		return m
	case AggMin:
		m := values[0]
		for _, v := range values[1:] {
			m = math.Min(m, v)
		}
		return m
	case AggMean:
		return reduce(AggSum, values) / float64(n)
	case AggVar:
		return variance(values)
	case AggStd:
		return math.Sqrt(variance(values))
	default:
		return math.NaN()
	}
}

// variance is the sample variance; fewer than two values give NaN.
func variance(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return math.NaN()
	}
	mean := reduce(AggMean, values)
	ss := 0.0
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return ss / float64(n-1)
}

func labelsString(labels []Label) string {
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = l.String()
	}
	return strings.Join(parts, groupKeySep)
}
