package jandas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cityFrame(t *testing.T) *DataFrame {
	t.Helper()
	df, err := FromStrings([][]string{
		{"Nombre", "Edad", "Ciudad", "Activo"},
		{"Ana", "34", "Lima", "true"},
		{"Luis", "", "Cusco", "false"},
		{"Marta", "28", "Lima", "true"},
		{"Pedro", "41", "Arequipa", "false"},
	}, true)
	require.NoError(t, err)
	return df
}

func names(t *testing.T, df *DataFrame) []string {
	t.Helper()
	s, err := df.ColumnByName("Nombre")
	require.NoError(t, err)
	return s.Strings()
}

func TestFilterComparisons(t *testing.T) {
	df := cityFrame(t)

	tests := []struct {
		name string
		cond Condition
		want []string
	}{
		{"gt", Col("Edad").Gt(30), []string{"Ana", "Pedro"}},
		{"lt", Col("Edad").Lt(30), []string{"Marta"}},
		{"eq", Col("Ciudad").Eq("Lima"), []string{"Ana", "Marta"}},
		{"ge", Col("Edad").Ge(34), []string{"Ana", "Pedro"}},
		{"le float literal", Col("Edad").Le(28.0), []string{"Marta"}},
		{"bool", Col("Activo").Eq(true), []string{"Ana", "Marta"}},
		{"text order", Col("Ciudad").Lt("Lima"), []string{"Luis", "Pedro"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := df.Filter(tt.cond)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(t, out))
		})
	}
}

func TestFilterComposite(t *testing.T) {
	df := cityFrame(t)

	out, err := df.Filter(And(Col("Edad").Gt(30), Col("Ciudad").Eq("Lima")))
	require.NoError(t, err)
	assert.Equal(t, []string{"Ana"}, names(t, out))

	out, err = df.Filter(Col("Edad").Lt(30).Or(Col("Ciudad").Eq("Cusco")))
	require.NoError(t, err)
	assert.Equal(t, []string{"Luis", "Marta"}, names(t, out))

	// a missing cell fails the comparison, so its negation holds
	out, err = df.Filter(Not(Col("Edad").Gt(30)))
	require.NoError(t, err)
	assert.Equal(t, []string{"Luis", "Marta"}, names(t, out))

	out, err = df.Filter(And())
	require.NoError(t, err)
	assert.Equal(t, 4, out.Height())

	out, err = df.Filter(Or())
	require.NoError(t, err)
	assert.Equal(t, 0, out.Height())
	assert.Equal(t, df.Columns(), out.Columns())
}

func TestFilterKeepsLabelsAndTypes(t *testing.T) {
	df := cityFrame(t)

	out, err := df.Filter(Col("Ciudad").Eq("Lima"))
	require.NoError(t, err)
	assert.Equal(t, []Label{IntLabel(0), IntLabel(2)}, out.RowLabels())
	assert.Equal(t, df.DTypes(), out.DTypes())
}

func TestFilterShortCircuits(t *testing.T) {
	df := cityFrame(t)

	// the second operand would fail on every row it is evaluated for
	bad := Col("Salario").Gt(1)

	out, err := df.Filter(Col("Ciudad").Eq("Nowhere").And(bad))
	require.NoError(t, err)
	assert.Equal(t, 0, out.Height())

	out, err = df.Filter(Col("Nombre").Ge("").Or(bad).And(Col("Ciudad").Eq("Lima")))
	require.NoError(t, err)
	assert.Equal(t, []string{"Ana", "Marta"}, names(t, out))
}

func TestFilterErrors(t *testing.T) {
	df := cityFrame(t)

	_, err := df.Filter(Col("Salario").Gt(1))
	require.ErrorIs(t, err, ErrLabelNotFound)

	_, err = df.Filter(Col("Edad").Gt(nil))
	require.ErrorIs(t, err, ErrNullArgument)

	_, err = df.Filter(Col("Ciudad").Gt(3))
	require.ErrorIs(t, err, ErrTypeIncompatible)

	_, err = df.Filter(Condition{})
	require.ErrorIs(t, err, ErrInvalidParameter)
}

func TestConditionString(t *testing.T) {
	cond := And(Col("Edad").Gt(30), Not(Col("Ciudad").Eq("Lima")))
	assert.Equal(t, "((Edad > 30) AND NOT (Ciudad = Lima))", cond.String())
	assert.Equal(t, []string{"Edad", "Ciudad"}, cond.Columns())
}

func TestParseComparison(t *testing.T) {
	tests := []struct {
		in      string
		column  string
		op      CompareOp
		literal any
	}{
		{"Edad > 30", "Edad", OpGt, int64(30)},
		{"Edad>=30.5", "Edad", OpGe, 30.5},
		{"Ciudad = Lima", "Ciudad", OpEq, "Lima"},
		{"Ciudad == 'Lima'", "Ciudad", OpEq, "Lima"},
		{`Codigo = "007"`, "Codigo", OpEq, "007"},
		{"Activo <= true", "Activo", OpLe, true},
		{"Edad < -1", "Edad", OpLt, int64(-1)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			cond, err := ParseComparison(tt.in)
			require.NoError(t, err)
			assert.Equal(t, Compare(tt.column, tt.op, tt.literal), cond)
		})
	}

	for _, bad := range []string{"Edad", "> 3", "Edad >", "Edad => 3"} {
		_, err := ParseComparison(bad)
		assert.ErrorIs(t, err, ErrInvalidParameter, bad)
	}
}
