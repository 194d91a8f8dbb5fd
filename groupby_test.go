package jandas

import (
	"errors"
	"math"
	"testing"
)

func salesFrame(t *testing.T) *DataFrame {
	t.Helper()
	df, err := FromStrings([][]string{
		{"Grupo", "Region", "Valor", "Unidades"},
		{"A", "Norte", "10", "1"},
		{"B", "Sur", "15", "2"},
		{"A", "Sur", "12", ""},
		{"C", "Norte", "", ""},
	}, true)
	if err != nil {
		t.Fatalf("FromStrings failed: %v", err)
	}
	return df
}

func floatColumn(t *testing.T, df *DataFrame, name string) []float64 {
	t.Helper()
	s, err := df.ColumnByName(name)
	if err != nil {
		t.Fatalf("ColumnByName(%s) failed: %v", name, err)
	}
	return s.Float64()
}

func floatsEqual(got, want []float64) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if math.IsNaN(want[i]) {
			if !math.IsNaN(got[i]) {
				return false
			}
			continue
		}
		if math.Abs(got[i]-want[i]) > 1e-9 {
			return false
		}
	}
	return true
}

func TestGroupByBasic(t *testing.T) {
	df := salesFrame(t)

	gb, err := df.GroupBy(StringLabel("Grupo"))
	if err != nil {
		t.Fatalf("GroupBy failed: %v", err)
	}
	if gb.NumGroups() != 3 {
		t.Errorf("NumGroups() = %d, want 3", gb.NumGroups())
	}

	keys := gb.Keys()
	want := []string{"A", "B", "C"}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("Keys() = %v, want %v", keys, want)
		}
	}

	rows, ok := gb.Indices("A")
	if !ok || len(rows) != 2 || rows[0] != 0 || rows[1] != 2 {
		t.Errorf("Indices(A) = %v, %v, want [0 2], true", rows, ok)
	}
	if _, ok := gb.Indices("Z"); ok {
		t.Error("Indices(Z) should not be found")
	}
}

func TestGroupBySum(t *testing.T) {
	df, _ := FromStrings([][]string{
		{"Grupo", "Valor"},
		{"A", "10"},
		{"B", "15"},
		{"A", "12"},
	}, true)

	gb, err := df.GroupBy(StringLabel("Grupo"))
	if err != nil {
		t.Fatalf("GroupBy failed: %v", err)
	}
	result, err := gb.Sum()
	if err != nil {
		t.Fatalf("Sum failed: %v", err)
	}

	if h, w := result.Shape(); h != 2 || w != 2 {
		t.Fatalf("Shape() = (%d, %d), want (2, 2)", h, w)
	}
	if got := result.Columns(); got[0] != "Grupo" || got[1] != "Valor" {
		t.Errorf("Columns() = %v, want [Grupo Valor]", got)
	}
	if got := result.RowLabels(); got[0] != StringLabel("A") || got[1] != StringLabel("B") {
		t.Errorf("RowLabels() = %v, want [A B]", got)
	}

	valor, _ := result.Column(StringLabel("Valor"))
	if valor.DType() != Float64 {
		t.Errorf("Valor dtype = %s, want Float64", valor.DType())
	}
	c, _ := result.Cell(StringLabel("A"), StringLabel("Valor"))
	if c.Value() != 22.0 {
		t.Errorf("sum for A = %v, want 22.0", c.Value())
	}
	c, _ = result.Cell(StringLabel("B"), StringLabel("Valor"))
	if c.Value() != 15.0 {
		t.Errorf("sum for B = %v, want 15.0", c.Value())
	}
}

func TestGroupByAggregations(t *testing.T) {
	df := salesFrame(t)
	gb, _ := df.GroupBy(StringLabel("Grupo"))
	nan := math.NaN()

	tests := []struct {
		op       AggOp
		valor    []float64
		unidades []float64
	}{
		{AggSum, []float64{22, 15, nan}, []float64{1, 2, nan}},
		{AggMean, []float64{11, 15, nan}, []float64{1, 2, nan}},
		{AggMin, []float64{10, 15, nan}, []float64{1, 2, nan}},
		{AggMax, []float64{12, 15, nan}, []float64{1, 2, nan}},
		{AggCount, []float64{2, 1, 0}, []float64{1, 1, 0}},
		{AggVar, []float64{2, nan, nan}, []float64{nan, nan, nan}},
		{AggStd, []float64{math.Sqrt2, nan, nan}, []float64{nan, nan, nan}},
	}

	for _, tt := range tests {
		result, err := gb.Agg(tt.op)
		if err != nil {
			t.Fatalf("Agg(%s) failed: %v", tt.op, err)
		}
		// Region is text and therefore skipped
		if result.HasColumn(StringLabel("Region")) {
			t.Errorf("Agg(%s) should skip non-numeric columns", tt.op)
		}
		if got := floatColumn(t, result, "Valor"); !floatsEqual(got, tt.valor) {
			t.Errorf("Agg(%s) Valor = %v, want %v", tt.op, got, tt.valor)
		}
		if got := floatColumn(t, result, "Unidades"); !floatsEqual(got, tt.unidades) {
			t.Errorf("Agg(%s) Unidades = %v, want %v", tt.op, got, tt.unidades)
		}
	}
}

func TestGroupByMultipleKeys(t *testing.T) {
	df := salesFrame(t)

	gb, err := df.GroupBy(StringLabel("Region"), StringLabel("Grupo"))
	if err != nil {
		t.Fatalf("GroupBy failed: %v", err)
	}
	want := []string{"Norte, A", "Sur, B", "Sur, A", "Norte, C"}
	keys := gb.Keys()
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("Keys() = %v, want %v", keys, want)
		}
	}

	result, err := gb.Max()
	if err != nil {
		t.Fatalf("Max failed: %v", err)
	}
	grupo, _ := result.Column(GroupKeyLabel)
	if grupo.Get(2) != "Sur, A" {
		t.Errorf("Grupo[2] = %v, want Sur, A", grupo.Get(2))
	}
}

func TestGroupByMissingKey(t *testing.T) {
	df, _ := FromStrings([][]string{{"k", "v"}, {"x", "1"}, {"", "2"}, {"", "3"}}, true)

	gb, _ := df.GroupBy(StringLabel("k"))
	result, err := gb.Sum()
	if err != nil {
		t.Fatalf("Sum failed: %v", err)
	}
	c, err := result.Cell(StringLabel("NA"), StringLabel("v"))
	if err != nil {
		t.Fatalf("missing keys should form an NA group: %v", err)
	}
	if c.Value() != 5.0 {
		t.Errorf("sum for NA = %v, want 5.0", c.Value())
	}
}

func TestGroupByAggColumns(t *testing.T) {
	df := salesFrame(t)
	gb, _ := df.GroupBy(StringLabel("Grupo"))

	result, err := gb.AggColumns(map[Label]AggOp{StringLabel("Unidades"): AggCount})
	if err != nil {
		t.Fatalf("AggColumns failed: %v", err)
	}
	if got := result.Columns(); len(got) != 2 || got[1] != "Unidades" {
		t.Errorf("Columns() = %v, want [Grupo Unidades]", got)
	}

	if _, err := gb.AggColumns(map[Label]AggOp{StringLabel("Region"): AggSum}); !errors.Is(err, ErrTypeIncompatible) {
		t.Errorf("AggColumns on text error = %v, want ErrTypeIncompatible", err)
	}
	if _, err := gb.AggColumns(map[Label]AggOp{StringLabel("Nada"): AggSum}); !errors.Is(err, ErrLabelNotFound) {
		t.Errorf("AggColumns on unknown column error = %v, want ErrLabelNotFound", err)
	}
	if _, err := gb.Agg(AggOp(99)); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("Agg(99) error = %v, want ErrInvalidParameter", err)
	}
}

func TestGroupByErrors(t *testing.T) {
	df := salesFrame(t)

	if _, err := df.GroupBy(); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("GroupBy() error = %v, want ErrInvalidParameter", err)
	}
	if _, err := df.GroupBy(StringLabel("Pais")); !errors.Is(err, ErrLabelNotFound) {
		t.Errorf("GroupBy(Pais) error = %v, want ErrLabelNotFound", err)
	}
}

func TestParseAggOp(t *testing.T) {
	tests := map[string]AggOp{
		"sum": AggSum, "MAX": AggMax, "min": AggMin, "count": AggCount,
		"avg": AggMean, "variance": AggVar, "stddev": AggStd,
	}
	for in, want := range tests {
		got, err := ParseAggOp(in)
		if err != nil || got != want {
			t.Errorf("ParseAggOp(%q) = %v, %v, want %v", in, got, err, want)
		}
	}
	if _, err := ParseAggOp("median"); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("ParseAggOp(median) error = %v, want ErrInvalidParameter", err)
	}
}

func TestGroupByIgnoresLaterSourceChanges(t *testing.T) {
	df := salesFrame(t)
	gb, err := df.GroupBy(StringLabel("Grupo"))
	if err != nil {
		t.Fatalf("GroupBy failed: %v", err)
	}

	last := df.RowLabels()[df.Height()-1]
	if err := df.DropRow(last); err != nil {
		t.Fatalf("DropRow failed: %v", err)
	}
	if err := df.SetCell(df.RowLabels()[0], StringLabel("Valor"), 100); err != nil {
		t.Fatalf("SetCell failed: %v", err)
	}

	result, err := gb.Sum()
	if err != nil {
		t.Fatalf("Sum failed: %v", err)
	}
	if got := result.Height(); got != 3 {
		t.Errorf("Height() = %d, want 3", got)
	}
	if got, want := floatColumn(t, result, "Valor"), []float64{22, 15, math.NaN()}; !floatsEqual(got, want) {
		t.Errorf("Valor sums = %v, want %v", got, want)
	}
}
