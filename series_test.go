package jandas

import (
	"errors"
	"math"
	"testing"
)

func TestSeriesCreate(t *testing.T) {
	s := NewSeriesFloat64("Valor", []float64{1.5, 2.5, 3.5})

	if s.Name() != "Valor" {
		t.Errorf("Name() = %s, want Valor", s.Name())
	}
	if s.Label() != StringLabel("Valor") {
		t.Errorf("Label() = %v, want Valor", s.Label())
	}
	if s.DType() != Float64 {
		t.Errorf("DType() = %s, want Float64", s.DType())
	}
	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}
	if got := s.Get(1); got != 2.5 {
		t.Errorf("Get(1) = %v, want 2.5", got)
	}
	if got := s.Get(10); got != nil {
		t.Errorf("Get(10) = %v, want nil", got)
	}
}

func TestNewSeriesChecksValues(t *testing.T) {
	s, err := NewSeries(StringLabel("x"), Float64, 1, 2.5, nil)
	if err != nil {
		t.Fatalf("NewSeries failed: %v", err)
	}
	if got := s.Get(0); got != 1.0 {
		t.Errorf("integer in Float64 series = %v (%T), want 1.0", got, got)
	}
	if s.NullCount() != 1 {
		t.Errorf("NullCount() = %d, want 1", s.NullCount())
	}

	if _, err := NewSeries(StringLabel("x"), Int64, 1, 2.5); !errors.Is(err, ErrTypeIncompatible) {
		t.Errorf("float in Int64 series error = %v, want ErrTypeIncompatible", err)
	}
	if _, err := NewSeries(StringLabel("x"), Bool, "true"); !errors.Is(err, ErrTypeIncompatible) {
		t.Errorf("text in Bool series error = %v, want ErrTypeIncompatible", err)
	}
	if _, err := NewSeries(StringLabel("x"), DType(42)); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("unknown dtype error = %v, want ErrInvalidParameter", err)
	}
}

func TestSeriesWithNulls(t *testing.T) {
	s, err := NewSeriesInt64WithNulls("Edad", []int64{25, 0, 30}, []bool{true, false, true})
	if err != nil {
		t.Fatalf("NewSeriesInt64WithNulls failed: %v", err)
	}
	if !s.HasNulls() || s.NullCount() != 1 {
		t.Errorf("NullCount() = %d, want 1", s.NullCount())
	}
	if s.IsValid(1) {
		t.Error("IsValid(1) should be false")
	}
	if got := s.Strings(); got[1] != "NA" {
		t.Errorf("Strings()[1] = %s, want NA", got[1])
	}
	if f := s.Float64(); !math.IsNaN(f[1]) || f[0] != 25 {
		t.Errorf("Float64() = %v, want [25 NaN 30]", f)
	}

	if _, err := NewSeriesFloat64WithNulls("x", []float64{1}, []bool{true, false}); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("mask length error = %v, want ErrDimensionMismatch", err)
	}
}

func TestSeriesSetAppend(t *testing.T) {
	s := NewSeriesFloat64("x", []float64{1, 2})

	if err := s.Set(0, int64(10)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if got := s.Get(0); got != 10.0 {
		t.Errorf("Get(0) = %v, want 10.0", got)
	}
	if err := s.Set(5, 1.0); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Set(5) error = %v, want ErrIndexOutOfRange", err)
	}
	if err := s.Set(0, "diez"); !errors.Is(err, ErrTypeIncompatible) {
		t.Errorf("Set(text) error = %v, want ErrTypeIncompatible", err)
	}

	if err := s.Append(nil); err != nil {
		t.Fatalf("Append(nil) failed: %v", err)
	}
	if s.Len() != 3 || s.IsValid(2) {
		t.Errorf("after Append(nil): Len = %d, IsValid(2) = %v", s.Len(), s.IsValid(2))
	}
}

func TestSeriesFillNull(t *testing.T) {
	s, _ := NewSeries(StringLabel("Ciudad"), String, "Lima", nil, nil)

	n, err := s.FillNull("Desconocida")
	if err != nil {
		t.Fatalf("FillNull failed: %v", err)
	}
	if n != 2 {
		t.Errorf("FillNull filled %d, want 2", n)
	}
	if s.HasNulls() {
		t.Error("series should have no nulls after FillNull")
	}

	if _, err := s.FillNull(nil); !errors.Is(err, ErrNullArgument) {
		t.Errorf("FillNull(nil) error = %v, want ErrNullArgument", err)
	}
	if _, err := s.FillNull(3); !errors.Is(err, ErrTypeIncompatible) {
		t.Errorf("FillNull(3) error = %v, want ErrTypeIncompatible", err)
	}
}

func TestSeriesCloneIndependent(t *testing.T) {
	s := NewSeriesInt64("x", []int64{1, 2, 3})
	c := s.Clone()
	_ = c.Set(0, 100)

	if s.Get(0) != int64(1) {
		t.Errorf("original changed after modifying clone: %v", s.Get(0))
	}
	if !s.Equal(NewSeriesInt64("x", []int64{1, 2, 3})) {
		t.Error("Equal should hold for identical series")
	}
	if s.Equal(c) {
		t.Error("Equal should not hold after modifying clone")
	}
}

func TestSeriesSlicing(t *testing.T) {
	s := NewSeriesInt64("x", []int64{1, 2, 3, 4, 5})

	tests := []struct {
		name string
		got  *Series
		want []int64
	}{
		{"Head(2)", s.Head(2), []int64{1, 2}},
		{"Tail(2)", s.Tail(2), []int64{4, 5}},
		{"Head(10)", s.Head(10), []int64{1, 2, 3, 4, 5}},
		{"Slice(1,3)", s.Slice(1, 3), []int64{2, 3}},
		{"Slice(4,2)", s.Slice(4, 2), []int64{}},
		{"Take", s.Take([]int{4, 0}), []int64{5, 1}},
	}
	for _, tt := range tests {
		got := tt.got.Int64()
		if len(got) != len(tt.want) {
			t.Errorf("%s = %v, want %v", tt.name, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("%s = %v, want %v", tt.name, got, tt.want)
				break
			}
		}
	}
}

func TestSeriesCast(t *testing.T) {
	s, _ := NewSeriesInt64WithNulls("x", []int64{1, 2}, []bool{true, false})

	f, err := s.Cast(Float64)
	if err != nil {
		t.Fatalf("Cast(Float64) failed: %v", err)
	}
	if f.DType() != Float64 || f.Get(0) != 1.0 || f.Get(1) != nil {
		t.Errorf("Cast(Float64) = %v", f.Values())
	}

	str, err := f.Cast(String)
	if err != nil {
		t.Fatalf("Cast(String) failed: %v", err)
	}
	if str.Get(0) != "1.0" {
		t.Errorf("Cast(String).Get(0) = %v, want 1.0", str.Get(0))
	}

	if _, err := str.Cast(Int64); !errors.Is(err, ErrTypeIncompatible) {
		t.Errorf("Cast(String->Int64) error = %v, want ErrTypeIncompatible", err)
	}
}

func TestSeriesEqualNaN(t *testing.T) {
	a := NewSeriesFloat64("x", []float64{math.NaN(), 1})
	b := NewSeriesFloat64("x", []float64{math.NaN(), 1})
	if !a.Equal(b) {
		t.Error("NaN values should compare equal in Series.Equal")
	}
	if a.Equal(a.Rename(StringLabel("y"))) {
		t.Error("series with different labels should not be equal")
	}
}
