package jandas

import (
	"fmt"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// labelKindKey marks Arrow fields whose name is an integer column label.
const labelKindKey = "jandas.label"

// ============================================================================
// Arrow Export
// ============================================================================

// ToArrow exports a DataFrame to an Arrow Record. Missing cells become Arrow
// nulls; row labels are not exported.
// The caller is responsible for calling Release() on the returned Record.
func (df *DataFrame) ToArrow(mem memory.Allocator) (arrow.Record, error) {
	if mem == nil {
		mem = memory.DefaultAllocator
	}

	// Build Arrow schema
	fields := make([]arrow.Field, df.Width())
	for i, col := range df.columns {
		arrowType, err := dtypeToArrowType(col.DType())
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col.label.Quoted(), err)
		}
		fields[i] = arrow.Field{Name: col.Name(), Type: arrowType, Nullable: true}
		if col.label.IsInt() {
			fields[i].Metadata = arrow.NewMetadata([]string{labelKindKey}, []string{"int"})
		}
	}
	schema := arrow.NewSchema(fields, nil)

	// Convert each column to Arrow array
	arrays := make([]arrow.Array, df.Width())
	for i, col := range df.columns {
		arrays[i] = seriesToArrowArray(col, mem)
	}

	// Create Record
	record := array.NewRecord(schema, arrays, int64(df.Height()))

	// Release arrays (Record retains them)
	for _, arr := range arrays {
		arr.Release()
	}

	return record, nil
}

// ToArrowTable exports a DataFrame to an Arrow Table.
// The caller is responsible for calling Release() on the returned Table.
func (df *DataFrame) ToArrowTable(mem memory.Allocator) (arrow.Table, error) {
	record, err := df.ToArrow(mem)
	if err != nil {
		return nil, err
	}
	defer record.Release()

	return array.NewTableFromRecords(record.Schema(), []arrow.Record{record}), nil
}

// dtypeToArrowType converts a DType to the Arrow DataType it exports as
func dtypeToArrowType(dtype DType) (arrow.DataType, error) {
	switch dtype {
	case Float64:
		return arrow.PrimitiveTypes.Float64, nil
	case Int64:
		return arrow.PrimitiveTypes.Int64, nil
	case Bool:
		return arrow.FixedWidthTypes.Boolean, nil
	case String:
		return arrow.BinaryTypes.String, nil
	default:
		return nil, fmt.Errorf("%w: unsupported dtype %s", ErrTypeIncompatible, dtype)
	}
}

// seriesToArrowArray converts a Series to an Arrow Array
func seriesToArrowArray(s *Series, mem memory.Allocator) arrow.Array {
	valid := make([]bool, s.Len())
	for i, c := range s.cells {
		valid[i] = !c.IsMissing()
	}

	switch s.DType() {
	case Float64:
		builder := array.NewFloat64Builder(mem)
		defer builder.Release()
		builder.AppendValues(s.Float64(), valid)
		return builder.NewArray()

	case Int64:
		builder := array.NewInt64Builder(mem)
		defer builder.Release()
		builder.AppendValues(s.Int64(), valid)
		return builder.NewArray()

	case Bool:
		builder := array.NewBooleanBuilder(mem)
		defer builder.Release()
		builder.AppendValues(s.Bools(), valid)
		return builder.NewArray()

	default:
		builder := array.NewStringBuilder(mem)
		defer builder.Release()
		builder.AppendValues(s.Strings(), valid)
		return builder.NewArray()
	}
}

// ============================================================================
// Arrow Import
// ============================================================================

// NewDataFrameFromArrow creates a DataFrame from an Arrow Record.
// Arrow nulls become missing cells; row labels are 0..n-1.
func NewDataFrameFromArrow(record arrow.Record) (*DataFrame, error) {
	if record == nil {
		return nil, fmt.Errorf("%w: record", ErrNullArgument)
	}

	schema := record.Schema()
	numCols := int(record.NumCols())
	series := make([]*Series, numCols)

	for i := 0; i < numCols; i++ {
		field := schema.Field(i)
		s, err := newArrowSeries(field)
		if err != nil {
			return nil, err
		}
		if err := appendArrowArray(s, record.Column(i)); err != nil {
			return nil, fmt.Errorf("column %s: %w", field.Name, err)
		}
		series[i] = s
	}

	return NewDataFrameWithLabels(DefaultLabels(int(record.NumRows())), series...)
}

// NewDataFrameFromArrowTable creates a DataFrame from an Arrow Table,
// combining the chunks of every column.
func NewDataFrameFromArrowTable(table arrow.Table) (*DataFrame, error) {
	if table == nil {
		return nil, fmt.Errorf("%w: table", ErrNullArgument)
	}

	schema := table.Schema()
	numCols := int(table.NumCols())
	series := make([]*Series, numCols)

	for i := 0; i < numCols; i++ {
		field := schema.Field(i)
		s, err := newArrowSeries(field)
		if err != nil {
			return nil, err
		}
		for j, chunk := range table.Column(i).Data().Chunks() {
			if err := appendArrowArray(s, chunk); err != nil {
				return nil, fmt.Errorf("column %s chunk %d: %w", field.Name, j, err)
			}
		}
		series[i] = s
	}

	return NewDataFrameWithLabels(DefaultLabels(int(table.NumRows())), series...)
}

// newArrowSeries creates the empty Series an Arrow field imports into.
func newArrowSeries(field arrow.Field) (*Series, error) {
	dtype, err := arrowTypeToDType(field.Type)
	if err != nil {
		return nil, fmt.Errorf("column %s: %w", field.Name, err)
	}
	label := StringLabel(field.Name)
	if kind, ok := field.Metadata.GetValue(labelKindKey); ok && kind == "int" {
		if n, err := strconv.Atoi(field.Name); err == nil {
			label = IntLabel(n)
		}
	}
	return NewEmptySeries(label, dtype), nil
}

// arrowTypeToDType maps Arrow types onto the four column dtypes. Narrow
// integers widen to Int64 and float32 to Float64.
func arrowTypeToDType(t arrow.DataType) (DType, error) {
	switch t.ID() {
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32:
		return Int64, nil
	case arrow.FLOAT32, arrow.FLOAT64:
		return Float64, nil
	case arrow.BOOL:
		return Bool, nil
	case arrow.STRING, arrow.LARGE_STRING:
		return String, nil
	default:
		return 0, fmt.Errorf("%w: unsupported Arrow type %s", ErrTypeIncompatible, t)
	}
}

// appendArrowArray appends the values of arr to s, nulls as missing cells.
func appendArrowArray(s *Series, arr arrow.Array) error {
	var value func(i int) any
	switch a := arr.(type) {
	case *array.Int8:
		value = func(i int) any { return int64(a.Value(i)) }
	case *array.Int16:
		value = func(i int) any { return int64(a.Value(i)) }
	case *array.Int32:
		value = func(i int) any { return int64(a.Value(i)) }
	case *array.Int64:
		value = func(i int) any { return a.Value(i) }
	case *array.Uint8:
		value = func(i int) any { return int64(a.Value(i)) }
	case *array.Uint16:
		value = func(i int) any { return int64(a.Value(i)) }
	case *array.Uint32:
		value = func(i int) any { return int64(a.Value(i)) }
	case *array.Float32:
		value = func(i int) any { return float64(a.Value(i)) }
	case *array.Float64:
		value = func(i int) any { return a.Value(i) }
	case *array.Boolean:
		value = func(i int) any { return a.Value(i) }
	case *array.String:
		value = func(i int) any { return a.Value(i) }
	case *array.LargeString:
		value = func(i int) any { return a.Value(i) }
	default:
		return fmt.Errorf("%w: unsupported Arrow array type %T", ErrTypeIncompatible, arr)
	}

	for i := 0; i < arr.Len(); i++ {
		if arr.IsNull(i) {
			s.cells = append(s.cells, Cell{})
			continue
		}
		s.cells = append(s.cells, Cell{value: value(i)})
	}
	return nil
}
