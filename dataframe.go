package jandas

import (
	"fmt"
)

// DataFrame is an ordered collection of equally long Series plus one label
// per row. Column labels are unique; row labels are looked up by value.
//
// Operations such as Filter, SortBy, Sample or GroupBy return new, independent
// DataFrames. Only SetCell, the impute methods and the Add/Drop methods modify
// a DataFrame in place.
type DataFrame struct {
	columns   []*Series
	colIndex  map[Label]int
	rowLabels []Label
}

// ============================================================================
// Creation
// ============================================================================

// NewDataFrame creates a DataFrame from series of equal length.
// The series are copied; row labels default to 0..n-1.
func NewDataFrame(series ...*Series) (*DataFrame, error) {
	height := 0
	if len(series) > 0 && series[0] != nil {
		height = series[0].Len()
	}
	return NewDataFrameWithLabels(DefaultLabels(height), series...)
}

// NewDataFrameWithLabels creates a DataFrame with explicit row labels.
func NewDataFrameWithLabels(rowLabels []Label, series ...*Series) (*DataFrame, error) {
	df := newFrame(len(series))
	for i, s := range series {
		if s == nil {
			return nil, fmt.Errorf("%w: series %d", ErrNullArgument, i)
		}
		if s.Len() != len(rowLabels) {
			return nil, dimensionErr(fmt.Sprintf("rows in column %s", s.label.Quoted()), len(rowLabels), s.Len())
		}
		if _, dup := df.colIndex[s.label]; dup {
			return nil, fmt.Errorf("%w: duplicate column label %s", ErrInvalidParameter, s.label.Quoted())
		}
		df.colIndex[s.label] = i
		df.columns = append(df.columns, s.Clone())
	}
	if len(series) > 0 {
		df.rowLabels = append([]Label{}, rowLabels...)
	}
	return df, nil
}

func newFrame(width int) *DataFrame {
	return &DataFrame{
		columns:   make([]*Series, 0, width),
		colIndex:  make(map[Label]int, width),
		rowLabels: []Label{},
	}
}

// fromOwned assembles a DataFrame from series it may keep without copying.
func fromOwned(rowLabels []Label, series []*Series) *DataFrame {
	df := newFrame(len(series))
	for i, s := range series {
		df.colIndex[s.label] = i
		df.columns = append(df.columns, s)
	}
	df.rowLabels = rowLabels
	return df
}

// FromRecords builds a DataFrame from a rectangular matrix.
//
// With hasHeader the first row supplies the column labels (integer values give
// integer labels, anything else text labels) and at least one data row must
// follow. Without a header, columns are labelled 0..n-1.
//
// Data values are parsed (integer, float, boolean literal, text; empty text is
// missing) and each column's dtype is inferred from its values.
func FromRecords(records [][]any, hasHeader bool) (*DataFrame, error) {
	minRows := 1
	if hasHeader {
		minRows = 2
	}
	if len(records) < minRows {
		return nil, dimensionErr("matrix rows", minRows, len(records))
	}
	width := len(records[0])
	if width == 0 {
		return nil, fmt.Errorf("%w: matrix has no columns", ErrEmptyTable)
	}
	for i, row := range records {
		if len(row) != width {
			return nil, dimensionErr(fmt.Sprintf("columns in row %d", i), width, len(row))
		}
	}

	labels := DefaultLabels(width)
	data := records
	if hasHeader {
		for j, v := range records[0] {
			l, err := headerLabel(v)
			if err != nil {
				return nil, fmt.Errorf("header column %d: %w", j, err)
			}
			labels[j] = l
		}
		data = records[1:]
	}

	series := make([]*Series, width)
	column := make([]any, len(data))
	for j := 0; j < width; j++ {
		for i, row := range data {
			column[i] = row[j]
		}
		s, err := inferSeries(labels[j], column)
		if err != nil {
			return nil, err
		}
		series[j] = s
	}

	return NewDataFrameWithLabels(DefaultLabels(len(data)), series...)
}

// FromStrings is FromRecords for a matrix of text.
func FromStrings(records [][]string, hasHeader bool) (*DataFrame, error) {
	return FromRecords(stringsToAny(records), hasHeader)
}

// FromFlat reshapes values row-major into numCols columns and builds the
// DataFrame with FromRecords.
func FromFlat(values []string, numCols int, hasHeader bool) (*DataFrame, error) {
	if numCols <= 0 {
		return nil, fmt.Errorf("%w: column count %d", ErrInvalidParameter, numCols)
	}
	if len(values)%numCols != 0 {
		return nil, fmt.Errorf("%w: %d values do not divide into %d columns", ErrDimensionMismatch, len(values), numCols)
	}
	records := make([][]string, 0, len(values)/numCols)
	for i := 0; i < len(values); i += numCols {
		records = append(records, values[i:i+numCols])
	}
	return FromStrings(records, hasHeader)
}

func stringsToAny(records [][]string) [][]any {
	out := make([][]any, len(records))
	for i, row := range records {
		out[i] = make([]any, len(row))
		for j, v := range row {
			out[i][j] = v
		}
	}
	return out
}

// ============================================================================
// Access
// ============================================================================

// Height returns the number of rows in the DataFrame.
func (df *DataFrame) Height() int {
	return len(df.rowLabels)
}

// Width returns the number of columns in the DataFrame.
func (df *DataFrame) Width() int {
	return len(df.columns)
}

// Shape returns (rows, columns).
func (df *DataFrame) Shape() (int, int) {
	return df.Height(), df.Width()
}

// ColumnLabels returns the column labels in order.
func (df *DataFrame) ColumnLabels() []Label {
	labels := make([]Label, len(df.columns))
	for i, s := range df.columns {
		labels[i] = s.label
	}
	return labels
}

// Columns returns the column labels formatted as text.
func (df *DataFrame) Columns() []string {
	names := make([]string, len(df.columns))
	for i, s := range df.columns {
		names[i] = s.Name()
	}
	return names
}

// RowLabels returns a copy of the row labels.
func (df *DataFrame) RowLabels() []Label {
	return append([]Label{}, df.rowLabels...)
}

// DTypes returns the dtype of every column.
func (df *DataFrame) DTypes() []DType {
	dtypes := make([]DType, len(df.columns))
	for i, s := range df.columns {
		dtypes[i] = s.dtype
	}
	return dtypes
}

// Schema returns the column labels and dtypes.
func (df *DataFrame) Schema() *Schema {
	return &Schema{labels: df.ColumnLabels(), dtypes: df.DTypes()}
}

// HasColumn reports whether a column with the label exists.
func (df *DataFrame) HasColumn(label Label) bool {
	_, ok := df.colIndex[label]
	return ok
}

// Column returns a copy of the column with the given label.
func (df *DataFrame) Column(label Label) (*Series, error) {
	i, err := df.columnPos(label)
	if err != nil {
		return nil, err
	}
	return df.columns[i].Clone(), nil
}

// ColumnByName returns a copy of the column whose label formats as name.
func (df *DataFrame) ColumnByName(name string) (*Series, error) {
	i, err := df.columnPosByName(name)
	if err != nil {
		return nil, err
	}
	return df.columns[i].Clone(), nil
}

// ColumnAt returns a copy of the column at position i.
func (df *DataFrame) ColumnAt(i int) (*Series, error) {
	if i < 0 || i >= len(df.columns) {
		return nil, fmt.Errorf("%w: column %d of %d", ErrIndexOutOfRange, i, len(df.columns))
	}
	return df.columns[i].Clone(), nil
}

// Series returns copies of all columns.
func (df *DataFrame) Series() []*Series {
	out := make([]*Series, len(df.columns))
	for i, s := range df.columns {
		out[i] = s.Clone()
	}
	return out
}

// Cell returns the cell at the given row and column labels.
func (df *DataFrame) Cell(row, col Label) (Cell, error) {
	r, c, err := df.resolve(row, col)
	if err != nil {
		return Cell{}, err
	}
	return df.columns[c].cells[r], nil
}

// At returns the cell at the given row and column positions.
func (df *DataFrame) At(row, col int) (Cell, error) {
	if col < 0 || col >= len(df.columns) {
		return Cell{}, fmt.Errorf("%w: column %d of %d", ErrIndexOutOfRange, col, len(df.columns))
	}
	return df.columns[col].Cell(row)
}

// Row returns a copy of the cells of the row with the given label.
func (df *DataFrame) Row(label Label) ([]Cell, error) {
	r, err := df.rowPos(label)
	if err != nil {
		return nil, err
	}
	return df.rowCells(r), nil
}

// RowAt returns a copy of the cells at row position i.
func (df *DataFrame) RowAt(i int) ([]Cell, error) {
	if i < 0 || i >= df.Height() {
		return nil, fmt.Errorf("%w: row %d of %d", ErrIndexOutOfRange, i, df.Height())
	}
	return df.rowCells(i), nil
}

func (df *DataFrame) rowCells(r int) []Cell {
	cells := make([]Cell, len(df.columns))
	for j, s := range df.columns {
		cells[j] = s.cells[r]
	}
	return cells
}

func (df *DataFrame) columnPos(label Label) (int, error) {
	i, ok := df.colIndex[label]
	if !ok {
		return -1, labelNotFound("column", label)
	}
	return i, nil
}

func (df *DataFrame) columnPosByName(name string) (int, error) {
	if i, ok := df.colIndex[StringLabel(name)]; ok {
		return i, nil
	}
	for i, s := range df.columns {
		if s.label.String() == name {
			return i, nil
		}
	}
	return -1, labelNotFound("column", StringLabel(name))
}

func (df *DataFrame) rowPos(label Label) (int, error) {
	for i, l := range df.rowLabels {
		if l == label {
			return i, nil
		}
	}
	return -1, labelNotFound("row", label)
}

func (df *DataFrame) resolve(row, col Label) (int, int, error) {
	r, err := df.rowPos(row)
	if err != nil {
		return -1, -1, err
	}
	c, err := df.columnPos(col)
	if err != nil {
		return -1, -1, err
	}
	return r, c, nil
}

// ============================================================================
// Structural changes
// ============================================================================

// AddColumn appends a copy of the series as the last column.
// On a DataFrame without columns the series seeds the row count and, unless
// row labels were already assigned, default labels 0..n-1. Otherwise its
// length must match Height.
func (df *DataFrame) AddColumn(series *Series) error {
	if series == nil {
		return fmt.Errorf("%w: series", ErrNullArgument)
	}
	if _, dup := df.colIndex[series.label]; dup {
		return fmt.Errorf("%w: duplicate column label %s", ErrInvalidParameter, series.label.Quoted())
	}
	if len(df.columns) == 0 {
		switch {
		case len(df.rowLabels) == 0:
			df.rowLabels = DefaultLabels(series.Len())
		case len(df.rowLabels) != series.Len():
			return dimensionErr(fmt.Sprintf("rows in column %s", series.label.Quoted()), len(df.rowLabels), series.Len())
		}
	} else if series.Len() != df.Height() {
		return dimensionErr(fmt.Sprintf("rows in column %s", series.label.Quoted()), df.Height(), series.Len())
	}

	df.colIndex[series.label] = len(df.columns)
	df.columns = append(df.columns, series.Clone())
	return nil
}

// AddRow appends a row labelled with the next free integer label.
func (df *DataFrame) AddRow(values ...any) error {
	return df.AddRowWithLabel(nextIntLabel(df.rowLabels), values...)
}

// AddRowWithLabel appends a row. One value per column is required; values are
// checked against each column's dtype and no re-inference takes place.
func (df *DataFrame) AddRowWithLabel(label Label, values ...any) error {
	if len(df.columns) == 0 {
		return fmt.Errorf("%w: cannot add a row to a table without columns", ErrEmptyTable)
	}
	if len(values) != len(df.columns) {
		return dimensionErr("row values", len(df.columns), len(values))
	}

	cells := make([]Cell, len(values))
	for j, v := range values {
		c, err := df.columns[j].check(v)
		if err != nil {
			return err
		}
		cells[j] = c
	}

	for j, c := range cells {
		df.columns[j].cells = append(df.columns[j].cells, c)
	}
	df.rowLabels = append(df.rowLabels, label)
	return nil
}

// DropColumn removes a column and its label.
func (df *DataFrame) DropColumn(label Label) error {
	pos, err := df.columnPos(label)
	if err != nil {
		return err
	}
	df.columns = append(df.columns[:pos], df.columns[pos+1:]...)
	delete(df.colIndex, label)
	for i := pos; i < len(df.columns); i++ {
		df.colIndex[df.columns[i].label] = i
	}
	return nil
}

// DropRow removes the first row with the given label from every column.
func (df *DataFrame) DropRow(label Label) error {
	pos, err := df.rowPos(label)
	if err != nil {
		return err
	}
	for _, s := range df.columns {
		s.cells = append(s.cells[:pos], s.cells[pos+1:]...)
	}
	df.rowLabels = append(df.rowLabels[:pos], df.rowLabels[pos+1:]...)
	return nil
}

// SetRowLabels replaces the row labels. One label per row is required.
func (df *DataFrame) SetRowLabels(labels []Label) error {
	if len(labels) != df.Height() {
		return dimensionErr("row labels", df.Height(), len(labels))
	}
	df.rowLabels = append([]Label{}, labels...)
	return nil
}

// ============================================================================
// Cell updates
// ============================================================================

// SetCell overwrites the value at the given row and column labels. The value
// must match the column dtype; nil marks the cell missing.
func (df *DataFrame) SetCell(row, col Label, value any) error {
	r, c, err := df.resolve(row, col)
	if err != nil {
		return err
	}
	return df.columns[c].Set(r, value)
}

// ImputeColumn replaces every missing cell of a column with value.
func (df *DataFrame) ImputeColumn(label Label, value any) error {
	c, err := df.columnPos(label)
	if err != nil {
		return err
	}
	n, err := df.columns[c].FillNull(value)
	if err != nil {
		return err
	}
	logger().Debug("imputed column", "column", label.String(), "filled", n)
	return nil
}

// ImputeDefault fills missing cells of every column with the dtype default:
// 0 for Int64, 0.0 for Float64, "" for String and false for Bool.
func (df *DataFrame) ImputeDefault() {
	for _, s := range df.columns {
		// the zero value always matches the series dtype
		_, _ = s.FillNull(s.dtype.zero())
	}
}

// ============================================================================
// Selection
// ============================================================================

// Select returns a new DataFrame with only the given columns, in that order.
func (df *DataFrame) Select(labels ...Label) (*DataFrame, error) {
	series := make([]*Series, len(labels))
	for i, l := range labels {
		pos, err := df.columnPos(l)
		if err != nil {
			return nil, err
		}
		series[i] = df.columns[pos]
	}
	return NewDataFrameWithLabels(df.rowLabels, series...)
}

// Drop returns a new DataFrame without the given columns.
func (df *DataFrame) Drop(labels ...Label) (*DataFrame, error) {
	dropSet := make(map[Label]bool, len(labels))
	for _, l := range labels {
		if _, err := df.columnPos(l); err != nil {
			return nil, err
		}
		dropSet[l] = true
	}

	series := make([]*Series, 0, len(df.columns))
	for _, s := range df.columns {
		if !dropSet[s.label] {
			series = append(series, s)
		}
	}
	return NewDataFrameWithLabels(df.rowLabels, series...)
}

// Rename returns a new DataFrame with a column relabelled.
func (df *DataFrame) Rename(oldLabel, newLabel Label) (*DataFrame, error) {
	pos, err := df.columnPos(oldLabel)
	if err != nil {
		return nil, err
	}
	series := make([]*Series, len(df.columns))
	copy(series, df.columns)
	series[pos] = series[pos].Rename(newLabel)
	return NewDataFrameWithLabels(df.rowLabels, series...)
}

// take returns a new DataFrame with the rows at the given positions, keeping
// their labels.
func (df *DataFrame) take(indices []int) *DataFrame {
	labels := make([]Label, len(indices))
	for i, idx := range indices {
		labels[i] = df.rowLabels[idx]
	}
	series := make([]*Series, len(df.columns))
	for j, s := range df.columns {
		series[j] = s.Take(indices)
	}
	return fromOwned(labels, series)
}

// FilterMask returns a new DataFrame with rows where mask is true.
// The mask length must match the DataFrame height.
func (df *DataFrame) FilterMask(mask []bool) (*DataFrame, error) {
	if len(mask) != df.Height() {
		return nil, dimensionErr("mask length", df.Height(), len(mask))
	}
	indices := make([]int, 0, len(mask))
	for i, keep := range mask {
		if keep {
			indices = append(indices, i)
		}
	}
	return df.take(indices), nil
}

// ============================================================================
// Copying
// ============================================================================

// Copy returns a deep copy of the DataFrame. Nothing is shared with the source.
func (df *DataFrame) Copy() *DataFrame {
	series := make([]*Series, len(df.columns))
	for i, s := range df.columns {
		series[i] = s.Clone()
	}
	return fromOwned(append([]Label{}, df.rowLabels...), series)
}

// Head returns a new DataFrame with the first n rows. n must be positive and
// is clamped to the row count.
func (df *DataFrame) Head(n int) (*DataFrame, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: head count %d", ErrInvalidParameter, n)
	}
	return df.Slice(0, n), nil
}

// Tail returns a new DataFrame with the last n rows. n must be positive and is
// clamped to the row count.
func (df *DataFrame) Tail(n int) (*DataFrame, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: tail count %d", ErrInvalidParameter, n)
	}
	return df.Slice(df.Height()-n, df.Height()), nil
}

// Slice returns a new DataFrame with rows from start to end (exclusive).
// Bounds are clamped to the table.
func (df *DataFrame) Slice(start, end int) *DataFrame {
	start = max(start, 0)
	end = min(end, df.Height())
	if start > end {
		start = end
	}
	indices := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		indices = append(indices, i)
	}
	return df.take(indices)
}

// emptyLike returns a DataFrame with the same columns and no rows.
func (df *DataFrame) emptyLike() *DataFrame {
	return df.take(nil)
}

// Equal reports whether both DataFrames have the same row labels, column
// labels, dtypes and values.
func (df *DataFrame) Equal(other *DataFrame) bool {
	if other == nil || df.Height() != other.Height() || df.Width() != other.Width() {
		return false
	}
	for i, l := range df.rowLabels {
		if other.rowLabels[i] != l {
			return false
		}
	}
	for j, s := range df.columns {
		if !s.Equal(other.columns[j]) {
			return false
		}
	}
	return true
}

// String formats the DataFrame using the global display configuration.
func (df *DataFrame) String() string {
	return df.StringWithConfig(GetDisplayConfig())
}
