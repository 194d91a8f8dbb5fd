package jandas

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// CSVReadOptions configures CSV reading behavior
type CSVReadOptions struct {
	Delimiter   rune             // Field delimiter (default ',')
	HasHeader   bool             // First row is header (default true)
	NullValue   string           // Token read as a missing value (default "NA"); empty fields are always missing
	ColumnTypes map[string]DType // Force column types instead of inferring them
	SkipRows    int              // Skip first N rows
	MaxRows     int              // Max rows to read (0 = unlimited)
	TrimSpace   bool             // Trim leading whitespace from fields
	Comment     rune             // Comment character (skip lines starting with this)
}

// DefaultCSVReadOptions returns default CSV reading options
func DefaultCSVReadOptions() CSVReadOptions {
	return CSVReadOptions{
		Delimiter: ',',
		HasHeader: true,
		NullValue: NullString,
		TrimSpace: true,
	}
}

// ReadCSV reads a CSV file into a DataFrame
func ReadCSV(path string, opts ...CSVReadOptions) (*DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	df, err := ReadCSVFromReader(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return df, nil
}

// ReadCSVFromReader reads CSV data from an io.Reader into a DataFrame.
//
// Fields equal to the null token or empty are missing. Every other field is
// parsed as an integer, a float, a boolean literal or text, and each column's
// dtype is inferred unless ColumnTypes forces one. Without a header, columns
// are labelled 0..n-1. Row labels are 0..n-1.
func ReadCSVFromReader(r io.Reader, opts ...CSVReadOptions) (*DataFrame, error) {
	opt := DefaultCSVReadOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}

	reader := newCSVReader(r, opt.Delimiter, opt.Comment, opt.TrimSpace)

	// Skip rows
	for i := 0; i < opt.SkipRows; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, fmt.Errorf("failed to skip row %d: %w", i, err)
		}
	}

	// Read header
	var header []string
	if opt.HasHeader {
		var err error
		header, err = reader.Read()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: no header row", ErrEmptyTable)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read header: %w", err)
		}
	}

	// Read all data
	var records [][]string
	for opt.MaxRows <= 0 || len(records) < opt.MaxRows {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(records), err)
		}
		records = append(records, record)
	}

	if header == nil {
		if len(records) == 0 {
			return NewDataFrame()
		}
		header = make([]string, len(records[0]))
	}

	df, err := buildCSVFrame(header, opt.HasHeader, records, opt.NullValue, opt.ColumnTypes)
	if err != nil {
		return nil, err
	}
	logger().Debug("read csv", "rows", df.Height(), "columns", df.Width())
	return df, nil
}

// newCSVReader configures an encoding/csv reader. Field counts are checked by
// the frame builder so errors carry row numbers relative to the data.
func newCSVReader(r io.Reader, delimiter, comment rune, trim bool) *csv.Reader {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	if comment != 0 {
		reader.Comment = comment
	}
	reader.TrimLeadingSpace = trim
	reader.FieldsPerRecord = -1
	return reader
}

// csvLabels turns header fields into column labels, or 0..n-1 without a header.
func csvLabels(header []string, hasHeader bool) ([]Label, error) {
	if !hasHeader {
		return DefaultLabels(len(header)), nil
	}
	labels := make([]Label, len(header))
	seen := make(map[Label]bool, len(header))
	for j, h := range header {
		l := StringLabel(strings.TrimSpace(h))
		if seen[l] {
			return nil, fmt.Errorf("%w: duplicate column label %s", ErrInvalidParameter, l.Quoted())
		}
		seen[l] = true
		labels[j] = l
	}
	return labels, nil
}

// buildCSVFrame parses text records into typed columns. types forces the dtype
// of the columns it names; the others are inferred.
func buildCSVFrame(header []string, hasHeader bool, records [][]string, nullValue string, types map[string]DType) (*DataFrame, error) {
	labels, err := csvLabels(header, hasHeader)
	if err != nil {
		return nil, err
	}
	dtypes := make([]DType, len(labels))
	forced := make([]bool, len(labels))
	for j, l := range labels {
		if dt, ok := types[l.String()]; ok {
			dtypes[j], forced[j] = dt, true
		}
	}
	return parseCSVColumns(labels, dtypes, forced, records, nullValue)
}

// parseCSVColumns builds one series per label from records. Where forced[j] is
// set the column is coerced to dtypes[j]; otherwise its dtype is inferred.
func parseCSVColumns(labels []Label, dtypes []DType, forced []bool, records [][]string, nullValue string) (*DataFrame, error) {
	width := len(labels)
	for i, rec := range records {
		if len(rec) != width {
			return nil, dimensionErr(fmt.Sprintf("fields in row %d", i), width, len(rec))
		}
	}

	series := make([]*Series, width)
	values := make([]rawValue, len(records))
	for j, label := range labels {
		for i, rec := range records {
			field := rec[j]
			if nullValue != "" && strings.TrimSpace(field) == nullValue {
				values[i] = rawValue{}
				continue
			}
			values[i] = parseField(field)
		}
		dtype := dtypes[j]
		if !forced[j] {
			dtype = inferDType(values)
		}
		s, err := buildSeries(label, dtype, values)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", label.Quoted(), err)
		}
		series[j] = s
	}
	return fromOwned(DefaultLabels(len(records)), series), nil
}

// CSVWriteOptions configures CSV writing behavior
type CSVWriteOptions struct {
	Delimiter   rune   // Field delimiter (default ',')
	WriteHeader bool   // Write header row (default true)
	NullString  string // String to write for missing values (default "NA")
}

// DefaultCSVWriteOptions returns default CSV writing options
func DefaultCSVWriteOptions() CSVWriteOptions {
	return CSVWriteOptions{
		Delimiter:   ',',
		WriteHeader: true,
		NullString:  NullString,
	}
}

// WriteCSV writes a DataFrame to a CSV file
func (df *DataFrame) WriteCSV(path string, opts ...CSVWriteOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := df.WriteCSVToWriter(w, opts...); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return f.Close()
}

// WriteCSVToWriter writes a DataFrame to an io.Writer. Row labels are not
// written. Floats always carry a decimal point so their dtype survives a
// round trip.
func (df *DataFrame) WriteCSVToWriter(w io.Writer, opts ...CSVWriteOptions) error {
	opt := DefaultCSVWriteOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}

	writer := csv.NewWriter(w)
	writer.Comma = opt.Delimiter

	// Write header
	if opt.WriteHeader {
		if err := writer.Write(df.Columns()); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	row := make([]string, df.Width())
	for i := 0; i < df.Height(); i++ {
		for j, s := range df.columns {
			c := s.cells[i]
			if c.IsMissing() {
				row[j] = opt.NullString
			} else {
				row[j] = formatValue(c.value)
			}
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	logger().Debug("wrote csv", "rows", df.Height(), "columns", df.Width())
	return nil
}
