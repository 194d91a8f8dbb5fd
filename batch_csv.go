package jandas

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// CSVBatchReader reads CSV data in batches.
//
// The first batch fixes the schema: column dtypes are taken from DTypes or
// inferred from that batch. Later batches are coerced to it, so an Int64
// value landing in a Float64 column is widened while anything else that does
// not fit is an error. Row labels continue across batches.
type CSVBatchReader struct {
	reader    *csv.Reader
	closer    io.Closer
	labels    []Label
	dtypes    []DType
	nullValue string
	batchSize int
	schema    *Schema
	offset    int
	done      bool
}

// CSVBatchReaderOptions configures CSV batch reading.
type CSVBatchReaderOptions struct {
	// BatchSize is the number of rows per batch
	BatchSize int

	// DTypes specifies column types. If nil, types are inferred.
	DTypes []DType

	// Delimiter is the field delimiter (default ',')
	Delimiter rune

	// NullValue is read as a missing value (default "NA")
	NullValue string
}

// DefaultCSVBatchReaderOptions returns default options.
func DefaultCSVBatchReaderOptions() CSVBatchReaderOptions {
	return CSVBatchReaderOptions{
		BatchSize: 65536,
		Delimiter: ',',
		NullValue: NullString,
	}
}

// NewCSVBatchReader creates a new CSV batch reader.
// The header row is read immediately. If r is an io.Closer, Close closes it.
func NewCSVBatchReader(r io.Reader, opts ...CSVBatchReaderOptions) (*CSVBatchReader, error) {
	opt := DefaultCSVBatchReaderOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}
	if opt.BatchSize <= 0 {
		return nil, fmt.Errorf("%w: batch size %d", ErrInvalidParameter, opt.BatchSize)
	}
	if opt.Delimiter == 0 {
		opt.Delimiter = ','
	}

	csvReader := newCSVReader(r, opt.Delimiter, 0, true)

	// Read header row
	header, err := csvReader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: no header row", ErrEmptyTable)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	labels, err := csvLabels(header, true)
	if err != nil {
		return nil, err
	}

	// If types are specified, use them; otherwise, will infer later
	var dtypes []DType
	if opt.DTypes != nil {
		if len(opt.DTypes) != len(labels) {
			return nil, dimensionErr("column types", len(labels), len(opt.DTypes))
		}
		dtypes = append([]DType{}, opt.DTypes...)
	}

	var closer io.Closer
	if c, ok := r.(io.Closer); ok {
		closer = c
	}

	br := &CSVBatchReader{
		reader:    csvReader,
		closer:    closer,
		labels:    labels,
		dtypes:    dtypes,
		nullValue: opt.NullValue,
		batchSize: opt.BatchSize,
	}
	if dtypes != nil {
		if br.schema, err = NewSchema(labels, dtypes); err != nil {
			return nil, err
		}
	}
	return br, nil
}

// Next reads the next batch of data.
func (r *CSVBatchReader) Next(ctx context.Context) (*DataFrame, error) {
	if r.done {
		return nil, io.EOF
	}

	// Read up to batchSize rows
	records := make([][]string, 0, r.batchSize)
	for len(records) < r.batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := r.reader.Read()
		if errors.Is(err, io.EOF) {
			r.done = true
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", r.offset+len(records), err)
		}
		records = append(records, record)
	}

	if len(records) == 0 {
		r.done = true
		return nil, io.EOF
	}

	forced := make([]bool, len(r.labels))
	dtypes := r.dtypes
	if dtypes != nil {
		for i := range forced {
			forced[i] = true
		}
	} else {
		dtypes = make([]DType, len(r.labels))
	}

	df, err := parseCSVColumns(r.labels, dtypes, forced, records, r.nullValue)
	if err != nil {
		return nil, fmt.Errorf("batch at row %d: %w", r.offset, err)
	}

	// Infer types from the first batch
	if r.dtypes == nil {
		r.dtypes = df.DTypes()
		r.schema = df.Schema()
	}

	labels := make([]Label, df.Height())
	for i := range labels {
		labels[i] = IntLabel(r.offset + i)
	}
	df.rowLabels = labels
	r.offset += df.Height()

	logger().Debug("read csv batch", "rows", df.Height(), "offset", r.offset)
	return df, nil
}

// Schema returns the schema of the data.
func (r *CSVBatchReader) Schema() *Schema {
	return r.schema
}

// Close releases resources.
func (r *CSVBatchReader) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}
