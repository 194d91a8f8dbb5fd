package jandas

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// BatchReader is an interface for reading data in batches.
// This enables processing of inputs too large to parse in one go.
type BatchReader interface {
	// Next reads the next batch of data.
	// Returns io.EOF when there are no more batches.
	Next(ctx context.Context) (*DataFrame, error)

	// Schema returns the schema of the data.
	// May return nil if schema is unknown until first read.
	Schema() *Schema

	// Close releases any resources held by the reader.
	Close() error
}

// ============================================================================
// Pipeline API for Streaming Processing
// ============================================================================

// Pipeline represents a streaming data processing pipeline. Filters run
// before transforms, both once per batch.
type Pipeline struct {
	reader     BatchReader
	transforms []func(*DataFrame) (*DataFrame, error)
	filters    []Condition
	limit      int
	hasLimit   bool
}

// NewPipeline creates a new streaming pipeline from a batch reader.
func NewPipeline(reader BatchReader) *Pipeline {
	return &Pipeline{
		reader:     reader,
		transforms: make([]func(*DataFrame) (*DataFrame, error), 0),
		filters:    make([]Condition, 0),
	}
}

// Filter adds a row predicate to the pipeline.
func (p *Pipeline) Filter(cond Condition) *Pipeline {
	p.filters = append(p.filters, cond)
	return p
}

// Transform adds a transformation function to the pipeline.
func (p *Pipeline) Transform(fn func(*DataFrame) (*DataFrame, error)) *Pipeline {
	p.transforms = append(p.transforms, fn)
	return p
}

// Limit sets a maximum number of rows Collect returns.
func (p *Pipeline) Limit(n int) *Pipeline {
	p.limit = max(n, 0)
	p.hasLimit = true
	return p
}

// next reads one batch and runs the filters and transforms over it.
func (p *Pipeline) next(ctx context.Context) (*DataFrame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	batch, err := p.reader.Next(ctx)
	if err != nil {
		return nil, err
	}

	// Apply filters
	for _, cond := range p.filters {
		batch, err = batch.Filter(cond)
		if err != nil {
			return nil, err
		}
	}

	// Apply transforms
	for i, transform := range p.transforms {
		batch, err = transform(batch)
		if err != nil {
			return nil, fmt.Errorf("transform %d: %w", i, err)
		}
		if batch == nil {
			return nil, fmt.Errorf("%w: transform %d returned no DataFrame", ErrNullArgument, i)
		}
	}
	return batch, nil
}

// Collect processes all batches and combines the results into a single
// DataFrame with row labels 0..n-1.
func (p *Pipeline) Collect(ctx context.Context) (*DataFrame, error) {
	var results []*DataFrame
	totalRows := 0

	for !p.hasLimit || totalRows < p.limit {
		batch, err := p.next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		if p.hasLimit && batch.Height() > p.limit-totalRows {
			batch = batch.Slice(0, p.limit-totalRows)
		}
		if batch.Height() == 0 {
			continue
		}

		results = append(results, batch)
		totalRows += batch.Height()
	}

	// Combine all batches
	if len(results) == 0 {
		// Return empty DataFrame with schema if available
		if schema := p.reader.Schema(); schema != nil {
			return emptyDataFrameFromSchema(schema), nil
		}
		return NewDataFrame()
	}

	logger().Debug("collected pipeline", "batches", len(results), "rows", totalRows)
	return ConcatDataFrames(results...)
}

// ForEach processes each batch without combining results.
// Useful for aggregations or side effects. The limit is not applied.
func (p *Pipeline) ForEach(ctx context.Context, fn func(*DataFrame) error) error {
	for {
		batch, err := p.next(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		// Call user function
		if err := fn(batch); err != nil {
			return err
		}
	}
}

// emptyDataFrameFromSchema creates an empty DataFrame with the given schema
func emptyDataFrameFromSchema(schema *Schema) *DataFrame {
	series := make([]*Series, schema.Len())
	for i, l := range schema.Labels() {
		series[i] = NewEmptySeries(l, schema.DTypes()[i])
	}
	return fromOwned([]Label{}, series)
}
