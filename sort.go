package jandas

import (
	"fmt"
	"slices"
)

// Criterion is one sort key: a column and a direction.
type Criterion struct {
	Column     Label
	Descending bool
}

// Asc sorts by column in ascending order.
func Asc(column Label) Criterion { return Criterion{Column: column} }

// Desc sorts by column in descending order.
func Desc(column Label) Criterion { return Criterion{Column: column, Descending: true} }

func (c Criterion) String() string {
	if c.Descending {
		return c.Column.String() + " desc"
	}
	return c.Column.String() + " asc"
}

// Sort returns a new DataFrame sorted by a single column.
func (df *DataFrame) Sort(column Label, ascending bool) (*DataFrame, error) {
	return df.SortBy(Criterion{Column: column, Descending: !ascending})
}

// SortBy returns a new DataFrame with rows ordered by the criteria.
//
// Criteria are applied in order; the first one that tells two rows apart
// decides. Missing values sort last regardless of direction. The sort is
// stable, so rows that tie on every criterion keep their relative order.
// Row labels travel with their rows.
func (df *DataFrame) SortBy(criteria ...Criterion) (*DataFrame, error) {
	if len(criteria) == 0 {
		return nil, fmt.Errorf("%w: no sort criteria", ErrInvalidParameter)
	}

	keys := make([]*Series, len(criteria))
	for i, c := range criteria {
		pos, err := df.columnPos(c.Column)
		if err != nil {
			return nil, err
		}
		keys[i] = df.columns[pos]
	}

	indices := make([]int, df.Height())
	for i := range indices {
		indices[i] = i
	}

	slices.SortStableFunc(indices, func(a, b int) int {
		for k, c := range criteria {
			if r := compareCells(keys[k].cells[a], keys[k].cells[b], c.Descending); r != 0 {
				return r
			}
		}
		return 0
	})

	return df.take(indices), nil
}

// compareCells orders two cells of the same column. Missing cells come last in
// both directions.
func compareCells(a, b Cell, descending bool) int {
	switch {
	case a.value == nil && b.value == nil:
		return 0
	case a.value == nil:
		return 1
	case b.value == nil:
		return -1
	}
	// cells of one series always share a dtype, so the comparison cannot fail
	r, _ := compareValues(a.value, b.value)
	if descending {
		return -r
	}
	return r
}
