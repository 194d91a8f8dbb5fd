package jandas

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"
)

// The sampler draws from one process-wide generator. SetSeed makes every
// subsequent Sample, SampleN and StratifiedSample call reproducible.
var (
	sampleRand = rand.New(rand.NewSource(time.Now().UnixNano()))
	sampleMu   sync.Mutex
)

// SetSeed reseeds the generator used for sampling.
func SetSeed(seed int64) {
	sampleMu.Lock()
	defer sampleMu.Unlock()
	sampleRand = rand.New(rand.NewSource(seed))
}

// SetRandSource replaces the generator used for sampling. nil is ignored.
func SetRandSource(r *rand.Rand) {
	if r == nil {
		return
	}
	sampleMu.Lock()
	defer sampleMu.Unlock()
	sampleRand = r
}

// shuffled returns a random permutation of indices.
func shuffled(indices []int) []int {
	out := append([]int{}, indices...)
	sampleMu.Lock()
	defer sampleMu.Unlock()
	sampleRand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// drawDistinct picks k distinct positions from [0, n) uniformly without
// replacement by shuffling and taking the first k.
func drawDistinct(n, k int) []int {
	all := make([]int, n)
	for i := range all {
		all[i] = i
	}
	return shuffled(all)[:k]
}

// sampleSize is max(1, round(n * percent / 100)), capped at n.
func sampleSize(n int, percent float64) int {
	k := int(math.Round(float64(n) * percent / 100))
	return min(max(k, 1), n)
}

func checkPercent(percent float64) error {
	if math.IsNaN(percent) || percent < 1 || percent > 100 {
		return fmt.Errorf("%w: percent %v outside [1, 100]", ErrInvalidParameter, percent)
	}
	return nil
}

// Sample returns a random percent (1-100) of the rows, at least one.
// 100 returns a full copy. Sampled rows are not kept in their original order;
// they keep their original labels.
func (df *DataFrame) Sample(percent float64) (*DataFrame, error) {
	if err := checkPercent(percent); err != nil {
		return nil, err
	}
	n := df.Height()
	if n == 0 {
		return nil, fmt.Errorf("%w: cannot sample a table without rows", ErrEmptyTable)
	}
	if percent >= 100 {
		return df.Copy(), nil
	}

	k := sampleSize(n, percent)
	logger().Debug("sampling rows", "rows", n, "percent", percent, "take", k)
	return df.take(drawDistinct(n, k)), nil
}

// SampleN returns count random rows. count is clamped to [0, Height]; 0 gives
// an empty DataFrame with the same columns and Height or more a full copy.
func (df *DataFrame) SampleN(count int) (*DataFrame, error) {
	n := df.Height()
	count = min(max(count, 0), n)
	switch count {
	case 0:
		return df.emptyLike(), nil
	case n:
		return df.Copy(), nil
	}
	logger().Debug("sampling rows", "rows", n, "take", count)
	return df.take(drawDistinct(n, count)), nil
}

// StratifiedSample samples each distinct value of column independently.
// Every stratum (missing values form their own) contributes
// max(1, round(size * percent / 100)) rows; the combined rows are shuffled so
// the result carries no grouping order.
func (df *DataFrame) StratifiedSample(column Label, percent float64) (*DataFrame, error) {
	if err := checkPercent(percent); err != nil {
		return nil, err
	}
	pos, err := df.columnPos(column)
	if err != nil {
		return nil, err
	}
	if df.Height() == 0 {
		return nil, fmt.Errorf("%w: cannot sample a table without rows", ErrEmptyTable)
	}

	// strata in first-seen order keeps the draw deterministic under a fixed seed
	type stratum struct {
		missing bool
		text    string
	}
	s := df.columns[pos]
	var order []stratum
	strata := make(map[stratum][]int)
	for i, c := range s.cells {
		key := stratum{missing: c.IsMissing(), text: c.String()}
		if _, ok := strata[key]; !ok {
			order = append(order, key)
		}
		strata[key] = append(strata[key], i)
	}

	chosen := make([]int, 0, df.Height())
	for _, key := range order {
		rows := strata[key]
		k := sampleSize(len(rows), percent)
		chosen = append(chosen, shuffled(rows)[:k]...)
	}

	logger().Debug("stratified sample", "column", column.String(), "strata", len(order), "take", len(chosen))
	return df.take(shuffled(chosen)), nil
}
