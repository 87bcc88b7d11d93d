package candgen

import (
	"fmt"

	"gonum.org/v1/gonum/stat/combin"

	"github.com/javmunozm/randomsub/draw"
)

// Exhaustive streams every 14-number combination of a pool in lexicographic
// order. It generates lazily; the full combination space (C(25,14) ≈ 4.46M
// at the largest) is never materialized.
type Exhaustive struct {
	pool []int
	gen  *combin.CombinationGenerator
	idx  []int
}

// NewExhaustive builds a generator over the numbers of pool, which must
// contain at least 14 numbers. The pool is usually the whole universe or a
// model-reduced subset of it.
func NewExhaustive(pool draw.Set) (*Exhaustive, error) {
	if pool.Card() < draw.DrawSize {
		return nil, fmt.Errorf("pool %v has %d numbers; need at least %d",
			pool, pool.Card(), draw.DrawSize)
	}
	nums := pool.Numbers()
	return &Exhaustive{
		pool: nums,
		gen:  combin.NewCombinationGenerator(len(nums), draw.DrawSize),
		idx:  make([]int, draw.DrawSize),
	}, nil
}

// Size returns the total number of combinations this generator will yield.
func (e *Exhaustive) Size() int {
	return combin.Binomial(len(e.pool), draw.DrawSize)
}

// Next returns the next combination, or ErrSpaceExhausted after all
// C(len(pool), 14) of them have been yielded.
func (e *Exhaustive) Next() (draw.Set, error) {
	if !e.gen.Next() {
		return 0, ErrSpaceExhausted
	}
	e.gen.Combination(e.idx)
	var s draw.Set
	for _, i := range e.idx {
		s = s.Add(e.pool[i])
	}
	return s, nil
}
