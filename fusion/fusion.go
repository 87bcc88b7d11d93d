// Package fusion combines several number sets into a single candidate:
// numbers shared by more of the inputs come first, ties are broken by a
// caller-supplied weight, and the remainder of the universe fills any gap.
// One parameterized operation replaces the per-K variants ("fusion",
// "symmetric difference", "quint fusion") of the original analysis scripts.
package fusion

import (
	"fmt"
	"sort"

	"github.com/samber/lo"

	"github.com/javmunozm/randomsub/draw"
)

// WeightFn breaks ranking ties between numbers that appear in the same
// count of input sets. Higher wins.
type WeightFn func(n int) float64

// NoWeight breaks every tie by number order alone.
func NoWeight(int) float64 { return 0 }

// Fuse merges the input sets into a set of exactly size numbers.
// Ranking: occurrence count across the inputs descending, then weight
// descending, then number ascending, so the result is deterministic for a
// deterministic weight function. Numbers absent from every input are ranked
// last but are used to fill up to size when the union is too small.
func Fuse(sets []draw.Set, tieBreak WeightFn, size int) (draw.Set, error) {
	if size < 1 || size > draw.MaxNumber {
		return 0, fmt.Errorf("fusion size %d out of range [1, %d]", size, draw.MaxNumber)
	}
	if tieBreak == nil {
		tieBreak = NoWeight
	}
	counts := make(map[int]int, draw.MaxNumber)
	for _, s := range sets {
		for _, n := range s.Numbers() {
			counts[n]++
		}
	}
	ranked := lo.RangeFrom(1, draw.MaxNumber)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if counts[a] != counts[b] {
			return counts[a] > counts[b]
		}
		wa, wb := tieBreak(a), tieBreak(b)
		if wa != wb {
			return wa > wb
		}
		return a < b
	})
	var out draw.Set
	for _, n := range ranked[:size] {
		out = out.Add(n)
	}
	return out, nil
}

// FuseDraws is the common case: fuse full draws down to a 14-number
// candidate.
func FuseDraws(draws []draw.Set, tieBreak WeightFn) (draw.Set, error) {
	return Fuse(draws, tieBreak, draw.DrawSize)
}
