package weights

import (
	"errors"
	"math/rand/v2"

	"github.com/javmunozm/randomsub/draw"
)

var ErrNoChoices = errors.New("no numbers left to choose from")

// Pick selects one number from the universe, excluding the numbers in
// taken, with probability proportional to its weight. If every remaining
// number has zero weight the pick is uniform over the remainder; the search
// must not stall just because history never produced some number.
func Pick(rng *rand.Rand, w Weights, taken draw.Set) (int, error) {
	var nums [draw.MaxNumber]int
	var cumulative [draw.MaxNumber]float64
	count := 0
	total := 0.0
	for n := 1; n <= draw.MaxNumber; n++ {
		if taken.Has(n) {
			continue
		}
		total += w[n]
		nums[count] = n
		cumulative[count] = total
		count++
	}
	if count == 0 {
		return 0, ErrNoChoices
	}
	if total == 0 {
		return nums[rng.IntN(count)], nil
	}
	r := rng.Float64() * total
	for i := 0; i < count; i++ {
		if r < cumulative[i] {
			return nums[i], nil
		}
	}
	// Float roundoff can leave r equal to the total.
	return nums[count-1], nil
}

// SampleDraw samples a full 14-number draw without replacement, each step
// choosing among the remaining numbers proportionally to their weight.
func SampleDraw(rng *rand.Rand, w Weights) (draw.Set, error) {
	var s draw.Set
	for i := 0; i < draw.DrawSize; i++ {
		n, err := Pick(rng, w, s)
		if err != nil {
			return 0, err
		}
		s = s.Add(n)
	}
	return s, nil
}
