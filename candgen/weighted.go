package candgen

import (
	"math/rand/v2"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/stat/combin"

	"github.com/javmunozm/randomsub/draw"
	"github.com/javmunozm/randomsub/weights"
)

// DefaultAttemptBudget is how many rejected samples WeightedRandom tolerates
// before flattening to uniform sampling.
const DefaultAttemptBudget = 1000

// WeightedRandom samples candidates number-by-number without replacement,
// each step proportional to the number's weight. Candidates already in the
// exclusion set are rejected and resampled; accepted candidates join the
// exclusion set before being returned, so no candidate is ever produced
// twice. The RNG is owned by the caller: two generators built from
// identically-seeded RNGs produce identical runs.
type WeightedRandom struct {
	rng           *rand.Rand
	weights       weights.Weights
	exclude       map[draw.Set]struct{}
	attemptBudget int
	spaceSize     int
}

// NewWeightedRandom builds a weighted sampler. exclude may be nil; passing
// History.AllDraws() makes the sampler skip every known historical draw.
// The exclusion set is owned by the generator after this call.
func NewWeightedRandom(rng *rand.Rand, w weights.Weights, exclude map[draw.Set]struct{}) *WeightedRandom {
	if exclude == nil {
		exclude = make(map[draw.Set]struct{})
	}
	return &WeightedRandom{
		rng:           rng,
		weights:       w,
		exclude:       exclude,
		attemptBudget: DefaultAttemptBudget,
		spaceSize:     combin.Binomial(draw.MaxNumber, draw.DrawSize),
	}
}

// SetAttemptBudget overrides the per-candidate rejection budget. It must be
// at least 1.
func (g *WeightedRandom) SetAttemptBudget(n int) {
	if n < 1 {
		n = 1
	}
	g.attemptBudget = n
}

// Excluded returns the current size of the exclusion set.
func (g *WeightedRandom) Excluded() int {
	return len(g.exclude)
}

// Next returns a fresh candidate not present in the exclusion set, adding it
// to the set before returning. When the whole C(25,14) space is excluded it
// returns ErrSpaceExhausted.
func (g *WeightedRandom) Next() (draw.Set, error) {
	if len(g.exclude) >= g.spaceSize {
		return 0, ErrSpaceExhausted
	}
	// Weighted attempts first, then uniform. Uniform sampling reaches
	// combinations that zero weights make unreachable, so this also
	// guarantees progress when the weighted distribution covers fewer than
	// 14 numbers' worth of mass.
	for attempt := 0; attempt < g.attemptBudget; attempt++ {
		c, err := weights.SampleDraw(g.rng, g.weights)
		if err != nil {
			return 0, err
		}
		if _, seen := g.exclude[c]; seen {
			continue
		}
		g.exclude[c] = struct{}{}
		return c, nil
	}
	log.Debug().Int("budget", g.attemptBudget).Int("excluded", len(g.exclude)).
		Msg("attempt budget exceeded; falling back to uniform sampling")
	uniform := weights.Uniform()
	for attempt := 0; attempt < g.attemptBudget; attempt++ {
		c, err := weights.SampleDraw(g.rng, uniform)
		if err != nil {
			return 0, err
		}
		if _, seen := g.exclude[c]; seen {
			continue
		}
		g.exclude[c] = struct{}{}
		return c, nil
	}
	// The space is close to full. Sweep it deterministically so that
	// termination no longer depends on luck.
	return g.sweep()
}

func (g *WeightedRandom) sweep() (draw.Set, error) {
	ex, err := NewExhaustive(draw.Universe)
	if err != nil {
		return 0, err
	}
	for {
		c, err := ex.Next()
		if err != nil {
			return 0, ErrSpaceExhausted
		}
		if _, seen := g.exclude[c]; seen {
			continue
		}
		g.exclude[c] = struct{}{}
		return c, nil
	}
}
