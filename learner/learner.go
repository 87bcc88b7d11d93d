// Package learner implements an adaptive prediction model. It keeps a
// multiplicatively-updated weight per number plus a pairwise affinity table,
// and generates candidates by weighted sampling biased toward number pairs
// that have appeared together. Updates renormalize on every observation so
// the accumulators stay bounded no matter how long the model trains.
package learner

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/javmunozm/randomsub/draw"
	"github.com/javmunozm/randomsub/weights"
)

const (
	defaultReward   = 1.15
	defaultPenalty  = 0.92
	defaultPairBias = 0.5
	// How many raw samples to draw per requested candidate before keeping
	// the top-scored ones.
	oversample = 40
)

// Model is not safe for concurrent use; each run owns its own instance.
type Model struct {
	rng *rand.Rand

	weights  weights.Weights
	pair     [draw.MaxNumber + 1][draw.MaxNumber + 1]float64
	reward   float64
	penalty  float64
	pairBias float64
	observed int
}

// New builds an untrained model around an explicit RNG. The initial state
// is uniform: every number and every pair equally likely.
func New(rng *rand.Rand) *Model {
	m := &Model{
		rng:      rng,
		weights:  weights.Uniform(),
		reward:   defaultReward,
		penalty:  defaultPenalty,
		pairBias: defaultPairBias,
	}
	for a := 1; a <= draw.MaxNumber; a++ {
		for b := 1; b <= draw.MaxNumber; b++ {
			m.pair[a][b] = 1
		}
	}
	return m
}

// SetFactors overrides the multiplicative update factors. reward must be
// >= 1 and penalty in (0, 1].
func (m *Model) SetFactors(reward, penalty float64) error {
	if reward < 1 {
		return fmt.Errorf("reward %f must be >= 1", reward)
	}
	if penalty <= 0 || penalty > 1 {
		return fmt.Errorf("penalty %f must be in (0, 1]", penalty)
	}
	m.reward = reward
	m.penalty = penalty
	return nil
}

func (m *Model) Observed() int {
	return m.observed
}

// Observe feeds one series into the model. Numbers that appeared in any of
// the series' draws are rewarded and the rest penalized; every pair drawn
// together strengthens its affinity. The weight table and the affinity
// table are rescaled to a max of 1 before returning, an invariant of the
// update procedure rather than a periodic cleanup.
func (m *Model) Observe(s *draw.Series) {
	var appeared draw.Set
	for _, d := range s.Draws {
		appeared = appeared.Union(d)
		nums := d.Numbers()
		for i, a := range nums {
			for _, b := range nums[i+1:] {
				m.pair[a][b] *= m.reward
				m.pair[b][a] = m.pair[a][b]
			}
		}
	}
	for n := 1; n <= draw.MaxNumber; n++ {
		if appeared.Has(n) {
			m.weights[n] *= m.reward
		} else {
			m.weights[n] *= m.penalty
		}
	}
	m.weights = m.weights.Normalize()
	m.rescalePairs()
	m.observed++
}

func (m *Model) rescalePairs() {
	maxp := 0.0
	for a := 1; a <= draw.MaxNumber; a++ {
		for b := a + 1; b <= draw.MaxNumber; b++ {
			if m.pair[a][b] > maxp {
				maxp = m.pair[a][b]
			}
		}
	}
	if maxp == 0 {
		return
	}
	for a := 1; a <= draw.MaxNumber; a++ {
		for b := 1; b <= draw.MaxNumber; b++ {
			if a != b {
				m.pair[a][b] /= maxp
			}
		}
	}
}

// TrainBefore observes every series of h strictly before target, oldest
// first.
func (m *Model) TrainBefore(h *draw.History, target int) {
	prior := h.Before(target)
	for _, id := range prior.IDs() {
		s, err := prior.Get(id)
		if err != nil {
			continue
		}
		m.Observe(s)
	}
	log.Debug().Int("target", target).Int("observed", m.observed).Msg("model trained")
}

// Score rates a candidate by its numbers' weights plus the mean affinity of
// its internal pairs.
func (m *Model) Score(c draw.Set) float64 {
	nums := c.Numbers()
	total := 0.0
	pairSum := 0.0
	pairs := 0
	for i, a := range nums {
		total += m.weights[a]
		for _, b := range nums[i+1:] {
			pairSum += m.pair[a][b]
			pairs++
		}
	}
	if pairs > 0 {
		total += m.pairBias * pairSum / float64(pairs)
	}
	return total
}

// sample draws one candidate, the probability of each next number scaled by
// its weight and its mean affinity to the numbers already chosen.
func (m *Model) sample() (draw.Set, error) {
	var chosen draw.Set
	for chosen.Card() < draw.DrawSize {
		w := m.weights
		if chosen != 0 {
			picked := chosen.Numbers()
			for n := 1; n <= draw.MaxNumber; n++ {
				if chosen.Has(n) {
					continue
				}
				aff := 0.0
				for _, p := range picked {
					aff += m.pair[n][p]
				}
				w[n] *= 1 + m.pairBias*aff/float64(len(picked))
			}
		}
		n, err := weights.Pick(m.rng, w, chosen)
		if err != nil {
			return 0, err
		}
		chosen = chosen.Add(n)
	}
	return chosen, nil
}

// Candidates generates count distinct candidates: it oversamples from the
// model's distribution and keeps the top-scored ones. Deterministic given
// the model state and its RNG seed.
func (m *Model) Candidates(count int) ([]draw.Set, error) {
	if count < 1 {
		return nil, fmt.Errorf("candidate count %d must be positive", count)
	}
	seen := make(map[draw.Set]struct{})
	// Duplicates consume attempts too, so a near-degenerate distribution
	// cannot loop forever here.
	for attempt := 0; attempt < count*oversample; attempt++ {
		c, err := m.sample()
		if err != nil {
			return nil, err
		}
		seen[c] = struct{}{}
	}
	cands := make([]draw.Set, 0, len(seen))
	for c := range seen {
		cands = append(cands, c)
	}
	// Lexicographic order first, then a stable sort by score, so equal
	// scores tie-break toward the lexicographically smaller candidate.
	draw.SortSets(cands)
	sort.SliceStable(cands, func(i, j int) bool {
		return m.Score(cands[i]) > m.Score(cands[j])
	})
	if len(cands) > count {
		cands = cands[:count]
	}
	return cands, nil
}
