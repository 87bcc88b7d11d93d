// Package backtest walks a prediction strategy forward over the historical
// series and reports its hit-rate. Every strategy sees only the history
// strictly before the series it predicts.
package backtest

import (
	"math/rand/v2"
	"sort"

	"github.com/javmunozm/randomsub/draw"
	"github.com/javmunozm/randomsub/fusion"
	"github.com/javmunozm/randomsub/learner"
	"github.com/javmunozm/randomsub/weights"
)

// Strategy produces candidate draws for a target series from prior history.
type Strategy interface {
	Name() string
	Predict(h *draw.History, target int) ([]draw.Set, error)
}

// FrequencyStrategy predicts the 14 highest-weighted numbers.
type FrequencyStrategy struct {
	Scorer *weights.Scorer
}

func (fs *FrequencyStrategy) Name() string { return "frequency" }

func (fs *FrequencyStrategy) Predict(h *draw.History, target int) ([]draw.Set, error) {
	if h.Before(target).Len() == 0 {
		return nil, draw.ErrNoSeries
	}
	sc := fs.Scorer
	if sc == nil {
		sc = weights.NewScorer()
	}
	w := sc.Compute(h, target)
	nums := make([]int, 0, draw.MaxNumber)
	for n := 1; n <= draw.MaxNumber; n++ {
		nums = append(nums, n)
	}
	sort.SliceStable(nums, func(i, j int) bool {
		return w[nums[i]] > w[nums[j]]
	})
	var c draw.Set
	for _, n := range nums[:draw.DrawSize] {
		c = c.Add(n)
	}
	return []draw.Set{c}, nil
}

// FusionStrategy fuses the previous series' 7 draws, breaking ties with
// frequency weights.
type FusionStrategy struct {
	Scorer *weights.Scorer
}

func (fs *FusionStrategy) Name() string { return "fusion" }

func (fs *FusionStrategy) Predict(h *draw.History, target int) ([]draw.Set, error) {
	prior := h.Before(target)
	ids := prior.IDs()
	if len(ids) == 0 {
		return nil, draw.ErrNoSeries
	}
	last, err := prior.Get(ids[len(ids)-1])
	if err != nil {
		return nil, err
	}
	sc := fs.Scorer
	if sc == nil {
		sc = weights.NewScorer()
	}
	w := sc.Compute(h, target)
	c, err := fusion.FuseDraws(last.Draws[:], func(n int) float64 { return w[n] })
	if err != nil {
		return nil, err
	}
	return []draw.Set{c}, nil
}

// LearnerStrategy trains an adaptive model on the prior history and takes
// its top candidates. Seed controls the model's RNG so runs reproduce.
type LearnerStrategy struct {
	Candidates int
	Seed       uint64
}

func (ls *LearnerStrategy) Name() string { return "learner" }

func (ls *LearnerStrategy) Predict(h *draw.History, target int) ([]draw.Set, error) {
	if h.Before(target).Len() == 0 {
		return nil, draw.ErrNoSeries
	}
	count := ls.Candidates
	if count < 1 {
		count = 5
	}
	rng := rand.New(rand.NewPCG(ls.Seed, uint64(target)))
	m := learner.New(rng)
	m.TrainBefore(h, target)
	return m.Candidates(count)
}
