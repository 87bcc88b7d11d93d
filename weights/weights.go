// Package weights turns draw history into per-number sampling weights.
// Weights are recomputed per prediction target from the history strictly
// before that target; they are never persisted.
package weights

import (
	"math"

	"github.com/rs/zerolog/log"

	"github.com/javmunozm/randomsub/draw"
)

// Weights maps each number 1..25 to a non-negative scalar. Index 0 is
// unused. A Weights value is always kept normalized so that the largest
// weight is exactly 1 (or the whole thing is uniform); see Normalize.
type Weights [draw.MaxNumber + 1]float64

// Uniform returns the fallback distribution: every number weighted 1.
func Uniform() Weights {
	var w Weights
	for n := 1; n <= draw.MaxNumber; n++ {
		w[n] = 1
	}
	return w
}

// Normalize rescales so the maximum weight is 1. Unbounded multiplicative
// updates blow up the accumulators otherwise, so every producer of Weights
// calls this before handing the value out. An all-zero distribution (empty
// history) becomes uniform rather than degenerate.
func (w Weights) Normalize() Weights {
	maxw := 0.0
	for n := 1; n <= draw.MaxNumber; n++ {
		if w[n] > maxw {
			maxw = w[n]
		}
	}
	if maxw == 0 {
		return Uniform()
	}
	for n := 1; n <= draw.MaxNumber; n++ {
		w[n] /= maxw
	}
	return w
}

// Sqrt applies a square-root transform, flattening the distribution to
// reduce sampling bias toward the most frequent numbers.
func (w Weights) Sqrt() Weights {
	for n := 1; n <= draw.MaxNumber; n++ {
		w[n] = math.Sqrt(w[n])
	}
	return w
}

// Total returns the sum of all weights.
func (w Weights) Total() float64 {
	t := 0.0
	for n := 1; n <= draw.MaxNumber; n++ {
		t += w[n]
	}
	return t
}

// Scorer computes weights from history. Decay must be in (0, 1]; a decay of
// 1 with no window degenerates to a plain frequency count. Window restricts
// scoring to the most recent Window series before the target (0 means
// unbounded).
type Scorer struct {
	Decay  float64
	Window int
}

// NewScorer returns a plain-frequency scorer.
func NewScorer() *Scorer {
	return &Scorer{Decay: 1.0}
}

// Compute scores every number from the series strictly before target.
// weight(n) = Σ decay^age over included draws containing n, where age is the
// count of series between the draw's series and the target (the most recent
// prior series has age 0). The result is normalized; an empty prior history
// yields the uniform distribution.
func (sc *Scorer) Compute(h *draw.History, target int) Weights {
	var w Weights
	prior := h.Before(target)
	ids := prior.IDs()
	if len(ids) == 0 {
		log.Debug().Int("target", target).Msg("no prior history; uniform weights")
		return Uniform()
	}
	for i := len(ids) - 1; i >= 0; i-- {
		age := len(ids) - 1 - i
		if sc.Window > 0 && age >= sc.Window {
			break
		}
		factor := math.Pow(sc.Decay, float64(age))
		series, err := prior.Get(ids[i])
		if err != nil {
			// Cannot happen: ids comes from the same view.
			continue
		}
		for _, d := range series.Draws {
			for _, n := range d.Numbers() {
				w[n] += factor
			}
		}
	}
	return w.Normalize()
}
