// Package match scores candidate draws against actual draws.
package match

import "github.com/javmunozm/randomsub/draw"

// Result holds the per-draw intersection sizes for one candidate against a
// set of actual draws, and the best of them.
type Result struct {
	Best    int
	PerDraw []int
}

// Evaluate scores candidate against each draw by set-intersection size.
// Pure and deterministic; the result is invariant under permutation of the
// draws (Best) and, trivially, of the candidate's internal ordering.
func Evaluate(candidate draw.Set, draws []draw.Set) Result {
	res := Result{PerDraw: make([]int, len(draws))}
	for i, d := range draws {
		hits := candidate.Overlap(d)
		res.PerDraw[i] = hits
		if hits > res.Best {
			res.Best = hits
		}
	}
	return res
}

// IsJackpot reports whether candidate is set-equal to any of the draws.
// Equivalent to Evaluate(candidate, draws).Best == draw.DrawSize when both
// sides are well-formed draws.
func IsJackpot(candidate draw.Set, draws []draw.Set) bool {
	for _, d := range draws {
		if candidate == d {
			return true
		}
	}
	return false
}
