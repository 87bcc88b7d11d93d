package match

import (
	"testing"

	"github.com/matryer/is"

	"github.com/javmunozm/randomsub/draw"
)

func mustSet(t *testing.T, nums []int) draw.Set {
	t.Helper()
	s, err := draw.FromNumbers(nums)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestEvaluate(t *testing.T) {
	is := is.New(t)
	cand := mustSet(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14})
	d1 := mustSet(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14})
	d2 := mustSet(t, []int{12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, 25})

	res := Evaluate(cand, []draw.Set{d1, d2})
	is.Equal(res.Best, 14)
	is.Equal(res.PerDraw, []int{14, 3})
}

func TestEvaluatePermutationInvariant(t *testing.T) {
	is := is.New(t)
	cand := mustSet(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 25})
	d1 := mustSet(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14})
	d2 := mustSet(t, []int{12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, 25})

	fwd := Evaluate(cand, []draw.Set{d1, d2})
	rev := Evaluate(cand, []draw.Set{d2, d1})
	is.Equal(fwd.Best, rev.Best)
	is.Equal(fwd.PerDraw[0], rev.PerDraw[1])
	is.Equal(fwd.PerDraw[1], rev.PerDraw[0])
}

func TestEvaluateEmptyDraws(t *testing.T) {
	is := is.New(t)
	cand := mustSet(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14})
	res := Evaluate(cand, nil)
	is.Equal(res.Best, 0)
	is.Equal(len(res.PerDraw), 0)
}

func TestIsJackpot(t *testing.T) {
	is := is.New(t)
	cand := mustSet(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14})
	same := mustSet(t, []int{14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1})
	other := mustSet(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 25})

	is.True(IsJackpot(cand, []draw.Set{other, same}))
	is.True(!IsJackpot(cand, []draw.Set{other}))

	// IsJackpot agrees with Evaluate.Best == 14.
	is.Equal(IsJackpot(cand, []draw.Set{other, same}),
		Evaluate(cand, []draw.Set{other, same}).Best == draw.DrawSize)
	is.Equal(IsJackpot(cand, []draw.Set{other}),
		Evaluate(cand, []draw.Set{other}).Best == draw.DrawSize)
}
