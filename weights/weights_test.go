package weights

import (
	"math"
	"testing"

	"github.com/matryer/is"

	"github.com/javmunozm/randomsub/draw"
)

func mustDraw(t *testing.T, nums []int) draw.Set {
	t.Helper()
	d, err := draw.NewDraw(nums)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func lowDraw(t *testing.T) draw.Set {
	return mustDraw(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14})
}

func highDraw(t *testing.T) draw.Set {
	return mustDraw(t, []int{12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, 25})
}

func uniformSeries(t *testing.T, id int, d draw.Set) *draw.Series {
	t.Helper()
	s := &draw.Series{ID: id}
	for i := range s.Draws {
		s.Draws[i] = d
	}
	return s
}

func TestFrequencyWeights(t *testing.T) {
	is := is.New(t)
	h := draw.NewHistory()
	is.NoErr(h.Add(uniformSeries(t, 100, lowDraw(t))))

	w := NewScorer().Compute(h, 101)
	for n := 1; n <= 14; n++ {
		is.Equal(w[n], 1.0)
	}
	for n := 15; n <= 25; n++ {
		is.Equal(w[n], 0.0)
	}
}

func TestEmptyHistoryUniform(t *testing.T) {
	is := is.New(t)
	w := NewScorer().Compute(draw.NewHistory(), 101)
	for n := 1; n <= draw.MaxNumber; n++ {
		is.Equal(w[n], 1.0)
	}
}

func TestNoLookAhead(t *testing.T) {
	is := is.New(t)
	h := draw.NewHistory()
	is.NoErr(h.Add(uniformSeries(t, 100, lowDraw(t))))
	is.NoErr(h.Add(uniformSeries(t, 101, highDraw(t))))

	// Weights for target 101 must come from series 100 only.
	w := NewScorer().Compute(h, 101)
	is.Equal(w[25], 0.0)
	is.Equal(w[1], 1.0)
}

func TestDecay(t *testing.T) {
	is := is.New(t)
	h := draw.NewHistory()
	is.NoErr(h.Add(uniformSeries(t, 100, lowDraw(t))))
	is.NoErr(h.Add(uniformSeries(t, 101, highDraw(t))))

	sc := &Scorer{Decay: 0.5}
	w := sc.Compute(h, 102)
	// Numbers 12..14 appear in both series: 7*(1 + 0.5). Numbers 15..25
	// appear only in the newest (age 0): 7. Numbers 1..11 only in the
	// older (age 1): 7*0.5. Normalized by the max.
	maxRaw := 7 * 1.5
	is.True(math.Abs(w[12]-1.0) < 1e-9)
	is.True(math.Abs(w[15]-7.0/maxRaw) < 1e-9)
	is.True(math.Abs(w[1]-3.5/maxRaw) < 1e-9)
}

func TestWindow(t *testing.T) {
	is := is.New(t)
	h := draw.NewHistory()
	is.NoErr(h.Add(uniformSeries(t, 100, lowDraw(t))))
	is.NoErr(h.Add(uniformSeries(t, 101, highDraw(t))))

	sc := &Scorer{Decay: 1.0, Window: 1}
	w := sc.Compute(h, 102)
	// Only series 101 is inside the window.
	is.Equal(w[1], 0.0)
	is.Equal(w[25], 1.0)
}

func TestNormalize(t *testing.T) {
	is := is.New(t)
	var w Weights
	w[3] = 10
	w[7] = 5
	w = w.Normalize()
	is.Equal(w[3], 1.0)
	is.Equal(w[7], 0.5)

	var zero Weights
	is.Equal(zero.Normalize(), Uniform())
}

func TestSqrtTransform(t *testing.T) {
	is := is.New(t)
	w := Uniform()
	w[5] = 0.25
	w = w.Sqrt()
	is.Equal(w[5], 0.5)
	is.Equal(w[1], 1.0)
}
