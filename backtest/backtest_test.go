package backtest

import (
	"context"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/javmunozm/randomsub/draw"
)

func rangeDraw(t *testing.T, from int) draw.Set {
	t.Helper()
	nums := make([]int, draw.DrawSize)
	for i := range nums {
		nums[i] = from + i
	}
	d, err := draw.NewDraw(nums)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func repeatedSeries(t *testing.T, id int, d draw.Set) *draw.Series {
	t.Helper()
	s := &draw.Series{ID: id}
	for i := range s.Draws {
		s.Draws[i] = d
	}
	return s
}

func testHistory(t *testing.T) *draw.History {
	t.Helper()
	h := draw.NewHistory()
	for id := 100; id < 105; id++ {
		if err := h.Add(repeatedSeries(t, id, rangeDraw(t, 1))); err != nil {
			t.Fatal(err)
		}
	}
	return h
}

func TestFrequencyStrategy(t *testing.T) {
	is := is.New(t)
	h := testHistory(t)
	fs := &FrequencyStrategy{}
	cands, err := fs.Predict(h, 104)
	is.NoErr(err)
	is.Equal(len(cands), 1)
	// Every prior draw is {1..14}; the frequency pick must be exactly it.
	is.Equal(cands[0], rangeDraw(t, 1))
}

func TestFusionStrategy(t *testing.T) {
	is := is.New(t)
	h := testHistory(t)
	fs := &FusionStrategy{}
	cands, err := fs.Predict(h, 104)
	is.NoErr(err)
	is.Equal(len(cands), 1)
	is.Equal(cands[0], rangeDraw(t, 1))

	_, err = fs.Predict(h, 100)
	is.True(err != nil)
}

func TestLearnerStrategy(t *testing.T) {
	is := is.New(t)
	h := testHistory(t)
	ls := &LearnerStrategy{Candidates: 3, Seed: 42}
	cands, err := ls.Predict(h, 104)
	is.NoErr(err)
	is.Equal(len(cands), 3)
	for _, c := range cands {
		is.True(c.IsDraw())
	}

	again, err := ls.Predict(h, 104)
	is.NoErr(err)
	is.Equal(cands, again)
}

func TestRunnerWalkForward(t *testing.T) {
	is := is.New(t)
	h := testHistory(t)
	r := NewRunner(h, 2)
	rep, err := r.Run(context.Background(), &FrequencyStrategy{}, 100, 104)
	is.NoErr(err)
	is.Equal(rep.Strategy, "frequency")
	is.Equal(len(rep.Results), 5)
	// Series 100 has no prior history and is skipped, not failed.
	is.Equal(rep.Skipped, 1)
	is.Equal(rep.MatchStats.Count(), 4)
	// Constant history: every later prediction is a jackpot.
	is.Equal(rep.Jackpots, 4)
	is.Equal(rep.MatchStats.Mean(), 14.0)
}

func TestRunnerEmptyRange(t *testing.T) {
	is := is.New(t)
	r := NewRunner(testHistory(t), 1)
	_, err := r.Run(context.Background(), &FrequencyStrategy{}, 1, 2)
	is.True(err != nil)

	_, err = r.Run(context.Background(), &FrequencyStrategy{}, 104, 100)
	is.True(err != nil)
}

func TestReportString(t *testing.T) {
	is := is.New(t)
	r := NewRunner(testHistory(t), 1)
	rep, err := r.Run(context.Background(), &FrequencyStrategy{}, 100, 104)
	is.NoErr(err)
	out := rep.String()
	is.True(strings.Contains(out, "strategy: frequency"))
	is.True(strings.Contains(out, "jackpots 4"))
	is.True(strings.Contains(out, "14/14: 4"))
}
