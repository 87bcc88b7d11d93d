package search

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/javmunozm/randomsub/candgen"
	"github.com/javmunozm/randomsub/draw"
)

func rangeSet(from, to int) draw.Set {
	var s draw.Set
	for n := from; n <= to; n++ {
		s = s.Add(n)
	}
	return s
}

// countingGen records how many times it was asked for a candidate.
type countingGen struct {
	calls int
}

func (g *countingGen) Next() (draw.Set, error) {
	g.calls++
	return rangeSet(1, 14), nil
}

func TestZeroBudget(t *testing.T) {
	is := is.New(t)
	gen := &countingGen{}
	target := []draw.Set{rangeSet(1, 14)}
	driver := NewDriver(gen, target, 0)
	res, err := driver.Run(context.Background())
	is.NoErr(err)
	is.Equal(res.State, StateBudgetExceeded)
	is.Equal(res.Tries, 0)
	is.Equal(gen.calls, 0) // generator and evaluator never invoked
}

func TestExhaustiveFound(t *testing.T) {
	is := is.New(t)
	gen, err := candgen.NewExhaustive(rangeSet(1, 15))
	is.NoErr(err)
	target := []draw.Set{rangeSet(1, 14)}
	driver := NewDriver(gen, target, Unbounded)
	res, err := driver.Run(context.Background())
	is.NoErr(err)
	is.Equal(res.State, StateFound)
	// {1..14} is the lexicographically first combination of the pool.
	is.Equal(res.Tries, 1)
	is.Equal(res.Candidate, rangeSet(1, 14))
	is.Equal(res.Best, 14)
}

func TestExhaustiveExhausted(t *testing.T) {
	is := is.New(t)
	// The target contains number 1, which the pool does not; a jackpot is
	// unreachable, so the driver must sweep the pool and report the best.
	gen, err := candgen.NewExhaustive(rangeSet(2, 16))
	is.NoErr(err)
	target := []draw.Set{rangeSet(1, 14)}
	driver := NewDriver(gen, target, Unbounded)
	res, err := driver.Run(context.Background())
	is.NoErr(err)
	is.Equal(res.State, StateExhausted)
	is.Equal(res.Tries, 15)
	is.Equal(res.Best, 13)
	is.Equal(res.Matches.Count(), 15)
}

func TestBudgetExceededKeepsBest(t *testing.T) {
	is := is.New(t)
	gen, err := candgen.NewExhaustive(rangeSet(2, 16))
	is.NoErr(err)
	target := []draw.Set{rangeSet(1, 14)}
	driver := NewDriver(gen, target, 5)
	res, err := driver.Run(context.Background())
	is.NoErr(err)
	is.Equal(res.State, StateBudgetExceeded)
	is.Equal(res.Tries, 5)
	is.True(res.Best > 0)
	is.True(res.Candidate != 0)
}

func TestContextCancellation(t *testing.T) {
	is := is.New(t)
	gen, err := candgen.NewExhaustive(rangeSet(1, 25))
	is.NoErr(err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	driver := NewDriver(gen, []draw.Set{rangeSet(12, 25)}, Unbounded)
	_, err = driver.Run(ctx)
	is.Equal(err, context.Canceled)
}

func TestLogStream(t *testing.T) {
	is := is.New(t)
	gen, err := candgen.NewExhaustive(rangeSet(1, 15))
	is.NoErr(err)
	var buf bytes.Buffer
	driver := NewDriver(gen, []draw.Set{rangeSet(1, 14)}, Unbounded)
	driver.SetLogStream(&buf)
	_, err = driver.Run(context.Background())
	is.NoErr(err)
	is.True(strings.Contains(buf.String(), "try: 1"))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("stream closed")
}

func TestLogStreamWriteFailure(t *testing.T) {
	is := is.New(t)
	// A broken log stream must not abort the search itself.
	gen, err := candgen.NewExhaustive(rangeSet(1, 15))
	is.NoErr(err)
	driver := NewDriver(gen, []draw.Set{rangeSet(1, 14)}, Unbounded)
	driver.SetLogStream(failingWriter{})
	res, err := driver.Run(context.Background())
	is.NoErr(err)
	is.Equal(res.State, StateFound)
}

func TestSummary(t *testing.T) {
	is := is.New(t)
	gen, err := candgen.NewExhaustive(rangeSet(1, 15))
	is.NoErr(err)
	driver := NewDriver(gen, []draw.Set{rangeSet(1, 14)}, Unbounded)
	res, err := driver.Run(context.Background())
	is.NoErr(err)
	sum := res.Summary()
	is.True(sum.Found)
	is.Equal(sum.Tries, 1)
	is.Equal(sum.BestMatch, 14)
	is.Equal(sum.State, "FOUND")
	is.Equal(len(sum.Combination), draw.DrawSize)
	is.True(sum.TimeSeconds >= 0)
}

func TestStateString(t *testing.T) {
	is := is.New(t)
	is.Equal(StateFound.String(), "FOUND")
	is.Equal(StateExhausted.String(), "EXHAUSTED")
	is.Equal(StateBudgetExceeded.String(), "BUDGET_EXCEEDED")
	is.Equal(StateInit.String(), "INIT")
}
